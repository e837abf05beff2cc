package entities

// MaxWriteSetOps ограничение на число мутаций в одной атомарной записи.
// Чанк опроса в 250 заказов дает не больше 750 операций.
const MaxWriteSetOps = 1000

// WriteSet набор мутаций, которые применяются одной транзакцией или не применяются вовсе.
type WriteSet struct {
	Requests     []RequestModify
	NewOrders    []Order
	Orders       []OrderModify
	RetryRecords []RetryRecord
}

func (w *WriteSet) Len() int {
	return len(w.Requests) + len(w.NewOrders) + len(w.Orders) + len(w.RetryRecords)
}

func (w *WriteSet) Empty() bool {
	return w.Len() == 0
}

func (w *WriteSet) Merge(other WriteSet) {
	w.Requests = append(w.Requests, other.Requests...)
	w.NewOrders = append(w.NewOrders, other.NewOrders...)
	w.Orders = append(w.Orders, other.Orders...)
	w.RetryRecords = append(w.RetryRecords, other.RetryRecords...)
}
