package entities

// DispatchItem заявка вместе со всем, что нужно для отправки провайдеру.
// Supplier/Recipient nil, если запись не нашлась.
type DispatchItem struct {
	Request   Request
	Supplier  *Supplier
	Recipient *Recipient
}

type Stop struct {
	Request   Request
	Recipient Recipient
}

// Batch упорядоченный список остановок одного рейса. В базе не хранится.
type Batch struct {
	Provider Provider
	Pickup   Supplier
	PickupAt int64
	Stops    []Stop
}

func (b *Batch) RequestIDs() []string {
	ids := make([]string, 0, len(b.Stops))
	for _, s := range b.Stops {
		ids = append(ids, s.Request.ID)
	}
	return ids
}

// SubmittedStop результат отправки одной остановки.
type SubmittedStop struct {
	RequestID       string
	ProviderOrderID string
	RawStatus       string
	Status          CourierStatus
	Fee             *int64
	Rejected        bool
	RejectReason    string
}

type SubmissionResult struct {
	Stops []SubmittedStop
}
