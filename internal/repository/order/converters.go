package order

import "dispatch/internal/entities"

func ToDomain(o *OrderDB) *entities.Order {
	if o == nil {
		return nil
	}

	history := make([]entities.SubStatus, len(o.StatusHistory))
	for i, s := range o.StatusHistory {
		history[i] = entities.SubStatus(s)
	}

	return &entities.Order{
		ID:              o.ID,
		Provider:        entities.Provider(o.Provider),
		ProviderOrderID: o.ProviderOrderID,
		RequestID:       o.RequestID,
		RetryGeneration: o.RetryGeneration,
		Status:          entities.OrderStatus(o.Status),
		ProviderStatus:  o.ProviderStatus,
		SubStatus:       entities.SubStatus(o.SubStatus),
		PickupAt:        o.PickupAt,
		BatchSize:       o.BatchSize,
		BatchPosition:   o.BatchPosition,
		StatusHistory:   history,
		Fee:             o.Fee,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

func FromDomain(o *entities.Order) *OrderDB {
	if o == nil {
		return nil
	}

	return &OrderDB{
		ID:              o.ID,
		Provider:        o.Provider.String(),
		ProviderOrderID: o.ProviderOrderID,
		RequestID:       o.RequestID,
		RetryGeneration: o.RetryGeneration,
		Status:          o.Status.String(),
		ProviderStatus:  o.ProviderStatus,
		SubStatus:       o.SubStatus.String(),
		PickupAt:        o.PickupAt,
		BatchSize:       o.BatchSize,
		BatchPosition:   o.BatchPosition,
		StatusHistory:   fromHistory(o.StatusHistory),
		Fee:             o.Fee,
	}
}

func FromDomainModify(m *entities.OrderModify) *OrderModifyDB {
	if m == nil {
		return nil
	}

	modifyDB := &OrderModifyDB{
		ID:             m.ID,
		ProviderStatus: m.ProviderStatus,
	}
	if m.Status != nil {
		status := m.Status.String()
		modifyDB.Status = &status
	}
	if m.SubStatus != nil {
		sub := m.SubStatus.String()
		modifyDB.SubStatus = &sub
	}
	if m.StatusHistory != nil {
		modifyDB.StatusHistory = fromHistory(m.StatusHistory)
	}
	return modifyDB
}

func fromHistory(history []entities.SubStatus) []string {
	out := make([]string, len(history))
	for i, s := range history {
		out[i] = s.String()
	}
	return out
}

func ToDomainList(ordersDB []OrderDB) []entities.Order {
	if len(ordersDB) == 0 {
		return []entities.Order{}
	}

	result := make([]entities.Order, len(ordersDB))
	for i, orderDB := range ordersDB {
		result[i] = *ToDomain(&orderDB)
	}
	return result
}
