package request

import (
	"dispatch/internal/entities"
)

func ToDomain(r *RequestDB) *entities.Request {
	if r == nil {
		return nil
	}

	req := &entities.Request{
		ID:                r.ID,
		RequesterID:       r.RequesterID,
		SupplierID:        r.SupplierID,
		RecipientID:       r.RecipientID,
		PickupAt:          r.PickupAt,
		Mode:              entities.FulfillmentMode(r.Mode),
		Status:            entities.RequestStatus(r.Status),
		ProviderStatus:    r.ProviderStatus,
		RetryCount:        r.RetryCount,
		PreviousProvider:  r.PreviousProvider,
		DeliveryWindowID:  r.DeliveryWindowID,
		DeliveryWindowEnd: r.DeliveryWindowEnd,
		DeliveryFee:       r.DeliveryFee,
		DeliveryCost:      r.DeliveryCost,
		Volunteers:        r.Volunteers,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
	if r.Outcome != nil {
		outcome := entities.RequestOutcome(*r.Outcome)
		req.Outcome = &outcome
	}
	if req.Volunteers == nil {
		req.Volunteers = []string{}
	}
	return req
}

func FromDomainModify(m *entities.RequestModify) *RequestModifyDB {
	if m == nil {
		return nil
	}

	modifyDB := &RequestModifyDB{
		ID:               m.ID,
		ProviderStatus:   m.ProviderStatus,
		RetryCount:       m.RetryCount,
		PreviousProvider: m.PreviousProvider,
		PickupAt:         m.PickupAt,
		DeliveryFee:      m.DeliveryFee,
		DeliveryCost:     m.DeliveryCost,
	}
	if m.Status != nil {
		status := m.Status.String()
		modifyDB.Status = &status
	}
	if m.Outcome != nil {
		outcome := m.Outcome.String()
		modifyDB.Outcome = &outcome
	}
	if m.Mode != nil {
		mode := m.Mode.String()
		modifyDB.Mode = &mode
	}
	for _, st := range m.ExpectStatus {
		modifyDB.ExpectStatus = append(modifyDB.ExpectStatus, st.String())
	}
	return modifyDB
}

func toAddress(a AddressDB) entities.Address {
	addr := entities.Address{}
	if a.Formatted != nil {
		addr.Formatted = *a.Formatted
	}
	if a.Lat != nil && a.Lng != nil {
		addr.Location = &entities.Point{Lat: *a.Lat, Lng: *a.Lng}
	}
	if a.Geohash != nil {
		addr.Geohash = *a.Geohash
	}
	if a.PlaceID != nil {
		addr.PlaceID = *a.PlaceID
	}
	return addr
}

func toSupplier(p PartyDB) *entities.Supplier {
	if p.ID == nil {
		return nil
	}
	s := &entities.Supplier{
		ID:      *p.ID,
		Address: toAddress(p.Address),
	}
	if p.Name != nil {
		s.Name = *p.Name
	}
	if p.Phone != nil {
		s.Phone = *p.Phone
	}
	return s
}

func toRecipient(p PartyDB) *entities.Recipient {
	if p.ID == nil {
		return nil
	}
	r := &entities.Recipient{
		ID:      *p.ID,
		Address: toAddress(p.Address),
	}
	if p.Name != nil {
		r.Name = *p.Name
	}
	if p.Phone != nil {
		r.Phone = *p.Phone
	}
	if p.Notes != nil {
		r.Notes = *p.Notes
	}
	return r
}
