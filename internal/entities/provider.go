package entities

import "time"

type Provider string

const (
	ProviderUber Provider = "uber"
	ProviderLyft Provider = "lyft"
)

func (p Provider) String() string {
	return string(p)
}

func (p Provider) Valid() bool {
	switch p {
	case ProviderUber, ProviderLyft:
		return true
	default:
		return false
	}
}

// CourierStatus нормализованный статус провайдера. Каждый адаптер
// переводит свои сырые строки в этот набор.
type CourierStatus string

const (
	CourierUnknown          CourierStatus = ""
	CourierPending          CourierStatus = "pending"
	CourierAccepted         CourierStatus = "accepted"
	CourierArrivedAtPickup  CourierStatus = "arrived_at_pickup"
	CourierPickedUp         CourierStatus = "picked_up"
	CourierEnRouteToDropoff CourierStatus = "en_route_to_dropoff"
	CourierArrivedAtDropoff CourierStatus = "arrived_at_dropoff"
	CourierDroppedOff       CourierStatus = "dropped_off"
	CourierReturned         CourierStatus = "returned"
	CourierFailed           CourierStatus = "failed"
	CourierCancelled        CourierStatus = "cancelled"
)

func (s CourierStatus) String() string {
	return string(s)
}

type FailureReason string

const (
	FailureNone             FailureReason = ""
	FailureCourierCancelled FailureReason = "courier_cancelled"
	FailureUndeliverable    FailureReason = "undeliverable"
	FailureOther            FailureReason = "other"
)

// ProviderOrder снимок заказа в том виде, в каком его вернул провайдер.
type ProviderOrder struct {
	Provider      Provider
	ID            string
	RawStatus     string
	Status        CourierStatus
	FailureReason FailureReason
	Fee           *int64
	Cost          *int64
	TrackingURL   string
	UpdatedAt     time.Time
}

// WebhookEvent разобранное уведомление провайдера. Order == nil, если
// провайдер прислал только ссылку на ресурс.
type WebhookEvent struct {
	Provider        Provider
	DeliveryID      string
	Type            string
	ProviderOrderID string
	Order           *ProviderOrder
}
