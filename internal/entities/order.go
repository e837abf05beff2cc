package entities

import "time"

// MaxStatusHistory сколько последних подстатусов храним у заказа.
const MaxStatusHistory = 50

type OrderStatus string

const (
	OrderActive    OrderStatus = "ACTIVE"
	OrderCompleted OrderStatus = "COMPLETED"
	OrderFailed    OrderStatus = "FAILED"
	OrderCancelled OrderStatus = "CANCELLED"
)

func (s OrderStatus) String() string {
	return string(s)
}

func (s OrderStatus) IsTerminal() bool {
	return s != OrderActive
}

// Order заказ на стороне провайдера, привязан к заявке и поколению ретрая.
type Order struct {
	ID              int64
	Provider        Provider
	ProviderOrderID string
	RequestID       string
	RetryGeneration int
	Status          OrderStatus
	ProviderStatus  string
	SubStatus       SubStatus
	PickupAt        int64
	BatchSize       int
	BatchPosition   int
	StatusHistory   []SubStatus
	Fee             *int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type OrderModify struct {
	ID             *int64
	Status         *OrderStatus
	ProviderStatus *string
	SubStatus      *SubStatus
	StatusHistory  []SubStatus
}

func (m OrderModify) Empty() bool {
	return m.Status == nil &&
		m.ProviderStatus == nil &&
		m.SubStatus == nil &&
		m.StatusHistory == nil
}

// SubStatus человекочитаемая стадия доставки, которую видит заявитель.
type SubStatus string

const (
	SubStatusPending          SubStatus = "PENDING"
	SubStatusEnRouteToPickup  SubStatus = "EN_ROUTE_TO_PICKUP"
	SubStatusArrivedAtPickup  SubStatus = "ARRIVED_AT_PICKUP"
	SubStatusPickedUp         SubStatus = "PICKED_UP"
	SubStatusEnRouteToDropoff SubStatus = "EN_ROUTE_TO_DROPOFF"
	SubStatusArrivedAtDropoff SubStatus = "ARRIVED_AT_DROPOFF"
	SubStatusDroppedOff       SubStatus = "DROPPED_OFF"
	SubStatusReturned         SubStatus = "RETURNED"
	SubStatusFailed           SubStatus = "FAILED"
	SubStatusCancelled        SubStatus = "CANCELLED"
)

func (s SubStatus) String() string {
	return string(s)
}

// RetryRecord неизменяемый снимок попытки повторной отправки.
type RetryRecord struct {
	ID              string
	RequestID       string
	Attempt         int
	PickupAt        int64
	PreviousOrderID string
	Reason          string
	CreatedAt       time.Time
}
