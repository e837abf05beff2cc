package order

import "time"

type OrderDB struct {
	ID              int64
	Provider        string
	ProviderOrderID string
	RequestID       string
	RetryGeneration int
	Status          string
	ProviderStatus  string
	SubStatus       string
	PickupAt        int64
	BatchSize       int
	BatchPosition   int
	StatusHistory   []string
	Fee             *int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type OrderModifyDB struct {
	ID             *int64
	Status         *string
	ProviderStatus *string
	SubStatus      *string
	StatusHistory  []string
}
