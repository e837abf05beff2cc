package request

import "time"

type RequestDB struct {
	ID                string
	RequesterID       string
	SupplierID        string
	RecipientID       string
	PickupAt          int64
	Mode              string
	Status            string
	Outcome           *string
	ProviderStatus    string
	RetryCount        int
	PreviousProvider  *string
	DeliveryWindowID  *string
	DeliveryWindowEnd *time.Time
	DeliveryFee       *int64
	DeliveryCost      *int64
	Volunteers        []string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

type RequestModifyDB struct {
	ID               *string
	Status           *string
	Outcome          *string
	ProviderStatus   *string
	RetryCount       *int
	PreviousProvider *string
	Mode             *string
	PickupAt         *int64
	DeliveryFee      *int64
	DeliveryCost     *int64
	ExpectStatus     []string
}

type AddressDB struct {
	Formatted *string
	Lat       *float64
	Lng       *float64
	Geohash   *string
	PlaceID   *string
}

type PartyDB struct {
	ID      *string
	Name    *string
	Phone   *string
	Notes   *string
	Address AddressDB
}
