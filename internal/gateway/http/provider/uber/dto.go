package uber

import "time"

type location struct {
	Name    string  `json:"name,omitempty"`
	Phone   string  `json:"phone,omitempty"`
	Address string  `json:"address"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Notes   string  `json:"notes,omitempty"`
}

type item struct {
	Title    string `json:"title"`
	Quantity int    `json:"quantity"`
}

type stop struct {
	location
	ExternalID string `json:"external_id"`
	Items      []item `json:"items"`
}

type estimateRequest struct {
	Pickup        location   `json:"pickup"`
	Dropoffs      []location `json:"dropoffs"`
	PickupReadyAt *time.Time `json:"pickup_ready_at,omitempty"`
}

type estimateResponse struct {
	ID        string    `json:"id"`
	Fee       int64     `json:"fee"`
	Currency  string    `json:"currency"`
	ExpiresAt time.Time `json:"expires_at"`
}

type createOrdersRequest struct {
	EstimateID    string     `json:"estimate_id"`
	Pickup        location   `json:"pickup"`
	PickupReadyAt *time.Time `json:"pickup_ready_at,omitempty"`
	Stops         []stop     `json:"stops"`
}

type createdOrder struct {
	ExternalID   string `json:"external_id"`
	ID           string `json:"id"`
	Status       string `json:"status"`
	Fee          *int64 `json:"fee"`
	Rejected     bool   `json:"rejected"`
	RejectReason string `json:"reject_reason"`
}

type createOrdersResponse struct {
	Orders []createdOrder `json:"orders"`
}

type orderResponse struct {
	ID            string    `json:"id"`
	Status        string    `json:"status"`
	FailureReason string    `json:"failure_reason"`
	Fee           *int64    `json:"fee"`
	Cost          *int64    `json:"cost"`
	TrackingURL   string    `json:"tracking_url"`
	Updated       time.Time `json:"updated"`
}

type webhookEvent struct {
	ID         string         `json:"id"`
	Kind       string         `json:"kind"`
	DeliveryID string         `json:"delivery_id"`
	Status     string         `json:"status"`
	Data       *orderResponse `json:"data"`
}
