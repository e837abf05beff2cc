package lyft

import "time"

type place struct {
	Address string  `json:"address"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
}

type contact struct {
	Name  string `json:"name,omitempty"`
	Phone string `json:"phone_number,omitempty"`
}

type waypoint struct {
	Ref          string  `json:"ref"`
	Kind         string  `json:"kind"`
	Location     place   `json:"location"`
	Contact      contact `json:"contact"`
	Instructions string  `json:"instructions,omitempty"`
}

type pathRequest struct {
	ScheduledAt *time.Time `json:"scheduled_pickup_time,omitempty"`
	Waypoints   []waypoint `json:"waypoints"`
}

type money struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

type delivery struct {
	Ref     string `json:"ref"`
	OrderID string `json:"order_id"`
	State   string `json:"state"`
	Price   *money `json:"price"`
	Error   string `json:"error"`
}

type pathResponse struct {
	PathID     string     `json:"path_id"`
	Deliveries []delivery `json:"deliveries"`
}

type orderResponse struct {
	ID           string    `json:"id"`
	State        string    `json:"state"`
	CancelReason string    `json:"cancel_reason"`
	Price        *money    `json:"price"`
	Cost         *money    `json:"cost"`
	TrackingURL  string    `json:"tracking_url"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type webhookEvent struct {
	EventID   string `json:"event_id"`
	EventType string `json:"event_type"`
	Resource  string `json:"resource"`
}
