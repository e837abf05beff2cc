package notifier

import "time"

type message struct {
	ID          string    `json:"id"`
	Kind        string    `json:"kind"`
	RequestID   string    `json:"request_id"`
	RequesterID string    `json:"requester_id"`
	Provider    string    `json:"provider,omitempty"`
	TrackingURL string    `json:"tracking_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
