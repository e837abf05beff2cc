package request_cancel_post

type response struct {
	RequestID string `json:"request_id"`
	Status    string `json:"status"`
	Outcome   string `json:"outcome"`
}
