package volunteer_unassign_post

type response struct {
	RequestID  string   `json:"request_id"`
	Status     string   `json:"status"`
	Volunteers []string `json:"volunteers"`
}
