package dispatch_preview_post

type response struct {
	Provider string     `json:"provider"`
	Batches  [][]string `json:"batches"`
}
