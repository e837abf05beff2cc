package ping_get

type pingResponse struct {
	Message string `json:"message"`
	Service string `json:"service,omitempty"`
}
