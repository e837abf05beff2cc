package ping_get

import (
	"encoding/json"
	"net/http"

	"dispatch/pkg/logger"
)

type Handler struct {
	log     handlerLogger
	service string
}

func New(log handlerLogger, service string) *Handler {
	return &Handler{
		log:     log.With(logger.NewField("handler", "ping_get")),
		service: service,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(pingResponse{
		Message: "pong",
		Service: h.service,
	})
	if err != nil {
		h.log.Error("encode JSON response", logger.NewField("error", err))
	}
}
