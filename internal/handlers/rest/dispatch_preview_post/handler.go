package dispatch_preview_post

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"dispatch/internal/apperr"
	"dispatch/internal/entities"
	"dispatch/internal/service/dispatch"
	"dispatch/pkg/logger"
)

// Handler показывает, как диспетчер разбил бы текущую очередь на рейсы,
// ничего не отправляя провайдеру.
type Handler struct {
	log     handlerLogger
	service Service
}

func New(log handlerLogger, service Service) *Handler {
	return &Handler{
		log:     log.With(logger.NewField("handler", "dispatch_preview_post")),
		service: service,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	provider := entities.Provider(mux.Vars(r)["provider"])

	batches, err := h.service.Preview(r.Context(), provider)
	if err != nil {
		if errors.Is(err, dispatch.ErrUnknownProvider) {
			h.writeError(w, http.StatusNotFound, apperr.New(apperr.LabelUnknownProvider, "unknown provider"))
			return
		}
		h.log.Error("dispatch preview failed",
			logger.NewField("provider", provider),
			logger.NewField("error", err),
		)
		h.writeError(w, http.StatusInternalServerError, apperr.New(apperr.LabelInternal, "internal error"))
		return
	}

	if batches == nil {
		batches = [][]string{}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(response{Provider: provider.String(), Batches: batches}); err != nil {
		h.log.Error("encode JSON response", logger.NewField("error", err))
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, e *apperr.Error) {
	if err := apperr.Write(w, status, e); err != nil {
		h.log.Error("encode JSON response", logger.NewField("error", err))
	}
}
