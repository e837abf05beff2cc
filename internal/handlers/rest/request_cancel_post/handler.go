package request_cancel_post

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"dispatch/internal/apperr"
	"dispatch/internal/entities"
	"dispatch/internal/service/tracking"
	"dispatch/pkg/logger"
)

type Handler struct {
	log     handlerLogger
	service Service
}

func New(log handlerLogger, service Service) *Handler {
	return &Handler{
		log:     log.With(logger.NewField("handler", "request_cancel_post")),
		service: service,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestID := mux.Vars(r)["id"]
	if requestID == "" {
		h.writeError(w, http.StatusBadRequest, apperr.New(apperr.LabelBadRequest, "request id is required"))
		return
	}

	err := h.service.CancelRequest(r.Context(), requestID)
	if err != nil {
		switch {
		case errors.Is(err, tracking.ErrRequestNotFound):
			h.writeError(w, http.StatusNotFound, apperr.New(apperr.LabelRequestNotFound, "request not found"))
		case errors.Is(err, tracking.ErrRequestAlreadyClosed):
			h.writeError(w, http.StatusConflict, apperr.New(apperr.LabelRequestAlreadyClosed, "request is already closed"))
		case errors.Is(err, tracking.ErrProviderCancelFailed):
			h.log.Warn("provider refused cancellation",
				logger.NewField("request_id", requestID),
				logger.NewField("error", err),
			)
			h.writeError(w, http.StatusBadGateway, apperr.New(apperr.LabelProviderCancelFailed, "courier provider refused to cancel the order"))
		default:
			h.log.Error("cancel request failed",
				logger.NewField("request_id", requestID),
				logger.NewField("error", err),
			)
			h.writeError(w, http.StatusInternalServerError, apperr.New(apperr.LabelInternal, "internal error"))
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	err = json.NewEncoder(w).Encode(response{
		RequestID: requestID,
		Status:    entities.RequestClosed.String(),
		Outcome:   entities.OutcomeCancelled.String(),
	})
	if err != nil {
		h.log.Error("encode JSON response", logger.NewField("error", err))
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, e *apperr.Error) {
	if err := apperr.Write(w, status, e); err != nil {
		h.log.Error("encode JSON response", logger.NewField("error", err))
	}
}
