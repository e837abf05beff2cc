package webhook_post

import (
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"dispatch/internal/apperr"
	"dispatch/internal/entities"
	"dispatch/internal/service/tracking"
	"dispatch/pkg/logger"
)

// maxBodySize вебхуки провайдеров маленькие, больше - это не вебхук.
const maxBodySize = 1 << 20

type Handler struct {
	log     handlerLogger
	service Service
}

func New(log handlerLogger, service Service) *Handler {
	return &Handler{
		log:     log.With(logger.NewField("handler", "webhook_post")),
		service: service,
	}
}

// ServeHTTP отвечает провайдеру: 200 - принято (в том числе повтор),
// 403 - подпись не сошлась, 404 - заказ неизвестен, 400 - тело не разобрать.
// На 5xx провайдер повторит доставку.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	provider := entities.Provider(mux.Vars(r)["provider"])

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize+1))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, apperr.New(apperr.LabelMalformedWebhook, "cannot read body"))
		return
	}
	if len(body) > maxBodySize {
		h.writeError(w, http.StatusRequestEntityTooLarge, apperr.New(apperr.LabelMalformedWebhook, "body too large"))
		return
	}

	err = h.service.HandleWebhook(r.Context(), provider, r.Header, body)
	if err != nil {
		log := h.log.With(
			logger.NewField("provider", provider),
			logger.NewField("error", err),
		)
		switch {
		case errors.Is(err, entities.ErrInvalidSignature):
			log.Warn("webhook signature rejected")
			h.writeError(w, http.StatusForbidden, apperr.New(apperr.LabelInvalidSignature, "signature mismatch"))
		case errors.Is(err, tracking.ErrUnknownProvider):
			h.writeError(w, http.StatusNotFound, apperr.New(apperr.LabelUnknownProvider, "unknown provider"))
		case errors.Is(err, tracking.ErrOrderNotFound):
			log.Warn("webhook for unknown order")
			h.writeError(w, http.StatusNotFound, apperr.New(apperr.LabelOrderNotFound, "order not found"))
		case errors.Is(err, entities.ErrMalformedWebhook):
			log.Warn("malformed webhook")
			h.writeError(w, http.StatusBadRequest, apperr.New(apperr.LabelMalformedWebhook, "malformed payload"))
		default:
			log.Error("webhook processing failed")
			h.writeError(w, http.StatusInternalServerError, apperr.New(apperr.LabelInternal, "internal error"))
		}
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *Handler) writeError(w http.ResponseWriter, status int, e *apperr.Error) {
	if err := apperr.Write(w, status, e); err != nil {
		h.log.Error("encode JSON response", logger.NewField("error", err))
	}
}
