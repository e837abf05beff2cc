// Package apperr ошибки, которые видит клиент API: стабильная метка и текст.
package apperr

import (
	"encoding/json"
	"net/http"
)

const (
	LabelBadRequest           = "bad_request"
	LabelInternal             = "internal_error"
	LabelRateLimited          = "rate_limited"
	LabelShuttingDown         = "shutting_down"
	LabelUnknownProvider      = "unknown_provider"
	LabelRequestNotFound      = "request_not_found"
	LabelRequestAlreadyClosed = "request_already_closed"
	LabelProviderCancelFailed = "provider_cancel_failed"
	LabelVolunteerNotAssigned = "volunteer_not_assigned"
	LabelInvalidSignature     = "invalid_signature"
	LabelOrderNotFound        = "order_not_found"
	LabelMalformedWebhook     = "malformed_webhook"
	LabelConflict             = "conflict"
)

type Error struct {
	Label   string `json:"label"`
	Message string `json:"message"`
}

func New(label, message string) *Error {
	return &Error{Label: label, Message: message}
}

func (e *Error) Error() string {
	return e.Label + ": " + e.Message
}

// Write отдает ошибку в теле ответа. Ошибку записи возвращает вызывающему
// для логирования, статус к этому моменту уже отправлен.
func Write(w http.ResponseWriter, status int, e *Error) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(e)
}
