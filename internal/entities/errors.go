package entities

import "errors"

// Ошибки общения с провайдером, которые различают сервисы.
// Гейтвеи оборачивают их так, чтобы работал errors.Is.
var (
	ErrProviderOrderNotFound = errors.New("provider has no such order")
	ErrProviderUnauthorized  = errors.New("provider rejected credentials")
	ErrInvalidSignature      = errors.New("webhook signature mismatch")
	ErrMalformedWebhook      = errors.New("malformed webhook payload")
)
