//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=webhook_post_test
package webhook_post

import (
	"context"
	"net/http"

	"dispatch/internal/entities"
	"dispatch/pkg/logger"
)

type handlerLogger interface {
	Info(msg string, fields ...logger.Field)
	Warn(msg string, fields ...logger.Field)
	Error(msg string, fields ...logger.Field)
	With(fields ...logger.Field) logger.Logger
}

type Service interface {
	HandleWebhook(ctx context.Context, provider entities.Provider, header http.Header, body []byte) error
}
