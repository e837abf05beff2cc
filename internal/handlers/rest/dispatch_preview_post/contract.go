//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=dispatch_preview_post_test
package dispatch_preview_post

import (
	"context"

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
	Preview(ctx context.Context, provider entities.Provider) ([][]string, error)
}
