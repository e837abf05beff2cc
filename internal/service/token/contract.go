//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=token_test
package token

import (
	"context"
	"time"

	"dispatch/internal/entities"
	"dispatch/pkg/logger"
)

// Repository хранилище токенов: только вставка, актуальный токен самый свежий.
type Repository interface {
	GetLatest(ctx context.Context, provider entities.Provider) (*entities.AccessToken, error)
	Create(ctx context.Context, token entities.AccessToken) (*entities.AccessToken, error)
}

// Cache горячий кэш перед базой.
type Cache interface {
	Get(ctx context.Context, provider entities.Provider) (*entities.AccessToken, error)
	Set(ctx context.Context, token entities.AccessToken, ttl time.Duration) error
	Delete(ctx context.Context, provider entities.Provider) error
}

// Issuer получает новый токен у провайдера.
type Issuer interface {
	IssueToken(ctx context.Context) (*entities.AccessToken, error)
}

type handlerLogger interface {
	Info(msg string, fields ...logger.Field)
	Warn(msg string, fields ...logger.Field)
	Error(msg string, fields ...logger.Field)
	With(fields ...logger.Field) logger.Logger
}
