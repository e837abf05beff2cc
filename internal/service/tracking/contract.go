//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=tracking_test
package tracking

import (
	"context"
	"net/http"
	"time"

	"dispatch/internal/entities"
	"dispatch/internal/service/dispatch"
	"dispatch/pkg/logger"
)

type RequestRepository interface {
	GetByID(ctx context.Context, id string) (*entities.Request, error)
	Update(ctx context.Context, requestModify entities.RequestModify) error
	SetVolunteers(ctx context.Context, id string, volunteers []string) error
}

type OrderRepository interface {
	GetByProviderOrderID(ctx context.Context, provider entities.Provider, providerOrderID string) (*entities.Order, error)
	GetActiveByRequestID(ctx context.Context, requestID string) (*entities.Order, error)
	ListActive(ctx context.Context, provider entities.Provider, pickupBefore int64, afterID int64, limit int) ([]entities.Order, error)
}

type Writer interface {
	Apply(ctx context.Context, ws entities.WriteSet) error
}

type Adapter interface {
	Provider() entities.Provider
	GetOrder(ctx context.Context, providerOrderID string) (*entities.ProviderOrder, error)
	Cancel(ctx context.Context, providerOrderID string) error
	ParseWebhook(header http.Header, body []byte) (*entities.WebhookEvent, error)
}

type RetryPolicy interface {
	Enabled() bool
	ShouldRetry(request entities.Request, remote entities.ProviderOrder, now time.Time) bool
	Reschedule(request entities.Request, order entities.Order, remote entities.ProviderOrder, now time.Time) (entities.RequestModify, entities.RetryRecord)
}

type Dispatcher interface {
	SubmitRequest(ctx context.Context, requestID string) (dispatch.Stats, error)
}

type Notifier interface {
	Notify(ctx context.Context, notifications ...entities.Notification)
}

type TxManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Retrier повторяет сериализуемую транзакцию при конфликте.
type Retrier interface {
	ExecuteWithContext(ctx context.Context, fn func(context.Context) error) error
}

type handlerLogger interface {
	Info(msg string, fields ...logger.Field)
	Warn(msg string, fields ...logger.Field)
	Error(msg string, fields ...logger.Field)
	With(fields ...logger.Field) logger.Logger
}
