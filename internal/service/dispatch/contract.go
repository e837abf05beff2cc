//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=dispatch_test
package dispatch

import (
	"context"

	"dispatch/internal/entities"
	"dispatch/pkg/logger"
)

type RequestRepository interface {
	ListDue(ctx context.Context, provider entities.Provider, until int64, limit int) ([]entities.Request, error)
	ListDispatchItems(ctx context.Context, ids []string) ([]entities.DispatchItem, error)
	UpdateRecipientAddress(ctx context.Context, recipientID string, address entities.GeocodedAddress) error
}

type Writer interface {
	Apply(ctx context.Context, ws entities.WriteSet) error
}

type Geocoder interface {
	Geocode(ctx context.Context, address string) (*entities.GeocodedAddress, error)
}

// Adapter курьерский провайдер.
type Adapter interface {
	Provider() entities.Provider
	Submit(ctx context.Context, batch entities.Batch) (*entities.SubmissionResult, error)
	Cancel(ctx context.Context, providerOrderID string) error
}

type handlerLogger interface {
	Info(msg string, fields ...logger.Field)
	Warn(msg string, fields ...logger.Field)
	Error(msg string, fields ...logger.Field)
	With(fields ...logger.Field) logger.Logger
}
