//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=batchwrite_test
package batchwrite

import (
	"context"

	"dispatch/internal/entities"
)

type RequestRepository interface {
	Update(ctx context.Context, requestModify entities.RequestModify) error
}

type OrderRepository interface {
	Create(ctx context.Context, order entities.Order) (*entities.Order, error)
	Update(ctx context.Context, orderModify entities.OrderModify) error
}

type RetryRepository interface {
	Create(ctx context.Context, record entities.RetryRecord) error
}

type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}
