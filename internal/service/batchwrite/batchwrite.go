// Package batchwrite применяет набор мутаций одной транзакцией: либо все, либо ничего.
package batchwrite

import (
	"context"
	"fmt"

	"dispatch/internal/entities"
)

type Writer struct {
	requests  RequestRepository
	orders    OrderRepository
	retries   RetryRepository
	txManager TxManager
}

func New(
	requests RequestRepository,
	orders OrderRepository,
	retries RetryRepository,
	txManager TxManager,
) *Writer {
	return &Writer{
		requests:  requests,
		orders:    orders,
		retries:   retries,
		txManager: txManager,
	}
}

func (w *Writer) Apply(ctx context.Context, ws entities.WriteSet) error {
	if ws.Empty() {
		return nil
	}
	if ws.Len() > entities.MaxWriteSetOps {
		return fmt.Errorf("%w: %d", ErrTooLarge, ws.Len())
	}

	for _, r := range ws.Requests {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("invalid request patch: %w", err)
		}
	}

	return w.txManager.Do(ctx, func(ctx context.Context) error {
		// сначала заказы: при конфликте уникальности заявки не должны уйти в pending
		for _, o := range ws.NewOrders {
			if _, err := w.orders.Create(ctx, o); err != nil {
				return fmt.Errorf("create order %s: %w", o.ProviderOrderID, err)
			}
		}
		for _, o := range ws.Orders {
			if err := w.orders.Update(ctx, o); err != nil {
				return fmt.Errorf("update order: %w", err)
			}
		}
		for _, r := range ws.Requests {
			if err := w.requests.Update(ctx, r); err != nil {
				return fmt.Errorf("update request: %w", err)
			}
		}
		for _, rec := range ws.RetryRecords {
			if err := w.retries.Create(ctx, rec); err != nil {
				return fmt.Errorf("create retry record: %w", err)
			}
		}
		return nil
	})
}
