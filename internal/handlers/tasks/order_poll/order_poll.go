package order_poll

import (
	"context"
	"fmt"
	"time"

	"dispatch/internal/entities"
)

// OrderPoll страховка на случай потерянных вебхуков: сверка активных заказов провайдера.
type OrderPoll struct {
	service  Service
	provider entities.Provider
	interval time.Duration
}

func New(service Service, provider entities.Provider, interval time.Duration) *OrderPoll {
	return &OrderPoll{
		service:  service,
		provider: provider,
		interval: interval,
	}
}

func (o *OrderPoll) TTL() time.Duration {
	return o.interval
}

func (o *OrderPoll) Do(ctx context.Context) error {
	if _, err := o.service.Poll(ctx, o.provider); err != nil {
		return fmt.Errorf("poll %s: %w", o.provider, err)
	}
	return nil
}

func (o *OrderPoll) Info() string {
	return "order poll " + o.provider.String()
}
