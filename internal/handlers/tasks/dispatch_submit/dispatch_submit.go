package dispatch_submit

import (
	"context"
	"fmt"
	"time"

	"dispatch/internal/entities"
)

// DispatchSubmit периодическая отправка созревших заявок одного провайдера.
type DispatchSubmit struct {
	service  Service
	provider entities.Provider
	interval time.Duration
}

func New(service Service, provider entities.Provider, interval time.Duration) *DispatchSubmit {
	return &DispatchSubmit{
		service:  service,
		provider: provider,
		interval: interval,
	}
}

func (d *DispatchSubmit) TTL() time.Duration {
	return d.interval
}

func (d *DispatchSubmit) Do(ctx context.Context) error {
	if _, err := d.service.Run(ctx, d.provider); err != nil {
		return fmt.Errorf("dispatch %s: %w", d.provider, err)
	}
	return nil
}

func (d *DispatchSubmit) Info() string {
	return "dispatch submit " + d.provider.String()
}
