package tracking

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"dispatch/internal/entities"
)

// HandleWebhook проверяет подпись, находит заказ и сверяет его.
// Ошибки: entities.ErrInvalidSignature, entities.ErrMalformedWebhook,
// ErrUnknownProvider, ErrOrderNotFound. Повтор того же события - no-op без ошибки.
func (s *Service) HandleWebhook(ctx context.Context, provider entities.Provider, header http.Header, body []byte) error {
	adapter, err := s.adapter(provider)
	if err != nil {
		return err
	}

	event, err := adapter.ParseWebhook(header, body)
	if err != nil {
		return err
	}

	order, err := s.orders.GetByProviderOrderID(ctx, provider, event.ProviderOrderID)
	if err != nil {
		return fmt.Errorf("webhook %s: %w", event.DeliveryID, err)
	}

	remote := event.Order
	if remote == nil {
		remote, err = fetchRemote(ctx, adapter, event.ProviderOrderID)
		if err != nil {
			return fmt.Errorf("fetch order %s: %w", event.ProviderOrderID, err)
		}
	}

	return s.reconcileAndCommit(ctx, sourceWebhook, *order, remote)
}

// HandleStatusEvent событие о смене статуса из потока курьерских событий.
// Статус из события не используется: актуальное состояние берется у провайдера.
func (s *Service) HandleStatusEvent(ctx context.Context, provider entities.Provider, providerOrderID string) error {
	adapter, err := s.adapter(provider)
	if err != nil {
		return err
	}

	order, err := s.orders.GetByProviderOrderID(ctx, provider, providerOrderID)
	if err != nil {
		return fmt.Errorf("status event: %w", err)
	}

	remote, err := fetchRemote(ctx, adapter, providerOrderID)
	if err != nil {
		return fmt.Errorf("fetch order %s: %w", providerOrderID, err)
	}

	return s.reconcileAndCommit(ctx, sourceEvent, *order, remote)
}

func (s *Service) reconcileAndCommit(ctx context.Context, source string, order entities.Order, remote *entities.ProviderOrder) error {
	c, err := s.reconcileOrder(ctx, order, remote)
	if err != nil {
		ReconcileTotal.WithLabelValues(order.Provider.String(), source, "error").Inc()
		return err
	}
	if err := s.commit(ctx, []change{c}); err != nil {
		ReconcileTotal.WithLabelValues(order.Provider.String(), source, "error").Inc()
		return err
	}
	ReconcileTotal.WithLabelValues(order.Provider.String(), source, c.result).Inc()
	return nil
}

// IsClientError ошибки вебхука, на которые провайдеру не нужно ретраить.
func IsClientError(err error) bool {
	return errors.Is(err, entities.ErrInvalidSignature) ||
		errors.Is(err, entities.ErrMalformedWebhook) ||
		errors.Is(err, ErrOrderNotFound) ||
		errors.Is(err, ErrUnknownProvider)
}
