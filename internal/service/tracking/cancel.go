package tracking

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"dispatch/internal/entities"
	"dispatch/internal/service/reconcile"
	"dispatch/pkg/logger"
)

// CancelRequest отмена пользователем. С активным заказом сначала отменяем
// у провайдера (404 означает, что отменять уже нечего), потом атомарно
// закрываем заявку и заказ. Без заказа заявка просто закрывается.
func (s *Service) CancelRequest(ctx context.Context, requestID string) error {
	request, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return err
	}
	if request.Status == entities.RequestClosed {
		return ErrRequestAlreadyClosed
	}

	order, err := s.orders.GetActiveByRequestID(ctx, requestID)
	if err != nil && !errors.Is(err, ErrOrderNotFound) {
		return fmt.Errorf("load active order: %w", err)
	}

	var ws entities.WriteSet
	provider := entities.Provider("")
	if order == nil {
		ws.Requests = []entities.RequestModify{entities.CloseRequest(requestID, entities.OutcomeCancelled)}
	} else {
		provider = order.Provider
		adapter, err := s.adapter(order.Provider)
		if err != nil {
			return err
		}
		if err := adapter.Cancel(ctx, order.ProviderOrderID); err != nil && !errors.Is(err, entities.ErrProviderOrderNotFound) {
			return fmt.Errorf("%w: %v", ErrProviderCancelFailed, err)
		}
		ws = reconcile.Cancelled(*order).WriteSet()
	}

	if err := s.writer.Apply(ctx, ws); err != nil {
		return fmt.Errorf("close cancelled request: %w", err)
	}

	s.notifier.Notify(ctx, s.notification(entities.NotifyCancelled, *request, provider, nil))
	s.log.Info("request cancelled",
		logger.NewField("request_id", requestID),
		logger.NewField("had_order", order != nil),
	)
	return nil
}

// UnassignVolunteer снимает волонтера с заявки. Чтение и запись списка в одной
// сериализуемой транзакции, при конфликте транзакция повторяется целиком.
// Если волонтеров не осталось, заявка возвращается в open.
func (s *Service) UnassignVolunteer(ctx context.Context, requestID, volunteerID string) (*entities.Request, error) {
	var updated *entities.Request
	err := s.retrier.ExecuteWithContext(ctx, func(ctx context.Context) error {
		return s.txManager.DoSerializable(ctx, func(ctx context.Context) error {
			request, err := s.requests.GetByID(ctx, requestID)
			if err != nil {
				return err
			}
			if request.Status == entities.RequestClosed {
				return ErrRequestAlreadyClosed
			}

			idx := slices.Index(request.Volunteers, volunteerID)
			if idx < 0 {
				return ErrVolunteerNotAssigned
			}
			roster := slices.Delete(slices.Clone(request.Volunteers), idx, idx+1)

			if err := s.requests.SetVolunteers(ctx, requestID, roster); err != nil {
				return fmt.Errorf("set volunteers: %w", err)
			}
			request.Volunteers = roster

			if len(roster) == 0 && request.Status != entities.RequestOpen {
				reopen := entities.ReopenRequest(requestID)
				if err := request.Apply(reopen); err != nil {
					return err
				}
				if err := s.requests.Update(ctx, reopen); err != nil {
					return fmt.Errorf("reopen request: %w", err)
				}
			}

			updated = request
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
