// Package tracking ведет заказы после отправки: опрос провайдеров, вебхуки,
// события из Kafka, отмены и снятие волонтеров. Решения о статусе принимает
// reconcile, здесь только ввод-вывод и атомарная запись результата.
package tracking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"dispatch/internal/entities"
	"dispatch/internal/service/reconcile"
	"dispatch/pkg/logger"
)

const (
	sourcePoll    = "poll"
	sourceWebhook = "webhook"
	sourceEvent   = "event"
)

type Service struct {
	requests   RequestRepository
	orders     OrderRepository
	writer     Writer
	adapters   map[entities.Provider]Adapter
	retry      RetryPolicy
	dispatcher Dispatcher
	notifier   Notifier
	txManager  TxManager
	retrier    Retrier
	log        handlerLogger
	now        func() time.Time
	newID      func() string
}

func New(
	requests RequestRepository,
	orders OrderRepository,
	writer Writer,
	adapters []Adapter,
	retry RetryPolicy,
	dispatcher Dispatcher,
	notifier Notifier,
	txManager TxManager,
	retrier Retrier,
	log handlerLogger,
) *Service {
	byProvider := make(map[entities.Provider]Adapter, len(adapters))
	for _, a := range adapters {
		byProvider[a.Provider()] = a
	}
	return &Service{
		requests:   requests,
		orders:     orders,
		writer:     writer,
		adapters:   byProvider,
		retry:      retry,
		dispatcher: dispatcher,
		notifier:   notifier,
		txManager:  txManager,
		retrier:    retrier,
		log:        log,
		now:        func() time.Time { return time.Now().UTC() },
		newID:      uuid.NewString,
	}
}

func (s *Service) adapter(provider entities.Provider) (Adapter, error) {
	a, ok := s.adapters[provider]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, provider)
	}
	return a, nil
}

// change результат сверки одного заказа, готовый к записи.
type change struct {
	ws            entities.WriteSet
	notifications []entities.Notification
	// retryRequestID заявка, которую надо переотправить после коммита.
	retryRequestID string
	result         string
}

// reconcileOrder сверяет заказ со снимком провайдера. remote == nil значит,
// что провайдер ответил 404.
func (s *Service) reconcileOrder(ctx context.Context, order entities.Order, remote *entities.ProviderOrder) (change, error) {
	var res reconcile.Result
	if remote == nil {
		res = reconcile.NotFound(order)
	} else {
		res = reconcile.Reconcile(order, *remote)
	}

	if res.Noop {
		if res.Unrecognized {
			s.log.Warn("unrecognized provider status",
				logger.NewField("provider", order.Provider),
				logger.NewField("provider_order_id", order.ProviderOrderID),
				logger.NewField("raw_status", remote.RawStatus),
			)
			return change{result: "unrecognized"}, nil
		}
		return change{result: "noop"}, nil
	}

	c := change{ws: res.WriteSet(), result: "applied"}
	if remote == nil {
		c.result = "not_found"
	}

	pickedUp := res.Order.SubStatus != nil && *res.Order.SubStatus == entities.SubStatusPickedUp
	wantsRetry := res.RetryCandidate && s.retry.Enabled()
	if res.Outcome == nil && !pickedUp && !wantsRetry {
		return c, nil
	}

	request, err := s.requests.GetByID(ctx, order.RequestID)
	if err != nil {
		return change{}, fmt.Errorf("load request %s: %w", order.RequestID, err)
	}

	now := s.now()
	if wantsRetry && s.retry.ShouldRetry(*request, *remote, now) {
		patch, record := s.retry.Reschedule(*request, order, *remote, now)
		c.ws.Requests = []entities.RequestModify{patch}
		c.ws.RetryRecords = []entities.RetryRecord{record}
		c.retryRequestID = request.ID
		c.result = "retry"
		c.notifications = append(c.notifications, s.notification(entities.NotifyRescheduled, *request, order.Provider, remote))
		return c, nil
	}

	switch {
	case res.Outcome != nil:
		c.notifications = append(c.notifications, s.notification(outcomeNotification(*res.Outcome), *request, order.Provider, remote))
	case pickedUp:
		c.notifications = append(c.notifications, s.notification(entities.NotifyPickedUp, *request, order.Provider, remote))
	}
	return c, nil
}

// commit одна атомарная запись, затем действия, которые допустимы только
// после успешного коммита: уведомления и повторная отправка.
func (s *Service) commit(ctx context.Context, changes []change) error {
	var (
		ws            entities.WriteSet
		notifications []entities.Notification
		retries       []string
	)
	for _, c := range changes {
		ws.Merge(c.ws)
		notifications = append(notifications, c.notifications...)
		if c.retryRequestID != "" {
			retries = append(retries, c.retryRequestID)
		}
	}
	if ws.Empty() {
		return nil
	}

	if err := s.writer.Apply(ctx, ws); err != nil {
		return fmt.Errorf("apply reconciliation: %w", err)
	}

	if len(notifications) > 0 {
		s.notifier.Notify(ctx, notifications...)
	}
	for _, id := range retries {
		if _, err := s.dispatcher.SubmitRequest(ctx, id); err != nil {
			// заявка уже open с новым временем забора, ее подберет планировщик
			s.log.Error("resubmit after courier cancellation failed",
				logger.NewField("request_id", id),
				logger.NewField("error", err),
			)
		}
	}
	return nil
}

func (s *Service) notification(
	kind entities.NotificationKind,
	request entities.Request,
	provider entities.Provider,
	remote *entities.ProviderOrder,
) entities.Notification {
	n := entities.Notification{
		ID:          s.newID(),
		Kind:        kind,
		RequestID:   request.ID,
		RequesterID: request.RequesterID,
		Provider:    provider,
		CreatedAt:   s.now(),
	}
	if remote != nil {
		n.TrackingURL = remote.TrackingURL
	}
	return n
}

func outcomeNotification(o entities.RequestOutcome) entities.NotificationKind {
	switch o {
	case entities.OutcomeCompleted:
		return entities.NotifyDroppedOff
	case entities.OutcomeCancelled:
		return entities.NotifyCancelled
	default:
		return entities.NotifyFailed
	}
}

// fetchRemote запрашивает заказ у провайдера. (nil, nil) - провайдер о заказе не знает.
func fetchRemote(ctx context.Context, adapter Adapter, providerOrderID string) (*entities.ProviderOrder, error) {
	remote, err := adapter.GetOrder(ctx, providerOrderID)
	if err != nil {
		if errors.Is(err, entities.ErrProviderOrderNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return remote, nil
}
