// Package dispatch собирает открытые заявки в рейсы и отправляет их курьерским провайдерам.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"dispatch/internal/entities"
	"dispatch/internal/service/routing"
	"dispatch/pkg/logger"
)

type Service struct {
	requests RequestRepository
	writer   Writer
	geocoder Geocoder
	adapters map[entities.Provider]Adapter
	settings map[entities.Provider]Settings
	log      handlerLogger
	now      func() time.Time
}

func New(
	requests RequestRepository,
	writer Writer,
	geocoder Geocoder,
	adapters []Adapter,
	settings map[entities.Provider]Settings,
	log handlerLogger,
) *Service {
	byProvider := make(map[entities.Provider]Adapter, len(adapters))
	for _, a := range adapters {
		byProvider[a.Provider()] = a
	}
	return &Service{
		requests: requests,
		writer:   writer,
		geocoder: geocoder,
		adapters: byProvider,
		settings: settings,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) lookup(provider entities.Provider) (Adapter, Settings, error) {
	adapter, ok := s.adapters[provider]
	if !ok {
		return nil, Settings{}, fmt.Errorf("%w: %s", ErrUnknownProvider, provider)
	}
	settings := s.settings[provider]
	if settings.BatchSize <= 0 {
		return nil, Settings{}, fmt.Errorf("provider %s: batch size must be positive, got %d", provider, settings.BatchSize)
	}
	return adapter, settings, nil
}

// Run один проход планировщика для провайдера. Ошибка возвращается только
// если не удалось прочитать очередь; сбои отдельных групп логируются.
func (s *Service) Run(ctx context.Context, provider entities.Provider) (Stats, error) {
	adapter, settings, err := s.lookup(provider)
	if err != nil {
		return Stats{}, err
	}

	until := s.now().Add(settings.Lookahead).UnixMilli()
	due, err := s.requests.ListDue(ctx, provider, until, maxDuePerRun)
	if err != nil {
		return Stats{}, fmt.Errorf("list due requests: %w", err)
	}

	total := Stats{Due: len(due)}
	if len(due) == 0 {
		return total, nil
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(groupConcurrency)
	for _, grp := range groupBySupplier(due) {
		g.Go(func() error {
			stats, err := s.processGroup(gctx, adapter, settings, grp.requestIDs)
			if err != nil {
				s.log.Error("dispatch group failed",
					logger.NewField("provider", provider),
					logger.NewField("supplier_id", grp.supplierID),
					logger.NewField("error", err),
				)
			}
			mu.Lock()
			total.add(stats)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	s.log.Info("dispatch run finished",
		logger.NewField("provider", provider),
		logger.NewField("due", total.Due),
		logger.NewField("submitted", total.Submitted),
		logger.NewField("rejected", total.Rejected),
		logger.NewField("closed", total.Closed),
	)
	return total, nil
}

// SubmitRequest отправляет одну заявку вне расписания, например после
// переноса из-за отмены курьером.
func (s *Service) SubmitRequest(ctx context.Context, requestID string) (Stats, error) {
	items, err := s.requests.ListDispatchItems(ctx, []string{requestID})
	if err != nil {
		return Stats{}, fmt.Errorf("load request %s: %w", requestID, err)
	}
	if len(items) == 0 {
		return Stats{}, fmt.Errorf("%w: %s", ErrRequestNotFound, requestID)
	}

	req := items[0].Request
	provider, ok := req.Mode.Provider()
	if !ok || (req.Status != entities.RequestOpen && req.Status != entities.RequestASAPFulfillment) {
		return Stats{}, fmt.Errorf("%w: %s (%s, %s)", ErrNotDispatchable, requestID, req.Mode, req.Status)
	}

	adapter, settings, err := s.lookup(provider)
	if err != nil {
		return Stats{}, err
	}
	return s.dispatchItems(ctx, adapter, settings, items)
}

// Preview раскладка очереди по рейсам без отправки и без записи.
func (s *Service) Preview(ctx context.Context, provider entities.Provider) ([][]string, error) {
	_, settings, err := s.lookup(provider)
	if err != nil {
		return nil, err
	}

	until := s.now().Add(settings.Lookahead).UnixMilli()
	due, err := s.requests.ListDue(ctx, provider, until, maxDuePerRun)
	if err != nil {
		return nil, fmt.Errorf("list due requests: %w", err)
	}

	result := make([][]string, 0)
	for _, grp := range groupBySupplier(due) {
		items, err := s.requests.ListDispatchItems(ctx, grp.requestIDs)
		if err != nil {
			return nil, fmt.Errorf("load dispatch items: %w", err)
		}
		p := s.prepare(ctx, items, false)
		batches, err := s.plan(provider, p, settings.BatchSize)
		if err != nil {
			return nil, err
		}
		for _, b := range batches {
			result = append(result, b.RequestIDs())
		}
	}
	return result, nil
}

func (s *Service) processGroup(ctx context.Context, adapter Adapter, settings Settings, ids []string) (Stats, error) {
	items, err := s.requests.ListDispatchItems(ctx, ids)
	if err != nil {
		return Stats{}, fmt.Errorf("load dispatch items: %w", err)
	}
	return s.dispatchItems(ctx, adapter, settings, items)
}

func (s *Service) dispatchItems(ctx context.Context, adapter Adapter, settings Settings, items []entities.DispatchItem) (Stats, error) {
	provider := adapter.Provider()
	stats := Stats{}

	p := s.prepare(ctx, items, true)
	if len(p.closes) > 0 {
		if err := s.writer.Apply(ctx, entities.WriteSet{Requests: p.closes}); err != nil {
			s.log.Error("close unroutable requests failed",
				logger.NewField("provider", provider),
				logger.NewField("error", err),
			)
		} else {
			stats.Closed += len(p.closes)
			DispatchStopsTotal.WithLabelValues(provider.String(), "precheck_closed").Add(float64(len(p.closes)))
		}
	}

	batches, err := s.plan(provider, p, settings.BatchSize)
	if err != nil {
		return stats, err
	}

	for _, batch := range batches {
		stats.add(s.submit(ctx, adapter, batch))
	}
	return stats, nil
}

// plan режет подготовленные остановки на рейсы.
func (s *Service) plan(provider entities.Provider, p prepared, batchSize int) ([]entities.Batch, error) {
	if len(p.stops) == 0 {
		return nil, nil
	}

	drops := make([]entities.Point, 0, len(p.stops))
	for _, st := range p.stops {
		drops = append(drops, *st.Recipient.Address.Location)
	}

	indexes, err := routing.GreedyOnion(routing.NewMatrix(*p.pickup.Address.Location, drops), batchSize)
	if err != nil {
		return nil, fmt.Errorf("batch stops: %w", err)
	}

	batches := make([]entities.Batch, 0, len(indexes))
	for _, idx := range indexes {
		batch := entities.Batch{
			Provider: provider,
			Pickup:   p.pickup,
			PickupAt: entities.PickupASAP,
			Stops:    make([]entities.Stop, 0, len(idx)),
		}
		for _, i := range idx {
			st := p.stops[i]
			// рейс забирается, когда готова самая поздняя заявка
			batch.PickupAt = max(batch.PickupAt, st.Request.PickupAt)
			batch.Stops = append(batch.Stops, st)
		}
		batches = append(batches, batch)
	}
	return batches, nil
}

// submit отправляет рейс и записывает результат одной атомарной записью.
// Если запись не прошла, созданные у провайдера заказы отменяются,
// заявки остаются открытыми до следующего запуска.
func (s *Service) submit(ctx context.Context, adapter Adapter, batch entities.Batch) Stats {
	provider := adapter.Provider()
	log := s.log.With(
		logger.NewField("provider", provider),
		logger.NewField("supplier_id", batch.Pickup.ID),
		logger.NewField("request_ids", batch.RequestIDs()),
	)
	DispatchBatchSize.WithLabelValues(provider.String()).Observe(float64(len(batch.Stops)))

	result, err := adapter.Submit(ctx, batch)
	if err != nil {
		log.Error("submit batch failed, closing requests", logger.NewField("error", err))

		ws := entities.WriteSet{Requests: make([]entities.RequestModify, 0, len(batch.Stops))}
		for _, st := range batch.Stops {
			ws.Requests = append(ws.Requests, entities.CloseRequest(st.Request.ID, entities.OutcomeErrorCreating))
		}
		if err := s.writer.Apply(ctx, ws); err != nil {
			log.Error("close failed batch requests", logger.NewField("error", err))
			return Stats{}
		}
		DispatchStopsTotal.WithLabelValues(provider.String(), "batch_error").Add(float64(len(batch.Stops)))
		return Stats{Closed: len(batch.Stops)}
	}

	ws, stats, created := s.submissionWriteSet(provider, batch, result)
	if err := s.writer.Apply(ctx, ws); err != nil {
		label := "commit_failed"
		if errors.Is(err, entities.ErrStatusChanged) {
			// заявку закрыли или отправили параллельно, пока шел вызов провайдера
			label = "status_changed"
		}
		log.Error("commit submission failed, cancelling provider orders",
			logger.NewField("result", label),
			logger.NewField("error", err),
		)
		DispatchStopsTotal.WithLabelValues(provider.String(), label).Add(float64(len(batch.Stops)))
		for _, id := range created {
			if cerr := adapter.Cancel(ctx, id); cerr != nil {
				log.Error("cancel orphaned provider order",
					logger.NewField("provider_order_id", id),
					logger.NewField("error", cerr),
				)
			}
		}
		return Stats{}
	}

	DispatchStopsTotal.WithLabelValues(provider.String(), "accepted").Add(float64(stats.Submitted))
	DispatchStopsTotal.WithLabelValues(provider.String(), "rejected").Add(float64(stats.Rejected))
	return stats
}

func (s *Service) submissionWriteSet(
	provider entities.Provider,
	batch entities.Batch,
	result *entities.SubmissionResult,
) (entities.WriteSet, Stats, []string) {
	byID := make(map[string]entities.SubmittedStop, len(result.Stops))
	for _, st := range result.Stops {
		byID[st.RequestID] = st
	}

	var (
		ws      entities.WriteSet
		stats   Stats
		created []string
	)
	for position, st := range batch.Stops {
		req := st.Request
		sub, ok := byID[req.ID]
		if !ok || sub.Rejected {
			s.log.Warn("provider rejected stop",
				logger.NewField("provider", provider),
				logger.NewField("request_id", req.ID),
				logger.NewField("reason", sub.RejectReason),
			)
			ws.Requests = append(ws.Requests, entities.CloseRequest(req.ID, entities.OutcomeErrorCreating))
			stats.Rejected++
			continue
		}

		ws.Requests = append(ws.Requests, entities.SubmitRequest(req.ID, sub.RawStatus))
		ws.NewOrders = append(ws.NewOrders, entities.Order{
			Provider:        provider,
			ProviderOrderID: sub.ProviderOrderID,
			RequestID:       req.ID,
			RetryGeneration: req.RetryCount,
			Status:          entities.OrderActive,
			ProviderStatus:  sub.RawStatus,
			SubStatus:       entities.SubStatusPending,
			PickupAt:        batch.PickupAt,
			BatchSize:       len(batch.Stops),
			BatchPosition:   position,
			StatusHistory:   []entities.SubStatus{entities.SubStatusPending},
			Fee:             sub.Fee,
		})
		created = append(created, sub.ProviderOrderID)
		stats.Submitted++
	}
	return ws, stats, created
}
