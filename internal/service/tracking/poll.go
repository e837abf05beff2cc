package tracking

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"dispatch/internal/entities"
	"dispatch/pkg/logger"
)

const (
	// PollChunkSize заказов на одну атомарную запись.
	PollChunkSize   = 250
	pollConcurrency = 8
)

type PollStats struct {
	Checked int
	Applied int
	Failed  int
}

// Poll сверяет все активные заказы провайдера с прошедшим временем забора.
// Сбой записи одного чанка не останавливает остальные: заказы останутся
// активными и попадут в следующий опрос.
func (s *Service) Poll(ctx context.Context, provider entities.Provider) (PollStats, error) {
	adapter, err := s.adapter(provider)
	if err != nil {
		return PollStats{}, err
	}

	var (
		stats   PollStats
		afterID int64
	)
	pickupBefore := s.now().UnixMilli()
	for {
		orders, err := s.orders.ListActive(ctx, provider, pickupBefore, afterID, PollChunkSize)
		if err != nil {
			return stats, fmt.Errorf("list active orders: %w", err)
		}
		if len(orders) == 0 {
			break
		}

		chunk := s.pollChunk(ctx, adapter, orders)
		stats.Checked += chunk.Checked
		stats.Applied += chunk.Applied
		stats.Failed += chunk.Failed

		if len(orders) < PollChunkSize {
			break
		}
		afterID = orders[len(orders)-1].ID
	}

	s.log.Info("poll finished",
		logger.NewField("provider", provider),
		logger.NewField("checked", stats.Checked),
		logger.NewField("applied", stats.Applied),
		logger.NewField("failed", stats.Failed),
	)
	return stats, nil
}

func (s *Service) pollChunk(ctx context.Context, adapter Adapter, orders []entities.Order) PollStats {
	provider := adapter.Provider()
	changes := make([]change, len(orders))
	failed := make([]bool, len(orders))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(pollConcurrency)
	for i, order := range orders {
		g.Go(func() error {
			log := s.log.With(
				logger.NewField("provider", provider),
				logger.NewField("provider_order_id", order.ProviderOrderID),
			)

			remote, err := fetchRemote(gctx, adapter, order.ProviderOrderID)
			if err != nil {
				log.Warn("get order from provider failed", logger.NewField("error", err))
				failed[i] = true
				return nil
			}

			c, err := s.reconcileOrder(gctx, order, remote)
			if err != nil {
				log.Warn("reconcile order failed", logger.NewField("error", err))
				failed[i] = true
				return nil
			}
			changes[i] = c
			return nil
		})
	}
	_ = g.Wait()

	stats := PollStats{Checked: len(orders)}
	applied := make([]change, 0, len(orders))
	for i, c := range changes {
		if failed[i] {
			stats.Failed++
			ReconcileTotal.WithLabelValues(provider.String(), sourcePoll, "error").Inc()
			continue
		}
		if !c.ws.Empty() {
			applied = append(applied, c)
		}
	}

	if err := s.commit(ctx, applied); err != nil {
		s.log.Error("poll chunk commit failed",
			logger.NewField("provider", provider),
			logger.NewField("orders", len(orders)),
			logger.NewField("error", err),
		)
		stats.Failed += len(applied)
		ReconcileTotal.WithLabelValues(provider.String(), sourcePoll, "error").Add(float64(len(applied)))
		return stats
	}

	for i, c := range changes {
		if !failed[i] {
			ReconcileTotal.WithLabelValues(provider.String(), sourcePoll, c.result).Inc()
		}
	}
	stats.Applied = len(applied)
	return stats
}
