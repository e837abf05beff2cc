// Package reconcile сводит статус заказа у провайдера с локальным заказом.
// Пакет без I/O: на вход сохраненный заказ и снимок от провайдера,
// на выход патчи, которые нужно записать одной атомарной записью.
package reconcile

import (
	"dispatch/internal/entities"
)

type Result struct {
	// Noop true, если применять нечего: статус не изменился, устарел или не распознан.
	Noop         bool
	Unrecognized bool

	Order   entities.OrderModify
	Request *entities.RequestModify

	// Outcome заполнен, если заявку нужно закрыть.
	Outcome *entities.RequestOutcome

	// RetryCandidate провайдер сообщил об отмене курьером, заявку можно переотправить.
	RetryCandidate bool
}

func (r Result) WriteSet() entities.WriteSet {
	if r.Noop {
		return entities.WriteSet{}
	}
	ws := entities.WriteSet{Orders: []entities.OrderModify{r.Order}}
	if r.Request != nil {
		ws.Requests = []entities.RequestModify{*r.Request}
	}
	return ws
}

type transition struct {
	order     entities.OrderStatus
	subStatus entities.SubStatus
	outcome   *entities.RequestOutcome
}

func outcome(o entities.RequestOutcome) *entities.RequestOutcome {
	return &o
}

func mapStatus(status entities.CourierStatus) (transition, bool) {
	switch status {
	case entities.CourierPending:
		return transition{order: entities.OrderActive, subStatus: entities.SubStatusPending}, true
	case entities.CourierAccepted:
		return transition{order: entities.OrderActive, subStatus: entities.SubStatusEnRouteToPickup}, true
	case entities.CourierArrivedAtPickup:
		return transition{order: entities.OrderActive, subStatus: entities.SubStatusArrivedAtPickup}, true
	case entities.CourierPickedUp:
		return transition{order: entities.OrderActive, subStatus: entities.SubStatusPickedUp}, true
	case entities.CourierEnRouteToDropoff:
		return transition{order: entities.OrderActive, subStatus: entities.SubStatusEnRouteToDropoff}, true
	case entities.CourierArrivedAtDropoff:
		return transition{order: entities.OrderActive, subStatus: entities.SubStatusArrivedAtDropoff}, true
	case entities.CourierDroppedOff:
		return transition{order: entities.OrderCompleted, subStatus: entities.SubStatusDroppedOff, outcome: outcome(entities.OutcomeCompleted)}, true
	case entities.CourierReturned:
		return transition{order: entities.OrderFailed, subStatus: entities.SubStatusReturned, outcome: outcome(entities.OutcomeFailed)}, true
	case entities.CourierFailed:
		return transition{order: entities.OrderFailed, subStatus: entities.SubStatusFailed, outcome: outcome(entities.OutcomeFailed)}, true
	case entities.CourierCancelled:
		return transition{order: entities.OrderCancelled, subStatus: entities.SubStatusCancelled, outcome: outcome(entities.OutcomeCancelled)}, true
	case entities.CourierUnknown:
		return transition{}, false
	default:
		return transition{}, false
	}
}

// rank порядок стадий активного заказа, чтобы не откатываться на устаревший статус.
func rank(s entities.SubStatus) int {
	switch s {
	case entities.SubStatusPending:
		return 1
	case entities.SubStatusEnRouteToPickup:
		return 2
	case entities.SubStatusArrivedAtPickup:
		return 3
	case entities.SubStatusPickedUp:
		return 4
	case entities.SubStatusEnRouteToDropoff:
		return 5
	case entities.SubStatusArrivedAtDropoff:
		return 6
	default:
		return 0
	}
}

// Reconcile решает, что нужно записать, чтобы локальный заказ догнал провайдера.
func Reconcile(stored entities.Order, remote entities.ProviderOrder) Result {
	if stored.Status.IsTerminal() {
		return Result{Noop: true}
	}
	if remote.RawStatus == stored.ProviderStatus {
		return Result{Noop: true}
	}

	next, ok := mapStatus(remote.Status)
	if !ok {
		return Result{Noop: true, Unrecognized: true}
	}

	if next.order == entities.OrderActive && rank(next.subStatus) < rank(stored.SubStatus) {
		return Result{Noop: true}
	}

	orderID := stored.ID
	raw := remote.RawStatus
	patch := entities.OrderModify{
		ID:             &orderID,
		ProviderStatus: &raw,
	}
	if next.order != stored.Status {
		status := next.order
		patch.Status = &status
	}
	if next.subStatus != stored.SubStatus {
		sub := next.subStatus
		patch.SubStatus = &sub
		patch.StatusHistory = appendHistory(stored.StatusHistory, sub)
	}

	var request entities.RequestModify
	if next.outcome != nil {
		request = entities.CloseRequest(stored.RequestID, *next.outcome)
		if remote.Fee != nil {
			fee := *remote.Fee
			request.DeliveryFee = &fee
		}
		if remote.Cost != nil {
			cost := *remote.Cost
			request.DeliveryCost = &cost
		}
	} else {
		requestID := stored.RequestID
		request = entities.RequestModify{ID: &requestID}
	}
	request.ProviderStatus = &raw

	return Result{
		Order:          patch,
		Request:        &request,
		Outcome:        next.outcome,
		RetryCandidate: remote.Status == entities.CourierFailed && remote.FailureReason == entities.FailureCourierCancelled,
	}
}

// NotFound провайдер ответил 404 по заказу, который должен существовать:
// курьер о задании не знает, дальше опрашивать бессмысленно.
func NotFound(stored entities.Order) Result {
	if stored.Status.IsTerminal() {
		return Result{Noop: true}
	}

	orderID := stored.ID
	failed := entities.OrderFailed
	sub := entities.SubStatusFailed
	request := entities.CloseRequest(stored.RequestID, entities.OutcomeTimedOut)

	return Result{
		Order: entities.OrderModify{
			ID:            &orderID,
			Status:        &failed,
			SubStatus:     &sub,
			StatusHistory: appendHistory(stored.StatusHistory, sub),
		},
		Request: &request,
		Outcome: outcome(entities.OutcomeTimedOut),
	}
}

// Cancelled отмена заявки пользователем при активном заказе.
func Cancelled(stored entities.Order) Result {
	if stored.Status.IsTerminal() {
		return Result{Noop: true}
	}

	orderID := stored.ID
	cancelled := entities.OrderCancelled
	sub := entities.SubStatusCancelled
	request := entities.CloseRequest(stored.RequestID, entities.OutcomeCancelled)

	return Result{
		Order: entities.OrderModify{
			ID:            &orderID,
			Status:        &cancelled,
			SubStatus:     &sub,
			StatusHistory: appendHistory(stored.StatusHistory, sub),
		},
		Request: &request,
		Outcome: outcome(entities.OutcomeCancelled),
	}
}

func appendHistory(history []entities.SubStatus, sub entities.SubStatus) []entities.SubStatus {
	if len(history) > 0 && history[len(history)-1] == sub {
		return append([]entities.SubStatus(nil), history...)
	}

	out := make([]entities.SubStatus, 0, len(history)+1)
	out = append(out, history...)
	out = append(out, sub)
	if len(out) > entities.MaxStatusHistory {
		out = out[len(out)-entities.MaxStatusHistory:]
	}
	return out
}

// Apply применяет патч заказа в памяти. Нужен, чтобы проверять повторную доставку
// одного и того же события без базы.
func Apply(order entities.Order, patch entities.OrderModify) entities.Order {
	if patch.Status != nil {
		order.Status = *patch.Status
	}
	if patch.ProviderStatus != nil {
		order.ProviderStatus = *patch.ProviderStatus
	}
	if patch.SubStatus != nil {
		order.SubStatus = *patch.SubStatus
	}
	if patch.StatusHistory != nil {
		order.StatusHistory = patch.StatusHistory
	}
	return order
}
