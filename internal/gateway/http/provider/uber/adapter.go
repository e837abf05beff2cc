package uber

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"dispatch/internal/entities"
	"dispatch/internal/gateway/http/provider"
)

const (
	SignatureHeader = "X-Uber-Signature"

	pathEstimates = "/estimates"
	pathOrders    = "/orders"
)

// CriticalPaths ошибки на этих эндпоинтах всегда уходят в алерт.
var CriticalPaths = []string{pathEstimates, pathOrders}

type Adapter struct {
	client        caller
	webhookSecret []byte
}

func New(client caller, webhookSecret string) *Adapter {
	return &Adapter{
		client:        client,
		webhookSecret: []byte(webhookSecret),
	}
}

func (a *Adapter) Provider() entities.Provider {
	return entities.ProviderUber
}

// Submit запрашивает оценку и создает заказы на все остановки рейса.
// Ошибка возвращается только если не прошел вызов целиком; отказы по
// отдельным остановкам приходят в результате.
func (a *Adapter) Submit(ctx context.Context, batch entities.Batch) (*entities.SubmissionResult, error) {
	if len(batch.Stops) == 0 {
		return &entities.SubmissionResult{Stops: []entities.SubmittedStop{}}, nil
	}

	pickup := toLocation(batch.Pickup.Name, batch.Pickup.Phone, "", batch.Pickup.Address)
	readyAt := pickupReadyAt(batch.PickupAt)

	estimateReq := estimateRequest{
		Pickup:        pickup,
		Dropoffs:      make([]location, 0, len(batch.Stops)),
		PickupReadyAt: readyAt,
	}
	ordersReq := createOrdersRequest{
		Pickup:        pickup,
		PickupReadyAt: readyAt,
		Stops:         make([]stop, 0, len(batch.Stops)),
	}
	for _, s := range batch.Stops {
		loc := toLocation(s.Recipient.Name, s.Recipient.Phone, s.Recipient.Notes, s.Recipient.Address)
		estimateReq.Dropoffs = append(estimateReq.Dropoffs, loc)
		ordersReq.Stops = append(ordersReq.Stops, stop{
			location:   loc,
			ExternalID: s.Request.ID,
			Items:      []item{{Title: "Grocery delivery", Quantity: 1}},
		})
	}

	var estimate estimateResponse
	if err := a.call(ctx, http.MethodPost, pathEstimates, estimateReq, &estimate); err != nil {
		return nil, fmt.Errorf("uber estimate: %w", err)
	}
	ordersReq.EstimateID = estimate.ID

	var created createOrdersResponse
	if err := a.call(ctx, http.MethodPost, pathOrders, ordersReq, &created); err != nil {
		return nil, fmt.Errorf("uber create orders: %w", err)
	}

	byExternalID := make(map[string]createdOrder, len(created.Orders))
	for _, o := range created.Orders {
		byExternalID[o.ExternalID] = o
	}

	result := &entities.SubmissionResult{Stops: make([]entities.SubmittedStop, 0, len(batch.Stops))}
	for _, s := range batch.Stops {
		o, ok := byExternalID[s.Request.ID]
		switch {
		case !ok:
			result.Stops = append(result.Stops, entities.SubmittedStop{
				RequestID:    s.Request.ID,
				Rejected:     true,
				RejectReason: "missing from provider response",
			})
		case o.Rejected || o.ID == "":
			result.Stops = append(result.Stops, entities.SubmittedStop{
				RequestID:    s.Request.ID,
				Rejected:     true,
				RejectReason: o.RejectReason,
			})
		default:
			fee := o.Fee
			if fee == nil && estimate.Fee > 0 {
				share := estimate.Fee / int64(len(batch.Stops))
				fee = &share
			}
			result.Stops = append(result.Stops, entities.SubmittedStop{
				RequestID:       s.Request.ID,
				ProviderOrderID: o.ID,
				RawStatus:       o.Status,
				Status:          toCourierStatus(o.Status),
				Fee:             fee,
			})
		}
	}
	return result, nil
}

func (a *Adapter) GetOrder(ctx context.Context, providerOrderID string) (*entities.ProviderOrder, error) {
	var resp orderResponse
	if err := a.call(ctx, http.MethodGet, pathOrders+"/"+url.PathEscape(providerOrderID), nil, &resp); err != nil {
		return nil, fmt.Errorf("uber get order %s: %w", providerOrderID, err)
	}
	return toProviderOrder(&resp), nil
}

func (a *Adapter) Cancel(ctx context.Context, providerOrderID string) error {
	_, _, err := a.client.Call(ctx, http.MethodPost, pathOrders+"/"+url.PathEscape(providerOrderID)+"/cancel", struct{}{})
	if err != nil {
		return fmt.Errorf("uber cancel order %s: %w", providerOrderID, err)
	}
	return nil
}

// ParseWebhook проверяет подпись (hex HMAC-SHA256) и разбирает событие.
func (a *Adapter) ParseWebhook(header http.Header, body []byte) (*entities.WebhookEvent, error) {
	signature, err := hex.DecodeString(header.Get(SignatureHeader))
	if err != nil || !provider.VerifySignature(a.webhookSecret, body, signature) {
		return nil, entities.ErrInvalidSignature
	}

	var ev webhookEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return nil, fmt.Errorf("%w: %v", entities.ErrMalformedWebhook, err)
	}

	event := &entities.WebhookEvent{
		Provider:        entities.ProviderUber,
		DeliveryID:      ev.ID,
		Type:            ev.Kind,
		ProviderOrderID: ev.DeliveryID,
	}
	if ev.Data != nil {
		if event.ProviderOrderID == "" {
			event.ProviderOrderID = ev.Data.ID
		}
		event.Order = toProviderOrder(ev.Data)
	}
	if event.ProviderOrderID == "" {
		return nil, fmt.Errorf("%w: no delivery id", entities.ErrMalformedWebhook)
	}
	return event, nil
}

func (a *Adapter) call(ctx context.Context, method, path string, body, out any) error {
	respBody, _, err := a.client.Call(ctx, method, path, body)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

func toProviderOrder(o *orderResponse) *entities.ProviderOrder {
	return &entities.ProviderOrder{
		Provider:      entities.ProviderUber,
		ID:            o.ID,
		RawStatus:     o.Status,
		Status:        toCourierStatus(o.Status),
		FailureReason: toFailureReason(o.FailureReason),
		Fee:           o.Fee,
		Cost:          o.Cost,
		TrackingURL:   o.TrackingURL,
		UpdatedAt:     o.Updated,
	}
}

func toLocation(name, phone, notes string, addr entities.Address) location {
	loc := location{
		Name:    name,
		Phone:   phone,
		Address: addr.Formatted,
		Notes:   notes,
	}
	if addr.Location != nil {
		loc.Lat = addr.Location.Lat
		loc.Lng = addr.Location.Lng
	}
	return loc
}

func pickupReadyAt(pickupAt int64) *time.Time {
	if pickupAt == entities.PickupASAP {
		return nil
	}
	t := time.UnixMilli(pickupAt).UTC()
	return &t
}
