package lyft

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"dispatch/internal/entities"
	"dispatch/internal/gateway/http/provider"
)

const (
	SignatureHeader = "X-Lyft-Signature"

	signaturePrefix = "sha256="
	pathPaths       = "/paths"
	pathOrders      = "/orders"

	pickupRef = "pickup"
)

var CriticalPaths = []string{pathPaths}

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
	return entities.ProviderLyft
}

// Submit создает путь: одна точка забора и по точке на каждую остановку.
// Ref остановки равен ID заявки.
func (a *Adapter) Submit(ctx context.Context, batch entities.Batch) (*entities.SubmissionResult, error) {
	if len(batch.Stops) == 0 {
		return &entities.SubmissionResult{Stops: []entities.SubmittedStop{}}, nil
	}

	req := pathRequest{
		Waypoints: make([]waypoint, 0, len(batch.Stops)+1),
	}
	if batch.PickupAt != entities.PickupASAP {
		at := time.UnixMilli(batch.PickupAt).UTC()
		req.ScheduledAt = &at
	}
	req.Waypoints = append(req.Waypoints, waypoint{
		Ref:      pickupRef,
		Kind:     "pickup",
		Location: toPlace(batch.Pickup.Address),
		Contact:  contact{Name: batch.Pickup.Name, Phone: batch.Pickup.Phone},
	})
	for _, s := range batch.Stops {
		req.Waypoints = append(req.Waypoints, waypoint{
			Ref:          s.Request.ID,
			Kind:         "dropoff",
			Location:     toPlace(s.Recipient.Address),
			Contact:      contact{Name: s.Recipient.Name, Phone: s.Recipient.Phone},
			Instructions: s.Recipient.Notes,
		})
	}

	respBody, _, err := a.client.Call(ctx, http.MethodPost, pathPaths, req)
	if err != nil {
		return nil, fmt.Errorf("lyft create path: %w", err)
	}
	var resp pathResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("decode lyft path response: %w", err)
	}

	byRef := make(map[string]delivery, len(resp.Deliveries))
	for _, d := range resp.Deliveries {
		byRef[d.Ref] = d
	}

	result := &entities.SubmissionResult{Stops: make([]entities.SubmittedStop, 0, len(batch.Stops))}
	for _, s := range batch.Stops {
		d, ok := byRef[s.Request.ID]
		if !ok || d.Error != "" || d.OrderID == "" {
			reason := d.Error
			if !ok {
				reason = "missing from provider response"
			}
			result.Stops = append(result.Stops, entities.SubmittedStop{
				RequestID:    s.Request.ID,
				Rejected:     true,
				RejectReason: reason,
			})
			continue
		}
		result.Stops = append(result.Stops, entities.SubmittedStop{
			RequestID:       s.Request.ID,
			ProviderOrderID: d.OrderID,
			RawStatus:       d.State,
			Status:          toCourierStatus(d.State),
			Fee:             amount(d.Price),
		})
	}
	return result, nil
}

func (a *Adapter) GetOrder(ctx context.Context, providerOrderID string) (*entities.ProviderOrder, error) {
	respBody, _, err := a.client.Call(ctx, http.MethodGet, pathOrders+"/"+url.PathEscape(providerOrderID), nil)
	if err != nil {
		return nil, fmt.Errorf("lyft get order %s: %w", providerOrderID, err)
	}

	var resp orderResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("decode lyft order %s: %w", providerOrderID, err)
	}

	status, reason := toStatusAndReason(resp.State, resp.CancelReason)
	return &entities.ProviderOrder{
		Provider:      entities.ProviderLyft,
		ID:            resp.ID,
		RawStatus:     resp.State,
		Status:        status,
		FailureReason: reason,
		Fee:           amount(resp.Price),
		Cost:          amount(resp.Cost),
		TrackingURL:   resp.TrackingURL,
		UpdatedAt:     resp.UpdatedAt,
	}, nil
}

func (a *Adapter) Cancel(ctx context.Context, providerOrderID string) error {
	_, _, err := a.client.Call(ctx, http.MethodPost, pathOrders+"/"+url.PathEscape(providerOrderID)+"/cancel", struct{}{})
	if err != nil {
		return fmt.Errorf("lyft cancel order %s: %w", providerOrderID, err)
	}
	return nil
}

// ParseWebhook Lyft присылает только ссылку на заказ, актуальное состояние
// надо дочитать через GetOrder.
func (a *Adapter) ParseWebhook(header http.Header, body []byte) (*entities.WebhookEvent, error) {
	raw, ok := strings.CutPrefix(header.Get(SignatureHeader), signaturePrefix)
	if !ok {
		return nil, entities.ErrInvalidSignature
	}
	signature, err := base64.StdEncoding.DecodeString(raw)
	if err != nil || !provider.VerifySignature(a.webhookSecret, body, signature) {
		return nil, entities.ErrInvalidSignature
	}

	var ev webhookEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return nil, fmt.Errorf("%w: %v", entities.ErrMalformedWebhook, err)
	}

	orderID, ok := strings.CutPrefix(ev.Resource, pathOrders+"/")
	if !ok || orderID == "" || strings.Contains(orderID, "/") {
		return nil, fmt.Errorf("%w: unexpected resource %q", entities.ErrMalformedWebhook, ev.Resource)
	}

	return &entities.WebhookEvent{
		Provider:        entities.ProviderLyft,
		DeliveryID:      ev.EventID,
		Type:            ev.EventType,
		ProviderOrderID: orderID,
	}, nil
}

func toPlace(addr entities.Address) place {
	p := place{Address: addr.Formatted}
	if addr.Location != nil {
		p.Lat = addr.Location.Lat
		p.Lng = addr.Location.Lng
	}
	return p
}
