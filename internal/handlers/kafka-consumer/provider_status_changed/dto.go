package provider_status_changed

import "time"

// statusChangedEvent статус в событии только для логов: состояние заказа
// всегда перечитывается у провайдера.
type statusChangedEvent struct {
	Provider        string    `json:"provider"`
	ProviderOrderID string    `json:"provider_order_id"`
	Status          string    `json:"status"`
	OccurredAt      time.Time `json:"occurred_at"`
}
