// Package retry решает, переотправлять ли заявку после отмены курьером.
package retry

import (
	"time"

	"github.com/google/uuid"

	"dispatch/internal/entities"
)

const (
	DefaultMaxAttempts = 2
	DefaultDelay       = 5 * time.Minute
)

type Config struct {
	// Enabled глобальный флаг, по умолчанию ретраи выключены.
	Enabled bool
	// MaxAttempts сколько всего попыток доставки допускается, включая первую.
	MaxAttempts int
	// Delay через сколько после отказа назначается новый забор.
	Delay time.Duration
}

type Policy struct {
	cfg   Config
	newID func() string
}

func New(cfg Config) *Policy {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.Delay <= 0 {
		cfg.Delay = DefaultDelay
	}
	return &Policy{
		cfg:   cfg,
		newID: uuid.NewString,
	}
}

func (p *Policy) Enabled() bool {
	return p.cfg.Enabled
}

// ShouldRetry true только для отмены курьером, пока попытки не исчерпаны
// и окно доставки (если есть) не закончилось.
func (p *Policy) ShouldRetry(request entities.Request, remote entities.ProviderOrder, now time.Time) bool {
	if !p.cfg.Enabled {
		return false
	}
	if remote.Status != entities.CourierFailed || remote.FailureReason != entities.FailureCourierCancelled {
		return false
	}
	if request.Status == entities.RequestClosed {
		return false
	}
	if request.RetryCount+1 >= p.cfg.MaxAttempts {
		return false
	}
	return !request.WindowEnded(now)
}

// Reschedule возвращает патч заявки (снова open с новым временем забора)
// и запись о попытке. Закрытие заказа остается за реконсилером.
func (p *Policy) Reschedule(
	request entities.Request,
	order entities.Order,
	remote entities.ProviderOrder,
	now time.Time,
) (entities.RequestModify, entities.RetryRecord) {
	attempt := request.RetryCount + 1
	pickupAt := now.Add(p.cfg.Delay).UnixMilli()
	provider := order.Provider.String()
	raw := remote.RawStatus

	patch := entities.ReopenRequest(request.ID)
	patch.RetryCount = &attempt
	patch.PickupAt = &pickupAt
	patch.PreviousProvider = &provider
	patch.ProviderStatus = &raw

	record := entities.RetryRecord{
		ID:              p.newID(),
		RequestID:       request.ID,
		Attempt:         attempt,
		PickupAt:        pickupAt,
		PreviousOrderID: order.ProviderOrderID,
		Reason:          string(remote.FailureReason),
		CreatedAt:       now,
	}

	return patch, record
}
