package entities

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

// PickupASAP зарезервированное значение PickupAt: забрать как можно скорее.
const PickupASAP int64 = 0

type RequestStatus string

const (
	RequestOpen               RequestStatus = "open"
	RequestASAPFulfillment    RequestStatus = "asap_fulfillment"
	RequestPendingAcceptance  RequestStatus = "pending_acceptance"
	RequestPendingFulfillment RequestStatus = "pending_fulfillment"
	RequestClosed             RequestStatus = "closed"
)

func (s RequestStatus) String() string {
	return string(s)
}

func (s RequestStatus) Valid() bool {
	switch s {
	case RequestOpen, RequestASAPFulfillment, RequestPendingAcceptance, RequestPendingFulfillment, RequestClosed:
		return true
	default:
		return false
	}
}

// CanTransitionTo описывает жизненный цикл заявки: только вперед,
// кроме явного возврата в open (отказ волонтера или повторная отправка).
func (s RequestStatus) CanTransitionTo(next RequestStatus) bool {
	switch s {
	case RequestOpen, RequestASAPFulfillment:
		switch next {
		case RequestOpen, RequestASAPFulfillment, RequestPendingAcceptance, RequestPendingFulfillment, RequestClosed:
			return true
		}
	case RequestPendingAcceptance:
		switch next {
		case RequestPendingFulfillment, RequestClosed, RequestOpen:
			return true
		}
	case RequestPendingFulfillment:
		switch next {
		case RequestPendingFulfillment, RequestClosed, RequestOpen:
			return true
		}
	case RequestClosed:
		return false
	}
	return false
}

type RequestOutcome string

const (
	OutcomeCompleted     RequestOutcome = "completed"
	OutcomeCancelled     RequestOutcome = "cancelled"
	OutcomeFailed        RequestOutcome = "failed"
	OutcomeTimedOut      RequestOutcome = "timed_out"
	OutcomeErrorCreating RequestOutcome = "error_creating"
)

func (o RequestOutcome) String() string {
	return string(o)
}

func (o RequestOutcome) Valid() bool {
	switch o {
	case OutcomeCompleted, OutcomeCancelled, OutcomeFailed, OutcomeTimedOut, OutcomeErrorCreating:
		return true
	default:
		return false
	}
}

// FulfillmentMode либо VOLUNTEER, либо имя курьерского провайдера.
type FulfillmentMode string

const ModeVolunteer FulfillmentMode = "VOLUNTEER"

func (m FulfillmentMode) String() string {
	return string(m)
}

func (m FulfillmentMode) Provider() (Provider, bool) {
	p := Provider(m)
	return p, p.Valid()
}

type Request struct {
	ID               string
	RequesterID      string
	SupplierID       string
	RecipientID      string
	PickupAt         int64
	Mode             FulfillmentMode
	Status           RequestStatus
	Outcome          *RequestOutcome
	ProviderStatus   string
	RetryCount       int
	PreviousProvider *string

	// Заявка может входить в более крупное окно доставки (например, плановая раздача).
	DeliveryWindowID  *string
	DeliveryWindowEnd *time.Time

	DeliveryFee  *int64
	DeliveryCost *int64

	Volunteers []string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (r *Request) IsASAP() bool {
	return r.PickupAt == PickupASAP
}

// DueBy true, если время забора уже наступило или попадает в окно until.
func (r *Request) DueBy(until time.Time) bool {
	return r.IsASAP() || r.PickupAt <= until.UnixMilli()
}

// WindowEnded true, если заявка принадлежит окну доставки и оно уже закончилось.
func (r *Request) WindowEnded(now time.Time) bool {
	return r.DeliveryWindowEnd != nil && !now.Before(*r.DeliveryWindowEnd)
}

// Apply применяет патч к заявке в памяти с проверкой переходов состояния.
func (r *Request) Apply(m RequestModify) error {
	if err := m.Validate(); err != nil {
		return err
	}
	if len(m.ExpectStatus) > 0 && !slices.Contains(m.ExpectStatus, r.Status) {
		return fmt.Errorf("%w: %s", ErrStatusChanged, r.Status)
	}

	if m.Status != nil {
		if !r.Status.CanTransitionTo(*m.Status) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, r.Status, *m.Status)
		}
		r.Status = *m.Status
		r.Outcome = nil
		if m.Outcome != nil {
			outcome := *m.Outcome
			r.Outcome = &outcome
		}
	}
	if m.ProviderStatus != nil {
		r.ProviderStatus = *m.ProviderStatus
	}
	if m.RetryCount != nil {
		r.RetryCount = *m.RetryCount
	}
	if m.PreviousProvider != nil {
		r.PreviousProvider = m.PreviousProvider
	}
	if m.Mode != nil {
		r.Mode = *m.Mode
	}
	if m.PickupAt != nil {
		r.PickupAt = *m.PickupAt
	}
	if m.DeliveryFee != nil {
		r.DeliveryFee = m.DeliveryFee
	}
	if m.DeliveryCost != nil {
		r.DeliveryCost = m.DeliveryCost
	}
	return nil
}

// RequestModify частичное обновление заявки, nil поля не меняются.
// Outcome всегда пишется вместе со Status.
type RequestModify struct {
	ID               *string
	Status           *RequestStatus
	Outcome          *RequestOutcome
	ProviderStatus   *string
	RetryCount       *int
	PreviousProvider *string
	Mode             *FulfillmentMode
	PickupAt         *int64
	DeliveryFee      *int64
	DeliveryCost     *int64

	// ExpectStatus патч применяется только к заявке в одном из этих статусов,
	// иначе запись считается конфликтом. Пусто - без проверки.
	ExpectStatus []RequestStatus
}

var (
	ErrInvalidTransition = errors.New("invalid request status transition")
	ErrOutcomeMismatch   = errors.New("request outcome must be set iff status is closed")
	ErrStatusChanged     = errors.New("request status changed concurrently")
)

func (m RequestModify) Validate() error {
	if m.Status == nil {
		if m.Outcome != nil {
			return fmt.Errorf("%w: outcome without status", ErrOutcomeMismatch)
		}
		return nil
	}
	if !m.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, *m.Status)
	}

	closed := *m.Status == RequestClosed
	if closed != (m.Outcome != nil) {
		return ErrOutcomeMismatch
	}
	if m.Outcome != nil && !m.Outcome.Valid() {
		return fmt.Errorf("%w: unknown outcome %q", ErrOutcomeMismatch, *m.Outcome)
	}
	return nil
}

func (m RequestModify) Empty() bool {
	return m.Status == nil &&
		m.ProviderStatus == nil &&
		m.RetryCount == nil &&
		m.PreviousProvider == nil &&
		m.Mode == nil &&
		m.PickupAt == nil &&
		m.DeliveryFee == nil &&
		m.DeliveryCost == nil
}

func CloseRequest(requestID string, outcome RequestOutcome) RequestModify {
	status := RequestClosed
	return RequestModify{
		ID:      &requestID,
		Status:  &status,
		Outcome: &outcome,
	}
}

func ReopenRequest(requestID string) RequestModify {
	status := RequestOpen
	return RequestModify{
		ID:     &requestID,
		Status: &status,
	}
}

// SubmitRequest переводит заявку в pending_fulfillment. Заявка, которую
// успели закрыть или отправить, пока шел вызов провайдера, не трогается.
func SubmitRequest(requestID, providerStatus string) RequestModify {
	status := RequestPendingFulfillment
	return RequestModify{
		ID:             &requestID,
		Status:         &status,
		ProviderStatus: &providerStatus,
		ExpectStatus:   []RequestStatus{RequestOpen, RequestASAPFulfillment},
	}
}
