package tracking

import "errors"

var (
	ErrRequestNotFound      = errors.New("request not found")
	ErrOrderNotFound        = errors.New("order not found")
	ErrRequestAlreadyClosed = errors.New("request already closed")
	ErrProviderCancelFailed = errors.New("provider failed to cancel order")
	ErrUnknownProvider      = errors.New("unknown provider")
	ErrVolunteerNotAssigned = errors.New("volunteer is not assigned to request")
)
