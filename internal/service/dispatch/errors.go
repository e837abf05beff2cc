package dispatch

import "errors"

var (
	ErrUnknownProvider = errors.New("unknown provider")
	ErrRequestNotFound = errors.New("request not found")
	ErrNotDispatchable = errors.New("request is not open for a courier provider")
)
