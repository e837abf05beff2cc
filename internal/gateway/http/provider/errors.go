package provider

import (
	"errors"
	"fmt"

	"dispatch/internal/entities"
)

// Error ошибка вызова провайдера с HTTP статусом. StatusCode == 0 для сетевых ошибок.
type Error struct {
	Provider   entities.Provider
	Method     string
	Path       string
	StatusCode int
	Body       string
	Err        error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s %s: %v", e.Provider, e.Method, e.Path, e.Err)
	}
	return fmt.Sprintf("%s %s %s: status %d: %s", e.Provider, e.Method, e.Path, e.StatusCode, e.Body)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	switch target {
	case entities.ErrProviderOrderNotFound:
		return e.StatusCode == 404
	case entities.ErrProviderUnauthorized:
		return e.StatusCode == 401
	default:
		return false
	}
}

func IsNotFound(err error) bool {
	return errors.Is(err, entities.ErrProviderOrderNotFound)
}

func StatusCode(err error) int {
	var perr *Error
	if errors.As(err, &perr) {
		return perr.StatusCode
	}
	return 0
}
