package token

import "errors"

var (
	ErrTokenNotFound   = errors.New("access token not found")
	ErrUnknownProvider = errors.New("no token issuer for provider")
	ErrEmptyToken      = errors.New("provider returned empty token")
)
