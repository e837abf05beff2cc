package batchwrite

import "errors"

var (
	ErrTooLarge = errors.New("write set exceeds operation limit")
	ErrConflict = errors.New("write conflicts with existing record")
)
