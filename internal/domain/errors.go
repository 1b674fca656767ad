package domain

import "errors"

var (
	ErrInvalidK           = errors.New("k must not be negative")
	ErrUnknownProvider    = errors.New("unknown provider")
	ErrCatalogUnavailable = errors.New("catalog unavailable")
	ErrInvalidEvent       = errors.New("invalid event")
)
