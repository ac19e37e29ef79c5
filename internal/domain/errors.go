package domain

import "errors"

// Outward error kinds. Everything a SkuService returns wraps exactly one of these.
var (
	ErrNotFound     = errors.New("sku not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrInternal     = errors.New("internal storage error")
)
