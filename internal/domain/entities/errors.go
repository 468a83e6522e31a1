package entities

import (
	"errors"
	"fmt"
)

// Error kinds shared by every layer. Concrete errors wrap one of them so
// callers can branch with errors.Is on the kind alone.
var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")
)

var (
	ErrInvalidLineKind     = fmt.Errorf("%w: invalid item kind", ErrValidation)
	ErrInvalidLineQuantity = fmt.Errorf("%w: item quantity must be at least 1", ErrValidation)
	ErrInvalidLinePrice    = fmt.Errorf("%w: item unit price must not be negative", ErrValidation)
	ErrEmptyLineDesc       = fmt.Errorf("%w: item description is required", ErrValidation)
	ErrInvalidOrderStatus  = fmt.Errorf("%w: invalid order status", ErrValidation)
)
