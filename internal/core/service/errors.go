package service

import (
	"errors"
	"fmt"
)

// Error kinds. Every specific error below wraps exactly one kind, so callers
// can match either with errors.Is.
var (
	ErrNotFound           = errors.New("not found")
	ErrUnavailable        = errors.New("unavailable")
	ErrInvalidInput       = errors.New("invalid input")
	ErrNoCapacity         = errors.New("no capacity")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrDuplicate          = errors.New("already exists")
)

var (
	ErrUserNotFound       = fmt.Errorf("user %w", ErrNotFound)
	ErrRestaurantNotFound = fmt.Errorf("restaurant %w", ErrNotFound)
	ErrMenuNotFound       = fmt.Errorf("menu %w", ErrNotFound)
	ErrOrderNotFound      = fmt.Errorf("order %w", ErrNotFound)
	ErrDriverNotFound     = fmt.Errorf("driver %w", ErrNotFound)

	ErrRestaurantUnavailable = fmt.Errorf("restaurant %w", ErrUnavailable)

	ErrNoValidItems = fmt.Errorf("%w: no valid items", ErrInvalidInput)

	ErrNoPendingOrders    = fmt.Errorf("%w: no pending orders", ErrNoCapacity)
	ErrNoAvailableDrivers = fmt.Errorf("%w: no available drivers", ErrNoCapacity)
	ErrNoActiveOrders     = fmt.Errorf("%w: no active orders", ErrNoCapacity)
)
