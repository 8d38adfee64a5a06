package port

import (
	"context"

	"github.com/rl1809/food-delivery/internal/core/domain"
)

// RecordStore loads and saves whole collections. A collection that was never
// saved, or whose stored form is unreadable, loads as empty with a nil error.
type RecordStore interface {
	LoadUsers(ctx context.Context) ([]*domain.User, error)
	SaveUsers(ctx context.Context, users []*domain.User) error

	LoadRestaurants(ctx context.Context) ([]*domain.Restaurant, error)
	SaveRestaurants(ctx context.Context, restaurants []*domain.Restaurant) error

	LoadOrders(ctx context.Context) ([]*domain.Order, error)
	SaveOrders(ctx context.Context, orders []*domain.Order) error

	LoadDrivers(ctx context.Context) ([]*domain.Driver, error)
	SaveDrivers(ctx context.Context, drivers []*domain.Driver) error
}
