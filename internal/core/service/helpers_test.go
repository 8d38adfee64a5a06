package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/rl1809/food-delivery/internal/core/domain"
	"github.com/rl1809/food-delivery/internal/port"
)

// Mock RecordStore
type mockStore struct {
	mu          sync.Mutex
	users       []*domain.User
	restaurants []*domain.Restaurant
	orders      []*domain.Order
	drivers     []*domain.Driver
	loadErr     error
	saveErr     error
	saves       int
}

func (m *mockStore) LoadUsers(ctx context.Context) ([]*domain.User, error) {
	return m.users, m.loadErr
}

func (m *mockStore) SaveUsers(ctx context.Context, users []*domain.User) error {
	return m.record(func() { m.users = users })
}

func (m *mockStore) LoadRestaurants(ctx context.Context) ([]*domain.Restaurant, error) {
	return m.restaurants, m.loadErr
}

func (m *mockStore) SaveRestaurants(ctx context.Context, restaurants []*domain.Restaurant) error {
	return m.record(func() { m.restaurants = restaurants })
}

func (m *mockStore) LoadOrders(ctx context.Context) ([]*domain.Order, error) {
	return m.orders, m.loadErr
}

func (m *mockStore) SaveOrders(ctx context.Context, orders []*domain.Order) error {
	return m.record(func() { m.orders = orders })
}

func (m *mockStore) LoadDrivers(ctx context.Context) ([]*domain.Driver, error) {
	return m.drivers, m.loadErr
}

func (m *mockStore) SaveDrivers(ctx context.Context, drivers []*domain.Driver) error {
	return m.record(func() { m.drivers = drivers })
}

func (m *mockStore) record(apply func()) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	apply()
	return nil
}

// Mock EventPublisher
type mockPublisher struct {
	mu     sync.Mutex
	events []port.Event
	err    error
}

func (m *mockPublisher) Publish(ctx context.Context, event port.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return m.err
}

var errBoom = errors.New("boom")

func newTestCatalog() *Catalog {
	c := NewCatalog(zerolog.Nop())
	c.hashCost = bcrypt.MinCost
	return c
}

func pizzaPlace() *domain.Restaurant {
	return &domain.Restaurant{
		Name: "Pizza Place",
		Menus: domain.Menu{
			{Name: "lunch", Items: domain.MenuItems{{Name: "Margherita", Price: 8.99}, {Name: "Pepperoni", Price: 9.99}}},
			{Name: "dinner", Items: domain.MenuItems{{Name: "Veggie", Price: 7.99}, {Name: "Meat Feast", Price: 12.99}}},
		},
		Available: true,
	}
}

// newTestServices wires a catalog holding Pizza Place with order and dispatch services.
func newTestServices(t *testing.T) (*Catalog, *OrderService, *DispatchService) {
	t.Helper()
	catalog := newTestCatalog()
	catalog.Replace(nil, []*domain.Restaurant{pizzaPlace()})
	orders := NewOrderService(catalog, zerolog.Nop())
	return catalog, orders, NewDispatchService(orders, zerolog.Nop())
}

func newTestMarketplace(store port.RecordStore, events port.EventPublisher) *Marketplace {
	m := NewMarketplace(store, events, zerolog.Nop())
	m.catalog.hashCost = bcrypt.MinCost
	return m
}
