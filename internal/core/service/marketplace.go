package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/rl1809/food-delivery/internal/core/domain"
	"github.com/rl1809/food-delivery/internal/port"
)

// Marketplace is the single coordinator over the catalog, the order book and
// the driver roster. One mutex serializes every operation. Values returned to
// callers are copies and can be read without the lock.
type Marketplace struct {
	mu       sync.Mutex
	catalog  *Catalog
	orders   *OrderService
	dispatch *DispatchService
	store    port.RecordStore
	events   port.EventPublisher
	logger   zerolog.Logger
}

func NewMarketplace(store port.RecordStore, events port.EventPublisher, logger zerolog.Logger) *Marketplace {
	if events == nil {
		events = discardEvents{}
	}
	catalog := NewCatalog(logger)
	orders := NewOrderService(catalog, logger)
	return &Marketplace{
		catalog:  catalog,
		orders:   orders,
		dispatch: NewDispatchService(orders, logger),
		store:    store,
		events:   events,
		logger:   logger.With().Str("component", "marketplace").Logger(),
	}
}

// Load replaces all in-memory state with the stored collections. If any
// collection fails to load the current state is kept.
func (m *Marketplace) Load(ctx context.Context) error {
	users, err := m.store.LoadUsers(ctx)
	if err != nil {
		return fmt.Errorf("load users: %w", err)
	}
	restaurants, err := m.store.LoadRestaurants(ctx)
	if err != nil {
		return fmt.Errorf("load restaurants: %w", err)
	}
	orders, err := m.store.LoadOrders(ctx)
	if err != nil {
		return fmt.Errorf("load orders: %w", err)
	}
	drivers, err := m.store.LoadDrivers(ctx)
	if err != nil {
		return fmt.Errorf("load drivers: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.catalog.Replace(users, restaurants)
	m.orders.Replace(orders)
	m.dispatch.Replace(drivers)

	for _, d := range drivers {
		m.reconcile(d)
	}

	m.logger.Info().
		Int("users", len(users)).
		Int("restaurants", len(restaurants)).
		Int("orders", len(orders)).
		Int("drivers", len(drivers)).
		Msg("data loaded")
	return nil
}

// Save writes every collection, continuing past failures, and reports all
// of them. Collections are written one after another, not atomically.
func (m *Marketplace) Save(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	err := errors.Join(
		m.store.SaveRestaurants(ctx, m.catalog.Restaurants()),
		m.store.SaveUsers(ctx, m.catalog.Users()),
		m.store.SaveOrders(ctx, m.orders.Orders()),
		m.store.SaveDrivers(ctx, m.dispatch.Drivers()),
	)
	if err != nil {
		m.logger.Error().Err(err).Msg("save failed")
		return err
	}
	m.logger.Info().Msg("data saved")
	return nil
}

// reconcile drops held order IDs that no longer name an order assigned to
// the driver, so the queue head can always be completed. An assigned order
// with no recorded driver is claimed by the driver holding it. A driver
// left holding nothing becomes available.
func (m *Marketplace) reconcile(d *domain.Driver) {
	if len(d.Orders) == 0 {
		return
	}
	kept := make([]string, 0, len(d.Orders))
	for _, id := range d.Orders {
		order, err := m.orders.Order(id)
		switch {
		case err != nil:
			m.logger.Warn().Str("driver", d.Email).Str("order_id", id).Msg("dropping unknown held order")
			continue
		case order.Status != domain.OrderStatusAssigned:
			m.logger.Warn().Str("driver", d.Email).Str("order_id", id).Str("status", string(order.Status)).Msg("dropping held order that is not assigned")
			continue
		case order.DriverEmail != "" && order.DriverEmail != d.Email:
			m.logger.Warn().Str("driver", d.Email).Str("order_id", id).Str("assigned_to", order.DriverEmail).Msg("dropping held order assigned to another driver")
			continue
		}
		order.DriverEmail = d.Email
		kept = append(kept, id)
	}
	if len(kept) == 0 {
		d.Orders = nil
		d.Available = true
		return
	}
	d.Orders = kept
}

func (m *Marketplace) Register(reg Registration) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, err := m.catalog.Register(reg)
	if err != nil {
		return nil, err
	}
	return cloneUser(u), nil
}

func (m *Marketplace) Login(email, password string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, err := m.catalog.Login(email, password)
	if err != nil {
		return nil, err
	}
	return cloneUser(u), nil
}

func (m *Marketplace) Users() []*domain.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneAll(m.catalog.Users(), cloneUser)
}

func (m *Marketplace) AddRestaurant(name string, menus domain.Menu, available bool) (*domain.Restaurant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, err := m.catalog.AddRestaurant(name, menus, available)
	if err != nil {
		return nil, err
	}
	return r.Clone(), nil
}

func (m *Marketplace) UpdateMenu(name, category string, items domain.MenuItems) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.catalog.UpdateMenu(name, category, items)
}

func (m *Marketplace) RemoveMenu(name, category string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.catalog.RemoveMenu(name, category)
}

func (m *Marketplace) SetAvailability(name string, available bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.catalog.SetAvailability(name, available)
}

func (m *Marketplace) RemoveRestaurant(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.catalog.RemoveRestaurant(name)
}

func (m *Marketplace) Restaurants() []*domain.Restaurant {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneAll(m.catalog.Restaurants(), (*domain.Restaurant).Clone)
}

func (m *Marketplace) PlaceOrder(userEmail, restaurantName string, items domain.OrderLines) (*domain.Order, float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	o, total, err := m.orders.PlaceOrder(userEmail, restaurantName, items)
	if err != nil {
		return nil, 0, err
	}
	return o.Clone(), total, nil
}

func (m *Marketplace) Orders() []*domain.Order {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneAll(m.orders.Orders(), (*domain.Order).Clone)
}

func (m *Marketplace) OrdersFor(userEmail string) []*domain.Order {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneAll(m.orders.OrdersFor(userEmail), (*domain.Order).Clone)
}

// Receipt renders one order against the current menu of its restaurant.
func (m *Marketplace) Receipt(orderID string) (Receipt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	order, err := m.orders.Order(orderID)
	if err != nil {
		return Receipt{}, err
	}
	return m.receipt(order)
}

// ReceiptsFor renders the receipts of a customer. Orders whose restaurant
// has been removed are left out.
func (m *Marketplace) ReceiptsFor(userEmail string) []Receipt {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []Receipt
	for _, o := range m.orders.OrdersFor(userEmail) {
		r, err := m.receipt(o)
		if err != nil {
			m.logger.Debug().Err(err).Str("order_id", o.ID).Msg("no receipt")
			continue
		}
		out = append(out, r)
	}
	return out
}

func (m *Marketplace) receipt(order *domain.Order) (Receipt, error) {
	user, err := m.catalog.User(order.UserEmail)
	if err != nil {
		return Receipt{}, err
	}
	restaurant, err := m.catalog.Restaurant(order.RestaurantName)
	if err != nil {
		return Receipt{}, err
	}
	return RenderReceipt(order, user, restaurant), nil
}

func (m *Marketplace) AddDriver(name, email string) (*domain.Driver, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	d, err := m.dispatch.AddDriver(name, email)
	if err != nil {
		return nil, err
	}
	return d.Clone(), nil
}

func (m *Marketplace) Drivers() []*domain.Driver {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneAll(m.dispatch.Drivers(), (*domain.Driver).Clone)
}

// AssignNext runs one round-robin dispatch pass and publishes an
// order.assigned event per pairing.
func (m *Marketplace) AssignNext(ctx context.Context) ([]Assignment, error) {
	m.mu.Lock()
	assignments, err := m.dispatch.AssignNext()
	out := make([]Assignment, 0, len(assignments))
	for _, a := range assignments {
		out = append(out, Assignment{Order: a.Order.Clone(), Driver: a.Driver.Clone()})
	}
	m.mu.Unlock()

	if err != nil {
		return nil, err
	}
	for _, a := range out {
		m.publish(ctx, port.EventOrderAssigned, a.Order)
	}
	return out, nil
}

// CompleteOrder delivers the driver's oldest order and publishes an
// order.delivered event.
func (m *Marketplace) CompleteOrder(ctx context.Context, driverEmail string) (*domain.Order, error) {
	m.mu.Lock()
	order, err := m.dispatch.CompleteOrder(driverEmail)
	if err == nil {
		order = order.Clone()
	}
	m.mu.Unlock()

	if err != nil {
		return nil, err
	}
	m.publish(ctx, port.EventOrderDelivered, order)
	return order, nil
}

func (m *Marketplace) publish(ctx context.Context, eventType string, order *domain.Order) {
	event := port.Event{
		Type:        eventType,
		OrderID:     order.ID,
		UserEmail:   order.UserEmail,
		DriverEmail: order.DriverEmail,
		Status:      string(order.Status),
		OccurredAt:  time.Now().UTC(),
	}
	if err := m.events.Publish(ctx, event); err != nil {
		m.logger.Warn().Err(err).Str("event", eventType).Str("order_id", order.ID).Msg("publish event failed")
	}
}

type discardEvents struct{}

func (discardEvents) Publish(context.Context, port.Event) error { return nil }

func cloneUser(u *domain.User) *domain.User {
	c := *u
	return &c
}

func cloneAll[T any](items []*T, clone func(*T) *T) []*T {
	out := make([]*T, 0, len(items))
	for _, it := range items {
		out = append(out, clone(it))
	}
	return out
}
