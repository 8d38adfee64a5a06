package service

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/rl1809/food-delivery/internal/core/domain"
)

type Assignment struct {
	Order  *domain.Order
	Driver *domain.Driver
}

// DispatchService owns the driver roster and pairs pending orders with
// available drivers.
type DispatchService struct {
	orders  *OrderService
	drivers []*domain.Driver
	logger  zerolog.Logger
}

func NewDispatchService(orders *OrderService, logger zerolog.Logger) *DispatchService {
	return &DispatchService{
		orders: orders,
		logger: logger.With().Str("component", "dispatch").Logger(),
	}
}

func (s *DispatchService) Replace(drivers []*domain.Driver) {
	s.drivers = drivers
}

func (s *DispatchService) AddDriver(name, email string) (*domain.Driver, error) {
	if name == "" || email == "" {
		return nil, fmt.Errorf("%w: driver name and email are required", ErrInvalidInput)
	}
	if _, err := s.Driver(email); err == nil {
		return nil, fmt.Errorf("driver %s %w", email, ErrDuplicate)
	}
	d := domain.NewDriver(name, email)
	s.drivers = append(s.drivers, d)
	s.logger.Info().Str("driver", email).Msg("driver added")
	return d, nil
}

func (s *DispatchService) Driver(email string) (*domain.Driver, error) {
	for _, d := range s.drivers {
		if d.Email == email {
			return d, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrDriverNotFound, email)
}

func (s *DispatchService) Drivers() []*domain.Driver {
	return s.drivers
}

// AssignNext hands out every pending order round-robin over the drivers that
// were available when the call started: pending order i goes to available
// driver i mod n, so a driver can receive several orders in one call.
func (s *DispatchService) AssignNext() ([]Assignment, error) {
	pending := s.orders.Pending()
	if len(pending) == 0 {
		return nil, ErrNoPendingOrders
	}

	var available []*domain.Driver
	for _, d := range s.drivers {
		if d.Available {
			available = append(available, d)
		}
	}
	if len(available) == 0 {
		return nil, ErrNoAvailableDrivers
	}

	assignments := make([]Assignment, 0, len(pending))
	for i, order := range pending {
		driver := available[i%len(available)]
		if err := driver.Assign(order); err != nil {
			s.logger.Error().Err(err).Str("order_id", order.ID).Msg("assign failed")
			continue
		}
		assignments = append(assignments, Assignment{Order: order, Driver: driver})
		s.logger.Info().
			Str("order_id", order.ID).
			Str("restaurant", order.RestaurantName).
			Str("driver", driver.Email).
			Msg("order assigned")
	}
	return assignments, nil
}

// CompleteOrder delivers the driver's oldest held order and marks the driver
// available again, even when it still holds other orders.
func (s *DispatchService) CompleteOrder(driverEmail string) (*domain.Order, error) {
	driver, err := s.Driver(driverEmail)
	if err != nil {
		return nil, err
	}
	id, ok := driver.Oldest()
	if !ok {
		return nil, fmt.Errorf("%w for %s", ErrNoActiveOrders, driverEmail)
	}
	order, err := s.orders.Order(id)
	if err != nil {
		return nil, err
	}
	if _, err := s.orders.UpdateStatus(order, domain.OrderStatusDelivered); err != nil {
		return nil, err
	}
	driver.Release()

	s.logger.Info().
		Str("order_id", order.ID).
		Str("driver", driverEmail).
		Int("still_held", len(driver.Orders)).
		Msg("order delivered")
	return order, nil
}
