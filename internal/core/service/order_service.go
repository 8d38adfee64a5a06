package service

import (
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"github.com/rl1809/food-delivery/internal/core/domain"
)

// OrderService owns the order book. Orders are appended and never removed.
type OrderService struct {
	catalog *Catalog
	orders  []*domain.Order
	logger  zerolog.Logger
}

func NewOrderService(catalog *Catalog, logger zerolog.Logger) *OrderService {
	return &OrderService{
		catalog: catalog,
		logger:  logger.With().Str("component", "orders").Logger(),
	}
}

func (s *OrderService) Replace(orders []*domain.Order) {
	s.orders = orders
}

// PlaceOrder creates a pending order from the lines that match the
// restaurant's menu and returns it with its total. Unknown items and
// non-positive quantities are dropped.
func (s *OrderService) PlaceOrder(userEmail, restaurantName string, requested domain.OrderLines) (*domain.Order, float64, error) {
	restaurant, err := s.catalog.Restaurant(restaurantName)
	if err != nil || !restaurant.Available {
		return nil, 0, fmt.Errorf("%w: %s", ErrRestaurantUnavailable, restaurantName)
	}

	var lines domain.OrderLines
	total := 0.0
	for _, line := range requested {
		price, ok := restaurant.Menus.Price(line.Item)
		if !ok {
			s.logger.Warn().Str("restaurant", restaurantName).Str("item", line.Item).Msg("item not on menu, skipping")
			continue
		}
		if line.Quantity <= 0 {
			s.logger.Warn().Str("item", line.Item).Int("quantity", line.Quantity).Msg("non-positive quantity, skipping")
			continue
		}
		lines = append(lines, line)
		total += price * float64(line.Quantity)
	}
	if len(lines) == 0 {
		return nil, 0, fmt.Errorf("%w for %s", ErrNoValidItems, restaurantName)
	}

	order := domain.NewOrder(userEmail, restaurantName, lines)
	s.orders = append(s.orders, order)
	total = roundCents(total)

	s.logger.Info().
		Str("order_id", order.ID).
		Str("user_email", userEmail).
		Str("restaurant", restaurantName).
		Float64("total", total).
		Msg("order placed")
	return order, total, nil
}

// UpdateStatus applies a status change allowed by the transition table.
func (s *OrderService) UpdateStatus(order *domain.Order, status domain.OrderStatus) (domain.OrderStatus, error) {
	from := order.Status
	to, err := order.UpdateStatus(status)
	if err != nil {
		return to, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	s.logger.Info().Str("order_id", order.ID).Str("from", string(from)).Str("to", string(to)).Msg("order status updated")
	return to, nil
}

func (s *OrderService) Order(id string) (*domain.Order, error) {
	for _, o := range s.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrOrderNotFound, id)
}

func (s *OrderService) Orders() []*domain.Order {
	return s.orders
}

func (s *OrderService) OrdersFor(userEmail string) []*domain.Order {
	var out []*domain.Order
	for _, o := range s.orders {
		if o.UserEmail == userEmail {
			out = append(out, o)
		}
	}
	return out
}

// Pending returns pending orders in placement order.
func (s *OrderService) Pending() []*domain.Order {
	var out []*domain.Order
	for _, o := range s.orders {
		if o.Status == domain.OrderStatusPending {
			out = append(out, o)
		}
	}
	return out
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
