package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidStatus     = errors.New("invalid order status")
	ErrInvalidTransition = errors.New("invalid status transition")
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusAssigned  OrderStatus = "assigned"
	OrderStatusDelivered OrderStatus = "delivered"
)

// next lists the only legal successor of each status. Delivered is terminal.
var next = map[OrderStatus]OrderStatus{
	OrderStatusPending:  OrderStatusAssigned,
	OrderStatusAssigned: OrderStatusDelivered,
}

// ParseOrderStatus accepts any casing, so "Pending" from older files maps to pending.
func ParseOrderStatus(s string) (OrderStatus, error) {
	status := OrderStatus(strings.ToLower(strings.TrimSpace(s)))
	switch status {
	case OrderStatusPending, OrderStatusAssigned, OrderStatusDelivered:
		return status, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

func (s OrderStatus) CanTransitionTo(to OrderStatus) bool {
	return next[s] == to
}

type OrderLine struct {
	Item     string
	Quantity int
}

// OrderLines keeps the requested item order. It encodes as a JSON object
// {"item": quantity}.
type OrderLines []OrderLine

// ParseOrderLines decodes a {"item": quantity} object. Quantities must be integers.
func ParseOrderLines(s string) (OrderLines, error) {
	var lines OrderLines
	if err := json.Unmarshal([]byte(s), &lines); err != nil {
		return nil, err
	}
	return lines, nil
}

func (l OrderLines) MarshalJSON() ([]byte, error) {
	return marshalOrdered(len(l), func(i int) (string, int) {
		return l[i].Item, l[i].Quantity
	})
}

func (l *OrderLines) UnmarshalJSON(data []byte) error {
	var out OrderLines
	err := unmarshalOrdered(data, func(item string, qty int) {
		out = append(out, OrderLine{Item: item, Quantity: qty})
	})
	if err != nil {
		return fmt.Errorf("order items: %w", err)
	}
	*l = out
	return nil
}

type Order struct {
	ID             string
	UserEmail      string
	RestaurantName string
	Items          OrderLines
	Status         OrderStatus
	DriverEmail    string // empty until assigned
	CreatedAt      time.Time
}

func NewOrder(userEmail, restaurantName string, items OrderLines) *Order {
	return &Order{
		ID:             uuid.New().String(),
		UserEmail:      userEmail,
		RestaurantName: restaurantName,
		Items:          items,
		Status:         OrderStatusPending,
		CreatedAt:      Now(),
	}
}

// UpdateStatus moves the order along pending -> assigned -> delivered.
// Anything else is rejected and the order is left untouched.
func (o *Order) UpdateStatus(status OrderStatus) (OrderStatus, error) {
	if !o.Status.CanTransitionTo(status) {
		return o.Status, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, status)
	}
	o.Status = status
	return o.Status, nil
}

// Now is the creation clock for every record: UTC, whole seconds.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

func (o *Order) Clone() *Order {
	c := *o
	c.Items = append(OrderLines(nil), o.Items...)
	return &c
}
