package port

import (
	"context"
	"time"
)

const (
	EventOrderAssigned  = "order.assigned"
	EventOrderDelivered = "order.delivered"
)

type Event struct {
	Type        string    `json:"type"`
	OrderID     string    `json:"order_id"`
	UserEmail   string    `json:"user_email"`
	DriverEmail string    `json:"driver_email"`
	Status      string    `json:"status"`
	OccurredAt  time.Time `json:"occurred_at"`
}

type EventPublisher interface {
	// Publish delivers one dispatch event. Callers treat failures as non-fatal.
	Publish(ctx context.Context, event Event) error
}
