package events

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/rl1809/food-delivery/internal/port"
)

// LogPublisher writes events to the log instead of a broker. It is used
// when no AMQP_URL is configured.
type LogPublisher struct {
	logger zerolog.Logger
}

func NewLogPublisher(logger zerolog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger.With().Str("component", "events").Logger()}
}

func (p *LogPublisher) Publish(ctx context.Context, event port.Event) error {
	p.logger.Debug().
		Str("event", event.Type).
		Str("order_id", event.OrderID).
		Str("driver", event.DriverEmail).
		Str("status", event.Status).
		Msg("event")
	return nil
}
