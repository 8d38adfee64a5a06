package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"github.com/rl1809/food-delivery/internal/port"
)

// Exchange is the topic exchange order events are published to. The routing
// key is the event type, e.g. "order.assigned".
const Exchange = "delivery_events"

var ErrNack = errors.New("publish NACK from broker")

// AMQPPublisher publishes events as persistent JSON messages and waits for
// the broker to confirm each one.
type AMQPPublisher struct {
	conn   *amqp.Connection
	ch     *amqp.Channel
	logger zerolog.Logger
}

func DialAMQP(url string, logger zerolog.Logger) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial amqp: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(Exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	if err := ch.Confirm(false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("enable confirms: %w", err)
	}

	return &AMQPPublisher{
		conn:   conn,
		ch:     ch,
		logger: logger.With().Str("component", "amqp").Logger(),
	}, nil
}

// Publish waits for the broker to confirm this message. A canceled ctx
// abandons the wait without affecting later publishes.
func (p *AMQPPublisher) Publish(ctx context.Context, event port.Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	dc, err := p.ch.PublishWithDeferredConfirmWithContext(ctx, Exchange, event.Type, false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		Timestamp:    time.Now().UTC(),
		MessageId:    event.OrderID,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish %s: %w", event.Type, err)
	}

	acked, err := dc.WaitContext(ctx)
	if err != nil {
		return fmt.Errorf("confirm %s: %w", event.Type, err)
	}
	if !acked {
		return ErrNack
	}
	p.logger.Debug().Str("event", event.Type).Str("order_id", event.OrderID).Uint64("delivery_tag", dc.DeliveryTag).Msg("event published")
	return nil
}

// Ping reports whether the broker connection is still open.
func (p *AMQPPublisher) Ping() error {
	if p.conn == nil || p.conn.IsClosed() {
		return errors.New("amqp connection is closed")
	}
	return nil
}

func (p *AMQPPublisher) Close() {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}
