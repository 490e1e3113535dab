package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"
)

const paidBindingKey = "orders.paid.#"

// OrderPaidHandler processes one paid-order event. Returning an error
// requeues the delivery.
type OrderPaidHandler func(ctx context.Context, evt OrderPaid) error

// RabbitConsumer reads paid-order events from a durable queue bound to the
// orders exchange.
type RabbitConsumer struct {
	conn  *amqp.Connection
	ch    *amqp.Channel
	queue string
	tag   string
}

// DialRabbitConsumer connects to the broker and declares the queue this
// consumer drains, bound to every payment method routing key.
func DialRabbitConsumer(url, queue, consumerTag string) (*RabbitConsumer, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(ordersExchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare queue %s: %w", queue, err)
	}
	if err := ch.QueueBind(queue, paidBindingKey, ordersExchange, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("bind queue %s: %w", queue, err)
	}

	return &RabbitConsumer{conn: conn, ch: ch, queue: queue, tag: consumerTag}, nil
}

func (c *RabbitConsumer) Close() {
	if c.ch != nil {
		_ = c.ch.Cancel(c.tag, false)
		_ = c.ch.Close()
	}
	if c.conn != nil {
		_ = c.conn.Close()
	}
}

// Consume blocks, feeding deliveries to the handler one at a time until the
// context is cancelled or the delivery channel closes. Malformed payloads
// are dropped, handler failures requeue the message.
func (c *RabbitConsumer) Consume(ctx context.Context, handler OrderPaidHandler) error {
	if err := c.ch.Qos(1, 0, false); err != nil {
		return fmt.Errorf("set prefetch: %w", err)
	}

	msgs, err := c.ch.Consume(c.queue, c.tag, false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume %s: %w", c.queue, err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return nil
			}

			var evt OrderPaid
			if err := json.Unmarshal(d.Body, &evt); err != nil {
				slog.Error("drop malformed order event", "queue", c.queue, "error", err)
				_ = d.Nack(false, false)
				continue
			}

			if err := handler(ctx, evt); err != nil {
				slog.Error("handle order event", "order", evt.OrderNumber, "error", err)
				_ = d.Nack(false, true)
				continue
			}
			_ = d.Ack(false)
		}
	}
}
