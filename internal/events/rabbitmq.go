package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	ordersExchange = "orders_topic"
	paidKeyPrefix  = "orders.paid"
)

// RabbitPublisher publishes paid-order events to a topic exchange with
// publisher confirms enabled. Publishes are serialized by a mutex so acks
// can be matched to the message that is waiting for them.
type RabbitPublisher struct {
	conn *amqp.Connection
	ch   *amqp.Channel

	acks <-chan amqp.Confirmation
	mu   sync.Mutex
}

// DialRabbit connects to the broker at the given AMQP URL, enables
// confirms and declares the orders exchange.
func DialRabbit(url string) (*RabbitPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(
		ordersExchange,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	if err := ch.Confirm(false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("enable confirms: %w", err)
	}
	acks := ch.NotifyPublish(make(chan amqp.Confirmation, 1))

	return &RabbitPublisher{conn: conn, ch: ch, acks: acks}, nil
}

func (p *RabbitPublisher) Close() {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}

func (p *RabbitPublisher) Ping() error {
	if p.conn == nil || p.conn.IsClosed() {
		return errors.New("rabbitmq connection is closed")
	}
	return nil
}

// PublishOrderPaid sends the event and waits for the broker ack.
func (p *RabbitPublisher) PublishOrderPaid(ctx context.Context, evt OrderPaid) error {
	body, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal order paid event: %w", err)
	}

	routingKey := fmt.Sprintf("%s.%s", paidKeyPrefix, evt.PaymentMethod)

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.ch.PublishWithContext(
		ctx,
		ordersExchange,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			DeliveryMode:  amqp.Persistent,
			ContentType:   "application/json",
			Body:          body,
			MessageId:     fmt.Sprintf("%d", time.Now().UnixNano()),
			CorrelationId: evt.OrderNumber,
			Timestamp:     time.Now().UTC(),
			Headers: amqp.Table{
				"x-source": "chat-orders",
			},
		},
	); err != nil {
		return fmt.Errorf("publish order paid event: %w", err)
	}

	select {
	case conf := <-p.acks:
		if conf.Ack {
			return nil
		}
		return errors.New("publish NACK from broker")
	case <-ctx.Done():
		return ctx.Err()
	}
}
