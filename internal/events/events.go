package events

import (
	"context"
	"time"

	"github.com/Zornetta/Chatbot-Barista/internal/order"
)

// OrderPaid is emitted once per completed purchase, after the receipt is
// persisted.
type OrderPaid struct {
	OrderNumber   string       `json:"order_number"`
	SessionID     string       `json:"session_id"`
	Items         []order.Line `json:"items"`
	Total         float64      `json:"total"`
	Calories      int          `json:"calories"`
	PaymentMethod string       `json:"payment_method"`
	PaidAt        time.Time    `json:"paid_at"`
}

// Publisher pushes order events to whoever prepares them. Implementations
// must be safe for concurrent use.
type Publisher interface {
	PublishOrderPaid(ctx context.Context, evt OrderPaid) error
}

// NoopPublisher drops every event. Used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishOrderPaid(context.Context, OrderPaid) error { return nil }
