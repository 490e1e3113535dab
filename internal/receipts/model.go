package receipts

import (
	"time"

	"github.com/Zornetta/Chatbot-Barista/internal/order"
)

// Receipt is the durable record of one completed purchase. Numbers follow
// the ORD_YYYYMMDD_NNN pattern and are assigned at archive time.
type Receipt struct {
	Number        string       `json:"number"`
	SessionID     string       `json:"session_id"`
	Items         []order.Line `json:"items"`
	Total         float64      `json:"total"`
	Calories      int          `json:"calories"`
	PaymentMethod string       `json:"payment_method"`
	PaidAt        time.Time    `json:"paid_at"`
}
