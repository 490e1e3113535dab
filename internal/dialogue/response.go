package dialogue

import "github.com/Zornetta/Chatbot-Barista/internal/order"

// Response is what a turn produces: the reply text, the quick actions a
// front end may render as buttons, and a snapshot of the order when one is
// in progress. Front ends only render it; no business logic downstream.
type Response struct {
	Text             string          `json:"text"`
	SuggestedActions []string        `json:"suggested_actions,omitempty"`
	Order            *order.Snapshot `json:"order,omitempty"`
}

func newResponse(text string, actions ...string) *Response {
	return &Response{Text: text, SuggestedActions: actions}
}
