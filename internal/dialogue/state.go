package dialogue

import (
	"github.com/Zornetta/Chatbot-Barista/internal/nlp"
	"github.com/Zornetta/Chatbot-Barista/internal/order"
)

// Stage is where a conversation stands. Exactly one stage is active at a
// time; the routing rules in the orchestrator are written against it.
type Stage int

const (
	// StageQuery is the initial stage: the user is browsing, no purchase
	// committed yet.
	StageQuery Stage = iota

	// StagePurchase means an order is in progress.
	StagePurchase

	// StageAwaitingIntentConfirmation means the last turn asked the user
	// to confirm a low-confidence intent guess; the next turn is a yes/no
	// answer, not a new utterance.
	StageAwaitingIntentConfirmation

	// StageAwaitingOrderConfirmation means an item was just added and the
	// "anything else?" question is outstanding. It routes like
	// StagePurchase; the reply is classified normally.
	StageAwaitingOrderConfirmation

	// StageAwaitingPayment means the order summary went out and only a
	// payment method selection can advance the conversation.
	StageAwaitingPayment
)

func (s Stage) String() string {
	switch s {
	case StageQuery:
		return "query"
	case StagePurchase:
		return "purchase"
	case StageAwaitingIntentConfirmation:
		return "awaiting_intent_confirmation"
	case StageAwaitingOrderConfirmation:
		return "awaiting_order_confirmation"
	case StageAwaitingPayment:
		return "awaiting_payment"
	default:
		return "unknown"
	}
}

// State is everything the orchestrator remembers about one conversation.
// One instance exists per session and the session layer guarantees only one
// turn mutates it at a time.
type State struct {
	SessionID string
	Stage     Stage

	// CurrentIntent is the last classified intent; PredictedIntent and
	// LastEntities hold the guess a pending confirmation would dispatch.
	CurrentIntent   Intent
	PredictedIntent Intent
	LastEntities    nlp.Entities
	LastInput       string

	// Order is lazily created by the first successful add.
	Order *order.Order

	// Context is scratch space for front ends (chat ids, display hints).
	// The orchestrator never reads it.
	Context map[string]string
}

func NewState(sessionID string) *State {
	return &State{
		SessionID: sessionID,
		Stage:     StageQuery,
		Context:   map[string]string{},
	}
}

// Reset returns the conversation to a fresh state, keeping only the session
// identity. Used after cancellation and after a completed payment.
func (s *State) Reset() {
	*s = State{
		SessionID: s.SessionID,
		Stage:     StageQuery,
		Context:   map[string]string{},
	}
}

// resumeStage is the stage a conversation falls back to when a sub-flow
// ends without its own transition: purchasing if an order is in progress,
// querying otherwise.
func (s *State) resumeStage() Stage {
	if s.Order != nil && !s.Order.Empty() {
		return StagePurchase
	}
	return StageQuery
}
