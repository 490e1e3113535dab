package dialogue

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Zornetta/Chatbot-Barista/internal/menu"
	"github.com/Zornetta/Chatbot-Barista/internal/nlp"
	"github.com/Zornetta/Chatbot-Barista/internal/order"
	"github.com/Zornetta/Chatbot-Barista/internal/pricing"
	"github.com/Zornetta/Chatbot-Barista/internal/receipts"
)

// DefaultConfidenceThreshold is the minimum classifier confidence for a
// non-direct intent to dispatch without asking the user first.
const DefaultConfidenceThreshold = 0.65

// Archiver records a completed purchase. Satisfied by receipts.Service.
type Archiver interface {
	Archive(
		ctx context.Context,
		sessionID string,
		snapshot order.Snapshot,
		paymentMethod string,
	) (receipts.Receipt, error)
}

// Options tune the orchestrator. The zero value selects the defaults.
type Options struct {
	// ConfidenceThreshold overrides DefaultConfidenceThreshold.
	ConfidenceThreshold float64

	// DirectIntents dispatch immediately regardless of confidence.
	// Defaults to consultar_menu and confirmar_orden.
	DirectIntents []string

	// Archiver, when set, persists a receipt on payment completion.
	Archiver Archiver

	Logger *slog.Logger
}

// Orchestrator routes conversation turns: it classifies the message,
// dispatches intent handlers, and drives the payment and confirmation
// sub-flows. All mutations are confined to the State passed in; the caller
// guarantees one turn at a time per State.
type Orchestrator struct {
	menu       menu.Repository
	extractor  nlp.Extractor
	classifier nlp.Classifier
	engine     *pricing.Engine
	archiver   Archiver
	logger     *slog.Logger

	threshold float64
	direct    map[string]bool
}

func NewOrchestrator(
	menuRepo menu.Repository,
	extractor nlp.Extractor,
	classifier nlp.Classifier,
	engine *pricing.Engine,
	opts Options,
) *Orchestrator {
	threshold := opts.ConfidenceThreshold
	if threshold <= 0 {
		threshold = DefaultConfidenceThreshold
	}

	directLabels := opts.DirectIntents
	if directLabels == nil {
		directLabels = []string{LabelShowMenu, LabelConfirmOrder}
	}
	direct := make(map[string]bool, len(directLabels))
	for _, label := range directLabels {
		direct[label] = true
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Orchestrator{
		menu:       menuRepo,
		extractor:  extractor,
		classifier: classifier,
		engine:     engine,
		archiver:   opts.Archiver,
		logger:     logger,
		threshold:  threshold,
		direct:     direct,
	}
}

// ProcessMessage runs one conversation turn. It always returns a Response;
// collaborator failures degrade to the unknown-intent reply instead of
// surfacing.
func (o *Orchestrator) ProcessMessage(ctx context.Context, st *State, text string) *Response {
	resp := o.routeTurn(ctx, st, text)

	if resp.Order == nil && st.Order != nil && !st.Order.Empty() {
		snapshot := st.Order.Snapshot()
		resp.Order = &snapshot
	}
	return resp
}

func (o *Orchestrator) routeTurn(ctx context.Context, st *State, text string) *Response {
	switch st.Stage {
	case StageAwaitingPayment:
		return o.paymentTurn(ctx, st, text)
	case StageAwaitingIntentConfirmation:
		return o.confirmationTurn(ctx, st, text)
	}

	// Extractor and classifier run once per turn, never more.
	entities := o.extractor.Extract(text)

	prediction, err := o.classifier.Classify(ctx, text)
	if err != nil {
		o.logger.Error("classify intent", "session", st.SessionID, "error", err)
		return unknownResponse()
	}

	intent := ParseIntent(prediction.Label)
	if intent.Kind == KindUnknown {
		if prediction.Label != "" {
			o.logger.Warn("unmapped intent label", "session", st.SessionID, "label", prediction.Label)
		}
		return unknownResponse()
	}

	st.LastInput = text
	st.LastEntities = entities
	st.CurrentIntent = intent

	if o.direct[intent.Label] || prediction.Confidence >= o.threshold {
		return o.dispatch(st, intent, entities)
	}

	st.Stage = StageAwaitingIntentConfirmation
	st.PredictedIntent = intent
	return confirmIntentResponse(intent)
}

// confirmationTurn resolves a pending yes/no intent confirmation. An
// affirmative answer dispatches the stored guess with the stored entities,
// exactly as a direct dispatch would have; anything else discards it.
func (o *Orchestrator) confirmationTurn(ctx context.Context, st *State, text string) *Response {
	_ = ctx

	st.Stage = st.resumeStage()
	intent := st.PredictedIntent
	st.PredictedIntent = Intent{}

	if isAffirmative(text) {
		return o.dispatch(st, intent, st.LastEntities)
	}
	return rephraseResponse()
}

// paymentTurn is the only routing while payment is pending: a recognized
// method completes the purchase and resets the conversation; anything else
// re-prompts and leaves the state untouched.
func (o *Orchestrator) paymentTurn(ctx context.Context, st *State, text string) *Response {
	method, ok := matchPaymentMethod(text)
	if !ok {
		return paymentRetryResponse()
	}

	var receiptNumber string
	if st.Order != nil && o.archiver != nil {
		receipt, err := o.archiver.Archive(ctx, st.SessionID, st.Order.Snapshot(), method.Label)
		if err != nil {
			o.logger.Error("archive paid order", "session", st.SessionID, "error", err)
		} else {
			receiptNumber = receipt.Number
		}
	}

	st.Reset()
	return paymentSuccessResponse(method, receiptNumber)
}

// dispatch is the intent handler table. KindUnknown never reaches it from
// routeTurn; the default arm keeps the contract of always answering.
func (o *Orchestrator) dispatch(st *State, intent Intent, entities nlp.Entities) *Response {
	switch intent.Kind {
	case KindOrderBeverage:
		return o.handleOrderBeverage(st, entities)
	case KindOrderFood:
		return o.handleOrderFood(st, entities)
	case KindAskPrice:
		return o.handleAskPrice(entities)
	case KindShowMenu:
		return o.handleShowMenu()
	case KindConfirmOrder:
		return o.handleConfirmOrder(st)
	case KindCancelOrder:
		return o.handleCancelOrder(st)
	default:
		return unknownResponse()
	}
}

func (o *Orchestrator) handleOrderBeverage(st *State, entities nlp.Entities) *Response {
	if entities.Beverage == "" {
		// A bare customization while an order is open amends the last
		// line instead of asking for a drink.
		if len(entities.Customizations) > 0 && st.Order != nil && !st.Order.Empty() {
			return o.amendLastItem(st, entities.Customizations)
		}
		return beveragePromptResponse()
	}

	item := o.menu.FindBeverage(entities.Beverage)
	if item == nil {
		return beveragePromptResponse()
	}
	return o.addToOrder(st, item, entities)
}

func (o *Orchestrator) handleOrderFood(st *State, entities nlp.Entities) *Response {
	if entities.Food == "" {
		return foodPromptResponse()
	}

	item := o.menu.FindFood(entities.Food)
	if item == nil {
		return foodPromptResponse()
	}
	return o.addToOrder(st, item, entities)
}

// addToOrder resolves the size, adds the line and moves the conversation
// into the purchase flow. Items sold in a single size take it implicitly;
// otherwise a missing size asks instead of adding.
func (o *Orchestrator) addToOrder(st *State, item *menu.Item, entities nlp.Entities) *Response {
	size := entities.Size
	if size == "" {
		if len(item.Sizes) != 1 {
			return sizePromptResponse(o.engine, item)
		}
		size = item.Sizes[0]
	}

	if st.Order == nil {
		st.Order = order.New(o.engine)
	}

	line, err := st.Order.AddItem(item, size, entities.Customizations, 1)
	if err != nil {
		var sizeErr *order.InvalidSizeError
		if errors.As(err, &sizeErr) {
			return invalidSizeResponse(o.engine, item, size)
		}
		o.logger.Error("add order item", "session", st.SessionID, "item", item.ID, "error", err)
		return unknownResponse()
	}

	st.Stage = StageAwaitingOrderConfirmation
	return addedResponse(o.engine, line, false)
}

// amendLastItem rebuilds the newest line with extra customizations. Lines
// are immutable, so the old one is removed and a merged replacement added.
func (o *Orchestrator) amendLastItem(st *State, customizations []string) *Response {
	items := st.Order.Items()
	last := items[len(items)-1]

	merged := make([]string, 0, len(last.Customizations)+len(customizations))
	merged = append(merged, last.Customizations...)
	merged = append(merged, customizations...)

	if err := st.Order.RemoveItem(last); err != nil {
		o.logger.Error("replace order item", "session", st.SessionID, "error", err)
		return unknownResponse()
	}
	line, err := st.Order.AddItem(last.Menu, last.Size, merged, last.Quantity)
	if err != nil {
		o.logger.Error("replace order item", "session", st.SessionID, "error", err)
		return unknownResponse()
	}

	st.Stage = StageAwaitingOrderConfirmation
	return addedResponse(o.engine, line, true)
}

func (o *Orchestrator) handleAskPrice(entities nlp.Entities) *Response {
	var item *menu.Item
	if entities.Beverage != "" {
		item = o.menu.FindBeverage(entities.Beverage)
	}
	if item == nil && entities.Food != "" {
		item = o.menu.FindFood(entities.Food)
	}
	if item == nil {
		return clarifyPriceResponse()
	}
	return priceInfoResponse(o.engine, item)
}

func (o *Orchestrator) handleShowMenu() *Response {
	return menuResponse(o.menu.Catalog())
}

func (o *Orchestrator) handleConfirmOrder(st *State) *Response {
	if st.Order == nil || st.Order.Empty() {
		return emptyOrderResponse()
	}
	st.Stage = StageAwaitingPayment
	return orderSummaryResponse(o.engine, st.Order)
}

func (o *Orchestrator) handleCancelOrder(st *State) *Response {
	st.Reset()
	return cancelledResponse()
}
