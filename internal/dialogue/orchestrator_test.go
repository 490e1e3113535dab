package dialogue

import (
	"context"
	"errors"
	"math"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/Zornetta/Chatbot-Barista/internal/menu"
	"github.com/Zornetta/Chatbot-Barista/internal/nlp"
	"github.com/Zornetta/Chatbot-Barista/internal/order"
	"github.com/Zornetta/Chatbot-Barista/internal/pricing"
	"github.com/Zornetta/Chatbot-Barista/internal/receipts"
)

func testCatalog() *menu.Catalog {
	latte := menu.Item{
		ID:       "latte",
		Name:     "Latte",
		Category: "cafe",
		Sizes:    []string{"tall", "grande", "venti"},
		Prices:   map[string]float64{"tall": 3.50, "grande": 4.25, "venti": 4.95},
		Calories: map[string]int{"tall": 150, "grande": 220, "venti": 290},
		Customizations: map[string][]string{
			"leche": {"entera", "almendra", "soya"},
			"shots": {"extra", "doble"},
		},
		Keywords: []string{"latte", "cafe con leche"},
	}
	cappuccino := menu.Item{
		ID:       "cappuccino",
		Name:     "Cappuccino",
		Category: "cafe",
		Sizes:    []string{"tall", "grande"},
		Prices:   map[string]float64{"tall": 3.25, "grande": 4.00},
		Calories: map[string]int{"tall": 120, "grande": 180},
		Keywords: []string{"cappuccino", "capuchino"},
	}
	muffin := menu.Item{
		ID:       "muffin_arandanos",
		Name:     "Muffin de Arándanos",
		Category: "panaderia",
		Sizes:    []string{"individual"},
		Prices:   map[string]float64{"individual": 2.95},
		Calories: map[string]int{"individual": 420},
		Keywords: []string{"muffin"},
	}

	return &menu.Catalog{
		Beverages: map[string][]menu.Item{"cafe": {latte, cappuccino}},
		Foods:     map[string][]menu.Item{"panaderia": {muffin}},
	}
}

// scriptClassifier returns a canned prediction per exact input text. Inputs
// without a script entry classify as unknown with zero confidence.
type scriptClassifier struct {
	predictions map[string]nlp.Prediction
	err         error

	mu    sync.Mutex
	calls int
}

func (c *scriptClassifier) Classify(_ context.Context, text string) (nlp.Prediction, error) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()

	if c.err != nil {
		return nlp.Prediction{}, c.err
	}
	return c.predictions[text], nil
}

func (c *scriptClassifier) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

type archivedOrder struct {
	sessionID string
	snapshot  order.Snapshot
	method    string
}

type captureArchiver struct {
	number string
	err    error
	calls  []archivedOrder
}

func (a *captureArchiver) Archive(
	_ context.Context,
	sessionID string,
	snapshot order.Snapshot,
	paymentMethod string,
) (receipts.Receipt, error) {
	if a.err != nil {
		return receipts.Receipt{}, a.err
	}
	a.calls = append(a.calls, archivedOrder{sessionID: sessionID, snapshot: snapshot, method: paymentMethod})
	return receipts.Receipt{
		Number:        a.number,
		SessionID:     sessionID,
		Total:         snapshot.Total,
		PaymentMethod: paymentMethod,
	}, nil
}

func newTestOrchestrator(classifier nlp.Classifier, opts Options) (*Orchestrator, *State) {
	repo := menu.NewMemoryRepository(testCatalog())
	extractor := nlp.NewKeywordExtractor(repo.Catalog())
	engine := pricing.NewEngine(nil)
	return NewOrchestrator(repo, extractor, classifier, engine, opts), NewState("test-session")
}

func TestOrderBeverageWithSize(t *testing.T) {
	classifier := &scriptClassifier{predictions: map[string]nlp.Prediction{
		"quiero un latte grande": {Label: LabelOrderBeverage, Confidence: 0.92},
	}}
	orch, st := newTestOrchestrator(classifier, Options{})

	resp := orch.ProcessMessage(context.Background(), st, "quiero un latte grande")

	if !strings.Contains(resp.Text, "He agregado Latte (grande)") {
		t.Fatalf("unexpected reply: %q", resp.Text)
	}
	if !strings.Contains(resp.Text, "Precio: $4.25") {
		t.Errorf("reply should price the line: %q", resp.Text)
	}
	if resp.Order == nil {
		t.Fatal("expected order snapshot on the response")
	}
	if resp.Order.Total != 4.25 {
		t.Errorf("snapshot total = %v, want 4.25", resp.Order.Total)
	}
	if st.Stage != StageAwaitingOrderConfirmation {
		t.Errorf("stage = %v, want %v", st.Stage, StageAwaitingOrderConfirmation)
	}
	if st.Order == nil || st.Order.Len() != 1 {
		t.Errorf("expected one order line")
	}
}

func TestOrderBeverageWithoutSizeAsks(t *testing.T) {
	classifier := &scriptClassifier{predictions: map[string]nlp.Prediction{
		"quiero un latte": {Label: LabelOrderBeverage, Confidence: 0.9},
	}}
	orch, st := newTestOrchestrator(classifier, Options{})

	resp := orch.ProcessMessage(context.Background(), st, "quiero un latte")

	if !strings.Contains(resp.Text, "¿De qué tamaño quieres tu Latte?") {
		t.Fatalf("expected size prompt, got %q", resp.Text)
	}
	if !strings.Contains(resp.Text, "- Tall: $3.50") {
		t.Errorf("size prompt should list prices: %q", resp.Text)
	}
	want := []string{"Tall", "Grande", "Venti"}
	if !reflect.DeepEqual(resp.SuggestedActions, want) {
		t.Errorf("actions = %v, want %v", resp.SuggestedActions, want)
	}
	if st.Order != nil {
		t.Error("nothing should be added until a size is chosen")
	}
	if resp.Order != nil {
		t.Error("no snapshot expected without an order")
	}
}

func TestOrderFoodImpliesSingleSize(t *testing.T) {
	classifier := &scriptClassifier{predictions: map[string]nlp.Prediction{
		"quiero un muffin": {Label: LabelOrderFood, Confidence: 0.9},
	}}
	orch, st := newTestOrchestrator(classifier, Options{})

	resp := orch.ProcessMessage(context.Background(), st, "quiero un muffin")

	if !strings.Contains(resp.Text, "He agregado Muffin de Arándanos (individual)") {
		t.Fatalf("unexpected reply: %q", resp.Text)
	}
	if resp.Order == nil || resp.Order.Total != 2.95 {
		t.Fatalf("snapshot = %+v, want total 2.95", resp.Order)
	}
}

func TestCustomizationAmendsLastItem(t *testing.T) {
	classifier := &scriptClassifier{predictions: map[string]nlp.Prediction{
		"quiero un latte grande": {Label: LabelOrderBeverage, Confidence: 0.92},
		"con leche de almendra":  {Label: LabelOrderBeverage, Confidence: 0.88},
	}}
	orch, st := newTestOrchestrator(classifier, Options{})

	orch.ProcessMessage(context.Background(), st, "quiero un latte grande")
	resp := orch.ProcessMessage(context.Background(), st, "con leche de almendra")

	if !strings.Contains(resp.Text, "He actualizado Latte (grande)") {
		t.Fatalf("expected update reply, got %q", resp.Text)
	}
	if !strings.Contains(resp.Text, "+ leche:almendra: $0.50") {
		t.Errorf("reply should show the surcharge: %q", resp.Text)
	}
	if resp.Order == nil {
		t.Fatal("expected order snapshot")
	}
	if resp.Order.Total != 4.75 {
		t.Errorf("total = %v, want 4.75", resp.Order.Total)
	}
	if len(resp.Order.Items) != 1 {
		t.Fatalf("items = %d, want the single line amended", len(resp.Order.Items))
	}
	if !reflect.DeepEqual(resp.Order.Items[0].Customizations, []string{"leche:almendra"}) {
		t.Errorf("customizations = %v", resp.Order.Items[0].Customizations)
	}
}

func TestOrderTotalMatchesLineSum(t *testing.T) {
	classifier := &scriptClassifier{predictions: map[string]nlp.Prediction{
		"quiero un latte grande": {Label: LabelOrderBeverage, Confidence: 0.92},
		"y un muffin":            {Label: LabelOrderFood, Confidence: 0.9},
	}}
	orch, st := newTestOrchestrator(classifier, Options{})

	orch.ProcessMessage(context.Background(), st, "quiero un latte grande")
	resp := orch.ProcessMessage(context.Background(), st, "y un muffin")

	if resp.Order == nil {
		t.Fatal("expected order snapshot")
	}
	var sum float64
	for _, line := range resp.Order.Items {
		sum += line.Total
	}
	if math.Abs(resp.Order.Total-sum) > 1e-9 {
		t.Errorf("total %v != line sum %v", resp.Order.Total, sum)
	}
	if math.Abs(resp.Order.Total-7.20) > 1e-9 {
		t.Errorf("total = %v, want 7.20", resp.Order.Total)
	}
}

func TestDirectIntentBypassesThreshold(t *testing.T) {
	classifier := &scriptClassifier{predictions: map[string]nlp.Prediction{
		"quiero un latte grande": {Label: LabelOrderBeverage, Confidence: 0.92},
		"confirmar mi pedido":    {Label: LabelConfirmOrder, Confidence: 0.2},
	}}
	orch, st := newTestOrchestrator(classifier, Options{})

	orch.ProcessMessage(context.Background(), st, "quiero un latte grande")
	resp := orch.ProcessMessage(context.Background(), st, "confirmar mi pedido")

	if !strings.Contains(resp.Text, "Resumen de tu orden:") {
		t.Fatalf("low-confidence direct intent should still dispatch: %q", resp.Text)
	}
	if !strings.Contains(resp.Text, "1. Efectivo") || !strings.Contains(resp.Text, "4. App") {
		t.Errorf("summary should list payment options: %q", resp.Text)
	}
	if st.Stage != StageAwaitingPayment {
		t.Errorf("stage = %v, want %v", st.Stage, StageAwaitingPayment)
	}
	want := []string{"Efectivo", "Transferencia", "Tarjeta", "App"}
	if !reflect.DeepEqual(resp.SuggestedActions, want) {
		t.Errorf("actions = %v, want %v", resp.SuggestedActions, want)
	}
}

func TestPaymentCompletesPurchase(t *testing.T) {
	classifier := &scriptClassifier{predictions: map[string]nlp.Prediction{
		"quiero un latte grande": {Label: LabelOrderBeverage, Confidence: 0.92},
		"confirmar mi pedido":    {Label: LabelConfirmOrder, Confidence: 0.95},
	}}
	archiver := &captureArchiver{number: "ORD_20240101_001"}
	orch, st := newTestOrchestrator(classifier, Options{Archiver: archiver})

	ctx := context.Background()
	orch.ProcessMessage(ctx, st, "quiero un latte grande")
	orch.ProcessMessage(ctx, st, "confirmar mi pedido")
	resp := orch.ProcessMessage(ctx, st, "2")

	if !strings.Contains(resp.Text, "Tu pago con transferencia quedó registrado.") {
		t.Fatalf("unexpected payment reply: %q", resp.Text)
	}
	if !strings.Contains(resp.Text, "ORD_20240101_001") {
		t.Errorf("reply should carry the receipt number: %q", resp.Text)
	}
	if st.Stage != StageQuery || st.Order != nil {
		t.Errorf("state should reset after payment, stage=%v order=%v", st.Stage, st.Order)
	}
	if resp.Order != nil {
		t.Error("no snapshot expected after reset")
	}

	if len(archiver.calls) != 1 {
		t.Fatalf("archive calls = %d, want 1", len(archiver.calls))
	}
	got := archiver.calls[0]
	if got.method != "Transferencia" {
		t.Errorf("archived method = %q", got.method)
	}
	if got.snapshot.Total != 4.25 {
		t.Errorf("archived total = %v, want 4.25", got.snapshot.Total)
	}
	if got.sessionID != "test-session" {
		t.Errorf("archived session = %q", got.sessionID)
	}

	// The payment turn never consults the classifier.
	if classifier.callCount() != 2 {
		t.Errorf("classifier calls = %d, want 2", classifier.callCount())
	}
}

func TestPaymentRejectsUnrelatedInput(t *testing.T) {
	classifier := &scriptClassifier{predictions: map[string]nlp.Prediction{
		"quiero un latte grande": {Label: LabelOrderBeverage, Confidence: 0.92},
		"confirmar mi pedido":    {Label: LabelConfirmOrder, Confidence: 0.95},
	}}
	orch, st := newTestOrchestrator(classifier, Options{})

	ctx := context.Background()
	orch.ProcessMessage(ctx, st, "quiero un latte grande")
	orch.ProcessMessage(ctx, st, "confirmar mi pedido")

	resp := orch.ProcessMessage(ctx, st, "quiero otro latte por favor")
	if !strings.Contains(resp.Text, "No reconocí ese método de pago.") {
		t.Fatalf("expected payment re-prompt, got %q", resp.Text)
	}
	if st.Stage != StageAwaitingPayment {
		t.Errorf("stage = %v, payment gate must hold", st.Stage)
	}
	if st.Order == nil || st.Order.Len() != 1 {
		t.Error("pending order must survive a failed payment attempt")
	}
	if classifier.callCount() != 2 {
		t.Errorf("classifier calls = %d, payment turns must not classify", classifier.callCount())
	}

	resp = orch.ProcessMessage(ctx, st, "efectivo")
	if !strings.Contains(resp.Text, "Tu pago con efectivo quedó registrado.") {
		t.Fatalf("expected success after valid method, got %q", resp.Text)
	}
	if st.Order != nil {
		t.Error("order should clear after payment")
	}
}

func TestLowConfidenceAsksBeforeDispatching(t *testing.T) {
	predictions := map[string]nlp.Prediction{
		"cuanto sale el latte": {Label: LabelAskPrice, Confidence: 0.4},
	}
	orch, st := newTestOrchestrator(&scriptClassifier{predictions: predictions}, Options{})

	ctx := context.Background()
	resp := orch.ProcessMessage(ctx, st, "cuanto sale el latte")

	if resp.Text != "Creo que quieres consultar un precio. ¿Es correcto?" {
		t.Fatalf("expected confirmation prompt, got %q", resp.Text)
	}
	if !reflect.DeepEqual(resp.SuggestedActions, []string{"Sí", "No"}) {
		t.Errorf("actions = %v", resp.SuggestedActions)
	}
	if st.Stage != StageAwaitingIntentConfirmation {
		t.Fatalf("stage = %v", st.Stage)
	}

	confirmed := orch.ProcessMessage(ctx, st, "si")
	if !strings.Contains(confirmed.Text, "Precios disponibles:") {
		t.Fatalf("confirmation should dispatch the stored intent: %q", confirmed.Text)
	}
	if st.Stage != StageQuery {
		t.Errorf("stage = %v, want %v after the sub-flow", st.Stage, StageQuery)
	}
	if st.PredictedIntent != (Intent{}) {
		t.Errorf("predicted intent should clear, got %+v", st.PredictedIntent)
	}

	// A confirmed dispatch answers exactly like a direct one.
	direct, dst := newTestOrchestrator(&scriptClassifier{predictions: map[string]nlp.Prediction{
		"cuanto sale el latte": {Label: LabelAskPrice, Confidence: 0.99},
	}}, Options{})
	directResp := direct.ProcessMessage(ctx, dst, "cuanto sale el latte")
	if directResp.Text != confirmed.Text {
		t.Errorf("confirmed dispatch diverged from direct dispatch:\n%q\n%q", confirmed.Text, directResp.Text)
	}
}

func TestDeclinedConfirmationDiscardsGuess(t *testing.T) {
	classifier := &scriptClassifier{predictions: map[string]nlp.Prediction{
		"cuanto sale el latte":   {Label: LabelAskPrice, Confidence: 0.4},
		"quiero un latte grande": {Label: LabelOrderBeverage, Confidence: 0.92},
	}}
	orch, st := newTestOrchestrator(classifier, Options{})

	ctx := context.Background()
	orch.ProcessMessage(ctx, st, "cuanto sale el latte")
	resp := orch.ProcessMessage(ctx, st, "no, mejor no")

	if !strings.Contains(resp.Text, "¿Puedes decirme de otra forma qué necesitas?") {
		t.Fatalf("expected rephrase prompt, got %q", resp.Text)
	}
	if st.Stage != StageQuery {
		t.Errorf("stage = %v, want %v", st.Stage, StageQuery)
	}
	if st.PredictedIntent != (Intent{}) {
		t.Errorf("predicted intent should clear, got %+v", st.PredictedIntent)
	}

	// The next turn classifies fresh.
	resp = orch.ProcessMessage(ctx, st, "quiero un latte grande")
	if !strings.Contains(resp.Text, "He agregado Latte (grande)") {
		t.Fatalf("conversation should continue normally: %q", resp.Text)
	}
	if classifier.callCount() != 2 {
		t.Errorf("classifier calls = %d, want 2", classifier.callCount())
	}
}

func TestCancelIsIdempotent(t *testing.T) {
	classifier := &scriptClassifier{predictions: map[string]nlp.Prediction{
		"quiero un latte grande": {Label: LabelOrderBeverage, Confidence: 0.92},
		"cancela mi orden":       {Label: LabelCancelOrder, Confidence: 0.9},
	}}
	orch, st := newTestOrchestrator(classifier, Options{})

	ctx := context.Background()
	orch.ProcessMessage(ctx, st, "quiero un latte grande")

	first := orch.ProcessMessage(ctx, st, "cancela mi orden")
	if !strings.Contains(first.Text, "Tu orden ha sido cancelada.") {
		t.Fatalf("unexpected cancel reply: %q", first.Text)
	}
	if st.Order != nil || st.Stage != StageQuery {
		t.Errorf("cancel should reset, stage=%v order=%v", st.Stage, st.Order)
	}
	if first.Order != nil {
		t.Error("no snapshot expected after cancellation")
	}

	second := orch.ProcessMessage(ctx, st, "cancela mi orden")
	if second.Text != first.Text {
		t.Errorf("cancelling again should answer identically:\n%q\n%q", first.Text, second.Text)
	}
	if st.Order != nil || st.Stage != StageQuery {
		t.Error("state should stay clean")
	}
}

func TestUnknownIntentLeavesStateUntouched(t *testing.T) {
	classifier := &scriptClassifier{predictions: map[string]nlp.Prediction{
		"quiero un latte grande": {Label: LabelOrderBeverage, Confidence: 0.92},
		"hola que tal":           {Label: "saludo", Confidence: 0.99},
	}}
	orch, st := newTestOrchestrator(classifier, Options{})

	ctx := context.Background()
	orch.ProcessMessage(ctx, st, "quiero un latte grande")
	stageBefore := st.Stage

	for _, text := range []string{"blablabla", "hola que tal"} {
		resp := orch.ProcessMessage(ctx, st, text)
		if resp.Text != "Lo siento, no entendí lo que quieres hacer." {
			t.Fatalf("input %q: unexpected reply %q", text, resp.Text)
		}
		if st.Stage != stageBefore {
			t.Errorf("input %q changed the stage to %v", text, st.Stage)
		}
		if st.Order == nil || st.Order.Len() != 1 {
			t.Errorf("input %q disturbed the order", text)
		}
		if resp.Order == nil || resp.Order.Total != 4.25 {
			t.Errorf("input %q: pending order should still be reported", text)
		}
	}
}

func TestClassifierFailureDegradesToUnknown(t *testing.T) {
	classifier := &scriptClassifier{err: errors.New("model unavailable")}
	orch, st := newTestOrchestrator(classifier, Options{})

	resp := orch.ProcessMessage(context.Background(), st, "quiero un latte grande")

	if resp.Text != "Lo siento, no entendí lo que quieres hacer." {
		t.Fatalf("expected graceful degradation, got %q", resp.Text)
	}
	if st.Stage != StageQuery || st.Order != nil {
		t.Error("a classifier failure must not disturb the state")
	}
}

func TestConfirmOrderWithoutItems(t *testing.T) {
	classifier := &scriptClassifier{predictions: map[string]nlp.Prediction{
		"confirmar": {Label: LabelConfirmOrder, Confidence: 0.9},
	}}
	orch, st := newTestOrchestrator(classifier, Options{})

	resp := orch.ProcessMessage(context.Background(), st, "confirmar")

	if !strings.Contains(resp.Text, "Aún no tienes una orden.") {
		t.Fatalf("unexpected reply: %q", resp.Text)
	}
	if st.Stage != StageQuery {
		t.Errorf("stage = %v, empty confirm must not enter payment", st.Stage)
	}
}

func TestInvalidSizeIsRecoverable(t *testing.T) {
	classifier := &scriptClassifier{predictions: map[string]nlp.Prediction{
		"quiero un cappuccino venti":  {Label: LabelOrderBeverage, Confidence: 0.92},
		"quiero un cappuccino grande": {Label: LabelOrderBeverage, Confidence: 0.92},
	}}
	orch, st := newTestOrchestrator(classifier, Options{})

	ctx := context.Background()
	resp := orch.ProcessMessage(ctx, st, "quiero un cappuccino venti")

	if !strings.Contains(resp.Text, `El tamaño "venti" no está disponible para Cappuccino.`) {
		t.Fatalf("expected invalid size reply, got %q", resp.Text)
	}
	if resp.Order != nil {
		t.Error("nothing should be added on an invalid size")
	}
	if st.Stage != StageQuery {
		t.Errorf("stage = %v, failed add must not advance", st.Stage)
	}

	resp = orch.ProcessMessage(ctx, st, "quiero un cappuccino grande")
	if !strings.Contains(resp.Text, "He agregado Cappuccino (grande)") {
		t.Fatalf("retry should succeed: %q", resp.Text)
	}
	if resp.Order == nil || resp.Order.Total != 4.00 {
		t.Errorf("snapshot = %+v, want total 4.00", resp.Order)
	}
}

func TestShowMenuListsCatalog(t *testing.T) {
	classifier := &scriptClassifier{predictions: map[string]nlp.Prediction{
		"muestrame el menu": {Label: LabelShowMenu, Confidence: 0.2},
	}}
	orch, st := newTestOrchestrator(classifier, Options{})

	resp := orch.ProcessMessage(context.Background(), st, "muestrame el menu")

	for _, want := range []string{
		"Nuestro menú:",
		"Bebidas cafe:",
		"- Latte: Tall $3.50 | Grande $4.25 | Venti $4.95",
		"Alimentos panaderia:",
		"- Muffin de Arándanos: $2.95",
	} {
		if !strings.Contains(resp.Text, want) {
			t.Errorf("menu missing %q:\n%s", want, resp.Text)
		}
	}
	if st.Stage != StageQuery {
		t.Errorf("showing the menu must not change the stage, got %v", st.Stage)
	}
}

func TestArchiverFailureStillCompletesPayment(t *testing.T) {
	classifier := &scriptClassifier{predictions: map[string]nlp.Prediction{
		"quiero un latte grande": {Label: LabelOrderBeverage, Confidence: 0.92},
		"confirmar mi pedido":    {Label: LabelConfirmOrder, Confidence: 0.95},
	}}
	archiver := &captureArchiver{err: errors.New("storage down")}
	orch, st := newTestOrchestrator(classifier, Options{Archiver: archiver})

	ctx := context.Background()
	orch.ProcessMessage(ctx, st, "quiero un latte grande")
	orch.ProcessMessage(ctx, st, "confirmar mi pedido")
	resp := orch.ProcessMessage(ctx, st, "1")

	if !strings.Contains(resp.Text, "Tu pago con efectivo quedó registrado.") {
		t.Fatalf("payment should succeed despite the archiver: %q", resp.Text)
	}
	if strings.Contains(resp.Text, "número de orden") {
		t.Errorf("no receipt number should be promised: %q", resp.Text)
	}
	if st.Order != nil || st.Stage != StageQuery {
		t.Error("state should reset")
	}
}

func TestAskPriceWithoutItemAsksWhich(t *testing.T) {
	classifier := &scriptClassifier{predictions: map[string]nlp.Prediction{
		"cuanto cuesta": {Label: LabelAskPrice, Confidence: 0.9},
	}}
	orch, st := newTestOrchestrator(classifier, Options{})

	resp := orch.ProcessMessage(context.Background(), st, "cuanto cuesta")

	if resp.Text != "¿De qué producto te gustaría saber el precio?" {
		t.Fatalf("unexpected reply: %q", resp.Text)
	}
}
