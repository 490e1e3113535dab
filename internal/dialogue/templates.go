package dialogue

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Zornetta/Chatbot-Barista/internal/menu"
	"github.com/Zornetta/Chatbot-Barista/internal/order"
	"github.com/Zornetta/Chatbot-Barista/internal/pricing"
)

// Suggested action sets, reused across turns.
var (
	actionsTopLevel = []string{"Ver menú", "Hacer pedido", "Consultar precios"}
	actionsAfterAdd = []string{"Ver orden", "Agregar más", "Finalizar pedido"}
	actionsBeverage = []string{"Ver menú", "Ver bebidas populares"}
	actionsFood     = []string{"Ver menú", "Ver alimentos populares"}
	actionsYesNo    = []string{"Sí", "No"}
	actionsOrderIt  = []string{"Ordenar", "Ver menú"}
)

func paymentActions() []string {
	labels := make([]string, 0, len(paymentMethods))
	for _, m := range paymentMethods {
		labels = append(labels, m.Label)
	}
	return labels
}

func unknownResponse() *Response {
	return newResponse("Lo siento, no entendí lo que quieres hacer.", actionsTopLevel...)
}

func rephraseResponse() *Response {
	return newResponse("Entendido. ¿Puedes decirme de otra forma qué necesitas?", actionsTopLevel...)
}

func confirmIntentResponse(intent Intent) *Response {
	text := fmt.Sprintf("Creo que quieres %s. ¿Es correcto?", intent.describe())
	return newResponse(text, actionsYesNo...)
}

func beveragePromptResponse() *Response {
	return newResponse("¿Qué bebida te gustaría ordenar?", actionsBeverage...)
}

func foodPromptResponse() *Response {
	return newResponse("¿Qué alimento te gustaría ordenar?", actionsFood...)
}

func clarifyPriceResponse() *Response {
	return newResponse("¿De qué producto te gustaría saber el precio?", "Ver menú")
}

func emptyOrderResponse() *Response {
	return newResponse(
		"Aún no tienes una orden. ¿Te gustaría ordenar algo?",
		"Ver menú", "Hacer pedido",
	)
}

func cancelledResponse() *Response {
	return newResponse(
		"Tu orden ha sido cancelada. ¿Puedo ayudarte con algo más?",
		"Ver menú", "Hacer pedido",
	)
}

func sizeActions(item *menu.Item) []string {
	actions := make([]string, 0, len(item.Sizes))
	for _, s := range item.Sizes {
		actions = append(actions, capitalize(s))
	}
	return actions
}

func sizePromptResponse(engine *pricing.Engine, item *menu.Item) *Response {
	text := fmt.Sprintf(
		"¿De qué tamaño quieres tu %s?\n\n%s",
		item.Name,
		engine.FormatPriceOptions(item),
	)
	return newResponse(text, sizeActions(item)...)
}

func invalidSizeResponse(engine *pricing.Engine, item *menu.Item, size string) *Response {
	text := fmt.Sprintf(
		"El tamaño %q no está disponible para %s.\n\n%s",
		size,
		item.Name,
		engine.FormatPriceOptions(item),
	)
	return newResponse(text, sizeActions(item)...)
}

func sortedSurchargeTokens(b pricing.Breakdown) []string {
	tokens := make([]string, 0, len(b.Surcharges))
	for token := range b.Surcharges {
		tokens = append(tokens, token)
	}
	sort.Strings(tokens)
	return tokens
}

// breakdownLines renders the priced parts of one order line, surcharges in
// stable order.
func breakdownLines(b pricing.Breakdown) []string {
	if len(b.Surcharges) == 0 {
		return []string{fmt.Sprintf("Precio: $%.2f", b.Total)}
	}
	lines := []string{fmt.Sprintf("Base: $%.2f", b.BasePrice)}
	for _, token := range sortedSurchargeTokens(b) {
		lines = append(lines, fmt.Sprintf("+ %s: $%.2f", token, b.Surcharges[token]))
	}
	lines = append(lines, fmt.Sprintf("Total del artículo: $%.2f", b.Total))
	return lines
}

func addedResponse(engine *pricing.Engine, it order.Item, updated bool) *Response {
	verb := "He agregado"
	suffix := "a tu orden."
	if updated {
		verb = "He actualizado"
		suffix = "en tu orden."
	}
	lines := []string{fmt.Sprintf("%s %s (%s) %s", verb, it.Menu.Name, it.Size, suffix)}
	lines = append(lines, breakdownLines(engine.ItemPrice(it))...)
	lines = append(lines, "¿Deseas algo más?")
	return newResponse(strings.Join(lines, "\n"), actionsAfterAdd...)
}

func priceInfoResponse(engine *pricing.Engine, item *menu.Item) *Response {
	sections := []string{engine.FormatPriceOptions(item)}

	var calories []string
	for _, size := range item.Sizes {
		if c := item.CaloriesFor(size); c > 0 {
			calories = append(calories, fmt.Sprintf("- %s: %d cal", capitalize(size), c))
		}
	}
	if len(calories) > 0 {
		sections = append(sections, "Calorías:\n"+strings.Join(calories, "\n"))
	}

	sections = append(sections, "¿Deseas ordenarlo?")
	return newResponse(strings.Join(sections, "\n\n"), actionsOrderIt...)
}

func menuResponse(catalog *menu.Catalog) *Response {
	var sections []string

	renderGroup := func(header string, bySection map[string][]menu.Item) {
		names := make([]string, 0, len(bySection))
		for name := range bySection {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			items := bySection[name]
			if len(items) == 0 {
				continue
			}
			lines := []string{fmt.Sprintf("%s %s:", header, name)}
			for _, item := range items {
				lines = append(lines, "- "+item.Name+": "+menuItemPrices(item))
			}
			sections = append(sections, strings.Join(lines, "\n"))
		}
	}

	renderGroup("Bebidas", catalog.Beverages)
	renderGroup("Alimentos", catalog.Foods)

	text := "Nuestro menú:\n\n" + strings.Join(sections, "\n\n")
	return newResponse(text, "Hacer pedido", "Consultar precios")
}

func menuItemPrices(item menu.Item) string {
	if len(item.Sizes) == 1 {
		return fmt.Sprintf("$%.2f", item.BasePrice(item.Sizes[0]))
	}
	parts := make([]string, 0, len(item.Sizes))
	for _, size := range item.Sizes {
		parts = append(parts, fmt.Sprintf("%s $%.2f", capitalize(size), item.BasePrice(size)))
	}
	return strings.Join(parts, " | ")
}

func paymentOptionsText() string {
	lines := []string{"¿Cómo deseas pagar?"}
	for _, m := range paymentMethods {
		lines = append(lines, fmt.Sprintf("%s. %s", m.Code, m.Label))
	}
	return strings.Join(lines, "\n")
}

func orderSummaryResponse(engine *pricing.Engine, o *order.Order) *Response {
	lines := []string{"Resumen de tu orden:"}
	for _, it := range o.Items() {
		b := engine.ItemPrice(it)
		lines = append(lines, fmt.Sprintf(
			"- %s (%s) x%d: $%.2f",
			it.Menu.Name,
			it.Size,
			it.Quantity,
			b.Total,
		))
		if len(b.Surcharges) > 0 {
			lines = append(lines, fmt.Sprintf("  Base: $%.2f", b.BasePrice))
			for _, token := range sortedSurchargeTokens(b) {
				lines = append(lines, fmt.Sprintf("  + %s: $%.2f", token, b.Surcharges[token]))
			}
		}
	}
	lines = append(lines, fmt.Sprintf("Total: $%.2f", o.Total()))
	if calories := o.Calories(); calories > 0 {
		lines = append(lines, fmt.Sprintf("Calorías: %d", calories))
	}

	text := strings.Join(lines, "\n") + "\n\n" + paymentOptionsText()
	return newResponse(text, paymentActions()...)
}

func paymentRetryResponse() *Response {
	return newResponse(
		"No reconocí ese método de pago.\n\n"+paymentOptionsText(),
		paymentActions()...,
	)
}

func paymentSuccessResponse(method PaymentMethod, receiptNumber string) *Response {
	text := fmt.Sprintf(
		"¡Gracias por tu compra! Tu pago con %s quedó registrado.",
		strings.ToLower(method.Label),
	)
	if receiptNumber != "" {
		text += fmt.Sprintf("\nTu número de orden es %s.", receiptNumber)
	}
	text += "\n¡Hasta pronto!"
	return newResponse(text, actionsTopLevel...)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
