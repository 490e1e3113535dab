package pricing

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/Zornetta/Chatbot-Barista/internal/menu"
	"github.com/Zornetta/Chatbot-Barista/internal/order"
)

// DefaultSurcharges is the built-in customization price table:
// category -> option -> added price per unit.
func DefaultSurcharges() map[string]map[string]float64 {
	return map[string]map[string]float64{
		"leche": {
			"almendra": 0.50,
			"soya":     0.50,
			"avellana": 0.50,
		},
		"shots": {
			"extra": 0.75,
			"doble": 1.00,
		},
		"syrups": {
			"vainilla": 0.50,
			"caramelo": 0.50,
			"avellana": 0.50,
		},
	}
}

// Breakdown itemizes the price of one order line. Surcharge keys are the
// "categoria:opcion" tokens that produced them.
type Breakdown struct {
	BasePrice  float64            `json:"base_price"`
	Surcharges map[string]float64 `json:"surcharges,omitempty"`
	Total      float64            `json:"total"`
}

// Engine prices order lines against the menu and the surcharge table. It is
// stateless after construction and safe for concurrent use.
type Engine struct {
	surcharges map[string]map[string]float64
}

// NewEngine builds an engine with the given surcharge table; nil selects
// the built-in one.
func NewEngine(surcharges map[string]map[string]float64) *Engine {
	if surcharges == nil {
		surcharges = DefaultSurcharges()
	}
	return &Engine{surcharges: surcharges}
}

// ItemPrice computes the full breakdown for one line. An unknown size
// prices the base at 0 rather than failing; malformed customization tokens
// and options missing from the table are ignored.
func (e *Engine) ItemPrice(it order.Item) Breakdown {
	qty := it.Quantity
	if qty < 1 {
		qty = 1
	}

	var unit float64
	if it.Menu != nil {
		unit = it.Menu.BasePrice(it.Size)
	}

	b := Breakdown{BasePrice: round2(unit * float64(qty))}

	for _, token := range it.Customizations {
		price, ok := e.SurchargeFor(token)
		if !ok {
			continue
		}
		if b.Surcharges == nil {
			b.Surcharges = make(map[string]float64)
		}
		b.Surcharges[token] += round2(price * float64(qty))
	}

	total := b.BasePrice
	for _, s := range b.Surcharges {
		total += s
	}
	b.Total = round2(total)
	return b
}

// SurchargeFor resolves a "categoria:opcion" token against the table.
func (e *Engine) SurchargeFor(token string) (float64, bool) {
	category, option, ok := strings.Cut(token, ":")
	if !ok {
		return 0, false
	}
	options, ok := e.surcharges[category]
	if !ok {
		return 0, false
	}
	price, ok := options[option]
	return price, ok
}

// ItemTotal satisfies order.Pricer.
func (e *Engine) ItemTotal(it order.Item) float64 {
	return e.ItemPrice(it).Total
}

// ItemCalories satisfies order.Pricer. Items without nutritional data
// count as 0.
func (e *Engine) ItemCalories(it order.Item) int {
	if it.Menu == nil {
		return 0
	}
	qty := it.Quantity
	if qty < 1 {
		qty = 1
	}
	return it.Menu.CaloriesFor(it.Size) * qty
}

// OrderTotal sums the line totals. Orders keep this as their cached total,
// so the two can be compared directly.
func (e *Engine) OrderTotal(items []order.Item) float64 {
	total := 0.0
	for _, it := range items {
		total += e.ItemTotal(it)
	}
	return round2(total)
}

// FormatPriceOptions renders the per-size prices of an item followed by
// every customization option that carries a surcharge. Used both to answer
// price questions and to ask the user for a size.
func (e *Engine) FormatPriceOptions(item *menu.Item) string {
	lines := []string{"Precios disponibles:"}
	for _, size := range item.Sizes {
		lines = append(lines, fmt.Sprintf("- %s: $%.2f", capitalize(size), item.BasePrice(size)))
	}

	var extras []string
	categories := make([]string, 0, len(item.Customizations))
	for category := range item.Customizations {
		categories = append(categories, category)
	}
	sort.Strings(categories)
	for _, category := range categories {
		options, ok := e.surcharges[category]
		if !ok {
			continue
		}
		for _, option := range item.Customizations[category] {
			if price, ok := options[option]; ok {
				extras = append(extras, fmt.Sprintf("- %s: +$%.2f", capitalize(option), price))
			}
		}
	}
	if len(extras) > 0 {
		lines = append(lines, "\nPersonalizaciones disponibles:")
		lines = append(lines, extras...)
	}

	return strings.Join(lines, "\n")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
