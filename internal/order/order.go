package order

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Zornetta/Chatbot-Barista/internal/menu"
)

// InvalidSizeError is returned when a caller tries to add an item in a size
// the menu does not sell.
type InvalidSizeError struct {
	ItemName   string
	Size       string
	ValidSizes []string
}

func (e *InvalidSizeError) Error() string {
	return fmt.Sprintf(
		"size %q is not available for %q (valid: %s)",
		e.Size,
		e.ItemName,
		strings.Join(e.ValidSizes, ", "),
	)
}

// ItemNotFoundError is returned when a removal target matches no line in
// the order.
type ItemNotFoundError struct {
	ItemName string
}

func (e *ItemNotFoundError) Error() string {
	return fmt.Sprintf("item %q is not in the order", e.ItemName)
}

// Pricer computes money and calories for a single order line. The pricing
// engine implements it; the order never prices anything itself.
type Pricer interface {
	ItemTotal(item Item) float64
	ItemCalories(item Item) int
}

// Item is one line of an order: a menu item in a chosen size, with optional
// customizations, times a quantity.
type Item struct {
	Menu           *menu.Item
	Size           string
	Quantity       int
	Customizations []string
}

// NewItem builds an order line. Quantity defaults to 1 and customizations
// are normalized (trimmed, lowercased, deduplicated, sorted) so structurally
// equal lines compare equal.
func NewItem(mi *menu.Item, size string, customizations []string, quantity int) Item {
	if quantity < 1 {
		quantity = 1
	}
	return Item{
		Menu:           mi,
		Size:           size,
		Quantity:       quantity,
		Customizations: normalizeCustomizations(customizations),
	}
}

func normalizeCustomizations(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, c := range in {
		c = strings.ToLower(strings.TrimSpace(c))
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	if len(out) == 0 {
		return nil
	}
	sort.Strings(out)
	return out
}

func (i Item) equals(other Item) bool {
	if i.Menu == nil || other.Menu == nil {
		return false
	}
	if i.Menu.ID != other.Menu.ID || i.Size != other.Size || i.Quantity != other.Quantity {
		return false
	}
	if len(i.Customizations) != len(other.Customizations) {
		return false
	}
	for idx := range i.Customizations {
		if i.Customizations[idx] != other.Customizations[idx] {
			return false
		}
	}
	return true
}

// Order accumulates lines for one conversation. Every mutation recomputes
// the cached total synchronously, so Total is never stale.
type Order struct {
	items  []Item
	total  float64
	pricer Pricer
}

func New(pricer Pricer) *Order {
	return &Order{pricer: pricer}
}

// AddItem validates the size against the menu item and appends a line.
// Duplicate additions are legitimate separate lines.
func (o *Order) AddItem(
	mi *menu.Item,
	size string,
	customizations []string,
	quantity int,
) (Item, error) {
	if mi == nil {
		return Item{}, fmt.Errorf("menu item is required")
	}
	if !mi.HasSize(size) {
		return Item{}, &InvalidSizeError{
			ItemName:   mi.Name,
			Size:       size,
			ValidSizes: append([]string(nil), mi.Sizes...),
		}
	}

	item := NewItem(mi, size, customizations, quantity)
	o.items = append(o.items, item)
	o.recompute()
	return item, nil
}

// RemoveItem deletes the first line structurally equal to target.
func (o *Order) RemoveItem(target Item) error {
	for idx, it := range o.items {
		if it.equals(target) {
			o.items = append(o.items[:idx], o.items[idx+1:]...)
			o.recompute()
			return nil
		}
	}
	name := target.Size
	if target.Menu != nil {
		name = target.Menu.Name
	}
	return &ItemNotFoundError{ItemName: name}
}

func (o *Order) recompute() {
	total := 0.0
	for _, it := range o.items {
		total += o.pricer.ItemTotal(it)
	}
	o.total = total
}

// Items returns a copy of the order lines.
func (o *Order) Items() []Item {
	out := make([]Item, len(o.items))
	copy(out, o.items)
	return out
}

func (o *Order) Total() float64 { return o.total }

func (o *Order) Empty() bool { return len(o.items) == 0 }

func (o *Order) Len() int { return len(o.items) }

// Calories sums the calories of every line.
func (o *Order) Calories() int {
	sum := 0
	for _, it := range o.items {
		sum += o.pricer.ItemCalories(it)
	}
	return sum
}

// Snapshot renders the order as plain data for responses, receipts and
// events. The snapshot shares nothing with the live order.
func (o *Order) Snapshot() Snapshot {
	snap := Snapshot{
		Items:    make([]Line, 0, len(o.items)),
		Total:    o.total,
		Calories: o.Calories(),
	}
	for _, it := range o.items {
		snap.Items = append(snap.Items, Line{
			ItemID:         it.Menu.ID,
			Name:           it.Menu.Name,
			Size:           it.Size,
			Quantity:       it.Quantity,
			Customizations: append([]string(nil), it.Customizations...),
			Total:          o.pricer.ItemTotal(it),
			Calories:       o.pricer.ItemCalories(it),
		})
	}
	return snap
}

// Snapshot is a read-only view of an order, safe to marshal and to hand
// across goroutines.
type Snapshot struct {
	Items    []Line  `json:"items"`
	Total    float64 `json:"total"`
	Calories int     `json:"calories"`
}

type Line struct {
	ItemID         string   `json:"item_id"`
	Name           string   `json:"name"`
	Size           string   `json:"size"`
	Quantity       int      `json:"quantity"`
	Customizations []string `json:"customizations,omitempty"`
	Total          float64  `json:"total"`
	Calories       int      `json:"calories"`
}
