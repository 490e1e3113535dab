package order

import (
	"errors"
	"testing"

	"github.com/Zornetta/Chatbot-Barista/internal/menu"
)

// basePricer prices lines from the menu base price alone, enough to test
// order bookkeeping without pulling in the pricing engine.
type basePricer struct{}

func (basePricer) ItemTotal(it Item) float64 {
	return it.Menu.BasePrice(it.Size) * float64(it.Quantity)
}

func (basePricer) ItemCalories(it Item) int {
	return it.Menu.CaloriesFor(it.Size) * it.Quantity
}

func testCappuccino() *menu.Item {
	return &menu.Item{
		ID:       "cappuccino",
		Name:     "Cappuccino",
		Category: "bebida caliente",
		Sizes:    []string{"tall", "grande"},
		Prices:   map[string]float64{"tall": 3.25, "grande": 3.95},
		Calories: map[string]int{"tall": 120, "grande": 150},
	}
}

func TestAddItemRecomputesTotal(t *testing.T) {
	o := New(basePricer{})

	if !o.Empty() {
		t.Fatal("expected new order to be empty")
	}

	if _, err := o.AddItem(testCappuccino(), "tall", nil, 1); err != nil {
		t.Fatalf("add tall: %v", err)
	}
	if o.Total() != 3.25 {
		t.Fatalf("expected total 3.25, got %v", o.Total())
	}

	if _, err := o.AddItem(testCappuccino(), "grande", nil, 2); err != nil {
		t.Fatalf("add grandes: %v", err)
	}
	if o.Total() != 11.15 {
		t.Fatalf("expected total 11.15, got %v", o.Total())
	}
	if o.Len() != 2 {
		t.Fatalf("expected 2 lines, got %d", o.Len())
	}
}

func TestAddItemRejectsInvalidSize(t *testing.T) {
	o := New(basePricer{})

	_, err := o.AddItem(testCappuccino(), "venti", nil, 1)
	if err == nil {
		t.Fatal("expected error for size the item does not sell")
	}

	var sizeErr *InvalidSizeError
	if !errors.As(err, &sizeErr) {
		t.Fatalf("expected InvalidSizeError, got %T: %v", err, err)
	}
	if sizeErr.Size != "venti" || sizeErr.ItemName != "Cappuccino" {
		t.Fatalf("unexpected error fields: %+v", sizeErr)
	}
	if len(sizeErr.ValidSizes) != 2 {
		t.Fatalf("expected valid sizes in error, got %v", sizeErr.ValidSizes)
	}
	if !o.Empty() {
		t.Fatal("expected rejected add to leave the order empty")
	}
}

func TestQuantityDefaultsToOne(t *testing.T) {
	o := New(basePricer{})

	it, err := o.AddItem(testCappuccino(), "tall", nil, 0)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if it.Quantity != 1 {
		t.Fatalf("expected quantity to default to 1, got %d", it.Quantity)
	}
}

func TestRemoveItemFirstMatchOnly(t *testing.T) {
	o := New(basePricer{})

	first, err := o.AddItem(testCappuccino(), "tall", nil, 1)
	if err != nil {
		t.Fatalf("add first: %v", err)
	}
	if _, err := o.AddItem(testCappuccino(), "tall", nil, 1); err != nil {
		t.Fatalf("add second: %v", err)
	}

	if err := o.RemoveItem(first); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if o.Len() != 1 {
		t.Fatalf("expected one remaining line, got %d", o.Len())
	}
	if o.Total() != 3.25 {
		t.Fatalf("expected total 3.25 after removal, got %v", o.Total())
	}
}

func TestRemoveMissingItem(t *testing.T) {
	o := New(basePricer{})

	if _, err := o.AddItem(testCappuccino(), "tall", nil, 1); err != nil {
		t.Fatalf("add: %v", err)
	}

	ghost := NewItem(testCappuccino(), "grande", nil, 1)
	err := o.RemoveItem(ghost)
	if err == nil {
		t.Fatal("expected error removing absent line")
	}
	var notFound *ItemNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected ItemNotFoundError, got %T: %v", err, err)
	}
	if o.Len() != 1 {
		t.Fatalf("expected order untouched, got %d lines", o.Len())
	}
}

func TestCustomizationsNormalized(t *testing.T) {
	it := NewItem(testCappuccino(), "tall", []string{" Shots:Extra ", "leche:soya", "shots:extra", ""}, 1)

	want := []string{"leche:soya", "shots:extra"}
	if len(it.Customizations) != len(want) {
		t.Fatalf("expected %v, got %v", want, it.Customizations)
	}
	for i := range want {
		if it.Customizations[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, it.Customizations)
		}
	}
}

func TestSnapshotIsDetached(t *testing.T) {
	o := New(basePricer{})
	if _, err := o.AddItem(testCappuccino(), "grande", []string{"leche:soya"}, 2); err != nil {
		t.Fatalf("add: %v", err)
	}

	snap := o.Snapshot()
	if snap.Total != 7.90 {
		t.Fatalf("expected snapshot total 7.90, got %v", snap.Total)
	}
	if snap.Calories != 300 {
		t.Fatalf("expected snapshot calories 300, got %d", snap.Calories)
	}
	if len(snap.Items) != 1 {
		t.Fatalf("expected 1 snapshot line, got %d", len(snap.Items))
	}

	line := snap.Items[0]
	if line.Name != "Cappuccino" || line.Size != "grande" || line.Quantity != 2 {
		t.Fatalf("unexpected snapshot line: %+v", line)
	}

	// Mutating the snapshot must not reach the order.
	snap.Items[0].Quantity = 99
	if o.Items()[0].Quantity != 2 {
		t.Fatal("expected order line unchanged after snapshot mutation")
	}
}
