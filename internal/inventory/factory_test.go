package inventory

import (
	"errors"
	"testing"
	"time"

	"github.com/franckalain/frigozen/internal/models"
)

func TestFromReceiptDefaults(t *testing.T) {
	lines := []models.ReceiptLine{
		{Name: "Lait demi-écrémé", Category: models.CategoryDairy, ShelfLifeDays: 10, QuantityLabel: "1 L", NumericQuantity: 2},
		{Name: "Bananes", Category: "BANANA"},
		{Name: "   "},
	}

	items := FromReceipt(lines, frozenNow)
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}

	milk := items[0]
	if milk.ID == "" || milk.Category != models.CategoryDairy || milk.CurrentQuantity != 2 || milk.Quantity != "1 L" {
		t.Fatalf("unexpected milk item %+v", milk)
	}
	if !milk.ExpiryDate.Equal(frozenNow.AddDate(0, 0, 10)) {
		t.Fatalf("expected expiry in 10 days, got %v", milk.ExpiryDate)
	}

	bananas := items[1]
	if bananas.Category != models.CategoryOther {
		t.Fatalf("expected unknown category coerced, got %q", bananas.Category)
	}
	if !bananas.ExpiryDate.Equal(frozenNow.AddDate(0, 0, DefaultShelfLifeDays)) {
		t.Fatalf("expected default shelf life, got %v", bananas.ExpiryDate)
	}
	if bananas.CurrentQuantity != 1 || bananas.Quantity != "1 unit" || bananas.IsUsed {
		t.Fatalf("unexpected defaults %+v", bananas)
	}
	if milk.ID == bananas.ID {
		t.Fatalf("expected unique ids")
	}
}

func TestNewManualItem(t *testing.T) {
	item, err := NewManualItem(ManualEntry{
		Name:     " Fromage ",
		Category: models.CategoryDairy,
		Expiry:   "2026-10-25",
		Quantity: 3,
	}, frozenNow)
	if err != nil {
		t.Fatalf("new manual item: %v", err)
	}
	if item.Name != "Fromage" || item.Quantity != "3 unit" || item.CurrentQuantity != 3 {
		t.Fatalf("unexpected item %+v", item)
	}
	if want := time.Date(2026, 10, 25, 0, 0, 0, 0, time.UTC); !item.ExpiryDate.Equal(want) {
		t.Fatalf("expected %v, got %v", want, item.ExpiryDate)
	}
	if !item.PurchaseDate.Equal(frozenNow) {
		t.Fatalf("expected purchase date now, got %v", item.PurchaseDate)
	}
}

func TestNewManualItemValidation(t *testing.T) {
	if _, err := NewManualItem(ManualEntry{Expiry: "2026-10-25"}, frozenNow); !errors.Is(err, ErrMissingName) {
		t.Fatalf("expected ErrMissingName, got %v", err)
	}
	if _, err := NewManualItem(ManualEntry{Name: "Pain", Expiry: "demain"}, frozenNow); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
	item, err := NewManualItem(ManualEntry{Name: "Pain", Category: "bread", Expiry: "2026-10-20"}, frozenNow)
	if err != nil {
		t.Fatalf("new manual item: %v", err)
	}
	if item.CurrentQuantity != 1 || item.Category != models.CategoryOther {
		t.Fatalf("expected quantity 1 and OTHER, got %+v", item)
	}
}

func TestFromReceiptIgnoresOutOfRangeNumbers(t *testing.T) {
	items := FromReceipt([]models.ReceiptLine{
		{Name: "Sel", ShelfLifeDays: 5000000, NumericQuantity: 50000},
	}, frozenNow)
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if want := frozenNow.AddDate(0, 0, DefaultShelfLifeDays); !items[0].ExpiryDate.Equal(want) {
		t.Fatalf("expected default shelf life, got %v", items[0].ExpiryDate)
	}
	if items[0].CurrentQuantity != 1 {
		t.Fatalf("expected quantity 1, got %d", items[0].CurrentQuantity)
	}
}
