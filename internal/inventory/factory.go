package inventory

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/franckalain/frigozen/internal/models"
	"github.com/google/uuid"
)

// DefaultShelfLifeDays applies when a receipt line has no usable shelf life
const DefaultShelfLifeDays = 7

// ErrMissingName is returned for manual entries without a name
var ErrMissingName = errors.New("item name is required")

// ManualEntry is the add-item form
type ManualEntry struct {
	Name     string
	Category models.FoodCategory
	Expiry   string // YYYY-MM-DD or RFC 3339
	Quantity int
}

// NewManualItem builds an item from the add-item form
func NewManualItem(entry ManualEntry, now time.Time) (*models.FoodItem, error) {
	name := strings.TrimSpace(entry.Name)
	if name == "" {
		return nil, ErrMissingName
	}
	expiry, err := ParseDate(entry.Expiry, now.Location())
	if err != nil {
		return nil, err
	}
	qty := entry.Quantity
	if qty < 1 {
		qty = 1
	}

	return &models.FoodItem{
		ID:              uuid.New().String(),
		Name:            name,
		Category:        models.ParseCategory(string(entry.Category)),
		PurchaseDate:    now,
		ExpiryDate:      expiry,
		Quantity:        fmt.Sprintf("%d unit", qty),
		CurrentQuantity: qty,
	}, nil
}

// FromReceipt creates one item per detected product. Expiry is counted in
// calendar days from now.
func FromReceipt(lines []models.ReceiptLine, now time.Time) []*models.FoodItem {
	items := make([]*models.FoodItem, 0, len(lines))
	for _, line := range lines {
		name := strings.TrimSpace(line.Name)
		if name == "" {
			continue
		}
		shelfLife := line.ShelfLifeDays
		if shelfLife <= 0 || shelfLife > models.MaxShelfLifeDays {
			shelfLife = DefaultShelfLifeDays
		}
		qty := line.NumericQuantity
		if qty < 1 || qty > models.MaxQuantity {
			qty = 1
		}
		label := strings.TrimSpace(line.QuantityLabel)
		if label == "" {
			label = "1 unit"
		}

		items = append(items, &models.FoodItem{
			ID:              uuid.New().String(),
			Name:            name,
			Category:        models.ParseCategory(string(line.Category)),
			PurchaseDate:    now,
			ExpiryDate:      now.AddDate(0, 0, shelfLife),
			Quantity:        label,
			CurrentQuantity: qty,
		})
	}
	return items
}
