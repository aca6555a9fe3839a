package inventory

import (
	"math"
	"sort"
	"time"

	"github.com/franckalain/frigozen/internal/models"
)

// ExpiringSoonDays is the inclusive horizon of the expiring-soon view
const ExpiringSoonDays = 3

// dashboardExpiringLimit is how many expiring items the dashboard card shows
const dashboardExpiringLimit = 4

// Active returns the items that have not been used up
func Active(items []*models.FoodItem) []*models.FoodItem {
	active := make([]*models.FoodItem, 0, len(items))
	for _, item := range items {
		if item != nil && !item.IsUsed {
			active = append(active, item)
		}
	}
	return active
}

// DaysUntilExpiry returns the whole days left before expiry, rounding up.
// Past dates give zero or negative values.
func DaysUntilExpiry(expiry, now time.Time) int {
	diff := expiry.Sub(now)
	return int(math.Ceil(diff.Hours() / 24))
}

// ExpiringSoon returns the active items expiring within ExpiringSoonDays,
// overdue ones included, earliest expiry first. Ties keep collection order.
func ExpiringSoon(items []*models.FoodItem, now time.Time) []*models.FoodItem {
	var soon []*models.FoodItem
	for _, item := range Active(items) {
		if item.ExpiryDate.IsZero() {
			continue
		}
		if DaysUntilExpiry(item.ExpiryDate, now) <= ExpiringSoonDays {
			soon = append(soon, item)
		}
	}
	sort.SliceStable(soon, func(i, j int) bool {
		return soon[i].ExpiryDate.Before(soon[j].ExpiryDate)
	})
	if soon == nil {
		soon = []*models.FoodItem{}
	}
	return soon
}

// Consumption summarises how much of the collection has been used
type Consumption struct {
	Used       int `json:"used"`
	Total      int `json:"total"`
	Percentage int `json:"percentage"`
}

// ConsumptionStats computes the used share of the collection, 0% when empty.
func ConsumptionStats(items []*models.FoodItem) Consumption {
	var stats Consumption
	for _, item := range items {
		if item == nil {
			continue
		}
		stats.Total++
		if item.IsUsed {
			stats.Used++
		}
	}
	if stats.Total > 0 {
		stats.Percentage = int(math.Round(float64(stats.Used) / float64(stats.Total) * 100))
	}
	return stats
}

// StatusKind classifies an item by how close it is to expiring
type StatusKind string

const (
	StatusExpired  StatusKind = "expired"
	StatusToday    StatusKind = "today"
	StatusTomorrow StatusKind = "tomorrow"
	StatusInDays   StatusKind = "in_days"
)

// Status is the expiry badge shown next to an item
type Status struct {
	Kind StatusKind `json:"kind"`
	Days int        `json:"days"`
}

// ExpiryStatus classifies expiry relative to now
func ExpiryStatus(expiry, now time.Time) Status {
	days := DaysUntilExpiry(expiry, now)
	switch {
	case days < 0:
		return Status{Kind: StatusExpired, Days: days}
	case days == 0:
		return Status{Kind: StatusToday}
	case days == 1:
		return Status{Kind: StatusTomorrow, Days: 1}
	default:
		return Status{Kind: StatusInDays, Days: days}
	}
}

// ItemView pairs an item with its expiry badge
type ItemView struct {
	*models.FoodItem
	Status Status `json:"status"`
}

// Dashboard is everything the home screen renders
type Dashboard struct {
	Active            []ItemView  `json:"active"`
	ExpiringSoon      []ItemView  `json:"expiringSoon"`
	ExpiringHighlight []ItemView  `json:"expiringHighlight"`
	Consumption       Consumption `json:"consumption"`
}

// BuildDashboard recomputes every derived view from a snapshot
func BuildDashboard(items []*models.FoodItem, now time.Time) Dashboard {
	soon := withStatus(ExpiringSoon(items, now), now)
	highlight := soon
	if len(highlight) > dashboardExpiringLimit {
		highlight = highlight[:dashboardExpiringLimit]
	}
	return Dashboard{
		Active:            withStatus(Active(items), now),
		ExpiringSoon:      soon,
		ExpiringHighlight: highlight,
		Consumption:       ConsumptionStats(items),
	}
}

func withStatus(items []*models.FoodItem, now time.Time) []ItemView {
	views := make([]ItemView, len(items))
	for i, item := range items {
		views[i] = ItemView{FoodItem: item, Status: ExpiryStatus(item.ExpiryDate, now)}
	}
	return views
}
