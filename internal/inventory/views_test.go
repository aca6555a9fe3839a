package inventory

import (
	"testing"
	"time"

	"github.com/franckalain/frigozen/internal/models"
)

var frozenNow = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

func expiringIn(id string, d time.Duration) *models.FoodItem {
	item := testItem(id, id, 1)
	item.ExpiryDate = frozenNow.Add(d)
	return item
}

func TestDaysUntilExpiry(t *testing.T) {
	tests := []struct {
		name string
		in   time.Duration
		want int
	}{
		{name: "exactlyThreeDays", in: 72 * time.Hour, want: 3},
		{name: "justOverThreeDays", in: 72*time.Hour + time.Millisecond, want: 4},
		{name: "partialDayRoundsUp", in: 2 * time.Hour, want: 1},
		{name: "now", in: 0, want: 0},
		{name: "halfDayAgo", in: -12 * time.Hour, want: 0},
		{name: "twoDaysAgo", in: -48 * time.Hour, want: -2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DaysUntilExpiry(frozenNow.Add(tt.in), frozenNow); got != tt.want {
				t.Fatalf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestExpiringSoon(t *testing.T) {
	used := expiringIn("used", time.Hour)
	used.IsUsed = true

	items := []*models.FoodItem{
		expiringIn("four", 96*time.Hour),
		expiringIn("three", 72*time.Hour),
		expiringIn("past", -48*time.Hour),
		used,
		expiringIn("one", 24*time.Hour),
	}

	soon := ExpiringSoon(items, frozenNow)
	var got []string
	for _, item := range soon {
		got = append(got, item.ID)
	}
	want := []string{"past", "one", "three"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestExpiringSoonStableOnTies(t *testing.T) {
	items := []*models.FoodItem{
		expiringIn("b", 24*time.Hour),
		expiringIn("a", 24*time.Hour),
		expiringIn("c", 24*time.Hour),
	}
	soon := ExpiringSoon(items, frozenNow)
	if soon[0].ID != "b" || soon[1].ID != "a" || soon[2].ID != "c" {
		t.Fatalf("expected original order on ties, got %s %s %s", soon[0].ID, soon[1].ID, soon[2].ID)
	}
}

func TestExpiringSoonEmpty(t *testing.T) {
	if soon := ExpiringSoon(nil, frozenNow); soon == nil || len(soon) != 0 {
		t.Fatalf("expected empty non-nil slice, got %v", soon)
	}
}

func TestConsumptionStats(t *testing.T) {
	mk := func(used ...bool) []*models.FoodItem {
		var items []*models.FoodItem
		for i, u := range used {
			item := testItem(string(rune('a'+i)), "x", 1)
			item.IsUsed = u
			items = append(items, item)
		}
		return items
	}

	tests := []struct {
		name  string
		items []*models.FoodItem
		want  int
	}{
		{name: "empty", items: nil, want: 0},
		{name: "oneOfThree", items: mk(true, false, false), want: 33},
		{name: "twoOfThree", items: mk(true, true, false), want: 67},
		{name: "all", items: mk(true, true), want: 100},
		{name: "none", items: mk(false), want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ConsumptionStats(tt.items).Percentage; got != tt.want {
				t.Fatalf("got %d%%, want %d%%", got, tt.want)
			}
		})
	}
}

func TestExpiryStatus(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want StatusKind
	}{
		{-48 * time.Hour, StatusExpired},
		{-time.Hour, StatusToday},
		{time.Hour, StatusTomorrow},
		{36 * time.Hour, StatusInDays},
	}
	for _, tt := range tests {
		if got := ExpiryStatus(frozenNow.Add(tt.in), frozenNow).Kind; got != tt.want {
			t.Fatalf("%v: got %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestBuildDashboard(t *testing.T) {
	var items []*models.FoodItem
	for i := 0; i < 6; i++ {
		items = append(items, expiringIn(string(rune('a'+i)), time.Duration(i)*time.Hour))
	}
	used := expiringIn("used", time.Hour)
	used.IsUsed = true
	items = append(items, used)

	dash := BuildDashboard(items, frozenNow)
	if len(dash.Active) != 6 {
		t.Fatalf("expected 6 active items, got %d", len(dash.Active))
	}
	if len(dash.ExpiringSoon) != 6 || len(dash.ExpiringHighlight) != 4 {
		t.Fatalf("expected 6 expiring and 4 highlighted, got %d and %d", len(dash.ExpiringSoon), len(dash.ExpiringHighlight))
	}
	if dash.Consumption.Used != 1 || dash.Consumption.Total != 7 || dash.Consumption.Percentage != 14 {
		t.Fatalf("unexpected consumption %+v", dash.Consumption)
	}
}
