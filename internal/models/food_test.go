package models

import (
	"encoding/json"
	"testing"
)

func TestParseCategory(t *testing.T) {
	tests := []struct {
		raw  string
		want FoodCategory
	}{
		{"DAIRY", CategoryDairy},
		{"dairy", CategoryDairy},
		{" FROZEN ", CategoryFrozen},
		{"BANANA", CategoryOther},
		{"", CategoryOther},
		{"OTHER", CategoryOther},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			if got := ParseCategory(tt.raw); got != tt.want {
				t.Fatalf("ParseCategory(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestFoodItemUnmarshalCoercesCategory(t *testing.T) {
	var item FoodItem
	if err := json.Unmarshal([]byte(`{"id":"a","name":"Banane","category":"BANANA"}`), &item); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if item.Category != CategoryOther {
		t.Fatalf("expected OTHER, got %q", item.Category)
	}

	if err := json.Unmarshal([]byte(`{"id":"b","name":"Lait","category":42}`), &item); err != nil {
		t.Fatalf("unmarshal numeric category: %v", err)
	}
	if item.Category != CategoryOther {
		t.Fatalf("expected OTHER for numeric category, got %q", item.Category)
	}
}

func TestParseLanguage(t *testing.T) {
	if l, ok := ParseLanguage("ar"); !ok || l != LanguageArabic || !l.RTL() {
		t.Fatalf("expected arabic rtl, got %q %v", l, ok)
	}
	if l, ok := ParseLanguage("de"); ok || l != DefaultLanguage {
		t.Fatalf("expected default language for unknown code, got %q %v", l, ok)
	}
}

func TestParseTheme(t *testing.T) {
	if th, ok := ParseTheme("sky"); !ok || th != ThemeSky {
		t.Fatalf("expected sky, got %q", th)
	}
	if th, ok := ParseTheme("neon"); ok || th != DefaultTheme {
		t.Fatalf("expected default theme, got %q", th)
	}
}
