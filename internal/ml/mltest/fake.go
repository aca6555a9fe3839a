// Package mltest provides a scripted ml.Model for tests.
package mltest

import (
	"context"
	"sync"

	"github.com/franckalain/frigozen/internal/ml"
	"github.com/franckalain/frigozen/internal/models"
)

var _ ml.Model = (*Fake)(nil)

// Fake answers from its fields. Translations are keyed by language, then by
// original name.
type Fake struct {
	mu sync.Mutex

	Receipt      []models.ReceiptLine
	ReceiptErr   error
	Translations map[models.Language]map[string]string
	TranslateErr error
	Recipes      []models.Recipe
	RecipesErr   error
	Images       map[string]string

	TranslateCalls int
	ReceiptLangs   []models.Language
}

func (f *Fake) Load(ctx context.Context) error { return nil }

func (f *Fake) Close() error { return nil }

func (f *Fake) ParseReceipt(ctx context.Context, image []byte, mimeType string, lang models.Language) ([]models.ReceiptLine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ReceiptLangs = append(f.ReceiptLangs, lang)
	return f.Receipt, f.ReceiptErr
}

func (f *Fake) TranslateNames(ctx context.Context, names []string, lang models.Language) (map[string]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.TranslateCalls++
	if f.TranslateErr != nil {
		return nil, f.TranslateErr
	}
	mapping := map[string]string{}
	for _, name := range names {
		if translated, ok := f.Translations[lang][name]; ok {
			mapping[name] = translated
		}
	}
	return mapping, nil
}

func (f *Fake) SuggestRecipes(ctx context.Context, ingredients []string, lang models.Language) ([]models.Recipe, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Recipes, f.RecipesErr
}

func (f *Fake) GenerateRecipeImage(ctx context.Context, title string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Images[title], nil
}

// Calls returns how many translation requests were made
func (f *Fake) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.TranslateCalls
}
