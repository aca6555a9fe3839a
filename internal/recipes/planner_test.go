package recipes

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/franckalain/frigozen/internal/models"
)

type fakeGenerator struct {
	mu       sync.Mutex
	recipes  []models.Recipe
	err      error
	images   map[string]string
	imageErr map[string]error
	block    chan struct{}
	started  chan struct{}
	calls    int
}

func (f *fakeGenerator) SuggestRecipes(ctx context.Context, ingredients []string, lang models.Language) ([]models.Recipe, error) {
	f.mu.Lock()
	f.calls++
	block, started := f.block, f.started
	recipes, err := f.recipes, f.err
	f.mu.Unlock()

	if started != nil {
		started <- struct{}{}
	}
	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return recipes, err
}

func (f *fakeGenerator) GenerateRecipeImage(ctx context.Context, title string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.imageErr[title]; err != nil {
		return "", err
	}
	return f.images[title], nil
}

func TestSuggestWithImages(t *testing.T) {
	gen := &fakeGenerator{
		recipes: []models.Recipe{
			{Title: "Omelette"},
			{Title: "Soupe de légumes"},
			{Title: "Tarte"},
		},
		images:   map[string]string{"Omelette": "data:image/png;base64,AAAA"},
		imageErr: map[string]error{"Tarte": errors.New("quota")},
	}
	p := NewPlanner(gen, 0)

	recipes, err := p.Suggest(context.Background(), []string{"Oeufs", "Carottes"}, models.LanguageFrench)
	if err != nil {
		t.Fatalf("suggest: %v", err)
	}
	if len(recipes) != 3 {
		t.Fatalf("expected 3 recipes, got %d", len(recipes))
	}

	want := []string{
		"data:image/png;base64,AAAA",
		"https://picsum.photos/seed/Soupe%20de%20l%C3%A9gumes/800/450",
		"https://picsum.photos/seed/Tarte/800/450",
	}
	for i, recipe := range recipes {
		if recipe.ImageURL != want[i] {
			t.Errorf("recipe %q: image %q, want %q", recipe.Title, recipe.ImageURL, want[i])
		}
	}
	if got := p.Last(); len(got) != 3 || got[0].ImageURL != want[0] {
		t.Fatalf("expected last result to be kept, got %+v", got)
	}
	if p.Busy() {
		t.Fatalf("planner still busy after completion")
	}
}

func TestSuggestNoIngredients(t *testing.T) {
	p := NewPlanner(&fakeGenerator{}, 0)
	if _, err := p.Suggest(context.Background(), nil, models.LanguageFrench); !errors.Is(err, ErrNoIngredients) {
		t.Fatalf("expected ErrNoIngredients, got %v", err)
	}
}

func TestSuggestBusy(t *testing.T) {
	gen := &fakeGenerator{
		recipes: []models.Recipe{{Title: "Omelette"}},
		block:   make(chan struct{}),
		started: make(chan struct{}, 1),
	}
	p := NewPlanner(gen, 0)

	done := make(chan error, 1)
	go func() {
		_, err := p.Suggest(context.Background(), []string{"Oeufs"}, models.LanguageFrench)
		done <- err
	}()
	<-gen.started

	if !p.Busy() {
		t.Fatalf("expected planner to be busy")
	}
	if _, err := p.Suggest(context.Background(), []string{"Oeufs"}, models.LanguageFrench); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}

	close(gen.block)
	if err := <-done; err != nil {
		t.Fatalf("first request failed: %v", err)
	}
	if gen.calls != 1 {
		t.Fatalf("expected the second request to be suppressed, got %d calls", gen.calls)
	}
}

func TestSuggestFailureKeepsLast(t *testing.T) {
	gen := &fakeGenerator{recipes: []models.Recipe{{Title: "Omelette"}}}
	p := NewPlanner(gen, 0)
	if _, err := p.Suggest(context.Background(), []string{"Oeufs"}, models.LanguageFrench); err != nil {
		t.Fatalf("suggest: %v", err)
	}

	gen.mu.Lock()
	gen.err = errors.New("unavailable")
	gen.mu.Unlock()

	if _, err := p.Suggest(context.Background(), []string{"Oeufs"}, models.LanguageFrench); err == nil {
		t.Fatalf("expected error")
	}
	if got := p.Last(); len(got) != 1 || got[0].Title != "Omelette" {
		t.Fatalf("expected previous result to survive, got %+v", got)
	}
	if p.Busy() {
		t.Fatalf("busy flag not released after failure")
	}
}

func TestSuggestTimeout(t *testing.T) {
	gen := &fakeGenerator{
		recipes: []models.Recipe{{Title: "Omelette"}},
		block:   make(chan struct{}),
	}
	p := NewPlanner(gen, 20*time.Millisecond)

	_, err := p.Suggest(context.Background(), []string{"Oeufs"}, models.LanguageFrench)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}
