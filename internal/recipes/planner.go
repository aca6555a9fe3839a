package recipes

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/franckalain/frigozen/internal/models"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrBusy is returned when a suggestion workflow is already running
	ErrBusy = errors.New("recipe suggestion already in progress")
	// ErrNoIngredients is returned when there is nothing to cook with
	ErrNoIngredients = errors.New("no active ingredients")
)

// Generator is the part of the AI service the planner needs
type Generator interface {
	SuggestRecipes(ctx context.Context, ingredients []string, lang models.Language) ([]models.Recipe, error)
	GenerateRecipeImage(ctx context.Context, title string) (string, error)
}

// Planner runs the suggest-then-illustrate workflow. Only one run is allowed
// at a time; the last completed list is kept until the next one completes.
type Planner struct {
	gen     Generator
	timeout time.Duration

	busy atomic.Bool

	mu   sync.RWMutex
	last []models.Recipe
}

// NewPlanner creates a planner. A zero timeout leaves the workflow bounded
// only by the caller's context.
func NewPlanner(gen Generator, timeout time.Duration) *Planner {
	return &Planner{gen: gen, timeout: timeout, last: []models.Recipe{}}
}

// Busy reports whether a workflow is running
func (p *Planner) Busy() bool {
	return p.busy.Load()
}

// Last returns the most recent completed suggestions
func (p *Planner) Last() []models.Recipe {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]models.Recipe, len(p.last))
	copy(out, p.last)
	return out
}

// Suggest fetches recipes for the ingredients and then one image per recipe in
// parallel. The result is returned only once every image attempt resolved;
// failed or empty images fall back to Placeholder.
func (p *Planner) Suggest(ctx context.Context, ingredients []string, lang models.Language) ([]models.Recipe, error) {
	if len(ingredients) == 0 {
		return nil, ErrNoIngredients
	}
	if !p.busy.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer p.busy.Store(false)

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	suggested, err := p.gen.SuggestRecipes(ctx, ingredients, lang)
	if err != nil {
		log.Printf("Recipes failed: %v", err)
		return nil, fmt.Errorf("failed to suggest recipes: %w", err)
	}

	recipes := make([]models.Recipe, len(suggested))
	copy(recipes, suggested)

	g, gctx := errgroup.WithContext(ctx)
	for i := range recipes {
		g.Go(func() error {
			image, err := p.gen.GenerateRecipeImage(gctx, recipes[i].Title)
			if err != nil {
				log.Printf("Image for %q failed: %v", recipes[i].Title, err)
			}
			if err != nil || image == "" {
				image = Placeholder(recipes[i].Title)
			}
			recipes[i].ImageURL = image
			return nil
		})
	}
	// image failures never fail the batch
	_ = g.Wait()

	p.mu.Lock()
	p.last = recipes
	p.mu.Unlock()

	log.Printf("Suggested %d recipes", len(recipes))
	return recipes, nil
}

// Placeholder is the deterministic image used when generation fails
func Placeholder(title string) string {
	return fmt.Sprintf("https://picsum.photos/seed/%s/800/450", url.PathEscape(title))
}
