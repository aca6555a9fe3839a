package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/franckalain/frigozen/internal/database"
	"github.com/franckalain/frigozen/internal/inventory"
	"github.com/franckalain/frigozen/internal/ml"
	"github.com/franckalain/frigozen/internal/models"
	"github.com/franckalain/frigozen/internal/recipes"
	"github.com/franckalain/frigozen/internal/voice"
)

// DefaultUserName is used when the login form leaves the name empty
const DefaultUserName = "Chef"

var (
	ErrUnknownLanguage = errors.New("unknown language")
	ErrUnknownTheme    = errors.New("unknown theme")
	ErrUnknownView     = errors.New("unknown view")
	ErrEmptyReceipt    = errors.New("receipt image is empty")
)

// Options tunes the application
type Options struct {
	// TranslateTimeout bounds each translation request, zero for none
	TranslateTimeout time.Duration
	// RecipeTimeout bounds a whole recipe workflow, zero for none
	RecipeTimeout time.Duration
	Voice         voice.Config
	// Now is the clock, time.Now when nil
	Now func() time.Time
}

// App owns the user session, display preferences and the inventory. It is
// the state every client of the process shares.
type App struct {
	storage    *database.Storage
	model      ml.Model
	store      *inventory.Store
	translator *inventory.Translator
	planner    *recipes.Planner
	voice      voice.Config
	now        func() time.Time

	mu       sync.RWMutex
	user     *models.User
	lang     models.Language
	dark     bool
	theme    models.Theme
	view     models.View
	onChange func()
}

// State is the snapshot pushed to clients
type State struct {
	User           *models.User        `json:"user"`
	Language       models.Language     `json:"language"`
	RTL            bool                `json:"rtl"`
	Dark           bool                `json:"dark"`
	Theme          models.Theme        `json:"theme"`
	View           models.View         `json:"view"`
	Items          []*models.FoodItem  `json:"items"`
	Dashboard      inventory.Dashboard `json:"dashboard"`
	Recipes        []models.Recipe     `json:"recipes"`
	RecipesLoading bool                `json:"recipesLoading"`
}

// New restores the persisted state and wires the inventory to storage
func New(ctx context.Context, storage *database.Storage, model ml.Model, opts Options) *App {
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	store := inventory.NewStore(storage)
	// typed dates are days on the same clock the app reads
	store.SetLocation(now().Location())
	store.Load(storage.LoadItems(ctx))

	a := &App{
		storage:    storage,
		model:      model,
		store:      store,
		translator: inventory.NewTranslator(store, model, opts.TranslateTimeout),
		planner:    recipes.NewPlanner(model, opts.RecipeTimeout),
		voice:      opts.Voice,
		now:        now,
		user:       storage.LoadUser(ctx),
		lang:       storage.LoadLanguage(ctx),
		dark:       storage.LoadDarkMode(ctx),
		theme:      storage.LoadTheme(ctx),
		view:       models.ViewDashboard,
	}
	store.OnChange(a.notify)
	// the restored language is the starting point, not a change
	a.translator.LanguageChanged(ctx, a.lang)

	log.Printf("Loaded %d items, language %s", store.Len(), a.lang)
	return a
}

// OnChange registers fn to run after any state change. fn must not block.
func (a *App) OnChange(fn func()) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onChange = fn
}

func (a *App) notify() {
	a.mu.RLock()
	fn := a.onChange
	a.mu.RUnlock()
	if fn != nil {
		fn()
	}
}

// Snapshot returns the current state with the derived dashboard views
func (a *App) Snapshot() State {
	items := a.store.Items()

	a.mu.RLock()
	defer a.mu.RUnlock()

	var user *models.User
	if a.user != nil {
		u := *a.user
		user = &u
	}
	return State{
		User:           user,
		Language:       a.lang,
		RTL:            a.lang.RTL(),
		Dark:           a.dark,
		Theme:          a.theme,
		View:           a.view,
		Items:          items,
		Dashboard:      inventory.BuildDashboard(items, a.now()),
		Recipes:        a.planner.Last(),
		RecipesLoading: a.planner.Busy(),
	}
}

// Language returns the display language
func (a *App) Language() models.Language {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.lang
}

// Store exposes the inventory
func (a *App) Store() *inventory.Store {
	return a.store
}

// Login signs the user in. Any credentials are accepted.
func (a *App) Login(ctx context.Context, name, email string) (models.User, error) {
	user := models.User{
		Name:  strings.TrimSpace(name),
		Email: strings.TrimSpace(email),
	}
	if user.Name == "" {
		user.Name = DefaultUserName
	}
	if err := a.storage.SaveUser(ctx, user); err != nil {
		return models.User{}, fmt.Errorf("failed to save user: %w", err)
	}

	a.mu.Lock()
	a.user = &user
	a.view = models.ViewDashboard
	a.mu.Unlock()

	a.notify()
	return user, nil
}

// Logout forgets the user. Items and preferences stay.
func (a *App) Logout(ctx context.Context) error {
	if err := a.storage.ClearUser(ctx); err != nil {
		return fmt.Errorf("failed to clear user: %w", err)
	}
	a.mu.Lock()
	a.user = nil
	a.mu.Unlock()

	a.notify()
	return nil
}

// SetLanguage switches the display language and reports whether item names
// are being translated in the background.
func (a *App) SetLanguage(ctx context.Context, raw string) (bool, error) {
	lang, ok := models.ParseLanguage(raw)
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrUnknownLanguage, raw)
	}
	if err := a.storage.SaveLanguage(ctx, lang); err != nil {
		log.Printf("Failed to save language: %v", err)
	}

	a.mu.Lock()
	a.lang = lang
	a.mu.Unlock()

	// the pass outlives the request that triggered it
	started := a.translator.LanguageChanged(context.WithoutCancel(ctx), lang)
	a.notify()
	return started, nil
}

// WaitTranslation blocks until any background translation finished
func (a *App) WaitTranslation() {
	a.translator.Wait()
}

// SetTheme changes the accent theme
func (a *App) SetTheme(ctx context.Context, raw string) error {
	theme, ok := models.ParseTheme(raw)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownTheme, raw)
	}
	if err := a.storage.SaveTheme(ctx, theme); err != nil {
		log.Printf("Failed to save theme: %v", err)
	}
	a.mu.Lock()
	a.theme = theme
	a.mu.Unlock()

	a.notify()
	return nil
}

// SetDark toggles dark mode
func (a *App) SetDark(ctx context.Context, dark bool) {
	if err := a.storage.SaveDarkMode(ctx, dark); err != nil {
		log.Printf("Failed to save dark mode: %v", err)
	}
	a.mu.Lock()
	a.dark = dark
	a.mu.Unlock()

	a.notify()
}

// SetView navigates. The view is not persisted.
func (a *App) SetView(raw string) error {
	view, ok := models.ParseView(raw)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownView, raw)
	}
	a.setView(view)
	a.notify()
	return nil
}

func (a *App) setView(view models.View) {
	a.mu.Lock()
	a.view = view
	a.mu.Unlock()
}

// AddItem adds a manually entered item and shows the fridge
func (a *App) AddItem(entry inventory.ManualEntry) (*models.FoodItem, error) {
	item, err := inventory.NewManualItem(entry, a.now())
	if err != nil {
		return nil, err
	}
	a.setView(models.ViewFridge)
	a.store.AddItems([]*models.FoodItem{item})
	return item, nil
}

// Scan parses a receipt photo in the current language and adds every
// detected product.
func (a *App) Scan(ctx context.Context, image []byte, mimeType string) ([]*models.FoodItem, error) {
	if len(image) == 0 {
		return nil, ErrEmptyReceipt
	}
	lines, err := a.model.ParseReceipt(ctx, image, mimeType, a.Language())
	if err != nil {
		log.Printf("Scan failed: %v", err)
		return nil, fmt.Errorf("failed to parse receipt: %w", err)
	}
	items := inventory.FromReceipt(lines, a.now())
	a.setView(models.ViewFridge)
	a.store.AddItems(items)
	return items, nil
}

// MarkUsed consumes one unit of the item, or all of it
func (a *App) MarkUsed(id string, consumeAll bool) {
	a.store.MarkUsed(id, consumeAll)
}

// UpdateExpiry sets a new expiry date
func (a *App) UpdateExpiry(id, date string) error {
	return a.store.UpdateExpiry(id, date)
}

// ClearFridge removes every item
func (a *App) ClearFridge() {
	a.store.ClearAll()
}

// ActiveNames lists the names of the items still in the fridge
func (a *App) ActiveNames() []string {
	active := inventory.Active(a.store.Items())
	names := make([]string, 0, len(active))
	for _, item := range active {
		names = append(names, item.Name)
	}
	return names
}

// SuggestRecipes runs the recipe workflow on the active items and switches to
// the recipes view.
func (a *App) SuggestRecipes(ctx context.Context) ([]models.Recipe, error) {
	names := a.ActiveNames()
	if len(names) == 0 {
		return nil, recipes.ErrNoIngredients
	}
	if a.planner.Busy() {
		return nil, recipes.ErrBusy
	}
	a.setView(models.ViewRecipes)
	a.notify()

	list, err := a.planner.Suggest(ctx, names, a.Language())
	a.notify()
	return list, err
}

// Recipes returns the last suggestions
func (a *App) Recipes() []models.Recipe {
	return a.planner.Last()
}

// StartVoice opens a live voice session grounded in the active items
func (a *App) StartVoice(ctx context.Context) (*voice.Session, error) {
	instruction := ml.VoiceInstruction(a.ActiveNames(), a.Language())
	return voice.Dial(ctx, a.voice, instruction)
}

// Close stops background work
func (a *App) Close() {
	a.translator.Stop()
}
