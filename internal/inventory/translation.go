package inventory

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/franckalain/frigozen/internal/models"
)

// NameTranslator maps item names to their translation in lang, keyed by the
// exact original name
type NameTranslator interface {
	TranslateNames(ctx context.Context, names []string, lang models.Language) (map[string]string, error)
}

// Translator renames the collection when the display language changes.
//
// Names are captured before the request is sent and the result is merged into
// the collection as it is when the response arrives, so items added in
// between are left alone. A newer language change supersedes any pass still
// in flight: its context is cancelled and its result discarded.
type Translator struct {
	store   *Store
	client  NameTranslator
	timeout time.Duration

	mu          sync.Mutex
	initialized bool
	applied     models.Language
	pending     models.Language
	generation  uint64
	cancel      context.CancelFunc
	wg          sync.WaitGroup
}

// NewTranslator creates a translator for store. timeout bounds each request;
// zero means no limit.
func NewTranslator(store *Store, client NameTranslator, timeout time.Duration) *Translator {
	return &Translator{store: store, client: client, timeout: timeout}
}

// LanguageChanged reacts to a new display language and reports whether a
// translation request was issued. The first language seen is the starting
// point and never triggers a request, nor does a language equal to the one
// last applied.
func (t *Translator) LanguageChanged(ctx context.Context, lang models.Language) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.initialized {
		t.initialized = true
		t.applied = lang
		return false
	}
	if t.cancel != nil && t.pending == lang {
		return false
	}
	if t.cancel == nil && t.applied == lang {
		return false
	}

	t.supersedeLocked()

	if t.applied == lang {
		// Switched back before the previous pass resolved
		return false
	}

	names := t.store.Names()
	if len(names) == 0 {
		t.applied = lang
		return false
	}

	var (
		passCtx context.Context
		cancel  context.CancelFunc
	)
	if t.timeout > 0 {
		passCtx, cancel = context.WithTimeout(ctx, t.timeout)
	} else {
		passCtx, cancel = context.WithCancel(ctx)
	}
	t.generation++
	t.cancel = cancel
	t.pending = lang

	t.wg.Add(1)
	go t.run(passCtx, cancel, t.generation, names, lang)
	return true
}

// Applied returns the language the collection names are currently in
func (t *Translator) Applied() models.Language {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.applied
}

// Wait blocks until no translation pass is running
func (t *Translator) Wait() {
	t.wg.Wait()
}

// Stop cancels any pass in flight
func (t *Translator) Stop() {
	t.mu.Lock()
	t.supersedeLocked()
	t.mu.Unlock()
	t.wg.Wait()
}

func (t *Translator) supersedeLocked() {
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
	t.pending = ""
	t.generation++
}

func (t *Translator) run(ctx context.Context, cancel context.CancelFunc, generation uint64, names []string, lang models.Language) {
	defer t.wg.Done()
	defer cancel()

	mapping, err := t.client.TranslateNames(ctx, names, lang)

	t.mu.Lock()
	defer t.mu.Unlock()

	if generation != t.generation {
		log.Printf("Discarding superseded translation to %s", lang)
		return
	}
	t.cancel = nil
	t.pending = ""

	if err != nil {
		log.Printf("Translation to %s failed: %v", lang, err)
		return
	}

	// The store's change hook runs here with t.mu held; it must not call
	// back into the translator.
	renamed := t.store.BulkRename(mapping)
	t.applied = lang
	log.Printf("Translated %d of %d item names to %s", renamed, len(names), lang)
}
