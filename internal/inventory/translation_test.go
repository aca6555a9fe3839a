package inventory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/franckalain/frigozen/internal/models"
)

type translateCall struct {
	names []string
	lang  models.Language
}

// fakeTranslator blocks each call until release is closed, when set
type fakeTranslator struct {
	mu      sync.Mutex
	calls   []translateCall
	mapping map[string]string
	err     error
	release chan struct{}
	started chan struct{}
}

func (f *fakeTranslator) TranslateNames(ctx context.Context, names []string, lang models.Language) (map[string]string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, translateCall{names: names, lang: lang})
	release, started := f.release, f.started
	f.mu.Unlock()

	if started != nil {
		started <- struct{}{}
	}
	if release != nil {
		select {
		case <-release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mapping, f.err
}

func (f *fakeTranslator) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func TestTranslatorSkipsFirstLanguage(t *testing.T) {
	store := NewStore(nil)
	store.Load([]*models.FoodItem{testItem("1", "Lait", 1)})
	client := &fakeTranslator{mapping: map[string]string{"Lait": "Milk"}}
	tr := NewTranslator(store, client, 0)

	if tr.LanguageChanged(context.Background(), models.LanguageFrench) {
		t.Fatalf("first language must not trigger a translation")
	}
	if tr.LanguageChanged(context.Background(), models.LanguageFrench) {
		t.Fatalf("same language must not trigger a translation")
	}
	tr.Wait()
	if client.callCount() != 0 {
		t.Fatalf("expected no calls, got %d", client.callCount())
	}
}

func TestTranslatorAppliesMapping(t *testing.T) {
	store := NewStore(nil)
	store.Load([]*models.FoodItem{testItem("1", "Lait", 1), testItem("2", "Yaourt", 1)})
	client := &fakeTranslator{mapping: map[string]string{"Lait": "Milk"}}
	tr := NewTranslator(store, client, 0)

	tr.LanguageChanged(context.Background(), models.LanguageFrench)
	if !tr.LanguageChanged(context.Background(), models.LanguageEnglish) {
		t.Fatalf("expected a translation request")
	}
	tr.Wait()

	items := store.Items()
	if items[0].Name != "Milk" || items[1].Name != "Yaourt" {
		t.Fatalf("unexpected names %q %q", items[0].Name, items[1].Name)
	}
	if tr.Applied() != models.LanguageEnglish {
		t.Fatalf("expected en applied, got %q", tr.Applied())
	}

	if tr.LanguageChanged(context.Background(), models.LanguageEnglish) {
		t.Fatalf("re-applying the same language must not fire")
	}
	if client.callCount() != 1 {
		t.Fatalf("expected exactly one call, got %d", client.callCount())
	}
}

func TestTranslatorEmptyCollection(t *testing.T) {
	store := NewStore(nil)
	client := &fakeTranslator{}
	tr := NewTranslator(store, client, 0)

	tr.LanguageChanged(context.Background(), models.LanguageFrench)
	if tr.LanguageChanged(context.Background(), models.LanguageArabic) {
		t.Fatalf("empty collection must not trigger a request")
	}
	if tr.Applied() != models.LanguageArabic {
		t.Fatalf("expected language recorded, got %q", tr.Applied())
	}
	if client.callCount() != 0 {
		t.Fatalf("expected no calls")
	}
}

func TestTranslatorMergesIntoCurrentCollection(t *testing.T) {
	store := NewStore(nil)
	store.Load([]*models.FoodItem{testItem("1", "Lait", 1)})
	client := &fakeTranslator{
		mapping: map[string]string{"Lait": "Milk", "Pain": "Bread"},
		release: make(chan struct{}),
		started: make(chan struct{}, 1),
	}
	tr := NewTranslator(store, client, 0)

	tr.LanguageChanged(context.Background(), models.LanguageFrench)
	tr.LanguageChanged(context.Background(), models.LanguageEnglish)
	<-client.started

	// Added after the names were captured; the request never saw it
	store.AddItems([]*models.FoodItem{testItem("2", "Fromage", 1)})
	close(client.release)
	tr.Wait()

	items := store.Items()
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Name != "Fromage" {
		t.Fatalf("item added mid-flight must be untouched, got %q", items[0].Name)
	}
	if items[1].Name != "Milk" {
		t.Fatalf("expected Milk, got %q", items[1].Name)
	}
	if got := client.calls[0].names; len(got) != 1 || got[0] != "Lait" {
		t.Fatalf("expected request snapshot [Lait], got %v", got)
	}
}

func TestTranslatorSupersedesInFlightPass(t *testing.T) {
	store := NewStore(nil)
	store.Load([]*models.FoodItem{testItem("1", "Lait", 1)})
	client := &fakeTranslator{
		mapping: map[string]string{"Lait": "Milk"},
		release: make(chan struct{}),
		started: make(chan struct{}, 2),
	}
	tr := NewTranslator(store, client, 0)

	tr.LanguageChanged(context.Background(), models.LanguageFrench)
	tr.LanguageChanged(context.Background(), models.LanguageEnglish)
	<-client.started

	// Going back to the applied language cancels the pass without a new request
	if tr.LanguageChanged(context.Background(), models.LanguageFrench) {
		t.Fatalf("switching back to the applied language must not fire")
	}
	tr.Wait()

	if name := store.Items()[0].Name; name != "Lait" {
		t.Fatalf("superseded result must be discarded, got %q", name)
	}
	if tr.Applied() != models.LanguageFrench {
		t.Fatalf("expected fr still applied, got %q", tr.Applied())
	}
}

func TestTranslatorFailureLeavesCollection(t *testing.T) {
	store := NewStore(nil)
	store.Load([]*models.FoodItem{testItem("1", "Lait", 1)})
	client := &fakeTranslator{err: errors.New("quota exceeded")}
	tr := NewTranslator(store, client, 0)

	tr.LanguageChanged(context.Background(), models.LanguageFrench)
	tr.LanguageChanged(context.Background(), models.LanguageEnglish)
	tr.Wait()

	if name := store.Items()[0].Name; name != "Lait" {
		t.Fatalf("expected name unchanged, got %q", name)
	}
	if tr.Applied() != models.LanguageFrench {
		t.Fatalf("failed pass must not record the language, got %q", tr.Applied())
	}

	client.mu.Lock()
	client.err = nil
	client.mapping = map[string]string{"Lait": "Milk"}
	client.mu.Unlock()

	if !tr.LanguageChanged(context.Background(), models.LanguageEnglish) {
		t.Fatalf("expected retry after failure")
	}
	tr.Wait()
	if name := store.Items()[0].Name; name != "Milk" {
		t.Fatalf("expected Milk after retry, got %q", name)
	}
}
