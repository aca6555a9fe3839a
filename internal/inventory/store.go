package inventory

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/franckalain/frigozen/internal/models"
)

// ErrInvalidDate is returned by UpdateExpiry when the date cannot be parsed.
// The stored date is left untouched.
var ErrInvalidDate = errors.New("invalid expiry date")

// ItemSaver persists a full snapshot of the collection
type ItemSaver interface {
	SaveItems(ctx context.Context, items []*models.FoodItem) error
}

// Store is the single source of truth for the food-item collection. Every
// mutation keeps the model invariants and persists the whole snapshot.
type Store struct {
	mu        sync.RWMutex
	persistMu sync.Mutex // orders snapshot writes
	items     []*models.FoodItem
	saver     ItemSaver
	location  *time.Location
	onChange  func()
}

// NewStore creates an empty store. saver may be nil for a purely in-memory store.
func NewStore(saver ItemSaver) *Store {
	return &Store{
		items:    []*models.FoodItem{},
		saver:    saver,
		location: time.Local,
	}
}

// OnChange registers fn to run after every mutation, outside the lock
func (s *Store) OnChange(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

// SetLocation sets the zone used to interpret date-only expiry input
func (s *Store) SetLocation(loc *time.Location) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.location = loc
}

// Load replaces the collection with previously persisted items without
// writing them back.
func (s *Store) Load(items []*models.FoodItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = normalize(items)
}

// Items returns a copy of the collection, most recent first
func (s *Store) Items() []*models.FoodItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneItems(s.items)
}

// Names returns the name of every item, in collection order
func (s *Store) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.items))
	for _, item := range s.items {
		if item.Name != "" {
			names = append(names, item.Name)
		}
	}
	return names
}

// Len returns the number of items, used or not
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// AddItems prepends the well-formed entries of batch, keeping their order,
// and returns how many were added. Nil entries, entries without an id or
// name, and ids already present are dropped.
func (s *Store) AddItems(batch []*models.FoodItem) int {
	valid := normalize(batch)
	if len(valid) == 0 {
		return 0
	}

	added := 0
	s.mutate(func() bool {
		seen := make(map[string]bool, len(s.items)+len(valid))
		for _, item := range s.items {
			seen[item.ID] = true
		}
		merged := make([]*models.FoodItem, 0, len(valid)+len(s.items))
		for _, item := range valid {
			if seen[item.ID] {
				continue
			}
			seen[item.ID] = true
			merged = append(merged, item)
		}
		added = len(merged)
		s.items = append(merged, s.items...)
		return added > 0
	})
	return added
}

// MarkUsed consumes one unit of the item, or all of it when consumeAll is set
// or a single unit remains. Unknown ids are ignored.
func (s *Store) MarkUsed(id string, consumeAll bool) {
	s.mutate(func() bool {
		item := s.find(id)
		if item == nil {
			return false
		}
		if consumeAll || item.CurrentQuantity <= 1 {
			item.IsUsed = true
			item.CurrentQuantity = 0
		} else {
			item.CurrentQuantity--
		}
		return true
	})
}

// UpdateExpiry overwrites the expiry date of the item. Accepted formats are
// YYYY-MM-DD (midnight in the store location) and RFC 3339. Unknown ids are
// ignored; unparseable dates return ErrInvalidDate and change nothing.
func (s *Store) UpdateExpiry(id, date string) error {
	s.mu.RLock()
	loc := s.location
	s.mu.RUnlock()

	expiry, err := ParseDate(date, loc)
	if err != nil {
		return err
	}

	s.mutate(func() bool {
		item := s.find(id)
		if item == nil {
			return false
		}
		item.ExpiryDate = expiry
		return true
	})
	return nil
}

// ClearAll empties the collection
func (s *Store) ClearAll() {
	s.mutate(func() bool {
		s.items = []*models.FoodItem{}
		return true
	})
}

// BulkRename replaces the name of every item found in mapping. It runs
// against the current collection in one atomic pass.
func (s *Store) BulkRename(mapping map[string]string) int {
	if len(mapping) == 0 {
		return 0
	}

	renamed := 0
	s.mutate(func() bool {
		for _, item := range s.items {
			translated, ok := mapping[item.Name]
			if !ok || strings.TrimSpace(translated) == "" {
				continue
			}
			item.Name = translated
			renamed++
		}
		return renamed > 0
	})
	return renamed
}

// ParseDate parses the date formats accepted for expiry corrections
func ParseDate(raw string, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if loc == nil {
		loc = time.Local
	}
	if t, err := time.ParseInLocation(time.DateOnly, raw, loc); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil && encodable(t) {
		return t, nil
	}
	return time.Time{}, ErrInvalidDate
}

// encodable reports whether t can be written as a JSON timestamp
func encodable(t time.Time) bool {
	return t.Year() >= 0 && t.Year() <= 9999
}

// mutate runs fn under the write lock and, when fn reports a change,
// persists the snapshot and notifies the change hook.
func (s *Store) mutate(fn func() bool) {
	s.mu.Lock()
	if !fn() {
		s.mu.Unlock()
		return
	}
	snapshot := cloneItems(s.items)
	saver, onChange := s.saver, s.onChange
	s.persistMu.Lock()
	s.mu.Unlock()

	if saver != nil {
		if err := saver.SaveItems(context.Background(), snapshot); err != nil {
			log.Printf("Error persisting items: %v", err)
		}
	}
	s.persistMu.Unlock()
	if onChange != nil {
		onChange()
	}
}

func (s *Store) find(id string) *models.FoodItem {
	for _, item := range s.items {
		if item.ID == id {
			return item
		}
	}
	return nil
}

// normalize copies the well-formed entries and enforces item invariants
func normalize(batch []*models.FoodItem) []*models.FoodItem {
	valid := make([]*models.FoodItem, 0, len(batch))
	for _, item := range batch {
		if item == nil || item.ID == "" || strings.TrimSpace(item.Name) == "" {
			continue
		}
		if !encodable(item.PurchaseDate) || !encodable(item.ExpiryDate) {
			continue
		}
		c := *item
		c.Category = models.ParseCategory(string(c.Category))
		if c.CurrentQuantity < 0 || c.IsUsed {
			c.CurrentQuantity = 0
		}
		valid = append(valid, &c)
	}
	return valid
}

func cloneItems(items []*models.FoodItem) []*models.FoodItem {
	out := make([]*models.FoodItem, len(items))
	for i, item := range items {
		c := *item
		out[i] = &c
	}
	return out
}
