package database

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"

	"github.com/franckalain/frigozen/internal/models"
)

// Storage keys, shared with the browser front-end's local storage layout
const (
	KeyUser     = "frigozen_user"
	KeyLanguage = "frigozen_lang"
	KeyDark     = "frigozen_dark"
	KeyTheme    = "frigozen_theme"
	KeyItems    = "frigozen_items"
)

// Storage exposes typed accessors over a DB. Read paths never fail on bad
// data: corrupt values fall back to defaults.
type Storage struct {
	db DB
}

// NewStorage wraps db
func NewStorage(db DB) *Storage {
	return &Storage{db: db}
}

// LoadItems returns the persisted collection. Missing, corrupt or non-array
// values load as an empty collection; nil entries are dropped.
func (s *Storage) LoadItems(ctx context.Context) []*models.FoodItem {
	raw, ok, err := s.db.Get(ctx, KeyItems)
	if err != nil {
		log.Printf("Error reading items: %v", err)
		return []*models.FoodItem{}
	}
	if !ok {
		return []*models.FoodItem{}
	}
	return DecodeItems([]byte(raw))
}

// DecodeItems parses an encoded snapshot. Anything that is not a JSON array
// of objects decodes to an empty collection.
func DecodeItems(data []byte) []*models.FoodItem {
	var entries []json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		log.Printf("Ignoring corrupt item snapshot: %v", err)
		return []*models.FoodItem{}
	}

	items := make([]*models.FoodItem, 0, len(entries))
	for _, entry := range entries {
		var item models.FoodItem
		entry = bytes.TrimSpace(entry)
		if len(entry) == 0 || entry[0] != '{' {
			continue
		}
		if err := json.Unmarshal(entry, &item); err != nil {
			log.Printf("Dropping malformed item: %v", err)
			continue
		}
		items = append(items, &item)
	}
	return items
}

// SaveItems persists the whole collection as one snapshot
func (s *Storage) SaveItems(ctx context.Context, items []*models.FoodItem) error {
	if items == nil {
		items = []*models.FoodItem{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode items: %w", err)
	}
	return s.db.Set(ctx, KeyItems, string(data))
}

// LoadUser returns the logged-in profile, or nil when nobody is logged in
func (s *Storage) LoadUser(ctx context.Context) *models.User {
	raw, ok, err := s.db.Get(ctx, KeyUser)
	if err != nil || !ok {
		return nil
	}
	var user models.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		log.Printf("Ignoring corrupt user profile: %v", err)
		return nil
	}
	return &user
}

func (s *Storage) SaveUser(ctx context.Context, user models.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}
	return s.db.Set(ctx, KeyUser, string(data))
}

func (s *Storage) ClearUser(ctx context.Context) error {
	return s.db.Delete(ctx, KeyUser)
}

// LoadLanguage returns the stored language or the default
func (s *Storage) LoadLanguage(ctx context.Context) models.Language {
	raw, _, err := s.db.Get(ctx, KeyLanguage)
	if err != nil {
		return models.DefaultLanguage
	}
	lang, _ := models.ParseLanguage(raw)
	return lang
}

func (s *Storage) SaveLanguage(ctx context.Context, lang models.Language) error {
	return s.db.Set(ctx, KeyLanguage, string(lang))
}

// LoadDarkMode reads the dark-mode flag, stored as "true"/"false"
func (s *Storage) LoadDarkMode(ctx context.Context) bool {
	raw, ok, err := s.db.Get(ctx, KeyDark)
	if err != nil || !ok {
		return false
	}
	dark, err := strconv.ParseBool(raw)
	return err == nil && dark
}

func (s *Storage) SaveDarkMode(ctx context.Context, dark bool) error {
	return s.db.Set(ctx, KeyDark, strconv.FormatBool(dark))
}

// LoadTheme returns the stored theme or the default
func (s *Storage) LoadTheme(ctx context.Context) models.Theme {
	raw, _, err := s.db.Get(ctx, KeyTheme)
	if err != nil {
		return models.DefaultTheme
	}
	theme, _ := models.ParseTheme(raw)
	return theme
}

func (s *Storage) SaveTheme(ctx context.Context, theme models.Theme) error {
	return s.db.Set(ctx, KeyTheme, string(theme))
}
