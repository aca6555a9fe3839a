package ml

import (
	"context"
	"os"
	"strings"

	"github.com/franckalain/frigozen/internal/models"
)

// LocalConfig holds configuration for the offline model
type LocalConfig struct {
	BaseConfig
	// Translations is an optional dictionary, original name -> language -> translation
	Translations map[string]map[models.Language]string `json:"translations"`
	// DictionaryPath points at a JSON file with the same shape as Translations
	DictionaryPath string `json:"dictionary_path"`
}

// Load loads the local configuration
func (c *LocalConfig) Load() error {
	if err := c.LoadConfig(c.ConfigPath, "local", c); err != nil {
		return err
	}

	if c.DictionaryPath == "" {
		c.DictionaryPath = os.Getenv("LOCAL_DICTIONARY_PATH")
	}
	if c.DictionaryPath != "" {
		dict := struct {
			Translations map[string]map[models.Language]string `json:"translations"`
		}{}
		if err := c.LoadConfig(c.DictionaryPath, "dictionary", &dict); err != nil {
			return err
		}
		if c.Translations == nil {
			c.Translations = map[string]map[models.Language]string{}
		}
		for name, byLang := range dict.Translations {
			c.Translations[name] = byLang
		}
	}

	return nil
}

// LocalModel implements the Model interface without any network access. It
// translates from its dictionary, keeps unknown names as they are, and has no
// vision or generation capability.
type LocalModel struct {
	config LocalConfig
}

// LocalModelFactory implements ModelFactory for local models
type LocalModelFactory struct {
	config LocalConfig
}

// NewLocalModelFactory creates a new local model factory
func NewLocalModelFactory(config LocalConfig) *LocalModelFactory {
	return &LocalModelFactory{config: config}
}

// CreateModel creates a new local model instance
func (f *LocalModelFactory) CreateModel() (Model, error) {
	return &LocalModel{
		config: f.config,
	}, nil
}

func (m *LocalModel) Load(ctx context.Context) error {
	return nil
}

func (m *LocalModel) Close() error {
	return nil
}

// ParseReceipt needs a vision model
func (m *LocalModel) ParseReceipt(ctx context.Context, image []byte, mimeType string, lang models.Language) ([]models.ReceiptLine, error) {
	return nil, ErrUnsupported
}

// TranslateNames looks every name up in the dictionary, case-insensitively
func (m *LocalModel) TranslateNames(ctx context.Context, names []string, lang models.Language) (map[string]string, error) {
	mapping := make(map[string]string, len(names))
	for _, name := range names {
		byLang, ok := m.config.Translations[name]
		if !ok {
			for known, candidate := range m.config.Translations {
				if strings.EqualFold(known, name) {
					byLang, ok = candidate, true
					break
				}
			}
		}
		if translated := byLang[lang]; ok && translated != "" {
			mapping[name] = translated
		}
	}
	return mapping, nil
}

// SuggestRecipes has nothing to suggest offline
func (m *LocalModel) SuggestRecipes(ctx context.Context, ingredients []string, lang models.Language) ([]models.Recipe, error) {
	return []models.Recipe{}, nil
}

// GenerateRecipeImage never produces an image offline
func (m *LocalModel) GenerateRecipeImage(ctx context.Context, title string) (string, error) {
	return "", nil
}
