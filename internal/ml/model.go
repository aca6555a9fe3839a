package ml

import (
	"context"
	"errors"
	"fmt"

	"github.com/franckalain/frigozen/internal/models"
)

// ErrUnsupported is returned by models that lack a capability
var ErrUnsupported = errors.New("operation not supported by this model")

// Model represents the generative AI service behind receipts, translation and recipes
type Model interface {
	// Load initializes the model with its configuration
	Load(ctx context.Context) error
	// ParseReceipt extracts the food products from a receipt photo
	ParseReceipt(ctx context.Context, image []byte, mimeType string, lang models.Language) ([]models.ReceiptLine, error)
	// TranslateNames maps each name to its translation, keyed by the original name
	TranslateNames(ctx context.Context, names []string, lang models.Language) (map[string]string, error)
	// SuggestRecipes proposes recipes using the given ingredients, without images
	SuggestRecipes(ctx context.Context, ingredients []string, lang models.Language) ([]models.Recipe, error)
	// GenerateRecipeImage returns an image data URL for the recipe, or "" when none was produced
	GenerateRecipeImage(ctx context.Context, title string) (string, error)
	// Close releases the underlying client
	Close() error
}

// ModelFactory creates a new model instance based on configuration
type ModelFactory interface {
	// CreateModel creates a new model instance
	CreateModel() (Model, error)
}

// NewModel creates a new model instance based on the model type. configPath
// points at an optional per-model JSON file.
func NewModel(modelType, configPath string) (Model, error) {
	var factory ModelFactory

	switch modelType {
	case "google":
		config := GoogleConfig{
			BaseConfig: BaseConfig{
				ConfigPath: configPath,
			},
		}
		if err := config.Load(); err != nil {
			return nil, fmt.Errorf("failed to load Google config: %w", err)
		}
		factory = NewGoogleModelFactory(config)
	case "local", "":
		config := LocalConfig{
			BaseConfig: BaseConfig{
				ConfigPath: configPath,
			},
		}
		if err := config.Load(); err != nil {
			return nil, fmt.Errorf("failed to load local config: %w", err)
		}
		factory = NewLocalModelFactory(config)
	default:
		return nil, fmt.Errorf("unsupported model type: %s", modelType)
	}
	return factory.CreateModel()
}
