package ml

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	aiplatform "cloud.google.com/go/aiplatform/apiv1"
	"cloud.google.com/go/aiplatform/apiv1/aiplatformpb"
	"cloud.google.com/go/vertexai/genai"
	"github.com/franckalain/frigozen/internal/models"
	"google.golang.org/api/option"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	defaultTextModel  = "gemini-2.0-flash-001"
	defaultImageModel = "imagen-3.0-generate-002"
)

// GoogleConfig holds configuration for the Google model
type GoogleConfig struct {
	BaseConfig
	ProjectID       string `json:"project_id"`
	Location        string `json:"location"`
	CredentialsFile string `json:"credentials_file"`
	TextModel       string `json:"text_model"`
	ImageModel      string `json:"image_model"`
}

// Load loads the Google configuration
func (c *GoogleConfig) Load() error {
	if err := c.LoadConfig(c.ConfigPath, "google", c); err != nil {
		return err
	}

	// Fall back to environment variables if not set
	if c.ProjectID == "" {
		c.ProjectID = os.Getenv("GOOGLE_PROJECT_ID")
	}
	if c.Location == "" {
		c.Location = os.Getenv("GOOGLE_LOCATION")
	}
	if c.CredentialsFile == "" {
		c.CredentialsFile = os.Getenv("GOOGLE_CREDENTIALS_FILE")
	}
	if c.TextModel == "" {
		c.TextModel = defaultTextModel
	}
	if c.ImageModel == "" {
		c.ImageModel = defaultImageModel
	}
	if c.Location == "" {
		c.Location = "us-central1"
	}

	return nil
}

// GoogleModel implements the Model interface for Google's Vertex AI
type GoogleModel struct {
	config      GoogleConfig
	client      *genai.Client
	predictions *aiplatform.PredictionClient // image generation
}

// GoogleModelFactory implements ModelFactory for Google models
type GoogleModelFactory struct {
	config GoogleConfig
}

// NewGoogleModelFactory creates a new Google model factory
func NewGoogleModelFactory(config GoogleConfig) *GoogleModelFactory {
	return &GoogleModelFactory{config: config}
}

// CreateModel creates a new Google model instance
func (f *GoogleModelFactory) CreateModel() (Model, error) {
	return &GoogleModel{
		config: f.config,
	}, nil
}

// Load initializes the Vertex AI client
func (m *GoogleModel) Load(ctx context.Context) error {
	if m.config.ProjectID == "" {
		return fmt.Errorf("google project id is not set")
	}

	opts := []option.ClientOption{}
	if m.config.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(m.config.CredentialsFile))
	}

	client, err := genai.NewClient(ctx, m.config.ProjectID, m.config.Location, opts...)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}

	// the prediction service is only served from regional endpoints
	endpoint := fmt.Sprintf("%s-aiplatform.googleapis.com:443", m.config.Location)
	predictions, err := aiplatform.NewPredictionClient(ctx, append(opts, option.WithEndpoint(endpoint))...)
	if err != nil {
		client.Close()
		return fmt.Errorf("failed to create prediction client: %w", err)
	}

	m.client = client
	m.predictions = predictions
	return nil
}

// Close releases the Vertex AI clients
func (m *GoogleModel) Close() error {
	var errs []error
	if m.client != nil {
		errs = append(errs, m.client.Close())
	}
	if m.predictions != nil {
		errs = append(errs, m.predictions.Close())
	}
	return errors.Join(errs...)
}

// jsonModel returns a text model constrained to answer with JSON matching schema
func (m *GoogleModel) jsonModel(schema *genai.Schema) *genai.GenerativeModel {
	model := m.client.GenerativeModel(m.config.TextModel)
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = schema
	return model
}

func (m *GoogleModel) generate(ctx context.Context, model *genai.GenerativeModel, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	if m.client == nil {
		return nil, fmt.Errorf("model not loaded")
	}
	if timeout := time.Duration(m.config.RequestTimeout); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		return nil, fmt.Errorf("failed to call ai: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("no response generated")
	}
	return resp, nil
}

// ParseReceipt extracts the products listed on a receipt photo
func (m *GoogleModel) ParseReceipt(ctx context.Context, image []byte, mimeType string, lang models.Language) ([]models.ReceiptLine, error) {
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	if m.client == nil {
		return nil, fmt.Errorf("model not loaded")
	}
	model := m.jsonModel(receiptSchema)

	resp, err := m.generate(ctx, model, genai.Blob{MIMEType: mimeType, Data: image}, genai.Text(receiptPrompt(lang)))
	if err != nil {
		return nil, err
	}

	lines, err := decodeReceipt(responseText(resp))
	if err != nil {
		return nil, err
	}
	log.Printf("Receipt parsed: %d products", len(lines))
	return lines, nil
}

// TranslateNames translates item names, keyed by the original name
func (m *GoogleModel) TranslateNames(ctx context.Context, names []string, lang models.Language) (map[string]string, error) {
	if len(names) == 0 {
		return map[string]string{}, nil
	}
	if m.client == nil {
		return nil, fmt.Errorf("model not loaded")
	}
	model := m.client.GenerativeModel(m.config.TextModel)
	model.ResponseMIMEType = "application/json"

	resp, err := m.generate(ctx, model, genai.Text(translationPrompt(names, lang)))
	if err != nil {
		return nil, err
	}
	return decodeTranslations(responseText(resp))
}

// SuggestRecipes asks for anti-waste recipes built from the ingredients
func (m *GoogleModel) SuggestRecipes(ctx context.Context, ingredients []string, lang models.Language) ([]models.Recipe, error) {
	if len(ingredients) == 0 {
		return []models.Recipe{}, nil
	}
	if m.client == nil {
		return nil, fmt.Errorf("model not loaded")
	}
	model := m.jsonModel(recipeSchema)

	resp, err := m.generate(ctx, model, genai.Text(recipePrompt(ingredients, lang)))
	if err != nil {
		return nil, err
	}
	return decodeRecipes(responseText(resp))
}

// GenerateRecipeImage renders one picture of the dish with Imagen and
// returns it as a data URL
func (m *GoogleModel) GenerateRecipeImage(ctx context.Context, title string) (string, error) {
	if m.predictions == nil {
		return "", fmt.Errorf("model not loaded")
	}
	if timeout := time.Duration(m.config.RequestTimeout); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req, err := imageRequest(m.imageEndpoint(), imagePrompt(title))
	if err != nil {
		return "", err
	}
	resp, err := m.predictions.Predict(ctx, req)
	if err != nil {
		return "", fmt.Errorf("failed to generate image: %w", err)
	}
	return imageFromPredictions(resp.GetPredictions())
}

func (m *GoogleModel) imageEndpoint() string {
	return fmt.Sprintf("projects/%s/locations/%s/publishers/google/models/%s",
		m.config.ProjectID, m.config.Location, m.config.ImageModel)
}

// imageRequest asks for a single 16:9 picture
func imageRequest(endpoint, prompt string) (*aiplatformpb.PredictRequest, error) {
	instance, err := structpb.NewValue(map[string]any{"prompt": prompt})
	if err != nil {
		return nil, fmt.Errorf("failed to build image request: %w", err)
	}
	params, err := structpb.NewValue(map[string]any{
		"sampleCount": 1,
		"aspectRatio": "16:9",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build image request: %w", err)
	}
	return &aiplatformpb.PredictRequest{
		Endpoint:   endpoint,
		Instances:  []*structpb.Value{instance},
		Parameters: params,
	}, nil
}

// imageFromPredictions returns the first encoded image as a data URL, or ""
// when the service filtered every sample out
func imageFromPredictions(predictions []*structpb.Value) (string, error) {
	for _, prediction := range predictions {
		fields := prediction.GetStructValue().GetFields()
		data := fields["bytesBase64Encoded"].GetStringValue()
		if data == "" {
			continue
		}
		mimeType := fields["mimeType"].GetStringValue()
		if mimeType == "" {
			mimeType = "image/png"
		}
		return fmt.Sprintf("data:%s;base64,%s", mimeType, data), nil
	}
	return "", nil
}

// responseText concatenates the text parts of the first candidate
func responseText(resp *genai.GenerateContentResponse) string {
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	return b.String()
}

var receiptSchema = &genai.Schema{
	Type: genai.TypeArray,
	Items: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"name": {Type: genai.TypeString},
			"category": {
				Type:        genai.TypeString,
				Description: "Technical category name among: " + categoryList(),
			},
			"shelfLifeDays":   {Type: genai.TypeNumber},
			"quantity":        {Type: genai.TypeString},
			"numericQuantity": {Type: genai.TypeNumber},
		},
		Required: []string{"name", "category", "shelfLifeDays", "numericQuantity"},
	},
}

var recipeSchema = &genai.Schema{
	Type: genai.TypeArray,
	Items: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"title":        {Type: genai.TypeString},
			"description":  {Type: genai.TypeString},
			"ingredients":  {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
			"instructions": {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
			"prepTime":     {Type: genai.TypeString},
			"difficulty":   {Type: genai.TypeString},
		},
		Required: []string{"title", "description", "ingredients", "instructions", "prepTime", "difficulty"},
	},
}
