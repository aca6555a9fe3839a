package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"log"
	"strings"

	"github.com/franckalain/frigozen/internal/app"
	"github.com/franckalain/frigozen/internal/inventory"
	"github.com/franckalain/frigozen/internal/models"
	"github.com/franckalain/frigozen/internal/recipes"
)

type loginRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type addItemRequest struct {
	Name       string              `json:"name"`
	Category   models.FoodCategory `json:"category"`
	ExpiryDate string              `json:"expiryDate"`
	Quantity   int                 `json:"quantity"`
}

type scanRequest struct {
	Image    string `json:"image"` // base64 or data URL
	MimeType string `json:"mimeType"`
}

type markUsedRequest struct {
	ID  string `json:"id"`
	All *bool  `json:"all"`
}

type updateExpiryRequest struct {
	ID   string `json:"id"`
	Date string `json:"date"`
}

type valueRequest struct {
	Language string `json:"language"`
	Theme    string `json:"theme"`
	Dark     bool   `json:"dark"`
	View     string `json:"view"`
}

func (s *Server) handleWebSocketMessage(c *client, msg message) {
	ctx := context.Background()

	switch msg.Type {
	case "get_state":
		s.send(c, "state", s.app.Snapshot())
	case "login":
		var req loginRequest
		if !s.decode(c, msg, &req) {
			return
		}
		if _, err := s.app.Login(ctx, req.Name, req.Email); err != nil {
			log.Printf("Error logging in: %v", err)
			s.sendError(c, "Failed to log in")
		}
	case "logout":
		if err := s.app.Logout(ctx); err != nil {
			log.Printf("Error logging out: %v", err)
			s.sendError(c, "Failed to log out")
		}
	case "add_item":
		s.handleAddItem(c, msg)
	case "scan":
		s.handleScan(ctx, c, msg)
	case "mark_used":
		var req markUsedRequest
		if !s.decode(c, msg, &req) {
			return
		}
		all := req.All == nil || *req.All
		s.app.MarkUsed(req.ID, all)
	case "update_expiry":
		var req updateExpiryRequest
		if !s.decode(c, msg, &req) {
			return
		}
		if err := s.app.UpdateExpiry(req.ID, req.Date); err != nil {
			s.sendError(c, "Invalid expiry date")
		}
	case "clear_fridge":
		s.app.ClearFridge()
	case "set_language":
		var req valueRequest
		if !s.decode(c, msg, &req) {
			return
		}
		if _, err := s.app.SetLanguage(ctx, req.Language); err != nil {
			s.sendError(c, errorFor(err))
		}
	case "set_theme":
		var req valueRequest
		if !s.decode(c, msg, &req) {
			return
		}
		if err := s.app.SetTheme(ctx, req.Theme); err != nil {
			s.sendError(c, errorFor(err))
		}
	case "set_dark":
		var req valueRequest
		if !s.decode(c, msg, &req) {
			return
		}
		s.app.SetDark(ctx, req.Dark)
	case "set_view":
		var req valueRequest
		if !s.decode(c, msg, &req) {
			return
		}
		if err := s.app.SetView(req.View); err != nil {
			s.sendError(c, errorFor(err))
		}
	case "suggest_recipes":
		s.handleSuggestRecipes(ctx, c)
	case "voice_start":
		s.handleVoiceStart(ctx, c)
	case "voice_audio":
		s.handleVoiceAudio(c, msg)
	case "voice_stop":
		c.stopVoice()
	default:
		s.sendError(c, "Unknown message type")
	}
}

// decode unmarshals the message data into v, answering the client on failure
func (s *Server) decode(c *client, msg message, v any) bool {
	if len(msg.Data) == 0 {
		msg.Data = []byte("{}")
	}
	if err := json.Unmarshal(msg.Data, v); err != nil {
		log.Printf("Invalid %s payload: %v", msg.Type, err)
		s.sendError(c, "Invalid message data")
		return false
	}
	return true
}

func (s *Server) handleAddItem(c *client, msg message) {
	var req addItemRequest
	if !s.decode(c, msg, &req) {
		return
	}
	_, err := s.app.AddItem(inventory.ManualEntry{
		Name:     req.Name,
		Category: req.Category,
		Expiry:   req.ExpiryDate,
		Quantity: req.Quantity,
	})
	switch {
	case errors.Is(err, inventory.ErrMissingName):
		s.sendError(c, "Item name is required")
	case errors.Is(err, inventory.ErrInvalidDate):
		s.sendError(c, "Invalid expiry date")
	case err != nil:
		log.Printf("Error adding item: %v", err)
		s.sendError(c, "Failed to add item")
	}
}

// handleScan parses the receipt off the read loop and answers with the items
// that were added
func (s *Server) handleScan(ctx context.Context, c *client, msg message) {
	var req scanRequest
	if !s.decode(c, msg, &req) {
		return
	}
	image, mimeType, err := decodeImage(req.Image)
	if err != nil {
		log.Printf("Error decoding image: %v", err)
		s.sendError(c, "Invalid image format")
		return
	}
	if req.MimeType != "" {
		mimeType = req.MimeType
	}

	go func() {
		items, err := s.app.Scan(ctx, image, mimeType)
		if err != nil {
			s.sendError(c, "Failed to scan receipt")
			return
		}
		log.Printf("Receipt added %d items", len(items))
		s.send(c, "scan_result", map[string]any{"items": items})
	}()
}

// decodeImage accepts raw base64 or a data URL
func decodeImage(raw string) ([]byte, string, error) {
	mimeType := ""
	if strings.HasPrefix(raw, "data:") {
		header, payload, found := strings.Cut(raw, ",")
		if !found {
			return nil, "", errors.New("malformed data url")
		}
		mimeType = strings.TrimSuffix(strings.TrimPrefix(header, "data:"), ";base64")
		raw = payload
	}
	data, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, "", err
	}
	return data, mimeType, nil
}

// handleSuggestRecipes runs the workflow off the read loop. A request made
// while one is running is dropped.
func (s *Server) handleSuggestRecipes(ctx context.Context, c *client) {
	go func() {
		s.broadcast("recipes_loading", true)
		list, err := s.app.SuggestRecipes(ctx)
		switch {
		case errors.Is(err, recipes.ErrBusy):
			log.Println("Recipe request ignored, already running")
			return
		case errors.Is(err, recipes.ErrNoIngredients):
			s.broadcast("recipes_loading", false)
			s.sendError(c, "No ingredients in the fridge")
			return
		case err != nil:
			// keep showing the previous suggestions
			list = s.app.Recipes()
		}
		s.broadcast("recipes", list)
		s.broadcast("recipes_loading", false)
	}()
}

// errorFor maps the app's validation errors to client messages
func errorFor(err error) string {
	switch {
	case errors.Is(err, app.ErrUnknownLanguage):
		return "Unknown language"
	case errors.Is(err, app.ErrUnknownTheme):
		return "Unknown theme"
	case errors.Is(err, app.ErrUnknownView):
		return "Unknown view"
	}
	return "Request failed"
}
