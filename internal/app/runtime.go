package app

import (
	"context"
	"fmt"
	"log"

	"github.com/franckalain/frigozen/internal/config"
	"github.com/franckalain/frigozen/internal/database"
	"github.com/franckalain/frigozen/internal/ml"
	"github.com/franckalain/frigozen/internal/voice"
)

// Runtime bundles the resources built from configuration
type Runtime struct {
	DB    *database.SQLiteDB
	Model ml.Model
	App   *App
}

// Open connects the database, loads the model and restores the application
func Open(ctx context.Context, cfg *config.Config) (*Runtime, error) {
	db, err := database.NewSQLiteDB(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	model, err := ml.NewModel(cfg.ML.Type, cfg.ML.ConfigPath)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create ML model: %w", err)
	}
	if err := model.Load(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to load ML model: %w", err)
	}

	a := New(ctx, database.NewStorage(db), model, Options{
		TranslateTimeout: cfg.TranslateTimeout(),
		RecipeTimeout:    cfg.RecipeTimeout(),
		Voice: voice.Config{
			Endpoint: cfg.Voice.Endpoint,
			APIKey:   cfg.Voice.APIKey,
			Model:    cfg.Voice.Model,
			Voice:    cfg.Voice.Voice,
		},
	})
	return &Runtime{DB: db, Model: model, App: a}, nil
}

// Close waits for background work and releases everything Open created
func (r *Runtime) Close() {
	r.App.Close()
	if err := r.Model.Close(); err != nil {
		log.Printf("Error closing model: %v", err)
	}
	if err := r.DB.Close(); err != nil {
		log.Printf("Error closing database: %v", err)
	}
}
