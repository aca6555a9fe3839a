package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/franckalain/frigozen/internal/app"
	"github.com/franckalain/frigozen/internal/config"
	"github.com/franckalain/frigozen/internal/server"
)

func main() {
	configPath := flag.String("config", config.GetConfigPath(), "path to configuration file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		log.Fatal(err)
	}
}

// run serves until a shutdown signal. The runtime is closed on every return.
func run(configPath string) error {
	// Load configuration
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize database, ML service and application state
	rt, err := app.Open(context.Background(), cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	defer rt.Close()

	// Initialize and start server
	srv := server.New(rt.App, cfg.Server.Debug)
	if err := srv.Start(cfg.Server.Port, cfg.Server.StaticDir); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}
