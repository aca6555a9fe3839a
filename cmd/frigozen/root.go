package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/franckalain/frigozen/internal/app"
	"github.com/franckalain/frigozen/internal/config"
	"github.com/spf13/cobra"
)

var (
	configPath string
	dbPath     string
)

var rootCmd = &cobra.Command{
	Use:           "frigozen",
	Short:         "frigozen tracks what is in your fridge before it goes to waste",
	Long:          "frigozen keeps a local inventory of perishable food, flags what expires soon and suggests anti-waste recipes.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to SQLite database")
}

// loadConfig reads the configuration file when there is one. Without --config
// a missing file falls back to the defaults.
func loadConfig() (*config.Config, error) {
	path := configPath
	explicit := path != ""
	if !explicit {
		path = config.GetConfigPath()
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		cfg = config.Default()
	}
	if dbPath != "" {
		cfg.Database.Path = dbPath
	}
	return cfg, nil
}

func withApp(run func(ctx context.Context, a *app.App) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx := context.Background()
	rt, err := app.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer rt.Close()
	return run(ctx, rt.App)
}
