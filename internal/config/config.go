package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server struct {
		Port      string `json:"port"`
		StaticDir string `json:"static_dir"`
		Debug     bool   `json:"debug"`
	} `json:"server"`

	Database struct {
		Path string `json:"path"`
	} `json:"database"`

	ML struct {
		Type       string `json:"type"`        // "local" or "google"
		ConfigPath string `json:"config_path"` // optional per-model file
		// TranslateTimeoutSeconds bounds each translation request
		TranslateTimeoutSeconds int `json:"translate_timeout_seconds"`
		// RecipeTimeoutSeconds bounds a whole recipe workflow
		RecipeTimeoutSeconds int `json:"recipe_timeout_seconds"`
	} `json:"ml"`

	Voice struct {
		Endpoint string `json:"endpoint"`
		APIKey   string `json:"api_key"`
		Model    string `json:"model"`
		Voice    string `json:"voice"`
	} `json:"voice"`
}

// LoadConfig loads configuration from a JSON file
func LoadConfig(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if config.Server.Port == "" {
		return nil, fmt.Errorf("server port is not set in config file")
	}
	config.applyDefaults()

	return &config, nil
}

// Default returns the configuration used when no file exists, for the CLI
func Default() *Config {
	var config Config
	config.Server.Port = "8080"
	config.applyDefaults()
	return &config
}

func (c *Config) applyDefaults() {
	if c.Server.StaticDir == "" {
		c.Server.StaticDir = "./static"
	}
	if c.Database.Path == "" {
		c.Database.Path = "frigozen.db"
	}
	if c.ML.Type == "" {
		c.ML.Type = "local"
	}
	if c.ML.TranslateTimeoutSeconds <= 0 {
		c.ML.TranslateTimeoutSeconds = 30
	}
	if c.ML.RecipeTimeoutSeconds <= 0 {
		c.ML.RecipeTimeoutSeconds = 120
	}
	if c.Voice.APIKey == "" {
		c.Voice.APIKey = os.Getenv("GEMINI_API_KEY")
	}
}

// TranslateTimeout is the per-request translation bound
func (c *Config) TranslateTimeout() time.Duration {
	return time.Duration(c.ML.TranslateTimeoutSeconds) * time.Second
}

// RecipeTimeout is the recipe workflow bound
func (c *Config) RecipeTimeout() time.Duration {
	return time.Duration(c.ML.RecipeTimeoutSeconds) * time.Second
}

// GetConfigPath returns the path to the configuration file
func GetConfigPath() string {
	// First try environment variable
	if path := os.Getenv("FRIGOZEN_CONFIG"); path != "" {
		return path
	}

	// Then try config directory
	configDir := "config"
	if _, err := os.Stat(configDir); err == nil {
		return filepath.Join(configDir, "config.json")
	}

	// Finally, try current directory
	return "config.json"
}
