package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "env-key")
	cfg, err := LoadConfig(writeConfig(t, `{"server": {"port": "9000"}}`))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Server.StaticDir != "./static" || cfg.Database.Path != "frigozen.db" || cfg.ML.Type != "local" {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
	if cfg.TranslateTimeout() != 30*time.Second || cfg.RecipeTimeout() != 2*time.Minute {
		t.Fatalf("unexpected timeouts %v %v", cfg.TranslateTimeout(), cfg.RecipeTimeout())
	}
	if cfg.Voice.APIKey != "env-key" {
		t.Fatalf("expected key from environment, got %q", cfg.Voice.APIKey)
	}
}

func TestLoadConfigValues(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "env-key")
	cfg, err := LoadConfig(writeConfig(t, `{
  "server": {"port": "9000", "debug": true},
  "database": {"path": "/data/fridge.db"},
  "ml": {"type": "google", "config_path": "config/google.json", "recipe_timeout_seconds": 45},
  "voice": {"api_key": "file-key", "voice": "Kore"}
}`))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !cfg.Server.Debug || cfg.Database.Path != "/data/fridge.db" || cfg.ML.Type != "google" || cfg.ML.ConfigPath != "config/google.json" {
		t.Fatalf("values not read: %+v", cfg)
	}
	if cfg.RecipeTimeout() != 45*time.Second {
		t.Fatalf("unexpected recipe timeout %v", cfg.RecipeTimeout())
	}
	if cfg.Voice.APIKey != "file-key" || cfg.Voice.Voice != "Kore" {
		t.Fatalf("voice section not read: %+v", cfg.Voice)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"missing port", `{"server": {}}`},
		{"invalid json", `{"server": `},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadConfig(writeConfig(t, tt.data)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatalf("expected error for a missing file")
	}
}

func TestGetConfigPathFromEnv(t *testing.T) {
	t.Setenv("FRIGOZEN_CONFIG", "/etc/frigozen/config.json")
	if got := GetConfigPath(); got != "/etc/frigozen/config.json" {
		t.Fatalf("unexpected path %q", got)
	}
}
