package ml

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"
)

// BaseConfig provides common configuration functionality
type BaseConfig struct {
	ConfigPath string `json:"-"`
	// RequestTimeout bounds each call to the service; zero means no limit
	RequestTimeout Duration `json:"request_timeout"`
}

// LoadConfig fills config from an explicit file, then from config/<name>.json.
// Missing files are skipped so environment variables can take over; a file
// that exists but does not parse is an error.
func (c *BaseConfig) LoadConfig(configPath string, name string, config interface{}) error {
	candidates := []string{}
	if configPath != "" {
		candidates = append(candidates, configPath)
	}
	candidates = append(candidates, filepath.Join("config", fmt.Sprintf("%s.json", name)))

	for _, path := range candidates {
		data, err := os.ReadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		if err := json.Unmarshal(data, config); err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}
		log.Printf("Loaded %s model configuration from %s", name, path)
		return nil
	}

	log.Printf("Using environment variables for %s configuration", name)
	return nil
}

// Duration decodes "30s"-style strings from JSON
type Duration time.Duration

func (d *Duration) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("duration must be a string: %w", err)
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
