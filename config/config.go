// Package config loads renderer settings from a YAML file.
package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// Settings are the user-tunable rendering knobs. Sizes are CSS pixels
// before display scaling.
type Settings struct {
	FontSize      float64 `yaml:"font_size"`
	LineHeight    float64 `yaml:"line_height"`
	ScreenMarginX int     `yaml:"screen_margin_x"`
}

// Default returns the built-in settings.
func Default() Settings {
	return Settings{
		FontSize:      12,
		LineHeight:    1.2,
		ScreenMarginX: 100,
	}
}

// Load reads settings from a YAML file. Fields absent from the file keep
// their defaults.
func Load(path string) (Settings, error) {
	s := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("reading settings file: %w", err)
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("parsing settings file %s: %w", path, err)
	}
	if err := s.validate(); err != nil {
		return s, fmt.Errorf("settings file %s: %w", path, err)
	}
	return s, nil
}

// LoadWithFallback reads settings from path, falling back to defaults when
// the file does not exist. Any other failure is an error.
func LoadWithFallback(path string) (Settings, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	return Load(path)
}

func (s Settings) validate() error {
	if s.FontSize <= 0 {
		return fmt.Errorf("font_size must be positive, got %g", s.FontSize)
	}
	if s.LineHeight <= 0 {
		return fmt.Errorf("line_height must be positive, got %g", s.LineHeight)
	}
	if s.ScreenMarginX < 0 {
		return fmt.Errorf("screen_margin_x must not be negative, got %d", s.ScreenMarginX)
	}
	return nil
}
