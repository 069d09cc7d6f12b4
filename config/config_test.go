package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeSettings(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "settings.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing settings file: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	s := Default()
	if s.FontSize != 12 {
		t.Errorf("FontSize = %g, want 12", s.FontSize)
	}
	if s.LineHeight != 1.2 {
		t.Errorf("LineHeight = %g, want 1.2", s.LineHeight)
	}
	if s.ScreenMarginX != 100 {
		t.Errorf("ScreenMarginX = %d, want 100", s.ScreenMarginX)
	}
}

func TestLoad(t *testing.T) {
	path := writeSettings(t, "font_size: 14\nline_height: 1.5\nscreen_margin_x: 80\n")
	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s.FontSize != 14 || s.LineHeight != 1.5 || s.ScreenMarginX != 80 {
		t.Errorf("Load() = %+v", s)
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := writeSettings(t, "font_size: 16\n")
	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s.FontSize != 16 {
		t.Errorf("FontSize = %g, want 16", s.FontSize)
	}
	if s.LineHeight != 1.2 || s.ScreenMarginX != 100 {
		t.Errorf("unset fields changed: %+v", s)
	}
}

func TestLoadInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"zero font size", "font_size: 0\n"},
		{"negative line height", "line_height: -1\n"},
		{"negative margin", "screen_margin_x: -5\n"},
		{"not yaml", "{{{\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeSettings(t, tt.content)
			if _, err := Load(path); err == nil {
				t.Error("Load() = nil error, want error")
			}
		})
	}
}

func TestLoadWithFallback(t *testing.T) {
	s, err := LoadWithFallback(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadWithFallback() error = %v", err)
	}
	if s != Default() {
		t.Errorf("LoadWithFallback() = %+v, want defaults", s)
	}
}

func TestLoadWithFallbackExistingFile(t *testing.T) {
	path := writeSettings(t, "font_size: 18\n")
	s, err := LoadWithFallback(path)
	if err != nil {
		t.Fatalf("LoadWithFallback() error = %v", err)
	}
	if s.FontSize != 18 {
		t.Errorf("FontSize = %g, want 18", s.FontSize)
	}
}
