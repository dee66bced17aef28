package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/echomind-io/echomind/internal/models"
)

func TestLoadYAMLOrDefaultMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")

	settings, err := LoadYAMLOrDefault(path, models.NewSettings)
	if err != nil {
		t.Fatalf("LoadYAMLOrDefault: %v", err)
	}
	if settings.Backend.Model != "llama3.2" {
		t.Errorf("default model = %q", settings.Backend.Model)
	}
	if settings.Listener.PromptMarker != "%" {
		t.Errorf("default marker = %q", settings.Listener.PromptMarker)
	}
}

func TestSaveAndLoadYAMLRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.yaml")

	in := models.NewSettings()
	in.Backend.Model = "custom-model"
	in.Listener.PromptMarker = "$"
	if err := SaveYAML(path, in); err != nil {
		t.Fatalf("SaveYAML: %v", err)
	}

	out, err := LoadYAMLOrDefault(path, models.NewSettings)
	if err != nil {
		t.Fatalf("LoadYAMLOrDefault: %v", err)
	}
	if out.Backend.Model != "custom-model" {
		t.Errorf("model = %q", out.Backend.Model)
	}
	if out.Listener.PromptMarker != "$" {
		t.Errorf("marker = %q", out.Listener.PromptMarker)
	}
}

func TestLoadYAMLMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	if err := os.WriteFile(path, []byte("version: [unclosed"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	var v models.Settings
	if err := LoadYAML(path, &v); err == nil {
		t.Error("expected parse error for malformed YAML")
	}
}
