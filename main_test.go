package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadTuningBuiltinDefaults(t *testing.T) {
	old := *configPath
	*configPath = ""
	t.Cleanup(func() { *configPath = old })

	// Must not touch the filesystem: the binary runs from any directory.
	tuning, err := loadTuning()
	if err != nil {
		t.Fatalf("loadTuning failed: %v", err)
	}
	if got := tuning.GetBlinkThreshold(); got != 0.20 {
		t.Errorf("GetBlinkThreshold() = %f, want 0.20", got)
	}
	if got := tuning.GetZoomInThreshold(); got != 0.23 {
		t.Errorf("GetZoomInThreshold() = %f, want 0.23", got)
	}
}

func TestLoadTuningFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.json")
	if err := os.WriteFile(path, []byte(`{"blink_threshold": 0.18}`), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	old := *configPath
	*configPath = path
	t.Cleanup(func() { *configPath = old })

	tuning, err := loadTuning()
	if err != nil {
		t.Fatalf("loadTuning failed: %v", err)
	}
	if got := tuning.GetBlinkThreshold(); got != 0.18 {
		t.Errorf("GetBlinkThreshold() = %f, want 0.18", got)
	}
}

func TestLoadTuningRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.json")
	if err := os.WriteFile(path, []byte(`{"brightness_margin": -1}`), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	old := *configPath
	*configPath = path
	t.Cleanup(func() { *configPath = old })

	if _, err := loadTuning(); err == nil {
		t.Error("Expected error for invalid tuning config, got nil")
	}
}
