package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	params := cfg.CenterlineParams()
	if params.SamplesPerSegment <= 0 {
		t.Errorf("default SamplesPerSegment = %d", params.SamplesPerSegment)
	}
	if params.StraightHalfLengthMm <= 0 {
		t.Errorf("default StraightHalfLengthMm = %v", params.StraightHalfLengthMm)
	}
	if cfg.SCurve.CameraDistanceMm != 500 {
		t.Errorf("default camera distance = %v, want 500", cfg.SCurve.CameraDistanceMm)
	}
}

func TestLoadConfigMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if *cfg != *DefaultConfig() {
		t.Errorf("missing file should yield defaults, got %+v", cfg)
	}
}

func TestLoadConfigPartialOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tavigeom.yaml")
	yaml := "centerline:\n  straightHalfLengthMm: 7.5\n"
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Centerline.StraightHalfLengthMm != 7.5 {
		t.Errorf("override lost: StraightHalfLengthMm = %v", cfg.Centerline.StraightHalfLengthMm)
	}
	// Unset keys keep their defaults.
	if cfg.Centerline.SamplesPerSegment != DefaultConfig().Centerline.SamplesPerSegment {
		t.Errorf("unset key lost its default: SamplesPerSegment = %d", cfg.Centerline.SamplesPerSegment)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "tavigeom.yaml")

	want := DefaultConfig()
	want.Centerline.SmoothingWindow = 9
	want.Output.Verbose = false

	if err := SaveConfig(want, path); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}
	got, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if *got != *want {
		t.Errorf("config changed across save/load:\n got %+v\nwant %+v", got, want)
	}
}

func TestCreateDefaultConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tavigeom.yaml")
	if err := CreateDefaultConfigFile(path); err != nil {
		t.Fatalf("CreateDefaultConfigFile failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file not created: %v", err)
	}
}
