package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg == nil {
		t.Fatal("DefaultConfig() returned nil")
	}

	if cfg.Thresholds.Warning != 10 {
		t.Errorf("Thresholds.Warning = %d, want 10", cfg.Thresholds.Warning)
	}
	if cfg.Thresholds.Critical != 15 {
		t.Errorf("Thresholds.Critical = %d, want 15", cfg.Thresholds.Critical)
	}
	if cfg.Thresholds.ClusterWindow != 5 {
		t.Errorf("Thresholds.ClusterWindow = %d, want 5", cfg.Thresholds.ClusterWindow)
	}
	if cfg.Thresholds.MinClusterSize != 3 {
		t.Errorf("Thresholds.MinClusterSize = %d, want 3", cfg.Thresholds.MinClusterSize)
	}

	if !cfg.Cache.Enabled {
		t.Error("Cache.Enabled should be true by default")
	}
	if cfg.Cache.TTL != 24 {
		t.Errorf("Cache.TTL = %d, want 24", cfg.Cache.TTL)
	}

	if cfg.Output.Format != "text" {
		t.Errorf("Output.Format = %s, want text", cfg.Output.Format)
	}
	if !cfg.Output.Color {
		t.Error("Output.Color should be true by default")
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadTOML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "auspex.toml")

	content := `
[thresholds]
warning = 8
critical = 12

[output]
format = "json"
color = false
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Thresholds.Warning != 8 {
		t.Errorf("Thresholds.Warning = %d, want 8", cfg.Thresholds.Warning)
	}
	if cfg.Thresholds.Critical != 12 {
		t.Errorf("Thresholds.Critical = %d, want 12", cfg.Thresholds.Critical)
	}
	if cfg.Output.Format != "json" {
		t.Errorf("Output.Format = %s, want json", cfg.Output.Format)
	}
	if cfg.Output.Color {
		t.Error("Output.Color should be false")
	}

	// Unset sections keep defaults.
	if cfg.Thresholds.ClusterWindow != 5 {
		t.Errorf("Thresholds.ClusterWindow = %d, want default 5", cfg.Thresholds.ClusterWindow)
	}
	if !cfg.Cache.Enabled {
		t.Error("Cache.Enabled should keep its default")
	}
}

func TestLoadYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "auspex.yaml")

	content := `thresholds:
  warning: 6
  critical: 9
cache:
  enabled: false
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Thresholds.Warning != 6 {
		t.Errorf("Thresholds.Warning = %d, want 6", cfg.Thresholds.Warning)
	}
	if cfg.Cache.Enabled {
		t.Error("Cache.Enabled should be false")
	}
}

func TestLoadJSON(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "auspex.json")

	content := `{"output": {"format": "toon"}}`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Output.Format != "toon" {
		t.Errorf("Output.Format = %s, want toon", cfg.Output.Format)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "auspex.toml")

	content := `
[threshods]
warning = 8
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}

	if _, err := Load(configPath); err == nil {
		t.Error("Load() should reject unknown top-level keys")
	}
}

func TestLoadRejectsInvalidFormat(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "auspex.toml")

	content := `
[output]
format = "xml"
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}

	if _, err := Load(configPath); err == nil {
		t.Error("Load() should reject unsupported output formats")
	}
}

func TestLoadRejectsInvertedThresholds(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "auspex.toml")

	content := `
[thresholds]
warning = 20
critical = 10
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}

	if _, err := Load(configPath); err == nil {
		t.Error("Load() should reject warning >= critical")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/auspex.toml"); err == nil {
		t.Error("Load() should fail for missing files")
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"zero warning", func(c *Config) { c.Thresholds.Warning = 0 }, true},
		{"zero critical", func(c *Config) { c.Thresholds.Critical = 0 }, true},
		{"equal thresholds", func(c *Config) { c.Thresholds.Warning = 15 }, true},
		{"zero window", func(c *Config) { c.Thresholds.ClusterWindow = 0 }, true},
		{"zero cluster size", func(c *Config) { c.Thresholds.MinClusterSize = 0 }, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			if tc.wantErr && err == nil {
				t.Error("Validate() should fail")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("Validate() error: %v", err)
			}
		})
	}
}

func TestShouldExclude(t *testing.T) {
	cfg := DefaultConfig()

	cases := []struct {
		path string
		want bool
	}{
		{"src/app.py", false},
		{"src/__pycache__/app.py", true},
		{".venv/lib/site.py", true},
		{"src/test_app.py", true},
		{"src/app_test.py", true},
		{"src/apptest.py", false},
	}

	for _, tc := range cases {
		if got := cfg.ShouldExclude(tc.path); got != tc.want {
			t.Errorf("ShouldExclude(%s) = %v, want %v", tc.path, got, tc.want)
		}
	}
}
