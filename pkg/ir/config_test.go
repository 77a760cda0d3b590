package ir

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig_IsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() = %v, want nil", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"zero route budget is legal", func(c *Config) { c.RouteBudget = 0 }, false},
		{"zero iteration budget is legal", func(c *Config) { c.LayoutIterationBudget = 0 }, false},
		{"negative route budget", func(c *Config) { c.RouteBudget = -1 }, true},
		{"zero node width", func(c *Config) { c.NodeWidth = 0 }, true},
		{"negative rank gap", func(c *Config) { c.RankGap = -2 }, true},
		{"zero label padding", func(c *Config) { c.LabelPadding = 0 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadConfig_AppliesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flowgrid.toml")
	content := "node_width = 14.0\nroute_budget = 100\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.NodeWidth != 14 {
		t.Errorf("NodeWidth = %v, want 14", cfg.NodeWidth)
	}
	if cfg.RouteBudget != 100 {
		t.Errorf("RouteBudget = %v, want 100", cfg.RouteBudget)
	}
	// Untouched options keep their defaults.
	if cfg.NodeHeight != DefaultConfig().NodeHeight {
		t.Errorf("NodeHeight = %v, want default %v", cfg.NodeHeight, DefaultConfig().NodeHeight)
	}
}

func TestLoadConfig_RejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flowgrid.toml")
	if err := os.WriteFile(path, []byte("node_gap = -1.0\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadConfig(path); err == nil {
		t.Error("LoadConfig() with negative node_gap should fail validation")
	}
}
