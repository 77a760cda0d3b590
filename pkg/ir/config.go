package ir

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
)

// Config holds the layout engine options recognized from diagram
// front-matter or a TOML config file. Geometry values are world units.
//
// Budgets bound the engine's iterative phases: LayoutIterationBudget
// caps crossing-minimization passes and RouteBudget caps the number of
// grid cells the edge router may explore across all edges. Exhausting a
// budget degrades the result (reported in the layout stats and routing
// diagnostics), it never produces an error.
type Config struct {
	NodeWidth      float64 `toml:"node_width" json:"node_width" validate:"gt=0"`
	NodeHeight     float64 `toml:"node_height" json:"node_height" validate:"gt=0"`
	RankGap        float64 `toml:"rank_gap" json:"rank_gap" validate:"gt=0"`
	NodeGap        float64 `toml:"node_gap" json:"node_gap" validate:"gt=0"`
	ClusterPadding float64 `toml:"cluster_padding" json:"cluster_padding" validate:"gt=0"`
	LabelPadding   float64 `toml:"label_padding" json:"label_padding" validate:"gt=0"`

	LayoutIterationBudget int `toml:"layout_iteration_budget" json:"layout_iteration_budget" validate:"gte=0"`
	RouteBudget           int `toml:"route_budget" json:"route_budget" validate:"gte=0"`

	// LogPath, when non-empty, enables best-effort append-only JSONL
	// metrics logging. Write failures are silently ignored.
	LogPath string `toml:"log_path" json:"log_path,omitempty"`
}

// DefaultConfig returns the engine defaults.
func DefaultConfig() Config {
	return Config{
		NodeWidth:             10,
		NodeHeight:            3,
		RankGap:               4,
		NodeGap:               3,
		ClusterPadding:        2,
		LabelPadding:          1,
		LayoutIterationBudget: 200,
		RouteBudget:           4000,
	}
}

var validate = validator.New()

// Validate checks the configuration against its field constraints.
// Geometry values must be positive; budgets must be non-negative
// (a zero budget is legal and forces immediate degradation).
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// LoadConfig reads a TOML config file and applies it over the defaults.
// Options absent from the file keep their default values. The merged
// config is validated before being returned.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
