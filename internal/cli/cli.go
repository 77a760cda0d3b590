// Package cli implements the flowgrid command-line interface.
//
// This package provides commands for computing diagram layouts, rendering
// them as terminal text, scoring layout variants against each other, and
// previewing diagrams interactively. The CLI is built using cobra and
// supports verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - layout: Compute a layout and emit it as JSON
//   - render: Draw a diagram as box-drawing text
//   - score: Compare the layout quality of two diagrams
//   - preview: Interactive terminal preview with live direction switching
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/flowgrid/flowgrid/pkg/buildinfo"
	"github.com/flowgrid/flowgrid/pkg/ir"
	"github.com/flowgrid/flowgrid/pkg/observability"
)

// appName is the application name used for display and completions.
const appName = "flowgrid"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Flowgrid lays out flow diagrams for the terminal",
		Long:         `Flowgrid is a CLI tool for computing deterministic layouts of flow diagrams and rendering them as terminal text, with obstacle-aware edge routing and collision-free label placement.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			runID := uuid.NewString()
			c.Logger.Debug("starting run", "run_id", runID, "command", cmd.Name())
			logger := c.Logger.With("run_id", runID)
			hooks := &logHooks{logger: logger}
			observability.SetEngineHooks(hooks)
			observability.SetCacheHooks(hooks)
			cmd.SetContext(withLogger(cmd.Context(), logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.scoreCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadInputs reads a diagram file and merges the optional config file
// over the engine defaults. Import warnings go to the logger.
func loadInputs(logger *log.Logger, diagramPath, configPath string) (*ir.Diagram, ir.Config, error) {
	cfg := ir.DefaultConfig()
	if configPath != "" {
		loaded, err := ir.LoadConfig(configPath)
		if err != nil {
			return nil, cfg, err
		}
		cfg = loaded
	}

	d, warnings, err := ir.Import(diagramPath)
	if err != nil {
		return nil, cfg, fmt.Errorf("import %s: %w", diagramPath, err)
	}
	for _, w := range warnings {
		logger.Warn(w)
	}
	return d, cfg, nil
}
