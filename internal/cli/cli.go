// Package cli implements the geotour command-line interface.
//
// This package provides commands for converting tabular coordinate
// datasets into TSPLIB problem instances, running the external LKH
// solver over them, and exporting solver tours back onto the source
// records. The CLI is built using cobra and supports verbose logging
// via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - convert: Write the problem and parameter files for a dataset
//   - solve: Run the full pipeline with live progress
//   - export: Map an existing tour file back onto the dataset
//   - detect: Inspect a dataset's headers and suggest column mappings
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers
// are passed through context.Context so the pipeline can report stage
// progress.
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/routelab/geotour/pkg/buildinfo"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display and file comments.
const appName = "geotour"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

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
		Short:        "Geotour turns coordinate tables into solvable TSP instances",
		Long:         `Geotour is a CLI tool for building TSPLIB problem instances from geographic coordinate tables, driving the LKH solver over them, and writing the optimized visiting order back onto the original records.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.convertCommand())
	root.AddCommand(c.solveCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.detectCommand())
	root.AddCommand(c.completionCommand())

	return root
}
