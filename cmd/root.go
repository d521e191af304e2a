// =============================================================================
// Packing Slip Generator - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. All other commands
// are attached to it.
//
// COBRA CLI STRUCTURE:
//   rootCmd (packslip)
//   ├── generateCmd (packslip generate)
//   ├── validateCmd (packslip validate)
//   └── versionCmd  (packslip version)
//
// The root command owns the global flags (--config, --verbose). Each
// subcommand loads the configuration and builds its logger through
// loadRuntime.
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/packing-slip-generator/internal/config"
	"github.com/ginjaninja78/packing-slip-generator/internal/logging"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the main configuration file.
var cfgFile string

// verbose forces debug logging.
var verbose bool

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

var rootCmd = &cobra.Command{
	Use:   "packslip",
	Short: "Packing Slip Generator - one PDF packing slip per sales order",
	Long: `Packing Slip Generator reads order spreadsheets (.xlsx workbooks or .csv
exports) where each row is one line item of a sales order, and renders one
printable packing slip per sales order number.

Key Features:
  - Rows without an item description or quantity are skipped
  - Line items are grouped by Sales Order Number, lowest first
  - Deterministic PDF output, or rendering through a Gotenberg service
  - Concurrent processing of several input files
  - Optional archival of processed inputs

Example Usage:
  packslip generate                      # Every workbook in the input directory
  packslip generate orders.xlsx -o out/  # One workbook, slips into out/
  packslip validate orders.xlsx          # Check a workbook without rendering`,

	SilenceUsage: true,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. It is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the main configuration file (optional)",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}

// loadRuntime loads the configuration, lets apply override it from command
// flags, validates the result and builds the logger.
func loadRuntime(apply func(*config.MainConfig)) (*config.MainConfig, logging.Logger, error) {
	cfg, err := config.LoadMainConfig(cfgFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load main config: %w", err)
	}

	if apply != nil {
		apply(cfg)
		if err := cfg.Validate(); err != nil {
			return nil, nil, fmt.Errorf("invalid configuration: %w", err)
		}
	}

	logger, err := logging.New(cfg.LogLevel, verbose)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return cfg, logger, nil
}
