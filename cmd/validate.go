// =============================================================================
// Packing Slip Generator - Validate Command
// =============================================================================
//
// COMMAND USAGE:
//   packslip validate [files...]
//
// Runs extraction and grouping on each input and reports what generate would
// do, without rendering or writing anything. Useful to check a workbook
// before a print run.
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/packing-slip-generator/internal/config"
	"github.com/ginjaninja78/packing-slip-generator/internal/converter"
	"github.com/ginjaninja78/packing-slip-generator/internal/layout"
	"github.com/ginjaninja78/packing-slip-generator/internal/logging"
	"github.com/ginjaninja78/packing-slip-generator/internal/pdfwriter"
	"github.com/ginjaninja78/packing-slip-generator/internal/types"
	"github.com/ginjaninja78/packing-slip-generator/internal/validation"
	"github.com/ginjaninja78/packing-slip-generator/pkg/utils"
)

var validateCmd = &cobra.Command{
	Use:   "validate [files...]",
	Short: "Check order files without rendering",
	Long: `The validate command reads each order file, checks the required columns,
fields and values, groups line items by sales order and lists the packing
slips that generate would produce. Nothing is rendered or written.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadRuntime(func(c *config.MainConfig) {
			if cmd.Flags().Changed("sheet") {
				c.SheetName = sheetName
			}
			if cmd.Flags().Changed("strict") {
				c.StrictGroups = strict
			}
		})
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		return runValidate(cmd.OutOrStdout(), cfg, logger, args)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVar(&sheetName, "sheet", "", "Worksheet holding the order lines (overrides sheet_name)")
	validateCmd.Flags().BoolVar(&strict, "strict", false, "Treat differing shipping details inside an order as errors")
}

// runValidate checks every file and reports to out.
func runValidate(out io.Writer, cfg *config.MainConfig, logger logging.Logger, files []string) error {
	if len(files) == 0 {
		fm := utils.NewFileManager(cfg.InputDir, cfg.OutputDir, cfg.InputArchiveDir)
		discovered, err := fm.DiscoverInputFiles()
		if err != nil {
			return fmt.Errorf("failed to discover input files: %w", err)
		}
		files = discovered
	}
	if len(files) == 0 {
		fmt.Fprintf(out, "No order files found in %s.\n", cfg.InputDir)
		return nil
	}

	// Only Extract is used, so the renderer is never called.
	conv := converter.New(cfg, pdfwriter.NewFPDF(pdfwriter.FPDFOptions{}), logger)

	failed := 0
	for _, path := range files {
		if err := validateFile(out, conv, cfg, path); err != nil {
			failed++
			fmt.Fprintf(out, "  ✗ %s: [%s] %v\n", filepath.Base(path), types.KindOf(err), err)
		}
	}

	fmt.Fprintf(out, "\nValidated %d file(s), %d with errors\n", len(files), failed)
	if failed > 0 {
		return fmt.Errorf("%d of %d file(s) failed validation", failed, len(files))
	}
	return nil
}

func validateFile(out io.Writer, conv *converter.Converter, cfg *config.MainConfig, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	items, stats, err := conv.Extract(path, data)
	if err != nil {
		return err
	}

	name := filepath.Base(path)
	if len(items) == 0 {
		fmt.Fprintf(out, "No valid item data found in %s.\n", name)
		return nil
	}

	groups := converter.GroupByOrder(items)
	var warnings []*validation.ValidationError
	for _, g := range groups {
		divs := validation.CheckGroup(g)
		if len(divs) > 0 && cfg.StrictGroups {
			return validation.ConsistencyError(g.OrderNumber, divs)
		}
		warnings = append(warnings, validation.Warnings(divs)...)
	}

	fmt.Fprintf(out, "  ✓ %s: %d row(s), %d line item(s), %d order(s)\n", name, stats.RowsRead, stats.RowsQualified, len(groups))
	for _, g := range groups {
		fmt.Fprintf(out, "      %s%s (%d item(s))\n", layout.DocumentName(path, g.OrderNumber), pdfwriter.Extension, len(g.Items))
	}
	for _, w := range warnings {
		fmt.Fprintf(out, "    ! %s\n", w.Error())
	}
	return nil
}
