// =============================================================================
// Packing Slip Generator - Generate Command
// =============================================================================
//
// This file defines the 'generate' command, the main command of the tool.
//
// COMMAND USAGE:
//   packslip generate [files...] [flags]
//
// FLAGS:
//   --input-dir  : Directory scanned when no files are given
//   --out, -o    : Directory receiving the packing slips
//   --sheet      : Worksheet holding the order lines
//   --renderer   : PDF backend, "fpdf" or "gotenberg"
//   --strict     : Fail a file whose orders have differing shipping details
//   --archive    : Move each successfully processed input to the archive
//                  (archive_timestamp_subdirs files it under YYYY/MM/DD)
//   --dry-run    : Convert everything but write nothing
//
// PROCESSING PIPELINE:
//   1. Load configuration and apply flag overrides
//   2. Collect input files (arguments, or discovery in the input directory)
//   3. Convert files concurrently, at most max_concurrency at a time
//   4. Hand each file's slips to the sink once the whole file converted
//   5. Archive inputs, print results, write error log and summary
//
// A failing file never stops the others. The command exits non-zero when
// any file failed.
//
// =============================================================================

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ginjaninja78/packing-slip-generator/internal/config"
	"github.com/ginjaninja78/packing-slip-generator/internal/converter"
	"github.com/ginjaninja78/packing-slip-generator/internal/logging"
	"github.com/ginjaninja78/packing-slip-generator/internal/pdfwriter"
	"github.com/ginjaninja78/packing-slip-generator/internal/types"
	"github.com/ginjaninja78/packing-slip-generator/pkg/utils"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	inputDir     string
	outputDir    string
	sheetName    string
	rendererName string
	strict       bool
	archive      bool
	dryRun       bool
)

var generateCmd = &cobra.Command{
	Use:   "generate [files...]",
	Short: "Render one packing slip per sales order",
	Long: `The generate command converts order spreadsheets into packing slips.

With no arguments every .xlsx and .csv file in the input directory is
processed. Each sales order number in a file becomes one PDF named
<file>_PO_<order>_packing_slip.pdf in the output directory.

A file either produces all of its slips or none of them. Files with no
qualifying rows are reported as "No valid item data found".`,

	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadRuntime(func(c *config.MainConfig) { applyGenerateFlags(cmd, c) })
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		_, err = runGenerate(cmd.Context(), cmd.OutOrStdout(), cfg, logger, args, dryRun)
		return err
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)

	f := generateCmd.Flags()
	f.StringVar(&inputDir, "input-dir", "", "Directory scanned when no files are given (overrides input_dir)")
	f.StringVarP(&outputDir, "out", "o", "", "Output directory for packing slips (overrides output_dir)")
	f.StringVar(&sheetName, "sheet", "", "Worksheet holding the order lines (overrides sheet_name)")
	f.StringVar(&rendererName, "renderer", "", `PDF backend: "fpdf" or "gotenberg" (overrides renderer)`)
	f.BoolVar(&strict, "strict", false, "Fail files whose orders have differing shipping details")
	f.BoolVar(&archive, "archive", false, "Archive inputs after their slips are written")
	f.BoolVar(&dryRun, "dry-run", false, "Convert without writing any files")
}

// applyGenerateFlags copies explicitly set flags over the configuration.
func applyGenerateFlags(cmd *cobra.Command, cfg *config.MainConfig) {
	flags := cmd.Flags()
	if flags.Changed("input-dir") {
		cfg.InputDir = inputDir
	}
	if flags.Changed("out") {
		cfg.OutputDir = outputDir
	}
	if flags.Changed("sheet") {
		cfg.SheetName = sheetName
	}
	if flags.Changed("renderer") {
		cfg.Renderer = rendererName
	}
	if flags.Changed("strict") {
		cfg.StrictGroups = strict
	}
	if flags.Changed("archive") {
		cfg.ArchiveInputs = archive
	}
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// fileOutcome is what happened to one input file.
type fileOutcome struct {
	result  converter.Result
	written []string
	archive string
}

func (o fileOutcome) failed() bool { return o.result.Err != nil }

// runGenerate converts files (or the discovered inputs) and reports to out.
func runGenerate(ctx context.Context, out io.Writer, cfg *config.MainConfig, logger logging.Logger, files []string, dryRun bool) (utils.ProcessingSummary, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	summary := utils.ProcessingSummary{StartTime: time.Now()}
	fm := utils.NewFileManager(cfg.InputDir, cfg.OutputDir, cfg.InputArchiveDir)
	fm.UseTimestampSubdirs = cfg.ArchiveTimestampSubdirs

	// =========================================================================
	// STEP 1: COLLECT INPUT FILES
	// =========================================================================

	if len(files) == 0 {
		discovered, err := fm.DiscoverInputFiles()
		if err != nil {
			return summary, fmt.Errorf("failed to discover input files: %w", err)
		}
		files = discovered
	}
	if len(files) == 0 {
		fmt.Fprintf(out, "No order files found in %s.\n", cfg.InputDir)
		return summary, nil
	}
	logger.Info("Found %d file(s) to process", len(files))

	// =========================================================================
	// STEP 2: PREPARE RENDERER AND SINK
	// =========================================================================

	renderer, err := pdfwriter.New(cfg)
	if err != nil {
		return summary, err
	}
	if p, ok := renderer.(interface{ Ping(context.Context) error }); ok {
		if err := p.Ping(ctx); err != nil {
			return summary, fmt.Errorf("renderer unavailable: %w", err)
		}
	}

	var sink utils.Sink
	if dryRun {
		sink = utils.NewMemorySink()
	} else {
		if err := fm.EnsureDirectories(cfg.ArchiveInputs); err != nil {
			return summary, err
		}
		sink = utils.NewDirSink(cfg.OutputDir)
	}

	conv := converter.New(cfg, renderer, logger)

	// =========================================================================
	// STEP 3: PROCESS FILES CONCURRENTLY
	// =========================================================================

	outcomes := make([]fileOutcome, len(files))
	g := new(errgroup.Group)
	g.SetLimit(cfg.MaxConcurrency)
	for i, path := range files {
		g.Go(func() error {
			outcomes[i] = processFile(ctx, conv, sink, fm, path, cfg.ArchiveInputs && !dryRun, logger)
			return nil
		})
	}
	_ = g.Wait()

	// =========================================================================
	// STEP 4: REPORT
	// =========================================================================

	var entries []utils.ErrorLogEntry
	summary.TotalFiles = len(files)
	for _, o := range outcomes {
		r := o.result
		name := filepath.Base(r.Source)
		summary.TotalRows += r.Stats.RowsRead
		summary.TotalLineItems += r.Stats.RowsQualified
		summary.Warnings += len(r.Warnings)

		switch {
		case o.failed():
			summary.FailedFiles++
			summary.FailedFilesList = append(summary.FailedFilesList, utils.FailedFileInfo{
				InputFile:    r.Source,
				ErrorMessage: r.Err.Error(),
				ErrorType:    types.KindOf(r.Err),
			})
			entries = append(entries, errorLogEntry(r))
			fmt.Fprintf(out, "  ✗ %s: %v\n", name, r.Err)
		case len(o.written) == 0:
			summary.EmptyFiles++
			fmt.Fprintf(out, "No valid item data found in %s.\n", name)
		default:
			summary.SuccessfulFiles++
			summary.TotalSlips += len(o.written)
			summary.ProcessedFiles = append(summary.ProcessedFiles, utils.ProcessedFileInfo{
				InputFile:   r.Source,
				ArchivePath: o.archive,
				Slips:       o.written,
				Rows:        r.Stats.RowsRead,
				LineItems:   r.Stats.RowsQualified,
				ProcessTime: r.Stats.Duration,
			})
			for _, doc := range o.written {
				fmt.Fprintf(out, "  ✓ %s -> %s\n", name, doc)
			}
			for _, w := range r.Warnings {
				fmt.Fprintf(out, "    ! %s\n", w.Error())
			}
		}
	}
	summary.EndTime = time.Now()

	fmt.Fprintln(out, "\n=== Processing Complete ===")
	fmt.Fprintf(out, "Total files:     %d\n", summary.TotalFiles)
	fmt.Fprintf(out, "Successful:      %d\n", summary.SuccessfulFiles)
	fmt.Fprintf(out, "No item data:    %d\n", summary.EmptyFiles)
	fmt.Fprintf(out, "Errors:          %d\n", summary.FailedFiles)
	fmt.Fprintf(out, "Packing slips:   %d\n", summary.TotalSlips)
	fmt.Fprintf(out, "Time elapsed:    %s\n", summary.EndTime.Sub(summary.StartTime))

	if dryRun {
		fmt.Fprintln(out, "Dry run: nothing was written.")
	} else {
		if path, err := fm.WriteErrorLog(entries); err != nil {
			logger.Error("Failed to write error log: %v", err)
		} else if path != "" {
			fmt.Fprintf(out, "\nErrors have been logged to %s\n", path)
		}
		if _, err := fm.WriteSummaryLog(summary); err != nil {
			logger.Error("Failed to write summary: %v", err)
		}
	}

	if summary.FailedFiles > 0 {
		return summary, fmt.Errorf("%d of %d file(s) failed", summary.FailedFiles, summary.TotalFiles)
	}
	return summary, nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// processFile converts one input and hands its documents to sink.
func processFile(ctx context.Context, conv *converter.Converter, sink utils.Sink, fm *utils.FileManager, path string, archive bool, logger logging.Logger) fileOutcome {
	data, err := os.ReadFile(path)
	if err != nil {
		return fileOutcome{result: converter.Result{
			Source: path,
			RunID:  uuid.NewString(),
			Err:    fmt.Errorf("failed to read input: %w", err),
		}}
	}

	o := fileOutcome{result: conv.Convert(ctx, path, data)}
	if o.failed() {
		return o
	}

	for _, doc := range o.result.Documents {
		if err := sink.Put(ctx, doc.Name, doc.Data); err != nil {
			o.result.Err = fmt.Errorf("failed to write %s: %w", doc.Name, err)
			rollback(ctx, sink, o.written, logger)
			o.written = nil
			o.result.Documents = nil
			return o
		}
		o.written = append(o.written, doc.Name)
	}
	// Release the rendered bytes; only names are reported from here on.
	o.result.Documents = nil

	if archive {
		dst, err := fm.ArchiveInputFile(path)
		if err != nil {
			logger.Warn("Failed to archive %s: %v", path, err)
		} else {
			o.archive = dst
		}
	}
	return o
}

// rollback removes the slips already written for a file that failed part way.
// It runs even when ctx is cancelled.
func rollback(ctx context.Context, sink utils.Sink, names []string, logger logging.Logger) {
	ctx = context.WithoutCancel(ctx)
	for _, name := range names {
		if err := sink.Remove(ctx, name); err != nil {
			logger.Error("Failed to remove partial output %s: %v", name, err)
		}
	}
}

// errorLogEntry describes a failed file for the error log.
func errorLogEntry(r converter.Result) utils.ErrorLogEntry {
	entry := utils.ErrorLogEntry{
		Timestamp:    time.Now(),
		RunID:        r.RunID,
		FileName:     filepath.Base(r.Source),
		ErrorType:    types.KindOf(r.Err),
		ErrorMessage: r.Err.Error(),
	}

	var fe *types.FieldError
	var ge *types.GroupError
	switch {
	case errors.As(r.Err, &fe):
		entry.RowNumber = fe.Row
		entry.FieldName = fe.Column
		entry.FieldValue = fe.Value
	case errors.As(r.Err, &ge):
		entry.OrderNumber = ge.OrderNumber
		if len(ge.Divergences) > 0 {
			d := ge.Divergences[0]
			entry.RowNumber = d.Row
			entry.FieldName = d.Field
			entry.FieldValue = d.Value
		}
	}
	return entry
}
