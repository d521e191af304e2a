// =============================================================================
// Packing Slip Generator - Converter Module
// =============================================================================
//
// This module contains the core conversion logic. It turns one order
// spreadsheet into one packing slip per sales order.
//
// CONVERSION PIPELINE:
//   1. Read the table (worksheet of an .xlsx workbook, or a .csv export)
//   2. Extract qualifying line items
//   3. Group line items by sales order number
//   4. Check each group's shipping fields against its first row
//   5. Render one slip per group, in ascending order number
//
// Nothing is written here. Documents are returned in the Result and the
// caller decides where they go. A file either yields all of its documents
// or none of them.
//
// CONCURRENCY:
//   A Converter holds no per-file state; one instance may convert several
//   files concurrently.
//
// =============================================================================

package converter

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ginjaninja78/packing-slip-generator/internal/config"
	"github.com/ginjaninja78/packing-slip-generator/internal/csvparser"
	"github.com/ginjaninja78/packing-slip-generator/internal/extract"
	"github.com/ginjaninja78/packing-slip-generator/internal/layout"
	"github.com/ginjaninja78/packing-slip-generator/internal/logging"
	"github.com/ginjaninja78/packing-slip-generator/internal/pdfwriter"
	"github.com/ginjaninja78/packing-slip-generator/internal/types"
	"github.com/ginjaninja78/packing-slip-generator/internal/validation"
	"github.com/ginjaninja78/packing-slip-generator/internal/xlsxparser"
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of converting a single file.
type Result struct {
	// Source identifies the input, usually its path.
	Source string

	// RunID correlates log entries and error log records for this file.
	RunID string

	// Documents holds one slip per order, in ascending order number.
	// It is empty when Err is set.
	Documents []types.Document

	// Warnings lists shipping fields that differ inside an order.
	Warnings []*validation.ValidationError

	// Err is the error that stopped the conversion, or nil.
	Err error

	Stats Stats
}

// Stats contains statistics about the conversion.
type Stats struct {
	RowsRead      int
	RowsQualified int
	Orders        int
	Duration      time.Duration
}

// Empty reports whether the file converted cleanly but held no line items.
func (r Result) Empty() bool {
	return r.Err == nil && len(r.Documents) == 0
}

// =============================================================================
// CONVERTER STRUCTURE
// =============================================================================

// Converter converts order spreadsheets into packing slips.
type Converter struct {
	cfg      *config.MainConfig
	renderer pdfwriter.Renderer
	template layout.Template
	logger   logging.Logger
}

// New creates a new Converter.
//
// PARAMETERS:
//   - cfg: The main configuration (sheet name, company name, strict groups).
//   - renderer: The PDF backend.
//   - logger: Receives progress and warnings. Nil means no logging.
func New(cfg *config.MainConfig, renderer pdfwriter.Renderer, logger logging.Logger) *Converter {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Converter{
		cfg:      cfg,
		renderer: renderer,
		template: layout.DefaultTemplate(cfg.CompanyName),
		logger:   logger,
	}
}

// =============================================================================
// MAIN PROCESSING FUNCTIONS
// =============================================================================

// Convert runs the pipeline for one file.
//
// PARAMETERS:
//   - ctx: Cancels rendering.
//   - source: The file name or path; its base name prefixes document names
//     and its extension selects the reader (".csv" or workbook).
//   - data: The raw file contents.
//
// RETURNS:
//   - A Result. Check Result.Err first, then Result.Empty.
func (c *Converter) Convert(ctx context.Context, source string, data []byte) (result Result) {
	start := time.Now()
	result = Result{Source: source, RunID: uuid.NewString()}
	log := c.logger.With("run_id", result.RunID, "source", filepath.Base(source))

	defer func() { result.Stats.Duration = time.Since(start) }()

	log.Info("Processing file: %s", source)

	// =========================================================================
	// STEP 1-2: READ AND EXTRACT
	// =========================================================================

	items, stats, err := c.Extract(source, data)
	result.Stats.RowsRead = stats.RowsRead
	result.Stats.RowsQualified = stats.RowsQualified
	if err != nil {
		result.Err = fmt.Errorf("%s: %w", filepath.Base(source), err)
		log.Error("Extraction failed: %v", err)
		return result
	}
	log.Debug("Read %d rows, %d qualify", stats.RowsRead, stats.RowsQualified)

	if len(items) == 0 {
		log.Info("No valid item data found")
		return result
	}

	// =========================================================================
	// STEP 3-4: GROUP AND CHECK
	// =========================================================================

	groups := GroupByOrder(items)
	result.Stats.Orders = len(groups)

	for i := range groups {
		g := &groups[i]
		g.Divergences = validation.CheckGroup(*g)
		if len(g.Divergences) == 0 {
			continue
		}
		if c.cfg.StrictGroups {
			result.Err = fmt.Errorf("%s: %w", filepath.Base(source), validation.ConsistencyError(g.OrderNumber, g.Divergences))
			log.Error("Order %d has inconsistent shipping details", g.OrderNumber)
			return result
		}
		for _, w := range validation.Warnings(g.Divergences) {
			log.Warn("%s", w.Error())
			result.Warnings = append(result.Warnings, w)
		}
	}

	// =========================================================================
	// STEP 5: RENDER
	// =========================================================================

	docs := make([]types.Document, 0, len(groups))
	for _, g := range groups {
		slip := c.template.Build(source, g)
		pdf, err := c.renderer.Render(ctx, slip)
		if err != nil {
			result.Err = fmt.Errorf("%s: failed to render order %d: %w", filepath.Base(source), g.OrderNumber, err)
			log.Error("Render failed for order %d: %v", g.OrderNumber, err)
			return result
		}
		docs = append(docs, types.Document{
			Name:        slip.Name + c.renderer.Extension(),
			OrderNumber: g.OrderNumber,
			ContentType: c.renderer.ContentType(),
			Data:        pdf,
		})
		log.Debug("Rendered order %d (%d items)", g.OrderNumber, len(g.Items))
	}

	result.Documents = docs
	log.Info("Generated %d packing slip(s)", len(docs))
	return result
}

// Extract reads the table for source and returns its qualifying line items
// without rendering anything.
func (c *Converter) Extract(source string, data []byte) ([]types.LineItem, extract.Stats, error) {
	table, err := c.readTable(source, data)
	if err != nil {
		return nil, extract.Stats{}, err
	}
	return extract.LineItems(table)
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// IsCSV reports whether source is read as a CSV export.
func IsCSV(source string) bool {
	return strings.EqualFold(filepath.Ext(source), ".csv")
}

func (c *Converter) readTable(source string, data []byte) (*types.Table, error) {
	if IsCSV(source) {
		return csvparser.Parse(source, data, c.cfg.CSV)
	}
	return xlsxparser.ReadSheet(source, data, c.cfg.SheetName)
}
