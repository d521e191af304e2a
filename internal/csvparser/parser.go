// =============================================================================
// Packing Slip Generator - CSV Parser Module
// =============================================================================
//
// This module reads CSV exports of the order worksheet. It produces the same
// types.Table as the XLSX reader so both sources share one extraction path.
//
// FEATURES:
//   - Configurable delimiter (comma, pipe, tab, semicolon)
//   - Row numbers follow the source lines, so errors point at the right line
//   - Lazy quotes and ragged rows are tolerated
//
// =============================================================================

package csvparser

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ginjaninja78/packing-slip-generator/internal/config"
	"github.com/ginjaninja78/packing-slip-generator/internal/types"
)

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads CSV bytes and returns the parsed table.
//
// PARAMETERS:
//   - source: Identifier of the upload, copied into the table.
//   - data: The raw CSV bytes. A UTF-8 byte order mark is ignored.
//   - settings: The CSV parsing settings from the main configuration.
//
// RETURNS:
//   - The header row and data rows as a Table.
//   - A *types.SchemaError if there is no header row, or a wrapped
//     encoding/csv error for malformed input.
func Parse(source string, data []byte, settings config.CSVSettings) (*types.Table, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	csvReader := csv.NewReader(bytes.NewReader(data))
	configureReader(csvReader, settings)

	table := &types.Table{Source: source}

	for {
		record, err := csvReader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV: %w", err)
		}

		line, _ := csvReader.FieldPos(0)

		if table.Headers == nil {
			table.Headers = trimCells(record)
			continue
		}

		// Skip empty rows.
		if isRowEmpty(record) {
			continue
		}

		table.Rows = append(table.Rows, types.Row{
			Number: line,
			Cells:  trimCells(record),
		})
	}

	if table.Headers == nil || isRowEmpty(table.Headers) {
		return nil, &types.SchemaError{Reason: "CSV file has no header row"}
	}

	return table, nil
}

// configureReader configures the CSV reader based on the settings.
func configureReader(reader *csv.Reader, settings config.CSVSettings) {
	// Set the delimiter.
	// Handle special cases for common delimiters.
	switch settings.Delimiter {
	case "\\t", "\t", "tab", "TAB":
		reader.Comma = '\t'
	case "|", "pipe", "PIPE":
		reader.Comma = '|'
	case ";", "semicolon":
		reader.Comma = ';'
	default:
		if len(settings.Delimiter) > 0 {
			reader.Comma = rune(settings.Delimiter[0])
		} else {
			reader.Comma = ','
		}
	}

	// Allow variable number of fields per row.
	reader.FieldsPerRecord = -1

	// Allow lazy quotes (quotes that don't follow strict CSV rules).
	reader.LazyQuotes = true

	reader.TrimLeadingSpace = true
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// isRowEmpty checks if a row contains only empty values.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func trimCells(row []string) []string {
	out := make([]string, len(row))
	for i, cell := range row {
		out[i] = strings.TrimSpace(cell)
	}
	return out
}
