// =============================================================================
// Packing Slip Generator - XLSX Order Workbook Reader
// =============================================================================
//
// This module reads the order worksheet of an uploaded workbook into a
// types.Table: the first row is the header row, every following row is data.
//
// WORKSHEET STRUCTURE (Expected Header Row):
//
//   | Date of Order | Sales Order Number | Ship_Addressee | ... | Item Description | Quantity |
//   |---------------|--------------------|----------------|-----|------------------|----------|
//   | 45306         | 1001               | Jane Doe       | ... | Widget A         | 3        |
//
// Cells are read as raw values, so dates arrive as Excel serial numbers and
// numbers arrive without display formatting. Interpreting them is the job of
// the extract package.
//
// =============================================================================

package xlsxparser

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/packing-slip-generator/internal/types"
)

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// ReadSheet opens a workbook from memory and returns the named worksheet.
//
// PARAMETERS:
//   - source: Identifier of the upload, copied into the table.
//   - data: The raw .xlsx bytes.
//   - sheetName: The worksheet holding the order lines.
//
// RETURNS:
//   - The worksheet as a Table.
//   - A *types.SchemaError if the sheet is missing or has no header row,
//     or a wrapped excelize error if the bytes are not a workbook.
func ReadSheet(source string, data []byte, sheetName string) (*types.Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	idx, err := f.GetSheetIndex(sheetName)
	if err != nil || idx == -1 {
		return nil, &types.SchemaError{
			Sheet:  sheetName,
			Reason: fmt.Sprintf("worksheet not found (have %s)", strings.Join(f.GetSheetList(), ", ")),
		}
	}

	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	return buildTable(source, sheetName, rows)
}

// buildTable splits raw rows into header and data rows.
// GetRows keeps blank rows in place, so index i is worksheet row i+1.
func buildTable(source, sheetName string, rows [][]string) (*types.Table, error) {
	if len(rows) == 0 || isRowEmpty(rows[0]) {
		return nil, &types.SchemaError{Sheet: sheetName, Reason: "header row is empty"}
	}

	table := &types.Table{
		Source:  source,
		Sheet:   sheetName,
		Headers: trimCells(rows[0]),
		Rows:    make([]types.Row, 0, len(rows)-1),
	}

	for i := 1; i < len(rows); i++ {
		// Skip empty rows.
		if isRowEmpty(rows[i]) {
			continue
		}
		table.Rows = append(table.Rows, types.Row{
			Number: i + 1,
			Cells:  trimCells(rows[i]),
		})
	}

	return table, nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// isRowEmpty checks if a row contains only empty cells.
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
