// =============================================================================
// Packing Slip Generator - Shared Types
// =============================================================================
//
// This package contains shared types used across multiple modules to avoid
// import cycles. Types defined here are used by:
//   - xlsxparser / csvparser (Table)
//   - extract (LineItem, RawLineItem)
//   - validation (OrderGroup, Divergence)
//   - converter, layout, pdfwriter
//
// =============================================================================

package types

import "time"

// =============================================================================
// TABULAR SOURCE
// =============================================================================

// Table is a worksheet (or CSV export) reduced to a header row and data rows.
type Table struct {
	// Source identifies where the table came from (file name, not parsed).
	Source string

	// Sheet is the worksheet name. Empty for CSV sources.
	Sheet string

	// Headers holds the header row cells, trimmed.
	Headers []string

	// Rows holds the data rows following the header row.
	Rows []Row
}

// Row is one data row and its 1-based position in the source.
type Row struct {
	Number int
	Cells  []string
}

// Cell returns the trimmed value at index i, or "" when the row is short.
func (r Row) Cell(i int) string {
	if i < 0 || i >= len(r.Cells) {
		return ""
	}
	return r.Cells[i]
}

// =============================================================================
// LINE ITEMS
// =============================================================================

// RawLineItem is a qualifying row before type coercion. The col tags name the
// worksheet column each field was read from.
type RawLineItem struct {
	Row            int    `col:"-"`
	OrderDate      string `col:"Date of Order" validate:"required"`
	OrderNumber    string `col:"Sales Order Number" validate:"required"`
	Addressee      string `col:"Ship_Addressee" validate:"required"`
	AddressLine1   string `col:"Ship_Address Line 1" validate:"required"`
	City           string `col:"Ship_City" validate:"required"`
	State          string `col:"Ship_State" validate:"required"`
	Postcode       string `col:"Ship_Postcode" validate:"required"`
	Phone          string `col:"Phone" validate:"required"`
	CustomerNumber string `col:"Customer No#" validate:"required"`
	ItemCode       string `col:"Item_Code" validate:"required"`
	Description    string `col:"Item Description" validate:"required"`
	Quantity       string `col:"Quantity" validate:"required"`
}

// LineItem is one qualifying spreadsheet row with its fields coerced.
type LineItem struct {
	// SourceRow is the 1-based row number in the worksheet.
	SourceRow int

	OrderNumber    int64
	OrderDate      time.Time
	Addressee      string
	AddressLine1   string
	City           string
	State          string
	Postcode       int64
	Phone          int64
	CustomerNumber int64
	ItemCode       int64
	Description    string
	Quantity       int64
}

// =============================================================================
// ORDER GROUPS
// =============================================================================

// OrderGroup holds the line items sharing one sales order number.
type OrderGroup struct {
	OrderNumber int64

	// Items keeps the source row order.
	Items []LineItem

	// Meta is the first row of the group. Its shipping fields are printed
	// on the slip for the whole order.
	Meta LineItem

	// Divergences lists shipping fields of later rows that differ from Meta.
	Divergences []Divergence
}

// Divergence records a shipping field that differs from the group's first row.
type Divergence struct {
	OrderNumber int64
	Field       string
	Row         int
	MetaRow     int
	MetaValue   string
	Value       string
}

// =============================================================================
// DOCUMENTS
// =============================================================================

// Document is one rendered packing slip.
type Document struct {
	Name        string
	OrderNumber int64
	ContentType string
	Data        []byte
}
