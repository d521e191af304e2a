// =============================================================================
// Packing Slip Generator - Row Extractor
// =============================================================================
//
// This module turns a types.Table into typed line items.
//
// EXTRACTION PROCESS:
//   1. Resolve every required column in the header row (trimmed, case-folded)
//   2. Keep rows that have both an Item Description and a Quantity
//   3. Check the remaining required fields are present
//   4. Coerce numeric and date fields
//
// Any failure in steps 1, 3 or 4 aborts the whole file. Rows dropped in
// step 2 are not reported. An empty result is valid.
//
// =============================================================================

package extract

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/ginjaninja78/packing-slip-generator/internal/types"
	"github.com/ginjaninja78/packing-slip-generator/internal/validation"
)

// Required worksheet columns.
const (
	ColOrderDate      = "Date of Order"
	ColOrderNumber    = "Sales Order Number"
	ColAddressee      = "Ship_Addressee"
	ColAddressLine1   = "Ship_Address Line 1"
	ColCity           = "Ship_City"
	ColState          = "Ship_State"
	ColPostcode       = "Ship_Postcode"
	ColPhone          = "Phone"
	ColCustomerNumber = "Customer No#"
	ColItemCode       = "Item_Code"
	ColDescription    = "Item Description"
	ColQuantity       = "Quantity"
)

// RequiredColumns lists the columns every order worksheet must carry.
var RequiredColumns = []string{
	ColOrderDate,
	ColOrderNumber,
	ColAddressee,
	ColAddressLine1,
	ColCity,
	ColState,
	ColPostcode,
	ColPhone,
	ColCustomerNumber,
	ColItemCode,
	ColDescription,
	ColQuantity,
}

// Stats counts what extraction saw.
type Stats struct {
	RowsRead      int
	RowsQualified int
}

// =============================================================================
// EXTRACTION
// =============================================================================

// LineItems extracts qualifying rows from table.
//
// RETURNS:
//   - The line items in table row order (possibly empty).
//   - Row counts.
//   - A *types.SchemaError, or a *types.FieldError wrapping
//     types.ErrMissingField or types.ErrTypeCoercion.
func LineItems(table *types.Table) ([]types.LineItem, Stats, error) {
	stats := Stats{RowsRead: len(table.Rows)}

	cols, err := resolveColumns(table)
	if err != nil {
		return nil, stats, err
	}

	items := make([]types.LineItem, 0, len(table.Rows))
	for _, row := range table.Rows {
		raw := cols.raw(row)

		// A line item needs both a description and a quantity.
		if raw.Description == "" || raw.Quantity == "" {
			continue
		}

		if err := validation.ValidateRow(raw); err != nil {
			return nil, stats, err
		}

		item, err := coerce(raw)
		if err != nil {
			return nil, stats, err
		}
		items = append(items, item)
	}

	stats.RowsQualified = len(items)
	return items, stats, nil
}

// =============================================================================
// COLUMN RESOLUTION
// =============================================================================

// columnIndex maps required column names to header positions.
type columnIndex map[string]int

func resolveColumns(table *types.Table) (columnIndex, error) {
	fold := cases.Fold()

	positions := make(map[string]int, len(table.Headers))
	for i, h := range table.Headers {
		key := fold.String(strings.TrimSpace(h))
		if _, dup := positions[key]; !dup {
			positions[key] = i
		}
	}

	cols := make(columnIndex, len(RequiredColumns))
	var missing []string
	for _, name := range RequiredColumns {
		i, ok := positions[fold.String(name)]
		if !ok {
			missing = append(missing, name)
			continue
		}
		cols[name] = i
	}

	if len(missing) > 0 {
		return nil, &types.SchemaError{Sheet: table.Sheet, Missing: missing}
	}
	return cols, nil
}

func (c columnIndex) raw(row types.Row) types.RawLineItem {
	get := func(name string) string {
		return strings.TrimSpace(row.Cell(c[name]))
	}
	return types.RawLineItem{
		Row:            row.Number,
		OrderDate:      get(ColOrderDate),
		OrderNumber:    get(ColOrderNumber),
		Addressee:      get(ColAddressee),
		AddressLine1:   get(ColAddressLine1),
		City:           get(ColCity),
		State:          get(ColState),
		Postcode:       get(ColPostcode),
		Phone:          get(ColPhone),
		CustomerNumber: get(ColCustomerNumber),
		ItemCode:       get(ColItemCode),
		Description:    get(ColDescription),
		Quantity:       get(ColQuantity),
	}
}

// =============================================================================
// TYPE COERCION
// =============================================================================

func coerce(raw types.RawLineItem) (types.LineItem, error) {
	item := types.LineItem{
		SourceRow:    raw.Row,
		Addressee:    raw.Addressee,
		AddressLine1: raw.AddressLine1,
		City:         raw.City,
		State:        raw.State,
		Description:  raw.Description,
	}

	ints := []struct {
		column string
		value  string
		dst    *int64
	}{
		{ColOrderNumber, raw.OrderNumber, &item.OrderNumber},
		{ColPostcode, raw.Postcode, &item.Postcode},
		{ColPhone, raw.Phone, &item.Phone},
		{ColCustomerNumber, raw.CustomerNumber, &item.CustomerNumber},
		{ColItemCode, raw.ItemCode, &item.ItemCode},
		{ColQuantity, raw.Quantity, &item.Quantity},
	}
	for _, f := range ints {
		n, err := ParseInt(f.value)
		if err != nil {
			return types.LineItem{}, coercionError(raw.Row, f.column, f.value, err)
		}
		*f.dst = n
	}

	date, err := ParseDate(raw.OrderDate)
	if err != nil {
		return types.LineItem{}, coercionError(raw.Row, ColOrderDate, raw.OrderDate, err)
	}
	item.OrderDate = date

	return item, nil
}

func coercionError(row int, column, value string, err error) error {
	return &types.FieldError{
		Kind:   types.ErrTypeCoercion,
		Row:    row,
		Column: column,
		Value:  value,
		Err:    err,
	}
}
