// =============================================================================
// Packing Slip Generator - Slip Layout
// =============================================================================
//
// The slip layout is data, not drawing code. A Template describes the fixed
// page; Build fills it from one order group and returns a Slip, a plain view
// model that any backend in pdfwriter can draw.
//
// PAGE STRUCTURE:
//
//   Kingsbury Court PTY LTD (KENZZI)          <- company line, bold 12
//   Packing Slip                              <- title, bold 16
//
//   SHIP TO            Recipient Order Date 15/01/2024
//   Jane Doe           Order Number 1001
//   12 Example St      Phone 412345678
//   Sydney, NSW,2000   Purchase Order 1001
//
//   | Product Code | Description | Item_Code | Quantity |
//   | 100          | Widget A    | 10        | 3        |
//
//   Packing Slip                              <- footer marker
//
// =============================================================================

package layout

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/ginjaninja78/packing-slip-generator/internal/types"
)

// DateFormat is how the order date is printed (DD/MM/YYYY).
const DateFormat = "02/01/2006"

// Align is a cell alignment, using the PDF convention "L", "C", "R".
type Align string

const (
	AlignLeft   Align = "L"
	AlignCenter Align = "C"
	AlignRight  Align = "R"
)

// Column defines one column of the items table.
type Column struct {
	Title string
	Width float64
	Align Align
	Value func(types.LineItem) string
}

// ShippingLine is one row of the shipping block: a left cell and a right cell.
type ShippingLine struct {
	Left  string
	Right string
}

// Template is the fixed page description. Widths and heights are millimetres.
type Template struct {
	CompanyName string
	Title       string
	Footer      string

	// LineHeight is the height of every text line and table row.
	LineHeight float64

	// BlockGap is the vertical space after the header and the shipping block.
	BlockGap float64

	// LabelWidth is the width of the left shipping cell.
	LabelWidth float64

	Columns []Column
}

// DefaultTemplate returns the packing slip layout.
func DefaultTemplate(companyName string) Template {
	return Template{
		CompanyName: companyName,
		Title:       "Packing Slip",
		Footer:      "Packing Slip",
		LineHeight:  10,
		BlockGap:    5,
		LabelWidth:  100,
		Columns: []Column{
			{Title: "Product Code", Width: 40, Align: AlignLeft, Value: func(li types.LineItem) string { return itoa(li.CustomerNumber) }},
			{Title: "Description", Width: 80, Align: AlignLeft, Value: func(li types.LineItem) string { return li.Description }},
			{Title: "Item_Code", Width: 40, Align: AlignLeft, Value: func(li types.LineItem) string { return itoa(li.ItemCode) }},
			{Title: "Quantity", Width: 30, Align: AlignLeft, Value: func(li types.LineItem) string { return itoa(li.Quantity) }},
		},
	}
}

// =============================================================================
// SLIP VIEW MODEL
// =============================================================================

// Slip is a filled-in template for one order. It holds only strings and
// geometry so that rendering is a pure function of it.
type Slip struct {
	// Name is the document name without extension.
	Name        string
	OrderNumber int64
	OrderDate   time.Time

	CompanyName string
	Title       string
	Footer      string
	LineHeight  float64
	BlockGap    float64
	LabelWidth  float64

	Shipping []ShippingLine
	Columns  []Column
	Rows     [][]string
}

// Build fills the template for one order group.
//
// PARAMETERS:
//   - source: The source identifier; its base name prefixes the document name.
//   - g: The order group. g.Meta supplies the shipping block.
func (t Template) Build(source string, g types.OrderGroup) Slip {
	meta := g.Meta
	order := itoa(g.OrderNumber)

	slip := Slip{
		Name:        DocumentName(source, g.OrderNumber),
		OrderNumber: g.OrderNumber,
		OrderDate:   meta.OrderDate,
		CompanyName: t.CompanyName,
		Title:       t.Title,
		Footer:      t.Footer,
		LineHeight:  t.LineHeight,
		BlockGap:    t.BlockGap,
		LabelWidth:  t.LabelWidth,
		Columns:     t.Columns,
		Shipping: []ShippingLine{
			{Left: "SHIP TO", Right: "Recipient Order Date " + meta.OrderDate.Format(DateFormat)},
			{Left: meta.Addressee, Right: "Order Number " + order},
			{Left: meta.AddressLine1, Right: "Phone " + itoa(meta.Phone)},
			// Purchase Order repeats the sales order number.
			{Left: fmt.Sprintf("%s, %s,%d", meta.City, meta.State, meta.Postcode), Right: "Purchase Order " + order},
		},
		Rows: make([][]string, 0, len(g.Items)),
	}

	for _, item := range g.Items {
		cells := make([]string, len(t.Columns))
		for i, col := range t.Columns {
			cells[i] = col.Value(item)
		}
		slip.Rows = append(slip.Rows, cells)
	}

	return slip
}

// Headers returns the column titles.
func (s Slip) Headers() []string {
	out := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		out[i] = c.Title
	}
	return out
}

// TableWidth is the sum of the column widths.
func (s Slip) TableWidth() float64 {
	var w float64
	for _, c := range s.Columns {
		w += c.Width
	}
	return w
}

// DocumentName builds "{source base}_PO_{order}_packing_slip".
func DocumentName(source string, orderNumber int64) string {
	base := filepath.Base(strings.ReplaceAll(source, "\\", "/"))
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return fmt.Sprintf("%s_PO_%d_packing_slip", base, orderNumber)
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}
