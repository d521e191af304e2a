package pdfwriter

import (
	"bytes"
	"context"
	"fmt"

	"github.com/go-pdf/fpdf"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"

	"github.com/ginjaninja78/packing-slip-generator/internal/layout"
)

// Core font used for every line. Arial maps to Helvetica in the core set,
// so no font files are needed.
const fontFamily = "Arial"

// cp1252 encodes text for the core fonts, which only carry Windows-1252.
// The first value that cannot be encoded is kept in err and nothing is
// drawn for it.
type cp1252 struct {
	enc *encoding.Encoder
	err error
}

func newCP1252() *cp1252 {
	return &cp1252{enc: charmap.Windows1252.NewEncoder()}
}

func (c *cp1252) text(s string) string {
	out, err := c.enc.String(s)
	if err != nil {
		if c.err == nil {
			c.err = fmt.Errorf("%q cannot be printed with the built-in fonts (use the gotenberg renderer): %w", s, err)
		}
		return ""
	}
	return out
}

// FPDFOptions tunes the in-process backend.
type FPDFOptions struct {
	// Compress deflates page streams. Tests disable it to read the text back.
	Compress bool
}

// FPDF renders slips with github.com/go-pdf/fpdf.
type FPDF struct {
	opts FPDFOptions
}

// NewFPDF creates the in-process renderer.
func NewFPDF(opts FPDFOptions) *FPDF {
	return &FPDF{opts: opts}
}

// Extension implements Renderer.
func (r *FPDF) Extension() string { return Extension }

// ContentType implements Renderer.
func (r *FPDF) ContentType() string { return ContentTypePDF }

// Render implements Renderer. One A4 portrait page per slip; the items table
// flows onto further pages when it does not fit. Text outside Windows-1252
// is an error.
func (r *FPDF) Render(ctx context.Context, slip layout.Slip) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(r.opts.Compress)
	pdf.SetCatalogSort(true)
	pdf.SetCreationDate(slip.OrderDate)
	pdf.SetModificationDate(slip.OrderDate)
	pdf.SetTitle(slip.Name, true)

	enc := newCP1252()
	tr := enc.text

	// The header repeats on every page a long order flows onto.
	pdf.SetHeaderFunc(func() {
		pdf.SetFont(fontFamily, "B", 12)
		pdf.CellFormat(0, slip.LineHeight, tr(slip.CompanyName), "", 1, "L", false, 0, "")
		pdf.SetFont(fontFamily, "B", 16)
		pdf.CellFormat(0, slip.LineHeight, tr(slip.Title), "", 1, "L", false, 0, "")
		pdf.Ln(slip.BlockGap)
	})
	pdf.AddPage()

	// Shipping block
	pdf.SetFont(fontFamily, "", 12)
	for _, line := range slip.Shipping {
		pdf.CellFormat(slip.LabelWidth, slip.LineHeight, tr(line.Left), "", 0, "L", false, 0, "")
		pdf.CellFormat(0, slip.LineHeight, tr(line.Right), "", 1, "L", false, 0, "")
	}
	pdf.Ln(slip.BlockGap)

	// Items table
	pdf.SetFont(fontFamily, "B", 12)
	for _, col := range slip.Columns {
		pdf.CellFormat(col.Width, slip.LineHeight, tr(col.Title), "1", 0, string(col.Align), false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont(fontFamily, "", 12)
	for _, row := range slip.Rows {
		for i, col := range slip.Columns {
			pdf.CellFormat(col.Width, slip.LineHeight, tr(row[i]), "1", 0, string(col.Align), false, 0, "")
		}
		pdf.Ln(-1)
	}

	// Footer
	pdf.CellFormat(0, slip.LineHeight, tr(slip.Footer), "", 1, "L", false, 0, "")

	if enc.err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", slip.Name, enc.err)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", slip.Name, err)
	}
	return buf.Bytes(), nil
}
