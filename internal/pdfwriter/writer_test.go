package pdfwriter

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/packing-slip-generator/internal/config"
	"github.com/ginjaninja78/packing-slip-generator/internal/layout"
	"github.com/ginjaninja78/packing-slip-generator/internal/types"
)

// ============================================================================
// FIXTURES
// ============================================================================

func testSlip(items int) layout.Slip {
	g := types.OrderGroup{OrderNumber: 1001}
	for i := 0; i < items; i++ {
		g.Items = append(g.Items, types.LineItem{
			SourceRow:      i + 2,
			OrderNumber:    1001,
			OrderDate:      time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
			Addressee:      "Jane Doe",
			AddressLine1:   "12 Example St",
			City:           "Sydney",
			State:          "NSW",
			Postcode:       2000,
			Phone:          412345678,
			CustomerNumber: 100 + int64(i),
			ItemCode:       10,
			Description:    "Widget",
			Quantity:       3,
		})
	}
	g.Meta = g.Items[0]
	return layout.DefaultTemplate(config.DefaultCompanyName).Build("orders.xlsx", g)
}

// pageObject matches a page dictionary but not the page tree.
var pageObject = regexp.MustCompile(`/Type\s*/Page[^s]`)

func pageCount(data []byte) int {
	return len(pageObject.FindAll(data, -1))
}

// ============================================================================
// FPDF TESTS
// ============================================================================

func TestFPDF_RenderContainsSlipText(t *testing.T) {
	r := NewFPDF(FPDFOptions{Compress: false})

	data, err := r.Render(context.Background(), testSlip(2))
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(data, []byte("%PDF-")))

	text := string(data)
	for _, want := range []string{
		`(Kingsbury Court PTY LTD \(KENZZI\))`,
		"(Packing Slip)",
		"(SHIP TO)",
		"(Recipient Order Date 15/01/2024)",
		"(Order Number 1001)",
		"(Phone 412345678)",
		"(Sydney, NSW,2000)",
		"(Purchase Order 1001)",
		"(Product Code)",
		"(Item_Code)",
		"(100)",
		"(101)",
	} {
		assert.Contains(t, text, want)
	}
	assert.Equal(t, 1, pageCount(data), "one page expected")
}

func TestFPDF_RenderIsDeterministic(t *testing.T) {
	r := NewFPDF(FPDFOptions{Compress: true})

	first, err := r.Render(context.Background(), testSlip(3))
	require.NoError(t, err)
	second, err := r.Render(context.Background(), testSlip(3))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestFPDF_LongOrderFlowsOntoMorePages(t *testing.T) {
	r := NewFPDF(FPDFOptions{Compress: false})

	data, err := r.Render(context.Background(), testSlip(60))
	require.NoError(t, err)

	pages := pageCount(data)
	assert.Greater(t, pages, 1)
	assert.Equal(t, pages, strings.Count(string(data), `(Kingsbury Court PTY LTD \(KENZZI\))`), "header on every page")
}

func TestFPDF_RenderEncodesWindows1252(t *testing.T) {
	slip := testSlip(1)
	slip.Rows[0][1] = "Café crème"

	data, err := NewFPDF(FPDFOptions{Compress: false}).Render(context.Background(), slip)
	require.NoError(t, err)
	assert.True(t, bytes.Contains(data, []byte("(Caf\xe9 cr\xe8me)")))
}

func TestFPDF_RenderRejectsTextOutsideWindows1252(t *testing.T) {
	slip := testSlip(2)
	slip.Rows[1][1] = "部品 Ω"

	data, err := NewFPDF(FPDFOptions{}).Render(context.Background(), slip)
	require.Error(t, err)
	assert.Nil(t, data)
	assert.Contains(t, err.Error(), slip.Name)
	assert.Contains(t, err.Error(), `"部品 Ω"`)
	assert.Contains(t, err.Error(), "gotenberg")
}

func TestFPDF_RenderHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewFPDF(FPDFOptions{}).Render(ctx, testSlip(1))
	assert.ErrorIs(t, err, context.Canceled)
}

// ============================================================================
// GOTENBERG TESTS
// ============================================================================

func TestGotenberg_Render(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/forms/chromium/convert/html", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		require.NoError(t, r.ParseMultipartForm(10<<20))
		assert.Equal(t, "8.27", r.FormValue("paperWidth"))

		file, header, err := r.FormFile("files")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "index.html", header.Filename)

		html, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Contains(t, string(html), "Kingsbury Court PTY LTD (KENZZI)")
		assert.Contains(t, string(html), "Order Number 1001")
		assert.Contains(t, string(html), "Sydney, NSW,2000")
		assert.Contains(t, string(html), "<td style=\"text-align: left\">Widget</td>")

		_, _ = w.Write([]byte("MOCK-PDF-CONTENT"))
	}))
	defer srv.Close()

	r, err := NewGotenberg(srv.URL+"/", srv.Client())
	require.NoError(t, err)

	data, err := r.Render(context.Background(), testSlip(1))
	require.NoError(t, err)
	assert.Equal(t, "MOCK-PDF-CONTENT", string(data))
}

func TestGotenberg_RenderErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "chromium crashed", http.StatusInternalServerError)
	}))
	defer srv.Close()

	r, err := NewGotenberg(srv.URL, srv.Client())
	require.NoError(t, err)

	_, err = r.Render(context.Background(), testSlip(1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
	assert.Contains(t, err.Error(), "chromium crashed")
}

func TestGotenberg_EmptyEndpoint(t *testing.T) {
	r, err := NewGotenberg("", nil)
	require.NoError(t, err)

	_, err = r.Render(context.Background(), testSlip(1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "endpoint required")
}

func TestGotenberg_Ping(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	r, err := NewGotenberg(srv.URL, srv.Client())
	require.NoError(t, err)
	assert.NoError(t, r.Ping(context.Background()))
}

func TestGotenberg_HTMLEscapesCellText(t *testing.T) {
	r, err := NewGotenberg("http://gotenberg:3000", nil)
	require.NoError(t, err)

	slip := testSlip(1)
	slip.Rows[0][1] = "<b>Bolts & Nuts</b>"

	html, err := r.HTML(slip)
	require.NoError(t, err)
	assert.Contains(t, html, "&lt;b&gt;Bolts &amp; Nuts&lt;/b&gt;")
}

// ============================================================================
// FACTORY TESTS
// ============================================================================

func TestNew_SelectsBackend(t *testing.T) {
	cfg := config.Default()

	r, err := New(cfg)
	require.NoError(t, err)
	assert.IsType(t, &FPDF{}, r)
	assert.Equal(t, ".pdf", r.Extension())
	assert.Equal(t, "application/pdf", r.ContentType())

	cfg.Renderer = config.RendererGotenberg
	cfg.GotenbergURL = "http://gotenberg:3000"
	r, err = New(cfg)
	require.NoError(t, err)
	assert.IsType(t, &Gotenberg{}, r)

	cfg.Renderer = "latex"
	_, err = New(cfg)
	assert.Error(t, err)
}
