package pdfwriter

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/ginjaninja78/packing-slip-generator/internal/layout"
)

//go:embed templates/slip.html
var templateFS embed.FS

// A4 in inches, the unit Gotenberg expects.
var paperFields = [][2]string{
	{"paperWidth", "8.27"},
	{"paperHeight", "11.7"},
	{"marginTop", "0.4"},
	{"marginBottom", "0.4"},
	{"marginLeft", "0.4"},
	{"marginRight", "0.4"},
}

// Gotenberg renders slips through a Gotenberg service.
type Gotenberg struct {
	Endpoint string
	Client   *http.Client

	tpl *template.Template
}

// NewGotenberg creates a renderer posting to endpoint. A nil client means
// http.DefaultClient.
func NewGotenberg(endpoint string, client *http.Client) (*Gotenberg, error) {
	funcs := template.FuncMap{
		"align": func(a layout.Align) string {
			switch a {
			case layout.AlignCenter:
				return "center"
			case layout.AlignRight:
				return "right"
			default:
				return "left"
			}
		},
	}

	tpl, err := template.New("slip.html").Funcs(funcs).ParseFS(templateFS, "templates/slip.html")
	if err != nil {
		return nil, fmt.Errorf("parse slip template: %w", err)
	}

	return &Gotenberg{Endpoint: endpoint, Client: client, tpl: tpl}, nil
}

// Extension implements Renderer.
func (g *Gotenberg) Extension() string { return Extension }

// ContentType implements Renderer.
func (g *Gotenberg) ContentType() string { return ContentTypePDF }

// HTML renders the slip page that is sent for conversion.
func (g *Gotenberg) HTML(slip layout.Slip) (string, error) {
	if g == nil || g.tpl == nil {
		return "", errors.New("gotenberg renderer not initialized")
	}
	var buf bytes.Buffer
	if err := g.tpl.Execute(&buf, slip); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Render implements Renderer.
func (g *Gotenberg) Render(ctx context.Context, slip layout.Slip) ([]byte, error) {
	html, err := g.HTML(slip)
	if err != nil {
		return nil, fmt.Errorf("render template: %w", err)
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	// Gotenberg requires the main document to be called index.html.
	part, err := writer.CreateFormFile("files", "index.html")
	if err != nil {
		return nil, err
	}
	if _, err := io.WriteString(part, html); err != nil {
		return nil, err
	}
	for _, f := range paperFields {
		if err := writer.WriteField(f[0], f[1]); err != nil {
			return nil, err
		}
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	resp, err := g.do(ctx, http.MethodPost, "/forms/chromium/convert/html", body, writer.FormDataContentType())
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("gotenberg response %d for %s: %s", resp.StatusCode, slip.Name, strings.TrimSpace(string(data)))
	}
	return io.ReadAll(resp.Body)
}

// Ping checks that the Gotenberg service is up.
func (g *Gotenberg) Ping(ctx context.Context) error {
	resp, err := g.do(ctx, http.MethodGet, "/health", nil, "")
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("gotenberg returned status %d", resp.StatusCode)
	}
	return nil
}

func (g *Gotenberg) do(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Response, error) {
	endpoint := strings.TrimRight(g.Endpoint, "/")
	if endpoint == "" {
		return nil, errors.New("gotenberg endpoint required")
	}
	client := g.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint+path, body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return client.Do(req)
}
