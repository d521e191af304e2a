// =============================================================================
// Packing Slip Generator - PDF Writer Module
// =============================================================================
//
// This module draws a layout.Slip as a PDF document. Two backends exist:
//
//   fpdf       In-process, no external services. Output is byte-identical
//              for identical input (creation date is pinned to the order
//              date and catalog keys are sorted).
//
//   gotenberg  Renders the slip as HTML and converts it through a Gotenberg
//              service (Chromium). Useful when the slip must match an
//              HTML/CSS house style.
//
// Both backends draw the same page: the Slip carries every string and every
// dimension, the backend only decides how to put them on paper.
//
// =============================================================================

package pdfwriter

import (
	"context"
	"fmt"
	"net/http"

	"github.com/ginjaninja78/packing-slip-generator/internal/config"
	"github.com/ginjaninja78/packing-slip-generator/internal/layout"
)

const (
	// ContentTypePDF is the media type of every rendered slip.
	ContentTypePDF = "application/pdf"

	// Extension is appended to the slip name to form the file name.
	Extension = ".pdf"
)

// Renderer turns one slip into document bytes.
type Renderer interface {
	// Render draws the slip. It must not retain slip after returning.
	Render(ctx context.Context, slip layout.Slip) ([]byte, error)

	// Extension is the file extension for rendered documents, with the dot.
	Extension() string

	// ContentType is the media type of rendered documents.
	ContentType() string
}

// New builds the renderer selected in the configuration.
//
// PARAMETERS:
//   - cfg: The validated main configuration.
//
// RETURNS:
//   - The renderer for cfg.Renderer.
//   - An error if the renderer is unknown or cannot be initialised.
func New(cfg *config.MainConfig) (Renderer, error) {
	switch cfg.Renderer {
	case config.RendererFPDF, "":
		return NewFPDF(FPDFOptions{Compress: true}), nil
	case config.RendererGotenberg:
		client := &http.Client{Timeout: cfg.GotenbergTimeout}
		return NewGotenberg(cfg.GotenbergURL, client)
	default:
		return nil, fmt.Errorf("unknown renderer %q", cfg.Renderer)
	}
}
