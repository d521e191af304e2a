// =============================================================================
// Packing Slip Generator - Main Entry Point
// =============================================================================
//
// This is the main entry point for the packing slip CLI. It initializes the
// Cobra CLI framework and delegates command execution to the cmd package.
//
// USAGE:
//   packslip generate      - Render packing slips for every order workbook
//   packslip validate      - Check order workbooks without rendering
//   packslip version       - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : Core conversion logic (not for external import)
//   - pkg/           : Shared file and sink utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/packing-slip-generator/cmd"
)

// main is the entry point of the application.
func main() {
	cmd.Execute()
}
