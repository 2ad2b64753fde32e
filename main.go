// =============================================================================
// Sales Analytics - Main Entry Point
// =============================================================================
//
// This is the main entry point for the Sales Analytics CLI application.
// It delegates command execution to the cmd package.
//
// USAGE:
//   sales-analytics analyze   - Run the full analysis pipeline
//   sales-analytics enrich    - Enrich an existing pipe-delimited file
//   sales-analytics catalog   - Fetch (and optionally save) the product catalog
//   sales-analytics version   - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : Parsing, validation, analytics, enrichment and reports
//   - pkg/           : Shared file utilities
//   - data/          : Sample sales log and offline product catalog
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/sales-analytics/cmd"
)

func main() {
	cmd.Execute()
}
