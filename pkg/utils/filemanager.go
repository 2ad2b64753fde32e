// =============================================================================
// Sales Analytics - File Manager Utility
// =============================================================================
//
// This module provides file management utilities for a run, including:
//   - Output directory creation
//   - Output file naming with placeholders
//
// FILE NAMING:
//   Output paths in config.yaml may contain placeholders so that repeated
//   runs do not overwrite each other, e.g.
//     report_file: output/sales_report_{timestamp}.txt
//
// =============================================================================

package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// DIRECTORY MANAGEMENT
// =============================================================================

// EnsureDirectories creates all required directories if they don't exist.
// Empty entries and "." are ignored.
//
// RETURNS:
//   - An error if any directory cannot be created.
func EnsureDirectories(dirs ...string) error {
	for _, dir := range dirs {
		if dir == "" || dir == "." {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// EnsureParentDir creates the directory that will contain path.
func EnsureParentDir(path string) error {
	return EnsureDirectories(filepath.Dir(path))
}

// =============================================================================
// OUTPUT FILE NAMING
// =============================================================================

// ExpandFileName replaces placeholders in an output path.
//
// PARAMETERS:
//   - format: The path, possibly with placeholders:
//               {uuid}      - A random UUID
//               {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
//               {date}      - Current date (YYYYMMDD)
//               {time}      - Current time (HHMMSS)
//   - params: Extra placeholder values. A key here overrides the built-in
//             value, so passing {"uuid": runID} reuses one id for all outputs.
//
// RETURNS:
//   - The expanded path.
//
// EXAMPLE:
//   format: "output/sales_report_{date}_{uuid}.txt"
//   params: {"uuid": "a1b2"}
//   output: "output/sales_report_20240115_a1b2.txt"
func ExpandFileName(format string, params map[string]string) string {
	if !strings.Contains(format, "{") {
		return format
	}

	now := time.Now()

	// Build replacements.
	replacements := map[string]string{
		"{uuid}":      uuid.New().String(),
		"{timestamp}": now.Format("20060102_150405"),
		"{date}":      now.Format("20060102"),
		"{time}":      now.Format("150405"),
	}

	// Add custom params.
	for key, value := range params {
		replacements["{"+key+"}"] = value
	}

	// Apply replacements.
	result := format
	for placeholder, value := range replacements {
		result = strings.ReplaceAll(result, placeholder, value)
	}

	return result
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
