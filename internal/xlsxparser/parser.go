// =============================================================================
// Sales Analytics - XLSX Sales Sheet Reader
// =============================================================================
//
// Some exporters deliver the sales log as an Excel workbook instead of a
// pipe-delimited text file. This module reads one worksheet and turns each
// row into a pipe-delimited line, so the regular transaction parser can
// handle both sources.
//
// SHEET STRUCTURE (Expected Columns):
//
//   | A             | B          | C         | D           | E        | F         | G          | H      |
//   |---------------|------------|-----------|-------------|----------|-----------|------------|--------|
//   | TransactionID | Date       | ProductID | ProductName | Quantity | UnitPrice | CustomerID | Region |
//   | T001          | 2024-01-05 | P101      | Mouse       | 2        | 500       | C01        | North  |
//
//   The first row is a header and is skipped. Empty rows are skipped.
//   Cells are taken as displayed text; numeric cells keep their formatting.
//
// =============================================================================

package xlsxparser

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Delimiter joins cells into a line. It matches the text file format.
const Delimiter = "|"

// IsWorkbook reports whether path looks like an Excel workbook.
func IsWorkbook(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return true
	}
	return false
}

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// ReadSalesSheet reads a worksheet as data lines.
//
// PARAMETERS:
//   - path: The path to the XLSX file.
//   - sheetName: The worksheet to read. Empty means the first sheet.
//
// RETURNS:
//   - One pipe-delimited line per non-empty data row.
//   - An error if the file or sheet cannot be read.
func ReadSalesSheet(path, sheetName string) ([]string, error) {
	// Open the XLSX file.
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	if sheetName == "" {
		sheetName = f.GetSheetName(0)
		if sheetName == "" {
			return nil, fmt.Errorf("workbook has no sheets")
		}
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows of sheet %q: %w", sheetName, err)
	}

	return rowsToLines(rows), nil
}

// rowsToLines drops the header row and empty rows and joins the cells.
func rowsToLines(rows [][]string) []string {
	lines := []string{}
	for i, row := range rows {
		if i == 0 || isRowEmpty(row) {
			continue
		}

		cells := make([]string, len(row))
		for j, cell := range row {
			cells[j] = strings.TrimSpace(cell)
		}
		lines = append(lines, strings.Join(cells, Delimiter))
	}
	return lines
}

// isRowEmpty checks if all cells in a row are empty.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
