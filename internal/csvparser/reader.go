// =============================================================================
// Sales Analytics - Sales File Reader
// =============================================================================
//
// This module reads the raw sales transaction log. The file comes from
// several exporters and its encoding is not declared, so the reader tries a
// list of encodings in order and uses the first one that decodes cleanly.
//
// READING PROCESS:
//   1. Read the whole file into memory (files are small; no streaming)
//   2. For each configured encoding, try to decode the bytes
//   3. Split into lines, drop the header (first line) and blank lines
//   4. Trim surrounding whitespace from every remaining line
//
// ERROR HANDLING:
//   A missing file is not fatal for a run: the caller receives an empty line
//   list together with ErrInputNotFound and the analysis degrades to empty
//   results.
//
// =============================================================================

package csvparser

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrInputNotFound is returned when the sales file does not exist.
	ErrInputNotFound = errors.New("input file not found")

	// ErrUndecodable is returned when no configured encoding can decode the file.
	ErrUndecodable = errors.New("could not decode file with any encoding")
)

// DefaultEncodings is the fallback order used when none is configured.
var DefaultEncodings = []string{"utf-8", "latin-1", "cp1252"}

// =============================================================================
// READ RESULT
// =============================================================================

// ReadResult describes a successful read.
type ReadResult struct {
	// Lines are the data lines, header and blank lines removed.
	Lines []string

	// Encoding is the encoding that decoded the file.
	Encoding string
}

// =============================================================================
// READER FUNCTIONS
// =============================================================================

// ReadSalesData reads a sales file trying each encoding in order.
//
// PARAMETERS:
//   - filePath: The path to the pipe-delimited sales file.
//   - encodings: Encodings to try, in order. Nil means DefaultEncodings.
//
// RETURNS:
//   - The data lines and the encoding used.
//   - ErrInputNotFound (wrapped) if the file is missing; Lines is empty.
//   - ErrUndecodable (wrapped) if every encoding fails; Lines is empty.
func ReadSalesData(filePath string, encodings []string) (ReadResult, error) {
	if len(encodings) == 0 {
		encodings = DefaultEncodings
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return ReadResult{Lines: []string{}}, fmt.Errorf("%w: %s", ErrInputNotFound, filePath)
		}
		return ReadResult{Lines: []string{}}, fmt.Errorf("failed to read file: %w", err)
	}

	for _, name := range encodings {
		lines, err := decodeLines(data, name)
		if err != nil {
			continue
		}
		return ReadResult{Lines: lines, Encoding: name}, nil
	}

	return ReadResult{Lines: []string{}}, fmt.Errorf("%w: %s", ErrUndecodable, filePath)
}

// decodeLines decodes data with the named encoding and returns the data lines.
// Line length is not limited; an oversized line is left for the parser to reject.
func decodeLines(data []byte, encodingName string) ([]string, error) {
	text := data

	switch strings.ToLower(encodingName) {
	case "utf-8", "utf8":
		if !utf8.Valid(data) {
			return nil, fmt.Errorf("invalid %s data", encodingName)
		}
	default:
		dec, err := lookupDecoder(encodingName)
		if err != nil {
			return nil, err
		}
		decoded, _, err := transform.Bytes(dec.NewDecoder(), data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode as %s: %w", encodingName, err)
		}
		text = decoded
	}

	lines := []string{}
	for i, raw := range strings.Split(string(text), "\n") {
		if i == 0 {
			// Skip the header row.
			continue
		}
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// lookupDecoder returns the single-byte charmap for an encoding name.
func lookupDecoder(name string) (encoding.Encoding, error) {
	switch strings.ToLower(name) {
	case "latin-1", "latin1", "iso-8859-1":
		return charmap.ISO8859_1, nil
	case "cp1252", "windows-1252":
		return charmap.Windows1252, nil
	}
	return nil, fmt.Errorf("unsupported encoding %q", name)
}
