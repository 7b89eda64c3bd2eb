// Package assets loads asset barcodes from CSV files.
package assets

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Load reads asset barcodes from the CSV file at path. The path may start
// with ~ or contain environment variables.
func Load(path string) ([]string, error) {
	expanded, err := expandPath(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(expanded)
	if err != nil {
		return nil, fmt.Errorf("failed to open asset file: %w", err)
	}
	defer f.Close()

	barcodes, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read asset file %s: %w", expanded, err)
	}
	return barcodes, nil
}

// Read parses barcodes out of CSV data. The barcode is the first column of
// each record; there is no header row. Values are trimmed and records whose
// first column is blank are skipped. Records may have differing field
// counts, anything past the first column is ignored.
func Read(r io.Reader) ([]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var barcodes []string
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		if len(record) == 0 {
			continue
		}
		barcode := strings.TrimSpace(record[0])
		if barcode == "" {
			continue
		}
		barcodes = append(barcodes, barcode)
	}

	return barcodes, nil
}

// expandPath expands ~ to the home directory and evaluates environment
// variables.
func expandPath(path string) (string, error) {
	path = os.ExpandEnv(path)

	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(home, path[1:])
	}

	return filepath.Clean(path), nil
}
