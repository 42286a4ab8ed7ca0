// ABOUTME: Worksheet extraction from xlsx attachment bytes
// ABOUTME: Pulls data rows below the header row of one named sheet via excelize
package excel

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Extractor pulls a named worksheet out of workbook bytes.
type Extractor struct {
	SheetName string
	HeaderRow int // 0-based row the column headers sit on
}

// NewExtractor creates an extractor for the given sheet and header row.
func NewExtractor(sheetName string, headerRow int) *Extractor {
	return &Extractor{SheetName: sheetName, HeaderRow: headerRow}
}

// ExtractSheet returns the data rows below the header row as strings.
// A workbook without the target sheet returns (nil, nil): the caller
// skips that attachment rather than failing the message. Unreadable
// workbook bytes are an error.
func (e *Extractor) ExtractSheet(data []byte) ([][]string, error) {
	wb, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer func() { _ = wb.Close() }()

	idx, err := wb.GetSheetIndex(e.SheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to look up sheet %q: %w", e.SheetName, err)
	}
	if idx < 0 {
		return nil, nil
	}

	rows, err := wb.GetRows(e.SheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", e.SheetName, err)
	}

	dataStart := e.HeaderRow + 1
	if dataStart >= len(rows) {
		return [][]string{}, nil
	}
	return rows[dataStart:], nil
}

// SheetNames lists the worksheets in workbook bytes, for diagnostics
// when the target sheet is missing.
func SheetNames(data []byte) ([]string, error) {
	wb, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer func() { _ = wb.Close() }()

	return wb.GetSheetList(), nil
}
