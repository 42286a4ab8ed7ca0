// ABOUTME: Row normalization from positional sheet columns into Opportunity structs
// ABOUTME: Validates column width once, coerces values, scrubs null-ish cell text
package crm

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/harperreed/crmdigest/models"
)

// ColumnSchema maps semantic fields to 0-based column positions in the
// tracking sheet. Validated once at ingestion; nothing downstream
// indexes rows positionally.
type ColumnSchema struct {
	Account    int
	Brand      int
	Product    int
	Value      int
	Owner      int
	Status     int
	Note       int
	Competitor int
}

// DefaultSchema matches the MY-Clinical sheet layout.
func DefaultSchema() ColumnSchema {
	return ColumnSchema{
		Account:    0,
		Brand:      11,
		Product:    12,
		Value:      17,
		Owner:      18,
		Status:     19,
		Note:       20,
		Competitor: 21,
	}
}

// MinColumns returns the narrowest row width the schema can read.
func (s ColumnSchema) MinColumns() int {
	max := s.Account
	for _, idx := range []int{s.Brand, s.Product, s.Value, s.Owner, s.Status, s.Note, s.Competitor} {
		if idx > max {
			max = idx
		}
	}
	return max + 1
}

// SchemaError reports a source table too narrow for the schema. It is
// fatal to the one attachment it came from, never to the whole cycle.
type SchemaError struct {
	Columns  int
	Required int
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("sheet has %d columns, schema requires at least %d", e.Columns, e.Required)
}

// Normalize maps raw sheet rows into opportunities, same order and
// length as the input. The width check uses the widest row seen, so
// trailing-empty-cell trimming by the extractor does not false-positive.
func Normalize(rows [][]string, schema ColumnSchema) ([]models.Opportunity, error) {
	required := schema.MinColumns()

	widest := 0
	for _, row := range rows {
		if len(row) > widest {
			widest = len(row)
		}
	}
	if len(rows) > 0 && widest < required {
		return nil, &SchemaError{Columns: widest, Required: required}
	}

	opps := make([]models.Opportunity, 0, len(rows))
	for _, row := range rows {
		opps = append(opps, models.Opportunity{
			Account:    cell(row, schema.Account),
			Brand:      cell(row, schema.Brand),
			Product:    cell(row, schema.Product),
			Value:      coerceValue(cell(row, schema.Value)),
			Owner:      cell(row, schema.Owner),
			Status:     cell(row, schema.Status),
			Note:       scrubNull(cell(row, schema.Note)),
			Competitor: scrubNull(cell(row, schema.Competitor)),
		})
	}
	return opps, nil
}

// cell reads a column that may be missing on short rows (spreadsheet
// readers trim trailing empties), returning "" rather than panicking.
func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// coerceValue parses a monetary cell. Unparsable input becomes 0, never
// an error; negative numbers pass through untouched. ParseFloat accepts
// "nan" and "inf" spellings, which pandas exports write for empty
// cells; those are not money and must coerce to 0 like any other
// unparsable input, or NaN poisons every downstream sum.
func coerceValue(raw string) float64 {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	if cleaned == "" {
		return 0
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// scrubNull keeps spreadsheet null spellings out of free-text fields.
// Empty string is the canonical "no note" value.
func scrubNull(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "nan", "none", "null", "#n/a", "n/a":
		return ""
	}
	return raw
}
