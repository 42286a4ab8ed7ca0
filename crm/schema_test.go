// ABOUTME: Tests for row normalization and value coercion
// ABOUTME: Covers schema width validation, numeric defaults, and null scrubbing
package crm

import (
	"errors"
	"testing"
)

// wideRow builds a 22-column row with the given field values placed at
// the default schema positions.
func wideRow(account, brand, product, value, owner, status, note string) []string {
	row := make([]string, 22)
	s := DefaultSchema()
	row[s.Account] = account
	row[s.Brand] = brand
	row[s.Product] = product
	row[s.Value] = value
	row[s.Owner] = owner
	row[s.Status] = status
	row[s.Note] = note
	return row
}

func TestNormalizeMapsColumns(t *testing.T) {
	rows := [][]string{
		wideRow("Acme Hospital", "BrandX", "Analyzer", "1000", "Arora Johney", "Open", "first call"),
	}

	opps, err := Normalize(rows, DefaultSchema())
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if len(opps) != 1 {
		t.Fatalf("expected 1 opportunity, got %d", len(opps))
	}

	opp := opps[0]
	if opp.Account != "Acme Hospital" {
		t.Errorf("account = %q", opp.Account)
	}
	if opp.Brand != "BrandX" {
		t.Errorf("brand = %q", opp.Brand)
	}
	if opp.Product != "Analyzer" {
		t.Errorf("product = %q", opp.Product)
	}
	if opp.Value != 1000 {
		t.Errorf("value = %f, want 1000", opp.Value)
	}
	if opp.Owner != "Arora Johney" {
		t.Errorf("owner = %q", opp.Owner)
	}
	if opp.Status != "Open" {
		t.Errorf("status = %q", opp.Status)
	}
	if opp.Note != "first call" {
		t.Errorf("note = %q", opp.Note)
	}
}

func TestNormalizePreservesOrderAndLength(t *testing.T) {
	rows := [][]string{
		wideRow("A", "X", "P1", "100", "O1", "Open", ""),
		wideRow("B", "Y", "P2", "200", "O2", "Won", ""),
		wideRow("C", "Z", "P3", "300", "O1", "Lost", ""),
	}

	opps, err := Normalize(rows, DefaultSchema())
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if len(opps) != len(rows) {
		t.Fatalf("expected %d opportunities, got %d", len(rows), len(opps))
	}
	for i, account := range []string{"A", "B", "C"} {
		if opps[i].Account != account {
			t.Errorf("opps[%d].Account = %q, want %q", i, opps[i].Account, account)
		}
	}
}

func TestNormalizeNarrowSheetFails(t *testing.T) {
	rows := [][]string{
		{"Acme", "only", "five", "columns", "here"},
	}

	_, err := Normalize(rows, DefaultSchema())
	if err == nil {
		t.Fatal("expected SchemaError for narrow sheet")
	}

	var schemaErr *SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("expected *SchemaError, got %T", err)
	}
	if schemaErr.Required != 22 {
		t.Errorf("required = %d, want 22", schemaErr.Required)
	}
	if schemaErr.Columns != 5 {
		t.Errorf("columns = %d, want 5", schemaErr.Columns)
	}
}

func TestNormalizeEmptyInput(t *testing.T) {
	opps, err := Normalize(nil, DefaultSchema())
	if err != nil {
		t.Fatalf("Normalize failed on empty input: %v", err)
	}
	if len(opps) != 0 {
		t.Errorf("expected empty output, got %d", len(opps))
	}
}

func TestNormalizeShortRowsAmongWide(t *testing.T) {
	// Spreadsheet readers trim trailing empty cells; a short row next to
	// a full-width one reads as empty fields, not a schema failure.
	rows := [][]string{
		wideRow("A", "X", "P1", "100", "O1", "Open", "n"),
		{"B"},
	}

	opps, err := Normalize(rows, DefaultSchema())
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if opps[1].Account != "B" || opps[1].Owner != "" || opps[1].Value != 0 {
		t.Errorf("short row mapped unexpectedly: %+v", opps[1])
	}
}

func TestCoerceValue(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
	}{
		{"1000", 1000},
		{"1,250,000.50", 1250000.50},
		{" 500 ", 500},
		{"-250", -250}, // negative passes through, only non-numeric is zeroed
		{"bad", 0},
		{"", 0},
		{"RM 1000", 0},
		// ParseFloat would accept these; they must still coerce to 0
		{"nan", 0},
		{"NaN", 0},
		{"inf", 0},
		{"+Inf", 0},
		{"-inf", 0},
	}

	for _, tt := range tests {
		if got := coerceValue(tt.input); got != tt.expected {
			t.Errorf("coerceValue(%q) = %f, want %f", tt.input, got, tt.expected)
		}
	}
}

func TestNormalizeNaNValueCellSumsCleanly(t *testing.T) {
	// A pandas-exported empty value cell reads back as "NaN". It must
	// land as 0 so totals stay plain arithmetic sums.
	rows := [][]string{
		wideRow("A", "X", "P1", "1000", "Arora Johney", "Open", ""),
		wideRow("B", "Y", "P2", "NaN", "Arora Johney", "Open", ""),
	}

	opps, err := Normalize(rows, DefaultSchema())
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if opps[1].Value != 0 {
		t.Errorf("NaN cell value = %f, want 0", opps[1].Value)
	}

	s := Summarize(opps, []string{"Arora Johney"})
	if s.TotalValue != 1000 {
		t.Errorf("TotalValue = %f, want 1000", s.TotalValue)
	}
}

func TestScrubNull(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"nan", ""},
		{"NaN", ""},
		{"None", ""},
		{"null", ""},
		{"#N/A", ""},
		{"", ""},
		{"real note", "real note"},
		{"nanotech pitch", "nanotech pitch"}, // not a null spelling
	}

	for _, tt := range tests {
		if got := scrubNull(tt.input); got != tt.expected {
			t.Errorf("scrubNull(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}
