// ABOUTME: Tests for configuration loading and validation
// ABOUTME: Covers env overrides, defaults, and owner list parsing
package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.EmailLabel != "CRM" {
		t.Errorf("expected default label CRM, got %q", cfg.EmailLabel)
	}
	if cfg.SearchDaysBack != 7 {
		t.Errorf("expected default search window 7, got %d", cfg.SearchDaysBack)
	}
	if cfg.HighValueThreshold != 500000 {
		t.Errorf("expected default threshold 500000, got %f", cfg.HighValueThreshold)
	}
	if cfg.DisplayLimit != 10 {
		t.Errorf("expected default display limit 10, got %d", cfg.DisplayLimit)
	}
	if cfg.PollInterval != 300*time.Second {
		t.Errorf("expected default poll interval 5m, got %v", cfg.PollInterval)
	}
	if cfg.HeaderRow != 2 {
		t.Errorf("expected default header row 2, got %d", cfg.HeaderRow)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("CRM_EMAIL_LABEL", "Pipeline")
	t.Setenv("CRM_SEARCH_DAYS_BACK", "14")
	t.Setenv("CRM_HIGH_VALUE_THRESHOLD", "250000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.EmailLabel != "Pipeline" {
		t.Errorf("expected label Pipeline, got %q", cfg.EmailLabel)
	}
	if cfg.SearchDaysBack != 14 {
		t.Errorf("expected search window 14, got %d", cfg.SearchDaysBack)
	}
	if cfg.HighValueThreshold != 250000 {
		t.Errorf("expected threshold 250000, got %f", cfg.HighValueThreshold)
	}
}

func TestLoadBadNumericFallsBack(t *testing.T) {
	t.Setenv("CRM_SEARCH_DAYS_BACK", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.SearchDaysBack != 7 {
		t.Errorf("expected fallback 7 on bad value, got %d", cfg.SearchDaysBack)
	}
}

func TestSplitOwners(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "two owners with spaces",
			input:    "Arora Johney, Jiun Hao (Barney) Wong",
			expected: []string{"Arora Johney", "Jiun Hao (Barney) Wong"},
		},
		{
			name:     "single owner",
			input:    "Arora Johney",
			expected: []string{"Arora Johney"},
		},
		{
			name:     "trailing comma ignored",
			input:    "Arora Johney,",
			expected: []string{"Arora Johney"},
		},
		{
			name:     "empty string",
			input:    "",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := splitOwners(tt.input)
			if len(result) != len(tt.expected) {
				t.Fatalf("expected %d owners, got %d: %v", len(tt.expected), len(result), result)
			}
			for i := range tt.expected {
				if result[i] != tt.expected[i] {
					t.Errorf("owner[%d] = %q, want %q", i, result[i], tt.expected[i])
				}
			}
		})
	}
}

func TestValidate(t *testing.T) {
	valid := &Config{
		SummaryRecipient: "team@example.com",
		TargetOwners:     []string{"Arora Johney"},
		SearchDaysBack:   7,
	}
	if err := valid.Validate(); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}

	noRecipient := &Config{TargetOwners: []string{"A"}, SearchDaysBack: 7}
	if err := noRecipient.Validate(); err == nil {
		t.Error("expected error for missing recipient")
	}

	noOwners := &Config{SummaryRecipient: "x@y.com", SearchDaysBack: 7}
	if err := noOwners.Validate(); err == nil {
		t.Error("expected error for empty owner list")
	}
}
