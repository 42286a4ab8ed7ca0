// ABOUTME: Application configuration loaded from environment and .env
// ABOUTME: Explicit Config struct passed into components, no ambient globals
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
)

// Config holds every tunable for the pipeline. Constructed once in main
// and passed down; components never read the environment themselves.
type Config struct {
	// Mail
	EmailLabel       string // Gmail label the tracking sheets arrive under
	SearchDaysBack   int
	SummaryRecipient string
	MaxMessages      int // newest-N cap per cycle

	// Analysis
	TargetOwners       []string
	HighValueThreshold float64
	DailyPicksCount    int
	DisplayLimit       int // max rows shown per change table

	// Excel
	TargetSheetName string
	HeaderRow       int // 0-based row the column headers sit on

	// AI
	OpenAIKey string
	AIModel   string

	// Scheduling
	PollInterval time.Duration

	// State
	SnapshotPath string
	LedgerPath   string
	LockPath     string
}

// DataDir returns the XDG-compliant directory for pipeline state files.
func DataDir() string {
	return filepath.Join(xdg.DataHome, "crmdigest")
}

// Load reads .env (if present) and the environment into a Config with
// defaults filled in. Missing .env is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		EmailLabel:         getEnv("CRM_EMAIL_LABEL", "CRM"),
		SearchDaysBack:     getEnvInt("CRM_SEARCH_DAYS_BACK", 7),
		SummaryRecipient:   os.Getenv("CRM_SUMMARY_RECIPIENT"),
		MaxMessages:        getEnvInt("CRM_MAX_MESSAGES", 10),
		TargetOwners:       splitOwners(os.Getenv("CRM_TARGET_OWNERS")),
		HighValueThreshold: getEnvFloat("CRM_HIGH_VALUE_THRESHOLD", 500000),
		DailyPicksCount:    getEnvInt("CRM_DAILY_PICKS", 3),
		DisplayLimit:       getEnvInt("CRM_DISPLAY_LIMIT", 10),
		TargetSheetName:    getEnv("CRM_TARGET_SHEET", "MY-Clinical"),
		HeaderRow:          getEnvInt("CRM_HEADER_ROW", 2),
		OpenAIKey:          os.Getenv("OPENAI_API_KEY"),
		AIModel:            getEnv("CRM_AI_MODEL", "gpt-4o-mini"),
		PollInterval:       time.Duration(getEnvInt("CRM_POLL_SECONDS", 300)) * time.Second,
		SnapshotPath:       getEnv("CRM_SNAPSHOT_PATH", filepath.Join(DataDir(), "snapshot.json")),
		LedgerPath:         getEnv("CRM_LEDGER_PATH", filepath.Join(DataDir(), "processed_messages.json")),
		LockPath:           getEnv("CRM_LOCK_PATH", filepath.Join(DataDir(), "crmdigest.lock")),
	}

	return cfg, nil
}

// Validate checks the fields required for a full mail-driven cycle.
// Offline commands (report --file) only need the analysis settings.
func (c *Config) Validate() error {
	if c.SummaryRecipient == "" {
		return fmt.Errorf("CRM_SUMMARY_RECIPIENT must be set")
	}
	if len(c.TargetOwners) == 0 {
		return fmt.Errorf("CRM_TARGET_OWNERS must list at least one owner")
	}
	if c.SearchDaysBack <= 0 {
		return fmt.Errorf("CRM_SEARCH_DAYS_BACK must be positive, got %d", c.SearchDaysBack)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

// splitOwners parses a comma-separated owner list, trimming whitespace
// around each name. Owner matching downstream is exact and
// case-sensitive, so names must appear exactly as in the sheet.
func splitOwners(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	owners := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			owners = append(owners, p)
		}
	}
	return owners
}
