// ABOUTME: Shared wiring for CLI commands
// ABOUTME: Builds the pipeline runner from config, token, and state files
package cli

import (
	"context"
	"fmt"

	"github.com/harperreed/crmdigest/config"
	"github.com/harperreed/crmdigest/excel"
	"github.com/harperreed/crmdigest/gmail"
	"github.com/harperreed/crmdigest/insights"
	"github.com/harperreed/crmdigest/pipeline"
	"github.com/harperreed/crmdigest/state"
)

// buildRunner wires the full mail-driven pipeline. Commands that only
// need local analysis (report --file) wire a runner without mail.
func buildRunner(ctx context.Context, cfg *config.Config) (*pipeline.Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	token, err := gmail.LoadToken()
	if err != nil {
		return nil, fmt.Errorf("no authentication token found. Run 'crmdigest auth' first: %w", err)
	}

	service, err := gmail.NewService(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gmail client: %w", err)
	}

	ledger, err := state.OpenLedger(cfg.LedgerPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger: %w", err)
	}

	return pipeline.NewRunner(
		cfg,
		gmail.NewSource(service, cfg.EmailLabel, cfg.SearchDaysBack, cfg.MaxMessages),
		gmail.NewSink(service),
		excel.NewExtractor(cfg.TargetSheetName, cfg.HeaderRow),
		insightGenerator(cfg),
		state.NewSnapshotStore(cfg.SnapshotPath),
		ledger,
	), nil
}

// insightGenerator returns nil when no API key is configured; the
// runner renders the fallback box in that case.
func insightGenerator(cfg *config.Config) pipeline.InsightGenerator {
	g := insights.NewGenerator(cfg.OpenAIKey, cfg.AIModel)
	if g == nil {
		return nil
	}
	return g
}

// buildLocalRunner wires a runner for offline workbook analysis; mail
// collaborators stay nil and must not be exercised.
func buildLocalRunner(cfg *config.Config) (*pipeline.Runner, error) {
	if len(cfg.TargetOwners) == 0 {
		return nil, fmt.Errorf("CRM_TARGET_OWNERS must list at least one owner")
	}

	ledger, err := state.OpenLedger(cfg.LedgerPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger: %w", err)
	}

	return pipeline.NewRunner(
		cfg,
		nil,
		nil,
		excel.NewExtractor(cfg.TargetSheetName, cfg.HeaderRow),
		insightGenerator(cfg),
		state.NewSnapshotStore(cfg.SnapshotPath),
		ledger,
	), nil
}
