// ABOUTME: Cycle engine: fetch, dedup, analyze attachments, report, persist
// ABOUTME: Owns narrow collaborator interfaces so mail, excel, and AI stay swappable
package pipeline

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"github.com/harperreed/crmdigest/config"
	"github.com/harperreed/crmdigest/crm"
	"github.com/harperreed/crmdigest/insights"
	"github.com/harperreed/crmdigest/models"
	"github.com/harperreed/crmdigest/report"
	"github.com/harperreed/crmdigest/state"
)

// MailSource yields candidate messages with spreadsheet attachments.
type MailSource interface {
	FetchCandidates() ([]models.InboundMessage, error)
}

// MailSink dispatches an HTML report. Fire-and-forget; the pipeline
// reports failures but never retries a send itself.
type MailSink interface {
	SendHTML(to, subject, htmlBody string) error
}

// SheetExtractor pulls the target worksheet out of workbook bytes.
// A nil row set with nil error means the sheet is absent (skip).
type SheetExtractor interface {
	ExtractSheet(data []byte) ([][]string, error)
}

// InsightGenerator produces optional AI commentary over summary facts.
type InsightGenerator interface {
	Generate(ctx context.Context, facts insights.Facts) insights.Result
}

// Runner executes processing cycles sequentially. One cycle runs to
// completion before the next starts; nothing here is concurrent.
type Runner struct {
	cfg       *config.Config
	source    MailSource
	sink      MailSink
	extractor SheetExtractor
	insight   InsightGenerator
	snapshots *state.SnapshotStore
	ledger    *state.Ledger
	rng       *rand.Rand
	now       func() time.Time
}

// NewRunner wires a runner from its collaborators. insight may be nil
// when no AI key is configured; reports then carry the fallback box.
func NewRunner(cfg *config.Config, source MailSource, sink MailSink, extractor SheetExtractor, insight InsightGenerator, snapshots *state.SnapshotStore, ledger *state.Ledger) *Runner {
	return &Runner{
		cfg:       cfg,
		source:    source,
		sink:      sink,
		extractor: extractor,
		insight:   insight,
		snapshots: snapshots,
		ledger:    ledger,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		now:       time.Now,
	}
}

// CycleStats summarizes one cycle for the caller's logging.
type CycleStats struct {
	CycleID   string
	Fetched   int
	Skipped   int // already in the ledger
	Processed int
	Failed    int
}

// RunCycle performs one fetch → process → report → persist iteration.
// Failures isolate per message; a message is marked processed only
// after every one of its attachments succeeded, so a partial failure
// retries in full next cycle.
func (r *Runner) RunCycle(ctx context.Context) (CycleStats, error) {
	stats := CycleStats{CycleID: ulid.Make().String()}

	log.Printf("[%s] checking for new CRM mail...", stats.CycleID)

	messages, err := r.source.FetchCandidates()
	if err != nil {
		return stats, fmt.Errorf("mail fetch failed: %w", err)
	}
	stats.Fetched = len(messages)

	for _, msg := range messages {
		if r.ledger.IsProcessed(msg.ID) {
			stats.Skipped++
			continue
		}

		fmt.Printf("Processing %q from %s\n", msg.Subject, msg.From)

		if err := r.processMessage(ctx, msg); err != nil {
			fmt.Printf("  ✗ %v (will retry next cycle)\n", err)
			stats.Failed++
			continue
		}

		if err := r.ledger.MarkProcessed(msg.ID); err != nil {
			// Unrecorded success repeats work next cycle; say so loudly.
			log.Printf("⚠ ledger write failed for %s: %v", msg.ID, err)
			stats.Failed++
			continue
		}
		stats.Processed++
	}

	if stats.Fetched == 0 {
		fmt.Println("No candidate mail found.")
	}
	return stats, nil
}

// processMessage handles every attachment of one message. Any
// attachment error fails the whole message (no partial credit); a
// missing target sheet merely skips that attachment. The message's
// report is suppressed only when no attachment yields the sheet.
func (r *Runner) processMessage(ctx context.Context, msg models.InboundMessage) error {
	produced := 0

	for _, att := range msg.Attachments {
		rows, err := r.extractor.ExtractSheet(att.Data)
		if err != nil {
			return fmt.Errorf("attachment %s: %w", att.Filename, err)
		}
		if rows == nil {
			fmt.Printf("  ⚠ %s has no %q sheet, skipping\n", att.Filename, r.cfg.TargetSheetName)
			continue
		}

		html, err := r.Analyze(ctx, rows)
		if err != nil {
			return fmt.Errorf("attachment %s: %w", att.Filename, err)
		}

		subject := fmt.Sprintf("CRM summary - %s", r.now().Format("January 02, 2006"))
		if err := r.sink.SendHTML(r.cfg.SummaryRecipient, subject, html); err != nil {
			return fmt.Errorf("attachment %s: %w", att.Filename, err)
		}
		fmt.Printf("  ✓ Report sent for %s\n", att.Filename)
		produced++
	}

	if produced == 0 && len(msg.Attachments) > 0 {
		fmt.Println("  ⚠ No report produced for this message")
	}
	return nil
}

// Analyze runs the normalize → filter → diff → aggregate → render
// chain over raw sheet rows and returns the report HTML. The snapshot
// is replaced unconditionally even when nothing changed.
func (r *Runner) Analyze(ctx context.Context, rows [][]string) (string, error) {
	opps, err := crm.Normalize(rows, crm.DefaultSchema())
	if err != nil {
		return "", err
	}
	filtered := crm.FilterByOwner(opps, r.cfg.TargetOwners)

	previous, err := r.snapshots.Load()
	if err != nil {
		// Stale comparisons beat losing the report; degrade to baseline.
		log.Printf("⚠ snapshot load failed, treating as baseline: %v", err)
		previous = map[string]models.SnapshotEntry{}
	}

	diff := crm.Diff(filtered, previous, r.now())

	if err := r.snapshots.Replace(diff.Next); err != nil {
		// Next cycle re-alerts the same changes; degraded, not data loss.
		log.Printf("⚠ snapshot write failed, changes will repeat next cycle: %v", err)
	}

	summary := crm.Summarize(filtered, r.cfg.TargetOwners)

	brandsByOwner := make(map[string][]crm.BrandRank, len(r.cfg.TargetOwners))
	for _, owner := range r.cfg.TargetOwners {
		ownerOpps := crm.FilterByOwner(filtered, []string{owner})
		brandsByOwner[owner] = crm.TopBrandsByCount(ownerOpps, 5)
	}

	facts := insights.Facts{
		Summary:       summary,
		TopBrands:     crm.TopBrandsByCount(filtered, 3),
		HighValueOpen: len(crm.HighValueOpen(filtered, r.cfg.HighValueThreshold)),
		Threshold:     r.cfg.HighValueThreshold,
	}

	var ai insights.Result
	if r.insight != nil {
		ai = r.insight.Generate(ctx, facts)
	} else {
		ai = insights.Unavailable("insight generator not configured")
	}

	data := report.Data{
		Date:          r.now(),
		ReportID:      uuid.New().String(),
		Summary:       summary,
		Picks:         crm.DailyPicks(filtered, r.cfg.DailyPicksCount, r.rng),
		BrandsByOwner: brandsByOwner,
		HighValue:     crm.HighValueOpen(filtered, r.cfg.HighValueThreshold),
		Won:           crm.WonDeals(filtered),
		Lost:          crm.LostDeals(filtered),
		NewOpps:       crm.Limit(diff.New, r.cfg.DisplayLimit),
		NewTotal:      len(diff.New),
		NoteChanges:   crm.Limit(diff.NoteChanges, r.cfg.DisplayLimit),
		NoteTotal:     len(diff.NoteChanges),
		Insights:      ai,
	}

	html, err := report.Render(data)
	if err != nil {
		return "", fmt.Errorf("failed to render report: %w", err)
	}
	return html, nil
}

// SeedRand pins the random source for deterministic daily picks in tests.
func (r *Runner) SeedRand(seed int64) {
	r.rng = rand.New(rand.NewSource(seed))
}

// SetClock pins the runner's clock in tests.
func (r *Runner) SetClock(now func() time.Time) {
	r.now = now
}
