// ABOUTME: Offline report generation from a local workbook
// ABOUTME: Analyzes a file on disk and prints or mails the summary
package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/harperreed/crmdigest/config"
	"github.com/harperreed/crmdigest/excel"
	"github.com/harperreed/crmdigest/gmail"
)

// ReportCommand generates a summary report from a local xlsx file,
// bypassing the mailbox entirely. With --send the report goes to the
// configured recipient; otherwise HTML lands on stdout.
func ReportCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("report", flag.ExitOnError)
	file := fs.String("file", "", "Path to xlsx workbook (required)")
	send := fs.Bool("send", false, "Mail the report instead of printing it")
	_ = fs.Parse(args)

	if *file == "" {
		return fmt.Errorf("--file is required")
	}

	data, err := os.ReadFile(*file)
	if err != nil {
		return fmt.Errorf("failed to read workbook: %w", err)
	}

	rows, err := excel.NewExtractor(cfg.TargetSheetName, cfg.HeaderRow).ExtractSheet(data)
	if err != nil {
		return err
	}
	if rows == nil {
		names, _ := excel.SheetNames(data)
		return fmt.Errorf("sheet %q not found in %s (available: %v)", cfg.TargetSheetName, *file, names)
	}

	runner, err := buildLocalRunner(cfg)
	if err != nil {
		return err
	}

	ctx := context.Background()
	html, err := runner.Analyze(ctx, rows)
	if err != nil {
		return err
	}

	if !*send {
		fmt.Println(html)
		return nil
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	token, err := gmail.LoadToken()
	if err != nil {
		return fmt.Errorf("no authentication token found. Run 'crmdigest auth' first: %w", err)
	}
	service, err := gmail.NewService(ctx, token)
	if err != nil {
		return fmt.Errorf("failed to create Gmail client: %w", err)
	}

	subject := fmt.Sprintf("CRM summary - %s", nowSubjectDate())
	if err := gmail.NewSink(service).SendHTML(cfg.SummaryRecipient, subject, html); err != nil {
		return err
	}
	fmt.Printf("✓ Report sent to %s\n", cfg.SummaryRecipient)
	return nil
}
