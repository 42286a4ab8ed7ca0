// ABOUTME: Mail wiring verification command
// ABOUTME: Sends a minimal HTML message to the configured recipient
package cli

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/harperreed/crmdigest/config"
	"github.com/harperreed/crmdigest/gmail"
)

// SendTestCommand sends a small HTML mail so the operator can confirm
// OAuth scopes and recipient address before trusting the daemon.
func SendTestCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("send-test", flag.ExitOnError)
	to := fs.String("to", cfg.SummaryRecipient, "Recipient (default: configured summary recipient)")
	_ = fs.Parse(args)

	if *to == "" {
		return fmt.Errorf("no recipient: set CRM_SUMMARY_RECIPIENT or pass --to")
	}

	ctx := context.Background()
	token, err := gmail.LoadToken()
	if err != nil {
		return fmt.Errorf("no authentication token found. Run 'crmdigest auth' first: %w", err)
	}
	service, err := gmail.NewService(ctx, token)
	if err != nil {
		return fmt.Errorf("failed to create Gmail client: %w", err)
	}

	body := fmt.Sprintf("<h2>crmdigest test mail</h2><p>Sent %s. If you can read this, outbound mail works.</p>",
		time.Now().Format(time.RFC1123))

	if err := gmail.NewSink(service).SendHTML(*to, "crmdigest test mail", body); err != nil {
		return err
	}

	fmt.Printf("✓ Test mail sent to %s\n", *to)
	return nil
}

// nowSubjectDate formats today's date the way report subjects do.
func nowSubjectDate() string {
	return time.Now().Format("January 02, 2006")
}
