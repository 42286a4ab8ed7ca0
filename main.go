// ABOUTME: Entry point for the CRM digest pipeline
// ABOUTME: Routes to auth, once, watch, report, and send-test commands
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/harperreed/crmdigest/cli"
	"github.com/harperreed/crmdigest/config"
)

const version = "0.1.0"

func main() {
	showVersion := flag.Bool("version", false, "Show version and exit")

	_ = flag.CommandLine.Parse(os.Args[1:])

	if *showVersion {
		fmt.Printf("crmdigest version %s\n", version)
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(0)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	command := args[0]
	commandArgs := args[1:]

	switch command {
	case "auth":
		if err := cli.AuthCommand(commandArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}

	case "once":
		if err := cli.OnceCommand(cfg, commandArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}

	case "watch":
		if err := cli.WatchCommand(cfg, commandArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}

	case "report":
		if err := cli.ReportCommand(cfg, commandArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}

	case "send-test":
		if err := cli.SendTestCommand(cfg, commandArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}

	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Printf(`crmdigest v%s - Autonomous CRM summary pipeline

USAGE:
  crmdigest [global flags] <command> [flags]

GLOBAL FLAGS:
  --version              Show version and exit

COMMANDS:
  auth                   Authenticate with Google (OAuth browser flow)
  once                   Run a single fetch-process-report cycle and exit
  watch                  Poll the mailbox on an interval until interrupted
  report                 Generate a report from a local workbook
    --file <path>          Workbook to analyze (required)
    --send                 Mail the report instead of printing HTML
  send-test              Send a minimal HTML mail to verify wiring
    --to <address>         Override the configured recipient

CONFIGURATION (.env or environment):
  GOOGLE_CLIENT_ID / GOOGLE_CLIENT_SECRET   OAuth app credentials
  OPENAI_API_KEY                            Enables the AI insight section
  CRM_SUMMARY_RECIPIENT                     Where reports go (required)
  CRM_TARGET_OWNERS                         Comma-separated owner allow-list (required)
  CRM_EMAIL_LABEL                           Gmail label to poll (default: CRM)
  CRM_TARGET_SHEET                          Worksheet to extract (default: MY-Clinical)
  CRM_SEARCH_DAYS_BACK                      Mail search window in days (default: 7)
  CRM_HIGH_VALUE_THRESHOLD                  High-value deal cutoff (default: 500000)
  CRM_POLL_SECONDS                          Watch interval (default: 300)

EXAMPLES:
  # One-time Google setup
  crmdigest auth

  # Process waiting mail once (for cron)
  crmdigest once

  # Run as a daemon
  crmdigest watch

  # Dry-run a workbook without touching the mailbox
  crmdigest report --file pipeline.xlsx > report.html

`, version)
}
