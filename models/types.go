// ABOUTME: Data models for CRM pipeline entities
// ABOUTME: Defines Opportunity, NoteChange, and inbound mail message structs
package models

import (
	"strings"
	"time"
)

// Opportunity is one business opportunity line from the tracking sheet.
type Opportunity struct {
	Account string  `json:"account"`
	Brand   string  `json:"brand"`
	Product string  `json:"product"`
	Value   float64 `json:"value"`
	Owner   string  `json:"owner"`
	Status  string  `json:"status"`
	Note    string  `json:"note"`

	// Competitor is only populated for lost deals (sheet column 21).
	Competitor string `json:"competitor,omitempty"`
}

// Status constants. Anything else falls through every status-based
// aggregate without raising an error.
const (
	StatusOpen = "Open"
	StatusWon  = "Won"
	StatusLost = "Lost"
)

// Key derives the stable identity of an opportunity across cycles.
// Two rows with the same trimmed (account, brand, product) are the same
// tracked entity even when value, status, or note differ.
func (o Opportunity) Key() string {
	return strings.TrimSpace(o.Account) + "|" + strings.TrimSpace(o.Brand) + "|" + strings.TrimSpace(o.Product)
}

// SnapshotEntry is an opportunity as persisted in the snapshot file,
// with the time it was recorded for audit.
type SnapshotEntry struct {
	Opportunity
	RecordedAt time.Time `json:"recorded_at"`
}

// NoteChange records a progress-note update detected between cycles.
type NoteChange struct {
	Opportunity
	PreviousNote string `json:"previous_note"`
	NewNote      string `json:"new_note"`
}

// Attachment is one spreadsheet attachment from an inbound message.
type Attachment struct {
	Filename string
	Data     []byte
}

// InboundMessage is a candidate mail message with spreadsheet attachments.
// ID is opaque and stable per source message; it keys the dedup ledger.
type InboundMessage struct {
	ID          string
	Subject     string
	From        string
	Date        string
	Attachments []Attachment
}
