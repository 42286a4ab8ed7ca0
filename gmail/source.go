// ABOUTME: Gmail mail source fetching candidate messages with spreadsheet attachments
// ABOUTME: Label-scoped search, newest first, attachment bytes decoded per part
package gmail

import (
	"encoding/base64"
	"fmt"
	"strings"

	gmailapi "google.golang.org/api/gmail/v1"

	"github.com/harperreed/crmdigest/models"
)

// Source fetches candidate messages from a Gmail label.
type Source struct {
	service *gmailapi.Service
	label   string
	days    int
	max     int
}

// NewSource creates a mail source over the given label and time window.
func NewSource(service *gmailapi.Service, label string, sinceDays, maxMessages int) *Source {
	return &Source{service: service, label: label, days: sinceDays, max: maxMessages}
}

// FetchCandidates returns recent labeled messages that carry at least
// one spreadsheet attachment, newest first, capped at the configured
// maximum per cycle.
func (s *Source) FetchCandidates() ([]models.InboundMessage, error) {
	call := s.service.Users.Messages.List("me").
		Q(BuildQuery(s.label, s.days)).
		MaxResults(int64(s.max))

	response, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	if response == nil || len(response.Messages) == 0 {
		return nil, nil
	}

	var messages []models.InboundMessage
	for _, ref := range response.Messages {
		msg, err := s.fetchMessage(ref.Id)
		if err != nil {
			fmt.Printf("  ✗ Failed to fetch message %s: %v\n", ref.Id, err)
			continue
		}
		if msg != nil && len(msg.Attachments) > 0 {
			messages = append(messages, *msg)
		}
	}
	return messages, nil
}

// BuildQuery constructs the Gmail search query for candidate messages.
func BuildQuery(label string, sinceDays int) string {
	return fmt.Sprintf("label:%s has:attachment newer_than:%dd", label, sinceDays)
}

func (s *Source) fetchMessage(id string) (*models.InboundMessage, error) {
	message, err := s.service.Users.Messages.Get("me", id).Format("full").Do()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch message: %w", err)
	}

	headers := headerMap(message.Payload)
	msg := &models.InboundMessage{
		ID:      message.Id,
		Subject: headers["Subject"],
		From:    headers["From"],
		Date:    headers["Date"],
	}

	for _, part := range collectParts(message.Payload) {
		if !IsSpreadsheetFilename(part.Filename) {
			continue
		}
		data, err := s.attachmentData(message.Id, part)
		if err != nil {
			return nil, fmt.Errorf("failed to download %s: %w", part.Filename, err)
		}
		msg.Attachments = append(msg.Attachments, models.Attachment{
			Filename: part.Filename,
			Data:     data,
		})
	}

	return msg, nil
}

// attachmentData returns part bytes, fetching by attachment id when the
// body is not inlined.
func (s *Source) attachmentData(messageID string, part *gmailapi.MessagePart) ([]byte, error) {
	if part.Body == nil {
		return nil, fmt.Errorf("part has no body")
	}

	encoded := part.Body.Data
	if encoded == "" && part.Body.AttachmentId != "" {
		att, err := s.service.Users.Messages.Attachments.Get("me", messageID, part.Body.AttachmentId).Do()
		if err != nil {
			return nil, fmt.Errorf("failed to fetch attachment: %w", err)
		}
		encoded = att.Data
	}

	data, err := base64.URLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to decode attachment: %w", err)
	}
	return data, nil
}

// IsSpreadsheetFilename reports whether a filename looks like a
// spreadsheet the pipeline can process.
func IsSpreadsheetFilename(name string) bool {
	lower := strings.ToLower(name)
	return strings.HasSuffix(lower, ".xlsx") || strings.HasSuffix(lower, ".xls")
}

// collectParts flattens the (possibly nested multipart) payload tree.
func collectParts(payload *gmailapi.MessagePart) []*gmailapi.MessagePart {
	if payload == nil {
		return nil
	}

	parts := []*gmailapi.MessagePart{payload}
	for _, child := range payload.Parts {
		parts = append(parts, collectParts(child)...)
	}
	return parts
}

func headerMap(payload *gmailapi.MessagePart) map[string]string {
	headers := make(map[string]string)
	if payload == nil {
		return headers
	}
	for _, h := range payload.Headers {
		headers[h.Name] = h.Value
	}
	return headers
}
