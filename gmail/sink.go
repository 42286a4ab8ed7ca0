// ABOUTME: Gmail mail sink for dispatching HTML summary reports
// ABOUTME: Builds an RFC 2822 message and sends it via Users.Messages.Send
package gmail

import (
	"encoding/base64"
	"fmt"
	"strings"

	gmailapi "google.golang.org/api/gmail/v1"
)

// Sink sends HTML mail through the authenticated Gmail account.
type Sink struct {
	service *gmailapi.Service
}

// NewSink creates a mail sink.
func NewSink(service *gmailapi.Service) *Sink {
	return &Sink{service: service}
}

// SendHTML sends an HTML message. Fire-and-forget from the pipeline's
// perspective: failures are reported, never retried here.
func (s *Sink) SendHTML(to, subject, htmlBody string) error {
	raw := base64.URLEncoding.EncodeToString([]byte(BuildMIME(to, subject, htmlBody)))

	_, err := s.service.Users.Messages.Send("me", &gmailapi.Message{Raw: raw}).Do()
	if err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", to, err)
	}
	return nil
}

// BuildMIME assembles a minimal single-part HTML mail.
func BuildMIME(to, subject, htmlBody string) string {
	var sb strings.Builder
	sb.WriteString("To: " + to + "\r\n")
	sb.WriteString("Subject: " + subject + "\r\n")
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	sb.WriteString("\r\n")
	sb.WriteString(htmlBody)
	return sb.String()
}
