// ABOUTME: Google Gmail API client construction
// ABOUTME: Creates an authenticated Gmail service from a stored OAuth token
package gmail

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	gmailapi "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// NewService creates an authenticated Gmail API service.
func NewService(ctx context.Context, token *oauth2.Token) (*gmailapi.Service, error) {
	if token == nil {
		return nil, fmt.Errorf("token cannot be nil")
	}

	config := NewOAuthConfig()
	client := config.Client(ctx, token)

	service, err := gmailapi.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gmail service: %w", err)
	}
	return service, nil
}
