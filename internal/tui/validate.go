// ABOUTME: Connection validation for a Flasker API.
// ABOUTME: Checks the URL by listing posts with the regular client.
package tui

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/2389-research/flasker/internal/api"
)

// ValidateConnection checks that apiURL serves the post list.
// The context allows cancellation when the user quits during validation.
func ValidateConnection(ctx context.Context, apiURL string) error {
	u, err := url.Parse(apiURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid API URL %q", apiURL)
	}

	client := api.NewClient(apiURL, api.WithTimeout(10*time.Second))
	if _, err := client.ListPosts(ctx); err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}
	return nil
}
