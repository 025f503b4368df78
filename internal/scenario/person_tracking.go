package scenario

import (
	"context"
	"fmt"
	"io"

	"rollbardemo/internal/rollbar"
)

// PersonTracking reports the same checkout failure for three user profiles,
// attaching the person payload field so events can be searched by user.
type PersonTracking struct{}

// Name returns the display name shown in the menu.
func (PersonTracking) Name() string { return "Person Tracking" }

// Description returns a one-line summary for the menu.
func (PersonTracking) Description() string { return "Associate errors with different users" }

// Run reports one failure per demo user with that user's person fields.
// Params: ctx bounds delivery; reporter receives the events; out shows progress.
// Returns: the first reporting failure, or nil.
func (PersonTracking) Run(ctx context.Context, reporter Reporter, out io.Writer) error {
	fmt.Fprintln(out)
	fmt.Fprintln(out, ">> DEMO: Person Tracking")
	fmt.Fprintln(out, "Sending errors associated with different users...")
	fmt.Fprintln(out)

	users := []struct {
		id           string
		username     string
		email        string
		subscription string
	}{
		{id: "user_123", username: "alice_smith", email: "alice@example.com", subscription: "premium"},
		{id: "user_456", username: "bob_jones", email: "bob@example.com", subscription: "free"},
		{id: "user_789", username: "charlie_brown", email: "charlie@example.com", subscription: "enterprise"},
	}

	for _, user := range users {
		fmt.Fprintf(out, "  - Reporting error for user: %s (%s)\n", user.username, user.email)
		err := reporter.ReportMessage(ctx, rollbar.LevelError,
			fmt.Sprintf("User action failed for %s", user.username),
			map[string]any{"user_action": "checkout", "cart_value": 99.99},
			map[string]any{"person": map[string]any{
				"id":           user.id,
				"username":     user.username,
				"email":        user.email,
				"subscription": user.subscription,
			}},
		)
		if err != nil {
			return fmt.Errorf("report for %s: %w", user.username, err)
		}
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Note: In Rollbar, you can now search for errors by user ID, username, or email.")
	return nil
}
