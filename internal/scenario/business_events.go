package scenario

import (
	"context"
	"fmt"
	"io"
	"strings"

	"rollbardemo/internal/rollbar"
)

// BusinessEvents reports application milestones rather than failures,
// showing that the pipeline carries any structured event.
type BusinessEvents struct{}

// Name returns the display name shown in the menu.
func (BusinessEvents) Name() string { return "Business Events" }

// Description returns a one-line summary for the menu.
func (BusinessEvents) Description() string { return "Track important application events" }

// Run reports four business milestones with their event data.
// Params: ctx bounds delivery; reporter receives the events; out shows progress.
// Returns: the first reporting failure, or nil.
func (BusinessEvents) Run(ctx context.Context, reporter Reporter, out io.Writer) error {
	fmt.Fprintln(out)
	fmt.Fprintln(out, ">> DEMO: Business Events Tracking")
	fmt.Fprintln(out, "Logging important application events...")
	fmt.Fprintln(out)

	events := []struct {
		level   rollbar.Level
		message string
		data    map[string]any
	}{
		{
			level:   rollbar.LevelInfo,
			message: "User completed onboarding",
			data: map[string]any{
				"user_id":                  "user_new_123",
				"signup_date":              "2024-11-23",
				"onboarding_steps":         5,
				"time_to_complete_minutes": 8,
			},
		},
		{
			level:   rollbar.LevelInfo,
			message: "Subscription upgraded",
			data: map[string]any{
				"user_id":    "user_456",
				"old_plan":   "basic",
				"new_plan":   "premium",
				"mrr_change": 20.00,
			},
		},
		{
			level:   rollbar.LevelWarning,
			message: "Unusual activity detected",
			data: map[string]any{
				"user_id":             "user_789",
				"activity":            "rapid_api_calls",
				"count":               500,
				"time_window_minutes": 1,
			},
		},
		{
			level:   rollbar.LevelInfo,
			message: "Daily backup completed",
			data: map[string]any{
				"backup_size_gb":   45.2,
				"duration_minutes": 23,
				"destination":      "s3://backups/daily/",
				"success":          true,
			},
		},
	}

	for _, event := range events {
		fmt.Fprintf(out, "  - %-7s | %s\n", strings.ToUpper(string(event.level)), event.message)
		if err := reporter.ReportMessage(ctx, event.level, event.message, event.data, nil); err != nil {
			return fmt.Errorf("report %q: %w", event.message, err)
		}
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Note: Rollbar isn't just for errors!")
	fmt.Fprintln(out, "Track important business events, milestones, and system operations.")
	return nil
}
