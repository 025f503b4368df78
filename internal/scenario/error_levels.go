package scenario

import (
	"context"
	"fmt"
	"io"
	"strings"

	"rollbardemo/internal/rollbar"
)

// ErrorLevels reports one message at every supported severity level.
type ErrorLevels struct{}

// Name returns the display name shown in the menu.
func (ErrorLevels) Name() string { return "Error Levels" }

// Description returns a one-line summary for the menu.
func (ErrorLevels) Description() string { return "Demonstrate all severity levels" }

// Run reports five messages, one per severity level from debug to critical.
// Params: ctx bounds delivery; reporter receives the events; out shows progress.
// Returns: the first reporting failure, or nil.
func (ErrorLevels) Run(ctx context.Context, reporter Reporter, out io.Writer) error {
	fmt.Fprintln(out)
	fmt.Fprintln(out, ">> DEMO: Error Levels")
	fmt.Fprintln(out, "Sending messages at all severity levels...")
	fmt.Fprintln(out)

	messages := []struct {
		level   rollbar.Level
		message string
	}{
		{level: rollbar.LevelDebug, message: "Debug: Variable value = 42"},
		{level: rollbar.LevelInfo, message: "Info: User logged in successfully"},
		{level: rollbar.LevelWarning, message: "Warning: Disk space running low (15% remaining)"},
		{level: rollbar.LevelError, message: "Error: Failed to connect to external API"},
		{level: rollbar.LevelCritical, message: "Critical: Database connection lost"},
	}

	for _, entry := range messages {
		fmt.Fprintf(out, "  - %-8s | %s\n", strings.ToUpper(string(entry.level)), entry.message)
		if err := reporter.ReportMessage(ctx, entry.level, entry.message, nil, nil); err != nil {
			return fmt.Errorf("report %s message: %w", entry.level, err)
		}
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Note: You can filter by level in Rollbar dashboard.")
	fmt.Fprintln(out, "Levels help prioritize which issues to address first.")
	return nil
}
