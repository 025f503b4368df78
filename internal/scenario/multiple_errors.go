package scenario

import (
	"context"
	"fmt"
	"io"

	"rollbardemo/internal/rollbar"
)

// MultipleErrors reports a cascade of related failures, from an early latency
// warning up to a critical circuit breaker trip.
type MultipleErrors struct{}

// Name returns the display name shown in the menu.
func (MultipleErrors) Name() string { return "Multiple Errors" }

// Description returns a one-line summary for the menu.
func (MultipleErrors) Description() string { return "Send a sequence of related errors" }

// Run reports the four stages of a database failure cascade in order.
// Params: ctx bounds delivery; reporter receives the events; out shows progress.
// Returns: the first reporting failure, or nil.
func (MultipleErrors) Run(ctx context.Context, reporter Reporter, out io.Writer) error {
	fmt.Fprintln(out)
	fmt.Fprintln(out, ">> DEMO: Multiple Related Errors")
	fmt.Fprintln(out, "Sending a sequence of related errors...")
	fmt.Fprintln(out)

	fmt.Fprintln(out, "Simulating a cascade of failures:")

	fmt.Fprintln(out, "  1. Database connection slow")
	err := reporter.ReportMessage(ctx, rollbar.LevelWarning, "Database connection latency detected", map[string]any{
		"latency_ms":   2500,
		"threshold_ms": 1000,
		"db_host":      "db-primary.example.com",
	}, nil)
	if err != nil {
		return fmt.Errorf("report latency warning: %w", err)
	}

	fmt.Fprintln(out, "  2. Query timeout")
	err = reporter.ReportError(ctx, rollbar.LevelError, &queryTimeoutError{seconds: 5}, map[string]any{
		"query":           "SELECT * FROM large_table",
		"timeout_seconds": 5,
	}, nil)
	if err != nil {
		return fmt.Errorf("report query timeout: %w", err)
	}

	fmt.Fprintln(out, "  3. Service degradation warning")
	err = reporter.ReportMessage(ctx, rollbar.LevelError, "Service performance degraded", map[string]any{
		"service":          "api_server",
		"response_time_ms": 8000,
		"error_rate":       0.15,
	}, nil)
	if err != nil {
		return fmt.Errorf("report degradation: %w", err)
	}

	fmt.Fprintln(out, "  4. Circuit breaker triggered")
	err = reporter.ReportMessage(ctx, rollbar.LevelCritical, "Circuit breaker opened for database", map[string]any{
		"failures":        5,
		"threshold":       3,
		"timeout_seconds": 60,
	}, nil)
	if err != nil {
		return fmt.Errorf("report circuit breaker: %w", err)
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Note: These errors will appear in Rollbar with timestamps.")
	fmt.Fprintln(out, "You can track the sequence of events leading to the critical failure.")
	return nil
}

// queryTimeoutError reports a query that outran its deadline.
type queryTimeoutError struct {
	seconds int
}

// Error formats the timeout description.
// Params: none.
// Returns: human-readable timeout text.
func (e *queryTimeoutError) Error() string {
	return fmt.Sprintf("query exceeded %d second timeout", e.seconds)
}
