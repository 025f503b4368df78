package scenario

import (
	"context"
	"fmt"
	"io"

	"rollbardemo/internal/rollbar"
)

// ExceptionVsMessage contrasts plain message reports with error reports that
// carry a stack trace.
type ExceptionVsMessage struct{}

// Name returns the display name shown in the menu.
func (ExceptionVsMessage) Name() string { return "Exception vs Message" }

// Description returns a one-line summary for the menu.
func (ExceptionVsMessage) Description() string { return "Compare reporting methods" }

// Run reports a manual warning message, then a recovered runtime error.
// Params: ctx bounds delivery; reporter receives the events; out shows progress.
// Returns: the first reporting failure, or nil.
func (ExceptionVsMessage) Run(ctx context.Context, reporter Reporter, out io.Writer) error {
	fmt.Fprintln(out)
	fmt.Fprintln(out, ">> DEMO: Exception vs Message Reporting")
	fmt.Fprintln(out, "Comparing two reporting methods...")
	fmt.Fprintln(out)

	fmt.Fprintln(out, "1. Message Reporting (manual log)")
	fmt.Fprintln(out, "   - No automatic stack trace")
	fmt.Fprintln(out, "   - Manual text description")
	fmt.Fprintln(out, "   - Good for business events")
	fmt.Fprintln(out)

	err := reporter.ReportMessage(ctx, rollbar.LevelWarning, "User attempted invalid operation", map[string]any{
		"operation": "delete_admin_account",
		"reason":    "insufficient_permissions",
	}, nil)
	if err != nil {
		return fmt.Errorf("report warning message: %w", err)
	}

	fmt.Fprintln(out, "2. Exception Reporting (caught error)")
	fmt.Fprintln(out, "   - Automatic stack trace capture")
	fmt.Fprintln(out, "   - Error type and message")
	fmt.Fprintln(out, "   - Good for actual errors")
	fmt.Fprintln(out)

	if _, divErr := safeDivide(100, 0); divErr != nil {
		reportErr := reporter.ReportError(ctx, rollbar.LevelError, divErr, map[string]any{
			"operation":   "calculate_average",
			"denominator": 0,
		}, nil)
		if reportErr != nil {
			return fmt.Errorf("report division error: %w", reportErr)
		}
	}

	fmt.Fprintln(out, "Note: Check Rollbar to see the difference:")
	fmt.Fprintln(out, "  - Message reports show up as log entries")
	fmt.Fprintln(out, "  - Exception reports include full stack traces")
	return nil
}

// safeDivide divides a by b, converting the divide-by-zero runtime panic
// into an ordinary error.
// Params: integer dividend and divisor.
// Returns: quotient, or the recovered runtime error when b is zero.
func safeDivide(a, b int) (result int, err error) {
	defer func() {
		if r := recover(); r != nil {
			recovered, ok := r.(error)
			if !ok {
				err = fmt.Errorf("%v", r)
				return
			}
			err = recovered
		}
	}()
	return a / b, nil
}
