package scenario

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"rollbardemo/internal/rollbar"
)

// CustomData reports errors carrying rich custom metadata so the fields can
// be searched with custom[...] queries on the dashboard.
type CustomData struct{}

// Name returns the display name shown in the menu.
func (CustomData) Name() string { return "Custom Data" }

// Description returns a one-line summary for the menu.
func (CustomData) Description() string { return "Attach metadata to error reports" }

// Run reports three errors with distinct custom metadata shapes.
// Params: ctx bounds delivery; reporter receives the events; out shows progress.
// Returns: the first reporting failure, or nil.
func (CustomData) Run(ctx context.Context, reporter Reporter, out io.Writer) error {
	fmt.Fprintln(out)
	fmt.Fprintln(out, ">> DEMO: Custom Data")
	fmt.Fprintln(out, "Sending errors with rich custom metadata...")
	fmt.Fprintln(out)

	reports := []struct {
		message string
		custom  map[string]any
	}{
		{
			message: "Payment processing failed",
			custom: map[string]any{
				"payment_id":     "pay_abc123",
				"payment_method": "credit_card",
				"amount":         149.99,
				"currency":       "USD",
				"merchant_id":    "merchant_xyz",
				"attempt_number": 3,
			},
		},
		{
			message: "API rate limit exceeded",
			custom: map[string]any{
				"api_endpoint":  "/api/v1/users",
				"rate_limit":    100,
				"current_usage": 105,
				"window":        "1 minute",
				"client_ip":     "192.168.1.100",
			},
		},
		{
			message: "Database query timeout",
			custom: map[string]any{
				"query":          "SELECT * FROM orders WHERE date > ?",
				"timeout_ms":     5000,
				"actual_time_ms": 8500,
				"table":          "orders",
				"row_count":      150000,
			},
		},
	}

	for _, report := range reports {
		fmt.Fprintf(out, "  - %s\n", report.message)
		fmt.Fprintf(out, "    Custom data: %s\n", strings.Join(sortedKeys(report.custom), ", "))
		if err := reporter.ReportMessage(ctx, rollbar.LevelError, report.message, report.custom, nil); err != nil {
			return fmt.Errorf("report %q: %w", report.message, err)
		}
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Note: All custom data fields are searchable in Rollbar using:")
	fmt.Fprintln(out, "  custom[payment_id]:pay_abc123")
	fmt.Fprintln(out, "  custom[api_endpoint]:/api/v1/users")
	return nil
}

// sortedKeys returns the map keys in lexical order for stable display.
// Params: values map under report.
// Returns: sorted key slice.
func sortedKeys(values map[string]any) []string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
