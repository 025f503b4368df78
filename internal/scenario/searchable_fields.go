package scenario

import (
	"context"
	"fmt"
	"io"

	"rollbardemo/internal/rollbar"
)

// SearchableFields reports errors with a context payload field plus custom
// data, both of which the dashboard search indexes.
type SearchableFields struct{}

// Name returns the display name shown in the menu.
func (SearchableFields) Name() string { return "Searchable Fields" }

// Description returns a one-line summary for the menu.
func (SearchableFields) Description() string { return "Use context and custom fields" }

// Run reports four errors scoped to distinct context identifiers.
// Params: ctx bounds delivery; reporter receives the events; out shows progress.
// Returns: the first reporting failure, or nil.
func (SearchableFields) Run(ctx context.Context, reporter Reporter, out io.Writer) error {
	fmt.Fprintln(out)
	fmt.Fprintln(out, ">> DEMO: Searchable Fields")
	fmt.Fprintln(out, "Sending errors with searchable context and custom fields...")
	fmt.Fprintln(out)

	reports := []struct {
		context string
		message string
		custom  map[string]any
	}{
		{
			context: "checkout#payment",
			message: "Payment gateway timeout",
			custom: map[string]any{
				"gateway":  "stripe",
				"order_id": "ORD-2024-001",
				"amount":   299.99,
			},
		},
		{
			context: "checkout#shipping",
			message: "Invalid shipping address",
			custom: map[string]any{
				"address_validator": "usps",
				"order_id":          "ORD-2024-002",
				"country":           "US",
			},
		},
		{
			context: "user#authentication",
			message: "Failed login attempt",
			custom: map[string]any{
				"username":      "testuser",
				"ip_address":    "192.168.1.50",
				"attempt_count": 5,
			},
		},
		{
			context: "api#external",
			message: "Third-party API failure",
			custom: map[string]any{
				"api_name":    "weather_service",
				"endpoint":    "/api/forecast",
				"status_code": 503,
			},
		},
	}

	for _, report := range reports {
		fmt.Fprintf(out, "  - Context: %s\n", report.context)
		fmt.Fprintf(out, "    Message: %s\n", report.message)
		err := reporter.ReportMessage(ctx, rollbar.LevelError, report.message, report.custom,
			map[string]any{"context": report.context})
		if err != nil {
			return fmt.Errorf("report %q: %w", report.context, err)
		}
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Note: In Rollbar search:")
	fmt.Fprintln(out, "  - Use 'context:checkout#payment' to find checkout payment errors")
	fmt.Fprintln(out, "  - Use 'custom[gateway]:stripe' to find Stripe-related issues")
	fmt.Fprintln(out, "  - Use 'custom[order_id]:ORD-2024-001' to find specific order")
	return nil
}
