// Package scenario contains the interactive demos. Each scenario reports a
// handful of messages or errors through a Reporter and narrates what it sends
// so the results can be found on the Rollbar dashboard afterwards.
package scenario

import (
	"context"
	"fmt"
	"io"

	"rollbardemo/internal/match"
	"rollbardemo/internal/rollbar"
)

// Reporter is the slice of the reporting client the scenarios use.
// Extra data lands beside the message text or trace body; payload data
// overrides top-level payload fields such as person and context.
type Reporter interface {
	ReportMessage(ctx context.Context, level rollbar.Level, message string, extra, payloadData map[string]any) error
	ReportError(ctx context.Context, level rollbar.Level, reported error, extra, payloadData map[string]any) error
}

// Scenario is one selectable demo.
type Scenario interface {
	// Name returns the display name shown in the menu.
	Name() string
	// Description returns a one-line summary for the menu.
	Description() string
	// Run executes the demo, reporting through reporter and narrating to out.
	Run(ctx context.Context, reporter Reporter, out io.Writer) error
}

// All returns every scenario in display order.
// Params: none.
// Returns: a freshly built scenario list.
func All() []Scenario {
	return []Scenario{
		PersonTracking{},
		CustomData{},
		ErrorLevels{},
		ExceptionVsMessage{},
		SearchableFields{},
		MultipleErrors{},
		ExceptionTypes{},
		BusinessEvents{},
	}
}

// Match returns the scenarios whose display names match the wildcard pattern.
// Params: pattern with optional '*' wildcards, matched case-insensitively.
// Returns: matching scenarios in display order, or an error for a blank pattern.
func Match(pattern string) ([]Scenario, error) {
	compiled, ok := match.Compile(pattern)
	if !ok {
		return nil, fmt.Errorf("scenario pattern is empty")
	}

	var matched []Scenario
	for _, s := range All() {
		if compiled.Match(s.Name()) {
			matched = append(matched, s)
		}
	}
	return matched, nil
}
