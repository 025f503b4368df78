package menu_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"rollbardemo/internal/menu"
	"rollbardemo/internal/rollbar"
	"rollbardemo/internal/scenario"
)

// TestNew_ValidatesSetup verifies constructor argument checks.
// Params: t testing.T for assertions.
// Returns: none.
func TestNew_ValidatesSetup(t *testing.T) {
	demos := []scenario.Scenario{&stubScenario{name: "Demo One", description: "First demo"}}
	reporter := &nopReporter{}

	if _, err := menu.New(nil, reporter, strings.NewReader(""), &bytes.Buffer{}); err == nil {
		t.Fatalf("expected error for empty scenario list")
	}
	if _, err := menu.New(demos, nil, strings.NewReader(""), &bytes.Buffer{}); err == nil {
		t.Fatalf("expected error for nil reporter")
	}
	if _, err := menu.New(demos, reporter, nil, &bytes.Buffer{}); err == nil {
		t.Fatalf("expected error for nil input stream")
	}
	if _, err := menu.New(demos, reporter, strings.NewReader(""), nil); err == nil {
		t.Fatalf("expected error for nil output stream")
	}
}

// TestRun_ExitChoiceStopsLoop verifies choice 0 ends the loop cleanly.
// Params: t testing.T for assertions.
// Returns: none.
func TestRun_ExitChoiceStopsLoop(t *testing.T) {
	demo := &stubScenario{name: "Demo One", description: "First demo"}
	var out bytes.Buffer
	m := newTestMenu(t, []scenario.Scenario{demo}, strings.NewReader("0\n"), &out)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := m.Run(ctx); err != nil {
		t.Fatalf("run menu: %v", err)
	}
	if !strings.Contains(out.String(), "1. Demo One - First demo") {
		t.Fatalf("missing scenario listing: %q", out.String())
	}
	if !strings.Contains(out.String(), "0. Exit") {
		t.Fatalf("missing exit option: %q", out.String())
	}
	if !strings.Contains(out.String(), "Exiting demo. Check your Rollbar dashboard to see all the data!") {
		t.Fatalf("missing exit message: %q", out.String())
	}
	if demo.Runs() != 0 {
		t.Fatalf("scenario ran unexpectedly")
	}
}

// TestRun_ExecutesSelectedScenario verifies a numbered choice runs that demo.
// Params: t testing.T for assertions.
// Returns: none.
func TestRun_ExecutesSelectedScenario(t *testing.T) {
	first := &stubScenario{name: "Demo One", description: "First demo"}
	second := &stubScenario{name: "Demo Two", description: "Second demo"}
	var out bytes.Buffer
	m := newTestMenu(t, []scenario.Scenario{first, second}, strings.NewReader("2\n\n0\n"), &out)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := m.Run(ctx); err != nil {
		t.Fatalf("run menu: %v", err)
	}
	if got := second.Runs(); got != 1 {
		t.Fatalf("unexpected run count for selected scenario: %d", got)
	}
	if got := first.Runs(); got != 0 {
		t.Fatalf("unselected scenario ran %d times", got)
	}
	if !strings.Contains(out.String(), "running Demo Two") {
		t.Fatalf("missing scenario output: %q", out.String())
	}
	if !strings.Contains(out.String(), "Press Enter to continue...") {
		t.Fatalf("missing pause prompt: %q", out.String())
	}
}

// TestRun_RejectsInvalidChoice verifies out-of-range and non-numeric input.
// Params: t testing.T for assertions.
// Returns: none.
func TestRun_RejectsInvalidChoice(t *testing.T) {
	for _, input := range []string{"9", "abc"} {
		demo := &stubScenario{name: "Demo One", description: "First demo"}
		var out bytes.Buffer
		m := newTestMenu(t, []scenario.Scenario{demo}, strings.NewReader(input+"\n\n0\n"), &out)

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)

		err := m.Run(ctx)
		cancel()
		if err != nil {
			t.Fatalf("input %q: %v", input, err)
		}
		if !strings.Contains(out.String(), "Invalid choice. Please select 0-1.") {
			t.Fatalf("input %q: missing invalid-choice message: %q", input, out.String())
		}
		if demo.Runs() != 0 {
			t.Fatalf("input %q: scenario ran unexpectedly", input)
		}
	}
}

// TestRun_EndOfInputExitsCleanly verifies exhausted input ends the loop.
// Params: t testing.T for assertions.
// Returns: none.
func TestRun_EndOfInputExitsCleanly(t *testing.T) {
	demo := &stubScenario{name: "Demo One", description: "First demo"}
	var out bytes.Buffer
	m := newTestMenu(t, []scenario.Scenario{demo}, strings.NewReader(""), &out)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := m.Run(ctx); err != nil {
		t.Fatalf("run menu: %v", err)
	}
}

// TestRun_ScenarioFailureSurfaces verifies a failing demo stops the loop.
// Params: t testing.T for assertions.
// Returns: none.
func TestRun_ScenarioFailureSurfaces(t *testing.T) {
	demo := &stubScenario{name: "Demo One", description: "First demo", fail: errors.New("reporter down")}
	var out bytes.Buffer
	m := newTestMenu(t, []scenario.Scenario{demo}, strings.NewReader("1\n"), &out)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	err := m.Run(ctx)
	if err == nil {
		t.Fatalf("expected scenario failure to surface")
	}
	if !strings.Contains(err.Error(), `run scenario "Demo One"`) {
		t.Fatalf("unexpected error: %v", err)
	}
}

// TestRun_ContextCancelStopsPromptly verifies cancellation beats input waits.
// Params: t testing.T for assertions.
// Returns: none.
func TestRun_ContextCancelStopsPromptly(t *testing.T) {
	demo := &stubScenario{name: "Demo One", description: "First demo"}
	reader, writer := io.Pipe()
	defer writer.Close()
	var out bytes.Buffer
	m := newTestMenu(t, []scenario.Scenario{demo}, reader, &out)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := m.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("unexpected error: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 200*time.Millisecond {
		t.Fatalf("run did not stop promptly: %v", elapsed)
	}
}

// newTestMenu builds a menu over a no-op reporter or fails the test.
// Params: t for fatal setup errors; scenarios, in, out forwarded to New.
// Returns: ready menu.
func newTestMenu(t *testing.T, scenarios []scenario.Scenario, in io.Reader, out io.Writer) *menu.Menu {
	t.Helper()
	m, err := menu.New(scenarios, &nopReporter{}, in, out)
	if err != nil {
		t.Fatalf("new menu: %v", err)
	}
	return m
}

// stubScenario counts runs and optionally fails.
type stubScenario struct {
	name        string
	description string
	fail        error

	mu   sync.Mutex
	runs int
}

// Name returns the configured display name.
func (s *stubScenario) Name() string { return s.name }

// Description returns the configured summary.
func (s *stubScenario) Description() string { return s.description }

// Run counts the invocation and writes one progress line.
// Params: interface arguments; ctx and reporter are unused.
// Returns: the configured failure, or nil.
func (s *stubScenario) Run(_ context.Context, _ scenario.Reporter, out io.Writer) error {
	s.mu.Lock()
	s.runs++
	s.mu.Unlock()
	fmt.Fprintf(out, "running %s\n", s.name)
	return s.fail
}

// Runs returns how many times the scenario ran.
// Params: none.
// Returns: run count.
func (s *stubScenario) Runs() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runs
}

// nopReporter satisfies scenario.Reporter and discards every report.
type nopReporter struct{}

// ReportMessage discards the report.
func (nopReporter) ReportMessage(context.Context, rollbar.Level, string, map[string]any, map[string]any) error {
	return nil
}

// ReportError discards the report.
func (nopReporter) ReportError(context.Context, rollbar.Level, error, map[string]any, map[string]any) error {
	return nil
}
