// Package menu renders the interactive scenario picker and drives the
// selected demos over console streams.
package menu

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"rollbardemo/internal/scenario"
)

const (
	headerTitle  = "ROLLBAR GO CLIENT - INTERACTIVE DEMO"
	consoleWidth = 60
	// clearSequence resets the terminal before each menu redraw.
	clearSequence = "\x1b[2J\x1b[H"
)

var (
	headerBar  = strings.Repeat("=", consoleWidth)
	dividerBar = strings.Repeat("-", consoleWidth)
)

// Menu drives the interactive scenario selection loop.
type Menu struct {
	scenarios []scenario.Scenario
	reporter  scenario.Reporter
	in        io.Reader
	out       io.Writer
}

// New builds a menu over the given scenarios.
// Params: scenarios in display order; reporter passed to each run; in and out
// console streams.
// Returns: menu instance or setup validation error.
func New(scenarios []scenario.Scenario, reporter scenario.Reporter, in io.Reader, out io.Writer) (*Menu, error) {
	if len(scenarios) == 0 {
		return nil, fmt.Errorf("at least one scenario is required")
	}
	if reporter == nil {
		return nil, fmt.Errorf("reporter is required")
	}
	if in == nil {
		return nil, fmt.Errorf("input stream is required")
	}
	if out == nil {
		return nil, fmt.Errorf("output stream is required")
	}

	return &Menu{
		scenarios: scenarios,
		reporter:  reporter,
		in:        in,
		out:       out,
	}, nil
}

// Run drives the menu loop until the exit choice, end of input, or ctx
// cancellation. Input is pumped by a goroutine that stops when in is
// exhausted; for stdin that is process exit.
// Params: ctx cancels the loop between reads.
// Returns: nil on exit or end of input, ctx error on cancellation, or the
// first scenario failure.
func (m *Menu) Run(ctx context.Context) error {
	lines := make(chan string)
	go pumpLines(m.in, lines)

	for {
		fmt.Fprint(m.out, clearSequence)
		m.printHeader()
		m.display()
		fmt.Fprintf(m.out, "\nSelect a demo (0-%d): ", len(m.scenarios))

		input, open, err := m.readLine(ctx, lines)
		if err != nil {
			return err
		}
		if !open {
			return nil
		}

		keepGoing, err := m.handleChoice(ctx, input, lines)
		if err != nil {
			return err
		}
		if !keepGoing {
			return nil
		}
	}
}

// printHeader writes the banner block.
// Params: none.
// Returns: none.
func (m *Menu) printHeader() {
	fmt.Fprintln(m.out, headerBar)
	fmt.Fprintln(m.out, headerTitle)
	fmt.Fprintln(m.out, headerBar)
	fmt.Fprintln(m.out)
}

// display lists the numbered scenarios and the exit option.
// Params: none.
// Returns: none.
func (m *Menu) display() {
	fmt.Fprintln(m.out)
	fmt.Fprintln(m.out, "Available Demos:")
	fmt.Fprintln(m.out, dividerBar)
	for i, s := range m.scenarios {
		fmt.Fprintf(m.out, "%d. %s - %s\n", i+1, s.Name(), s.Description())
	}
	fmt.Fprintln(m.out, "0. Exit")
	fmt.Fprintln(m.out, dividerBar)
}

// handleChoice acts on one menu selection.
// Params: ctx bounds the scenario run; input is the raw selection; lines
// feeds the wait-for-enter pause.
// Returns: whether the loop continues, and the first scenario failure.
func (m *Menu) handleChoice(ctx context.Context, input string, lines <-chan string) (bool, error) {
	choice, err := strconv.Atoi(input)
	if err != nil {
		choice = -1
	}

	if choice == 0 {
		fmt.Fprintln(m.out)
		fmt.Fprintln(m.out, "Exiting demo. Check your Rollbar dashboard to see all the data!")
		fmt.Fprintln(m.out, "You can search, filter, and analyze all the errors sent.")
		fmt.Fprintln(m.out)
		return false, nil
	}

	if choice >= 1 && choice <= len(m.scenarios) {
		selected := m.scenarios[choice-1]
		if err := selected.Run(ctx, m.reporter, m.out); err != nil {
			return false, fmt.Errorf("run scenario %q: %w", selected.Name(), err)
		}
		if err := m.waitForEnter(ctx, lines); err != nil {
			return false, err
		}
		return true, nil
	}

	fmt.Fprintf(m.out, "\nInvalid choice. Please select 0-%d.\n", len(m.scenarios))
	if err := m.waitForEnter(ctx, lines); err != nil {
		return false, err
	}
	return true, nil
}

// readLine waits for the next input line.
// Params: ctx aborts the wait; lines is the pumped input.
// Returns: the trimmed line, whether input is still open, and the ctx error
// on cancellation.
func (m *Menu) readLine(ctx context.Context, lines <-chan string) (string, bool, error) {
	select {
	case <-ctx.Done():
		return "", false, ctx.Err()
	case line, open := <-lines:
		if !open {
			return "", false, nil
		}
		return strings.TrimSpace(line), true, nil
	}
}

// waitForEnter pauses until the user presses Enter.
// Params: ctx aborts the wait; lines is the pumped input.
// Returns: the ctx error on cancellation, nil otherwise.
func (m *Menu) waitForEnter(ctx context.Context, lines <-chan string) error {
	fmt.Fprint(m.out, "\nPress Enter to continue...")
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-lines:
		return nil
	}
}

// pumpLines forwards input lines to the channel and closes it at end of
// input.
// Params: in console input; lines receives each line without its newline.
// Returns: none.
func pumpLines(in io.Reader, lines chan<- string) {
	defer close(lines)
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		lines <- scanner.Text()
	}
}
