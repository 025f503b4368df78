package scenario

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"os"
	"strconv"
	"time"

	"rollbardemo/internal/rollbar"
)

// ExceptionTypes triggers several distinct Go error kinds and reports each
// one with its stack trace so the dashboard shows how they group.
type ExceptionTypes struct{}

// Name returns the display name shown in the menu.
func (ExceptionTypes) Name() string { return "Exception Types" }

// Description returns a one-line summary for the menu.
func (ExceptionTypes) Description() string { return "Various Go error types" }

// Run triggers five error kinds in turn and reports the resulting values.
// Params: ctx bounds delivery; reporter receives the events; out shows progress.
// Returns: the first reporting failure, or nil.
func (ExceptionTypes) Run(ctx context.Context, reporter Reporter, out io.Writer) error {
	fmt.Fprintln(out)
	fmt.Fprintln(out, ">> DEMO: Different Exception Types")
	fmt.Fprintln(out, "Triggering various Go errors...")
	fmt.Fprintln(out)

	triggers := []struct {
		name    string
		trigger func() error
	}{
		{name: "fs.PathError", trigger: func() error {
			_, err := os.Open("nonexistent_settings.yaml")
			return err
		}},
		{name: "strconv.NumError", trigger: func() error {
			_, err := strconv.Atoi("not_a_number")
			return err
		}},
		{name: "json.UnmarshalTypeError", trigger: func() error {
			var decoded struct {
				Count int `json:"count"`
			}
			return json.Unmarshal([]byte(`{"count": "many"}`), &decoded)
		}},
		{name: "url.Error", trigger: func() error {
			_, err := url.Parse("://missing-scheme")
			return err
		}},
		{name: "settingNotFoundError", trigger: func() error {
			_, err := lookupSetting(map[string]string{"retries": "3"}, "timeout")
			return err
		}},
	}

	for _, entry := range triggers {
		fmt.Fprintf(out, "  - Triggering %s...\n", entry.name)
		triggerErr := entry.trigger()
		if triggerErr == nil {
			continue
		}
		err := reporter.ReportError(ctx, rollbar.LevelError, triggerErr, map[string]any{
			"exception_demo": entry.name,
			"timestamp":      time.Now().Format(time.RFC3339),
		}, nil)
		if err != nil {
			return fmt.Errorf("report %s: %w", entry.name, err)
		}
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Note: Each error type is captured with a full stack trace.")
	fmt.Fprintln(out, "Rollbar groups similar errors together automatically.")
	return nil
}

// settingNotFoundError reports a lookup miss in a settings map.
type settingNotFoundError struct {
	key string
}

// Error formats the missing key description.
// Params: none.
// Returns: human-readable lookup failure text.
func (e *settingNotFoundError) Error() string {
	return fmt.Sprintf("setting %q not found", e.key)
}

// lookupSetting reads one key from a settings map.
// Params: settings map and the key to read.
// Returns: the value, or settingNotFoundError when the key is absent.
func lookupSetting(settings map[string]string, key string) (string, error) {
	value, ok := settings[key]
	if !ok {
		return "", &settingNotFoundError{key: key}
	}
	return value, nil
}
