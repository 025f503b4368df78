package rollbar

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	notifierName    = "rollbardemo"
	notifierVersion = "1.0.0"
	payloadLanguage = "go"
	maxStackDepth   = 32
)

// newPayload assembles the envelope for one outgoing event.
// Caller-provided payloadData keys override generated data fields wholesale;
// only top-level keys are merged.
// Params: level validated severity; body event body; custom sanitized custom map, may be nil; payloadData sanitized data overrides, may be nil.
// Returns: envelope map ready for the payload hook.
func (c *Client) newPayload(level Level, body map[string]any, custom, payloadData map[string]any) map[string]any {
	server := make(map[string]any, len(c.server))
	for key, value := range c.server {
		server[key] = value
	}

	data := map[string]any{
		"environment":  c.environment,
		"code_version": c.codeVersion,
		"level":        string(level),
		"language":     payloadLanguage,
		"platform":     runtime.GOOS,
		"timestamp":    time.Now().Unix(),
		"uuid":         uuid.NewString(),
		"server":       server,
		"notifier": map[string]any{
			"name":    notifierName,
			"version": notifierVersion,
		},
		"body": body,
	}
	if custom != nil {
		data["custom"] = custom
	}
	for key, value := range payloadData {
		data[key] = value
	}

	return map[string]any{
		"access_token": c.token,
		"data":         data,
	}
}

// messageBody builds the message variant of the event body.
// Extra fields sit beside the message text inside the message map.
// Params: message text; extra sanitized fields, may be nil.
// Returns: body map.
func messageBody(message string, extra map[string]any) map[string]any {
	content := map[string]any{
		"body": message,
	}
	for key, value := range extra {
		content[key] = value
	}

	return map[string]any{
		"message": content,
	}
}

// traceBody builds the trace variant of the event body from a Go error.
// Params: err reported error.
// Returns: body map with exception class, message, and call frames.
func traceBody(err error) map[string]any {
	return map[string]any{
		"trace": map[string]any{
			"frames": stackFrames(4),
			"exception": map[string]any{
				"class":   errorClass(err),
				"message": err.Error(),
			},
		},
	}
}

// stackFrames captures the current call stack as payload frame maps.
// Frames are ordered oldest call first with the reporting site last.
// Params: skip stack frames to drop above the reporting call.
// Returns: frame list, possibly empty.
func stackFrames(skip int) []any {
	pc := make([]uintptr, maxStackDepth)
	n := runtime.Callers(skip, pc)
	if n == 0 {
		return []any{}
	}

	frames := runtime.CallersFrames(pc[:n])
	collected := make([]any, 0, n)
	for {
		frame, more := frames.Next()
		collected = append(collected, map[string]any{
			"filename": frame.File,
			"lineno":   int64(frame.Line),
			"method":   frame.Function,
		})
		if !more {
			break
		}
	}

	for i, j := 0, len(collected)-1; i < j; i, j = i+1, j-1 {
		collected[i], collected[j] = collected[j], collected[i]
	}
	return collected
}

// errorClass derives the exception class name for an error value.
// Params: err reported error.
// Returns: concrete type name without the pointer marker.
func errorClass(err error) string {
	class := strings.TrimPrefix(fmt.Sprintf("%T", err), "*")
	if class == "errors.errorString" {
		return "error"
	}
	return class
}
