package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"regexp"
	"strings"
	"sync"

	"rollbardemo/internal/config"
)

const (
	ansiReset  = "\x1b[0m"
	ansiBlue   = "\x1b[34m"
	ansiGreen  = "\x1b[32m"
	ansiCyan   = "\x1b[36m"
	ansiYellow = "\x1b[33m"
	ansiRed    = "\x1b[31m"
	ansiGray   = "\x1b[90m"
)

var (
	levelToken = regexp.MustCompile(`level=([A-Z]+)`)
	colorToken = regexp.MustCompile(`"[^"]*"|\b\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}\b|\b\d+(?:\.\d+)?\b`)
)

// colorLineWriter rewrites text log lines with ANSI colors before passing them downstream.
// Params: dst receives rewritten lines.
// Returns: io.Writer wrapper for console line sinks.
type colorLineWriter struct {
	dst io.Writer
}

// Write colorizes one log line based on its level token and value tokens.
// Params: payload one rendered log line.
// Returns: consumed input size and downstream write error.
func (w *colorLineWriter) Write(payload []byte) (int, error) {
	line := string(payload)

	base := levelColor(line)
	if base == "" {
		if _, err := w.dst.Write(payload); err != nil {
			return 0, err
		}
		return len(payload), nil
	}

	trailing := ""
	if strings.HasSuffix(line, "\n") {
		line = strings.TrimSuffix(line, "\n")
		trailing = "\n"
	}

	colored := colorToken.ReplaceAllStringFunc(line, func(token string) string {
		return tokenColor(token) + token + ansiReset + base
	})

	if _, err := io.WriteString(w.dst, base+colored+ansiReset+trailing); err != nil {
		return 0, err
	}
	return len(payload), nil
}

// levelColor resolves the base line color from the level= token.
// Params: line rendered log line.
// Returns: ANSI color code or empty string when level is absent or unknown.
func levelColor(line string) string {
	match := levelToken.FindStringSubmatch(line)
	if match == nil {
		return ""
	}

	switch match[1] {
	case "DEBUG":
		return ansiGray
	case "INFO":
		return ansiBlue
	case "WARN":
		return ansiYellow
	case "ERROR":
		return ansiRed
	default:
		return ""
	}
}

// tokenColor resolves the highlight color for one matched value token.
// Params: token matched quoted string, IP, or bare number.
// Returns: ANSI color code for the token class.
func tokenColor(token string) string {
	if strings.HasPrefix(token, `"`) {
		return ansiGreen
	}
	if strings.Count(token, ".") == 3 {
		return ansiCyan
	}
	return ansiYellow
}

// teeHandler fans one record out to all configured sink handlers.
// Params: handlers per-sink slog handlers.
// Returns: combined slog handler.
type teeHandler struct {
	handlers []slog.Handler
}

// Enabled reports whether any sink accepts records at the given level.
// Params: ctx log context; level record level.
// Returns: true when at least one sink is enabled.
func (h teeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

// Handle delivers the record to every sink that accepts its level.
// Params: ctx log context; record one log record.
// Returns: first sink error when present.
func (h teeHandler) Handle(ctx context.Context, record slog.Record) error {
	var firstErr error
	for _, handler := range h.handlers {
		if !handler.Enabled(ctx, record.Level) {
			continue
		}
		if err := handler.Handle(ctx, record.Clone()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// WithAttrs returns a tee handler with attrs applied to every sink.
// Params: attrs appended attributes.
// Returns: derived combined handler.
func (h teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := make([]slog.Handler, 0, len(h.handlers))
	for _, handler := range h.handlers {
		next = append(next, handler.WithAttrs(attrs))
	}
	return teeHandler{handlers: next}
}

// WithGroup returns a tee handler with the group applied to every sink.
// Params: name group name.
// Returns: derived combined handler.
func (h teeHandler) WithGroup(name string) slog.Handler {
	next := make([]slog.Handler, 0, len(h.handlers))
	for _, handler := range h.handlers {
		next = append(next, handler.WithGroup(name))
	}
	return teeHandler{handlers: next}
}

// New builds the process logger from console/file sink configuration.
// Params: cfg validated logging config.
// Returns: logger, sink close function, and setup error.
func New(cfg config.LogConfig) (*slog.Logger, func(), error) {
	handlers := make([]slog.Handler, 0, 2)
	closers := make([]func(), 0, 1)

	if cfg.Console.Enabled {
		handler, err := buildSinkHandler(cfg.Console, os.Stdout, true)
		if err != nil {
			return nil, nil, fmt.Errorf("init console sink: %w", err)
		}
		handlers = append(handlers, handler)
	}

	if cfg.File.Enabled {
		file, err := os.OpenFile(cfg.File.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file %q: %w", cfg.File.Path, err)
		}

		handler, err := buildSinkHandler(cfg.File, file, false)
		if err != nil {
			_ = file.Close()
			return nil, nil, fmt.Errorf("init file sink: %w", err)
		}
		handlers = append(handlers, handler)
		closers = append(closers, func() {
			_ = file.Close()
		})
	}

	var once sync.Once
	closeFn := func() {
		once.Do(func() {
			for _, closeSink := range closers {
				closeSink()
			}
		})
	}

	switch len(handlers) {
	case 0:
		return slog.New(slog.NewTextHandler(io.Discard, nil)), closeFn, nil
	case 1:
		return slog.New(handlers[0]), closeFn, nil
	default:
		return slog.New(teeHandler{handlers: handlers}), closeFn, nil
	}
}

// buildSinkHandler builds one slog handler for a sink destination.
// Params: sink sink options; dst output stream; colorize enables line coloring for console output.
// Returns: configured handler or error for unknown level/format.
func buildSinkHandler(sink config.LogSinkConfig, dst io.Writer, colorize bool) (slog.Handler, error) {
	level, err := parseLevel(sink.Level)
	if err != nil {
		return nil, err
	}

	options := &slog.HandlerOptions{Level: level}

	switch strings.ToLower(strings.TrimSpace(sink.Format)) {
	case "json":
		return slog.NewJSONHandler(dst, options), nil
	case "line", "":
		if colorize {
			dst = &colorLineWriter{dst: dst}
		}
		return slog.NewTextHandler(dst, options), nil
	default:
		return nil, fmt.Errorf("unsupported log format %q", sink.Format)
	}
}

// parseLevel converts config level name into slog level.
// Params: value lower-case level name.
// Returns: slog level or error for unknown names.
func parseLevel(value string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error", "panic":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unsupported log level %q", value)
	}
}
