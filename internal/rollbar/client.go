package rollbar

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// PayloadHook inspects and mutates one outgoing payload envelope before delivery.
// Returning ok=false vetoes the payload. The hints map carries optional host
// metadata and may be nil; hooks must tolerate and ignore unknown hints.
type PayloadHook func(payload map[string]any, hints map[string]any) (map[string]any, bool)

// Config carries reporting client setup.
// Params: access credentials, payload identity fields, and injected collaborators.
// Returns: validated by New.
type Config struct {
	AccessToken string
	Environment string
	CodeVersion string
	Hook        PayloadHook
	Transport   Transport
	Logger      *slog.Logger
}

// Client reports messages and errors to the backend through a transport,
// passing every payload through the configured hook first.
type Client struct {
	token       string
	environment string
	codeVersion string
	hook        PayloadHook
	transport   Transport
	logger      *slog.Logger
	server      map[string]any
}

// New builds a reporting client and captures host context once.
// Params: ctx bounds host info collection; cfg client setup.
// Returns: client instance or setup validation error.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.AccessToken) == "" {
		return nil, fmt.Errorf("access token is required")
	}
	if cfg.Transport == nil {
		return nil, fmt.Errorf("transport is required")
	}
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	return &Client{
		token:       cfg.AccessToken,
		environment: cfg.Environment,
		codeVersion: cfg.CodeVersion,
		hook:        cfg.Hook,
		transport:   cfg.Transport,
		logger:      cfg.Logger,
		server:      buildServerInfo(ctx),
	}, nil
}

// ReportMessage reports one text message event.
// Params: ctx delivery bound; level severity; message text; extra fields merged
// into the message body, may be nil; payloadData top-level data overrides, may be nil.
// Returns: report or delivery error; a vetoed payload returns nil.
func (c *Client) ReportMessage(ctx context.Context, level Level, message string, extra, payloadData map[string]any) error {
	if !level.Valid() {
		return fmt.Errorf("unsupported level %q", level)
	}

	sanitizedExtra, err := sanitizeMap(extra)
	if err != nil {
		return fmt.Errorf("extra data: %w", err)
	}

	return c.report(ctx, level, messageBody(message, sanitizedExtra), nil, payloadData)
}

// ReportError reports one error event with a captured call trace.
// Extra fields are attached as the payload's custom data.
// Params: ctx delivery bound; level severity; reported error value; extra custom
// fields, may be nil; payloadData top-level data overrides, may be nil.
// Returns: report or delivery error; a vetoed payload returns nil.
func (c *Client) ReportError(ctx context.Context, level Level, reported error, extra, payloadData map[string]any) error {
	if !level.Valid() {
		return fmt.Errorf("unsupported level %q", level)
	}
	if reported == nil {
		return fmt.Errorf("error value is required")
	}

	sanitizedExtra, err := sanitizeMap(extra)
	if err != nil {
		return fmt.Errorf("extra data: %w", err)
	}

	return c.report(ctx, level, traceBody(reported), sanitizedExtra, payloadData)
}

// Close flushes and closes the underlying transport.
// Params: none.
// Returns: transport close error.
func (c *Client) Close() error {
	return c.transport.Close()
}

// report assembles, hooks, and delivers one payload.
// Params: ctx delivery bound; level severity; body event body; custom sanitized
// custom map; payloadData raw data overrides.
// Returns: sanitize or delivery error; nil when the hook vetoes.
func (c *Client) report(ctx context.Context, level Level, body map[string]any, custom, payloadData map[string]any) error {
	sanitizedData, err := sanitizeMap(payloadData)
	if err != nil {
		return fmt.Errorf("payload data: %w", err)
	}

	payload := c.newPayload(level, body, custom, sanitizedData)

	final, deliver := c.applyHook(payload)
	if !deliver {
		return nil
	}

	if err := c.transport.Send(ctx, final); err != nil {
		return fmt.Errorf("send payload: %w", err)
	}
	return nil
}

// applyHook runs the payload hook inside a recovery harness.
// A panicking hook drops only the current payload; subsequent reports are unaffected.
// Params: payload assembled envelope.
// Returns: final payload and delivery flag.
func (c *Client) applyHook(payload map[string]any) (final map[string]any, deliver bool) {
	if c.hook == nil {
		return payload, true
	}

	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("payload hook panicked, dropping payload",
				slog.String("panic", fmt.Sprint(r)),
			)
			final, deliver = nil, false
		}
	}()

	mutated, ok := c.hook(payload, nil)
	if !ok {
		c.logger.Debug("payload vetoed by hook")
		return nil, false
	}
	if mutated == nil {
		return payload, true
	}
	return mutated, true
}
