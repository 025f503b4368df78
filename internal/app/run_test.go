package app

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"rollbardemo/internal/config"
	"rollbardemo/internal/rollbar"
	"rollbardemo/internal/scenario"
)

// TestRunWithDeps_ValidatesRuntime verifies runtime input checks.
// Params: t testing.T for assertions.
// Returns: none.
func TestRunWithDeps_ValidatesRuntime(t *testing.T) {
	harness := newHarness()
	deps := newTestDeps(harness)
	base := Runtime{ConfigDir: ".", Input: strings.NewReader(""), Output: &bytes.Buffer{}}

	rt := base
	rt.ConfigDir = "  "
	if err := runWithDeps(context.Background(), rt, deps); err == nil {
		t.Fatalf("expected error for blank config directory")
	}

	rt = base
	rt.Input = nil
	if err := runWithDeps(context.Background(), rt, deps); err == nil {
		t.Fatalf("expected error for nil input stream")
	}

	rt = base
	rt.Output = nil
	if err := runWithDeps(context.Background(), rt, deps); err == nil {
		t.Fatalf("expected error for nil output stream")
	}
}

// TestRunWithDeps_SettingsLoadFailureSurfaces verifies load errors are wrapped.
// Params: t testing.T for assertions.
// Returns: none.
func TestRunWithDeps_SettingsLoadFailureSurfaces(t *testing.T) {
	harness := newHarness()
	harness.loadErr = errors.New("bad yaml")
	deps := newTestDeps(harness)

	err := runWithDeps(context.Background(), testRuntime(&bytes.Buffer{}), deps)
	if err == nil {
		t.Fatalf("expected settings load failure")
	}
	if !strings.Contains(err.Error(), "load settings") {
		t.Fatalf("unexpected error: %v", err)
	}
}

// TestRunWithDeps_InvalidPolicyFailsEnricher verifies enricher setup errors.
// Params: t testing.T for assertions.
// Returns: none.
func TestRunWithDeps_InvalidPolicyFailsEnricher(t *testing.T) {
	harness := newHarness()
	harness.settings.Rollbar.Policy = "bogus"
	deps := newTestDeps(harness)

	err := runWithDeps(context.Background(), testRuntime(&bytes.Buffer{}), deps)
	if err == nil {
		t.Fatalf("expected enricher setup failure")
	}
	if !strings.Contains(err.Error(), "build enricher") {
		t.Fatalf("unexpected error: %v", err)
	}
}

// TestRunWithDeps_RunsMenuInteractively verifies the interactive path.
// Params: t testing.T for assertions.
// Returns: none.
func TestRunWithDeps_RunsMenuInteractively(t *testing.T) {
	harness := newHarness()
	deps := newTestDeps(harness)
	var out bytes.Buffer

	if err := runWithDeps(context.Background(), testRuntime(&out), deps); err != nil {
		t.Fatalf("run: %v", err)
	}

	if got := harness.menu.Runs(); got != 1 {
		t.Fatalf("unexpected menu run count: %d", got)
	}
	if got := harness.client.Closes(); got != 1 {
		t.Fatalf("unexpected client close count: %d", got)
	}
	if !strings.Contains(out.String(), "Rollbar initialized successfully!") {
		t.Fatalf("missing startup banner: %q", out.String())
	}
	if !strings.Contains(out.String(), "Starting interactive demo...") {
		t.Fatalf("missing startup banner: %q", out.String())
	}
}

// TestRunWithDeps_WiresEnrichmentHook verifies the client hook enriches
// payloads according to the loaded settings.
// Params: t testing.T for assertions.
// Returns: none.
func TestRunWithDeps_WiresEnrichmentHook(t *testing.T) {
	harness := newHarness()
	deps := newTestDeps(harness)

	if err := runWithDeps(context.Background(), testRuntime(&bytes.Buffer{}), deps); err != nil {
		t.Fatalf("run: %v", err)
	}
	if harness.hook == nil {
		t.Fatalf("client built without a payload hook")
	}

	payload := map[string]any{
		"access_token": "test-token",
		"data": map[string]any{
			"level": "error",
			"body": map[string]any{
				"trace": map[string]any{
					"exception": map[string]any{"class": "TestError", "message": "boom"},
				},
			},
		},
	}

	mutated, ok := harness.hook(payload, nil)
	if !ok {
		t.Fatalf("hook vetoed an error payload")
	}
	data, castOK := mutated["data"].(map[string]any)
	if !castOK {
		t.Fatalf("mutated payload has no data map: %+v", mutated)
	}
	if got := data["framework"]; got != "oreore_framework 1.0" {
		t.Fatalf("unexpected framework: %v", got)
	}
	person, castOK := data["person"].(map[string]any)
	if !castOK {
		t.Fatalf("missing person: %+v", data)
	}
	if got := person["id"]; got != "1234" {
		t.Fatalf("unexpected person id: %v", got)
	}
}

// TestRunWithDeps_ScenarioFilterRunsMatches verifies the non-interactive path.
// Params: t testing.T for assertions.
// Returns: none.
func TestRunWithDeps_ScenarioFilterRunsMatches(t *testing.T) {
	harness := newHarness()
	deps := newTestDeps(harness)
	var out bytes.Buffer
	rt := testRuntime(&out)
	rt.ScenarioFilter = "error levels"

	if err := runWithDeps(context.Background(), rt, deps); err != nil {
		t.Fatalf("run: %v", err)
	}

	if got := harness.menu.Runs(); got != 0 {
		t.Fatalf("menu ran during scripted run: %d", got)
	}
	if got, _ := harness.client.Counts(); got != 5 {
		t.Fatalf("unexpected message count: %d", got)
	}
	if got := harness.client.Closes(); got != 1 {
		t.Fatalf("unexpected client close count: %d", got)
	}
	if !strings.Contains(out.String(), ">> DEMO: Error Levels") {
		t.Fatalf("missing scenario output: %q", out.String())
	}
}

// TestRunWithDeps_NoScenarioMatchFails verifies unmatched filters error out.
// Params: t testing.T for assertions.
// Returns: none.
func TestRunWithDeps_NoScenarioMatchFails(t *testing.T) {
	harness := newHarness()
	deps := newTestDeps(harness)
	rt := testRuntime(&bytes.Buffer{})
	rt.ScenarioFilter = "no such demo"

	err := runWithDeps(context.Background(), rt, deps)
	if err == nil {
		t.Fatalf("expected error for unmatched filter")
	}
	if !strings.Contains(err.Error(), `no scenarios match "no such demo"`) {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := harness.client.Closes(); got != 1 {
		t.Fatalf("client not closed on failure: %d", got)
	}
}

// TestRunWithDeps_MenuFailurePropagates verifies menu errors are wrapped.
// Params: t testing.T for assertions.
// Returns: none.
func TestRunWithDeps_MenuFailurePropagates(t *testing.T) {
	harness := newHarness()
	harness.menu.fail = errors.New("pipe broken")
	deps := newTestDeps(harness)

	err := runWithDeps(context.Background(), testRuntime(&bytes.Buffer{}), deps)
	if err == nil {
		t.Fatalf("expected menu failure")
	}
	if !strings.Contains(err.Error(), "run menu") {
		t.Fatalf("unexpected error: %v", err)
	}
}

// TestRunWithDeps_CanceledContextExitsQuietly verifies shutdown maps to nil.
// Params: t testing.T for assertions.
// Returns: none.
func TestRunWithDeps_CanceledContextExitsQuietly(t *testing.T) {
	harness := newHarness()
	harness.menu.fail = context.Canceled
	deps := newTestDeps(harness)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := runWithDeps(ctx, testRuntime(&bytes.Buffer{}), deps); err != nil {
		t.Fatalf("expected quiet shutdown, got %v", err)
	}
	if got := harness.client.Closes(); got != 1 {
		t.Fatalf("client not closed on shutdown: %d", got)
	}
}

// TestBuildTransport_SelectsMode verifies sync/async transport assembly.
// Params: t testing.T for assertions.
// Returns: none.
func TestBuildTransport_SelectsMode(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	settings := testSettings()
	transport, err := buildTransport(settings, logger)
	if err != nil {
		t.Fatalf("build sync transport: %v", err)
	}
	if _, ok := transport.(*rollbar.HTTPTransport); !ok {
		t.Fatalf("unexpected sync transport type %T", transport)
	}

	settings.Rollbar.Transport = "async"
	transport, err = buildTransport(settings, logger)
	if err != nil {
		t.Fatalf("build async transport: %v", err)
	}
	asyncTransport, ok := transport.(*rollbar.AsyncTransport)
	if !ok {
		t.Fatalf("unexpected async transport type %T", transport)
	}
	if err := asyncTransport.Close(); err != nil {
		t.Fatalf("close async transport: %v", err)
	}

	settings.Rollbar.Transport = "carrier-pigeon"
	if _, err := buildTransport(settings, logger); err == nil {
		t.Fatalf("expected error for unsupported transport")
	}
}

// testSettings returns validated-shape settings for harness runs.
// Params: none.
// Returns: settings value with sync transport and errors_only policy.
func testSettings() *config.Settings {
	return &config.Settings{
		Environment: "testing",
		Rollbar: config.RollbarSettings{
			AccessToken: "test-token",
			CodeVersion: "abc123",
			Endpoint:    "https://api.rollbar.com/api/1/item/",
			Policy:      "errors_only",
			Transport:   "sync",
			Timeout:     config.Duration{Duration: 2 * time.Second},
			QueueSize:   10,
		},
		Person: config.PersonSettings{ID: "1234", Tenant: "tenant_name"},
	}
}

// testRuntime returns a runtime with an immediately exhausted input stream.
// Params: out receives console output.
// Returns: runtime value for runWithDeps.
func testRuntime(out io.Writer) Runtime {
	return Runtime{
		ConfigDir: ".",
		Input:     strings.NewReader(""),
		Output:    out,
	}
}

// harness bundles the fakes wired into runDeps.
type harness struct {
	settings *config.Settings
	loadErr  error
	client   *fakeReporterClient
	menu     *fakeMenu
	hook     rollbar.PayloadHook
}

// newHarness builds a harness with working defaults.
// Params: none.
// Returns: harness ready for newTestDeps.
func newHarness() *harness {
	return &harness{
		settings: testSettings(),
		client:   &fakeReporterClient{},
		menu:     &fakeMenu{},
	}
}

// newTestDeps wires the harness fakes into a dependency set.
// Params: h harness carrying fakes and captured state.
// Returns: runDeps for runWithDeps.
func newTestDeps(h *harness) runDeps {
	return runDeps{
		loadSettings: func(string, string) (*config.Settings, error) {
			if h.loadErr != nil {
				return nil, h.loadErr
			}
			return h.settings, nil
		},
		newLogger: func(config.LogConfig) (*slog.Logger, func(), error) {
			return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}, nil
		},
		newClient: func(_ context.Context, _ *config.Settings, hook rollbar.PayloadHook, _ *slog.Logger) (reporterCloser, error) {
			h.hook = hook
			return h.client, nil
		},
		newMenu: func([]scenario.Scenario, scenario.Reporter, io.Reader, io.Writer) (menuRunner, error) {
			return h.menu, nil
		},
	}
}

// fakeReporterClient records reports and close calls.
type fakeReporterClient struct {
	mu       sync.Mutex
	messages int
	errs     int
	closes   int
	fail     error
}

// ReportMessage counts a message-style report.
// Params: reporting arguments, all ignored.
// Returns: the configured failure, or nil.
func (c *fakeReporterClient) ReportMessage(context.Context, rollbar.Level, string, map[string]any, map[string]any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages++
	return c.fail
}

// ReportError counts an error-style report.
// Params: reporting arguments, all ignored.
// Returns: the configured failure, or nil.
func (c *fakeReporterClient) ReportError(context.Context, rollbar.Level, error, map[string]any, map[string]any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errs++
	return c.fail
}

// Close counts the shutdown call.
// Params: none.
// Returns: nil.
func (c *fakeReporterClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closes++
	return nil
}

// Counts returns the recorded message and error report totals.
// Params: none.
// Returns: message count and error count.
func (c *fakeReporterClient) Counts() (int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.messages, c.errs
}

// Closes returns how many times Close ran.
// Params: none.
// Returns: close count.
func (c *fakeReporterClient) Closes() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closes
}

// fakeMenu counts interactive loop starts and optionally fails.
type fakeMenu struct {
	mu   sync.Mutex
	runs int
	fail error
}

// Run counts the invocation.
// Params: ctx ignored.
// Returns: the configured failure, or nil.
func (m *fakeMenu) Run(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs++
	return m.fail
}

// Runs returns how many times the menu loop started.
// Params: none.
// Returns: run count.
func (m *fakeMenu) Runs() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.runs
}
