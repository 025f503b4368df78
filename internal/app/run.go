package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"rollbardemo/internal/config"
	"rollbardemo/internal/enrich"
	"rollbardemo/internal/logging"
	"rollbardemo/internal/menu"
	"rollbardemo/internal/rollbar"
	"rollbardemo/internal/scenario"
)

// Runtime defines runtime inputs required to start the demo.
// Params: ConfigDir holds the settings files; Environment optionally
// overrides the environment name; ScenarioFilter selects a non-interactive
// run; Input and Output are the console streams.
// Returns: Runtime value used by Run.
type Runtime struct {
	ConfigDir      string
	Environment    string
	ScenarioFilter string
	Input          io.Reader
	Output         io.Writer
}

// reporterCloser pairs the scenario reporting surface with client shutdown.
type reporterCloser interface {
	scenario.Reporter
	Close() error
}

type menuRunner interface {
	Run(context.Context) error
}

type runDeps struct {
	loadSettings func(root, environment string) (*config.Settings, error)
	newLogger    func(config.LogConfig) (*slog.Logger, func(), error)
	newClient    func(ctx context.Context, settings *config.Settings, hook rollbar.PayloadHook, logger *slog.Logger) (reporterCloser, error)
	newMenu      func(scenarios []scenario.Scenario, reporter scenario.Reporter, in io.Reader, out io.Writer) (menuRunner, error)
}

// Run loads settings, builds the enriching report client, and drives either
// the interactive menu or the scenarios selected by the filter.
// Params: ctx controls lifecycle; rt provides runtime inputs.
// Returns: error on startup or scenario failure, nil on graceful exit.
func Run(ctx context.Context, rt Runtime) error {
	return runWithDeps(ctx, rt, defaultRunDeps())
}

// runWithDeps executes the demo lifecycle using injectable dependencies.
// Params: ctx controls lifecycle; rt runtime inputs; deps constructors.
// Returns: runtime error or nil on graceful exit.
func runWithDeps(ctx context.Context, rt Runtime, deps runDeps) error {
	if strings.TrimSpace(rt.ConfigDir) == "" {
		return fmt.Errorf("config directory is required")
	}
	if rt.Input == nil {
		return fmt.Errorf("input stream is required")
	}
	if rt.Output == nil {
		return fmt.Errorf("output stream is required")
	}

	settings, err := deps.loadSettings(rt.ConfigDir, rt.Environment)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	logger, closeLogger, err := deps.newLogger(settings.Log)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer closeLogger()

	enricher, err := enrich.New(enrich.Policy(settings.Rollbar.Policy), enrich.PersonInfo{
		ID:     settings.Person.ID,
		Tenant: settings.Person.Tenant,
	}, logger)
	if err != nil {
		return fmt.Errorf("build enricher: %w", err)
	}

	client, err := deps.newClient(ctx, settings, enricher.Hook(), logger)
	if err != nil {
		return fmt.Errorf("build reporting client: %w", err)
	}
	defer func() {
		if closeErr := client.Close(); closeErr != nil {
			logger.Error("close reporting client", slog.String("error", closeErr.Error()))
		}
	}()

	logStartup(logger, settings)

	if strings.TrimSpace(rt.ScenarioFilter) != "" {
		if err := runScenarios(ctx, rt.ScenarioFilter, client, rt.Output); err != nil {
			if ctx.Err() != nil {
				logger.Info("demo stopped", slog.String("reason", ctx.Err().Error()))
				return nil
			}
			return err
		}
		logger.Info("demo stopped", slog.String("reason", "scenarios completed"))
		return nil
	}

	fmt.Fprintln(rt.Output)
	fmt.Fprintln(rt.Output, "Rollbar initialized successfully!")
	fmt.Fprintln(rt.Output, "Starting interactive demo...")
	fmt.Fprintln(rt.Output)

	m, err := deps.newMenu(scenario.All(), client, rt.Input, rt.Output)
	if err != nil {
		return fmt.Errorf("build menu: %w", err)
	}
	if err := m.Run(ctx); err != nil {
		if ctx.Err() != nil {
			logger.Info("demo stopped", slog.String("reason", ctx.Err().Error()))
			return nil
		}
		return fmt.Errorf("run menu: %w", err)
	}

	logger.Info("demo stopped", slog.String("reason", "menu exited"))
	return nil
}

// defaultRunDeps provides production runtime dependencies.
// Params: none.
// Returns: dependency set used by Run.
func defaultRunDeps() runDeps {
	return runDeps{
		loadSettings: config.Load,
		newLogger:    logging.New,
		newClient: func(ctx context.Context, settings *config.Settings, hook rollbar.PayloadHook, logger *slog.Logger) (reporterCloser, error) {
			transport, err := buildTransport(settings, logger)
			if err != nil {
				return nil, err
			}
			return rollbar.New(ctx, rollbar.Config{
				AccessToken: settings.Rollbar.AccessToken,
				Environment: settings.Environment,
				CodeVersion: settings.Rollbar.CodeVersion,
				Hook:        hook,
				Transport:   transport,
				Logger:      logger,
			})
		},
		newMenu: func(scenarios []scenario.Scenario, reporter scenario.Reporter, in io.Reader, out io.Writer) (menuRunner, error) {
			return menu.New(scenarios, reporter, in, out)
		},
	}
}

// buildTransport assembles the delivery chain selected by settings.
// Params: settings validated runtime settings; logger used by async delivery.
// Returns: transport or an unsupported-mode error.
func buildTransport(settings *config.Settings, logger *slog.Logger) (rollbar.Transport, error) {
	httpTransport := rollbar.NewHTTPTransport(
		settings.Rollbar.Endpoint,
		settings.Rollbar.AccessToken,
		settings.Rollbar.Timeout.Duration,
	)

	switch settings.Rollbar.Transport {
	case "sync":
		return httpTransport, nil
	case "async":
		return rollbar.NewAsyncTransport(httpTransport, settings.Rollbar.QueueSize, logger), nil
	default:
		return nil, fmt.Errorf("unsupported transport %q", settings.Rollbar.Transport)
	}
}

// runScenarios executes every scenario matching the filter, in display order.
// Params: ctx bounds the runs; filter wildcard pattern; reporter receives the
// events; out shows progress.
// Returns: first scenario failure, or an error when nothing matches.
func runScenarios(ctx context.Context, filter string, reporter scenario.Reporter, out io.Writer) error {
	matched, err := scenario.Match(filter)
	if err != nil {
		return fmt.Errorf("select scenarios: %w", err)
	}
	if len(matched) == 0 {
		return fmt.Errorf("no scenarios match %q", filter)
	}

	for _, s := range matched {
		if err := s.Run(ctx, reporter, out); err != nil {
			return fmt.Errorf("run scenario %q: %w", s.Name(), err)
		}
	}
	return nil
}

// logStartup emits initial startup metadata.
// Params: logger is the initialized slog logger; settings validated settings.
// Returns: none.
func logStartup(logger *slog.Logger, settings *config.Settings) {
	logger.Info(
		"demo started",
		slog.String("environment", settings.Environment),
		slog.String("code_version", settings.Rollbar.CodeVersion),
		slog.String("policy", settings.Rollbar.Policy),
		slog.String("transport", settings.Rollbar.Transport),
		slog.Int("scenarios", len(scenario.All())),
	)
}
