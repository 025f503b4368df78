package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultLogLevel     = "info"
	defaultLogFormat    = "line"
	defaultEnvironment  = "local"
	defaultEndpoint     = "https://api.rollbar.com/api/1/item/"
	defaultPolicy       = "errors_only"
	defaultTransport    = "async"
	defaultTimeout      = 5 * time.Second
	defaultQueueSize    = 100
	defaultPersonID     = "1234"
	defaultPersonTenant = "tenant_name"

	environmentVar   = "ENVIRONMENT"
	dotenvFileName   = ".env"
	settingsFileName = "settings.yaml"
)

// Duration wraps time.Duration for YAML parsing.
// Params: scalar duration string (e.g. "5s", "1m").
// Returns: parse error on invalid duration.
type Duration struct {
	time.Duration
}

// UnmarshalYAML parses YAML duration values.
// Params: node is the raw YAML scalar node.
// Returns: error when value is not a valid Go duration.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return fmt.Errorf("decode duration: %w", err)
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		d.Duration = 0
		return nil
	}

	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", value, err)
	}

	d.Duration = parsed
	return nil
}

// Settings represents the resolved application configuration.
// Params: layered YAML documents plus env/dotenv overrides.
// Returns: validated runtime settings.
type Settings struct {
	Environment string          `yaml:"-"`
	Rollbar     RollbarSettings `yaml:"rollbar"`
	Person      PersonSettings  `yaml:"person"`
	Log         LogConfig       `yaml:"log"`
}

// RollbarSettings contains reporting client connectivity and behavior options.
// Params: token, endpoint, delivery, and enrichment policy fields.
// Returns: reporting client settings.
type RollbarSettings struct {
	AccessToken string   `yaml:"access_token"`
	CodeVersion string   `yaml:"code_version"`
	Endpoint    string   `yaml:"endpoint"`
	Policy      string   `yaml:"policy"`
	Transport   string   `yaml:"transport"`
	Timeout     Duration `yaml:"timeout"`
	QueueSize   int      `yaml:"queue_size"`
}

// PersonSettings contains the process-wide identity attached to enriched payloads.
// Params: id and tenant defaults.
// Returns: person identity settings.
type PersonSettings struct {
	ID     string `yaml:"id"`
	Tenant string `yaml:"tenant"`
}

// LogConfig contains console/file logging configuration.
// Params: console and file sink options.
// Returns: logger sink settings.
type LogConfig struct {
	Console LogSinkConfig `yaml:"console"`
	File    LogSinkConfig `yaml:"file"`
}

// LogSinkConfig defines one logging sink.
// Params: sink options from YAML.
// Returns: sink setup.
type LogSinkConfig struct {
	Enabled bool   `yaml:"enabled"`
	Level   string `yaml:"level"`
	Format  string `yaml:"format"`
	Path    string `yaml:"path"`
}

// Load resolves settings for one environment from the app root directory.
// Precedence from high to low: process env, .env file values,
// settings.<environment>.yaml, settings.yaml, built-in defaults.
// Params: root app directory holding settings files; environment overrides the ENVIRONMENT variable when non-empty.
// Returns: validated settings pointer or error.
func Load(root string, environment string) (*Settings, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, fmt.Errorf("settings root is required")
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat settings root %q: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("settings root %q is not a directory", root)
	}

	if err := loadDotenv(root); err != nil {
		return nil, err
	}

	env := strings.TrimSpace(environment)
	if env == "" {
		env = EnvironmentName()
	}

	var settings Settings
	if err := decodeSettingsFile(filepath.Join(root, settingsFileName), &settings); err != nil {
		return nil, err
	}
	overlay := filepath.Join(root, fmt.Sprintf("settings.%s.yaml", env))
	if err := decodeSettingsFile(overlay, &settings); err != nil {
		return nil, err
	}

	if err := applyEnvOverrides(&settings); err != nil {
		return nil, err
	}

	settings.Environment = env
	settings.applyDefaults(root)

	if err := settings.validate(); err != nil {
		return nil, err
	}

	return &settings, nil
}

// EnvironmentName resolves the active environment name from process env.
// Params: none.
// Returns: ENVIRONMENT value or the "local" default.
func EnvironmentName() string {
	name := strings.TrimSpace(os.Getenv(environmentVar))
	if name == "" {
		return defaultEnvironment
	}
	return name
}

// loadDotenv loads optional .env values into process env without overriding existing variables.
// Params: root app directory.
// Returns: error when the file exists but cannot be read.
func loadDotenv(root string) error {
	path := filepath.Join(root, dotenvFileName)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("stat dotenv %q: %w", path, err)
	}

	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load dotenv %q: %w", path, err)
	}
	return nil
}

// decodeSettingsFile decodes one optional YAML layer over already decoded values.
// Params: path settings file path; settings decode target carrying lower-precedence values.
// Returns: read/decode error; a missing file is skipped.
func decodeSettingsFile(path string, settings *Settings) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read settings %q: %w", path, err)
	}

	expanded := os.ExpandEnv(string(raw))
	if err := yaml.Unmarshal([]byte(expanded), settings); err != nil {
		return fmt.Errorf("decode YAML %q: %w", path, err)
	}
	return nil
}

// applyEnvOverrides applies nested process env values over file settings.
// Variable names follow the SECTION__FIELD form; empty values are ignored.
// Params: settings decode target carrying file-layer values.
// Returns: error when a typed override cannot be parsed.
func applyEnvOverrides(settings *Settings) error {
	overrides := []struct {
		key   string
		apply func(*Settings, string) error
	}{
		{key: "ROLLBAR__ACCESS_TOKEN", apply: func(s *Settings, value string) error {
			s.Rollbar.AccessToken = value
			return nil
		}},
		{key: "ROLLBAR__CODE_VERSION", apply: func(s *Settings, value string) error {
			s.Rollbar.CodeVersion = value
			return nil
		}},
		{key: "ROLLBAR__ENDPOINT", apply: func(s *Settings, value string) error {
			s.Rollbar.Endpoint = value
			return nil
		}},
		{key: "ROLLBAR__POLICY", apply: func(s *Settings, value string) error {
			s.Rollbar.Policy = value
			return nil
		}},
		{key: "ROLLBAR__TRANSPORT", apply: func(s *Settings, value string) error {
			s.Rollbar.Transport = value
			return nil
		}},
		{key: "ROLLBAR__TIMEOUT", apply: func(s *Settings, value string) error {
			parsed, err := time.ParseDuration(value)
			if err != nil {
				return fmt.Errorf("parse duration %q: %w", value, err)
			}
			s.Rollbar.Timeout.Duration = parsed
			return nil
		}},
		{key: "ROLLBAR__QUEUE_SIZE", apply: func(s *Settings, value string) error {
			parsed, err := strconv.Atoi(value)
			if err != nil {
				return fmt.Errorf("parse int %q: %w", value, err)
			}
			s.Rollbar.QueueSize = parsed
			return nil
		}},
		{key: "PERSON__ID", apply: func(s *Settings, value string) error {
			s.Person.ID = value
			return nil
		}},
		{key: "PERSON__TENANT", apply: func(s *Settings, value string) error {
			s.Person.Tenant = value
			return nil
		}},
	}

	for _, override := range overrides {
		value, ok := os.LookupEnv(override.key)
		if !ok || strings.TrimSpace(value) == "" {
			continue
		}
		if err := override.apply(settings, strings.TrimSpace(value)); err != nil {
			return fmt.Errorf("apply env %s: %w", override.key, err)
		}
	}

	return nil
}

// applyDefaults fills defaults for optional configuration fields.
// Params: root app directory used for code version lookup.
// Returns: none.
func (s *Settings) applyDefaults(root string) {
	s.Log.Console.Level = lowerOrDefault(s.Log.Console.Level, defaultLogLevel)
	s.Log.Console.Format = lowerOrDefault(s.Log.Console.Format, defaultLogFormat)
	s.Log.File.Level = lowerOrDefault(s.Log.File.Level, defaultLogLevel)
	s.Log.File.Format = lowerOrDefault(s.Log.File.Format, "json")

	if !s.Log.Console.Enabled && !s.Log.File.Enabled {
		s.Log.Console.Enabled = true
	}

	if strings.TrimSpace(s.Rollbar.Endpoint) == "" {
		s.Rollbar.Endpoint = defaultEndpoint
	}
	s.Rollbar.Policy = lowerOrDefault(s.Rollbar.Policy, defaultPolicy)
	s.Rollbar.Transport = lowerOrDefault(s.Rollbar.Transport, defaultTransport)
	if s.Rollbar.Timeout.Duration == 0 {
		s.Rollbar.Timeout.Duration = defaultTimeout
	}
	if s.Rollbar.QueueSize == 0 {
		s.Rollbar.QueueSize = defaultQueueSize
	}

	if strings.TrimSpace(s.Person.ID) == "" {
		s.Person.ID = defaultPersonID
	}
	if strings.TrimSpace(s.Person.Tenant) == "" {
		s.Person.Tenant = defaultPersonTenant
	}

	if strings.TrimSpace(s.Rollbar.CodeVersion) == "" {
		s.Rollbar.CodeVersion = resolveCodeVersion(root)
	}
}

// validate checks settings consistency and required fields.
// Params: receiver settings pointer.
// Returns: validation error for invalid or incomplete settings.
func (s *Settings) validate() error {
	if strings.TrimSpace(s.Rollbar.AccessToken) == "" {
		return fmt.Errorf("rollbar.access_token is required")
	}

	endpoint, err := url.Parse(s.Rollbar.Endpoint)
	if err != nil {
		return fmt.Errorf("rollbar.endpoint is not a valid URL: %w", err)
	}
	if endpoint.Scheme != "http" && endpoint.Scheme != "https" {
		return fmt.Errorf("rollbar.endpoint must be an http(s) URL, got %q", s.Rollbar.Endpoint)
	}
	if endpoint.Host == "" {
		return fmt.Errorf("rollbar.endpoint is missing a host")
	}

	switch s.Rollbar.Policy {
	case "errors_only", "pass_through":
	default:
		return fmt.Errorf("rollbar.policy must be one of: errors_only, pass_through")
	}

	switch s.Rollbar.Transport {
	case "sync", "async":
	default:
		return fmt.Errorf("rollbar.transport must be one of: sync, async")
	}

	if s.Rollbar.Timeout.Duration <= 0 {
		return fmt.Errorf("rollbar.timeout must be > 0")
	}
	if s.Rollbar.QueueSize <= 0 {
		return fmt.Errorf("rollbar.queue_size must be > 0")
	}

	if err := validateSink("log.console", s.Log.Console, false); err != nil {
		return err
	}
	if err := validateSink("log.file", s.Log.File, true); err != nil {
		return err
	}

	return nil
}

// validateSink validates one logging sink configuration.
// Params: name is sink path for errors; sink is sink config; requirePath means path required when enabled.
// Returns: validation error or nil.
func validateSink(name string, sink LogSinkConfig, requirePath bool) error {
	if sink.Enabled && requirePath && strings.TrimSpace(sink.Path) == "" {
		return fmt.Errorf("%s.path is required when sink is enabled", name)
	}

	if err := validateLogLevel(sink.Level); err != nil {
		return fmt.Errorf("%s.level: %w", name, err)
	}
	if err := validateLogFormat(sink.Format); err != nil {
		return fmt.Errorf("%s.format: %w", name, err)
	}

	return nil
}

// validateLogLevel validates known log levels.
// Params: level is lower-case level name.
// Returns: error when level is unsupported.
func validateLogLevel(level string) error {
	switch strings.TrimSpace(strings.ToLower(level)) {
	case "info", "warn", "error", "panic", "debug":
		return nil
	default:
		return fmt.Errorf("unsupported value %q", level)
	}
}

// validateLogFormat validates supported sink formats.
// Params: format is lower-case format name.
// Returns: error when format is unsupported.
func validateLogFormat(format string) error {
	switch strings.TrimSpace(strings.ToLower(format)) {
	case "line", "json":
		return nil
	default:
		return fmt.Errorf("unsupported value %q", format)
	}
}

// lowerOrDefault returns a trimmed lower-case value or default fallback.
// Params: value to normalize; fallback value when empty.
// Returns: normalized value.
func lowerOrDefault(value, fallback string) string {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if normalized == "" {
		return fallback
	}
	return normalized
}
