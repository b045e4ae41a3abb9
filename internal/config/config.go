package config

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"

	"github.com/sethvargo/go-envconfig"
	"gopkg.in/yaml.v3"
)

var (
	// ErrInvalidAddress indicates the address is not a valid URL.
	ErrInvalidAddress = errors.New("invalid address")
	// ErrEndpointNotFound indicates a named endpoint does not exist.
	ErrEndpointNotFound = errors.New("endpoint not found")
)

// Compiled-in backend addresses. The live address is the production portal;
// the tunnel address is the development backend exposed through Localtunnel
// and may serve an interstitial verification page.
const (
	LiveURL   = "https://portal.ewan-geniuses.com/api"
	TunnelURL = "https://myewanlaravelapp.loca.lt/api"

	// DefaultEndpoint is the preset used on a cold start with no saved
	// selection and no override.
	DefaultEndpoint = "live"
)

// Endpoint is a named backend address preset.
type Endpoint struct {
	// Name is the unique identifier for this endpoint.
	Name string `yaml:"name"`
	// Address is the backend base URL including the API path prefix.
	Address string `yaml:"address"`
}

// NotificationConfig holds settings for desktop notifications.
type NotificationConfig struct {
	// Enabled enables desktop notifications.
	Enabled bool `yaml:"enabled,omitempty"`
	// OnSessionExpired sends a notification when the stored credential is
	// rejected and the session is cleared.
	OnSessionExpired bool `yaml:"on_session_expired,omitempty"`
	// OnConnectionIssue sends a notification when the backend is unreachable
	// or hidden behind a tunnel verification page.
	OnConnectionIssue bool `yaml:"on_connection_issue,omitempty"`
}

// Config represents the Ewan CLI configuration.
type Config struct {
	// Current is the name of the selected endpoint preset.
	Current string `yaml:"current,omitempty"`
	// Override is a free-text backend address that takes precedence over
	// the selected preset when set.
	Override string `yaml:"override,omitempty"`
	// Endpoints is the list of known backend endpoints.
	Endpoints []Endpoint `yaml:"endpoints,omitempty"`
	// LogLevel is the logging level (trace, debug, info, warn, error).
	LogLevel string `yaml:"log_level,omitempty"`
	// Notifications holds desktop notification settings.
	Notifications NotificationConfig `yaml:"notifications,omitempty"`

	// filePath is the path where this config was loaded from.
	filePath string `yaml:"-"`
}

// envOverrides are environment variables layered on top of the config file.
type envOverrides struct {
	Endpoint string `env:"EWAN_ENDPOINT"`
	LogLevel string `env:"EWAN_LOG_LEVEL"`
}

// Default returns a new Config with default values.
func Default() *Config {
	paths := GetPaths()
	return &Config{
		Current: DefaultEndpoint,
		Endpoints: []Endpoint{
			{Name: "live", Address: LiveURL},
			{Name: "tunnel", Address: TunnelURL},
		},
		LogLevel: "info",
		Notifications: NotificationConfig{
			Enabled:           false,
			OnSessionExpired:  true,
			OnConnectionIssue: true,
		},
		filePath: paths.ConfigFile,
	}
}

// Load loads the configuration from the default path and applies
// environment variable overrides.
func Load() (*Config, error) {
	paths := GetPaths()
	cfg, err := LoadFrom(paths.ConfigFile)
	if err != nil {
		return nil, err
	}

	var env envOverrides
	if err := envconfig.Process(context.Background(), &env); err != nil {
		return nil, fmt.Errorf("failed to read environment overrides: %w", err)
	}
	if env.Endpoint != "" {
		cfg.Override = env.Endpoint
	}
	if env.LogLevel != "" {
		cfg.LogLevel = env.LogLevel
	}

	return cfg, nil
}

// LoadFrom loads the configuration from a specific path.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()
	cfg.filePath = path

	// #nosec G304 - path is the config file path (controlled, from user config directory)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// No config file, return defaults
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// The compiled-in presets are always present even when the saved file
	// predates them or lists its own.
	cfg.ensurePreset("live", LiveURL)
	cfg.ensurePreset("tunnel", TunnelURL)
	if cfg.Current == "" {
		cfg.Current = DefaultEndpoint
	}

	return cfg, nil
}

func (c *Config) ensurePreset(name, address string) {
	for _, ep := range c.Endpoints {
		if ep.Name == name {
			return
		}
	}
	c.Endpoints = append(c.Endpoints, Endpoint{Name: name, Address: address})
}

// Save writes the configuration to its file path.
func (c *Config) Save() error {
	if c.filePath == "" {
		return errors.New("config file path not set")
	}

	paths := GetPaths()
	if err := paths.EnsureDirs(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(c.filePath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GetEndpoint returns an endpoint preset by name.
func (c *Config) GetEndpoint(name string) (*Endpoint, error) {
	for i := range c.Endpoints {
		if c.Endpoints[i].Name == name {
			return &c.Endpoints[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrEndpointNotFound, name)
}

// BaseURL returns the active backend base address: the override if set,
// else the current preset, else the compiled-in default.
func (c *Config) BaseURL() string {
	if c.Override != "" {
		return c.Override
	}
	if ep, err := c.GetEndpoint(c.Current); err == nil {
		return ep.Address
	}
	return LiveURL
}

// SetCurrent selects a named endpoint preset and clears any override.
func (c *Config) SetCurrent(name string) error {
	if _, err := c.GetEndpoint(name); err != nil {
		return err
	}
	c.Current = name
	c.Override = ""
	return nil
}

// SetOverride sets a free-text backend address.
func (c *Config) SetOverride(address string) error {
	if err := ValidateAddress(address); err != nil {
		return err
	}
	c.Override = address
	return nil
}

// ResetEndpoint clears the override and returns to the default preset.
func (c *Config) ResetEndpoint() {
	c.Override = ""
	c.Current = DefaultEndpoint
}

// ValidateAddress validates that an address is a usable HTTP/HTTPS URL.
func ValidateAddress(address string) error {
	if address == "" {
		return fmt.Errorf("%w: address is required", ErrInvalidAddress)
	}

	parsed, err := url.Parse(address)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%w: address must use http or https scheme, got %q", ErrInvalidAddress, parsed.Scheme)
	}

	if parsed.Host == "" {
		return fmt.Errorf("%w: address must have a host", ErrInvalidAddress)
	}

	return nil
}

// FilePath returns the path where this config was loaded from.
func (c *Config) FilePath() string {
	return c.filePath
}
