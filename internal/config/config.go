package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Transport names accepted by the serve command.
const (
	TransportStdio          = "stdio"
	TransportSSE            = "sse"
	TransportStreamableHTTP = "streamable-http"
)

// Config holds all configuration for the server. The SonarQube client itself
// never reads the environment; everything is resolved here once at startup.
type Config struct {
	// SonarQube server base URL
	URL string `mapstructure:"url"`

	// Bearer token; mutually exclusive with username/password
	Token string `mapstructure:"token"`

	// Basic auth pair
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`

	// Organization scoping for multi-tenant deployments
	Organization string `mapstructure:"organization"`

	// MCP transport (stdio, sse, streamable-http)
	Transport string `mapstructure:"transport"`

	// Listen address for the HTTP transports
	HTTPAddr string `mapstructure:"http_addr"`

	// Per-request timeout in seconds
	RequestTimeout int `mapstructure:"request_timeout"`

	// Verbose output
	Verbose bool `mapstructure:"verbose"`

	// Debug mode
	Debug bool `mapstructure:"debug"`
}

// DefaultConfig returns configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		URL:            "http://localhost:9000",
		Transport:      TransportStdio,
		HTTPAddr:       ":8000",
		RequestTimeout: 30,
	}
}

// Load loads configuration with the following precedence (lowest to highest):
// 1. Default values
// 2. Config file (~/sonarqube-mcp.yaml or ./sonarqube-mcp.yaml)
// 3. Environment variables (SONARQUBE_*)
// 4. CLI flags (handled by caller)
func Load() (*Config, error) {
	return LoadFromFile("")
}

// LoadFromFile loads configuration from a specific file path. If path is
// empty, standard locations are searched.
func LoadFromFile(configPath string) (*Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("url", defaults.URL)
	v.SetDefault("token", "")
	v.SetDefault("username", "")
	v.SetDefault("password", "")
	v.SetDefault("organization", "")
	v.SetDefault("transport", defaults.Transport)
	v.SetDefault("http_addr", defaults.HTTPAddr)
	v.SetDefault("request_timeout", defaults.RequestTimeout)
	v.SetDefault("verbose", false)
	v.SetDefault("debug", false)

	v.SetConfigName("sonarqube-mcp")
	v.SetConfigType("yaml")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
			v.AddConfigPath(filepath.Join(xdgConfig, "sonarqube-mcp"))
		}
	}

	v.SetEnvPrefix("SONARQUBE")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// Config file not found is fine, env and defaults still apply
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid. Credential validation is
// the client's job; this only guards the server-level settings.
func (c *Config) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("url cannot be empty")
	}

	switch c.Transport {
	case TransportStdio, TransportSSE, TransportStreamableHTTP:
	default:
		return fmt.Errorf("invalid transport: %s (must be %s, %s, or %s)",
			c.Transport, TransportStdio, TransportSSE, TransportStreamableHTTP)
	}

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive")
	}

	if c.Transport != TransportStdio && c.HTTPAddr == "" {
		return fmt.Errorf("http_addr cannot be empty for the %s transport", c.Transport)
	}

	return nil
}
