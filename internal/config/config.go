// Package config provides configuration for the customer service agents.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

// Config holds the agent configuration.
type Config struct {
	// Database
	DatabaseURL string `envconfig:"DATABASE_URL" default:"file:customer_service.db?cache=shared&mode=rwc"`

	// Server settings
	Host        string `envconfig:"HOST" default:"127.0.0.1"`
	RouterPort  int    `envconfig:"ROUTER_PORT" default:"10020"`
	DataPort    int    `envconfig:"DATA_PORT" default:"10021"`
	SupportPort int    `envconfig:"SUPPORT_PORT" default:"10022"`

	// Peer addresses. Empty values are derived from Host and the ports.
	RouterURL  string `envconfig:"ROUTER_URL"`
	DataURL    string `envconfig:"DATA_URL"`
	SupportURL string `envconfig:"SUPPORT_URL"`

	// Timeouts and resilience
	AgentTimeout       time.Duration `envconfig:"AGENT_TIMEOUT" default:"30s"`
	BreakerMaxFailures uint32        `envconfig:"BREAKER_MAX_FAILURES" default:"5"`
	BreakerTimeout     time.Duration `envconfig:"BREAKER_TIMEOUT" default:"30s"`
	RateLimitRPS       float64       `envconfig:"RATE_LIMIT_RPS" default:"20"`
	RateLimitBurst     int           `envconfig:"RATE_LIMIT_BURST" default:"40"`

	// Conversation
	HistoryLimit int `envconfig:"HISTORY_LIMIT" default:"5"`

	Log     LogConfig
	Tracing TracingConfig
}

// LogConfig controls the zerolog setup. Keys are read as LOG_DEBUG and
// LOG_PRETTY_FORMAT.
type LogConfig struct {
	Debug        bool `envconfig:"DEBUG" default:"false"`
	PrettyFormat bool `envconfig:"PRETTY_FORMAT" default:"true"`
}

// TracingConfig controls OpenTelemetry tracing (TRACING_ENABLED, TRACING_EXPORTER).
type TracingConfig struct {
	Enabled  bool   `envconfig:"ENABLED" default:"false"`
	Exporter string `envconfig:"EXPORTER" default:"stdout"`
}

// Load reads envFile (or ./.env when envFile is empty and the file exists)
// into the environment and then processes the environment into a Config.
func Load(envFile string) (*Config, error) {
	envFile = strings.TrimSpace(envFile)
	if envFile != "" {
		if err := exportEnvironment(envFile); err != nil {
			return nil, fmt.Errorf("failed to load env file: %w", err)
		}
	} else if err := exportEnvironmentIfExists(".env"); err != nil {
		return nil, fmt.Errorf("failed to load default env file: %w", err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}
	cfg.fillPeerURLs()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges that envconfig cannot express.
func (c *Config) Validate() error {
	if c.HistoryLimit < 1 {
		return fmt.Errorf("HISTORY_LIMIT must be at least 1, got %d", c.HistoryLimit)
	}
	if c.AgentTimeout <= 0 {
		return fmt.Errorf("AGENT_TIMEOUT must be positive, got %s", c.AgentTimeout)
	}
	return nil
}

func (c *Config) fillPeerURLs() {
	if c.RouterURL == "" {
		c.RouterURL = fmt.Sprintf("http://%s:%d", c.Host, c.RouterPort)
	}
	if c.DataURL == "" {
		c.DataURL = fmt.Sprintf("http://%s:%d", c.Host, c.DataPort)
	}
	if c.SupportURL == "" {
		c.SupportURL = fmt.Sprintf("http://%s:%d", c.Host, c.SupportPort)
	}
}

func exportEnvironmentIfExists(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if info.IsDir() {
		return nil
	}
	return exportEnvironment(path)
}

// exportEnvironment copies the file's settings into the process environment.
// Variables that are already set win over the file.
func exportEnvironment(path string) error {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil {
		return err
	}

	for k, val := range v.AllSettings() {
		key := strings.ToUpper(k)
		if _, set := os.LookupEnv(key); set {
			continue
		}
		if err := os.Setenv(key, fmt.Sprint(val)); err != nil {
			return err
		}
	}
	return nil
}
