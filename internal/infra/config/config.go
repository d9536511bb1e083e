// Package config provides application-wide configuration.
// Values are resolved once at startup: defaults, then an optional YAML file,
// then SUMMARYGATE_* environment variables. The result is read-only afterwards.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "SUMMARYGATE_"

// MaxProbeTimeout bounds the health probe so /health stays cheap.
const MaxProbeTimeout = 5 * time.Second

// Config holds runtime configuration for summarygate.
type Config struct {
	Server  ServerConfig  `yaml:"server"  envPrefix:"SERVER_"`
	Ollama  OllamaConfig  `yaml:"ollama"  envPrefix:"OLLAMA_"`
	Log     LogConfig     `yaml:"log"     envPrefix:"LOG_"`
	Metrics MetricsConfig `yaml:"metrics" envPrefix:"METRICS_"`
	MCP     MCPConfig     `yaml:"mcp"     envPrefix:"MCP_"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"HOST"`
	Port            int           `yaml:"port"             env:"PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"WRITE_TIMEOUT"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"IDLE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"`
}

// OllamaConfig configures the inference backend.
type OllamaConfig struct {
	BaseURL         string        `yaml:"base_url"         env:"BASE_URL"`
	Model           string        `yaml:"model"            env:"MODEL"`
	ProbeTimeout    time.Duration `yaml:"probe_timeout"    env:"PROBE_TIMEOUT"`
	GenerateTimeout time.Duration `yaml:"generate_timeout" env:"GENERATE_TIMEOUT"`
	// MaxConcurrent caps in-flight generate calls; 0 disables the cap.
	MaxConcurrent int `yaml:"max_concurrent" env:"MAX_CONCURRENT"`
}

// LogConfig selects the zap logger flavour.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LEVEL"`  // debug | info | warn | error
	Format string `yaml:"format" env:"FORMAT"` // json | console
}

// MetricsConfig toggles the /metrics endpoint.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled" env:"ENABLED"`
}

// MCPConfig toggles the /mcp endpoint.
type MCPConfig struct {
	Enabled bool `yaml:"enabled" env:"ENABLED"`
}

// Default returns the configuration used when nothing is overridden.
// It matches a stock local Ollama install.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        8000,
			ReadTimeout: 15 * time.Second,
			// Must outlive the generate timeout or slow summaries get cut off mid-write.
			WriteTimeout:    75 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Ollama: OllamaConfig{
			BaseURL:         "http://localhost:11434",
			Model:           "llama2",
			ProbeTimeout:    5 * time.Second,
			GenerateTimeout: 60 * time.Second,
			MaxConcurrent:   4,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Metrics: MetricsConfig{Enabled: true},
		MCP:     MCPConfig{Enabled: true},
	}
}

// Load resolves configuration from defaults, the YAML file at path (skipped
// when path is empty) and the environment, then validates it.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, fmt.Errorf("config: parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	var errs []error

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("server.shutdown_timeout must be positive"))
	}
	// Zero disables the write deadline.
	if c.Server.WriteTimeout > 0 && c.Server.WriteTimeout <= c.Ollama.GenerateTimeout {
		errs = append(errs, fmt.Errorf("server.write_timeout %s must exceed ollama.generate_timeout %s",
			c.Server.WriteTimeout, c.Ollama.GenerateTimeout))
	}

	u, err := url.Parse(c.Ollama.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("ollama.base_url %q is not an absolute URL", c.Ollama.BaseURL))
	}
	if c.Ollama.Model == "" {
		errs = append(errs, errors.New("ollama.model is required"))
	}
	if c.Ollama.ProbeTimeout <= 0 || c.Ollama.ProbeTimeout > MaxProbeTimeout {
		errs = append(errs, fmt.Errorf("ollama.probe_timeout must be in (0, %s]", MaxProbeTimeout))
	}
	if c.Ollama.GenerateTimeout <= 0 {
		errs = append(errs, errors.New("ollama.generate_timeout must be positive"))
	}
	if c.Ollama.MaxConcurrent < 0 {
		errs = append(errs, errors.New("ollama.max_concurrent must not be negative"))
	}

	switch c.Log.Format {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("log.format %q must be json or console", c.Log.Format))
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("config: %w", errors.Join(errs...))
}

// Addr returns the listen address in host:port form.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}
