package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values applied when fields are absent from the config file.
const (
	DefaultHTTPPort       = 3000
	DefaultReadTimeout    = 10 * time.Second
	DefaultWriteTimeout   = 15 * time.Second
	DefaultRequestTimeout = 30 * time.Second
	DefaultMaxBodyBytes   = 64 << 10
	DefaultLogLevel       = "info"
	DefaultAuthHeader     = "X-API-Key"
)

// EnvPort overrides server.http_port when set.
const EnvPort = "PORT"

// Config is the top-level configuration.
type Config struct {
	Server ServerConfig `yaml:"server"`
}

// ServerConfig holds all server-side settings.
type ServerConfig struct {
	// HTTPPort is the port the API and static UI listen on (default 3000).
	HTTPPort int `yaml:"http_port"`

	// UIDir, when set, is served as static files with index.html fallback.
	UIDir string `yaml:"ui_dir"`

	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// RequestTimeout bounds handler execution for API routes.
	RequestTimeout time.Duration `yaml:"request_timeout"`

	// MaxBodyBytes caps the assessment request body.
	MaxBodyBytes int64 `yaml:"max_body_bytes"`

	// LogLevel is one of: debug | info | warn | error.
	LogLevel string `yaml:"log_level"`

	CORS    CORSConfig    `yaml:"cors"`
	Auth    AuthConfig    `yaml:"auth"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// CORSConfig controls cross-origin access for browser form clients.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// AuthConfig configures API key authentication for /api routes.
type AuthConfig struct {
	// Mode is one of: apikey | none.
	Mode string `yaml:"mode"`

	// Header is the request header carrying the key.
	Header string `yaml:"header"`

	// KeyEnv is the name of the environment variable holding the expected key.
	KeyEnv string `yaml:"key_env"`
}

// Key returns the API key resolved from the environment.
// Returns empty string if KeyEnv is unset or the variable is not found.
func (a AuthConfig) Key() string {
	if a.KeyEnv == "" {
		return ""
	}
	return os.Getenv(a.KeyEnv)
}

// MetricsConfig controls the /metrics endpoint.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Level returns the slog level for LogLevel. validate guarantees it parses.
func (s ServerConfig) Level() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// Load reads and parses the YAML config file at path.
// Missing optional fields are filled with sensible defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read file: %w", err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	return finish(cfg)
}

// Default returns the configuration used when no file is given, with the
// PORT override applied.
func Default() (*Config, error) {
	return finish(defaults())
}

func finish(cfg *Config) (*Config, error) {
	if err := applyEnv(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// defaults returns a Config pre-populated with default values.
func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:       DefaultHTTPPort,
			ReadTimeout:    DefaultReadTimeout,
			WriteTimeout:   DefaultWriteTimeout,
			RequestTimeout: DefaultRequestTimeout,
			MaxBodyBytes:   DefaultMaxBodyBytes,
			LogLevel:       DefaultLogLevel,
			CORS:           CORSConfig{AllowedOrigins: []string{"*"}},
			Auth:           AuthConfig{Mode: "none", Header: DefaultAuthHeader},
			Metrics:        MetricsConfig{Enabled: true},
		},
	}
}

func applyEnv(cfg *Config) error {
	v, ok := os.LookupEnv(EnvPort)
	if !ok || v == "" {
		return nil
	}
	port, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s=%q is not a port number", EnvPort, v)
	}
	cfg.Server.HTTPPort = port
	return nil
}

// validate checks required fields and structural constraints.
func validate(cfg *Config) error {
	s := cfg.Server
	if s.HTTPPort <= 0 || s.HTTPPort > 65535 {
		return fmt.Errorf("server.http_port %d out of range", s.HTTPPort)
	}
	if s.ReadTimeout <= 0 {
		return fmt.Errorf("server.read_timeout must be positive")
	}
	if s.WriteTimeout <= 0 {
		return fmt.Errorf("server.write_timeout must be positive")
	}
	if s.RequestTimeout <= 0 {
		return fmt.Errorf("server.request_timeout must be positive")
	}
	if s.MaxBodyBytes <= 0 {
		return fmt.Errorf("server.max_body_bytes must be positive")
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s.LogLevel)); err != nil {
		return fmt.Errorf("server.log_level: unknown level %q", s.LogLevel)
	}
	switch s.Auth.Mode {
	case "apikey", "none", "":
	default:
		return fmt.Errorf("server.auth.mode: unknown mode %q", s.Auth.Mode)
	}
	if s.Auth.Mode == "apikey" && s.Auth.KeyEnv == "" {
		return fmt.Errorf("server.auth.key_env is required when mode is apikey")
	}
	return nil
}
