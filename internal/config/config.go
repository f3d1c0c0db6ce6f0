// Package config provides environment-driven configuration for the social
// graph service.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Secret wraps a sensitive string to prevent accidental logging or marshalling.
type Secret string

// String implements fmt.Stringer, returning a redacted placeholder.
func (s Secret) String() string { return "[REDACTED]" }

// GoString implements fmt.GoStringer, returning a redacted placeholder.
func (s Secret) GoString() string { return "[REDACTED]" }

// MarshalText implements encoding.TextMarshaler, returning a redacted placeholder.
func (s Secret) MarshalText() ([]byte, error) { return []byte("[REDACTED]"), nil }

// Value returns the underlying secret string.
func (s Secret) Value() string { return string(s) }

// Store backends.
const (
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

// Trace exporters.
const (
	TraceNone   = "none"
	TraceStdout = "stdout"
	TraceOTLP   = "otlp"
)

// Config holds all application configuration values.
type Config struct {
	DatabaseURL  Secret
	SQLitePath   string
	Port         string
	ListenHost   string
	MetricsPort  string
	CORSOrigins  []string
	LogLevel     string
	DBMaxConns   int
	EnableHSTS   bool
	ChangeBuffer int

	RankDamping       float64
	RankMaxIterations int
	RankTolerance     float64
	RecommendAlpha    float64
	RecommendBeta     float64

	TraceExporter string
	OTLPEndpoint  string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	return LoadWithDatabase("", "")
}

// LoadWithDatabase is Load with the store selection taken from the
// arguments when either is non-empty, as the CLI flags do.
func LoadWithDatabase(databaseURL, sqlitePath string) (*Config, error) {
	if databaseURL == "" && sqlitePath == "" {
		databaseURL = os.Getenv("DATABASE_URL")
		sqlitePath = os.Getenv("SQLITE_PATH")
	}

	cfg := &Config{
		DatabaseURL:   Secret(databaseURL),
		SQLitePath:    sqlitePath,
		Port:          envOrDefault("PORT", "3040"),
		ListenHost:    envOrDefault("LISTEN_HOST", "127.0.0.1"),
		MetricsPort:   envOrDefault("METRICS_PORT", "9092"),
		LogLevel:      envOrDefault("LOG_LEVEL", "info"),
		EnableHSTS:    envOrDefault("ENABLE_HSTS", "false") == "true",
		TraceExporter: envOrDefault("TRACE_EXPORTER", TraceNone),
		OTLPEndpoint:  envOrDefault("OTLP_ENDPOINT", ""),
	}

	var err error

	if cfg.DBMaxConns, err = envInt("DB_MAX_CONNS", 10); err != nil {
		return nil, err
	}

	if cfg.ChangeBuffer, err = envInt("CHANGE_BUFFER", 256); err != nil {
		return nil, err
	}

	if err := cfg.loadAnalytics(); err != nil {
		return nil, err
	}

	origins := envOrDefault("CORS_ORIGINS", "http://localhost:3002")
	cfg.CORSOrigins = strings.Split(origins, ",")

	for i, o := range cfg.CORSOrigins {
		cfg.CORSOrigins[i] = strings.TrimSpace(o)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// LoadAnalytics reads and validates only the RANK_* and RECOMMEND_* tuning.
// One-shot CLI commands use it where the full server configuration does not
// apply.
func LoadAnalytics() (*Config, error) {
	cfg := &Config{}
	if err := cfg.loadAnalytics(); err != nil {
		return nil, err
	}

	if err := cfg.validateAnalytics(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func (c *Config) loadAnalytics() error {
	var err error

	if c.RankMaxIterations, err = envInt("RANK_MAX_ITERATIONS", 100); err != nil {
		return err
	}

	if c.RankDamping, err = envFloat("RANK_DAMPING", 0.85); err != nil {
		return err
	}

	if c.RankTolerance, err = envFloat("RANK_TOLERANCE", 1e-6); err != nil {
		return err
	}

	if c.RecommendAlpha, err = envFloat("RECOMMEND_ALPHA", 0.7); err != nil {
		return err
	}

	if c.RecommendBeta, err = envFloat("RECOMMEND_BETA", 0.3); err != nil {
		return err
	}

	return nil
}

// Addr returns the listen address in host:port format.
func (c *Config) Addr() string {
	return c.ListenHost + ":" + c.Port
}

// MetricsAddr returns the metrics listener address in host:port format.
func (c *Config) MetricsAddr() string {
	return c.ListenHost + ":" + c.MetricsPort
}

// Backend reports which store the configuration selects.
func (c *Config) Backend() string {
	if c.SQLitePath != "" {
		return BackendSQLite
	}

	return BackendPostgres
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v, err := strconv.Atoi(envOrDefault(key, strconv.Itoa(fallback)))
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}

	return v, nil
}

func envFloat(key string, fallback float64) (float64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number: %w", key, err)
	}

	return v, nil
}
