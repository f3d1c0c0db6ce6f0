package config

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

func (c *Config) validate() error {
	if err := c.validateDatabase(); err != nil {
		return err
	}

	if err := c.validateNetwork(); err != nil {
		return err
	}

	if err := c.validateCORS(); err != nil {
		return err
	}

	if err := c.validateAnalytics(); err != nil {
		return err
	}

	if err := c.validateTracing(); err != nil {
		return err
	}

	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("LOG_LEVEL: %w", err)
	}

	return nil
}

func (c *Config) validateDatabase() error {
	if c.SQLitePath != "" {
		if c.DatabaseURL.Value() != "" {
			return fmt.Errorf("set only one of DATABASE_URL and SQLITE_PATH")
		}

		return nil
	}

	if c.DatabaseURL.Value() == "" {
		return fmt.Errorf("DATABASE_URL or SQLITE_PATH is required")
	}

	dbURL, err := url.Parse(c.DatabaseURL.Value())
	if err != nil {
		return fmt.Errorf("DATABASE_URL is not a valid URL: %w", err)
	}

	if dbURL.Scheme != "postgres" && dbURL.Scheme != "postgresql" {
		return fmt.Errorf("DATABASE_URL scheme must be postgres:// or postgresql://")
	}

	if dbURL.Hostname() == "" {
		return fmt.Errorf("DATABASE_URL must include a host")
	}

	dbHost := dbURL.Hostname()
	if dbHost != "localhost" && dbHost != "127.0.0.1" && dbHost != "::1" {
		sslmode := dbURL.Query().Get("sslmode")
		if sslmode == "disable" {
			return fmt.Errorf("DATABASE_URL sslmode=disable is not allowed for non-local host %q", dbHost)
		}
	}

	if c.DBMaxConns < 1 || c.DBMaxConns > 100 {
		return fmt.Errorf("DB_MAX_CONNS must be between 1 and 100")
	}

	return nil
}

func (c *Config) validateNetwork() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil {
		return fmt.Errorf("PORT must be a valid integer: %w", err)
	}

	if port < 1 || port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535")
	}

	// Loopback for local deployments; 0.0.0.0/:: for containers where the
	// network boundary is enforced externally.
	validHosts := map[string]bool{
		"127.0.0.1": true,
		"::1":       true,
		"localhost": true,
		"0.0.0.0":   true,
		"::":        true,
	}
	if !validHosts[c.ListenHost] {
		return fmt.Errorf("LISTEN_HOST must be a loopback address or 0.0.0.0/:: for containers (got %q)", c.ListenHost)
	}

	metricsPort, err := strconv.Atoi(c.MetricsPort)
	if err != nil {
		return fmt.Errorf("METRICS_PORT must be a valid integer: %w", err)
	}

	if metricsPort < 1 || metricsPort > 65535 {
		return fmt.Errorf("METRICS_PORT must be between 1 and 65535")
	}

	if metricsPort == port {
		return fmt.Errorf("METRICS_PORT must differ from PORT")
	}

	if c.ChangeBuffer < 1 {
		return fmt.Errorf("CHANGE_BUFFER must be positive")
	}

	return nil
}

func (c *Config) validateCORS() error {
	for _, origin := range c.CORSOrigins {
		if origin == "*" {
			return fmt.Errorf("CORS_ORIGINS must not contain wildcard '*'")
		}
		if strings.ContainsAny(origin, "*?[]") {
			return fmt.Errorf("CORS_ORIGINS must not contain glob characters (*?[]), got %q", origin)
		}
		u, err := url.Parse(origin)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("CORS_ORIGINS contains invalid origin %q (must have scheme and host)", origin)
		}
	}

	return nil
}

func (c *Config) validateAnalytics() error {
	if !(c.RankDamping > 0 && c.RankDamping < 1) {
		return fmt.Errorf("RANK_DAMPING must be in (0, 1), got %v", c.RankDamping)
	}

	if c.RankMaxIterations < 1 {
		return fmt.Errorf("RANK_MAX_ITERATIONS must be at least 1")
	}

	if !(c.RankTolerance > 0) || math.IsInf(c.RankTolerance, 0) {
		return fmt.Errorf("RANK_TOLERANCE must be a positive number")
	}

	for name, v := range map[string]float64{"RECOMMEND_ALPHA": c.RecommendAlpha, "RECOMMEND_BETA": c.RecommendBeta} {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%s must be a non-negative number", name)
		}
	}

	return nil
}

func (c *Config) validateTracing() error {
	switch c.TraceExporter {
	case TraceNone, TraceStdout:
	case TraceOTLP:
		if c.OTLPEndpoint == "" {
			return fmt.Errorf("OTLP_ENDPOINT is required when TRACE_EXPORTER is otlp")
		}
	default:
		return fmt.Errorf("TRACE_EXPORTER must be none, stdout or otlp, got %q", c.TraceExporter)
	}

	return nil
}
