package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	libconfig "aquamon/libs/config"
)

// Duplicate-timestamp ingest policies.
const (
	DuplicateAllow = "allow"
	DuplicateDrop  = "drop"
)

// HTTPConfig holds listener settings.
type HTTPConfig struct {
	Port string `yaml:"port" env:"AQUAMON_HTTP_PORT"`
}

// DatabaseConfig holds Postgres settings. Credentials and database name are
// fixed; deployments normally override only the host, or the full DSN.
type DatabaseConfig struct {
	Host         string        `yaml:"host" env:"AQUAMON_POSTGRES_HOST"`
	DSN          string        `yaml:"dsn" env:"AQUAMON_POSTGRES_DSN"`
	MaxConns     int32         `yaml:"max_conns" env:"AQUAMON_POSTGRES_MAX_CONNS"`
	QueryTimeout time.Duration `yaml:"query_timeout" env:"AQUAMON_POSTGRES_QUERY_TIMEOUT"`
}

// AuthConfig holds the shared device secret gating measurement writes.
type AuthConfig struct {
	DeviceSecret string `yaml:"device_secret" env:"AQUAMON_DEVICE_SECRET"`
}

// RedisConfig holds the optional live-status cache address. Empty disables
// the cache.
type RedisConfig struct {
	Addr     string `yaml:"addr" env:"AQUAMON_REDIS_ADDR"`
	Password string `yaml:"password" env:"AQUAMON_REDIS_PASSWORD"`
}

// IngestConfig holds measurement ingestion policies.
type IngestConfig struct {
	DuplicatePolicy string `yaml:"duplicate_policy" env:"AQUAMON_INGEST_DUPLICATE_POLICY"`
}

// HistoryConfig bounds history responses.
type HistoryConfig struct {
	MaxPoints int `yaml:"max_points" env:"AQUAMON_HISTORY_MAX_POINTS"`
}

// WebConfig points at the static dashboard assets.
type WebConfig struct {
	Dir string `yaml:"dir" env:"AQUAMON_WEB_DIR"`
}

// Config defines aquamon service configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Redis    RedisConfig    `yaml:"redis"`
	Ingest   IngestConfig   `yaml:"ingest"`
	History  HistoryConfig  `yaml:"history"`
	Web      WebConfig      `yaml:"web"`
}

// Load configuration using the shared helper and apply defaults.
func Load() (*Config, error) {
	cfg := &Config{
		HTTP:     HTTPConfig{Port: "8000"},
		Database: DatabaseConfig{Host: "postgres", MaxConns: 10, QueryTimeout: 5 * time.Second},
		Ingest:   IngestConfig{DuplicatePolicy: DuplicateAllow},
		History:  HistoryConfig{MaxPoints: 200},
		Web:      WebConfig{Dir: "./web"},
	}

	if err := libconfig.LoadConfig(cfg); err != nil {
		return nil, err
	}

	if strings.TrimSpace(cfg.Auth.DeviceSecret) == "" {
		return nil, errors.New("config: device secret required")
	}
	switch cfg.Ingest.DuplicatePolicy {
	case DuplicateAllow, DuplicateDrop:
	default:
		return nil, fmt.Errorf("config: unknown duplicate policy %q", cfg.Ingest.DuplicatePolicy)
	}
	if cfg.History.MaxPoints <= 0 {
		return nil, errors.New("config: history max points must be positive")
	}
	return cfg, nil
}

// DatabaseURL returns the connection string, building one from the host
// override when no full DSN is configured.
func (c *Config) DatabaseURL() string {
	if dsn := strings.TrimSpace(c.Database.DSN); dsn != "" {
		return dsn
	}
	return fmt.Sprintf("postgres://postgres:postgres@%s:5432/postgres?sslmode=disable", c.Database.Host)
}

// HTTPAddress returns :port style.
func (c *Config) HTTPAddress() string {
	port := strings.TrimSpace(c.HTTP.Port)
	if port == "" {
		port = "8000"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return fmt.Sprintf(":%s", port)
}
