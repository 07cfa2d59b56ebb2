// Package config loads the intake service's configuration via Viper: a
// config file if present, overridden by environment variables, overridden
// by explicit defaults only where neither supplies a value.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the complete application configuration.
type Config struct {
	Site         SiteConfig         `mapstructure:"site"`
	Server       ServerConfig       `mapstructure:"server"`
	Database     DatabaseConfig     `mapstructure:"database"`
	QueryService QueryServiceConfig `mapstructure:"query_service"`
	Cache        CacheConfig        `mapstructure:"cache"`
	Logging      LoggingConfig      `mapstructure:"logging"`
}

// SiteConfig carries the identity of the operating site. SiteIdentifier has
// no default: its absence is a startup error, never a per-request one.
type SiteConfig struct {
	ManagingZPM string `mapstructure:"managing_zpm"`
}

// ServerConfig is the inbound HTTP surface.
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// DatabaseConfig configures the staging store. When SQLitePath is set, the
// intake service runs against a single-file SQLite staging store instead
// of Postgres (the lite deployment mode).
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Database        string        `mapstructure:"database"`
	Username        string        `mapstructure:"username"`
	Password        string        `mapstructure:"password"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	MigrationsPath  string        `mapstructure:"migrations_path"`
	SQLitePath      string        `mapstructure:"sqlite_path"`
}

// QueryServiceConfig configures the downstream collaborator C6 forwards
// valid files to.
type QueryServiceConfig struct {
	BaseURL     string        `mapstructure:"base_url"`
	Timeout     time.Duration `mapstructure:"timeout"`
	RateLimit   float64       `mapstructure:"rate_limit"`
	RateBurst   int           `mapstructure:"rate_burst"`
	MaxRequests uint32        `mapstructure:"circuit_max_requests"`
	Interval    time.Duration `mapstructure:"circuit_interval"`
	BreakerOpen time.Duration `mapstructure:"circuit_timeout"`
}

// CacheConfig configures the optional upload idempotency cache. An empty
// RedisURL disables it; duplicate uploads are then always reprocessed in
// full.
type CacheConfig struct {
	RedisURL string        `mapstructure:"redis_url"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// LoggingConfig configures the logrus root logger.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Manager loads and validates Config using Viper.
type Manager struct {
	config *Config
}

// NewManager loads configuration from environment variables prefixed
// MTBINTAKE_, ./config.yaml (or /etc/mtbintake/), and defaults, in that
// order of decreasing precedence, then validates the result.
func NewManager() (*Manager, error) {
	m := &Manager{}
	if err := m.load(); err != nil {
		return nil, fmt.Errorf("config: load: %w", err)
	}
	if err := m.config.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return m, nil
}

func (m *Manager) load() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/mtbintake/")

	viper.SetEnvPrefix("MTBINTAKE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	for _, key := range []string{"site.managing_zpm", "database.password", "database.sqlite_path", "query_service.base_url", "cache.redis_url"} {
		if err := viper.BindEnv(key); err != nil {
			return fmt.Errorf("binding env for %s: %w", key, err)
		}
	}

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("reading config file: %w", err)
		}
	}

	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return fmt.Errorf("unmarshaling config: %w", err)
	}
	m.config = config
	return nil
}

func setDefaults() {
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", "30s")
	viper.SetDefault("server.write_timeout", "30s")
	viper.SetDefault("server.idle_timeout", "120s")

	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.database", "mtbintake")
	viper.SetDefault("database.username", "mtbintake")
	viper.SetDefault("database.ssl_mode", "disable")
	viper.SetDefault("database.max_open_conns", 25)
	viper.SetDefault("database.max_idle_conns", 5)
	viper.SetDefault("database.conn_max_lifetime", "5m")
	viper.SetDefault("database.migrations_path", "internal/repository/migrations")

	viper.SetDefault("query_service.timeout", "10s")
	viper.SetDefault("query_service.rate_limit", 20)
	viper.SetDefault("query_service.rate_burst", 5)
	viper.SetDefault("query_service.circuit_max_requests", 5)
	viper.SetDefault("query_service.circuit_interval", "30s")
	viper.SetDefault("query_service.circuit_timeout", "60s")

	viper.SetDefault("cache.ttl", "5m")

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
}

// validate rejects configurations the ambient deployment rules treat as
// startup errors rather than per-request ones.
func (c *Config) validate() error {
	if strings.TrimSpace(c.Site.ManagingZPM) == "" {
		return fmt.Errorf("site.managing_zpm is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Database.SQLitePath == "" {
		if c.Database.Host == "" {
			return fmt.Errorf("database host is required when sqlite_path is unset")
		}
		if c.Database.Database == "" {
			return fmt.Errorf("database name is required when sqlite_path is unset")
		}
	}
	if c.QueryService.BaseURL == "" {
		return fmt.Errorf("query_service.base_url is required")
	}
	return nil
}

// Config returns the loaded configuration.
func (m *Manager) Config() *Config {
	return m.config
}

// SiteIdentifier returns the managing ZPM identifier the site stamps onto
// outbound records.
func (m *Manager) SiteIdentifier() string {
	return m.config.Site.ManagingZPM
}

// DatabaseConnectionString returns a libpq-style connection string for
// Postgres deployments.
func (m *Manager) DatabaseConnectionString() string {
	db := m.config.Database
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		db.Host, db.Port, db.Username, db.Password, db.Database, db.SSLMode)
}

// UsesSQLite reports whether the lite (single-file) staging store is
// configured instead of Postgres.
func (m *Manager) UsesSQLite() bool {
	return m.config.Database.SQLitePath != ""
}
