package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/kosarica/catalog-service/internal/storefront"
)

// EnvPrefix prefixes every environment variable read by the service
const EnvPrefix = "CATALOG_SERVICE"

// Config holds the application configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Recovery  RecoveryConfig  `mapstructure:"recovery"`
	Pricing   PricingConfig   `mapstructure:"pricing"`
	Export    ExportConfig    `mapstructure:"export"`
	Sweeper   SweeperConfig   `mapstructure:"sweeper"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	Host           string        `mapstructure:"host"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	InternalAPIKey string        `mapstructure:"internal_api_key"`
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	URL             string        `mapstructure:"url"`
	MaxConnections  int           `mapstructure:"max_connections"`
	MinConnections  int           `mapstructure:"min_connections"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime time.Duration `mapstructure:"max_conn_idle_time"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	BurstSize         int           `mapstructure:"burst_size"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
}

// StorageConfig selects the document store of incomplete products
type StorageConfig struct {
	Type     string `mapstructure:"type"` // memory, local or postgres
	BasePath string `mapstructure:"base_path"`
}

// RecoveryConfig selects the cache holding facts of not yet known items
type RecoveryConfig struct {
	Backend       string        `mapstructure:"backend"` // memory or redis
	TTL           time.Duration `mapstructure:"ttl"`
	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db"`
}

// PricingConfig holds price resolution settings
type PricingConfig struct {
	HistoryTimezone string `mapstructure:"history_timezone"`
}

// ExportConfig holds export settings
type ExportConfig struct {
	DefaultStore       string   `mapstructure:"default_store"`
	SupportedLanguages []string `mapstructure:"supported_languages"`
	Concurrency        int      `mapstructure:"concurrency"`
}

// SweeperConfig holds price history sweeper settings
type SweeperConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	Interval    time.Duration `mapstructure:"interval"`
	Concurrency int           `mapstructure:"concurrency"`
}

// TelemetryConfig holds OpenTelemetry settings
type TelemetryConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	Endpoint       string        `mapstructure:"endpoint"`
	ServiceName    string        `mapstructure:"service_name"`
	MetricInterval time.Duration `mapstructure:"metric_interval"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level   string `mapstructure:"level"`
	Format  string `mapstructure:"format"`
	NoColor bool   `mapstructure:"no_color"`
}

// ErrInvalidConfig is returned when a configuration value is not usable
type ErrInvalidConfig struct {
	Field  string
	Reason string
}

func (e *ErrInvalidConfig) Error() string {
	return fmt.Sprintf("invalid config %s: %s", e.Field, e.Reason)
}

var globalConfig *Config

// Load loads the configuration from file, .env, and environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// .env is optional
	if err := loadEnvFile(); err != nil {
		log.Debug().Err(err).Msg(".env file not loaded")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvVars(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	globalConfig = &cfg
	return &cfg, nil
}

// loadEnvFile loads the first .env file found without overriding variables
// that are already set
func loadEnvFile() error {
	for _, dir := range []string{".", "./config"} {
		path := filepath.Join(dir, ".env")
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
		return nil
	}
	return fmt.Errorf("no .env file found")
}

// bindEnvVars binds conventional unprefixed environment variables to config keys
func bindEnvVars(v *viper.Viper) {
	// Database
	_ = v.BindEnv("database.url", EnvPrefix+"_DATABASE_URL", "DATABASE_URL")

	// Server
	_ = v.BindEnv("server.port", EnvPrefix+"_SERVER_PORT", "PORT")
	_ = v.BindEnv("server.host", EnvPrefix+"_SERVER_HOST", "HOST")
	_ = v.BindEnv("server.internal_api_key", EnvPrefix+"_SERVER_INTERNAL_API_KEY", "INTERNAL_API_KEY")

	// Logging
	_ = v.BindEnv("logging.level", EnvPrefix+"_LOGGING_LEVEL", "LOG_LEVEL")

	// Storage
	_ = v.BindEnv("storage.base_path", EnvPrefix+"_STORAGE_BASE_PATH", "STORAGE_PATH")

	// Recovery
	_ = v.BindEnv("recovery.redis_addr", EnvPrefix+"_RECOVERY_REDIS_ADDR", "REDIS_ADDR")
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.internal_api_key", "")

	// Database defaults
	v.SetDefault("database.url", "")
	v.SetDefault("database.max_connections", 25)
	v.SetDefault("database.min_connections", 5)
	v.SetDefault("database.max_conn_lifetime", 1*time.Hour)
	v.SetDefault("database.max_conn_idle_time", 30*time.Minute)

	// Rate limit defaults
	v.SetDefault("rate_limit.requests_per_second", 50)
	v.SetDefault("rate_limit.burst_size", 100)
	v.SetDefault("rate_limit.idle_timeout", 5*time.Minute)

	// Storage defaults
	v.SetDefault("storage.type", "local")
	v.SetDefault("storage.base_path", "./data/catalog")

	// Recovery defaults
	v.SetDefault("recovery.backend", "memory")
	v.SetDefault("recovery.ttl", 24*time.Hour)
	v.SetDefault("recovery.redis_addr", "localhost:6379")
	v.SetDefault("recovery.redis_password", "")
	v.SetDefault("recovery.redis_db", 0)

	// Pricing defaults
	v.SetDefault("pricing.history_timezone", string(storefront.Moscow))

	// Export defaults
	v.SetDefault("export.default_store", string(storefront.Moscow))
	v.SetDefault("export.supported_languages", []string{"ru", "en"})
	v.SetDefault("export.concurrency", 8)

	// Sweeper defaults
	v.SetDefault("sweeper.enabled", true)
	v.SetDefault("sweeper.interval", 1*time.Hour)
	v.SetDefault("sweeper.concurrency", 4)

	// Telemetry defaults
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.endpoint", "")
	v.SetDefault("telemetry.service_name", "catalog-service")
	v.SetDefault("telemetry.metric_interval", 30*time.Second)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.no_color", false)
}

// Validate checks values the service cannot start without
func (c *Config) Validate() error {
	switch c.Storage.Type {
	case "memory", "local":
	case "postgres":
		if c.Database.URL == "" {
			return &ErrInvalidConfig{Field: "database.url", Reason: "required for postgres storage"}
		}
	default:
		return &ErrInvalidConfig{Field: "storage.type", Reason: fmt.Sprintf("unknown storage type %q", c.Storage.Type)}
	}
	if c.Storage.Type == "local" && c.Storage.BasePath == "" {
		return &ErrInvalidConfig{Field: "storage.base_path", Reason: "required for local storage"}
	}

	switch c.Recovery.Backend {
	case "memory":
	case "redis":
		if c.Recovery.RedisAddr == "" {
			return &ErrInvalidConfig{Field: "recovery.redis_addr", Reason: "required for redis backend"}
		}
	default:
		return &ErrInvalidConfig{Field: "recovery.backend", Reason: fmt.Sprintf("unknown backend %q", c.Recovery.Backend)}
	}
	if c.Recovery.TTL <= 0 {
		return &ErrInvalidConfig{Field: "recovery.ttl", Reason: "must be positive"}
	}

	if _, err := storefront.ParseTimezone(c.Pricing.HistoryTimezone); err != nil {
		return &ErrInvalidConfig{Field: "pricing.history_timezone", Reason: err.Error()}
	}
	if _, err := storefront.ParseTimezone(c.Export.DefaultStore); err != nil {
		return &ErrInvalidConfig{Field: "export.default_store", Reason: err.Error()}
	}
	if len(c.Export.SupportedLanguages) == 0 {
		return &ErrInvalidConfig{Field: "export.supported_languages", Reason: "at least one language is required"}
	}
	if _, err := storefront.ParseLanguages(c.Export.SupportedLanguages); err != nil {
		return &ErrInvalidConfig{Field: "export.supported_languages", Reason: err.Error()}
	}
	if c.Sweeper.Enabled && c.Sweeper.Interval <= 0 {
		return &ErrInvalidConfig{Field: "sweeper.interval", Reason: "must be positive"}
	}
	return nil
}

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// GetDatabaseURL returns the database URL from config or environment
func GetDatabaseURL() string {
	if cfg := Get(); cfg != nil && cfg.Database.URL != "" {
		return cfg.Database.URL
	}
	return os.Getenv("DATABASE_URL")
}
