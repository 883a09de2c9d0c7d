package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Ingest    IngestConfig    `mapstructure:"ingest"`
	Retention RetentionConfig `mapstructure:"retention"`
	Viewer    ViewerConfig    `mapstructure:"viewer"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

type IngestConfig struct {
	Token       string `mapstructure:"token"`
	MaxBodySize int64  `mapstructure:"max_body_size"`
}

type RetentionConfig struct {
	MaxEvents int `mapstructure:"max_events"`
}

type ViewerConfig struct {
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type RateLimitConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
	RedisURL string        `mapstructure:"redis_url"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("server.port", 5050)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.idle_timeout", "60s")
	v.SetDefault("database.url", "")
	v.SetDefault("ingest.token", "")
	v.SetDefault("ingest.max_body_size", 1048576)
	v.SetDefault("retention.max_events", 500)
	v.SetDefault("viewer.username", "")
	v.SetDefault("viewer.password", "")
	v.SetDefault("ratelimit.enabled", false)
	v.SetDefault("ratelimit.requests", 600)
	v.SetDefault("ratelimit.window", "1m")
	v.SetDefault("ratelimit.redis_url", "redis://localhost:6379/0")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	// Read config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/hookinbox")
	}

	// Environment variables override
	v.SetEnvPrefix("HOOKINBOX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Aliases preserving the classic deployment env surface
	v.BindEnv("database.url", "HOOKINBOX_DATABASE_URL", "DATABASE_URL")
	v.BindEnv("ingest.token", "HOOKINBOX_INGEST_TOKEN", "WEBHOOK_TOKEN")
	v.BindEnv("viewer.username", "HOOKINBOX_VIEWER_USERNAME", "VIEWER_USER")
	v.BindEnv("viewer.password", "HOOKINBOX_VIEWER_PASSWORD", "VIEWER_PASS")
	v.BindEnv("retention.max_events", "HOOKINBOX_RETENTION_MAX_EVENTS", "MAX_EVENTS")

	// Read config
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found; use defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Database.URL = NormalizeDatabaseURL(cfg.Database.URL)

	return &cfg, nil
}

// NormalizeDatabaseURL rewrites postgresql:// URLs to the postgres:// form
// pgx and golang-migrate expect. Managed hosting providers hand out both
// spellings.
func NormalizeDatabaseURL(url string) string {
	if strings.HasPrefix(url, "postgresql://") {
		return "postgres://" + strings.TrimPrefix(url, "postgresql://")
	}
	return url
}
