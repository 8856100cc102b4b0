package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Storage backends accepted by STORAGE_BACKEND
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Config holds all configuration for the application
type Config struct {
	Env      string
	Server   ServerConfig
	Storage  StorageConfig
	Database DatabaseConfig
	Redis    RedisConfig
	NATS     NATSConfig
	Auth     AuthConfig
	Sessions SessionsConfig
	Catalog  CatalogConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	RequestTimeout  time.Duration
	AllowedOrigins  []string
}

// StorageConfig selects and tunes the slot persistence backend
type StorageConfig struct {
	Backend   string
	KeyPrefix string
	SlotTTL   time.Duration
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// NATSConfig holds NATS configuration
type NATSConfig struct {
	URL     string
	Enabled bool
}

// AuthConfig holds session token and mock login settings
type AuthConfig struct {
	TokenSecret string
	TokenTTL    time.Duration
	LoginDelay  time.Duration
}

// SessionsConfig tunes the in-memory shopper session cache
type SessionsConfig struct {
	IdleTTL     time.Duration
	MaxCached   int
	LoadTimeout time.Duration
}

// CatalogConfig holds catalog listing settings
type CatalogConfig struct {
	PageSize int
}

// Load reads configuration from .env files and environment variables
func Load() (*Config, error) {
	LoadDotEnv()

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	durations := map[string]*time.Duration{}
	cfg := &Config{
		Env: v.GetString("ENV"),
		Server: ServerConfig{
			Port:           v.GetString("SERVER_PORT"),
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		Storage: StorageConfig{
			Backend:   strings.ToLower(v.GetString("STORAGE_BACKEND")),
			KeyPrefix: v.GetString("STORAGE_KEY_PREFIX"),
		},
		Database: DatabaseConfig{
			Host:         v.GetString("DB_HOST"),
			Port:         v.GetString("DB_PORT"),
			User:         v.GetString("DB_USER"),
			Password:     v.GetString("DB_PASSWORD"),
			Name:         v.GetString("DB_NAME"),
			SSLMode:      v.GetString("DB_SSLMODE"),
			MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		NATS: NATSConfig{
			URL:     v.GetString("NATS_URL"),
			Enabled: v.GetBool("NATS_ENABLED"),
		},
		Auth: AuthConfig{
			TokenSecret: v.GetString("AUTH_TOKEN_SECRET"),
		},
		Sessions: SessionsConfig{
			MaxCached: v.GetInt("SESSION_MAX_CACHED"),
		},
		Catalog: CatalogConfig{
			PageSize: v.GetInt("CATALOG_PAGE_SIZE"),
		},
	}

	durations["SERVER_READ_TIMEOUT"] = &cfg.Server.ReadTimeout
	durations["SERVER_WRITE_TIMEOUT"] = &cfg.Server.WriteTimeout
	durations["SERVER_SHUTDOWN_TIMEOUT"] = &cfg.Server.ShutdownTimeout
	durations["SERVER_REQUEST_TIMEOUT"] = &cfg.Server.RequestTimeout
	durations["STORAGE_SLOT_TTL"] = &cfg.Storage.SlotTTL
	durations["DB_CONN_MAX_LIFETIME"] = &cfg.Database.ConnMaxLifetime
	durations["AUTH_TOKEN_TTL"] = &cfg.Auth.TokenTTL
	durations["AUTH_LOGIN_DELAY"] = &cfg.Auth.LoginDelay
	durations["SESSION_IDLE_TTL"] = &cfg.Sessions.IdleTTL
	durations["SESSION_LOAD_TIMEOUT"] = &cfg.Sessions.LoadTimeout

	for key, dst := range durations {
		d, err := time.ParseDuration(v.GetString(key))
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", key, err)
		}
		*dst = d
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", "development")
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_READ_TIMEOUT", "10s")
	v.SetDefault("SERVER_WRITE_TIMEOUT", "10s")
	v.SetDefault("SERVER_SHUTDOWN_TIMEOUT", "30s")
	v.SetDefault("SERVER_REQUEST_TIMEOUT", "30s")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")

	v.SetDefault("STORAGE_BACKEND", BackendMemory)
	v.SetDefault("STORAGE_KEY_PREFIX", "ecocart")
	v.SetDefault("STORAGE_SLOT_TTL", "0s")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "ecocart")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME", "5m")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("NATS_URL", "nats://localhost:4222")
	v.SetDefault("NATS_ENABLED", false)

	v.SetDefault("AUTH_TOKEN_SECRET", "ecocart-dev-secret-change-me")
	v.SetDefault("AUTH_TOKEN_TTL", "720h")
	v.SetDefault("AUTH_LOGIN_DELAY", "1s")

	v.SetDefault("SESSION_IDLE_TTL", "30m")
	v.SetDefault("SESSION_MAX_CACHED", 10000)
	v.SetDefault("SESSION_LOAD_TIMEOUT", "5s")

	v.SetDefault("CATALOG_PAGE_SIZE", 12)
}

func (c *Config) validate() error {
	switch c.Storage.Backend {
	case BackendMemory, BackendRedis, BackendPostgres:
	default:
		return fmt.Errorf("invalid STORAGE_BACKEND %q: want memory, redis or postgres", c.Storage.Backend)
	}
	if c.Auth.TokenSecret == "" {
		return fmt.Errorf("AUTH_TOKEN_SECRET must not be empty")
	}
	if c.Sessions.MaxCached <= 0 {
		return fmt.Errorf("invalid SESSION_MAX_CACHED %d", c.Sessions.MaxCached)
	}
	if c.Catalog.PageSize <= 0 {
		return fmt.Errorf("invalid CATALOG_PAGE_SIZE %d", c.Catalog.PageSize)
	}
	return nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// GetDSN returns the PostgreSQL connection string
func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}
