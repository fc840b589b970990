package config

import "time"

// Supported database drivers.
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
)

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server    ServerConfig    `mapstructure:"server" validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database" validate:"required"`
	Auth      AuthConfig      `mapstructure:"auth" validate:"required"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port            int           `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel        string        `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
	MaxBodyBytes    int64         `mapstructure:"max_body_bytes" validate:"gt=0"`
}

// DatabaseConfig selects the storage backend and sizes its connection pool.
type DatabaseConfig struct {
	Driver           string        `mapstructure:"driver" validate:"required,oneof=mongo postgres"`
	URL              string        `mapstructure:"url" validate:"required,url"`
	Name             string        `mapstructure:"name" validate:"required_if=Driver mongo"`
	MaxPoolSize      int           `mapstructure:"max_pool_size" validate:"gt=0"`
	MaxConnIdleTime  time.Duration `mapstructure:"max_conn_idle_time" validate:"gt=0"`
	OperationTimeout time.Duration `mapstructure:"operation_timeout" validate:"gt=0"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret                   string `mapstructure:"jwt_secret" validate:"required,min=32"`
	TokenLifetimeMinutes        int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
	RefreshTokenLifetimeMinutes int    `mapstructure:"refresh_token_lifetime_minutes" validate:"required,gtfield=TokenLifetimeMinutes"`
	BcryptCost                  int    `mapstructure:"bcrypt_cost" validate:"gte=4,lte=31"`
}

// RateLimitConfig configures the Redis-backed request limiter.
type RateLimitConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	RedisURL      string `mapstructure:"redis_url" validate:"omitempty,url"`
	AuthPerMinute int    `mapstructure:"auth_per_minute" validate:"gt=0"`
	APIPerMinute  int    `mapstructure:"api_per_minute" validate:"gt=0"`
}
