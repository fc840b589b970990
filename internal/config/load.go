package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g. TASKLY_DATABASE_URL.
const EnvPrefix = "TASKLY"

// defaults holds every known key. Keys without a sensible default are listed
// with a nil value so they are still bound to the environment.
var defaults = map[string]any{
	"server.port":             8080,
	"server.log_level":        "info",
	"server.read_timeout":     "15s",
	"server.write_timeout":    "15s",
	"server.shutdown_timeout": "10s",
	"server.max_body_bytes":   10 << 20,

	"database.driver":             DriverMongo,
	"database.url":                nil,
	"database.name":               "taskly",
	"database.max_pool_size":      20,
	"database.max_conn_idle_time": "5m",
	"database.operation_timeout":  "5s",

	"auth.jwt_secret":                     nil,
	"auth.token_lifetime_minutes":         30,
	"auth.refresh_token_lifetime_minutes": 7 * 24 * 60,
	"auth.bcrypt_cost":                    10,

	"rate_limit.enabled":         false,
	"rate_limit.redis_url":       nil,
	"rate_limit.auth_per_minute": 5,
	"rate_limit.api_per_minute":  100,
}

// Load reads configuration in increasing order of precedence: defaults, the
// optional YAML file at configFile, a .env file in the working directory,
// and TASKLY_ environment variables. The result is validated before it is
// returned.
func Load(configFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()
	for key, value := range defaults {
		if value != nil {
			v.SetDefault(key, value)
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %q: %w", configFile, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key := range defaults {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind environment variable for %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks struct tag constraints on cfg.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if cfg.RateLimit.Enabled && cfg.RateLimit.RedisURL == "" {
		return errors.New("invalid configuration: rate_limit.redis_url is required when rate limiting is enabled")
	}
	return nil
}
