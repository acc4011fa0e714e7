package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"go.uber.org/multierr"
	"go.uber.org/zap/zapcore"

	"github.com/JamesWuVip/wanli-academy-backend-sub000/internal/database"
)

// Config represents the runtime configuration for the homework backend.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Monitoring MonitoringConfig `mapstructure:"monitoring"`
	Auth       AuthConfig       `mapstructure:"auth"`
	Cache      CacheConfig      `mapstructure:"cache"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"`
	LogLevel        string        `mapstructure:"log_level"`
	LogEncoding     string        `mapstructure:"log_encoding"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
}

// DatabaseConfig describes connection options for the supported databases.
type DatabaseConfig struct {
	Driver   string            `mapstructure:"driver"`
	Path     string            `mapstructure:"path"`
	DSN      string            `mapstructure:"dsn"`
	Postgres DBAuthConfig      `mapstructure:"postgres"`
	MySQL    DBAuthConfig      `mapstructure:"mysql"`
	Options  map[string]string `mapstructure:"options"`
	Pool     PoolConfig        `mapstructure:"pool"`
	// SlowQueryThreshold marks statements logged at warn level.
	SlowQueryThreshold time.Duration `mapstructure:"slow_query_threshold"`
}

// PoolConfig tunes the SQL connection pool.
type PoolConfig struct {
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
}

// DBAuthConfig represents host based database parameters.
type DBAuthConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Database string `mapstructure:"database"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// MonitoringConfig enables health checks and metrics.
type MonitoringConfig struct {
	Prometheus PrometheusConfig `mapstructure:"prometheus"`
	Health     HealthConfig     `mapstructure:"health_check"`
}

// PrometheusConfig toggles metrics endpoints.
type PrometheusConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
}

// HealthConfig toggles health endpoints.
type HealthConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// CacheConfig configures shared state used by the rate limiter.
type CacheConfig struct {
	Redis RedisConfig `mapstructure:"redis"`
}

// RedisConfig describes the optional Redis connection.
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// AuthConfig captures all authentication-related settings.
type AuthConfig struct {
	JWT JWTSettings `mapstructure:"jwt"`
}

// JWTSettings configures token signing and lifetimes.
type JWTSettings struct {
	Secret     string        `mapstructure:"secret"`
	Issuer     string        `mapstructure:"issuer"`
	TTL        time.Duration `mapstructure:"access_token_ttl"`
	RefreshTTL time.Duration `mapstructure:"refresh_token_ttl"`
}

// LoadConfig initialises application configuration using Viper with sensible defaults.
// Environment variables prefixed with HOMEWORK_ override file values. A .env file in the
// working directory, when present, is loaded into the environment first.
func LoadConfig(paths ...string) (*Config, error) {
	_ = godotenv.Load(".env")

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.AddConfigPath("./config")
	for _, path := range paths {
		v.AddConfigPath(path)
	}

	setDefaults(v)

	v.SetEnvPrefix("HOMEWORK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var cfgErr viper.ConfigFileNotFoundError
		if !errors.As(err, &cfgErr) {
			return nil, fmt.Errorf("config: read file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config, decodeHook()); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.log_encoding", "json")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.allowed_origins", []string{})

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "./data/homework.sqlite")
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.pool.max_open_conns", 10)
	v.SetDefault("database.pool.max_idle_conns", 2)
	v.SetDefault("database.pool.conn_max_lifetime", "30m")
	v.SetDefault("database.pool.conn_max_idle_time", "5m")
	v.SetDefault("database.slow_query_threshold", "200ms")

	v.SetDefault("monitoring.prometheus.enabled", true)
	v.SetDefault("monitoring.prometheus.endpoint", "/metrics")
	v.SetDefault("monitoring.health_check.enabled", true)

	v.SetDefault("cache.redis.enabled", false)
	v.SetDefault("cache.redis.address", "127.0.0.1:6379")
	v.SetDefault("cache.redis.db", 0)

	v.SetDefault("auth.jwt.secret", "")
	v.SetDefault("auth.jwt.issuer", "wanli-academy")
	v.SetDefault("auth.jwt.access_token_ttl", "1h")
	v.SetDefault("auth.jwt.refresh_token_ttl", "24h")
}

func decodeHook() viper.DecoderConfigOption {
	return func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}
}

// Validate reports every configuration problem that must stop the process before it serves
// traffic.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config: nil config")
	}

	var errs error

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = multierr.Append(errs, fmt.Errorf("server.port %d is out of range", c.Server.Port))
	}
	if level := strings.TrimSpace(c.Server.LogLevel); level != "" {
		if _, err := zapcore.ParseLevel(level); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("server.log_level: %w", err))
		}
	}

	if _, err := database.NormalizeDriver(c.Database.Driver); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("database.driver %q is not supported", c.Database.Driver))
	}
	if c.Database.Pool.MaxOpenConns < 0 || c.Database.Pool.MaxIdleConns < 0 {
		errs = multierr.Append(errs, errors.New("database.pool connection limits must not be negative"))
	}

	if c.Cache.Redis.Enabled && strings.TrimSpace(c.Cache.Redis.Address) == "" {
		errs = multierr.Append(errs, errors.New("cache.redis.address must be provided when redis is enabled"))
	}

	jwt := c.Auth.JWT
	switch n := KeyByteLength(jwt.Secret); {
	case n == 0:
		errs = multierr.Append(errs, errors.New("auth.jwt.secret must be provided"))
	case n < MinSigningKeyBytes:
		errs = multierr.Append(errs, fmt.Errorf("auth.jwt.secret must decode to at least %d bytes, got %d", MinSigningKeyBytes, n))
	}
	switch {
	case jwt.TTL <= 0:
		errs = multierr.Append(errs, errors.New("auth.jwt.access_token_ttl must be positive"))
	case jwt.TTL < time.Second:
		errs = multierr.Append(errs, fmt.Errorf("auth.jwt.access_token_ttl %s must be at least 1s", jwt.TTL))
	}
	if jwt.RefreshTTL <= 0 {
		errs = multierr.Append(errs, errors.New("auth.jwt.refresh_token_ttl must be positive"))
	}
	if jwt.TTL > 0 && jwt.RefreshTTL > 0 && jwt.RefreshTTL < jwt.TTL+time.Second {
		errs = multierr.Append(errs, fmt.Errorf("auth.jwt.refresh_token_ttl %s must exceed access_token_ttl %s", jwt.RefreshTTL, jwt.TTL))
	}

	return errs
}

// ConnectionConfig converts the database settings into database.Config.
func (c DatabaseConfig) ConnectionConfig() database.Config {
	out := database.Config{
		Driver:  strings.ToLower(strings.TrimSpace(c.Driver)),
		Path:    c.Path,
		DSN:     c.DSN,
		Options: c.Options,
		Pool: database.PoolConfig{
			MaxOpenConns:    c.Pool.MaxOpenConns,
			MaxIdleConns:    c.Pool.MaxIdleConns,
			ConnMaxLifetime: c.Pool.ConnMaxLifetime,
			ConnMaxIdleTime: c.Pool.ConnMaxIdleTime,
		},
		SlowQueryThreshold: c.SlowQueryThreshold,
	}

	driver, err := database.NormalizeDriver(c.Driver)
	if err != nil {
		return out
	}
	out.Driver = driver

	var creds DBAuthConfig
	switch driver {
	case database.DriverPostgres:
		creds = c.Postgres
	case database.DriverMySQL:
		creds = c.MySQL
	default:
		return out
	}

	out.Host = creds.Host
	out.Port = creds.Port
	out.Name = creds.Database
	out.User = creds.Username
	out.Password = creds.Password
	return out
}
