// Package config handles loading application configuration from environment
// variables. All config is centralized here so no other package reads env
// vars directly. Sensible defaults are provided for development.
package config

import (
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-sql-driver/mysql"
)

// devSecretKey keeps local development working without a .env file.
const devSecretKey = "dev-secret-key-do-not-use-in-production!!"

// Config holds all application configuration. Populated from environment
// variables at startup and passed to other packages via dependency injection.
// Nothing mutates it after Load returns.
type Config struct {
	// Env is the runtime environment: "development" or "production".
	Env string `env:"ENV" envDefault:"development"`

	// Port is the HTTP listen port.
	Port int `env:"PORT" envDefault:"8080"`

	// BaseURL is the public-facing storefront origin, allowed by CORS.
	BaseURL string `env:"BASE_URL" envDefault:"http://localhost:8080"`

	// CORSOrigins lists extra frontend origins allowed to call the API with
	// cookies. BaseURL is always allowed.
	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:","`

	// TrustedProxies are the CIDRs whose X-Forwarded-For headers are honored
	// when resolving the client IP.
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:"," envDefault:"127.0.0.0/8,10.0.0.0/8,172.16.0.0/12,192.168.0.0/16,fd00::/8"`

	// LogLevel controls log verbosity: "debug", "info", "warn", "error".
	LogLevel string `env:"LOG_LEVEL" envDefault:"debug"`

	// MigrationsPath is the directory holding golang-migrate SQL files.
	MigrationsPath string `env:"MIGRATIONS_PATH" envDefault:"db/migrations"`

	Database  DatabaseConfig `envPrefix:"DB_"`
	Redis     RedisConfig    `envPrefix:"REDIS_"`
	Auth      AuthConfig
	SMTP      SMTPConfig      `envPrefix:"SMTP_"`
	RateLimit RateLimitConfig `envPrefix:"RATE_LIMIT_"`
}

// DatabaseConfig holds MariaDB connection parameters. Individual fields
// are read from separate env vars so container orchestrators can manage
// each independently. If DB_URL is set, it takes precedence.
type DatabaseConfig struct {
	// Host is the MariaDB address in host:port format. If no port is
	// specified, 3306 is appended automatically.
	Host     string `env:"HOST" envDefault:"localhost:3306"`
	User     string `env:"USER" envDefault:"storefront"`
	Password string `env:"PASSWORD" envDefault:"storefront"`
	Name     string `env:"NAME" envDefault:"storefront"`

	// URL bypasses the individual fields when set.
	URL string `env:"URL"`

	MaxOpenConns    int           `env:"MAX_OPEN_CONNS" envDefault:"25"`
	MaxIdleConns    int           `env:"MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"CONN_MAX_LIFETIME" envDefault:"5m"`
}

// DSN returns the go-sql-driver/mysql connection string. If DB_URL was
// set, it is returned as-is. Otherwise the DSN is built with the driver's
// Config.FormatDSN() to safely handle special characters in passwords.
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	cfg := mysql.NewConfig()
	cfg.User = d.User
	cfg.Passwd = d.Password
	cfg.Net = "tcp"
	cfg.Addr = ensurePort(d.Host, "3306")
	cfg.DBName = d.Name
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	return cfg.FormatDSN()
}

// ensurePort appends the default port if the host string doesn't include one.
func ensurePort(host, defaultPort string) string {
	_, _, err := net.SplitHostPort(host)
	if err != nil {
		return net.JoinHostPort(host, defaultPort)
	}
	return host
}

// RedisConfig holds Redis connection parameters.
type RedisConfig struct {
	// URL is the Redis connection URL (e.g., "redis://localhost:6379").
	URL string `env:"URL" envDefault:"redis://localhost:6379"`
}

// AuthConfig holds the credential and session settings.
type AuthConfig struct {
	// SecretKey signs session tokens (HS256).
	SecretKey string `env:"JWT_SECRET_KEY"`

	// CookieExpiryHours is the session token lifetime in hours.
	CookieExpiryHours int `env:"COOKIE_EXPIRY" envDefault:"72"`

	// ResetCodeTTL bounds how long an issued reset code stays usable.
	ResetCodeTTL time.Duration `env:"RESET_CODE_TTL" envDefault:"20m"`

	// CookieSecure sets the Secure attribute on auth cookies.
	CookieSecure bool `env:"COOKIE_SECURE" envDefault:"false"`

	// CookieSameSite is one of "lax", "strict" or "none".
	CookieSameSite string `env:"COOKIE_SAMESITE" envDefault:"lax"`

	Argon ArgonConfig `envPrefix:"PASSWORD_ARGON_"`
}

// SessionTTL returns the session lifetime as a duration.
func (a AuthConfig) SessionTTL() time.Duration {
	return time.Duration(a.CookieExpiryHours) * time.Hour
}

// ArgonConfig holds argon2id cost parameters. The defaults follow OWASP
// recommendations: memory=64MB, iterations=3, parallelism=4.
type ArgonConfig struct {
	Time    uint32 `env:"TIME" envDefault:"3"`
	Memory  uint32 `env:"MEMORY" envDefault:"65536"`
	Threads uint8  `env:"THREADS" envDefault:"4"`
}

// SMTPConfig holds the outbound mail settings used to deliver reset codes.
type SMTPConfig struct {
	Host        string `env:"HOST"`
	Port        int    `env:"PORT" envDefault:"587"`
	Username    string `env:"USERNAME"`
	Password    string `env:"PASSWORD"`
	FromAddress string `env:"FROM_ADDRESS" envDefault:"no-reply@localhost"`
	FromName    string `env:"FROM_NAME" envDefault:"Storefront"`
	// Encryption is "starttls", "ssl", or "none".
	Encryption string `env:"ENCRYPTION" envDefault:"starttls"`
}

// Configured reports whether an SMTP relay has been set up.
func (s SMTPConfig) Configured() bool {
	return s.Host != ""
}

// RateLimitConfig bounds requests per client IP on credential endpoints.
type RateLimitConfig struct {
	Auth   int           `env:"AUTH" envDefault:"10"`
	Window time.Duration `env:"WINDOW" envDefault:"1m"`
}

// Load reads configuration from environment variables with sensible defaults.
// Returns an error if values are malformed or production requirements are
// not met.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}

	if cfg.Auth.CookieExpiryHours <= 0 {
		return nil, fmt.Errorf("COOKIE_EXPIRY must be a positive number of hours")
	}
	if cfg.Auth.ResetCodeTTL <= 0 {
		return nil, fmt.Errorf("RESET_CODE_TTL must be positive")
	}

	cfg.Auth.CookieSameSite = strings.ToLower(strings.TrimSpace(cfg.Auth.CookieSameSite))
	switch cfg.Auth.CookieSameSite {
	case "lax", "strict":
	case "none":
		// Browsers drop SameSite=None cookies that are not Secure.
		cfg.Auth.CookieSecure = true
	default:
		return nil, fmt.Errorf("COOKIE_SAMESITE must be one of lax, strict, none")
	}

	if cfg.IsProduction() {
		if cfg.Auth.SecretKey == "" {
			return nil, fmt.Errorf("JWT_SECRET_KEY is required in production")
		}
		if len(cfg.Auth.SecretKey) < 32 {
			return nil, fmt.Errorf("JWT_SECRET_KEY must be at least 32 characters in production")
		}
		if !cfg.SMTP.Configured() {
			return nil, fmt.Errorf("SMTP_HOST is required in production")
		}
		cfg.Auth.CookieSecure = true
	}

	if cfg.Auth.SecretKey == "" {
		cfg.Auth.SecretKey = devSecretKey
	}

	return cfg, nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	env := strings.ToLower(c.Env)
	return env == "development" || env == "dev"
}

// IsProduction returns true for "production" and common variants.
func (c *Config) IsProduction() bool {
	env := strings.ToLower(c.Env)
	return env == "production" || env == "prod"
}
