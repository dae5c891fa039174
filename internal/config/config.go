package config

import (
	"strings"
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Identity  IdentityConfig  `yaml:"identity"`
	Sync      SyncConfig      `yaml:"sync"`
	Log       LogConfig       `yaml:"log"`
	CORS      CORSConfig      `yaml:"cors"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,PUT,DELETE,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Authorization,Content-Type,X-Request-Id"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"false"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"127.0.0.1"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`

	// AccessToken must accompany every /api request.
	AccessToken string `yaml:"access_token" env:"SERVER_ACCESS_TOKEN"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"10"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"1"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// IdentityConfig holds settings for the hosted identity provider.
type IdentityConfig struct {
	URL         string `yaml:"url"          env:"IDENTITY_URL"          env-required:"true"`
	APIKey      string `yaml:"api_key"      env:"IDENTITY_API_KEY"      env-required:"true"`
	JWTSecret   string `yaml:"jwt_secret"   env:"IDENTITY_JWT_SECRET"`
	RedirectURL string `yaml:"redirect_url" env:"IDENTITY_REDIRECT_URL" env-default:"http://localhost:8080/auth/callback"`

	// RefreshLeeway is how long before expiry the access token is refreshed.
	RefreshLeeway time.Duration `yaml:"refresh_leeway" env:"IDENTITY_REFRESH_LEEWAY" env-default:"60s"`
}

// VerifiesTokens reports whether access tokens are checked locally.
func (c IdentityConfig) VerifiesTokens() bool {
	return c.JWTSecret != ""
}

// SyncConfig bounds the waits of remote calls issued by the sync core.
type SyncConfig struct {
	StoreTimeout    time.Duration `yaml:"store_timeout"    env:"SYNC_STORE_TIMEOUT"    env-default:"10s"`
	IdentityTimeout time.Duration `yaml:"identity_timeout" env:"SYNC_IDENTITY_TIMEOUT" env-default:"10s"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// RateLimitConfig holds per-client limits for intent endpoints.
type RateLimitConfig struct {
	SignInPerMinute int `yaml:"sign_in_per_minute" env:"RATE_LIMIT_SIGN_IN_PER_MINUTE" env-default:"5"`
}

// Origins splits AllowedOrigins into trimmed, non-empty entries.
func (c CORSConfig) Origins() []string {
	parts := strings.Split(c.AllowedOrigins, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
