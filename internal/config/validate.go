package config

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
)

const (
	minJWTSecretLen   = 32
	minAccessTokenLen = 32
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Database.DSN) == "" {
		return fmt.Errorf("database.dsn is required")
	}

	if len(c.Server.AccessToken) < minAccessTokenLen {
		return fmt.Errorf("server.access_token must be at least %d characters (got %d)", minAccessTokenLen, len(c.Server.AccessToken))
	}

	if c.CORS.AllowCredentials && slices.Contains(c.CORS.Origins(), "*") {
		return fmt.Errorf("cors.allow_credentials cannot be combined with a wildcard origin")
	}

	if err := c.Identity.validate(); err != nil {
		return fmt.Errorf("identity: %w", err)
	}

	if c.Sync.StoreTimeout <= 0 {
		return fmt.Errorf("sync.store_timeout must be > 0 (got %v)", c.Sync.StoreTimeout)
	}
	if c.Sync.IdentityTimeout <= 0 {
		return fmt.Errorf("sync.identity_timeout must be > 0 (got %v)", c.Sync.IdentityTimeout)
	}

	if c.RateLimit.SignInPerMinute <= 0 {
		return fmt.Errorf("rate_limit.sign_in_per_minute must be > 0 (got %d)", c.RateLimit.SignInPerMinute)
	}

	return nil
}

func (c *IdentityConfig) validate() error {
	if err := requireHTTPURL(c.URL); err != nil {
		return fmt.Errorf("url: %w", err)
	}
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("api_key is required")
	}
	if c.JWTSecret != "" && len(c.JWTSecret) < minJWTSecretLen {
		return fmt.Errorf("jwt_secret must be at least %d characters (got %d)", minJWTSecretLen, len(c.JWTSecret))
	}
	if err := requireHTTPURL(c.RedirectURL); err != nil {
		return fmt.Errorf("redirect_url: %w", err)
	}
	if c.RefreshLeeway < 0 {
		return fmt.Errorf("refresh_leeway must be >= 0 (got %v)", c.RefreshLeeway)
	}
	return nil
}

func requireHTTPURL(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return fmt.Errorf("is required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https (got %q)", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("host is required in %q", raw)
	}
	return nil
}
