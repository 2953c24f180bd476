// Package config builds the process configuration once at startup. Components
// receive the values they need through constructors and never read the
// environment themselves.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
)

// DefaultAccessTokenTTL is the named access-token lifetime. Overridable via
// ACCESS_TOKEN_TTL.
const DefaultAccessTokenTTL = 24 * time.Hour

// Google holds the OAuth2 client registration for the identity provider.
type Google struct {
	ClientID     string `validate:"required"`
	ClientSecret string `validate:"required"`
	RedirectURI  string `validate:"required,url"`
}

// Auth holds session token secrets and policy.
type Auth struct {
	// AllowedDomain is the organizational domain a verified email must belong to.
	AllowedDomain string `validate:"required,fqdn"`
	// AccessTokenSecret and RefreshTokenSecret must differ so the two token
	// kinds are never cross-verifiable.
	AccessTokenSecret  string        `validate:"required,min=16"`
	RefreshTokenSecret string        `validate:"required,min=16,nefield=AccessTokenSecret"`
	AccessTokenTTL     time.Duration `validate:"required,gt=0"`
}

// Teamdeck holds upstream API access configuration.
type Teamdeck struct {
	APIKey  string `validate:"required"`
	BaseURL string `validate:"required,url"`
}

// Config is the full server configuration, assembled once in FromEnv.
type Config struct {
	Addr     string `validate:"required"`
	LogLevel string `validate:"required,oneof=debug info warn error"`
	Google   Google
	Auth     Auth
	Teamdeck Teamdeck
}

// FromEnv builds a Config from environment variables so main stays lean.
// It returns an error for any missing or malformed required value; startup-time
// configuration must fail fast, never mid-request.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Addr:     envOr("ADDR", ":8000"),
		LogLevel: envOr("LOG_LEVEL", "info"),
		Google: Google{
			ClientID:     os.Getenv("GOOGLE_OAUTH2_CLIENT_ID"),
			ClientSecret: os.Getenv("GOOGLE_OAUTH2_CLIENT_SECRET"),
			RedirectURI:  envOr("GOOGLE_OAUTH2_REDIRECT_URI", "http://localhost:8000/google/redirect"),
		},
		Auth: Auth{
			AllowedDomain:      envOr("AUTH_ALLOWED_DOMAIN", "moodup.team"),
			AccessTokenSecret:  os.Getenv("JWT_ACCESS_TOKEN_SECRET"),
			RefreshTokenSecret: os.Getenv("JWT_REFRESH_TOKEN_SECRET"),
			AccessTokenTTL:     DefaultAccessTokenTTL,
		},
		Teamdeck: Teamdeck{
			APIKey:  os.Getenv("TEAMDECK_API_KEY"),
			BaseURL: envOr("TEAMDECK_BASE_URL", "https://api.teamdeck.io/v1"),
		},
	}

	if raw := os.Getenv("ACCESS_TOKEN_TTL"); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid ACCESS_TOKEN_TTL %q: %w", raw, err)
		}
		cfg.Auth.AccessTokenTTL = ttl
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks structural config invariants with validator tags.
func Validate(cfg *Config) error {
	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
