package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Addr:     ":8000",
		LogLevel: "info",
		Google: Google{
			ClientID:     "client-id",
			ClientSecret: "client-secret",
			RedirectURI:  "http://localhost:8000/google/redirect",
		},
		Auth: Auth{
			AllowedDomain:      "moodup.team",
			AccessTokenSecret:  "access-secret-0123456789",
			RefreshTokenSecret: "refresh-secret-0123456789",
			AccessTokenTTL:     24 * time.Hour,
		},
		Teamdeck: Teamdeck{
			APIKey:  "td-key",
			BaseURL: "https://api.teamdeck.io/v1",
		},
	}
}

func TestValidate_OK(t *testing.T) {
	require.NoError(t, Validate(validConfig()))
}

func TestValidate_MissingGoogleClient(t *testing.T) {
	cfg := validConfig()
	cfg.Google.ClientID = ""
	require.Error(t, Validate(cfg))
}

func TestValidate_SameSecrets(t *testing.T) {
	cfg := validConfig()
	cfg.Auth.RefreshTokenSecret = cfg.Auth.AccessTokenSecret
	require.Error(t, Validate(cfg))
}

func TestValidate_ZeroTTL(t *testing.T) {
	cfg := validConfig()
	cfg.Auth.AccessTokenTTL = 0
	require.Error(t, Validate(cfg))
}

func TestFromEnv(t *testing.T) {
	t.Setenv("GOOGLE_OAUTH2_CLIENT_ID", "client-id")
	t.Setenv("GOOGLE_OAUTH2_CLIENT_SECRET", "client-secret")
	t.Setenv("JWT_ACCESS_TOKEN_SECRET", "access-secret-0123456789")
	t.Setenv("JWT_REFRESH_TOKEN_SECRET", "refresh-secret-0123456789")
	t.Setenv("TEAMDECK_API_KEY", "td-key")
	t.Setenv("ACCESS_TOKEN_TTL", "168h")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, ":8000", cfg.Addr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "moodup.team", cfg.Auth.AllowedDomain)
	assert.Equal(t, 7*24*time.Hour, cfg.Auth.AccessTokenTTL)
}

func TestValidate_UnknownLogLevel(t *testing.T) {
	cfg := validConfig()
	cfg.LogLevel = "verbose"
	require.Error(t, Validate(cfg))
}

func TestFromEnv_InvalidTTL(t *testing.T) {
	t.Setenv("GOOGLE_OAUTH2_CLIENT_ID", "client-id")
	t.Setenv("GOOGLE_OAUTH2_CLIENT_SECRET", "client-secret")
	t.Setenv("JWT_ACCESS_TOKEN_SECRET", "access-secret-0123456789")
	t.Setenv("JWT_REFRESH_TOKEN_SECRET", "refresh-secret-0123456789")
	t.Setenv("TEAMDECK_API_KEY", "td-key")
	t.Setenv("ACCESS_TOKEN_TTL", "one-day")

	_, err := FromEnv()
	require.Error(t, err)
}
