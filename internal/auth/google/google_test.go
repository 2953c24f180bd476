package google

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	dErrors "tracker-gateway/pkg/domain-errors"
)

func TestLoginURL(t *testing.T) {
	client := NewClient("client-id", "client-secret", "http://localhost:8000/google/redirect")

	loginURL := client.LoginURL()
	parsed, err := url.Parse(loginURL)
	require.NoError(t, err)

	assert.Equal(t, "accounts.google.com", parsed.Host)
	q := parsed.Query()
	assert.Equal(t, "client-id", q.Get("client_id"))
	assert.Equal(t, "http://localhost:8000/google/redirect", q.Get("redirect_uri"))
	assert.Equal(t, UserInfoEmailScope, q.Get("scope"))
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Equal(t, "offline", q.Get("access_type"))
}

func TestLoginURL_Deterministic(t *testing.T) {
	client := NewClient("client-id", "client-secret", "http://localhost:8000/google/redirect")
	assert.Equal(t, client.LoginURL(), client.LoginURL())
}

func newExchangeServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient("client-id", "client-secret", "http://localhost:8000/google/redirect",
		WithEndpoint(oauth2.Endpoint{
			AuthURL:  srv.URL + "/auth",
			TokenURL: srv.URL + "/token",
		}))
}

func TestExchange(t *testing.T) {
	client := newExchangeServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "authorization_code", r.Form.Get("grant_type"))
		assert.Equal(t, "test-code", r.Form.Get("code"))
		assert.Equal(t, "http://localhost:8000/google/redirect", r.Form.Get("redirect_uri"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"at","token_type":"Bearer","id_token":"raw-id-token"}`))
	})

	assertion, err := client.Exchange(context.Background(), "test-code")
	require.NoError(t, err)
	assert.Equal(t, "raw-id-token", assertion.IDToken)
}

func TestExchange_NoIDToken(t *testing.T) {
	client := newExchangeServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"at","token_type":"Bearer"}`))
	})

	assertion, err := client.Exchange(context.Background(), "test-code")
	require.NoError(t, err)
	assert.Empty(t, assertion.IDToken)
}

func TestExchange_ProviderRejectsCode(t *testing.T) {
	calls := 0
	client := newExchangeServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
	})

	_, err := client.Exchange(context.Background(), "consumed-code")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUpstream))
	// Codes are single-use; the client must not retry on its own.
	assert.Equal(t, 1, calls)
}

func TestExchange_MalformedBody(t *testing.T) {
	client := newExchangeServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{not json`))
	})

	_, err := client.Exchange(context.Background(), "test-code")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUpstream))
}
