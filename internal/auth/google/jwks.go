package google

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	dErrors "tracker-gateway/pkg/domain-errors"
)

// CertsURL is Google's published JWKS endpoint for ID token signing keys.
const CertsURL = "https://www.googleapis.com/oauth2/v3/certs"

const defaultKeyTTL = time.Hour

// KeySource resolves an RSA public key by key ID. The identity verifier uses
// it to check ID token signatures against the provider's published keys.
type KeySource interface {
	Key(ctx context.Context, kid string) (*rsa.PublicKey, error)
}

// JWKSCache fetches the provider's JWKS and caches it until the response's
// Cache-Control max-age elapses. Safe for concurrent use.
type JWKSCache struct {
	url        string
	httpClient *http.Client

	mu        sync.RWMutex
	keys      map[string]*rsa.PublicKey
	expiresAt time.Time
}

// NewJWKSCache builds a cache over the given JWKS URL. A nil httpClient
// falls back to http.DefaultClient.
func NewJWKSCache(url string, httpClient *http.Client) *JWKSCache {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &JWKSCache{
		url:        url,
		httpClient: httpClient,
		keys:       make(map[string]*rsa.PublicKey),
	}
}

// Key returns the public key for kid, refreshing the cached key set when it
// is stale or the kid is unknown (Google rotates keys regularly).
func (c *JWKSCache) Key(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	c.mu.RLock()
	key, ok := c.keys[kid]
	fresh := time.Now().Before(c.expiresAt)
	c.mu.RUnlock()

	if ok && fresh {
		return key, nil
	}

	if err := c.refresh(ctx); err != nil {
		// A transient outage of the JWKS endpoint must not take logins
		// down: keep serving a stale key for a known kid until a
		// refresh succeeds.
		if ok {
			return key, nil
		}
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	key, ok = c.keys[kid]
	if !ok {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "unknown signing key")
	}
	return key, nil
}

type jwk struct {
	Kty string `json:"kty"`
	Kid string `json:"kid"`
	N   string `json:"n"`
	E   string `json:"e"`
}

type jwks struct {
	Keys []jwk `json:"keys"`
}

func (c *JWKSCache) refresh(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "building jwks request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeUpstream, "fetching provider signing keys")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return dErrors.New(dErrors.CodeUpstream, fmt.Sprintf("jwks endpoint returned status %d", resp.StatusCode))
	}

	var set jwks
	if err := json.NewDecoder(resp.Body).Decode(&set); err != nil {
		return dErrors.Wrap(err, dErrors.CodeUpstream, "decoding provider signing keys")
	}

	keys := make(map[string]*rsa.PublicKey, len(set.Keys))
	for _, k := range set.Keys {
		if k.Kty != "RSA" || k.Kid == "" {
			continue
		}
		pub, err := k.publicKey()
		if err != nil {
			return err
		}
		keys[k.Kid] = pub
	}
	if len(keys) == 0 {
		return dErrors.New(dErrors.CodeUpstream, "jwks response contained no usable keys")
	}

	c.mu.Lock()
	c.keys = keys
	c.expiresAt = time.Now().Add(cacheTTL(resp.Header.Get("Cache-Control")))
	c.mu.Unlock()
	return nil
}

func (k jwk) publicKey() (*rsa.PublicKey, error) {
	n, err := base64.RawURLEncoding.DecodeString(k.N)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUpstream, "decoding jwk modulus")
	}
	e, err := base64.RawURLEncoding.DecodeString(k.E)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUpstream, "decoding jwk exponent")
	}
	return &rsa.PublicKey{
		N: new(big.Int).SetBytes(n),
		E: int(new(big.Int).SetBytes(e).Int64()),
	}, nil
}

// cacheTTL extracts max-age from a Cache-Control header, defaulting to one
// hour when absent or malformed.
func cacheTTL(cacheControl string) time.Duration {
	for directive := range strings.SplitSeq(cacheControl, ",") {
		directive = strings.TrimSpace(directive)
		if rest, ok := strings.CutPrefix(directive, "max-age="); ok {
			if seconds, err := strconv.Atoi(rest); err == nil && seconds > 0 {
				return time.Duration(seconds) * time.Second
			}
		}
	}
	return defaultKeyTTL
}
