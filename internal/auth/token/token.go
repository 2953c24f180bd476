// Package token issues and verifies the gateway's session credentials.
//
// A login produces two signed JWTs sharing the same claims shape: an access
// token that expires after a configured TTL and a refresh token with no
// expiry of its own. Each kind is signed with its own secret, so one can never
// be accepted in place of the other.
package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"tracker-gateway/pkg/domain"
	dErrors "tracker-gateway/pkg/domain-errors"
)

// Claims is the payload carried by both session token kinds. ExpiresAt is
// only set on access claims; refresh claims omit it entirely.
type Claims struct {
	ResourceID domain.ResourceID `json:"resource_id"`
	jwt.RegisteredClaims
}

// AccessToken and RefreshToken are distinct nominal types so the two signed
// credentials cannot be interchanged by a caller. The distinction is
// compile-time only; both wrap the serialized JWT.
type (
	AccessToken  string
	RefreshToken string
)

func (t AccessToken) String() string  { return string(t) }
func (t RefreshToken) String() string { return string(t) }

// Response is the wire-level object returned to the client after a
// successful login or refresh. ExpiresIn is in seconds.
type Response struct {
	AccessToken  AccessToken  `json:"access_token"`
	RefreshToken RefreshToken `json:"refresh_token"`
	ExpiresIn    int64        `json:"expires_in"`
}

// kind describes how one token kind is signed: its secret and its expiry
// policy. Zero ttl means the kind never expires by its own claims.
type kind struct {
	secret []byte
	ttl    time.Duration
}

func (k kind) sign(claims *Claims) (string, error) {
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(k.secret)
	if err != nil {
		// Should be unreachable with HMAC signing; treat as internal.
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "error while encoding token")
	}
	return signed, nil
}

// verify parses and validates a serialized token against this kind's secret.
// Every failure mode (malformed, bad signature, expired, wrong algorithm)
// collapses into a single unauthorized error so callers cannot distinguish
// why verification failed.
func (k kind) verify(tokenStr string, now func() time.Time) (*Claims, error) {
	claims := new(Claims)
	parsed, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenUnverifiable
		}
		return k.secret, nil
	}, jwt.WithTimeFunc(now))
	if err != nil || !parsed.Valid {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}
	return claims, nil
}

// Option configures an Issuer or Verifier.
type Option func(*clock)

type clock struct {
	now func() time.Time
}

// WithClock overrides the time source. Tests use it to cross expiry
// boundaries without sleeping.
func WithClock(now func() time.Time) Option {
	return func(c *clock) {
		c.now = now
	}
}

// Issuer mints access/refresh token pairs.
type Issuer struct {
	access  kind
	refresh kind
	clock   clock
}

// NewIssuer builds an Issuer from the two kind secrets and the access TTL.
// Secrets are taken as values at construction; the issuer never reads
// process configuration.
func NewIssuer(accessSecret, refreshSecret string, accessTTL time.Duration, opts ...Option) *Issuer {
	i := &Issuer{
		access:  kind{secret: []byte(accessSecret), ttl: accessTTL},
		refresh: kind{secret: []byte(refreshSecret)},
		clock:   clock{now: time.Now},
	}
	for _, opt := range opts {
		opt(&i.clock)
	}
	return i
}

// Issue builds the token pair for a verified email and its resource ID.
// Both tokens share subject, issued-at and resource id; only the access
// token carries an expiry.
func (i *Issuer) Issue(email string, resourceID domain.ResourceID) (*Response, error) {
	issuedAt := i.clock.now()

	accessClaims := &Claims{
		ResourceID: resourceID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(i.access.ttl)),
		},
	}
	refreshClaims := &Claims{
		ResourceID: resourceID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  email,
			IssuedAt: jwt.NewNumericDate(issuedAt),
		},
	}

	accessToken, err := i.access.sign(accessClaims)
	if err != nil {
		return nil, err
	}
	refreshToken, err := i.refresh.sign(refreshClaims)
	if err != nil {
		return nil, err
	}

	return &Response{
		AccessToken:  AccessToken(accessToken),
		RefreshToken: RefreshToken(refreshToken),
		ExpiresIn:    int64(i.access.ttl.Seconds()),
	}, nil
}

// Verifier checks inbound session credentials. Access and refresh tokens are
// verified against their own secrets and are not cross-verifiable.
type Verifier struct {
	access  kind
	refresh kind
	clock   clock
}

// NewVerifier builds a Verifier over the same secrets the Issuer signs with.
func NewVerifier(accessSecret, refreshSecret string, opts ...Option) *Verifier {
	v := &Verifier{
		access:  kind{secret: []byte(accessSecret)},
		refresh: kind{secret: []byte(refreshSecret)},
		clock:   clock{now: time.Now},
	}
	for _, opt := range opts {
		opt(&v.clock)
	}
	return v
}

// VerifyAccess validates an access token string and returns its claims.
func (v *Verifier) VerifyAccess(tokenStr string) (*Claims, error) {
	return v.access.verify(tokenStr, v.clock.now)
}

// VerifyRefresh validates a refresh token string and returns its claims.
// Refresh failures surface as invalid_grant so the token endpoint can answer
// per RFC 6749 §5.2.
func (v *Verifier) VerifyRefresh(tokenStr string) (*Claims, error) {
	claims, err := v.refresh.verify(tokenStr, v.clock.now)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeInvalidGrant, "invalid refresh token")
	}
	return claims, nil
}
