// Package identity validates the provider's identity assertion and extracts
// a verified organizational email from it.
package identity

import (
	"context"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"tracker-gateway/internal/auth/google"
	dErrors "tracker-gateway/pkg/domain-errors"
)

// Google issues ID tokens under either issuer form.
var googleIssuers = []string{"https://accounts.google.com", "accounts.google.com"}

// Identity is a verified email. Produced only after the embedded ID token's
// signature, issuer, audience, verified-flag and domain checks all pass.
type Identity struct {
	Email string
}

type idTokenClaims struct {
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Domain        string `json:"hd"`
	jwt.RegisteredClaims
}

// Verifier checks identity assertions against the provider's published
// signing keys and the configured organizational domain.
type Verifier struct {
	keys          google.KeySource
	audience      string
	allowedDomain string
}

// NewVerifier builds a Verifier. audience is the registered OAuth2 client ID:
// an ID token minted for any other client is rejected.
func NewVerifier(keys google.KeySource, audience, allowedDomain string) *Verifier {
	return &Verifier{
		keys:          keys,
		audience:      audience,
		allowedDomain: allowedDomain,
	}
}

// Verify extracts the verified email identity from an assertion.
//
// The embedded ID token's signature IS verified against the provider's
// published keys before any claim is trusted.
func (v *Verifier) Verify(ctx context.Context, assertion *google.Assertion) (Identity, error) {
	if assertion == nil || assertion.IDToken == "" {
		return Identity{}, dErrors.New(dErrors.CodeIdentityTokenMissing,
			"received token from Google did not include `id_token` field")
	}

	claims := new(idTokenClaims)
	parsed, err := jwt.ParseWithClaims(assertion.IDToken, claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodRS256.Alg() {
			return nil, jwt.ErrTokenUnverifiable
		}
		kid, _ := t.Header["kid"].(string)
		if kid == "" {
			return nil, jwt.ErrTokenUnverifiable
		}
		return v.keys.Key(ctx, kid)
	}, jwt.WithAudience(v.audience))
	if err != nil || !parsed.Valid {
		return Identity{}, dErrors.Wrap(err, dErrors.CodeUnauthorized, "invalid identity token")
	}

	if !validIssuer(claims.Issuer) {
		return Identity{}, dErrors.New(dErrors.CodeUnauthorized, "invalid identity token issuer")
	}

	if !claims.EmailVerified {
		return Identity{}, dErrors.New(dErrors.CodeEmailNotVerified,
			fmt.Sprintf("email `%s` is not verified", claims.Email))
	}

	domain := claims.Domain
	if domain == "" {
		// Accounts outside a Google Workspace org carry no hd claim.
		if _, after, found := strings.Cut(claims.Email, "@"); found {
			domain = after
		}
	}
	if domain != v.allowedDomain {
		return Identity{}, dErrors.New(dErrors.CodeInvalidDomain,
			fmt.Sprintf("invalid domain (expected %q, found %q)", v.allowedDomain, domain))
	}

	return Identity{Email: claims.Email}, nil
}

func validIssuer(issuer string) bool {
	for _, iss := range googleIssuers {
		if issuer == iss {
			return true
		}
	}
	return false
}
