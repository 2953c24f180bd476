// Package guard gates protected operations on a previously verified session.
//
// Verification itself happens at the HTTP boundary: the Authenticate
// middleware extracts a bearer token, verifies it, and attaches the claims to
// the request context. The guard never verifies anything - it only checks
// that a verified session is present, so unauthenticated requests can still
// reach public handlers while protected ones fail closed.
package guard

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"tracker-gateway/internal/auth/token"
	"tracker-gateway/pkg/domain"
	dErrors "tracker-gateway/pkg/domain-errors"
)

type sessionKey struct{}

// WithSession attaches verified session claims to the context.
func WithSession(ctx context.Context, claims *token.Claims) context.Context {
	return context.WithValue(ctx, sessionKey{}, claims)
}

// SessionFromContext returns the attached claims, if any.
func SessionFromContext(ctx context.Context) (*token.Claims, bool) {
	claims, ok := ctx.Value(sessionKey{}).(*token.Claims)
	return claims, ok
}

// Check succeeds only when a verified session with a usable resource ID is
// attached to the context. Every other state - no token presented, malformed,
// expired, wrong secret - looks identical here and yields the same
// unauthorized outcome. Callers must not leak which failure mode occurred.
func Check(ctx context.Context) (domain.ResourceID, error) {
	claims, ok := SessionFromContext(ctx)
	if !ok || claims == nil || claims.ResourceID.IsZero() {
		return 0, dErrors.New(dErrors.CodeUnauthorized, "invalid access token")
	}
	return claims.ResourceID, nil
}

// AccessVerifier is the part of token.Verifier the middleware needs.
type AccessVerifier interface {
	VerifyAccess(tokenStr string) (*token.Claims, error)
}

// Authenticate returns middleware that attaches a verified session to the
// request context when a valid bearer token is presented. It never rejects a
// request: absent or invalid credentials just leave the context without a
// session, and the guard handles the rest at protected handlers.
func Authenticate(verifier AccessVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := verifier.VerifyAccess(tokenStr)
			if err != nil {
				logger.DebugContext(r.Context(), "bearer token rejected", "error", err)
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), claims)))
		})
	}
}
