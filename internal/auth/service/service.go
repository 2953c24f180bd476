// Package service orchestrates the Google login flow: code exchange, identity
// verification, resource directory lookup and session token issuance.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"tracker-gateway/internal/auth/google"
	"tracker-gateway/internal/auth/identity"
	"tracker-gateway/internal/auth/token"
	"tracker-gateway/internal/platform/metrics"
	"tracker-gateway/internal/teamdeck"
	"tracker-gateway/pkg/domain"
	dErrors "tracker-gateway/pkg/domain-errors"
)

// Provider exchanges an authorization code at the identity provider.
type Provider interface {
	LoginURL() string
	Exchange(ctx context.Context, code string) (*google.Assertion, error)
}

// IdentityVerifier validates the provider's assertion and extracts the
// caller's identity. Verification failures carry their own error codes.
type IdentityVerifier interface {
	Verify(ctx context.Context, assertion *google.Assertion) (identity.Identity, error)
}

// Directory resolves a verified email to a resource account. A missing
// account is (nil, nil), not an error.
type Directory interface {
	GetResourceByEmail(ctx context.Context, email string) (*teamdeck.Resource, error)
}

// TokenIssuer mints the access/refresh pair for an authenticated resource.
type TokenIssuer interface {
	Issue(email string, resourceID domain.ResourceID) (*token.Response, error)
}

// RefreshVerifier validates a presented refresh token.
type RefreshVerifier interface {
	VerifyRefresh(tokenStr string) (*token.Claims, error)
}

type Service struct {
	provider   Provider
	identities IdentityVerifier
	directory  Directory
	issuer     TokenIssuer
	refresh    RefreshVerifier
	logger     *slog.Logger
	metrics    *metrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func NewService(provider Provider, identities IdentityVerifier, directory Directory, issuer TokenIssuer, refresh RefreshVerifier, opts ...Option) *Service {
	svc := &Service{
		provider:   provider,
		identities: identities,
		directory:  directory,
		issuer:     issuer,
		refresh:    refresh,
	}
	for _, opt := range opts {
		opt(svc)
	}
	if svc.logger == nil {
		svc.logger = slog.Default()
	}
	return svc
}

// LoginURL returns the Google consent screen URL the client should open.
func (s *Service) LoginURL() string {
	return s.provider.LoginURL()
}

// LoginWithGoogle runs the full login pipeline for an authorization code.
// Every failure along the way denies the login; there is no partial success.
func (s *Service) LoginWithGoogle(ctx context.Context, code string) (*token.Response, error) {
	assertion, err := s.provider.Exchange(ctx, code)
	if err != nil {
		return nil, s.loginFailed(ctx, err, "code exchange failed")
	}

	ident, err := s.identities.Verify(ctx, assertion)
	if err != nil {
		return nil, s.loginFailed(ctx, err, "identity verification failed")
	}

	resource, err := s.directory.GetResourceByEmail(ctx, ident.Email)
	if err != nil {
		return nil, s.loginFailed(ctx, err, "resource lookup failed")
	}
	if resource == nil {
		err := dErrors.New(dErrors.CodeNoAccount,
			fmt.Sprintf("No account found with `%s` email", ident.Email))
		return nil, s.loginFailed(ctx, err, "no resource account")
	}

	tokens, err := s.issuer.Issue(ident.Email, resource.ID)
	if err != nil {
		return nil, s.loginFailed(ctx, err, "token issuance failed")
	}

	s.logger.InfoContext(ctx, "login succeeded", "resource_id", resource.ID)
	if s.metrics != nil {
		s.metrics.IncrementLogins()
		s.metrics.IncrementTokensIssued()
	}
	return tokens, nil
}

// Refresh redeems a refresh token for a fresh token pair. The account is
// re-checked against the directory so a removed resource cannot keep a
// session alive indefinitely.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*token.Response, error) {
	claims, err := s.refresh.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, err
	}

	resource, err := s.directory.GetResourceByEmail(ctx, claims.Subject)
	if err != nil {
		return nil, err
	}
	if resource == nil || resource.ID != claims.ResourceID {
		return nil, dErrors.New(dErrors.CodeInvalidGrant, "invalid refresh token")
	}

	tokens, err := s.issuer.Issue(claims.Subject, claims.ResourceID)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "session refreshed", "resource_id", claims.ResourceID)
	if s.metrics != nil {
		s.metrics.IncrementTokensRefreshed()
		s.metrics.IncrementTokensIssued()
	}
	return tokens, nil
}

func (s *Service) loginFailed(ctx context.Context, err error, msg string) error {
	reason := string(dErrors.CodeOf(err))
	s.logger.WarnContext(ctx, msg, "reason", reason, "error", err)
	if s.metrics != nil {
		s.metrics.IncrementLoginFailures(reason)
	}
	return err
}
