package service

import (
	"context"
	"errors"

	"github.com/golang-jwt/jwt/v5"

	"tracker-gateway/internal/auth/google"
	"tracker-gateway/internal/auth/identity"
	"tracker-gateway/internal/auth/token"
	"tracker-gateway/internal/teamdeck"
	"tracker-gateway/pkg/domain"
	dErrors "tracker-gateway/pkg/domain-errors"
)

const (
	testEmail = "jane@moodup.team"
	testCode  = "4/0Adeu5BW"
)

var (
	testAssertion = &google.Assertion{IDToken: "header.payload.signature"}
	testResource  = &teamdeck.Resource{ID: 42, Email: testEmail, Active: true}
	testTokens    = &token.Response{
		AccessToken:  "access.jwt",
		RefreshToken: "refresh.jwt",
		ExpiresIn:    86400,
	}
)

func (s *ServiceSuite) TestLoginURL() {
	s.mockProvider.EXPECT().LoginURL().Return("https://accounts.google.com/o/oauth2/v2/auth?client_id=x")

	url := s.service.LoginURL()

	s.Contains(url, "accounts.google.com")
}

func (s *ServiceSuite) TestLoginWithGoogle_Success() {
	ctx := context.Background()
	s.mockProvider.EXPECT().Exchange(ctx, testCode).Return(testAssertion, nil)
	s.mockIdentities.EXPECT().Verify(ctx, testAssertion).Return(identity.Identity{Email: testEmail}, nil)
	s.mockDirectory.EXPECT().GetResourceByEmail(ctx, testEmail).Return(testResource, nil)
	s.mockIssuer.EXPECT().Issue(testEmail, domain.ResourceID(42)).Return(testTokens, nil)

	tokens, err := s.service.LoginWithGoogle(ctx, testCode)

	s.Require().NoError(err)
	s.Equal(testTokens, tokens)
}

func (s *ServiceSuite) TestLoginWithGoogle_ExchangeFails() {
	ctx := context.Background()
	s.mockProvider.EXPECT().Exchange(ctx, testCode).
		Return(nil, dErrors.New(dErrors.CodeUpstream, "token endpoint returned 400"))

	tokens, err := s.service.LoginWithGoogle(ctx, testCode)

	s.Require().Error(err)
	s.Nil(tokens)
	s.True(dErrors.HasCode(err, dErrors.CodeUpstream))
}

func (s *ServiceSuite) TestLoginWithGoogle_IdentityRejected() {
	ctx := context.Background()
	s.mockProvider.EXPECT().Exchange(ctx, testCode).Return(testAssertion, nil)
	s.mockIdentities.EXPECT().Verify(ctx, testAssertion).
		Return(identity.Identity{}, dErrors.New(dErrors.CodeInvalidDomain, "invalid domain"))

	tokens, err := s.service.LoginWithGoogle(ctx, testCode)

	s.Require().Error(err)
	s.Nil(tokens)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidDomain))
}

func (s *ServiceSuite) TestLoginWithGoogle_NoAccount() {
	ctx := context.Background()
	s.mockProvider.EXPECT().Exchange(ctx, testCode).Return(testAssertion, nil)
	s.mockIdentities.EXPECT().Verify(ctx, testAssertion).Return(identity.Identity{Email: testEmail}, nil)
	s.mockDirectory.EXPECT().GetResourceByEmail(ctx, testEmail).Return(nil, nil)

	tokens, err := s.service.LoginWithGoogle(ctx, testCode)

	s.Require().Error(err)
	s.Nil(tokens)
	s.True(dErrors.HasCode(err, dErrors.CodeNoAccount))
	s.Contains(err.Error(), "`jane@moodup.team`")
}

func (s *ServiceSuite) TestLoginWithGoogle_DirectoryUnavailable() {
	ctx := context.Background()
	s.mockProvider.EXPECT().Exchange(ctx, testCode).Return(testAssertion, nil)
	s.mockIdentities.EXPECT().Verify(ctx, testAssertion).Return(identity.Identity{Email: testEmail}, nil)
	s.mockDirectory.EXPECT().GetResourceByEmail(ctx, testEmail).
		Return(nil, dErrors.New(dErrors.CodeUpstream, "teamdeck api returned status 502"))

	tokens, err := s.service.LoginWithGoogle(ctx, testCode)

	s.Require().Error(err)
	s.Nil(tokens)
	s.True(dErrors.HasCode(err, dErrors.CodeUpstream))
}

func (s *ServiceSuite) TestLoginWithGoogle_IssuanceFails() {
	ctx := context.Background()
	s.mockProvider.EXPECT().Exchange(ctx, testCode).Return(testAssertion, nil)
	s.mockIdentities.EXPECT().Verify(ctx, testAssertion).Return(identity.Identity{Email: testEmail}, nil)
	s.mockDirectory.EXPECT().GetResourceByEmail(ctx, testEmail).Return(testResource, nil)
	s.mockIssuer.EXPECT().Issue(testEmail, domain.ResourceID(42)).
		Return(nil, errors.New("signing failed"))

	tokens, err := s.service.LoginWithGoogle(ctx, testCode)

	s.Require().Error(err)
	s.Nil(tokens)
}

func refreshClaims(email string, resourceID domain.ResourceID) *token.Claims {
	return &token.Claims{
		ResourceID: resourceID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: email,
		},
	}
}

func (s *ServiceSuite) TestRefresh_Success() {
	ctx := context.Background()
	s.mockRefresh.EXPECT().VerifyRefresh("refresh.jwt").Return(refreshClaims(testEmail, 42), nil)
	s.mockDirectory.EXPECT().GetResourceByEmail(ctx, testEmail).Return(testResource, nil)
	s.mockIssuer.EXPECT().Issue(testEmail, domain.ResourceID(42)).Return(testTokens, nil)

	tokens, err := s.service.Refresh(ctx, "refresh.jwt")

	s.Require().NoError(err)
	s.Equal(testTokens, tokens)
}

func (s *ServiceSuite) TestRefresh_InvalidToken() {
	ctx := context.Background()
	s.mockRefresh.EXPECT().VerifyRefresh("garbage").
		Return(nil, dErrors.New(dErrors.CodeInvalidGrant, "invalid refresh token"))

	tokens, err := s.service.Refresh(ctx, "garbage")

	s.Require().Error(err)
	s.Nil(tokens)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidGrant))
}

func (s *ServiceSuite) TestRefresh_AccountRemoved() {
	ctx := context.Background()
	s.mockRefresh.EXPECT().VerifyRefresh("refresh.jwt").Return(refreshClaims(testEmail, 42), nil)
	s.mockDirectory.EXPECT().GetResourceByEmail(ctx, testEmail).Return(nil, nil)

	tokens, err := s.service.Refresh(ctx, "refresh.jwt")

	s.Require().Error(err)
	s.Nil(tokens)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidGrant))
}

func (s *ServiceSuite) TestRefresh_ResourceIDMismatch() {
	ctx := context.Background()
	other := &teamdeck.Resource{ID: 7, Email: testEmail}
	s.mockRefresh.EXPECT().VerifyRefresh("refresh.jwt").Return(refreshClaims(testEmail, 42), nil)
	s.mockDirectory.EXPECT().GetResourceByEmail(ctx, testEmail).Return(other, nil)

	tokens, err := s.service.Refresh(ctx, "refresh.jwt")

	s.Require().Error(err)
	s.Nil(tokens)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidGrant))
}
