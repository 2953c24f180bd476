package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"tracker-gateway/internal/auth/service/mocks"
)

type ServiceSuite struct {
	suite.Suite
	ctrl           *gomock.Controller
	mockProvider   *mocks.MockProvider
	mockIdentities *mocks.MockIdentityVerifier
	mockDirectory  *mocks.MockDirectory
	mockIssuer     *mocks.MockTokenIssuer
	mockRefresh    *mocks.MockRefreshVerifier
	service        *Service
}

func (s *ServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockProvider = mocks.NewMockProvider(s.ctrl)
	s.mockIdentities = mocks.NewMockIdentityVerifier(s.ctrl)
	s.mockDirectory = mocks.NewMockDirectory(s.ctrl)
	s.mockIssuer = mocks.NewMockTokenIssuer(s.ctrl)
	s.mockRefresh = mocks.NewMockRefreshVerifier(s.ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.service = NewService(
		s.mockProvider,
		s.mockIdentities,
		s.mockDirectory,
		s.mockIssuer,
		s.mockRefresh,
		WithLogger(logger),
	)
}

func (s *ServiceSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}
