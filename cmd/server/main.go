package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"tracker-gateway/internal/auth/google"
	"tracker-gateway/internal/auth/identity"
	"tracker-gateway/internal/auth/service"
	"tracker-gateway/internal/auth/token"
	"tracker-gateway/internal/platform/config"
	"tracker-gateway/internal/platform/httpserver"
	"tracker-gateway/internal/platform/logger"
	"tracker-gateway/internal/platform/metrics"
	"tracker-gateway/internal/teamdeck"
	httptransport "tracker-gateway/internal/transport/http"
)

// main wires dependencies and keeps the server lifecycle small. Business
// logic lives in the internal services packages.
func main() {
	_ = godotenv.Load()

	cfg, err := config.FromEnv()
	if err != nil {
		logger.New("").Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel)

	log.Info("initializing tracker-gateway",
		"addr", cfg.Addr,
		"allowed_domain", cfg.Auth.AllowedDomain,
		"access_token_ttl", cfg.Auth.AccessTokenTTL,
	)

	m := metrics.New()

	provider := google.NewClient(cfg.Google.ClientID, cfg.Google.ClientSecret, cfg.Google.RedirectURI)
	keys := google.NewJWKSCache(google.CertsURL, http.DefaultClient)
	identities := identity.NewVerifier(keys, cfg.Google.ClientID, cfg.Auth.AllowedDomain)

	issuer := token.NewIssuer(cfg.Auth.AccessTokenSecret, cfg.Auth.RefreshTokenSecret, cfg.Auth.AccessTokenTTL)
	verifier := token.NewVerifier(cfg.Auth.AccessTokenSecret, cfg.Auth.RefreshTokenSecret)

	tracker := teamdeck.NewClient(cfg.Teamdeck.BaseURL, cfg.Teamdeck.APIKey, teamdeck.WithMetrics(m))

	auth := service.NewService(provider, identities, tracker, issuer, verifier,
		service.WithLogger(log),
		service.WithMetrics(m),
	)

	handler := httptransport.NewHandler(auth, tracker, log, m)
	router := httptransport.NewRouter(handler, verifier, log, m)

	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting http server", "addr", cfg.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}
