package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"site-catalog/internal/authz"
	"site-catalog/internal/config"
	"site-catalog/internal/httpserver"
	"site-catalog/internal/logger"
	catalogsvc "site-catalog/internal/service/catalog"
	"site-catalog/internal/store"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New(logger.Config{Env: cfg.Env, Level: cfg.LogLevel}).With().Str("cmd", "api").Logger()

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx := context.Background()
	st, err := store.Open(ctx, cfg.DBConnString, log, store.Options{Migrate: cfg.AutoMigrate})
	if err != nil {
		log.Fatal().Err(err).Msg("open store")
	}
	defer st.Close()

	authorizer, err := newAuthorizer(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("init authorizer")
	}

	srv, err := httpserver.New(cfg.HTTPAddr, log, st, httpserver.Deps{
		Catalog:     catalogsvc.New(st.Categories, st.Sites, log),
		Authorizer:  authorizer,
		CORSOrigins: cfg.CORSOrigins,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("init server")
	}

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
	case err := <-serverErr:
		log.Error().Err(err).Msg("server error")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	} else {
		log.Info().Msg("server stopped")
	}
}

func newAuthorizer(cfg config.Config) (authz.Authorizer, error) {
	if cfg.AuthMode == config.AuthAllowAll {
		return authz.AllowAll{}, nil
	}
	return authz.NewJWT(cfg.JWTSecret, cfg.JWTIssuer)
}
