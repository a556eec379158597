package main

import (
	"context"

	"site-catalog/internal/config"
	"site-catalog/internal/logger"
	"site-catalog/internal/store"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New(logger.Config{Env: cfg.Env, Level: cfg.LogLevel}).With().Str("cmd", "migrate").Logger()

	st, err := store.Open(context.Background(), cfg.DBConnString, log, store.Options{Migrate: true})
	if err != nil {
		log.Fatal().Err(err).Msg("apply migrations")
	}
	st.Close()
}
