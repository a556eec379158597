package main

import (
	"context"

	"site-catalog/internal/config"
	"site-catalog/internal/logger"
	"site-catalog/internal/seed"
	catalogsvc "site-catalog/internal/service/catalog"
	"site-catalog/internal/store"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New(logger.Config{Env: cfg.Env, Level: cfg.LogLevel}).With().Str("cmd", "seed").Logger()

	ctx := context.Background()
	st, err := store.Open(ctx, cfg.DBConnString, log, store.Options{Migrate: cfg.AutoMigrate})
	if err != nil {
		log.Fatal().Err(err).Msg("open store")
	}
	defer st.Close()

	if err := seed.Apply(ctx, catalogsvc.New(st.Categories, st.Sites, log)); err != nil {
		log.Fatal().Err(err).Msg("seed apply")
	}

	log.Info().Msg("seed applied")
}
