package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"site-catalog/internal/config"
	"site-catalog/internal/importer"
	"site-catalog/internal/logger"
	catalogsvc "site-catalog/internal/service/catalog"
	"site-catalog/internal/store"
)

func main() {
	var filePath string
	flag.StringVar(&filePath, "file", "", "Path to a category,name,url CSV file")
	flag.Parse()

	if filePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.FromEnv()
	log := logger.New(logger.Config{Env: cfg.Env, Level: cfg.LogLevel}).With().Str("cmd", "importer").Logger()
	ctx := context.Background()

	st, err := store.Open(ctx, cfg.DBConnString, log, store.Options{Migrate: cfg.AutoMigrate})
	if err != nil {
		log.Fatal().Err(err).Msg("open store")
	}
	defer st.Close()

	f, err := os.Open(filePath)
	if err != nil {
		log.Fatal().Err(err).Msg("open file")
	}
	defer f.Close()

	imp := importer.NewCSVImporter(f, catalogsvc.New(st.Categories, st.Sites, log))

	start := time.Now()
	res, err := imp.Run(ctx)
	if err != nil {
		log.Fatal().Err(err).Int("sites_created", res.SitesCreated).Msg("import failed")
	}

	fmt.Printf("Imported %d sites (%d skipped, %d new categories) in %s\n",
		res.SitesCreated, res.SitesSkipped, res.CategoriesCreated, time.Since(start).Truncate(time.Millisecond))
}
