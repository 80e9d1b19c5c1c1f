package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/moumensaid/smartfin/internal/config"
	"github.com/moumensaid/smartfin/internal/export"
	"github.com/moumensaid/smartfin/internal/logger"
	"github.com/moumensaid/smartfin/internal/store"
)

func main() {
	log := logger.New("export")

	timeout := flag.Duration("timeout", 10*time.Minute, "Overall run timeout")
	flag.Parse()

	cfg := config.Load()
	if cfg.BigQueryProject == "" {
		log.Fatal().Msg("BIGQUERY_PROJECT must be set")
	}

	ctx, cancel := context.WithTimeout(logger.WithContext(context.Background(), log), *timeout)
	defer cancel()

	repo := store.NewRepository(cfg.DataFile)
	records, err := repo.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load collection")
	}
	if len(records) == 0 {
		log.Fatal().Str("data_file", cfg.DataFile).Msg("Collection is empty, nothing to export")
	}

	exporter, err := export.NewExporter(ctx, cfg.BigQueryProject, cfg.BigQueryDataset)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create exporter")
	}
	defer exporter.Close()

	log.Info().
		Int("records", len(records)).
		Str("project", cfg.BigQueryProject).
		Str("dataset", cfg.BigQueryDataset).
		Msg("Starting export")

	if err := exporter.ExportCollection(ctx, records); err != nil {
		log.Fatal().Err(err).Msg("Export failed")
	}

	fmt.Printf("Exported %d record(s) to %s.%s\n", len(records), cfg.BigQueryProject, cfg.BigQueryDataset)
}
