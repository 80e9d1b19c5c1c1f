package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/moumensaid/smartfin/internal/config"
	"github.com/moumensaid/smartfin/internal/extract"
	"github.com/moumensaid/smartfin/internal/ingest"
	"github.com/moumensaid/smartfin/internal/logger"
	"github.com/moumensaid/smartfin/internal/store"
	"github.com/moumensaid/smartfin/internal/uploads"
)

// maxConcurrent bounds parallel model calls during a batch run.
const maxConcurrent = 3

func main() {
	log := logger.New("ingest")

	var (
		dir     = flag.String("dir", "", "Directory of statement PDFs to ingest")
		timeout = flag.Duration("timeout", 15*time.Minute, "Overall run timeout")
	)
	flag.Parse()

	files := flag.Args()
	if *dir != "" {
		entries, err := os.ReadDir(*dir)
		if err != nil {
			log.Fatal().Err(err).Str("dir", *dir).Msg("Failed to read directory")
		}
		for _, entry := range entries {
			if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
				continue
			}
			files = append(files, filepath.Join(*dir, entry.Name()))
		}
	}
	if len(files) == 0 {
		log.Fatal().Msg("Nothing to ingest: pass PDF paths or --dir")
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	ctx, cancel := context.WithTimeout(logger.WithContext(context.Background(), log), *timeout)
	defer cancel()

	blobs := uploads.NewLocalStore(cfg.UploadsDir)
	repo := store.NewRepository(cfg.DataFile)
	parser := extract.NewGeminiParser(cfg.GeminiModel)
	service := ingest.NewService(parser, blobs, repo, nil)

	log.Info().Int("files", len(files)).Msg("Starting batch ingestion")

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrent)

	for _, path := range files {
		g.Go(func() error {
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}

			fileName := filepath.Base(path)
			fileRef, err := blobs.Save(gctx, fileName, data)
			if err != nil {
				return err
			}

			if _, err := service.Ingest(gctx, fileRef, fileName); err != nil {
				return err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("Batch ingestion failed")
	}

	fmt.Printf("Ingested %d file(s) into %s\n", len(files), cfg.DataFile)
}
