package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/moumensaid/smartfin/internal/config"
	"github.com/moumensaid/smartfin/internal/extract"
	"github.com/moumensaid/smartfin/internal/ingest"
	"github.com/moumensaid/smartfin/internal/jobs/inmemory"
	"github.com/moumensaid/smartfin/internal/logger"
	"github.com/moumensaid/smartfin/internal/store"
	"github.com/moumensaid/smartfin/internal/uploads"
)

func main() {
	log := logger.New("worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	ctx, cancel := context.WithCancel(logger.WithContext(context.Background(), log))
	defer cancel()

	var blobs uploads.BlobStore
	if cfg.GCSBucket != "" {
		gcsStore, err := uploads.NewGCSStore(ctx, cfg.GCSBucket)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create GCS store")
		}
		defer gcsStore.Close()
		blobs = gcsStore
	} else {
		blobs = uploads.NewLocalStore(cfg.UploadsDir)
	}

	repo := store.NewRepository(cfg.DataFile)
	parser := extract.NewGeminiParser(cfg.GeminiModel)
	service := ingest.NewService(parser, blobs, repo, nil)

	// In-memory queue and store. A managed queue would replace these when the
	// worker runs in a separate process from the API.
	jobStore := inmemory.NewStore()
	jobQueue := inmemory.NewQueue(cfg.QueueSize, jobStore)

	log.Info().Msg("Starting worker service")

	if err := jobQueue.Start(ctx, service.HandleJob); err != nil {
		log.Fatal().Err(err).Msg("Failed to start job consumer")
	}

	log.Info().Msg("Worker service started, waiting for jobs...")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down worker service...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	// Stop the queue and wait for in-flight jobs
	if err := jobQueue.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error during graceful shutdown")
	}

	log.Info().Msg("Worker service exited")
}
