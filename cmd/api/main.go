package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/moumensaid/smartfin/internal/api/handlers"
	"github.com/moumensaid/smartfin/internal/api/middleware"
	"github.com/moumensaid/smartfin/internal/config"
	"github.com/moumensaid/smartfin/internal/extract"
	"github.com/moumensaid/smartfin/internal/ingest"
	"github.com/moumensaid/smartfin/internal/jobs/inmemory"
	"github.com/moumensaid/smartfin/internal/logger"
	"github.com/moumensaid/smartfin/internal/store"
	"github.com/moumensaid/smartfin/internal/uploads"
)

func main() {
	log := logger.New("api")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	ctx := context.Background()

	// Blob store: GCS when a bucket is configured, local disk otherwise.
	var blobs uploads.BlobStore
	if cfg.GCSBucket != "" {
		gcsStore, err := uploads.NewGCSStore(ctx, cfg.GCSBucket)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create GCS store")
		}
		defer gcsStore.Close()
		blobs = gcsStore
		log.Info().Str("bucket", cfg.GCSBucket).Msg("Using GCS upload storage")
	} else {
		blobs = uploads.NewLocalStore(cfg.UploadsDir)
		log.Info().Str("dir", cfg.UploadsDir).Msg("Using local upload storage")
	}

	repo := store.NewRepository(cfg.DataFile)
	parser := extract.NewGeminiParser(cfg.GeminiModel)
	service := ingest.NewService(parser, blobs, repo, nil)

	// Job infrastructure with an in-process worker pool.
	jobStore := inmemory.NewStore()
	jobQueue := inmemory.NewQueue(cfg.QueueSize, jobStore)

	workerCtx, cancelWorker := context.WithCancel(logger.WithContext(ctx, log))
	defer cancelWorker()

	if err := jobQueue.Start(workerCtx, service.HandleJob); err != nil {
		log.Fatal().Err(err).Msg("Failed to start job workers")
	}

	// Initialize handlers
	statementsHandler := handlers.NewStatementsHandler(blobs, jobQueue, log)
	dataHandler := handlers.NewDataHandler(repo, log)
	metricsHandler := handlers.NewMetricsHandler(repo, log)
	contextHandler := handlers.NewContextHandler(repo, log)
	jobsHandler := handlers.NewJobsHandler(jobStore, log)

	// Create router
	mux := http.NewServeMux()

	mux.HandleFunc("/api/statements/upload", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			statementsHandler.Upload(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/financial-data", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			dataHandler.GetFinancialData(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/financial-metrics", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			metricsHandler.GetFinancialMetrics(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/financial-context", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			contextHandler.GetFinancialContext(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/jobs", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			jobsHandler.ListJobs(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/jobs/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			jobID := strings.TrimPrefix(r.URL.Path, "/api/jobs/")
			if jobID == "" {
				middleware.WriteError(w, http.StatusBadRequest, "Job ID is required")
				return
			}
			jobsHandler.GetJob(w, r, jobID)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// Apply middleware
	handler := middleware.Recovery(log)(
		middleware.Logger(log)(
			middleware.RequestID(log)(
				middleware.CORS(mux),
			),
		),
	)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting API server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	cancelWorker()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	// Stop job queue and wait for in-flight jobs
	if err := jobQueue.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error stopping job queue")
	}

	log.Info().Msg("Server exited")
}
