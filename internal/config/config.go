// Package config loads service configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds everything the binaries need to run.
type Config struct {
	// HTTP server
	Port string

	// Persisted statement collection (flat JSON file).
	DataFile string

	// Uploaded PDF storage. When GCSBucket is set the GCS backend is used,
	// otherwise PDFs land under UploadsDir on local disk.
	UploadsDir string
	GCSBucket  string

	// Extraction
	GeminiModel string

	// Analytics export (cmd/export only).
	BigQueryProject string
	BigQueryDataset string

	// Job queue
	QueueSize int
}

// Load reads configuration, applying defaults for anything unset. A .env
// file in the working directory is honored when present.
func Load() *Config {
	// Missing .env is the normal case outside local development.
	_ = godotenv.Load()

	return &Config{
		Port:            getEnv("PORT", "8080"),
		DataFile:        getEnv("DATA_FILE", "./data/bank_statements_data.json"),
		UploadsDir:      getEnv("UPLOADS_DIR", "./data/uploads"),
		GCSBucket:       getEnv("GCS_BUCKET", ""),
		GeminiModel:     getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		BigQueryProject: getEnv("BIGQUERY_PROJECT", ""),
		BigQueryDataset: getEnv("BIGQUERY_DATASET", "smartfin"),
		QueueSize:       getEnvInt("QUEUE_SIZE", 100),
	}
}

// Validate rejects configurations the binaries cannot start with.
func (c *Config) Validate() error {
	if port, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("invalid port %q: must be a number", c.Port)
	} else if port < 1 || port > 65535 {
		return fmt.Errorf("invalid port %d: must be between 1 and 65535", port)
	}
	if c.DataFile == "" {
		return fmt.Errorf("data file path cannot be empty")
	}
	if c.GCSBucket == "" && c.UploadsDir == "" {
		return fmt.Errorf("either GCS_BUCKET or UPLOADS_DIR must be set")
	}
	if c.QueueSize < 1 {
		return fmt.Errorf("invalid queue size %d: must be at least 1", c.QueueSize)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}
