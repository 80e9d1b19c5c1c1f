// Package ingest orchestrates the statement pipeline: fetch uploaded bytes,
// extract a structured record, merge it into the persisted collection and
// optionally mirror the result to the analytics sink.
package ingest

import (
	"context"
	"fmt"

	"github.com/moumensaid/smartfin/internal/domain"
	"github.com/moumensaid/smartfin/internal/extract"
	"github.com/moumensaid/smartfin/internal/jobs"
	"github.com/moumensaid/smartfin/internal/logger"
	"github.com/moumensaid/smartfin/internal/merge"
	"github.com/moumensaid/smartfin/internal/store"
	"github.com/moumensaid/smartfin/internal/uploads"
)

// Exporter mirrors a merged record to an analytics sink. It is optional; a
// nil Exporter disables the mirror.
type Exporter interface {
	ExportRecord(ctx context.Context, record *domain.StatementRecord) error
}

// Service wires the parser, blob store and repository into one pipeline.
type Service struct {
	parser   extract.Parser
	blobs    uploads.BlobStore
	repo     *store.Repository
	exporter Exporter
}

// NewService creates the pipeline. exporter may be nil.
func NewService(parser extract.Parser, blobs uploads.BlobStore, repo *store.Repository, exporter Exporter) *Service {
	return &Service{
		parser:   parser,
		blobs:    blobs,
		repo:     repo,
		exporter: exporter,
	}
}

// Ingest fetches the uploaded PDF behind fileRef, extracts a record from it
// and merges the record into the collection. The merged record is returned.
func (s *Service) Ingest(ctx context.Context, fileRef, fileName string) (*domain.StatementRecord, error) {
	log := logger.FromContext(ctx)

	pdfBytes, err := s.blobs.Fetch(ctx, fileRef)
	if err != nil {
		return nil, fmt.Errorf("fetch upload %s: %w", fileRef, err)
	}

	record, err := s.parser.ParseStatement(ctx, pdfBytes, fileName)
	if err != nil {
		return nil, fmt.Errorf("parse statement %s: %w", fileName, err)
	}

	if _, err := s.repo.Update(func(existing []*domain.StatementRecord) []*domain.StatementRecord {
		return merge.Merge(existing, record)
	}); err != nil {
		return nil, fmt.Errorf("merge statement %s: %w", fileName, err)
	}

	log.Info().
		Str("file_name", fileName).
		Str("document_type", record.DocumentType).
		Str("source_file_hash", record.SourceFileHash).
		Bool("fallback", record.ProcessedWithFallback).
		Int("transactions", len(record.Transactions)).
		Msg("statement ingested")

	if s.exporter != nil {
		if err := s.exporter.ExportRecord(ctx, record); err != nil {
			// The collection is already updated; an export failure should not
			// fail the job.
			log.Warn().Err(err).Str("file_name", fileName).Msg("analytics export failed")
		}
	}

	return record, nil
}

// HandleJob adapts the service to the queue's handler signature.
func (s *Service) HandleJob(ctx context.Context, job *jobs.ParseStatementJob) error {
	_, err := s.Ingest(ctx, job.FileRef, job.FileName)
	return err
}
