// Package export mirrors ingested statements into BigQuery so they can be
// joined and charted with standard SQL tooling. The JSON collection file
// stays the source of truth; BigQuery is an analytics copy.
package export

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/bigquery"
	"github.com/google/uuid"

	"github.com/moumensaid/smartfin/internal/domain"
	"github.com/moumensaid/smartfin/internal/metrics"
)

const (
	statementsTable   = "statements"
	transactionsTable = "transactions"
)

// Exporter writes statement and transaction rows to a BigQuery dataset.
type Exporter struct {
	client  *bigquery.Client
	dataset string
}

// NewExporter creates an exporter for the given project and dataset. It
// assumes Application Default Credentials are configured.
func NewExporter(ctx context.Context, projectID, dataset string) (*Exporter, error) {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("export: bigquery client: %w", err)
	}
	return &Exporter{client: client, dataset: dataset}, nil
}

// ExportRecord inserts one statement row plus one row per transaction.
func (e *Exporter) ExportRecord(ctx context.Context, record *domain.StatementRecord) error {
	now := time.Now()

	stmt := &StatementRow{
		SourceFileHash:        record.SourceFileHash,
		SourceFileName:        record.SourceFileName,
		DocumentType:          record.DocumentType,
		BankName:              nullString(record.BankName),
		Currency:              nullString(record.AccountDetails.Currency),
		PeriodStart:           nullDate(record.StatementPeriod.StartDate),
		PeriodEnd:             nullDate(record.StatementPeriod.EndDate),
		OpeningBalance:        nullFloat(record.Summary.OpeningBalance),
		ClosingBalance:        nullFloat(record.Summary.ClosingBalance),
		TotalDebits:           nullFloat(record.Summary.TotalDebits),
		TotalCredits:          nullFloat(record.Summary.TotalCredits),
		TransactionCount:      int64(len(record.Transactions)),
		ProcessedWithFallback: record.ProcessedWithFallback,
		IngestedTS:            now,
	}

	inserter := e.client.Dataset(e.dataset).Table(statementsTable).Inserter()
	if err := inserter.Put(ctx, []*StatementRow{stmt}); err != nil {
		return fmt.Errorf("export: insert statement row: %w", err)
	}

	rows := make([]*TransactionRow, 0, len(record.Transactions))
	for _, tx := range record.Transactions {
		rows = append(rows, &TransactionRow{
			TransactionID:   uuid.NewString(),
			SourceFileHash:  record.SourceFileHash,
			TransactionDate: nullDate(tx.TransactionDate),
			ValueDate:       nullDate(tx.ValueDate),
			Description:     tx.Description,
			Category:        string(metrics.Classify(tx.Description)),
			Debit:           nullFloat(tx.Debit),
			Credit:          nullFloat(tx.Credit),
			IngestedTS:      now,
		})
	}
	if len(rows) == 0 {
		return nil
	}

	inserter = e.client.Dataset(e.dataset).Table(transactionsTable).Inserter()
	if err := inserter.Put(ctx, rows); err != nil {
		return fmt.Errorf("export: insert transaction rows: %w", err)
	}
	return nil
}

// ExportCollection exports every record in the collection. Used by the batch
// export binary to backfill the dataset.
func (e *Exporter) ExportCollection(ctx context.Context, records []*domain.StatementRecord) error {
	for _, record := range records {
		if err := e.ExportRecord(ctx, record); err != nil {
			return fmt.Errorf("export %s: %w", record.SourceFileName, err)
		}
	}
	return nil
}

// Close releases the underlying BigQuery client.
func (e *Exporter) Close() error {
	return e.client.Close()
}
