package export

import (
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
)

type StatementRow struct {
	SourceFileHash string `bigquery:"source_file_hash"` // REQUIRED
	SourceFileName string `bigquery:"source_file_name"` // NULLABLE

	DocumentType string              `bigquery:"document_type"` // REQUIRED
	BankName     bigquery.NullString `bigquery:"bank_name"`     // NULLABLE
	Currency     bigquery.NullString `bigquery:"currency"`      // NULLABLE

	PeriodStart bigquery.NullDate `bigquery:"period_start"` // NULLABLE
	PeriodEnd   bigquery.NullDate `bigquery:"period_end"`   // NULLABLE

	OpeningBalance bigquery.NullFloat64 `bigquery:"opening_balance"` // NULLABLE
	ClosingBalance bigquery.NullFloat64 `bigquery:"closing_balance"` // NULLABLE
	TotalDebits    bigquery.NullFloat64 `bigquery:"total_debits"`    // NULLABLE
	TotalCredits   bigquery.NullFloat64 `bigquery:"total_credits"`   // NULLABLE

	TransactionCount      int64     `bigquery:"transaction_count"`
	ProcessedWithFallback bool      `bigquery:"processed_with_fallback"`
	IngestedTS            time.Time `bigquery:"ingested_ts"` // REQUIRED
}

type TransactionRow struct {
	TransactionID  string `bigquery:"transaction_id"`   // REQUIRED
	SourceFileHash string `bigquery:"source_file_hash"` // REQUIRED

	TransactionDate bigquery.NullDate `bigquery:"transaction_date"` // NULLABLE
	ValueDate       bigquery.NullDate `bigquery:"value_date"`       // NULLABLE

	Description string `bigquery:"description"` // REQUIRED
	Category    string `bigquery:"category"`    // REQUIRED

	Debit  bigquery.NullFloat64 `bigquery:"debit"`  // NULLABLE
	Credit bigquery.NullFloat64 `bigquery:"credit"` // NULLABLE

	IngestedTS time.Time `bigquery:"ingested_ts"` // REQUIRED
}

func nullString(s *string) bigquery.NullString {
	if s == nil {
		return bigquery.NullString{}
	}
	return bigquery.NullString{StringVal: *s, Valid: true}
}

func nullFloat(f *float64) bigquery.NullFloat64 {
	if f == nil {
		return bigquery.NullFloat64{}
	}
	return bigquery.NullFloat64{Float64: *f, Valid: true}
}

// nullDate parses an ISO date string into a NullDate. Unparseable or missing
// dates export as NULL rather than failing the row.
func nullDate(s *string) bigquery.NullDate {
	if s == nil {
		return bigquery.NullDate{}
	}
	d, err := civil.ParseDate(*s)
	if err != nil {
		return bigquery.NullDate{}
	}
	return bigquery.NullDate{Date: d, Valid: true}
}
