package domain

import (
	"sort"
)

// Document types a statement record can carry. Anything the extractor cannot
// classify is stored as DocTypeUnknown rather than rejected.
const (
	DocTypeMonthlyStatement = "monthly_statement"
	DocTypeTransactionList  = "transaction_list"
	DocTypeUnknown          = "unknown"
)

// SentinelDate sorts earlier than any real statement date. Records and
// transactions with missing dates are ordered with this value so that
// sorting never has to special-case nil.
const SentinelDate = "1900-01-01"

// StatementRecord is the structured content of one ingested bank document.
// The JSON field names are a persistence contract: the collection file
// round-trips these records verbatim, so they must not change.
type StatementRecord struct {
	DocumentType    string         `json:"document_type"`
	BankName        *string        `json:"bank_name"`
	Agency          *string        `json:"agency"`
	AccountHolder   AccountHolder  `json:"account_holder"`
	AccountDetails  AccountDetails `json:"account_details"`
	StatementPeriod Period         `json:"statement_period"`
	Summary         Summary        `json:"summary"`
	Transactions    []*Transaction `json:"transactions"`

	// Provenance metadata attached by the extraction step.
	SourceFileHash        string `json:"source_file_hash"`
	SourceFileName        string `json:"source_file_name"`
	ProcessingTimestamp   string `json:"processing_timestamp"`
	ProcessedWithFallback bool   `json:"processed_with_fallback"`
}

// AccountHolder identifies the owner named on the document.
type AccountHolder struct {
	Name    *string `json:"name"`
	Address *string `json:"address"`
}

// AccountDetails identifies the account the document describes.
type AccountDetails struct {
	AccountNumber *string `json:"account_number"`
	FullBankID    *string `json:"full_bank_id"`
	Currency      *string `json:"currency"`
}

// Period is the [start, end] date interval a document claims to cover.
// Either bound may be absent.
type Period struct {
	StartDate *string `json:"start_date"`
	EndDate   *string `json:"end_date"`
}

// Summary holds the document-level balance figures. All fields are nullable;
// transaction lists in particular rarely report an opening balance.
type Summary struct {
	OpeningBalance *float64 `json:"opening_balance"`
	ClosingBalance *float64 `json:"closing_balance"`
	TotalDebits    *float64 `json:"total_debits"`
	TotalCredits   *float64 `json:"total_credits"`
}

// Transaction is a single movement on the account. At most one of Debit and
// Credit is meaningfully set.
type Transaction struct {
	TransactionDate *string  `json:"transaction_date"`
	ValueDate       *string  `json:"value_date"`
	Description     string   `json:"description"`
	Debit           *float64 `json:"debit"`
	Credit          *float64 `json:"credit"`
}

// PeriodEnd returns the statement period end date, or SentinelDate when the
// record has none. ISO dates compare correctly as strings.
func (r *StatementRecord) PeriodEnd() string {
	if r.StatementPeriod.EndDate != nil && *r.StatementPeriod.EndDate != "" {
		return *r.StatementPeriod.EndDate
	}
	return SentinelDate
}

// Date returns the transaction date, or SentinelDate when missing.
func (t *Transaction) Date() string {
	if t.TransactionDate != nil && *t.TransactionDate != "" {
		return *t.TransactionDate
	}
	return SentinelDate
}

// DebitAmount returns the debit treating nil as 0.
func (t *Transaction) DebitAmount() float64 {
	if t.Debit == nil {
		return 0
	}
	return *t.Debit
}

// CreditAmount returns the credit treating nil as 0.
func (t *Transaction) CreditAmount() float64 {
	if t.Credit == nil {
		return 0
	}
	return *t.Credit
}

// SortByPeriodEnd orders records ascending by statement period end date,
// records without one first. The sort is stable so equal keys keep their
// ingestion order.
func SortByPeriodEnd(records []*StatementRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].PeriodEnd() < records[j].PeriodEnd()
	})
}

// String returns a pointer to s, for building nullable record fields.
func String(s string) *string { return &s }

// Float returns a pointer to f, for building nullable record fields.
func Float(f float64) *float64 { return &f }
