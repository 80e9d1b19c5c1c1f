package extract

import (
	"github.com/moumensaid/smartfin/internal/domain"
)

const (
	defaultBankName = "Attijariwafa bank"
	defaultCurrency = "MAD"
)

// PostProcess fills the gaps extraction commonly leaves: missing document
// type, bank name and currency defaults, transaction-list totals computed
// from the transactions themselves, and transaction dates backfilled from
// value dates. The record is modified in place.
func PostProcess(rec *domain.StatementRecord) {
	if rec == nil {
		return
	}

	if rec.DocumentType == "" {
		rec.DocumentType = domain.DocTypeUnknown
	}
	if rec.BankName == nil || *rec.BankName == "" {
		rec.BankName = domain.String(defaultBankName)
	}
	if rec.AccountDetails.Currency == nil || *rec.AccountDetails.Currency == "" {
		rec.AccountDetails.Currency = domain.String(defaultCurrency)
	}

	if rec.DocumentType == domain.DocTypeTransactionList && len(rec.Transactions) > 0 {
		var debits, credits float64
		for _, tx := range rec.Transactions {
			debits += tx.DebitAmount()
			credits += tx.CreditAmount()
		}
		if rec.Summary.TotalDebits == nil {
			rec.Summary.TotalDebits = domain.Float(debits)
		}
		if rec.Summary.TotalCredits == nil {
			rec.Summary.TotalCredits = domain.Float(credits)
		}
	}

	for _, tx := range rec.Transactions {
		if tx.TransactionDate == nil && tx.ValueDate != nil {
			tx.TransactionDate = tx.ValueDate
		}
	}
}
