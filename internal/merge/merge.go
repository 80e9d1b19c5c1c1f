// Package merge folds freshly extracted statement records into the persisted
// collection: identical re-uploads replace their earlier record, transaction
// lists are reconciled into overlapping monthly statements, and everything
// else is appended as a standalone entry.
package merge

import (
	"github.com/moumensaid/smartfin/internal/domain"
)

// Merge returns the collection with incoming folded in.
//
// Resolution order:
//  1. A record with the same source_file_hash is replaced in place. This is
//     an idempotent re-ingestion update, not an error.
//  2. A transaction_list whose transactions overlap the period of an existing
//     monthly_statement is reconciled into that statement (first match wins).
//  3. Everything else is appended as a new standalone record.
//
// The returned collection is sorted ascending by statement period end date.
// When reconciling, the matched statement's transaction list and summary
// totals are mutated in place; otherwise the inputs are left untouched.
func Merge(existing []*domain.StatementRecord, incoming *domain.StatementRecord) []*domain.StatementRecord {
	if len(existing) == 0 {
		return []*domain.StatementRecord{incoming}
	}

	for i, rec := range existing {
		if rec.SourceFileHash == incoming.SourceFileHash {
			existing[i] = incoming
			return existing
		}
	}

	merged := false
	if incoming.DocumentType == domain.DocTypeTransactionList {
		merged = reconcileTransactionList(existing, incoming)
	}

	if !merged {
		existing = append(existing, incoming)
	}

	domain.SortByPeriodEnd(existing)
	return existing
}

// reconcileTransactionList scans for the first monthly statement whose period
// covers at least one of the incoming transactions and appends the covered
// transactions that the statement does not already hold. Reports whether a
// statement accepted the overlap.
func reconcileTransactionList(existing []*domain.StatementRecord, incoming *domain.StatementRecord) bool {
	for _, stmt := range existing {
		if stmt.DocumentType != domain.DocTypeMonthlyStatement {
			continue
		}
		start, end := stmt.StatementPeriod.StartDate, stmt.StatementPeriod.EndDate
		if start == nil || end == nil {
			continue
		}

		overlapping := transactionsWithin(incoming.Transactions, *start, *end)
		if len(overlapping) == 0 {
			continue
		}

		seen := make(map[string]bool, len(stmt.Transactions))
		for _, tx := range stmt.Transactions {
			seen[dedupKey(tx)] = true
		}
		for _, tx := range overlapping {
			if !seen[dedupKey(tx)] {
				stmt.Transactions = append(stmt.Transactions, tx)
				seen[dedupKey(tx)] = true
			}
		}

		recomputeTotals(stmt)
		return true
	}
	return false
}

// transactionsWithin returns the transactions dated inside [start, end]
// inclusive. Transactions without a date never overlap.
func transactionsWithin(txs []*domain.Transaction, start, end string) []*domain.Transaction {
	var within []*domain.Transaction
	for _, tx := range txs {
		if tx.TransactionDate == nil {
			continue
		}
		d := *tx.TransactionDate
		if start <= d && d <= end {
			within = append(within, tx)
		}
	}
	return within
}

// dedupKey is the identity of a transaction within one statement: exact
// description plus date, concatenated. No fuzzy matching.
func dedupKey(tx *domain.Transaction) string {
	d := ""
	if tx.TransactionDate != nil {
		d = *tx.TransactionDate
	}
	return tx.Description + d
}

// recomputeTotals rebuilds summary total_debits/total_credits from the
// statement's current transaction list.
func recomputeTotals(stmt *domain.StatementRecord) {
	var debits, credits float64
	for _, tx := range stmt.Transactions {
		debits += tx.DebitAmount()
		credits += tx.CreditAmount()
	}
	stmt.Summary.TotalDebits = domain.Float(debits)
	stmt.Summary.TotalCredits = domain.Float(credits)
}
