// Package metrics derives the full financial picture from a reconciled
// statement collection: net worth, cash flow, monthly buckets, categorized
// and recurring spending, stability scoring and a composite health score.
//
// Compute is a pure function of its input. Missing numeric fields count as
// zero, missing or unparseable dates sort with the sentinel, and division
// guards return zero, so no input shape makes it fail.
package metrics

import (
	"math"
	"sort"
	"time"

	"github.com/moumensaid/smartfin/internal/domain"
)

// daysPerMonth converts tracking days into fractional months.
const daysPerMonth = 30.44

// recentWindowSize is how many trailing monthly buckets feed the recent
// performance window and the runway calculation.
const recentWindowSize = 3

// Compute derives a Report from the collection. An empty collection yields an
// empty report.
func Compute(collection []*domain.StatementRecord) *Report {
	rep := &Report{
		ExpenseCategories: make(map[Category]*CategoryAggregate),
		RecurringExpenses: make(map[string]*RecurringPattern),
	}
	if len(collection) == 0 {
		return rep
	}

	monthly, txLists := partition(collection)
	rep.DataSources = summarizeSources(collection, monthly, txLists)

	computeNetWorth(rep, monthly, txLists)
	computeBalanceHistory(rep, monthly, txLists)

	all := flattenTransactions(collection)
	computeCashFlow(rep, all)
	computeMonthlyBuckets(rep, all)
	computeRecentWindow(rep)
	computeIncomeStability(rep)
	computeExpenseCategories(rep, all)
	rep.LargestExpenses = largestExpenses(all, 10)
	rep.RecurringExpenses = detectRecurring(all)
	rep.FinancialHealthScore = healthScore(rep)
	computeSavingsRate(rep)

	return rep
}

// partition splits the collection by document type, each half sorted
// ascending by period end date.
func partition(collection []*domain.StatementRecord) (monthly, txLists []*domain.StatementRecord) {
	for _, rec := range collection {
		switch rec.DocumentType {
		case domain.DocTypeMonthlyStatement:
			monthly = append(monthly, rec)
		case domain.DocTypeTransactionList:
			txLists = append(txLists, rec)
		}
	}
	domain.SortByPeriodEnd(monthly)
	domain.SortByPeriodEnd(txLists)
	return monthly, txLists
}

// computeNetWorth takes the latest monthly statement's closing balance as the
// default and lets a strictly fresher transaction list override it.
func computeNetWorth(rep *Report, monthly, txLists []*domain.StatementRecord) {
	if len(monthly) > 0 {
		latest := monthly[len(monthly)-1]
		if latest.Summary.ClosingBalance != nil {
			rep.CurrentNetWorth = *latest.Summary.ClosingBalance
		}
		rep.NetWorthAsOfDate = latest.StatementPeriod.EndDate
	}
	if len(txLists) > 0 {
		latest := txLists[len(txLists)-1]
		closing := latest.Summary.ClosingBalance
		if closing != nil {
			listDate := latest.StatementPeriod.EndDate
			if rep.NetWorthAsOfDate == nil || (listDate != nil && *listDate > *rep.NetWorthAsOfDate) {
				rep.CurrentNetWorth = *closing
				rep.NetWorthAsOfDate = listDate
			}
		}
	}
}

// computeBalanceHistory collects every dated closing balance, monthly
// statements first, then derives the change figures when at least two points
// exist.
func computeBalanceHistory(rep *Report, monthly, txLists []*domain.StatementRecord) {
	appendPoints := func(records []*domain.StatementRecord, source string) {
		for _, rec := range records {
			if rec.StatementPeriod.EndDate == nil || rec.Summary.ClosingBalance == nil {
				continue
			}
			rep.BalanceHistory = append(rep.BalanceHistory, BalancePoint{
				Date:    *rec.StatementPeriod.EndDate,
				Balance: *rec.Summary.ClosingBalance,
				Source:  source,
			})
		}
	}
	appendPoints(monthly, domain.DocTypeMonthlyStatement)
	appendPoints(txLists, domain.DocTypeTransactionList)

	sort.SliceStable(rep.BalanceHistory, func(i, j int) bool {
		return rep.BalanceHistory[i].Date < rep.BalanceHistory[j].Date
	})

	if len(rep.BalanceHistory) < 2 {
		return
	}

	first := rep.BalanceHistory[0]
	last := rep.BalanceHistory[len(rep.BalanceHistory)-1]

	change := last.Balance - first.Balance
	rep.TotalNetWorthChange = &change
	if first.Balance != 0 {
		rep.NetWorthChangePct = change / first.Balance * 100
	}

	firstDate, errFirst := time.Parse("2006-01-02", first.Date)
	lastDate, errLast := time.Parse("2006-01-02", last.Date)
	if errFirst == nil && errLast == nil {
		rep.TrackingPeriodDays = int(lastDate.Sub(firstDate).Hours() / 24)
	}
	rep.TrackingPeriodMonths = float64(rep.TrackingPeriodDays) / daysPerMonth
}

// flattenTransactions concatenates every record's transactions and sorts them
// ascending by date, undated first.
func flattenTransactions(collection []*domain.StatementRecord) []*domain.Transaction {
	var all []*domain.Transaction
	for _, rec := range collection {
		all = append(all, rec.Transactions...)
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Date() < all[j].Date()
	})
	return all
}

func computeCashFlow(rep *Report, all []*domain.Transaction) {
	for _, tx := range all {
		rep.TotalIncomeAllTime += tx.CreditAmount()
		rep.TotalExpensesAllTime += tx.DebitAmount()
	}
	rep.NetCashFlowAllTime = rep.TotalIncomeAllTime - rep.TotalExpensesAllTime
}

// computeMonthlyBuckets groups transactions by the YYYY-MM prefix of their
// date. Transactions with missing or truncated dates are skipped here; they
// still count in the all-time totals.
func computeMonthlyBuckets(rep *Report, all []*domain.Transaction) {
	buckets := make(map[string]*MonthlyBucket)
	for _, tx := range all {
		if tx.TransactionDate == nil || len(*tx.TransactionDate) < 7 {
			continue
		}
		key := (*tx.TransactionDate)[:7]
		b, ok := buckets[key]
		if !ok {
			b = &MonthlyBucket{Month: key}
			buckets[key] = b
		}
		b.Income += tx.CreditAmount()
		b.Expenses += tx.DebitAmount()
		b.TransactionCount++
	}

	for _, b := range buckets {
		b.NetFlow = b.Income - b.Expenses
		rep.MonthlySummary = append(rep.MonthlySummary, *b)
	}
	sort.Slice(rep.MonthlySummary, func(i, j int) bool {
		return rep.MonthlySummary[i].Month < rep.MonthlySummary[j].Month
	})
}

func computeRecentWindow(rep *Report) {
	if len(rep.MonthlySummary) == 0 {
		return
	}
	recent := rep.MonthlySummary
	if len(recent) > recentWindowSize {
		recent = recent[len(recent)-recentWindowSize:]
	}

	w := &RecentWindow{}
	for _, b := range recent {
		w.Income += b.Income
		w.Expenses += b.Expenses
	}
	w.NetFlow = w.Income - w.Expenses
	w.AvgMonthlyIncome = w.Income / float64(len(recent))
	w.AvgMonthlyExpenses = w.Expenses / float64(len(recent))
	rep.Recent3Months = w
}

// computeIncomeStability scores income steadiness as 100 minus the
// coefficient of variation of positive monthly incomes, floored at zero.
// It needs at least three monthly buckets to say anything.
func computeIncomeStability(rep *Report) {
	if len(rep.MonthlySummary) < recentWindowSize {
		return
	}
	var incomes []float64
	for _, b := range rep.MonthlySummary {
		if b.Income > 0 {
			incomes = append(incomes, b.Income)
		}
	}
	if len(incomes) == 0 {
		return
	}

	var sum float64
	for _, x := range incomes {
		sum += x
	}
	mean := sum / float64(len(incomes))

	var variance float64
	for _, x := range incomes {
		variance += (x - mean) * (x - mean)
	}
	variance /= float64(len(incomes))
	stdev := math.Sqrt(variance)

	analysis := &IncomeAnalysis{AverageMonthlyIncome: mean}
	if mean > 0 {
		analysis.IncomeVolatility = stdev / mean * 100
		analysis.IncomeStabilityScore = math.Max(0, 100-analysis.IncomeVolatility)
	}
	rep.IncomeAnalysis = analysis
}

func computeExpenseCategories(rep *Report, all []*domain.Transaction) {
	for _, tx := range all {
		if tx.Debit == nil || *tx.Debit == 0 {
			continue
		}
		cat := Classify(tx.Description)
		agg, ok := rep.ExpenseCategories[cat]
		if !ok {
			agg = &CategoryAggregate{}
			rep.ExpenseCategories[cat] = agg
		}
		agg.Total += *tx.Debit
		agg.Count++
		agg.Transactions = append(agg.Transactions, tx)
	}
}

func largestExpenses(all []*domain.Transaction, limit int) []*domain.Transaction {
	var debits []*domain.Transaction
	for _, tx := range all {
		if tx.Debit != nil && *tx.Debit != 0 {
			debits = append(debits, tx)
		}
	}
	sort.SliceStable(debits, func(i, j int) bool {
		return *debits[i].Debit > *debits[j].Debit
	})
	if len(debits) > limit {
		debits = debits[:limit]
	}
	return debits
}

// healthScore starts at 100 and deducts for negative recent cash flow, short
// runway and unstable income. The floor is 0; nothing can push it above 100.
func healthScore(rep *Report) float64 {
	score := 100.0

	if rep.Recent3Months != nil {
		if rep.Recent3Months.NetFlow < 0 {
			score -= 20
		}
		if rep.Recent3Months.AvgMonthlyExpenses > 0 {
			runway := rep.CurrentNetWorth / rep.Recent3Months.AvgMonthlyExpenses
			if runway < 3 {
				score -= 30
			} else if runway < 6 {
				score -= 15
			}
		}
	}

	if rep.IncomeAnalysis != nil {
		switch stability := rep.IncomeAnalysis.IncomeStabilityScore; {
		case stability < 50:
			score -= 25
		case stability < 70:
			score -= 15
		}
	}

	return math.Max(0, score)
}

func computeSavingsRate(rep *Report) {
	if len(rep.BalanceHistory) < 2 || rep.TotalIncomeAllTime <= 0 {
		return
	}
	rate := *rep.TotalNetWorthChange / rep.TotalIncomeAllTime * 100
	rep.SavingsRate = &rate
}

// summarizeSources counts the document mix and extracts the covered period
// from the monthly statements when both boundaries are known.
func summarizeSources(collection, monthly, txLists []*domain.StatementRecord) DataSourceSummary {
	summary := DataSourceSummary{
		MonthlyStatements: len(monthly),
		TransactionLists:  len(txLists),
	}
	for _, rec := range collection {
		summary.TotalTransactions += len(rec.Transactions)
	}

	earliest, latest := "9999-12-31", domain.SentinelDate
	for _, stmt := range monthly {
		if stmt.StatementPeriod.StartDate != nil && *stmt.StatementPeriod.StartDate < earliest {
			earliest = *stmt.StatementPeriod.StartDate
		}
		if stmt.StatementPeriod.EndDate != nil && *stmt.StatementPeriod.EndDate > latest {
			latest = *stmt.StatementPeriod.EndDate
		}
	}
	if earliest != "9999-12-31" && latest != domain.SentinelDate {
		summary.PeriodStart = domain.String(earliest)
		summary.PeriodEnd = domain.String(latest)
	}
	return summary
}
