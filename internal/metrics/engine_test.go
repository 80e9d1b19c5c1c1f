package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moumensaid/smartfin/internal/domain"
)

func monthlyStatement(start, end string, closing float64, txs ...*domain.Transaction) *domain.StatementRecord {
	return &domain.StatementRecord{
		DocumentType: domain.DocTypeMonthlyStatement,
		StatementPeriod: domain.Period{
			StartDate: domain.String(start),
			EndDate:   domain.String(end),
		},
		Summary:      domain.Summary{ClosingBalance: domain.Float(closing)},
		Transactions: txs,
	}
}

func debit(date, description string, amount float64) *domain.Transaction {
	return &domain.Transaction{
		TransactionDate: domain.String(date),
		Description:     description,
		Debit:           domain.Float(amount),
	}
}

func credit(date, description string, amount float64) *domain.Transaction {
	return &domain.Transaction{
		TransactionDate: domain.String(date),
		Description:     description,
		Credit:          domain.Float(amount),
	}
}

// steadyCollection is three months of identical salary and spending ending
// with a comfortable balance. Health deductions should all stay at zero.
func steadyCollection() []*domain.StatementRecord {
	return []*domain.StatementRecord{
		monthlyStatement("2024-01-01", "2024-01-31", 50000,
			credit("2024-01-05", "VIREMENT SALAIRE", 10000),
			debit("2024-01-10", "PAIEMENT CB MARJANE", 2000)),
		monthlyStatement("2024-02-01", "2024-02-29", 58000,
			credit("2024-02-05", "VIREMENT SALAIRE", 10000),
			debit("2024-02-10", "PAIEMENT CB MARJANE", 2000)),
		monthlyStatement("2024-03-01", "2024-03-31", 66000,
			credit("2024-03-05", "VIREMENT SALAIRE", 10000),
			debit("2024-03-10", "PAIEMENT CB MARJANE", 2000)),
	}
}

func TestComputeEmptyCollection(t *testing.T) {
	rep := Compute(nil)

	assert.Zero(t, rep.CurrentNetWorth)
	assert.Nil(t, rep.NetWorthAsOfDate)
	assert.Empty(t, rep.BalanceHistory)
	assert.NotNil(t, rep.ExpenseCategories)
	assert.NotNil(t, rep.RecurringExpenses)
	assert.Nil(t, rep.Recent3Months)
	assert.Nil(t, rep.IncomeAnalysis)
	assert.Nil(t, rep.SavingsRate)
}

func TestComputeNetWorthFromLatestMonthly(t *testing.T) {
	rep := Compute(steadyCollection())

	assert.Equal(t, 66000.0, rep.CurrentNetWorth)
	require.NotNil(t, rep.NetWorthAsOfDate)
	assert.Equal(t, "2024-03-31", *rep.NetWorthAsOfDate)
}

func TestComputeNetWorthTransactionListOverride(t *testing.T) {
	fresherList := &domain.StatementRecord{
		DocumentType:    domain.DocTypeTransactionList,
		StatementPeriod: domain.Period{EndDate: domain.String("2024-04-15")},
		Summary:         domain.Summary{ClosingBalance: domain.Float(70000)},
	}
	staleList := &domain.StatementRecord{
		DocumentType:    domain.DocTypeTransactionList,
		StatementPeriod: domain.Period{EndDate: domain.String("2024-02-15")},
		Summary:         domain.Summary{ClosingBalance: domain.Float(12345)},
	}

	rep := Compute(append(steadyCollection(), fresherList))
	assert.Equal(t, 70000.0, rep.CurrentNetWorth)
	require.NotNil(t, rep.NetWorthAsOfDate)
	assert.Equal(t, "2024-04-15", *rep.NetWorthAsOfDate)

	// A list older than the latest monthly statement must not override.
	rep = Compute(append(steadyCollection(), staleList))
	assert.Equal(t, 66000.0, rep.CurrentNetWorth)
	assert.Equal(t, "2024-03-31", *rep.NetWorthAsOfDate)
}

func TestComputeBalanceHistory(t *testing.T) {
	rep := Compute(steadyCollection())

	require.Len(t, rep.BalanceHistory, 3)
	assert.Equal(t, "2024-01-31", rep.BalanceHistory[0].Date)
	assert.Equal(t, "2024-03-31", rep.BalanceHistory[2].Date)
	assert.Equal(t, domain.DocTypeMonthlyStatement, rep.BalanceHistory[0].Source)

	require.NotNil(t, rep.TotalNetWorthChange)
	assert.InDelta(t, 16000.0, *rep.TotalNetWorthChange, 1e-9)
	assert.InDelta(t, 32.0, rep.NetWorthChangePct, 1e-9)
	assert.Equal(t, 60, rep.TrackingPeriodDays)
	assert.InDelta(t, 60.0/30.44, rep.TrackingPeriodMonths, 1e-9)
}

func TestComputeCashFlowAndMonthlyBuckets(t *testing.T) {
	rep := Compute(steadyCollection())

	assert.InDelta(t, 30000.0, rep.TotalIncomeAllTime, 1e-9)
	assert.InDelta(t, 6000.0, rep.TotalExpensesAllTime, 1e-9)
	assert.InDelta(t, 24000.0, rep.NetCashFlowAllTime, 1e-9)

	require.Len(t, rep.MonthlySummary, 3)
	jan := rep.MonthlySummary[0]
	assert.Equal(t, "2024-01", jan.Month)
	assert.InDelta(t, 10000.0, jan.Income, 1e-9)
	assert.InDelta(t, 2000.0, jan.Expenses, 1e-9)
	assert.InDelta(t, 8000.0, jan.NetFlow, 1e-9)
	assert.Equal(t, 2, jan.TransactionCount)
}

func TestComputeMonthlyBucketsSkipUndated(t *testing.T) {
	collection := []*domain.StatementRecord{
		monthlyStatement("2024-01-01", "2024-01-31", 1000,
			debit("2024-01-10", "PAIEMENT CB MARJANE", 100),
			&domain.Transaction{Description: "FRAIS TENUE", Debit: domain.Float(50)}),
	}

	rep := Compute(collection)

	// Undated transactions count in all-time totals but not in any bucket.
	assert.InDelta(t, 150.0, rep.TotalExpensesAllTime, 1e-9)
	require.Len(t, rep.MonthlySummary, 1)
	assert.InDelta(t, 100.0, rep.MonthlySummary[0].Expenses, 1e-9)
	assert.Equal(t, 1, rep.MonthlySummary[0].TransactionCount)
}

func TestComputeRecentWindow(t *testing.T) {
	rep := Compute(steadyCollection())

	require.NotNil(t, rep.Recent3Months)
	assert.InDelta(t, 30000.0, rep.Recent3Months.Income, 1e-9)
	assert.InDelta(t, 6000.0, rep.Recent3Months.Expenses, 1e-9)
	assert.InDelta(t, 24000.0, rep.Recent3Months.NetFlow, 1e-9)
	assert.InDelta(t, 10000.0, rep.Recent3Months.AvgMonthlyIncome, 1e-9)
	assert.InDelta(t, 2000.0, rep.Recent3Months.AvgMonthlyExpenses, 1e-9)
}

func TestComputeRecentWindowAveragesOverActualCount(t *testing.T) {
	collection := []*domain.StatementRecord{
		monthlyStatement("2024-01-01", "2024-01-31", 1000,
			credit("2024-01-05", "VIREMENT SALAIRE", 9000)),
		monthlyStatement("2024-02-01", "2024-02-29", 2000,
			credit("2024-02-05", "VIREMENT SALAIRE", 11000)),
	}

	rep := Compute(collection)

	require.NotNil(t, rep.Recent3Months)
	assert.InDelta(t, 10000.0, rep.Recent3Months.AvgMonthlyIncome, 1e-9)
}

func TestComputeIncomeStabilitySteady(t *testing.T) {
	rep := Compute(steadyCollection())

	require.NotNil(t, rep.IncomeAnalysis)
	assert.InDelta(t, 10000.0, rep.IncomeAnalysis.AverageMonthlyIncome, 1e-9)
	assert.InDelta(t, 0.0, rep.IncomeAnalysis.IncomeVolatility, 1e-9)
	assert.InDelta(t, 100.0, rep.IncomeAnalysis.IncomeStabilityScore, 1e-9)
}

func TestComputeIncomeStabilityNeedsThreeBuckets(t *testing.T) {
	collection := []*domain.StatementRecord{
		monthlyStatement("2024-01-01", "2024-01-31", 1000,
			credit("2024-01-05", "VIREMENT SALAIRE", 9000)),
		monthlyStatement("2024-02-01", "2024-02-29", 2000,
			credit("2024-02-05", "VIREMENT SALAIRE", 11000)),
	}

	rep := Compute(collection)
	assert.Nil(t, rep.IncomeAnalysis)
}

func TestComputeExpenseCategories(t *testing.T) {
	collection := []*domain.StatementRecord{
		monthlyStatement("2024-01-01", "2024-01-31", 1000,
			debit("2024-01-05", "RECHARGE IAM", 100),
			debit("2024-01-06", "RECHARGE INWI", 50),
			debit("2024-01-07", "GAB RETRAIT CASA", 500),
			credit("2024-01-08", "VIREMENT SALAIRE", 9000)),
	}

	rep := Compute(collection)

	telecom := rep.ExpenseCategories[CategoryTelecommunications]
	require.NotNil(t, telecom)
	assert.InDelta(t, 150.0, telecom.Total, 1e-9)
	assert.Equal(t, 2, telecom.Count)

	cash := rep.ExpenseCategories[CategoryCashWithdrawals]
	require.NotNil(t, cash)
	assert.InDelta(t, 500.0, cash.Total, 1e-9)

	// Credits never land in expense categories.
	assert.NotContains(t, rep.ExpenseCategories, CategoryTransfers)
}

func TestComputeLargestExpensesOrderedAndCapped(t *testing.T) {
	var txs []*domain.Transaction
	for i := 1; i <= 12; i++ {
		txs = append(txs, debit("2024-01-10", "PAIEMENT CB", float64(i*100)))
	}
	collection := []*domain.StatementRecord{
		monthlyStatement("2024-01-01", "2024-01-31", 1000, txs...),
	}

	rep := Compute(collection)

	require.Len(t, rep.LargestExpenses, 10)
	assert.InDelta(t, 1200.0, *rep.LargestExpenses[0].Debit, 1e-9)
	assert.InDelta(t, 300.0, *rep.LargestExpenses[9].Debit, 1e-9)
}

func TestHealthScoreHealthy(t *testing.T) {
	rep := Compute(steadyCollection())
	assert.InDelta(t, 100.0, rep.FinancialHealthScore, 1e-9)
}

func TestHealthScoreDeductions(t *testing.T) {
	// Spends more than it earns, with wildly uneven income and almost no
	// cushion: every deduction fires (20 + 30 + 25) for a score of 25.
	collection := []*domain.StatementRecord{
		monthlyStatement("2024-01-01", "2024-01-31", 500,
			credit("2024-01-05", "VIREMENT FREELANCE", 100),
			debit("2024-01-10", "PAIEMENT CB MARJANE", 3000)),
		monthlyStatement("2024-02-01", "2024-02-29", 400,
			credit("2024-02-05", "VIREMENT FREELANCE", 5000),
			debit("2024-02-10", "PAIEMENT CB MARJANE", 3000)),
		monthlyStatement("2024-03-01", "2024-03-31", 300,
			credit("2024-03-05", "VIREMENT FREELANCE", 100),
			debit("2024-03-10", "PAIEMENT CB MARJANE", 3000)),
	}

	rep := Compute(collection)

	assert.InDelta(t, 25.0, rep.FinancialHealthScore, 1e-9)
	assert.GreaterOrEqual(t, rep.FinancialHealthScore, 0.0)
	assert.LessOrEqual(t, rep.FinancialHealthScore, 100.0)
}

func TestHealthScoreStabilityAboveThreshold(t *testing.T) {
	// Incomes 8000/10000/12000: mean 10000, stdev ~1633, volatility ~16.3%,
	// stability ~83.7 — above both thresholds, so no stability deduction. Net
	// flow is positive and the runway is long.
	collection := []*domain.StatementRecord{
		monthlyStatement("2024-01-01", "2024-01-31", 80000,
			credit("2024-01-05", "VIREMENT SALAIRE", 8000),
			debit("2024-01-10", "PAIEMENT CB MARJANE", 1000)),
		monthlyStatement("2024-02-01", "2024-02-29", 90000,
			credit("2024-02-05", "VIREMENT SALAIRE", 10000),
			debit("2024-02-10", "PAIEMENT CB MARJANE", 1000)),
		monthlyStatement("2024-03-01", "2024-03-31", 100000,
			credit("2024-03-05", "VIREMENT SALAIRE", 12000),
			debit("2024-03-10", "PAIEMENT CB MARJANE", 1000)),
	}

	rep := Compute(collection)
	assert.InDelta(t, 100.0, rep.FinancialHealthScore, 1e-9)
}

func TestComputeSavingsRate(t *testing.T) {
	rep := Compute(steadyCollection())

	require.NotNil(t, rep.SavingsRate)
	// 16000 net worth change over 30000 income.
	assert.InDelta(t, 16000.0/30000.0*100, *rep.SavingsRate, 1e-9)
}

func TestComputeSavingsRateNeedsHistoryAndIncome(t *testing.T) {
	collection := []*domain.StatementRecord{
		monthlyStatement("2024-01-01", "2024-01-31", 1000,
			credit("2024-01-05", "VIREMENT SALAIRE", 9000)),
	}

	rep := Compute(collection)
	assert.Nil(t, rep.SavingsRate, "single balance point cannot produce a rate")
}

func TestComputeDataSources(t *testing.T) {
	list := &domain.StatementRecord{
		DocumentType: domain.DocTypeTransactionList,
		Transactions: []*domain.Transaction{debit("2024-04-02", "GAB RETRAIT", 100)},
	}
	rep := Compute(append(steadyCollection(), list))

	assert.Equal(t, 3, rep.DataSources.MonthlyStatements)
	assert.Equal(t, 1, rep.DataSources.TransactionLists)
	assert.Equal(t, 7, rep.DataSources.TotalTransactions)
	require.NotNil(t, rep.DataSources.PeriodStart)
	require.NotNil(t, rep.DataSources.PeriodEnd)
	assert.Equal(t, "2024-01-01", *rep.DataSources.PeriodStart)
	assert.Equal(t, "2024-03-31", *rep.DataSources.PeriodEnd)
}
