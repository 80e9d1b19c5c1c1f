package metrics

import "github.com/moumensaid/smartfin/internal/domain"

// Report is the full battery of derived metrics for one collection. It is
// recomputed from scratch on every request and owned by the caller; nothing
// in it is persisted.
type Report struct {
	CurrentNetWorth  float64 `json:"current_net_worth"`
	NetWorthAsOfDate *string `json:"net_worth_as_of_date"`

	BalanceHistory       []BalancePoint `json:"balance_history"`
	TotalNetWorthChange  *float64       `json:"total_net_worth_change,omitempty"`
	NetWorthChangePct    float64        `json:"net_worth_change_percentage"`
	TrackingPeriodDays   int            `json:"tracking_period_days"`
	TrackingPeriodMonths float64        `json:"tracking_period_months"`

	TotalIncomeAllTime   float64 `json:"total_income_all_time"`
	TotalExpensesAllTime float64 `json:"total_expenses_all_time"`
	NetCashFlowAllTime   float64 `json:"net_cash_flow_all_time"`

	MonthlySummary []MonthlyBucket `json:"monthly_summary"`
	Recent3Months  *RecentWindow   `json:"recent_3_months,omitempty"`
	IncomeAnalysis *IncomeAnalysis `json:"income_analysis,omitempty"`

	ExpenseCategories map[Category]*CategoryAggregate `json:"expense_categories"`
	LargestExpenses   []*domain.Transaction           `json:"largest_expenses"`
	RecurringExpenses map[string]*RecurringPattern    `json:"recurring_expenses"`

	FinancialHealthScore float64  `json:"financial_health_score"`
	SavingsRate          *float64 `json:"savings_rate,omitempty"`

	DataSources DataSourceSummary `json:"data_sources"`
}

// BalancePoint is one dated closing balance observation.
type BalancePoint struct {
	Date    string  `json:"date"`
	Balance float64 `json:"balance"`
	Source  string  `json:"source"`
}

// MonthlyBucket aggregates one YYYY-MM of transactions.
type MonthlyBucket struct {
	Month            string  `json:"month"`
	Income           float64 `json:"income"`
	Expenses         float64 `json:"expenses"`
	NetFlow          float64 `json:"net_flow"`
	TransactionCount int     `json:"transaction_count"`
}

// RecentWindow sums the last three monthly buckets present in the data. The
// window is positional, not calendar-aligned: with gaps it still covers the
// last three buckets that exist.
type RecentWindow struct {
	Income             float64 `json:"income"`
	Expenses           float64 `json:"expenses"`
	NetFlow            float64 `json:"net_flow"`
	AvgMonthlyIncome   float64 `json:"avg_monthly_income"`
	AvgMonthlyExpenses float64 `json:"avg_monthly_expenses"`
}

// IncomeAnalysis scores the steadiness of positive monthly incomes.
type IncomeAnalysis struct {
	AverageMonthlyIncome float64 `json:"average_monthly_income"`
	IncomeStabilityScore float64 `json:"income_stability_score"`
	IncomeVolatility     float64 `json:"income_volatility"`
}

// CategoryAggregate accumulates the debit transactions of one category.
type CategoryAggregate struct {
	Total        float64               `json:"total"`
	Count        int                   `json:"count"`
	Transactions []*domain.Transaction `json:"transactions"`
}

// RecurringPattern is a normalized expense description seen repeatedly.
type RecurringPattern struct {
	Count       int      `json:"count"`
	TotalAmount float64  `json:"total_amount"`
	AvgAmount   float64  `json:"avg_amount"`
	Dates       []string `json:"dates"`
}

// DataSourceSummary counts what the collection was built from.
type DataSourceSummary struct {
	MonthlyStatements int     `json:"monthly_statements"`
	TransactionLists  int     `json:"transaction_lists"`
	TotalTransactions int     `json:"total_transactions"`
	PeriodStart       *string `json:"period_start,omitempty"`
	PeriodEnd         *string `json:"period_end,omitempty"`
}
