// Package report renders a metrics report into the deterministic text block
// handed to the chat front end. Section order, labels and number formatting
// are a contract: downstream consumers parse this text.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/moumensaid/smartfin/internal/metrics"
)

// Render produces the full analysis text for a report.
func Render(rep *metrics.Report) string {
	var b strings.Builder

	b.WriteString("=== COMPREHENSIVE FINANCIAL ANALYSIS ===\n\n")

	writeCurrentPosition(&b, rep)
	writeCashFlow(&b, rep)
	writeMonthlyBreakdown(&b, rep)
	writeIncomeAnalysis(&b, rep)
	writeExpenseCategories(&b, rep)
	writeRecurringExpenses(&b, rep)
	writeLargestExpenses(&b, rep)
	writeHealthAssessment(&b, rep)
	writeBalanceHistory(&b, rep)
	writeDataSources(&b, rep)

	b.WriteString("=== END OF FINANCIAL ANALYSIS ===\n")
	return b.String()
}

func writeCurrentPosition(b *strings.Builder, rep *metrics.Report) {
	b.WriteString("### CURRENT FINANCIAL POSITION\n")
	asOf := "Unknown"
	if rep.NetWorthAsOfDate != nil {
		asOf = *rep.NetWorthAsOfDate
	}
	fmt.Fprintf(b, "• Current Net Worth (Bank Balance): %s MAD\n", money(rep.CurrentNetWorth))
	fmt.Fprintf(b, "• As of Date: %s\n", asOf)

	if rep.TotalNetWorthChange != nil {
		fmt.Fprintf(b, "• Net Worth Change: %s MAD (%+.1f%%)\n", money(*rep.TotalNetWorthChange), rep.NetWorthChangePct)
		fmt.Fprintf(b, "• Tracking Period: %.1f months\n", rep.TrackingPeriodMonths)
	}
	b.WriteString("\n")
}

func writeCashFlow(b *strings.Builder, rep *metrics.Report) {
	b.WriteString("### CASH FLOW ANALYSIS\n")
	fmt.Fprintf(b, "• Total Income (All Time): %s MAD\n", money(rep.TotalIncomeAllTime))
	fmt.Fprintf(b, "• Total Expenses (All Time): %s MAD\n", money(rep.TotalExpensesAllTime))
	fmt.Fprintf(b, "• Net Cash Flow (All Time): %s MAD\n", money(rep.NetCashFlowAllTime))

	if recent := rep.Recent3Months; recent != nil {
		fmt.Fprintf(b, "• Recent 3 Months Income: %s MAD\n", money(recent.Income))
		fmt.Fprintf(b, "• Recent 3 Months Expenses: %s MAD\n", money(recent.Expenses))
		fmt.Fprintf(b, "• Recent 3 Months Net Flow: %s MAD\n", money(recent.NetFlow))
		fmt.Fprintf(b, "• Average Monthly Income: %s MAD\n", money(recent.AvgMonthlyIncome))
		fmt.Fprintf(b, "• Average Monthly Expenses: %s MAD\n", money(recent.AvgMonthlyExpenses))
		if recent.AvgMonthlyExpenses > 0 {
			fmt.Fprintf(b, "• Financial Runway: %.1f months\n", rep.CurrentNetWorth/recent.AvgMonthlyExpenses)
		}
	}
	b.WriteString("\n")
}

func writeMonthlyBreakdown(b *strings.Builder, rep *metrics.Report) {
	if len(rep.MonthlySummary) == 0 {
		return
	}
	b.WriteString("### MONTHLY BREAKDOWN\n")
	months := rep.MonthlySummary
	if len(months) > 6 {
		months = months[len(months)-6:]
	}
	for _, m := range months {
		fmt.Fprintf(b, "• %s: Income %s MAD, Expenses %s MAD, Net %s MAD (%d transactions)\n",
			m.Month, money(m.Income), money(m.Expenses), money(m.NetFlow), m.TransactionCount)
	}
	b.WriteString("\n")
}

func writeIncomeAnalysis(b *strings.Builder, rep *metrics.Report) {
	if rep.IncomeAnalysis == nil {
		return
	}
	b.WriteString("### INCOME ANALYSIS\n")
	fmt.Fprintf(b, "• Average Monthly Income: %s MAD\n", money(rep.IncomeAnalysis.AverageMonthlyIncome))
	fmt.Fprintf(b, "• Income Stability Score: %.1f/100\n", rep.IncomeAnalysis.IncomeStabilityScore)
	fmt.Fprintf(b, "• Income Volatility: %.1f%%\n\n", rep.IncomeAnalysis.IncomeVolatility)
}

func writeExpenseCategories(b *strings.Builder, rep *metrics.Report) {
	if len(rep.ExpenseCategories) == 0 {
		return
	}
	b.WriteString("### EXPENSE BREAKDOWN BY CATEGORY\n")

	var totalCategorized float64
	for _, agg := range rep.ExpenseCategories {
		totalCategorized += agg.Total
	}

	type entry struct {
		category metrics.Category
		agg      *metrics.CategoryAggregate
	}
	entries := make([]entry, 0, len(rep.ExpenseCategories))
	for cat, agg := range rep.ExpenseCategories {
		entries = append(entries, entry{cat, agg})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].agg.Total != entries[j].agg.Total {
			return entries[i].agg.Total > entries[j].agg.Total
		}
		return entries[i].category < entries[j].category
	})

	for _, e := range entries {
		pct := 0.0
		if totalCategorized > 0 {
			pct = e.agg.Total / totalCategorized * 100
		}
		fmt.Fprintf(b, "• %s: %s MAD (%.1f%%) - %d transactions\n",
			titleCase(string(e.category)), money(e.agg.Total), pct, e.agg.Count)
	}
	b.WriteString("\n")
}

func writeRecurringExpenses(b *strings.Builder, rep *metrics.Report) {
	if len(rep.RecurringExpenses) == 0 {
		return
	}
	b.WriteString("### RECURRING/SUBSCRIPTION EXPENSES\n")

	type entry struct {
		pattern string
		data    *metrics.RecurringPattern
	}
	entries := make([]entry, 0, len(rep.RecurringExpenses))
	for pattern, data := range rep.RecurringExpenses {
		entries = append(entries, entry{pattern, data})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].data.TotalAmount != entries[j].data.TotalAmount {
			return entries[i].data.TotalAmount > entries[j].data.TotalAmount
		}
		return entries[i].pattern < entries[j].pattern
	})
	if len(entries) > 10 {
		entries = entries[:10]
	}

	for _, e := range entries {
		fmt.Fprintf(b, "• '%s': %d occurrences, Total: %s MAD, Average: %s MAD\n",
			e.pattern, e.data.Count, money(e.data.TotalAmount), money(e.data.AvgAmount))
	}
	b.WriteString("\n")
}

func writeLargestExpenses(b *strings.Builder, rep *metrics.Report) {
	if len(rep.LargestExpenses) == 0 {
		return
	}
	b.WriteString("### TOP 10 LARGEST EXPENSES\n")
	for i, tx := range rep.LargestExpenses {
		date := "unknown"
		if tx.TransactionDate != nil {
			date = *tx.TransactionDate
		}
		fmt.Fprintf(b, "%d. %s: %s - %s MAD\n", i+1, date, tx.Description, money(tx.DebitAmount()))
	}
	b.WriteString("\n")
}

func writeHealthAssessment(b *strings.Builder, rep *metrics.Report) {
	b.WriteString("### FINANCIAL HEALTH ASSESSMENT\n")
	fmt.Fprintf(b, "• Overall Financial Health Score: %.0f/100\n", rep.FinancialHealthScore)
	if rep.SavingsRate != nil {
		fmt.Fprintf(b, "• Savings Rate: %.1f%%\n", *rep.SavingsRate)
	}
	fmt.Fprintf(b, "• Health Status: %s\n\n", healthStatus(rep.FinancialHealthScore))
}

func healthStatus(score float64) string {
	switch {
	case score >= 80:
		return "EXCELLENT - Strong financial position"
	case score >= 60:
		return "GOOD - Solid financial health with room for improvement"
	case score >= 40:
		return "FAIR - Some financial concerns to address"
	default:
		return "POOR - Significant financial challenges"
	}
}

func writeBalanceHistory(b *strings.Builder, rep *metrics.Report) {
	if len(rep.BalanceHistory) == 0 {
		return
	}
	b.WriteString("### BALANCE HISTORY TREND\n")
	points := rep.BalanceHistory
	if len(points) > 12 {
		points = points[len(points)-12:]
	}
	for _, p := range points {
		fmt.Fprintf(b, "• %s: %s MAD\n", p.Date, money(p.Balance))
	}
	b.WriteString("\n")
}

func writeDataSources(b *strings.Builder, rep *metrics.Report) {
	b.WriteString("### DATA SOURCES SUMMARY\n")
	fmt.Fprintf(b, "• Monthly Statements: %d documents\n", rep.DataSources.MonthlyStatements)
	fmt.Fprintf(b, "• Transaction Lists: %d documents\n", rep.DataSources.TransactionLists)
	fmt.Fprintf(b, "• Total Transactions Analyzed: %d\n", rep.DataSources.TotalTransactions)
	if rep.DataSources.PeriodStart != nil && rep.DataSources.PeriodEnd != nil {
		fmt.Fprintf(b, "• Data Period: %s to %s\n", *rep.DataSources.PeriodStart, *rep.DataSources.PeriodEnd)
	}
	b.WriteString("\n")
}

// money formats an amount with thousands separators and two decimals,
// e.g. 1234567.5 -> "1,234,567.50".
func money(amount float64) string {
	s := fmt.Sprintf("%.2f", amount)

	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	intPart, fracPart, _ := strings.Cut(s, ".")

	var grouped strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			grouped.WriteByte(',')
		}
		grouped.WriteRune(digit)
	}

	out := grouped.String() + "." + fracPart
	if neg {
		out = "-" + out
	}
	return out
}

// titleCase turns a category constant like "CASH_WITHDRAWALS" into
// "Cash Withdrawals".
func titleCase(s string) string {
	words := strings.Split(strings.ToLower(strings.ReplaceAll(s, "_", " ")), " ")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
