package metrics

import "strings"

// Category is an expense category assigned from the transaction description.
type Category string

const (
	CategoryTelecommunications Category = "TELECOMMUNICATIONS"
	CategoryCashWithdrawals    Category = "CASH_WITHDRAWALS"
	CategoryTransfers          Category = "TRANSFERS"
	CategoryBankFees           Category = "BANK_FEES"
	CategoryCardPayments       Category = "CARD_PAYMENTS"
	CategoryOther              Category = "OTHER"
)

// categoryRules is evaluated in order and the first matching rule wins, so a
// description containing both "RETRAIT" and "CB" is a cash withdrawal. The
// order is part of the classification contract; do not turn this into a map.
var categoryRules = []struct {
	category Category
	keywords []string
}{
	{CategoryTelecommunications, []string{"INWI", "IAM", "ORANGE"}},
	{CategoryCashWithdrawals, []string{"GAB", "RETRAIT", "ATM"}},
	{CategoryTransfers, []string{"VIREMENT", "TRANSFER"}},
	{CategoryBankFees, []string{"COMMISSION", "FRAIS", "TIMBRE"}},
	{CategoryCardPayments, []string{"PAIEMENT", "CB"}},
}

// Classify assigns an expense category by keyword lookup over the uppercased
// description. Descriptions matching no rule fall through to OTHER.
func Classify(description string) Category {
	upper := strings.ToUpper(description)
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(upper, kw) {
				return rule.category
			}
		}
	}
	return CategoryOther
}
