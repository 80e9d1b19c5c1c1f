package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		description string
		want        Category
	}{
		{"RECHARGE IAM TELECOM", CategoryTelecommunications},
		{"recharge inwi", CategoryTelecommunications},
		{"GAB RETRAIT 12/01 CASA", CategoryCashWithdrawals},
		{"RETRAIT ATM AGADIR", CategoryCashWithdrawals},
		{"VIREMENT SALAIRE JANVIER", CategoryTransfers},
		{"WIRE TRANSFER IN", CategoryTransfers},
		{"COMMISSION SUR VIREMENT", CategoryBankFees},
		{"FRAIS DE TENUE DE COMPTE", CategoryBankFees},
		{"DROIT DE TIMBRE", CategoryBankFees},
		{"PAIEMENT CB MARJANE", CategoryCardPayments},
		{"ACHAT CB CARREFOUR", CategoryCardPayments},
		{"LOYER APPARTEMENT", CategoryOther},
		{"", CategoryOther},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.description), "description %q", tt.description)
	}
}

func TestClassifyFirstRuleWins(t *testing.T) {
	// Cash withdrawals are checked before card payments.
	assert.Equal(t, CategoryCashWithdrawals, Classify("RETRAIT GAB CB 1234"))
	// Transfers are checked before bank fees, regardless of word position.
	assert.Equal(t, CategoryTransfers, Classify("COMMISSION VIREMENT"))
}
