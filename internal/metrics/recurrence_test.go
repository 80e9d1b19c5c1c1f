package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moumensaid/smartfin/internal/domain"
)

func TestNormalizeDescription(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"PAIEMENT CB 12/01 MARJANE", "PAIEMENT CB MARJANE"},
		{"PAIEMENT CB 12/01/2024 MARJANE", "PAIEMENT CB MARJANE"},
		{"GAB RETRAIT 15/03 18H45 CASA", "GAB RETRAIT CASA"},
		{"gab retrait 15/03 18h45 casa", "GAB RETRAIT CASA"},
		{"NETFLIX.COM   ABONNEMENT", "NETFLIX.COM ABONNEMENT"},
		{"  SPOTIFY  ", "SPOTIFY"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeDescription(tt.in), "input %q", tt.in)
	}
}

func TestDetectRecurring(t *testing.T) {
	txs := []*domain.Transaction{
		// Same subscription with varying date tokens: groups together.
		debit("2024-01-15", "PRLV NETFLIX 15/01", 65),
		debit("2024-02-15", "PRLV NETFLIX 15/02", 65),
		debit("2024-03-15", "PRLV NETFLIX 15/03", 95),
		// Only twice: below the occurrence threshold.
		debit("2024-01-20", "PRLV SPOTIFY", 50),
		debit("2024-02-20", "PRLV SPOTIFY", 50),
		// Credits never recur as expenses.
		credit("2024-01-05", "VIREMENT SALAIRE", 10000),
		credit("2024-02-05", "VIREMENT SALAIRE", 10000),
		credit("2024-03-05", "VIREMENT SALAIRE", 10000),
	}

	got := detectRecurring(txs)

	require.Len(t, got, 1)
	p, ok := got["PRLV NETFLIX"]
	require.True(t, ok)
	assert.Equal(t, 3, p.Count)
	assert.InDelta(t, 225.0, p.TotalAmount, 1e-9)
	assert.InDelta(t, 75.0, p.AvgAmount, 1e-9)
	assert.Equal(t, []string{"2024-01-15", "2024-02-15", "2024-03-15"}, p.Dates)
}

func TestDetectRecurringSkipsShortPatterns(t *testing.T) {
	txs := []*domain.Transaction{
		debit("2024-01-10", "GAB 12/01", 100),
		debit("2024-02-10", "GAB 12/02", 100),
		debit("2024-03-10", "GAB 12/03", 100),
	}

	// "GAB" normalizes to three characters, under the length floor.
	assert.Empty(t, detectRecurring(txs))
}

func TestDetectRecurringIgnoresZeroDebits(t *testing.T) {
	txs := []*domain.Transaction{
		{TransactionDate: domain.String("2024-01-10"), Description: "PRLV ASSURANCE", Debit: domain.Float(0)},
		{TransactionDate: domain.String("2024-02-10"), Description: "PRLV ASSURANCE", Debit: domain.Float(0)},
		{TransactionDate: domain.String("2024-03-10"), Description: "PRLV ASSURANCE", Debit: domain.Float(0)},
	}

	assert.Empty(t, detectRecurring(txs))
}
