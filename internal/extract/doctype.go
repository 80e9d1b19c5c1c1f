package extract

import (
	"strings"

	"github.com/moumensaid/smartfin/internal/domain"
)

// Indicator phrases taken from Attijariwafa bank layouts. A document needs at
// least two hits in one family before it is typed.
var (
	monthlyIndicators = []string{
		"RELEVE DE COMPTE",
		"COMPTE BANCAIRE",
		"SOLDE DEPART",
		"SOLDE FINAL",
		"TOTAL MOUVEMENTS",
	}
	transactionIndicators = []string{
		"MOUVEMENT DU COMPTE",
		"EDITÉ LE",
		"SOLDE RÉEL",
		"OPÉRATIONS EN COURS",
	}
)

// DetectTypeFromText scores the extracted text against both indicator
// families and returns monthly_statement, transaction_list or unknown.
func DetectTypeFromText(text string) string {
	upper := strings.ToUpper(text)

	monthlyScore := 0
	for _, ind := range monthlyIndicators {
		if strings.Contains(upper, ind) {
			monthlyScore++
		}
	}
	transactionScore := 0
	for _, ind := range transactionIndicators {
		if strings.Contains(upper, ind) {
			transactionScore++
		}
	}

	switch {
	case monthlyScore >= 2:
		return domain.DocTypeMonthlyStatement
	case transactionScore >= 2:
		return domain.DocTypeTransactionList
	default:
		return domain.DocTypeUnknown
	}
}

// DetectTypeFromFilename makes a first guess from naming conventions before
// any content is read.
func DetectTypeFromFilename(filename string) string {
	lower := strings.ToLower(filename)
	switch {
	case strings.Contains(lower, "statement") || strings.Contains(lower, "releve"):
		return domain.DocTypeMonthlyStatement
	case strings.Contains(lower, "operation") || strings.Contains(lower, "mouvement") || strings.Contains(lower, "transaction"):
		return domain.DocTypeTransactionList
	default:
		return domain.DocTypeUnknown
	}
}
