package metrics

import (
	"regexp"
	"strings"

	"github.com/moumensaid/smartfin/internal/domain"
)

// minPatternLength filters out normalized descriptions too short to identify
// a merchant ("GAB", "CB", ...). Anything of this length or less is noise.
const minPatternLength = 5

// minOccurrences is how many times a normalized description must appear
// before it counts as recurring.
const minOccurrences = 3

var (
	dateTokenRe = regexp.MustCompile(`\d{2}/\d{2}(/\d{4})?`)
	timeTokenRe = regexp.MustCompile(`(?i)\d{2}h\d{2}`)
	spaceRunRe  = regexp.MustCompile(`\s+`)
)

// NormalizeDescription strips the volatile parts of a transaction description
// so repeated charges group together: DD/MM and DD/MM/YYYY date tokens, HHhMM
// time tokens, and runs of whitespace. The result is trimmed and uppercased.
func NormalizeDescription(description string) string {
	s := dateTokenRe.ReplaceAllString(description, "")
	s = timeTokenRe.ReplaceAllString(s, "")
	s = spaceRunRe.ReplaceAllString(s, " ")
	return strings.ToUpper(strings.TrimSpace(s))
}

// detectRecurring groups debit transactions by normalized description and
// keeps the groups seen at least minOccurrences times.
func detectRecurring(txs []*domain.Transaction) map[string]*RecurringPattern {
	patterns := make(map[string]*RecurringPattern)
	for _, tx := range txs {
		if tx.Debit == nil || *tx.Debit == 0 {
			continue
		}
		desc := NormalizeDescription(tx.Description)
		if len(desc) <= minPatternLength {
			continue
		}
		p, ok := patterns[desc]
		if !ok {
			p = &RecurringPattern{}
			patterns[desc] = p
		}
		p.Count++
		p.TotalAmount += *tx.Debit
		if tx.TransactionDate != nil {
			p.Dates = append(p.Dates, *tx.TransactionDate)
		}
	}

	recurring := make(map[string]*RecurringPattern)
	for desc, p := range patterns {
		if p.Count >= minOccurrences {
			p.AvgAmount = p.TotalAmount / float64(p.Count)
			recurring[desc] = p
		}
	}
	return recurring
}
