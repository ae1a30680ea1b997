package service

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"

	"github.com/jask/fintrack/internal/ledger"
)

// DuplicateFinder flags likely double entries: same type and amount, dates
// close together and similar descriptions.
type DuplicateFinder struct {
	MaxDays  int
	MaxRatio float64
}

// NewDuplicateFinder returns the default rules: within 3 days and a
// normalized edit distance under 0.4.
func NewDuplicateFinder() DuplicateFinder {
	return DuplicateFinder{MaxDays: 3, MaxRatio: 0.4}
}

// Match reports whether a and b look like the same transaction.
func (f DuplicateFinder) Match(a, b ledger.Transaction) bool {
	if a.Type != b.Type || !a.Amount.Equal(b.Amount) {
		return false
	}
	if daysApart(a.Date, b.Date) > f.MaxDays {
		return false
	}
	return DescriptionDistance(a.Description, b.Description) < f.MaxRatio
}

// Find returns the first of existing that matches t.
func (f DuplicateFinder) Find(existing []ledger.Transaction, t ledger.Transaction) (ledger.Transaction, bool) {
	for _, e := range existing {
		if f.Match(e, t) {
			return e, true
		}
	}
	return ledger.Transaction{}, false
}

// DescriptionDistance is the case-insensitive Levenshtein distance divided
// by the longer length: 0 for identical, 1 for nothing in common.
func DescriptionDistance(a, b string) float64 {
	a, b = strings.ToUpper(strings.TrimSpace(a)), strings.ToUpper(strings.TrimSpace(b))
	maxlen := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > maxlen {
		maxlen = n
	}
	if maxlen == 0 {
		return 0
	}
	return float64(levenshtein.ComputeDistance(a, b)) / float64(maxlen)
}

func daysApart(a, b time.Time) int {
	d := ledger.DateOf(a).Sub(ledger.DateOf(b))
	if d < 0 {
		d = -d
	}
	return int(d.Hours() / 24)
}
