package ledger

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// SortState is the active sort column and direction.
type SortState struct {
	Column SortColumn
	Order  SortOrder
}

// Toggle flips the direction when col is already active, otherwise it
// switches to col ascending.
func (s SortState) Toggle(col SortColumn) SortState {
	if s.Column == col {
		if s.Order == Ascending {
			return SortState{Column: col, Order: Descending}
		}
		return SortState{Column: col, Order: Ascending}
	}
	return SortState{Column: col, Order: Ascending}
}

// Compare orders a and b by col: negative, zero or positive.
func Compare(a, b Transaction, col SortColumn) int {
	switch col {
	case SortByDescription:
		return compareFold(a.Description, b.Description)
	case SortByAmount:
		return a.Amount.Cmp(b.Amount)
	case SortByType:
		return strings.Compare(a.Type.String(), b.Type.String())
	case SortByCategory:
		return compareFold(a.Category, b.Category)
	case SortBySubcategory:
		return compareFold(a.Subcategory, b.Subcategory)
	default:
		return a.Date.Compare(b.Date)
	}
}

func compareFold(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

// SortedIndices returns every store position ordered by s. Ties keep
// storage order in both directions.
func SortedIndices(txs []Transaction, s SortState) []StoreIndex {
	out := make([]StoreIndex, len(txs))
	for i := range out {
		out[i] = StoreIndex(i)
	}
	sort.SliceStable(out, func(i, j int) bool {
		c := Compare(txs[out[i]], txs[out[j]], s.Column)
		if s.Order == Descending {
			return c > 0
		}
		return c < 0
	})
	return out
}

// Filter selects the visible transactions.
type Filter interface {
	Match(t Transaction) bool
}

// TextFilter matches descriptions containing Query, ignoring case.
type TextFilter struct {
	Query string
}

func (f TextFilter) Match(t Transaction) bool {
	if f.Query == "" {
		return true
	}
	return containsFold(t.Description, f.Query)
}

// TypeFilter restricts Criteria to one direction.
type TypeFilter int

const (
	AnyType TypeFilter = iota
	IncomeOnly
	ExpenseOnly
)

// Criteria is a conjunction of optional predicates; zero fields impose no
// constraint. Date bounds and amount bounds are inclusive.
type Criteria struct {
	DateFrom    time.Time
	DateTo      time.Time
	Description string
	Category    string
	Subcategory string
	Type        TypeFilter
	AmountFrom  *decimal.Decimal
	AmountTo    *decimal.Decimal
}

func (c Criteria) Match(t Transaction) bool {
	if !c.DateFrom.IsZero() && t.Date.Before(DateOf(c.DateFrom)) {
		return false
	}
	if !c.DateTo.IsZero() && t.Date.After(DateOf(c.DateTo)) {
		return false
	}
	if c.Description != "" && !containsFold(t.Description, c.Description) {
		return false
	}
	if c.Category != "" && !containsFold(t.Category, c.Category) {
		return false
	}
	if c.Subcategory != "" && !containsFold(t.Subcategory, c.Subcategory) {
		return false
	}
	switch c.Type {
	case IncomeOnly:
		if t.Type != Income {
			return false
		}
	case ExpenseOnly:
		if t.Type != Expense {
			return false
		}
	}
	if c.AmountFrom != nil && t.Amount.LessThan(*c.AmountFrom) {
		return false
	}
	if c.AmountTo != nil && t.Amount.GreaterThan(*c.AmountTo) {
		return false
	}
	return true
}

// IsZero reports whether c constrains nothing.
func (c Criteria) IsZero() bool {
	return c.DateFrom.IsZero() && c.DateTo.IsZero() && c.Description == "" && c.Category == "" &&
		c.Subcategory == "" && c.Type == AnyType && c.AmountFrom == nil && c.AmountTo == nil
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// BuildView sorts txs by s and keeps the rows f matches. A nil filter keeps
// everything.
func BuildView(txs []Transaction, s SortState, f Filter) View {
	sorted := SortedIndices(txs, s)
	if f == nil {
		return NewView(sorted)
	}
	rows := sorted[:0]
	for _, idx := range sorted {
		if f.Match(txs[idx]) {
			rows = append(rows, idx)
		}
	}
	return NewView(rows)
}
