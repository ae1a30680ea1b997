package ledger

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// MonthKey identifies a calendar month.
type MonthKey struct {
	Year  int
	Month time.Month
}

// MonthOf returns the month t falls in.
func MonthOf(t time.Time) MonthKey {
	return MonthKey{Year: t.Year(), Month: t.Month()}
}

func (k MonthKey) String() string {
	return fmt.Sprintf("%04d-%02d", k.Year, int(k.Month))
}

// Before orders month keys chronologically.
func (k MonthKey) Before(o MonthKey) bool {
	if k.Year != o.Year {
		return k.Year < o.Year
	}
	return k.Month < o.Month
}

// CategoryKey groups a month by normalized category and raw subcategory.
type CategoryKey struct {
	Month       MonthKey
	Category    string
	Subcategory string
}

// Summary accumulates income and expense. Net is always derived.
type Summary struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
}

// Net returns Income - Expense.
func (s Summary) Net() decimal.Decimal {
	return s.Income.Sub(s.Expense)
}

// Add accumulates t by its type.
func (s Summary) Add(t Transaction) Summary {
	if t.Type == Income {
		s.Income = s.Income.Add(t.Amount)
	} else {
		s.Expense = s.Expense.Add(t.Amount)
	}
	return s
}

// Plus adds two summaries.
func (s Summary) Plus(o Summary) Summary {
	return Summary{Income: s.Income.Add(o.Income), Expense: s.Expense.Add(o.Expense)}
}

// MonthRow is one month of the monthly summary.
type MonthRow struct {
	Key     MonthKey
	Summary Summary
}

// CategoryRow is one line of the hierarchical category view: a month
// header (IsMonth) or one of its category/subcategory pairs.
type CategoryRow struct {
	Month       MonthKey
	IsMonth     bool
	Expanded    bool
	Category    string
	Subcategory string
	Summary     Summary
}

// Aggregates holds the summaries computed from one view.
type Aggregates struct {
	monthly    map[MonthKey]Summary
	categories map[CategoryKey]Summary
	byYear     map[int][]StoreIndex
	years      []int
}

// Aggregate recomputes every summary from the rows of v.
func Aggregate(txs []Transaction, v View) Aggregates {
	a := Aggregates{
		monthly:    map[MonthKey]Summary{},
		categories: map[CategoryKey]Summary{},
		byYear:     map[int][]StoreIndex{},
	}
	for _, idx := range v.rows {
		t := txs[idx]
		month := MonthOf(t.Date)
		a.monthly[month] = a.monthly[month].Add(t)
		ck := CategoryKey{Month: month, Category: NormalizeCategory(t.Category), Subcategory: t.Subcategory}
		a.categories[ck] = a.categories[ck].Add(t)
		if _, ok := a.byYear[month.Year]; !ok {
			a.years = append(a.years, month.Year)
		}
		a.byYear[month.Year] = append(a.byYear[month.Year], idx)
	}
	sort.Ints(a.years)
	return a
}

// Years lists the distinct years present, ascending.
func (a Aggregates) Years() []int {
	out := make([]int, len(a.years))
	copy(out, a.years)
	return out
}

// Month returns the summary of one month.
func (a Aggregates) Month(k MonthKey) Summary {
	return a.monthly[k]
}

// Months returns the months of year that have rows, ascending.
func (a Aggregates) Months(year int) []MonthRow {
	var out []MonthRow
	for k, s := range a.monthly {
		if k.Year == year {
			out = append(out, MonthRow{Key: k, Summary: s})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key.Before(out[j].Key) })
	return out
}

// Year totals every month of year.
func (a Aggregates) Year(year int) Summary {
	var s Summary
	for k, m := range a.monthly {
		if k.Year == year {
			s = s.Plus(m)
		}
	}
	return s
}

// Total sums every month.
func (a Aggregates) Total() Summary {
	var s Summary
	for _, m := range a.monthly {
		s = s.Plus(m)
	}
	return s
}

// YearIndices returns the store positions dated in year, in view order.
func (a Aggregates) YearIndices(year int) []StoreIndex {
	rows := a.byYear[year]
	out := make([]StoreIndex, len(rows))
	copy(out, rows)
	return out
}

// Category returns the summary of one category key.
func (a Aggregates) Category(k CategoryKey) Summary {
	return a.categories[k]
}

// CategoryRows flattens the category summary of year: each month present
// with its rolled-up total, followed by its category/subcategory pairs when
// the month is expanded.
func (a Aggregates) CategoryRows(year int, expanded map[MonthKey]bool) []CategoryRow {
	byMonth := map[MonthKey][]CategoryKey{}
	for k := range a.categories {
		if k.Month.Year == year {
			byMonth[k.Month] = append(byMonth[k.Month], k)
		}
	}
	months := make([]MonthKey, 0, len(byMonth))
	for m := range byMonth {
		months = append(months, m)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })

	var out []CategoryRow
	for _, m := range months {
		keys := byMonth[m]
		sort.Slice(keys, func(i, j int) bool {
			if keys[i].Category != keys[j].Category {
				return keys[i].Category < keys[j].Category
			}
			return keys[i].Subcategory < keys[j].Subcategory
		})
		var total Summary
		for _, k := range keys {
			total = total.Plus(a.categories[k])
		}
		out = append(out, CategoryRow{Month: m, IsMonth: true, Expanded: expanded[m], Summary: total})
		if !expanded[m] {
			continue
		}
		for _, k := range keys {
			out = append(out, CategoryRow{
				Month:       m,
				Category:    k.Category,
				Subcategory: k.Subcategory,
				Summary:     a.categories[k],
			})
		}
	}
	return out
}
