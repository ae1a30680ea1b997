package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Uncategorized is the sentinel category for rows with an empty category.
const Uncategorized = "Uncategorized"

// TransactionType carries the direction of a transaction.
type TransactionType int

const (
	Expense TransactionType = iota
	Income
)

func (t TransactionType) String() string {
	switch t {
	case Income:
		return "Income"
	case Expense:
		return "Expense"
	}
	return fmt.Sprintf("TransactionType(%d)", int(t))
}

// ParseTransactionType accepts "income" or "expense" in any case.
func ParseTransactionType(s string) (TransactionType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "income":
		return Income, nil
	case "expense":
		return Expense, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownTransactionType, s)
}

// Frequency is the recurrence period. FrequencyNone marks a one-off row.
type Frequency int

const (
	FrequencyNone Frequency = iota
	Daily
	Weekly
	BiWeekly
	Monthly
	Yearly
)

// Frequencies lists the recurring frequencies in picker order.
var Frequencies = []Frequency{Daily, Weekly, BiWeekly, Monthly, Yearly}

func (f Frequency) String() string {
	switch f {
	case FrequencyNone:
		return ""
	case Daily:
		return "Daily"
	case Weekly:
		return "Weekly"
	case BiWeekly:
		return "BiWeekly"
	case Monthly:
		return "Monthly"
	case Yearly:
		return "Yearly"
	}
	return fmt.Sprintf("Frequency(%d)", int(f))
}

// ParseFrequency accepts the names produced by String; blank and "none"
// parse to FrequencyNone.
func ParseFrequency(s string) (Frequency, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return FrequencyNone, nil
	case "daily":
		return Daily, nil
	case "weekly":
		return Weekly, nil
	case "biweekly", "bi-weekly":
		return BiWeekly, nil
	case "monthly":
		return Monthly, nil
	case "yearly":
		return Yearly, nil
	}
	return FrequencyNone, fmt.Errorf("%w: %q", ErrUnknownFrequency, s)
}

// Transaction is a single income or expense. Amount is always positive;
// Type carries the direction.
type Transaction struct {
	Date        time.Time
	Description string
	Amount      decimal.Decimal
	Type        TransactionType
	Category    string
	Subcategory string

	// Frequency is FrequencyNone unless the transaction recurs. Generated
	// instances keep their origin's frequency and end date.
	Frequency Frequency
	// RecurrenceEnd is the last date an instance may fall on; zero means open-ended.
	RecurrenceEnd time.Time
	// Generated marks instances synthesized from a recurring origin.
	Generated bool
}

// IsRecurring reports whether t is an origin of generated instances.
func (t Transaction) IsRecurring() bool {
	return t.Frequency != FrequencyNone && !t.Generated
}

// HasRecurrenceEnd reports whether an end date is set.
func (t Transaction) HasRecurrenceEnd() bool {
	return !t.RecurrenceEnd.IsZero()
}

// Signed returns the amount with expenses negated.
func (t Transaction) Signed() decimal.Decimal {
	if t.Type == Expense {
		return t.Amount.Neg()
	}
	return t.Amount
}

// NormalizeCategory maps a blank category to Uncategorized.
func NormalizeCategory(category string) string {
	if strings.TrimSpace(category) == "" {
		return Uncategorized
	}
	return category
}

// SortColumn selects the sort key of the transaction view.
type SortColumn int

const (
	SortByDate SortColumn = iota
	SortByDescription
	SortByAmount
	SortByType
	SortByCategory
	SortBySubcategory
)

// SortColumns lists every column in table order.
var SortColumns = []SortColumn{SortByDate, SortByDescription, SortByAmount, SortByType, SortByCategory, SortBySubcategory}

func (c SortColumn) String() string {
	switch c {
	case SortByDate:
		return "date"
	case SortByDescription:
		return "description"
	case SortByAmount:
		return "amount"
	case SortByType:
		return "type"
	case SortByCategory:
		return "category"
	case SortBySubcategory:
		return "subcategory"
	}
	return "date"
}

// SortOrder is the sort direction.
type SortOrder int

const (
	Ascending SortOrder = iota
	Descending
)

func (o SortOrder) String() string {
	if o == Descending {
		return "desc"
	}
	return "asc"
}
