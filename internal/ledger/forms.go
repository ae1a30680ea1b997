package ledger

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Candidate is the text form of a transaction as entered by the user.
type Candidate struct {
	Date        string
	Description string
	Amount      string
	Type        string
	Category    string
	Subcategory string

	// Recurrence is nil when the form leaves recurrence untouched: a new
	// transaction is then one-off and an edit keeps the existing settings.
	Recurrence *RecurrenceInput
}

// RecurrenceInput is the text form of recurrence settings. A blank or
// "none" frequency clears recurrence.
type RecurrenceInput struct {
	Frequency string
	EndDate   string
}

// CandidateOf renders t back into form text.
func CandidateOf(t Transaction) Candidate {
	return Candidate{
		Date:        FormatDate(t.Date),
		Description: t.Description,
		Amount:      t.Amount.String(),
		Type:        t.Type.String(),
		Category:    t.Category,
		Subcategory: t.Subcategory,
		Recurrence: &RecurrenceInput{
			Frequency: t.Frequency.String(),
			EndDate:   FormatDate(t.RecurrenceEnd),
		},
	}
}

// Transaction validates c against table. Recurrence fields come from base
// when c.Recurrence is nil.
func (c Candidate) Transaction(table CategoryTable, base Transaction) (Transaction, error) {
	date, err := ParseDate(c.Date)
	if err != nil {
		return Transaction{}, invalid("date", c.Date, "expected YYYY-MM-DD")
	}
	desc := strings.TrimSpace(c.Description)
	if desc == "" {
		return Transaction{}, invalid("description", "", "must not be empty")
	}
	amount, err := ParseAmount(c.Amount)
	if err != nil {
		return Transaction{}, err
	}
	typ, err := ParseTransactionType(c.Type)
	if err != nil {
		return Transaction{}, invalid("type", c.Type, "expected Income or Expense")
	}
	category := strings.TrimSpace(c.Category)
	subcategory := strings.TrimSpace(c.Subcategory)
	if err := table.Validate(typ, category, subcategory); err != nil {
		return Transaction{}, err
	}

	t := Transaction{
		Date:          date,
		Description:   desc,
		Amount:        amount,
		Type:          typ,
		Category:      category,
		Subcategory:   subcategory,
		Frequency:     base.Frequency,
		RecurrenceEnd: base.RecurrenceEnd,
	}
	if c.Recurrence != nil {
		freq, end, err := c.Recurrence.parse(date)
		if err != nil {
			return Transaction{}, err
		}
		t.Frequency, t.RecurrenceEnd = freq, end
	}
	if t.Frequency == FrequencyNone {
		t.RecurrenceEnd = time.Time{}
	}
	return t, nil
}

func (r RecurrenceInput) parse(start time.Time) (Frequency, time.Time, error) {
	freq, err := ParseFrequency(r.Frequency)
	if err != nil {
		return FrequencyNone, time.Time{}, invalid("frequency", r.Frequency, "expected Daily, Weekly, BiWeekly, Monthly or Yearly")
	}
	if freq == FrequencyNone || strings.TrimSpace(r.EndDate) == "" {
		return freq, time.Time{}, nil
	}
	end, err := ParseDate(r.EndDate)
	if err != nil {
		return FrequencyNone, time.Time{}, invalid("end_date", r.EndDate, "expected YYYY-MM-DD")
	}
	if end.Before(start) {
		return FrequencyNone, time.Time{}, invalid("end_date", r.EndDate, "before the transaction date")
	}
	return freq, end, nil
}

// Amounts carry at most this many digits either side of the point.
const (
	maxIntegerDigits  = 15
	maxFractionDigits = 8
)

var plainDecimal = regexp.MustCompile(`^[+-]?(\d+(\.\d+)?|\.\d+)$`)

// ParseDecimal parses a signed number in plain notation. Exponent forms and
// values beyond the digit limits are rejected so that arithmetic on the
// result stays bounded.
func ParseDecimal(s string) (decimal.Decimal, error) {
	raw := strings.TrimSpace(s)
	if !plainDecimal.MatchString(raw) {
		return decimal.Zero, ErrNotANumber
	}
	whole, frac, _ := strings.Cut(strings.TrimLeft(raw, "+-"), ".")
	if len(strings.TrimLeft(whole, "0")) > maxIntegerDigits || len(frac) > maxFractionDigits {
		return decimal.Zero, fmt.Errorf("%w: at most %d digits before and %d after the point",
			ErrAmountPrecision, maxIntegerDigits, maxFractionDigits)
	}
	return decimal.NewFromString(strings.TrimPrefix(raw, "+"))
}

// ParseAmount parses a strictly positive decimal amount.
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := ParseDecimal(s)
	if err != nil {
		return decimal.Zero, invalid("amount", s, err.Error())
	}
	if !d.IsPositive() {
		return decimal.Zero, invalid("amount", s, "must be greater than zero")
	}
	return d, nil
}

// FilterForm is the text form of the advanced filter. Blank fields are
// unconstrained.
type FilterForm struct {
	DateFrom    string
	DateTo      string
	Description string
	Category    string
	Subcategory string
	Type        string
	AmountFrom  string
	AmountTo    string
}

// Criteria validates the form.
func (f FilterForm) Criteria() (Criteria, error) {
	var c Criteria
	var err error
	if strings.TrimSpace(f.DateFrom) != "" {
		if c.DateFrom, err = ParseDate(f.DateFrom); err != nil {
			return Criteria{}, invalid("date_from", f.DateFrom, "expected YYYY-MM-DD")
		}
	}
	if strings.TrimSpace(f.DateTo) != "" {
		if c.DateTo, err = ParseDate(f.DateTo); err != nil {
			return Criteria{}, invalid("date_to", f.DateTo, "expected YYYY-MM-DD")
		}
	}
	c.Description = strings.TrimSpace(f.Description)
	c.Category = strings.TrimSpace(f.Category)
	c.Subcategory = strings.TrimSpace(f.Subcategory)
	switch strings.ToLower(strings.TrimSpace(f.Type)) {
	case "", "any", "either", "all":
		c.Type = AnyType
	case "income":
		c.Type = IncomeOnly
	case "expense":
		c.Type = ExpenseOnly
	default:
		return Criteria{}, invalid("type", f.Type, "expected Income, Expense or blank")
	}
	if c.AmountFrom, err = optionalAmount("amount_from", f.AmountFrom); err != nil {
		return Criteria{}, err
	}
	if c.AmountTo, err = optionalAmount("amount_to", f.AmountTo); err != nil {
		return Criteria{}, err
	}
	return c, nil
}

func optionalAmount(field, s string) (*decimal.Decimal, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	d, err := ParseDecimal(s)
	if err != nil {
		return nil, invalid(field, s, err.Error())
	}
	return &d, nil
}
