package testdata

import (
	"math/rand"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jask/fintrack/internal/ledger"
)

type merchant struct {
	Description string
	Category    string
	Subcategory string
	MinCents    int64
	MaxCents    int64
}

var merchants = []merchant{
	{"WOOLWORTHS", "Food", "Groceries", 2500, 18000},
	{"UBER EATS* SUSHI", "Food", "Dining", 1800, 6500},
	{"SEVEN SEAS CAFE", "Food", "Coffee", 450, 1200},
	{"SHELL COLES EXPRESS", "Transport", "Fuel", 4000, 9000},
	{"MYKI TOP UP", "Transport", "Public Transport", 1000, 5000},
	{"AMAZON.COM*XYZ", "Shopping", "Household", 1500, 20000},
	{"CHEMIST WAREHOUSE", "Health", "Pharmacy", 900, 6000},
	{"CINEMA NOVA", "Entertainment", "Events", 1600, 4000},
}

// Ledger returns a deterministic sample ledger covering the twelve months
// before today: monthly rent and salary origins, a streaming subscription,
// and one-off spending drawn from seed.
func Ledger(seed int64, today time.Time) []ledger.Transaction {
	r := rand.New(rand.NewSource(seed))
	today = ledger.DateOf(today)
	start := ledger.Date(today.Year()-1, today.Month(), 1)

	out := []ledger.Transaction{
		{
			Date: start, Description: "SALARY ACME PTY LTD", Amount: decimal.RequireFromString("5200.00"),
			Type: ledger.Income, Category: "Salary", Frequency: ledger.Monthly,
		},
		{
			Date: start.AddDate(0, 0, 2), Description: "RENT - 12 SMITH ST", Amount: decimal.RequireFromString("1850.00"),
			Type: ledger.Expense, Category: "Housing", Subcategory: "Rent", Frequency: ledger.Monthly,
		},
		{
			Date: start.AddDate(0, 0, 9), Description: "SPOTIFY", Amount: decimal.RequireFromString("13.99"),
			Type: ledger.Expense, Category: "Entertainment", Subcategory: "Streaming", Frequency: ledger.Monthly,
			RecurrenceEnd: today.AddDate(0, -2, 0),
		},
	}

	for d := start; !d.After(today); d = d.AddDate(0, 0, 1) {
		// roughly two purchases every three days
		for n := r.Intn(3); n > 0; n-- {
			m := merchants[r.Intn(len(merchants))]
			cents := m.MinCents + r.Int63n(m.MaxCents-m.MinCents+1)
			out = append(out, ledger.Transaction{
				Date:        d,
				Description: m.Description,
				Amount:      decimal.New(cents, -2),
				Type:        ledger.Expense,
				Category:    m.Category,
				Subcategory: m.Subcategory,
			})
		}
		if d.Day() == 15 && r.Intn(4) == 0 {
			out = append(out, ledger.Transaction{
				Date:        d,
				Description: "INTEREST PAID",
				Amount:      decimal.New(100+r.Int63n(2000), -2),
				Type:        ledger.Income,
				Category:    "Interest",
			})
		}
	}
	return out
}
