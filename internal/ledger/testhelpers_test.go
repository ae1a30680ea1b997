package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

func testCategories() CategoryTable {
	return NewCategoryTable([]CategoryInfo{
		{Type: Expense, Category: "Housing", Subcategory: "Rent"},
		{Type: Expense, Category: "Housing", Subcategory: "Utilities"},
		{Type: Expense, Category: "Food", Subcategory: "Groceries"},
		{Type: Expense, Category: "Food", Subcategory: "Dining"},
		{Type: Income, Category: "Salary", Subcategory: ""},
		{Type: Income, Category: "Gifts", Subcategory: "Family"},
	})
}

func tx(date string, desc string, amount string, typ TransactionType, category string) Transaction {
	d, err := ParseDate(date)
	if err != nil {
		panic(err)
	}
	return Transaction{
		Date:        d,
		Description: desc,
		Amount:      decimal.RequireFromString(amount),
		Type:        typ,
		Category:    category,
	}
}

func fixedClock(y int, m time.Month, d int) func() time.Time {
	return func() time.Time { return time.Date(y, m, d, 15, 30, 0, 0, time.UTC) }
}
