package repository

import (
	"context"
	"database/sql"
)

// DBTX is satisfied by *sql.DB and *sql.Tx so repos can run inside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Category represents a category row.
type Category struct {
	ID          string
	Type        string
	Category    string
	Subcategory string
	SortOrder   int
}

// Transaction represents a transaction row. Dates are YYYY-MM-DD text and
// Amount is a decimal string.
type Transaction struct {
	Position    int
	Date        string
	Description string
	Amount      string
	Type        string
	Category    string
	Subcategory string
	Frequency   *string
	EndDate     *string
}
