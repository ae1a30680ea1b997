package database

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jask/fintrack/internal/database/repository"
	"github.com/jask/fintrack/internal/ledger"
)

func openTestBackend(t *testing.T) *Backend {
	t.Helper()
	b, err := OpenBackend(filepath.Join(t.TempDir(), "fintrack.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })
	return b
}

func TestMigrateIsIdempotent(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "fintrack.db")
	require.NoError(t, Migrate(path))
	require.NoError(t, Migrate(path))
}

func TestBackendRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	b := openTestBackend(t)

	txs := []ledger.Transaction{
		{
			Date: ledger.Date(2024, time.January, 31), Description: "Rent", Amount: decimal.RequireFromString("1200.00"),
			Type: ledger.Expense, Category: "Housing", Subcategory: "Rent",
			Frequency: ledger.Monthly, RecurrenceEnd: ledger.Date(2024, time.June, 30),
		},
		{
			Date: ledger.Date(2024, time.January, 5), Description: "Salary", Amount: decimal.RequireFromString("3000"),
			Type: ledger.Income, Category: "Salary",
		},
	}
	generated := txs[0]
	generated.Date = ledger.Date(2024, time.February, 29)
	generated.Generated = true

	require.NoError(t, b.Save(ctx, append(txs, generated)))
	got, err := b.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "Rent", got[0].Description)
	require.True(t, got[0].Amount.Equal(txs[0].Amount))
	require.Equal(t, ledger.Monthly, got[0].Frequency)
	require.Equal(t, txs[0].RecurrenceEnd, got[0].RecurrenceEnd)
	require.False(t, got[1].IsRecurring())

	// Save replaces rather than appends.
	require.NoError(t, b.Save(ctx, txs[1:]))
	got, err = b.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "Salary", got[0].Description)
}

func TestBackendLoadReportsBadRow(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	b := openTestBackend(t)
	require.NoError(t, repository.NewTransactionRepo(b.DB()).Insert(ctx, repository.Transaction{
		Position: 7, Date: "2024-01-01", Description: "Broken", Amount: "n/a", Type: "Expense",
	}))

	_, err := b.Load(ctx)
	var perr *ledger.PersistenceError
	require.True(t, errors.As(err, &perr))
	require.Equal(t, 7, perr.Row)
	require.Equal(t, "amount", perr.Column)
}

func TestSeedCategories(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	b := openTestBackend(t)
	table := []ledger.CategoryInfo{
		{Type: ledger.Income, Category: "Salary"},
		{Type: ledger.Expense, Category: "Food", Subcategory: "Groceries"},
		{Type: ledger.Expense, Category: "Food", Subcategory: "Dining"},
	}
	require.NoError(t, SeedCategories(ctx, b.DB(), table))
	require.NoError(t, SeedCategories(ctx, b.DB(), table[:1]))

	got, err := b.Categories(ctx)
	require.NoError(t, err)
	require.Equal(t, table, got)

	rows, err := repository.NewCategoryRepo(b.DB()).List(ctx)
	require.NoError(t, err)
	require.Equal(t, CategoryID(table[0]), rows[0].ID)
	require.NotEqual(t, rows[1].ID, rows[2].ID)
}
