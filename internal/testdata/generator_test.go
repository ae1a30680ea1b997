package testdata

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/fintrack/internal/ledger"
	"github.com/jask/fintrack/internal/prefs"
)

func TestLedgerIsDeterministic(t *testing.T) {
	t.Parallel()
	today := time.Date(2026, time.March, 14, 9, 0, 0, 0, time.UTC)
	a := Ledger(42, today)
	b := Ledger(42, today)
	require.Equal(t, a, b)
	require.NotEqual(t, a, Ledger(7, today))
}

func TestLedgerIsValid(t *testing.T) {
	t.Parallel()
	today := time.Date(2026, time.March, 14, 0, 0, 0, 0, time.UTC)
	table := ledger.NewCategoryTable(prefs.DefaultCategories())

	txs := Ledger(1, today)
	require.NotEmpty(t, txs)
	recurring := 0
	for _, tx := range txs {
		require.True(t, tx.Amount.IsPositive())
		require.False(t, tx.Date.After(today))
		require.NoError(t, table.Validate(tx.Type, tx.Category, tx.Subcategory), tx.Description)
		if tx.IsRecurring() {
			recurring++
		}
	}
	require.Equal(t, 3, recurring)

	store := ledger.NewStore(table, ledger.WithClock(func() time.Time { return today }))
	store.Load(txs)
	require.Greater(t, store.Len(), len(txs))
	require.Len(t, store.Canonical(), len(txs))
}
