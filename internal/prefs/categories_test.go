package prefs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/fintrack/internal/ledger"
)

func TestLoadCategoriesCreatesDefaults(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "fintrack", "categories.toml")

	got, err := LoadCategories(path)
	require.NoError(t, err)
	require.Equal(t, DefaultCategories(), got)
	require.FileExists(t, path)

	again, err := LoadCategories(path)
	require.NoError(t, err)
	require.Equal(t, got, again)
}

func TestLoadCategoriesFromFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "categories.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[[category]]
type = "income"
name = "Salary"

[[category]]
type = "Expense"
name = "Food"
subcategories = ["Groceries", " ", "Dining"]
`), 0o644))

	got, err := LoadCategories(path)
	require.NoError(t, err)
	require.Equal(t, []ledger.CategoryInfo{
		{Type: ledger.Income, Category: "Salary"},
		{Type: ledger.Expense, Category: "Food", Subcategory: "Groceries"},
		{Type: ledger.Expense, Category: "Food", Subcategory: "Dining"},
	}, got)

	table := ledger.NewCategoryTable(got)
	require.NoError(t, table.Validate(ledger.Expense, "food", "dining"))
}

func TestLoadCategoriesRejectsUnknownType(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "categories.toml")
	require.NoError(t, os.WriteFile(path, []byte("[[category]]\ntype = \"Transfer\"\nname = \"Moves\"\n"), 0o644))

	_, err := LoadCategories(path)
	require.ErrorIs(t, err, ledger.ErrUnknownTransactionType)
	require.ErrorContains(t, err, "Moves")
}

func TestLoadCategoriesRejectsMalformedTOML(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "categories.toml")
	require.NoError(t, os.WriteFile(path, []byte("[[category]\n"), 0o644))
	_, err := LoadCategories(path)
	require.Error(t, err)
}
