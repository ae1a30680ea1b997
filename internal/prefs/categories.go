package prefs

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/jask/fintrack/internal/ledger"
)

type categoriesFile struct {
	Category []categoryEntry `toml:"category"`
}

type categoryEntry struct {
	Type          string   `toml:"type"`
	Name          string   `toml:"name"`
	Subcategories []string `toml:"subcategories"`
}

var defaultCategories = []categoryEntry{
	{Type: "Income", Name: "Salary"},
	{Type: "Income", Name: "Bonus"},
	{Type: "Income", Name: "Interest"},
	{Type: "Income", Name: "Gifts"},
	{Type: "Income", Name: "Other"},
	{Type: "Expense", Name: "Housing", Subcategories: []string{"Rent", "Mortgage", "Repairs"}},
	{Type: "Expense", Name: "Food", Subcategories: []string{"Groceries", "Dining", "Coffee"}},
	{Type: "Expense", Name: "Transport", Subcategories: []string{"Fuel", "Public Transport", "Parking"}},
	{Type: "Expense", Name: "Utilities", Subcategories: []string{"Electricity", "Water", "Internet", "Phone"}},
	{Type: "Expense", Name: "Health", Subcategories: []string{"Insurance", "Pharmacy", "Doctor"}},
	{Type: "Expense", Name: "Entertainment", Subcategories: []string{"Streaming", "Events", "Games"}},
	{Type: "Expense", Name: "Shopping", Subcategories: []string{"Clothing", "Electronics", "Household"}},
	{Type: "Expense", Name: "Subscriptions"},
	{Type: "Expense", Name: "Savings", Subcategories: []string{"Emergency Fund", "Investments"}},
}

// DefaultCategories returns the built-in reference table.
func DefaultCategories() []ledger.CategoryInfo {
	out, err := flatten(defaultCategories)
	if err != nil {
		panic(err)
	}
	return out
}

// LoadCategories reads the TOML category table at path. A missing file is
// created with the defaults.
func LoadCategories(path string) ([]ledger.CategoryInfo, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if err := saveCategories(path, defaultCategories); err != nil {
			return nil, err
		}
		return DefaultCategories(), nil
	}
	var raw categoriesFile
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	out, err := flatten(raw.Category)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return out, nil
}

// saveCategories writes entries to path through a temp file and rename.
func saveCategories(path string, entries []categoryEntry) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	var buf bytes.Buffer
	buf.WriteString("# fintrack category table. Each [[category]] lists one category and its subcategories.\n\n")
	if err := toml.NewEncoder(&buf).Encode(categoriesFile{Category: entries}); err != nil {
		return fmt.Errorf("encode categories: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	return os.Rename(tmp, path)
}

// flatten expands each entry into one row per subcategory, or a single
// row with an empty subcategory when it has none.
func flatten(entries []categoryEntry) ([]ledger.CategoryInfo, error) {
	var out []ledger.CategoryInfo
	for i, e := range entries {
		name := strings.TrimSpace(e.Name)
		if name == "" {
			return nil, fmt.Errorf("category %d: missing name", i+1)
		}
		typ, err := ledger.ParseTransactionType(e.Type)
		if err != nil {
			return nil, fmt.Errorf("category %q: %w", name, err)
		}
		if len(e.Subcategories) == 0 {
			out = append(out, ledger.CategoryInfo{Type: typ, Category: name})
			continue
		}
		for _, sub := range e.Subcategories {
			sub = strings.TrimSpace(sub)
			if sub == "" {
				continue
			}
			out = append(out, ledger.CategoryInfo{Type: typ, Category: name, Subcategory: sub})
		}
	}
	return out, nil
}
