package ledger

import "strings"

// CategoryInfo is one allowed (type, category, subcategory) combination.
type CategoryInfo struct {
	Type        TransactionType
	Category    string
	Subcategory string
}

// CategoryTable is the read-only reference table used to validate forms
// and fill category pickers.
type CategoryTable struct {
	entries []CategoryInfo
}

// NewCategoryTable copies entries into an immutable table.
func NewCategoryTable(entries []CategoryInfo) CategoryTable {
	out := make([]CategoryInfo, len(entries))
	copy(out, entries)
	return CategoryTable{entries: out}
}

// Entries returns a copy of the table rows.
func (t CategoryTable) Entries() []CategoryInfo {
	out := make([]CategoryInfo, len(t.entries))
	copy(out, t.entries)
	return out
}

// Len returns the number of rows.
func (t CategoryTable) Len() int { return len(t.entries) }

// Categories lists the distinct categories for typ in table order.
func (t CategoryTable) Categories(typ TransactionType) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, e := range t.entries {
		if e.Type != typ {
			continue
		}
		key := strings.ToLower(e.Category)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, e.Category)
	}
	return out
}

// Subcategories lists the non-empty subcategories of category for typ.
func (t CategoryTable) Subcategories(typ TransactionType, category string) []string {
	var out []string
	for _, e := range t.entries {
		if e.Type != typ || !strings.EqualFold(e.Category, category) || e.Subcategory == "" {
			continue
		}
		out = append(out, e.Subcategory)
	}
	return out
}

// Validate accepts the Uncategorized sentinel (or a blank category) and any
// case-insensitive match in the table. A blank subcategory matches on the
// category alone.
func (t CategoryTable) Validate(typ TransactionType, category, subcategory string) error {
	category = strings.TrimSpace(category)
	subcategory = strings.TrimSpace(subcategory)
	if category == "" || strings.EqualFold(category, Uncategorized) {
		return nil
	}
	foundCategory := false
	for _, e := range t.entries {
		if e.Type != typ || !strings.EqualFold(e.Category, category) {
			continue
		}
		foundCategory = true
		if subcategory == "" || strings.EqualFold(e.Subcategory, subcategory) {
			return nil
		}
	}
	if !foundCategory {
		return invalid("category", category, "not a known "+strings.ToLower(typ.String())+" category")
	}
	return invalid("subcategory", subcategory, "not a known subcategory of "+category)
}
