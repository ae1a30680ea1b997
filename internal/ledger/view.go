package ledger

// ViewIndex is a position in the filtered, sorted view.
type ViewIndex int

// StoreIndex is a position in the canonical transaction list.
type StoreIndex int

// View maps view positions to store positions.
type View struct {
	rows []StoreIndex
}

// NewView wraps an ordered list of store positions.
func NewView(rows []StoreIndex) View {
	return View{rows: rows}
}

// Len returns the number of visible rows.
func (v View) Len() int { return len(v.rows) }

// Lookup resolves a view position to its store position.
func (v View) Lookup(i ViewIndex) (StoreIndex, error) {
	if i < 0 || int(i) >= len(v.rows) {
		return 0, &IndexError{Index: int(i), Len: len(v.rows)}
	}
	return v.rows[i], nil
}

// Rows returns a copy of the store positions in view order.
func (v View) Rows() []StoreIndex {
	out := make([]StoreIndex, len(v.rows))
	copy(out, v.rows)
	return out
}

// Selection is the cursor into a View; it is either empty or in range.
type Selection struct {
	index ViewIndex
	valid bool
}

// Get returns the selected position, if any.
func (s Selection) Get() (ViewIndex, bool) {
	return s.index, s.valid
}

// clamp keeps the selection inside a view of n rows.
func (s Selection) clamp(n int) Selection {
	if n == 0 {
		return Selection{}
	}
	if !s.valid || s.index < 0 {
		return Selection{index: 0, valid: true}
	}
	if int(s.index) >= n {
		return Selection{index: ViewIndex(n - 1), valid: true}
	}
	return s
}
