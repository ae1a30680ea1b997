package ledger

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Store owns the canonical transaction list and keeps the view, the
// selection and the summaries consistent with it. It is not safe for
// concurrent use; one event loop drives it.
type Store struct {
	txs        []Transaction
	categories CategoryTable

	sort   SortState
	filter Filter
	view   View
	sel    Selection

	agg          Aggregates
	expanded     map[MonthKey]bool
	categoryRows []CategoryRow
	yearCursor   int

	now func() time.Time
	log zerolog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the source of "today".
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger attaches a logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) { s.log = l }
}

// NewStore returns an empty store validating against categories.
func NewStore(categories CategoryTable, opts ...Option) *Store {
	s := &Store{
		categories: categories,
		expanded:   map[MonthKey]bool{},
		now:        time.Now,
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.refresh()
	return s
}

// Categories returns the reference table.
func (s *Store) Categories() CategoryTable { return s.categories }

// Load replaces the canonical list and regenerates recurring instances.
// Generated rows in txs are dropped.
func (s *Store) Load(txs []Transaction) {
	s.txs = make([]Transaction, 0, len(txs))
	for _, t := range txs {
		if t.Generated {
			continue
		}
		s.txs = append(s.txs, t)
	}
	s.RegenerateRecurring()
}

// Len returns the number of transactions, generated ones included.
func (s *Store) Len() int { return len(s.txs) }

// Transactions returns a copy of every transaction in storage order.
func (s *Store) Transactions() []Transaction {
	out := make([]Transaction, len(s.txs))
	copy(out, s.txs)
	return out
}

// Canonical returns the user-entered transactions in storage order; this is
// what gets persisted.
func (s *Store) Canonical() []Transaction {
	out := make([]Transaction, 0, len(s.txs))
	for _, t := range s.txs {
		if !t.Generated {
			out = append(out, t)
		}
	}
	return out
}

// Recurring returns the recurring origins in storage order.
func (s *Store) Recurring() []Transaction {
	var out []Transaction
	for _, t := range s.txs {
		if t.IsRecurring() {
			out = append(out, t)
		}
	}
	return out
}

// Add validates c and appends it.
func (s *Store) Add(c Candidate) error {
	t, err := c.Transaction(s.categories, Transaction{})
	if err != nil {
		return err
	}
	s.txs = append(s.txs, t)
	if t.IsRecurring() {
		s.RegenerateRecurring()
		return nil
	}
	s.refresh()
	return nil
}

// Edit replaces the transaction shown at i. Editing a generated instance
// edits its origin instead.
func (s *Store) Edit(i ViewIndex, c Candidate) error {
	target, redirected, err := s.resolve(i)
	if err != nil {
		return err
	}
	old := s.txs[target]
	if redirected {
		// The instance's date is not the origin's; keep the origin's unless
		// the form changed it.
		shown, _ := s.At(i)
		if sameDate(c.Date, shown.Date) {
			c.Date = FormatDate(old.Date)
		}
	}
	t, err := c.Transaction(s.categories, old)
	if err != nil {
		return err
	}
	s.txs[target] = t
	if old.IsRecurring() || t.IsRecurring() {
		s.RegenerateRecurring()
		return nil
	}
	s.refresh()
	return nil
}

// Delete removes the transaction shown at i. Deleting a generated instance
// deletes its origin and with it every instance.
func (s *Store) Delete(i ViewIndex) error {
	target, _, err := s.resolve(i)
	if err != nil {
		return err
	}
	old := s.txs[target]
	s.txs = append(s.txs[:target], s.txs[target+1:]...)
	if old.IsRecurring() {
		s.RegenerateRecurring()
		return nil
	}
	s.refresh()
	return nil
}

// resolve maps a view position to the store position a mutation applies to.
func (s *Store) resolve(i ViewIndex) (StoreIndex, bool, error) {
	idx, err := s.view.Lookup(i)
	if err != nil {
		return 0, false, err
	}
	if int(idx) >= len(s.txs) {
		return 0, false, &IndexError{Index: int(idx), Len: len(s.txs)}
	}
	t := s.txs[idx]
	if !t.Generated {
		return idx, false, nil
	}
	origin, ok := s.findOrigin(t)
	if !ok {
		return 0, false, &RecurrenceLookupError{Description: t.Description}
	}
	return origin, true, nil
}

// findOrigin matches a generated instance against the recurring origins on
// every field it inherits except the date.
func (s *Store) findOrigin(g Transaction) (StoreIndex, bool) {
	for i, t := range s.txs {
		if !t.IsRecurring() {
			continue
		}
		if t.Description == g.Description &&
			t.Amount.Equal(g.Amount) &&
			t.Type == g.Type &&
			t.Category == g.Category &&
			t.Subcategory == g.Subcategory &&
			t.Frequency == g.Frequency &&
			t.RecurrenceEnd.Equal(g.RecurrenceEnd) &&
			!t.Date.After(g.Date) {
			return StoreIndex(i), true
		}
	}
	return 0, false
}

func sameDate(text string, d time.Time) bool {
	parsed, err := ParseDate(text)
	return err == nil && parsed.Equal(DateOf(d))
}

// RegenerateRecurring discards every generated instance and expands all
// recurring origins up to today.
func (s *Store) RegenerateRecurring() {
	canonical := s.txs[:0]
	for _, t := range s.txs {
		if !t.Generated {
			canonical = append(canonical, t)
		}
	}
	s.txs = canonical
	instances, err := Expand(s.txs, s.now())
	if err != nil {
		s.log.Warn().Err(err).Msg("recurrence expansion truncated")
	}
	s.txs = append(s.txs, instances...)
	s.log.Debug().Int("origins", len(s.Recurring())).Int("generated", len(instances)).Msg("regenerated recurring transactions")
	s.refresh()
}

// Sort returns the active sort.
func (s *Store) Sort() SortState { return s.sort }

// SetSort toggles direction on the active column or switches to col
// ascending, then rebuilds the view.
func (s *Store) SetSort(col SortColumn) {
	s.sort = s.sort.Toggle(col)
	s.refresh()
}

// ApplySimpleFilter shows the rows whose description contains query.
func (s *Store) ApplySimpleFilter(query string) {
	if query == "" {
		s.filter = nil
	} else {
		s.filter = TextFilter{Query: query}
	}
	s.refresh()
}

// ApplyAdvancedFilter shows the rows matching every predicate of c.
func (s *Store) ApplyAdvancedFilter(c Criteria) {
	if c.IsZero() {
		s.filter = nil
	} else {
		s.filter = c
	}
	s.refresh()
}

// ClearFilter shows every row.
func (s *Store) ClearFilter() {
	s.filter = nil
	s.refresh()
}

// Filter returns the active filter, nil when none.
func (s *Store) Filter() Filter { return s.filter }

// refresh rebuilds the view and every summary from scratch.
func (s *Store) refresh() {
	s.view = BuildView(s.txs, s.sort, s.filter)
	s.sel = s.sel.clamp(s.view.Len())
	s.agg = Aggregate(s.txs, s.view)
	s.clampYear()
	s.rebuildCategoryRows()
}

// View returns the current view.
func (s *Store) View() View { return s.view }

// At returns the transaction shown at i.
func (s *Store) At(i ViewIndex) (Transaction, error) {
	idx, err := s.view.Lookup(i)
	if err != nil {
		return Transaction{}, err
	}
	return s.txs[idx], nil
}

// Visible returns the transactions of the view in order.
func (s *Store) Visible() []Transaction {
	out := make([]Transaction, 0, s.view.Len())
	for _, idx := range s.view.rows {
		out = append(out, s.txs[idx])
	}
	return out
}

// Selected returns the selected view position, if any.
func (s *Store) Selected() (ViewIndex, bool) { return s.sel.Get() }

// Select moves the selection to i, clamped into the view.
func (s *Store) Select(i ViewIndex) {
	s.sel = Selection{index: i, valid: true}.clamp(s.view.Len())
}

// MoveSelection moves the selection by delta rows, clamped into the view.
func (s *Store) MoveSelection(delta int) {
	i, ok := s.sel.Get()
	if !ok {
		s.sel = s.sel.clamp(s.view.Len())
		return
	}
	next := int(i) + delta
	if next < 0 {
		next = 0
	}
	s.Select(ViewIndex(next))
}

// Aggregates returns the summaries of the current view.
func (s *Store) Aggregates() Aggregates { return s.agg }

// EnterSummary points the year cursor at the current year, or the most
// recent year when the current one has no rows. It returns ErrEmptyStore
// when the view has nothing to summarize.
func (s *Store) EnterSummary() error {
	years := s.agg.years
	s.yearCursor = len(years) - 1
	today := s.now().Year()
	for i, y := range years {
		if y == today {
			s.yearCursor = i
		}
	}
	s.clampYear()
	s.rebuildCategoryRows()
	if len(years) == 0 {
		return ErrEmptyStore
	}
	return nil
}

// ShiftYear moves the year cursor by delta, clamped.
func (s *Store) ShiftYear(delta int) {
	s.yearCursor += delta
	s.clampYear()
	s.rebuildCategoryRows()
}

// SummaryYear returns the selected summary year.
func (s *Store) SummaryYear() (int, bool) {
	if len(s.agg.years) == 0 {
		return 0, false
	}
	return s.agg.years[s.yearCursor], true
}

func (s *Store) clampYear() {
	n := len(s.agg.years)
	switch {
	case n == 0:
		s.yearCursor = 0
	case s.yearCursor >= n:
		s.yearCursor = n - 1
	case s.yearCursor < 0:
		s.yearCursor = 0
	}
}

// ToggleMonth expands or collapses a month of the category view.
func (s *Store) ToggleMonth(m MonthKey) {
	if s.expanded[m] {
		delete(s.expanded, m)
	} else {
		s.expanded[m] = true
	}
	s.rebuildCategoryRows()
}

// CategoryRows returns the flattened category view of the summary year.
func (s *Store) CategoryRows() []CategoryRow {
	out := make([]CategoryRow, len(s.categoryRows))
	copy(out, s.categoryRows)
	return out
}

func (s *Store) rebuildCategoryRows() {
	year, ok := s.SummaryYear()
	if !ok {
		s.categoryRows = nil
		return
	}
	s.categoryRows = s.agg.CategoryRows(year, s.expanded)
}

// Balance returns the signed sum of the view.
func (s *Store) Balance() decimal.Decimal {
	return s.agg.Total().Net()
}
