package tui

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jask/fintrack/internal/config"
	"github.com/jask/fintrack/internal/ledger"
	"github.com/jask/fintrack/internal/prefs"
)

type memPersistence struct {
	mu      sync.Mutex
	txs     []ledger.Transaction
	loadErr error
	saves   int
}

func (p *memPersistence) Load(context.Context) ([]ledger.Transaction, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.loadErr != nil {
		return nil, p.loadErr
	}
	return append([]ledger.Transaction(nil), p.txs...), nil
}

func (p *memPersistence) Save(_ context.Context, txs []ledger.Transaction) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.txs = append([]ledger.Transaction(nil), txs...)
	p.saves++
	return nil
}

func today() time.Time { return time.Date(2024, time.April, 15, 9, 0, 0, 0, time.UTC) }

func testConfig() config.Config {
	return config.Config{
		Budget: config.BudgetConfig{Target: "1000", NeedsPct: 50, WantsPct: 30, SavingsPct: 20},
		UI:     config.UIConfig{DateFormat: "2006-01-02", CurrencySymbol: "$"},
	}
}

func newTestApp(t *testing.T, p *memPersistence) *App {
	t.Helper()
	store := ledger.NewStore(ledger.NewCategoryTable(prefs.DefaultCategories()), ledger.WithClock(today))
	a := New(context.Background(), Deps{
		Store:       store,
		Persistence: p,
		Config:      testConfig(),
		SaveConfig:  func(config.Config) error { return nil },
		Logger:      zerolog.Nop(),
		Now:         today,
	})
	if cmd := a.Init(); cmd != nil {
		a.Update(cmd())
	}
	return a
}

func keyMsg(k string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

var (
	enterKey = tea.KeyMsg{Type: tea.KeyEnter}
	escKey   = tea.KeyMsg{Type: tea.KeyEsc}
	tabKey   = tea.KeyMsg{Type: tea.KeyTab}
	downKey  = tea.KeyMsg{Type: tea.KeyDown}
	leftKey  = tea.KeyMsg{Type: tea.KeyLeft}
	ctrlR    = tea.KeyMsg{Type: tea.KeyCtrlR}
)

// press sends msgs in order, dropping their commands.
func press(t *testing.T, a *App, msgs ...tea.Msg) {
	t.Helper()
	for _, m := range msgs {
		a.Update(m)
	}
}

// submit sends msg and feeds back the message its command produces.
func submit(t *testing.T, a *App, msg tea.Msg) {
	t.Helper()
	_, cmd := a.Update(msg)
	if cmd == nil {
		return
	}
	if out := cmd(); out != nil {
		a.Update(out)
	}
}

func seeded() *memPersistence {
	return &memPersistence{txs: []ledger.Transaction{
		{Date: ledger.Date(2024, time.March, 1), Description: "Groceries", Amount: decimal.RequireFromString("82.10"), Type: ledger.Expense, Category: "Food", Subcategory: "Groceries"},
		{Date: ledger.Date(2024, time.March, 28), Description: "Salary", Amount: decimal.RequireFromString("4000"), Type: ledger.Income, Category: "Salary"},
		{Date: ledger.Date(2023, time.December, 2), Description: "Rent December", Amount: decimal.RequireFromString("1500"), Type: ledger.Expense, Category: "Housing", Subcategory: "Rent"},
	}}
}

func TestInitLoadsLedger(t *testing.T) {
	t.Parallel()
	a := newTestApp(t, seeded())
	require.Equal(t, 3, a.store.View().Len())
	require.Contains(t, a.status, "loaded 3")
	require.Contains(t, a.View(), "Rent December")
}

func TestLoadFailureStartsEmpty(t *testing.T) {
	t.Parallel()
	a := newTestApp(t, &memPersistence{loadErr: errors.New("disk on fire")})
	require.Zero(t, a.store.View().Len())
	require.True(t, strings.HasPrefix(a.status, "warning"))
	require.Contains(t, a.View(), "no transactions yet")
}

func TestAddTransactionSaves(t *testing.T) {
	t.Parallel()
	p := seeded()
	a := newTestApp(t, p)

	press(t, a, keyMsg("a"))
	require.Equal(t, modeAdding, a.mode)
	require.Equal(t, "2024-04-15", a.form.fields.value(fieldDate))

	press(t, a, tabKey, keyMsg("Lunch"), tabKey, keyMsg("12.50"))
	a.form.fields.set(fieldCategory, "Food")
	a.form.fields.set(fieldSubcategory, "Dining")
	submit(t, a, enterKey)

	require.Equal(t, modeNormal, a.mode)
	require.Equal(t, 4, a.store.View().Len())
	require.Equal(t, 1, p.saves)
	require.Len(t, p.txs, 4)
	require.Equal(t, "Lunch", p.txs[3].Description)
	require.True(t, p.txs[3].Amount.Equal(decimal.RequireFromString("12.50")))
}

func TestAddInvalidKeepsForm(t *testing.T) {
	t.Parallel()
	p := seeded()
	a := newTestApp(t, p)

	press(t, a, keyMsg("a"))
	a.form.fields.set(fieldDescription, "Broken")
	a.form.fields.set(fieldAmount, "-4")
	press(t, a, enterKey)

	require.Equal(t, modeAdding, a.mode)
	require.True(t, strings.HasPrefix(a.status, "invalid"))
	require.Contains(t, a.status, "amount")
	require.Zero(t, p.saves)

	press(t, a, escKey)
	require.Equal(t, modeNormal, a.mode)
	require.Nil(t, a.form)
}

func TestAddWarnsAboutDuplicate(t *testing.T) {
	t.Parallel()
	a := newTestApp(t, seeded())

	press(t, a, keyMsg("a"))
	a.form.fields.set(fieldDate, "2024-03-02")
	a.form.fields.set(fieldDescription, "Groceries")
	a.form.fields.set(fieldAmount, "82.10")
	press(t, a, enterKey)

	require.Contains(t, a.status, "duplicate")
	require.Equal(t, 4, a.store.View().Len())
}

func TestCategoryPicker(t *testing.T) {
	t.Parallel()
	a := newTestApp(t, seeded())

	press(t, a, keyMsg("a"))
	a.form.fields.focusOn(fieldCategory)
	press(t, a, enterKey)
	require.Equal(t, modeSelectingCategory, a.mode)
	require.Equal(t, noCategory, a.picker.options[0])

	press(t, a, downKey, enterKey)
	require.Equal(t, modeAdding, a.mode)
	require.Equal(t, "Housing", a.form.fields.value(fieldCategory))

	a.form.fields.focusOn(fieldSubcategory)
	press(t, a, enterKey)
	require.Equal(t, modeSelectingSubcategory, a.mode)
	require.Equal(t, []string{noSubcategory, "Rent", "Mortgage", "Repairs"}, a.picker.options)

	press(t, a, escKey)
	require.Equal(t, modeAdding, a.mode)
	require.Empty(t, a.form.fields.value(fieldSubcategory))
}

func TestRecurringSettingsGenerateInstances(t *testing.T) {
	t.Parallel()
	p := &memPersistence{}
	a := newTestApp(t, p)

	press(t, a, keyMsg("a"))
	a.form.fields.set(fieldDate, "2024-01-31")
	a.form.fields.set(fieldDescription, "Rent")
	a.form.fields.set(fieldAmount, "1200")
	a.form.fields.set(fieldCategory, "Housing")
	a.form.fields.set(fieldSubcategory, "Rent")

	press(t, a, ctrlR)
	require.Equal(t, modeRecurringSettings, a.mode)
	a.form.recurring.set(0, "Monthly")
	press(t, a, enterKey)
	require.Equal(t, modeAdding, a.mode)
	require.Equal(t, "Monthly", a.form.recurrence.Frequency)

	submit(t, a, enterKey)
	require.Equal(t, modeNormal, a.mode)
	// Jan 31, Feb 29, Mar 31; Apr 30 is after today.
	require.Equal(t, 3, a.store.View().Len())
	require.Len(t, p.txs, 1, "only the origin is persisted")
}

func TestRecurringSettingsRejectsBadFrequency(t *testing.T) {
	t.Parallel()
	a := newTestApp(t, seeded())
	press(t, a, keyMsg("a"), ctrlR)
	a.form.recurring.set(0, "Fortnightly")
	press(t, a, enterKey)
	require.Equal(t, modeRecurringSettings, a.mode)
	require.True(t, strings.HasPrefix(a.status, "invalid"))

	press(t, a, escKey)
	require.Equal(t, modeAdding, a.mode)
	require.Nil(t, a.form.recurrence)
}

func TestCycleFrequency(t *testing.T) {
	t.Parallel()
	require.Equal(t, "Daily", cycleFrequency("", true))
	require.Equal(t, "", cycleFrequency("daily", false))
	require.Equal(t, "Yearly", cycleFrequency("", false))
}

func TestDeleteConfirm(t *testing.T) {
	t.Parallel()
	p := seeded()
	a := newTestApp(t, p)

	// date ascending: Rent December is first
	press(t, a, keyMsg("d"))
	require.Equal(t, modeConfirmDelete, a.mode)
	require.Contains(t, a.View(), "Delete 2023-12-02 Rent December")

	press(t, a, keyMsg("n"))
	require.Equal(t, 3, a.store.View().Len())

	press(t, a, keyMsg("d"))
	submit(t, a, keyMsg("y"))
	require.Equal(t, modeNormal, a.mode)
	require.Equal(t, 2, a.store.View().Len())
	require.Len(t, p.txs, 2)
}

func TestEditSelected(t *testing.T) {
	t.Parallel()
	p := seeded()
	a := newTestApp(t, p)

	press(t, a, keyMsg("j"), keyMsg("e"))
	require.Equal(t, modeEditing, a.mode)
	require.Equal(t, "Groceries", a.form.fields.value(fieldDescription))

	a.form.fields.set(fieldAmount, "90")
	submit(t, a, enterKey)
	require.Equal(t, modeNormal, a.mode)
	got, err := a.store.At(1)
	require.NoError(t, err)
	require.True(t, got.Amount.Equal(decimal.NewFromInt(90)))
	require.Equal(t, 1, p.saves)
}

func TestSimpleFilter(t *testing.T) {
	t.Parallel()
	a := newTestApp(t, seeded())

	press(t, a, keyMsg("/"), keyMsg("RENT"), enterKey)
	require.Equal(t, modeNormal, a.mode)
	require.Equal(t, 1, a.store.View().Len())
	require.Contains(t, a.View(), "filtered")

	press(t, a, keyMsg("c"))
	require.Equal(t, 3, a.store.View().Len())
}

func TestAdvancedFilter(t *testing.T) {
	t.Parallel()
	a := newTestApp(t, seeded())

	press(t, a, keyMsg("f"))
	require.Equal(t, modeAdvancedFiltering, a.mode)
	a.advanced.set(5, "sideways")
	press(t, a, enterKey)
	require.Equal(t, modeAdvancedFiltering, a.mode)
	require.Contains(t, a.status, "type")

	a.advanced.set(5, "expense")
	a.advanced.set(6, "100")
	press(t, a, enterKey)
	require.Equal(t, modeNormal, a.mode)
	require.Equal(t, 1, a.store.View().Len())
	got, err := a.store.At(0)
	require.NoError(t, err)
	require.Equal(t, "Rent December", got.Description)
}

func TestSortKeys(t *testing.T) {
	t.Parallel()
	a := newTestApp(t, seeded())

	press(t, a, keyMsg("3"))
	require.Equal(t, ledger.SortState{Column: ledger.SortByAmount, Order: ledger.Ascending}, a.store.Sort())
	first, err := a.store.At(0)
	require.NoError(t, err)
	require.Equal(t, "Groceries", first.Description)

	press(t, a, keyMsg("3"))
	require.Equal(t, ledger.Descending, a.store.Sort().Order)
	first, err = a.store.At(0)
	require.NoError(t, err)
	require.Equal(t, "Salary", first.Description)
}

func TestSummaryNavigation(t *testing.T) {
	t.Parallel()
	a := newTestApp(t, seeded())

	press(t, a, keyMsg("s"))
	require.Equal(t, modeSummary, a.mode)
	year, ok := a.store.SummaryYear()
	require.True(t, ok)
	require.Equal(t, 2024, year)
	out := a.View()
	require.Contains(t, out, "Summary 2024")
	require.Contains(t, out, "$4000.00")
	require.Contains(t, out, "target $1000.00")

	press(t, a, leftKey)
	year, _ = a.store.SummaryYear()
	require.Equal(t, 2023, year)
	press(t, a, leftKey)
	year, _ = a.store.SummaryYear()
	require.Equal(t, 2023, year)

	press(t, a, escKey)
	require.Equal(t, modeNormal, a.mode)
}

func TestCategorySummaryToggle(t *testing.T) {
	t.Parallel()
	a := newTestApp(t, seeded())

	press(t, a, keyMsg("v"))
	require.Equal(t, modeCategorySummary, a.mode)
	rows := a.store.CategoryRows()
	require.Len(t, rows, 1)
	require.True(t, rows[0].IsMonth)

	press(t, a, enterKey)
	rows = a.store.CategoryRows()
	require.Len(t, rows, 3)
	require.Equal(t, "Food", rows[1].Category)
	require.Equal(t, "Salary", rows[2].Category)
	require.Equal(t, 0, a.catCursor)
	require.Contains(t, a.View(), "Groceries")
}

func TestSettingsValidation(t *testing.T) {
	t.Parallel()
	var saved []config.Config
	a := newTestApp(t, seeded())
	a.saveConfig = func(c config.Config) error {
		saved = append(saved, c)
		return nil
	}

	press(t, a, keyMsg("p"))
	require.Equal(t, modeSettings, a.mode)
	require.Equal(t, "50", a.settings.value(1))

	a.settings.set(1, "80")
	press(t, a, enterKey)
	require.Equal(t, modeSettings, a.mode)
	require.Contains(t, a.status, "more than 100%")
	require.Empty(t, saved)

	a.settings.set(1, "50abc")
	press(t, a, enterKey)
	require.Equal(t, modeSettings, a.mode)
	require.Equal(t, `invalid Needs %: "50abc"`, a.status)

	a.settings.set(0, "-10")
	a.settings.set(1, "40")
	press(t, a, enterKey)
	require.Equal(t, modeSettings, a.mode)
	require.Contains(t, a.status, "must not be negative")

	a.settings.set(0, "1e50000000")
	press(t, a, enterKey)
	require.Equal(t, modeSettings, a.mode)
	require.Contains(t, a.status, "budget.target")
	require.Empty(t, saved)

	a.settings.set(0, "2500")
	a.settings.set(1, "40")
	submit(t, a, enterKey)
	require.Equal(t, modeNormal, a.mode)
	require.Len(t, saved, 1)
	require.Equal(t, "2500", saved[0].Budget.Target)
	require.Equal(t, 40, a.cfg.Budget.NeedsPct)
	require.Equal(t, "settings saved", a.status)
}

func TestSummaryOfEmptyLedger(t *testing.T) {
	t.Parallel()
	a := newTestApp(t, &memPersistence{})
	press(t, a, keyMsg("s"))
	require.Equal(t, modeSummary, a.mode)
	require.Equal(t, "no transactions", a.status)
	require.Contains(t, a.View(), "no transactions to summarize")
}

func TestReadOnlyBlocksMutations(t *testing.T) {
	t.Parallel()
	p := seeded()
	store := ledger.NewStore(ledger.NewCategoryTable(prefs.DefaultCategories()), ledger.WithClock(today))
	store.Load(p.txs)
	a := New(context.Background(), Deps{Store: store, Persistence: p, Config: testConfig(), ReadOnly: true, Now: today})
	require.Nil(t, a.Init())

	press(t, a, keyMsg("a"))
	require.Equal(t, modeNormal, a.mode)
	require.Equal(t, "read-only", a.status)

	press(t, a, keyMsg("e"))
	require.Equal(t, modeNormal, a.mode)
}
