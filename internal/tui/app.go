package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/jask/fintrack/internal/config"
	"github.com/jask/fintrack/internal/ledger"
	"github.com/jask/fintrack/internal/service"
)

// Deps are the collaborators the App drives.
type Deps struct {
	Store       *ledger.Store
	Persistence ledger.Persistence // nil disables loading and saving
	Config      config.Config
	SaveConfig  func(config.Config) error // defaults to config.Save
	Logger      zerolog.Logger
	ReadOnly    bool
	Now         func() time.Time
}

// App ties together views.
type App struct {
	ctx        context.Context
	store      *ledger.Store
	persist    ledger.Persistence
	cfg        config.Config
	saveConfig func(config.Config) error
	log        zerolog.Logger
	readOnly   bool
	now        func() time.Time
	dupes      service.DuplicateFinder

	mode   mode
	status string
	width  int
	height int

	form          *txForm
	picker        *picker
	query         textinput.Model
	advanced      *fieldForm
	settings      *fieldForm
	pendingDelete ledger.ViewIndex
	catCursor     int
}

type mode string

const (
	modeNormal               mode = "normal"
	modeAdding               mode = "adding"
	modeEditing              mode = "editing"
	modeConfirmDelete        mode = "confirmDelete"
	modeFiltering            mode = "filtering"
	modeAdvancedFiltering    mode = "advancedFiltering"
	modeSummary              mode = "summary"
	modeCategorySummary      mode = "categorySummary"
	modeSelectingCategory    mode = "selectingCategory"
	modeSelectingSubcategory mode = "selectingSubcategory"
	modeSettings             mode = "settings"
	modeRecurringSettings    mode = "recurringSettings"
)

func New(ctx context.Context, deps Deps) *App {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	saveConfig := deps.SaveConfig
	if saveConfig == nil {
		saveConfig = config.Save
	}
	return &App{
		ctx:        ctx,
		store:      deps.Store,
		persist:    deps.Persistence,
		cfg:        deps.Config,
		saveConfig: saveConfig,
		log:        deps.Logger,
		readOnly:   deps.ReadOnly,
		now:        now,
		dupes:      service.NewDuplicateFinder(),
		mode:       modeNormal,
		height:     24,
		width:      100,
	}
}

func (a *App) Init() tea.Cmd {
	if a.persist == nil || a.readOnly {
		return nil
	}
	return a.loadTransactions()
}

func (a *App) loadTransactions() tea.Cmd {
	return func() tea.Msg {
		txs, err := a.persist.Load(a.ctx)
		if err != nil {
			return loadFailedMsg{err}
		}
		return transactionsMsg(txs)
	}
}

// saveCmd persists the canonical list as it is now.
func (a *App) saveCmd() tea.Cmd {
	if a.persist == nil || a.readOnly {
		return nil
	}
	txs := a.store.Canonical()
	return func() tea.Msg {
		if err := a.persist.Save(a.ctx, txs); err != nil {
			return errMsg{fmt.Errorf("save failed: %w", err)}
		}
		return savedMsg{count: len(txs)}
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = m.Width, m.Height
		return a, nil
	case tea.KeyMsg:
		if m.String() == "ctrl+c" {
			return a, tea.Quit
		}
		return a.handleKey(m)
	case transactionsMsg:
		a.store.Load([]ledger.Transaction(m))
		a.status = fmt.Sprintf("loaded %d transactions", len(a.store.Canonical()))
		a.log.Info().Int("count", len(m)).Msg("ledger loaded")
	case loadFailedMsg:
		a.store.Load(nil)
		a.status = "warning: could not load ledger, starting empty: " + m.Error()
		a.log.Error().Err(m.error).Msg("load failed")
	case savedMsg:
		a.log.Debug().Int("count", m.count).Msg("ledger saved")
	case statusMsg:
		a.status = string(m)
	case errMsg:
		a.status = "error: " + m.Error()
		a.log.Error().Err(m.error).Msg("command failed")
	}
	return a, nil
}

func (a *App) handleKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch a.mode {
	case modeAdding, modeEditing:
		return a.handleFormKey(m)
	case modeSelectingCategory, modeSelectingSubcategory:
		return a.handlePickerKey(m)
	case modeRecurringSettings:
		return a.handleRecurringKey(m)
	case modeConfirmDelete:
		return a.handleConfirmDeleteKey(m)
	case modeFiltering:
		return a.handleFilterKey(m)
	case modeAdvancedFiltering:
		return a.handleAdvancedFilterKey(m)
	case modeSummary:
		return a.handleSummaryKey(m)
	case modeCategorySummary:
		return a.handleCategorySummaryKey(m)
	case modeSettings:
		return a.handleSettingsKey(m)
	}
	return a.handleNormalKey(m)
}

// toNormal leaves any mode and drops its scratch state.
func (a *App) toNormal() {
	a.mode = modeNormal
	a.form = nil
	a.picker = nil
	a.advanced = nil
	a.settings = nil
}

func (a *App) handleNormalKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "q":
		return a, tea.Quit
	case "up", "k":
		a.store.MoveSelection(-1)
	case "down", "j":
		a.store.MoveSelection(1)
	case "pgup":
		a.store.MoveSelection(-a.pageSize())
	case "pgdown":
		a.store.MoveSelection(a.pageSize())
	case "home", "g":
		a.store.Select(0)
	case "end", "G":
		a.store.Select(ledger.ViewIndex(a.store.View().Len() - 1))
	case "a":
		return a, a.openAddForm()
	case "e", "enter":
		return a, a.openEditForm()
	case "d", "delete":
		i, ok := a.store.Selected()
		if !ok {
			a.status = "nothing selected"
			return a, nil
		}
		a.pendingDelete = i
		a.mode = modeConfirmDelete
	case "/":
		a.query = textinput.New()
		a.query.Prompt = "filter: "
		if f, ok := a.store.Filter().(ledger.TextFilter); ok {
			a.query.SetValue(f.Query)
		}
		a.mode = modeFiltering
		return a, a.query.Focus()
	case "f":
		a.advanced = newFieldForm(advancedLabels, nil)
		a.mode = modeAdvancedFiltering
	case "c":
		a.store.ClearFilter()
		a.status = "filter cleared"
	case "1", "2", "3", "4", "5", "6":
		col := ledger.SortColumns[int(m.String()[0]-'1')]
		a.store.SetSort(col)
		s := a.store.Sort()
		a.status = fmt.Sprintf("sorted by %s %s", s.Column, s.Order)
	case "s":
		a.enterSummary()
		a.mode = modeSummary
	case "v":
		a.enterSummary()
		a.catCursor = 0
		a.mode = modeCategorySummary
	case "p":
		a.settings = newFieldForm(settingsLabels, []string{
			a.cfg.Budget.Target,
			fmt.Sprint(a.cfg.Budget.NeedsPct),
			fmt.Sprint(a.cfg.Budget.WantsPct),
			fmt.Sprint(a.cfg.Budget.SavingsPct),
		})
		a.mode = modeSettings
	}
	return a, nil
}

func (a *App) handleConfirmDeleteKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "y", "enter":
		i := a.pendingDelete
		a.toNormal()
		shown, _ := a.store.At(i)
		if err := a.store.Delete(i); err != nil {
			a.status = "error: " + err.Error()
			return a, nil
		}
		a.status = "deleted " + shown.Description
		if shown.Frequency != ledger.FrequencyNone {
			a.status += " and its recurrences"
		}
		return a, a.saveCmd()
	case "n", "esc":
		a.toNormal()
	}
	return a, nil
}

func (a *App) handleFilterKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "esc":
		a.toNormal()
		return a, nil
	case "enter":
		a.store.ApplySimpleFilter(a.query.Value())
		a.status = fmt.Sprintf("%d matching", a.store.View().Len())
		a.toNormal()
		return a, nil
	}
	var cmd tea.Cmd
	a.query, cmd = a.query.Update(m)
	return a, cmd
}

var advancedLabels = []string{"Date from", "Date to", "Description", "Category", "Subcategory", "Type", "Amount from", "Amount to"}

func (a *App) handleAdvancedFilterKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "esc":
		a.toNormal()
		return a, nil
	case "enter":
		f := a.advanced
		form := ledger.FilterForm{
			DateFrom:    f.value(0),
			DateTo:      f.value(1),
			Description: f.value(2),
			Category:    f.value(3),
			Subcategory: f.value(4),
			Type:        f.value(5),
			AmountFrom:  f.value(6),
			AmountTo:    f.value(7),
		}
		c, err := form.Criteria()
		if err != nil {
			a.status = "invalid filter: " + err.Error()
			return a, nil
		}
		a.store.ApplyAdvancedFilter(c)
		a.status = fmt.Sprintf("%d matching", a.store.View().Len())
		a.toNormal()
		return a, nil
	}
	return a, a.advanced.update(m)
}

func (a *App) handleSummaryKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "esc", "q":
		a.toNormal()
	case "left", "h":
		a.store.ShiftYear(-1)
	case "right", "l":
		a.store.ShiftYear(1)
	case "tab", "v":
		a.catCursor = 0
		a.mode = modeCategorySummary
	}
	return a, nil
}

func (a *App) handleCategorySummaryKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	rows := a.store.CategoryRows()
	switch m.String() {
	case "esc", "q":
		a.toNormal()
	case "left", "h":
		a.store.ShiftYear(-1)
		a.catCursor = 0
	case "right", "l":
		a.store.ShiftYear(1)
		a.catCursor = 0
	case "up", "k":
		if a.catCursor > 0 {
			a.catCursor--
		}
	case "down", "j":
		if a.catCursor < len(rows)-1 {
			a.catCursor++
		}
	case "enter", " ":
		if len(rows) == 0 {
			return a, nil
		}
		month := rows[a.catCursor].Month
		a.store.ToggleMonth(month)
		// keep the cursor on the month header that was toggled
		for i, r := range a.store.CategoryRows() {
			if r.IsMonth && r.Month == month {
				a.catCursor = i
				break
			}
		}
	case "tab", "s":
		a.mode = modeSummary
	}
	return a, nil
}

func (a *App) enterSummary() {
	if err := a.store.EnterSummary(); err != nil {
		a.status = err.Error()
	}
}

var settingsLabels = []string{"Budget target", "Needs %", "Wants %", "Savings %"}

func (a *App) handleSettingsKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "esc":
		a.toNormal()
		return a, nil
	case "enter":
		cfg := a.cfg
		cfg.Budget.Target = a.settings.value(0)
		pcts := []*int{&cfg.Budget.NeedsPct, &cfg.Budget.WantsPct, &cfg.Budget.SavingsPct}
		for i, p := range pcts {
			n, err := strconv.Atoi(strings.TrimSpace(a.settings.value(i + 1)))
			if err != nil {
				a.status = fmt.Sprintf("invalid %s: %q", settingsLabels[i+1], a.settings.value(i+1))
				return a, nil
			}
			*p = n
		}
		if err := cfg.Validate(); err != nil {
			a.status = "invalid settings: " + err.Error()
			return a, nil
		}
		a.cfg = cfg
		a.toNormal()
		a.status = "settings updated"
		save := a.saveConfig
		return a, func() tea.Msg {
			if err := save(cfg); err != nil {
				return errMsg{err}
			}
			return statusMsg("settings saved")
		}
	}
	return a, a.settings.update(m)
}

func (a *App) pageSize() int {
	n := a.height - 8
	if n < 5 {
		n = 5
	}
	return n
}

// messages
type transactionsMsg []ledger.Transaction

type loadFailedMsg struct{ error }

type savedMsg struct{ count int }

type statusMsg string

type errMsg struct{ error }
