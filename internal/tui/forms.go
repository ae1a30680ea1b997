package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/fintrack/internal/ledger"
)

const (
	fieldDate = iota
	fieldDescription
	fieldAmount
	fieldType
	fieldCategory
	fieldSubcategory
)

var txLabels = []string{"Date", "Description", "Amount", "Type", "Category", "Subcategory"}

// txForm is the add/edit transaction modal.
type txForm struct {
	fields  *fieldForm
	editing bool
	target  ledger.ViewIndex
	// recurrence is nil until the recurring settings are opened.
	recurrence *ledger.RecurrenceInput
	recurring  *fieldForm
}

func newTxForm(c ledger.Candidate) *txForm {
	return &txForm{
		fields: newFieldForm(txLabels, []string{c.Date, c.Description, c.Amount, c.Type, c.Category, c.Subcategory}),
	}
}

func (f *txForm) candidate() ledger.Candidate {
	return ledger.Candidate{
		Date:        f.fields.value(fieldDate),
		Description: f.fields.value(fieldDescription),
		Amount:      f.fields.value(fieldAmount),
		Type:        f.fields.value(fieldType),
		Category:    f.fields.value(fieldCategory),
		Subcategory: f.fields.value(fieldSubcategory),
		Recurrence:  f.recurrence,
	}
}

// txType reads the type field, defaulting to Expense.
func (f *txForm) txType() ledger.TransactionType {
	typ, err := ledger.ParseTransactionType(f.fields.value(fieldType))
	if err != nil {
		return ledger.Expense
	}
	return typ
}

func (a *App) openAddForm() tea.Cmd {
	if a.readOnly {
		a.status = "read-only"
		return nil
	}
	a.form = newTxForm(ledger.Candidate{
		Date: ledger.FormatDate(a.now()),
		Type: ledger.Expense.String(),
	})
	a.mode = modeAdding
	return nil
}

func (a *App) openEditForm() tea.Cmd {
	if a.readOnly {
		a.status = "read-only"
		return nil
	}
	i, ok := a.store.Selected()
	if !ok {
		a.status = "nothing selected"
		return nil
	}
	t, err := a.store.At(i)
	if err != nil {
		a.status = "error: " + err.Error()
		return nil
	}
	c := ledger.CandidateOf(t)
	a.form = newTxForm(c)
	a.form.editing = true
	a.form.target = i
	a.mode = modeEditing
	if t.Generated {
		a.status = "editing the recurring origin of " + t.Description
	}
	return nil
}

func (a *App) handleFormKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := a.form
	switch m.String() {
	case "esc":
		a.toNormal()
		return a, nil
	case "ctrl+r":
		a.openRecurring()
		return a, nil
	case "enter":
		switch f.fields.focus {
		case fieldCategory:
			a.openCategoryPicker()
			return a, nil
		case fieldSubcategory:
			a.openSubcategoryPicker()
			return a, nil
		}
		return a, a.submitForm()
	}
	return a, f.fields.update(m)
}

func (a *App) submitForm() tea.Cmd {
	c := a.form.candidate()
	if a.form.editing {
		if err := a.store.Edit(a.form.target, c); err != nil {
			a.status = "invalid: " + err.Error()
			return nil
		}
		a.status = "updated " + c.Description
		a.toNormal()
		return a.saveCmd()
	}

	existing := a.store.Canonical()
	if err := a.store.Add(c); err != nil {
		a.status = "invalid: " + err.Error()
		return nil
	}
	a.status = "added " + c.Description
	if t, err := c.Transaction(a.store.Categories(), ledger.Transaction{}); err == nil {
		if dup, ok := a.dupes.Find(existing, t); ok {
			a.status = fmt.Sprintf("added; looks like a duplicate of %q on %s", dup.Description, ledger.FormatDate(dup.Date))
		}
	}
	a.toNormal()
	return a.saveCmd()
}

// picker is a single-choice list over the category table.
type picker struct {
	options []string
	cursor  int
}

func (p *picker) move(d int) {
	p.cursor += d
	if p.cursor < 0 {
		p.cursor = 0
	}
	if p.cursor >= len(p.options) {
		p.cursor = len(p.options) - 1
	}
}

const (
	noCategory    = "(uncategorized)"
	noSubcategory = "(none)"
)

func newPicker(blank string, options []string, current string) *picker {
	p := &picker{options: append([]string{blank}, options...)}
	for i, o := range p.options {
		if i > 0 && strings.EqualFold(o, current) {
			p.cursor = i
		}
	}
	return p
}

func (a *App) openCategoryPicker() {
	f := a.form
	a.picker = newPicker(noCategory, a.store.Categories().Categories(f.txType()), f.fields.value(fieldCategory))
	a.mode = modeSelectingCategory
}

func (a *App) openSubcategoryPicker() {
	f := a.form
	subs := a.store.Categories().Subcategories(f.txType(), f.fields.value(fieldCategory))
	if len(subs) == 0 {
		a.status = "no subcategories for " + ledger.NormalizeCategory(f.fields.value(fieldCategory))
		return
	}
	a.picker = newPicker(noSubcategory, subs, f.fields.value(fieldSubcategory))
	a.mode = modeSelectingSubcategory
}

// formMode is the mode the form was opened in.
func (a *App) formMode() mode {
	if a.form.editing {
		return modeEditing
	}
	return modeAdding
}

func (a *App) handlePickerKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	p := a.picker
	switch m.String() {
	case "up", "k":
		p.move(-1)
	case "down", "j":
		p.move(1)
	case "esc":
		a.picker = nil
		a.mode = a.formMode()
	case "enter":
		choice := ""
		if p.cursor > 0 {
			choice = p.options[p.cursor]
		}
		f := a.form
		if a.mode == modeSelectingCategory {
			if !strings.EqualFold(choice, f.fields.value(fieldCategory)) {
				f.fields.set(fieldSubcategory, "")
			}
			f.fields.set(fieldCategory, choice)
		} else {
			f.fields.set(fieldSubcategory, choice)
		}
		a.picker = nil
		a.mode = a.formMode()
	}
	return a, nil
}

var recurringLabels = []string{"Frequency", "End date"}

func (a *App) openRecurring() {
	f := a.form
	freq, end := "", ""
	if f.recurrence != nil {
		freq, end = f.recurrence.Frequency, f.recurrence.EndDate
	} else if f.editing {
		if t, err := a.store.At(f.target); err == nil {
			freq, end = t.Frequency.String(), ledger.FormatDate(t.RecurrenceEnd)
		}
	}
	f.recurring = newFieldForm(recurringLabels, []string{freq, end})
	a.mode = modeRecurringSettings
}

func (a *App) handleRecurringKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := a.form
	switch m.String() {
	case "esc":
		f.recurring = nil
		a.mode = a.formMode()
		return a, nil
	case "enter":
		in := &ledger.RecurrenceInput{
			Frequency: f.recurring.value(0),
			EndDate:   f.recurring.value(1),
		}
		if _, err := ledger.ParseFrequency(in.Frequency); err != nil {
			a.status = "invalid: " + err.Error()
			return a, nil
		}
		if in.EndDate != "" {
			if _, err := ledger.ParseDate(in.EndDate); err != nil {
				a.status = fmt.Sprintf("invalid end date %q", in.EndDate)
				return a, nil
			}
		}
		f.recurrence = in
		f.recurring = nil
		a.mode = a.formMode()
		return a, nil
	case "left", "right":
		if f.recurring.focus == 0 {
			f.recurring.set(0, cycleFrequency(f.recurring.value(0), m.String() == "right"))
			return a, nil
		}
	}
	return a, f.recurring.update(m)
}

// cycleFrequency steps through "" and the recurring frequencies.
func cycleFrequency(current string, forward bool) string {
	names := []string{""}
	for _, f := range ledger.Frequencies {
		names = append(names, f.String())
	}
	i := 0
	for j, n := range names {
		if strings.EqualFold(n, current) {
			i = j
		}
	}
	if forward {
		i = (i + 1) % len(names)
	} else {
		i = (i - 1 + len(names)) % len(names)
	}
	return names[i]
}
