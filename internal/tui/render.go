package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/shopspring/decimal"

	"github.com/jask/fintrack/internal/ledger"
)

func (a *App) View() string {
	var body string
	switch a.mode {
	case modeSummary:
		body = a.renderSummary()
	case modeCategorySummary:
		body = a.renderCategorySummary()
	default:
		body = a.renderTransactions()
	}
	if overlay := a.renderOverlay(); overlay != "" {
		body = lipgloss.JoinVertical(lipgloss.Left, body, overlay)
	}
	status := ""
	if a.status != "" {
		style := mutedStyle
		if strings.HasPrefix(a.status, "error") || strings.HasPrefix(a.status, "invalid") || strings.HasPrefix(a.status, "warning") {
			style = warnStyle
		}
		status = style.Render(a.status)
	}
	return lipgloss.JoinVertical(lipgloss.Left, a.renderHeader(), body, status, renderHelp(a.bindings()))
}

func (a *App) renderHeader() string {
	title := titleStyle.Render("fintrack")
	info := []string{fmt.Sprintf("%d rows", a.store.View().Len())}
	if a.store.Filter() != nil {
		info = append(info, "filtered")
	}
	s := a.store.Sort()
	info = append(info, fmt.Sprintf("sort %s %s", s.Column, s.Order))
	if a.readOnly {
		info = append(info, "read-only")
	}
	return title + "  " + mutedStyle.Render(strings.Join(info, " · "))
}

func (a *App) renderOverlay() string {
	switch a.mode {
	case modeAdding, modeEditing:
		return a.renderForm()
	case modeSelectingCategory, modeSelectingSubcategory:
		return lipgloss.JoinVertical(lipgloss.Left, a.renderForm(), a.renderPicker())
	case modeRecurringSettings:
		return modalStyle.Render(headerStyle.Render("Recurrence") + "\n" + a.form.recurring.view() +
			"\n" + mutedStyle.Render("frequency: blank, Daily, Weekly, BiWeekly, Monthly, Yearly (←/→ cycles)"))
	case modeConfirmDelete:
		t, err := a.store.At(a.pendingDelete)
		if err != nil {
			return ""
		}
		msg := fmt.Sprintf("Delete %s %s %s?", ledger.FormatDate(t.Date), t.Description, a.money(t.Amount))
		if t.Frequency != ledger.FrequencyNone {
			msg += "\n" + warnStyle.Render("This removes the recurring origin and every occurrence.")
		}
		return modalStyle.Render(msg + "\n" + mutedStyle.Render("y/enter confirm · n/esc cancel"))
	case modeFiltering:
		return modalStyle.Render(a.query.View())
	case modeAdvancedFiltering:
		return modalStyle.Render(headerStyle.Render("Filter") + "\n" + a.advanced.view() +
			"\n" + mutedStyle.Render("blank fields match everything · type: Income, Expense or blank"))
	case modeSettings:
		return modalStyle.Render(headerStyle.Render("Budget settings") + "\n" + a.settings.view())
	}
	return ""
}

func (a *App) renderForm() string {
	title := "Add transaction"
	if a.form.editing {
		title = "Edit transaction"
	}
	lines := []string{headerStyle.Render(title), a.form.fields.view()}
	if r := a.form.recurrence; r != nil && r.Frequency != "" {
		rec := "repeats " + r.Frequency
		if r.EndDate != "" {
			rec += " until " + r.EndDate
		}
		lines = append(lines, mutedStyle.Render(rec))
	}
	return modalStyle.Render(strings.Join(lines, "\n"))
}

func (a *App) renderPicker() string {
	p := a.picker
	lines := make([]string, 0, len(p.options))
	for i, o := range p.options {
		if i == p.cursor {
			lines = append(lines, selectedStyle.Render("> "+o))
			continue
		}
		lines = append(lines, "  "+o)
	}
	return modalStyle.Render(strings.Join(lines, "\n"))
}

// renderTransactions draws the visible window of the view around the selection.
func (a *App) renderTransactions() string {
	rows := a.store.Visible()
	if len(rows) == 0 {
		if a.store.Filter() != nil {
			return mutedStyle.Render("no transactions match the filter (c clears it)")
		}
		return mutedStyle.Render("no transactions yet (a adds one)")
	}
	cursor := -1
	if i, ok := a.store.Selected(); ok {
		cursor = int(i)
	}
	visible := a.pageSize()
	top := 0
	if cursor >= visible {
		top = cursor - visible + 1
	}

	dateW, amountW, typeW, catW, subW := 12, 12, 8, 16, 16
	descW := a.width - dateW - amountW - typeW - catW - subW - 14
	if descW < 10 {
		descW = 10
	}
	header := "  " + padRight("Date", dateW) + "  " + padRight("Description", descW) + "  " +
		padLeft("Amount", amountW) + "  " + padRight("Type", typeW) + "  " +
		padRight("Category", catW) + "  " + padRight("Subcategory", subW)
	lines := []string{headerStyle.Render(header)}

	end := top + visible
	if end > len(rows) {
		end = len(rows)
	}
	for i := top; i < end; i++ {
		t := rows[i]
		desc := t.Description
		if t.Generated {
			desc = "↻ " + desc
		} else if t.IsRecurring() {
			desc = "● " + desc
		}
		amount := padLeft(a.money(t.Amount), amountW)
		if t.Type == ledger.Income {
			amount = incomeStyle.Render(amount)
		} else {
			amount = expenseStyle.Render(amount)
		}
		line := padRight(a.date(t), dateW) + "  " + padRight(truncate(desc, descW), descW) + "  " +
			amount + "  " + padRight(t.Type.String(), typeW) + "  " +
			padRight(truncate(ledger.NormalizeCategory(t.Category), catW), catW) + "  " +
			padRight(truncate(t.Subcategory, subW), subW)
		if i == cursor {
			lines = append(lines, selectedStyle.Render("> "+line))
			continue
		}
		lines = append(lines, "  "+line)
	}

	total := a.store.Aggregates().Total()
	lines = append(lines, borderStyle.Render(fmt.Sprintf("── showing %d-%d of %d ──", top+1, end, len(rows))))
	lines = append(lines, fmt.Sprintf("income %s   expense %s   balance %s",
		incomeStyle.Render(a.money(total.Income)),
		expenseStyle.Render(a.money(total.Expense)),
		a.signedMoney(total.Net())))
	return strings.Join(lines, "\n")
}

func (a *App) date(t ledger.Transaction) string {
	layout := a.cfg.UI.DateFormat
	if layout == "" {
		return ledger.FormatDate(t.Date)
	}
	return t.Date.Format(layout)
}

func (a *App) money(d decimal.Decimal) string {
	return a.cfg.UI.CurrencySymbol + d.StringFixed(2)
}

func (a *App) signedMoney(d decimal.Decimal) string {
	if d.IsNegative() {
		return expenseStyle.Render("-" + a.money(d.Abs()))
	}
	return incomeStyle.Render(a.money(d))
}

func (a *App) bindings() []key.Binding {
	switch a.mode {
	case modeAdding, modeEditing:
		return formKeys
	case modeSelectingCategory, modeSelectingSubcategory:
		return pickerKeys
	case modeSummary, modeCategorySummary:
		return summaryKeys
	case modeConfirmDelete:
		return nil
	case modeFiltering, modeAdvancedFiltering, modeSettings, modeRecurringSettings:
		return modalKeys
	}
	return normalKeys
}

var (
	normalKeys = []key.Binding{
		key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		key.NewBinding(key.WithKeys("e", "enter"), key.WithHelp("e", "edit")),
		key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "filter")),
		key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear")),
		key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6"), key.WithHelp("1-6", "sort")),
		key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "summary")),
		key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "categories")),
		key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "settings")),
		key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
	}
	formKeys = []key.Binding{
		key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next")),
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save / pick")),
		key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "recurrence")),
		key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
	pickerKeys = []key.Binding{
		key.NewBinding(key.WithKeys("up", "down"), key.WithHelp("↑/↓", "move")),
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "choose")),
		key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	}
	summaryKeys = []key.Binding{
		key.NewBinding(key.WithKeys("left", "right"), key.WithHelp("←/→", "year")),
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "expand")),
		key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch")),
		key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	}
	modalKeys = []key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "apply")),
		key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
)

func renderHelp(bindings []key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return mutedStyle.Render(strings.Join(parts, " · "))
}

func truncate(s string, width int) string {
	return ansi.Truncate(s, width, "…")
}

func padRight(s string, width int) string {
	if w := ansi.StringWidth(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

func padLeft(s string, width int) string {
	if w := ansi.StringWidth(s); w < width {
		return strings.Repeat(" ", width-w) + s
	}
	return s
}
