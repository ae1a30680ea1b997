package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	tslc "github.com/NimbleMarkets/ntcharts/linechart/timeserieslinechart"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/jask/fintrack/internal/ledger"
)

const (
	chartHeight   = 10
	trendHeight   = 8
	amountColumn  = 14
	summaryIndent = "  "
)

func (a *App) renderSummary() string {
	year, ok := a.store.SummaryYear()
	if !ok {
		return mutedStyle.Render("no transactions to summarize")
	}
	agg := a.store.Aggregates()

	lines := []string{titleStyle.Render(fmt.Sprintf("Summary %d", year))}
	lines = append(lines, headerStyle.Render(summaryIndent+padRight("Month", 10)+
		padLeft("Income", amountColumn)+padLeft("Expense", amountColumn)+padLeft("Net", amountColumn)))
	for m := time.January; m <= time.December; m++ {
		s := agg.Month(ledger.MonthKey{Year: year, Month: m})
		lines = append(lines, summaryIndent+padRight(m.String()[:3], 10)+a.summaryCells(s))
	}
	total := agg.Year(year)
	lines = append(lines, borderStyle.Render(summaryIndent+strings.Repeat("─", 10+3*amountColumn)))
	lines = append(lines, summaryIndent+padRight("Total", 10)+a.summaryCells(total))

	body := strings.Join(lines, "\n")
	charts := lipgloss.JoinVertical(lipgloss.Left,
		headerStyle.Render("Net per month"),
		renderNetChart(agg, year, a.chartWidth()),
		headerStyle.Render("Running balance"),
		renderBalanceTrend(a.store.Visible(), year, a.chartWidth()),
	)
	return lipgloss.JoinVertical(lipgloss.Left, body, "", charts, "", a.renderBudget(total))
}

func (a *App) summaryCells(s ledger.Summary) string {
	if s.Income.IsZero() && s.Expense.IsZero() {
		return mutedStyle.Render(padLeft("-", amountColumn) + padLeft("-", amountColumn) + padLeft("-", amountColumn))
	}
	net := s.Net()
	netCell := padLeft(a.money(net.Abs()), amountColumn)
	if net.IsNegative() {
		netCell = expenseStyle.Render(padLeft("-"+a.money(net.Abs()), amountColumn))
	} else {
		netCell = incomeStyle.Render(netCell)
	}
	return incomeStyle.Render(padLeft(a.money(s.Income), amountColumn)) +
		expenseStyle.Render(padLeft(a.money(s.Expense), amountColumn)) + netCell
}

func (a *App) chartWidth() int {
	w := a.width - 4
	if w < 24 {
		w = 24
	}
	if w > 96 {
		w = 96
	}
	return w
}

// renderNetChart draws |net| per month, colored by sign.
func renderNetChart(agg ledger.Aggregates, year, width int) string {
	data := make([]barchart.BarData, 0, 12)
	for m := time.January; m <= time.December; m++ {
		net := agg.Month(ledger.MonthKey{Year: year, Month: m}).Net()
		style := incomeStyle
		if net.IsNegative() {
			style = expenseStyle
		}
		data = append(data, barchart.BarData{
			Label: m.String()[:1],
			Values: []barchart.BarValue{
				{Name: m.String(), Value: net.Abs().InexactFloat64(), Style: style},
			},
		})
	}
	bc := barchart.New(width, chartHeight)
	bc.PushAll(data)
	bc.Draw()
	return bc.View()
}

// renderBalanceTrend plots the cumulative net of year day by day.
func renderBalanceTrend(rows []ledger.Transaction, year, width int) string {
	daily := map[time.Time]decimal.Decimal{}
	for _, t := range rows {
		if t.Date.Year() != year {
			continue
		}
		d := ledger.DateOf(t.Date)
		daily[d] = daily[d].Add(t.Signed())
	}
	if len(daily) == 0 {
		return mutedStyle.Render("no data")
	}
	start := ledger.Date(year, time.January, 1)
	end := ledger.Date(year, time.December, 31)
	var (
		balance    decimal.Decimal
		points     []tslc.TimePoint
		minY, maxY float64
	)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		delta, ok := daily[d]
		if !ok {
			continue
		}
		balance = balance.Add(delta)
		v := balance.InexactFloat64()
		if v < minY {
			minY = v
		}
		if v > maxY {
			maxY = v
		}
		points = append(points, tslc.TimePoint{Time: d, Value: v})
	}
	if minY == maxY {
		maxY = minY + 1
	}

	chart := tslc.New(width, trendHeight)
	chart.SetStyle(incomeStyle)
	chart.AxisStyle = borderStyle
	chart.LabelStyle = mutedStyle
	chart.SetTimeRange(start, end)
	chart.SetViewTimeRange(start, end)
	chart.SetYRange(minY, maxY)
	chart.SetViewYRange(minY, maxY)
	for _, p := range points {
		chart.Push(p)
	}
	chart.DrawBraille()
	return chart.View()
}

// renderBudget compares the year's expense to the budget target and splits
// the year's income by the spending goals.
func (a *App) renderBudget(year ledger.Summary) string {
	lines := []string{headerStyle.Render("Budget")}
	target, err := a.cfg.Budget.TargetAmount()
	switch {
	case err != nil:
		lines = append(lines, warnStyle.Render("budget target: "+err.Error()))
	case target.IsPositive():
		left := target.Sub(year.Expense)
		line := fmt.Sprintf("target %s  spent %s  ", a.money(target), a.money(year.Expense))
		if left.IsNegative() {
			line += expenseStyle.Render("over by " + a.money(left.Abs()))
		} else {
			line += incomeStyle.Render(a.money(left) + " left")
		}
		lines = append(lines, line)
	default:
		lines = append(lines, mutedStyle.Render("no budget target set (p to edit)"))
	}

	b := a.cfg.Budget
	goals := []struct {
		name string
		pct  int
	}{{"needs", b.NeedsPct}, {"wants", b.WantsPct}, {"savings", b.SavingsPct}}
	parts := make([]string, 0, len(goals))
	for _, g := range goals {
		share := year.Income.Mul(decimal.NewFromInt(int64(g.pct))).Div(decimal.NewFromInt(100))
		parts = append(parts, fmt.Sprintf("%s %d%% %s", g.name, g.pct, a.money(share)))
	}
	lines = append(lines, strings.Join(parts, "   "))
	return strings.Join(lines, "\n")
}

func (a *App) renderCategorySummary() string {
	year, ok := a.store.SummaryYear()
	if !ok {
		return mutedStyle.Render("no transactions to summarize")
	}
	rows := a.store.CategoryRows()
	lines := []string{
		titleStyle.Render(fmt.Sprintf("Categories %d", year)),
		headerStyle.Render(summaryIndent + padRight("Month / Category", 34) +
			padLeft("Income", amountColumn) + padLeft("Expense", amountColumn) + padLeft("Net", amountColumn)),
	}
	for i, r := range rows {
		var label string
		if r.IsMonth {
			marker := "▸ "
			if r.Expanded {
				marker = "▾ "
			}
			label = marker + r.Month.Month.String() + " " + fmt.Sprint(r.Month.Year)
		} else {
			label = "    " + r.Category
			if r.Subcategory != "" {
				label += " / " + r.Subcategory
			}
		}
		line := padRight(truncate(label, 34), 34) + a.summaryCells(r.Summary)
		if i == a.catCursor {
			lines = append(lines, selectedStyle.Render("> "+line))
			continue
		}
		lines = append(lines, summaryIndent+line)
	}
	return strings.Join(lines, "\n")
}
