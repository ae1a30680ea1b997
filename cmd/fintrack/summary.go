package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/jask/fintrack/internal/ledger"
)

var summaryYear int

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print the monthly income, expense and net of a year",
	Args:  cobra.NoArgs,
	RunE:  runSummary,
}

func init() {
	summaryCmd.Flags().IntVar(&summaryYear, "year", 0, "Year to summarize (default: the current year, or the latest with data)")
}

func runSummary(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	e, err := setup(ctx)
	if err != nil {
		return err
	}
	defer e.close()
	if err := e.loadInto(ctx); err != nil {
		return err
	}

	if err := e.store.EnterSummary(); errors.Is(err, ledger.ErrEmptyStore) {
		fmt.Fprintln(cmd.OutOrStdout(), err)
		return nil
	}
	year, _ := e.store.SummaryYear()
	if summaryYear != 0 {
		year = summaryYear
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderYearTable(e.store.Aggregates(), year, e.cfg.UI.CurrencySymbol))
	return nil
}

func renderYearTable(agg ledger.Aggregates, year int, symbol string) string {
	money := func(d decimal.Decimal) string { return symbol + d.StringFixed(2) }
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Month", "Income", "Expense", "Net").
		StyleFunc(func(row, col int) lipgloss.Style {
			s := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				return s.Bold(true)
			}
			if col > 0 {
				s = s.Align(lipgloss.Right)
			}
			return s
		})
	for m := time.January; m <= time.December; m++ {
		s := agg.Month(ledger.MonthKey{Year: year, Month: m})
		t.Row(m.String(), money(s.Income), money(s.Expense), money(s.Net()))
	}
	total := agg.Year(year)
	t.Row(fmt.Sprintf("Total %d", year), money(total.Income), money(total.Expense), money(total.Net()))
	return t.Render()
}
