package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/jask/fintrack/internal/ledger"
)

func testStore(t *testing.T) *ledger.Store {
	t.Helper()
	table := ledger.NewCategoryTable([]ledger.CategoryInfo{
		{Type: ledger.Expense, Category: "Food", Subcategory: "Groceries"},
		{Type: ledger.Income, Category: "Salary"},
	})
	now := func() time.Time { return time.Date(2026, time.February, 10, 12, 0, 0, 0, time.UTC) }
	return ledger.NewStore(table, ledger.WithClock(now))
}

func TestParseANZ(t *testing.T) {
	t.Parallel()
	svc := NewIngestService(zerolog.Nop())
	data := strings.Join([]string{
		"3/02/2026,203.92,PAYMENT THANKYOU 528417",
		"2/02/2026,-20,DAN MURPHY'S/580 MELBOURN SPOTSWOOD",
		"31/02/2026,-1,BAD DATE",
		"4/02/2026,0,ZERO",
		"5/02/2026,-3",
	}, "\n")

	res, err := svc.Parse(context.Background(), strings.NewReader(data), FormatANZ)
	require.NoError(t, err)
	require.Len(t, res.Candidates, 2)
	require.Len(t, res.Errors, 3)
	require.ErrorContains(t, res.Errors[0], "line 3 date")
	require.ErrorContains(t, res.Errors[1], "line 4 amount")

	require.Equal(t, ledger.Candidate{
		Date: "2026-02-03", Description: "PAYMENT THANKYOU 528417", Amount: "203.92", Type: "Income",
	}, res.Candidates[0])
	require.Equal(t, "Expense", res.Candidates[1].Type)
	require.Equal(t, "20", res.Candidates[1].Amount)
}

func TestParseGeneric(t *testing.T) {
	t.Parallel()
	svc := NewIngestService(zerolog.Nop())
	data := "date,description,amount,category,subcategory\n" +
		"2026-02-01,WOOLWORTHS 123,\"-1,045.67\",Food,Groceries\n" +
		"2026-02-03,SALARY,+2500.00\n" +
		"02/03/2026,WRONG DATE,1\n"

	res, err := svc.Parse(context.Background(), strings.NewReader(data), FormatGeneric)
	require.NoError(t, err)
	require.Len(t, res.Candidates, 2)
	require.Len(t, res.Errors, 1)
	require.ErrorContains(t, res.Errors[0], "line 4")

	c := res.Candidates[0]
	require.Equal(t, "1045.67", c.Amount)
	require.Equal(t, "Expense", c.Type)
	require.Equal(t, "Food", c.Category)
	require.Equal(t, "Groceries", c.Subcategory)
	require.Equal(t, "Income", res.Candidates[1].Type)
	require.Equal(t, "2500", res.Candidates[1].Amount)
}

func TestParseReportsPhysicalLines(t *testing.T) {
	t.Parallel()
	svc := NewIngestService(zerolog.Nop())
	data := "date,description,amount\n" +
		"2026-02-01,\"TRANSFER\nREF 991\",-5\n" +
		"2026-02-02,HUGE,1e50000000\n" +
		"2026-02-03,\"OPEN\"QUOTE,1\n" +
		"2026-02-04,FINE,-2\n"

	res, err := svc.Parse(context.Background(), strings.NewReader(data), FormatGeneric)
	require.NoError(t, err)
	require.Len(t, res.Candidates, 2)
	require.Equal(t, "TRANSFER\nREF 991", res.Candidates[0].Description)
	require.Len(t, res.Errors, 2)
	require.ErrorContains(t, res.Errors[0], "line 4 amount")
	require.ErrorIs(t, res.Errors[0], ledger.ErrNotANumber)
	require.ErrorContains(t, res.Errors[1], "line 5:")
}

func TestParseFormat(t *testing.T) {
	t.Parallel()
	f, err := ParseFormat("ANZ")
	require.NoError(t, err)
	require.Equal(t, FormatANZ, f)
	f, err = ParseFormat("")
	require.NoError(t, err)
	require.Equal(t, FormatGeneric, f)
	_, err = ParseFormat("ofx")
	require.Error(t, err)
}

func TestApplyAddsThroughStore(t *testing.T) {
	t.Parallel()
	store := testStore(t)
	svc := NewIngestService(zerolog.Nop())
	candidates := []ledger.Candidate{
		{Date: "2026-02-01", Description: "WOOLWORTHS", Amount: "45.67", Type: "Expense", Category: "Food", Subcategory: "Groceries"},
		{Date: "2026-02-01", Description: "MYSTERY", Amount: "5", Type: "Expense", Category: "Travel"},
		{Date: "2026-02-03", Description: "SALARY", Amount: "2500", Type: "Income"},
	}

	res := svc.Apply(store, candidates, false)
	require.NotEmpty(t, res.BatchID)
	require.Equal(t, 2, res.Imported)
	require.Zero(t, res.Skipped)
	require.Len(t, res.Errors, 1)
	require.ErrorContains(t, res.Errors[0], "row 2")
	require.Equal(t, 2, store.Len())
}

func TestApplySkipsDuplicates(t *testing.T) {
	t.Parallel()
	store := testStore(t)
	svc := NewIngestService(zerolog.Nop())
	first := []ledger.Candidate{
		{Date: "2026-02-01", Description: "WOOLWORTHS 123 MELBOURNE", Amount: "45.67", Type: "Expense"},
	}
	require.Equal(t, 1, svc.Apply(store, first, true).Imported)

	again := []ledger.Candidate{
		{Date: "2026-02-03", Description: "Woolworths 123 Melbourne", Amount: "45.67", Type: "Expense"},
		{Date: "2026-02-03", Description: "WOOLWORTHS 123 MELBOURNE", Amount: "45.68", Type: "Expense"},
		{Date: "2026-02-09", Description: "WOOLWORTHS 123 MELBOURNE", Amount: "45.67", Type: "Expense"},
	}
	res := svc.Apply(store, again, true)
	require.Equal(t, 1, res.Skipped)
	require.Equal(t, 2, res.Imported)
	require.Equal(t, 3, store.Len())

	// Without the flag everything goes in.
	res = svc.Apply(store, first, false)
	require.Equal(t, 1, res.Imported)
	require.Equal(t, 4, store.Len())
}
