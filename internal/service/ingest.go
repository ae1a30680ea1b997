package service

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jask/fintrack/internal/ledger"
)

// Format names a bank export layout.
type Format string

const (
	// FormatGeneric columns: date (YYYY-MM-DD), description, signed amount,
	// optional category, optional subcategory. A leading "date" header is skipped.
	FormatGeneric Format = "generic"
	// FormatANZ columns, no header: date (D/MM/YYYY), signed amount, description.
	FormatANZ Format = "anz"
)

// ParseFormat accepts a format name in any case.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatGeneric, "":
		return FormatGeneric, nil
	case FormatANZ:
		return FormatANZ, nil
	}
	return "", fmt.Errorf("unknown import format %q (want generic or anz)", s)
}

// ParseResult holds the rows read from one export. Errors are per line and
// do not stop parsing.
type ParseResult struct {
	Candidates []ledger.Candidate
	Errors     []error
}

// IngestResult summarizes one Apply.
type IngestResult struct {
	BatchID  string
	Imported int
	Skipped  int
	Errors   []error
}

// IngestService turns bank exports into ledger transactions.
type IngestService struct {
	Duplicates DuplicateFinder
	Log        zerolog.Logger
}

// NewIngestService returns a service with the default duplicate rules.
func NewIngestService(log zerolog.Logger) *IngestService {
	return &IngestService{Duplicates: NewDuplicateFinder(), Log: log}
}

// Parse reads r as format. Negative amounts become expenses, positive ones income.
func (s *IngestService) Parse(ctx context.Context, r io.Reader, format Format) (ParseResult, error) {
	res := ParseResult{}
	csvr := csv.NewReader(bufio.NewReader(r))
	csvr.TrimLeadingSpace = true
	csvr.FieldsPerRecord = -1
	first := true
	for {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		rec, err := csvr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				err = fmt.Errorf("line %d: %w", perr.StartLine, perr.Err)
			}
			res.Errors = append(res.Errors, err)
			continue
		}
		header := first
		first = false
		line, _ := csvr.FieldPos(0)
		var c ledger.Candidate
		switch format {
		case FormatANZ:
			c, err = parseANZ(rec)
		case FormatGeneric:
			if header && strings.EqualFold(strings.TrimSpace(rec[0]), "date") {
				continue
			}
			c, err = parseGeneric(rec)
		default:
			return res, fmt.Errorf("unknown import format %q", format)
		}
		if err != nil {
			res.Errors = append(res.Errors, fmt.Errorf("line %d %w", line, err))
			continue
		}
		res.Candidates = append(res.Candidates, c)
	}
	return res, nil
}

func parseGeneric(rec []string) (ledger.Candidate, error) {
	if len(rec) < 3 {
		return ledger.Candidate{}, errors.New("expected at least 3 columns (date, description, amount)")
	}
	date, err := ledger.ParseDate(rec[0])
	if err != nil {
		return ledger.Candidate{}, fmt.Errorf("date: %w", err)
	}
	amount, typ, err := signedAmount(rec[2])
	if err != nil {
		return ledger.Candidate{}, fmt.Errorf("amount: %w", err)
	}
	c := ledger.Candidate{
		Date:        ledger.FormatDate(date),
		Description: strings.TrimSpace(rec[1]),
		Amount:      amount.String(),
		Type:        typ.String(),
	}
	if len(rec) > 3 {
		c.Category = strings.TrimSpace(rec[3])
	}
	if len(rec) > 4 {
		c.Subcategory = strings.TrimSpace(rec[4])
	}
	return c, nil
}

func parseANZ(rec []string) (ledger.Candidate, error) {
	if len(rec) < 3 {
		return ledger.Candidate{}, errors.New("expected 3 columns (date, amount, description)")
	}
	date, err := parseANZDate(rec[0])
	if err != nil {
		return ledger.Candidate{}, fmt.Errorf("date: %w", err)
	}
	amount, typ, err := signedAmount(rec[1])
	if err != nil {
		return ledger.Candidate{}, fmt.Errorf("amount: %w", err)
	}
	return ledger.Candidate{
		Date:        ledger.FormatDate(date),
		Description: strings.TrimSpace(rec[2]),
		Amount:      amount.String(),
		Type:        typ.String(),
	}, nil
}

// signedAmount strips currency noise and maps the sign to a direction.
func signedAmount(s string) (decimal.Decimal, ledger.TransactionType, error) {
	s = strings.NewReplacer(",", "", "$", "", " ", "").Replace(strings.TrimSpace(s))
	d, err := ledger.ParseDecimal(s)
	if err != nil {
		return decimal.Zero, ledger.Expense, err
	}
	if d.IsZero() {
		return decimal.Zero, ledger.Expense, errors.New("zero amount")
	}
	if d.IsNegative() {
		return d.Neg(), ledger.Expense, nil
	}
	return d, ledger.Income, nil
}

func parseANZDate(s string) (time.Time, error) {
	layout := "2/01/2006" // day/month/year (supports single-digit day)
	t, err := time.Parse(layout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, err
	}
	return ledger.DateOf(t), nil
}

// Apply adds each candidate through the store. With skipDuplicates a
// candidate matching an existing transaction is counted as skipped.
func (s *IngestService) Apply(store *ledger.Store, candidates []ledger.Candidate, skipDuplicates bool) IngestResult {
	res := IngestResult{BatchID: uuid.NewString()}
	for i, c := range candidates {
		if skipDuplicates {
			t, err := c.Transaction(store.Categories(), ledger.Transaction{})
			if err != nil {
				res.Errors = append(res.Errors, fmt.Errorf("row %d: %w", i+1, err))
				continue
			}
			if dup, ok := s.Duplicates.Find(store.Canonical(), t); ok {
				s.Log.Debug().Str("batch", res.BatchID).Str("description", t.Description).
					Str("matches", dup.Description).Msg("skipping duplicate")
				res.Skipped++
				continue
			}
		}
		if err := store.Add(c); err != nil {
			res.Errors = append(res.Errors, fmt.Errorf("row %d: %w", i+1, err))
			continue
		}
		res.Imported++
	}
	s.Log.Info().Str("batch", res.BatchID).Int("imported", res.Imported).Int("skipped", res.Skipped).
		Int("errors", len(res.Errors)).Msg("import applied")
	return res
}
