package storage

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jask/fintrack/internal/ledger"
)

// Header is the column layout written by Save.
var Header = []string{"date", "description", "amount", "type", "category", "subcategory", "recurring", "frequency", "end_date"}

// legacyColumns is the minimum width accepted on load.
const legacyColumns = 6

// CSVFile persists the ledger as a single CSV file.
type CSVFile struct {
	path string
}

// NewCSVFile returns a backend for path.
func NewCSVFile(path string) *CSVFile {
	return &CSVFile{path: path}
}

// Path returns the file location.
func (f *CSVFile) Path() string { return f.path }

// Load reads every row. A missing file is an empty ledger. Any malformed
// row fails the whole load.
func (f *CSVFile) Load(ctx context.Context) ([]ledger.Transaction, error) {
	file, err := os.Open(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, &ledger.PersistenceError{Op: "load", Path: f.path, Err: err}
	}
	defer file.Close()

	txs, err := Decode(ctx, file)
	if err != nil {
		var perr *ledger.PersistenceError
		if errors.As(err, &perr) {
			perr.Path = f.path
			return nil, perr
		}
		return nil, &ledger.PersistenceError{Op: "load", Path: f.path, Err: err}
	}
	return txs, nil
}

// Save writes txs, skipping generated rows, to a temp file and renames it
// over the ledger.
func (f *CSVFile) Save(ctx context.Context, txs []ledger.Transaction) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return &ledger.PersistenceError{Op: "save", Path: f.path, Err: err}
	}
	tmp := f.path + ".tmp"
	out, err := os.Create(tmp)
	if err != nil {
		return &ledger.PersistenceError{Op: "save", Path: f.path, Err: err}
	}
	if err := Encode(ctx, out, txs); err != nil {
		_ = out.Close()
		_ = os.Remove(tmp)
		return &ledger.PersistenceError{Op: "save", Path: f.path, Err: err}
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(tmp)
		return &ledger.PersistenceError{Op: "save", Path: f.path, Err: err}
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return &ledger.PersistenceError{Op: "save", Path: f.path, Err: err}
	}
	return nil
}

// Encode writes the header and one row per non-generated transaction.
func Encode(ctx context.Context, w io.Writer, txs []ledger.Transaction) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, t := range txs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if t.Generated {
			continue
		}
		if err := cw.Write(encodeRow(t)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func encodeRow(t ledger.Transaction) []string {
	return []string{
		ledger.FormatDate(t.Date),
		t.Description,
		t.Amount.String(),
		t.Type.String(),
		t.Category,
		t.Subcategory,
		strconv.FormatBool(t.IsRecurring()),
		t.Frequency.String(),
		ledger.FormatDate(t.RecurrenceEnd),
	}
}

// Decode parses a ledger CSV. Errors are *ledger.PersistenceError carrying
// the 1-based row (the header is row 1) and the column name.
func Decode(ctx context.Context, r io.Reader) ([]ledger.Transaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, &ledger.PersistenceError{Op: "load", Row: 1, Err: err}
	}
	if err := checkHeader(header); err != nil {
		return nil, &ledger.PersistenceError{Op: "load", Row: 1, Err: err}
	}

	var out []ledger.Transaction
	row := 1
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		row++
		if err != nil {
			return nil, &ledger.PersistenceError{Op: "load", Row: row, Err: err}
		}
		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			continue
		}
		t, perr := decodeRow(rec)
		if perr != nil {
			perr.Op, perr.Row = "load", row
			return nil, perr
		}
		out = append(out, t)
	}
	return out, nil
}

func checkHeader(header []string) error {
	if len(header) < legacyColumns {
		return fmt.Errorf("header has %d columns, want at least %d", len(header), legacyColumns)
	}
	for i, name := range header {
		if i >= len(Header) {
			break
		}
		if !strings.EqualFold(strings.TrimSpace(name), Header[i]) {
			return fmt.Errorf("column %d is %q, want %q", i+1, name, Header[i])
		}
	}
	return nil
}

func decodeRow(rec []string) (ledger.Transaction, *ledger.PersistenceError) {
	if len(rec) < legacyColumns {
		return ledger.Transaction{}, &ledger.PersistenceError{Err: fmt.Errorf("%d columns, want at least %d", len(rec), legacyColumns)}
	}
	field := func(i int) string {
		if i < len(rec) {
			return strings.TrimSpace(rec[i])
		}
		return ""
	}
	colErr := func(i int, err error) *ledger.PersistenceError {
		return &ledger.PersistenceError{Column: Header[i], Err: err}
	}

	var t ledger.Transaction
	var err error
	if t.Date, err = ledger.ParseDate(field(0)); err != nil {
		return t, colErr(0, err)
	}
	t.Description = field(1)
	if t.Amount, err = ledger.ParseDecimal(field(2)); err != nil {
		return t, colErr(2, err)
	}
	if !t.Amount.IsPositive() {
		return t, colErr(2, fmt.Errorf("amount %s must be greater than zero", t.Amount))
	}
	if t.Type, err = ledger.ParseTransactionType(field(3)); err != nil {
		return t, colErr(3, err)
	}
	t.Category = field(4)
	t.Subcategory = field(5)

	recurring := false
	if s := field(6); s != "" {
		if recurring, err = strconv.ParseBool(s); err != nil {
			return t, colErr(6, err)
		}
	}
	if !recurring {
		return t, nil
	}
	if t.Frequency, err = ledger.ParseFrequency(field(7)); err != nil {
		return t, colErr(7, err)
	}
	if t.Frequency == ledger.FrequencyNone {
		return t, colErr(7, errors.New("recurring row without a frequency"))
	}
	if s := field(8); s != "" {
		if t.RecurrenceEnd, err = ledger.ParseDate(s); err != nil {
			return t, colErr(8, err)
		}
	}
	return t, nil
}
