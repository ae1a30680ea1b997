package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jask/fintrack/internal/database/repository"
	"github.com/jask/fintrack/internal/ledger"
)

// Backend persists the ledger in a sqlite database.
type Backend struct {
	db   *sql.DB
	path string
}

// OpenBackend migrates and opens the database at path.
func OpenBackend(path string) (*Backend, error) {
	if err := Migrate(path); err != nil {
		return nil, &ledger.PersistenceError{Op: "migrate", Path: path, Err: err}
	}
	db, err := Open(path)
	if err != nil {
		return nil, &ledger.PersistenceError{Op: "open", Path: path, Err: err}
	}
	return &Backend{db: db, path: path}, nil
}

// DB exposes the handle for seeding.
func (b *Backend) DB() *sql.DB { return b.db }

// Close closes the database.
func (b *Backend) Close() error { return b.db.Close() }

// Load reads every transaction ordered by position.
func (b *Backend) Load(ctx context.Context) ([]ledger.Transaction, error) {
	rows, err := repository.NewTransactionRepo(b.db).List(ctx)
	if err != nil {
		return nil, &ledger.PersistenceError{Op: "load", Path: b.path, Err: err}
	}
	out := make([]ledger.Transaction, 0, len(rows))
	for _, r := range rows {
		t, perr := fromRow(r)
		if perr != nil {
			perr.Op, perr.Path, perr.Row = "load", b.path, r.Position
			return nil, perr
		}
		out = append(out, t)
	}
	return out, nil
}

// Save replaces every stored row with txs inside one transaction. Generated
// rows are skipped.
func (b *Backend) Save(ctx context.Context, txs []ledger.Transaction) error {
	err := WithTx(ctx, b.db, func(tx *sql.Tx) error {
		repo := repository.NewTransactionRepo(tx)
		if err := repo.DeleteAll(ctx); err != nil {
			return err
		}
		pos := 0
		for _, t := range txs {
			if t.Generated {
				continue
			}
			pos++
			if err := repo.Insert(ctx, toRow(pos, t)); err != nil {
				return fmt.Errorf("insert row %d: %w", pos, err)
			}
		}
		return nil
	})
	if err != nil {
		return &ledger.PersistenceError{Op: "save", Path: b.path, Err: err}
	}
	return nil
}

// Categories reads the stored reference table.
func (b *Backend) Categories(ctx context.Context) ([]ledger.CategoryInfo, error) {
	rows, err := repository.NewCategoryRepo(b.db).List(ctx)
	if err != nil {
		return nil, &ledger.PersistenceError{Op: "load categories", Path: b.path, Err: err}
	}
	out := make([]ledger.CategoryInfo, 0, len(rows))
	for _, r := range rows {
		typ, err := ledger.ParseTransactionType(r.Type)
		if err != nil {
			return nil, &ledger.PersistenceError{Op: "load categories", Path: b.path, Column: "type", Err: err}
		}
		out = append(out, ledger.CategoryInfo{Type: typ, Category: r.Category, Subcategory: r.Subcategory})
	}
	return out, nil
}

func toRow(pos int, t ledger.Transaction) repository.Transaction {
	row := repository.Transaction{
		Position:    pos,
		Date:        ledger.FormatDate(t.Date),
		Description: t.Description,
		Amount:      t.Amount.String(),
		Type:        t.Type.String(),
		Category:    t.Category,
		Subcategory: t.Subcategory,
	}
	if t.IsRecurring() {
		freq := t.Frequency.String()
		row.Frequency = &freq
		if t.HasRecurrenceEnd() {
			end := ledger.FormatDate(t.RecurrenceEnd)
			row.EndDate = &end
		}
	}
	return row
}

func fromRow(r repository.Transaction) (ledger.Transaction, *ledger.PersistenceError) {
	var t ledger.Transaction
	var err error
	if t.Date, err = ledger.ParseDate(r.Date); err != nil {
		return t, &ledger.PersistenceError{Column: "date", Err: err}
	}
	if t.Amount, err = ledger.ParseDecimal(r.Amount); err != nil {
		return t, &ledger.PersistenceError{Column: "amount", Err: err}
	}
	if t.Type, err = ledger.ParseTransactionType(r.Type); err != nil {
		return t, &ledger.PersistenceError{Column: "type", Err: err}
	}
	t.Description = r.Description
	t.Category = r.Category
	t.Subcategory = r.Subcategory
	if r.Frequency != nil {
		if t.Frequency, err = ledger.ParseFrequency(*r.Frequency); err != nil {
			return t, &ledger.PersistenceError{Column: "frequency", Err: err}
		}
	}
	if r.EndDate != nil && t.Frequency != ledger.FrequencyNone {
		if t.RecurrenceEnd, err = ledger.ParseDate(*r.EndDate); err != nil {
			return t, &ledger.PersistenceError{Column: "end_date", Err: err}
		}
	}
	return t, nil
}
