package repository

import (
	"context"
	"database/sql"
)

// TransactionRepo handles transactions.
type TransactionRepo struct {
	db DBTX
}

func NewTransactionRepo(db DBTX) *TransactionRepo { return &TransactionRepo{db: db} }

func (r *TransactionRepo) Insert(ctx context.Context, t Transaction) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO transactions(
	 position, date, description, amount, type, category, subcategory, frequency, end_date, updated_at)
	VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP);
	`,
		t.Position, t.Date, t.Description, t.Amount, t.Type, t.Category, t.Subcategory, t.Frequency, t.EndDate)
	return err
}

// DeleteAll empties the table; Save rewrites the ledger wholesale.
func (r *TransactionRepo) DeleteAll(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM transactions`)
	return err
}

// List returns every row in storage order.
func (r *TransactionRepo) List(ctx context.Context) ([]Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT position, date, description, amount, type, category, subcategory, frequency, end_date FROM transactions ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row scanner) (Transaction, error) {
	var t Transaction
	var frequency, endDate sql.NullString
	if err := row.Scan(&t.Position, &t.Date, &t.Description, &t.Amount, &t.Type,
		&t.Category, &t.Subcategory, &frequency, &endDate); err != nil {
		return Transaction{}, err
	}
	if frequency.Valid {
		t.Frequency = &frequency.String
	}
	if endDate.Valid {
		t.EndDate = &endDate.String
	}
	return t, nil
}
