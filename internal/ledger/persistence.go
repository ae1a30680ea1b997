package ledger

import "context"

// Persistence loads and saves the canonical transaction list. Callers pass
// Store.Canonical to Save; implementations drop any generated row they are
// handed anyway.
type Persistence interface {
	Load(ctx context.Context) ([]Transaction, error)
	Save(ctx context.Context, txs []Transaction) error
}
