package database

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/jask/fintrack/internal/database/repository"
	"github.com/jask/fintrack/internal/ledger"
)

// SeedCategories stores table in an empty categories table.
// It is idempotent and safe to run on every startup.
func SeedCategories(ctx context.Context, db *sql.DB, table []ledger.CategoryInfo) error {
	catRepo := repository.NewCategoryRepo(db)
	n, err := catRepo.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	return WithTx(ctx, db, func(tx *sql.Tx) error {
		repo := repository.NewCategoryRepo(tx)
		for idx, c := range table {
			cat := repository.Category{
				ID:          CategoryID(c),
				Type:        c.Type.String(),
				Category:    c.Category,
				Subcategory: c.Subcategory,
				SortOrder:   idx,
			}
			if err := repo.Upsert(ctx, cat); err != nil {
				return err
			}
		}
		return nil
	})
}

// CategoryID is the deterministic row ID of a category entry.
func CategoryID(c ledger.CategoryInfo) string {
	key := "cat:" + c.Type.String() + ":" + c.Category + ":" + c.Subcategory
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(key)).String()
}
