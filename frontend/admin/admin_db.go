package admin

import (
	"context"

	"github.com/uptrace/bun"

	"partelog/infrastructure/sqlite"
	"partelog/models"
)

func loadCompany(ctx context.Context, db *sqlite.DB, companyID int64) (models.Company, error) {
	var company models.Company
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewSelect().
			Model(&company).
			Where("id = ?", companyID).
			Limit(1).
			Scan(ctx)
	})
	if err != nil {
		return models.Company{}, err
	}
	return company, nil
}
