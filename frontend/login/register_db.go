package login

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/uptrace/bun"

	"partelog/infrastructure/apperr"
	"partelog/infrastructure/argon"
	"partelog/infrastructure/sqlite"
	"partelog/models"
)

// ErrBadCompanyKey means the company exists but the enrollment key does not
// match.
var ErrBadCompanyKey = errors.New("company key mismatch")

// usernameTaken checks the requested name against existing users. With
// globalUsernames the check spans every company; otherwise only the target
// one. The UNIQUE(company_id, username) constraint backs the per-company
// case either way.
func usernameTaken(ctx context.Context, tx bun.Tx, companyID int64, username string, globalUsernames bool) (bool, error) {
	q := tx.NewSelect().
		Model((*models.User)(nil)).
		Where("LOWER(username) = ?", strings.ToLower(strings.TrimSpace(username)))
	if !globalUsernames {
		q = q.Where("company_id = ?", companyID)
	}
	count, err := q.Count(ctx)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// RegisterCompanyAdmin creates a company plus its first admin account in one
// transaction and returns the minted enrollment key.
func RegisterCompanyAdmin(ctx context.Context, db *sqlite.DB, companyName, username, password string, globalUsernames bool) (string, error) {
	companyName = strings.TrimSpace(companyName)
	username = strings.TrimSpace(username)
	if companyName == "" || username == "" {
		return "", apperr.Validation("empresa y usuario son obligatorios")
	}
	if err := ValidatePasswordPolicy(password); err != nil {
		return "", apperr.Validation(err.Error())
	}
	hash, err := argon.CreateHash(password, argon.DefaultParams)
	if err != nil {
		return "", err
	}

	key := newCompanyKey()
	now := time.Now()
	err = db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		if _, err := findCompanyByName(ctx, tx, companyName); err == nil {
			return apperr.Integrity(apperr.CodeDuplicateCompany, "company name is already registered", nil)
		} else if !errors.Is(err, sql.ErrNoRows) {
			return err
		}
		if globalUsernames {
			taken, err := usernameTaken(ctx, tx, 0, username, true)
			if err != nil {
				return err
			}
			if taken {
				return apperr.Integrity(apperr.CodeDuplicateUsername, "username is already taken", nil)
			}
		}

		company := models.Company{Name: companyName, CompanyKey: key, CreatedAt: now}
		if _, err := tx.NewInsert().Model(&company).Exec(ctx); err != nil {
			return apperr.FromSQLite(err)
		}
		admin := models.User{
			Username:     username,
			PasswordHash: hash,
			Role:         "admin",
			CompanyID:    company.ID,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if _, err := tx.NewInsert().Model(&admin).Exec(ctx); err != nil {
			return apperr.FromSQLite(err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return key, nil
}

// RegisterRepartidor enrolls a driver into an existing company. The company
// is located by name and the caller must present its enrollment key.
func RegisterRepartidor(ctx context.Context, db *sqlite.DB, companyName, companyKey, username, password string, globalUsernames bool) error {
	companyName = strings.TrimSpace(companyName)
	companyKey = strings.TrimSpace(companyKey)
	username = strings.TrimSpace(username)
	if companyName == "" || companyKey == "" || username == "" {
		return apperr.Validation("empresa, clave y usuario son obligatorios")
	}
	if err := ValidatePasswordPolicy(password); err != nil {
		return apperr.Validation(err.Error())
	}
	hash, err := argon.CreateHash(password, argon.DefaultParams)
	if err != nil {
		return err
	}

	now := time.Now()
	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		company, err := findCompanyByName(ctx, tx, companyName)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrCompanyNotFound
			}
			return err
		}
		if subtle.ConstantTimeCompare([]byte(company.CompanyKey), []byte(companyKey)) != 1 {
			return ErrBadCompanyKey
		}
		taken, err := usernameTaken(ctx, tx, company.ID, username, globalUsernames)
		if err != nil {
			return err
		}
		if taken {
			return apperr.Integrity(apperr.CodeDuplicateUsername, "username is already taken", nil)
		}

		user := models.User{
			Username:     username,
			PasswordHash: hash,
			Role:         "repartidor",
			CompanyID:    company.ID,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if _, err := tx.NewInsert().Model(&user).Exec(ctx); err != nil {
			return apperr.FromSQLite(err)
		}
		return nil
	})
}
