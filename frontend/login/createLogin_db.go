package login

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/uptrace/bun"

	"partelog/infrastructure/argon"
	"partelog/infrastructure/sqlite"
	"partelog/models"
)

// Sentinel auth failures; handlers map them to distinct flash notices. The
// company message is allowed to be specific, the credentials one never is.
var (
	ErrCompanyNotFound = errors.New("company not found")
	ErrBadCredentials  = errors.New("invalid username or password")
)

func findCompanyByName(ctx context.Context, tx bun.Tx, name string) (models.Company, error) {
	var company models.Company
	err := tx.NewSelect().
		Model(&company).
		Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name))).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return models.Company{}, err
	}
	return company, nil
}

func findUserInCompany(ctx context.Context, tx bun.Tx, companyID int64, username string) (models.User, error) {
	var user models.User
	err := tx.NewSelect().
		Model(&user).
		Where("company_id = ?", companyID).
		Where("LOWER(username) = ?", strings.ToLower(strings.TrimSpace(username))).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

// authenticateUser resolves the company by name, then the username inside
// that company, then verifies the password hash.
func authenticateUser(ctx context.Context, db *sqlite.DB, companyName, username, password string) (models.User, error) {
	var user models.User
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		company, err := findCompanyByName(ctx, tx, companyName)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrCompanyNotFound
			}
			return err
		}
		user, err = findUserInCompany(ctx, tx, company.ID, username)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrBadCredentials
			}
			return err
		}
		user.Company = company
		return nil
	})
	if err != nil {
		return models.User{}, err
	}

	ok, err := argon.ComparePasswordAndHash(password, user.PasswordHash)
	if err != nil {
		return models.User{}, err
	}
	if !ok {
		return models.User{}, ErrBadCredentials
	}
	return user, nil
}

func persistSession(ctx context.Context, db *sqlite.DB, session models.Session) error {
	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		// One row per token; token is the primary key.
		_, err := tx.NewInsert().Model(&models.Session{
			ID:        session.ID,
			UserID:    session.UserID,
			ExpiresAt: session.ExpiresAt,
		}).Exec(ctx)
		return err
	})
}

func DeleteSessionByToken(ctx context.Context, db *sqlite.DB, token string) error {
	if strings.TrimSpace(token) == "" {
		return nil
	}
	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewDelete().Model((*models.Session)(nil)).Where("id = ?", token).Exec(ctx)
		return err
	})
}

// LoadSessionByToken fetches a session with its user and company. Expired
// rows are deleted on sight and reported as missing.
func LoadSessionByToken(ctx context.Context, db *sqlite.DB, token string) (models.Session, error) {
	var session models.Session
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewSelect().
			Model(&session).
			Relation("User").
			Relation("User.Company").
			Where("s.id = ?", token).
			Limit(1).
			Scan(ctx)
	})
	if err != nil {
		return models.Session{}, err
	}
	if session.Expired() {
		_ = DeleteSessionByToken(ctx, db, token)
		return models.Session{}, sql.ErrNoRows
	}
	return session, nil
}
