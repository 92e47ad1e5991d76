package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/uptrace/bun"
)

func openMigrateTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenDB(filepath.Join(t.TempDir(), "migrate-test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// An empty dir applies the migrations embedded in the binary, so a deployed
// binary can boot from any working directory.
func TestApplyMigrationsEmptyDirUsesEmbedded(t *testing.T) {
	db := openMigrateTestDB(t)
	ctx := context.Background()

	if err := ApplyMigrations(ctx, db, ""); err != nil {
		t.Fatalf("apply embedded migrations: %v", err)
	}

	for _, table := range []string{"companies", "users", "sessions", "partes_dia", "rutas", "partes_mensuales", "audit_logs"} {
		var n int
		err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
			return tx.NewRaw("SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(ctx, &n)
		})
		if err != nil {
			t.Fatalf("inspect schema: %v", err)
		}
		if n != 1 {
			t.Fatalf("expected table %s after embedded migrations", table)
		}
	}
}

func TestApplyMigrationsIsIdempotent(t *testing.T) {
	db := openMigrateTestDB(t)
	ctx := context.Background()

	if err := ApplyMigrations(ctx, db, ""); err != nil {
		t.Fatalf("first apply: %v", err)
	}
	if err := ApplyMigrations(ctx, db, ""); err != nil {
		t.Fatalf("second apply: %v", err)
	}

	var applied int
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw("SELECT COUNT(*) FROM schema_migrations").Scan(ctx, &applied)
	})
	if err != nil {
		t.Fatalf("count applied: %v", err)
	}
	if applied != 2 {
		t.Fatalf("expected each migration recorded once, got %d rows", applied)
	}
}
