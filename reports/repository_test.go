package reports

import (
	"context"
	"path/filepath"
	"runtime"
	"strconv"
	"testing"

	"github.com/uptrace/bun"

	"partelog/infrastructure/apperr"
	"partelog/infrastructure/audit"
	"partelog/infrastructure/rbac"
	"partelog/infrastructure/sqlite"
)

func openReportsTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "reports-test.db")
	db, err := sqlite.OpenDB(dbPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatalf("runtime caller unavailable")
	}
	migrationsDir := filepath.Join(filepath.Dir(file), "..", "infrastructure", "sqlite", "migrations")
	if err := sqlite.ApplyMigrations(context.Background(), db, migrationsDir); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	return db
}

// Two companies, one admin and one repartidor each.
func seedTenants(t *testing.T, db *sqlite.DB) {
	t.Helper()
	err := db.WithWriteTx(context.Background(), func(ctx context.Context, tx bun.Tx) error {
		stmts := []string{
			`INSERT INTO companies (id, name, company_key) VALUES (1, 'Transportes Norte', 'clave-norte')`,
			`INSERT INTO companies (id, name, company_key) VALUES (2, 'Mensajeria Sur', 'clave-sur')`,
			`INSERT INTO users (id, username, password_hash, role, company_id) VALUES (10, 'ana', 'hash', 'admin', 1)`,
			`INSERT INTO users (id, username, password_hash, role, company_id) VALUES (11, 'luis', 'hash', 'repartidor', 1)`,
			`INSERT INTO users (id, username, password_hash, role, company_id) VALUES (12, 'marta', 'hash', 'repartidor', 1)`,
			`INSERT INTO users (id, username, password_hash, role, company_id) VALUES (20, 'sur-admin', 'hash', 'admin', 2)`,
			`INSERT INTO users (id, username, password_hash, role, company_id) VALUES (21, 'pepe', 'hash', 'repartidor', 2)`,
		}
		for _, s := range stmts {
			if _, err := tx.ExecContext(ctx, s); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("seed tenants: %v", err)
	}
}

var (
	adminNorte = rbac.Scope{UserID: 10, CompanyID: 1, Role: rbac.RoleAdmin, Username: "ana"}
	luis       = rbac.Scope{UserID: 11, CompanyID: 1, Role: rbac.RoleRepartidor, Username: "luis"}
	marta      = rbac.Scope{UserID: 12, CompanyID: 1, Role: rbac.RoleRepartidor, Username: "marta"}
	adminSur   = rbac.Scope{UserID: 20, CompanyID: 2, Role: rbac.RoleAdmin, Username: "sur-admin"}
	pepe       = rbac.Scope{UserID: 21, CompanyID: 2, Role: rbac.RoleRepartidor, Username: "pepe"}
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	db := openReportsTestDB(t)
	seedTenants(t, db)
	return NewRepository(db, audit.NewService())
}

func TestCreateAndListOrderedByFecha(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	for _, fecha := range []string{"2025-03-12", "2025-03-05", "2025-03-05"} {
		if _, err := repo.CreateParte(ctx, luis, ParteInput{Fecha: fecha, KmDiferencia: 10}); err != nil {
			t.Fatalf("create parte %s: %v", fecha, err)
		}
	}

	partes, err := repo.ListUserRange(ctx, luis, "2025-03-01", "2025-03-31")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(partes) != 3 {
		t.Fatalf("expected 3 partes, got %d", len(partes))
	}
	if partes[0].Fecha != "2025-03-05" || partes[2].Fecha != "2025-03-12" {
		t.Fatalf("expected ascending fecha order, got %s..%s", partes[0].Fecha, partes[2].Fecha)
	}
}

func TestListRangeIsInclusive(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	for _, fecha := range []string{"2025-02-28", "2025-03-01", "2025-03-31", "2025-04-01"} {
		if _, err := repo.CreateParte(ctx, luis, ParteInput{Fecha: fecha}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	partes, err := repo.ListUserRange(ctx, luis, "2025-03-01", "2025-03-31")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(partes) != 2 {
		t.Fatalf("expected both boundary days included and nothing more, got %d rows", len(partes))
	}
}

func TestCreateRejectsMalformedFecha(t *testing.T) {
	repo := newTestRepository(t)
	_, err := repo.CreateParte(context.Background(), luis, ParteInput{Fecha: "12/03/2025"})
	if !apperr.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateReplacesRutasWholesale(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	parte, err := repo.CreateParte(ctx, luis, ParteInput{
		Fecha: "2025-03-05",
		Rutas: []RutaInput{
			{Orden: 1, Descripcion: "poligono", KmRuta: 12},
			{Orden: 2, Descripcion: "centro", KmRuta: 8},
		},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	err = repo.UpdateParte(ctx, luis, parte.ID, ParteInput{
		Fecha: "2025-03-05",
		Rutas: []RutaInput{{Orden: 1, Descripcion: "puerto", KmRuta: 30}},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := repo.GetParte(ctx, luis, parte.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.Rutas) != 1 || got.Rutas[0].Descripcion != "puerto" {
		t.Fatalf("expected old rutas replaced wholesale, got %+v", got.Rutas)
	}
}

func TestUpdateWithMalformedRutaRollsBackEverything(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	parte, err := repo.CreateParte(ctx, luis, ParteInput{
		Fecha:        "2025-03-05",
		KmDiferencia: 50,
		Rutas:        []RutaInput{{Orden: 1, Descripcion: "poligono", KmRuta: 12}},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	err = repo.UpdateParte(ctx, luis, parte.ID, ParteInput{
		Fecha:        "2025-03-05",
		KmDiferencia: 99,
		Rutas: []RutaInput{
			{Orden: 1, Descripcion: "valid"},
			{Orden: 2, KmRuta: -5},
		},
	})
	if !apperr.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}

	got, err := repo.GetParte(ctx, luis, parte.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Parte.KmDiferencia != 50 {
		t.Fatalf("parte fields must be untouched after aborted save, got km=%v", got.Parte.KmDiferencia)
	}
	if len(got.Rutas) != 1 || got.Rutas[0].Descripcion != "poligono" {
		t.Fatalf("ruta set must be untouched after aborted save, got %+v", got.Rutas)
	}
	if n := countAuditRows(t, repo, "parte_dia.update"); n != 0 {
		t.Fatalf("aborted save must leave no audit row, found %d", n)
	}
}

func TestDeleteCascadesRutas(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	parte, err := repo.CreateParte(ctx, luis, ParteInput{
		Fecha: "2025-03-05",
		Rutas: []RutaInput{{Orden: 1}, {Orden: 2}},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.DeleteParte(ctx, luis, parte.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	var orphans int
	err = repo.db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw("SELECT COUNT(*) FROM rutas WHERE parte_dia_id = ?", parte.ID).Scan(ctx, &orphans)
	})
	if err != nil {
		t.Fatalf("count rutas: %v", err)
	}
	if orphans != 0 {
		t.Fatalf("expected no orphan rutas, found %d", orphans)
	}

	if _, err := repo.GetParte(ctx, luis, parte.ID); !apperr.IsNotFound(err) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestTenancyRules(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	parte, err := repo.CreateParte(ctx, luis, ParteInput{Fecha: "2025-03-05"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Another repartidor in the same company cannot read or mutate it.
	if _, err := repo.GetParte(ctx, marta, parte.ID); !apperr.IsPermissionDenied(err) {
		t.Fatalf("expected permission denied for foreign repartidor read, got %v", err)
	}
	if err := repo.DeleteParte(ctx, marta, parte.ID); !apperr.IsPermissionDenied(err) {
		t.Fatalf("expected permission denied for foreign repartidor delete, got %v", err)
	}

	// Same-company admin can read it.
	if _, err := repo.GetParte(ctx, adminNorte, parte.ID); err != nil {
		t.Fatalf("same-company admin read: %v", err)
	}

	// Cross-company admin gets permission denied, not not-found.
	if _, err := repo.GetParte(ctx, adminSur, parte.ID); !apperr.IsPermissionDenied(err) {
		t.Fatalf("expected permission denied for cross-company admin, got %v", err)
	}

	// Nonexistent record is not-found for everyone (404 before 403).
	if _, err := repo.GetParte(ctx, adminSur, 99999); !apperr.IsNotFound(err) {
		t.Fatalf("expected not found for missing id, got %v", err)
	}
}

func TestListCompanyRangeScopesAndOrders(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	if _, err := repo.CreateParte(ctx, luis, ParteInput{Fecha: "2025-03-05", KmDiferencia: 10}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := repo.CreateParte(ctx, marta, ParteInput{Fecha: "2025-03-20", KmDiferencia: 20}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := repo.CreateParte(ctx, pepe, ParteInput{Fecha: "2025-03-10", KmDiferencia: 30}); err != nil {
		t.Fatalf("create: %v", err)
	}

	rows, err := repo.ListCompanyRange(ctx, adminNorte, AdminFilter{Desde: "2025-03-01", Hasta: "2025-03-31"})
	if err != nil {
		t.Fatalf("list company: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected only company 1 rows, got %d", len(rows))
	}
	if rows[0].Fecha != "2025-03-20" || rows[1].Fecha != "2025-03-05" {
		t.Fatalf("expected fecha descending, got %s, %s", rows[0].Fecha, rows[1].Fecha)
	}
	if rows[0].Username != "marta" || rows[1].Username != "luis" {
		t.Fatalf("expected joined usernames, got %s, %s", rows[0].Username, rows[1].Username)
	}

	// Filtering by user narrows the result.
	uid := int64(11)
	rows, err = repo.ListCompanyRange(ctx, adminNorte, AdminFilter{UserID: &uid, Desde: "2025-03-01", Hasta: "2025-03-31"})
	if err != nil {
		t.Fatalf("list filtered: %v", err)
	}
	if len(rows) != 1 || rows[0].Username != "luis" {
		t.Fatalf("expected only luis rows, got %+v", rows)
	}

	// Non-admin callers are rejected outright.
	if _, err := repo.ListCompanyRange(ctx, luis, AdminFilter{Desde: "2025-03-01", Hasta: "2025-03-31"}); !apperr.IsPermissionDenied(err) {
		t.Fatalf("expected permission denied for repartidor, got %v", err)
	}
}

func TestCompanyRepartidorStats(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	if _, err := repo.CreateParte(ctx, luis, ParteInput{Fecha: "2025-03-05", KmDiferencia: 10, Gasolina: 40, Comida: 12}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := repo.CreateParte(ctx, luis, ParteInput{Fecha: "2025-03-07", KmDiferencia: 25}); err != nil {
		t.Fatalf("create: %v", err)
	}

	stats, err := repo.CompanyRepartidorStats(ctx, adminNorte, AdminFilter{Desde: "2025-03-01", Hasta: "2025-03-31"})
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("expected stats for both repartidores, got %d", len(stats))
	}

	byName := map[string]RepartidorStats{}
	for _, s := range stats {
		byName[s.Username] = s
	}
	if s := byName["luis"]; s.PartesCount != 2 || s.TotalKm != 35 || s.TotalGastos != 52 || s.UltimoParte != "2025-03-07" {
		t.Fatalf("unexpected luis stats: %+v", s)
	}
	if s := byName["marta"]; s.PartesCount != 0 || s.UltimoParte != "" {
		t.Fatalf("expected empty stats for marta, got %+v", s)
	}
}

func countAuditRows(t *testing.T, repo *Repository, action string) int {
	t.Helper()
	var n int
	err := repo.db.WithReadTx(context.Background(), func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw("SELECT COUNT(*) FROM audit_logs WHERE action = ?", action).Scan(ctx, &n)
	})
	if err != nil {
		t.Fatalf("count audit rows for %s: %v", action, err)
	}
	return n
}

func TestMutationsLeaveAuditTrail(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	parte, err := repo.CreateParte(ctx, luis, ParteInput{Fecha: "2025-03-05"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if n := countAuditRows(t, repo, "parte_dia.create"); n != 1 {
		t.Fatalf("expected 1 create audit row, got %d", n)
	}

	var entityID string
	var actorID int64
	err = repo.db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw("SELECT entity_id, user_id FROM audit_logs WHERE action = 'parte_dia.create'").Scan(ctx, &entityID, &actorID)
	})
	if err != nil {
		t.Fatalf("read create audit row: %v", err)
	}
	if entityID != strconv.FormatInt(parte.ID, 10) || actorID != luis.UserID {
		t.Fatalf("audit row points at entity %s / user %d, want %d / %d", entityID, actorID, parte.ID, luis.UserID)
	}

	if err := repo.UpdateParte(ctx, luis, parte.ID, ParteInput{Fecha: "2025-03-06"}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if n := countAuditRows(t, repo, "parte_dia.update"); n != 1 {
		t.Fatalf("expected 1 update audit row, got %d", n)
	}

	if _, err := repo.RecomputeMensual(ctx, luis, 2025, 3, ""); err != nil {
		t.Fatalf("recompute mensual: %v", err)
	}
	if n := countAuditRows(t, repo, "parte_mensual.recompute"); n != 1 {
		t.Fatalf("expected 1 recompute audit row, got %d", n)
	}

	if err := repo.DeleteParte(ctx, luis, parte.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if n := countAuditRows(t, repo, "parte_dia.delete"); n != 1 {
		t.Fatalf("expected 1 delete audit row, got %d", n)
	}
}

func TestDeniedMutationsWriteNoAuditRows(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	parte, err := repo.CreateParte(ctx, luis, ParteInput{Fecha: "2025-03-05"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := repo.UpdateParte(ctx, marta, parte.ID, ParteInput{Fecha: "2025-03-05"}); !apperr.IsPermissionDenied(err) {
		t.Fatalf("expected permission denied, got %v", err)
	}
	if err := repo.DeleteParte(ctx, marta, parte.ID); !apperr.IsPermissionDenied(err) {
		t.Fatalf("expected permission denied, got %v", err)
	}

	if n := countAuditRows(t, repo, "parte_dia.update"); n != 0 {
		t.Fatalf("denied update must leave no audit row, found %d", n)
	}
	if n := countAuditRows(t, repo, "parte_dia.delete"); n != 0 {
		t.Fatalf("denied delete must leave no audit row, found %d", n)
	}
}
