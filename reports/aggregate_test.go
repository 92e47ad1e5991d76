package reports

import (
	"context"
	"math"
	"testing"

	"github.com/uptrace/bun"

	"partelog/infrastructure/apperr"
	"partelog/models"
)

func TestMonthBounds(t *testing.T) {
	cases := []struct {
		year, month  int
		desde, hasta string
	}{
		{2025, 1, "2025-01-01", "2025-01-31"},
		{2025, 2, "2025-02-01", "2025-02-28"},
		{2024, 2, "2024-02-01", "2024-02-29"},
		{2025, 12, "2025-12-01", "2025-12-31"},
	}
	for _, c := range cases {
		desde, hasta := MonthBounds(c.year, c.month)
		if desde != c.desde || hasta != c.hasta {
			t.Errorf("MonthBounds(%d, %d) = %s..%s, want %s..%s",
				c.year, c.month, desde, hasta, c.desde, c.hasta)
		}
	}
}

func TestSumPartes(t *testing.T) {
	partes := []models.ParteDia{
		{Fecha: "2025-03-03", KmDiferencia: 120.5, Horas: 8, NumEnvios: 30, Gasolina: 55.2, Comida: 11},
		{Fecha: "2025-03-04", KmDiferencia: 80, Horas: 7.5, NumEnvios: 22, Dietas: 15},
		{Fecha: "2025-03-04", KmDiferencia: 35, Horas: 2, NumEnvios: 5},
	}
	got := SumPartes(partes)

	if got.DiasTrabajados != 3 {
		t.Errorf("dias trabajados = %d, want 3 (row count, not distinct days)", got.DiasTrabajados)
	}
	if math.Abs(got.Km-235.5) > 1e-9 {
		t.Errorf("km = %v, want 235.5", got.Km)
	}
	if math.Abs(got.Horas-17.5) > 1e-9 {
		t.Errorf("horas = %v, want 17.5", got.Horas)
	}
	if got.Envios != 57 {
		t.Errorf("envios = %d, want 57", got.Envios)
	}
	if math.Abs(got.Gasolina-55.2) > 1e-9 || got.Dietas != 15 || got.Comida != 11 {
		t.Errorf("expense categories not summed independently: %+v", got)
	}
	if got.Alojamiento != 0 || got.Material != 0 {
		t.Errorf("untouched categories must stay zero: %+v", got)
	}
}

func TestSumPartesEmpty(t *testing.T) {
	got := SumPartes(nil)
	if got.DiasTrabajados != 0 || got.Km != 0 || got.Envios != 0 {
		t.Errorf("empty month must yield all-zero totals, got %+v", got)
	}
}

func TestRecomputeMensualUpsertsSingleRow(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	if _, err := repo.CreateParte(ctx, luis, ParteInput{Fecha: "2025-03-03", KmDiferencia: 120.5, Horas: 8, NumEnvios: 30, Gasolina: 55.2, Comida: 11}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := repo.CreateParte(ctx, luis, ParteInput{Fecha: "2025-03-04", KmDiferencia: 80, Horas: 7.5, NumEnvios: 22, Dietas: 15}); err != nil {
		t.Fatalf("create: %v", err)
	}
	// Outside the month; must not leak into March.
	if _, err := repo.CreateParte(ctx, luis, ParteInput{Fecha: "2025-04-01", KmDiferencia: 500}); err != nil {
		t.Fatalf("create: %v", err)
	}

	first, err := repo.RecomputeMensual(ctx, luis, 2025, 3, "primer cierre")
	if err != nil {
		t.Fatalf("recompute: %v", err)
	}
	if first.TotalDiasTrabajados != 2 || math.Abs(first.TotalKm-200.5) > 1e-9 {
		t.Fatalf("unexpected first summary: %+v", first)
	}
	if first.ObservacionesMes != "primer cierre" {
		t.Fatalf("observaciones not stored: %q", first.ObservacionesMes)
	}

	// Add a parte and recompute; the summary must update in place.
	if _, err := repo.CreateParte(ctx, luis, ParteInput{Fecha: "2025-03-10", KmDiferencia: 35, Horas: 2, NumEnvios: 5}); err != nil {
		t.Fatalf("create: %v", err)
	}
	second, err := repo.RecomputeMensual(ctx, luis, 2025, 3, "segundo cierre")
	if err != nil {
		t.Fatalf("recompute again: %v", err)
	}
	if second.TotalDiasTrabajados != 3 || math.Abs(second.TotalKm-235.5) > 1e-9 {
		t.Fatalf("unexpected second summary: %+v", second)
	}
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Errorf("created_at must survive recompute: %v != %v", second.CreatedAt, first.CreatedAt)
	}

	var count int
	err = repo.db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw("SELECT COUNT(*) FROM partes_mensuales WHERE user_id = ? AND year = 2025 AND month = 3", luis.UserID).Scan(ctx, &count)
	})
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected exactly one summary row, got %d", count)
	}
}

func TestRecomputeMensualIsIdempotent(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	if _, err := repo.CreateParte(ctx, luis, ParteInput{Fecha: "2025-03-03", KmDiferencia: 100}); err != nil {
		t.Fatalf("create: %v", err)
	}
	first, err := repo.RecomputeMensual(ctx, luis, 2025, 3, "")
	if err != nil {
		t.Fatalf("recompute: %v", err)
	}
	second, err := repo.RecomputeMensual(ctx, luis, 2025, 3, "")
	if err != nil {
		t.Fatalf("recompute: %v", err)
	}
	if second.TotalKm != first.TotalKm || second.TotalDiasTrabajados != first.TotalDiasTrabajados {
		t.Fatalf("recompute with no new partes changed totals: %+v vs %+v", first, second)
	}
}

func TestRecomputeMensualScopedToCaller(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	if _, err := repo.CreateParte(ctx, luis, ParteInput{Fecha: "2025-03-03", KmDiferencia: 100}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := repo.CreateParte(ctx, marta, ParteInput{Fecha: "2025-03-03", KmDiferencia: 999}); err != nil {
		t.Fatalf("create: %v", err)
	}

	summary, err := repo.RecomputeMensual(ctx, luis, 2025, 3, "")
	if err != nil {
		t.Fatalf("recompute: %v", err)
	}
	if summary.TotalKm != 100 {
		t.Fatalf("summary must only fold the caller's partes, got km=%v", summary.TotalKm)
	}
}

func TestRecomputeMensualRejectsBadPeriod(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	if _, err := repo.RecomputeMensual(ctx, luis, 2025, 0, ""); !apperr.IsValidation(err) {
		t.Fatalf("expected validation error for month 0, got %v", err)
	}
	if _, err := repo.RecomputeMensual(ctx, luis, 2025, 13, ""); !apperr.IsValidation(err) {
		t.Fatalf("expected validation error for month 13, got %v", err)
	}
	if _, err := repo.RecomputeMensual(ctx, luis, 1890, 5, ""); !apperr.IsValidation(err) {
		t.Fatalf("expected validation error for out-of-range year, got %v", err)
	}
}

func TestGetMensualMissing(t *testing.T) {
	repo := newTestRepository(t)

	_, found, err := repo.GetMensual(context.Background(), luis, 2025, 3)
	if err != nil {
		t.Fatalf("get mensual: %v", err)
	}
	if found {
		t.Fatalf("expected no summary before first recompute")
	}
}
