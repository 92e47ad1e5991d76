// Package reports is the tenancy-scoped data access layer for partes and
// monthly summaries. Every operation takes the resolved rbac.Scope and
// injects the company/user filter itself; handlers never build their own.
package reports

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/uptrace/bun"

	"partelog/infrastructure/apperr"
	"partelog/infrastructure/audit"
	"partelog/infrastructure/rbac"
	"partelog/infrastructure/sqlite"
	"partelog/models"
)

type Repository struct {
	db    *sqlite.DB
	audit *audit.Service
}

func NewRepository(db *sqlite.DB, auditSvc *audit.Service) *Repository {
	return &Repository{db: db, audit: auditSvc}
}

// CreateParte stores a new parte plus its rutas in one transaction, scoped
// to the caller's company with the caller as owner.
func (r *Repository) CreateParte(ctx context.Context, scope rbac.Scope, in ParteInput) (models.ParteDia, error) {
	if err := in.Validate(); err != nil {
		return models.ParteDia{}, err
	}

	now := time.Now()
	parte := parteFromInput(in)
	parte.UserID = scope.UserID
	parte.CompanyID = scope.CompanyID
	parte.CreatedAt = now
	parte.UpdatedAt = now

	err := r.db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(&parte).Exec(ctx); err != nil {
			return apperr.FromSQLite(err)
		}
		if err := insertRutas(ctx, tx, parte.ID, in.Rutas); err != nil {
			return err
		}
		return r.audit.Write(ctx, tx, scope.UserID, scope.CompanyID,
			"parte_dia.create", "partes_dia", strconv.FormatInt(parte.ID, 10), nil, parte)
	})
	if err != nil {
		return models.ParteDia{}, fmt.Errorf("create parte: %w", err)
	}
	return parte, nil
}

// UpdateParte rewrites a parte's fields and replaces its ruta set wholesale.
// Either every new ruta is written and the old set fully removed, or the
// transaction rolls back untouched.
func (r *Repository) UpdateParte(ctx context.Context, scope rbac.Scope, id int64, in ParteInput) error {
	if err := in.Validate(); err != nil {
		return err
	}

	err := r.db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		before, err := loadParteAuthorized(ctx, tx, scope, id)
		if err != nil {
			return err
		}

		updated := parteFromInput(in)
		updated.ID = before.ID
		updated.UserID = before.UserID
		updated.CompanyID = before.CompanyID
		updated.CreatedAt = before.CreatedAt
		updated.UpdatedAt = time.Now()

		if _, err := tx.NewUpdate().Model(&updated).WherePK().Exec(ctx); err != nil {
			return apperr.FromSQLite(err)
		}
		if _, err := tx.NewDelete().Model((*models.Ruta)(nil)).Where("parte_dia_id = ?", id).Exec(ctx); err != nil {
			return err
		}
		if err := insertRutas(ctx, tx, id, in.Rutas); err != nil {
			return err
		}
		return r.audit.Write(ctx, tx, scope.UserID, scope.CompanyID,
			"parte_dia.update", "partes_dia", strconv.FormatInt(id, 10), before, updated)
	})
	if err != nil && apperr.CodeOf(err) == "" {
		return fmt.Errorf("update parte: %w", err)
	}
	return err
}

// DeleteParte hard-deletes a parte and cascades to its rutas.
func (r *Repository) DeleteParte(ctx context.Context, scope rbac.Scope, id int64) error {
	err := r.db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		before, err := loadParteAuthorized(ctx, tx, scope, id)
		if err != nil {
			return err
		}
		if _, err := tx.NewDelete().Model((*models.Ruta)(nil)).Where("parte_dia_id = ?", id).Exec(ctx); err != nil {
			return err
		}
		if _, err := tx.NewDelete().Model((*models.ParteDia)(nil)).Where("id = ?", id).Exec(ctx); err != nil {
			return err
		}
		return r.audit.Write(ctx, tx, scope.UserID, scope.CompanyID,
			"parte_dia.delete", "partes_dia", strconv.FormatInt(id, 10), before, nil)
	})
	if err != nil && apperr.CodeOf(err) == "" {
		return fmt.Errorf("delete parte: %w", err)
	}
	return err
}

// GetParte loads one parte with its rutas in orden order.
func (r *Repository) GetParte(ctx context.Context, scope rbac.Scope, id int64) (ParteConRutas, error) {
	var out ParteConRutas
	err := r.db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		parte, err := loadParteAuthorized(ctx, tx, scope, id)
		if err != nil {
			return err
		}
		out.Parte = parte
		out.Rutas = make([]models.Ruta, 0)
		return tx.NewSelect().
			Model(&out.Rutas).
			Where("parte_dia_id = ?", id).
			Order("orden ASC", "id ASC").
			Scan(ctx)
	})
	if err != nil && apperr.CodeOf(err) == "" {
		return ParteConRutas{}, fmt.Errorf("get parte: %w", err)
	}
	return out, err
}

// ListUserRange returns the caller's own partes with fecha in
// [desde, hasta] inclusive, ordered by fecha ascending.
func (r *Repository) ListUserRange(ctx context.Context, scope rbac.Scope, desde, hasta string) ([]models.ParteDia, error) {
	partes := make([]models.ParteDia, 0)
	err := r.db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewSelect().
			Model(&partes).
			Where("user_id = ?", scope.UserID).
			Where("company_id = ?", scope.CompanyID).
			Where("fecha >= ?", desde).
			Where("fecha <= ?", hasta).
			Order("fecha ASC", "id ASC").
			Scan(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("list partes: %w", err)
	}
	return partes, nil
}

// ListDay returns the caller's partes for one calendar date, oldest first.
func (r *Repository) ListDay(ctx context.Context, scope rbac.Scope, fecha string) ([]models.ParteDia, error) {
	if _, err := time.Parse(DateLayout, strings.TrimSpace(fecha)); err != nil {
		return nil, apperr.Validation("fecha must be a valid YYYY-MM-DD date")
	}
	return r.ListUserRange(ctx, scope, fecha, fecha)
}

// ListCompanyRange is the admin projection: every parte in the caller's
// company for the range, joined with the owner's username, fecha descending.
func (r *Repository) ListCompanyRange(ctx context.Context, scope rbac.Scope, f AdminFilter) ([]ReportRow, error) {
	if !scope.IsAdmin() {
		return nil, apperr.PermissionDenied("admin role required")
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}

	rows := make([]ReportRow, 0)
	err := r.db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		q := `
SELECT pd.id, pd.fecha, u.username,
       pd.km_salida, pd.km_llegada, pd.km_diferencia,
       pd.horas, pd.num_envios,
       pd.dietas, pd.alojamiento, pd.transporte_billetes, pd.gasolina,
       pd.comida, pd.otros_consumiciones, pd.material, pd.otros_gastos,
       COALESCE(pd.observaciones, '') AS observaciones
FROM partes_dia pd
JOIN users u ON u.id = pd.user_id
WHERE pd.company_id = ? AND pd.fecha >= ? AND pd.fecha <= ?`
		args := []any{scope.CompanyID, f.Desde, f.Hasta}
		if f.UserID != nil {
			q += " AND pd.user_id = ?"
			args = append(args, *f.UserID)
		}
		q += " ORDER BY pd.fecha DESC, pd.id DESC"
		return tx.NewRaw(q, args...).Scan(ctx, &rows)
	})
	if err != nil {
		return nil, fmt.Errorf("list company partes: %w", err)
	}
	return rows, nil
}

// CompanyRepartidorStats aggregates per-driver counts for the admin panel,
// over the same filter window as the table.
func (r *Repository) CompanyRepartidorStats(ctx context.Context, scope rbac.Scope, f AdminFilter) ([]RepartidorStats, error) {
	if !scope.IsAdmin() {
		return nil, apperr.PermissionDenied("admin role required")
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}

	stats := make([]RepartidorStats, 0)
	err := r.db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		q := `
SELECT u.id AS user_id, u.username,
       COUNT(pd.id) AS partes_count,
       COALESCE(SUM(pd.km_diferencia), 0) AS total_km,
       COALESCE(SUM(pd.dietas + pd.alojamiento + pd.transporte_billetes + pd.gasolina
                  + pd.comida + pd.otros_consumiciones + pd.material + pd.otros_gastos), 0) AS total_gastos,
       COALESCE(MAX(pd.fecha), '') AS ultimo_parte
FROM users u
LEFT JOIN partes_dia pd
       ON pd.user_id = u.id AND pd.fecha >= ? AND pd.fecha <= ?
WHERE u.company_id = ? AND u.role = 'repartidor'
GROUP BY u.id, u.username
ORDER BY u.username ASC`
		return tx.NewRaw(q, f.Desde, f.Hasta, scope.CompanyID).Scan(ctx, &stats)
	})
	if err != nil {
		return nil, fmt.Errorf("repartidor stats: %w", err)
	}
	return stats, nil
}

// RecomputeMensual derives the month's totals from the caller's partes and
// upserts the cached summary. The UNIQUE(user_id, year, month) constraint
// plus ON CONFLICT keeps the row count at one even under racing submits;
// created_at is set once, updated_at refreshed on every recompute.
func (r *Repository) RecomputeMensual(ctx context.Context, scope rbac.Scope, year, month int, observaciones string) (models.ParteMensual, error) {
	if month < 1 || month > 12 {
		return models.ParteMensual{}, apperr.Validation("mes must be between 1 and 12")
	}
	if year < 2000 || year > 2100 {
		return models.ParteMensual{}, apperr.Validation("año is out of range")
	}

	desde, hasta := MonthBounds(year, month)
	var summary models.ParteMensual

	err := r.db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		partes := make([]models.ParteDia, 0)
		if err := tx.NewSelect().
			Model(&partes).
			Where("user_id = ?", scope.UserID).
			Where("company_id = ?", scope.CompanyID).
			Where("fecha >= ?", desde).
			Where("fecha <= ?", hasta).
			Scan(ctx); err != nil {
			return err
		}

		totals := SumPartes(partes)
		now := time.Now()
		if _, err := tx.ExecContext(ctx, `
INSERT INTO partes_mensuales (
  year, month,
  total_dias_trabajados, total_km, total_horas, total_envios,
  total_dietas, total_alojamiento, total_transporte_billetes, total_gasolina,
  total_comida, total_otros_consumiciones, total_material, total_otros_gastos,
  observaciones_mes, user_id, company_id, created_at, updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(user_id, year, month) DO UPDATE SET
  total_dias_trabajados = excluded.total_dias_trabajados,
  total_km = excluded.total_km,
  total_horas = excluded.total_horas,
  total_envios = excluded.total_envios,
  total_dietas = excluded.total_dietas,
  total_alojamiento = excluded.total_alojamiento,
  total_transporte_billetes = excluded.total_transporte_billetes,
  total_gasolina = excluded.total_gasolina,
  total_comida = excluded.total_comida,
  total_otros_consumiciones = excluded.total_otros_consumiciones,
  total_material = excluded.total_material,
  total_otros_gastos = excluded.total_otros_gastos,
  observaciones_mes = excluded.observaciones_mes,
  updated_at = excluded.updated_at`,
			year, month,
			totals.DiasTrabajados, totals.Km, totals.Horas, totals.Envios,
			totals.Dietas, totals.Alojamiento, totals.TransporteBilletes, totals.Gasolina,
			totals.Comida, totals.OtrosConsumiciones, totals.Material, totals.OtrosGastos,
			strings.TrimSpace(observaciones), scope.UserID, scope.CompanyID, now, now,
		); err != nil {
			return apperr.FromSQLite(err)
		}

		if err := tx.NewSelect().
			Model(&summary).
			Where("user_id = ?", scope.UserID).
			Where("year = ?", year).
			Where("month = ?", month).
			Limit(1).
			Scan(ctx); err != nil {
			return err
		}
		return r.audit.Write(ctx, tx, scope.UserID, scope.CompanyID,
			"parte_mensual.recompute", "partes_mensuales", strconv.FormatInt(summary.ID, 10), nil, summary)
	})
	if err != nil {
		if apperr.CodeOf(err) != "" {
			return models.ParteMensual{}, err
		}
		return models.ParteMensual{}, fmt.Errorf("recompute mensual: %w", err)
	}
	return summary, nil
}

// GetMensual loads the cached summary for (caller, year, month) if present.
func (r *Repository) GetMensual(ctx context.Context, scope rbac.Scope, year, month int) (models.ParteMensual, bool, error) {
	var summary models.ParteMensual
	err := r.db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewSelect().
			Model(&summary).
			Where("user_id = ?", scope.UserID).
			Where("company_id = ?", scope.CompanyID).
			Where("year = ?", year).
			Where("month = ?", month).
			Limit(1).
			Scan(ctx)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return models.ParteMensual{}, false, nil
	}
	if err != nil {
		return models.ParteMensual{}, false, fmt.Errorf("get mensual: %w", err)
	}
	return summary, true, nil
}

// loadParteAuthorized resolves id and applies the uniform ordering:
// nonexistent record → NotFound, existing-but-foreign → PermissionDenied.
func loadParteAuthorized(ctx context.Context, tx bun.Tx, scope rbac.Scope, id int64) (models.ParteDia, error) {
	var parte models.ParteDia
	err := tx.NewSelect().Model(&parte).Where("pd.id = ?", id).Limit(1).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ParteDia{}, apperr.NotFound("parte not found")
	}
	if err != nil {
		return models.ParteDia{}, err
	}
	if !scope.CanTouchParte(parte.UserID, parte.CompanyID) {
		return models.ParteDia{}, apperr.PermissionDenied("parte belongs to another user or company")
	}
	return parte, nil
}

func insertRutas(ctx context.Context, tx bun.Tx, parteID int64, rutas []RutaInput) error {
	for i, in := range rutas {
		orden := in.Orden
		if orden <= 0 {
			orden = int64(i + 1)
		}
		ruta := models.Ruta{
			ParteDiaID:        parteID,
			Orden:             orden,
			Descripcion:       strings.TrimSpace(in.Descripcion),
			SalidaLugar:       strings.TrimSpace(in.SalidaLugar),
			SalidaHora:        strings.TrimSpace(in.SalidaHora),
			LlegadaLugar:      strings.TrimSpace(in.LlegadaLugar),
			LlegadaHora:       strings.TrimSpace(in.LlegadaHora),
			KmRuta:            in.KmRuta,
			NumEnviosRuta:     in.NumEnviosRuta,
			ObservacionesRuta: strings.TrimSpace(in.ObservacionesRuta),
		}
		if _, err := tx.NewInsert().Model(&ruta).Exec(ctx); err != nil {
			return apperr.FromSQLite(err)
		}
	}
	return nil
}

func parteFromInput(in ParteInput) models.ParteDia {
	return models.ParteDia{
		Fecha:              strings.TrimSpace(in.Fecha),
		KmSalida:           in.KmSalida,
		KmLlegada:          in.KmLlegada,
		KmDiferencia:       in.KmDiferencia,
		Repostaje:          strings.TrimSpace(in.Repostaje),
		NumFactura:         strings.TrimSpace(in.NumFactura),
		Dietas:             in.Dietas,
		Alojamiento:        in.Alojamiento,
		TransporteBilletes: in.TransporteBilletes,
		Gasolina:           in.Gasolina,
		Comida:             in.Comida,
		OtrosConsumiciones: in.OtrosConsumiciones,
		Material:           in.Material,
		OtrosGastos:        in.OtrosGastos,
		NumEnvios:          in.NumEnvios,
		Horas:              in.Horas,
		Observaciones:      strings.TrimSpace(in.Observaciones),
	}
}
