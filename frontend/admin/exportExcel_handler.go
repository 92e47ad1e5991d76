package admin

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	sessioncontext "partelog/frontend/shared/context"
	"partelog/infrastructure/apperr"
	"partelog/reports"
)

const exportSheet = "partes_diarios"

var excelHeaders = []string{
	"fecha", "repartidor", "km_salida", "km_llegada", "km_diferencia",
	"horas", "num_envios", "dietas", "alojamiento", "transporte_billetes",
	"gasolina", "comida", "otros_consumiciones", "material", "otros_gastos",
	"total_gastos", "observaciones",
}

// ExportExcelHandler streams the filtered partes as an .xlsx workbook.
// Unlike the panel, the range is mandatory here: exports must be explicit
// about what they cover.
func ExportExcelHandler(repo *reports.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scope, ok := sessioncontext.GetScopeFromContext(r.Context())
		if !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		filter, err := exportFilterFromQuery(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		rows, err := repo.ListCompanyRange(r.Context(), scope, filter)
		if err != nil {
			if apperr.IsValidation(err) {
				http.Error(w, apperr.MessageOf(err), http.StatusBadRequest)
				return
			}
			http.Error(w, "failed to load partes", http.StatusInternalServerError)
			return
		}

		f := excelize.NewFile()
		defer func() { _ = f.Close() }()
		index, err := f.NewSheet(exportSheet)
		if err != nil {
			http.Error(w, "failed to build workbook", http.StatusInternalServerError)
			return
		}
		f.SetActiveSheet(index)
		_ = f.DeleteSheet("Sheet1")

		for col, header := range excelHeaders {
			cell, _ := excelize.CoordinatesToCellName(col+1, 1)
			_ = f.SetCellValue(exportSheet, cell, header)
		}
		for i, row := range rows {
			values := []any{
				row.Fecha, row.Username, row.KmSalida, row.KmLlegada, row.KmDiferencia,
				row.Horas, row.NumEnvios, row.Dietas, row.Alojamiento, row.TransporteBilletes,
				row.Gasolina, row.Comida, row.OtrosConsumiciones, row.Material, row.OtrosGastos,
				row.TotalGastos(), row.Observaciones,
			}
			for col, v := range values {
				cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
				_ = f.SetCellValue(exportSheet, cell, v)
			}
		}

		filename := exportFilename("xlsx", filter)
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		if err := f.Write(w); err != nil {
			http.Error(w, "failed to write workbook", http.StatusInternalServerError)
		}
	}
}

// exportFilterFromQuery is the strict variant of the panel filter: desde and
// hasta are required and must be ISO dates, and a malformed user_id is an
// error rather than a silent widening to the whole company.
func exportFilterFromQuery(r *http.Request) (reports.AdminFilter, error) {
	f := reports.AdminFilter{
		Desde: strings.TrimSpace(r.URL.Query().Get("desde")),
		Hasta: strings.TrimSpace(r.URL.Query().Get("hasta")),
	}
	if f.Desde == "" || f.Hasta == "" {
		return reports.AdminFilter{}, fmt.Errorf("rango de fechas requerido")
	}
	if err := f.Validate(); err != nil {
		return reports.AdminFilter{}, fmt.Errorf("formato de fecha inválido, use YYYY-MM-DD")
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("user_id")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return reports.AdminFilter{}, fmt.Errorf("user_id inválido")
		}
		f.UserID = &id
	}
	return f, nil
}

func exportFilename(ext string, f reports.AdminFilter) string {
	name := fmt.Sprintf("partes_%s_a_%s", f.Desde, f.Hasta)
	if f.UserID != nil {
		name += fmt.Sprintf("_user%d", *f.UserID)
	}
	return name + "." + ext
}
