package admin

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/jung-kurt/gofpdf"

	sessioncontext "partelog/frontend/shared/context"
	"partelog/infrastructure/apperr"
	"partelog/reports"
)

// ExportPDFHandler renders the filtered partes as a printable A4 listing.
func ExportPDFHandler(repo *reports.Repository) http.HandlerFunc {
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

		pdfBytes, err := renderPartesPDF(filter, rows)
		if err != nil {
			http.Error(w, "failed to render pdf", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exportFilename("pdf", filter)))
		_, _ = w.Write(pdfBytes)
	}
}

func renderPartesPDF(filter reports.AdminFilter, rows []reports.ReportRow) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Partes", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, fmt.Sprintf("Partes %s a %s", filter.Desde, filter.Hasta), "", 1, "L", false, 0, "")

	colWidths := []float64{22, 32, 18, 14, 16, 22, 66}
	headers := []string{"Fecha", "Repartidor", "Km", "Horas", "Envíos", "Gastos", "Observaciones"}

	writeHeader := func() {
		pdf.SetFont("Helvetica", "B", 9)
		for i, h := range headers {
			pdf.CellFormat(colWidths[i], 7, h, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 9)
	}
	writeHeader()

	_, pageH := pdf.GetPageSize()
	_, _, _, bottom := pdf.GetMargins()
	for _, row := range rows {
		if pdf.GetY() > pageH-bottom-12 {
			pdf.AddPage()
			writeHeader()
		}
		cells := []string{
			row.Fecha,
			row.Username,
			fmt.Sprintf("%.1f", row.KmDiferencia),
			fmt.Sprintf("%.1f", row.Horas),
			fmt.Sprintf("%d", row.NumEnvios),
			fmt.Sprintf("%.2f", row.TotalGastos()),
			row.Observaciones,
		}
		for i, c := range cells {
			pdf.CellFormat(colWidths[i], 6, c, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
