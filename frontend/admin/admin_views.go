package admin

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strconv"

	"github.com/a-h/templ"

	"partelog/frontend/shared/html"
	"partelog/frontend/shared/nav"
	"partelog/infrastructure/cache"
	"partelog/models"
	"partelog/reports"
)

// PanelData feeds the company admin page.
type PanelData struct {
	Nav     nav.TopNavData
	Notices []cache.Notice

	Company models.Company
	Filter  reports.AdminFilter
	Stats   []reports.RepartidorStats
	Partes  []reports.ReportRow

	TotalKm     float64
	TotalHoras  float64
	TotalGastos float64
}

// GetAdminScreen renders the filter bar, per-repartidor stats, the partes
// table and the export links.
func GetAdminScreen(data PanelData) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := nav.TopNav(data.Nav).Render(ctx, w); err != nil {
			return err
		}
		if err := html.FlashList(data.Notices).Render(ctx, w); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "<main class=\"panel\"><h1>%s</h1>", templ.EscapeString(data.Company.Name)); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w,
			"<p class=\"company-key\">Clave de empresa: <code>%s</code> <img src=\"/admin/company-key.png\" alt=\"clave\" class=\"key-barcode\"></p>",
			templ.EscapeString(data.Company.CompanyKey)); err != nil {
			return err
		}
		if err := renderFilterBar(w, data); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w,
			"<section class=\"range-stats\"><span>Km: %.1f</span><span>Horas: %.1f</span><span>Gastos: %.2f €</span></section>",
			data.TotalKm, data.TotalHoras, data.TotalGastos); err != nil {
			return err
		}
		if err := renderStatsTable(w, data.Stats); err != nil {
			return err
		}
		if err := renderPartesTable(w, data.Partes); err != nil {
			return err
		}
		_, err := io.WriteString(w, "</main>")
		return err
	})
	return html.Layout("Admin", body)
}

func renderFilterBar(w io.Writer, data PanelData) error {
	if _, err := fmt.Fprintf(w, `<form method="GET" action="/admin" class="filter-bar">
  <label>Desde<input type="date" name="desde" value="%s"></label>
  <label>Hasta<input type="date" name="hasta" value="%s"></label>
  <label>Repartidor<select name="user_id"><option value="">Todos</option>`,
		data.Filter.Desde, data.Filter.Hasta); err != nil {
		return err
	}
	for _, s := range data.Stats {
		selected := ""
		if data.Filter.UserID != nil && *data.Filter.UserID == s.UserID {
			selected = " selected"
		}
		if _, err := fmt.Fprintf(w, "<option value=\"%d\"%s>%s</option>", s.UserID, selected, templ.EscapeString(s.Username)); err != nil {
			return err
		}
	}
	q := exportQuery(data.Filter)
	_, err := fmt.Fprintf(w, `</select></label>
  <button type="submit">Filtrar</button>
  <a href="/admin/export/excel?%s">Exportar Excel</a>
  <a href="/admin/export/pdf?%s">Exportar PDF</a>
</form>`, q, q)
	return err
}

func exportQuery(f reports.AdminFilter) string {
	v := url.Values{}
	v.Set("desde", f.Desde)
	v.Set("hasta", f.Hasta)
	if f.UserID != nil {
		v.Set("user_id", strconv.FormatInt(*f.UserID, 10))
	}
	return v.Encode()
}

func renderStatsTable(w io.Writer, stats []reports.RepartidorStats) error {
	if _, err := io.WriteString(w, "<section class=\"stats\"><h2>Repartidores</h2><table><thead><tr><th>Usuario</th><th>Partes</th><th>Km</th><th>Gastos</th><th>Último parte</th></tr></thead><tbody>"); err != nil {
		return err
	}
	for _, s := range stats {
		ultimo := s.UltimoParte
		if ultimo == "" {
			ultimo = "Nunca"
		}
		if _, err := fmt.Fprintf(w, "<tr><td>%s</td><td>%d</td><td>%.1f</td><td>%.2f</td><td>%s</td></tr>",
			templ.EscapeString(s.Username), s.PartesCount, s.TotalKm, s.TotalGastos, ultimo); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "</tbody></table></section>")
	return err
}

func renderPartesTable(w io.Writer, rows []reports.ReportRow) error {
	if _, err := io.WriteString(w, "<section class=\"partes\"><h2>Partes</h2><table><thead><tr><th>Fecha</th><th>Repartidor</th><th>Km</th><th>Horas</th><th>Envíos</th><th>Gastos</th><th>Observaciones</th></tr></thead><tbody>"); err != nil {
		return err
	}
	for _, row := range rows {
		if _, err := fmt.Fprintf(w, "<tr><td>%s</td><td>%s</td><td>%.1f</td><td>%.1f</td><td>%d</td><td>%.2f</td><td>%s</td></tr>",
			row.Fecha, templ.EscapeString(row.Username), row.KmDiferencia, row.Horas,
			row.NumEnvios, row.TotalGastos(), templ.EscapeString(row.Observaciones)); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "</tbody></table></section>")
	return err
}
