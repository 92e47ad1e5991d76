package repartidor

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"partelog/frontend/shared/html"
	"partelog/frontend/shared/nav"
	"partelog/infrastructure/cache"
	"partelog/models"
)

// PanelData feeds the monthly panel page.
type PanelData struct {
	Nav     nav.TopNavData
	Notices []cache.Notice

	Year  int
	Month int
	Weeks [][]*CalendarDay

	TotalKm        float64
	TotalHoras     float64
	TotalGastos    float64
	DiasTrabajados int

	Mensual    models.ParteMensual
	HasMensual bool
}

// GetPanelScreen renders the repartidor month view: calendar, totals, parte
// form and the monthly summary block.
func GetPanelScreen(data PanelData) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := nav.TopNav(data.Nav).Render(ctx, w); err != nil {
			return err
		}
		if err := html.FlashList(data.Notices).Render(ctx, w); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "<main class=\"panel\"><h1>Partes de %s %d</h1>", MonthName(data.Month), data.Year); err != nil {
			return err
		}
		if err := renderMonthPicker(w, data.Year, data.Month); err != nil {
			return err
		}
		if err := renderCalendar(w, data.Weeks); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w,
			"<section class=\"month-stats\"><span>Días trabajados: %d</span><span>Km: %.1f</span><span>Horas: %.1f</span><span>Gastos: %.2f €</span></section>",
			data.DiasTrabajados, data.TotalKm, data.TotalHoras, data.TotalGastos); err != nil {
			return err
		}
		if err := renderParteForm(w, data.Year, data.Month); err != nil {
			return err
		}
		if err := renderMensualSection(w, data); err != nil {
			return err
		}
		_, err := io.WriteString(w, "</main>")
		return err
	})
	return html.Layout("Repartidor", body)
}

func renderMonthPicker(w io.Writer, year, month int) error {
	if _, err := io.WriteString(w, `<form method="GET" action="/repartidor" class="month-picker"><select name="month">`); err != nil {
		return err
	}
	for m := 1; m <= 12; m++ {
		selected := ""
		if m == month {
			selected = " selected"
		}
		if _, err := fmt.Fprintf(w, "<option value=\"%d\"%s>%s</option>", m, selected, MonthName(m)); err != nil {
			return err
		}
	}
	if _, err := io.WriteString(w, `</select><select name="year">`); err != nil {
		return err
	}
	for y := year - 2; y <= year+1; y++ {
		selected := ""
		if y == year {
			selected = " selected"
		}
		if _, err := fmt.Fprintf(w, "<option value=\"%d\"%s>%d</option>", y, selected, y); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, `</select><button type="submit">Ver</button></form>`)
	return err
}

func renderCalendar(w io.Writer, weeks [][]*CalendarDay) error {
	if _, err := io.WriteString(w, "<table class=\"calendar\"><thead><tr><th>Lun</th><th>Mar</th><th>Mié</th><th>Jue</th><th>Vie</th><th>Sáb</th><th>Dom</th></tr></thead><tbody>"); err != nil {
		return err
	}
	for _, week := range weeks {
		if _, err := io.WriteString(w, "<tr>"); err != nil {
			return err
		}
		for _, day := range week {
			if day == nil {
				if _, err := io.WriteString(w, "<td class=\"empty\"></td>"); err != nil {
					return err
				}
				continue
			}
			class := "day"
			switch {
			case day.EsHoy:
				class += " hoy"
			case day.EsPasado:
				class += " pasado"
			case day.EsFuturo:
				class += " futuro"
			}
			if _, err := fmt.Fprintf(w, "<td class=\"%s\" data-fecha=\"%s\"><span class=\"num\">%d</span>", class, day.Fecha, day.Dia); err != nil {
				return err
			}
			if len(day.Partes) > 0 {
				if _, err := fmt.Fprintf(w,
					"<div class=\"day-summary\">%d parte(s) · %d envíos · %.1f km · %.2f €</div>",
					len(day.Partes), day.TotalEnvios, day.TotalKm, day.TotalGastos); err != nil {
					return err
				}
			}
			if _, err := io.WriteString(w, "</td>"); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, "</tr>"); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "</tbody></table>")
	return err
}

func renderParteForm(w io.Writer, year, month int) error {
	_, err := fmt.Fprintf(w, `<section class="parte-form"><h2>Guardar parte</h2>
<form method="POST" action="/repartidor/parte">
  <input type="hidden" name="parte_id" value="">
  <input type="hidden" name="rutas_json" value="[]">
  <label>Fecha<input type="date" name="fecha" required></label>
  <fieldset><legend>Kilómetros</legend>
    <label>Salida<input type="number" step="0.1" name="km_salida" value="0"></label>
    <label>Llegada<input type="number" step="0.1" name="km_llegada" value="0"></label>
    <label>Diferencia<input type="number" step="0.1" name="km_diferencia" value="0"></label>
    <label>Repostaje<input type="text" name="repostaje"></label>
    <label>Nº factura<input type="text" name="num_factura"></label>
  </fieldset>
  <fieldset><legend>Gastos</legend>
    <label>Dietas<input type="number" step="0.01" name="dietas" value="0"></label>
    <label>Alojamiento<input type="number" step="0.01" name="alojamiento" value="0"></label>
    <label>Transporte<input type="number" step="0.01" name="transporte_billetes" value="0"></label>
    <label>Gasolina<input type="number" step="0.01" name="gasolina" value="0"></label>
    <label>Comida<input type="number" step="0.01" name="comida" value="0"></label>
    <label>Consumiciones<input type="number" step="0.01" name="otros_consumiciones" value="0"></label>
    <label>Material<input type="number" step="0.01" name="material" value="0"></label>
    <label>Otros<input type="number" step="0.01" name="otros_gastos" value="0"></label>
  </fieldset>
  <label>Envíos<input type="number" name="num_envios" value="0"></label>
  <label>Horas<input type="number" step="0.1" name="horas" value="0"></label>
  <label>Observaciones<textarea name="observaciones"></textarea></label>
  <button type="submit">Guardar</button>
</form></section>`)
	return err
}

func renderMensualSection(w io.Writer, data PanelData) error {
	if _, err := io.WriteString(w, "<section class=\"mensual\"><h2>Parte mensual</h2>"); err != nil {
		return err
	}
	if data.HasMensual {
		m := data.Mensual
		if _, err := fmt.Fprintf(w,
			"<p>Cerrado: %d días · %.1f km · %.1f h · %d envíos · %.2f € de gastos</p>",
			m.TotalDiasTrabajados, m.TotalKm, m.TotalHoras, m.TotalEnvios, m.TotalGastos()); err != nil {
			return err
		}
		if m.ObservacionesMes != "" {
			if _, err := fmt.Fprintf(w, "<p class=\"obs\">%s</p>", templ.EscapeString(m.ObservacionesMes)); err != nil {
				return err
			}
		}
	} else {
		if _, err := io.WriteString(w, "<p>Todavía no has generado el resumen de este mes.</p>"); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, `<form method="POST" action="/repartidor/parte-mensual">
  <input type="hidden" name="year" value="%d">
  <input type="hidden" name="month" value="%d">
  <label>Observaciones del mes<textarea name="observaciones_mes"></textarea></label>
  <button type="submit">Generar resumen de %s</button>
</form></section>`, data.Year, data.Month, MonthName(data.Month))
	return err
}
