package repartidor

import (
	"time"

	"partelog/models"
	"partelog/reports"
)

// Spanish month names, 1-indexed by time.Month.
var monthNames = [...]string{
	"", "Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
	"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
}

func MonthName(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return monthNames[month]
}

// CalendarDay is one in-month cell of the panel grid with that day's partes
// and their blended totals. Cells outside the month are nil in the week row.
type CalendarDay struct {
	Dia         int
	Fecha       string
	Partes      []models.ParteDia
	TotalEnvios int64
	TotalKm     float64
	TotalGastos float64
	EsHoy       bool
	EsPasado    bool
	EsFuturo    bool
}

// BuildMonthGrid lays out a Monday-first calendar for (year, month) and
// attaches each parte to its day cell. today decides the hoy/pasado/futuro
// flags so renders are stable in tests.
func BuildMonthGrid(year, month int, partes []models.ParteDia, today time.Time) [][]*CalendarDay {
	byDay := make(map[int][]models.ParteDia)
	for _, p := range partes {
		d, err := time.Parse(reports.DateLayout, p.Fecha)
		if err != nil || d.Year() != year || int(d.Month()) != month {
			continue
		}
		byDay[d.Day()] = append(byDay[d.Day()], p)
	}

	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	daysInMonth := first.AddDate(0, 1, -1).Day()
	todayISO := today.Format(reports.DateLayout)

	// Monday is column 0.
	offset := (int(first.Weekday()) + 6) % 7

	var weeks [][]*CalendarDay
	week := make([]*CalendarDay, 7)
	col := offset
	for day := 1; day <= daysInMonth; day++ {
		fecha := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC).Format(reports.DateLayout)
		cell := &CalendarDay{
			Dia:      day,
			Fecha:    fecha,
			Partes:   byDay[day],
			EsHoy:    fecha == todayISO,
			EsPasado: fecha < todayISO,
			EsFuturo: fecha > todayISO,
		}
		for _, p := range cell.Partes {
			cell.TotalEnvios += p.NumEnvios
			cell.TotalKm += p.KmDiferencia
			cell.TotalGastos += p.TotalGastos()
		}
		week[col] = cell
		col++
		if col == 7 {
			weeks = append(weeks, week)
			week = make([]*CalendarDay, 7)
			col = 0
		}
	}
	if col > 0 {
		weeks = append(weeks, week)
	}
	return weeks
}
