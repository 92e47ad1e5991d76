package repartidor

import (
	"testing"
	"time"

	"partelog/models"
)

func TestBuildMonthGridShape(t *testing.T) {
	// September 2025 starts on a Monday and has 30 days: exactly 5 rows.
	today := time.Date(2025, 9, 15, 12, 0, 0, 0, time.UTC)
	weeks := BuildMonthGrid(2025, 9, nil, today)
	if len(weeks) != 5 {
		t.Fatalf("expected 5 weeks, got %d", len(weeks))
	}
	if weeks[0][0] == nil || weeks[0][0].Dia != 1 {
		t.Fatalf("expected day 1 in Monday column, got %+v", weeks[0][0])
	}
	if weeks[4][1] == nil || weeks[4][1].Dia != 30 {
		t.Fatalf("expected day 30 on Tuesday of last week, got %+v", weeks[4][1])
	}
	if weeks[4][2] != nil {
		t.Fatalf("cells past end of month must be nil")
	}
}

func TestBuildMonthGridLeadingGap(t *testing.T) {
	// March 2025 starts on a Saturday: five nil cells before day 1.
	today := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	weeks := BuildMonthGrid(2025, 3, nil, today)
	for col := 0; col < 5; col++ {
		if weeks[0][col] != nil {
			t.Fatalf("expected nil lead cell at column %d", col)
		}
	}
	if weeks[0][5] == nil || weeks[0][5].Dia != 1 {
		t.Fatalf("expected day 1 on Saturday, got %+v", weeks[0][5])
	}
}

func TestBuildMonthGridDayTotalsAndFlags(t *testing.T) {
	today := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	partes := []models.ParteDia{
		{Fecha: "2025-03-10", NumEnvios: 12, KmDiferencia: 40, Gasolina: 30},
		{Fecha: "2025-03-10", NumEnvios: 8, KmDiferencia: 25, Comida: 10},
		{Fecha: "2025-03-11", NumEnvios: 3},
		{Fecha: "2025-04-01", NumEnvios: 99}, // wrong month, ignored
	}
	weeks := BuildMonthGrid(2025, 3, partes, today)

	var d10, d11 *CalendarDay
	for _, w := range weeks {
		for _, c := range w {
			if c == nil {
				continue
			}
			switch c.Dia {
			case 10:
				d10 = c
			case 11:
				d11 = c
			}
		}
	}
	if d10 == nil || d11 == nil {
		t.Fatal("missing day cells")
	}
	if len(d10.Partes) != 2 || d10.TotalEnvios != 20 || d10.TotalKm != 65 || d10.TotalGastos != 40 {
		t.Fatalf("unexpected day 10 totals: %+v", d10)
	}
	if !d10.EsHoy || d10.EsPasado || d10.EsFuturo {
		t.Fatalf("day 10 must be hoy: %+v", d10)
	}
	if !d11.EsFuturo || d11.EsHoy {
		t.Fatalf("day 11 must be futuro: %+v", d11)
	}
}

func TestMonthName(t *testing.T) {
	if MonthName(3) != "Marzo" || MonthName(12) != "Diciembre" {
		t.Fatalf("unexpected month names: %s %s", MonthName(3), MonthName(12))
	}
	if MonthName(0) != "" || MonthName(13) != "" {
		t.Fatal("out-of-range months must yield empty string")
	}
}
