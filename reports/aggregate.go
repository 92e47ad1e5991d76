package reports

import (
	"time"

	"partelog/models"
)

// MonthBounds returns the first and last calendar day of (year, month) as
// inclusive ISO dates.
func MonthBounds(year, month int) (string, string) {
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return first.Format(DateLayout), last.Format(DateLayout)
}

// MensualTotals holds the sums derived from one month of partes.
type MensualTotals struct {
	DiasTrabajados int64
	Km             float64
	Horas          float64
	Envios         int64

	Dietas             float64
	Alojamiento        float64
	TransporteBilletes float64
	Gasolina           float64
	Comida             float64
	OtrosConsumiciones float64
	Material           float64
	OtrosGastos        float64
}

// SumPartes folds a set of partes into monthly totals. Pure and
// order-independent; each of the eight expense categories is summed
// separately. DiasTrabajados is the row count: a day with two partes counts
// twice, matching the stored policy.
func SumPartes(partes []models.ParteDia) MensualTotals {
	var t MensualTotals
	t.DiasTrabajados = int64(len(partes))
	for _, p := range partes {
		t.Km += p.KmDiferencia
		t.Horas += p.Horas
		t.Envios += p.NumEnvios
		t.Dietas += p.Dietas
		t.Alojamiento += p.Alojamiento
		t.TransporteBilletes += p.TransporteBilletes
		t.Gasolina += p.Gasolina
		t.Comida += p.Comida
		t.OtrosConsumiciones += p.OtrosConsumiciones
		t.Material += p.Material
		t.OtrosGastos += p.OtrosGastos
	}
	return t
}
