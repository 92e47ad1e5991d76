package reports

import (
	"fmt"
	"strings"
	"time"

	"partelog/infrastructure/apperr"
	"partelog/models"
)

// ISO calendar-date layout used for every fecha column and form field.
const DateLayout = "2006-01-02"

// RutaInput is one sub-route leg submitted with a parte. The whole list is
// replaced on every save.
type RutaInput struct {
	Orden             int64   `json:"orden"`
	Descripcion       string  `json:"descripcion"`
	SalidaLugar       string  `json:"salida_lugar"`
	SalidaHora        string  `json:"salida_hora"`
	LlegadaLugar      string  `json:"llegada_lugar"`
	LlegadaHora       string  `json:"llegada_hora"`
	KmRuta            float64 `json:"km_ruta"`
	NumEnviosRuta     int64   `json:"num_envios_ruta"`
	ObservacionesRuta string  `json:"observaciones_ruta"`
}

// ParteInput carries the editable fields of a daily report.
type ParteInput struct {
	Fecha        string
	KmSalida     float64
	KmLlegada    float64
	KmDiferencia float64
	Repostaje    string
	NumFactura   string

	Dietas             float64
	Alojamiento        float64
	TransporteBilletes float64
	Gasolina           float64
	Comida             float64
	OtrosConsumiciones float64
	Material           float64
	OtrosGastos        float64

	NumEnvios     int64
	Horas         float64
	Observaciones string

	Rutas []RutaInput
}

// Validate rejects malformed dates and negative quantities before anything
// touches the database. One bad ruta fails the whole input.
func (in ParteInput) Validate() error {
	if _, err := time.Parse(DateLayout, strings.TrimSpace(in.Fecha)); err != nil {
		return apperr.Validation("fecha must be a valid YYYY-MM-DD date")
	}
	if in.KmSalida < 0 || in.KmLlegada < 0 || in.KmDiferencia < 0 {
		return apperr.Validation("kilometros cannot be negative")
	}
	if in.Horas < 0 {
		return apperr.Validation("horas cannot be negative")
	}
	if in.NumEnvios < 0 {
		return apperr.Validation("num_envios cannot be negative")
	}
	for _, v := range []float64{
		in.Dietas, in.Alojamiento, in.TransporteBilletes, in.Gasolina,
		in.Comida, in.OtrosConsumiciones, in.Material, in.OtrosGastos,
	} {
		if v < 0 {
			return apperr.Validation("gastos cannot be negative")
		}
	}
	for i, r := range in.Rutas {
		if r.KmRuta < 0 || r.NumEnviosRuta < 0 {
			return apperr.Validation(fmt.Sprintf("ruta %d has negative values", i+1))
		}
	}
	return nil
}

// ParteConRutas bundles a parte with its ordered rutas.
type ParteConRutas struct {
	Parte models.ParteDia
	Rutas []models.Ruta
}

// AdminFilter selects company rows for the admin table and exports.
// Desde/Hasta are inclusive ISO dates; UserID narrows to one repartidor
// when set.
type AdminFilter struct {
	UserID *int64
	Desde  string
	Hasta  string
}

// Validate checks the filter's date range.
func (f AdminFilter) Validate() error {
	for _, d := range []string{f.Desde, f.Hasta} {
		if _, err := time.Parse(DateLayout, strings.TrimSpace(d)); err != nil {
			return apperr.Validation("date range must use YYYY-MM-DD")
		}
	}
	return nil
}

// ReportRow is the export projection: one parte joined with its owner's
// username. Ordered by fecha descending everywhere it is produced.
type ReportRow struct {
	ID                 int64   `bun:"id"`
	Fecha              string  `bun:"fecha"`
	Username           string  `bun:"username"`
	KmSalida           float64 `bun:"km_salida"`
	KmLlegada          float64 `bun:"km_llegada"`
	KmDiferencia       float64 `bun:"km_diferencia"`
	Horas              float64 `bun:"horas"`
	NumEnvios          int64   `bun:"num_envios"`
	Dietas             float64 `bun:"dietas"`
	Alojamiento        float64 `bun:"alojamiento"`
	TransporteBilletes float64 `bun:"transporte_billetes"`
	Gasolina           float64 `bun:"gasolina"`
	Comida             float64 `bun:"comida"`
	OtrosConsumiciones float64 `bun:"otros_consumiciones"`
	Material           float64 `bun:"material"`
	OtrosGastos        float64 `bun:"otros_gastos"`
	Observaciones      string  `bun:"observaciones"`
}

// TotalGastos derives the blended expense total for the row.
func (r ReportRow) TotalGastos() float64 {
	return r.Dietas + r.Alojamiento + r.TransporteBilletes + r.Gasolina +
		r.Comida + r.OtrosConsumiciones + r.Material + r.OtrosGastos
}

// RepartidorStats is the per-driver aggregate block on the admin panel.
type RepartidorStats struct {
	UserID      int64   `bun:"user_id"`
	Username    string  `bun:"username"`
	PartesCount int64   `bun:"partes_count"`
	TotalKm     float64 `bun:"total_km"`
	TotalGastos float64 `bun:"total_gastos"`
	UltimoParte string  `bun:"ultimo_parte"`
}
