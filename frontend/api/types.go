// Package api exposes the JSON endpoints the panel's inline editor uses.
// Field names mirror the HTML form fields.
package api

import (
	"partelog/models"
	"partelog/reports"
)

// ParteJSON is the wire shape of one parte with its rutas.
type ParteJSON struct {
	ID    int64  `json:"id"`
	Fecha string `json:"fecha"`

	KmSalida     float64 `json:"km_salida"`
	KmLlegada    float64 `json:"km_llegada"`
	KmDiferencia float64 `json:"km_diferencia"`
	Repostaje    string  `json:"repostaje"`
	NumFactura   string  `json:"num_factura"`

	Dietas             float64 `json:"dietas"`
	Alojamiento        float64 `json:"alojamiento"`
	TransporteBilletes float64 `json:"transporte_billetes"`
	Gasolina           float64 `json:"gasolina"`
	Comida             float64 `json:"comida"`
	OtrosConsumiciones float64 `json:"otros_consumiciones"`
	Material           float64 `json:"material"`
	OtrosGastos        float64 `json:"otros_gastos"`

	NumEnvios     int64   `json:"num_envios"`
	Horas         float64 `json:"horas"`
	Observaciones string  `json:"observaciones"`
	TotalGastos   float64 `json:"total_gastos"`

	Rutas []reports.RutaInput `json:"rutas"`
}

func parteToJSON(p models.ParteDia, rutas []models.Ruta) ParteJSON {
	out := ParteJSON{
		ID:                 p.ID,
		Fecha:              p.Fecha,
		KmSalida:           p.KmSalida,
		KmLlegada:          p.KmLlegada,
		KmDiferencia:       p.KmDiferencia,
		Repostaje:          p.Repostaje,
		NumFactura:         p.NumFactura,
		Dietas:             p.Dietas,
		Alojamiento:        p.Alojamiento,
		TransporteBilletes: p.TransporteBilletes,
		Gasolina:           p.Gasolina,
		Comida:             p.Comida,
		OtrosConsumiciones: p.OtrosConsumiciones,
		Material:           p.Material,
		OtrosGastos:        p.OtrosGastos,
		NumEnvios:          p.NumEnvios,
		Horas:              p.Horas,
		Observaciones:      p.Observaciones,
		TotalGastos:        p.TotalGastos(),
		Rutas:              make([]reports.RutaInput, 0, len(rutas)),
	}
	for _, r := range rutas {
		out.Rutas = append(out.Rutas, reports.RutaInput{
			Orden:             r.Orden,
			Descripcion:       r.Descripcion,
			SalidaLugar:       r.SalidaLugar,
			SalidaHora:        r.SalidaHora,
			LlegadaLugar:      r.LlegadaLugar,
			LlegadaHora:       r.LlegadaHora,
			KmRuta:            r.KmRuta,
			NumEnviosRuta:     r.NumEnviosRuta,
			ObservacionesRuta: r.ObservacionesRuta,
		})
	}
	return out
}

// ParteUpdateJSON is the PUT payload. All fields are full replacements, the
// rutas list included.
type ParteUpdateJSON struct {
	Fecha string `json:"fecha"`

	KmSalida     float64 `json:"km_salida"`
	KmLlegada    float64 `json:"km_llegada"`
	KmDiferencia float64 `json:"km_diferencia"`
	Repostaje    string  `json:"repostaje"`
	NumFactura   string  `json:"num_factura"`

	Dietas             float64 `json:"dietas"`
	Alojamiento        float64 `json:"alojamiento"`
	TransporteBilletes float64 `json:"transporte_billetes"`
	Gasolina           float64 `json:"gasolina"`
	Comida             float64 `json:"comida"`
	OtrosConsumiciones float64 `json:"otros_consumiciones"`
	Material           float64 `json:"material"`
	OtrosGastos        float64 `json:"otros_gastos"`

	NumEnvios     int64   `json:"num_envios"`
	Horas         float64 `json:"horas"`
	Observaciones string  `json:"observaciones"`

	Rutas []reports.RutaInput `json:"rutas"`
}

func (in ParteUpdateJSON) toInput() reports.ParteInput {
	return reports.ParteInput{
		Fecha:              in.Fecha,
		KmSalida:           in.KmSalida,
		KmLlegada:          in.KmLlegada,
		KmDiferencia:       in.KmDiferencia,
		Repostaje:          in.Repostaje,
		NumFactura:         in.NumFactura,
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
		Observaciones:      in.Observaciones,
		Rutas:              in.Rutas,
	}
}
