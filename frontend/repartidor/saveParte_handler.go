package repartidor

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	sessioncontext "partelog/frontend/shared/context"
	"partelog/frontend/shared/flash"
	"partelog/infrastructure/apperr"
	"partelog/infrastructure/cache"
	"partelog/reports"
)

// SaveParteCommandHandler handles the panel's save form. An empty parte_id
// creates a new parte; a numeric one updates it, replacing its rutas with
// the rutas_json payload.
func SaveParteCommandHandler(repo *reports.Repository, flashes *cache.FlashCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scope, ok := sessioncontext.GetScopeFromContext(r.Context())
		if !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		fail := func(title, body string) {
			flash.Push(w, r, flashes, flash.SeverityError, title, body)
			http.Redirect(w, r, "/repartidor", http.StatusSeeOther)
		}

		if err := r.ParseForm(); err != nil {
			fail("Formulario inválido", "No se pudo leer el formulario del parte.")
			return
		}

		input, err := parteInputFromForm(r)
		if err != nil {
			fail("Error en rutas", "El formato de las rutas es inválido. Revisa los datos ingresados.")
			return
		}

		parteIDRaw := strings.TrimSpace(r.FormValue("parte_id"))
		if parteIDRaw == "" {
			if _, err := repo.CreateParte(r.Context(), scope, input); err != nil {
				failFromErr(fail, err)
				return
			}
			flash.Push(w, r, flashes, flash.SeveritySuccess, "¡Parte creado!",
				fmt.Sprintf("El parte del %s ha sido creado correctamente.", input.Fecha))
		} else {
			parteID, err := strconv.ParseInt(parteIDRaw, 10, 64)
			if err != nil {
				fail("Error en ID", "El identificador del parte es inválido.")
				return
			}
			if err := repo.UpdateParte(r.Context(), scope, parteID, input); err != nil {
				failFromErr(fail, err)
				return
			}
			flash.Push(w, r, flashes, flash.SeveritySuccess, "¡Parte actualizado!",
				fmt.Sprintf("El parte del %s ha sido actualizado correctamente.", input.Fecha))
		}
		http.Redirect(w, r, "/repartidor", http.StatusSeeOther)
	}
}

func failFromErr(fail func(title, body string), err error) {
	switch {
	case apperr.IsValidation(err):
		fail("Datos inválidos", apperr.MessageOf(err))
	case apperr.IsNotFound(err):
		fail("Parte no encontrado", "El parte que intentas editar no existe.")
	case apperr.IsPermissionDenied(err):
		fail("Sin permisos", "No puedes modificar un parte que no te pertenece.")
	default:
		fail("Error al guardar", "No se pudo guardar el parte.")
	}
}

func parteInputFromForm(r *http.Request) (reports.ParteInput, error) {
	var rutas []reports.RutaInput
	rutasJSON := strings.TrimSpace(r.FormValue("rutas_json"))
	if rutasJSON != "" {
		if err := json.Unmarshal([]byte(rutasJSON), &rutas); err != nil {
			return reports.ParteInput{}, err
		}
	}

	return reports.ParteInput{
		Fecha:        r.FormValue("fecha"),
		KmSalida:     formFloat(r, "km_salida"),
		KmLlegada:    formFloat(r, "km_llegada"),
		KmDiferencia: formFloat(r, "km_diferencia"),
		Repostaje:    r.FormValue("repostaje"),
		NumFactura:   r.FormValue("num_factura"),

		Dietas:             formFloat(r, "dietas"),
		Alojamiento:        formFloat(r, "alojamiento"),
		TransporteBilletes: formFloat(r, "transporte_billetes"),
		Gasolina:           formFloat(r, "gasolina"),
		Comida:             formFloat(r, "comida"),
		OtrosConsumiciones: formFloat(r, "otros_consumiciones"),
		Material:           formFloat(r, "material"),
		OtrosGastos:        formFloat(r, "otros_gastos"),

		NumEnvios:     formInt(r, "num_envios"),
		Horas:         formFloat(r, "horas"),
		Observaciones: r.FormValue("observaciones"),

		Rutas: rutas,
	}, nil
}

func formFloat(r *http.Request, key string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(r.FormValue(key)), 64)
	if err != nil {
		return 0
	}
	return v
}

func formInt(r *http.Request, key string) int64 {
	v, err := strconv.ParseInt(strings.TrimSpace(r.FormValue(key)), 10, 64)
	if err != nil {
		return 0
	}
	return v
}
