package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Company is the root of tenancy; it owns users and, transitively, every
// report. CompanyKey is the shared secret repartidores use to self-enroll.
type Company struct {
	bun.BaseModel `bun:"table:companies,alias:c"`

	ID         int64     `bun:"id,pk,autoincrement"`
	Name       string    `bun:"name,unique,notnull"`
	CompanyKey string    `bun:"company_key,notnull"`
	CreatedAt  time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

// User represents an authenticated app user inside one company.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID           int64     `bun:"id,pk,autoincrement"`
	Username     string    `bun:"username,notnull"`
	PasswordHash string    `bun:"password_hash,notnull"`
	Role         string    `bun:"role,notnull"`
	CompanyID    int64     `bun:"company_id,notnull"`
	Company      Company   `bun:"rel:belongs-to,join:company_id=id"`
	CreatedAt    time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt    time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}

// Session is used by middleware and auth handlers.
type Session struct {
	bun.BaseModel `bun:"table:sessions,alias:s"`

	ID        string    `bun:"id,pk"`
	UserID    int64     `bun:"user_id,notnull"`
	User      User      `bun:"rel:belongs-to,join:user_id=id"`
	ExpiresAt time.Time `bun:"expires_at,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

// Expired returns true when the session expiry time has passed.
func (s Session) Expired() bool {
	return time.Now().After(s.ExpiresAt)
}

// ParteDia is one daily work report. A user may have several for the same
// calendar date. Fecha is an ISO date string (YYYY-MM-DD).
type ParteDia struct {
	bun.BaseModel `bun:"table:partes_dia,alias:pd"`

	ID    int64  `bun:"id,pk,autoincrement"`
	Fecha string `bun:"fecha,notnull"`

	KmSalida     float64 `bun:"km_salida,notnull,default:0"`
	KmLlegada    float64 `bun:"km_llegada,notnull,default:0"`
	KmDiferencia float64 `bun:"km_diferencia,notnull,default:0"`
	Repostaje    string  `bun:"repostaje"`
	NumFactura   string  `bun:"num_factura"`

	Dietas             float64 `bun:"dietas,notnull,default:0"`
	Alojamiento        float64 `bun:"alojamiento,notnull,default:0"`
	TransporteBilletes float64 `bun:"transporte_billetes,notnull,default:0"`
	Gasolina           float64 `bun:"gasolina,notnull,default:0"`
	Comida             float64 `bun:"comida,notnull,default:0"`
	OtrosConsumiciones float64 `bun:"otros_consumiciones,notnull,default:0"`
	Material           float64 `bun:"material,notnull,default:0"`
	OtrosGastos        float64 `bun:"otros_gastos,notnull,default:0"`

	NumEnvios     int64   `bun:"num_envios,notnull,default:0"`
	Horas         float64 `bun:"horas,notnull,default:0"`
	Observaciones string  `bun:"observaciones"`

	UserID    int64     `bun:"user_id,notnull"`
	CompanyID int64     `bun:"company_id,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}

// TotalGastos derives the blended expense total for display. It is never
// stored as its own column.
func (p ParteDia) TotalGastos() float64 {
	return p.Dietas + p.Alojamiento + p.TransporteBilletes + p.Gasolina +
		p.Comida + p.OtrosConsumiciones + p.Material + p.OtrosGastos
}

// Ruta is one ordered sub-route/leg inside a parte. The set for a parte is
// replaced wholesale on edit.
type Ruta struct {
	bun.BaseModel `bun:"table:rutas,alias:r"`

	ID                int64   `bun:"id,pk,autoincrement"`
	ParteDiaID        int64   `bun:"parte_dia_id,notnull"`
	Orden             int64   `bun:"orden,notnull,default:1"`
	Descripcion       string  `bun:"descripcion"`
	SalidaLugar       string  `bun:"salida_lugar"`
	SalidaHora        string  `bun:"salida_hora"`
	LlegadaLugar      string  `bun:"llegada_lugar"`
	LlegadaHora       string  `bun:"llegada_hora"`
	KmRuta            float64 `bun:"km_ruta,notnull,default:0"`
	NumEnviosRuta     int64   `bun:"num_envios_ruta,notnull,default:0"`
	ObservacionesRuta string  `bun:"observaciones_ruta"`
}

// ParteMensual is the cached monthly aggregate, at most one per
// (user, year, month). Derived from partes_dia; overwritten on recompute,
// never a source of truth.
type ParteMensual struct {
	bun.BaseModel `bun:"table:partes_mensuales,alias:pm"`

	ID    int64 `bun:"id,pk,autoincrement"`
	Year  int   `bun:"year,notnull"`
	Month int   `bun:"month,notnull"`

	TotalDiasTrabajados int64   `bun:"total_dias_trabajados,notnull,default:0"`
	TotalKm             float64 `bun:"total_km,notnull,default:0"`
	TotalHoras          float64 `bun:"total_horas,notnull,default:0"`
	TotalEnvios         int64   `bun:"total_envios,notnull,default:0"`

	TotalDietas             float64 `bun:"total_dietas,notnull,default:0"`
	TotalAlojamiento        float64 `bun:"total_alojamiento,notnull,default:0"`
	TotalTransporteBilletes float64 `bun:"total_transporte_billetes,notnull,default:0"`
	TotalGasolina           float64 `bun:"total_gasolina,notnull,default:0"`
	TotalComida             float64 `bun:"total_comida,notnull,default:0"`
	TotalOtrosConsumiciones float64 `bun:"total_otros_consumiciones,notnull,default:0"`
	TotalMaterial           float64 `bun:"total_material,notnull,default:0"`
	TotalOtrosGastos        float64 `bun:"total_otros_gastos,notnull,default:0"`

	ObservacionesMes string `bun:"observaciones_mes"`

	UserID    int64     `bun:"user_id,notnull"`
	CompanyID int64     `bun:"company_id,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}

// TotalGastos derives the blended expense total for display.
func (p ParteMensual) TotalGastos() float64 {
	return p.TotalDietas + p.TotalAlojamiento + p.TotalTransporteBilletes +
		p.TotalGasolina + p.TotalComida + p.TotalOtrosConsumiciones +
		p.TotalMaterial + p.TotalOtrosGastos
}

// FotoEntrega stores delivery photo metadata attached to a ruta. Modeled for
// schema parity; no current operation reads or writes it.
type FotoEntrega struct {
	bun.BaseModel `bun:"table:fotos_entrega,alias:fe"`

	ID             int64     `bun:"id,pk,autoincrement"`
	RutaID         int64     `bun:"ruta_id,notnull"`
	NombreArchivo  string    `bun:"nombre_archivo,notnull"`
	NombreOriginal string    `bun:"nombre_original,notnull"`
	Descripcion    string    `bun:"descripcion"`
	FechaSubida    time.Time `bun:"fecha_subida,notnull,default:current_timestamp"`
	TamanoBytes    int64     `bun:"tamano_bytes,notnull,default:0"`
}

// AuditLog captures immutable change history for key operations.
type AuditLog struct {
	bun.BaseModel `bun:"table:audit_logs,alias:al"`

	ID         int64     `bun:"id,pk,autoincrement"`
	UserID     int64     `bun:"user_id,notnull"`
	CompanyID  int64     `bun:"company_id,notnull"`
	Action     string    `bun:"action,notnull"`
	EntityType string    `bun:"entity_type,notnull"`
	EntityID   string    `bun:"entity_id,notnull"`
	BeforeJSON string    `bun:"before_json"`
	AfterJSON  string    `bun:"after_json"`
	CreatedAt  time.Time `bun:"created_at,notnull,default:current_timestamp"`
}
