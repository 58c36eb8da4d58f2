package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de ciclo de vida de un Item.
const (
	ItemStatusAvailable   = "available"   // hay unidades en bodega
	ItemStatusInUse       = "in_use"      // todo el stock está en manos de custodios
	ItemStatusMaintenance = "maintenance" // en mantenimiento, no puede ser origen de operaciones
	ItemStatusRetired     = "retired"     // dado de baja
)

// Modos de seguimiento de un Item.
const (
	TrackingByQuantity = "by_quantity" // consumibles: aritmética de cantidades
	TrackingBySerial   = "by_serial"   // herramienta sellada: custodia indivisible, cantidad fija en 1
)

// Tipos de disposición (variante etiquetada: exactamente uno describe dónde está el ítem).
const (
	DispositionInStock       = "in_stock"
	DispositionWithCustodian = "with_custodian"
	DispositionInTransit     = "in_transit"
	DispositionInMaintenance = "in_maintenance"
)

// Disposition indica dónde/con quién está el ítem. El campo asociado al Kind es el
// único con significado; los demás quedan vacíos (exclusividad estructural, no por convención).
type Disposition struct {
	Kind        string
	CustodianID string // solo para with_custodian
	LocationID  string // solo para in_stock (puede quedar vacío si no hay ubicación asignada)
	TransferID  string // solo para in_transit
}

// InStock construye la disposición "en bodega central".
func InStock(locationID string) Disposition {
	return Disposition{Kind: DispositionInStock, LocationID: locationID}
}

// WithCustodian construye la disposición "en manos de un custodio".
func WithCustodian(userID string) Disposition {
	return Disposition{Kind: DispositionWithCustodian, CustodianID: userID}
}

// InTransit construye la disposición "en tránsito" asociada a una transferencia.
func InTransit(transferID string) Disposition {
	return Disposition{Kind: DispositionInTransit, TransferID: transferID}
}

// InMaintenance construye la disposición "en mantenimiento".
func InMaintenance() Disposition {
	return Disposition{Kind: DispositionInMaintenance}
}

// Item representa una unidad de inventario rastreable (herramienta, equipo o consumible).
type Item struct {
	ID           string
	CompanyID    string
	Name         string
	SealCode     string // "lacre": código único legible, clave del escaneo QR
	CategoryID   string
	Quantity     int64 // siempre >= 0
	MinQuantity  int64 // umbral de reposición
	Unit         string
	UnitValue    decimal.Decimal // valor unitario para valoración de movimientos
	Status       string
	TrackingMode string
	Disposition  Disposition
	Active       bool // soft delete: nunca se purga
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CustodianID devuelve el custodio actual o "" si el ítem no está con un custodio.
func (i *Item) CustodianID() string {
	if i.Disposition.Kind == DispositionWithCustodian {
		return i.Disposition.CustodianID
	}
	return ""
}

// InCentralStock indica si el ítem está en bodega central.
func (i *Item) InCentralStock() bool {
	return i.Disposition.Kind == DispositionInStock
}

// BelowMinimum indica si el stock quedó en o bajo el umbral mínimo.
func (i *Item) BelowMinimum() bool {
	return i.MinQuantity > 0 && i.Quantity <= i.MinQuantity
}
