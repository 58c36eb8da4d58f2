package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateItemRequest entrada para alta en catálogo.
type CreateItemRequest struct {
	Name         string          `json:"name" validate:"required,min=1,max=200"`
	SealCode     string          `json:"seal_code" validate:"required,min=1,max=60"`
	CategoryID   string          `json:"category_id" validate:"omitempty,uuid"`
	Quantity     int64           `json:"quantity" validate:"min=0"`
	MinQuantity  int64           `json:"min_quantity" validate:"min=0"`
	Unit         string          `json:"unit" validate:"omitempty,max=10"`
	UnitValue    decimal.Decimal `json:"unit_value"`
	TrackingMode string          `json:"tracking_mode" validate:"omitempty,oneof=by_quantity by_serial"`
	LocationID   string          `json:"location_id" validate:"omitempty,uuid"`
}

// UpdateItemRequest entrada para edición de catálogo. Cantidad y custodia no se
// tocan por aquí: solo vía movimientos.
type UpdateItemRequest struct {
	Name        *string          `json:"name"`
	CategoryID  *string          `json:"category_id"`
	MinQuantity *int64           `json:"min_quantity"`
	Unit        *string          `json:"unit"`
	UnitValue   *decimal.Decimal `json:"unit_value"`
}

// DispositionResponse disposición actual del ítem.
type DispositionResponse struct {
	Kind        string `json:"kind"`
	CustodianID string `json:"custodian_id,omitempty"`
	LocationID  string `json:"location_id,omitempty"`
	TransferID  string `json:"transfer_id,omitempty"`
}

// ItemResponse salida de un ítem.
type ItemResponse struct {
	ID           string              `json:"id"`
	CompanyID    string              `json:"company_id"`
	Name         string              `json:"name"`
	SealCode     string              `json:"seal_code"`
	CategoryID   string              `json:"category_id,omitempty"`
	Quantity     int64               `json:"quantity"`
	MinQuantity  int64               `json:"min_quantity"`
	Unit         string              `json:"unit,omitempty"`
	UnitValue    decimal.Decimal     `json:"unit_value"`
	Status       string              `json:"status"`
	TrackingMode string              `json:"tracking_mode"`
	Disposition  DispositionResponse `json:"disposition"`
	Active       bool                `json:"active"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

// ListItemsRequest filtros de listado de catálogo.
type ListItemsRequest struct {
	PageRequest
	CategoryID string `query:"category_id"`
	Status     string `query:"status"`
	Search     string `query:"search"`
}

// CreateLocationRequest entrada para crear una ubicación.
type CreateLocationRequest struct {
	Name   string `json:"name" validate:"required,min=1,max=200"`
	Sector string `json:"sector" validate:"omitempty,max=100"`
}

// LocationResponse salida de una ubicación.
type LocationResponse struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"company_id"`
	Name      string    `json:"name"`
	Sector    string    `json:"sector,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
