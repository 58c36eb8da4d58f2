package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterMovementRequest entrada para un movimiento manual (entry, adjustment,
// loss, maintenance, disposal). Los tipos exit/return/transfer nacen de los
// workflows, no de este endpoint.
type RegisterMovementRequest struct {
	ItemID     string `json:"item_id" validate:"required,uuid"`
	Type       string `json:"type" validate:"required,oneof=entry adjustment loss maintenance disposal"`
	Quantity   int64  `json:"quantity"`
	LocationID string `json:"location_id" validate:"omitempty,uuid"`
	Reason     string `json:"reason" validate:"omitempty,max=500"`
}

// MovementResponse salida de un movimiento de auditoría.
type MovementResponse struct {
	ID               string            `json:"id"`
	CompanyID        string            `json:"company_id"`
	ItemID           string            `json:"item_id"`
	UserID           string            `json:"user_id"`
	Type             string            `json:"type"`
	Quantity         int64             `json:"quantity"`
	PreviousQuantity int64             `json:"previous_quantity"`
	NewQuantity      int64             `json:"new_quantity"`
	FromLocationID   string            `json:"from_location_id,omitempty"`
	ToLocationID     string            `json:"to_location_id,omitempty"`
	RequestID        *string           `json:"request_id,omitempty"`
	TransferID       *string           `json:"transfer_id,omitempty"`
	Reason           string            `json:"reason,omitempty"`
	TotalValue       decimal.Decimal   `json:"total_value"`
	Metadata         map[string]string `json:"metadata,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
}

// ListMovementsRequest filtros del historial de movimientos.
type ListMovementsRequest struct {
	PageRequest
	ItemID string     `query:"item_id"`
	UserID string     `query:"user_id"`
	Type   string     `query:"type"`
	From   *time.Time `query:"from"`
	To     *time.Time `query:"to"`
}
