package entity

import "time"

// Estados de una transferencia de custodia.
const (
	TransferStatusPending   = "pending"
	TransferStatusInTransit = "in_transit"
	TransferStatusCompleted = "completed"
	TransferStatusCancelled = "cancelled"
)

// transferTransitions máquina de estados. pending->completed cubre la aceptación
// en línea sin paso físico de despacho; in_transit marca el tramo despachado,
// durante el cual el ítem queda en disposición in_transit.
var transferTransitions = map[string][]string{
	TransferStatusPending:   {TransferStatusInTransit, TransferStatusCompleted, TransferStatusCancelled},
	TransferStatusInTransit: {TransferStatusCompleted, TransferStatusCancelled},
}

// TransferCanTransition indica si el paso from->to es válido.
func TransferCanTransition(from, to string) bool {
	for _, next := range transferTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Transfer representa el traspaso de un ítem entre custodios, o su devolución a bodega.
// ToUserID nil marca la variante "devolución a bodega": no hay destinatario nombrado y
// la aprueba cualquier rol elevado distinto del remitente.
type Transfer struct {
	ID             string
	CompanyID      string
	Code           string // código legible único: TRF-20060102-XXXX
	ItemID         string
	Quantity       int64
	FromUserID     string
	ToUserID       *string // nil = devolución a bodega
	FromLocationID string
	ToLocationID   string
	Reason         string
	Status         string
	ReturnToStock  bool
	SentAt         *time.Time
	ReceivedAt     *time.Time
	ConfirmedBy    *string // quien aceptó/aprobó
	ResponseNotes  string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
