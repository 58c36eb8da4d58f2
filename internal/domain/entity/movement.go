package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de inventario.
const (
	MovementTypeEntry       = "entry"       // entrada a bodega
	MovementTypeExit        = "exit"        // salida (entrega a custodio)
	MovementTypeReturn      = "return"      // devolución a bodega
	MovementTypeTransfer    = "transfer"    // cambio de custodio, sin variación de stock
	MovementTypeAdjustment  = "adjustment"  // ajuste manual, delta con signo
	MovementTypeLoss        = "loss"        // pérdida
	MovementTypeMaintenance = "maintenance" // envío a mantenimiento, sin variación de stock
	MovementTypeDisposal    = "disposal"    // baja definitiva
)

// MovementSign devuelve la convención de signo del tipo: +1 aumenta stock, -1 lo
// disminuye, 0 cuando el tipo no mueve cantidades (transfer, maintenance) o cuando
// el delta viene firmado en la propia cantidad (adjustment).
func MovementSign(movType string) int {
	switch movType {
	case MovementTypeEntry, MovementTypeReturn:
		return 1
	case MovementTypeExit, MovementTypeLoss, MovementTypeDisposal:
		return -1
	default:
		return 0
	}
}

// ValidMovementType indica si el tipo pertenece a la taxonomía conocida.
func ValidMovementType(movType string) bool {
	switch movType {
	case MovementTypeEntry, MovementTypeExit, MovementTypeReturn, MovementTypeTransfer,
		MovementTypeAdjustment, MovementTypeLoss, MovementTypeMaintenance, MovementTypeDisposal:
		return true
	}
	return false
}

// Movement es el registro de auditoría inmutable de todo cambio de cantidad o custodia.
// Nunca se actualiza ni se borra: es la fuente de verdad de "qué pasó".
type Movement struct {
	ID               string
	CompanyID        string
	ItemID           string
	UserID           string // usuario que ejecutó la operación
	Type             string
	Quantity         int64 // magnitud movida (firmada solo en adjustment)
	PreviousQuantity int64
	NewQuantity      int64
	FromLocationID   string
	ToLocationID     string
	RequestID        *string // workflow que originó el movimiento, si aplica
	TransferID       *string
	Reason           string
	TotalValue       decimal.Decimal // Quantity * valor unitario del ítem al momento del movimiento
	Metadata         map[string]string
	CreatedAt        time.Time
}
