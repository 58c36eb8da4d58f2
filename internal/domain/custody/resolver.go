// Package custody concentra las invariantes de custodia y cantidad que antes
// estaban repetidas en cada handler: un ítem tiene exactamente un custodio o
// ubicación activa, la cantidad nunca baja de cero, y todo cambio de
// cantidad/custodia produce exactamente un movimiento de auditoría.
package custody

import (
	"time"

	"github.com/google/uuid"
	"github.com/jportela/almoxarifado-api/internal/domain"
	"github.com/jportela/almoxarifado-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ValidateAvailability verifica que un ítem pueda ser origen de una nueva
// solicitud o salida por la cantidad pedida. Se invoca al crear el workflow y
// OTRA VEZ al decidirlo: entre una y otra el stock pudo haberse consumido.
func ValidateAvailability(item *entity.Item, quantity int64) error {
	if item == nil {
		return domain.ErrNotFound
	}
	if quantity <= 0 {
		return domain.ErrInvalidInput
	}
	if item.TrackingMode == entity.TrackingBySerial && quantity != 1 {
		return domain.ErrInvalidInput
	}
	if !item.Active || item.Status != entity.ItemStatusAvailable {
		return domain.ErrItemUnavailable
	}
	if item.Quantity < quantity {
		return domain.ErrInsufficientStock
	}
	return nil
}

// Apply ejecuta un cambio de custodia/cantidad sobre el ítem y devuelve el
// movimiento de auditoría correspondiente. El caller DEBE persistir ambos en la
// misma transacción: ningún cambio sin su movimiento, ningún movimiento sin su
// cambio. quantity es magnitud positiva salvo en adjustment, donde viene firmada.
func Apply(item *entity.Item, actorID, movType string, quantity int64, disp entity.Disposition, now time.Time) (*entity.Movement, error) {
	if item == nil {
		return nil, domain.ErrNotFound
	}
	if !entity.ValidMovementType(movType) {
		return nil, domain.ErrInvalidInput
	}

	sign := entity.MovementSign(movType)
	var delta int64
	switch {
	case movType == entity.MovementTypeAdjustment:
		if quantity == 0 {
			return nil, domain.ErrInvalidInput
		}
		delta = quantity
	case sign == 0:
		// transfer y maintenance no mueven cantidades
		if quantity < 0 {
			return nil, domain.ErrInvalidInput
		}
		delta = 0
	default:
		if quantity <= 0 {
			return nil, domain.ErrInvalidInput
		}
		delta = int64(sign) * quantity
	}

	previous := item.Quantity
	next := previous + delta
	if next < 0 {
		return nil, domain.ErrInsufficientStock
	}

	item.Quantity = next
	item.Disposition = disp
	item.UpdatedAt = now

	switch {
	case movType == entity.MovementTypeMaintenance:
		item.Status = entity.ItemStatusMaintenance
	case movType == entity.MovementTypeDisposal && next == 0:
		item.Status = entity.ItemStatusRetired
	case next == 0:
		item.Status = entity.ItemStatusInUse
	default:
		item.Status = entity.ItemStatusAvailable
	}

	magnitude := quantity
	if magnitude < 0 {
		magnitude = -magnitude
	}
	mov := &entity.Movement{
		ID:               uuid.New().String(),
		CompanyID:        item.CompanyID,
		ItemID:           item.ID,
		UserID:           actorID,
		Type:             movType,
		Quantity:         quantity,
		PreviousQuantity: previous,
		NewQuantity:      next,
		TotalValue:       item.UnitValue.Mul(decimal.NewFromInt(magnitude)),
		CreatedAt:        now,
	}
	return mov, nil
}
