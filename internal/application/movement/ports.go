package movement

import (
	"context"

	"github.com/jportela/almoxarifado-api/internal/domain/repository"
)

// TxRunner transacción mínima para ajustes manuales: ítem + movimiento.
type TxRunner interface {
	RunMovement(ctx context.Context, fn func(
		itemRepo repository.ItemRepository,
		movRepo repository.MovementRepository,
	) error) error
}
