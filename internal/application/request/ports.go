package request

import (
	"context"

	"github.com/jportela/almoxarifado-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza que la triada verificar stock →
// mutar ítem → registrar movimiento sea atómica.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		itemRepo repository.ItemRepository,
		movRepo repository.MovementRepository,
		requestRepo repository.RequestRepository,
	) error) error
}
