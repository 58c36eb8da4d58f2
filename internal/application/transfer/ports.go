package transfer

import (
	"context"

	"github.com/jportela/almoxarifado-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Toda reasignación de custodia ocurre aquí
// adentro, con la fila del ítem bloqueada.
type TxRunner interface {
	RunTransfer(ctx context.Context, fn func(
		itemRepo repository.ItemRepository,
		movRepo repository.MovementRepository,
		transferRepo repository.TransferRepository,
	) error) error
}
