package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jportela/almoxarifado-api/internal/application/movement"
	"github.com/jportela/almoxarifado-api/internal/application/request"
	"github.com/jportela/almoxarifado-api/internal/application/transfer"
	"github.com/jportela/almoxarifado-api/internal/domain/repository"
)

// TxRunner abre transacciones sobre el pool y entrega repositorios atados
// a la tx. Commit si la función retorna nil, rollback en caso contrario.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner crea un TxRunner sobre el pool dado.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

var (
	_ request.TxRunner  = (*TxRunner)(nil)
	_ transfer.TxRunner = (*TxRunner)(nil)
	_ movement.TxRunner = (*TxRunner)(nil)
)

func (r *TxRunner) withTx(ctx context.Context, fn func(q Querier) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// Run ejecuta fn con repositorios de ítems, movimientos y solicitudes en una tx.
func (r *TxRunner) Run(ctx context.Context, fn func(
	itemRepo repository.ItemRepository,
	movRepo repository.MovementRepository,
	requestRepo repository.RequestRepository,
) error) error {
	return r.withTx(ctx, func(q Querier) error {
		return fn(NewItemRepository(q), NewMovementRepository(q), NewRequestRepository(q))
	})
}

// RunTransfer ejecuta fn con repositorios de ítems, movimientos y transferencias en una tx.
func (r *TxRunner) RunTransfer(ctx context.Context, fn func(
	itemRepo repository.ItemRepository,
	movRepo repository.MovementRepository,
	transferRepo repository.TransferRepository,
) error) error {
	return r.withTx(ctx, func(q Querier) error {
		return fn(NewItemRepository(q), NewMovementRepository(q), NewTransferRepository(q))
	})
}

// RunMovement ejecuta fn con repositorios de ítems y movimientos en una tx.
func (r *TxRunner) RunMovement(ctx context.Context, fn func(
	itemRepo repository.ItemRepository,
	movRepo repository.MovementRepository,
) error) error {
	return r.withTx(ctx, func(q Querier) error {
		return fn(NewItemRepository(q), NewMovementRepository(q))
	})
}
