package movement

import (
	"context"
	"fmt"
	"time"

	"github.com/jportela/almoxarifado-api/internal/application/dto"
	"github.com/jportela/almoxarifado-api/internal/application/notify"
	"github.com/jportela/almoxarifado-api/internal/domain"
	"github.com/jportela/almoxarifado-api/internal/domain/custody"
	"github.com/jportela/almoxarifado-api/internal/domain/entity"
	"github.com/jportela/almoxarifado-api/internal/domain/repository"
)

// UseCase movimientos manuales (entrada, ajuste, pérdida, mantenimiento, baja)
// y consultas de historial. Los tipos exit/return/transfer solo nacen de los
// workflows; aquí se rechazan.
type UseCase struct {
	txRunner TxRunner
	movRepo  repository.MovementRepository
	notifier notify.Notifier
}

// NewUseCase construye el caso de uso.
func NewUseCase(txRunner TxRunner, movRepo repository.MovementRepository, notifier notify.Notifier) *UseCase {
	return &UseCase{txRunner: txRunner, movRepo: movRepo, notifier: notifier}
}

// manualTypes tipos admitidos por registro manual.
var manualTypes = map[string]bool{
	entity.MovementTypeEntry:       true,
	entity.MovementTypeAdjustment:  true,
	entity.MovementTypeLoss:        true,
	entity.MovementTypeMaintenance: true,
	entity.MovementTypeDisposal:    true,
}

// Register aplica un movimiento manual con la fila del ítem bloqueada y el par
// mutación+auditoría en una sola transacción. Requiere rol elevado.
func (uc *UseCase) Register(ctx context.Context, companyID, actorID, role string, in dto.RegisterMovementRequest) (*dto.MovementResponse, error) {
	if !entity.IsElevated(role) {
		return nil, domain.ErrForbidden
	}
	if !manualTypes[in.Type] {
		return nil, domain.ErrInvalidInput
	}

	var mov *entity.Movement
	var lowStock *entity.Item
	err := uc.txRunner.RunMovement(ctx, func(items repository.ItemRepository, movements repository.MovementRepository) error {
		item, err := items.GetForUpdate(in.ItemID)
		if err != nil {
			return err
		}
		if item == nil || item.CompanyID != companyID {
			return domain.ErrNotFound
		}
		if !item.Active {
			return domain.ErrItemUnavailable
		}

		disp := item.Disposition
		switch in.Type {
		case entity.MovementTypeMaintenance:
			disp = entity.InMaintenance()
		case entity.MovementTypeEntry:
			if in.LocationID != "" {
				disp = entity.InStock(in.LocationID)
			} else if disp.Kind != entity.DispositionInStock {
				disp = entity.InStock(disp.LocationID)
			}
		}

		now := time.Now()
		mov, err = custody.Apply(item, actorID, in.Type, in.Quantity, disp, now)
		if err != nil {
			return err
		}
		mov.Reason = in.Reason
		mov.ToLocationID = in.LocationID
		if err := items.Update(item); err != nil {
			return err
		}
		if err := movements.Create(mov); err != nil {
			return err
		}
		if item.BelowMinimum() {
			lowStock = item
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if lowStock != nil {
		_ = uc.notifier.Publish(ctx, notify.Notification{
			Type:        notify.TypeLowStock,
			CompanyID:   companyID,
			MinRole:     entity.RoleAlmacenista,
			ReferenceID: lowStock.ID,
			Message:     fmt.Sprintf("ítem %s bajo el stock mínimo (%d)", lowStock.Name, lowStock.Quantity),
		})
	}
	return toMovementResponse(mov), nil
}

// List consulta el historial de movimientos (solo lectura, fuera del camino
// crítico de las invariantes).
func (uc *UseCase) List(companyID string, in dto.ListMovementsRequest) ([]*dto.MovementResponse, dto.PageResponse, error) {
	in.DefaultPage()
	f := repository.MovementFilter{
		ItemID: in.ItemID,
		UserID: in.UserID,
		Type:   in.Type,
		From:   in.From,
		To:     in.To,
		Limit:  in.Limit,
		Offset: in.Offset(),
	}
	list, total, err := uc.movRepo.List(companyID, f)
	if err != nil {
		return nil, dto.PageResponse{}, err
	}
	out := make([]*dto.MovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, toMovementResponse(m))
	}
	return out, dto.NewPageResponse(in.Page, in.Limit, total), nil
}

func toMovementResponse(m *entity.Movement) *dto.MovementResponse {
	if m == nil {
		return nil
	}
	return &dto.MovementResponse{
		ID:               m.ID,
		CompanyID:        m.CompanyID,
		ItemID:           m.ItemID,
		UserID:           m.UserID,
		Type:             m.Type,
		Quantity:         m.Quantity,
		PreviousQuantity: m.PreviousQuantity,
		NewQuantity:      m.NewQuantity,
		FromLocationID:   m.FromLocationID,
		ToLocationID:     m.ToLocationID,
		RequestID:        m.RequestID,
		TransferID:       m.TransferID,
		Reason:           m.Reason,
		TotalValue:       m.TotalValue,
		Metadata:         m.Metadata,
		CreatedAt:        m.CreatedAt,
	}
}
