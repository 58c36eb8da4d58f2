package request

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jportela/almoxarifado-api/internal/application/codegen"
	"github.com/jportela/almoxarifado-api/internal/application/dto"
	"github.com/jportela/almoxarifado-api/internal/application/notify"
	"github.com/jportela/almoxarifado-api/internal/domain"
	"github.com/jportela/almoxarifado-api/internal/domain/custody"
	"github.com/jportela/almoxarifado-api/internal/domain/entity"
	"github.com/jportela/almoxarifado-api/internal/domain/repository"
)

// UseCase ciclo de vida de solicitudes: pending → approved → completed, con
// rejected/cancelled como salidas terminales. El stock se valida al crear y
// OTRA VEZ al aprobar/completar; solo complete compromete cantidades.
type UseCase struct {
	txRunner    TxRunner
	itemRepo    repository.ItemRepository
	requestRepo repository.RequestRepository
	notifier    notify.Notifier
}

// NewUseCase construye el caso de uso.
func NewUseCase(txRunner TxRunner, itemRepo repository.ItemRepository, requestRepo repository.RequestRepository, notifier notify.Notifier) *UseCase {
	return &UseCase{txRunner: txRunner, itemRepo: itemRepo, requestRepo: requestRepo, notifier: notifier}
}

// Create registra una solicitud en estado pending. Valida stock y estado del
// ítem ahora, sabiendo que se revalidará al decidir. El código legible se
// reintenta ante colisión del unique constraint.
func (uc *UseCase) Create(ctx context.Context, companyID, requesterID string, in dto.CreateRequestRequest) (*dto.RequestResponse, error) {
	if in.ItemID == "" || in.Quantity < 1 {
		return nil, domain.ErrInvalidInput
	}
	priority := in.Priority
	if priority == "" {
		priority = entity.PriorityNormal
	}
	if !entity.ValidPriority(priority) {
		return nil, domain.ErrInvalidInput
	}

	item, err := uc.itemRepo.GetByID(in.ItemID)
	if err != nil {
		return nil, err
	}
	if item == nil || item.CompanyID != companyID {
		// un ítem de otra empresa se presenta como inexistente
		return nil, domain.ErrNotFound
	}
	if err := custody.ValidateAvailability(item, in.Quantity); err != nil {
		return nil, err
	}

	now := time.Now()
	req := &entity.Request{
		ID:          uuid.New().String(),
		CompanyID:   companyID,
		RequesterID: requesterID,
		ItemID:      in.ItemID,
		Quantity:    in.Quantity,
		Purpose:     in.Purpose,
		Priority:    priority,
		Status:      entity.RequestStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for attempt := 0; ; attempt++ {
		req.Code = codegen.New("REQ", now)
		err = uc.requestRepo.Create(req)
		if err == nil {
			break
		}
		if !errors.Is(err, domain.ErrDuplicate) || attempt+1 >= codegen.MaxAttempts {
			return nil, err
		}
	}

	_ = uc.notifier.Publish(ctx, notify.Notification{
		Type:        notify.TypeRequestCreated,
		CompanyID:   companyID,
		MinRole:     entity.RoleAlmacenista,
		ReferenceID: req.ID,
		Message:     fmt.Sprintf("solicitud %s pendiente de aprobación", req.Code),
	})
	return toResponse(req), nil
}

// Approve aprueba una solicitud pending. Revalida el stock porque pudo haberse
// consumido desde la creación; NO descuenta cantidades (eso ocurre en Complete).
func (uc *UseCase) Approve(ctx context.Context, companyID, approverID, role, requestID, notes string) (*dto.RequestResponse, error) {
	if !entity.IsElevated(role) {
		return nil, domain.ErrForbidden
	}
	var req *entity.Request
	err := uc.txRunner.Run(ctx, func(items repository.ItemRepository, _ repository.MovementRepository, requests repository.RequestRepository) error {
		var err error
		req, err = uc.lockRequest(requests, companyID, requestID)
		if err != nil {
			return err
		}
		if req.Status != entity.RequestStatusPending {
			return domain.ErrInvalidState
		}
		item, err := items.GetByID(req.ItemID)
		if err != nil {
			return err
		}
		if err := custody.ValidateAvailability(item, req.Quantity); err != nil {
			return err
		}
		now := time.Now()
		req.Status = entity.RequestStatusApproved
		req.ApproverID = &approverID
		req.ApprovalNotes = notes
		req.ApprovedAt = &now
		req.UpdatedAt = now
		return requests.Update(req)
	})
	if err != nil {
		return nil, err
	}
	uc.notifyDecision(ctx, req, "aprobada")
	return toResponse(req), nil
}

// Reject rechaza una solicitud pending (terminal, sin mutación de ítem).
func (uc *UseCase) Reject(ctx context.Context, companyID, approverID, role, requestID, reason string) (*dto.RequestResponse, error) {
	if !entity.IsElevated(role) {
		return nil, domain.ErrForbidden
	}
	var req *entity.Request
	err := uc.txRunner.Run(ctx, func(_ repository.ItemRepository, _ repository.MovementRepository, requests repository.RequestRepository) error {
		var err error
		req, err = uc.lockRequest(requests, companyID, requestID)
		if err != nil {
			return err
		}
		if req.Status != entity.RequestStatusPending {
			return domain.ErrInvalidState
		}
		now := time.Now()
		req.Status = entity.RequestStatusRejected
		req.ApproverID = &approverID
		req.RejectedReason = reason
		req.RejectedAt = &now
		req.UpdatedAt = now
		return requests.Update(req)
	})
	if err != nil {
		return nil, err
	}
	uc.notifyDecision(ctx, req, "rechazada")
	return toResponse(req), nil
}

// Complete entrega los ítems de una solicitud approved: descuenta stock, asigna
// la custodia al solicitante y registra el movimiento exit, todo en una sola
// transacción con la fila del ítem bloqueada.
func (uc *UseCase) Complete(ctx context.Context, companyID, delivererID, role, requestID, notes string) (*dto.RequestResponse, error) {
	if !entity.IsElevated(role) {
		return nil, domain.ErrForbidden
	}
	var req *entity.Request
	var lowStock *entity.Item
	err := uc.txRunner.Run(ctx, func(items repository.ItemRepository, movements repository.MovementRepository, requests repository.RequestRepository) error {
		var err error
		req, err = uc.lockRequest(requests, companyID, requestID)
		if err != nil {
			return err
		}
		if req.Status != entity.RequestStatusApproved {
			return domain.ErrInvalidState
		}
		item, err := items.GetForUpdate(req.ItemID)
		if err != nil {
			return err
		}
		if err := custody.ValidateAvailability(item, req.Quantity); err != nil {
			return err
		}

		now := time.Now()
		fromLocation := item.Disposition.LocationID
		mov, err := custody.Apply(item, delivererID, entity.MovementTypeExit, req.Quantity, entity.WithCustodian(req.RequesterID), now)
		if err != nil {
			return err
		}
		mov.RequestID = &req.ID
		mov.FromLocationID = fromLocation
		mov.Reason = req.Purpose

		if err := items.Update(item); err != nil {
			return err
		}
		if err := movements.Create(mov); err != nil {
			return err
		}

		req.Status = entity.RequestStatusCompleted
		req.DelivererID = &delivererID
		req.DeliveryNotes = notes
		req.CompletedAt = &now
		req.UpdatedAt = now
		if err := requests.Update(req); err != nil {
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
	uc.notifyDecision(ctx, req, "entregada")
	if lowStock != nil {
		_ = uc.notifier.Publish(ctx, notify.Notification{
			Type:        notify.TypeLowStock,
			CompanyID:   companyID,
			MinRole:     entity.RoleAlmacenista,
			ReferenceID: lowStock.ID,
			Message:     fmt.Sprintf("ítem %s bajo el stock mínimo (%d)", lowStock.Name, lowStock.Quantity),
		})
	}
	return toResponse(req), nil
}

// Cancel anula una solicitud pending o approved. La puede invocar el propio
// solicitante o un rol elevado; nunca muta el ítem (nada fue comprometido).
func (uc *UseCase) Cancel(ctx context.Context, companyID, actorID, role, requestID string) (*dto.RequestResponse, error) {
	var req *entity.Request
	err := uc.txRunner.Run(ctx, func(_ repository.ItemRepository, _ repository.MovementRepository, requests repository.RequestRepository) error {
		var err error
		req, err = uc.lockRequest(requests, companyID, requestID)
		if err != nil {
			return err
		}
		if req.RequesterID != actorID && !entity.IsElevated(role) {
			return domain.ErrForbidden
		}
		if !entity.RequestCanTransition(req.Status, entity.RequestStatusCancelled) {
			return domain.ErrInvalidState
		}
		now := time.Now()
		req.Status = entity.RequestStatusCancelled
		req.CancelledAt = &now
		req.UpdatedAt = now
		return requests.Update(req)
	})
	if err != nil {
		return nil, err
	}
	return toResponse(req), nil
}

// GetByID devuelve una solicitud. El rol base solo ve las propias.
func (uc *UseCase) GetByID(companyID, actorID, role, requestID string) (*dto.RequestResponse, error) {
	req, err := uc.requestRepo.GetByID(requestID)
	if err != nil {
		return nil, err
	}
	if req == nil || req.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	if req.RequesterID != actorID && !entity.IsElevated(role) {
		return nil, domain.ErrForbidden
	}
	return toResponse(req), nil
}

// List lista solicitudes paginadas. El rol base queda limitado a las propias.
func (uc *UseCase) List(companyID, actorID, role string, in dto.ListWorkflowRequest) ([]*dto.RequestResponse, dto.PageResponse, error) {
	in.DefaultPage()
	f := repository.WorkflowFilter{
		Status: in.Status,
		From:   in.From,
		To:     in.To,
		Limit:  in.Limit,
		Offset: in.Offset(),
	}
	if !entity.IsElevated(role) {
		f.RequesterID = actorID
	}
	list, total, err := uc.requestRepo.List(companyID, f)
	if err != nil {
		return nil, dto.PageResponse{}, err
	}
	out := make([]*dto.RequestResponse, 0, len(list))
	for _, r := range list {
		out = append(out, toResponse(r))
	}
	return out, dto.NewPageResponse(in.Page, in.Limit, total), nil
}

// lockRequest bloquea la fila de la solicitud dentro de la tx y valida tenencia.
func (uc *UseCase) lockRequest(requests repository.RequestRepository, companyID, requestID string) (*entity.Request, error) {
	req, err := requests.GetForUpdate(requestID)
	if err != nil {
		return nil, err
	}
	if req == nil || req.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	return req, nil
}

func (uc *UseCase) notifyDecision(ctx context.Context, req *entity.Request, verb string) {
	_ = uc.notifier.Publish(ctx, notify.Notification{
		Type:        notify.TypeRequestDecided,
		CompanyID:   req.CompanyID,
		UserID:      req.RequesterID,
		ReferenceID: req.ID,
		Message:     fmt.Sprintf("solicitud %s %s", req.Code, verb),
	})
}

func toResponse(r *entity.Request) *dto.RequestResponse {
	if r == nil {
		return nil
	}
	return &dto.RequestResponse{
		ID:             r.ID,
		Code:           r.Code,
		CompanyID:      r.CompanyID,
		RequesterID:    r.RequesterID,
		ItemID:         r.ItemID,
		Quantity:       r.Quantity,
		Purpose:        r.Purpose,
		Priority:       r.Priority,
		Status:         r.Status,
		ApproverID:     r.ApproverID,
		ApprovalNotes:  r.ApprovalNotes,
		ApprovedAt:     r.ApprovedAt,
		RejectedReason: r.RejectedReason,
		RejectedAt:     r.RejectedAt,
		DelivererID:    r.DelivererID,
		DeliveryNotes:  r.DeliveryNotes,
		CompletedAt:    r.CompletedAt,
		CancelledAt:    r.CancelledAt,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}
