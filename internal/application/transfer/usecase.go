package transfer

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

// UseCase ciclo de vida de transferencias de custodia: par a par con aceptación
// explícita del destinatario, devolución a bodega con aprobación por rol, lote
// de entrega inmediata y el camino QR offline que desemboca en el lote.
type UseCase struct {
	txRunner     TxRunner
	itemRepo     repository.ItemRepository
	transferRepo repository.TransferRepository
	userRepo     repository.UserRepository
	notifier     notify.Notifier
}

// NewUseCase construye el caso de uso.
func NewUseCase(txRunner TxRunner, itemRepo repository.ItemRepository, transferRepo repository.TransferRepository, userRepo repository.UserRepository, notifier notify.Notifier) *UseCase {
	return &UseCase{txRunner: txRunner, itemRepo: itemRepo, transferRepo: transferRepo, userRepo: userRepo, notifier: notifier}
}

// Create registra una transferencia pending. Crear no mueve custodia: el
// destinatario debe responder (o un rol elevado aprobar la devolución).
// ToUserID vacío es la variante devolución a bodega, sin destinatario nombrado.
// Solo el custodio actual puede originar una transferencia; la salida desde
// bodega va por el flujo de solicitudes.
func (uc *UseCase) Create(ctx context.Context, companyID, actorID string, in dto.CreateTransferRequest) (*dto.TransferResponse, error) {
	item, err := uc.itemRepo.GetByID(in.ItemID)
	if err != nil {
		return nil, err
	}
	if item == nil || item.CompanyID != companyID {
		// un ítem de otra empresa se presenta como inexistente
		return nil, domain.ErrNotFound
	}
	if err := validateSource(item, actorID); err != nil {
		return nil, err
	}

	quantity := in.Quantity
	if item.TrackingMode == entity.TrackingBySerial {
		quantity = 1
	} else if quantity < 1 {
		return nil, domain.ErrInvalidInput
	}

	returnToStock := in.ToUserID == ""
	var toUserID *string
	if !returnToStock {
		recipient, err := uc.lookupUser(companyID, in.ToUserID)
		if err != nil {
			return nil, err
		}
		if recipient.ID == actorID {
			return nil, domain.ErrInvalidInput
		}
		toUserID = &recipient.ID
	}

	now := time.Now()
	tr := &entity.Transfer{
		ID:             uuid.New().String(),
		CompanyID:      companyID,
		ItemID:         item.ID,
		Quantity:       quantity,
		FromUserID:     actorID,
		ToUserID:       toUserID,
		FromLocationID: item.Disposition.LocationID,
		ToLocationID:   in.ToLocationID,
		Reason:         in.Reason,
		Status:         entity.TransferStatusPending,
		ReturnToStock:  returnToStock,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.createWithCode(tr, now); err != nil {
		return nil, err
	}

	if returnToStock {
		_ = uc.notifier.Publish(ctx, notify.Notification{
			Type:        notify.TypeReturnPending,
			CompanyID:   companyID,
			MinRole:     entity.RoleAlmacenista,
			ReferenceID: tr.ID,
			Message:     fmt.Sprintf("devolución %s pendiente de aprobación", tr.Code),
		})
	} else {
		_ = uc.notifier.Publish(ctx, notify.Notification{
			Type:        notify.TypeTransferPending,
			CompanyID:   companyID,
			UserID:      *toUserID,
			ReferenceID: tr.ID,
			Message:     fmt.Sprintf("transferencia %s espera tu respuesta", tr.Code),
		})
	}
	return toTransferResponse(tr), nil
}

// Send marca la transferencia como despachada (pending → in_transit). Solo el
// remitente. El ítem pasa a disposición in_transit ligada a esta transferencia,
// con su movimiento de auditoría; la custodia final se resuelve al responder.
func (uc *UseCase) Send(ctx context.Context, companyID, actorID, transferID string) (*dto.TransferResponse, error) {
	var tr *entity.Transfer
	err := uc.txRunner.RunTransfer(ctx, func(items repository.ItemRepository, movements repository.MovementRepository, transfers repository.TransferRepository) error {
		var err error
		tr, err = lockTransfer(transfers, companyID, transferID)
		if err != nil {
			return err
		}
		if tr.FromUserID != actorID {
			return domain.ErrForbidden
		}
		if tr.Status != entity.TransferStatusPending {
			return domain.ErrInvalidState
		}
		item, err := items.GetForUpdate(tr.ItemID)
		if err != nil {
			return err
		}
		if err := validateTransferCustody(item, tr); err != nil {
			return err
		}
		now := time.Now()
		mov, err := custody.Apply(item, actorID, entity.MovementTypeTransfer, tr.Quantity, entity.InTransit(tr.ID), now)
		if err != nil {
			return err
		}
		mov.TransferID = &tr.ID
		mov.Reason = tr.Reason
		if err := items.Update(item); err != nil {
			return err
		}
		if err := movements.Create(mov); err != nil {
			return err
		}
		tr.Status = entity.TransferStatusInTransit
		tr.SentAt = &now
		tr.UpdatedAt = now
		return transfers.Update(tr)
	})
	if err != nil {
		return nil, err
	}
	return toTransferResponse(tr), nil
}

// Respond procesa la respuesta del destinatario de una transferencia par a par.
// accept reasigna la custodia y registra el movimiento transfer; reject cancela
// sin tocar el ítem (la custodia sigue siendo del remitente).
func (uc *UseCase) Respond(ctx context.Context, companyID, actorID, transferID string, in dto.RespondTransferRequest) (*dto.TransferResponse, error) {
	if in.Action != "accept" && in.Action != "reject" {
		return nil, domain.ErrInvalidInput
	}
	var tr *entity.Transfer
	err := uc.txRunner.RunTransfer(ctx, func(items repository.ItemRepository, movements repository.MovementRepository, transfers repository.TransferRepository) error {
		var err error
		tr, err = lockTransfer(transfers, companyID, transferID)
		if err != nil {
			return err
		}
		if tr.ReturnToStock || tr.ToUserID == nil {
			return domain.ErrInvalidState // las devoluciones se deciden vía ApproveReturn
		}
		if *tr.ToUserID != actorID {
			return domain.ErrForbidden
		}
		now := time.Now()
		if in.Action == "reject" {
			if !entity.TransferCanTransition(tr.Status, entity.TransferStatusCancelled) {
				return domain.ErrInvalidState
			}
			if err := releaseTransit(items, movements, tr, actorID, now); err != nil {
				return err
			}
			tr.Status = entity.TransferStatusCancelled
			tr.ConfirmedBy = &actorID
			tr.ResponseNotes = in.Notes
			tr.UpdatedAt = now
			return transfers.Update(tr)
		}

		if !entity.TransferCanTransition(tr.Status, entity.TransferStatusCompleted) {
			return domain.ErrInvalidState
		}
		item, err := items.GetForUpdate(tr.ItemID)
		if err != nil {
			return err
		}
		if err := validateTransferCustody(item, tr); err != nil {
			return err
		}
		mov, err := custody.Apply(item, actorID, entity.MovementTypeTransfer, tr.Quantity, entity.WithCustodian(actorID), now)
		if err != nil {
			return err
		}
		mov.TransferID = &tr.ID
		mov.Reason = tr.Reason
		if err := items.Update(item); err != nil {
			return err
		}
		if err := movements.Create(mov); err != nil {
			return err
		}
		tr.Status = entity.TransferStatusCompleted
		tr.ReceivedAt = &now
		tr.ConfirmedBy = &actorID
		tr.ResponseNotes = in.Notes
		tr.UpdatedAt = now
		return transfers.Update(tr)
	})
	if err != nil {
		return nil, err
	}
	verb := "aceptada"
	if in.Action == "reject" {
		verb = "rechazada"
	}
	_ = uc.notifier.Publish(ctx, notify.Notification{
		Type:        notify.TypeTransferDecided,
		CompanyID:   companyID,
		UserID:      tr.FromUserID,
		ReferenceID: tr.ID,
		Message:     fmt.Sprintf("transferencia %s %s", tr.Code, verb),
	})
	return toTransferResponse(tr), nil
}

// ApproveReturn aprueba una devolución a bodega. Aprobación por difusión:
// cualquier rol elevado puede hacerlo, excepto el propio remitente.
func (uc *UseCase) ApproveReturn(ctx context.Context, companyID, actorID, role, transferID string, in dto.ApproveReturnRequest) (*dto.TransferResponse, error) {
	if !entity.IsElevated(role) {
		return nil, domain.ErrForbidden
	}
	var tr *entity.Transfer
	err := uc.txRunner.RunTransfer(ctx, func(items repository.ItemRepository, movements repository.MovementRepository, transfers repository.TransferRepository) error {
		var err error
		tr, err = lockTransfer(transfers, companyID, transferID)
		if err != nil {
			return err
		}
		if !tr.ReturnToStock {
			return domain.ErrInvalidState
		}
		if tr.FromUserID == actorID {
			return domain.ErrForbidden // nadie aprueba su propia devolución
		}
		if !entity.TransferCanTransition(tr.Status, entity.TransferStatusCompleted) {
			return domain.ErrInvalidState
		}
		item, err := items.GetForUpdate(tr.ItemID)
		if err != nil {
			return err
		}
		if err := validateTransferCustody(item, tr); err != nil {
			return err
		}
		location := in.LocationID
		if location == "" {
			location = tr.ToLocationID
		}
		now := time.Now()
		mov, err := custody.Apply(item, actorID, entity.MovementTypeReturn, tr.Quantity, entity.InStock(location), now)
		if err != nil {
			return err
		}
		mov.TransferID = &tr.ID
		mov.ToLocationID = location
		mov.Reason = tr.Reason
		if err := items.Update(item); err != nil {
			return err
		}
		if err := movements.Create(mov); err != nil {
			return err
		}
		tr.Status = entity.TransferStatusCompleted
		tr.ReceivedAt = &now
		tr.ConfirmedBy = &actorID
		tr.ResponseNotes = in.Notes
		tr.ToLocationID = location
		tr.UpdatedAt = now
		return transfers.Update(tr)
	})
	if err != nil {
		return nil, err
	}
	_ = uc.notifier.Publish(ctx, notify.Notification{
		Type:        notify.TypeTransferDecided,
		CompanyID:   companyID,
		UserID:      tr.FromUserID,
		ReferenceID: tr.ID,
		Message:     fmt.Sprintf("devolución %s aprobada", tr.Code),
	})
	return toTransferResponse(tr), nil
}

// Cancel anula una transferencia no terminal. Remitente o rol elevado. Si el
// ítem quedó en tránsito por esta transferencia, la custodia vuelve al remitente.
func (uc *UseCase) Cancel(ctx context.Context, companyID, actorID, role, transferID string) (*dto.TransferResponse, error) {
	var tr *entity.Transfer
	err := uc.txRunner.RunTransfer(ctx, func(items repository.ItemRepository, movements repository.MovementRepository, transfers repository.TransferRepository) error {
		var err error
		tr, err = lockTransfer(transfers, companyID, transferID)
		if err != nil {
			return err
		}
		if tr.FromUserID != actorID && !entity.IsElevated(role) {
			return domain.ErrForbidden
		}
		if !entity.TransferCanTransition(tr.Status, entity.TransferStatusCancelled) {
			return domain.ErrInvalidState
		}
		now := time.Now()
		if err := releaseTransit(items, movements, tr, actorID, now); err != nil {
			return err
		}
		tr.Status = entity.TransferStatusCancelled
		tr.UpdatedAt = now
		return transfers.Update(tr)
	})
	if err != nil {
		return nil, err
	}
	return toTransferResponse(tr), nil
}

// CreateBatch transfiere una lista de ítems a un destinatario con entrega
// inmediata (flujo móvil: ambas partes presentes). Cada ítem va en su propia
// transacción; el fallo de uno no revierte a los demás y se reporta por ítem.
func (uc *UseCase) CreateBatch(ctx context.Context, companyID, actorID string, in dto.BatchTransferRequest) (*dto.BatchTransferResponse, error) {
	if len(in.ItemIDs) == 0 {
		return nil, domain.ErrInvalidInput
	}
	recipient, err := uc.lookupUser(companyID, in.ToUserID)
	if err != nil {
		return nil, err
	}
	if recipient.ID == actorID {
		return nil, domain.ErrInvalidInput
	}

	out := &dto.BatchTransferResponse{Total: len(in.ItemIDs)}
	for _, itemID := range in.ItemIDs {
		transferID, err := uc.transferOne(ctx, companyID, actorID, itemID, recipient.ID, actorID, in.Reason)
		if err != nil {
			out.Failed++
			out.Items = append(out.Items, dto.BatchItemResult{ItemID: itemID, OK: false, Error: err.Error()})
			continue
		}
		out.Succeeded++
		out.Items = append(out.Items, dto.BatchItemResult{ItemID: itemID, OK: true, TransferID: transferID})
	}

	if out.Succeeded > 0 {
		_ = uc.notifier.Publish(ctx, notify.Notification{
			Type:      notify.TypeTransferDecided,
			CompanyID: companyID,
			UserID:    recipient.ID,
			Message:   fmt.Sprintf("recibiste %d ítem(s) de un lote", out.Succeeded),
		})
	}
	return out, nil
}

// GenerateQR serializa una intención de transferencia para entrega offline.
// No muta estado: la propuesta solo se vuelve efectiva al confirmarse contra
// las cantidades vivas.
func (uc *UseCase) GenerateQR(ctx context.Context, companyID, actorID string, in dto.GenerateQRRequest) (string, error) {
	if len(in.ItemIDs) == 0 {
		return "", domain.ErrInvalidInput
	}
	recipient, err := uc.lookupUser(companyID, in.ToUserID)
	if err != nil {
		return "", err
	}
	if recipient.ID == actorID {
		return "", domain.ErrInvalidInput
	}
	sender, err := uc.lookupUser(companyID, actorID)
	if err != nil {
		return "", err
	}

	payload := QRPayload{
		TransferID:   uuid.New().String(),
		FromUserID:   sender.ID,
		FromUserName: sender.Name,
		ToUserID:     recipient.ID,
		ToUserName:   recipient.Name,
		CreatedAt:    time.Now().UTC(),
	}
	for _, itemID := range in.ItemIDs {
		item, err := uc.itemRepo.GetByID(itemID)
		if err != nil {
			return "", err
		}
		if item == nil || item.CompanyID != companyID {
			return "", domain.ErrNotFound
		}
		if !item.Active || item.CustodianID() != actorID {
			return "", domain.ErrItemUnavailable
		}
		payload.Items = append(payload.Items, QRItem{ID: item.ID, Name: item.Name, SealCode: item.SealCode})
	}
	return EncodeQRPayload(payload)
}

// ConfirmQR confirma un payload escaneado: verifica que quien escanea sea el
// destinatario declarado, exige una decisión por cada ítem y ejecuta el lote
// con el subconjunto aceptado. Los rechazados quedan registrados como
// transferencias canceladas, sin mutación de custodia.
func (uc *UseCase) ConfirmQR(ctx context.Context, companyID, actorID string, in dto.ConfirmQRRequest) (*dto.BatchTransferResponse, error) {
	payload, err := DecodeQRPayload(in.Payload)
	if err != nil {
		return nil, err
	}
	if err := payload.ValidateRecipient(actorID); err != nil {
		return nil, err
	}
	for _, it := range payload.Items {
		if _, ok := in.Decisions[it.ID]; !ok {
			return nil, fmt.Errorf("%w: falta decisión para el ítem %s", domain.ErrInvalidInput, it.ID)
		}
	}

	out := &dto.BatchTransferResponse{Total: len(payload.Items)}
	now := time.Now()
	for _, it := range payload.Items {
		if !in.Decisions[it.ID] {
			// rechazado: registro de auditoría sin transferencia efectiva
			tr := &entity.Transfer{
				ID:          uuid.New().String(),
				CompanyID:   companyID,
				ItemID:      it.ID,
				Quantity:    1,
				FromUserID:  payload.FromUserID,
				ToUserID:    &payload.ToUserID,
				Reason:      "rechazado en confirmación QR",
				Status:      entity.TransferStatusCancelled,
				ConfirmedBy: &actorID,
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			if err := uc.createWithCode(tr, now); err != nil {
				out.Failed++
				out.Items = append(out.Items, dto.BatchItemResult{ItemID: it.ID, OK: false, Error: err.Error()})
				continue
			}
			out.Failed++
			out.Items = append(out.Items, dto.BatchItemResult{ItemID: it.ID, OK: false, TransferID: tr.ID, Error: "rechazado por el destinatario"})
			continue
		}
		transferID, err := uc.transferOne(ctx, companyID, payload.FromUserID, it.ID, actorID, actorID, "confirmación QR")
		if err != nil {
			out.Failed++
			out.Items = append(out.Items, dto.BatchItemResult{ItemID: it.ID, OK: false, Error: err.Error()})
			continue
		}
		out.Succeeded++
		out.Items = append(out.Items, dto.BatchItemResult{ItemID: it.ID, OK: true, TransferID: transferID})
	}

	_ = uc.notifier.Publish(ctx, notify.Notification{
		Type:        notify.TypeTransferDecided,
		CompanyID:   companyID,
		UserID:      payload.FromUserID,
		ReferenceID: payload.TransferID,
		Message:     fmt.Sprintf("confirmación QR: %d aceptado(s), %d rechazado(s)", out.Succeeded, out.Failed),
	})
	return out, nil
}

// GetByID devuelve una transferencia. El rol base solo ve aquellas donde participa.
func (uc *UseCase) GetByID(companyID, actorID, role, transferID string) (*dto.TransferResponse, error) {
	tr, err := uc.transferRepo.GetByID(transferID)
	if err != nil {
		return nil, err
	}
	if tr == nil || tr.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	if !entity.IsElevated(role) && tr.FromUserID != actorID && (tr.ToUserID == nil || *tr.ToUserID != actorID) {
		return nil, domain.ErrForbidden
	}
	return toTransferResponse(tr), nil
}

// List lista transferencias paginadas, con alcance por rol.
func (uc *UseCase) List(companyID, actorID, role string, in dto.ListWorkflowRequest) ([]*dto.TransferResponse, dto.PageResponse, error) {
	in.DefaultPage()
	f := repository.TransferFilter{
		WorkflowFilter: repository.WorkflowFilter{
			Status: in.Status,
			From:   in.From,
			To:     in.To,
			Limit:  in.Limit,
			Offset: in.Offset(),
		},
	}
	if !entity.IsElevated(role) {
		f.InvolvedUserID = actorID
	}
	list, total, err := uc.transferRepo.List(companyID, f)
	if err != nil {
		return nil, dto.PageResponse{}, err
	}
	out := make([]*dto.TransferResponse, 0, len(list))
	for _, tr := range list {
		out = append(out, toTransferResponse(tr))
	}
	return out, dto.NewPageResponse(in.Page, in.Limit, total), nil
}

// transferOne ejecuta un traspaso inmediato de custodia en su propia
// transacción y devuelve el ID de la transferencia creada.
func (uc *UseCase) transferOne(ctx context.Context, companyID, fromUserID, itemID, toUserID, confirmerID, reason string) (string, error) {
	var transferID string
	err := uc.txRunner.RunTransfer(ctx, func(items repository.ItemRepository, movements repository.MovementRepository, transfers repository.TransferRepository) error {
		item, err := items.GetForUpdate(itemID)
		if err != nil {
			return err
		}
		if item == nil || item.CompanyID != companyID {
			return domain.ErrNotFound
		}
		if err := validateSource(item, fromUserID); err != nil {
			return err
		}

		now := time.Now()
		tr := &entity.Transfer{
			ID:             uuid.New().String(),
			CompanyID:      companyID,
			ItemID:         item.ID,
			Quantity:       1,
			FromUserID:     fromUserID,
			ToUserID:       &toUserID,
			FromLocationID: item.Disposition.LocationID,
			Reason:         reason,
			Status:         entity.TransferStatusCompleted,
			SentAt:         &now,
			ReceivedAt:     &now,
			ConfirmedBy:    &confirmerID,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		for attempt := 0; ; attempt++ {
			tr.Code = codegen.New("TRF", now)
			err = transfers.Create(tr)
			if err == nil {
				break
			}
			if !errors.Is(err, domain.ErrDuplicate) || attempt+1 >= codegen.MaxAttempts {
				return err
			}
		}

		mov, err := custody.Apply(item, confirmerID, entity.MovementTypeTransfer, tr.Quantity, entity.WithCustodian(toUserID), now)
		if err != nil {
			return err
		}
		mov.TransferID = &tr.ID
		mov.Reason = reason
		if err := items.Update(item); err != nil {
			return err
		}
		if err := movements.Create(mov); err != nil {
			return err
		}
		transferID = tr.ID
		return nil
	})
	if err != nil {
		return "", err
	}
	return transferID, nil
}

// validateSource verifica que el actor pueda disponer del ítem: transferir
// exige tenerlo en custodia. Un ítem en bodega no se transfiere entre pares,
// se emite vía solicitud; en tránsito o en mantenimiento tampoco puede originar
// una nueva transferencia.
func validateSource(item *entity.Item, actorID string) error {
	if !item.Active || item.Status == entity.ItemStatusRetired {
		return domain.ErrItemUnavailable
	}
	switch item.Disposition.Kind {
	case entity.DispositionWithCustodian:
		if item.Disposition.CustodianID != actorID {
			return domain.ErrItemUnavailable
		}
	case entity.DispositionInStock:
		return domain.ErrInvalidState
	default:
		return domain.ErrItemUnavailable
	}
	return nil
}

// createWithCode inserta la transferencia reintentando el código ante colisión.
func (uc *UseCase) createWithCode(tr *entity.Transfer, now time.Time) error {
	for attempt := 0; ; attempt++ {
		tr.Code = codegen.New("TRF", now)
		err := uc.transferRepo.Create(tr)
		if err == nil {
			return nil
		}
		if !errors.Is(err, domain.ErrDuplicate) || attempt+1 >= codegen.MaxAttempts {
			return err
		}
	}
}

// validateTransferCustody revalida al despachar o decidir que el ítem siga
// disponible para esta transferencia: en custodia del remitente, o ya en
// tránsito por esta misma transferencia. Cualquier otra disposición significa
// que la custodia se movió por una operación concurrente.
func validateTransferCustody(item *entity.Item, tr *entity.Transfer) error {
	if item == nil {
		return domain.ErrNotFound
	}
	if !item.Active {
		return domain.ErrItemUnavailable
	}
	switch item.Disposition.Kind {
	case entity.DispositionWithCustodian:
		if item.Disposition.CustodianID != tr.FromUserID {
			return domain.ErrItemUnavailable
		}
	case entity.DispositionInTransit:
		if item.Disposition.TransferID != tr.ID {
			return domain.ErrItemUnavailable
		}
	default:
		return domain.ErrItemUnavailable
	}
	return nil
}

// releaseTransit restituye la custodia al remitente si el ítem quedó en
// tránsito por esta transferencia. En cualquier otra disposición no hace nada.
func releaseTransit(items repository.ItemRepository, movements repository.MovementRepository, tr *entity.Transfer, actorID string, now time.Time) error {
	item, err := items.GetForUpdate(tr.ItemID)
	if err != nil {
		return err
	}
	if item == nil || item.Disposition.Kind != entity.DispositionInTransit || item.Disposition.TransferID != tr.ID {
		return nil
	}
	mov, err := custody.Apply(item, actorID, entity.MovementTypeTransfer, tr.Quantity, entity.WithCustodian(tr.FromUserID), now)
	if err != nil {
		return err
	}
	mov.TransferID = &tr.ID
	mov.Reason = "custodia restituida al remitente"
	if err := items.Update(item); err != nil {
		return err
	}
	return movements.Create(mov)
}

func toTransferResponse(t *entity.Transfer) *dto.TransferResponse {
	if t == nil {
		return nil
	}
	return &dto.TransferResponse{
		ID:             t.ID,
		Code:           t.Code,
		CompanyID:      t.CompanyID,
		ItemID:         t.ItemID,
		Quantity:       t.Quantity,
		FromUserID:     t.FromUserID,
		ToUserID:       t.ToUserID,
		FromLocationID: t.FromLocationID,
		ToLocationID:   t.ToLocationID,
		Reason:         t.Reason,
		Status:         t.Status,
		ReturnToStock:  t.ReturnToStock,
		SentAt:         t.SentAt,
		ReceivedAt:     t.ReceivedAt,
		ConfirmedBy:    t.ConfirmedBy,
		ResponseNotes:  t.ResponseNotes,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
}

// lookupUser valida existencia y tenencia de un usuario.
func (uc *UseCase) lookupUser(companyID, userID string) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil || user.CompanyID != companyID {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

// lockTransfer bloquea la fila de la transferencia dentro de la tx y valida tenencia.
func lockTransfer(transfers repository.TransferRepository, companyID, transferID string) (*entity.Transfer, error) {
	tr, err := transfers.GetForUpdate(transferID)
	if err != nil {
		return nil, err
	}
	if tr == nil || tr.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	return tr, nil
}
