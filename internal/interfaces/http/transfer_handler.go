package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jportela/almoxarifado-api/internal/application/dto"
	"github.com/jportela/almoxarifado-api/internal/application/transfer"
)

// TransferHandler maneja el workflow de transferencias de custodia (protegido).
type TransferHandler struct {
	uc *transfer.UseCase
}

// NewTransferHandler construye el handler.
func NewTransferHandler(uc *transfer.UseCase) *TransferHandler {
	return &TransferHandler{uc: uc}
}

// Create godoc
// @Summary      Crear transferencia (a otro usuario o devolución a bodega)
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateTransferRequest  true  "Datos de la transferencia"
// @Success      201   {object}  dto.TransferResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/transfers [post]
func (h *TransferHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateTransferRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Create(c.UserContext(), GetCompanyID(c), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Send godoc
// @Summary      Marcar transferencia como despachada (en tránsito)
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la transferencia"
// @Success      200  {object}  dto.TransferResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/send [post]
func (h *TransferHandler) Send(c *fiber.Ctx) error {
	out, err := h.uc.Send(c.UserContext(), GetCompanyID(c), GetUserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Respond godoc
// @Summary      Aceptar o rechazar una transferencia (solo el destinatario)
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la transferencia"
// @Param        body  body  dto.RespondTransferRequest  true  "accept o reject"
// @Success      200   {object}  dto.TransferResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/respond [post]
func (h *TransferHandler) Respond(c *fiber.Ctx) error {
	var in dto.RespondTransferRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Respond(c.UserContext(), GetCompanyID(c), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ApproveReturn godoc
// @Summary      Aprobar devolución a bodega (rol elevado, nunca el remitente)
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la transferencia"
// @Param        body  body  dto.ApproveReturnRequest  false  "Ubicación destino y notas"
// @Success      200   {object}  dto.TransferResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/approve-return [post]
func (h *TransferHandler) ApproveReturn(c *fiber.Ctx) error {
	var in dto.ApproveReturnRequest
	_ = c.BodyParser(&in)
	out, err := h.uc.ApproveReturn(c.UserContext(), GetCompanyID(c), GetUserID(c), GetRole(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Cancel godoc
// @Summary      Cancelar transferencia (remitente o rol elevado)
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la transferencia"
// @Success      200  {object}  dto.TransferResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/cancel [post]
func (h *TransferHandler) Cancel(c *fiber.Ctx) error {
	out, err := h.uc.Cancel(c.UserContext(), GetCompanyID(c), GetUserID(c), GetRole(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// CreateBatch godoc
// @Summary      Transferir varios ítems a un usuario en una entrega inmediata
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.BatchTransferRequest  true  "Ítems y destinatario"
// @Success      200   {object}  dto.BatchTransferResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/transfers/batch [post]
func (h *TransferHandler) CreateBatch(c *fiber.Ctx) error {
	var in dto.BatchTransferRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.ToUserID == "" || len(in.ItemIDs) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to_user_id e item_ids son requeridos"})
	}
	out, err := h.uc.CreateBatch(c.UserContext(), GetCompanyID(c), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GenerateQR godoc
// @Summary      Generar payload QR para entrega sin conexión
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.GenerateQRRequest  true  "Ítems y destinatario"
// @Success      200   {object}  map[string]string
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/transfers/qr [post]
func (h *TransferHandler) GenerateQR(c *fiber.Ctx) error {
	var in dto.GenerateQRRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.ToUserID == "" || len(in.ItemIDs) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to_user_id e item_ids son requeridos"})
	}
	payload, err := h.uc.GenerateQR(c.UserContext(), GetCompanyID(c), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"payload": payload})
}

// ConfirmQR godoc
// @Summary      Confirmar un payload QR escaneado (destinatario)
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ConfirmQRRequest  true  "Payload y decisiones por ítem"
// @Success      200   {object}  dto.BatchTransferResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/transfers/qr/confirm [post]
func (h *TransferHandler) ConfirmQR(c *fiber.Ctx) error {
	var in dto.ConfirmQRRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Payload == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "payload es requerido"})
	}
	out, err := h.uc.ConfirmQR(c.UserContext(), GetCompanyID(c), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener transferencia por ID
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la transferencia"
// @Success      200  {object}  dto.TransferResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/transfers/{id} [get]
func (h *TransferHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(GetCompanyID(c), GetUserID(c), GetRole(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar transferencias (rol base solo ve donde participa)
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        page    query  int     false  "Página"  default(1)
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        status  query  string  false  "Estado"
// @Success      200  {array}  dto.TransferResponse
// @Router       /api/transfers [get]
func (h *TransferHandler) List(c *fiber.Ctx) error {
	var in dto.ListWorkflowRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "query inválida"})
	}
	transfers, page, err := h.uc.List(GetCompanyID(c), GetUserID(c), GetRole(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"data": transfers, "pagination": page})
}
