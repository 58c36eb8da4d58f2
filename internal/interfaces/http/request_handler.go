package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jportela/almoxarifado-api/internal/application/dto"
	"github.com/jportela/almoxarifado-api/internal/application/request"
)

// RequestHandler maneja el workflow de solicitudes de ítems (protegido).
type RequestHandler struct {
	uc *request.UseCase
}

// NewRequestHandler construye el handler.
func NewRequestHandler(uc *request.UseCase) *RequestHandler {
	return &RequestHandler{uc: uc}
}

// Create godoc
// @Summary      Crear solicitud de ítems
// @Tags         requests
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateRequestRequest  true  "Datos de la solicitud"
// @Success      201   {object}  dto.RequestResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/requests [post]
func (h *RequestHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateRequestRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Create(c.UserContext(), GetCompanyID(c), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Approve godoc
// @Summary      Aprobar solicitud (rol elevado)
// @Tags         requests
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la solicitud"
// @Param        body  body  dto.DecideRequestRequest  false  "Notas"
// @Success      200   {object}  dto.RequestResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/requests/{id}/approve [post]
func (h *RequestHandler) Approve(c *fiber.Ctx) error {
	var in dto.DecideRequestRequest
	_ = c.BodyParser(&in)
	out, err := h.uc.Approve(c.UserContext(), GetCompanyID(c), GetUserID(c), GetRole(c), c.Params("id"), in.Notes)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Reject godoc
// @Summary      Rechazar solicitud (rol elevado)
// @Tags         requests
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la solicitud"
// @Param        body  body  dto.DecideRequestRequest  false  "Motivo"
// @Success      200   {object}  dto.RequestResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/requests/{id}/reject [post]
func (h *RequestHandler) Reject(c *fiber.Ctx) error {
	var in dto.DecideRequestRequest
	_ = c.BodyParser(&in)
	out, err := h.uc.Reject(c.UserContext(), GetCompanyID(c), GetUserID(c), GetRole(c), c.Params("id"), in.Reason)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Complete godoc
// @Summary      Completar solicitud: entrega física del ítem al solicitante
// @Tags         requests
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la solicitud"
// @Param        body  body  dto.DecideRequestRequest  false  "Notas de entrega"
// @Success      200   {object}  dto.RequestResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/requests/{id}/complete [post]
func (h *RequestHandler) Complete(c *fiber.Ctx) error {
	var in dto.DecideRequestRequest
	_ = c.BodyParser(&in)
	out, err := h.uc.Complete(c.UserContext(), GetCompanyID(c), GetUserID(c), GetRole(c), c.Params("id"), in.Notes)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Cancel godoc
// @Summary      Cancelar solicitud (solicitante o rol elevado)
// @Tags         requests
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la solicitud"
// @Success      200  {object}  dto.RequestResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/requests/{id}/cancel [post]
func (h *RequestHandler) Cancel(c *fiber.Ctx) error {
	out, err := h.uc.Cancel(c.UserContext(), GetCompanyID(c), GetUserID(c), GetRole(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener solicitud por ID
// @Tags         requests
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la solicitud"
// @Success      200  {object}  dto.RequestResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/requests/{id} [get]
func (h *RequestHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(GetCompanyID(c), GetUserID(c), GetRole(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar solicitudes (rol base solo ve las propias)
// @Tags         requests
// @Security     Bearer
// @Produce      json
// @Param        page    query  int     false  "Página"  default(1)
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        status  query  string  false  "Estado"
// @Success      200  {array}  dto.RequestResponse
// @Router       /api/requests [get]
func (h *RequestHandler) List(c *fiber.Ctx) error {
	var in dto.ListWorkflowRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "query inválida"})
	}
	requests, page, err := h.uc.List(GetCompanyID(c), GetUserID(c), GetRole(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"data": requests, "pagination": page})
}
