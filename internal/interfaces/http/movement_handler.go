package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jportela/almoxarifado-api/internal/application/dto"
	"github.com/jportela/almoxarifado-api/internal/application/movement"
)

// MovementHandler maneja movimientos manuales y el historial de auditoría (protegido).
type MovementHandler struct {
	uc *movement.UseCase
}

// NewMovementHandler construye el handler.
func NewMovementHandler(uc *movement.UseCase) *MovementHandler {
	return &MovementHandler{uc: uc}
}

// Register godoc
// @Summary      Registrar movimiento manual (entrada, ajuste, pérdida, mantenimiento, baja)
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "Datos del movimiento"
// @Success      201   {object}  dto.MovementResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/movements [post]
func (h *MovementHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.ItemID == "" || in.Type == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "item_id y type son requeridos"})
	}
	out, err := h.uc.Register(c.UserContext(), GetCompanyID(c), GetUserID(c), GetRole(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Consultar historial de movimientos
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        page     query  int     false  "Página"  default(1)
// @Param        limit    query  int     false  "Límite"  default(20)
// @Param        item_id  query  string  false  "Ítem"
// @Param        user_id  query  string  false  "Usuario"
// @Param        type     query  string  false  "Tipo de movimiento"
// @Success      200  {array}  dto.MovementResponse
// @Router       /api/movements [get]
func (h *MovementHandler) List(c *fiber.Ctx) error {
	var in dto.ListMovementsRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "query inválida"})
	}
	movements, page, err := h.uc.List(GetCompanyID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"data": movements, "pagination": page})
}
