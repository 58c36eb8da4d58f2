package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jportela/almoxarifado-api/internal/application/auth"
	"github.com/jportela/almoxarifado-api/internal/application/movement"
	"github.com/jportela/almoxarifado-api/internal/application/request"
	"github.com/jportela/almoxarifado-api/internal/application/transfer"
	"github.com/jportela/almoxarifado-api/internal/application/usecase"
	"github.com/jportela/almoxarifado-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC     *auth.AuthUseCase
	ItemUC     *usecase.ItemUseCase
	LocationUC *usecase.LocationUseCase
	RequestUC  *request.UseCase
	TransferUC *transfer.UseCase
	MovementUC *movement.UseCase
	JWTSecret  string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Catálogo de ítems. Altas y ediciones solo para roles de bodega;
	// consultas para cualquier usuario autenticado.
	items := protected.Group("/items")
	itemHandler := NewItemHandler(deps.ItemUC)
	items.Post("/", RequireMinRole(entity.RoleAlmacenista), itemHandler.Create)
	items.Get("/", itemHandler.List)
	items.Get("/low-stock", RequireMinRole(entity.RoleAlmacenista), itemHandler.ListLowStock)
	items.Get("/seal/:code", itemHandler.GetBySealCode)
	items.Get("/:id", itemHandler.GetByID)
	items.Put("/:id", RequireMinRole(entity.RoleAlmacenista), itemHandler.Update)
	items.Delete("/:id", RequireMinRole(entity.RoleAlmacenista), itemHandler.Deactivate)

	// Ubicaciones de bodega
	locations := protected.Group("/locations")
	locationHandler := NewLocationHandler(deps.LocationUC)
	locations.Post("/", RequireMinRole(entity.RoleAlmacenista), locationHandler.Create)
	locations.Get("/", locationHandler.List)
	locations.Get("/:id", locationHandler.GetByID)

	// Solicitudes de ítems. Las decisiones validan el rol en el caso de uso
	// (el middleware solo corta lo obvio).
	requests := protected.Group("/requests")
	requestHandler := NewRequestHandler(deps.RequestUC)
	requests.Post("/", requestHandler.Create)
	requests.Get("/", requestHandler.List)
	requests.Get("/:id", requestHandler.GetByID)
	requests.Post("/:id/approve", RequireMinRole(entity.RoleAlmacenista), requestHandler.Approve)
	requests.Post("/:id/reject", RequireMinRole(entity.RoleAlmacenista), requestHandler.Reject)
	requests.Post("/:id/complete", RequireMinRole(entity.RoleAlmacenista), requestHandler.Complete)
	requests.Post("/:id/cancel", requestHandler.Cancel)

	// Transferencias de custodia
	transfers := protected.Group("/transfers")
	transferHandler := NewTransferHandler(deps.TransferUC)
	transfers.Post("/", transferHandler.Create)
	transfers.Get("/", transferHandler.List)
	transfers.Post("/batch", transferHandler.CreateBatch)
	transfers.Post("/qr", transferHandler.GenerateQR)
	transfers.Post("/qr/confirm", transferHandler.ConfirmQR)
	transfers.Get("/:id", transferHandler.GetByID)
	transfers.Post("/:id/send", transferHandler.Send)
	transfers.Post("/:id/respond", transferHandler.Respond)
	transfers.Post("/:id/approve-return", RequireMinRole(entity.RoleAlmacenista), transferHandler.ApproveReturn)
	transfers.Post("/:id/cancel", transferHandler.Cancel)

	// Movimientos manuales e historial de auditoría
	movements := protected.Group("/movements")
	movementHandler := NewMovementHandler(deps.MovementUC)
	movements.Post("/", RequireMinRole(entity.RoleAlmacenista), movementHandler.Register)
	movements.Get("/", movementHandler.List)
}
