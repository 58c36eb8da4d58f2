// Package notify define el puerto de notificaciones de los workflows.
// El envío es fire-and-forget: un fallo del sink jamás revierte la transición
// de estado que lo originó.
package notify

import "context"

// Tipos de notificación emitidos por los casos de uso.
const (
	TypeRequestCreated   = "request_created"
	TypeRequestDecided   = "request_decided"
	TypeRequestCompleted = "request_completed"
	TypeTransferPending  = "transfer_pending"
	TypeTransferDecided  = "transfer_decided"
	TypeReturnPending    = "return_pending"
	TypeLowStock         = "low_stock"
)

// Notification mensaje para un usuario concreto o para todo un conjunto de roles.
// UserID vacío + MinRole presente = difusión a quienes alcancen esa jerarquía.
type Notification struct {
	Type        string `json:"type"`
	CompanyID   string `json:"company_id"`
	UserID      string `json:"user_id,omitempty"`
	MinRole     string `json:"min_role,omitempty"`
	ReferenceID string `json:"reference_id,omitempty"`
	Message     string `json:"message"`
}

// Notifier publica notificaciones hacia el sink externo.
type Notifier interface {
	Publish(ctx context.Context, n Notification) error
}

// Nop descarta toda notificación (tests y despliegues sin Redis).
type Nop struct{}

// Publish no hace nada.
func (Nop) Publish(context.Context, Notification) error { return nil }
