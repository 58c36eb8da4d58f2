package dto

import "time"

// CreateRequestRequest entrada para crear una solicitud de ítems.
type CreateRequestRequest struct {
	ItemID   string `json:"item_id" validate:"required,uuid"`
	Quantity int64  `json:"quantity" validate:"required,min=1"`
	Purpose  string `json:"purpose" validate:"omitempty,max=500"`
	Priority string `json:"priority" validate:"omitempty,oneof=low normal high urgent"`
}

// DecideRequestRequest notas/motivo al aprobar, rechazar o completar.
type DecideRequestRequest struct {
	Notes  string `json:"notes" validate:"omitempty,max=500"`
	Reason string `json:"reason" validate:"omitempty,max=500"`
}

// RequestResponse salida de una solicitud.
type RequestResponse struct {
	ID             string     `json:"id"`
	Code           string     `json:"code"`
	CompanyID      string     `json:"company_id"`
	RequesterID    string     `json:"requester_id"`
	ItemID         string     `json:"item_id"`
	Quantity       int64      `json:"quantity"`
	Purpose        string     `json:"purpose,omitempty"`
	Priority       string     `json:"priority"`
	Status         string     `json:"status"`
	ApproverID     *string    `json:"approver_id,omitempty"`
	ApprovalNotes  string     `json:"approval_notes,omitempty"`
	ApprovedAt     *time.Time `json:"approved_at,omitempty"`
	RejectedReason string     `json:"rejected_reason,omitempty"`
	RejectedAt     *time.Time `json:"rejected_at,omitempty"`
	DelivererID    *string    `json:"deliverer_id,omitempty"`
	DeliveryNotes  string     `json:"delivery_notes,omitempty"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
	CancelledAt    *time.Time `json:"cancelled_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// ListWorkflowRequest filtros de listado de solicitudes/transferencias.
type ListWorkflowRequest struct {
	PageRequest
	Status string     `query:"status"`
	From   *time.Time `query:"from"`
	To     *time.Time `query:"to"`
}
