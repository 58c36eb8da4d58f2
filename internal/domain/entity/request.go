package entity

import "time"

// Estados de una solicitud de ítems.
const (
	RequestStatusPending   = "pending"
	RequestStatusApproved  = "approved"
	RequestStatusRejected  = "rejected"
	RequestStatusCompleted = "completed"
	RequestStatusCancelled = "cancelled"
)

// Prioridades de solicitud.
const (
	PriorityLow    = "low"
	PriorityNormal = "normal"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// requestTransitions máquina de estados: las transiciones son unidireccionales,
// nada vuelve a pending.
var requestTransitions = map[string][]string{
	RequestStatusPending:  {RequestStatusApproved, RequestStatusRejected, RequestStatusCancelled},
	RequestStatusApproved: {RequestStatusCompleted, RequestStatusCancelled},
}

// RequestCanTransition indica si el paso from->to es un camino válido de la máquina.
func RequestCanTransition(from, to string) bool {
	for _, next := range requestTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ValidPriority indica si la prioridad pertenece al catálogo conocido.
func ValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Request representa la petición formal de N unidades de un ítem, sujeta a aprobación.
type Request struct {
	ID             string
	CompanyID      string
	Code           string // código legible único: REQ-20060102-XXXX
	RequesterID    string
	ItemID         string
	Quantity       int64 // >= 1
	Purpose        string
	Priority       string
	Status         string
	ApproverID     *string // nil hasta que se decida
	ApprovalNotes  string
	ApprovedAt     *time.Time
	RejectedReason string
	RejectedAt     *time.Time
	DelivererID    *string // nil hasta que se entregue
	DeliveryNotes  string
	CompletedAt    *time.Time
	CancelledAt    *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
