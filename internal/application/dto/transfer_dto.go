package dto

import "time"

// CreateTransferRequest entrada para crear una transferencia. ToUserID vacío
// marca la variante devolución a bodega.
type CreateTransferRequest struct {
	ItemID       string `json:"item_id" validate:"required,uuid"`
	Quantity     int64  `json:"quantity" validate:"omitempty,min=1"`
	ToUserID     string `json:"to_user_id" validate:"omitempty,uuid"`
	ToLocationID string `json:"to_location_id" validate:"omitempty,uuid"`
	Reason       string `json:"reason" validate:"omitempty,max=500"`
}

// BatchTransferRequest entrada para transferencia en lote (entrega inmediata).
type BatchTransferRequest struct {
	ToUserID string   `json:"to_user_id" validate:"required,uuid"`
	ItemIDs  []string `json:"item_ids" validate:"required,min=1"`
	Reason   string   `json:"reason" validate:"omitempty,max=500"`
}

// RespondTransferRequest respuesta del destinatario: accept o reject.
type RespondTransferRequest struct {
	Action string `json:"action" validate:"required,oneof=accept reject"`
	Notes  string `json:"notes" validate:"omitempty,max=500"`
}

// ApproveReturnRequest aprobación de devolución a bodega por un rol elevado.
type ApproveReturnRequest struct {
	LocationID string `json:"location_id" validate:"omitempty,uuid"`
	Notes      string `json:"notes" validate:"omitempty,max=500"`
}

// GenerateQRRequest entrada para serializar una intención de transferencia.
type GenerateQRRequest struct {
	ToUserID string   `json:"to_user_id" validate:"required,uuid"`
	ItemIDs  []string `json:"item_ids" validate:"required,min=1"`
}

// ConfirmQRRequest entrada para confirmar un payload QR escaneado.
// Decisions mapea item_id -> aceptado; cada ítem del payload necesita decisión.
type ConfirmQRRequest struct {
	Payload   string          `json:"payload" validate:"required"`
	Decisions map[string]bool `json:"decisions" validate:"required"`
}

// TransferResponse salida de una transferencia.
type TransferResponse struct {
	ID             string     `json:"id"`
	Code           string     `json:"code"`
	CompanyID      string     `json:"company_id"`
	ItemID         string     `json:"item_id"`
	Quantity       int64      `json:"quantity"`
	FromUserID     string     `json:"from_user_id"`
	ToUserID       *string    `json:"to_user_id,omitempty"`
	FromLocationID string     `json:"from_location_id,omitempty"`
	ToLocationID   string     `json:"to_location_id,omitempty"`
	Reason         string     `json:"reason,omitempty"`
	Status         string     `json:"status"`
	ReturnToStock  bool       `json:"return_to_stock"`
	SentAt         *time.Time `json:"sent_at,omitempty"`
	ReceivedAt     *time.Time `json:"received_at,omitempty"`
	ConfirmedBy    *string    `json:"confirmed_by,omitempty"`
	ResponseNotes  string     `json:"response_notes,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// BatchItemResult resultado por ítem de una operación en lote. El lote nunca se
// revierte completo por el fallo de un ítem: cada resultado se reporta.
type BatchItemResult struct {
	ItemID     string `json:"item_id"`
	OK         bool   `json:"ok"`
	TransferID string `json:"transfer_id,omitempty"`
	Error      string `json:"error,omitempty"`
}

// BatchTransferResponse tally de éxitos y fallos del lote.
type BatchTransferResponse struct {
	Total     int               `json:"total"`
	Succeeded int               `json:"succeeded"`
	Failed    int               `json:"failed"`
	Items     []BatchItemResult `json:"items"`
}
