package transfer

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jportela/almoxarifado-api/internal/domain"
)

// qrPayloadType etiqueta de tipo del payload; el decodificador rechaza cualquier otra.
const qrPayloadType = "transferencia"

// QRItem ítem incluido en una intención de transferencia.
type QRItem struct {
	ID       string `json:"id"`
	Name     string `json:"nome"`
	SealCode string `json:"lacre"`
}

// QRPayload intención de transferencia serializable en un QR. Es el único estado
// que viaja entre la propuesta offline y la confirmación online; no es
// autoritativo: al confirmarse se revalida contra el estado vivo de los ítems.
// Los nombres de campo siguen el formato de la app móvil.
type QRPayload struct {
	Type         string    `json:"tipo"`
	TransferID   string    `json:"transferencia_id"`
	FromUserID   string    `json:"de_usuario_id"`
	FromUserName string    `json:"de_usuario_nome"`
	ToUserID     string    `json:"para_usuario_id"`
	ToUserName   string    `json:"para_usuario_nome"`
	Items        []QRItem  `json:"itens"`
	CreatedAt    time.Time `json:"criado_em"`
}

// EncodeQRPayload serializa la intención a un string apto para codificar en QR.
func EncodeQRPayload(p QRPayload) (string, error) {
	p.Type = qrPayloadType
	raw, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("serializar payload QR: %w", err)
	}
	return string(raw), nil
}

// DecodeQRPayload deserializa y valida estructuralmente un payload escaneado.
func DecodeQRPayload(s string) (*QRPayload, error) {
	var p QRPayload
	if err := json.Unmarshal([]byte(s), &p); err != nil {
		return nil, fmt.Errorf("%w: payload QR malformado", domain.ErrInvalidInput)
	}
	if p.Type != qrPayloadType || p.FromUserID == "" || p.ToUserID == "" || len(p.Items) == 0 {
		return nil, fmt.Errorf("%w: payload QR incompleto", domain.ErrInvalidInput)
	}
	return &p, nil
}

// ValidateRecipient verifica que quien escanea sea el destinatario declarado.
// El error nombra al destinatario real para que el escáner entienda el rechazo.
func (p *QRPayload) ValidateRecipient(scannerID string) error {
	if p.ToUserID != scannerID {
		who := p.ToUserName
		if who == "" {
			who = p.ToUserID
		}
		return fmt.Errorf("%w: la transferencia está dirigida a %s", domain.ErrWrongRecipient, who)
	}
	return nil
}
