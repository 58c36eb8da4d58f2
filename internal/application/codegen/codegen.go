// Package codegen genera los códigos legibles de solicitudes y transferencias.
// El sufijo aleatorio no garantiza unicidad por sí solo: el caller reintenta
// ante la violación del unique constraint (domain.ErrDuplicate) hasta MaxAttempts.
package codegen

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// MaxAttempts intentos de inserción antes de rendirse con el código.
const MaxAttempts = 5

// New devuelve un código con formato PREFIX-YYYYMMDD-XXXX, ej. REQ-20250114-7F3A.
func New(prefix string, now time.Time) string {
	buf := make([]byte, 2)
	_, _ = rand.Read(buf)
	suffix := strings.ToUpper(hex.EncodeToString(buf))
	return fmt.Sprintf("%s-%s-%s", prefix, now.Format("20060102"), suffix)
}
