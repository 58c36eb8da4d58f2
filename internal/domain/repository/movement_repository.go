package repository

import (
	"time"

	"github.com/jportela/almoxarifado-api/internal/domain/entity"
)

// MovementFilter filtros de consulta del historial de movimientos.
type MovementFilter struct {
	ItemID string
	UserID string
	Type   string
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

// MovementRepository puerto de persistencia del log de movimientos.
// Solo inserción y lectura: el log es inmutable por construcción.
type MovementRepository interface {
	Create(movement *entity.Movement) error
	GetByID(id string) (*entity.Movement, error)
	List(companyID string, f MovementFilter) ([]*entity.Movement, int, error)
}
