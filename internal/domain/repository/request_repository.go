package repository

import (
	"time"

	"github.com/jportela/almoxarifado-api/internal/domain/entity"
)

// WorkflowFilter filtros comunes de listado para solicitudes y transferencias.
type WorkflowFilter struct {
	Status      string
	RequesterID string // limita a registros propios (rol base)
	From        *time.Time
	To          *time.Time
	Limit       int
	Offset      int
}

// RequestRepository puerto de persistencia para Request.
// Create devuelve domain.ErrDuplicate ante violación del unique del código,
// para que el caso de uso pueda reintentar la generación.
type RequestRepository interface {
	Create(request *entity.Request) error
	GetByID(id string) (*entity.Request, error)
	GetForUpdate(id string) (*entity.Request, error)
	Update(request *entity.Request) error
	List(companyID string, f WorkflowFilter) ([]*entity.Request, int, error)
}
