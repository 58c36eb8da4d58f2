package repository

import "github.com/jportela/almoxarifado-api/internal/domain/entity"

// TransferFilter filtros de listado de transferencias.
// InvolvedUserID limita a transferencias donde el usuario es origen o destino
// (alcance del rol base).
type TransferFilter struct {
	WorkflowFilter
	ToUserID       string
	InvolvedUserID string
	ReturnToStock  *bool
}

// TransferRepository puerto de persistencia para Transfer.
// Create devuelve domain.ErrDuplicate ante violación del unique del código.
type TransferRepository interface {
	Create(transfer *entity.Transfer) error
	GetByID(id string) (*entity.Transfer, error)
	GetForUpdate(id string) (*entity.Transfer, error)
	Update(transfer *entity.Transfer) error
	List(companyID string, f TransferFilter) ([]*entity.Transfer, int, error)
}
