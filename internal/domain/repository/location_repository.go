package repository

import "github.com/jportela/almoxarifado-api/internal/domain/entity"

// LocationRepository puerto de persistencia para ubicaciones de bodega.
type LocationRepository interface {
	Create(location *entity.Location) error
	GetByID(id string) (*entity.Location, error)
	List(companyID string, limit, offset int) ([]*entity.Location, error)
}
