package repository

import "github.com/jportela/almoxarifado-api/internal/domain/entity"

// ItemFilter filtros de listado de ítems.
type ItemFilter struct {
	CategoryID string
	Status     string
	Search     string // nombre o lacre
	OnlyActive bool
	Limit      int
	Offset     int
}

// ItemRepository define el puerto de persistencia para Item (DIP).
// GetForUpdate bloquea la fila (SELECT FOR UPDATE) y solo tiene sentido dentro
// de una transacción: es la serialización del par verificar-y-actuar.
type ItemRepository interface {
	Create(item *entity.Item) error
	GetByID(id string) (*entity.Item, error)
	GetBySealCode(companyID, sealCode string) (*entity.Item, error)
	GetForUpdate(id string) (*entity.Item, error)
	Update(item *entity.Item) error
	SetActive(id string, active bool) error
	List(companyID string, f ItemFilter) ([]*entity.Item, int, error)
	ListLowStock(companyID string) ([]*entity.Item, error)
}
