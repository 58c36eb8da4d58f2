package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/jportela/almoxarifado-api/internal/application/dto"
	"github.com/jportela/almoxarifado-api/internal/domain"
	"github.com/jportela/almoxarifado-api/internal/domain/entity"
	"github.com/jportela/almoxarifado-api/internal/domain/repository"
)

// LocationUseCase CRUD mínimo de ubicaciones de bodega.
type LocationUseCase struct {
	repo repository.LocationRepository
}

// NewLocationUseCase construye el caso de uso.
func NewLocationUseCase(repo repository.LocationRepository) *LocationUseCase {
	return &LocationUseCase{repo: repo}
}

// Create crea una ubicación.
func (uc *LocationUseCase) Create(companyID string, in dto.CreateLocationRequest) (*dto.LocationResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	loc := &entity.Location{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		Name:      in.Name,
		Sector:    in.Sector,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(loc); err != nil {
		return nil, err
	}
	return toLocationResponse(loc), nil
}

// GetByID obtiene una ubicación.
func (uc *LocationUseCase) GetByID(companyID, id string) (*dto.LocationResponse, error) {
	loc, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if loc == nil || loc.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	return toLocationResponse(loc), nil
}

// List lista ubicaciones.
func (uc *LocationUseCase) List(companyID string, page dto.PageRequest) ([]*dto.LocationResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(companyID, page.Limit, page.Offset())
	if err != nil {
		return nil, err
	}
	out := make([]*dto.LocationResponse, 0, len(list))
	for _, l := range list {
		out = append(out, toLocationResponse(l))
	}
	return out, nil
}

func toLocationResponse(l *entity.Location) *dto.LocationResponse {
	return &dto.LocationResponse{
		ID:        l.ID,
		CompanyID: l.CompanyID,
		Name:      l.Name,
		Sector:    l.Sector,
		CreatedAt: l.CreatedAt,
	}
}
