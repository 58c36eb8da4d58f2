package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/jportela/almoxarifado-api/internal/application/dto"
	"github.com/jportela/almoxarifado-api/internal/domain"
	"github.com/jportela/almoxarifado-api/internal/domain/entity"
	"github.com/jportela/almoxarifado-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// ItemUseCase casos de uso de catálogo. Cantidad y custodia no se editan por
// aquí: solo vía movimientos y workflows.
type ItemUseCase struct {
	repo repository.ItemRepository
}

// NewItemUseCase construye el caso de uso.
func NewItemUseCase(repo repository.ItemRepository) *ItemUseCase {
	return &ItemUseCase{repo: repo}
}

// Create da de alta un ítem. El lacre es único por empresa; los ítems por
// serial nacen con cantidad 1.
func (uc *ItemUseCase) Create(companyID string, in dto.CreateItemRequest) (*dto.ItemResponse, error) {
	if in.Name == "" || in.SealCode == "" || in.Quantity < 0 || in.MinQuantity < 0 {
		return nil, domain.ErrInvalidInput
	}
	tracking := in.TrackingMode
	if tracking == "" {
		tracking = entity.TrackingByQuantity
	}
	if tracking != entity.TrackingByQuantity && tracking != entity.TrackingBySerial {
		return nil, domain.ErrInvalidInput
	}
	quantity := in.Quantity
	if tracking == entity.TrackingBySerial {
		quantity = 1
	}
	existing, err := uc.repo.GetBySealCode(companyID, in.SealCode)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}

	unitValue := in.UnitValue
	if unitValue.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	item := &entity.Item{
		ID:           uuid.New().String(),
		CompanyID:    companyID,
		Name:         in.Name,
		SealCode:     in.SealCode,
		CategoryID:   in.CategoryID,
		Quantity:     quantity,
		MinQuantity:  in.MinQuantity,
		Unit:         in.Unit,
		UnitValue:    unitValue,
		Status:       entity.ItemStatusAvailable,
		TrackingMode: tracking,
		Disposition:  entity.InStock(in.LocationID),
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(item); err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// GetByID obtiene un ítem por ID (con chequeo de tenencia).
func (uc *ItemUseCase) GetByID(companyID, id string) (*dto.ItemResponse, error) {
	item, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil || item.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	return toItemResponse(item), nil
}

// GetBySealCode busca por lacre (clave del escaneo).
func (uc *ItemUseCase) GetBySealCode(companyID, sealCode string) (*dto.ItemResponse, error) {
	item, err := uc.repo.GetBySealCode(companyID, sealCode)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return toItemResponse(item), nil
}

// Update edita los campos de catálogo.
func (uc *ItemUseCase) Update(companyID, id string, in dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	item, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil || item.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		if *in.Name == "" {
			return nil, domain.ErrInvalidInput
		}
		item.Name = *in.Name
	}
	if in.CategoryID != nil {
		item.CategoryID = *in.CategoryID
	}
	if in.MinQuantity != nil {
		if *in.MinQuantity < 0 {
			return nil, domain.ErrInvalidInput
		}
		item.MinQuantity = *in.MinQuantity
	}
	if in.Unit != nil {
		item.Unit = *in.Unit
	}
	if in.UnitValue != nil {
		if in.UnitValue.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		item.UnitValue = *in.UnitValue
	}
	item.UpdatedAt = time.Now()
	if err := uc.repo.Update(item); err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// Deactivate soft delete: el ítem nunca se purga, solo se desactiva.
func (uc *ItemUseCase) Deactivate(companyID, id string) error {
	item, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if item == nil || item.CompanyID != companyID {
		return domain.ErrNotFound
	}
	return uc.repo.SetActive(id, false)
}

// List lista el catálogo paginado.
func (uc *ItemUseCase) List(companyID string, in dto.ListItemsRequest) ([]*dto.ItemResponse, dto.PageResponse, error) {
	in.DefaultPage()
	list, total, err := uc.repo.List(companyID, repository.ItemFilter{
		CategoryID: in.CategoryID,
		Status:     in.Status,
		Search:     in.Search,
		OnlyActive: true,
		Limit:      in.Limit,
		Offset:     in.Offset(),
	})
	if err != nil {
		return nil, dto.PageResponse{}, err
	}
	out := make([]*dto.ItemResponse, 0, len(list))
	for _, it := range list {
		out = append(out, toItemResponse(it))
	}
	return out, dto.NewPageResponse(in.Page, in.Limit, total), nil
}

// ListLowStock ítems en o bajo su umbral mínimo.
func (uc *ItemUseCase) ListLowStock(companyID string) ([]*dto.ItemResponse, error) {
	list, err := uc.repo.ListLowStock(companyID)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ItemResponse, 0, len(list))
	for _, it := range list {
		out = append(out, toItemResponse(it))
	}
	return out, nil
}

func toItemResponse(i *entity.Item) *dto.ItemResponse {
	if i == nil {
		return nil
	}
	return &dto.ItemResponse{
		ID:           i.ID,
		CompanyID:    i.CompanyID,
		Name:         i.Name,
		SealCode:     i.SealCode,
		CategoryID:   i.CategoryID,
		Quantity:     i.Quantity,
		MinQuantity:  i.MinQuantity,
		Unit:         i.Unit,
		UnitValue:    i.UnitValue,
		Status:       i.Status,
		TrackingMode: i.TrackingMode,
		Disposition: dto.DispositionResponse{
			Kind:        i.Disposition.Kind,
			CustodianID: i.Disposition.CustodianID,
			LocationID:  i.Disposition.LocationID,
			TransferID:  i.Disposition.TransferID,
		},
		Active:    i.Active,
		CreatedAt: i.CreatedAt,
		UpdatedAt: i.UpdatedAt,
	}
}
