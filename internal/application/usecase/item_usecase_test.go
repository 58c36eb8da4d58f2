package usecase_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jportela/almoxarifado-api/internal/application/dto"
	"github.com/jportela/almoxarifado-api/internal/application/usecase"
	"github.com/jportela/almoxarifado-api/internal/domain"
	"github.com/jportela/almoxarifado-api/internal/domain/entity"
	"github.com/jportela/almoxarifado-api/internal/domain/repository"
)

const companyID = "co-1"

type fakeItemRepo struct {
	items   map[string]*entity.Item
	sealErr error // inyecta un fallo de infraestructura en GetBySealCode
}

func newFakeItemRepo() *fakeItemRepo {
	return &fakeItemRepo{items: map[string]*entity.Item{}}
}

func (f *fakeItemRepo) Create(item *entity.Item) error {
	for _, it := range f.items {
		if it.CompanyID == item.CompanyID && it.SealCode == item.SealCode {
			return domain.ErrDuplicate
		}
	}
	cp := *item
	f.items[item.ID] = &cp
	return nil
}

func (f *fakeItemRepo) GetByID(id string) (*entity.Item, error) {
	it, ok := f.items[id]
	if !ok {
		return nil, nil
	}
	cp := *it
	return &cp, nil
}

func (f *fakeItemRepo) GetBySealCode(companyID, sealCode string) (*entity.Item, error) {
	if f.sealErr != nil {
		return nil, f.sealErr
	}
	for _, it := range f.items {
		if it.CompanyID == companyID && it.SealCode == sealCode {
			cp := *it
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeItemRepo) GetForUpdate(id string) (*entity.Item, error) { return f.GetByID(id) }

func (f *fakeItemRepo) Update(item *entity.Item) error {
	if _, ok := f.items[item.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *item
	f.items[item.ID] = &cp
	return nil
}

func (f *fakeItemRepo) SetActive(id string, active bool) error {
	it, ok := f.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	it.Active = active
	return nil
}

func (f *fakeItemRepo) List(companyID string, fl repository.ItemFilter) ([]*entity.Item, int, error) {
	var out []*entity.Item
	for _, it := range f.items {
		if it.CompanyID != companyID {
			continue
		}
		if fl.OnlyActive && !it.Active {
			continue
		}
		cp := *it
		out = append(out, &cp)
	}
	return out, len(out), nil
}

func (f *fakeItemRepo) ListLowStock(companyID string) ([]*entity.Item, error) {
	var out []*entity.Item
	for _, it := range f.items {
		if it.CompanyID == companyID && it.Active && it.BelowMinimum() {
			cp := *it
			out = append(out, &cp)
		}
	}
	return out, nil
}

func TestCreate_ItemPorCantidad(t *testing.T) {
	repo := newFakeItemRepo()
	uc := usecase.NewItemUseCase(repo)

	out, err := uc.Create(companyID, dto.CreateItemRequest{
		Name:      "Cemento gris",
		SealCode:  "CEM-001",
		Quantity:  40,
		Unit:      "saco",
		UnitValue: decimal.NewFromInt(25),
	})
	require.NoError(t, err)
	assert.Equal(t, entity.TrackingByQuantity, out.TrackingMode, "modo por defecto")
	assert.Equal(t, int64(40), out.Quantity)
	assert.Equal(t, entity.ItemStatusAvailable, out.Status)
	assert.Equal(t, entity.DispositionInStock, out.Disposition.Kind)
	assert.True(t, out.Active)
}

func TestCreate_SerialNaceConCantidadUno(t *testing.T) {
	repo := newFakeItemRepo()
	uc := usecase.NewItemUseCase(repo)

	out, err := uc.Create(companyID, dto.CreateItemRequest{
		Name:         "Rotomartillo",
		SealCode:     "ROT-001",
		Quantity:     5, // se ignora: la herramienta sellada es indivisible
		TrackingMode: entity.TrackingBySerial,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), out.Quantity)
}

func TestCreate_LacreDuplicado(t *testing.T) {
	repo := newFakeItemRepo()
	uc := usecase.NewItemUseCase(repo)

	_, err := uc.Create(companyID, dto.CreateItemRequest{Name: "A", SealCode: "X-01", Quantity: 1})
	require.NoError(t, err)

	_, err = uc.Create(companyID, dto.CreateItemRequest{Name: "B", SealCode: "X-01", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestCreate_FalloDeRepoSePropaga(t *testing.T) {
	repo := newFakeItemRepo()
	repo.sealErr = errors.New("conexión perdida")
	uc := usecase.NewItemUseCase(repo)

	// un fallo al chequear el lacre no puede leerse como "no hay duplicado"
	_, err := uc.Create(companyID, dto.CreateItemRequest{Name: "A", SealCode: "X-01", Quantity: 1})
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrDuplicate)
	assert.Empty(t, repo.items, "no se insertó nada")
}

func TestUpdate_NoTocaCantidadNiCustodia(t *testing.T) {
	repo := newFakeItemRepo()
	uc := usecase.NewItemUseCase(repo)

	created, err := uc.Create(companyID, dto.CreateItemRequest{Name: "Taladro", SealCode: "TAL-01", Quantity: 3})
	require.NoError(t, err)

	name := "Taladro percutor"
	min := int64(2)
	out, err := uc.Update(companyID, created.ID, dto.UpdateItemRequest{Name: &name, MinQuantity: &min})
	require.NoError(t, err)
	assert.Equal(t, "Taladro percutor", out.Name)
	assert.Equal(t, int64(3), out.Quantity, "la cantidad solo cambia vía movimientos")
}

func TestDeactivate_SoftDelete(t *testing.T) {
	repo := newFakeItemRepo()
	uc := usecase.NewItemUseCase(repo)

	created, err := uc.Create(companyID, dto.CreateItemRequest{Name: "Nivel", SealCode: "NIV-01", Quantity: 1})
	require.NoError(t, err)

	require.NoError(t, uc.Deactivate(companyID, created.ID))

	// sigue existiendo, pero inactivo
	out, err := uc.GetByID(companyID, created.ID)
	require.NoError(t, err)
	assert.False(t, out.Active)

	list, _, err := uc.List(companyID, dto.ListItemsRequest{})
	require.NoError(t, err)
	assert.Empty(t, list, "el listado solo muestra activos")
}

func TestGetByID_OtraEmpresaNoVe(t *testing.T) {
	repo := newFakeItemRepo()
	uc := usecase.NewItemUseCase(repo)

	created, err := uc.Create(companyID, dto.CreateItemRequest{Name: "Nivel", SealCode: "NIV-01", Quantity: 1})
	require.NoError(t, err)

	_, err = uc.GetByID("otra-empresa", created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound, "la tenencia se comporta como inexistencia")
}
