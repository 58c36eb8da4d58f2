package movement_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jportela/almoxarifado-api/internal/application/dto"
	"github.com/jportela/almoxarifado-api/internal/application/movement"
	"github.com/jportela/almoxarifado-api/internal/application/notify"
	"github.com/jportela/almoxarifado-api/internal/domain"
	"github.com/jportela/almoxarifado-api/internal/domain/entity"
	"github.com/jportela/almoxarifado-api/internal/domain/repository"
)

const (
	companyID = "co-1"
	actorID   = "user-almacenista"
)

type fakeItemRepo struct {
	items map[string]*entity.Item
}

func (f *fakeItemRepo) Create(item *entity.Item) error { f.items[item.ID] = item; return nil }

func (f *fakeItemRepo) GetByID(id string) (*entity.Item, error) {
	it, ok := f.items[id]
	if !ok {
		return nil, nil
	}
	cp := *it
	return &cp, nil
}

func (f *fakeItemRepo) GetBySealCode(string, string) (*entity.Item, error) { return nil, nil }
func (f *fakeItemRepo) GetForUpdate(id string) (*entity.Item, error)       { return f.GetByID(id) }

func (f *fakeItemRepo) Update(item *entity.Item) error {
	if _, ok := f.items[item.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *item
	f.items[item.ID] = &cp
	return nil
}

func (f *fakeItemRepo) SetActive(string, bool) error { return nil }
func (f *fakeItemRepo) List(string, repository.ItemFilter) ([]*entity.Item, int, error) {
	return nil, 0, nil
}
func (f *fakeItemRepo) ListLowStock(string) ([]*entity.Item, error) { return nil, nil }

type fakeMovementRepo struct {
	movements []*entity.Movement
}

func (f *fakeMovementRepo) Create(m *entity.Movement) error {
	f.movements = append(f.movements, m)
	return nil
}

func (f *fakeMovementRepo) GetByID(string) (*entity.Movement, error) { return nil, nil }

func (f *fakeMovementRepo) List(string, repository.MovementFilter) ([]*entity.Movement, int, error) {
	return f.movements, len(f.movements), nil
}

type fakeTxRunner struct {
	items *fakeItemRepo
	movs  *fakeMovementRepo
}

func (f *fakeTxRunner) RunMovement(_ context.Context, fn func(
	repository.ItemRepository, repository.MovementRepository,
) error) error {
	return fn(f.items, f.movs)
}

type fakeNotifier struct {
	sent []notify.Notification
}

func (f *fakeNotifier) Publish(_ context.Context, n notify.Notification) error {
	f.sent = append(f.sent, n)
	return nil
}

type fixture struct {
	uc       *movement.UseCase
	items    *fakeItemRepo
	movs     *fakeMovementRepo
	notifier *fakeNotifier
}

func newFixture() *fixture {
	items := &fakeItemRepo{items: map[string]*entity.Item{}}
	movs := &fakeMovementRepo{}
	notifier := &fakeNotifier{}
	runner := &fakeTxRunner{items: items, movs: movs}
	return &fixture{
		uc:       movement.NewUseCase(runner, movs, notifier),
		items:    items,
		movs:     movs,
		notifier: notifier,
	}
}

func (fx *fixture) addItem(id string, quantity, minQuantity int64) *entity.Item {
	it := &entity.Item{
		ID:           id,
		CompanyID:    companyID,
		Name:         "Cemento gris",
		SealCode:     "LACRE-" + id,
		Quantity:     quantity,
		MinQuantity:  minQuantity,
		Unit:         "saco",
		UnitValue:    decimal.NewFromInt(25),
		Status:       entity.ItemStatusAvailable,
		TrackingMode: entity.TrackingByQuantity,
		Disposition:  entity.InStock("loc-1"),
		Active:       true,
	}
	fx.items.items[id] = it
	return it
}

func TestRegister_EntradaAumentaStock(t *testing.T) {
	fx := newFixture()
	fx.addItem("item-1", 10, 0)

	out, err := fx.uc.Register(context.Background(), companyID, actorID, entity.RoleAlmacenista, dto.RegisterMovementRequest{
		ItemID: "item-1", Type: entity.MovementTypeEntry, Quantity: 5, Reason: "compra",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(10), out.PreviousQuantity)
	assert.Equal(t, int64(15), out.NewQuantity)

	it, _ := fx.items.GetByID("item-1")
	assert.Equal(t, int64(15), it.Quantity)
	assert.Len(t, fx.movs.movements, 1)
}

func TestRegister_AjusteConSigno(t *testing.T) {
	fx := newFixture()
	fx.addItem("item-1", 10, 0)

	out, err := fx.uc.Register(context.Background(), companyID, actorID, entity.RoleAlmacenista, dto.RegisterMovementRequest{
		ItemID: "item-1", Type: entity.MovementTypeAdjustment, Quantity: -3, Reason: "conteo físico",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), out.NewQuantity)
}

func TestRegister_NuncaBajoCero(t *testing.T) {
	fx := newFixture()
	fx.addItem("item-1", 2, 0)

	_, err := fx.uc.Register(context.Background(), companyID, actorID, entity.RoleAlmacenista, dto.RegisterMovementRequest{
		ItemID: "item-1", Type: entity.MovementTypeLoss, Quantity: 5,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	it, _ := fx.items.GetByID("item-1")
	assert.Equal(t, int64(2), it.Quantity, "ante el rechazo no hay mutación")
	assert.Empty(t, fx.movs.movements)
}

func TestRegister_TiposDeWorkflowRechazados(t *testing.T) {
	fx := newFixture()
	fx.addItem("item-1", 10, 0)

	for _, movType := range []string{entity.MovementTypeExit, entity.MovementTypeReturn, entity.MovementTypeTransfer} {
		_, err := fx.uc.Register(context.Background(), companyID, actorID, entity.RoleAlmacenista, dto.RegisterMovementRequest{
			ItemID: "item-1", Type: movType, Quantity: 1,
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput, movType)
	}
}

func TestRegister_RequiereRolElevado(t *testing.T) {
	fx := newFixture()
	fx.addItem("item-1", 10, 0)

	_, err := fx.uc.Register(context.Background(), companyID, "user-x", entity.RoleFuncionario, dto.RegisterMovementRequest{
		ItemID: "item-1", Type: entity.MovementTypeEntry, Quantity: 1,
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestRegister_MantenimientoCambiaDisposicion(t *testing.T) {
	fx := newFixture()
	fx.addItem("item-1", 1, 0)

	_, err := fx.uc.Register(context.Background(), companyID, actorID, entity.RoleGerente, dto.RegisterMovementRequest{
		ItemID: "item-1", Type: entity.MovementTypeMaintenance, Quantity: 1,
	})
	require.NoError(t, err)

	it, _ := fx.items.GetByID("item-1")
	assert.Equal(t, entity.DispositionInMaintenance, it.Disposition.Kind)
	assert.Equal(t, entity.ItemStatusMaintenance, it.Status)
	assert.Equal(t, int64(1), it.Quantity, "mantenimiento no varía cantidades")
}

func TestRegister_BajaDefinitiva(t *testing.T) {
	fx := newFixture()
	fx.addItem("item-1", 1, 0)

	_, err := fx.uc.Register(context.Background(), companyID, actorID, entity.RoleAlmacenista, dto.RegisterMovementRequest{
		ItemID: "item-1", Type: entity.MovementTypeDisposal, Quantity: 1, Reason: "dañado sin reparación",
	})
	require.NoError(t, err)

	it, _ := fx.items.GetByID("item-1")
	assert.Equal(t, int64(0), it.Quantity)
	assert.Equal(t, entity.ItemStatusRetired, it.Status)
}

func TestRegister_AvisaStockBajo(t *testing.T) {
	fx := newFixture()
	fx.addItem("item-1", 10, 4)

	_, err := fx.uc.Register(context.Background(), companyID, actorID, entity.RoleAlmacenista, dto.RegisterMovementRequest{
		ItemID: "item-1", Type: entity.MovementTypeLoss, Quantity: 7,
	})
	require.NoError(t, err)

	require.Len(t, fx.notifier.sent, 1)
	assert.Equal(t, notify.TypeLowStock, fx.notifier.sent[0].Type)
}
