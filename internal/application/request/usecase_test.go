package request_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jportela/almoxarifado-api/internal/application/dto"
	"github.com/jportela/almoxarifado-api/internal/application/notify"
	"github.com/jportela/almoxarifado-api/internal/application/request"
	"github.com/jportela/almoxarifado-api/internal/domain"
	"github.com/jportela/almoxarifado-api/internal/domain/entity"
	"github.com/jportela/almoxarifado-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

const (
	companyID   = "co-1"
	requesterID = "user-funcionario"
	approverID  = "user-almacenista"
)

type fakeItemRepo struct {
	items map[string]*entity.Item
}

func (f *fakeItemRepo) Create(item *entity.Item) error {
	f.items[item.ID] = item
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

type fakeRequestRepo struct {
	requests       map[string]*entity.Request
	duplicatesLeft int // cuántos Create fallan con ErrDuplicate antes de aceptar
	createCalls    int
}

func (f *fakeRequestRepo) Create(r *entity.Request) error {
	f.createCalls++
	if f.duplicatesLeft > 0 {
		f.duplicatesLeft--
		return domain.ErrDuplicate
	}
	cp := *r
	f.requests[r.ID] = &cp
	return nil
}

func (f *fakeRequestRepo) GetByID(id string) (*entity.Request, error) {
	r, ok := f.requests[id]
	if !ok {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

func (f *fakeRequestRepo) GetForUpdate(id string) (*entity.Request, error) { return f.GetByID(id) }

func (f *fakeRequestRepo) Update(r *entity.Request) error {
	if _, ok := f.requests[r.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *r
	f.requests[r.ID] = &cp
	return nil
}

func (f *fakeRequestRepo) List(companyID string, fl repository.WorkflowFilter) ([]*entity.Request, int, error) {
	var out []*entity.Request
	for _, r := range f.requests {
		if r.CompanyID != companyID {
			continue
		}
		if fl.RequesterID != "" && r.RequesterID != fl.RequesterID {
			continue
		}
		if fl.Status != "" && r.Status != fl.Status {
			continue
		}
		cp := *r
		out = append(out, &cp)
	}
	return out, len(out), nil
}

// fakeTxRunner ejecuta el callback directamente sobre los fakes, sin tx real.
type fakeTxRunner struct {
	items *fakeItemRepo
	movs  *fakeMovementRepo
	reqs  *fakeRequestRepo
}

func (f *fakeTxRunner) Run(_ context.Context, fn func(
	repository.ItemRepository, repository.MovementRepository, repository.RequestRepository,
) error) error {
	return fn(f.items, f.movs, f.reqs)
}

type fakeNotifier struct {
	sent []notify.Notification
}

func (f *fakeNotifier) Publish(_ context.Context, n notify.Notification) error {
	f.sent = append(f.sent, n)
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Fixture
// ──────────────────────────────────────────────────────────────────────────────

type fixture struct {
	uc       *request.UseCase
	items    *fakeItemRepo
	movs     *fakeMovementRepo
	reqs     *fakeRequestRepo
	notifier *fakeNotifier
}

func newFixture() *fixture {
	items := &fakeItemRepo{items: map[string]*entity.Item{}}
	movs := &fakeMovementRepo{}
	reqs := &fakeRequestRepo{requests: map[string]*entity.Request{}}
	notifier := &fakeNotifier{}
	runner := &fakeTxRunner{items: items, movs: movs, reqs: reqs}
	return &fixture{
		uc:       request.NewUseCase(runner, items, reqs, notifier),
		items:    items,
		movs:     movs,
		reqs:     reqs,
		notifier: notifier,
	}
}

func (fx *fixture) addItem(id string, quantity int64) *entity.Item {
	it := &entity.Item{
		ID:           id,
		CompanyID:    companyID,
		Name:         "Taladro industrial",
		SealCode:     "LACRE-" + id,
		Quantity:     quantity,
		MinQuantity:  2,
		Unit:         "und",
		UnitValue:    decimal.NewFromInt(150),
		Status:       entity.ItemStatusAvailable,
		TrackingMode: entity.TrackingByQuantity,
		Disposition:  entity.InStock("loc-1"),
		Active:       true,
	}
	fx.items.items[id] = it
	return it
}

func (fx *fixture) createRequest(t *testing.T, quantity int64) *dto.RequestResponse {
	t.Helper()
	out, err := fx.uc.Create(context.Background(), companyID, requesterID, dto.CreateRequestRequest{
		ItemID:   "item-1",
		Quantity: quantity,
		Purpose:  "obra norte",
	})
	require.NoError(t, err)
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_SolicitudQuedaPendiente(t *testing.T) {
	fx := newFixture()
	fx.addItem("item-1", 10)

	out := fx.createRequest(t, 7)

	assert.Equal(t, entity.RequestStatusPending, out.Status)
	assert.Equal(t, entity.PriorityNormal, out.Priority, "prioridad por defecto")
	assert.Regexp(t, `^REQ-\d{8}-[0-9A-F]{4}$`, out.Code)

	// crear no compromete stock
	it, _ := fx.items.GetByID("item-1")
	assert.Equal(t, int64(10), it.Quantity)
	assert.Empty(t, fx.movs.movements, "crear no registra movimientos")

	require.Len(t, fx.notifier.sent, 1)
	assert.Equal(t, notify.TypeRequestCreated, fx.notifier.sent[0].Type)
	assert.Equal(t, entity.RoleAlmacenista, fx.notifier.sent[0].MinRole, "difusión a roles de bodega")
}

func TestCreate_StockInsuficiente(t *testing.T) {
	fx := newFixture()
	fx.addItem("item-1", 3)

	_, err := fx.uc.Create(context.Background(), companyID, requesterID, dto.CreateRequestRequest{
		ItemID: "item-1", Quantity: 5,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestCreate_CantidadInvalida(t *testing.T) {
	fx := newFixture()
	fx.addItem("item-1", 10)

	_, err := fx.uc.Create(context.Background(), companyID, requesterID, dto.CreateRequestRequest{
		ItemID: "item-1", Quantity: 0,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreate_ItemDeOtraEmpresa(t *testing.T) {
	fx := newFixture()
	it := fx.addItem("item-1", 10)
	it.CompanyID = "otra-empresa"

	_, err := fx.uc.Create(context.Background(), companyID, requesterID, dto.CreateRequestRequest{
		ItemID: "item-1", Quantity: 1,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound, "lo ajeno se presenta como inexistente")
}

func TestCreate_ReintentaCodigoDuplicado(t *testing.T) {
	fx := newFixture()
	fx.addItem("item-1", 10)
	fx.reqs.duplicatesLeft = 2

	out := fx.createRequest(t, 1)

	assert.Equal(t, 3, fx.reqs.createCalls, "dos colisiones y un éxito")
	assert.NotEmpty(t, out.Code)
}

// ──────────────────────────────────────────────────────────────────────────────
// Approve / Reject
// ──────────────────────────────────────────────────────────────────────────────

func TestApprove_NoMutaElItem(t *testing.T) {
	fx := newFixture()
	fx.addItem("item-1", 10)
	created := fx.createRequest(t, 7)

	out, err := fx.uc.Approve(context.Background(), companyID, approverID, entity.RoleAlmacenista, created.ID, "ok")
	require.NoError(t, err)

	assert.Equal(t, entity.RequestStatusApproved, out.Status)
	require.NotNil(t, out.ApproverID)
	assert.Equal(t, approverID, *out.ApproverID)

	// aprobar no descuenta ni asigna custodia
	it, _ := fx.items.GetByID("item-1")
	assert.Equal(t, int64(10), it.Quantity)
	assert.Equal(t, entity.DispositionInStock, it.Disposition.Kind)
	assert.Empty(t, fx.movs.movements)
}

func TestApprove_RequiereRolElevado(t *testing.T) {
	fx := newFixture()
	fx.addItem("item-1", 10)
	created := fx.createRequest(t, 1)

	_, err := fx.uc.Approve(context.Background(), companyID, requesterID, entity.RoleFuncionario, created.ID, "")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestApprove_DobleAprobacionFalla(t *testing.T) {
	fx := newFixture()
	fx.addItem("item-1", 10)
	created := fx.createRequest(t, 1)

	_, err := fx.uc.Approve(context.Background(), companyID, approverID, entity.RoleAlmacenista, created.ID, "")
	require.NoError(t, err)

	// el segundo aprobador llega tarde: la solicitud ya no está pending
	_, err = fx.uc.Approve(context.Background(), companyID, "otro-gerente", entity.RoleGerente, created.ID, "")
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestApprove_RevalidaStock(t *testing.T) {
	fx := newFixture()
	fx.addItem("item-1", 10)
	created := fx.createRequest(t, 7)

	// el stock se consumió entre crear y aprobar
	it := fx.items.items["item-1"]
	it.Quantity = 4

	_, err := fx.uc.Approve(context.Background(), companyID, approverID, entity.RoleAlmacenista, created.ID, "")
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	stored, _ := fx.reqs.GetByID(created.ID)
	assert.Equal(t, entity.RequestStatusPending, stored.Status, "la solicitud sigue pendiente")
}

func TestReject_Terminal(t *testing.T) {
	fx := newFixture()
	fx.addItem("item-1", 10)
	created := fx.createRequest(t, 1)

	out, err := fx.uc.Reject(context.Background(), companyID, approverID, entity.RoleAlmacenista, created.ID, "sin justificación")
	require.NoError(t, err)
	assert.Equal(t, entity.RequestStatusRejected, out.Status)
	assert.Equal(t, "sin justificación", out.RejectedReason)

	// rechazada es terminal: no se puede aprobar después
	_, err = fx.uc.Approve(context.Background(), companyID, approverID, entity.RoleAlmacenista, created.ID, "")
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

// ──────────────────────────────────────────────────────────────────────────────
// Complete
// ──────────────────────────────────────────────────────────────────────────────

func TestComplete_EntregaDescuentaYAsignaCustodia(t *testing.T) {
	fx := newFixture()
	fx.addItem("item-1", 10)
	created := fx.createRequest(t, 7)

	_, err := fx.uc.Approve(context.Background(), companyID, approverID, entity.RoleAlmacenista, created.ID, "")
	require.NoError(t, err)

	out, err := fx.uc.Complete(context.Background(), companyID, approverID, entity.RoleAlmacenista, created.ID, "entregado en mano")
	require.NoError(t, err)
	assert.Equal(t, entity.RequestStatusCompleted, out.Status)

	it, _ := fx.items.GetByID("item-1")
	assert.Equal(t, int64(3), it.Quantity, "10 - 7 = 3")
	assert.Equal(t, requesterID, it.CustodianID(), "la custodia pasa al solicitante")

	require.Len(t, fx.movs.movements, 1, "exactamente un movimiento por la entrega")
	mov := fx.movs.movements[0]
	assert.Equal(t, entity.MovementTypeExit, mov.Type)
	assert.Equal(t, int64(10), mov.PreviousQuantity)
	assert.Equal(t, int64(3), mov.NewQuantity)
	require.NotNil(t, mov.RequestID)
	assert.Equal(t, created.ID, *mov.RequestID, "el movimiento enlaza la solicitud")
}

func TestComplete_SinAprobarFalla(t *testing.T) {
	fx := newFixture()
	fx.addItem("item-1", 10)
	created := fx.createRequest(t, 1)

	_, err := fx.uc.Complete(context.Background(), companyID, approverID, entity.RoleAlmacenista, created.ID, "")
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestComplete_RevalidaStockAlEntregar(t *testing.T) {
	fx := newFixture()
	fx.addItem("item-1", 10)
	created := fx.createRequest(t, 7)
	_, err := fx.uc.Approve(context.Background(), companyID, approverID, entity.RoleAlmacenista, created.ID, "")
	require.NoError(t, err)

	fx.items.items["item-1"].Quantity = 2

	_, err = fx.uc.Complete(context.Background(), companyID, approverID, entity.RoleAlmacenista, created.ID, "")
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	stored, _ := fx.reqs.GetByID(created.ID)
	assert.Equal(t, entity.RequestStatusApproved, stored.Status)
	assert.Empty(t, fx.movs.movements, "sin entrega no hay movimiento")
}

func TestComplete_NotificaStockBajo(t *testing.T) {
	fx := newFixture()
	fx.addItem("item-1", 10) // MinQuantity 2
	created := fx.createRequest(t, 9)

	_, err := fx.uc.Approve(context.Background(), companyID, approverID, entity.RoleAlmacenista, created.ID, "")
	require.NoError(t, err)
	_, err = fx.uc.Complete(context.Background(), companyID, approverID, entity.RoleAlmacenista, created.ID, "")
	require.NoError(t, err)

	var lowStock *notify.Notification
	for i := range fx.notifier.sent {
		if fx.notifier.sent[i].Type == notify.TypeLowStock {
			lowStock = &fx.notifier.sent[i]
		}
	}
	require.NotNil(t, lowStock, "quedó en 1 con mínimo 2: debe avisar")
	assert.Equal(t, entity.RoleAlmacenista, lowStock.MinRole)
}

// ──────────────────────────────────────────────────────────────────────────────
// Cancel y alcance por rol
// ──────────────────────────────────────────────────────────────────────────────

func TestCancel_SolicitantePuedeCancelar(t *testing.T) {
	fx := newFixture()
	fx.addItem("item-1", 10)
	created := fx.createRequest(t, 1)

	out, err := fx.uc.Cancel(context.Background(), companyID, requesterID, entity.RoleFuncionario, created.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RequestStatusCancelled, out.Status)
}

func TestCancel_TerceroBaseNoPuede(t *testing.T) {
	fx := newFixture()
	fx.addItem("item-1", 10)
	created := fx.createRequest(t, 1)

	_, err := fx.uc.Cancel(context.Background(), companyID, "otro-funcionario", entity.RoleFuncionario, created.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestCancel_CompletadaNoSeCancela(t *testing.T) {
	fx := newFixture()
	fx.addItem("item-1", 10)
	created := fx.createRequest(t, 1)
	_, err := fx.uc.Approve(context.Background(), companyID, approverID, entity.RoleAlmacenista, created.ID, "")
	require.NoError(t, err)
	_, err = fx.uc.Complete(context.Background(), companyID, approverID, entity.RoleAlmacenista, created.ID, "")
	require.NoError(t, err)

	_, err = fx.uc.Cancel(context.Background(), companyID, requesterID, entity.RoleFuncionario, created.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestList_RolBaseSoloVeLasPropias(t *testing.T) {
	fx := newFixture()
	fx.addItem("item-1", 10)
	fx.createRequest(t, 1)

	// solicitud de otro usuario
	_, err := fx.uc.Create(context.Background(), companyID, "otro-usuario", dto.CreateRequestRequest{
		ItemID: "item-1", Quantity: 1,
	})
	require.NoError(t, err)

	own, _, err := fx.uc.List(companyID, requesterID, entity.RoleFuncionario, dto.ListWorkflowRequest{})
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, requesterID, own[0].RequesterID)

	all, _, err := fx.uc.List(companyID, approverID, entity.RoleAlmacenista, dto.ListWorkflowRequest{})
	require.NoError(t, err)
	assert.Len(t, all, 2, "el rol elevado ve todas")
}

func TestGetByID_RolBaseNoVeAjenas(t *testing.T) {
	fx := newFixture()
	fx.addItem("item-1", 10)
	created := fx.createRequest(t, 1)

	_, err := fx.uc.GetByID(companyID, "otro-usuario", entity.RoleFuncionario, created.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = fx.uc.GetByID(companyID, approverID, entity.RoleGerente, created.ID)
	assert.NoError(t, err)
}
