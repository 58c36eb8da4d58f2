package custody_test

import (
	"testing"
	"time"

	"github.com/jportela/almoxarifado-api/internal/domain"
	"github.com/jportela/almoxarifado-api/internal/domain/custody"
	"github.com/jportela/almoxarifado-api/internal/domain/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func itemDisponible(qty int64) *entity.Item {
	return &entity.Item{
		ID:           "item-1",
		CompanyID:    "co-1",
		Name:         "Taladro percutor",
		SealCode:     "LACRE-0001",
		Quantity:     qty,
		Unit:         "un",
		UnitValue:    decimal.NewFromInt(150),
		Status:       entity.ItemStatusAvailable,
		TrackingMode: entity.TrackingByQuantity,
		Disposition:  entity.InStock("loc-1"),
		Active:       true,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// ValidateAvailability
// ──────────────────────────────────────────────────────────────────────────────

func TestValidateAvailability_StockSuficiente(t *testing.T) {
	assert.NoError(t, custody.ValidateAvailability(itemDisponible(10), 3))
}

func TestValidateAvailability_StockInsuficiente(t *testing.T) {
	err := custody.ValidateAvailability(itemDisponible(2), 3)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestValidateAvailability_ItemNoDisponible(t *testing.T) {
	it := itemDisponible(5)
	it.Status = entity.ItemStatusMaintenance
	assert.ErrorIs(t, custody.ValidateAvailability(it, 1), domain.ErrItemUnavailable)

	it.Status = entity.ItemStatusInUse
	assert.ErrorIs(t, custody.ValidateAvailability(it, 1), domain.ErrItemUnavailable)

	it.Status = entity.ItemStatusAvailable
	it.Active = false
	assert.ErrorIs(t, custody.ValidateAvailability(it, 1), domain.ErrItemUnavailable)
}

func TestValidateAvailability_CantidadInvalida(t *testing.T) {
	assert.ErrorIs(t, custody.ValidateAvailability(itemDisponible(5), 0), domain.ErrInvalidInput)
	assert.ErrorIs(t, custody.ValidateAvailability(itemDisponible(5), -1), domain.ErrInvalidInput)
}

func TestValidateAvailability_SerialSoloUnaUnidad(t *testing.T) {
	it := itemDisponible(1)
	it.TrackingMode = entity.TrackingBySerial
	assert.NoError(t, custody.ValidateAvailability(it, 1))
	assert.ErrorIs(t, custody.ValidateAvailability(it, 2), domain.ErrInvalidInput)
}

func TestValidateAvailability_ItemNil(t *testing.T) {
	assert.ErrorIs(t, custody.ValidateAvailability(nil, 1), domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Apply — el par mutación+movimiento
// ──────────────────────────────────────────────────────────────────────────────

func TestApply_SalidaDescuentaYAsignaCustodio(t *testing.T) {
	it := itemDisponible(10)
	now := time.Now()

	mov, err := custody.Apply(it, "user-almacen", entity.MovementTypeExit, 3, entity.WithCustodian("user-pedro"), now)
	require.NoError(t, err)

	assert.EqualValues(t, 7, it.Quantity)
	assert.Equal(t, entity.ItemStatusAvailable, it.Status, "con 7 unidades restantes sigue disponible")
	assert.Equal(t, entity.DispositionWithCustodian, it.Disposition.Kind)
	assert.Equal(t, "user-pedro", it.Disposition.CustodianID)
	assert.Empty(t, it.Disposition.LocationID, "asignar custodio limpia la ubicación de bodega")

	assert.EqualValues(t, 10, mov.PreviousQuantity)
	assert.EqualValues(t, 7, mov.NewQuantity)
	assert.EqualValues(t, 3, mov.Quantity)
	assert.Equal(t, entity.MovementTypeExit, mov.Type)
	assert.True(t, mov.TotalValue.Equal(decimal.NewFromInt(450)))
}

func TestApply_SalidaAgotaStockCambiaAEnUso(t *testing.T) {
	it := itemDisponible(7)
	mov, err := custody.Apply(it, "u1", entity.MovementTypeExit, 7, entity.WithCustodian("u2"), time.Now())
	require.NoError(t, err)

	assert.EqualValues(t, 0, it.Quantity)
	assert.Equal(t, entity.ItemStatusInUse, it.Status)
	assert.EqualValues(t, 0, mov.NewQuantity)
}

func TestApply_DevolucionRestauraDisponible(t *testing.T) {
	it := itemDisponible(0)
	it.Status = entity.ItemStatusInUse
	it.Disposition = entity.WithCustodian("u2")

	mov, err := custody.Apply(it, "u1", entity.MovementTypeReturn, 7, entity.InStock("loc-1"), time.Now())
	require.NoError(t, err)

	assert.EqualValues(t, 7, it.Quantity)
	assert.Equal(t, entity.ItemStatusAvailable, it.Status, "volver de 0 a >0 restaura available")
	assert.Equal(t, entity.DispositionInStock, it.Disposition.Kind)
	assert.Empty(t, it.Disposition.CustodianID, "devolver a bodega limpia el custodio")
	assert.EqualValues(t, 0, mov.PreviousQuantity)
	assert.EqualValues(t, 7, mov.NewQuantity)
}

func TestApply_SalidaMayorAlStockFalla(t *testing.T) {
	it := itemDisponible(2)
	_, err := custody.Apply(it, "u1", entity.MovementTypeExit, 5, entity.WithCustodian("u2"), time.Now())
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.EqualValues(t, 2, it.Quantity, "el ítem no debe mutarse cuando la operación falla")
}

func TestApply_TransferNoMueveCantidad(t *testing.T) {
	it := itemDisponible(1)
	it.TrackingMode = entity.TrackingBySerial
	it.Disposition = entity.WithCustodian("user-a")

	mov, err := custody.Apply(it, "user-b", entity.MovementTypeTransfer, 1, entity.WithCustodian("user-b"), time.Now())
	require.NoError(t, err)

	assert.EqualValues(t, 1, it.Quantity)
	assert.Equal(t, "user-b", it.Disposition.CustodianID)
	assert.Equal(t, mov.PreviousQuantity, mov.NewQuantity, "transfer deja el stock intacto")
}

func TestApply_AjusteConSigno(t *testing.T) {
	it := itemDisponible(10)
	mov, err := custody.Apply(it, "u1", entity.MovementTypeAdjustment, -4, it.Disposition, time.Now())
	require.NoError(t, err)
	assert.EqualValues(t, 6, it.Quantity)
	assert.EqualValues(t, -4, mov.Quantity)
	assert.True(t, mov.TotalValue.Equal(decimal.NewFromInt(600)), "el valor usa la magnitud")

	_, err = custody.Apply(it, "u1", entity.MovementTypeAdjustment, 0, it.Disposition, time.Now())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestApply_MantenimientoCambiaEstado(t *testing.T) {
	it := itemDisponible(3)
	_, err := custody.Apply(it, "u1", entity.MovementTypeMaintenance, 0, entity.InMaintenance(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, entity.ItemStatusMaintenance, it.Status)
	assert.Equal(t, entity.DispositionInMaintenance, it.Disposition.Kind)
	assert.EqualValues(t, 3, it.Quantity)
}

func TestApply_BajaTotalRetiraElItem(t *testing.T) {
	it := itemDisponible(2)
	_, err := custody.Apply(it, "u1", entity.MovementTypeDisposal, 2, it.Disposition, time.Now())
	require.NoError(t, err)
	assert.Equal(t, entity.ItemStatusRetired, it.Status)
	assert.EqualValues(t, 0, it.Quantity)
}

func TestApply_TipoDesconocidoFalla(t *testing.T) {
	_, err := custody.Apply(itemDisponible(1), "u1", "teleport", 1, entity.InStock(""), time.Now())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Conservación: la cantidad final es la inicial más la suma firmada de los deltas.
func TestApply_ConservacionDeCantidad(t *testing.T) {
	it := itemDisponible(10)
	now := time.Now()
	initial := it.Quantity

	steps := []struct {
		movType string
		qty     int64
		disp    entity.Disposition
	}{
		{entity.MovementTypeExit, 3, entity.WithCustodian("u2")},
		{entity.MovementTypeReturn, 2, entity.InStock("loc-1")},
		{entity.MovementTypeEntry, 5, entity.InStock("loc-1")},
		{entity.MovementTypeAdjustment, -1, entity.InStock("loc-1")},
		{entity.MovementTypeLoss, 2, entity.InStock("loc-1")},
	}

	var sum int64
	for _, s := range steps {
		mov, err := custody.Apply(it, "u1", s.movType, s.qty, s.disp, now)
		require.NoError(t, err)
		sum += mov.NewQuantity - mov.PreviousQuantity
		assert.EqualValues(t, mov.PreviousQuantity+(mov.NewQuantity-mov.PreviousQuantity), mov.NewQuantity)
	}
	assert.EqualValues(t, initial+sum, it.Quantity)
	assert.EqualValues(t, 11, it.Quantity)
}
