package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jportela/almoxarifado-api/internal/domain"
	"github.com/jportela/almoxarifado-api/internal/domain/entity"
	"github.com/jportela/almoxarifado-api/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

const itemColumns = `id, company_id, name, seal_code, category_id, quantity, min_quantity, unit,
	unit_value, status, tracking_mode, disposition_kind, custodian_id, location_id, transfer_id,
	active, created_at, updated_at`

// ItemRepo implementación del puerto ItemRepository sobre PostgreSQL (usable con pool o tx).
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador de persistencia para ítems. Pasar pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

func scanItem(row pgx.Row) (*entity.Item, error) {
	var it entity.Item
	err := row.Scan(
		&it.ID, &it.CompanyID, &it.Name, &it.SealCode, &it.CategoryID, &it.Quantity,
		&it.MinQuantity, &it.Unit, &it.UnitValue, &it.Status, &it.TrackingMode,
		&it.Disposition.Kind, &it.Disposition.CustodianID, &it.Disposition.LocationID,
		&it.Disposition.TransferID, &it.Active, &it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

// Create persiste un nuevo ítem. Devuelve domain.ErrDuplicate si el lacre ya existe en la empresa.
func (r *ItemRepo) Create(item *entity.Item) error {
	query := `
		INSERT INTO items (id, company_id, name, seal_code, category_id, quantity, min_quantity, unit,
			unit_value, status, tracking_mode, disposition_kind, custodian_id, location_id, transfer_id,
			active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.CompanyID, item.Name, item.SealCode, item.CategoryID, item.Quantity,
		item.MinQuantity, item.Unit, item.UnitValue, item.Status, item.TrackingMode,
		item.Disposition.Kind, item.Disposition.CustodianID, item.Disposition.LocationID,
		item.Disposition.TransferID, item.Active, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

// GetByID obtiene un ítem por ID.
func (r *ItemRepo) GetByID(id string) (*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1`
	it, err := scanItem(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return it, nil
}

// GetBySealCode obtiene un ítem por empresa y lacre.
func (r *ItemRepo) GetBySealCode(companyID, sealCode string) (*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE company_id = $1 AND seal_code = $2`
	it, err := scanItem(r.q.QueryRow(context.Background(), query, companyID, sealCode))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item by seal: %w", err)
	}
	return it, nil
}

// GetForUpdate obtiene un ítem bloqueando su fila. Solo dentro de una transacción:
// serializa el verificar-y-actuar de solicitudes, transferencias y ajustes.
func (r *ItemRepo) GetForUpdate(id string) (*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1 FOR UPDATE`
	it, err := scanItem(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("lock item: %w", err)
	}
	return it, nil
}

// Update persiste cantidad, estado y disposición del ítem junto con sus datos de catálogo.
func (r *ItemRepo) Update(item *entity.Item) error {
	query := `
		UPDATE items SET name = $2, category_id = $3, quantity = $4, min_quantity = $5, unit = $6,
			unit_value = $7, status = $8, disposition_kind = $9, custodian_id = $10, location_id = $11,
			transfer_id = $12, updated_at = $13
		WHERE id = $1`
	cmd, err := r.q.Exec(context.Background(), query,
		item.ID, item.Name, item.CategoryID, item.Quantity, item.MinQuantity, item.Unit,
		item.UnitValue, item.Status, item.Disposition.Kind, item.Disposition.CustodianID,
		item.Disposition.LocationID, item.Disposition.TransferID, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetActive activa o desactiva un ítem (soft delete).
func (r *ItemRepo) SetActive(id string, active bool) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE items SET active = $2, updated_at = NOW() WHERE id = $1`, id, active)
	if err != nil {
		return fmt.Errorf("set item active: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista ítems de una empresa con filtros y paginación. Devuelve también el total.
func (r *ItemRepo) List(companyID string, f repository.ItemFilter) ([]*entity.Item, int, error) {
	conds := []string{"company_id = $1"}
	args := []any{companyID}

	if f.CategoryID != "" {
		args = append(args, f.CategoryID)
		conds = append(conds, fmt.Sprintf("category_id = $%d", len(args)))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		conds = append(conds, fmt.Sprintf("(name ILIKE $%d OR seal_code ILIKE $%d)", len(args), len(args)))
	}
	if f.OnlyActive {
		conds = append(conds, "active = true")
	}
	where := strings.Join(conds, " AND ")

	var total int
	err := r.q.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM items WHERE `+where, args...).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count items: %w", err)
	}

	args = append(args, f.Limit, f.Offset)
	query := fmt.Sprintf(`SELECT %s FROM items WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		itemColumns, where, len(args)-1, len(args))
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var items []*entity.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, it)
	}
	return items, total, rows.Err()
}

// ListLowStock lista ítems activos cuyo stock quedó en o bajo el umbral mínimo.
func (r *ItemRepo) ListLowStock(companyID string) ([]*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items
		WHERE company_id = $1 AND active = true AND min_quantity > 0 AND quantity <= min_quantity
		ORDER BY quantity ASC`
	rows, err := r.q.Query(context.Background(), query, companyID)
	if err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}
	defer rows.Close()

	var items []*entity.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
