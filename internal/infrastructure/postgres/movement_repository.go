package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jportela/almoxarifado-api/internal/domain/entity"
	"github.com/jportela/almoxarifado-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

const movementColumns = `id, company_id, item_id, user_id, type, quantity, previous_quantity,
	new_quantity, from_location_id, to_location_id, request_id, transfer_id, reason,
	total_value, metadata, created_at`

// MovementRepo implementación del puerto MovementRepository sobre PostgreSQL.
// El log es solo-inserción: no hay Update ni Delete.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador de persistencia del log de movimientos.
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

func scanMovement(row pgx.Row) (*entity.Movement, error) {
	var m entity.Movement
	err := row.Scan(
		&m.ID, &m.CompanyID, &m.ItemID, &m.UserID, &m.Type, &m.Quantity, &m.PreviousQuantity,
		&m.NewQuantity, &m.FromLocationID, &m.ToLocationID, &m.RequestID, &m.TransferID,
		&m.Reason, &m.TotalValue, &m.Metadata, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Create inserta un registro en el log de movimientos.
func (r *MovementRepo) Create(movement *entity.Movement) error {
	query := `
		INSERT INTO movements (id, company_id, item_id, user_id, type, quantity, previous_quantity,
			new_quantity, from_location_id, to_location_id, request_id, transfer_id, reason,
			total_value, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(context.Background(), query,
		movement.ID, movement.CompanyID, movement.ItemID, movement.UserID, movement.Type,
		movement.Quantity, movement.PreviousQuantity, movement.NewQuantity,
		movement.FromLocationID, movement.ToLocationID, movement.RequestID, movement.TransferID,
		movement.Reason, movement.TotalValue, movement.Metadata, movement.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID.
func (r *MovementRepo) GetByID(id string) (*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM movements WHERE id = $1`
	m, err := scanMovement(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return m, nil
}

// List consulta el historial de movimientos de una empresa con filtros y paginación.
func (r *MovementRepo) List(companyID string, f repository.MovementFilter) ([]*entity.Movement, int, error) {
	conds := []string{"company_id = $1"}
	args := []any{companyID}

	if f.ItemID != "" {
		args = append(args, f.ItemID)
		conds = append(conds, fmt.Sprintf("item_id = $%d", len(args)))
	}
	if f.UserID != "" {
		args = append(args, f.UserID)
		conds = append(conds, fmt.Sprintf("user_id = $%d", len(args)))
	}
	if f.Type != "" {
		args = append(args, f.Type)
		conds = append(conds, fmt.Sprintf("type = $%d", len(args)))
	}
	if f.From != nil {
		args = append(args, *f.From)
		conds = append(conds, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if f.To != nil {
		args = append(args, *f.To)
		conds = append(conds, fmt.Sprintf("created_at <= $%d", len(args)))
	}
	where := strings.Join(conds, " AND ")

	var total int
	err := r.q.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM movements WHERE `+where, args...).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count movements: %w", err)
	}

	args = append(args, f.Limit, f.Offset)
	query := fmt.Sprintf(`SELECT %s FROM movements WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		movementColumns, where, len(args)-1, len(args))
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()

	var movements []*entity.Movement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan movement: %w", err)
		}
		movements = append(movements, m)
	}
	return movements, total, rows.Err()
}
