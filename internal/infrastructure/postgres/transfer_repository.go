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

var _ repository.TransferRepository = (*TransferRepo)(nil)

const transferColumns = `id, company_id, code, item_id, quantity, from_user_id, to_user_id,
	from_location_id, to_location_id, reason, status, return_to_stock, sent_at, received_at,
	confirmed_by, response_notes, created_at, updated_at`

// TransferRepo implementación del puerto TransferRepository sobre PostgreSQL.
type TransferRepo struct {
	q Querier
}

// NewTransferRepository construye el adaptador de persistencia para transferencias.
func NewTransferRepository(q Querier) *TransferRepo {
	return &TransferRepo{q: q}
}

func scanTransfer(row pgx.Row) (*entity.Transfer, error) {
	var t entity.Transfer
	err := row.Scan(
		&t.ID, &t.CompanyID, &t.Code, &t.ItemID, &t.Quantity, &t.FromUserID, &t.ToUserID,
		&t.FromLocationID, &t.ToLocationID, &t.Reason, &t.Status, &t.ReturnToStock,
		&t.SentAt, &t.ReceivedAt, &t.ConfirmedBy, &t.ResponseNotes, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Create persiste una transferencia. Devuelve domain.ErrDuplicate si el código ya existe.
func (r *TransferRepo) Create(transfer *entity.Transfer) error {
	query := `
		INSERT INTO transfers (id, company_id, code, item_id, quantity, from_user_id, to_user_id,
			from_location_id, to_location_id, reason, status, return_to_stock, sent_at, received_at,
			confirmed_by, response_notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`
	_, err := r.q.Exec(context.Background(), query,
		transfer.ID, transfer.CompanyID, transfer.Code, transfer.ItemID, transfer.Quantity,
		transfer.FromUserID, transfer.ToUserID, transfer.FromLocationID, transfer.ToLocationID,
		transfer.Reason, transfer.Status, transfer.ReturnToStock, transfer.SentAt,
		transfer.ReceivedAt, transfer.ConfirmedBy, transfer.ResponseNotes,
		transfer.CreatedAt, transfer.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert transfer: %w", err)
	}
	return nil
}

// GetByID obtiene una transferencia por ID.
func (r *TransferRepo) GetByID(id string) (*entity.Transfer, error) {
	query := `SELECT ` + transferColumns + ` FROM transfers WHERE id = $1`
	t, err := scanTransfer(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transfer: %w", err)
	}
	return t, nil
}

// GetForUpdate obtiene una transferencia bloqueando su fila. Solo dentro de una transacción.
func (r *TransferRepo) GetForUpdate(id string) (*entity.Transfer, error) {
	query := `SELECT ` + transferColumns + ` FROM transfers WHERE id = $1 FOR UPDATE`
	t, err := scanTransfer(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("lock transfer: %w", err)
	}
	return t, nil
}

// Update persiste el estado y los campos de respuesta de una transferencia.
func (r *TransferRepo) Update(transfer *entity.Transfer) error {
	query := `
		UPDATE transfers SET status = $2, sent_at = $3, received_at = $4, confirmed_by = $5,
			response_notes = $6, to_location_id = $7, updated_at = $8
		WHERE id = $1`
	cmd, err := r.q.Exec(context.Background(), query,
		transfer.ID, transfer.Status, transfer.SentAt, transfer.ReceivedAt, transfer.ConfirmedBy,
		transfer.ResponseNotes, transfer.ToLocationID, transfer.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update transfer: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista transferencias de una empresa con filtros y paginación.
func (r *TransferRepo) List(companyID string, f repository.TransferFilter) ([]*entity.Transfer, int, error) {
	conds := []string{"company_id = $1"}
	args := []any{companyID}

	if f.Status != "" {
		args = append(args, f.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if f.RequesterID != "" {
		args = append(args, f.RequesterID)
		conds = append(conds, fmt.Sprintf("from_user_id = $%d", len(args)))
	}
	if f.ToUserID != "" {
		args = append(args, f.ToUserID)
		conds = append(conds, fmt.Sprintf("to_user_id = $%d", len(args)))
	}
	if f.InvolvedUserID != "" {
		args = append(args, f.InvolvedUserID)
		conds = append(conds, fmt.Sprintf("(from_user_id = $%d OR to_user_id = $%d)", len(args), len(args)))
	}
	if f.ReturnToStock != nil {
		args = append(args, *f.ReturnToStock)
		conds = append(conds, fmt.Sprintf("return_to_stock = $%d", len(args)))
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
		`SELECT COUNT(*) FROM transfers WHERE `+where, args...).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count transfers: %w", err)
	}

	args = append(args, f.Limit, f.Offset)
	query := fmt.Sprintf(`SELECT %s FROM transfers WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		transferColumns, where, len(args)-1, len(args))
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list transfers: %w", err)
	}
	defer rows.Close()

	var transfers []*entity.Transfer
	for rows.Next() {
		t, err := scanTransfer(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan transfer: %w", err)
		}
		transfers = append(transfers, t)
	}
	return transfers, total, rows.Err()
}
