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

var _ repository.RequestRepository = (*RequestRepo)(nil)

const requestColumns = `id, company_id, code, requester_id, item_id, quantity, purpose, priority,
	status, approver_id, approval_notes, approved_at, rejected_reason, rejected_at, deliverer_id,
	delivery_notes, completed_at, cancelled_at, created_at, updated_at`

// RequestRepo implementación del puerto RequestRepository sobre PostgreSQL.
type RequestRepo struct {
	q Querier
}

// NewRequestRepository construye el adaptador de persistencia para solicitudes.
func NewRequestRepository(q Querier) *RequestRepo {
	return &RequestRepo{q: q}
}

func scanRequest(row pgx.Row) (*entity.Request, error) {
	var req entity.Request
	err := row.Scan(
		&req.ID, &req.CompanyID, &req.Code, &req.RequesterID, &req.ItemID, &req.Quantity,
		&req.Purpose, &req.Priority, &req.Status, &req.ApproverID, &req.ApprovalNotes,
		&req.ApprovedAt, &req.RejectedReason, &req.RejectedAt, &req.DelivererID,
		&req.DeliveryNotes, &req.CompletedAt, &req.CancelledAt, &req.CreatedAt, &req.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// Create persiste una solicitud. Devuelve domain.ErrDuplicate si el código ya existe,
// para que el caso de uso reintente la generación.
func (r *RequestRepo) Create(request *entity.Request) error {
	query := `
		INSERT INTO requests (id, company_id, code, requester_id, item_id, quantity, purpose, priority,
			status, approver_id, approval_notes, approved_at, rejected_reason, rejected_at, deliverer_id,
			delivery_notes, completed_at, cancelled_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`
	_, err := r.q.Exec(context.Background(), query,
		request.ID, request.CompanyID, request.Code, request.RequesterID, request.ItemID,
		request.Quantity, request.Purpose, request.Priority, request.Status, request.ApproverID,
		request.ApprovalNotes, request.ApprovedAt, request.RejectedReason, request.RejectedAt,
		request.DelivererID, request.DeliveryNotes, request.CompletedAt, request.CancelledAt,
		request.CreatedAt, request.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert request: %w", err)
	}
	return nil
}

// GetByID obtiene una solicitud por ID.
func (r *RequestRepo) GetByID(id string) (*entity.Request, error) {
	query := `SELECT ` + requestColumns + ` FROM requests WHERE id = $1`
	req, err := scanRequest(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get request: %w", err)
	}
	return req, nil
}

// GetForUpdate obtiene una solicitud bloqueando su fila. Solo dentro de una transacción:
// evita que dos decisiones concurrentes vean ambas el estado pending.
func (r *RequestRepo) GetForUpdate(id string) (*entity.Request, error) {
	query := `SELECT ` + requestColumns + ` FROM requests WHERE id = $1 FOR UPDATE`
	req, err := scanRequest(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("lock request: %w", err)
	}
	return req, nil
}

// Update persiste el estado y los campos de decisión de una solicitud.
func (r *RequestRepo) Update(request *entity.Request) error {
	query := `
		UPDATE requests SET status = $2, approver_id = $3, approval_notes = $4, approved_at = $5,
			rejected_reason = $6, rejected_at = $7, deliverer_id = $8, delivery_notes = $9,
			completed_at = $10, cancelled_at = $11, updated_at = $12
		WHERE id = $1`
	cmd, err := r.q.Exec(context.Background(), query,
		request.ID, request.Status, request.ApproverID, request.ApprovalNotes, request.ApprovedAt,
		request.RejectedReason, request.RejectedAt, request.DelivererID, request.DeliveryNotes,
		request.CompletedAt, request.CancelledAt, request.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update request: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista solicitudes de una empresa con filtros y paginación.
func (r *RequestRepo) List(companyID string, f repository.WorkflowFilter) ([]*entity.Request, int, error) {
	conds := []string{"company_id = $1"}
	args := []any{companyID}

	if f.Status != "" {
		args = append(args, f.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if f.RequesterID != "" {
		args = append(args, f.RequesterID)
		conds = append(conds, fmt.Sprintf("requester_id = $%d", len(args)))
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
		`SELECT COUNT(*) FROM requests WHERE `+where, args...).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count requests: %w", err)
	}

	args = append(args, f.Limit, f.Offset)
	query := fmt.Sprintf(`SELECT %s FROM requests WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		requestColumns, where, len(args)-1, len(args))
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list requests: %w", err)
	}
	defer rows.Close()

	var requests []*entity.Request
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan request: %w", err)
		}
		requests = append(requests, req)
	}
	return requests, total, rows.Err()
}
