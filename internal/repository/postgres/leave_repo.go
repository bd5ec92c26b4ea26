package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/huddleapp/huddle/internal/domain"
)

type LeaveRepo struct {
	pool *pgxpool.Pool
}

func NewLeaveRepo(pool *pgxpool.Pool) *LeaveRepo {
	return &LeaveRepo{pool: pool}
}

const leaveColumns = `l.id, l.user_id, l.start_date, l.end_date, l.reason, l.status,
	l.decided_by, l.decided_at, l.decision_note, l.requested_at, u.name`

func scanLeave(row pgx.Row) (*domain.LeaveRequest, error) {
	var req domain.LeaveRequest
	err := row.Scan(
		&req.ID, &req.UserID, &req.StartDate, &req.EndDate, &req.Reason, &req.Status,
		&req.DecidedBy, &req.DecidedAt, &req.DecisionNote, &req.RequestedAt, &req.UserName,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *LeaveRepo) Create(ctx context.Context, req *domain.LeaveRequest) error {
	query := `
		INSERT INTO leave_requests (id, user_id, start_date, end_date, reason, status, requested_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.pool.Exec(ctx, query,
		req.ID, req.UserID, req.StartDate, req.EndDate, req.Reason, req.Status, req.RequestedAt,
	)
	return err
}

func (r *LeaveRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.LeaveRequest, error) {
	query := `SELECT ` + leaveColumns + ` FROM leave_requests l JOIN users u ON l.user_id = u.id WHERE l.id = $1`
	return scanLeave(r.pool.QueryRow(ctx, query, id))
}

func (r *LeaveRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.LeaveRequest, error) {
	query := `
		SELECT ` + leaveColumns + ` FROM leave_requests l
		JOIN users u ON l.user_id = u.id
		WHERE l.user_id = $1
		ORDER BY l.requested_at, l.id`
	return r.list(ctx, query, userID)
}

func (r *LeaveRepo) ListByStatus(ctx context.Context, status string) ([]domain.LeaveRequest, error) {
	query := `
		SELECT ` + leaveColumns + ` FROM leave_requests l
		JOIN users u ON l.user_id = u.id
		WHERE l.status = $1
		ORDER BY l.requested_at, l.id`
	return r.list(ctx, query, status)
}

func (r *LeaveRepo) list(ctx context.Context, query string, args ...any) ([]domain.LeaveRequest, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []domain.LeaveRequest
	for rows.Next() {
		req, err := scanLeave(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, *req)
	}
	return requests, rows.Err()
}

func (r *LeaveRepo) Update(ctx context.Context, req *domain.LeaveRequest) error {
	query := `
		UPDATE leave_requests
		SET status = $2, decided_by = $3, decided_at = $4, decision_note = $5
		WHERE id = $1`
	_, err := r.pool.Exec(ctx, query,
		req.ID, req.Status, req.DecidedBy, req.DecidedAt, req.DecisionNote,
	)
	return err
}
