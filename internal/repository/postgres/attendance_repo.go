package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/huddleapp/huddle/internal/domain"
)

type AttendanceRepo struct {
	pool *pgxpool.Pool
}

func NewAttendanceRepo(pool *pgxpool.Pool) *AttendanceRepo {
	return &AttendanceRepo{pool: pool}
}

func (r *AttendanceRepo) Create(ctx context.Context, entry *domain.AttendanceEntry) error {
	query := `
		INSERT INTO attendance_entries (id, user_id, clock_in, clock_out, worked_seconds, break_seconds, activity_percent)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.pool.Exec(ctx, query,
		entry.ID, entry.UserID, entry.ClockIn, entry.ClockOut,
		entry.WorkedSeconds, entry.BreakSeconds, entry.ActivityPercent,
	)
	return err
}

func (r *AttendanceRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.AttendanceEntry, error) {
	query := `
		SELECT id, user_id, clock_in, clock_out, worked_seconds, break_seconds, activity_percent
		FROM attendance_entries WHERE id = $1`
	var e domain.AttendanceEntry
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&e.ID, &e.UserID, &e.ClockIn, &e.ClockOut,
		&e.WorkedSeconds, &e.BreakSeconds, &e.ActivityPercent,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *AttendanceRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.AttendanceEntry, error) {
	query := `
		SELECT id, user_id, clock_in, clock_out, worked_seconds, break_seconds, activity_percent
		FROM attendance_entries WHERE user_id = $1
		ORDER BY clock_in, id`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.AttendanceEntry
	for rows.Next() {
		var e domain.AttendanceEntry
		if err := rows.Scan(
			&e.ID, &e.UserID, &e.ClockIn, &e.ClockOut,
			&e.WorkedSeconds, &e.BreakSeconds, &e.ActivityPercent,
		); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *AttendanceRepo) Update(ctx context.Context, entry *domain.AttendanceEntry) error {
	query := `
		UPDATE attendance_entries
		SET clock_in = $2, clock_out = $3, worked_seconds = $4, break_seconds = $5, activity_percent = $6
		WHERE id = $1`
	_, err := r.pool.Exec(ctx, query,
		entry.ID, entry.ClockIn, entry.ClockOut,
		entry.WorkedSeconds, entry.BreakSeconds, entry.ActivityPercent,
	)
	return err
}

func (r *AttendanceRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM attendance_entries WHERE id = $1`, id)
	return err
}
