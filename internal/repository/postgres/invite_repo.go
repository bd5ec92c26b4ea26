package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/huddleapp/huddle/internal/domain"
)

type InviteRepo struct {
	pool *pgxpool.Pool
}

func NewInviteRepo(pool *pgxpool.Pool) *InviteRepo {
	return &InviteRepo{pool: pool}
}

func (r *InviteRepo) Create(ctx context.Context, inv *domain.Invite) error {
	query := `
		INSERT INTO invites (id, email, token, invited_by, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.pool.Exec(ctx, query,
		inv.ID, inv.Email, inv.Token, inv.InvitedBy, inv.CreatedAt, inv.ExpiresAt,
	)
	return err
}

func scanInvite(row pgx.Row) (*domain.Invite, error) {
	var inv domain.Invite
	err := row.Scan(&inv.ID, &inv.Email, &inv.Token, &inv.InvitedBy, &inv.CreatedAt, &inv.ExpiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *InviteRepo) GetByToken(ctx context.Context, token string) (*domain.Invite, error) {
	query := `SELECT id, email, token, invited_by, created_at, expires_at FROM invites WHERE token = $1`
	return scanInvite(r.pool.QueryRow(ctx, query, token))
}

func (r *InviteRepo) GetByEmail(ctx context.Context, email string) (*domain.Invite, error) {
	query := `SELECT id, email, token, invited_by, created_at, expires_at FROM invites WHERE lower(email) = lower($1)`
	return scanInvite(r.pool.QueryRow(ctx, query, email))
}

func (r *InviteRepo) List(ctx context.Context) ([]domain.Invite, error) {
	query := `SELECT id, email, token, invited_by, created_at, expires_at FROM invites ORDER BY created_at, id`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invites []domain.Invite
	for rows.Next() {
		var inv domain.Invite
		if err := rows.Scan(&inv.ID, &inv.Email, &inv.Token, &inv.InvitedBy, &inv.CreatedAt, &inv.ExpiresAt); err != nil {
			return nil, err
		}
		invites = append(invites, inv)
	}
	return invites, rows.Err()
}

func (r *InviteRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM invites WHERE id = $1`, id)
	return err
}

// Consume deletes the invite and inserts the accepted user in a single
// transaction, so a lost race on the same token creates no user.
func (r *InviteRepo) Consume(ctx context.Context, inviteID uuid.UUID, user *domain.User) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM invites WHERE id = $1`, inviteID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return nil
		}
		query := `
			INSERT INTO users (id, email, name, role, online, designation, phone, avatar_url, password_hash, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
		_, err = tx.Exec(ctx, query,
			user.ID, user.Email, user.Name, user.Role, user.Online,
			user.Designation, user.Phone, user.AvatarURL, user.PasswordHash,
			user.CreatedAt, user.UpdatedAt,
		)
		return err
	})
}

func (r *InviteRepo) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM invites WHERE expires_at < $1`, now)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}
