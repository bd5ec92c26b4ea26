package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/huddleapp/huddle/internal/domain"
)

type DMRepo struct {
	pool *pgxpool.Pool
}

func NewDMRepo(pool *pgxpool.Pool) *DMRepo {
	return &DMRepo{pool: pool}
}

func (r *DMRepo) Create(ctx context.Context, conv *domain.DMConversation) error {
	query := `
		INSERT INTO dm_conversations (id, user_a, user_b, created_at)
		VALUES ($1, $2, $3, $4)`
	_, err := r.pool.Exec(ctx, query, conv.ID, conv.UserA, conv.UserB, conv.CreatedAt)
	return err
}

func (r *DMRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.DMConversation, error) {
	query := `SELECT id, user_a, user_b, created_at FROM dm_conversations WHERE id = $1`
	var conv domain.DMConversation
	err := r.pool.QueryRow(ctx, query, id).Scan(&conv.ID, &conv.UserA, &conv.UserB, &conv.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

func (r *DMRepo) GetByUsers(ctx context.Context, userA, userB uuid.UUID) (*domain.DMConversation, error) {
	query := `
		SELECT id, user_a, user_b, created_at FROM dm_conversations
		WHERE (user_a = $1 AND user_b = $2) OR (user_a = $2 AND user_b = $1)`
	var conv domain.DMConversation
	err := r.pool.QueryRow(ctx, query, userA, userB).Scan(&conv.ID, &conv.UserA, &conv.UserB, &conv.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

func (r *DMRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.DMConversation, error) {
	query := `
		SELECT id, user_a, user_b, created_at FROM dm_conversations
		WHERE user_a = $1 OR user_b = $1
		ORDER BY created_at, id`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var convs []domain.DMConversation
	for rows.Next() {
		var conv domain.DMConversation
		if err := rows.Scan(&conv.ID, &conv.UserA, &conv.UserB, &conv.CreatedAt); err != nil {
			return nil, err
		}
		convs = append(convs, conv)
	}
	return convs, rows.Err()
}
