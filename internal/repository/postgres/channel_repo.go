package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/huddleapp/huddle/internal/domain"
)

type ChannelRepo struct {
	pool *pgxpool.Pool
}

func NewChannelRepo(pool *pgxpool.Pool) *ChannelRepo {
	return &ChannelRepo{pool: pool}
}

func (r *ChannelRepo) Create(ctx context.Context, channel *domain.Channel) error {
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		query := `
			INSERT INTO channels (id, name, description, private, created_by, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)`
		if _, err := tx.Exec(ctx, query,
			channel.ID, channel.Name, channel.Description, channel.Private,
			channel.CreatedBy, channel.CreatedAt,
		); err != nil {
			return err
		}
		for _, userID := range channel.MemberIDs {
			if _, err := tx.Exec(ctx,
				`INSERT INTO channel_members (channel_id, user_id, joined_at) VALUES ($1, $2, now())`,
				channel.ID, userID,
			); err != nil {
				return err
			}
		}
		return nil
	})
	return err
}

func (r *ChannelRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Channel, error) {
	query := `SELECT id, name, description, private, created_by, created_at FROM channels WHERE id = $1`
	return r.scanWithMembers(ctx, r.pool.QueryRow(ctx, query, id))
}

func (r *ChannelRepo) GetByName(ctx context.Context, name string) (*domain.Channel, error) {
	query := `SELECT id, name, description, private, created_by, created_at FROM channels WHERE lower(name) = lower($1)`
	return r.scanWithMembers(ctx, r.pool.QueryRow(ctx, query, name))
}

func (r *ChannelRepo) scanWithMembers(ctx context.Context, row pgx.Row) (*domain.Channel, error) {
	var ch domain.Channel
	err := row.Scan(&ch.ID, &ch.Name, &ch.Description, &ch.Private, &ch.CreatedBy, &ch.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := r.loadMembers(ctx, &ch); err != nil {
		return nil, err
	}
	return &ch, nil
}

func (r *ChannelRepo) loadMembers(ctx context.Context, ch *domain.Channel) error {
	rows, err := r.pool.Query(ctx,
		`SELECT user_id FROM channel_members WHERE channel_id = $1 ORDER BY joined_at, user_id`,
		ch.ID,
	)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return err
		}
		ch.MemberIDs = append(ch.MemberIDs, id)
	}
	return rows.Err()
}

func (r *ChannelRepo) List(ctx context.Context) ([]domain.Channel, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, description, private, created_by, created_at FROM channels ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var channels []domain.Channel
	for rows.Next() {
		var ch domain.Channel
		if err := rows.Scan(&ch.ID, &ch.Name, &ch.Description, &ch.Private, &ch.CreatedBy, &ch.CreatedAt); err != nil {
			return nil, err
		}
		channels = append(channels, ch)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range channels {
		if err := r.loadMembers(ctx, &channels[i]); err != nil {
			return nil, err
		}
	}
	return channels, nil
}

func (r *ChannelRepo) AddMember(ctx context.Context, channelID, userID uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO channel_members (channel_id, user_id, joined_at) VALUES ($1, $2, now())
		 ON CONFLICT (channel_id, user_id) DO NOTHING`,
		channelID, userID,
	)
	return err
}

func (r *ChannelRepo) RemoveMember(ctx context.Context, channelID, userID uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM channel_members WHERE channel_id = $1 AND user_id = $2`,
		channelID, userID,
	)
	return err
}
