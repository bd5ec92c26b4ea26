package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/huddleapp/huddle/internal/domain"
)

type MessageRepo struct {
	pool *pgxpool.Pool
}

func NewMessageRepo(pool *pgxpool.Pool) *MessageRepo {
	return &MessageRepo{pool: pool}
}

// Attachment and reactions are stored as jsonb; there is no relational
// structure worth querying inside them.

func (r *MessageRepo) Create(ctx context.Context, msg *domain.Message) error {
	var attachment []byte
	if msg.Attachment != nil {
		var err error
		attachment, err = json.Marshal(msg.Attachment)
		if err != nil {
			return err
		}
	}
	query := `
		INSERT INTO messages (id, conversation_id, author_id, content, attachment, reactions, created_at, edited_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.pool.Exec(ctx, query,
		msg.ID, msg.ConversationID, msg.AuthorID, msg.Content,
		attachment, reactionsJSON(msg.Reactions), msg.CreatedAt, msg.EditedAt,
	)
	return err
}

func (r *MessageRepo) GetByID(ctx context.Context, conversationID, messageID uuid.UUID) (*domain.Message, error) {
	query := `
		SELECT m.id, m.conversation_id, m.author_id, m.content, m.attachment, m.reactions,
			m.created_at, m.edited_at, u.name
		FROM messages m
		JOIN users u ON m.author_id = u.id
		WHERE m.conversation_id = $1 AND m.id = $2`
	msg, err := scanMessage(r.pool.QueryRow(ctx, query, conversationID, messageID))
	if err != nil {
		return nil, err
	}
	return msg, nil
}

func (r *MessageRepo) ListByConversation(ctx context.Context, conversationID uuid.UUID) ([]domain.Message, error) {
	query := `
		SELECT m.id, m.conversation_id, m.author_id, m.content, m.attachment, m.reactions,
			m.created_at, m.edited_at, u.name
		FROM messages m
		JOIN users u ON m.author_id = u.id
		WHERE m.conversation_id = $1
		ORDER BY m.created_at, m.id`
	rows, err := r.pool.Query(ctx, query, conversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, *msg)
	}
	return messages, rows.Err()
}

func (r *MessageRepo) Update(ctx context.Context, msg *domain.Message) error {
	query := `UPDATE messages SET content = $3, edited_at = $4 WHERE conversation_id = $1 AND id = $2`
	_, err := r.pool.Exec(ctx, query, msg.ConversationID, msg.ID, msg.Content, msg.EditedAt)
	return err
}

func (r *MessageRepo) Delete(ctx context.Context, conversationID, messageID uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM messages WHERE conversation_id = $1 AND id = $2`,
		conversationID, messageID,
	)
	return err
}

func (r *MessageRepo) SetReactions(ctx context.Context, conversationID, messageID uuid.UUID, reactions map[string][]uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE messages SET reactions = $3 WHERE conversation_id = $1 AND id = $2`,
		conversationID, messageID, reactionsJSON(reactions),
	)
	return err
}

func scanMessage(row pgx.Row) (*domain.Message, error) {
	var (
		msg        domain.Message
		attachment []byte
		reactions  []byte
	)
	err := row.Scan(
		&msg.ID, &msg.ConversationID, &msg.AuthorID, &msg.Content,
		&attachment, &reactions, &msg.CreatedAt, &msg.EditedAt, &msg.AuthorName,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if len(attachment) > 0 {
		var att domain.Attachment
		if err := json.Unmarshal(attachment, &att); err != nil {
			return nil, err
		}
		msg.Attachment = &att
	}
	if len(reactions) > 0 {
		if err := json.Unmarshal(reactions, &msg.Reactions); err != nil {
			return nil, err
		}
		if len(msg.Reactions) == 0 {
			msg.Reactions = nil
		}
	}
	return &msg, nil
}

func reactionsJSON(reactions map[string][]uuid.UUID) []byte {
	if len(reactions) == 0 {
		return nil
	}
	data, err := json.Marshal(reactions)
	if err != nil {
		return nil
	}
	return data
}
