package postgres

import (
	"context"

	"github.com/school-erp/chat-service/internal/domain"
	"github.com/school-erp/chat-service/internal/repository"
	"github.com/school-erp/chat-service/internal/repository/queries"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type MessageRepo struct {
	db *pgxpool.Pool
}

func NewMessageRepo(db *pgxpool.Pool) *MessageRepo {
	return &MessageRepo{db: db}
}

var _ repository.MessageRepository = (*MessageRepo)(nil)

// Save — вставка сообщения и bump updated_at комнаты атомарно.
func (r *MessageRepo) Save(ctx context.Context, roomID string, senderID int64, content string, filePath *string) (*domain.Message, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	m, err := saveMessage(ctx, tx, roomID, senderID, content, filePath)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return m, nil
}

func saveMessage(ctx context.Context, q querier, roomID string, senderID int64, content string, filePath *string) (*domain.Message, error) {
	m := domain.Message{
		RoomID:   roomID,
		SenderID: senderID,
		Content:  content,
		FilePath: filePath,
	}
	if err := q.QueryRow(ctx, queries.QueryInsertMessage, roomID, senderID, content, filePath).
		Scan(&m.ID, &m.CreatedAt); err != nil {
		return nil, err
	}
	if _, err := q.Exec(ctx, queries.QueryTouchRoom, roomID); err != nil {
		return nil, err
	}
	if err := q.QueryRow(ctx, queries.QuerySenderName, senderID).Scan(&m.SenderName); err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MessageRepo) History(ctx context.Context, roomID string) ([]domain.Message, error) {
	rows, err := r.db.Query(ctx, queries.QueryMessageHistory, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectMessages(rows)
}

func (r *MessageRepo) Since(ctx context.Context, roomID string, afterID int64) ([]domain.Message, error) {
	rows, err := r.db.Query(ctx, queries.QueryMessagesSince, roomID, afterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectMessages(rows)
}

func collectMessages(rows pgx.Rows) ([]domain.Message, error) {
	var out []domain.Message
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(&m.ID, &m.RoomID, &m.SenderID, &m.Content, &m.FilePath, &m.CreatedAt, &m.SenderName); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
