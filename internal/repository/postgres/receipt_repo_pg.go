package postgres

import (
	"context"

	"github.com/school-erp/chat-service/internal/repository"
	"github.com/school-erp/chat-service/internal/repository/queries"

	"github.com/jackc/pgx/v5/pgxpool"
)

type ReceiptRepo struct {
	db *pgxpool.Pool
}

func NewReceiptRepo(db *pgxpool.Pool) *ReceiptRepo {
	return &ReceiptRepo{db: db}
}

var _ repository.ReceiptRepository = (*ReceiptRepo)(nil)

func (r *ReceiptRepo) MarkRoomRead(ctx context.Context, roomID string, userID int64) (int64, error) {
	cmd, err := r.db.Exec(ctx, queries.QueryMarkRoomRead, roomID, userID)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func (r *ReceiptRepo) UnreadCount(ctx context.Context, roomID string, userID int64) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, queries.QueryUnreadCount, roomID, userID).Scan(&count)
	return count, err
}
