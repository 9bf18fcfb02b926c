package repository

import (
	"context"
	"time"

	"github.com/school-erp/chat-service/internal/domain"
)

type ParticipantRepository interface {
	// Add / AddMany — семантика множества: повторное добавление — no-op.
	Add(ctx context.Context, roomID string, userID int64) error
	AddMany(ctx context.Context, roomID string, userIDs []int64) error

	Exists(ctx context.Context, roomID string, userID int64) (bool, error)
	Count(ctx context.Context, roomID string) (int, error)

	// OtherUser — второй участник private-комнаты (nil, если его нет).
	OtherUser(ctx context.Context, roomID string, userID int64) (*domain.User, error)

	ListDetailed(ctx context.Context, roomID string, activeWithin time.Duration) ([]ParticipantDetailedRow, error)
	TouchHeartbeat(ctx context.Context, roomID string, userID int64) error
}

type ParticipantDetailedRow struct {
	UserID      int64
	DisplayName string
	AvatarURL   *string
	JoinedAt    time.Time
	LastSeen    time.Time
	Online      bool
}
