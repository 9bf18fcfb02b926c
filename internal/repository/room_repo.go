package repository

import (
	"context"
	"time"

	"github.com/school-erp/chat-service/internal/domain"
)

type RoomRepository interface {
	Get(ctx context.Context, id string) (*domain.Room, error)
	// GetForUser возвращает комнату только если user — её участник, иначе ErrRoomNotFound.
	GetForUser(ctx context.Context, id string, userID int64) (*domain.Room, error)

	// ResolvePrivate / ResolveGroup — атомарный insert-or-fetch под UNIQUE-индексом.
	// created=true если комната была создана этим вызовом.
	ResolvePrivate(ctx context.Context, pairKey, name string) (room *domain.Room, created bool, err error)
	ResolveGroup(ctx context.Context, groupID int64, name string) (room *domain.Room, created bool, err error)

	// ListForUser — комнаты участника, свежие сверху (по времени последнего сообщения).
	ListForUser(ctx context.Context, userID int64) ([]RoomListRow, error)
}

type RoomListRow struct {
	Room          domain.Room
	LastMessageAt *time.Time
}
