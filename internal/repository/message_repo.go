package repository

import (
	"context"

	"github.com/school-erp/chat-service/internal/domain"
)

type MessageRepository interface {
	// Save пишет сообщение и поднимает updated_at комнаты в одной транзакции.
	Save(ctx context.Context, roomID string, senderID int64, content string, filePath *string) (*domain.Message, error)

	// History — вся история комнаты по возрастанию (created_at, id).
	History(ctx context.Context, roomID string) ([]domain.Message, error)

	// Since — сообщения с id строго больше watermark-а, по возрастанию.
	Since(ctx context.Context, roomID string, afterID int64) ([]domain.Message, error)
}

type ReceiptRepository interface {
	// MarkRoomRead создаёт квитанции на все чужие непрочитанные сообщения комнаты.
	// Идемпотентно; возвращает число созданных квитанций.
	MarkRoomRead(ctx context.Context, roomID string, userID int64) (int64, error)

	// UnreadCount — чужие сообщения комнаты без квитанции пользователя.
	UnreadCount(ctx context.Context, roomID string, userID int64) (int, error)
}
