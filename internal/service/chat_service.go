package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/school-erp/chat-service/internal/domain"
	"github.com/school-erp/chat-service/internal/repository"
)

type ChatService struct {
	roomRepo        repository.RoomRepository
	participantRepo repository.ParticipantRepository
	messageRepo     repository.MessageRepository
	receiptRepo     repository.ReceiptRepository

	maxMessageLen int
}

func NewChatService(
	roomRepo repository.RoomRepository,
	participantRepo repository.ParticipantRepository,
	messageRepo repository.MessageRepository,
	receiptRepo repository.ReceiptRepository,
) *ChatService {
	return &ChatService{
		roomRepo:        roomRepo,
		participantRepo: participantRepo,
		messageRepo:     messageRepo,
		receiptRepo:     receiptRepo,
		maxMessageLen:   4000,
	}
}

func (s *ChatService) SetMaxMessageLen(n int) {
	if n > 0 {
		s.maxMessageLen = n
	}
}

// Send пишет сообщение от участника комнаты.
// Пустой контент без файла — структурный отказ ErrEmptyMessage, без побочных эффектов.
func (s *ChatService) Send(ctx context.Context, roomID string, senderID int64, content string, filePath *string) (*domain.Message, error) {
	if _, err := s.roomRepo.GetForUser(ctx, roomID, senderID); err != nil {
		return nil, err
	}

	content = strings.TrimSpace(content)
	if content == "" && filePath == nil {
		return nil, domain.ErrEmptyMessage
	}
	if len(content) > s.maxMessageLen {
		return nil, domain.ErrMessageTooLong
	}

	msg, err := s.messageRepo.Save(ctx, roomID, senderID, content, filePath)
	if err != nil {
		return nil, fmt.Errorf("messageRepo.Save: %w", err)
	}
	return msg, nil
}

// MarkRoomRead — квитанции на всё чужое непрочитанное в комнате. Идемпотентно.
func (s *ChatService) MarkRoomRead(ctx context.Context, userID int64, roomID string) (int64, error) {
	if _, err := s.roomRepo.GetForUser(ctx, roomID, userID); err != nil {
		return 0, err
	}
	return s.receiptRepo.MarkRoomRead(ctx, roomID, userID)
}

// Poll — инкрементальная выдача: id строго больше client-watermark-а.
func (s *ChatService) Poll(ctx context.Context, userID int64, roomID string, afterID int64) ([]domain.Message, error) {
	if _, err := s.roomRepo.GetForUser(ctx, roomID, userID); err != nil {
		return nil, err
	}
	return s.messageRepo.Since(ctx, roomID, afterID)
}

type RoomSummary struct {
	Room          domain.Room
	Other         *domain.User // собеседник private-комнаты
	Unread        int
	LastMessageAt *time.Time
}

// ListRooms — комнаты пользователя, свежие сверху, с бейджем непрочитанного.
func (s *ChatService) ListRooms(ctx context.Context, userID int64) ([]RoomSummary, error) {
	rows, err := s.roomRepo.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]RoomSummary, 0, len(rows))
	for _, row := range rows {
		sum := RoomSummary{Room: row.Room, LastMessageAt: row.LastMessageAt}

		if row.Room.Kind == domain.RoomPrivate {
			other, err := s.participantRepo.OtherUser(ctx, row.Room.ID, userID)
			if err != nil {
				return nil, err
			}
			sum.Other = other
		}

		unread, err := s.receiptRepo.UnreadCount(ctx, row.Room.ID, userID)
		if err != nil {
			return nil, err
		}
		sum.Unread = unread

		out = append(out, sum)
	}
	return out, nil
}

type OpenedRoom struct {
	Room     domain.Room
	Messages []domain.Message
	Other    *domain.User
}

// OpenRoom отдаёт полную историю и попутно гасит непрочитанное квитанциями.
func (s *ChatService) OpenRoom(ctx context.Context, userID int64, roomID string) (*OpenedRoom, error) {
	room, err := s.roomRepo.GetForUser(ctx, roomID, userID)
	if err != nil {
		return nil, err
	}

	if _, err := s.receiptRepo.MarkRoomRead(ctx, roomID, userID); err != nil {
		return nil, fmt.Errorf("receiptRepo.MarkRoomRead: %w", err)
	}

	msgs, err := s.messageRepo.History(ctx, roomID)
	if err != nil {
		return nil, err
	}

	opened := &OpenedRoom{Room: *room, Messages: msgs}
	if room.Kind == domain.RoomPrivate {
		other, err := s.participantRepo.OtherUser(ctx, roomID, userID)
		if err != nil {
			return nil, err
		}
		opened.Other = other
	}
	return opened, nil
}
