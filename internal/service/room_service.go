package service

import (
	"context"
	"fmt"

	"github.com/school-erp/chat-service/internal/domain"
	"github.com/school-erp/chat-service/internal/repository"
)

type RoomService struct {
	roomRepo      repository.RoomRepository
	directoryRepo repository.DirectoryRepository
	memberSvc     *MemberService
}

func NewRoomService(roomRepo repository.RoomRepository, directoryRepo repository.DirectoryRepository, memberSvc *MemberService) *RoomService {
	return &RoomService{
		roomRepo:      roomRepo,
		directoryRepo: directoryRepo,
		memberSvc:     memberSvc,
	}
}

// PairKey — канонический ключ неупорядоченной пары user-ов.
func PairKey(a, b int64) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("%d:%d", a, b)
}

// ResolvePrivate находит или создаёт единственную private-комнату пары.
// Пара участников фиксируется всегда, в том числе для уже существующей
// комнаты — самолечение после частично упавшего прошлого создания.
func (s *RoomService) ResolvePrivate(ctx context.Context, userID, targetID int64) (*domain.Room, error) {
	if userID == targetID {
		return nil, domain.ErrSelfChat
	}

	user, err := s.directoryRepo.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	target, err := s.directoryRepo.GetUser(ctx, targetID)
	if err != nil {
		return nil, err
	}

	name := user.FullName() + " - " + target.FullName()
	room, _, err := s.roomRepo.ResolvePrivate(ctx, PairKey(userID, targetID), name)
	if err != nil {
		return nil, fmt.Errorf("roomRepo.ResolvePrivate: %w", err)
	}

	if err := s.memberSvc.EnsureParticipant(ctx, room.ID, userID); err != nil {
		return nil, err
	}
	if err := s.memberSvc.EnsureParticipant(ctx, room.ID, targetID); err != nil {
		return nil, err
	}
	return room, nil
}

// ResolveGroup — групповой чат с проверкой допуска и синхронизацией ростера.
func (s *RoomService) ResolveGroup(ctx context.Context, userID, groupID int64) (*domain.Room, error) {
	user, err := s.directoryRepo.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	group, err := s.directoryRepo.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	enrolled := false
	if user.Role == domain.RoleStudent {
		enrolled, err = s.directoryRepo.IsEnrolled(ctx, groupID, userID)
		if err != nil {
			return nil, err
		}
	}
	if !CanEnterGroupChat(user, group, enrolled) {
		return nil, domain.ErrForbidden
	}

	room, created, err := s.roomRepo.ResolveGroup(ctx, groupID, group.Name+" Chat")
	if err != nil {
		return nil, fmt.Errorf("roomRepo.ResolveGroup: %w", err)
	}

	// ростер подтягиваем для свежесозданной либо опустевшей комнаты
	sync := created
	if !sync {
		count, err := s.memberSvc.participantRepo.Count(ctx, room.ID)
		if err != nil {
			return nil, err
		}
		sync = count == 0
	}
	if sync {
		if err := s.memberSvc.SyncGroupRoom(ctx, room.ID, groupID); err != nil {
			return nil, err
		}
	}

	// допущенный, но не попавший в ростер (например админ) добавляется лично
	if err := s.memberSvc.EnsureParticipant(ctx, room.ID, userID); err != nil {
		return nil, err
	}
	return room, nil
}

func (s *RoomService) GetRoom(ctx context.Context, id string) (*domain.Room, error) {
	return s.roomRepo.Get(ctx, id)
}
