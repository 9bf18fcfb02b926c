package service

import (
	"context"
	"fmt"
	"time"

	"github.com/school-erp/chat-service/internal/domain"
	"github.com/school-erp/chat-service/internal/repository"
)

type MemberService struct {
	participantRepo repository.ParticipantRepository
	directoryRepo   repository.DirectoryRepository

	heartbeatWindow time.Duration
}

func NewMemberService(participantRepo repository.ParticipantRepository, directoryRepo repository.DirectoryRepository) *MemberService {
	return &MemberService{
		participantRepo: participantRepo,
		directoryRepo:   directoryRepo,
		heartbeatWindow: 60 * time.Second, // окно «онлайн»
	}
}

func (s *MemberService) SetHeartbeatWindow(d time.Duration) {
	if d > 0 {
		s.heartbeatWindow = d
	}
}

// CanEnterGroupChat — единственная точка авторизации группового чата:
// преподаватель группы, зачисленный студент либо админ.
func CanEnterGroupChat(user *domain.User, group *domain.Group, enrolled bool) bool {
	switch user.Role {
	case domain.RoleAdmin:
		return true
	case domain.RoleTeacher:
		return group.TeacherID != nil && *group.TeacherID == user.ID
	case domain.RoleStudent:
		return enrolled
	default:
		return false
	}
}

// SyncGroupRoom доводит состав комнаты до актуального ростера группы.
// Повторный вызов ничего не меняет (семантика множества).
func (s *MemberService) SyncGroupRoom(ctx context.Context, roomID string, groupID int64) error {
	roster, err := s.directoryRepo.Roster(ctx, groupID)
	if err != nil {
		return fmt.Errorf("directoryRepo.Roster: %w", err)
	}
	if err := s.participantRepo.AddMany(ctx, roomID, roster); err != nil {
		return fmt.Errorf("participantRepo.AddMany: %w", err)
	}
	return nil
}

// EnsureParticipant — идемпотентное добавление одного пользователя.
func (s *MemberService) EnsureParticipant(ctx context.Context, roomID string, userID int64) error {
	return s.participantRepo.Add(ctx, roomID, userID)
}

func (s *MemberService) IsParticipant(ctx context.Context, roomID string, userID int64) (bool, error) {
	return s.participantRepo.Exists(ctx, roomID, userID)
}

func (s *MemberService) TouchHeartbeat(ctx context.Context, roomID string, userID int64) error {
	return s.participantRepo.TouchHeartbeat(ctx, roomID, userID)
}

type ParticipantDetailed struct {
	UserID      int64
	DisplayName string
	AvatarURL   *string
	JoinedAt    time.Time
	LastSeen    time.Time
	Online      bool
}

func (s *MemberService) ListParticipantsDetailed(ctx context.Context, roomID string) ([]ParticipantDetailed, error) {
	rows, err := s.participantRepo.ListDetailed(ctx, roomID, s.heartbeatWindow)
	if err != nil {
		return nil, err
	}
	out := make([]ParticipantDetailed, 0, len(rows))
	for _, r := range rows {
		out = append(out, ParticipantDetailed{
			UserID:      r.UserID,
			DisplayName: r.DisplayName,
			AvatarURL:   r.AvatarURL,
			JoinedAt:    r.JoinedAt,
			LastSeen:    r.LastSeen,
			Online:      r.Online,
		})
	}

	return out, nil
}
