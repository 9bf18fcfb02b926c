package repository

import (
	"context"

	"github.com/school-erp/chat-service/internal/domain"
)

// DirectoryRepository — read-only доступ к справочнику ERP (users, groups, group_students).
type DirectoryRepository interface {
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	GetGroup(ctx context.Context, id int64) (*domain.Group, error)

	IsEnrolled(ctx context.Context, groupID, userID int64) (bool, error)

	// Roster — преподаватель группы (если назначен) плюс все её студенты.
	Roster(ctx context.Context, groupID int64) ([]int64, error)

	// ChatPartners — кто доступен пользователю для чата, по его роли:
	// студент видит преподавателей и одногруппников своих групп,
	// преподаватель — студентов своих групп, админ — всех.
	ChatPartners(ctx context.Context, user *domain.User) ([]domain.User, error)
}
