package postgres

import (
	"context"
	"errors"

	"github.com/school-erp/chat-service/internal/domain"
	"github.com/school-erp/chat-service/internal/repository"
	"github.com/school-erp/chat-service/internal/repository/queries"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DirectoryRepo читает таблицы ERP. Никаких записей отсюда.
type DirectoryRepo struct {
	db *pgxpool.Pool
}

func NewDirectoryRepo(db *pgxpool.Pool) *DirectoryRepo {
	return &DirectoryRepo{db: db}
}

var _ repository.DirectoryRepository = (*DirectoryRepo)(nil)

func (r *DirectoryRepo) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	var u domain.User
	err := r.db.QueryRow(ctx, queries.QueryGetUser, id).
		Scan(&u.ID, &u.FirstName, &u.LastName, &u.Role, &u.AvatarURL)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *DirectoryRepo) GetGroup(ctx context.Context, id int64) (*domain.Group, error) {
	var g domain.Group
	err := r.db.QueryRow(ctx, queries.QueryGetGroup, id).Scan(&g.ID, &g.Name, &g.TeacherID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrGroupNotFound
		}
		return nil, err
	}
	return &g, nil
}

func (r *DirectoryRepo) IsEnrolled(ctx context.Context, groupID, userID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, queries.QueryIsEnrolled, groupID, userID).Scan(&exists)
	return exists, err
}

func (r *DirectoryRepo) Roster(ctx context.Context, groupID int64) ([]int64, error) {
	rows, err := r.db.Query(ctx, queries.QueryGroupRoster, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *DirectoryRepo) ChatPartners(ctx context.Context, user *domain.User) ([]domain.User, error) {
	var q string
	switch user.Role {
	case domain.RoleStudent:
		q = queries.QueryPartnersForStudent
	case domain.RoleTeacher:
		q = queries.QueryPartnersForTeacher
	case domain.RoleAdmin:
		q = queries.QueryPartnersForAdmin
	default:
		// support_teacher и прочие роли собеседников через чат не выбирают
		return nil, nil
	}

	rows, err := r.db.Query(ctx, q, user.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Role, &u.AvatarURL); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
