package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/school-erp/chat-service/internal/domain"
	"github.com/school-erp/chat-service/internal/repository"
	"github.com/school-erp/chat-service/internal/repository/queries"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ParticipantRepo struct {
	db *pgxpool.Pool
}

func NewParticipantRepo(db *pgxpool.Pool) *ParticipantRepo {
	return &ParticipantRepo{db: db}
}

var _ repository.ParticipantRepository = (*ParticipantRepo)(nil)

func (r *ParticipantRepo) Add(ctx context.Context, roomID string, userID int64) error {
	_, err := r.db.Exec(ctx, queries.QueryAddParticipant, roomID, userID)
	return err
}

// AddMany — ростер группы целиком, одной транзакцией.
func (r *ParticipantRepo) AddMany(ctx context.Context, roomID string, userIDs []int64) error {
	if len(userIDs) == 0 {
		return nil
	}
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, uid := range userIDs {
		if _, err := tx.Exec(ctx, queries.QueryAddParticipant, roomID, uid); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *ParticipantRepo) Exists(ctx context.Context, roomID string, userID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, queries.QueryParticipantExists, roomID, userID).Scan(&exists)
	return exists, err
}

func (r *ParticipantRepo) Count(ctx context.Context, roomID string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, queries.QueryCountParticipants, roomID).Scan(&count)
	return count, err
}

func (r *ParticipantRepo) OtherUser(ctx context.Context, roomID string, userID int64) (*domain.User, error) {
	var u domain.User
	err := r.db.QueryRow(ctx, queries.QueryOtherParticipant, roomID, userID).
		Scan(&u.ID, &u.FirstName, &u.LastName, &u.Role, &u.AvatarURL)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// activeWithin — окно «онлайн»; участники со свежим last_seen.
func (r *ParticipantRepo) ListDetailed(ctx context.Context, roomID string, activeWithin time.Duration) ([]repository.ParticipantDetailedRow, error) {
	secs := int64(activeWithin / time.Second)

	rows, err := r.db.Query(ctx, queries.QueryListParticipantsDetailed, roomID, secs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]repository.ParticipantDetailedRow, 0, 16)
	for rows.Next() {
		var row repository.ParticipantDetailedRow
		if err := rows.Scan(
			&row.UserID,
			&row.DisplayName,
			&row.AvatarURL,
			&row.JoinedAt,
			&row.LastSeen,
			&row.Online,
		); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *ParticipantRepo) TouchHeartbeat(ctx context.Context, roomID string, userID int64) error {
	cmd, err := r.db.Exec(ctx, queries.QueryTouchHeartbeat, roomID, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotInRoom
	}
	return nil
}
