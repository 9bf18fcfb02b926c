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

type RoomRepo struct {
	db *pgxpool.Pool
}

func NewRoomRepo(db *pgxpool.Pool) *RoomRepo {
	return &RoomRepo{db: db}
}

var _ repository.RoomRepository = (*RoomRepo)(nil)

func scanRoom(row pgx.Row) (*domain.Room, error) {
	var r domain.Room
	err := row.Scan(&r.ID, &r.Name, &r.Kind, &r.GroupID, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRoomNotFound
		}
		return nil, err
	}
	return &r, nil
}

func (r *RoomRepo) Get(ctx context.Context, id string) (*domain.Room, error) {
	return scanRoom(r.db.QueryRow(ctx, queries.QueryGetRoom, id))
}

func (r *RoomRepo) GetForUser(ctx context.Context, id string, userID int64) (*domain.Room, error) {
	return scanRoom(r.db.QueryRow(ctx, queries.QueryGetRoomForUser, id, userID))
}

// ResolvePrivate — INSERT .. ON CONFLICT DO NOTHING, при пустом RETURNING
// комнату уже создал кто-то другой и мы её просто читаем.
func (r *RoomRepo) ResolvePrivate(ctx context.Context, pairKey, name string) (*domain.Room, bool, error) {
	room, err := scanRoom(r.db.QueryRow(ctx, queries.QueryInsertPrivateRoom, name, pairKey))
	if err == nil {
		return room, true, nil
	}
	if !errors.Is(err, domain.ErrRoomNotFound) {
		return nil, false, err
	}

	room, err = scanRoom(r.db.QueryRow(ctx, queries.QueryGetPrivateRoomByPair, pairKey))
	if err != nil {
		return nil, false, err
	}
	return room, false, nil
}

func (r *RoomRepo) ResolveGroup(ctx context.Context, groupID int64, name string) (*domain.Room, bool, error) {
	room, err := scanRoom(r.db.QueryRow(ctx, queries.QueryInsertGroupRoom, name, groupID))
	if err == nil {
		return room, true, nil
	}
	if !errors.Is(err, domain.ErrRoomNotFound) {
		return nil, false, err
	}

	room, err = scanRoom(r.db.QueryRow(ctx, queries.QueryGetGroupRoom, groupID))
	if err != nil {
		return nil, false, err
	}
	return room, false, nil
}

func (r *RoomRepo) ListForUser(ctx context.Context, userID int64) ([]repository.RoomListRow, error) {
	rows, err := r.db.Query(ctx, queries.QueryListRoomsForUser, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []repository.RoomListRow
	for rows.Next() {
		var row repository.RoomListRow
		if err := rows.Scan(
			&row.Room.ID,
			&row.Room.Name,
			&row.Room.Kind,
			&row.Room.GroupID,
			&row.Room.CreatedAt,
			&row.Room.UpdatedAt,
			&row.LastMessageAt,
		); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
