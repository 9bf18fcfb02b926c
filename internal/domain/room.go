package domain

import "time"

type RoomKind string

const (
	RoomPrivate RoomKind = "private"
	RoomGroup   RoomKind = "group"
)

type Room struct {
	ID        string    `db:"id"`
	Name      *string   `db:"name"`
	Kind      RoomKind  `db:"kind"`
	GroupID   *int64    `db:"group_id"` // заполнен только для kind=group
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
