package domain

import "time"

type Message struct {
	ID        int64     `db:"id"` // bigserial; служит watermark-ом для poll
	RoomID    string    `db:"room_id"`
	SenderID  int64     `db:"sender_id"`
	Content   string    `db:"content"`
	FilePath  *string   `db:"file_path"`
	CreatedAt time.Time `db:"created_at"`

	// денормализация для выдачи наружу
	SenderName string `db:"sender_name"`
}

type ReadReceipt struct {
	ID        int64     `db:"id"`
	MessageID int64     `db:"message_id"`
	UserID    int64     `db:"user_id"`
	ReadAt    time.Time `db:"read_at"`
}
