package domain

import "errors"

var (
	ErrRoomNotFound  = errors.New("room not found")
	ErrUserNotFound  = errors.New("user not found")
	ErrGroupNotFound = errors.New("group not found")
	ErrNotInRoom     = errors.New("user not in the room")
	ErrForbidden     = errors.New("chat access forbidden")

	// отказ валидации send: структурный результат, а не фатальная ошибка
	ErrEmptyMessage   = errors.New("empty message")
	ErrMessageTooLong = errors.New("message too long")

	ErrSelfChat = errors.New("private chat with yourself")
)
