package http

import "time"

type ErrorResponse struct {
	Error string `json:"error"`
}

type UserItem struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Role      string  `json:"role"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

type RoomListItem struct {
	ID            string     `json:"id"`
	Name          *string    `json:"name,omitempty"`
	Kind          string     `json:"kind"`
	GroupID       *int64     `json:"group_id,omitempty"`
	Other         *UserItem  `json:"other_participant,omitempty"`
	UnreadCount   int        `json:"unread_count"`
	LastMessageAt *time.Time `json:"last_message_at,omitempty"`
}

type RoomsListResponse struct {
	Items []RoomListItem `json:"items"`
}

// MessageItem — внешняя форма сообщения; created_at в формате HH:MM (24h)
type MessageItem struct {
	ID         int64   `json:"id"`
	Content    string  `json:"content"`
	SenderID   string  `json:"sender_id"`
	SenderName string  `json:"sender_name"`
	CreatedAt  string  `json:"created_at"`
	FileURL    *string `json:"file_url"`
}

type OpenRoomResponse struct {
	Room     RoomListItem  `json:"room"`
	Messages []MessageItem `json:"messages"`
}

type SendMessageRequest struct {
	Content  string  `json:"content"`
	FilePath *string `json:"file_path,omitempty"` // путь уже загруженного файла
}

// отказ валидации — success=false, не HTTP-ошибка, чтобы клиент мог перерисовать ввод
type SendMessageResponse struct {
	Success bool         `json:"success"`
	Message *MessageItem `json:"message,omitempty"`
	Error   string       `json:"error,omitempty"`
}

type PollResponse struct {
	Success  bool          `json:"success"`
	Messages []MessageItem `json:"messages"`
}

type ResolveRoomResponse struct {
	RoomID string `json:"room_id"`
}

type ParticipantItem struct {
	UserID      string    `json:"user_id"`
	DisplayName string    `json:"display_name"`
	AvatarURL   *string   `json:"avatar_url,omitempty"`
	JoinedAt    time.Time `json:"joined_at"`
	LastSeen    time.Time `json:"last_seen"`
	Online      bool      `json:"online"`
}

type ParticipantsResponse struct {
	Items []ParticipantItem `json:"items"`
}

type UsersListResponse struct {
	Items []UserItem `json:"items"`
}
