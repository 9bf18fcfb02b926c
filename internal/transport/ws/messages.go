package ws

// Типы событий push-канала
const (
	TypeState      = "state"       // снапшот участников при подключении
	TypePeerOnline = "peer_online" // участник открыл соединение
	TypePeerAway   = "peer_away"   // участник отключился
	TypeChat       = "chat"        // сохранённое чат-сообщение
	TypeChatAck    = "chat_ack"    // подтверждение отправителю (НЕ сообщение)
	TypeRead       = "read"        // клиент отметил комнату прочитанной
)

type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type StatePayload struct {
	RoomID       string                 `json:"room_id"`
	Participants []ParticipantStateItem `json:"participants"`
}

type ParticipantStateItem struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	Online      bool   `json:"online"`
	LastSeen    int64  `json:"last_seen_unix"`
}

type PeerEventPayload struct {
	RoomID string `json:"room_id"`
	UserID string `json:"user_id"`
}

type ChatPayload struct {
	RoomID     string  `json:"room_id"`
	SenderID   string  `json:"sender_id"`
	SenderName string  `json:"sender_name,omitempty"`
	Content    string  `json:"content"`
	FileURL    *string `json:"file_url,omitempty"`

	MsgID  int64 `json:"msg_id,omitempty"` // он же watermark для poll
	TSUnix int64 `json:"ts_unix,omitempty"`
}

// для client: снятие pending и дедупликация
type ChatAckPayload struct {
	MsgID int64  `json:"msg_id"`
	Error string `json:"error,omitempty"` // заполнен при отказе валидации
}

type ReadPayload struct {
	RoomID string `json:"room_id"`
}
