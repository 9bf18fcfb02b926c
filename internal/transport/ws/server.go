package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/school-erp/chat-service/internal/domain"
	"github.com/school-erp/chat-service/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

type MemberSvc interface {
	IsParticipant(ctx context.Context, roomID string, userID int64) (bool, error)
	ListParticipantsDetailed(ctx context.Context, roomID string) ([]service.ParticipantDetailed, error)
	TouchHeartbeat(ctx context.Context, roomID string, userID int64) error
}

type ChatSvc interface {
	Send(ctx context.Context, roomID string, senderID int64, content string, filePath *string) (*domain.Message, error)
	MarkRoomRead(ctx context.Context, userID int64, roomID string) (int64, error)
}

type Server struct {
	upgrader  websocket.Upgrader
	hub       *Hub
	memberSvc MemberSvc
	chatSvc   ChatSvc

	pingEvery time.Duration
}

func NewServer(hub *Hub, member MemberSvc, chat ChatSvc) *Server {
	return &Server{
		hub:       hub,
		memberSvc: member,
		chatSvc:   chat,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		pingEvery: 15 * time.Second,
	}
}

// WS endpoint: GET /ws/rooms/{id}?access_token=...&user_id=...
// Подписка только для участников; членство соединение не меняет.
func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	accessToken := strings.TrimSpace(q.Get("access_token"))
	userIDStr := strings.TrimSpace(q.Get("user_id"))
	if accessToken == "" {
		http.Error(w, "missing access_token", http.StatusUnauthorized)
		return
	}
	uid, err := strconv.ParseInt(userIDStr, 10, 64)
	if err != nil || uid <= 0 {
		http.Error(w, "invalid user_id", http.StatusUnauthorized)
		return
	}
	roomID := chi.URLParam(r, "id")
	if roomID == "" {
		http.Error(w, "missing room id", http.StatusBadRequest)
		return
	}

	ok, err := s.memberSvc.IsParticipant(r.Context(), roomID, uid)
	if err != nil {
		slog.Error("ws participant check failed", "room", roomID, "user", uid, "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, "not a participant", http.StatusForbidden)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("ws upgrade failed", "err", err)
		return
	}

	c := newWsConn(conn, roomID, uid)
	s.hub.Add(c)

	if err := s.sendState(r.Context(), c); err != nil {
		slog.Warn("ws send initial state failed", "room", roomID, "user", uid, "err", err)
	}

	s.hub.Broadcast(roomID, Message{
		Type:    TypePeerOnline,
		Payload: PeerEventPayload{RoomID: roomID, UserID: userIDStr},
	})

	go s.writeLoop(r.Context(), c)
	s.readLoop(r.Context(), c)

	s.hub.Remove(c)
	s.hub.Broadcast(roomID, Message{
		Type:    TypePeerAway,
		Payload: PeerEventPayload{RoomID: roomID, UserID: userIDStr},
	})

	if err := c.Close(); err != nil {
		slog.Debug("ws close failed", "room", roomID, "user", uid, "err", err)
	}
}

func (s *Server) sendState(ctx context.Context, c *wsConn) error {
	parts, err := s.memberSvc.ListParticipantsDetailed(ctx, c.roomID)
	if err != nil {
		return err
	}
	items := make([]ParticipantStateItem, 0, len(parts))
	for _, p := range parts {
		items = append(items, ParticipantStateItem{
			UserID:      strconv.FormatInt(p.UserID, 10),
			DisplayName: p.DisplayName,
			Online:      p.Online,
			LastSeen:    p.LastSeen.Unix(),
		})
	}

	return c.Send(Message{
		Type: TypeState,
		Payload: StatePayload{
			RoomID:       c.roomID,
			Participants: items,
		},
	})
}

func (s *Server) readLoop(ctx context.Context, c *wsConn) {
	defer func() { _ = c.Close() }()
	idStr := strconv.FormatInt(c.userID, 10)

	_ = s.memberSvc.TouchHeartbeat(ctx, c.roomID, c.userID)

	c.conn.SetReadLimit(1 << 20)
	c.conn.SetReadDeadline(time.Now().Add(2 * s.pingEvery))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(2 * s.pingEvery))
		_ = s.memberSvc.TouchHeartbeat(ctx, c.roomID, c.userID)
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			break
		}
		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}

		switch msg.Type {
		case TypeChat:
			var p ChatPayload
			if decode(msg.Payload, &p) != nil {
				continue
			}
			saved, err := s.chatSvc.Send(ctx, c.roomID, c.userID, p.Content, nil)
			if err != nil {
				// отказ валидации уходит только отправителю
				if errors.Is(err, domain.ErrEmptyMessage) || errors.Is(err, domain.ErrMessageTooLong) {
					_ = c.Send(Message{Type: TypeChatAck, Payload: ChatAckPayload{Error: err.Error()}})
					continue
				}
				slog.Warn("ws chat save failed", "room", c.roomID, "user", c.userID, "err", err)
				continue
			}

			// ЕДИНЫЙ broadcast всем, включая отправителя; id и порядок — от хранилища
			s.hub.Broadcast(c.roomID, Message{Type: TypeChat, Payload: ChatPayload{
				RoomID:     c.roomID,
				SenderID:   idStr,
				SenderName: saved.SenderName,
				Content:    saved.Content,
				MsgID:      saved.ID,
				TSUnix:     saved.CreatedAt.Unix(),
			}})

			_ = c.Send(Message{
				Type:    TypeChatAck,
				Payload: ChatAckPayload{MsgID: saved.ID},
			})
		case TypeRead:
			if _, err := s.chatSvc.MarkRoomRead(ctx, c.userID, c.roomID); err != nil {
				slog.Debug("ws mark read failed", "room", c.roomID, "user", c.userID, "err", err)
			}
		default:
			// ignore
		}
	}
}

func (s *Server) writeLoop(ctx context.Context, c *wsConn) {
	ticker := time.NewTicker(s.pingEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			_ = c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second))
		case <-ctx.Done():
			return
		case <-c.closed:
			return
		}
	}
}

// --- helpers ---

func decode(payload interface{}, dst interface{}) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	return json.Unmarshal(b, dst)
}

type wsConn struct {
	conn   *websocket.Conn
	roomID string
	userID int64
	sendMu chan struct{}
	closed chan struct{}
}

func newWsConn(c *websocket.Conn, roomID string, userID int64) *wsConn {
	return &wsConn{
		conn:   c,
		roomID: roomID,
		userID: userID,
		sendMu: make(chan struct{}, 1),
		closed: make(chan struct{}),
	}
}

func (c *wsConn) Send(msg Message) error {
	c.sendMu <- struct{}{}
	defer func() { <-c.sendMu }()
	c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))

	return c.conn.WriteJSON(msg)
}

func (c *wsConn) Close() error {
	select {
	case <-c.closed:
	default:
		close(c.closed)
	}

	return c.conn.Close()
}

func (c *wsConn) UserID() string { return strconv.FormatInt(c.userID, 10) }
func (c *wsConn) RoomID() string { return c.roomID }
