package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/school-erp/chat-service/internal/domain"
	"github.com/school-erp/chat-service/internal/service"
	httpmw "github.com/school-erp/chat-service/internal/transport/http/middleware"
	"github.com/school-erp/chat-service/internal/transport/ws"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	roomSvc   *service.RoomService
	memberSvc *service.MemberService
	chatSvc   *service.ChatService
	dirSvc    *service.DirectoryService
	hub       *ws.Hub

	mediaBaseURL string
}

func NewHandler(
	room *service.RoomService,
	member *service.MemberService,
	chat *service.ChatService,
	dir *service.DirectoryService,
	hub *ws.Hub,
	mediaBaseURL string,
) *Handler {
	if mediaBaseURL == "" {
		mediaBaseURL = "/media"
	}
	return &Handler{
		roomSvc:      room,
		memberSvc:    member,
		chatSvc:      chat,
		dirSvc:       dir,
		hub:          hub,
		mediaBaseURL: mediaBaseURL,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// единая раскладка доменных ошибок по статусам
func writeDomainErr(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrRoomNotFound),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrGroupNotFound),
		errors.Is(err, domain.ErrNotInRoom):
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrForbidden):
		writeJSON(w, http.StatusForbidden, ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrSelfChat):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	default:
		slog.Error("handler."+op, slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	}
}

func (h *Handler) fileURL(path *string) *string {
	if path == nil {
		return nil
	}
	u := h.mediaBaseURL + "/" + *path
	return &u
}

func (h *Handler) messageItem(m domain.Message) MessageItem {
	return MessageItem{
		ID:         m.ID,
		Content:    m.Content,
		SenderID:   strconv.FormatInt(m.SenderID, 10),
		SenderName: m.SenderName,
		CreatedAt:  m.CreatedAt.Format("15:04"),
		FileURL:    h.fileURL(m.FilePath),
	}
}

func userItem(u *domain.User) *UserItem {
	if u == nil {
		return nil
	}
	return &UserItem{
		ID:        strconv.FormatInt(u.ID, 10),
		Name:      u.FullName(),
		Role:      string(u.Role),
		AvatarURL: u.AvatarURL,
	}
}

// GET /chat/rooms
func (h *Handler) ListRooms(w http.ResponseWriter, r *http.Request) {
	userID := httpmw.UserIDFromCtx(r.Context())
	if userID == 0 {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "missing user id"})
		return
	}

	sums, err := h.chatSvc.ListRooms(r.Context(), userID)
	if err != nil {
		writeDomainErr(w, "ListRooms", err)
		return
	}

	resp := RoomsListResponse{Items: make([]RoomListItem, 0, len(sums))}
	for _, s := range sums {
		resp.Items = append(resp.Items, RoomListItem{
			ID:            s.Room.ID,
			Name:          s.Room.Name,
			Kind:          string(s.Room.Kind),
			GroupID:       s.Room.GroupID,
			Other:         userItem(s.Other),
			UnreadCount:   s.Unread,
			LastMessageAt: s.LastMessageAt,
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

// GET /chat/rooms/{id} — история целиком; открытие гасит непрочитанное
func (h *Handler) OpenRoom(w http.ResponseWriter, r *http.Request) {
	userID := httpmw.UserIDFromCtx(r.Context())
	roomID := chi.URLParam(r, "id")

	opened, err := h.chatSvc.OpenRoom(r.Context(), userID, roomID)
	if err != nil {
		writeDomainErr(w, "OpenRoom", err)
		return
	}

	resp := OpenRoomResponse{
		Room: RoomListItem{
			ID:      opened.Room.ID,
			Name:    opened.Room.Name,
			Kind:    string(opened.Room.Kind),
			GroupID: opened.Room.GroupID,
			Other:   userItem(opened.Other),
		},
		Messages: make([]MessageItem, 0, len(opened.Messages)),
	}
	for _, m := range opened.Messages {
		resp.Messages = append(resp.Messages, h.messageItem(m))
	}

	writeJSON(w, http.StatusOK, resp)
}

// POST /chat/rooms/{id}/messages
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	userID := httpmw.UserIDFromCtx(r.Context())
	roomID := chi.URLParam(r, "id")

	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid json"})
		return
	}

	msg, err := h.chatSvc.Send(r.Context(), roomID, userID, req.Content, req.FilePath)
	if err != nil {
		// отказ валидации — структурный результат, не HTTP-ошибка
		if errors.Is(err, domain.ErrEmptyMessage) || errors.Is(err, domain.ErrMessageTooLong) {
			writeJSON(w, http.StatusOK, SendMessageResponse{Success: false, Error: err.Error()})
			return
		}
		writeDomainErr(w, "SendMessage", err)
		return
	}

	item := h.messageItem(*msg)
	// push подписчикам комнаты; поллеры доберут то же по watermark-у
	h.hub.Broadcast(roomID, ws.Message{Type: ws.TypeChat, Payload: ws.ChatPayload{
		RoomID:     roomID,
		SenderID:   item.SenderID,
		SenderName: msg.SenderName,
		Content:    msg.Content,
		FileURL:    item.FileURL,
		MsgID:      msg.ID,
		TSUnix:     msg.CreatedAt.Unix(),
	}})

	writeJSON(w, http.StatusOK, SendMessageResponse{Success: true, Message: &item})
}

// GET /chat/rooms/{id}/messages?after= — инкрементальный поллинг
func (h *Handler) PollMessages(w http.ResponseWriter, r *http.Request) {
	userID := httpmw.UserIDFromCtx(r.Context())
	roomID := chi.URLParam(r, "id")

	var after int64
	if s := r.URL.Query().Get("after"); s != "" {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid after"})
			return
		}
		after = n
	}

	msgs, err := h.chatSvc.Poll(r.Context(), userID, roomID, after)
	if err != nil {
		writeDomainErr(w, "PollMessages", err)
		return
	}

	resp := PollResponse{Success: true, Messages: make([]MessageItem, 0, len(msgs))}
	for _, m := range msgs {
		resp.Messages = append(resp.Messages, h.messageItem(m))
	}

	writeJSON(w, http.StatusOK, resp)
}

// GET /chat/rooms/{id}/participants
func (h *Handler) GetParticipants(w http.ResponseWriter, r *http.Request) {
	userID := httpmw.UserIDFromCtx(r.Context())
	roomID := chi.URLParam(r, "id")

	// панель участников доступна только участникам
	ok, err := h.memberSvc.IsParticipant(r.Context(), roomID, userID)
	if err != nil {
		writeDomainErr(w, "GetParticipants", err)
		return
	}
	if !ok {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: domain.ErrRoomNotFound.Error()})
		return
	}

	items, err := h.memberSvc.ListParticipantsDetailed(r.Context(), roomID)
	if err != nil {
		writeDomainErr(w, "GetParticipants", err)
		return
	}

	resp := ParticipantsResponse{Items: make([]ParticipantItem, 0, len(items))}
	for _, it := range items {
		resp.Items = append(resp.Items, ParticipantItem{
			UserID:      strconv.FormatInt(it.UserID, 10),
			DisplayName: it.DisplayName,
			AvatarURL:   it.AvatarURL,
			JoinedAt:    it.JoinedAt,
			LastSeen:    it.LastSeen,
			Online:      it.Online,
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

// POST /chat/private/{userID} — find-or-create личного чата
func (h *Handler) StartPrivateChat(w http.ResponseWriter, r *http.Request) {
	userID := httpmw.UserIDFromCtx(r.Context())

	targetID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid user id"})
		return
	}

	room, err := h.roomSvc.ResolvePrivate(r.Context(), userID, targetID)
	if err != nil {
		writeDomainErr(w, "StartPrivateChat", err)
		return
	}

	writeJSON(w, http.StatusOK, ResolveRoomResponse{RoomID: room.ID})
}

// POST /chat/groups/{groupID} — групповой чат с синхронизацией ростера
func (h *Handler) OpenGroupChat(w http.ResponseWriter, r *http.Request) {
	userID := httpmw.UserIDFromCtx(r.Context())

	groupID, err := strconv.ParseInt(chi.URLParam(r, "groupID"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid group id"})
		return
	}

	room, err := h.roomSvc.ResolveGroup(r.Context(), userID, groupID)
	if err != nil {
		writeDomainErr(w, "OpenGroupChat", err)
		return
	}

	writeJSON(w, http.StatusOK, ResolveRoomResponse{RoomID: room.ID})
}

// GET /chat/users — справочник собеседников по роли
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	userID := httpmw.UserIDFromCtx(r.Context())

	users, err := h.dirSvc.ListPartners(r.Context(), userID)
	if err != nil {
		writeDomainErr(w, "ListUsers", err)
		return
	}

	resp := UsersListResponse{Items: make([]UserItem, 0, len(users))}
	for i := range users {
		resp.Items = append(resp.Items, *userItem(&users[i]))
	}

	writeJSON(w, http.StatusOK, resp)
}
