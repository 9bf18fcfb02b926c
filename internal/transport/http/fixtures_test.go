package http

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/school-erp/chat-service/internal/domain"
	"github.com/school-erp/chat-service/internal/repository"
	"github.com/school-erp/chat-service/internal/service"
	"github.com/school-erp/chat-service/internal/transport/ws"
)

// memStore — репозитории в памяти для прогона хендлеров через chi-роутер.
// Семантика повторяет SQL-слой: уникальность пар/групп, квитанции без дублей.
type memStore struct {
	rooms   map[string]*domain.Room
	byPair  map[string]string
	byGroup map[int64]string
	nextRID int

	participants map[string]map[int64]*domain.Participant

	messages  []*domain.Message
	nextMsgID int64

	receipts map[int64]map[int64]bool // messageID -> userID

	users       map[int64]*domain.User
	groups      map[int64]*domain.Group
	enrollments map[int64]map[int64]bool

	clock time.Time
}

func newMemStore() *memStore {
	return &memStore{
		rooms:        map[string]*domain.Room{},
		byPair:       map[string]string{},
		byGroup:      map[int64]string{},
		participants: map[string]map[int64]*domain.Participant{},
		receipts:     map[int64]map[int64]bool{},
		users:        map[int64]*domain.User{},
		groups:       map[int64]*domain.Group{},
		enrollments:  map[int64]map[int64]bool{},
		clock:        time.Date(2025, 9, 1, 9, 30, 0, 0, time.UTC),
	}
}

func (m *memStore) tick() time.Time {
	m.clock = m.clock.Add(time.Minute)
	return m.clock
}

func (m *memStore) addUser(id int64, first, last string, role domain.Role) {
	m.users[id] = &domain.User{ID: id, FirstName: first, LastName: last, Role: role}
}

func (m *memStore) Get(_ context.Context, id string) (*domain.Room, error) {
	r, ok := m.rooms[id]
	if !ok {
		return nil, domain.ErrRoomNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *memStore) GetForUser(_ context.Context, id string, userID int64) (*domain.Room, error) {
	r, ok := m.rooms[id]
	if !ok {
		return nil, domain.ErrRoomNotFound
	}
	if _, in := m.participants[id][userID]; !in {
		return nil, domain.ErrRoomNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *memStore) newRoom(name string, kind domain.RoomKind, groupID *int64) *domain.Room {
	m.nextRID++
	now := m.tick()
	r := &domain.Room{
		ID:        fmt.Sprintf("room-%d", m.nextRID),
		Name:      &name,
		Kind:      kind,
		GroupID:   groupID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.rooms[r.ID] = r
	return r
}

func (m *memStore) ResolvePrivate(_ context.Context, pairKey, name string) (*domain.Room, bool, error) {
	if id, ok := m.byPair[pairKey]; ok {
		cp := *m.rooms[id]
		return &cp, false, nil
	}
	r := m.newRoom(name, domain.RoomPrivate, nil)
	m.byPair[pairKey] = r.ID
	cp := *r
	return &cp, true, nil
}

func (m *memStore) ResolveGroup(_ context.Context, groupID int64, name string) (*domain.Room, bool, error) {
	if id, ok := m.byGroup[groupID]; ok {
		cp := *m.rooms[id]
		return &cp, false, nil
	}
	gid := groupID
	r := m.newRoom(name, domain.RoomGroup, &gid)
	m.byGroup[groupID] = r.ID
	cp := *r
	return &cp, true, nil
}

func (m *memStore) ListForUser(_ context.Context, userID int64) ([]repository.RoomListRow, error) {
	var out []repository.RoomListRow
	for id, r := range m.rooms {
		if _, in := m.participants[id][userID]; !in {
			continue
		}
		row := repository.RoomListRow{Room: *r}
		for _, msg := range m.messages {
			if msg.RoomID == id {
				t := msg.CreatedAt
				if row.LastMessageAt == nil || t.After(*row.LastMessageAt) {
					row.LastMessageAt = &t
				}
			}
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool {
		ti, tj := out[i].Room.UpdatedAt, out[j].Room.UpdatedAt
		if out[i].LastMessageAt != nil {
			ti = *out[i].LastMessageAt
		}
		if out[j].LastMessageAt != nil {
			tj = *out[j].LastMessageAt
		}
		return ti.After(tj)
	})
	return out, nil
}

func (m *memStore) Add(_ context.Context, roomID string, userID int64) error {
	if m.participants[roomID] == nil {
		m.participants[roomID] = map[int64]*domain.Participant{}
	}
	if _, ok := m.participants[roomID][userID]; ok {
		return nil
	}
	now := m.tick()
	m.participants[roomID][userID] = &domain.Participant{
		RoomID: roomID, UserID: userID, JoinedAt: now, LastSeen: now,
	}
	return nil
}

func (m *memStore) AddMany(ctx context.Context, roomID string, userIDs []int64) error {
	for _, id := range userIDs {
		if err := m.Add(ctx, roomID, id); err != nil {
			return err
		}
	}
	return nil
}

func (m *memStore) Exists(_ context.Context, roomID string, userID int64) (bool, error) {
	_, ok := m.participants[roomID][userID]
	return ok, nil
}

func (m *memStore) Count(_ context.Context, roomID string) (int, error) {
	return len(m.participants[roomID]), nil
}

func (m *memStore) OtherUser(_ context.Context, roomID string, userID int64) (*domain.User, error) {
	for id := range m.participants[roomID] {
		if id != userID {
			if u, ok := m.users[id]; ok {
				cp := *u
				return &cp, nil
			}
		}
	}
	return nil, nil
}

func (m *memStore) ListDetailed(_ context.Context, roomID string, activeWithin time.Duration) ([]repository.ParticipantDetailedRow, error) {
	var out []repository.ParticipantDetailedRow
	for id, p := range m.participants[roomID] {
		u := m.users[id]
		out = append(out, repository.ParticipantDetailedRow{
			UserID:      id,
			DisplayName: u.FullName(),
			AvatarURL:   u.AvatarURL,
			JoinedAt:    p.JoinedAt,
			LastSeen:    p.LastSeen,
			Online:      m.clock.Sub(p.LastSeen) < activeWithin,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DisplayName < out[j].DisplayName })
	return out, nil
}

func (m *memStore) TouchHeartbeat(_ context.Context, roomID string, userID int64) error {
	p, ok := m.participants[roomID][userID]
	if !ok {
		return domain.ErrNotInRoom
	}
	p.LastSeen = m.tick()
	return nil
}

func (m *memStore) Save(_ context.Context, roomID string, senderID int64, content string, filePath *string) (*domain.Message, error) {
	m.nextMsgID++
	now := m.tick()
	msg := &domain.Message{
		ID:         m.nextMsgID,
		RoomID:     roomID,
		SenderID:   senderID,
		Content:    content,
		FilePath:   filePath,
		CreatedAt:  now,
		SenderName: m.users[senderID].FullName(),
	}
	m.messages = append(m.messages, msg)
	m.rooms[roomID].UpdatedAt = now
	cp := *msg
	return &cp, nil
}

func (m *memStore) History(ctx context.Context, roomID string) ([]domain.Message, error) {
	return m.Since(ctx, roomID, 0)
}

func (m *memStore) Since(_ context.Context, roomID string, afterID int64) ([]domain.Message, error) {
	var out []domain.Message
	for _, msg := range m.messages {
		if msg.RoomID == roomID && msg.ID > afterID {
			out = append(out, *msg)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) MarkRoomRead(_ context.Context, roomID string, userID int64) (int64, error) {
	var created int64
	for _, msg := range m.messages {
		if msg.RoomID != roomID || msg.SenderID == userID {
			continue
		}
		if m.receipts[msg.ID] == nil {
			m.receipts[msg.ID] = map[int64]bool{}
		}
		if m.receipts[msg.ID][userID] {
			continue
		}
		m.receipts[msg.ID][userID] = true
		created++
	}
	return created, nil
}

func (m *memStore) UnreadCount(_ context.Context, roomID string, userID int64) (int, error) {
	count := 0
	for _, msg := range m.messages {
		if msg.RoomID != roomID || msg.SenderID == userID {
			continue
		}
		if !m.receipts[msg.ID][userID] {
			count++
		}
	}
	return count, nil
}

func (m *memStore) GetUser(_ context.Context, id int64) (*domain.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memStore) GetGroup(_ context.Context, id int64) (*domain.Group, error) {
	g, ok := m.groups[id]
	if !ok {
		return nil, domain.ErrGroupNotFound
	}
	cp := *g
	return &cp, nil
}

func (m *memStore) IsEnrolled(_ context.Context, groupID, userID int64) (bool, error) {
	return m.enrollments[groupID][userID], nil
}

func (m *memStore) Roster(_ context.Context, groupID int64) ([]int64, error) {
	var ids []int64
	if g, ok := m.groups[groupID]; ok && g.TeacherID != nil {
		ids = append(ids, *g.TeacherID)
	}
	for sid := range m.enrollments[groupID] {
		ids = append(ids, sid)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (m *memStore) ChatPartners(_ context.Context, user *domain.User) ([]domain.User, error) {
	var out []domain.User
	if user.Role == domain.RoleAdmin {
		for id, u := range m.users {
			if id != user.ID {
				out = append(out, *u)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// собирает полный стек хендлеров так же, как cmd/main.go
func newTestRouter(m *memStore) (http.Handler, *ws.Hub) {
	memberSvc := service.NewMemberService(m, m)
	roomSvc := service.NewRoomService(m, m, memberSvc)
	chatSvc := service.NewChatService(m, m, m, m)
	dirSvc := service.NewDirectoryService(m)

	hub := ws.NewHub()
	wsServer := ws.NewServer(hub, memberSvc, chatSvc)
	h := NewHandler(roomSvc, memberSvc, chatSvc, dirSvc, hub, "/media")
	return NewRouter(h, memberSvc, wsServer), hub
}
