package service

import (
	"context"
	"sort"
	"time"

	"github.com/school-erp/chat-service/internal/domain"
	"github.com/school-erp/chat-service/internal/repository"

	"github.com/google/uuid"
)

// memRepo реализует все интерфейсы repository поверх карт в памяти,
// повторяя семантику SQL-слоя (уникальные ключи, ON CONFLICT DO NOTHING).
type memRepo struct {
	rooms   map[string]*domain.Room
	byPair  map[string]string
	byGroup map[int64]string

	participants map[string]map[int64]*domain.Participant

	messages  []*domain.Message
	nextMsgID int64

	receipts map[int64]map[int64]time.Time // messageID -> userID -> readAt

	users       map[int64]*domain.User
	groups      map[int64]*domain.Group
	enrollments map[int64]map[int64]bool // groupID -> studentID

	clock time.Time
}

func newMemRepo() *memRepo {
	return &memRepo{
		rooms:        map[string]*domain.Room{},
		byPair:       map[string]string{},
		byGroup:      map[int64]string{},
		participants: map[string]map[int64]*domain.Participant{},
		receipts:     map[int64]map[int64]time.Time{},
		users:        map[int64]*domain.User{},
		groups:       map[int64]*domain.Group{},
		enrollments:  map[int64]map[int64]bool{},
		clock:        time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (m *memRepo) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func (m *memRepo) addUser(id int64, first, last string, role domain.Role) {
	m.users[id] = &domain.User{ID: id, FirstName: first, LastName: last, Role: role}
}

func (m *memRepo) addGroup(id int64, name string, teacherID *int64) {
	m.groups[id] = &domain.Group{ID: id, Name: name, TeacherID: teacherID}
}

func (m *memRepo) enroll(groupID, studentID int64) {
	if m.enrollments[groupID] == nil {
		m.enrollments[groupID] = map[int64]bool{}
	}
	m.enrollments[groupID][studentID] = true
}

// --- RoomRepository ---

func (m *memRepo) Get(_ context.Context, id string) (*domain.Room, error) {
	r, ok := m.rooms[id]
	if !ok {
		return nil, domain.ErrRoomNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *memRepo) GetForUser(_ context.Context, id string, userID int64) (*domain.Room, error) {
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

func (m *memRepo) newRoom(name string, kind domain.RoomKind, groupID *int64) *domain.Room {
	now := m.tick()
	r := &domain.Room{
		ID:        uuid.NewString(),
		Name:      &name,
		Kind:      kind,
		GroupID:   groupID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.rooms[r.ID] = r
	return r
}

func (m *memRepo) ResolvePrivate(_ context.Context, pairKey, name string) (*domain.Room, bool, error) {
	if id, ok := m.byPair[pairKey]; ok {
		cp := *m.rooms[id]
		return &cp, false, nil
	}
	r := m.newRoom(name, domain.RoomPrivate, nil)
	m.byPair[pairKey] = r.ID
	cp := *r
	return &cp, true, nil
}

func (m *memRepo) ResolveGroup(_ context.Context, groupID int64, name string) (*domain.Room, bool, error) {
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

func (m *memRepo) ListForUser(_ context.Context, userID int64) ([]repository.RoomListRow, error) {
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

// --- ParticipantRepository ---

func (m *memRepo) Add(_ context.Context, roomID string, userID int64) error {
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

func (m *memRepo) AddMany(ctx context.Context, roomID string, userIDs []int64) error {
	for _, id := range userIDs {
		if err := m.Add(ctx, roomID, id); err != nil {
			return err
		}
	}
	return nil
}

func (m *memRepo) Exists(_ context.Context, roomID string, userID int64) (bool, error) {
	_, ok := m.participants[roomID][userID]
	return ok, nil
}

func (m *memRepo) Count(_ context.Context, roomID string) (int, error) {
	return len(m.participants[roomID]), nil
}

func (m *memRepo) OtherUser(_ context.Context, roomID string, userID int64) (*domain.User, error) {
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

func (m *memRepo) ListDetailed(_ context.Context, roomID string, activeWithin time.Duration) ([]repository.ParticipantDetailedRow, error) {
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

func (m *memRepo) TouchHeartbeat(_ context.Context, roomID string, userID int64) error {
	p, ok := m.participants[roomID][userID]
	if !ok {
		return domain.ErrNotInRoom
	}
	p.LastSeen = m.tick()
	return nil
}

// --- MessageRepository ---

func (m *memRepo) Save(_ context.Context, roomID string, senderID int64, content string, filePath *string) (*domain.Message, error) {
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

func (m *memRepo) History(ctx context.Context, roomID string) ([]domain.Message, error) {
	return m.Since(ctx, roomID, 0)
}

func (m *memRepo) Since(_ context.Context, roomID string, afterID int64) ([]domain.Message, error) {
	var out []domain.Message
	for _, msg := range m.messages {
		if msg.RoomID == roomID && msg.ID > afterID {
			out = append(out, *msg)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// --- ReceiptRepository ---

func (m *memRepo) MarkRoomRead(_ context.Context, roomID string, userID int64) (int64, error) {
	var created int64
	for _, msg := range m.messages {
		if msg.RoomID != roomID || msg.SenderID == userID {
			continue
		}
		if m.receipts[msg.ID] == nil {
			m.receipts[msg.ID] = map[int64]time.Time{}
		}
		if _, ok := m.receipts[msg.ID][userID]; ok {
			continue
		}
		m.receipts[msg.ID][userID] = m.tick()
		created++
	}
	return created, nil
}

func (m *memRepo) UnreadCount(_ context.Context, roomID string, userID int64) (int, error) {
	count := 0
	for _, msg := range m.messages {
		if msg.RoomID != roomID || msg.SenderID == userID {
			continue
		}
		if _, ok := m.receipts[msg.ID][userID]; !ok {
			count++
		}
	}
	return count, nil
}

// --- DirectoryRepository ---

func (m *memRepo) GetUser(_ context.Context, id int64) (*domain.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memRepo) GetGroup(_ context.Context, id int64) (*domain.Group, error) {
	g, ok := m.groups[id]
	if !ok {
		return nil, domain.ErrGroupNotFound
	}
	cp := *g
	return &cp, nil
}

func (m *memRepo) IsEnrolled(_ context.Context, groupID, userID int64) (bool, error) {
	return m.enrollments[groupID][userID], nil
}

func (m *memRepo) Roster(_ context.Context, groupID int64) ([]int64, error) {
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

func (m *memRepo) ChatPartners(_ context.Context, user *domain.User) ([]domain.User, error) {
	seen := map[int64]bool{}
	var out []domain.User
	add := func(id int64) {
		if id == user.ID || seen[id] {
			return
		}
		seen[id] = true
		out = append(out, *m.users[id])
	}

	switch user.Role {
	case domain.RoleAdmin:
		for id := range m.users {
			add(id)
		}
	case domain.RoleTeacher:
		for gid, g := range m.groups {
			if g.TeacherID != nil && *g.TeacherID == user.ID {
				for sid := range m.enrollments[gid] {
					add(sid)
				}
			}
		}
	case domain.RoleStudent:
		for gid := range m.enrollments {
			if !m.enrollments[gid][user.ID] {
				continue
			}
			if g := m.groups[gid]; g != nil && g.TeacherID != nil {
				add(*g.TeacherID)
			}
			for sid := range m.enrollments[gid] {
				add(sid)
			}
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// сборка сервисов поверх одного memRepo
func newTestServices(m *memRepo) (*RoomService, *MemberService, *ChatService, *DirectoryService) {
	memberSvc := NewMemberService(m, m)
	roomSvc := NewRoomService(m, m, memberSvc)
	chatSvc := NewChatService(m, m, m, m)
	dirSvc := NewDirectoryService(m)
	return roomSvc, memberSvc, chatSvc, dirSvc
}
