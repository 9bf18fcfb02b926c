package queries

const (
	QueryGetRoom = `
		SELECT id, name, kind, group_id, created_at, updated_at
		FROM chat_rooms
		WHERE id = $1;
	`
	QueryGetRoomForUser = `
		SELECT r.id, r.name, r.kind, r.group_id, r.created_at, r.updated_at
		FROM chat_rooms r
		JOIN chat_participants p ON p.room_id = r.id
		WHERE r.id = $1 AND p.user_id = $2;
	`
	// insert-or-fetch: при конфликте по pair_key строка не вставляется и RETURNING пуст,
	// тогда добираем существующую комнату вторым запросом
	QueryInsertPrivateRoom = `
		INSERT INTO chat_rooms (name, kind, pair_key)
		VALUES ($1, 'private', $2)
		ON CONFLICT (pair_key) WHERE kind = 'private' DO NOTHING
		RETURNING id, name, kind, group_id, created_at, updated_at;
	`
	QueryGetPrivateRoomByPair = `
		SELECT id, name, kind, group_id, created_at, updated_at
		FROM chat_rooms
		WHERE kind = 'private' AND pair_key = $1;
	`
	QueryInsertGroupRoom = `
		INSERT INTO chat_rooms (name, kind, group_id)
		VALUES ($1, 'group', $2)
		ON CONFLICT (group_id) WHERE kind = 'group' DO NOTHING
		RETURNING id, name, kind, group_id, created_at, updated_at;
	`
	QueryGetGroupRoom = `
		SELECT id, name, kind, group_id, created_at, updated_at
		FROM chat_rooms
		WHERE kind = 'group' AND group_id = $1;
	`
	QueryListRoomsForUser = `
		SELECT r.id, r.name, r.kind, r.group_id, r.created_at, r.updated_at,
		       MAX(m.created_at) AS last_message_at
		FROM chat_rooms r
		JOIN chat_participants p ON p.room_id = r.id AND p.user_id = $1
		LEFT JOIN chat_messages m ON m.room_id = r.id
		GROUP BY r.id
		ORDER BY COALESCE(MAX(m.created_at), r.updated_at) DESC, r.id DESC;
	`
)
