package queries

const (
	QueryInsertMessage = `
		INSERT INTO chat_messages (room_id, sender_id, content, file_path)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at;
	`
	QueryTouchRoom = `
		UPDATE chat_rooms SET updated_at = now() WHERE id = $1;
	`
	QueryMessageHistory = `
		SELECT m.id, m.room_id, m.sender_id, m.content, m.file_path, m.created_at,
		       TRIM(u.first_name || ' ' || u.last_name) AS sender_name
		FROM chat_messages m
		JOIN users u ON u.id = m.sender_id
		WHERE m.room_id = $1
		ORDER BY m.created_at, m.id;
	`
	QueryMessagesSince = `
		SELECT m.id, m.room_id, m.sender_id, m.content, m.file_path, m.created_at,
		       TRIM(u.first_name || ' ' || u.last_name) AS sender_name
		FROM chat_messages m
		JOIN users u ON u.id = m.sender_id
		WHERE m.room_id = $1 AND m.id > $2
		ORDER BY m.created_at, m.id;
	`
	QuerySenderName = `
		SELECT TRIM(first_name || ' ' || last_name) FROM users WHERE id = $1;
	`
)
