package queries

const (
	QueryAddParticipant = `
		INSERT INTO chat_participants (room_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING;
	`
	QueryParticipantExists = `
		SELECT EXISTS(SELECT 1 FROM chat_participants WHERE room_id = $1 AND user_id = $2);
	`
	QueryCountParticipants = `
		SELECT COUNT(*) FROM chat_participants WHERE room_id = $1;
	`
	QueryOtherParticipant = `
		SELECT u.id, u.first_name, u.last_name, u.role, u.avatar_url
		FROM chat_participants p
		JOIN users u ON u.id = p.user_id
		WHERE p.room_id = $1 AND p.user_id <> $2
		ORDER BY p.joined_at
		LIMIT 1;
	`
	QueryListParticipantsDetailed = `
		SELECT p.user_id,
		       TRIM(u.first_name || ' ' || u.last_name) AS display_name,
		       u.avatar_url,
		       p.joined_at,
		       p.last_seen,
		       p.last_seen > now() - ($2::bigint * INTERVAL '1 second') AS online
		FROM chat_participants p
		JOIN users u ON u.id = p.user_id
		WHERE p.room_id = $1
		ORDER BY display_name, p.joined_at;
	`
	QueryTouchHeartbeat = `
		UPDATE chat_participants SET last_seen = now() WHERE room_id = $1 AND user_id = $2;
	`
)
