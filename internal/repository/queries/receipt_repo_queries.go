package queries

const (
	// одной командой: квитанции на все чужие сообщения без квитанции этого пользователя
	QueryMarkRoomRead = `
		INSERT INTO chat_read_receipts (message_id, user_id)
		SELECT m.id, $2
		FROM chat_messages m
		WHERE m.room_id = $1
		  AND m.sender_id <> $2
		  AND NOT EXISTS (
			SELECT 1 FROM chat_read_receipts rr
			WHERE rr.message_id = m.id AND rr.user_id = $2
		  )
		ON CONFLICT (message_id, user_id) DO NOTHING;
	`
	QueryUnreadCount = `
		SELECT COUNT(*)
		FROM chat_messages m
		WHERE m.room_id = $1
		  AND m.sender_id <> $2
		  AND NOT EXISTS (
			SELECT 1 FROM chat_read_receipts rr
			WHERE rr.message_id = m.id AND rr.user_id = $2
		  );
	`
)
