package queries

const (
	QueryGetUser = `
		SELECT id, first_name, last_name, role, avatar_url
		FROM users
		WHERE id = $1;
	`
	QueryGetGroup = `
		SELECT id, name, teacher_id
		FROM groups
		WHERE id = $1;
	`
	QueryIsEnrolled = `
		SELECT EXISTS(SELECT 1 FROM group_students WHERE group_id = $1 AND student_id = $2);
	`
	QueryGroupRoster = `
		SELECT teacher_id FROM groups WHERE id = $1 AND teacher_id IS NOT NULL
		UNION
		SELECT student_id FROM group_students WHERE group_id = $1;
	`

	// видимость собеседников по ролям (см. DirectoryRepository.ChatPartners)
	QueryPartnersForStudent = `
		SELECT DISTINCT u.id, u.first_name, u.last_name, u.role, u.avatar_url
		FROM users u
		WHERE u.id <> $1 AND (
			u.id IN (
				SELECT g.teacher_id FROM groups g
				JOIN group_students gs ON gs.group_id = g.id AND gs.student_id = $1
				WHERE g.teacher_id IS NOT NULL
			)
			OR u.id IN (
				SELECT gs2.student_id FROM group_students gs2
				WHERE gs2.group_id IN (
					SELECT gs.group_id FROM group_students gs WHERE gs.student_id = $1
				)
			)
		)
		ORDER BY u.first_name, u.last_name;
	`
	QueryPartnersForTeacher = `
		SELECT DISTINCT u.id, u.first_name, u.last_name, u.role, u.avatar_url
		FROM users u
		JOIN group_students gs ON gs.student_id = u.id
		JOIN groups g ON g.id = gs.group_id AND g.teacher_id = $1
		ORDER BY u.first_name, u.last_name;
	`
	QueryPartnersForAdmin = `
		SELECT id, first_name, last_name, role, avatar_url
		FROM users
		WHERE id <> $1
		ORDER BY first_name, last_name;
	`
)
