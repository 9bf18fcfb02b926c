package domain

// Справочник пользователей и групп принадлежит ERP; здесь только чтение.

type Role string

const (
	RoleAdmin          Role = "admin"
	RoleTeacher        Role = "teacher"
	RoleStudent        Role = "student"
	RoleSupportTeacher Role = "support_teacher"
)

type User struct {
	ID        int64   `db:"id"`
	FirstName string  `db:"first_name"`
	LastName  string  `db:"last_name"`
	Role      Role    `db:"role"`
	AvatarURL *string `db:"avatar_url"`
}

func (u *User) FullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

type Group struct {
	ID        int64  `db:"id"`
	Name      string `db:"name"`
	TeacherID *int64 `db:"teacher_id"`
}
