package constants

// Роли пользователей. Других ролей в системе нет.
const (
	RoleEmployee = "employee"
	RoleAdmin    = "admin"
)

func IsValidRole(role string) bool {
	return role == RoleEmployee || role == RoleAdmin
}
