package auth

const (
	RoleEmployee    = "employee"
	RoleManager     = "manager"
	RoleHR          = "hr"
	RoleSystemAdmin = "system_admin"
)
