package auth

import "context"

const (
	PermHierarchyRead     = "core.org.read"
	PermPerformanceRead   = "performance.read"
	PermPerformanceWrite  = "performance.write"
	PermPerformanceAdmin  = "performance.admin"
	PermNotificationsRead = "notifications.read"
	PermAuditRead         = "audit.read"
)

// Workflow actions are gated by plan assignments, not by a permission.
var DefaultPermissions = []string{
	PermHierarchyRead,
	PermPerformanceRead,
	PermPerformanceWrite,
	PermPerformanceAdmin,
	PermNotificationsRead,
	PermAuditRead,
}

var RolePermissions = map[string][]string{
	RoleEmployee: {
		PermHierarchyRead,
		PermPerformanceRead,
		PermPerformanceWrite,
		PermNotificationsRead,
	},
	RoleManager: {
		PermHierarchyRead,
		PermPerformanceRead,
		PermPerformanceWrite,
		PermNotificationsRead,
	},
	RoleHR: {
		PermHierarchyRead,
		PermPerformanceRead,
		PermPerformanceWrite,
		PermPerformanceAdmin,
		PermNotificationsRead,
		PermAuditRead,
	},
	RoleSystemAdmin: {
		PermHierarchyRead,
		PermPerformanceRead,
		PermPerformanceWrite,
		PermPerformanceAdmin,
		PermNotificationsRead,
		PermAuditRead,
	},
}

// StaticPermissions answers permission checks from RolePermissions.
type StaticPermissions struct{}

func (StaticPermissions) HasPermission(_ context.Context, roleName, permission string) (bool, error) {
	return RoleHasPermission(roleName, permission), nil
}

func RoleHasPermission(roleName, permission string) bool {
	for _, perm := range RolePermissions[roleName] {
		if perm == permission {
			return true
		}
	}
	return false
}
