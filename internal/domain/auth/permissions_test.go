package auth

import "testing"

func TestRolePermissionsSubset(t *testing.T) {
	allowed := map[string]struct{}{}
	for _, perm := range DefaultPermissions {
		allowed[perm] = struct{}{}
	}

	for role, perms := range RolePermissions {
		if len(perms) == 0 {
			t.Fatalf("role %s has no permissions", role)
		}
		for _, perm := range perms {
			if _, ok := allowed[perm]; !ok {
				t.Fatalf("role %s has unknown permission %s", role, perm)
			}
		}
	}
}

func TestRoleGrants(t *testing.T) {
	tests := []struct {
		role string
		perm string
		want bool
	}{
		{role: RoleEmployee, perm: PermPerformanceWrite, want: true},
		{role: RoleEmployee, perm: PermPerformanceAdmin, want: false},
		{role: RoleManager, perm: PermAuditRead, want: false},
		{role: RoleHR, perm: PermAuditRead, want: true},
		{role: RoleSystemAdmin, perm: PermPerformanceAdmin, want: true},
		{role: RoleSystemAdmin, perm: "performance.review", want: false},
	}
	for _, tc := range tests {
		if got := RoleHasPermission(tc.role, tc.perm); got != tc.want {
			t.Fatalf("%s/%s: expected %v, got %v", tc.role, tc.perm, tc.want, got)
		}
	}
	if len(DefaultPermissions) != 6 {
		t.Fatalf("expected 6 permissions, got %v", DefaultPermissions)
	}
}

func TestDefaultPermissionsUnique(t *testing.T) {
	seen := map[string]struct{}{}
	for _, perm := range DefaultPermissions {
		if _, ok := seen[perm]; ok {
			t.Fatalf("duplicate permission %s", perm)
		}
		seen[perm] = struct{}{}
	}
}

func TestPrincipalFromClaimsPrivilege(t *testing.T) {
	tests := []struct {
		name   string
		claims Claims
		want   bool
	}{
		{name: "hr role", claims: Claims{RoleName: RoleHR}, want: true},
		{name: "system admin", claims: Claims{RoleName: RoleSystemAdmin}, want: true},
		{name: "manager", claims: Claims{RoleName: RoleManager}, want: false},
		{name: "employee with explicit flag", claims: Claims{RoleName: RoleEmployee, Privileged: true}, want: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := PrincipalFromClaims(tc.claims).IsPrivileged(); got != tc.want {
				t.Fatalf("expected privileged=%v, got %v", tc.want, got)
			}
		})
	}
}

func TestDisplayNameFallback(t *testing.T) {
	if got := (Principal{EmployeeID: "e1", UserID: "u1"}).DisplayName(); got != "e1" {
		t.Fatalf("expected employee id fallback, got %q", got)
	}
	if got := (Principal{UserID: "u1"}).DisplayName(); got != "u1" {
		t.Fatalf("expected user id fallback, got %q", got)
	}
}
