package auth

// Principal is the already-authenticated caller. It is passed explicitly to
// every engine call; nothing in the engine reads identity from globals.
type Principal struct {
	UserID     string
	EmployeeID string
	Name       string
	RoleName   string
	// Privileged is the HR/admin capability. It is supplied by the host
	// (token claims or role mapping) and never derived from the hierarchy.
	Privileged bool
}

func PrincipalFromClaims(claims Claims) Principal {
	return Principal{
		UserID:     claims.UserID,
		EmployeeID: claims.EmployeeID,
		Name:       claims.Name,
		RoleName:   claims.RoleName,
		Privileged: claims.Privileged || RoleHasPermission(claims.RoleName, PermPerformanceAdmin),
	}
}

func (p Principal) IsPrivileged() bool {
	return p.Privileged
}

// DisplayName falls back to the employee id when the token carries no name.
func (p Principal) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	if p.EmployeeID != "" {
		return p.EmployeeID
	}
	return p.UserID
}
