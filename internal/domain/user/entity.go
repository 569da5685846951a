package user

type Role string

const (
	RoleLeader  Role = "leader"  // Group leader - records attendance for the floor
	RoleManager Role = "manager" // Reads dashboards and attendance
	RoleAdmin   Role = "admin"   // Full access
)

// Principal is the authenticated caller as carried in access token claims.
type Principal struct {
	UserID string
	Email  string
	Role   Role
}

// IsValid reports whether r is one of the known roles.
func (r Role) IsValid() bool {
	switch r {
	case RoleLeader, RoleManager, RoleAdmin:
		return true
	}
	return false
}

// IsManager checks if user is manager or admin
func (p *Principal) IsManager() bool {
	return p.Role == RoleManager || p.Role == RoleAdmin
}

// IsAdmin checks if user is admin
func (p *Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}
