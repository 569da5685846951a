package user

type Permission string

const (
	// Dashboard
	PermissionMetricsView Permission = "metrics.view"

	// Attendance Management
	PermissionAttendanceView  Permission = "attendance.view"
	PermissionAttendanceWrite Permission = "attendance.write"

	// Roster
	PermissionEmployeeView Permission = "employee.view"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleAdmin: {
		PermissionMetricsView,
		PermissionAttendanceView,
		PermissionAttendanceWrite,
		PermissionEmployeeView,
	},
	RoleManager: {
		PermissionMetricsView,
		PermissionAttendanceView,
		PermissionAttendanceWrite,
		PermissionEmployeeView,
	},
	RoleLeader: {
		// Leaders work the group panel only, no dashboards
		PermissionAttendanceView,
		PermissionAttendanceWrite,
		PermissionEmployeeView,
	},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}

	return false
}
