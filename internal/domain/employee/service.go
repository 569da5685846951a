package employee

import (
	"context"
)

// EmployeeService defines roster read operations
type EmployeeService interface {
	// ListEmployees lists roster rows, optionally for a single group
	ListEmployees(ctx context.Context, filter EmployeeFilter) ([]EmployeeResponse, error)

	// ListGroups lists the groups present in the roster
	ListGroups(ctx context.Context) ([]string, error)
}
