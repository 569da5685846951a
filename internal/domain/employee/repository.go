package employee

import "context"

type EmployeeRepository interface {
	// ListRefs returns token/group pairs for the roster, optionally filtered by group
	ListRefs(ctx context.Context, filter RefFilter) ([]Ref, error)

	// List returns full roster rows ordered by name
	List(ctx context.Context, filter EmployeeFilter) ([]Employee, error)

	// GetByTokenNo returns ErrEmployeeNotFound when no row matches
	GetByTokenNo(ctx context.Context, tokenNo string) (Employee, error)

	// ListGroups returns the distinct non-null groups, sorted
	ListGroups(ctx context.Context) ([]string, error)
}
