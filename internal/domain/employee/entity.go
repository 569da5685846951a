package employee

import (
	"time"
)

type Employee struct {
	TokenNo   string
	Name      string
	Group     *string
	Desig     *string
	Role      *string
	CreatedAt time.Time
}

// Ref is the slice of a roster row the metrics aggregation needs.
type Ref struct {
	Token string
	Group *string
}

// RefFilter narrows a roster read. An empty Group means no group filter.
type RefFilter struct {
	Group        string
	GroupNotNull bool
}

// GroupName returns the group or "" when the employee has none.
func (e Employee) GroupName() string {
	if e.Group == nil {
		return ""
	}
	return *e.Group
}
