package completion

import (
	"context"
	"time"
)

type CompletionRepository interface {
	// ListByDateRange returns every transaction dated on a UTC calendar day from
	// from through to, both days inclusive at any time of day.
	ListByDateRange(ctx context.Context, from, to time.Time) ([]Transaction, error)
}
