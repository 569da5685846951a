package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/fg-dashboard-go/internal/domain/completion"
	"github.com/cmlabs-hris/fg-dashboard-go/internal/pkg/database"
)

type completionRepository struct {
	db *database.DB
}

func NewCompletionRepository(db *database.DB) completion.CompletionRepository {
	return &completionRepository{db: db}
}

// ListByDateRange implements completion.CompletionRepository. transaction_date
// is a timestamp, so the last day is covered by a half-open upper bound at the
// following midnight.
func (c *completionRepository) ListByDateRange(ctx context.Context, from, to time.Time) ([]completion.Transaction, error) {
	q := GetQuerier(ctx, c.db)

	query := `
		SELECT transaction_date, index_qty,
			   class, dept_code, item_type, fg_under_fg
		FROM fg_completion
		WHERE transaction_date >= $1
		  AND transaction_date < $2
		ORDER BY transaction_date
	`

	rows, err := q.Query(ctx, query, startOfDay(from), startOfDay(to).AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("failed to list fg completion: %w", err)
	}
	defer rows.Close()

	var txs []completion.Transaction
	for rows.Next() {
		var t completion.Transaction
		if err := rows.Scan(
			&t.TransactionDate, &t.IndexQty,
			&t.Class, &t.DeptCode, &t.ItemType, &t.FGUnderFG,
		); err != nil {
			return nil, fmt.Errorf("failed to scan fg completion: %w", err)
		}
		txs = append(txs, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating fg completion: %w", err)
	}

	return txs, nil
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
