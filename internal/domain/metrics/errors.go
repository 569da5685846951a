package metrics

import (
	"errors"
	"fmt"
)

var (
	ErrGroupRequired = errors.New("group is required to compute dashboard metrics")
)

// Store names the collaborator a read failed against.
type Store string

const (
	StoreRoster     Store = "roster"
	StoreAttendance Store = "attendance"
	StoreCompletion Store = "completion"
)

// DataFetchError reports a failed store read. The aggregation is aborted
// whenever one is returned.
type DataFetchError struct {
	Store Store
	Err   error
}

func (e *DataFetchError) Error() string {
	return fmt.Sprintf("failed to fetch %s data: %v", e.Store, e.Err)
}

func (e *DataFetchError) Unwrap() error {
	return e.Err
}

// NewFetchError wraps err as a DataFetchError for store. A nil err stays nil.
func NewFetchError(store Store, err error) error {
	if err == nil {
		return nil
	}
	return &DataFetchError{Store: store, Err: err}
}
