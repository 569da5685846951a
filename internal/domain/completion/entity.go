package completion

import (
	"strings"
	"time"
)

// Transaction is one finished-goods completion row deposited by the upload pipeline.
type Transaction struct {
	TransactionDate *time.Time
	IndexQty        *float64
	Class           *string
	DeptCode        *string
	ItemType        *string
	FGUnderFG       *string
}

// Qty returns the completion quantity, 0 when absent.
func (t Transaction) Qty() float64 {
	if t.IndexQty == nil {
		return 0
	}
	return *t.IndexQty
}

// DateKey returns the UTC calendar day of the transaction as YYYY-MM-DD, or ""
// when the row carries no date.
func (t Transaction) DateKey() string {
	if t.TransactionDate == nil || t.TransactionDate.IsZero() {
		return ""
	}
	return t.TransactionDate.UTC().Format("2006-01-02")
}

// Classifier extracts one classification field from a transaction.
type Classifier func(Transaction) *string

// Classifiers are tried in order when matching a transaction to a group.
var Classifiers = []Classifier{
	func(t Transaction) *string { return t.Class },
	func(t Transaction) *string { return t.DeptCode },
	func(t Transaction) *string { return t.ItemType },
	func(t Transaction) *string { return t.FGUnderFG },
}

// EqualFoldTrim compares two labels ignoring surrounding whitespace and case.
func EqualFoldTrim(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// MatchesGroup reports whether any classification field names group.
func (t Transaction) MatchesGroup(group string) bool {
	if strings.TrimSpace(group) == "" {
		return false
	}
	for _, classify := range Classifiers {
		if v := classify(t); v != nil && EqualFoldTrim(*v, group) {
			return true
		}
	}
	return false
}
