// Package warehouse is the read-only boundary to the analytic warehouse that
// holds the loan performance tables.
package warehouse

import (
	"context"
	"fmt"
	"time"

	"github.com/de-tools/loan-atlas/pkg/models/store"
)

// Query bounds the loans returned by LoadLoans. Nil dates are open ends and a
// zero Limit returns every row.
type Query struct {
	From  *time.Time
	To    *time.Time
	Limit int
}

type Store interface {
	// LoadLoans returns one row per loan joined with its borrower.
	LoadLoans(ctx context.Context, q Query) ([]store.Row, error)
	Close() error
}

// Operations reported by QueryError.
const (
	OpConnect = "connect"
	OpQuery   = "query"
	OpScan    = "scan"
)

// QueryError is any failure talking to the warehouse: network, auth, SQL.
type QueryError struct {
	Backend string
	Op      string
	Err     error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("%s %s failed: %v", e.Backend, e.Op, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

func NewQueryError(backend, op string, err error) *QueryError {
	return &QueryError{Backend: backend, Op: op, Err: err}
}
