// Package sqlstore implements the warehouse store on database/sql drivers.
package sqlstore

import (
	"context"
	"database/sql"

	"github.com/de-tools/loan-atlas/pkg/models/domain"
	"github.com/de-tools/loan-atlas/pkg/models/store"
	"github.com/de-tools/loan-atlas/pkg/store/warehouse"
	"github.com/rs/zerolog"
)

type sqlStore struct {
	db      *sql.DB
	backend string
	dialect warehouse.Dialect
	tables  warehouse.Tables
	// convert maps driver specific values before they reach the row model.
	convert func(any) any
}

func NewStore(db *sql.DB, backend string, dialect warehouse.Dialect, tables warehouse.Tables) warehouse.Store {
	return newSQLStore(db, backend, dialect, tables)
}

func newSQLStore(db *sql.DB, backend string, dialect warehouse.Dialect, tables warehouse.Tables) *sqlStore {
	return &sqlStore{
		db:      db,
		backend: backend,
		dialect: dialect,
		tables:  tables,
	}
}

func profileTables(p domain.Profile) warehouse.Tables {
	return warehouse.Tables{Loans: p.LoansTable, Borrowers: p.BorrowersTable}
}

func (s *sqlStore) LoadLoans(ctx context.Context, q warehouse.Query) ([]store.Row, error) {
	logger := zerolog.Ctx(ctx)

	stmt, err := warehouse.LoanStatement(s.dialect, s.tables, q)
	if err != nil {
		return nil, warehouse.NewQueryError(s.backend, warehouse.OpQuery, err)
	}

	rows, err := s.db.QueryContext(ctx, stmt.SQL, stmt.Args()...)
	if err != nil {
		return nil, warehouse.NewQueryError(s.backend, warehouse.OpQuery, err)
	}
	defer func(rows *sql.Rows) {
		err := rows.Close()
		if err != nil {
			logger.Warn().Err(err).Msg("failed to close loan query rows")
		}
	}(rows)

	columns, err := rows.Columns()
	if err != nil {
		return nil, warehouse.NewQueryError(s.backend, warehouse.OpScan, err)
	}

	var result []store.Row
	for rows.Next() {
		values := make([]any, len(columns))
		targets := make([]any, len(columns))
		for i := range values {
			targets[i] = &values[i]
		}
		if err := rows.Scan(targets...); err != nil {
			return nil, warehouse.NewQueryError(s.backend, warehouse.OpScan, err)
		}
		if s.convert != nil {
			for i, v := range values {
				values[i] = s.convert(v)
			}
		}
		result = append(result, store.NewRow(columns, values))
	}
	if err := rows.Err(); err != nil {
		return nil, warehouse.NewQueryError(s.backend, warehouse.OpScan, err)
	}

	logger.Debug().
		Str("backend", s.backend).
		Int("rows", len(result)).
		Msg("loaded loan rows")

	return result, nil
}

func (s *sqlStore) Close() error {
	return s.db.Close()
}
