package sqlstore

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"

	"github.com/de-tools/loan-atlas/pkg/models/domain"
	"github.com/de-tools/loan-atlas/pkg/store/warehouse"
	"github.com/marcboeker/go-duckdb/v2"
	"github.com/shopspring/decimal"
)

// NewDuckDB opens a DuckDB database and runs the boot queries on every new
// connection. An empty path is an in-memory database.
func NewDuckDB(path string, bootQueries ...string) (*sql.DB, error) {
	c, err := duckdb.NewConnector(path, func(exec driver.ExecerContext) error {
		for _, query := range bootQueries {
			if _, err := exec.ExecContext(context.Background(), query, nil); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return sql.OpenDB(c), nil
}

// OpenDuckDB opens the profile's database file read-only.
func OpenDuckDB(_ context.Context, p domain.Profile) (warehouse.Store, error) {
	backend := string(domain.DriverDuckDB)

	path := p.DSN
	if path == "" {
		path = p.Database
	}
	if path == "" {
		return nil, warehouse.NewQueryError(backend, warehouse.OpConnect,
			fmt.Errorf("duckdb profile %q needs a dsn or database path", p.Name))
	}

	db, err := NewDuckDB(path + "?access_mode=read_only")
	if err != nil {
		return nil, warehouse.NewQueryError(backend, warehouse.OpConnect, err)
	}

	s := newSQLStore(db, backend, warehouse.Standard, profileTables(p))
	s.convert = duckDBValue
	return s, nil
}

// duckDBValue turns DuckDB DECIMAL values into exact decimals.
func duckDBValue(v any) any {
	switch t := v.(type) {
	case duckdb.Decimal:
		if t.Value == nil {
			return nil
		}
		return decimal.NewFromBigInt(t.Value, -int32(t.Scale))
	case *duckdb.Decimal:
		if t == nil || t.Value == nil {
			return nil
		}
		return decimal.NewFromBigInt(t.Value, -int32(t.Scale))
	}
	return v
}
