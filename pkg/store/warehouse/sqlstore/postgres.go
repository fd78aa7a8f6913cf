package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"

	"github.com/de-tools/loan-atlas/pkg/models/domain"
	"github.com/de-tools/loan-atlas/pkg/store/warehouse"
	"github.com/lib/pq"
)

// PostgresDSN builds a connection url from the profile fields unless a dsn is
// given.
func PostgresDSN(p domain.Profile) string {
	if p.DSN != "" {
		return p.DSN
	}
	u := url.URL{
		Scheme:   "postgres",
		Host:     p.Host,
		Path:     "/" + p.Database,
		RawQuery: "sslmode=require",
	}
	if p.User != "" {
		u.User = url.UserPassword(p.User, p.Password)
	}
	return u.String()
}

func OpenPostgres(_ context.Context, p domain.Profile) (warehouse.Store, error) {
	backend := string(domain.DriverPostgres)

	connector, err := pq.NewConnector(PostgresDSN(p))
	if err != nil {
		return nil, warehouse.NewQueryError(backend, warehouse.OpConnect,
			fmt.Errorf("invalid postgres dsn: %w", err))
	}

	return NewStore(sql.OpenDB(connector), backend, warehouse.Postgres, profileTables(p)), nil
}
