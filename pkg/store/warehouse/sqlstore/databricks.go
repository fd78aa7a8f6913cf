package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/databricks/databricks-sdk-go/config"
	dbsql "github.com/databricks/databricks-sql-go"
	"github.com/de-tools/loan-atlas/pkg/models/domain"
	"github.com/de-tools/loan-atlas/pkg/store/warehouse"
	"github.com/rs/zerolog"
)

// Databricks is the SQL warehouse dialect. Unity Catalog names are
// catalog.schema.table, which PlainTable accepts.
var Databricks = warehouse.Standard

// resolveDatabricks fills host and token from the Databricks unified auth
// config (~/.databrickscfg, env) when the profile does not carry a token.
func resolveDatabricks(ctx context.Context, p domain.Profile) (host, token string, err error) {
	if p.Token != "" {
		return p.Host, p.Token, nil
	}

	cfg := &config.Config{Host: p.Host, Profile: p.Name}
	if err := cfg.EnsureResolved(); err != nil {
		return "", "", fmt.Errorf("failed to resolve databricks auth: %w", err)
	}
	if cfg.Token == "" {
		return "", "", fmt.Errorf("no databricks token for profile %q", p.Name)
	}

	zerolog.Ctx(ctx).Debug().
		Str("profile", p.Name).
		Str("host", cfg.Host).
		Msg("resolved databricks credentials from unified auth config")

	return cfg.Host, cfg.Token, nil
}

func OpenDatabricks(ctx context.Context, p domain.Profile) (warehouse.Store, error) {
	backend := string(domain.DriverDatabricks)

	if p.DSN != "" {
		db, err := sql.Open("databricks", p.DSN)
		if err != nil {
			return nil, warehouse.NewQueryError(backend, warehouse.OpConnect, err)
		}
		return NewStore(db, backend, Databricks, profileTables(p)), nil
	}

	host, token, err := resolveDatabricks(ctx, p)
	if err != nil {
		return nil, warehouse.NewQueryError(backend, warehouse.OpConnect, err)
	}
	if p.HTTPPath == "" {
		return nil, warehouse.NewQueryError(backend, warehouse.OpConnect,
			fmt.Errorf("http_path is required for profile %q", p.Name))
	}

	connector, err := dbsql.NewConnector(
		dbsql.WithServerHostname(strings.TrimPrefix(strings.TrimPrefix(host, "https://"), "http://")),
		dbsql.WithPort(443),
		dbsql.WithHTTPPath(p.HTTPPath),
		dbsql.WithAccessToken(token),
	)
	if err != nil {
		return nil, warehouse.NewQueryError(backend, warehouse.OpConnect, err)
	}

	return NewStore(sql.OpenDB(connector), backend, Databricks, profileTables(p)), nil
}
