package sqlstore

import (
	"context"
	"database/sql"
	"time"

	"github.com/de-tools/loan-atlas/pkg/models/domain"
	"github.com/de-tools/loan-atlas/pkg/store/warehouse"
	"github.com/go-sql-driver/mysql"
)

// MySQLConfig always parses DATE and DATETIME columns into time.Time.
func MySQLConfig(p domain.Profile) (*mysql.Config, error) {
	var cfg *mysql.Config
	if p.DSN != "" {
		parsed, err := mysql.ParseDSN(p.DSN)
		if err != nil {
			return nil, err
		}
		cfg = parsed
	} else {
		cfg = mysql.NewConfig()
		cfg.Net = "tcp"
		cfg.Addr = p.Host
		cfg.User = p.User
		cfg.Passwd = p.Password
		cfg.DBName = p.Database
	}
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	return cfg, nil
}

func OpenMySQL(_ context.Context, p domain.Profile) (warehouse.Store, error) {
	backend := string(domain.DriverMySQL)

	cfg, err := MySQLConfig(p)
	if err != nil {
		return nil, warehouse.NewQueryError(backend, warehouse.OpConnect, err)
	}

	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, warehouse.NewQueryError(backend, warehouse.OpConnect, err)
	}

	return NewStore(sql.OpenDB(connector), backend, warehouse.Standard, profileTables(p)), nil
}
