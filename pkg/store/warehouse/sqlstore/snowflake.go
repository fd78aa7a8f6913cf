package sqlstore

import (
	"context"
	"database/sql"

	"github.com/de-tools/loan-atlas/pkg/models/domain"
	"github.com/de-tools/loan-atlas/pkg/store/warehouse"
	sf "github.com/snowflakedb/gosnowflake"
)

// SnowflakeConfig maps a profile onto the driver config. A profile dsn wins
// over the individual fields.
func SnowflakeConfig(p domain.Profile) (*sf.Config, error) {
	if p.DSN != "" {
		return sf.ParseDSN(p.DSN)
	}
	return &sf.Config{
		Account:   p.Account,
		User:      p.User,
		Password:  p.Password,
		Database:  p.Database,
		Warehouse: p.Warehouse,
		Role:      p.Role,
	}, nil
}

func OpenSnowflake(_ context.Context, p domain.Profile) (warehouse.Store, error) {
	cfg, err := SnowflakeConfig(p)
	if err != nil {
		return nil, warehouse.NewQueryError(string(domain.DriverSnowflake), warehouse.OpConnect, err)
	}

	dsn, err := sf.DSN(cfg)
	if err != nil {
		return nil, warehouse.NewQueryError(string(domain.DriverSnowflake), warehouse.OpConnect, err)
	}

	db, err := sql.Open("snowflake", dsn)
	if err != nil {
		return nil, warehouse.NewQueryError(string(domain.DriverSnowflake), warehouse.OpConnect, err)
	}

	return NewStore(db, string(domain.DriverSnowflake), warehouse.Standard, profileTables(p)), nil
}
