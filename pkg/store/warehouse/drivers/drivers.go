// Package drivers registers every supported warehouse backend.
package drivers

import (
	"github.com/de-tools/loan-atlas/pkg/models/domain"
	"github.com/de-tools/loan-atlas/pkg/store/warehouse"
	"github.com/de-tools/loan-atlas/pkg/store/warehouse/bigquery"
	"github.com/de-tools/loan-atlas/pkg/store/warehouse/sqlstore"
)

var factories = map[domain.Driver]warehouse.Factory{
	domain.DriverBigQuery:   bigquery.Open,
	domain.DriverSnowflake:  sqlstore.OpenSnowflake,
	domain.DriverDatabricks: sqlstore.OpenDatabricks,
	domain.DriverPostgres:   sqlstore.OpenPostgres,
	domain.DriverMySQL:      sqlstore.OpenMySQL,
	domain.DriverDuckDB:     sqlstore.OpenDuckDB,
}

// NewRegistry returns a registry with all backends registered.
func NewRegistry() (warehouse.Registry, error) {
	r := warehouse.NewRegistry()
	for driver, factory := range factories {
		if err := r.Register(driver, factory); err != nil {
			return nil, err
		}
	}
	return r, nil
}
