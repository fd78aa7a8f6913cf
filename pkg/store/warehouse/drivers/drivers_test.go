package drivers

import (
	"testing"

	"github.com/de-tools/loan-atlas/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistry(t *testing.T) {
	r, err := NewRegistry()
	require.NoError(t, err)

	assert.ElementsMatch(t, []domain.Driver{
		domain.DriverBigQuery,
		domain.DriverDatabricks,
		domain.DriverDuckDB,
		domain.DriverMySQL,
		domain.DriverPostgres,
		domain.DriverSnowflake,
	}, r.Drivers())
}
