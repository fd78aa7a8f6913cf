package bigquery

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
	"github.com/de-tools/loan-atlas/pkg/loans"
	"github.com/de-tools/loan-atlas/pkg/models/domain"
	"github.com/de-tools/loan-atlas/pkg/store/warehouse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQualifiedTables(t *testing.T) {
	tables := QualifiedTables("credix-analytics", "gold", "", "")
	assert.Equal(t, "credix-analytics.gold.fact_loan_performance", tables.Loans)
	assert.Equal(t, "credix-analytics.gold.dim_borrower", tables.Borrowers)

	tables = QualifiedTables("p", "gold", "other.loans", "borrowers")
	assert.Equal(t, "other.loans", tables.Loans)
	assert.Equal(t, "p.gold.borrowers", tables.Borrowers)

	tables = QualifiedTables("p", "", "", "")
	assert.Equal(t, warehouse.DefaultLoansTable, tables.Loans)
}

func TestStatementParameters(t *testing.T) {
	from := time.Date(2024, 2, 1, 15, 0, 0, 0, time.UTC)
	to := time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)
	stmt, err := warehouse.LoanStatement(Dialect, QualifiedTables("credix-analytics", "gold", "", ""), warehouse.Query{
		From:  &from,
		To:    &to,
		Limit: 5,
	})
	require.NoError(t, err)

	assert.Contains(t, stmt.SQL, "FROM `credix-analytics.gold.fact_loan_performance` lp")
	assert.Contains(t, stmt.SQL, "DATE(lp.first_issue_date) >= @from AND DATE(lp.first_issue_date) < @to")
	assert.Contains(t, stmt.SQL, "LIMIT @limit")

	params := QueryParameters(stmt)
	require.Len(t, params, 3)
	assert.Equal(t, bigquery.QueryParameter{Name: "from", Value: civil.Date{Year: 2024, Month: time.February, Day: 1}}, params[0])
	assert.Equal(t, bigquery.QueryParameter{Name: "to", Value: civil.Date{Year: 2024, Month: time.March, Day: 1}}, params[1])
	assert.Equal(t, bigquery.QueryParameter{Name: "limit", Value: int64(5)}, params[2])
}

func TestRowFromValues(t *testing.T) {
	row := RowFromValues(map[string]bigquery.Value{
		"ID":               "asset-9",
		"status":           "FULLY_PAID_WITH_DELAYS",
		"industry":         "4711-3/02",
		"geography":        "RJ",
		"origination_date": civil.Date{Year: 2023, Month: time.November, Day: 3},
		"amount":           big.NewRat(150000, 100),
		"risk_score":       0.31,
		"last_due_date":    nil,
		"max_days_late":    int64(4),
	})

	rec, err := loans.ParseRow(row)
	require.NoError(t, err)
	assert.Equal(t, "asset-9", rec.ID)
	assert.Equal(t, domain.LoanStatusPaid, rec.Status)
	assert.Equal(t, "1500", rec.Amount.String())
	assert.Nil(t, rec.LastDueDate)
	assert.Equal(t, 4, rec.MaxDaysLate)
}

func TestOpenWithoutProject(t *testing.T) {
	_, err := Open(context.Background(), domain.Profile{Name: "gcp", Driver: domain.DriverBigQuery})

	var qe *warehouse.QueryError
	require.True(t, errors.As(err, &qe))
	assert.Equal(t, warehouse.OpConnect, qe.Op)
}
