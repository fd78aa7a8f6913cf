// Package bigquery reads loans from BigQuery with service-account credentials.
package bigquery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
	"github.com/de-tools/loan-atlas/pkg/models/domain"
	"github.com/de-tools/loan-atlas/pkg/models/store"
	"github.com/de-tools/loan-atlas/pkg/store/warehouse"
	"github.com/rs/zerolog"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

const backend = string(domain.DriverBigQuery)

// Dialect binds dates as BigQuery DATE values and compares them with the
// DATE of the first_issue_date TIMESTAMP.
var Dialect = warehouse.Dialect{
	Name:        backend,
	Placeholder: warehouse.AtName,
	QuoteTable:  warehouse.BacktickTable,
	DateValue: func(t time.Time) any {
		return civil.DateOf(t.UTC())
	},
	IssueDate: func(column string) string {
		return "DATE(" + column + ")"
	},
}

type bqStore struct {
	client *bigquery.Client
	tables warehouse.Tables
}

// Open authenticates with the profile's service account, falling back to
// application default credentials when there is none.
func Open(ctx context.Context, p domain.Profile) (warehouse.Store, error) {
	project := p.ProjectID
	var opts []option.ClientOption
	if p.ServiceAccount != nil {
		creds, err := json.Marshal(p.ServiceAccount)
		if err != nil {
			return nil, warehouse.NewQueryError(backend, warehouse.OpConnect, err)
		}
		opts = append(opts, option.WithCredentialsJSON(creds))
		if project == "" {
			project = p.ServiceAccount.ProjectID
		}
	}
	if project == "" {
		return nil, warehouse.NewQueryError(backend, warehouse.OpConnect,
			fmt.Errorf("no project id for profile %q", p.Name))
	}

	client, err := bigquery.NewClient(ctx, project, opts...)
	if err != nil {
		return nil, warehouse.NewQueryError(backend, warehouse.OpConnect, err)
	}

	return &bqStore{
		client: client,
		tables: QualifiedTables(project, p.Dataset, p.LoansTable, p.BorrowersTable),
	}, nil
}

// QualifiedTables prefixes bare table names with project and dataset.
func QualifiedTables(project, dataset, loans, borrowers string) warehouse.Tables {
	qualify := func(table, fallback string) string {
		if table == "" {
			table = fallback
		}
		if strings.Contains(table, ".") || dataset == "" {
			return table
		}
		return project + "." + dataset + "." + table
	}
	return warehouse.Tables{
		Loans:     qualify(loans, warehouse.DefaultLoansTable),
		Borrowers: qualify(borrowers, warehouse.DefaultBorrowersTable),
	}
}

// QueryParameters converts bound params to named BigQuery parameters.
func QueryParameters(stmt warehouse.Statement) []bigquery.QueryParameter {
	params := make([]bigquery.QueryParameter, 0, len(stmt.Params))
	for _, p := range stmt.Params {
		params = append(params, bigquery.QueryParameter{Name: p.Name, Value: p.Value})
	}
	return params
}

func (s *bqStore) LoadLoans(ctx context.Context, q warehouse.Query) ([]store.Row, error) {
	logger := zerolog.Ctx(ctx)

	stmt, err := warehouse.LoanStatement(Dialect, s.tables, q)
	if err != nil {
		return nil, warehouse.NewQueryError(backend, warehouse.OpQuery, err)
	}

	query := s.client.Query(stmt.SQL)
	query.Parameters = QueryParameters(stmt)

	it, err := query.Read(ctx)
	if err != nil {
		return nil, warehouse.NewQueryError(backend, warehouse.OpQuery, err)
	}

	var rows []store.Row
	for {
		var values map[string]bigquery.Value
		err := it.Next(&values)
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, warehouse.NewQueryError(backend, warehouse.OpScan, err)
		}
		rows = append(rows, RowFromValues(values))
	}

	logger.Debug().
		Str("backend", backend).
		Int("rows", len(rows)).
		Uint64("total_rows", it.TotalRows).
		Msg("loaded loan rows")

	return rows, nil
}

// RowFromValues keeps the BigQuery Go types; NUMERIC arrives as *big.Rat and
// DATE as civil.Date, both understood by the row parser.
func RowFromValues(values map[string]bigquery.Value) store.Row {
	row := make(store.Row, len(values))
	for k, v := range values {
		row[strings.ToLower(k)] = v
	}
	return row
}

func (s *bqStore) Close() error {
	return s.client.Close()
}
