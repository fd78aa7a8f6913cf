// Package loans turns raw warehouse rows into validated loan records.
package loans

import (
	"errors"
	"fmt"
	"strings"

	"github.com/de-tools/loan-atlas/pkg/models/domain"
	"github.com/de-tools/loan-atlas/pkg/models/store"
)

// Row is a single warehouse row keyed by column name.
type Row = store.Row

var statusAliases = map[string]domain.LoanStatus{
	"current":                domain.LoanStatusCurrent,
	"active":                 domain.LoanStatusCurrent,
	"on_time":                domain.LoanStatusCurrent,
	"late":                   domain.LoanStatusLate,
	"overdue":                domain.LoanStatusLate,
	"has_overdue":            domain.LoanStatusLate,
	"default":                domain.LoanStatusDefault,
	"defaulted":              domain.LoanStatusDefault,
	"paid":                   domain.LoanStatusPaid,
	"fully_paid_on_time":     domain.LoanStatusPaid,
	"fully_paid_with_delays": domain.LoanStatusPaid,
}

// ParseStatus maps a warehouse status label onto a loan status.
func ParseStatus(s string) (domain.LoanStatus, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if status, ok := statusAliases[key]; ok {
		return status, nil
	}
	return "", fmt.Errorf("unknown loan status %q", s)
}

// ParseRows validates every row. It stops at the first malformed row.
func ParseRows(rows []Row) ([]domain.LoanRecord, error) {
	records := make([]domain.LoanRecord, 0, len(rows))
	for i, row := range rows {
		rec, err := ParseRow(row)
		if err != nil {
			var schemaErr *SchemaError
			if errors.As(err, &schemaErr) {
				schemaErr.Row = i
			}
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// ParseRow validates a single row. Failures are always *SchemaError.
func ParseRow(row Row) (domain.LoanRecord, error) {
	var (
		rec domain.LoanRecord
		err error
	)

	if rec.ID, err = required(row, store.ColumnID, "text", toText); err != nil {
		return domain.LoanRecord{}, err
	}
	if strings.TrimSpace(rec.ID) == "" {
		return domain.LoanRecord{}, invalid(store.ColumnID, errors.New("empty id"))
	}

	statusText, err := required(row, store.ColumnStatus, "text", toText)
	if err != nil {
		return domain.LoanRecord{}, err
	}
	if rec.Status, err = ParseStatus(statusText); err != nil {
		return domain.LoanRecord{}, invalid(store.ColumnStatus, err)
	}

	if rec.Industry, err = required(row, store.ColumnIndustry, "text", toText); err != nil {
		return domain.LoanRecord{}, err
	}
	if rec.Geography, err = required(row, store.ColumnGeography, "text", toText); err != nil {
		return domain.LoanRecord{}, err
	}
	if rec.OriginationDate, err = required(row, store.ColumnOriginationDate, "date", toDate); err != nil {
		return domain.LoanRecord{}, err
	}
	if rec.Amount, err = required(row, store.ColumnAmount, "number", toDecimal); err != nil {
		return domain.LoanRecord{}, err
	}
	if rec.Amount.IsNegative() {
		return domain.LoanRecord{}, invalid(store.ColumnAmount, fmt.Errorf("negative amount %s", rec.Amount))
	}
	if rec.RiskScore, err = required(row, store.ColumnRiskScore, "number", toFloat); err != nil {
		return domain.LoanRecord{}, err
	}

	if rec.BorrowerID, _, err = optional(row, store.ColumnBorrowerID, "text", toText); err != nil {
		return domain.LoanRecord{}, err
	}
	if rec.CompanySize, _, err = optional(row, store.ColumnCompanySize, "text", toText); err != nil {
		return domain.LoanRecord{}, err
	}
	if rec.RiskCategory, _, err = optional(row, store.ColumnRiskCategory, "text", toText); err != nil {
		return domain.LoanRecord{}, err
	}
	if rec.MaxDaysLate, _, err = optional(row, store.ColumnMaxDaysLate, "integer", toInt); err != nil {
		return domain.LoanRecord{}, err
	}

	var found bool
	if rec.ExpectedAmount, found, err = optional(row, store.ColumnExpectedAmount, "number", toDecimal); err != nil {
		return domain.LoanRecord{}, err
	}
	if !found {
		rec.ExpectedAmount = rec.Amount
	}
	if rec.PaidAmount, _, err = optional(row, store.ColumnPaidAmount, "number", toDecimal); err != nil {
		return domain.LoanRecord{}, err
	}

	lastDue, found, err := optional(row, store.ColumnLastDueDate, "date", toDate)
	if err != nil {
		return domain.LoanRecord{}, err
	}
	if found {
		rec.LastDueDate = &lastDue
	}

	return rec, nil
}

func required[T any](row Row, column, want string, conv func(any) (T, error)) (T, error) {
	v, found, err := optional(row, column, want, conv)
	if err != nil {
		return v, err
	}
	if !found {
		return v, missing(column)
	}
	return v, nil
}

func optional[T any](row Row, column, want string, conv func(any) (T, error)) (T, bool, error) {
	var zero T
	v, ok := row[column]
	if !ok || v == nil {
		return zero, false, nil
	}
	out, err := conv(v)
	if errors.Is(err, errWrongType) {
		return zero, false, wrongType(column, v, want)
	}
	if err != nil {
		return zero, false, invalid(column, err)
	}
	return out, true, nil
}
