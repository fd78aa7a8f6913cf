package store

import "strings"

// Row is one warehouse result row keyed by lower-cased column name. Values are
// whatever the driver produced; nil means SQL NULL.
type Row map[string]any

// NewRow builds a Row from parallel column and value slices.
func NewRow(columns []string, values []any) Row {
	row := make(Row, len(columns))
	for i, col := range columns {
		if i < len(values) {
			row[strings.ToLower(col)] = values[i]
		}
	}
	return row
}

// Columns of the loan query, in select order.
const (
	ColumnID              = "id"
	ColumnStatus          = "status"
	ColumnIndustry        = "industry"
	ColumnGeography       = "geography"
	ColumnOriginationDate = "origination_date"
	ColumnAmount          = "amount"
	ColumnRiskScore       = "risk_score"
	ColumnBorrowerID      = "borrower_id"
	ColumnCompanySize     = "company_size"
	ColumnRiskCategory    = "risk_category"
	ColumnExpectedAmount  = "expected_amount"
	ColumnPaidAmount      = "paid_amount"
	ColumnLastDueDate     = "last_due_date"
	ColumnMaxDaysLate     = "max_days_late"
)
