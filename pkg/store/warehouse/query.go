package warehouse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/de-tools/loan-atlas/pkg/models/store"
)

const (
	DefaultLoansTable     = "fact_loan_performance"
	DefaultBorrowersTable = "dim_borrower"
)

var (
	plainTable  = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_$]*(\.[A-Za-z_][A-Za-z0-9_$]*){0,2}$`)
	quotedTable = regexp.MustCompile(`^[A-Za-z0-9_-]+(\.[A-Za-z0-9_-]+){0,2}$`)
)

// Dialect is what differs between warehouses in the loan query.
type Dialect struct {
	Name string
	// Placeholder renders the n-th (1-based) bind parameter called name.
	Placeholder func(name string, n int) string
	// QuoteTable returns the table reference or an error for unsafe names.
	QuoteTable func(table string) (string, error)
	// DateValue converts a bound date to the driver's parameter type.
	DateValue func(t time.Time) any
	// IssueDate wraps the origination column before it is compared with a
	// bound date. Nil compares the column as is.
	IssueDate func(column string) string
}

func QuestionMark(string, int) string { return "?" }

func DollarN(_ string, n int) string { return "$" + strconv.Itoa(n) }

func AtName(name string, _ int) string { return "@" + name }

// PlainTable accepts up to three dot separated SQL identifiers.
func PlainTable(table string) (string, error) {
	if !plainTable.MatchString(table) {
		return "", fmt.Errorf("invalid table name %q", table)
	}
	return table, nil
}

// BacktickTable also accepts dashes, as in BigQuery project ids.
func BacktickTable(table string) (string, error) {
	if !quotedTable.MatchString(table) {
		return "", fmt.Errorf("invalid table name %q", table)
	}
	return "`" + table + "`", nil
}

func timeValue(t time.Time) any { return t }

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

var (
	Standard = Dialect{Name: "standard", Placeholder: QuestionMark, QuoteTable: PlainTable, DateValue: timeValue}
	Postgres = Dialect{Name: "postgres", Placeholder: DollarN, QuoteTable: PlainTable, DateValue: timeValue}
)

// Tables names the loan performance fact and borrower dimension.
type Tables struct {
	Loans     string
	Borrowers string
}

func (t Tables) withDefaults() Tables {
	if t.Loans == "" {
		t.Loans = DefaultLoansTable
	}
	if t.Borrowers == "" {
		t.Borrowers = DefaultBorrowersTable
	}
	return t
}

// Param is a bound value with the name used by named-parameter dialects.
type Param struct {
	Name  string
	Value any
}

type Statement struct {
	SQL    string
	Params []Param
}

// Args returns the parameter values in bind order.
func (s Statement) Args() []any {
	args := make([]any, len(s.Params))
	for i, p := range s.Params {
		args[i] = p.Value
	}
	return args
}

var loanColumns = []struct{ expr, alias string }{
	{"lp.asset_id", store.ColumnID},
	{"lp.payment_status", store.ColumnStatus},
	{"b.main_cnae", store.ColumnIndustry},
	{"b.uf", store.ColumnGeography},
	{"lp.first_issue_date", store.ColumnOriginationDate},
	{"lp.total_original_amount", store.ColumnAmount},
	{"lp.risk_score", store.ColumnRiskScore},
	{"b.buyer_tax_id", store.ColumnBorrowerID},
	{"b.company_size", store.ColumnCompanySize},
	{"b.risk_category", store.ColumnRiskCategory},
	{"lp.total_expected_amount", store.ColumnExpectedAmount},
	{"lp.total_paid_amount", store.ColumnPaidAmount},
	{"lp.last_due_date", store.ColumnLastDueDate},
	{"lp.max_days_late", store.ColumnMaxDaysLate},
}

// LoanStatement builds the loan query for a dialect. Query bounds are always
// bound as parameters.
func LoanStatement(d Dialect, tables Tables, q Query) (Statement, error) {
	tables = tables.withDefaults()
	loansTable, err := d.QuoteTable(tables.Loans)
	if err != nil {
		return Statement{}, err
	}
	borrowersTable, err := d.QuoteTable(tables.Borrowers)
	if err != nil {
		return Statement{}, err
	}
	if q.Limit < 0 {
		return Statement{}, fmt.Errorf("invalid limit %d", q.Limit)
	}

	selected := make([]string, len(loanColumns))
	for i, c := range loanColumns {
		selected[i] = fmt.Sprintf("%s AS %s", c.expr, c.alias)
	}

	var b strings.Builder
	b.WriteString("SELECT\n\t")
	b.WriteString(strings.Join(selected, ",\n\t"))
	fmt.Fprintf(&b, "\nFROM %s lp\nJOIN %s b ON lp.borrower_key = b.borrower_key", loansTable, borrowersTable)

	var stmt Statement
	bind := func(name string, v any) string {
		stmt.Params = append(stmt.Params, Param{Name: name, Value: v})
		return d.Placeholder(name, len(stmt.Params))
	}

	issued := "lp.first_issue_date"
	if d.IssueDate != nil {
		issued = d.IssueDate(issued)
	}

	// To is an inclusive day; it binds as the exclusive start of the next day
	// so loans issued later that day still match timestamp columns.
	var where []string
	if q.From != nil {
		where = append(where, issued+" >= "+bind("from", d.DateValue(dayStart(*q.From))))
	}
	if q.To != nil {
		where = append(where, issued+" < "+bind("to", d.DateValue(dayStart(*q.To).AddDate(0, 0, 1))))
	}
	if len(where) > 0 {
		b.WriteString("\nWHERE " + strings.Join(where, " AND "))
	}
	b.WriteString("\nORDER BY lp.first_issue_date, lp.asset_id")
	if q.Limit > 0 {
		b.WriteString("\nLIMIT " + bind("limit", int64(q.Limit)))
	}

	stmt.SQL = b.String()
	return stmt, nil
}
