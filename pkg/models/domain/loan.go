package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type LoanStatus string

const (
	LoanStatusCurrent LoanStatus = "current"
	LoanStatusLate    LoanStatus = "late"
	LoanStatusDefault LoanStatus = "default"
	LoanStatusPaid    LoanStatus = "paid"
)

// LoanStatuses lists every status in display order.
var LoanStatuses = []LoanStatus{
	LoanStatusCurrent,
	LoanStatusLate,
	LoanStatusDefault,
	LoanStatusPaid,
}

// LoanRecord is one validated loan row. It is never mutated after parsing.
type LoanRecord struct {
	ID              string
	Status          LoanStatus
	Industry        string
	Geography       string
	OriginationDate time.Time
	Amount          decimal.Decimal
	RiskScore       float64

	BorrowerID     string
	CompanySize    string
	RiskCategory   string
	ExpectedAmount decimal.Decimal
	PaidAmount     decimal.Decimal
	LastDueDate    *time.Time
	MaxDaysLate    int
}

func (r LoanRecord) IsPaid() bool {
	return r.Status == LoanStatusPaid
}

func (r LoanRecord) IsDefault() bool {
	return r.Status == LoanStatusDefault
}
