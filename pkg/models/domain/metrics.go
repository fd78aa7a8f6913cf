package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MetricSnapshot is the status/industry/geography distribution of a set of loans.
type MetricSnapshot struct {
	AsOf                  time.Time
	StatusCounts          map[LoanStatus]int
	StatusAmounts         map[LoanStatus]decimal.Decimal
	IndustryBreakdown     map[string]decimal.Decimal
	GeographyBreakdown    map[string]decimal.Decimal
	CompanySizeBreakdown  map[string]decimal.Decimal
	RiskCategoryBreakdown map[string]decimal.Decimal
	TotalCount            int
	TotalAmount           decimal.Decimal
	AvgRiskScore          float64
}

// Count returns the number of loans in the given status, zero when none were seen.
func (s MetricSnapshot) Count(status LoanStatus) int {
	return s.StatusCounts[status]
}

type PortfolioKPIs struct {
	TotalLoans     int
	TotalBorrowers int
	TotalAmount    decimal.Decimal
	AverageLoan    decimal.Decimal
}

// PeriodValue is one point of a cohort series. A nil Value marks a period
// without observations.
type PeriodValue struct {
	Period time.Time
	Value  *float64
}

// CohortSeries holds one cohort's values ordered by strictly increasing period.
type CohortSeries struct {
	Cohort string
	Start  time.Time
	Points []PeriodValue
	// TotalLoans is the number of loans originated in the cohort.
	TotalLoans int
}

// Latest returns the last non-null point, if any.
func (c CohortSeries) Latest() (PeriodValue, bool) {
	for i := len(c.Points) - 1; i >= 0; i-- {
		if c.Points[i].Value != nil {
			return c.Points[i], true
		}
	}
	return PeriodValue{}, false
}

type DefaultRatePoint struct {
	Period             time.Time
	TotalLoans         int
	DefaultedLoans     int
	TotalValue         decimal.Decimal
	DefaultedValue     decimal.Decimal
	DefaultRate        float64
	DefaultRateByValue float64
	AvgDaysToDefault   float64
}

type PaymentStatusPoint struct {
	// Period is zero for the current (all-time) split.
	Period   time.Time
	Status   LoanStatus
	Count    int
	Amount   decimal.Decimal
	SharePct float64
}
