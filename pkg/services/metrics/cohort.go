package metrics

import (
	"sort"
	"time"

	"github.com/de-tools/loan-atlas/pkg/models/domain"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// periodValuer reduces the loans of one cohort observed in one period. A nil
// result leaves a gap in the series.
type periodValuer func(observed []domain.LoanRecord) *float64

// BuildCohorts groups records by origination period and tracks the metric over
// the periods of their last due date. Every cohort runs from its own period to
// the latest observed period, and periods without observations stay null.
func BuildCohorts(
	records []domain.LoanRecord,
	g domain.Granularity,
	metric domain.CohortMetric,
) []domain.CohortSeries {
	switch metric {
	case domain.CohortMetricPaidRate:
		return cohortSeries(records, g, paidRate, false)
	default:
		return cohortSeries(records, g, remainingBalanceRate, true)
	}
}

// DefaultRateMatrix is the cohort by period default rate, in percent, used for
// the risk heatmap.
func DefaultRateMatrix(records []domain.LoanRecord, g domain.Granularity) []domain.CohortSeries {
	return cohortSeries(records, g, defaultRatePct, false)
}

func cohortSeries(
	records []domain.LoanRecord,
	g domain.Granularity,
	valuer periodValuer,
	runningMax bool,
) []domain.CohortSeries {
	type cohort struct {
		start    time.Time
		loans    map[string]struct{}
		observed map[time.Time][]domain.LoanRecord
	}

	cohorts := map[time.Time]*cohort{}
	var lastPeriod time.Time
	for _, rec := range records {
		start := PeriodStart(rec.OriginationDate, g)
		c, ok := cohorts[start]
		if !ok {
			c = &cohort{
				start:    start,
				loans:    map[string]struct{}{},
				observed: map[time.Time][]domain.LoanRecord{},
			}
			cohorts[start] = c
		}
		c.loans[rec.ID] = struct{}{}

		if rec.LastDueDate == nil {
			continue
		}
		// Due dates before origination count toward the cohort's first period.
		period := PeriodStart(*rec.LastDueDate, g)
		if period.Before(start) {
			period = start
		}
		c.observed[period] = append(c.observed[period], rec)
		if period.After(lastPeriod) {
			lastPeriod = period
		}
	}

	series := make([]domain.CohortSeries, 0, len(cohorts))
	for _, c := range cohorts {
		s := domain.CohortSeries{
			Cohort:     PeriodLabel(c.start, g),
			Start:      c.start,
			TotalLoans: len(c.loans),
		}

		var peak *float64
		for _, period := range periodsBetween(c.start, lastPeriod, g) {
			var value *float64
			if observed, ok := c.observed[period]; ok {
				value = valuer(observed)
			}
			if runningMax && value != nil {
				if peak == nil || *value > *peak {
					v := *value
					peak = &v
				}
				value = peak
			}
			s.Points = append(s.Points, domain.PeriodValue{Period: period, Value: value})
		}
		series = append(series, s)
	}

	sort.Slice(series, func(i, j int) bool {
		return series[i].Start.Before(series[j].Start)
	})
	return series
}

// remainingBalanceRate is the share of the expected amount not yet paid.
func remainingBalanceRate(observed []domain.LoanRecord) *float64 {
	expected, paid := decimal.Zero, decimal.Zero
	for _, rec := range observed {
		expected = expected.Add(rec.ExpectedAmount)
		paid = paid.Add(rec.PaidAmount)
	}
	if expected.IsZero() {
		return nil
	}
	rate := decimal.NewFromInt(1).Sub(paid.Div(expected)).Mul(hundred)
	return roundPct(rate)
}

func paidRate(observed []domain.LoanRecord) *float64 {
	ids, paid := distinctLoans(observed, func(rec domain.LoanRecord) bool { return rec.IsPaid() })
	if ids == 0 {
		return nil
	}
	return ratioPct(paid, ids)
}

func defaultRatePct(observed []domain.LoanRecord) *float64 {
	ids, defaulted := distinctLoans(observed, func(rec domain.LoanRecord) bool { return rec.IsDefault() })
	if ids == 0 {
		return nil
	}
	return ratioPct(defaulted, ids)
}

func distinctLoans(records []domain.LoanRecord, match func(domain.LoanRecord) bool) (total, matched int) {
	all := map[string]struct{}{}
	hits := map[string]struct{}{}
	for _, rec := range records {
		all[rec.ID] = struct{}{}
		if match(rec) {
			hits[rec.ID] = struct{}{}
		}
	}
	return len(all), len(hits)
}

func ratioPct(part, whole int) *float64 {
	return roundPct(decimal.NewFromInt(int64(part)).Mul(hundred).Div(decimal.NewFromInt(int64(whole))))
}

func roundPct(d decimal.Decimal) *float64 {
	v := d.Round(2).InexactFloat64()
	return &v
}
