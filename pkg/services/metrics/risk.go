package metrics

import (
	"sort"
	"time"

	"github.com/de-tools/loan-atlas/pkg/models/domain"
	"github.com/shopspring/decimal"
)

// DefaultRateTrend computes default rates per period of last due date. Rates
// are fractions in [0, 1]; division by zero yields 0. Loans without a due date
// are not observed yet and are skipped.
func DefaultRateTrend(records []domain.LoanRecord, g domain.Granularity) []domain.DefaultRatePoint {
	type bucket struct {
		loans          map[string]struct{}
		defaulted      map[string]struct{}
		totalValue     decimal.Decimal
		defaultedValue decimal.Decimal
		daysLateSum    int
		defaultRecords int
	}

	buckets := map[time.Time]*bucket{}
	for _, rec := range records {
		if rec.LastDueDate == nil {
			continue
		}
		period := PeriodStart(*rec.LastDueDate, g)
		b, ok := buckets[period]
		if !ok {
			b = &bucket{
				loans:          map[string]struct{}{},
				defaulted:      map[string]struct{}{},
				totalValue:     decimal.Zero,
				defaultedValue: decimal.Zero,
			}
			buckets[period] = b
		}

		b.loans[rec.ID] = struct{}{}
		b.totalValue = b.totalValue.Add(rec.ExpectedAmount)
		if rec.IsDefault() {
			b.defaulted[rec.ID] = struct{}{}
			b.defaultedValue = b.defaultedValue.Add(rec.ExpectedAmount)
			b.daysLateSum += rec.MaxDaysLate
			b.defaultRecords++
		}
	}

	points := make([]domain.DefaultRatePoint, 0, len(buckets))
	for period, b := range buckets {
		p := domain.DefaultRatePoint{
			Period:         period,
			TotalLoans:     len(b.loans),
			DefaultedLoans: len(b.defaulted),
			TotalValue:     b.totalValue,
			DefaultedValue: b.defaultedValue,
		}
		if p.TotalLoans > 0 {
			p.DefaultRate = float64(p.DefaultedLoans) / float64(p.TotalLoans)
		}
		if !b.totalValue.IsZero() {
			p.DefaultRateByValue = b.defaultedValue.Div(b.totalValue).InexactFloat64()
		}
		if b.defaultRecords > 0 {
			p.AvgDaysToDefault = float64(b.daysLateSum) / float64(b.defaultRecords)
		}
		points = append(points, p)
	}

	sort.Slice(points, func(i, j int) bool {
		return points[i].Period.Before(points[j].Period)
	})
	return points
}
