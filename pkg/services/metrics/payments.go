package metrics

import (
	"sort"
	"time"

	"github.com/de-tools/loan-atlas/pkg/models/domain"
	"github.com/shopspring/decimal"
)

// PaymentBehavior splits loans by status. History is bucketed by the period of
// the last due date; current covers every record regardless of dates.
func PaymentBehavior(
	records []domain.LoanRecord,
	g domain.Granularity,
) (history []domain.PaymentStatusPoint, current []domain.PaymentStatusPoint) {
	byPeriod := map[time.Time][]domain.LoanRecord{}
	for _, rec := range records {
		if rec.LastDueDate == nil {
			continue
		}
		period := PeriodStart(*rec.LastDueDate, g)
		byPeriod[period] = append(byPeriod[period], rec)
	}

	periods := make([]time.Time, 0, len(byPeriod))
	for p := range byPeriod {
		periods = append(periods, p)
	}
	sort.Slice(periods, func(i, j int) bool { return periods[i].Before(periods[j]) })

	history = make([]domain.PaymentStatusPoint, 0)
	for _, p := range periods {
		history = append(history, statusSplit(p, byPeriod[p])...)
	}
	return history, statusSplit(time.Time{}, records)
}

func statusSplit(period time.Time, records []domain.LoanRecord) []domain.PaymentStatusPoint {
	counts := map[domain.LoanStatus]int{}
	amounts := map[domain.LoanStatus]decimal.Decimal{}
	total := decimal.Zero
	for _, rec := range records {
		counts[rec.Status]++
		amounts[rec.Status] = amounts[rec.Status].Add(rec.Amount)
		total = total.Add(rec.Amount)
	}

	points := make([]domain.PaymentStatusPoint, 0, len(counts))
	for _, status := range domain.LoanStatuses {
		count, ok := counts[status]
		if !ok {
			continue
		}
		p := domain.PaymentStatusPoint{
			Period: period,
			Status: status,
			Count:  count,
			Amount: amounts[status],
		}
		if !total.IsZero() {
			p.SharePct = amounts[status].Mul(hundred).Div(total).Round(2).InexactFloat64()
		}
		points = append(points, p)
	}
	return points
}
