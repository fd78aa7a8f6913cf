package metrics

import (
	"fmt"
	"time"

	"github.com/de-tools/loan-atlas/pkg/models/domain"
)

// PeriodStart floors t to the first day of its calendar month, or of the
// quarter's first month, read in t's own location. The result is midnight UTC
// so periods from different zones compare equal.
func PeriodStart(t time.Time, g domain.Granularity) time.Time {
	month := t.Month()
	if g == domain.GranularityQuarter {
		month = ((month-1)/3)*3 + 1
	}
	return time.Date(t.Year(), month, 1, 0, 0, 0, 0, time.UTC)
}

// NextPeriod expects p to be a period start.
func NextPeriod(p time.Time, g domain.Granularity) time.Time {
	return p.AddDate(0, g.Months(), 0)
}

// PeriodLabel renders a period start as 2024-03 or 2024-Q1.
func PeriodLabel(p time.Time, g domain.Granularity) string {
	if g == domain.GranularityQuarter {
		return fmt.Sprintf("%d-Q%d", p.Year(), (int(p.Month())-1)/3+1)
	}
	return p.Format("2006-01")
}

// periodsBetween returns every period start from first to last inclusive.
func periodsBetween(first, last time.Time, g domain.Granularity) []time.Time {
	var periods []time.Time
	for p := first; !p.After(last); p = NextPeriod(p, g) {
		periods = append(periods, p)
	}
	return periods
}
