package domain

import "time"

// DateRange bounds the origination dates loaded for a page. Nil ends are open.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

type Overview struct {
	Snapshot MetricSnapshot
	KPIs     PortfolioKPIs
}

type RiskAnalysis struct {
	AsOf        time.Time
	Granularity Granularity
	Trend       []DefaultRatePoint
	Matrix      []CohortSeries
}

// Latest returns the most recent trend point.
func (r RiskAnalysis) Latest() (DefaultRatePoint, bool) {
	if len(r.Trend) == 0 {
		return DefaultRatePoint{}, false
	}
	return r.Trend[len(r.Trend)-1], true
}

type PaymentBehavior struct {
	AsOf        time.Time
	Granularity Granularity
	History     []PaymentStatusPoint
	Current     []PaymentStatusPoint
}

type CohortAnalysis struct {
	AsOf        time.Time
	Granularity Granularity
	Metric      CohortMetric
	// Available lists every cohort key found, Series only the selected ones.
	Available []string
	Series    []CohortSeries
}
