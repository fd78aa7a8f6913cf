package adapters

import (
	"fmt"
	"sort"
	"strings"

	"github.com/de-tools/loan-atlas/pkg/models/api"
	"github.com/de-tools/loan-atlas/pkg/models/domain"
	"github.com/de-tools/loan-atlas/pkg/services/metrics"
	"github.com/shopspring/decimal"
)

var statusColors = map[domain.LoanStatus]string{
	domain.LoanStatusCurrent: "#3498db",
	domain.LoanStatusLate:    "#f1c40f",
	domain.LoanStatusDefault: "#e74c3c",
	domain.LoanStatusPaid:    "#2ecc71",
}

// StatusLabel is the display name of a status.
func StatusLabel(s domain.LoanStatus) string {
	name := string(s)
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

func value(v float64) *float64 {
	return &v
}

func decimalValue(d decimal.Decimal) *float64 {
	return value(d.InexactFloat64())
}

// MapStatusCountsToPie keeps the fixed status order and skips statuses with no
// loans.
func MapStatusCountsToPie(id, title string, counts map[domain.LoanStatus]int) api.Chart {
	chart := api.Chart{ID: id, Title: title, Kind: api.ChartKindPie}
	for _, status := range domain.LoanStatuses {
		count, ok := counts[status]
		if !ok || count == 0 {
			continue
		}
		chart.Series = append(chart.Series, api.ChartSeries{
			Name:   StatusLabel(status),
			Color:  statusColors[status],
			Points: []api.ChartPoint{{Label: StatusLabel(status), Value: value(float64(count))}},
		})
	}
	if chart.Series == nil {
		chart.Series = []api.ChartSeries{}
	}
	return chart
}

// MapBreakdownToBar sorts the breakdown by amount. Ties are broken by label so
// the output is stable.
func MapBreakdownToBar(
	id, title, axis string,
	breakdown map[string]decimal.Decimal,
	ascending bool,
	orientation api.Orientation,
) api.Chart {
	labels := make([]string, 0, len(breakdown))
	for label := range breakdown {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool {
		a, b := breakdown[labels[i]], breakdown[labels[j]]
		if a.Equal(b) {
			return labels[i] < labels[j]
		}
		if ascending {
			return a.LessThan(b)
		}
		return a.GreaterThan(b)
	})

	points := make([]api.ChartPoint, 0, len(labels))
	for _, label := range labels {
		points = append(points, api.ChartPoint{Label: label, Value: decimalValue(breakdown[label])})
	}

	return api.Chart{
		ID:          id,
		Title:       title,
		Kind:        api.ChartKindBar,
		Orientation: orientation,
		XAxis:       axis,
		YAxis:       "Amount",
		Series:      []api.ChartSeries{{Name: "Amount", Points: points}},
	}
}

// MapCohortsToLines aligns every cohort on the number of periods since its
// origination. Null values are kept as gaps.
func MapCohortsToLines(id, title, yAxis string, g domain.Granularity, series []domain.CohortSeries) api.Chart {
	chart := api.Chart{
		ID:     id,
		Title:  title,
		Kind:   api.ChartKindLine,
		XAxis:  sinceOriginationAxis(g),
		YAxis:  yAxis,
		Series: make([]api.ChartSeries, 0, len(series)),
	}
	for _, s := range series {
		cs := api.ChartSeries{Name: s.Cohort, Points: make([]api.ChartPoint, 0, len(s.Points))}
		for i, p := range s.Points {
			cs.Points = append(cs.Points, api.ChartPoint{Label: fmt.Sprint(i), Value: p.Value})
		}
		chart.Series = append(chart.Series, cs)
	}
	return chart
}

// MapCohortsToHeatmap has one row per cohort and one cell per calendar period.
func MapCohortsToHeatmap(id, title string, g domain.Granularity, series []domain.CohortSeries) api.Chart {
	chart := api.Chart{
		ID:     id,
		Title:  title,
		Kind:   api.ChartKindHeatmap,
		XAxis:  "Period",
		YAxis:  "Cohort",
		Series: make([]api.ChartSeries, 0, len(series)),
	}
	for _, s := range series {
		cs := api.ChartSeries{Name: s.Cohort, Points: make([]api.ChartPoint, 0, len(s.Points))}
		for _, p := range s.Points {
			cs.Points = append(cs.Points, api.ChartPoint{Label: metrics.PeriodLabel(p.Period, g), Value: p.Value})
		}
		chart.Series = append(chart.Series, cs)
	}
	return chart
}

// MapDefaultRateTrendToLines converts fractions to percentages.
func MapDefaultRateTrendToLines(id, title string, g domain.Granularity, trend []domain.DefaultRatePoint) api.Chart {
	byCount := api.ChartSeries{Name: "Default rate", Color: statusColors[domain.LoanStatusDefault]}
	byValue := api.ChartSeries{Name: "Default rate by value", Color: "#8e44ad"}
	byCount.Points = make([]api.ChartPoint, 0, len(trend))
	byValue.Points = make([]api.ChartPoint, 0, len(trend))
	for _, p := range trend {
		label := metrics.PeriodLabel(p.Period, g)
		byCount.Points = append(byCount.Points, api.ChartPoint{Label: label, Value: pct(p.DefaultRate)})
		byValue.Points = append(byValue.Points, api.ChartPoint{Label: label, Value: pct(p.DefaultRateByValue)})
	}
	return api.Chart{
		ID:     id,
		Title:  title,
		Kind:   api.ChartKindLine,
		XAxis:  "Period",
		YAxis:  "Default rate (%)",
		Series: []api.ChartSeries{byCount, byValue},
	}
}

// MapPaymentHistoryToAreas builds one stacked area per status. Periods where a
// status was not seen are zero, since they are observed periods with no loans
// in that status.
func MapPaymentHistoryToAreas(
	id, title, yAxis string,
	g domain.Granularity,
	history []domain.PaymentStatusPoint,
	pick func(domain.PaymentStatusPoint) float64,
) api.Chart {
	var periods []string
	seen := map[string]bool{}
	cells := map[domain.LoanStatus]map[string]float64{}
	for _, p := range history {
		label := metrics.PeriodLabel(p.Period, g)
		if !seen[label] {
			seen[label] = true
			periods = append(periods, label)
		}
		if cells[p.Status] == nil {
			cells[p.Status] = map[string]float64{}
		}
		cells[p.Status][label] = pick(p)
	}

	chart := api.Chart{
		ID:     id,
		Title:  title,
		Kind:   api.ChartKindArea,
		XAxis:  "Period",
		YAxis:  yAxis,
		Series: []api.ChartSeries{},
	}
	for _, status := range domain.LoanStatuses {
		row, ok := cells[status]
		if !ok {
			continue
		}
		cs := api.ChartSeries{
			Name:   StatusLabel(status),
			Color:  statusColors[status],
			Points: make([]api.ChartPoint, 0, len(periods)),
		}
		for _, label := range periods {
			cs.Points = append(cs.Points, api.ChartPoint{Label: label, Value: value(row[label])})
		}
		chart.Series = append(chart.Series, cs)
	}
	return chart
}

func pct(fraction float64) *float64 {
	return value(decimal.NewFromFloat(fraction * 100).Round(2).InexactFloat64())
}

func sinceOriginationAxis(g domain.Granularity) string {
	if g == domain.GranularityQuarter {
		return "Quarters since origination"
	}
	return "Months since origination"
}
