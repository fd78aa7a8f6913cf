package adapters

import (
	"testing"
	"time"

	"github.com/de-tools/loan-atlas/pkg/models/api"
	"github.com/de-tools/loan-atlas/pkg/models/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f(v float64) *float64 { return &v }

func labels(s api.ChartSeries) []string {
	out := make([]string, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Label
	}
	return out
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "$1,234.56", FormatMoney(decimal.RequireFromString("1234.555"), "USD"))
	assert.Contains(t, FormatMoney(decimal.NewFromInt(10), "BRL"), "R$")
	assert.Equal(t, "12.50 XXX-FAKE", FormatMoney(decimal.RequireFromString("12.5"), "XXX-FAKE"))

	assert.True(t, ValidCurrency("BRL"))
	assert.False(t, ValidCurrency("NOPE"))
}

func TestMapStatusCountsToPie(t *testing.T) {
	chart := MapStatusCountsToPie("status", "Status", map[domain.LoanStatus]int{
		domain.LoanStatusPaid:    4,
		domain.LoanStatusCurrent: 1,
		domain.LoanStatusLate:    0,
	})

	assert.Equal(t, api.ChartKindPie, chart.Kind)
	require.Len(t, chart.Series, 2)
	assert.Equal(t, "Current", chart.Series[0].Name)
	assert.Equal(t, "Paid", chart.Series[1].Name)
	assert.Equal(t, "#2ecc71", chart.Series[1].Color)
	assert.Equal(t, 4.0, *chart.Series[1].Points[0].Value)

	empty := MapStatusCountsToPie("status", "Status", nil)
	assert.NotNil(t, empty.Series)
	assert.Empty(t, empty.Series)
}

func TestMapBreakdownToBar(t *testing.T) {
	breakdown := map[string]decimal.Decimal{
		"retail":  decimal.NewFromInt(300),
		"farming": decimal.NewFromInt(100),
		"energy":  decimal.NewFromInt(300),
	}

	tests := []struct {
		name      string
		ascending bool
		want      []string
	}{
		{name: "ascending", ascending: true, want: []string{"farming", "energy", "retail"}},
		{name: "descending", ascending: false, want: []string{"energy", "retail", "farming"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chart := MapBreakdownToBar("id", "title", "Industry", breakdown, tt.ascending, api.OrientationHorizontal)
			require.Len(t, chart.Series, 1)
			assert.Equal(t, tt.want, labels(chart.Series[0]))
			assert.Equal(t, api.OrientationHorizontal, chart.Orientation)
		})
	}
}

func TestMapCohortsCharts(t *testing.T) {
	series := []domain.CohortSeries{{
		Cohort: "2024-01",
		Start:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Points: []domain.PeriodValue{
			{Period: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Value: f(10)},
			{Period: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)},
			{Period: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), Value: f(30)},
		},
		TotalLoans: 5,
	}}

	lines := MapCohortsToLines("c", "Cohorts", "%", domain.GranularityMonth, series)
	require.Len(t, lines.Series, 1)
	assert.Equal(t, []string{"0", "1", "2"}, labels(lines.Series[0]))
	assert.Nil(t, lines.Series[0].Points[1].Value)
	assert.Equal(t, "Months since origination", lines.XAxis)

	heatmap := MapCohortsToHeatmap("h", "Heatmap", domain.GranularityMonth, series)
	assert.Equal(t, api.ChartKindHeatmap, heatmap.Kind)
	assert.Equal(t, []string{"2024-01", "2024-02", "2024-03"}, labels(heatmap.Series[0]))
}

func TestMapOverviewDomainToApi(t *testing.T) {
	overview := domain.Overview{
		Snapshot: domain.MetricSnapshot{
			AsOf:         time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
			StatusCounts: map[domain.LoanStatus]int{domain.LoanStatusCurrent: 1, domain.LoanStatusDefault: 1},
			IndustryBreakdown: map[string]decimal.Decimal{
				"retail": decimal.NewFromInt(300),
			},
			CompanySizeBreakdown: map[string]decimal.Decimal{
				"SMALL":  decimal.NewFromInt(200),
				"MEDIUM": decimal.NewFromInt(100),
			},
			RiskCategoryBreakdown: map[string]decimal.Decimal{
				"A": decimal.NewFromInt(250),
				"C": decimal.NewFromInt(50),
			},
			TotalCount:   2,
			TotalAmount:  decimal.NewFromInt(300),
			AvgRiskScore: 0.455,
		},
		KPIs: domain.PortfolioKPIs{
			TotalLoans:     2,
			TotalBorrowers: 1,
			TotalAmount:    decimal.NewFromInt(300),
			AverageLoan:    decimal.NewFromInt(150),
		},
	}

	page := MapOverviewDomainToApi(overview, "USD")

	assert.Equal(t, "Portfolio Overview", page.Title)
	require.Len(t, page.KPIs, 5)
	assert.Equal(t, "2", page.KPIs[0].Display)
	assert.Equal(t, "$300.00", page.KPIs[2].Display)
	assert.Equal(t, "$150.00", page.KPIs[3].Display)
	assert.Equal(t, "Avg risk score", page.KPIs[4].Label)
	assert.InDelta(t, 0.455, page.KPIs[4].Value, 1e-9)
	require.Len(t, page.Charts, 5)
	assert.Equal(t, "status_distribution", page.Charts[0].ID)
	assert.Empty(t, page.Notice)

	for _, chart := range page.Charts[3:] {
		assert.Equal(t, api.OrientationHorizontal, chart.Orientation, chart.ID)
	}
	assert.Equal(t, []string{"MEDIUM", "SMALL"}, labels(page.Charts[3].Series[0]))
	assert.Equal(t, []string{"C", "A"}, labels(page.Charts[4].Series[0]))

	empty := MapOverviewDomainToApi(domain.Overview{}, "USD")
	assert.Equal(t, noLoansNotice, empty.Notice)
}

func TestMapRiskDomainToApi(t *testing.T) {
	risk := domain.RiskAnalysis{
		Granularity: domain.GranularityQuarter,
		Trend: []domain.DefaultRatePoint{
			{Period: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), DefaultRate: 0.1, DefaultRateByValue: 0.2},
			{Period: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), DefaultRate: 0.125, DefaultRateByValue: 0.1, DefaultedLoans: 3},
		},
	}

	page := MapRiskDomainToApi(risk)

	require.Len(t, page.KPIs, 4)
	assert.Equal(t, "12.50%", page.KPIs[0].Display)
	assert.Equal(t, "+2.50 pp", page.KPIs[0].Delta)
	assert.Equal(t, "-10.00 pp", page.KPIs[1].Delta)
	assert.Equal(t, "3", page.KPIs[2].Display)

	trend := page.Charts[0]
	require.Len(t, trend.Series, 2)
	assert.Equal(t, []string{"2024-Q1", "2024-Q2"}, labels(trend.Series[0]))
	assert.Equal(t, 12.5, *trend.Series[0].Points[1].Value)

	assert.Equal(t, noLoansNotice, MapRiskDomainToApi(domain.RiskAnalysis{}).Notice)
}

func TestMapPaymentsDomainToApi(t *testing.T) {
	jan := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	payments := domain.PaymentBehavior{
		Granularity: domain.GranularityMonth,
		History: []domain.PaymentStatusPoint{
			{Period: jan, Status: domain.LoanStatusCurrent, Count: 2, SharePct: 40},
			{Period: jan, Status: domain.LoanStatusLate, Count: 1, SharePct: 60},
			{Period: feb, Status: domain.LoanStatusLate, Count: 3, SharePct: 100},
		},
		Current: []domain.PaymentStatusPoint{
			{Status: domain.LoanStatusCurrent, Count: 2, SharePct: 25},
			{Status: domain.LoanStatusLate, Count: 4, SharePct: 75},
		},
	}

	page := MapPaymentsDomainToApi(payments)

	require.Len(t, page.Charts, 3)
	counts := page.Charts[0]
	require.Len(t, counts.Series, 2)
	assert.Equal(t, "Current", counts.Series[0].Name)
	assert.Equal(t, []string{"2024-01", "2024-02"}, labels(counts.Series[0]))
	assert.Equal(t, 0.0, *counts.Series[0].Points[1].Value)
	assert.Equal(t, 3.0, *counts.Series[1].Points[1].Value)

	shares := page.Charts[1]
	assert.Equal(t, 60.0, *shares.Series[1].Points[0].Value)

	require.Len(t, page.KPIs, 2)
	assert.Equal(t, "75.00% of amount", page.KPIs[1].Delta)
	assert.Equal(t, api.ChartKindPie, page.Charts[2].Kind)
}

func TestMapCohortsDomainToApi(t *testing.T) {
	analysis := domain.CohortAnalysis{
		Granularity: domain.GranularityMonth,
		Metric:      domain.CohortMetricPaidRate,
		Available:   []string{"2024-01", "2024-02"},
		Series: []domain.CohortSeries{
			{Cohort: "2024-02", TotalLoans: 2, Points: []domain.PeriodValue{{Value: f(50)}, {}}},
		},
	}

	page := MapCohortsDomainToApi(analysis)

	assert.Equal(t, "cohort_paid_rate", page.Charts[0].ID)
	assert.Equal(t, analysis.Available, page.Cohorts)
	require.Len(t, page.Details, 1)
	assert.Equal(t, 50.0, *page.Details[0].Latest)
	assert.Equal(t, 2, page.Details[0].TotalLoans)
}
