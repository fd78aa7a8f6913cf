package adapters

import (
	"fmt"

	"github.com/de-tools/loan-atlas/pkg/models/api"
	"github.com/de-tools/loan-atlas/pkg/models/domain"
	"github.com/shopspring/decimal"
)

const noLoansNotice = "No loans found for the selected filters."

func MapOverviewDomainToApi(o domain.Overview, currency string) api.Page {
	snap := o.Snapshot
	page := api.Page{
		Title: "Portfolio Overview",
		AsOf:  snap.AsOf,
		KPIs: []api.KPI{
			countKPI("Total loans", o.KPIs.TotalLoans),
			countKPI("Total borrowers", o.KPIs.TotalBorrowers),
			moneyKPI("Total amount", o.KPIs.TotalAmount, currency),
			moneyKPI("Average loan", o.KPIs.AverageLoan, currency),
			{
				Label:   "Avg risk score",
				Value:   snap.AvgRiskScore,
				Display: fmt.Sprintf("%.2f", snap.AvgRiskScore),
			},
		},
		Charts: []api.Chart{
			MapStatusCountsToPie("status_distribution", "Loan status distribution", snap.StatusCounts),
			MapBreakdownToBar("amount_by_industry", "Amount by industry", "Industry",
				snap.IndustryBreakdown, true, api.OrientationHorizontal),
			MapBreakdownToBar("amount_by_geography", "Amount by state", "State",
				snap.GeographyBreakdown, false, api.OrientationVertical),
			MapBreakdownToBar("amount_by_company_size", "Amount by company size", "Company size",
				snap.CompanySizeBreakdown, true, api.OrientationHorizontal),
			MapBreakdownToBar("amount_by_risk_category", "Amount by risk category", "Risk category",
				snap.RiskCategoryBreakdown, true, api.OrientationHorizontal),
		},
	}
	if snap.TotalCount == 0 {
		page.Notice = noLoansNotice
	}
	return page
}

func MapRiskDomainToApi(r domain.RiskAnalysis) api.Page {
	page := api.Page{
		Title: "Risk Analysis",
		AsOf:  r.AsOf,
		KPIs:  []api.KPI{},
		Charts: []api.Chart{
			MapDefaultRateTrendToLines("default_rate_trend", "Default rate trend", r.Granularity, r.Trend),
			MapCohortsToHeatmap("default_rate_heatmap", "Default rate by cohort (%)", r.Granularity, r.Matrix),
		},
	}

	latest, ok := r.Latest()
	if !ok {
		page.Notice = noLoansNotice
		return page
	}

	var previous *domain.DefaultRatePoint
	if n := len(r.Trend); n > 1 {
		previous = &r.Trend[n-2]
	}
	rate := rateKPI("Default rate", latest.DefaultRate)
	byValue := rateKPI("Default rate by value", latest.DefaultRateByValue)
	if previous != nil {
		rate.Delta = pointsDelta(latest.DefaultRate, previous.DefaultRate)
		byValue.Delta = pointsDelta(latest.DefaultRateByValue, previous.DefaultRateByValue)
	}
	page.KPIs = append(page.KPIs,
		rate,
		byValue,
		countKPI("Defaulted loans", latest.DefaultedLoans),
		api.KPI{
			Label:   "Avg days to default",
			Value:   latest.AvgDaysToDefault,
			Display: fmt.Sprintf("%.1f", latest.AvgDaysToDefault),
		},
	)
	return page
}

func MapPaymentsDomainToApi(p domain.PaymentBehavior) api.Page {
	page := api.Page{
		Title: "Payment Behavior",
		AsOf:  p.AsOf,
		KPIs:  make([]api.KPI, 0, len(p.Current)),
		Charts: []api.Chart{
			MapPaymentHistoryToAreas("payment_status_count", "Loans by payment status", "Loans",
				p.Granularity, p.History, func(pt domain.PaymentStatusPoint) float64 { return float64(pt.Count) }),
			MapPaymentHistoryToAreas("payment_status_share", "Share of amount by payment status", "Share (%)",
				p.Granularity, p.History, func(pt domain.PaymentStatusPoint) float64 { return pt.SharePct }),
		},
	}

	counts := make(map[domain.LoanStatus]int, len(p.Current))
	for _, pt := range p.Current {
		counts[pt.Status] = pt.Count
		page.KPIs = append(page.KPIs, api.KPI{
			Label:   StatusLabel(pt.Status),
			Value:   float64(pt.Count),
			Display: fmt.Sprintf("%d", pt.Count),
			Delta:   fmt.Sprintf("%.2f%% of amount", pt.SharePct),
		})
	}
	page.Charts = append(page.Charts, MapStatusCountsToPie("current_status", "Current payment status", counts))

	if len(p.Current) == 0 {
		page.Notice = noLoansNotice
	}
	return page
}

func MapCohortsDomainToApi(c domain.CohortAnalysis) api.Page {
	title, axis := "Remaining balance rate by cohort", "Remaining balance (%)"
	if c.Metric == domain.CohortMetricPaidRate {
		title, axis = "Paid rate by cohort", "Paid loans (%)"
	}

	page := api.Page{
		Title:   "Cohort Analysis",
		AsOf:    c.AsOf,
		KPIs:    []api.KPI{},
		Charts:  []api.Chart{MapCohortsToLines("cohort_"+string(c.Metric), title, axis, c.Granularity, c.Series)},
		Cohorts: c.Available,
		Details: make([]api.CohortDetail, 0, len(c.Series)),
	}
	for _, s := range c.Series {
		detail := api.CohortDetail{Cohort: s.Cohort, TotalLoans: s.TotalLoans}
		if latest, ok := s.Latest(); ok {
			detail.Latest = latest.Value
		}
		page.Details = append(page.Details, detail)
	}
	if len(c.Available) == 0 {
		page.Notice = noLoansNotice
	}
	return page
}

func MapProfileDomainToApi(p domain.Profile) api.Profile {
	return api.Profile{Name: p.Name, Driver: string(p.Driver)}
}

func countKPI(label string, n int) api.KPI {
	return api.KPI{Label: label, Value: float64(n), Display: fmt.Sprintf("%d", n)}
}

func moneyKPI(label string, amount decimal.Decimal, currency string) api.KPI {
	return api.KPI{Label: label, Value: amount.InexactFloat64(), Display: FormatMoney(amount, currency)}
}

func rateKPI(label string, fraction float64) api.KPI {
	v := *pct(fraction)
	return api.KPI{Label: label, Value: v, Display: fmt.Sprintf("%.2f%%", v)}
}

func pointsDelta(current, previous float64) string {
	return fmt.Sprintf("%+.2f pp", *pct(current)-*pct(previous))
}
