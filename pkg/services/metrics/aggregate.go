package metrics

import (
	"strings"
	"time"

	"github.com/de-tools/loan-atlas/pkg/models/domain"
	"github.com/shopspring/decimal"
)

const unknownLabel = "Unknown"

// Aggregate groups records by status, industry, geography, company size and
// risk category. It never fails: no records give a zeroed snapshot.
func Aggregate(asOf time.Time, records []domain.LoanRecord) domain.MetricSnapshot {
	snap := domain.MetricSnapshot{
		AsOf:                  asOf,
		StatusCounts:          map[domain.LoanStatus]int{},
		StatusAmounts:         map[domain.LoanStatus]decimal.Decimal{},
		IndustryBreakdown:     map[string]decimal.Decimal{},
		GeographyBreakdown:    map[string]decimal.Decimal{},
		CompanySizeBreakdown:  map[string]decimal.Decimal{},
		RiskCategoryBreakdown: map[string]decimal.Decimal{},
		TotalAmount:           decimal.Zero,
	}

	var riskSum float64
	for _, rec := range records {
		snap.StatusCounts[rec.Status]++
		snap.StatusAmounts[rec.Status] = snap.StatusAmounts[rec.Status].Add(rec.Amount)

		addAmount(snap.IndustryBreakdown, rec.Industry, rec.Amount)
		addAmount(snap.GeographyBreakdown, rec.Geography, rec.Amount)
		addAmount(snap.CompanySizeBreakdown, rec.CompanySize, rec.Amount)
		addAmount(snap.RiskCategoryBreakdown, rec.RiskCategory, rec.Amount)

		snap.TotalCount++
		snap.TotalAmount = snap.TotalAmount.Add(rec.Amount)
		riskSum += rec.RiskScore
	}

	if snap.TotalCount > 0 {
		snap.AvgRiskScore = riskSum / float64(snap.TotalCount)
	}
	return snap
}

// ComputeKPIs returns the portfolio headline numbers. Loans and borrowers are
// counted by distinct id.
func ComputeKPIs(records []domain.LoanRecord) domain.PortfolioKPIs {
	loanIDs := make(map[string]struct{}, len(records))
	borrowers := make(map[string]struct{})
	total := decimal.Zero

	for _, rec := range records {
		loanIDs[rec.ID] = struct{}{}
		if rec.BorrowerID != "" {
			borrowers[rec.BorrowerID] = struct{}{}
		}
		total = total.Add(rec.Amount)
	}

	kpis := domain.PortfolioKPIs{
		TotalLoans:     len(loanIDs),
		TotalBorrowers: len(borrowers),
		TotalAmount:    total,
		AverageLoan:    decimal.Zero,
	}
	if kpis.TotalLoans > 0 {
		kpis.AverageLoan = total.Div(decimal.NewFromInt(int64(kpis.TotalLoans)))
	}
	return kpis
}

func addAmount(m map[string]decimal.Decimal, key string, amount decimal.Decimal) {
	key = strings.TrimSpace(key)
	if key == "" {
		key = unknownLabel
	}
	m[key] = m[key].Add(amount)
}
