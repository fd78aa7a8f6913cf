package domain

import (
	"fmt"
	"strings"
)

type Granularity string

const (
	GranularityMonth   Granularity = "month"
	GranularityQuarter Granularity = "quarter"
)

func ParseGranularity(s string) (Granularity, error) {
	switch Granularity(strings.ToLower(strings.TrimSpace(s))) {
	case GranularityMonth:
		return GranularityMonth, nil
	case GranularityQuarter:
		return GranularityQuarter, nil
	}
	return "", fmt.Errorf("unsupported granularity %q, expected month or quarter", s)
}

// Months returns the period length in calendar months.
func (g Granularity) Months() int {
	if g == GranularityQuarter {
		return 3
	}
	return 1
}

type CohortMetric string

const (
	CohortMetricRemainingBalance CohortMetric = "remaining_balance_rate"
	CohortMetricPaidRate         CohortMetric = "paid_rate"
)

func ParseCohortMetric(s string) (CohortMetric, error) {
	switch CohortMetric(strings.ToLower(strings.TrimSpace(s))) {
	case CohortMetricRemainingBalance:
		return CohortMetricRemainingBalance, nil
	case CohortMetricPaidRate:
		return CohortMetricPaidRate, nil
	}
	return "", fmt.Errorf("unsupported cohort metric %q", s)
}
