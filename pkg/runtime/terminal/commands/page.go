package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/de-tools/loan-atlas/pkg/adapters"
	"github.com/de-tools/loan-atlas/pkg/models/api"
	"github.com/de-tools/loan-atlas/pkg/models/domain"
	"github.com/de-tools/loan-atlas/pkg/services/dashboard"
	"github.com/spf13/cobra"
)

// Pages lists the dashboard pages in menu order.
var Pages = []string{"overview", "risk", "payments", "cohorts"}

// ServiceProvider builds the dashboard service lazily, after flags are parsed.
type ServiceProvider func(ctx context.Context) (dashboard.Service, error)

// PageFlags are the filters shared by every page command.
type PageFlags struct {
	Profile     string
	From        string
	To          string
	Granularity string
	Metric      string
	Cohorts     []string
}

func (f *PageFlags) Register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.Profile, "profile", "", "Warehouse profile name")
	cmd.Flags().StringVar(&f.From, "from", "", "First origination date, YYYY-MM-DD")
	cmd.Flags().StringVar(&f.To, "to", "", "Last origination date, YYYY-MM-DD")
	cmd.Flags().StringVar(&f.Granularity, "granularity", "", "Period granularity: month or quarter")
	cmd.Flags().StringVar(&f.Metric, "metric", "", "Cohort metric: remaining_balance_rate or paid_rate")
	cmd.Flags().StringSliceVar(&f.Cohorts, "cohort", nil, "Cohorts to show, e.g. 2024-03 (default: last three)")

	_ = cmd.MarkFlagRequired("profile")
}

// Request validates the flags into a dashboard request.
func (f *PageFlags) Request() (dashboard.Request, error) {
	req := dashboard.Request{Profile: f.Profile, Cohorts: f.Cohorts}

	var err error
	if req.Range.From, err = parseDate(f.From, "from"); err != nil {
		return dashboard.Request{}, err
	}
	if req.Range.To, err = parseDate(f.To, "to"); err != nil {
		return dashboard.Request{}, err
	}
	if f.Granularity != "" {
		if req.Granularity, err = domain.ParseGranularity(f.Granularity); err != nil {
			return dashboard.Request{}, err
		}
	}
	if f.Metric != "" {
		if req.Metric, err = domain.ParseCohortMetric(f.Metric); err != nil {
			return dashboard.Request{}, err
		}
	}
	return req, nil
}

func parseDate(value, name string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return nil, fmt.Errorf("invalid --%s date %q, expected YYYY-MM-DD", name, value)
	}
	return &t, nil
}

// LoadPage runs the named page pipeline and maps it for presentation.
func LoadPage(
	ctx context.Context,
	svc dashboard.Service,
	page string,
	req dashboard.Request,
	currency string,
) (api.Page, error) {
	switch page {
	case "overview":
		overview, err := svc.Overview(ctx, req)
		if err != nil {
			return api.Page{}, err
		}
		return adapters.MapOverviewDomainToApi(overview, currency), nil
	case "risk":
		risk, err := svc.Risk(ctx, req)
		if err != nil {
			return api.Page{}, err
		}
		return adapters.MapRiskDomainToApi(risk), nil
	case "payments":
		payments, err := svc.Payments(ctx, req)
		if err != nil {
			return api.Page{}, err
		}
		return adapters.MapPaymentsDomainToApi(payments), nil
	case "cohorts":
		cohorts, err := svc.Cohorts(ctx, req)
		if err != nil {
			return api.Page{}, err
		}
		return adapters.MapCohortsDomainToApi(cohorts), nil
	}
	return api.Page{}, fmt.Errorf("unknown page %q, expected one of %v", page, Pages)
}
