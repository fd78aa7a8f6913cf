// Package dashboard runs the load, validate and compute pipeline behind each
// dashboard page.
package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/de-tools/loan-atlas/pkg/loans"
	"github.com/de-tools/loan-atlas/pkg/models/domain"
	"github.com/de-tools/loan-atlas/pkg/services/config"
	"github.com/de-tools/loan-atlas/pkg/services/metrics"
	"github.com/de-tools/loan-atlas/pkg/store/warehouse"
	"github.com/rs/zerolog"
)

// DefaultCohortCount is how many of the most recent cohorts are shown when
// none are requested.
const DefaultCohortCount = 3

// RequestError is a caller mistake in a page request.
type RequestError struct {
	Reason string
}

func (e *RequestError) Error() string {
	return "invalid request: " + e.Reason
}

// Request selects the profile and filters of one page load. Zero values fall
// back to the service defaults.
type Request struct {
	Profile     string
	Range       domain.DateRange
	Granularity domain.Granularity
	Metric      domain.CohortMetric
	Cohorts     []string
}

type Service interface {
	ListProfiles(ctx context.Context) ([]domain.Profile, error)
	Overview(ctx context.Context, req Request) (domain.Overview, error)
	Risk(ctx context.Context, req Request) (domain.RiskAnalysis, error)
	Payments(ctx context.Context, req Request) (domain.PaymentBehavior, error)
	Cohorts(ctx context.Context, req Request) (domain.CohortAnalysis, error)
}

type Options struct {
	Profiles           config.Registry
	Warehouses         warehouse.Registry
	QueryTimeout       time.Duration
	QueryLimit         int
	DefaultGranularity domain.Granularity
	// Now defaults to time.Now.
	Now func() time.Time
}

type service struct {
	opts Options
}

func NewService(opts Options) Service {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.DefaultGranularity == "" {
		opts.DefaultGranularity = domain.GranularityMonth
	}
	return &service{opts: opts}
}

func (s *service) ListProfiles(ctx context.Context) ([]domain.Profile, error) {
	return s.opts.Profiles.GetProfiles(ctx)
}

func (s *service) Overview(ctx context.Context, req Request) (domain.Overview, error) {
	records, asOf, err := s.load(ctx, req)
	if err != nil {
		return domain.Overview{}, err
	}

	return domain.Overview{
		Snapshot: metrics.Aggregate(asOf, records),
		KPIs:     metrics.ComputeKPIs(records),
	}, nil
}

func (s *service) Risk(ctx context.Context, req Request) (domain.RiskAnalysis, error) {
	g := s.granularity(req)
	records, asOf, err := s.load(ctx, req)
	if err != nil {
		return domain.RiskAnalysis{}, err
	}

	return domain.RiskAnalysis{
		AsOf:        asOf,
		Granularity: g,
		Trend:       metrics.DefaultRateTrend(records, g),
		Matrix:      metrics.DefaultRateMatrix(records, g),
	}, nil
}

func (s *service) Payments(ctx context.Context, req Request) (domain.PaymentBehavior, error) {
	g := s.granularity(req)
	records, asOf, err := s.load(ctx, req)
	if err != nil {
		return domain.PaymentBehavior{}, err
	}

	history, current := metrics.PaymentBehavior(records, g)
	return domain.PaymentBehavior{
		AsOf:        asOf,
		Granularity: g,
		History:     history,
		Current:     current,
	}, nil
}

func (s *service) Cohorts(ctx context.Context, req Request) (domain.CohortAnalysis, error) {
	g := s.granularity(req)
	metric := req.Metric
	if metric == "" {
		metric = domain.CohortMetricRemainingBalance
	}

	records, asOf, err := s.load(ctx, req)
	if err != nil {
		return domain.CohortAnalysis{}, err
	}

	all := metrics.BuildCohorts(records, g, metric)
	available := make([]string, 0, len(all))
	for _, c := range all {
		available = append(available, c.Cohort)
	}

	selected, err := selectCohorts(all, req.Cohorts)
	if err != nil {
		return domain.CohortAnalysis{}, err
	}

	return domain.CohortAnalysis{
		AsOf:        asOf,
		Granularity: g,
		Metric:      metric,
		Available:   available,
		Series:      selected,
	}, nil
}

func (s *service) granularity(req Request) domain.Granularity {
	if req.Granularity != "" {
		return req.Granularity
	}
	return s.opts.DefaultGranularity
}

// selectCohorts keeps the requested cohorts in series order, or the most
// recent ones when none are requested.
func selectCohorts(all []domain.CohortSeries, requested []string) ([]domain.CohortSeries, error) {
	if len(requested) == 0 {
		if len(all) <= DefaultCohortCount {
			return all, nil
		}
		return all[len(all)-DefaultCohortCount:], nil
	}

	wanted := make(map[string]bool, len(requested))
	for _, key := range requested {
		wanted[key] = true
	}

	selected := make([]domain.CohortSeries, 0, len(requested))
	for _, c := range all {
		if wanted[c.Cohort] {
			selected = append(selected, c)
			delete(wanted, c.Cohort)
		}
	}
	for _, key := range requested {
		if wanted[key] {
			return nil, &RequestError{Reason: fmt.Sprintf("unknown cohort %q", key)}
		}
	}
	return selected, nil
}

// load runs one warehouse query for the request and validates every row. The
// store is opened and closed per call; nothing is cached.
func (s *service) load(ctx context.Context, req Request) ([]domain.LoanRecord, time.Time, error) {
	logger := zerolog.Ctx(ctx)

	if r := req.Range; r.From != nil && r.To != nil && r.From.After(*r.To) {
		return nil, time.Time{}, &RequestError{Reason: fmt.Sprintf("from (%s) is after to (%s)",
			r.From.Format(time.DateOnly), r.To.Format(time.DateOnly))}
	}

	profile, err := s.opts.Profiles.GetProfile(ctx, req.Profile)
	if err != nil {
		return nil, time.Time{}, err
	}

	store, err := s.opts.Warehouses.Open(ctx, profile)
	if err != nil {
		return nil, time.Time{}, err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn().Err(err).Str("profile", profile.Name).Msg("failed to close warehouse store")
		}
	}()

	queryCtx := ctx
	if s.opts.QueryTimeout > 0 {
		var cancel context.CancelFunc
		queryCtx, cancel = context.WithTimeout(ctx, s.opts.QueryTimeout)
		defer cancel()
	}

	started := s.opts.Now()
	rows, err := store.LoadLoans(queryCtx, warehouse.Query{
		From:  req.Range.From,
		To:    req.Range.To,
		Limit: s.opts.QueryLimit,
	})
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to load loans for profile %s: %w", profile.Name, err)
	}

	records, err := loans.ParseRows(rows)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("invalid loan data from profile %s: %w", profile.Name, err)
	}

	logger.Info().
		Str("profile", profile.Name).
		Str("driver", string(profile.Driver)).
		Int("records", len(records)).
		Dur("elapsed", s.opts.Now().Sub(started)).
		Msg("loaded loan records")

	return records, started.UTC(), nil
}
