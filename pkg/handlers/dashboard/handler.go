package dashboard

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/de-tools/loan-atlas/pkg/adapters"
	"github.com/de-tools/loan-atlas/pkg/loans"
	"github.com/de-tools/loan-atlas/pkg/models/api"
	"github.com/de-tools/loan-atlas/pkg/models/domain"
	"github.com/de-tools/loan-atlas/pkg/services/config"
	"github.com/de-tools/loan-atlas/pkg/services/dashboard"
	"github.com/de-tools/loan-atlas/pkg/store/warehouse"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

type Handler struct {
	service  dashboard.Service
	currency string
}

func NewHandler(service dashboard.Service, currency string) *Handler {
	return &Handler{
		service:  service,
		currency: currency,
	}
}

func (h *Handler) ListProfiles(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	profiles, err := h.service.ListProfiles(ctx)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response := make([]api.Profile, 0, len(profiles))
	for _, p := range profiles {
		response = append(response, adapters.MapProfileDomainToApi(p))
	}
	h.writeJSON(w, r, http.StatusOK, response)
}

func (h *Handler) GetOverview(w http.ResponseWriter, r *http.Request) {
	req, err := parseRequest(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	overview, err := h.service.Overview(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, adapters.MapOverviewDomainToApi(overview, h.currency))
}

func (h *Handler) GetRisk(w http.ResponseWriter, r *http.Request) {
	req, err := parseRequest(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	risk, err := h.service.Risk(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, adapters.MapRiskDomainToApi(risk))
}

func (h *Handler) GetPayments(w http.ResponseWriter, r *http.Request) {
	req, err := parseRequest(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	payments, err := h.service.Payments(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, adapters.MapPaymentsDomainToApi(payments))
}

func (h *Handler) GetCohorts(w http.ResponseWriter, r *http.Request) {
	req, err := parseRequest(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	cohorts, err := h.service.Cohorts(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, adapters.MapCohortsDomainToApi(cohorts))
}

func parseRequest(r *http.Request) (dashboard.Request, error) {
	query := r.URL.Query()
	req := dashboard.Request{Profile: chi.URLParam(r, "profile")}

	var err error
	if req.Range.From, err = parseDate(query.Get("from"), "from"); err != nil {
		return dashboard.Request{}, err
	}
	if req.Range.To, err = parseDate(query.Get("to"), "to"); err != nil {
		return dashboard.Request{}, err
	}

	if g := query.Get("granularity"); g != "" {
		if req.Granularity, err = domain.ParseGranularity(g); err != nil {
			return dashboard.Request{}, &dashboard.RequestError{Reason: err.Error()}
		}
	}
	if m := query.Get("metric"); m != "" {
		if req.Metric, err = domain.ParseCohortMetric(m); err != nil {
			return dashboard.Request{}, &dashboard.RequestError{Reason: err.Error()}
		}
	}

	for _, value := range query["cohort"] {
		for _, c := range strings.Split(value, ",") {
			if c = strings.TrimSpace(c); c != "" {
				req.Cohorts = append(req.Cohorts, c)
			}
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
		return nil, &dashboard.RequestError{
			Reason: fmt.Sprintf("invalid '%s' date format. Expected format: YYYY-MM-DD", name),
		}
	}
	return &t, nil
}

// StatusFor maps pipeline errors onto HTTP status codes and error kinds.
func StatusFor(err error) (int, string) {
	var (
		schemaErr  *loans.SchemaError
		queryErr   *warehouse.QueryError
		requestErr *dashboard.RequestError
		configErr  *config.ConfigError
	)
	switch {
	case errors.As(err, &requestErr):
		return http.StatusBadRequest, "request"
	case errors.Is(err, config.ErrProfileNotFound):
		return http.StatusNotFound, "not_found"
	case errors.As(err, &schemaErr):
		return http.StatusUnprocessableEntity, "schema"
	case errors.As(err, &queryErr):
		return http.StatusBadGateway, "query"
	case errors.As(err, &configErr), errors.Is(err, warehouse.ErrUnknownDriver):
		return http.StatusInternalServerError, "config"
	}
	return http.StatusInternalServerError, "internal"
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, kind := StatusFor(err)

	event := zerolog.Ctx(r.Context()).Warn()
	if status >= http.StatusInternalServerError {
		event = zerolog.Ctx(r.Context()).Error()
	}
	event.Err(err).
		Int("status", status).
		Str("profile", chi.URLParam(r, "profile")).
		Msg("dashboard request failed")

	h.writeJSON(w, r, status, api.ErrorResponse{Error: err.Error(), Kind: kind})
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zerolog.Ctx(r.Context()).Error().
			Err(err).
			Msg("failed to encode response")
	}
}
