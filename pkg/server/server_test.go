package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/de-tools/loan-atlas/pkg/models/api"
	"github.com/de-tools/loan-atlas/pkg/models/domain"
	"github.com/de-tools/loan-atlas/pkg/services/config"
	"github.com/de-tools/loan-atlas/pkg/services/dashboard"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockDashboard struct {
	mock.Mock
}

func (m *mockDashboard) ListProfiles(ctx context.Context) ([]domain.Profile, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Profile), args.Error(1)
}

func (m *mockDashboard) Overview(ctx context.Context, req dashboard.Request) (domain.Overview, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(domain.Overview), args.Error(1)
}

func (m *mockDashboard) Risk(ctx context.Context, req dashboard.Request) (domain.RiskAnalysis, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(domain.RiskAnalysis), args.Error(1)
}

func (m *mockDashboard) Payments(ctx context.Context, req dashboard.Request) (domain.PaymentBehavior, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(domain.PaymentBehavior), args.Error(1)
}

func (m *mockDashboard) Cohorts(ctx context.Context, req dashboard.Request) (domain.CohortAnalysis, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(domain.CohortAnalysis), args.Error(1)
}

func TestWebAPI_Endpoints(t *testing.T) {
	logger := zerolog.New(zerolog.NewTestWriter(t))

	mockSvc := new(mockDashboard)
	router := NewRouter(logger, Dependencies{Dashboard: mockSvc, Currency: "USD"})
	testServer := httptest.NewServer(router)
	defer testServer.Close()

	asOf := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name           string
		path           string
		setupMocks     func()
		expectedStatus int
		expected       interface{}
		parseResponse  func([]byte) (interface{}, error)
	}{
		{
			name: "ListProfiles",
			path: "/api/v1/profiles",
			setupMocks: func() {
				mockSvc.On("ListProfiles", mock.Anything).
					Return([]domain.Profile{{Name: "credix", Driver: domain.DriverBigQuery}}, nil)
			},
			expectedStatus: http.StatusOK,
			expected:       []api.Profile{{Name: "credix", Driver: "bigquery"}},
			parseResponse:  unmarshalResponse[[]api.Profile](),
		},
		{
			name: "GetOverview",
			path: "/api/v1/profiles/credix/overview?to=2024-06-30",
			setupMocks: func() {
				mockSvc.On("Overview", mock.Anything, dashboard.Request{
					Profile: "credix",
					Range:   domain.DateRange{To: &to},
				}).Return(domain.Overview{
					Snapshot: domain.MetricSnapshot{
						AsOf:         asOf,
						StatusCounts: map[domain.LoanStatus]int{domain.LoanStatusCurrent: 1, domain.LoanStatusDefault: 1},
						IndustryBreakdown: map[string]decimal.Decimal{
							"retail": decimal.NewFromInt(300),
						},
						TotalCount:  2,
						TotalAmount: decimal.NewFromInt(300),
					},
					KPIs: domain.PortfolioKPIs{
						TotalLoans:     2,
						TotalBorrowers: 2,
						TotalAmount:    decimal.NewFromInt(300),
						AverageLoan:    decimal.NewFromInt(150),
					},
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expected:       []string{"Current", "Default"},
			parseResponse: func(data []byte) (interface{}, error) {
				var page api.Page
				if err := json.Unmarshal(data, &page); err != nil {
					return nil, err
				}
				var names []string
				for _, s := range page.Charts[0].Series {
					names = append(names, s.Name)
				}
				return names, nil
			},
		},
		{
			name:           "GetOverview_InvalidToDate",
			path:           "/api/v1/profiles/credix/overview?to=invalid-date",
			setupMocks:     func() {},
			expectedStatus: http.StatusBadRequest,
			expected: api.ErrorResponse{
				Error: "invalid request: invalid 'to' date format. Expected format: YYYY-MM-DD",
				Kind:  "request",
			},
			parseResponse: unmarshalResponse[api.ErrorResponse](),
		},
		{
			name: "GetRisk_UnknownProfile",
			path: "/api/v1/profiles/nope/risk",
			setupMocks: func() {
				mockSvc.On("Risk", mock.Anything, dashboard.Request{Profile: "nope"}).
					Return(domain.RiskAnalysis{}, config.ErrProfileNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expected:       api.ErrorResponse{Error: "profile not found", Kind: "not_found"},
			parseResponse:  unmarshalResponse[api.ErrorResponse](),
		},
		{
			name:           "UnknownRoute",
			path:           "/api/v1/profiles/credix/unknown",
			setupMocks:     func() {},
			expectedStatus: http.StatusNotFound,
			expected:       "404 page not found\n",
			parseResponse: func(data []byte) (interface{}, error) {
				return string(data), nil
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.setupMocks()
			resp, err := http.Get(testServer.URL + tc.path)
			require.NoError(t, err, "Failed to send request")
			defer resp.Body.Close()

			assert.Equal(t, tc.expectedStatus, resp.StatusCode, "Status code mismatch")

			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err, "Failed to read response body")

			actual, err := tc.parseResponse(body)
			require.NoError(t, err, "Failed to parse response")

			assert.Equal(t, tc.expected, actual)
		})
	}

	mockSvc.AssertExpectations(t)
}

func TestNewWebAPI_DefaultShutdownTimeout(t *testing.T) {
	web := NewWebAPI(zerolog.Nop(), Config{Addr: "127.0.0.1:0"})
	assert.Equal(t, defaultShutdownTimeout, web.shutdownTimeout)
	assert.Equal(t, "127.0.0.1:0", web.server.Addr)
}

func unmarshalResponse[T any]() func([]byte) (interface{}, error) {
	return func(data []byte) (interface{}, error) {
		var response T
		err := json.Unmarshal(data, &response)
		return response, err
	}
}
