package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"credit-simulator/domain"
	"credit-simulator/repository"
	"credit-simulator/service"
)

func newTestRouter(t *testing.T, sim Simulator, health repository.Pinger, limiter *RateLimiter) http.Handler {
	t.Helper()
	logger, _ := logtest.NewNullLogger()
	return NewRouter(RouterDeps{Simulator: sim, Health: health, Limiter: limiter, Logger: logger})
}

func newEngine() (*service.SimulationService, *repository.MemoryCache) {
	logger, _ := logtest.NewNullLogger()
	cache := repository.NewMemoryCache()
	return service.NewSimulationService(cache, service.NewStrategyResolver(), logger), cache
}

func postSimulation(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/simulations", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var body errorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestStartSimulation_OK(t *testing.T) {
	engine, cache := newEngine()
	h := newTestRouter(t, engine, nil, nil)

	w := postSimulation(t, h, `{"capital": 100000, "duration": 360, "annualIncome": 28000, "creditType": "Fixed"}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var result domain.SimulationResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.True(t, result.FixedAnnualRate.Equal(decimal.RequireFromString("2.5")))
	assert.Len(t, result.DepreciationTableLines, 360)
	assert.Equal(t, 1, cache.Len())

	_, found, err := cache.Get(context.Background(), "Simulation_100000_28000_360")
	require.NoError(t, err)
	assert.True(t, found)
}

func TestStartSimulation_AcceptsQuotedDecimals(t *testing.T) {
	engine, _ := newEngine()
	h := newTestRouter(t, engine, nil, nil)

	w := postSimulation(t, h, `{"capital": "100000.00", "duration": 180, "annualIncome": "28000", "creditType": "Fixed"}`)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestStartSimulation_MethodNotAllowed(t *testing.T) {
	engine, _ := newEngine()
	h := newTestRouter(t, engine, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/simulations", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestStartSimulation_BadJSON(t *testing.T) {
	engine, _ := newEngine()
	h := newTestRouter(t, engine, nil, nil)

	w := postSimulation(t, h, `{invalid-json}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_body", decodeError(t, w).Code)
}

func TestStartSimulation_MissingFields(t *testing.T) {
	engine, _ := newEngine()
	h := newTestRouter(t, engine, nil, nil)

	w := postSimulation(t, h, `{}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeError(t, w)
	assert.Equal(t, "invalid_request", body.Code)
	assert.ElementsMatch(t, []string{
		"capital is required",
		"duration is required",
		"annualIncome is required",
		"creditType is required",
	}, body.Fields)
}

func TestStartSimulation_NonPositiveDuration(t *testing.T) {
	engine, _ := newEngine()
	h := newTestRouter(t, engine, nil, nil)

	w := postSimulation(t, h, `{"capital": 100000, "duration": -5, "annualIncome": 28000, "creditType": "Fixed"}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []string{"duration must be greater than 0"}, decodeError(t, w).Fields)
}

func TestStartSimulation_ZeroIncomeIsAccepted(t *testing.T) {
	engine, _ := newEngine()
	h := newTestRouter(t, engine, nil, nil)

	w := postSimulation(t, h, `{"capital": 100000, "duration": 240, "annualIncome": 0, "creditType": "Fixed"}`)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestStartSimulation_BusinessValidation(t *testing.T) {
	engine, cache := newEngine()
	h := newTestRouter(t, engine, nil, nil)

	w := postSimulation(t, h, `{"capital": 15000, "duration": 400, "annualIncome": 60000, "creditType": "Fixed"}`)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	body := decodeError(t, w)
	assert.Equal(t, "validation_failed", body.Code)
	assert.Equal(t,
		"The capital must be between 20,000€ and 310,000€. "+
			"The duration must be between 180 and 360 months. "+
			"The income must be between 0€ and 53,900€ per year.",
		body.Error)
	assert.Len(t, body.Fields, 3)
	assert.Equal(t, 0, cache.Len())
}

func TestStartSimulation_UnsupportedCreditType(t *testing.T) {
	engine, _ := newEngine()
	h := newTestRouter(t, engine, nil, nil)

	w := postSimulation(t, h, `{"capital": 100000, "duration": 360, "annualIncome": 28000, "creditType": "Variable"}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "unsupported_credit_type", decodeError(t, w).Code)
}

type failingSimulator struct{ err error }

func (f failingSimulator) Handle(context.Context, domain.SimulationRequest) (domain.SimulationResult, error) {
	return domain.SimulationResult{}, f.err
}

func TestStartSimulation_InternalError(t *testing.T) {
	h := newTestRouter(t, failingSimulator{err: errors.New("redis down")}, nil, nil)

	w := postSimulation(t, h, `{"capital": 100000, "duration": 360, "annualIncome": 28000, "creditType": "Fixed"}`)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	body := decodeError(t, w)
	assert.Equal(t, "internal", body.Code)
	assert.NotContains(t, body.Error, "redis")
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

func TestHealth(t *testing.T) {
	engine, _ := newEngine()

	tests := []struct {
		name   string
		pinger repository.Pinger
		status int
	}{
		{"no pinger", nil, http.StatusOK},
		{"healthy cache", stubPinger{}, http.StatusOK},
		{"cache down", stubPinger{err: errors.New("dial tcp: refused")}, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestRouter(t, engine, tt.pinger, nil)
			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestRouter_RateLimitsSimulations(t *testing.T) {
	engine, _ := newEngine()
	limiter := newRateLimiter(2, time.Minute, time.Now)
	h := newTestRouter(t, engine, nil, limiter)
	body := `{"capital": 100000, "duration": 360, "annualIncome": 28000, "creditType": "Fixed"}`

	assert.Equal(t, http.StatusOK, postSimulation(t, h, body).Code)
	assert.Equal(t, http.StatusOK, postSimulation(t, h, body).Code)

	w := postSimulation(t, h, body)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	// health stays reachable
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	hw := httptest.NewRecorder()
	h.ServeHTTP(hw, req)
	assert.Equal(t, http.StatusOK, hw.Code)
}
