package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solar-proposal/core/engine"
	"solar-proposal/core/output"
	"solar-proposal/core/reference"
	"solar-proposal/core/types"
	"solar-proposal/internal/config"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	provider, err := reference.Default()
	require.NoError(t, err)

	clock := func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) }
	eng, err := engine.New(provider, config.DefaultEngine(), engine.WithClock(clock))
	require.NoError(t, err)

	return NewServer(eng, config.ServerConfig{Mode: "test"}, nil, "test")
}

func do(t *testing.T, s *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func referenceInput() types.CustomerInput {
	return types.CustomerInput{
		RegionID:              "cordoba",
		MonthlyConsumptionKwh: 450,
		Class:                 types.ClassResidential,
		Roof:                  types.RoofTile,
		Orientation:           types.OrientationNorth,
		Tier:                  types.TierStandard,
	}
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/health", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "test", resp.Version)
	assert.NotEmpty(t, resp.ReferenceSnapshot)
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))
}

func TestRequestIDPropagates(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get(requestIDHeader))
}

func TestListRegions(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/api/v1/regions", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var regions []RegionSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &regions))
	assert.Len(t, regions, 17)
}

func TestGetRegion(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/api/v1/regions/CORDOBA", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var region types.Region
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &region))
	assert.Equal(t, "cordoba", region.ID)
	assert.Equal(t, 5.2, region.SolarIrradiance)

	rec = do(t, s, http.MethodGet, "/api/v1/regions/atlantis", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCatalog(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/api/v1/catalog/standard", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var catalog CatalogResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &catalog))
	assert.Equal(t, types.TierStandard, catalog.Tier)
	assert.NotEmpty(t, catalog.Panels)
	assert.NotEmpty(t, catalog.Inverters)
	assert.NotEmpty(t, catalog.SelectionRules)

	rec = do(t, s, http.MethodGet, "/api/v1/catalog/gold", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUtilityRegion(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/api/v1/utilities/EPEC/region", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp UtilityResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "cordoba", resp.RegionID)

	rec = do(t, s, http.MethodGet, "/api/v1/utilities/Acme%20Power/region", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateProposal(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodPost, "/api/v1/proposals", referenceInput())

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var view output.View
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))

	assert.Equal(t, 3.85, view.System.SizeKwp)
	assert.Equal(t, "trina-550", view.System.PanelID)
	assert.Equal(t, 4997.5, view.Financial.TotalInvestmentUSD)
	require.NotNil(t, view.Financial.PaybackYears)
	assert.InDelta(t, 4.5, *view.Financial.PaybackYears, 1.5)
	assert.LessOrEqual(t, view.Production.CoveragePercent, 100.0)
	assert.NotEmpty(t, view.ID)
}

func TestCreateProposalRendered(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/api/v1/proposals?format=markdown", referenceInput())
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/markdown"))
	assert.Contains(t, rec.Body.String(), "## Investment")

	rec = do(t, s, http.MethodPost, "/api/v1/proposals?format=pdf", referenceInput())
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateProposalErrors(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name   string
		mutate func(*types.CustomerInput)
		status int
		typ    string
	}{
		{"zero consumption", func(in *types.CustomerInput) { in.MonthlyConsumptionKwh = 0 }, http.StatusBadRequest, "INVALID_INPUT"},
		{"unknown region", func(in *types.CustomerInput) { in.RegionID = "atlantis" }, http.StatusBadRequest, "INVALID_INPUT"},
		{"no inverter fits", func(in *types.CustomerInput) { in.MonthlyConsumptionKwh = 100 }, http.StatusUnprocessableEntity, "NO_EQUIPMENT_AVAILABLE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := referenceInput()
			tt.mutate(&in)
			rec := do(t, s, http.MethodPost, "/api/v1/proposals", in)

			assert.Equal(t, tt.status, rec.Code)
			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.typ, resp.Error.Type)
			assert.NotEmpty(t, resp.RequestID)
		})
	}
}

func TestCreateProposalMalformedBody(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/proposals", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEstimateConsumption(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/api/v1/consumption/estimate", ConsumptionRequest{
		RegionID:       "cordoba",
		MonthlyBillARS: 110000,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp ConsumptionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.InDelta(t, 450.9, resp.MonthlyConsumptionKwh, 0.05)

	rec = do(t, s, http.MethodPost, "/api/v1/consumption/estimate", ConsumptionRequest{
		RegionID:       "cordoba",
		MonthlyBillARS: 110000,
		Class:          "industrial",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodPost, "/api/v1/consumption/estimate", ConsumptionRequest{
		RegionID:       "atlantis",
		MonthlyBillARS: 110000,
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, statusFor(assert.AnError))
}
