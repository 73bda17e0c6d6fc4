package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"energy_optimizer/internal/estimator"
	"energy_optimizer/internal/model"
	"energy_optimizer/internal/optimizer"
	"energy_optimizer/internal/store"
	"energy_optimizer/internal/synth"
	"energy_optimizer/internal/ws"
)

func newTestServer() *Server {
	return NewServer(store.New(), optimizer.NewRegistry(), ws.NewHub())
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func createBuilding(t *testing.T, router http.Handler, id string) {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/buildings", createBuildingRequest{
		BuildingID: id,
		Config:     model.DefaultBuildingConfig(),
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestHealth(t *testing.T) {
	rec := doJSON(t, newTestServer().Router(), http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCreateBuilding(t *testing.T) {
	router := newTestServer().Router()

	rec := doJSON(t, router, http.MethodPost, "/buildings", createBuildingRequest{
		Config: model.DefaultBuildingConfig(),
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp createBuildingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.BuildingID)
	assert.Equal(t, model.BuildingCommercial, resp.Config.BuildingType)
}

func TestCreateBuildingInvalidConfig(t *testing.T) {
	cfg := model.DefaultBuildingConfig()
	cfg.FloorArea = -1

	rec := doJSON(t, newTestServer().Router(), http.MethodPost, "/buildings", createBuildingRequest{Config: cfg})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAddRecords(t *testing.T) {
	router := newTestServer().Router()
	createBuilding(t, router, "bldg-1")

	records := synth.Generate(time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), 24, 1)
	rec := doJSON(t, router, http.MethodPost, "/buildings/bldg-1/records", records)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]int
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 24, resp["added"])
}

func TestAddRecordsUnknownBuilding(t *testing.T) {
	rec := doJSON(t, newTestServer().Router(), http.MethodPost, "/buildings/nope/records", []model.EnergyRecord{})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOptimizeAndReport(t *testing.T) {
	router := newTestServer().Router()
	createBuilding(t, router, "bldg-1")

	records := synth.Generate(time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), 168, 42)
	rec := doJSON(t, router, http.MethodPost, "/buildings/bldg-1/records", records)
	require.Equal(t, http.StatusOK, rec.Code)

	// No report before any run.
	rec = doJSON(t, router, http.MethodGet, "/buildings/bldg-1/report", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/buildings/bldg-1/optimize?algorithm=random_forest", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result optimizer.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.NotEmpty(t, result.Predictions)
	assert.Greater(t, result.Metrics.RSquared, 0.0)

	rec = doJSON(t, router, http.MethodGet, "/buildings/bldg-1/report?algorithm=random_forest", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var report model.OptimizationReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Greater(t, report.Summary.TotalConsumptionKWh, 0.0)
}

func TestOptimizeUnknownAlgorithm(t *testing.T) {
	router := newTestServer().Router()
	createBuilding(t, router, "bldg-1")

	rec := doJSON(t, router, http.MethodPost, "/buildings/bldg-1/optimize?algorithm=unknown_algo", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOptimizeInsufficientData(t *testing.T) {
	router := newTestServer().Router()
	createBuilding(t, router, "bldg-1")

	records := synth.Generate(time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), 10, 1)
	rec := doJSON(t, router, http.MethodPost, "/buildings/bldg-1/records", records)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/buildings/bldg-1/optimize", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestOptimizeConflict(t *testing.T) {
	s := newTestServer()
	router := s.Router()
	createBuilding(t, router, "bldg-1")

	// Simulate a run already holding the slot.
	key := jobKey{buildingID: "bldg-1", algorithm: estimator.RandomForest}
	require.True(t, s.acquire(key))
	defer s.release(key)

	rec := doJSON(t, router, http.MethodPost, "/buildings/bldg-1/optimize?algorithm=random_forest", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	// A different algorithm is not blocked by the held slot, it just
	// fails later on missing data.
	rec = doJSON(t, router, http.MethodPost, "/buildings/bldg-1/optimize?algorithm=gradient_boost_a", nil)
	assert.NotEqual(t, http.StatusConflict, rec.Code)
}

func TestModelStoredInRegistry(t *testing.T) {
	s := newTestServer()
	router := s.Router()
	createBuilding(t, router, "bldg-1")

	records := synth.Generate(time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), 168, 42)
	doJSON(t, router, http.MethodPost, "/buildings/bldg-1/records", records)

	rec := doJSON(t, router, http.MethodPost, "/buildings/bldg-1/optimize?algorithm=gradient_boost_b", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	_, ok := s.models.Get(optimizer.ModelKey{
		BuildingID:    "bldg-1",
		Algorithm:     estimator.GradientBoostB,
		SchemaVersion: "v1",
	})
	assert.True(t, ok)
}
