package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"gopwr/adapters/stats/ncf"
	"gopwr/app"
	"gopwr/internal/config"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := app.NewPowerService(ncf.NewEngine())
	return NewRouter(NewPowerHandler(svc, config.DefaultsConfig{Alpha: 0.05, SearchCeiling: 100}))
}

func post(t *testing.T, router *gin.Engine, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	return rec, decoded
}

func result(t *testing.T, resp map[string]interface{}) map[string]interface{} {
	t.Helper()
	res, ok := resp["result"].(map[string]interface{})
	require.True(t, ok, "missing result in %v", resp)
	return res
}

func TestOneWayPower_Endpoint(t *testing.T) {
	router := newTestRouter()

	rec, resp := post(t, router, "/api/v1/power/oneway", map[string]interface{}{
		"k": 5, "n": 15, "delta": 1.5, "sigma": 1,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	_, err := uuid.Parse(resp["calculation_id"].(string))
	assert.NoError(t, err)
	assert.InDelta(t, 0.90740261750501, result(t, resp)["power"].(float64), 1e-9)
	assert.NotContains(t, resp, "report")
}

func TestTwoWayPower_EndpointWithReport(t *testing.T) {
	router := newTestRouter()

	rec, resp := post(t, router, "/api/v1/power/twoway?format=text", map[string]interface{}{
		"a": 3, "b": 3, "alpha": 0.05, "size_a": 4, "size_b": 5, "f_a": 0.8, "f_b": 0.4,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	assert.InDelta(t, 0.6333554, result(t, resp)["power"].(float64), 1e-7)
	assert.Contains(t, resp["report"], "minimum power among two factors")
}

func TestSampleSize_Endpoints(t *testing.T) {
	router := newTestRouter()

	rec, resp := post(t, router, "/api/v1/samplesize/oneway", map[string]interface{}{
		"k": 5, "power": 0.9, "f": 1.5,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 3.0, result(t, resp)["n"])
	assert.Equal(t, false, resp["capped"])

	rec, resp = post(t, router, "/api/v1/samplesize/twoway", map[string]interface{}{
		"a": 3, "b": 3, "power": 0.9, "delta_a": 1, "delta_b": 2, "sigma_a": 2, "sigma_b": 2,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 35.0, result(t, resp)["n"])

	rec, resp = post(t, router, "/api/v1/samplesize/oneway", map[string]interface{}{
		"k": 5, "power": 0.99, "f": 0.01, "ceiling": 5,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 6.0, result(t, resp)["n"])
	assert.Equal(t, true, resp["capped"])
}

func TestCurve_Endpoint(t *testing.T) {
	router := newTestRouter()

	rec, resp := post(t, router, "/api/v1/curve/twoway", map[string]interface{}{
		"a": 3, "b": 3, "f_a": 0.4, "f_b": 0.2, "from": 30, "to": 40, "target_power": 0.9,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	res := result(t, resp)
	assert.Len(t, res["points"], 11)
	assert.Equal(t, 36.0, res["reaching"])
}

func TestCurve_EndpointXLSX(t *testing.T) {
	router := newTestRouter()

	raw, err := json.Marshal(map[string]interface{}{"k": 5, "f": 0.4, "from": 2, "to": 11})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/curve/oneway?format=xlsx", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, xlsxContentType, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "power_curve_oneway.xlsx")

	f, err := excelize.OpenReader(rec.Body)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("PowerCurve")
	require.NoError(t, err)
	require.Len(t, rows, 11)
	assert.Equal(t, []string{"n", "power"}, rows[0])
	assert.Equal(t, "2", rows[1][0])
}

func TestInvalidInput_Returns400(t *testing.T) {
	router := newTestRouter()

	tests := []struct {
		name string
		path string
		body map[string]interface{}
	}{
		{"zero sigma", "/api/v1/power/oneway", map[string]interface{}{"k": 5, "n": 15, "delta": 1.5, "sigma": 0}},
		{"missing effect", "/api/v1/power/oneway", map[string]interface{}{"k": 5, "n": 15}},
		{"alpha out of range", "/api/v1/power/oneway", map[string]interface{}{"k": 5, "n": 15, "f": 0.4, "alpha": 1.5}},
		{"missing k", "/api/v1/samplesize/oneway", map[string]interface{}{"power": 0.9, "f": 0.4}},
		{"ceiling above limit", "/api/v1/samplesize/oneway", map[string]interface{}{"k": 5, "power": 0.99, "f": 0.001, "ceiling": 1000000000}},
		{"two-way ceiling above limit", "/api/v1/samplesize/twoway", map[string]interface{}{"a": 3, "b": 3, "power": 0.99, "f_a": 0.001, "f_b": 0.001, "ceiling": 1000000000}},
		{"single level factor", "/api/v1/power/twoway", map[string]interface{}{"a": 1, "b": 3, "size_a": 4, "size_b": 4, "f_a": 0.2, "f_b": 0.2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, resp := post(t, router, tt.path, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "INVALID_INPUT", resp["code"])
		})
	}
}

func TestHealthz(t *testing.T) {
	router := newTestRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
