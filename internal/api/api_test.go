package api_test

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitalcheck/vitalcheck/internal/api"
	"github.com/vitalcheck/vitalcheck/internal/auth"
	"github.com/vitalcheck/vitalcheck/internal/metrics"
	"github.com/vitalcheck/vitalcheck/internal/scoring"
)

// --- test helpers -----------------------------------------------------------

const validBody = `{
	"age": 25, "weight": 70, "height": 175,
	"systolic": 115, "diastolic": 75, "heartRate": 70,
	"exerciseHours": 5, "sleepHours": 8, "stressLevel": 1
}`

func post(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	h.ServeHTTP(rr, req)
	return rr
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(rr.Body).Decode(v), "body: %s", rr.Body.String())
}

func errorOf(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var resp map[string]string
	decode(t, rr, &resp)
	return resp["error"]
}

// withoutField removes one key from validBody, or sets it to null.
func withoutField(t *testing.T, field string, asNull bool) string {
	t.Helper()
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(validBody), &m))
	if asNull {
		m[field] = nil
	} else {
		delete(m, field)
	}
	b, err := json.Marshal(m)
	require.NoError(t, err)
	return string(b)
}

// --- POST /api/assess -------------------------------------------------------

func TestAssess_Success(t *testing.T) {
	h := api.New(api.Options{})
	rr := post(t, h, "/api/assess", validBody)

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var resp map[string]interface{}
	decode(t, rr, &resp)

	assert.Equal(t, 100.0, resp["overallScore"])
	assert.Equal(t, "Excellent", resp["status"])
	assert.Equal(t, 22.9, resp["bmi"])
	assert.Len(t, resp["recommendations"], 3)

	scores, ok := resp["detailedScores"].(map[string]interface{})
	require.True(t, ok, "detailedScores is not an object")
	assert.Len(t, scores, 7)
	for _, k := range []string{"age", "bmi", "bloodPressure", "heartRate", "exercise", "sleep", "stress"} {
		assert.Contains(t, scores, k)
	}
}

func TestAssess_MatchesEngine(t *testing.T) {
	body := `{"age":55,"weight":90,"height":175,"systolic":135,"diastolic":85,
		"heartRate":105,"exerciseHours":0.5,"sleepHours":5,"stressLevel":4}`
	rr := post(t, api.New(api.Options{}), "/api/assess", body)
	require.Equal(t, http.StatusOK, rr.Code)

	var got scoring.Result
	decode(t, rr, &got)

	want := scoring.Assess(scoring.Input{
		Age: 55, Weight: 90, Height: 175, Systolic: 135, Diastolic: 85,
		HeartRate: 105, ExerciseHours: 0.5, SleepHours: 5, StressLevel: 4,
	})
	assert.Equal(t, want, got)
	assert.Equal(t, scoring.StatusFair, got.Status)
	assert.Len(t, got.Recommendations, 5)
}

func TestAssess_MissingField(t *testing.T) {
	for _, field := range api.RequiredFields {
		for _, asNull := range []bool{false, true} {
			name := field
			if asNull {
				name += "/null"
			}
			t.Run(name, func(t *testing.T) {
				called := false
				h := api.New(api.Options{Assess: func(in scoring.Input) scoring.Result {
					called = true
					return scoring.Assess(in)
				}})

				rr := post(t, h, "/api/assess", withoutField(t, field, asNull))

				assert.Equal(t, http.StatusBadRequest, rr.Code)
				assert.Equal(t, "Missing required field: "+field, errorOf(t, rr))
				assert.False(t, called, "scorer must not run for invalid input")
			})
		}
	}
}

func TestAssess_FirstMissingFieldReported(t *testing.T) {
	rr := post(t, api.New(api.Options{}), "/api/assess", `{"age": 30, "height": 170}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Missing required field: weight", errorOf(t, rr))
}

func TestAssess_MissingFieldBeforeInvalidValue(t *testing.T) {
	rr := post(t, api.New(api.Options{}), "/api/assess", `{"age":"30"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Missing required field: weight", errorOf(t, rr))
}

func TestAssess_InvalidValues(t *testing.T) {
	tests := []struct {
		name, body, want string
	}{
		{
			name: "string age",
			body: strings.Replace(validBody, `"age": 25`, `"age": "25"`, 1),
			want: "Invalid value for field: age",
		},
		{
			name: "fractional stress level",
			body: strings.Replace(validBody, `"stressLevel": 1`, `"stressLevel": 1.5`, 1),
			want: "Invalid value for field: stressLevel",
		},
		{
			name: "zero height",
			body: strings.Replace(validBody, `"height": 175`, `"height": 0`, 1),
			want: "Invalid value for field: height",
		},
		{
			name: "negative height",
			body: strings.Replace(validBody, `"height": 175`, `"height": -170`, 1),
			want: "Invalid value for field: height",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := post(t, api.New(api.Options{}), "/api/assess", tc.body)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Equal(t, tc.want, errorOf(t, rr))
		})
	}
}

func TestAssess_InvalidBody(t *testing.T) {
	for _, body := range []string{"", "{", "[1,2,3]", `"hello"`} {
		rr := post(t, api.New(api.Options{}), "/api/assess", body)
		assert.Equal(t, http.StatusBadRequest, rr.Code, "body %q", body)
		assert.Equal(t, "Invalid request body", errorOf(t, rr), "body %q", body)
	}
}

func TestAssess_NonsenseValuesAccepted(t *testing.T) {
	body := strings.Replace(validBody, `"age": 25`, `"age": -4`, 1)
	rr := post(t, api.New(api.Options{}), "/api/assess", body)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestAssess_BodyTooLarge(t *testing.T) {
	h := api.New(api.Options{MaxBodyBytes: 16})
	rr := post(t, h, "/api/assess", validBody)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
}

func TestAssess_PanicBecomesGeneric500(t *testing.T) {
	reg := metrics.New()
	h := api.New(api.Options{
		Metrics: reg,
		Assess: func(scoring.Input) scoring.Result {
			panic("boom: internal detail")
		},
	})
	rr := post(t, h, "/api/assess", validBody)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	body := rr.Body.String()
	assert.NotContains(t, body, "boom")

	var resp map[string]string
	require.NoError(t, json.Unmarshal([]byte(body), &resp))
	assert.Equal(t, "An error occurred during health assessment", resp["error"])

	for _, mf := range reg.Gather() {
		if mf.GetName() == metrics.NameFailures {
			assert.Equal(t, 1.0, mf.GetMetric()[0].GetCounter().GetValue())
		}
	}
}

func TestAssess_UnencodableResultBecomes500(t *testing.T) {
	h := api.New(api.Options{Assess: func(in scoring.Input) scoring.Result {
		r := scoring.Assess(in)
		r.BMI = math.Inf(1) // not representable in JSON
		return r
	}})
	rr := post(t, h, "/api/assess", validBody)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "An error occurred during health assessment", errorOf(t, rr))
}

func TestAssess_MethodNotAllowed(t *testing.T) {
	rr := get(t, api.New(api.Options{}), "/api/assess")
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestAssess_Deterministic(t *testing.T) {
	h := api.New(api.Options{})
	first := post(t, h, "/api/assess", validBody).Body.String()
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, post(t, h, "/api/assess", validBody).Body.String())
	}
}

// --- auth -------------------------------------------------------------------

func TestAssess_APIKey(t *testing.T) {
	g := auth.NewGuard(auth.Settings{Mode: auth.ModeAPIKey, Header: "X-API-Key", Key: "k1"})
	h := api.New(api.Options{Guard: g})

	rr := post(t, h, "/api/assess", validBody)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/assess", strings.NewReader(validBody))
	req.Header.Set("X-API-Key", "k1")
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)

	// Health stays open.
	assert.Equal(t, http.StatusOK, get(t, h, "/api/v1/health").Code)
}

// --- other routes -----------------------------------------------------------

func TestHealth(t *testing.T) {
	rr := get(t, api.New(api.Options{Version: "1.2.3"}), "/api/v1/health")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp api.HealthResponse
	decode(t, rr, &resp)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "1.2.3", resp.Version)
}

func TestRequestID(t *testing.T) {
	h := api.New(api.Options{})

	rr := get(t, h, "/api/v1/health")
	assert.NotEmpty(t, rr.Header().Get(api.HeaderRequestID))

	rr = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	req.Header.Set(api.HeaderRequestID, "abc-123")
	h.ServeHTTP(rr, req)
	assert.Equal(t, "abc-123", rr.Header().Get(api.HeaderRequestID))
}

func TestUnknownAPIRoute(t *testing.T) {
	rr := get(t, api.New(api.Options{}), "/api/v1/nope")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "not found", errorOf(t, rr))
}

func TestMetricsEndpoint(t *testing.T) {
	reg := metrics.New()
	h := api.New(api.Options{Metrics: reg})

	post(t, h, "/api/assess", validBody)
	post(t, h, "/api/assess", `{}`)

	rr := get(t, h, "/metrics")
	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, `vitalcheck_assessments_total{status="Excellent"} 1`)
	assert.Contains(t, body, `vitalcheck_assessment_rejections_total{reason="missing_field"} 1`)
}

func TestMetricsEndpoint_DisabledWithoutRegistry(t *testing.T) {
	rr := get(t, api.New(api.Options{}), "/metrics")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestCORSPreflight(t *testing.T) {
	h := api.New(api.Options{AllowedOrigins: []string{"http://localhost:5173"}})

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/api/assess", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	h.ServeHTTP(rr, req)

	assert.Equal(t, "http://localhost:5173", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestStaticUI(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>form</h1>"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.js"), []byte("console.log(1)"), 0o600))

	h := api.New(api.Options{UIDir: dir})

	rr := get(t, h, "/app.js")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "console.log(1)", rr.Body.String())

	rr = get(t, h, "/results/42")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "<h1>form</h1>")

	// API routes still win over the static catch-all.
	assert.Equal(t, http.StatusOK, get(t, h, "/api/v1/health").Code)
}
