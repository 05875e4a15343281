package ui

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"energyexplain/adapters/excel"
	"energyexplain/app"
	"energyexplain/domain/evaluation"
	"energyexplain/domain/explanation"
	"energyexplain/domain/model"
	"energyexplain/domain/series"
	"energyexplain/internal/config"
	"energyexplain/internal/container"
	"energyexplain/internal/testkit"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := &config.Config{
		Server:   config.ServerConfig{GinMode: gin.TestMode, CORSOrigins: []string{"*"}},
		Pipeline: config.DefaultPipeline(),
	}
	c, err := container.New(cfg, nil)
	require.NoError(t, err)
	return NewServer(Services{
		Sessions:    c.Sessions,
		Explain:     c.Explain,
		Evaluations: c.Evaluations,
		Reader:      c.Reader,
	}, cfg.Server, nil)
}

func do(t *testing.T, s *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func inputs(records []series.Record) []series.RecordInput {
	out := make([]series.RecordInput, len(records))
	for i, r := range records {
		ts := r.Timestamp.Format(time.RFC3339)
		c, p := r.Consumption, r.Price
		out[i] = series.RecordInput{Timestamp: &ts, EnergyConsumption: &c, Price: &p}
	}
	return out
}

func createSession(t *testing.T, s *Server) string {
	t.Helper()
	w := do(t, s, http.MethodPost, "/api/sessions", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	var info app.SessionInfo
	decode(t, w, &info)
	return string(info.ID)
}

func loadedSession(t *testing.T, s *Server) string {
	t.Helper()
	id := createSession(t, s)
	w := do(t, s, http.MethodPut, "/api/sessions/"+id+"/dataset", map[string]interface{}{
		"country": "DE",
		"records": inputs(testkit.Hourly(168, 42)),
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return id
}

func TestHealth(t *testing.T) {
	w := do(t, newTestServer(t), http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"healthy"`)
}

func TestSessionFlow(t *testing.T) {
	s := newTestServer(t)
	id := loadedSession(t, s)

	w := do(t, s, http.MethodGet, "/api/sessions/"+id+"/model/summary", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var summary model.Summary
	decode(t, w, &summary)
	assert.Equal(t, model.TargetPrice, summary.Target)
	assert.Equal(t, 22, summary.NumFeatures)

	w = do(t, s, http.MethodGet, "/api/sessions/"+id+"/fuzzy", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"correlation"`)

	w = do(t, s, http.MethodGet, "/api/sessions/"+id+"/drivers", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"market_context"`)

	w = do(t, s, http.MethodGet, "/api/sessions/"+id+"/explanation", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var bundle explanation.Bundle
	decode(t, w, &bundle)
	assert.NotEmpty(t, bundle.SnapshotID)
	assert.True(t, strings.HasPrefix(bundle.Linguistic.Text, "## Price Analysis"))

	w = do(t, s, http.MethodGet, "/api/sessions/"+id+"/explanation?format=html", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "<h2")

	w = do(t, s, http.MethodPost, "/api/sessions/"+id+"/predict", map[string]interface{}{
		"records": inputs(testkit.Hourly(48, 5)),
	})
	require.Equal(t, http.StatusOK, w.Code)
	var preds struct {
		Predictions []model.Prediction `json:"predictions"`
	}
	decode(t, w, &preds)
	assert.Len(t, preds.Predictions, 24)

	w = do(t, s, http.MethodPost, "/api/sessions/"+id+"/retrain", map[string]interface{}{"target": "energy_consumption", "seed": 7})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"target":"consumption"`)
}

func TestUploadCSV(t *testing.T) {
	s := newTestServer(t)
	id := createSession(t, s)

	var csvBuf bytes.Buffer
	require.NoError(t, excel.WriteCSV(&csvBuf, testkit.Hourly(120, 3)))

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "sample.csv")
	require.NoError(t, err)
	_, err = fw.Write(csvBuf.Bytes())
	require.NoError(t, err)
	require.NoError(t, mw.WriteField("country", "FR"))
	require.NoError(t, mw.WriteField("test_fraction", "0.25"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPut, "/api/sessions/"+id+"/dataset", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"records":120`)
}

func TestErrorStatuses(t *testing.T) {
	s := newTestServer(t)
	id := createSession(t, s)

	w := do(t, s, http.MethodGet, "/api/sessions/nope/explanation", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"NOT_FOUND"`)

	w = do(t, s, http.MethodGet, "/api/sessions/"+id+"/model/summary", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "MODEL_NOT_TRAINED")

	w = do(t, s, http.MethodPut, "/api/sessions/"+id+"/dataset", map[string]interface{}{
		"records": []map[string]interface{}{{"timestamp": "2024-01-01T00:00:00Z", "price": 1}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "energy_consumption")

	w = do(t, s, http.MethodPut, "/api/sessions/"+id+"/dataset", map[string]interface{}{
		"records": inputs(testkit.Hourly(168, 1)),
		"target":  "wind",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, s, http.MethodPut, "/api/sessions/"+id+"/dataset", map[string]interface{}{
		"records": inputs(testkit.Hourly(10, 1)),
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req := httptest.NewRequest(http.MethodPut, "/api/sessions/"+id+"/dataset", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_INPUT")
}

func TestEvaluationEndpoints(t *testing.T) {
	s := newTestServer(t)

	w := do(t, s, http.MethodPost, "/api/evaluations", evaluation.Response{
		ParticipantID: "p1",
		Preference:    evaluation.PreferMethodB,
		MethodA:       evaluation.Ratings{Helpfulness: 3},
		MethodB:       evaluation.Ratings{Helpfulness: 5},
		DataSource:    "sample",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var saved evaluation.Response
	decode(t, w, &saved)
	assert.NotEmpty(t, saved.ID)

	w = do(t, s, http.MethodPost, "/api/evaluations", evaluation.Response{Preference: "both"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, s, http.MethodGet, "/api/evaluations", nil)
	assert.Contains(t, w.Body.String(), `"count":1`)

	w = do(t, s, http.MethodGet, "/api/evaluations/analytics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var analytics evaluation.Analytics
	decode(t, w, &analytics)
	assert.Equal(t, 1, analytics.TotalResponses)
	assert.Equal(t, 5.0, analytics.MethodB.Helpfulness)

	w = do(t, s, http.MethodGet, "/api/evaluations/export", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".xlsx")
	assert.NotEmpty(t, w.Body.Bytes())

	w = do(t, s, http.MethodDelete, "/api/evaluations", nil)
	assert.Contains(t, w.Body.String(), `"deleted":1`)
}
