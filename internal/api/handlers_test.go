package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veriscope/veriscope/internal/config"
	"github.com/veriscope/veriscope/internal/extract"
	"github.com/veriscope/veriscope/internal/models"
	"github.com/veriscope/veriscope/internal/pipeline"
	"github.com/veriscope/veriscope/internal/session"
)

type stubFetcher struct{ text string }

func (s *stubFetcher) Fetch(_ context.Context, _ string) (string, error) {
	return s.text, nil
}

type stubDetector struct {
	result models.AIDetectionResult
	err    error
}

func (s *stubDetector) Detect(_ context.Context, _ string) (models.AIDetectionResult, error) {
	return s.result, s.err
}

type stubChecker struct{}

func (stubChecker) Verify(_ context.Context, _ string) models.FactCheckResult {
	return models.FactCheckResult{
		Claims:             []models.Claim{},
		OverallCredibility: 50,
		BiasDetection:      models.BiasDetection{Types: []string{}},
	}
}

type stubResearcher struct{}

func (stubResearcher) Research(_ context.Context, _ string, _ models.Category) models.ResearchResult {
	return models.ResearchResult{Summary: "ok", KeyFacts: []string{}, Sources: []models.Source{}}
}

func newTestServer(t *testing.T, detector pipeline.Detector) *httptest.Server {
	t.Helper()

	extractor := extract.New(&stubFetcher{text: "fetched page text"}, extract.DefaultStrategies())
	engine := pipeline.NewEngine(extractor, detector, stubChecker{}, stubResearcher{})
	router := NewRouter(config.DefaultConfig(), engine, session.NewStore())

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, srv *httptest.Server, body map[string]any, headers map[string]string) *http.Response {
	t.Helper()

	data, err := json.Marshal(body)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/v1/analyze", bytes.NewReader(data))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func TestAnalyzeTextReturnsReport(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, &stubDetector{result: models.AIDetectionResult{OverallScore: 12, ModelAttribution: "Human"}})

	resp := postJSON(t, srv, map[string]any{
		"category": "news",
		"mode":     "text",
		"text":     "Some content worth verifying right here.",
	}, nil)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(SessionHeader))

	var report models.AnalysisReport
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))
	assert.Equal(t, 12, report.AIDetection.OverallScore)
	assert.Equal(t, models.CategoryNews, report.Category)
	assert.NotEmpty(t, report.Timestamp)
}

func TestAnalyzeBlankTextIsBadRequest(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, &stubDetector{})

	resp := postJSON(t, srv, map[string]any{
		"category": "news",
		"mode":     "text",
		"text":     "   ",
	}, nil)
	defer resp.Body.Close()

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Please enter content to analyze", body["error"])
}

func TestAnalyzeMalformedURLIsBadRequest(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, &stubDetector{})

	resp := postJSON(t, srv, map[string]any{
		"category": "news",
		"mode":     "url",
		"url":      "not a url",
	}, nil)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAnalyzeUnknownCategoryIsBadRequest(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, &stubDetector{})

	resp := postJSON(t, srv, map[string]any{
		"category": "podcast",
		"mode":     "text",
		"text":     "Some content worth verifying right here.",
	}, nil)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAnalyzeDetectionFailureIsBadGateway(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, &stubDetector{err: errors.New("upstream down")})

	resp := postJSON(t, srv, map[string]any{
		"category": "news",
		"mode":     "text",
		"text":     "Some content worth verifying right here.",
	}, nil)
	defer resp.Body.Close()

	require.Equal(t, http.StatusBadGateway, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "AI detection failed. Please try again.", body["error"])
	assert.NotContains(t, body["error"], "upstream down")
}

func TestReportLifecycle(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, &stubDetector{})
	sessionID := "test-session"

	// No report yet.
	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/v1/report", nil)
	req.Header.Set(SessionHeader, sessionID)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Run an analysis under the session.
	resp = postJSON(t, srv, map[string]any{
		"category": "tryout",
		"mode":     "text",
		"text":     "Some content worth verifying right here.",
	}, map[string]string{SessionHeader: sessionID})
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// The report is now retrievable.
	req, _ = http.NewRequest(http.MethodGet, srv.URL+"/api/v1/report", nil)
	req.Header.Set(SessionHeader, sessionID)
	resp, err = srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var report models.AnalysisReport
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))
	assert.Equal(t, models.CategoryTryout, report.Category)

	// Reset clears it.
	req, _ = http.NewRequest(http.MethodDelete, srv.URL+"/api/v1/report", nil)
	req.Header.Set(SessionHeader, sessionID)
	resp, err = srv.Client().Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	req, _ = http.NewRequest(http.MethodGet, srv.URL+"/api/v1/report", nil)
	req.Header.Set(SessionHeader, sessionID)
	resp, err = srv.Client().Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAnalyzeUpload(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, &stubDetector{})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("category", "image"))

	part, err := mw.CreatePart(map[string][]string{
		"Content-Disposition": {`form-data; name="file"; filename="scan.png"`},
		"Content-Type":        {"image/png"},
	})
	require.NoError(t, err)
	_, err = part.Write([]byte("fake image bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/v1/analyze/upload", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var report models.AnalysisReport
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))
	assert.Equal(t, "Analyzing image: scan.png", report.OriginalContent)
}

func TestAnalyzeUploadWrongMIMERejected(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, &stubDetector{})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("category", "image"))

	part, err := mw.CreatePart(map[string][]string{
		"Content-Disposition": {`form-data; name="file"; filename="notes.txt"`},
		"Content-Type":        {"text/plain"},
	})
	require.NoError(t, err)
	_, err = part.Write([]byte("just text"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/v1/analyze/upload", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHealthCheck(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, &stubDetector{})

	resp, err := srv.Client().Get(srv.URL + "/api/v1/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAnalyzeRejectsUploadModeOnJSONEndpoint(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, &stubDetector{})

	resp := postJSON(t, srv, map[string]any{
		"category": "image",
		"mode":     "upload",
	}, nil)
	resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
