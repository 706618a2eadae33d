package http

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/michaeljuniorpb/Akasa-Leads-Analytic/internal/dataprocessing"
	apierrors "github.com/michaeljuniorpb/Akasa-Leads-Analytic/internal/errors"
	"github.com/michaeljuniorpb/Akasa-Leads-Analytic/internal/leadstore"
	"github.com/michaeljuniorpb/Akasa-Leads-Analytic/internal/middleware"
	"github.com/michaeljuniorpb/Akasa-Leads-Analytic/internal/services"
	"github.com/michaeljuniorpb/Akasa-Leads-Analytic/internal/validation"
	"github.com/michaeljuniorpb/Akasa-Leads-Analytic/pkg/contracts/domain"
)

const sampleCSV = `Cust ID,Agent,Assigned at,Source,Status leads,Unique Status,Tanggal Site Visit,Status Site Visit,Booking Date,Revenue exclude ppn (auto)
C001,Rina,2024-01-10,Instagram,Booking,Unique,2024-01-15,Visit Done,2024-01-20,500000000
C002,Sari,2024-01-12,Google Ads,Warm,Not Unique,,,,
`

type testEnv struct {
	router chi.Router
	leads  *services.LeadService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := slog.Default()
	errorHandler := apierrors.NewErrorHandler(logger, false)
	validator := middleware.NewValidationMiddleware(logger, errorHandler)
	queryParams := middleware.NewQueryParamValidator(logger, errorHandler)
	fileValidator := validation.NewFileValidator(logger)

	store, err := leadstore.New(t.TempDir(), 400, nil)
	require.NoError(t, err)
	leadSvc := services.NewLeadService(store, nil, nil, dataprocessing.RankByBookings, logger)
	insightSvc := services.NewInsightService(leadSvc, &stubGenerator{text: "Ringkasan."}, nil, logger)
	healthSvc := services.NewHealthService("test", "", leadSvc, logger)

	r := chi.NewRouter()
	r.Mount("/api/leads", NewLeadHandler(leadSvc, validator, queryParams, fileValidator, 32<<20, logger, errorHandler).Routes())
	r.Mount("/api/analytics", NewAnalyticsHandler(leadSvc, queryParams, logger, errorHandler).Routes())
	r.Mount("/api/insights", NewInsightHandler(insightSvc, validator, logger, errorHandler).Routes())
	r.Mount("/api/healthz", NewHealthHandler(healthSvc, logger).Routes())

	return &testEnv{router: r, leads: leadSvc}
}

type stubGenerator struct {
	text string
	err  error
}

func (g *stubGenerator) Summarize(ctx context.Context, stats *domain.DashboardStats, from, to string) (string, error) {
	return g.text, g.err
}

func multipartUpload(t *testing.T, filename, content, mode string) (*bytes.Buffer, string) {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	if mode != "" {
		require.NoError(t, writer.WriteField("mode", mode))
	}
	require.NoError(t, writer.Close())
	return &body, writer.FormDataContentType()
}

func (e *testEnv) importSample(t *testing.T) {
	t.Helper()
	body, contentType := multipartUpload(t, "leads.csv", sampleCSV, "replace")
	req := httptest.NewRequest(http.MethodPost, "/api/leads/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	return decoded
}

func TestUploadAndList(t *testing.T) {
	env := newTestEnv(t)
	env.importSample(t)

	req := httptest.NewRequest(http.MethodGet, "/api/leads", nil)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, float64(2), body["count"])
	assert.Equal(t, float64(2), body["total"])
}

func TestListPagination(t *testing.T) {
	env := newTestEnv(t)
	env.importSample(t)

	req := httptest.NewRequest(http.MethodGet, "/api/leads?limit=1&offset=1", nil)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, float64(1), body["count"])
	assert.Equal(t, float64(2), body["total"])

	req = httptest.NewRequest(http.MethodGet, "/api/leads?limit=0", nil)
	rec = httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadRejectsUnsupportedType(t *testing.T) {
	env := newTestEnv(t)

	body, contentType := multipartUpload(t, "leads.pdf", "junk", "")
	req := httptest.NewRequest(http.MethodPost, "/api/leads/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
}

func TestUploadRequiresFilePart(t *testing.T) {
	env := newTestEnv(t)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	require.NoError(t, writer.WriteField("mode", "replace"))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/leads/upload", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteAll(t *testing.T) {
	env := newTestEnv(t)
	env.importSample(t)

	req := httptest.NewRequest(http.MethodDelete, "/api/leads", nil)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	count, err := env.leads.Count()
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestSheetsImportValidation(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/api/leads/sheets",
		strings.NewReader(`{"range":"Sheet1!A1:Z"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "sheet_id")
}

func TestSheetsImportNotConfigured(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/api/leads/sheets",
		strings.NewReader(`{"sheet_id":"abc123","mode":"replace"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestGetAnalytics(t *testing.T) {
	env := newTestEnv(t)
	env.importSample(t)

	req := httptest.NewRequest(http.MethodGet, "/api/analytics?from=2024-01-01&to=2024-01-31", nil)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "OK", data["status"])

	funnel := data["funnel"].(map[string]interface{})
	assert.Equal(t, float64(2), funnel["raw"])
	assert.Equal(t, float64(1), funnel["unique"])
	assert.Equal(t, float64(1), data["period_visits"])
	assert.Equal(t, float64(1), data["period_bookings"])
}

func TestGetAnalyticsNoData(t *testing.T) {
	env := newTestEnv(t)
	env.importSample(t)

	req := httptest.NewRequest(http.MethodGet, "/api/analytics?from=2030-01-01&to=2030-01-31", nil)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "NO_DATA", data["status"])
}

func TestGetAnalyticsRejectsBadDates(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/api/analytics?from=31/01/2024", nil)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/analytics?from=2024-02-01&to=2024-01-01", nil)
	rec = httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/analytics?ranking=revenue", nil)
	rec = httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGenerateInsight(t *testing.T) {
	env := newTestEnv(t)
	env.importSample(t)

	req := httptest.NewRequest(http.MethodPost, "/api/insights",
		strings.NewReader(`{"from":"2024-01-01","to":"2024-01-31"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	assert.Equal(t, "Ringkasan.", body["narrative"])
	assert.NotNil(t, body["stats"])
}

func TestGenerateInsightRejectsBadDate(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/api/insights",
		strings.NewReader(`{"from":"31/01/2024"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t)
	env.importSample(t)

	req := httptest.NewRequest(http.MethodGet, "/api/healthz", nil)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "healthy", body["status"])

	data := body["data"].(map[string]interface{})
	assert.Equal(t, float64(2), data["leads"])
}

func TestUploadAppendGrowsDataSet(t *testing.T) {
	env := newTestEnv(t)
	env.importSample(t)

	body, contentType := multipartUpload(t, "more.csv", sampleCSV, "append")
	req := httptest.NewRequest(http.MethodPost, "/api/leads/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	decoded := decodeBody(t, rec)
	result := decoded["data"].(map[string]interface{})
	assert.Equal(t, float64(4), result["total"])
}
