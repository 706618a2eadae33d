package errors

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIErrorImplementsError(t *testing.T) {
	err := New(http.StatusBadRequest, "INVALID_REQUEST", "bad input")
	assert.Equal(t, "bad input", err.Error())
	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	assert.Equal(t, "INVALID_REQUEST", err.ErrorCode)
}

func TestErrValidationCarriesFieldDetails(t *testing.T) {
	err := ErrValidation("from", "must be YYYY-MM-DD")

	detail, ok := err.Details.(ValidationError)
	require.True(t, ok)
	assert.Equal(t, "from", detail.Field)
	assert.Equal(t, "must be YYYY-MM-DD", detail.Message)
}

func TestNotFoundError(t *testing.T) {
	err := NotFoundError("Lead data")
	assert.Equal(t, http.StatusNotFound, err.StatusCode)
	assert.Equal(t, "Lead data not found", err.Message)
}

func TestProblemDetailsMarshalIncludesExtensions(t *testing.T) {
	problem := NewProblemDetails(http.StatusBadRequest, TypeValidation,
		"Validation Failed", "bad date range", "/api/analytics").
		WithExtension("error_code", "VALIDATION_FAILED")

	data, err := json.Marshal(problem)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, TypeValidation, decoded["type"])
	assert.Equal(t, "Validation Failed", decoded["title"])
	assert.Equal(t, float64(http.StatusBadRequest), decoded["status"])
	assert.Equal(t, "VALIDATION_FAILED", decoded["error_code"])
}

func TestHandleErrorWritesProblemJSON(t *testing.T) {
	handler := NewErrorHandler(slog.Default(), false)

	req := httptest.NewRequest(http.MethodGet, "/api/analytics", nil)
	rec := httptest.NewRecorder()

	handler.HandleError(rec, req, ErrValidation("from", "invalid date"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	assert.Equal(t, TypeValidation, decoded["type"])
	assert.Equal(t, "/api/analytics", decoded["instance"])
}

func TestErrorToProblemMapsContextErrors(t *testing.T) {
	handler := NewErrorHandler(nil, false)

	problem := handler.ErrorToProblem(context.Background(), context.DeadlineExceeded, "/api/leads/sheets")
	assert.Equal(t, http.StatusGatewayTimeout, problem.Status)
	assert.Equal(t, TypeTimeout, problem.Type)

	problem = handler.ErrorToProblem(context.Background(), context.Canceled, "/api/leads/sheets")
	assert.Equal(t, 499, problem.Status)
}

func TestErrorToProblemMapsAPIErrorCodes(t *testing.T) {
	handler := NewErrorHandler(nil, false)

	tests := []struct {
		err        *APIError
		wantType   string
		wantStatus int
	}{
		{ErrUploadTooLarge, TypePayloadTooLarge, http.StatusRequestEntityTooLarge},
		{ErrUnsupportedFileType, TypeUnsupportedFile, http.StatusUnsupportedMediaType},
		{ErrSheetsFetch, TypeSheetsFetch, http.StatusBadGateway},
		{ErrRateLimitExceeded, TypeRateLimit, http.StatusTooManyRequests},
		{ErrNotFound, TypeNotFound, http.StatusNotFound},
	}
	for _, tc := range tests {
		problem := handler.ErrorToProblem(context.Background(), tc.err, "/api")
		assert.Equal(t, tc.wantType, problem.Type, tc.err.ErrorCode)
		assert.Equal(t, tc.wantStatus, problem.Status, tc.err.ErrorCode)
		assert.Equal(t, tc.err.ErrorCode, problem.Extensions["error_code"])
	}
}

func TestErrorToProblemFallbackClassification(t *testing.T) {
	handler := NewErrorHandler(nil, false)

	problem := handler.ErrorToProblem(context.Background(), assert.AnError, "/api")
	assert.Equal(t, http.StatusInternalServerError, problem.Status)
	assert.Equal(t, "An unexpected error occurred", problem.Detail)
}
