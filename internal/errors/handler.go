package errors

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
)

// ErrorHandler provides centralized error handling with structured logging
type ErrorHandler struct {
	logger       *slog.Logger
	includeStack bool
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(logger *slog.Logger, includeStack bool) *ErrorHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ErrorHandler{
		logger:       logger,
		includeStack: includeStack,
	}
}

// HandleError converts an error into an RFC 7807 response and logs it
func (h *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	problem := h.ErrorToProblem(r.Context(), err, r.URL.Path)

	attrs := []any{
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Int("status", problem.Status),
		slog.String("problem_type", problem.Type),
		slog.String("error", err.Error()),
	}
	if h.includeStack && problem.Status >= 500 {
		attrs = append(attrs, slog.String("stack", string(debug.Stack())))
	}

	if problem.Status >= 500 {
		h.logger.ErrorContext(r.Context(), "request failed", attrs...)
	} else {
		h.logger.WarnContext(r.Context(), "request rejected", attrs...)
	}

	h.writeProblem(w, r, problem)
}

// writeProblem serializes the problem document by hand. Going through
// chi/render would let the content-type middleware overwrite the
// application/problem+json media type.
func (h *ErrorHandler) writeProblem(w http.ResponseWriter, r *http.Request, problem *ProblemDetails) {
	body, err := json.Marshal(problem)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to encode error response",
			slog.String("error", err.Error()))
		http.Error(w, problem.Detail, problem.Status)
		return
	}
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(problem.Status)
	_, _ = w.Write(body)
}

// ErrorToProblem maps an error to RFC 7807 problem details
func (h *ErrorHandler) ErrorToProblem(ctx context.Context, err error, instance string) *ProblemDetails {
	// Context cancellation maps to timeout problems
	if errors.Is(err, context.DeadlineExceeded) {
		return NewProblemDetails(http.StatusGatewayTimeout, TypeTimeout,
			"Request Timeout", "The operation did not complete in time", instance)
	}
	if errors.Is(err, context.Canceled) {
		return NewProblemDetails(499, TypeTimeout,
			"Request Canceled", "The request was canceled by the client", instance)
	}

	// Structured API errors carry their own status and code
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		problem := NewProblemDetails(apiErr.StatusCode, problemTypeForCode(apiErr.ErrorCode),
			titleForStatus(apiErr.StatusCode), apiErr.Message, instance)
		problem.WithExtension("error_code", apiErr.ErrorCode)
		if apiErr.Details != nil {
			problem.WithExtension("details", apiErr.Details)
		}
		return problem
	}

	var problem *ProblemDetails
	if errors.As(err, &problem) {
		return problem
	}

	// Fallback classification on the error text
	msg := err.Error()
	switch {
	case strings.Contains(msg, "not found"):
		return NewProblemDetails(http.StatusNotFound, TypeNotFound,
			"Not Found", msg, instance)
	case strings.Contains(msg, "validation"):
		return NewProblemDetails(http.StatusBadRequest, TypeValidation,
			"Validation Failed", msg, instance)
	default:
		return NewProblemDetails(http.StatusInternalServerError, TypeInternal,
			"Internal Server Error", "An unexpected error occurred", instance)
	}
}

func problemTypeForCode(code string) string {
	switch code {
	case "INVALID_REQUEST", "VALIDATION_FAILED", "MISSING_PARAMETER", "INVALID_PARAMETER":
		return TypeValidation
	case "NOT_FOUND":
		return TypeNotFound
	case "CONFLICT":
		return TypeConflict
	case "UPLOAD_TOO_LARGE":
		return TypePayloadTooLarge
	case "UNSUPPORTED_FILE_TYPE":
		return TypeUnsupportedFile
	case "EMPTY_IMPORT":
		return TypeImportFailed
	case "RATE_LIMIT_EXCEEDED":
		return TypeRateLimit
	case "SHEETS_FETCH_FAILED":
		return TypeSheetsFetch
	case "INSIGHT_GENERATION_FAILED":
		return TypeInsightFailed
	case "SERVICE_UNAVAILABLE":
		return TypeUnavailable
	default:
		return TypeInternal
	}
}

func titleForStatus(status int) string {
	if title := http.StatusText(status); title != "" {
		return title
	}
	return "Error"
}
