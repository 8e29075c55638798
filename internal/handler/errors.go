package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/pkordes/hos-planner/internal/domain"
)

// ErrorDetail is the body of every error response: {"error": {...}}.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps ErrorDetail.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErrorBody(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: ErrorDetail{Code: code, Message: message}})
}

// badRequest reports input rejected before reaching the service layer
// (unparsable body, malformed path or query parameter).
func badRequest(w http.ResponseWriter, message string) {
	writeErrorBody(w, http.StatusBadRequest, "bad_request", message)
}

// writeError maps a service error to its HTTP status and error code.
// Unknown errors are logged and reported as 500 without details.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		authErr *domain.AuthenticationError
		apiErr  *domain.APIError
	)
	switch {
	case errors.As(err, &authErr):
		writeErrorBody(w, http.StatusUnauthorized, "authentication_failed", authErr.Message)
	case errors.Is(err, domain.ErrSessionExpired):
		writeErrorBody(w, http.StatusUnauthorized, "session_expired", "session expired, log in again")
	case errors.Is(err, domain.ErrValidation):
		writeErrorBody(w, http.StatusUnprocessableEntity, "validation_error", unwrapMessage(err))
	case errors.Is(err, domain.ErrNotFound):
		writeErrorBody(w, http.StatusNotFound, "not_found", "resource not found")
	case errors.Is(err, domain.ErrForbidden):
		writeErrorBody(w, http.StatusForbidden, "forbidden", "not allowed")
	case errors.Is(err, domain.ErrMalformedResponse):
		s.Logger.WarnContext(r.Context(), "malformed upstream payload", "error", err)
		writeErrorBody(w, http.StatusBadGateway, "malformed_upstream_response", "the HOS API sent an unexpected payload")
	case errors.As(err, &apiErr):
		s.writeUpstreamError(w, r, apiErr)
	case errors.Is(err, context.DeadlineExceeded):
		writeErrorBody(w, http.StatusGatewayTimeout, "upstream_timeout", "the HOS API did not answer in time")
	default:
		s.Logger.ErrorContext(r.Context(), "unhandled error", "error", err)
		writeErrorBody(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

// writeUpstreamError passes through client errors the HOS API reported for
// the request (such as a rejected status transition) and turns everything
// else into 502.
func (s *Server) writeUpstreamError(w http.ResponseWriter, r *http.Request, apiErr *domain.APIError) {
	switch {
	case apiErr.Status == 0:
		s.Logger.WarnContext(r.Context(), "upstream unreachable", "error", apiErr)
		writeErrorBody(w, http.StatusBadGateway, "upstream_unavailable", "the HOS API is unreachable")
	case apiErr.Status == http.StatusBadRequest || apiErr.Status == http.StatusConflict:
		writeErrorBody(w, http.StatusUnprocessableEntity, "validation_error", apiErr.Message)
	case apiErr.Status == http.StatusUnauthorized:
		writeErrorBody(w, http.StatusUnauthorized, "unauthorized", apiErr.Message)
	default:
		s.Logger.WarnContext(r.Context(), "upstream error", "status", apiErr.Status, "error", apiErr)
		writeErrorBody(w, http.StatusBadGateway, "upstream_error", apiErr.Message)
	}
}

// unwrapMessage extracts the human-readable part from a wrapped validation error.
// e.g. "service.TripService.Create: validation error: vehicle is required" → "vehicle is required"
func unwrapMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	marker := domain.ErrValidation.Error() + ": "
	if i := strings.LastIndex(msg, marker); i >= 0 {
		return msg[i+len(marker):]
	}
	return msg
}
