package middleware_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/hos-planner/internal/middleware"
)

// decodingHandler decodes a JSON body the way the session and trip handlers
// do and reports a MaxBytesError as 413.
var decodingHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	var v map[string]any
	err := json.NewDecoder(r.Body).Decode(&v)
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		w.WriteHeader(http.StatusRequestEntityTooLarge)
	case err != nil:
		w.WriteHeader(http.StatusBadRequest)
	default:
		w.WriteHeader(http.StatusOK)
	}
})

func credentials(password string) string {
	return `{"username":"dana","password":"` + password + `"}`
}

func TestMaxBodySizeHandler_WithinLimit(t *testing.T) {
	h := middleware.NewMaxBodySizeHandler(256)(decodingHandler)

	req := httptest.NewRequest(http.MethodPost, "/session", strings.NewReader(credentials("hunter22")))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}

// A declared Content-Length over the limit is refused with the server's
// JSON error body before the handler runs.
func TestMaxBodySizeHandler_ContentLengthOverLimit(t *testing.T) {
	called := false
	next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true })
	h := middleware.NewMaxBodySizeHandler(32)(next)

	body := credentials(strings.Repeat("x", 64))
	req := httptest.NewRequest(http.MethodPost, "/session", strings.NewReader(body))
	req.ContentLength = int64(len(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.False(t, called)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var resp struct {
		Error struct{ Code string } `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "body_too_large", resp.Error.Code)
}

// Without a Content-Length the limit is enforced while the handler reads.
func TestMaxBodySizeHandler_ChunkedBodyOverLimit(t *testing.T) {
	h := middleware.NewMaxBodySizeHandler(32)(decodingHandler)

	req := httptest.NewRequest(http.MethodPost, "/session", strings.NewReader(credentials(strings.Repeat("x", 64))))
	req.ContentLength = -1
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}
