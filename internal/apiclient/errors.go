package apiclient

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/pkordes/hos-planner/internal/domain"
)

// genericMessage is shown when the server sent no usable message.
const genericMessage = "Something went wrong. Please try again."

// newAPIError converts a non-2xx response into a *domain.APIError carrying
// the server's message.
func newAPIError(resp response) error {
	return &domain.APIError{Status: resp.status, Message: serverMessage(resp.body, genericMessage)}
}

// serverMessage extracts a human-readable message from an error body.
// It understands {"error": "..."}, {"error": {"message": "..."}},
// {"detail": "..."}, {"message": "..."} and field errors
// {"field": ["msg", ...]}. Falls back to fallback.
func serverMessage(body []byte, fallback string) string {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err != nil {
		return fallback
	}

	for _, k := range []string{"error", "detail", "message"} {
		raw, ok := obj[k]
		if !ok {
			continue
		}
		var s string
		if json.Unmarshal(raw, &s) == nil && s != "" {
			return s
		}
		var nested struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(raw, &nested) == nil && nested.Message != "" {
			return nested.Message
		}
	}

	// Field errors, in key order for a stable message.
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var parts []string
	for _, k := range keys {
		var msgs []string
		if json.Unmarshal(obj[k], &msgs) == nil && len(msgs) > 0 {
			if k == "non_field_errors" {
				parts = append(parts, strings.Join(msgs, " "))
			} else {
				parts = append(parts, fmt.Sprintf("%s: %s", k, strings.Join(msgs, " ")))
			}
		}
	}
	if len(parts) > 0 {
		return strings.Join(parts, "; ")
	}
	return fallback
}

// authError maps a rejected login or registration to *domain.AuthenticationError.
// Server-side failures (5xx) and transport errors are passed through.
func authError(err error, fallback string) error {
	apiErr, ok := err.(*domain.APIError)
	if !ok || apiErr.Status >= http.StatusInternalServerError || apiErr.Status == 0 {
		return err
	}
	msg := apiErr.Message
	if msg == genericMessage {
		msg = fallback
	}
	return &domain.AuthenticationError{Message: msg}
}
