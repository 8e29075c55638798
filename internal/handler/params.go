package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// pathID binds the {id} path parameter. It writes a 400 and returns false
// when the parameter is not an integer.
func pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	var id int
	err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Required: true})
	if err != nil {
		badRequest(w, fmt.Sprintf("Invalid format for parameter id: %s", err))
		return 0, false
	}
	return id, true
}

// queryDate binds a required YYYY-MM-DD query parameter.
func queryDate(w http.ResponseWriter, r *http.Request, name string) (openapi_types.Date, bool) {
	var d openapi_types.Date
	if !r.URL.Query().Has(name) {
		badRequest(w, fmt.Sprintf("Query argument %s is required, but not found", name))
		return d, false
	}
	if err := runtime.BindQueryParameter("form", true, true, name, r.URL.Query(), &d); err != nil {
		badRequest(w, fmt.Sprintf("Invalid format for parameter %s: %s", name, err))
		return openapi_types.Date{}, false
	}
	return d, true
}

// optionalQuery binds an optional query parameter into dest (a pointer to a
// pointer); dest stays nil when the parameter is absent.
func optionalQuery(w http.ResponseWriter, r *http.Request, name string, dest any) bool {
	if err := runtime.BindQueryParameter("form", true, false, name, r.URL.Query(), dest); err != nil {
		badRequest(w, fmt.Sprintf("Invalid format for parameter %s: %s", name, err))
		return false
	}
	return true
}

// decodeBody decodes a JSON request body into v. Oversized bodies get 413,
// anything else unparsable gets 400.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	err := dec.Decode(v)
	if err == nil {
		return true
	}
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		writeErrorBody(w, http.StatusRequestEntityTooLarge, "body_too_large", "request body too large")
	case errors.Is(err, io.EOF):
		badRequest(w, "request body is required")
	default:
		badRequest(w, "invalid JSON body: "+err.Error())
	}
	return false
}
