package transport

import (
	"encoding/json"
	"net/http"

	"github.com/jmkoo/daedap/pkg/api"
)

// HTTPStatusFromError maps an api.Error to the corresponding HTTP status
// code. Transport-level errors (body too large, unsupported content type,
// method not allowed) are handled separately by the HTTP adapter.
func HTTPStatusFromError(err *api.Error) int {
	switch err.Name {
	case api.NameInvalidRequest:
		return http.StatusBadRequest
	case api.NameModelError, api.NameServerError:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// WriteErrorResponse writes a JSON error body with the given HTTP status
// code. It sets the Content-Type header before writing.
func WriteErrorResponse(w http.ResponseWriter, apiErr *api.Error, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(apiErr.Body())
}

// WriteAPIError writes an api.Error response, deriving the HTTP status
// code from the error name.
func WriteAPIError(w http.ResponseWriter, apiErr *api.Error) {
	WriteErrorResponse(w, apiErr, HTTPStatusFromError(apiErr))
}
