// Package response provides helpers for writing consistent HTTP responses.
//
// Success responses carry a person or a list of persons. Error responses
// with a body always use the same envelope:
//
//	{ "status": "error", "error": "request body is empty" }
//
// 404 on update and 204 on delete have no body; WriteStatus covers those.
package response

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Response is the standard envelope returned for error cases.
type Response struct {
	Status string `json:"status"` // always "error"
	Error  string `json:"error"`  // human-readable error detail
}

// StatusError is the only value Response.Status takes.
const StatusError = "error"

// WriteJSON writes data as JSON with the given HTTP status code.
//
// Order matters: Header() → WriteHeader() → body writes. Once WriteHeader
// is called, headers are locked.
func WriteJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode response",
			slog.Int("status", status),
			slog.String("error", err.Error()))
		return err
	}
	return nil
}

// WriteStatus writes a status line with an empty body.
func WriteStatus(w http.ResponseWriter, status int) {
	w.WriteHeader(status)
}

// GeneralError wraps any Go error into the standard Response shape.
//
//	response.WriteJSON(w, http.StatusInternalServerError,
//	    response.GeneralError(err))
func GeneralError(err error) Response {
	return Response{
		Status: StatusError,
		Error:  err.Error(),
	}
}
