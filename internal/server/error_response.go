package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/nhle/workstatus/internal/actions"
	"github.com/nhle/workstatus/internal/service"
	"github.com/nhle/workstatus/internal/source"
)

// Error codes carried in the error envelope.
const (
	CodeBadRequest    = "BAD_REQUEST"
	CodeNotFound      = "NOT_FOUND"
	CodeUnknownAction = "UNKNOWN_ACTION"
	CodeForbidden     = "FORBIDDEN"
	CodeConfiguration = "CONFIGURATION"
	CodeUpstreamAuth  = "UPSTREAM_AUTH"
	CodeUpstream      = "UPSTREAM"
	CodeTimeout       = "TIMEOUT"
	CodeInternal      = "INTERNAL"
)

// ErrorBody is the envelope of every error response.
type ErrorBody struct {
	Error ErrorItem `json:"error"`
}

// ErrorItem carries the error code and a human readable message.
type ErrorItem struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// classify maps an error onto an HTTP status and error code. AuthError is
// checked before TransportError since it wraps one.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest, CodeBadRequest
	case errors.Is(err, actions.ErrUnknownAction):
		return http.StatusNotFound, CodeUnknownAction
	case errors.Is(err, actions.ErrWriteNotPermitted):
		return http.StatusForbidden, CodeForbidden
	case source.IsNotFound(err):
		return http.StatusNotFound, CodeNotFound
	case source.IsConfigError(err):
		return http.StatusInternalServerError, CodeConfiguration
	case source.IsAuthError(err):
		return http.StatusBadGateway, CodeUpstreamAuth
	case source.IsTransportError(err):
		return http.StatusBadGateway, CodeUpstream
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, CodeTimeout
	default:
		return http.StatusInternalServerError, CodeInternal
	}
}

// WriteError maps query errors to HTTP statuses and the JSON envelope.
// Unclassified errors are reported as "internal error" without detail.
func WriteError(w http.ResponseWriter, err error) {
	status, code := classify(err)

	msg := "internal error"
	if code != CodeInternal {
		msg = err.Error()
	}

	writeJSON(w, status, ErrorBody{
		Error: ErrorItem{
			Code:    code,
			Message: msg,
		},
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
