package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/tegglabs/agentrt/agent"
)

const (
	errorCodeNotFound        = "not_found"
	errorCodeInvalidArgument = "invalid_argument"
	errorCodeIllegalState    = "illegal_state"
	errorCodeExecError       = "exec_error"
	errorCodeTimeout         = "timeout"
	errorCodeInternal        = "internal_error"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiErrorResponse struct {
	Error apiError `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeMappedError(w http.ResponseWriter, err error) {
	status, code := mapError(err)
	writeJSON(w, status, apiErrorResponse{Error: apiError{Code: code, Message: err.Error()}})
}

func decodeJSONBody(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid JSON body: %v", agent.ErrInvalidArgument, err)
	}
	return nil
}

// mapError maps a handler error to an HTTP status and a stable error code.
// The spec leaves NotFound/IllegalState's HTTP mapping to the implementer;
// this binding maps them to 404/409 rather than the default-host 500,
// matching ordinary REST expectations (see DESIGN.md's Open Question
// resolutions).
func mapError(err error) (status int, code string) {
	switch {
	case errors.Is(err, agent.ErrNotFound):
		return http.StatusNotFound, errorCodeNotFound
	case errors.Is(err, agent.ErrIllegalState):
		return http.StatusConflict, errorCodeIllegalState
	case errors.Is(err, agent.ErrInvalidArgument):
		return http.StatusBadRequest, errorCodeInvalidArgument
	case errors.Is(err, agent.ErrExecFailed):
		return http.StatusInternalServerError, errorCodeExecError
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusRequestTimeout, errorCodeTimeout
	default:
		return http.StatusInternalServerError, errorCodeInternal
	}
}
