package server

import (
	"encoding/json"
	"net/http"

	"github.com/matzehuels/relayout/pkg/errors"
	"github.com/matzehuels/relayout/pkg/layout"
)

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Code       string             `json:"code"`
	Message    string             `json:"message"`
	Unresolved []layout.EdgeRef   `json:"unresolved,omitempty"`
	Cycles     [][]layout.EdgeRef `json:"cycles,omitempty"`
	Passes     int                `json:"passes,omitempty"`
}

// newErrorResponse converts err to a response body and HTTP status.
func newErrorResponse(err error) (ErrorResponse, int) {
	resp := ErrorResponse{Message: errors.UserMessage(err)}

	var ue *layout.UnresolvedError
	if errors.As(err, &ue) {
		resp.Message = ue.Error()
		resp.Unresolved = ue.Unresolved
		resp.Cycles = ue.Cycles
		resp.Passes = ue.Passes
	}

	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	resp.Code = string(code)
	return resp, statusFor(code)
}

func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidDocument,
		errors.ErrCodeSelfReference, errors.ErrCodeDuplicateComponent, errors.ErrCodeInvalidConstraint,
		errors.ErrCodeUnsupported:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound:
		return http.StatusNotFound
	case errors.ErrCodeUnresolved:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeNetwork:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	resp, status := newErrorResponse(err)
	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func errNotFoundRoute(r *http.Request) error {
	return errors.New(errors.ErrCodeNotFound, "no route for %s %s", r.Method, r.URL.Path)
}
