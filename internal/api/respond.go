// internal/api/respond.go
package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	apperrors "site-builder/internal/common/errors"
)

const maxBodyBytes = 1 << 20

type errorBody struct {
	Success bool                `json:"success"`
	Error   string              `json:"error"`
	Code    apperrors.ErrorCode `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps StandardErrors to their HTTP status; anything else is a 500.
func writeError(w http.ResponseWriter, err error) {
	stdErr, ok := apperrors.AsStandardError(err)
	if !ok {
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
		return
	}
	msg := stdErr.Message
	if stdErr.Details != "" {
		msg = stdErr.Details
	}
	writeJSON(w, apperrors.HTTPStatus(stdErr.Code), errorBody{Error: msg, Code: stdErr.Code})
}

func readBody(r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if err != nil {
		return nil, apperrors.NewValidationError(fmt.Sprintf("read body: %v", err))
	}
	if len(body) > maxBodyBytes {
		return nil, apperrors.NewValidationError("request body too large")
	}
	return body, nil
}

func decodeJSON(r *http.Request, v interface{}) error {
	body, err := readBody(r)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return apperrors.NewValidationError(fmt.Sprintf("invalid JSON body: %v", err))
	}
	return nil
}
