package web

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/hpungsan/sprig/internal/errors"
)

// maxBodyBytes caps request bodies; a prompt is free text but not a file.
const maxBodyBytes = 1 << 20

// renderJSON writes a JSON response.
func renderJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// renderError writes err as {"error": {code, message, status[, details]}}.
// Errors that are not SprigErrors are reported as INTERNAL without their cause.
func renderError(w http.ResponseWriter, err error) {
	sErr, ok := errors.As(err)
	if !ok {
		sErr = errors.NewInternal(err)
	}

	errorObj := map[string]any{
		"code":    string(sErr.Code),
		"message": sErr.Message,
		"status":  sErr.Status,
	}
	if sErr.Code != errors.ErrInternal && sErr.Details != nil {
		errorObj["details"] = sErr.Details
	}
	renderJSON(w, sErr.Status, map[string]any{"error": errorObj})
}

// decodeBody decodes a JSON request body into T, rejecting unknown fields
// and trailing data.
func decodeBody[T any](w http.ResponseWriter, r *http.Request) (T, error) {
	var out T
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&out); err != nil {
		if err == io.EOF {
			return out, errors.NewInvalidRequest("request body is required")
		}
		return out, errors.NewInvalidRequest(fmt.Sprintf("invalid JSON body: %v", err))
	}
	if dec.More() {
		return out, errors.NewInvalidRequest("request body must contain a single JSON object")
	}
	return out, nil
}
