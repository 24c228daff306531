package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"sync_relay/internal/upstream"
)

// Error kinds surfaced in the JSON error envelope.
const (
	kindMissingCredential = "missing_credential"
	kindMissingParameter  = "missing_parameter"
	kindUpstreamError     = "upstream_error"
	kindTransportError    = "transport_error"
	kindInternalError     = "internal_error"
)

type errorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, kind, message, code string) {
	writeJSON(w, status, errorEnvelope{Error: errorBody{
		Kind:    kind,
		Message: message,
		Code:    code,
	}})
}

// writeServiceError maps pipeline failures onto the error envelope.
// Upstream rejections keep their original status so the caller can
// retry or diagnose; network failures become 502.
func writeServiceError(w http.ResponseWriter, err error) {
	var upErr *upstream.Error
	if errors.As(err, &upErr) {
		writeError(w, upErr.Status, kindUpstreamError, upErr.Message, upErr.Code)
		return
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) || errors.Is(err, context.DeadlineExceeded) {
		writeError(w, http.StatusBadGateway, kindTransportError, err.Error(), "")
		return
	}

	writeError(w, http.StatusInternalServerError, kindInternalError, err.Error(), "")
}
