// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 DocuMind Contributors

package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/documind/documind/pkg/errutil"
)

// envelope is the uniform response shape for every endpoint.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// writeData writes a success envelope.
func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{Success: true, Data: data})
}

// writeError writes a failure envelope with a client-safe message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{Success: false, Error: message})
}

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	//nolint:errcheck // response write error means the client is gone
	json.NewEncoder(w).Encode(body)
}

// statusByCode maps service error codes to HTTP statuses. Codes absent from
// the map are treated as internal failures and never echo their message.
var statusByCode = map[string]int{
	"AUTH_MISSING_CREDENTIALS": http.StatusBadRequest,
	"AUTH_MISSING_FIELDS":      http.StatusBadRequest,
	"AUTH_INVALID_EMAIL":       http.StatusBadRequest,
	"AUTH_INVALID_NAME":        http.StatusBadRequest,
	"AUTH_INVALID_ROLE":        http.StatusBadRequest,
	"AUTH_WEAK_PASSWORD":       http.StatusBadRequest,
	"AUTH_EMAIL_TAKEN":         http.StatusBadRequest,
	"AUTH_INVALID_CREDENTIALS": http.StatusUnauthorized,
	"AUTH_USER_NOT_FOUND":      http.StatusNotFound,
}

// writeServiceError translates a service-layer error into an envelope. Mapped
// codes carry their own user-facing message; everything else becomes a
// logged 500 with a generic body.
func writeServiceError(w http.ResponseWriter, logger *slog.Logger, err error) {
	if status, mapped := statusByCode[errutil.Code(err)]; mapped {
		writeError(w, status, err.Error())
		return
	}
	errutil.LogError(logger, "request failed", err)
	writeError(w, http.StatusInternalServerError, "Internal server error")
}
