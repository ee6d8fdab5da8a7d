package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/xavierca1/ligue-crm/internal/usecase"
)

// Authentication lives at the edge; the gateway injects the verified
// account id on this header.
const userHeader = "X-User-ID"

func actingUser(r *http.Request) string {
	return r.Header.Get(userHeader)
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// writeError maps use-case errors onto HTTP statuses. Denial codes are
// client outcomes; anything technical is a 500 with a generic body.
func writeError(w http.ResponseWriter, err error) {
	if de, ok := err.(*usecase.DomainError); ok {
		status := http.StatusUnprocessableEntity
		switch de.Code {
		case usecase.CodePermissionDenied:
			status = http.StatusForbidden
		case usecase.CodeNotFound:
			status = http.StatusNotFound
		case usecase.CodeConflict:
			status = http.StatusConflict
		case usecase.CodeValidation:
			status = http.StatusBadRequest
		}
		writeJSON(w, status, errorResponse{Error: de.Message, Code: de.Code})
		return
	}
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
}
