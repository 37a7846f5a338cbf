package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/adilzhan-s/lostfound/internal/apperrors"
)

// Every endpoint answers with this envelope: a success flag, a human-readable
// message and any payload fields merged in.
type apiResponse map[string]interface{}

func respondJSON(w http.ResponseWriter, status int, payload apiResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondOK(w http.ResponseWriter, message string, extra apiResponse) {
	payload := apiResponse{"success": true, "message": message}
	for k, v := range extra {
		payload[k] = v
	}
	respondJSON(w, http.StatusOK, payload)
}

// respondError translates a classified error into its HTTP status. The
// client-facing message comes from the caller, not from the raw error chain.
func respondError(w http.ResponseWriter, err error, message string) {
	respondJSON(w, apperrors.HTTPStatus(err), apiResponse{
		"success": false,
		"message": message,
	})
}
