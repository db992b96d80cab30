package middleware

import (
	"encoding/json"
	"net/http"

	"session-auth/internal/model"
)

func writeJSONError(w http.ResponseWriter, status int, body model.ErrorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
