package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// errorDetail mirrors the {"detail": "..."} failure payload shape.
type errorDetail struct {
	Detail string `json:"detail"`
}

// errorMessage is the {"error": "..."} shape used for unsupported uploads.
type errorMessage struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Failed to encode response body", "error", err)
	}
}

func methodNotAllowed(w http.ResponseWriter, allow string) {
	w.Header().Set("Allow", allow)
	writeJSON(w, http.StatusMethodNotAllowed, errorDetail{Detail: "method not allowed"})
}
