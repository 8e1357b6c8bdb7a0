package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Helper functions shared by all handlers

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}

// respondNotFound writes the 404 shape with a hint describing the failed query
func respondNotFound(w http.ResponseWriter, message, hint string) {
	respondJSON(w, http.StatusNotFound, map[string]string{
		"error": message,
		"hint":  hint,
	})
}

// cacheControl sets a public max-age header on read responses
func cacheControl(w http.ResponseWriter, seconds int) {
	w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", seconds))
}
