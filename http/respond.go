package http

import (
	"encoding/json"
	"net/http"
)

type errorResponse struct {
	Code   string   `json:"code"`
	Error  string   `json:"error"`
	Fields []string `json:"fields,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func respondError(w http.ResponseWriter, status int, code, msg string) {
	respondJSON(w, status, errorResponse{Code: code, Error: msg})
}
