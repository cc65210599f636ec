package utils

import (
	"encoding/json"
	"net/http"
)

type detailResponse struct {
	Detail any `json:"detail"`
}

func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(detailResponse{Detail: data}); err != nil {
		http.Error(w, "failed to encode JSON response", http.StatusInternalServerError)
	}
}
