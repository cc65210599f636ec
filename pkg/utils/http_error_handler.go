package utils

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"
)

type errorBody struct {
	Error string `json:"error"`
}

type errorResponse struct {
	Detail errorBody `json:"detail"`
}

func WriteError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(errorResponse{
		Detail: errorBody{Error: message},
	})
}

// WriteAppError maps err to a status and writes it. Server errors are logged
// with their cause; client errors are not.
func WriteAppError(w http.ResponseWriter, r *http.Request, logger *logrus.Logger, err error) {
	status, message := StatusOf(err)
	if status >= http.StatusInternalServerError {
		logger.WithFields(logrus.Fields{
			"error":  err.Error(),
			"method": r.Method,
			"path":   r.URL.Path,
		}).Error(message)
	}
	WriteError(w, message, status)
}
