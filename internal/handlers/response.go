package handlers

import (
	"encoding/json"
	"net/http"

	"quizforge-backend/internal/models"
	"quizforge-backend/internal/services"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func errorResp(code, message string, r *http.Request) models.ErrorResponse {
	return models.ErrorResponse{
		Error:     message,
		Code:      code,
		RequestID: r.Header.Get("X-Request-ID"),
	}
}

func errorRespWithFields(code, message string, fields map[string]string, r *http.Request) models.ErrorResponse {
	resp := errorResp(code, message, r)
	resp.Fields = fields
	return resp
}

// handleValidationError writes a 400 carrying the per-field messages.
func handleValidationError(w http.ResponseWriter, r *http.Request, err *services.ValidationError, message string) {
	writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", message, err.Fields, r))
}
