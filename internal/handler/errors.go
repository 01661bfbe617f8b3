package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"coffeeblog/internal/apperror"
	"coffeeblog/internal/models"
)

// Response is the envelope every endpoint answers with.
type Response struct {
	Success    bool               `json:"success"`
	Data       interface{}        `json:"data,omitempty"`
	Pagination *models.Pagination `json:"pagination,omitempty"`
	Message    string             `json:"message,omitempty"`
	Errors     map[string]string  `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, statusCode int, body Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}

func WriteData(w http.ResponseWriter, statusCode int, data interface{}) {
	writeJSON(w, statusCode, Response{Success: true, Data: data})
}

func WritePage(w http.ResponseWriter, data interface{}, pagination models.Pagination) {
	writeJSON(w, http.StatusOK, Response{Success: true, Data: data, Pagination: &pagination})
}

func WriteMessage(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, Response{Success: true, Message: message})
}

func WriteError(w http.ResponseWriter, message string, statusCode int) {
	writeJSON(w, statusCode, Response{Success: false, Message: message})
}

// WriteAppError maps a classified domain error onto its HTTP status.
func WriteAppError(w http.ResponseWriter, err error) {
	kind := apperror.KindOf(err)

	status := http.StatusInternalServerError
	switch kind {
	case apperror.KindValidation, apperror.KindDuplicateSlug,
		apperror.KindInvalidCategory, apperror.KindInvalidRating:
		status = http.StatusBadRequest
	case apperror.KindNotFound:
		status = http.StatusNotFound
	case apperror.KindForbidden:
		status = http.StatusForbidden
	case apperror.KindConflict:
		status = http.StatusConflict
	}

	message := err.Error()
	if kind == apperror.KindUnexpected {
		message = "internal server error"
	}

	writeJSON(w, status, Response{
		Success: false,
		Message: message,
		Errors:  apperror.FieldsOf(err),
	})
}

// writeValidationError flattens validator.v10 output into the same
// field map shape the service layer produces.
func (h *Handlers) writeValidationError(w http.ResponseWriter, err error) {
	fields := map[string]string{}
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, fieldError := range validationErrors {
			fields[fieldError.Field()] = "failed validation on " + fieldError.Tag()
		}
	}

	writeJSON(w, http.StatusBadRequest, Response{
		Success: false,
		Message: "invalid request payload",
		Errors:  fields,
	})
}
