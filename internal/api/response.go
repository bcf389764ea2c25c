package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/copydesk/copydesk/internal/domain"
)

// SuccessResponse is the envelope every successful endpoint returns.
type SuccessResponse struct {
	Data interface{} `json:"data"`
}

// ErrorResponse is the envelope every failed endpoint returns.
type ErrorResponse struct {
	Error string `json:"error"`
}

var statusByCode = map[string]int{
	domain.ErrCodeValidation:       http.StatusBadRequest,
	domain.ErrCodeInvalidOperation: http.StatusBadRequest,
	domain.ErrCodeNotFound:         http.StatusNotFound,
	domain.ErrCodeAlreadyExists:    http.StatusConflict,
	domain.ErrCodeUnauthorized:     http.StatusUnauthorized,
	domain.ErrCodeForbidden:        http.StatusForbidden,
	domain.ErrCodeUnavailable:      http.StatusServiceUnavailable,
	domain.ErrCodeInternalError:    http.StatusInternalServerError,
}

// JSON writes data as a JSON body with the given status. Nil data writes
// headers only.
func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// Success writes data wrapped in the {"data": ...} envelope.
func Success(w http.ResponseWriter, status int, data interface{}) {
	JSON(w, status, SuccessResponse{Data: data})
}

// Error writes message wrapped in the {"error": ...} envelope.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, ErrorResponse{Error: message})
}

// DomainErrorToHTTP resolves the HTTP status for an error. Domain error
// codes map to their conventional statuses; anything unrecognized is a 500.
func DomainErrorToHTTP(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		if status, ok := statusByCode[domainErr.Code]; ok {
			return status
		}
	}
	return http.StatusInternalServerError
}

// HandleError writes err in the error envelope with its mapped status.
func HandleError(w http.ResponseWriter, err error) {
	Error(w, DomainErrorToHTTP(err), err.Error())
}
