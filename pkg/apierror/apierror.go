package apierror

import (
	"fmt"
	"net/http"
)

// Detail describes a single failure inside an error response.
type Detail struct {
	Path    string `json:"path"`
	Message string `json:"message"`
	Code    Code   `json:"code"`
}

// APIError is a domain-raised error carrying its own HTTP status. Services
// return it directly when a business rule fails; the error pipeline renders it
// without reclassification.
type APIError struct {
	StatusCode int
	Code       Code
	Message    string
	Path       string
	Err        error // optional cause
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %s", e.Code, e.Message, e.Err.Error())
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// Detail returns the error as a single response detail.
func (e *APIError) Detail() Detail {
	return Detail{Path: e.Path, Message: e.Message, Code: e.Code}
}

// New creates an APIError with an explicit status code.
func New(statusCode int, code Code, path, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		Code:       code,
		Message:    message,
		Path:       path,
	}
}

func NewNotFound(path, message string) *APIError {
	return New(http.StatusNotFound, CodeResourceNotFound, path, message)
}

func NewBadRequest(path, message string) *APIError {
	return New(http.StatusBadRequest, CodeBadRequest, path, message)
}

func NewUnauthorized(message string) *APIError {
	return New(http.StatusUnauthorized, CodeUnauthorized, "", message)
}

func NewForbidden(message string) *APIError {
	return New(http.StatusForbidden, CodeForbidden, "", message)
}

func NewConflict(path, message string) *APIError {
	return New(http.StatusConflict, CodeConflict, path, message)
}

func NewInternal(message string, cause error) *APIError {
	return &APIError{
		StatusCode: http.StatusInternalServerError,
		Code:       CodeInternalError,
		Message:    message,
		Err:        cause,
	}
}
