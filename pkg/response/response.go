// Package response defines the uniform JSON envelope used for every API
// response, success or failure.
package response

import (
	"github.com/PrjctQ/qcore/pkg/apierror"
)

// Envelope is the single response shape. Success is derived from the status
// code range, never set independently.
type Envelope struct {
	Success    bool              `json:"success"`
	StatusCode int               `json:"statusCode"`
	Message    string            `json:"message"`
	Data       any               `json:"data,omitempty"`
	Errors     []apierror.Detail `json:"errors,omitempty"`
	Stack      string            `json:"stack,omitempty"`
}

// New builds an envelope, deriving Success from the status code.
func New(statusCode int, message string, data any) Envelope {
	return Envelope{
		Success:    statusCode < 400,
		StatusCode: statusCode,
		Message:    message,
		Data:       data,
	}
}

// NewError builds a failure envelope with error details.
func NewError(statusCode int, message string, errs []apierror.Detail) Envelope {
	return Envelope{
		Success:    statusCode < 400,
		StatusCode: statusCode,
		Message:    message,
		Errors:     errs,
	}
}
