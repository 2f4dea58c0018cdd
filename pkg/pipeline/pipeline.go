// Package pipeline normalizes heterogeneous errors into the uniform API error
// envelope. Classification is an exhaustive typed match over a closed set of
// error kinds rather than an ordered predicate scan, so no category can be
// shadowed by an earlier rule.
package pipeline

import (
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"regexp"
	"runtime/debug"
	"strings"

	"github.com/PrjctQ/qcore/pkg/apierror"
	"github.com/PrjctQ/qcore/pkg/response"
	"github.com/PrjctQ/qcore/pkg/schema"
	"gorm.io/gorm"
)

var (
	// Postgres: duplicate key value violates unique constraint "users_email_key"
	pgUniqueRe = regexp.MustCompile(`unique constraint "([^"]+)"`)
	// SQLite: UNIQUE constraint failed: users.email
	sqliteUniqueRe = regexp.MustCompile(`UNIQUE constraint failed: (\S+)`)
	// Postgres: violates foreign key constraint "orders_user_id_fkey"
	pgFKRe = regexp.MustCompile(`foreign key constraint "([^"]+)"`)
)

// Normalize classifies err into the uniform error envelope. The stack trace
// is attached only when includeStack is set (non-production mode).
func Normalize(err error, includeStack bool) response.Envelope {
	env := classify(err)
	if includeStack && env.StatusCode >= http.StatusInternalServerError {
		env.Stack = string(debug.Stack())
	}
	return env
}

// NormalizeRecovered converts a recovered panic value into the envelope,
// carrying the panic-site stack when includeStack is set.
func NormalizeRecovered(recovered any, stack []byte, includeStack bool) response.Envelope {
	if err, ok := recovered.(error); ok {
		env := classify(err)
		if includeStack {
			env.Stack = string(stack)
		}
		return env
	}

	env := response.NewError(
		http.StatusInternalServerError,
		"An unexpected error occurred",
		[]apierror.Detail{{
			Message: "An unexpected error occurred",
			Code:    apierror.CodeUnknownError,
		}},
	)
	if includeStack {
		env.Stack = string(stack)
	}
	return env
}

func classify(err error) response.Envelope {
	// Domain-raised API error: carries its own status, message and path.
	var apiErr *apierror.APIError
	if errors.As(err, &apiErr) {
		return response.NewError(apiErr.StatusCode, apiErr.Message, []apierror.Detail{apiErr.Detail()})
	}

	// Schema validation failure with per-field details.
	var valErr *schema.ValidationError
	if errors.As(err, &valErr) {
		return response.NewError(http.StatusBadRequest, "Validation failed", valErr.Details)
	}

	// Malformed JSON request body.
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) ||
		errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
		return detail(http.StatusBadRequest, "Malformed JSON in request body", "", apierror.CodeBadRequest)
	}

	// Record lookups that escaped the DAO's nil-on-missing contract.
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return detail(http.StatusNotFound, "Entity not found", "", apierror.CodeResourceNotFound)
	}

	if path, ok := duplicateKeyPath(err); ok {
		return detail(http.StatusConflict, "Duplicate entry", path, apierror.CodeDuplicateEntry)
	}

	if path, ok := foreignKeyPath(err); ok {
		return detail(http.StatusConflict, "Foreign key constraint violated", path, apierror.CodeForeignKeyViolation)
	}

	if isUnavailable(err) {
		return detail(http.StatusServiceUnavailable, "Database unavailable", "", apierror.CodeDatabaseError)
	}

	if isDatabaseError(err) {
		return detail(http.StatusInternalServerError, "Database error", "", apierror.CodeDatabaseError)
	}

	return detail(http.StatusInternalServerError, "An unexpected error occurred", "", apierror.CodeInternalError)
}

func detail(status int, message, path string, code apierror.Code) response.Envelope {
	return response.NewError(status, message, []apierror.Detail{{
		Path:    path,
		Message: message,
		Code:    code,
	}})
}

// duplicateKeyPath reports whether err is a unique constraint violation and
// derives the offending field from the constraint name when possible.
func duplicateKeyPath(err error) (string, bool) {
	if err == nil {
		return "", false
	}
	msg := err.Error()

	if m := sqliteUniqueRe.FindStringSubmatch(msg); m != nil {
		// "table.column" -> "column"
		parts := strings.Split(m[1], ".")
		return strings.TrimSuffix(parts[len(parts)-1], ","), true
	}
	if m := pgUniqueRe.FindStringSubmatch(msg); m != nil {
		return fieldFromConstraint(m[1]), true
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return "", true
	}
	return "", false
}

func foreignKeyPath(err error) (string, bool) {
	if err == nil {
		return "", false
	}
	msg := err.Error()

	if m := pgFKRe.FindStringSubmatch(msg); m != nil {
		return fieldFromConstraint(m[1]), true
	}
	if strings.Contains(msg, "FOREIGN KEY constraint failed") {
		return "", true
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return "", true
	}
	return "", false
}

// fieldFromConstraint strips the conventional "<table>_<field>_key" /
// "<table>_<field>_fkey" shape down to the field name. Unconventional names
// pass through untouched.
func fieldFromConstraint(name string) string {
	name = strings.TrimSuffix(name, "_fkey")
	name = strings.TrimSuffix(name, "_key")
	if idx := strings.Index(name, "_"); idx >= 0 {
		return name[idx+1:]
	}
	return name
}

func isUnavailable(err error) bool {
	if errors.Is(err, gorm.ErrInvalidDB) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	return strings.Contains(err.Error(), "connection refused")
}

func isDatabaseError(err error) bool {
	for _, sentinel := range []error{
		gorm.ErrInvalidTransaction,
		gorm.ErrInvalidData,
		gorm.ErrInvalidField,
		gorm.ErrInvalidValue,
		gorm.ErrMissingWhereClause,
		gorm.ErrUnsupportedDriver,
		gorm.ErrPrimaryKeyRequired,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return strings.Contains(err.Error(), "SQLSTATE")
}
