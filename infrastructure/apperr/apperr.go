// Package apperr defines the error taxonomy surfaced at the request
// boundary: validation, permission, not-found and integrity failures, each
// with a stable machine-readable code. Driver/constraint messages never leak
// to users; they are mapped to codes at the write boundary.
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

const (
	CodeValidation       = "validation_error"
	CodePermissionDenied = "permission_denied"
	CodeNotFound         = "not_found"
	CodeIntegrity        = "integrity_conflict"

	CodeDuplicateCompany  = "duplicate_company"
	CodeDuplicateUsername = "duplicate_username"
	CodeDuplicateMensual  = "duplicate_monthly_summary"
)

// Error carries a stable code, a user-presentable message and the wrapped
// cause (for logs only).
type Error struct {
	Code    string
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

func Validation(msg string) *Error {
	return &Error{Code: CodeValidation, Message: msg}
}

func PermissionDenied(msg string) *Error {
	return &Error{Code: CodePermissionDenied, Message: msg}
}

func NotFound(msg string) *Error {
	return &Error{Code: CodeNotFound, Message: msg}
}

func Integrity(code, msg string, cause error) *Error {
	if code == "" {
		code = CodeIntegrity
	}
	return &Error{Code: code, Message: msg, cause: cause}
}

// CodeOf extracts the stable code from err, or "" when err is not an
// app error.
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// MessageOf extracts the user-presentable message, falling back to a
// generic one so internal detail never reaches the client.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "operation failed"
}

func IsValidation(err error) bool       { return CodeOf(err) == CodeValidation }
func IsPermissionDenied(err error) bool { return CodeOf(err) == CodePermissionDenied }

func IsNotFound(err error) bool { return CodeOf(err) == CodeNotFound }

// IsIntegrity reports whether err is any integrity-class failure.
func IsIntegrity(err error) bool {
	switch CodeOf(err) {
	case CodeIntegrity, CodeDuplicateCompany, CodeDuplicateUsername, CodeDuplicateMensual:
		return true
	default:
		return false
	}
}

// FromSQLite converts a go-sqlite3 constraint failure into a stable-coded
// integrity error. Unknown errors pass through unchanged.
func FromSQLite(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	if !strings.Contains(msg, "constraint failed") && !strings.Contains(msg, "FOREIGN KEY constraint") {
		return err
	}
	switch {
	case strings.Contains(msg, "companies.name"):
		return Integrity(CodeDuplicateCompany, "company name is already registered", err)
	case strings.Contains(msg, "users.company_id, users.username"), strings.Contains(msg, "users.username"):
		return Integrity(CodeDuplicateUsername, "username is already taken", err)
	case strings.Contains(msg, "partes_mensuales.user_id"):
		return Integrity(CodeDuplicateMensual, "monthly summary already exists for that period", err)
	default:
		return Integrity(CodeIntegrity, "the change conflicts with existing data", err)
	}
}
