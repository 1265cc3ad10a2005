package util

import (
	"errors"
	"fmt"
)

// Error codes used across the access-control core. Every error the core
// returns is a *DomainError carrying one of these codes so callers can
// react without matching on message strings.
const (
	CodeNoSession          = "NO_SESSION"
	CodeTokenExpired       = "TOKEN_EXPIRED"
	CodeTokenInvalid       = "TOKEN_INVALID"
	CodeTokenRevoked       = "TOKEN_REVOKED"
	CodeUnknownSubject     = "UNKNOWN_SUBJECT"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeTokenSigning       = "TOKEN_SIGNING_FAILED"
	CodePermissionDenied   = "PERMISSION_DENIED"
	CodeMissingRelation    = "MISSING_REQUIRED_RELATION"
	CodeRelationViolation  = "RELATIONSHIP_VIOLATION"
	CodeValidationFailed   = "VALIDATION_FAILED"
	CodeNotFound           = "NOT_FOUND"
	CodeInvalidField       = "INVALID_FIELD"
	CodeInvalidFilter      = "INVALID_FILTER_VALUE"
	CodeConflict           = "CONFLICT"
	CodeInternal           = "INTERNAL_ERROR"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code    string
	Message string
	Details map[string]any
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, Details: details}
}

func NewNoSession(message string) error {
	return NewDomainError(CodeNoSession, message, nil)
}

func NewTokenExpired() error {
	return NewDomainError(CodeTokenExpired, "token has expired, please log in again", nil)
}

func NewTokenInvalid() error {
	return NewDomainError(CodeTokenInvalid, "invalid token, please log in again", nil)
}

func NewTokenRevoked() error {
	return NewDomainError(CodeTokenRevoked, "token has been revoked, please log in again", nil)
}

func NewUnknownSubject() error {
	return NewDomainError(CodeUnknownSubject, "unauthorized token for this action", nil)
}

func NewInvalidCredentials() error {
	return NewDomainError(CodeInvalidCredentials, "invalid credentials", nil)
}

func NewTokenSigning(err error) error {
	return &DomainError{
		Code:    CodeTokenSigning,
		Message: "failed to generate authentication token",
		Err:     err,
	}
}

func NewPermissionDenied(message string) error {
	return NewDomainError(CodePermissionDenied, message, nil)
}

func NewMissingRelation(message string) error {
	return NewDomainError(CodeMissingRelation, message, nil)
}

func NewRelationViolation(message string) error {
	return NewDomainError(CodeRelationViolation, message, nil)
}

func NewValidationFailed(details map[string]any) error {
	return NewDomainError(CodeValidationFailed, "validation failed", details)
}

func NewNotFound(resource string) error {
	return NewDomainError(CodeNotFound, fmt.Sprintf("%s not found", resource), nil)
}

func NewInvalidField(message string) error {
	return NewDomainError(CodeInvalidField, message, nil)
}

func NewInvalidFilter(message string) error {
	return NewDomainError(CodeInvalidFilter, message, nil)
}

func NewConflict(message string) error {
	return NewDomainError(CodeConflict, message, nil)
}

func NewInternalError(err error) error {
	return &DomainError{Code: CodeInternal, Message: "internal error", Err: err}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return &DomainError{Code: CodeInternal, Message: "internal error", Err: err}
}

// HasCode reports whether err carries the given domain error code.
func HasCode(err error, code string) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == code
	}
	return false
}
