package domain

import "fmt"

// DomainError represents a domain-specific error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new DomainError
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     nil,
	}
}

// NewDomainErrorWithCause creates a new DomainError with an underlying cause
func NewDomainErrorWithCause(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain error codes
const (
	ErrCodeValidation       = "VALIDATION_ERROR"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeAlreadyExists    = "ALREADY_EXISTS"
	ErrCodeUnauthorized     = "UNAUTHORIZED"
	ErrCodeForbidden        = "FORBIDDEN"
	ErrCodeInternalError    = "INTERNAL_ERROR"
	ErrCodeInvalidOperation = "INVALID_OPERATION"
	ErrCodeUnavailable      = "UNAVAILABLE"
)

// Validation errors
var (
	ErrInvalidDocumentCategory = NewDomainError(ErrCodeValidation, "invalid document category")
	ErrInvalidComponentType    = NewDomainError(ErrCodeValidation, "invalid component type")
	ErrInvalidPatternSource    = NewDomainError(ErrCodeValidation, "invalid pattern source")
	ErrInvalidEmbedding        = NewDomainError(ErrCodeValidation, "stored embedding is malformed")
	ErrMissingRequiredField    = NewDomainError(ErrCodeValidation, "missing required field")
)

// Not found errors
var (
	ErrWorkspaceNotFound = NewDomainError(ErrCodeNotFound, "workspace not found")
	ErrDocumentNotFound  = NewDomainError(ErrCodeNotFound, "document not found")
	ErrPatternNotFound   = NewDomainError(ErrCodeNotFound, "pattern not found")
	ErrChunkNotFound     = NewDomainError(ErrCodeNotFound, "chunk not found")
)

// Operation errors
var (
	ErrWorkspaceArchived     = NewDomainError(ErrCodeInvalidOperation, "workspace is archived")
	ErrCannotDeleteWorkspace = NewDomainError(ErrCodeInvalidOperation, "cannot delete workspace, archive it instead")
	ErrCannotDeleteDocument  = NewDomainError(ErrCodeInvalidOperation, "cannot delete document, deactivate it instead")
)

// Availability errors
var (
	ErrStoreUnavailable = NewDomainError(ErrCodeUnavailable, "persistence store unavailable")
)
