package domain

import "errors"

// Common errors used throughout the application.
var (
	ErrNotFound       = errors.New("not found")
	ErrAlreadyExists  = errors.New("already exists")
	ErrInvalidInput   = errors.New("invalid input")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrDuplicateName  = errors.New("group name already exists")
	ErrParentNotFound = errors.New("parent group not found")
	ErrHierarchyCycle = errors.New("cycle in group hierarchy")
)

// Error codes for standardized API error responses.
const (
	ErrCodeGroupAlreadyExists  = "GroupAlreadyExists"
	ErrCodeParentGroupNotFound = "ParentGroupNotFound"
	ErrCodeValidationError     = "ValidationError"
)

// StandardError represents a descriptive client error response.
type StandardError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// StandardErrorResponse wraps a StandardError for JSON responses.
type StandardErrorResponse struct {
	Error StandardError `json:"error"`
}

// APIError represents a generic error response from the API.
type APIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return e.Message
}
