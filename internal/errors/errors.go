package errors

import (
	"fmt"
	"net/http"
	"time"
)

// ErrorType represents the type of error
type ErrorType uint

const (
	ErrorTypeUnknown ErrorType = iota
	ErrorTypeValidation
	ErrorTypeInvalidAmount
	ErrorTypeInsufficientFunds
	ErrorTypeNotFound
	ErrorTypeInternal
)

// Error represents a custom error with additional context
type Error struct {
	Type       ErrorType
	Message    string
	Details    map[string]interface{}
	Err        error
	StatusCode int
	ErrorCode  string
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Err
}

// Is implements error comparison by type
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// NewError creates a new custom error
func NewError(errType ErrorType, message string, err error) *Error {
	return &Error{
		Type:       errType,
		Message:    message,
		Err:        err,
		StatusCode: errorTypeToStatusCode(errType),
		ErrorCode:  errorTypeToCode(errType),
		Details:    make(map[string]interface{}),
	}
}

// WithDetails adds context details to the error
func (e *Error) WithDetails(details map[string]interface{}) *Error {
	e.Details = details
	return e
}

func NewValidationError(message string, err error) *Error {
	return NewError(ErrorTypeValidation, message, err)
}

func NewNotFoundError(message string, err error) *Error {
	return NewError(ErrorTypeNotFound, message, err)
}

func NewInternalError(message string, err error) *Error {
	return NewError(ErrorTypeInternal, message, err)
}

func errorTypeToStatusCode(errType ErrorType) int {
	switch errType {
	case ErrorTypeValidation, ErrorTypeInvalidAmount, ErrorTypeInsufficientFunds:
		return http.StatusBadRequest
	case ErrorTypeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func errorTypeToCode(errType ErrorType) string {
	switch errType {
	case ErrorTypeValidation:
		return "VALIDATION_ERROR"
	case ErrorTypeInvalidAmount:
		return "INVALID_AMOUNT"
	case ErrorTypeInsufficientFunds:
		return "INSUFFICIENT_FUNDS"
	case ErrorTypeNotFound:
		return "NOT_FOUND"
	case ErrorTypeInternal:
		return "INTERNAL_ERROR"
	default:
		return "UNKNOWN_ERROR"
	}
}

// Domain-specific error constructors

func NewUserNotFoundError(userID int64) *Error {
	return NewNotFoundError("User not found", nil).WithDetails(map[string]interface{}{
		"user_id": userID,
	})
}

func NewTrackerNotFoundError(trackerID int64) *Error {
	return NewNotFoundError("Tracker not found", nil).WithDetails(map[string]interface{}{
		"tracker_id": trackerID,
	})
}

func NewInvalidAmountError(message string) *Error {
	return NewError(ErrorTypeInvalidAmount, message, nil)
}

// NewInsufficientFundsError carries both figures so the message shows
// what was available versus what was requested.
func NewInsufficientFundsError(available, requested float64) *Error {
	return NewError(
		ErrorTypeInsufficientFunds,
		fmt.Sprintf("Insufficient funds. Available: %v CLP, Required: %v CLP", available, requested),
		nil,
	).WithDetails(map[string]interface{}{
		"available_clp": available,
		"requested_clp": requested,
	})
}

func NewDatabaseError(operation string, err error) *Error {
	return NewInternalError(
		fmt.Sprintf("Database operation failed: %s", operation),
		err,
	).WithDetails(map[string]interface{}{
		"operation": operation,
	})
}

// ErrorResponse is the JSON body returned to API callers on failure.
type ErrorResponse struct {
	Status    string                 `json:"status"`
	ErrorCode string                 `json:"error_code"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details,omitempty"`
	RequestID string                 `json:"request_id,omitempty"`
	Timestamp int64                  `json:"timestamp"`
}

// NewErrorResponse creates an error response from an Error
func NewErrorResponse(err *Error, requestID string) *ErrorResponse {
	return &ErrorResponse{
		Status:    "error",
		ErrorCode: err.ErrorCode,
		Message:   err.Message,
		Details:   err.Details,
		RequestID: requestID,
		Timestamp: time.Now().Unix(),
	}
}
