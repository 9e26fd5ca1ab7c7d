package internal

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type ErrorType string

const (
	ErrorTypeValidation        ErrorType = "VALIDATION_ERROR"
	ErrorTypeInvalidTransition ErrorType = "INVALID_TRANSITION"
	ErrorTypeNotFound          ErrorType = "NOT_FOUND"
	ErrorTypeUnauthorized      ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden         ErrorType = "FORBIDDEN"
	ErrorTypeConflict          ErrorType = "CONFLICT"
	ErrorTypeInternal          ErrorType = "INTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed  ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidBody       ErrorCode = "INVALID_BODY"
	ErrCodeInvalidDate       ErrorCode = "INVALID_DATE"
	ErrCodeInvalidRange      ErrorCode = "INVALID_RANGE"
	ErrCodeInvalidTransition ErrorCode = "INVALID_TRANSITION"

	ErrCodePermissionDenied   ErrorCode = "PERMISSION_DENIED"
	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeInvalidToken       ErrorCode = "INVALID_TOKEN"
	ErrCodeTokenExpired       ErrorCode = "TOKEN_EXPIRED"
	ErrCodeEmailInUse         ErrorCode = "EMAIL_IN_USE"

	ErrCodeUserNotFound         ErrorCode = "USER_NOT_FOUND"
	ErrCodeClubNotFound         ErrorCode = "CLUB_NOT_FOUND"
	ErrCodeClubNameTaken        ErrorCode = "CLUB_NAME_TAKEN"
	ErrCodeMembershipNotFound   ErrorCode = "MEMBERSHIP_NOT_FOUND"
	ErrCodeRoleRequestNotFound  ErrorCode = "ROLE_REQUEST_NOT_FOUND"
	ErrCodeRoleRequestPending   ErrorCode = "ROLE_REQUEST_PENDING"
	ErrCodeRoleAlreadyGranted   ErrorCode = "ROLE_ALREADY_GRANTED"
	ErrCodeRoleRequestReviewed  ErrorCode = "ROLE_REQUEST_REVIEWED"
	ErrCodeEventNotFound        ErrorCode = "EVENT_NOT_FOUND"
	ErrCodeReasonRequired       ErrorCode = "REASON_REQUIRED"
	ErrCodeBookingNotFound      ErrorCode = "BOOKING_NOT_FOUND"
	ErrCodeTimeSlotConflict     ErrorCode = "TIME_SLOT_CONFLICT"
	ErrCodeResourceNotFound     ErrorCode = "RESOURCE_NOT_FOUND"
	ErrCodeResourceInactive     ErrorCode = "RESOURCE_INACTIVE"
	ErrCodeResourceNameTaken    ErrorCode = "RESOURCE_NAME_TAKEN"
	ErrCodeRegistrationClosed   ErrorCode = "REGISTRATION_CLOSED"
	ErrCodeNotRegistered        ErrorCode = "NOT_REGISTERED"
	ErrCodeNotificationNotFound ErrorCode = "NOTIFICATION_NOT_FOUND"
)

// AppError is the error type every layer returns for failures the client should see.
type AppError struct {
	Type       ErrorType   `json:"type"`
	Code       ErrorCode   `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	StatusCode int         `json:"-"`
	Cause      error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.GetDetailedMessage(), e.Cause)
	}
	return e.GetDetailedMessage()
}

// GetDetailedMessage returns the message shown to clients. Field validation
// failures are flattened into one sentence naming the offending fields.
func (e *AppError) GetDetailedMessage() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok {
			if len(validationErrors.Errors) == 1 {
				return validationErrors.Errors[0].Message
			} else if len(validationErrors.Errors) > 1 {
				messages := make([]string, len(validationErrors.Errors))
				for i, err := range validationErrors.Errors {
					messages[i] = err.Message
				}
				return strings.Join(messages, "; ")
			}
		}
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches on Code so that sentinel errors survive WithCause copies.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Type == t.Type
}

// WithCause returns a copy of e carrying cause. Sentinels are shared, so they
// are never mutated in place.
func (e *AppError) WithCause(cause error) *AppError {
	cp := *e
	cp.Cause = cause
	return &cp
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	cp := *e
	cp.Details = details
	return &cp
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewValidationFieldError(field, message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       ErrCodeValidationFailed,
		Message:    "Validation failed",
		StatusCode: http.StatusBadRequest,
		Details: ValidationErrors{
			Errors: []ValidationError{
				{Field: field, Message: message, Code: string(code)},
			},
		},
	}
}

// NewInvalidTransitionError is returned when a lifecycle action is attempted
// from the wrong source state. The message names the required state.
func NewInvalidTransitionError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeInvalidTransition,
		Code:       ErrCodeInvalidTransition,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

func NewUnauthorizedError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeUnauthorized,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

func NewForbiddenError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeForbidden,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       "INTERNAL_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

func NewConflictError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

var (
	ErrPermissionDenied   = NewForbiddenError("You don't have permission to perform this action.", ErrCodePermissionDenied)
	ErrInvalidCredentials = NewUnauthorizedError("Invalid credentials.", ErrCodeInvalidCredentials)
	ErrInvalidToken       = NewUnauthorizedError("Invalid token.", ErrCodeInvalidToken)
	ErrTokenExpired       = NewUnauthorizedError("Token has expired.", ErrCodeTokenExpired)
	ErrInvalidBody        = NewValidationError("Invalid request body.", ErrCodeInvalidBody)
)

// Is lets callers that import this package as errors keep using errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// IsAppError reports whether err (or anything it wraps) is an *AppError.
func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ToHTTPResponse converts err into a status code and body. Anything that is
// not an *AppError, or is an internal one, becomes a generic 500.
func ToHTTPResponse(err error) (int, ErrorResponse) {
	appErr, ok := IsAppError(err)
	if !ok || appErr.StatusCode >= http.StatusInternalServerError {
		return http.StatusInternalServerError, ErrorResponse{Error: "Internal server error."}
	}
	return appErr.StatusCode, ErrorResponse{Error: appErr.GetDetailedMessage()}
}
