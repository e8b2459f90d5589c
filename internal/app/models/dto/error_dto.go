package dto

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/yigit/codetrack/internal/pkg/apperrors"
)

// ErrorCode represents standardized error codes
type ErrorCode string

// Standard error codes for the application
const (
	// Authentication errors
	ErrorCodeInvalidCredentials ErrorCode = "AUTH_001"
	ErrorCodeInvalidToken       ErrorCode = "AUTH_005"
	ErrorCodeExpiredToken       ErrorCode = "AUTH_006"
	ErrorCodeUnauthorized       ErrorCode = "AUTH_008"
	ErrorCodeAccountDisabled    ErrorCode = "AUTH_009"

	// Authorization errors
	ErrorCodeForbidden        ErrorCode = "ACC_001"
	ErrorCodePermissionDenied ErrorCode = "ACC_002"

	// Resource errors
	ErrorCodeResourceNotFound ErrorCode = "RES_001"
	ErrorCodeConflict         ErrorCode = "RES_004"
	ErrorCodeInvalidTarget    ErrorCode = "RES_005"

	// Validation errors
	ErrorCodeValidationFailed ErrorCode = "VAL_001"
	ErrorCodeInvalidRequest   ErrorCode = "VAL_002"

	// Server errors
	ErrorCodeInternalServer ErrorCode = "SRV_001"
)

// ErrorDetail represents detailed error information
type ErrorDetail struct {
	Code    ErrorCode      `json:"code" example:"RES_001"`
	Kind    apperrors.Kind `json:"kind" example:"NotFound"`
	Message string         `json:"message" example:"department not found"`
	Field   string         `json:"field,omitempty" example:"email"`
	Details interface{}    `json:"details,omitempty"`
}

// ErrorResponse represents the standard error response structure
type ErrorResponse struct {
	Success   bool         `json:"success" example:"false"`
	Error     *ErrorDetail `json:"error"`
	Timestamp time.Time    `json:"timestamp" example:"2025-04-23T12:01:05.123Z"`
}

// NewErrorDetail creates a new error detail
func NewErrorDetail(code ErrorCode, kind apperrors.Kind, message string) *ErrorDetail {
	return &ErrorDetail{
		Code:    code,
		Kind:    kind,
		Message: message,
	}
}

// WithField adds a field name to the error detail
func (e *ErrorDetail) WithField(field string) *ErrorDetail {
	e.Field = field
	return e
}

// WithDetails adds additional details to the error
func (e *ErrorDetail) WithDetails(details interface{}) *ErrorDetail {
	e.Details = details
	return e
}

// NewErrorResponse creates a standard error response
func NewErrorResponse(errorDetail *ErrorDetail) *ErrorResponse {
	return &ErrorResponse{
		Success:   false,
		Error:     errorDetail,
		Timestamp: time.Now(),
	}
}

// CodeForKind maps an outcome kind to its public error code
func CodeForKind(kind apperrors.Kind) ErrorCode {
	switch kind {
	case apperrors.KindNotFound:
		return ErrorCodeResourceNotFound
	case apperrors.KindForbidden:
		return ErrorCodeForbidden
	case apperrors.KindPermissionDenied:
		return ErrorCodePermissionDenied
	case apperrors.KindConflict:
		return ErrorCodeConflict
	case apperrors.KindInvalidTarget:
		return ErrorCodeInvalidTarget
	case apperrors.KindValidation:
		return ErrorCodeValidationFailed
	case apperrors.KindUnauthenticated:
		return ErrorCodeUnauthorized
	default:
		return ErrorCodeInternalServer
	}
}

// FieldError is one failed request field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// HandleValidationError turns a binding failure into an error detail. Validator
// failures are listed per field; anything else is reported as a malformed body.
func HandleValidationError(err error) *ErrorDetail {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return NewErrorDetail(ErrorCodeInvalidRequest, apperrors.KindValidation, "Invalid request format").
			WithDetails(err.Error())
	}

	fields := make([]FieldError, 0, len(verrs))
	names := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, FieldError{Field: fe.Field(), Message: formatFieldError(fe)})
		names = append(names, fe.Field())
	}
	detail := NewErrorDetail(ErrorCodeValidationFailed, apperrors.KindValidation,
		fmt.Sprintf("validation failed for %s", strings.Join(names, ", ")))
	if len(fields) == 1 {
		detail.WithField(fields[0].Field)
	}
	return detail.WithDetails(fields)
}

func formatFieldError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "min":
		return e.Field() + " must be at least " + e.Param()
	case "max":
		return e.Field() + " must be at most " + e.Param()
	case "gt":
		return e.Field() + " must be greater than " + e.Param()
	case "gte":
		return e.Field() + " must be at least " + e.Param()
	case "email":
		return e.Field() + " must be a valid email address"
	case "oneof":
		return e.Field() + " must be one of: " + e.Param()
	case "datetime":
		return e.Field() + " must match the layout " + e.Param()
	default:
		return e.Field() + " validation failed: " + e.Tag()
	}
}
