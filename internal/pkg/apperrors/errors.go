package apperrors

import "errors"

// Error kinds. Every error returned by a service wraps exactly one of these.
var (
	// ErrNotFound means a referenced entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrForbidden means the caller lacks the specific scoped right (wrong department,
	// not the assigned counsellor, not the owner).
	ErrForbidden = errors.New("forbidden")
	// ErrPermissionDenied means the caller's role tier categorically disallows the action.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrConflict covers uniqueness and state machine violations.
	ErrConflict = errors.New("conflict")
	// ErrInvalidTarget means a referenced collaborator does not hold the required role.
	ErrInvalidTarget = errors.New("invalid target")

	ErrValidationFailed = errors.New("validation failed")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrAccountDisabled    = errors.New("account is disabled")
)

// Entity errors
var (
	ErrUserNotFound       = NewCustomError(ErrNotFound, "user not found")
	ErrStudentNotFound    = NewCustomError(ErrNotFound, "student not found")
	ErrDepartmentNotFound = NewCustomError(ErrNotFound, "department not found")
	ErrStaffNotFound      = NewCustomError(ErrNotFound, "staff assignment not found")
	ErrAccountNotFound    = NewCustomError(ErrNotFound, "platform account not found")
	ErrSnapshotNotFound   = NewCustomError(ErrNotFound, "snapshot not found")
	ErrLinkNotFound       = NewCustomError(ErrNotFound, "assignment link not found")

	ErrEmailAlreadyExists       = NewCustomError(ErrConflict, "email already registered")
	ErrDepartmentAlreadyExists  = NewCustomError(ErrConflict, "department code already exists")
	ErrDepartmentHasStudents    = NewCustomError(ErrConflict, "department has assigned students and cannot be deleted")
	ErrDepartmentHeadAssigned   = NewCustomError(ErrConflict, "department already has a head assigned")
	ErrStaffAlreadyAssigned     = NewCustomError(ErrConflict, "user already has a staff assignment")
	ErrPlatformAlreadyLinked    = NewCustomError(ErrConflict, "platform account already linked")
	ErrSnapshotAlreadyExists    = NewCustomError(ErrConflict, "snapshot for this date already exists")
	ErrSnapshotAlreadyReviewed  = NewCustomError(ErrConflict, "snapshot has already been reviewed")
	ErrStudentProfileMissing    = NewCustomError(ErrForbidden, "caller has no student profile")
	ErrStaffDepartmentMissing   = NewCustomError(ErrNotFound, "no department assigned to this staff member")
	ErrInsufficientSnapshotData = NewCustomError(ErrNotFound, "not enough approved snapshots to calculate growth")
)

// Kind names a class of failure in a structured outcome.
type Kind string

const (
	KindNotFound         Kind = "NotFound"
	KindForbidden        Kind = "Forbidden"
	KindPermissionDenied Kind = "PermissionDenied"
	KindConflict         Kind = "Conflict"
	KindInvalidTarget    Kind = "InvalidTarget"
	KindValidation       Kind = "Validation"
	KindUnauthenticated  Kind = "Unauthenticated"
	KindInternal         Kind = "Internal"
)

// KindOf classifies err by the sentinel it wraps.
func KindOf(err error) Kind {
	switch {
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrForbidden):
		return KindForbidden
	case errors.Is(err, ErrPermissionDenied):
		return KindPermissionDenied
	case errors.Is(err, ErrConflict):
		return KindConflict
	case errors.Is(err, ErrInvalidTarget):
		return KindInvalidTarget
	case errors.Is(err, ErrValidationFailed):
		return KindValidation
	case Is(err, ErrInvalidCredentials, ErrTokenExpired, ErrTokenInvalid, ErrAccountDisabled):
		return KindUnauthenticated
	default:
		return KindInternal
	}
}

// NewNotFoundError creates a not found error with a message
func NewNotFoundError(message string) error {
	return NewCustomError(ErrNotFound, message)
}

// NewForbiddenError creates a scoped-right error with a message
func NewForbiddenError(message string) error {
	return NewCustomError(ErrForbidden, message)
}

// NewPermissionDeniedError creates a role-tier error with a message
func NewPermissionDeniedError(message string) error {
	return NewCustomError(ErrPermissionDenied, message)
}

// NewConflictError creates a conflict error with a message
func NewConflictError(message string) error {
	return NewCustomError(ErrConflict, message)
}

// NewInvalidTargetError creates an invalid target error with a message
func NewInvalidTargetError(message string) error {
	return NewCustomError(ErrInvalidTarget, message)
}

// NewValidationError creates a validation error with a message
func NewValidationError(message string) error {
	return NewCustomError(ErrValidationFailed, message)
}

// Is returns whether err matches target or any of the errors in errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Code    string
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// WithCode adds an error code
func (e *CustomError) WithCode(code string) *CustomError {
	e.Code = code
	return e
}
