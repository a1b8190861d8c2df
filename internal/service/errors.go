package service

import (
	"errors"
	"fmt"

	"github.com/khedma/sunday-school-backend/internal/response"
)

// Kind classifies a domain error for the transport layer.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindConflict
	KindBusinessRule
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindBusinessRule:
		return "business_rule"
	default:
		return "internal"
	}
}

// Error is a classified domain error. Sentinels below are compared with
// errors.Is.
type Error struct {
	Kind Kind
	Code response.ErrCode
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Code)
}

func newError(kind Kind, code response.ErrCode) *Error {
	return &Error{Kind: kind, Code: code}
}

// Authentication.
var (
	ErrInvalidCredentials = newError(KindUnauthenticated, response.ErrInvalidCredentials)
	ErrAccountDisabled    = newError(KindUnauthenticated, response.ErrAccountDisabled)
	ErrTokenInvalid       = newError(KindUnauthenticated, response.ErrTokenInvalid)
	ErrTokenExpired       = newError(KindUnauthenticated, response.ErrTokenExpired)
	ErrSessionRevoked     = newError(KindUnauthenticated, response.ErrSessionRevoked)
)

// Authorization.
var (
	ErrPermissionDenied  = newError(KindForbidden, response.ErrPermissionDenied)
	ErrNotAssigned       = newError(KindForbidden, response.ErrNotAssignedToClass)
	ErrManualForbidden   = newError(KindForbidden, response.ErrManualPointsForbidden)
	ErrReasonNotAllowed  = newError(KindForbidden, response.ErrReasonNotAllowed)
	ErrCannotDisableSelf = newError(KindBusinessRule, response.ErrCannotDisableSelf)
)

// Validation.
var (
	ErrInvalidPoints      = newError(KindValidation, response.ErrInvalidPoints)
	ErrManualTextRequired = newError(KindValidation, response.ErrManualTextRequired)
	ErrInvalidQuantity    = newError(KindValidation, response.ErrInvalidQuantity)
)

// Missing resources.
var (
	ErrStudentNotFound    = newError(KindNotFound, response.ErrStudentNotFound)
	ErrClassNotFound      = newError(KindNotFound, response.ErrClassNotFound)
	ErrGradeNotFound      = newError(KindNotFound, response.ErrGradeNotFound)
	ErrReasonNotFound     = newError(KindNotFound, response.ErrReasonNotFound)
	ErrItemNotFound       = newError(KindNotFound, response.ErrItemNotFound)
	ErrUserNotFound       = newError(KindNotFound, response.ErrUserNotFound)
	ErrAssignmentNotFound = newError(KindNotFound, response.ErrAssignmentNotFound)
	ErrSessionNotFound    = newError(KindNotFound, response.ErrSessionNotFound)
)

// Conflicts.
var (
	ErrAttendanceExists = newError(KindConflict, response.ErrAttendanceExists)
	ErrAssignmentExists = newError(KindConflict, response.ErrAssignmentExists)
	ErrMonthlyLimit     = newError(KindConflict, response.ErrMonthlyLimitReached)
	ErrUsernameTaken    = newError(KindConflict, response.ErrUsernameTaken)
	ErrGradeInUse       = newError(KindConflict, response.ErrDependencyExists)
)

// Business rules.
var (
	ErrNotAttendanceDay    = newError(KindBusinessRule, response.ErrNotAttendanceDay)
	ErrSessionNotOpen      = newError(KindBusinessRule, response.ErrSessionNotOpen)
	ErrNoAttendanceReason  = newError(KindBusinessRule, response.ErrNoAttendanceReason)
	ErrGenderMismatch      = newError(KindBusinessRule, response.ErrGenderMismatch)
	ErrInsufficientBalance = newError(KindBusinessRule, response.ErrInsufficientBalance)
	ErrInsufficientStock   = newError(KindBusinessRule, response.ErrInsufficientStock)
	ErrClassGenderLocked   = newError(KindBusinessRule, response.ErrClassGenderLocked)
)

// InsufficientBalanceError reports the balance a purchase was refused against.
// It matches ErrInsufficientBalance under errors.Is.
type InsufficientBalanceError struct {
	Balance  int
	Required int
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance: have %d, need %d", e.Balance, e.Required)
}

// Is makes errors.Is(err, ErrInsufficientBalance) true.
func (e *InsufficientBalanceError) Is(target error) bool {
	return target == ErrInsufficientBalance
}

// KindOf returns the kind of err, or KindInternal for unclassified errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	var ib *InsufficientBalanceError
	if errors.As(err, &ib) {
		return KindBusinessRule
	}
	return KindInternal
}

// CodeOf returns the response code of err, or ErrInternal.
func CodeOf(err error) response.ErrCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	var ib *InsufficientBalanceError
	if errors.As(err, &ib) {
		return response.ErrInsufficientBalance
	}
	return response.ErrInternal
}
