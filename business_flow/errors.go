// Package businessflow contains the core business logic and use cases for the cost-update approval workflow
package businessflow

import (
	"errors"
	"fmt"
)

// Business flow error constants
var (
	// User-related errors
	ErrUserNotFound      = errors.New("user not found")
	ErrAccountInactive   = errors.New("account is inactive")
	ErrIncorrectPassword = errors.New("incorrect password")

	// Captcha errors
	ErrCaptchaInvalid    = errors.New("captcha challenge failed")
	ErrCaptchaExpired    = errors.New("captcha challenge expired")
	ErrCacheNotAvailable = errors.New("cache not available")

	// Request-related errors
	ErrRequestNotFound     = errors.New("cost-update request not found")
	ErrRequestAccessDenied = errors.New("cost-update request access denied")
	ErrRequestHasNoItems   = errors.New("cost-update request has no line items")
	ErrProviderNotFound    = errors.New("provider not found")

	// Transition errors
	ErrUnknownAction        = errors.New("unknown transition action")
	ErrForbiddenTransition  = errors.New("role is not allowed to perform this transition")
	ErrTransitionNotAllowed = errors.New("transition is not allowed from the current status")
	ErrRequestAlreadyClosed = errors.New("request is already at a terminal status")
	ErrObservationsRequired = errors.New("observations text is required")
	ErrCommentRequired      = errors.New("a comment is required for this transition")

	// Finalize validation errors
	ErrInvalidMargin           = errors.New("margin is invalid")
	ErrInvalidPDV              = errors.New("pdv is invalid")
	ErrApplicationDateRequired = errors.New("application date is required")
	ErrLineItemsIncomplete     = errors.New("one or more line items are missing a valid margin or pdv")

	// Filter errors
	ErrInvalidPage     = errors.New("page must be at least 1")
	ErrInvalidPageSize = errors.New("page size must be between 1 and 100")
)

type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func NewBusinessErrorf(code, message string, err error, args ...any) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: fmt.Sprintf(message, args...),
		Err:     err,
	}
}

func IsUserNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound)
}

func IsAccountInactive(err error) bool {
	return errors.Is(err, ErrAccountInactive)
}

func IsIncorrectPassword(err error) bool {
	return errors.Is(err, ErrIncorrectPassword)
}

func IsCaptchaInvalid(err error) bool {
	return errors.Is(err, ErrCaptchaInvalid)
}

func IsCaptchaExpired(err error) bool {
	return errors.Is(err, ErrCaptchaExpired)
}

func IsCacheNotAvailable(err error) bool {
	return errors.Is(err, ErrCacheNotAvailable)
}

func IsRequestNotFound(err error) bool {
	return errors.Is(err, ErrRequestNotFound)
}

func IsRequestAccessDenied(err error) bool {
	return errors.Is(err, ErrRequestAccessDenied)
}

func IsRequestHasNoItems(err error) bool {
	return errors.Is(err, ErrRequestHasNoItems)
}

func IsProviderNotFound(err error) bool {
	return errors.Is(err, ErrProviderNotFound)
}

func IsUnknownAction(err error) bool {
	return errors.Is(err, ErrUnknownAction)
}

func IsForbiddenTransition(err error) bool {
	return errors.Is(err, ErrForbiddenTransition)
}

func IsTransitionNotAllowed(err error) bool {
	return errors.Is(err, ErrTransitionNotAllowed) ||
		errors.Is(err, ErrRequestAlreadyClosed)
}

func IsValidationError(err error) bool {
	return errors.Is(err, ErrObservationsRequired) ||
		errors.Is(err, ErrCommentRequired) ||
		errors.Is(err, ErrInvalidMargin) ||
		errors.Is(err, ErrInvalidPDV) ||
		errors.Is(err, ErrApplicationDateRequired) ||
		errors.Is(err, ErrLineItemsIncomplete) ||
		errors.Is(err, ErrRequestHasNoItems)
}

func IsInvalidPage(err error) bool {
	return errors.Is(err, ErrInvalidPage)
}

func IsInvalidPageSize(err error) bool {
	return errors.Is(err, ErrInvalidPageSize)
}
