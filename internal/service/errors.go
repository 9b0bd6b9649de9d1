// Package service implements the transfer use cases: create, confirm,
// cancel, state, and history, plus the administrative card operations.
package service

import (
	"fmt"

	"github.com/cardlink/transfer-service/internal/catalog"
)

// ServiceError represents a business logic error with a catalog code.
// Message is the English text; localization happens at the RPC boundary
// through the error catalog. For the wrong-OTP case Message carries the
// dynamic remaining-attempts text and is returned to the caller as-is.
type ServiceError struct {
	Err     error
	Message string
	Code    int
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// Catalog codes re-exported for the service layer. The generic code 32706
// doubles as the invalid-card, unknown-transfer, and internal-failure
// answer; callers never see internal details.
const (
	ErrCodeMissingExtID        = catalog.CodeMissingExtID
	ErrCodeDuplicateExtID      = catalog.CodeDuplicateExtID
	ErrCodeInsufficientBalance = catalog.CodeInsufficientBalance
	ErrCodeMissingPhone        = catalog.CodeMissingPhone
	ErrCodeSenderCardMismatch  = catalog.CodeSenderCardMismatch
	ErrCodeSenderCardInactive  = catalog.CodeSenderCardInactive
	ErrCodeInvalidCard         = catalog.CodeInvalidCard
	ErrCodeUnsupportedCurrency = catalog.CodeUnsupportedCurrency
	ErrCodeAmountTooLarge      = catalog.CodeAmountTooLarge
	ErrCodeInvalidAmount       = catalog.CodeInvalidAmount
	ErrCodeOTPExpired          = catalog.CodeOTPExpired
	ErrCodeTooManyAttempts     = catalog.CodeTooManyAttempts
	ErrCodeWrongOTP            = catalog.CodeWrongOTP
)

func newServiceError(code int, message string) *ServiceError {
	return &ServiceError{Code: code, Message: message}
}
