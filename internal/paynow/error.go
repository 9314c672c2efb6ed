package paynow

import "github.com/digimarketingagencysingapore-byte/paynowgo.com-sub001/internal/errorutil"

// Kind names the validation rule a payment intent violated.
type Kind string

const (
	KindIdentifierConflict    Kind = "IDENTIFIER_CONFLICT"
	KindInvalidMobile         Kind = "INVALID_MOBILE"
	KindInvalidUEN            Kind = "INVALID_UEN"
	KindMalformedAmount       Kind = "MALFORMED_AMOUNT"
	KindNonPositiveAmount     Kind = "NON_POSITIVE_AMOUNT"
	KindTooManyDecimals       Kind = "TOO_MANY_DECIMALS"
	KindAmountTooLong         Kind = "AMOUNT_TOO_LONG"
	KindMissingReference      Kind = "MISSING_REFERENCE"
	KindReferenceTooLong      Kind = "REFERENCE_TOO_LONG"
	KindReferenceInvalidChars Kind = "REFERENCE_INVALID_CHARS"
	KindMerchantNameTooLong   Kind = "MERCHANT_NAME_TOO_LONG"
)

var (
	ErrIdentifierConflict    = newValidationError(KindIdentifierConflict, "Exactly one of mobile or uen must be provided")
	ErrInvalidMobile         = newValidationError(KindInvalidMobile, "Mobile must be a Singapore number with 8 digits, optionally prefixed with 65")
	ErrInvalidUEN            = newValidationError(KindInvalidUEN, "UEN is not a valid Singapore Unique Entity Number")
	ErrMalformedAmount       = newValidationError(KindMalformedAmount, "Amount must be a number")
	ErrNonPositiveAmount     = newValidationError(KindNonPositiveAmount, "Amount must be greater than 0")
	ErrTooManyDecimals       = newValidationError(KindTooManyDecimals, "Amount cannot have more than 2 decimal places")
	ErrAmountTooLong         = newValidationError(KindAmountTooLong, "Amount cannot exceed 13 characters")
	ErrMissingReference      = newValidationError(KindMissingReference, "Reference is required")
	ErrReferenceTooLong      = newValidationError(KindReferenceTooLong, "Reference cannot exceed 25 characters")
	ErrReferenceInvalidChars = newValidationError(KindReferenceInvalidChars, "Reference can only contain letters, numbers, hyphens, underscores, and slashes")
	ErrMerchantNameTooLong   = newValidationError(KindMerchantNameTooLong, "Merchant name cannot exceed 25 characters")
)

// ValidationError is returned when a payment intent cannot be encoded.
// Its message names the corrective action and is meant to be shown to the
// merchant as is.
type ValidationError struct {
	Kind Kind
	err  errorutil.Error
}

func newValidationError(kind Kind, msg string) *ValidationError {
	return &ValidationError{Kind: kind, err: errorutil.New(msg)}
}

func (e *ValidationError) Error() string {
	return e.err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.err
}
