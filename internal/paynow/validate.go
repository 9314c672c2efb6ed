package paynow

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	maxReferenceLength    = 25
	maxMerchantNameLength = 25
	maxAmountDecimals     = 2
	// Tag 54 carries at most 13 characters.
	maxAmountLength       = 13
)

var (
	mobileRx    = regexp.MustCompile(`^(65)?\d{8}$`)
	referenceRx = regexp.MustCompile(`^[A-Za-z0-9\-_/]+$`)
	uenRxs      = []*regexp.Regexp{
		// Businesses registered with ACRA.
		regexp.MustCompile(`^\d{8,10}[A-Z]$`),
		// Entities such as T05LL1103B.
		regexp.MustCompile(`^[A-Z]\d{2}[A-Z]{2}\d{4}[A-Z]$`),
		regexp.MustCompile(`^[A-Z]{1,2}\d{8,10}[A-Z]$`),
		regexp.MustCompile(`^\d{4}[A-Z]\d{5}[A-Z]$`),
	}

	mobileStripper = strings.NewReplacer(" ", "", "-", "", "+", "")
	uenStripper    = strings.NewReplacer(" ", "", "-", "")
)

// Validate checks intent rule by rule and returns the first violation.
// It never modifies intent.
func Validate(intent PaymentIntent) error {
	if err := ValidateProxy(intent.Payee); err != nil {
		return err
	}

	if !intent.Amount.IsPositive() {
		return ErrNonPositiveAmount
	}

	if !intent.Amount.Equal(intent.Amount.Truncate(maxAmountDecimals)) {
		return ErrTooManyDecimals
	}

	if len(formatAmount(intent)) > maxAmountLength {
		return ErrAmountTooLong
	}

	if intent.Reference == "" {
		return ErrMissingReference
	}

	if utf8.RuneCountInString(intent.Reference) > maxReferenceLength {
		return ErrReferenceTooLong
	}

	if !referenceRx.MatchString(intent.Reference) {
		return ErrReferenceInvalidChars
	}

	if len(strings.TrimSpace(intent.MerchantName)) > maxMerchantNameLength {
		return ErrMerchantNameTooLong
	}

	return nil
}

// ValidateProxy checks that p carries exactly one well formed identifier.
func ValidateProxy(p Proxy) error {
	switch p.typ {
	case ProxyTypeMobile:
		if !mobileRx.MatchString(normalizeMobile(p.value)) {
			return ErrInvalidMobile
		}
	case ProxyTypeUEN:
		uen := NormalizeUEN(p.value)
		for _, rx := range uenRxs {
			if rx.MatchString(uen) {
				return nil
			}
		}
		return ErrInvalidUEN
	default:
		return ErrIdentifierConflict
	}
	return nil
}

func normalizeMobile(mobile string) string {
	return mobileStripper.Replace(mobile)
}

// FormatMobile renders a valid mobile number in international form, e.g.
// "8685 4221" and "+65 8685-4221" both become "+6586854221".
func FormatMobile(mobile string) string {
	digits := normalizeMobile(mobile)
	if len(digits) == 8 {
		return "+65" + digits
	}
	return "+" + digits
}

// NormalizeUEN strips spaces and hyphens and upper cases the UEN.
func NormalizeUEN(uen string) string {
	return strings.ToUpper(uenStripper.Replace(uen))
}
