package paynow

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ProxyType is the PayNow identifier type used to route a payment.
type ProxyType string

const (
	ProxyTypeMobile ProxyType = "0"
	ProxyTypeUEN    ProxyType = "2"
)

// Proxy identifies the payee, either by mobile number or by UEN, never
// both. The zero value carries no identifier.
type Proxy struct {
	typ   ProxyType
	value string
}

func ProxyMobile(mobile string) Proxy {
	return Proxy{typ: ProxyTypeMobile, value: mobile}
}

func ProxyUEN(uen string) Proxy {
	return Proxy{typ: ProxyTypeUEN, value: uen}
}

// NewProxy builds a proxy from a mobile/UEN pair where blank means absent.
// Exactly one of them must be present.
func NewProxy(mobile, uen string) (Proxy, error) {
	mobile, uen = strings.TrimSpace(mobile), strings.TrimSpace(uen)
	switch {
	case mobile != "" && uen == "":
		return ProxyMobile(mobile), nil
	case uen != "" && mobile == "":
		return ProxyUEN(uen), nil
	default:
		return Proxy{}, ErrIdentifierConflict
	}
}

func (p Proxy) Type() ProxyType {
	return p.typ
}

// Value returns the identifier as it was given.
func (p Proxy) Value() string {
	return p.value
}

// PaymentIntent is everything needed to produce a PayNow QR payload.
type PaymentIntent struct {
	Payee Proxy
	// Amount in SGD major units.
	Amount    decimal.Decimal
	Reference string
	// EditableAmount lets the payer change the amount in the banking app.
	EditableAmount bool
	// MerchantName defaults to "NA" when blank.
	MerchantName string
	// Expiry is accepted but not encoded yet; payloads always carry
	// 99991231.
	Expiry *time.Time
}

// ParseAmount parses a decimal amount such as "12.90".
func ParseAmount(s string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Decimal{}, ErrMalformedAmount
	}
	return amount, nil
}
