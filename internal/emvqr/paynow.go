package emvqr

import (
	"strconv"
	"strings"

	"github.com/digimarketingagencysingapore-byte/paynowgo.com-sub001/internal/errorutil"
	"github.com/digimarketingagencysingapore-byte/paynowgo.com-sub001/internal/timeutil"
)

// Top level tags of the merchant presented mode payload.
const (
	TagPayloadFormatIndicator = "00"
	TagPointOfInitiation      = "01"
	TagMerchantAccountInfo    = "26"
	TagMerchantCategoryCode   = "52"
	TagTransactionCurrency    = "53"
	TagTransactionAmount      = "54"
	TagCountryCode            = "58"
	TagMerchantName           = "59"
	TagMerchantCity           = "60"
	TagAdditionalData         = "62"
)

// Sub tags of the PayNow merchant account information template.
const (
	TagPayNowGUID       = "00"
	TagPayNowProxyType  = "01"
	TagPayNowProxyValue = "02"
	TagPayNowEditable   = "03"
	TagPayNowExpiry     = "04"
)

// TagBillNumber is the bill number sub tag of the additional data template.
const TagBillNumber = "01"

// PayNowGUID identifies the PayNow scheme inside a merchant account
// information template.
const PayNowGUID = "SG.PAYNOW"

var ErrNotPayNow = errorutil.New("payload has no PayNow merchant account information")

// PayNow is the content of a PayNow QR payload.
type PayNow struct {
	ProxyType      string `json:"proxyType"`
	ProxyValue     string `json:"proxyValue"`
	EditableAmount bool   `json:"editableAmount"`
	// Expiry is the zero Date when the payload carries no expiry.
	Expiry            timeutil.Date `json:"expiry"`
	Amount            string        `json:"amount,omitempty"`
	Currency          string        `json:"currency"`
	CountryCode       string        `json:"countryCode"`
	MerchantName      string        `json:"merchantName"`
	MerchantCity      string        `json:"merchantCity"`
	MerchantCategory  string        `json:"merchantCategory"`
	PointOfInitiation string        `json:"pointOfInitiation"`
	Reference         string        `json:"reference,omitempty"`
}

// ParsePayNow verifies the checksum of payload and extracts its PayNow data.
func ParsePayNow(payload string) (PayNow, error) {
	s := strings.TrimSpace(payload)
	if err := VerifyChecksum(s); err != nil {
		return PayNow{}, err
	}

	root, err := Decode(s)
	if err != nil {
		return PayNow{}, err
	}

	out := PayNow{
		Amount:            root.Value(TagTransactionAmount),
		Currency:          root.Value(TagTransactionCurrency),
		CountryCode:       root.Value(TagCountryCode),
		MerchantName:      root.Value(TagMerchantName),
		MerchantCity:      root.Value(TagMerchantCity),
		MerchantCategory:  root.Value(TagMerchantCategoryCode),
		PointOfInitiation: root.Value(TagPointOfInitiation),
	}

	additional, err := root.Sub(TagAdditionalData)
	if err != nil {
		return PayNow{}, err
	}
	out.Reference = additional.Value(TagBillNumber)

	// Merchant account information templates occupy tags 26 to 51.
	found := false
	for _, f := range root {
		id, _ := strconv.Atoi(f.Tag)
		if id < 26 || id > 51 {
			continue
		}
		subs, err := Decode(f.Value)
		if err != nil {
			return PayNow{}, errorutil.Format("%w (template %s)", err, f.Tag)
		}
		if !strings.EqualFold(subs.Value(TagPayNowGUID), PayNowGUID) {
			continue
		}

		out.ProxyType = subs.Value(TagPayNowProxyType)
		out.ProxyValue = subs.Value(TagPayNowProxyValue)
		out.EditableAmount = subs.Value(TagPayNowEditable) == "1"
		if expiry := subs.Value(TagPayNowExpiry); expiry != "" {
			out.Expiry, err = timeutil.ParseCompactDate(expiry)
			if err != nil {
				return PayNow{}, errorutil.Format("invalid expiry %q", expiry)
			}
		}
		found = true
		break
	}

	if !found {
		return PayNow{}, ErrNotPayNow
	}
	return out, nil
}
