// Package paynow encodes payment intents into PayNow QR payloads, the
// SGQR profile of the EMV merchant presented QR code.
//
// Everything in this package is pure and safe for concurrent use.
package paynow

import (
	"strings"

	"github.com/digimarketingagencysingapore-byte/paynowgo.com-sub001/internal/emvqr"
)

const (
	payloadFormatIndicator = "01"
	// pointOfInitiationDynamic marks a QR code generated per transaction.
	pointOfInitiationDynamic = "12"
	merchantCategoryCode     = "0000"
	// currencySGD is the ISO 4217 numeric code of the Singapore dollar.
	currencySGD         = "702"
	countryCode         = "SG"
	merchantCity        = "Singapore"
	defaultMerchantName = "NA"
	fixedExpiry         = "99991231"
)

// Encode validates intent and returns its PayNow QR payload, checksum
// included. Nothing is produced when validation fails.
func Encode(intent PaymentIntent) (string, error) {
	if err := Validate(intent); err != nil {
		return "", err
	}

	payload := assemble(intent)
	return payload + emvqr.Checksum(payload), nil
}

// assemble builds the payload up to and including the checksum tag and
// length, which is exactly the input of the checksum.
func assemble(intent PaymentIntent) string {
	var b strings.Builder
	b.WriteString(emvqr.EncodeField(emvqr.TagPayloadFormatIndicator, payloadFormatIndicator))
	b.WriteString(emvqr.EncodeField(emvqr.TagPointOfInitiation, pointOfInitiationDynamic))
	b.WriteString(merchantAccountInfo(intent))
	b.WriteString(emvqr.EncodeField(emvqr.TagMerchantCategoryCode, merchantCategoryCode))
	b.WriteString(emvqr.EncodeField(emvqr.TagTransactionCurrency, currencySGD))
	b.WriteString(emvqr.EncodeField(emvqr.TagTransactionAmount, formatAmount(intent)))
	b.WriteString(emvqr.EncodeField(emvqr.TagCountryCode, countryCode))
	b.WriteString(emvqr.EncodeField(emvqr.TagMerchantName, merchantName(intent)))
	b.WriteString(emvqr.EncodeField(emvqr.TagMerchantCity, merchantCity))
	b.WriteString(additionalData(intent))
	b.WriteString(emvqr.CRCPrefix)
	return b.String()
}

// merchantAccountInfo builds the PayNow template under tag 26. Banking apps
// look sub tags up by id, but the order below is the one conformance
// payloads are compared against.
func merchantAccountInfo(intent PaymentIntent) string {
	editable := "0"
	if intent.EditableAmount {
		editable = "1"
	}

	fields := emvqr.Fields{
		{Tag: emvqr.TagPayNowGUID, Value: emvqr.PayNowGUID},
		{Tag: emvqr.TagPayNowProxyType, Value: string(intent.Payee.Type())},
		{Tag: emvqr.TagPayNowProxyValue, Value: proxyValue(intent.Payee)},
		{Tag: emvqr.TagPayNowEditable, Value: editable},
		// Always the far future date, intent.Expiry is not encoded.
		{Tag: emvqr.TagPayNowExpiry, Value: fixedExpiry},
	}
	return emvqr.EncodeField(emvqr.TagMerchantAccountInfo, fields.Encode())
}

func proxyValue(p Proxy) string {
	if p.Type() == ProxyTypeMobile {
		return FormatMobile(p.Value())
	}
	return NormalizeUEN(p.Value())
}

// formatAmount renders fixed amounts with two decimals and editable ones
// without trailing zeros, e.g. 10 and 12.9.
func formatAmount(intent PaymentIntent) string {
	if intent.EditableAmount {
		return intent.Amount.String()
	}
	return intent.Amount.StringFixed(maxAmountDecimals)
}

func merchantName(intent PaymentIntent) string {
	if name := strings.TrimSpace(intent.MerchantName); name != "" {
		return name
	}
	return defaultMerchantName
}

// additionalData puts the reference in the bill number slot, which banking
// apps show read only whether the amount is editable or not.
func additionalData(intent PaymentIntent) string {
	return emvqr.EncodeField(emvqr.TagAdditionalData, emvqr.EncodeField(emvqr.TagBillNumber, intent.Reference))
}
