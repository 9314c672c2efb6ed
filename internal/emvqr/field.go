// Package emvqr implements the tag-length-value wire format of EMV merchant
// presented QR codes (EMV MPM), as used by SGQR/PayNow, Pix and QRIS.
// https://www.emvco.com/specifications/emv-qr-code-specification-for-payment-systems-emv-qrcps-merchant-presented-mode/
package emvqr

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/digimarketingagencysingapore-byte/paynowgo.com-sub001/internal/errorutil"
)

var (
	ErrTruncatedHeader = errorutil.New("truncated TLV header")
	ErrBadLength       = errorutil.New("bad TLV length")
	ErrTruncatedValue  = errorutil.New("truncated TLV value")
)

// MaxValueLength is the longest value a two digit length can describe.
const MaxValueLength = 99

// Field is a single TLV data object.
type Field struct {
	Tag   string
	Value string
}

// Encode renders the field as tag, two digit decimal length and value.
func (f Field) Encode() string {
	return EncodeField(f.Tag, f.Value)
}

// EncodeField renders tag + zero padded two digit length + value.
// It panics if value is longer than MaxValueLength bytes, callers are
// expected to bound their input first.
func EncodeField(tag, value string) string {
	if len(value) > MaxValueLength {
		panic(fmt.Sprintf("emvqr: value of tag %s is %d bytes long", tag, len(value)))
	}
	var b strings.Builder
	b.Grow(len(tag) + 2 + len(value))
	b.WriteString(tag)
	if len(value) < 10 {
		b.WriteByte('0')
	}
	b.WriteString(strconv.Itoa(len(value)))
	b.WriteString(value)
	return b.String()
}

// Fields is an ordered list of TLV data objects at the same nesting level.
type Fields []Field

// Encode concatenates the encoded fields in order.
func (fs Fields) Encode() string {
	var b strings.Builder
	for _, f := range fs {
		b.WriteString(f.Encode())
	}
	return b.String()
}

// First returns the first field with the given tag, or nil.
func (fs Fields) First(tag string) *Field {
	for i := range fs {
		if fs[i].Tag == tag {
			return &fs[i]
		}
	}
	return nil
}

// Value returns the value of the first field with the given tag, or "".
func (fs Fields) Value(tag string) string {
	if f := fs.First(tag); f != nil {
		return f.Value
	}
	return ""
}

// Sub decodes the value of the first field with the given tag as a nested
// template.
func (fs Fields) Sub(tag string) (Fields, error) {
	f := fs.First(tag)
	if f == nil {
		return nil, nil
	}
	subs, err := Decode(f.Value)
	if err != nil {
		return nil, errorutil.Format("%w (template %s)", err, tag)
	}
	return subs, nil
}

// Decode splits s into its top level fields.
func Decode(s string) (Fields, error) {
	var out Fields
	for i := 0; i < len(s); {
		if i+4 > len(s) {
			return nil, ErrTruncatedHeader
		}
		tag := s[i : i+2]
		ln, err := strconv.Atoi(s[i+2 : i+4])
		if err != nil || ln < 1 {
			return nil, errorutil.Format("%w for tag %s", ErrBadLength, tag)
		}
		i += 4
		if i+ln > len(s) {
			return nil, errorutil.Format("%w for tag %s", ErrTruncatedValue, tag)
		}
		out = append(out, Field{Tag: tag, Value: s[i : i+ln]})
		i += ln
	}
	return out, nil
}
