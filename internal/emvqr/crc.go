package emvqr

import (
	"fmt"
	"strings"

	"github.com/digimarketingagencysingapore-byte/paynowgo.com-sub001/internal/errorutil"
)

const (
	// TagCRC is the tag of the checksum data object. It is always the last
	// object of a payload and always declares a length of 4.
	TagCRC = "63"
	// CRCPrefix is the tag and length of the checksum object, which are part
	// of the checksummed data.
	CRCPrefix = TagCRC + "04"

	crcPoly = 0x1021
	crcInit = 0xFFFF
)

var (
	ErrMissingChecksum  = errorutil.New("payload does not end with a checksum")
	ErrChecksumMismatch = errorutil.New("checksum mismatch")
)

// CRC16 computes CRC-16/CCITT-FALSE: polynomial 0x1021, initial value
// 0xFFFF, no reflection and no final xor.
func CRC16(data []byte) uint16 {
	crc := uint16(crcInit)
	for _, b := range data {
		crc ^= uint16(b) << 8
		for range 8 {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ crcPoly
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}

// Checksum renders the CRC16 of s as four upper case hex digits.
func Checksum(s string) string {
	return fmt.Sprintf("%04X", CRC16([]byte(s)))
}

// VerifyChecksum checks that payload ends with "6304" followed by the
// checksum of everything before those four hex digits.
func VerifyChecksum(payload string) error {
	n := len(payload)
	if n < len(CRCPrefix)+4 || payload[n-8:n-4] != CRCPrefix {
		return ErrMissingChecksum
	}

	want := Checksum(payload[:n-4])
	if got := payload[n-4:]; !strings.EqualFold(got, want) {
		return errorutil.Format("%w: expected %s, got %s", ErrChecksumMismatch, want, got)
	}
	return nil
}
