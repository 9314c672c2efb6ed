package emvqr

import (
	"errors"
	"strings"
	"testing"
	"time"
)

const (
	mobilePayload = "00020101021226500009SG.PAYNOW010100211+65868542210301004089999123152040000530370254041.005802SG5902NA6009Singapore62080104test6304596F"
	uenPayload    = "00020101021226490009SG.PAYNOW010120210T05LL1103B03010040899991231520400005303702540512.905802SG5911Kopi Corner6009Singapore62140110TBL12-00016304D086"
)

func TestCRC16_CheckValue(t *testing.T) {
	// Standard check value of CRC-16/CCITT-FALSE.
	if got := CRC16([]byte("123456789")); got != 0x29B1 {
		t.Errorf("expected 0x29B1, got 0x%04X", got)
	}
	if got := CRC16(nil); got != 0xFFFF {
		t.Errorf("expected the initial value for empty input, got 0x%04X", got)
	}
}

func TestChecksum_PadsAndUppercases(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"123456789", "29B1"},
		{mobilePayload[:len(mobilePayload)-4], "596F"},
		{uenPayload[:len(uenPayload)-4], "D086"},
	}

	for _, tt := range tests {
		if got := Checksum(tt.in); got != tt.want {
			t.Errorf("Checksum(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestEncodeField(t *testing.T) {
	tests := []struct {
		tag, value, want string
	}{
		{"58", "SG", "5802SG"},
		{"00", "SG.PAYNOW", "0009SG.PAYNOW"},
		{"60", "Singapore", "6009Singapore"},
		{"01", "TBL12-0001", "0110TBL12-0001"},
	}

	for _, tt := range tests {
		if got := EncodeField(tt.tag, tt.value); got != tt.want {
			t.Errorf("EncodeField(%q, %q) = %q, want %q", tt.tag, tt.value, got, tt.want)
		}
	}
}

func TestEncodeField_ValueTooLong(t *testing.T) {
	if got := EncodeField("62", strings.Repeat("x", MaxValueLength)); !strings.HasPrefix(got, "6299x") {
		t.Errorf("unexpected encoding prefix %q", got[:5])
	}

	defer func() {
		if recover() == nil {
			t.Errorf("expected a panic for a value with a three digit length")
		}
	}()
	EncodeField("54", strings.Repeat("9", MaxValueLength+1))
}

func TestFields_Encode(t *testing.T) {
	fs := Fields{{Tag: "00", Value: "01"}, {Tag: "01", Value: "12"}}
	if got := fs.Encode(); got != "000201010212" {
		t.Errorf("unexpected encoding %q", got)
	}
}

func TestDecode(t *testing.T) {
	fields, err := Decode(mobilePayload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantTags := []string{"00", "01", "26", "52", "53", "54", "58", "59", "60", "62", "63"}
	if len(fields) != len(wantTags) {
		t.Fatalf("expected %d fields, got %d", len(wantTags), len(fields))
	}
	for i, tag := range wantTags {
		if fields[i].Tag != tag {
			t.Errorf("field %d: expected tag %s, got %s", i, tag, fields[i].Tag)
		}
	}

	if got := fields.Value("54"); got != "1.00" {
		t.Errorf("expected amount 1.00, got %q", got)
	}
	if got := fields.Value("99"); got != "" {
		t.Errorf("expected empty value for a missing tag, got %q", got)
	}
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want error
	}{
		{"truncated header", "000", ErrTruncatedHeader},
		{"non numeric length", "00AB01", ErrBadLength},
		{"zero length", "0000", ErrBadLength},
		{"truncated value", "0005abc", ErrTruncatedValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.in)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestVerifyChecksum(t *testing.T) {
	if err := VerifyChecksum(mobilePayload); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	lower := mobilePayload[:len(mobilePayload)-4] + "596f"
	if err := VerifyChecksum(lower); err != nil {
		t.Errorf("lower case checksums must be accepted: %v", err)
	}

	tampered := mobilePayload[:len(mobilePayload)-4] + "0000"
	if err := VerifyChecksum(tampered); !errors.Is(err, ErrChecksumMismatch) {
		t.Errorf("expected checksum mismatch, got %v", err)
	}

	if err := VerifyChecksum("000201"); !errors.Is(err, ErrMissingChecksum) {
		t.Errorf("expected missing checksum, got %v", err)
	}
}

func TestParsePayNow(t *testing.T) {
	t.Run("mobile", func(t *testing.T) {
		got, err := ParsePayNow(mobilePayload)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if got.ProxyType != "0" || got.ProxyValue != "+6586854221" {
			t.Errorf("unexpected proxy %s/%s", got.ProxyType, got.ProxyValue)
		}
		if got.EditableAmount {
			t.Errorf("expected a fixed amount")
		}
		if got.Amount != "1.00" || got.Currency != "702" || got.CountryCode != "SG" {
			t.Errorf("unexpected amount fields %+v", got)
		}
		if got.Reference != "test" || got.MerchantName != "NA" || got.MerchantCity != "Singapore" {
			t.Errorf("unexpected merchant fields %+v", got)
		}
		if got.PointOfInitiation != "12" || got.MerchantCategory != "0000" {
			t.Errorf("unexpected header fields %+v", got)
		}
		if got.Expiry.Year() != 9999 || got.Expiry.Month() != time.December || got.Expiry.Day() != 31 {
			t.Errorf("unexpected expiry %s", got.Expiry)
		}
	})

	t.Run("uen", func(t *testing.T) {
		got, err := ParsePayNow(uenPayload)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.ProxyType != "2" || got.ProxyValue != "T05LL1103B" {
			t.Errorf("unexpected proxy %s/%s", got.ProxyType, got.ProxyValue)
		}
		if got.MerchantName != "Kopi Corner" || got.Reference != "TBL12-0001" || got.Amount != "12.90" {
			t.Errorf("unexpected fields %+v", got)
		}
	})

	t.Run("not paynow", func(t *testing.T) {
		body := EncodeField("00", "01") + EncodeField("26", EncodeField("00", "br.gov.bcb.pix")) + CRCPrefix
		_, err := ParsePayNow(body + Checksum(body))
		if !errors.Is(err, ErrNotPayNow) {
			t.Errorf("expected ErrNotPayNow, got %v", err)
		}
	})

	t.Run("bad checksum", func(t *testing.T) {
		_, err := ParsePayNow(mobilePayload[:len(mobilePayload)-1] + "0")
		if !errors.Is(err, ErrChecksumMismatch) {
			t.Errorf("expected ErrChecksumMismatch, got %v", err)
		}
	})
}
