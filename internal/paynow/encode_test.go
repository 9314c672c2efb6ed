package paynow

import (
	"errors"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/digimarketingagencysingapore-byte/paynowgo.com-sub001/internal/emvqr"
	"github.com/shopspring/decimal"
)

var payloadRx = regexp.MustCompile(`^000201010212.*6304[A-F0-9]{4}$`)

func mobileIntent() PaymentIntent {
	return PaymentIntent{
		Payee:     ProxyMobile("86854221"),
		Amount:    decimal.RequireFromString("1.00"),
		Reference: "test",
	}
}

func TestEncode_Golden(t *testing.T) {
	tests := []struct {
		name   string
		intent PaymentIntent
		want   string
	}{
		{
			name:   "mobile fixed amount",
			intent: mobileIntent(),
			want:   "00020101021226500009SG.PAYNOW010100211+65868542210301004089999123152040000530370254041.005802SG5902NA6009Singapore62080104test6304596F",
		},
		{
			name: "uen with reference",
			intent: PaymentIntent{
				Payee:     ProxyUEN("201912345Z"),
				Amount:    decimal.RequireFromString("12.90"),
				Reference: "TBL12-0001",
			},
			want: "00020101021226490009SG.PAYNOW010120210201912345Z03010040899991231520400005303702540512.905802SG5902NA6009Singapore62140110TBL12-00016304B647",
		},
		{
			name: "editable amount",
			intent: PaymentIntent{
				Payee:          ProxyMobile("86854221"),
				Amount:         decimal.NewFromInt(10),
				Reference:      "test",
				EditableAmount: true,
			},
			want: "00020101021226500009SG.PAYNOW010100211+6586854221030110408999912315204000053037025402105802SG5902NA6009Singapore62080104test6304A2E8",
		},
		{
			name: "entity uen with merchant name",
			intent: PaymentIntent{
				Payee:        ProxyUEN("t05ll 1103-b"),
				Amount:       decimal.RequireFromString("12.9"),
				Reference:    "TBL12-0001",
				MerchantName: "Kopi Corner",
			},
			want: "00020101021226490009SG.PAYNOW010120210T05LL1103B03010040899991231520400005303702540512.905802SG5911Kopi Corner6009Singapore62140110TBL12-00016304D086",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Encode(tt.intent)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("unexpected payload\n got: %s\nwant: %s", got, tt.want)
			}
		})
	}
}

func TestEncode_Scenarios(t *testing.T) {
	t.Run("mobile fixed amount", func(t *testing.T) {
		got, err := Encode(mobileIntent())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.HasPrefix(got, "000201010212") {
			t.Errorf("missing preamble: %s", got)
		}
		for _, want := range []string{"SG.PAYNOW", "1.00", "test"} {
			if !strings.Contains(got, want) {
				t.Errorf("expected %q in %s", want, got)
			}
		}
		if !payloadRx.MatchString(got) {
			t.Errorf("payload does not end with a checksum: %s", got)
		}
	})

	t.Run("uen", func(t *testing.T) {
		got, err := Encode(PaymentIntent{
			Payee:     ProxyUEN("201912345Z"),
			Amount:    decimal.RequireFromString("12.90"),
			Reference: "TBL12-0001",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, want := range []string{"201912345Z", "12.90", "TBL12-0001"} {
			if !strings.Contains(got, want) {
				t.Errorf("expected %q in %s", want, got)
			}
		}
	})

	t.Run("editable amount", func(t *testing.T) {
		intent := mobileIntent()
		intent.Amount = decimal.NewFromInt(10)
		intent.EditableAmount = true

		got, err := Encode(intent)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(got, "03011") {
			t.Errorf("expected the editable marker in %s", got)
		}
		if !strings.Contains(got, "540210") || strings.Contains(got, "10.00") {
			t.Errorf("expected the bare amount 10 in %s", got)
		}
	})
}

func TestEncode_Properties(t *testing.T) {
	intents := []PaymentIntent{
		mobileIntent(),
		{Payee: ProxyMobile("+65 9123-4567"), Amount: decimal.RequireFromString("0.01"), Reference: "A/B_C-1"},
		{Payee: ProxyUEN("53123456K"), Amount: decimal.RequireFromString("99999.99"), Reference: "INV2024/0001", EditableAmount: true},
		{Payee: ProxyUEN("S99SS0001A"), Amount: decimal.NewFromInt(3), Reference: "Z", MerchantName: "Hawker 88"},
		{Payee: ProxyUEN("2015A12345B"), Amount: decimal.RequireFromString("7.5"), Reference: "abcdefghijklmnopqrstuvwxy"},
	}

	for _, intent := range intents {
		got, err := Encode(intent)
		if err != nil {
			t.Fatalf("unexpected error for %+v: %v", intent, err)
		}

		if !payloadRx.MatchString(got) {
			t.Errorf("payload %s does not match %s", got, payloadRx)
		}
		if !strings.Contains(got, emvqr.PayNowGUID) {
			t.Errorf("payload %s has no PayNow GUID", got)
		}

		additional := emvqr.EncodeField("62", emvqr.EncodeField("01", intent.Reference))
		if strings.Count(got, additional) != 1 {
			t.Errorf("expected %s exactly once in %s", additional, got)
		}

		if err := emvqr.VerifyChecksum(got); err != nil {
			t.Errorf("checksum of %s does not verify: %v", got, err)
		}

		decoded, err := emvqr.ParsePayNow(got)
		if err != nil {
			t.Fatalf("could not read back %s: %v", got, err)
		}
		if decoded.Reference != intent.Reference || decoded.EditableAmount != intent.EditableAmount {
			t.Errorf("read back %+v does not match %+v", decoded, intent)
		}
	}
}

func TestEncode_EditableFlagChangesMarkerAndAmount(t *testing.T) {
	fixed := mobileIntent()
	fixed.Amount = decimal.RequireFromString("12.50")
	editable := fixed
	editable.EditableAmount = true

	fixedPayload, err := Encode(fixed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	editablePayload, err := Encode(editable)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(fixedPayload, "03010") || strings.Contains(fixedPayload, "03011") {
		t.Errorf("fixed payload has the wrong editable marker: %s", fixedPayload)
	}
	if !strings.Contains(editablePayload, "03011") {
		t.Errorf("editable payload has the wrong editable marker: %s", editablePayload)
	}
	if !strings.Contains(fixedPayload, "540512.50") {
		t.Errorf("expected two decimals in %s", fixedPayload)
	}
	if !strings.Contains(editablePayload, "540412.5") {
		t.Errorf("expected the natural amount in %s", editablePayload)
	}
}

func TestEncode_SingleChangeChangesChecksum(t *testing.T) {
	base := mobileIntent()
	basePayload, err := Encode(base)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	otherAmount := base
	otherAmount.Amount = decimal.RequireFromString("1.01")
	otherReference := base
	otherReference.Reference = "tesu"

	for name, intent := range map[string]PaymentIntent{"amount": otherAmount, "reference": otherReference} {
		got, err := Encode(intent)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got[len(got)-4:] == basePayload[len(basePayload)-4:] {
			t.Errorf("changing the %s did not change the checksum %s", name, got[len(got)-4:])
		}
	}
}

func TestEncode_ExpiryIsNotEncoded(t *testing.T) {
	intent := mobileIntent()
	expiry := time.Date(2030, 1, 2, 0, 0, 0, 0, time.UTC)
	intent.Expiry = &expiry

	got, err := Encode(intent)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want, _ := Encode(mobileIntent())
	if got != want {
		t.Errorf("expected the expiry to be ignored, got %s", got)
	}
	if !strings.Contains(got, "040899991231") || strings.Contains(got, "20300102") {
		t.Errorf("expected the fixed expiry in %s", got)
	}
}

func TestEncode_NoOutputOnFailure(t *testing.T) {
	intent := mobileIntent()
	intent.Reference = "bad ref"

	got, err := Encode(intent)
	if err == nil {
		t.Fatalf("expected an error")
	}
	if got != "" {
		t.Errorf("expected no payload, got %q", got)
	}
}

func TestEncode_AmountLength(t *testing.T) {
	intent := mobileIntent()
	intent.Amount = decimal.New(1, 100)
	if got, err := Encode(intent); !errors.Is(err, ErrAmountTooLong) || got != "" {
		t.Fatalf("expected ErrAmountTooLong and no payload, got %q, %v", got, err)
	}

	intent.Amount = decimal.RequireFromString("9999999999.99")
	got, err := Encode(intent)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	decoded, err := emvqr.ParsePayNow(got)
	if err != nil {
		t.Fatalf("payload %s does not parse: %v", got, err)
	}
	if decoded.Amount != "9999999999.99" {
		t.Errorf("unexpected amount %s", decoded.Amount)
	}
}

func TestEncode_Concurrent(t *testing.T) {
	want, err := Encode(mobileIntent())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var wg sync.WaitGroup
	for range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got, _ := Encode(mobileIntent()); got != want {
				t.Errorf("concurrent encode returned %s", got)
			}
		}()
	}
	wg.Wait()
}

func TestMerchantAccountInfo_Order(t *testing.T) {
	got := merchantAccountInfo(PaymentIntent{Payee: ProxyUEN("201912345Z"), EditableAmount: true})
	want := "2649" + "0009SG.PAYNOW" + "01012" + "0210201912345Z" + "03011" + "040899991231"
	if got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}
