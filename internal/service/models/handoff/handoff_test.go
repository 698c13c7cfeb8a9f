package handoff

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestGenerateOTP(t *testing.T) {
	for i := 0; i < 100; i++ {
		otp := GenerateOTP()
		if len(otp) != 6 {
			t.Fatalf("otp %q is not 6 digits", otp)
		}
		n, err := strconv.Atoi(otp)
		if err != nil {
			t.Fatalf("otp %q is not numeric: %v", otp, err)
		}
		if n < 100000 || n > 999999 {
			t.Fatalf("otp %d out of range", n)
		}
	}
}

func TestGenerateQRToken(t *testing.T) {
	orderID := uuid.New()
	now := time.Now()

	pickup := GenerateQRToken(orderID, KindPickup, now)
	delivery := GenerateQRToken(orderID, KindDelivery, now)

	if !strings.HasPrefix(pickup, "PICKUP-"+orderID.String()[:8]+"-") {
		t.Fatalf("unexpected pickup token: %s", pickup)
	}
	if !strings.HasPrefix(delivery, "DELIVERY-"+orderID.String()[:8]+"-") {
		t.Fatalf("unexpected delivery token: %s", delivery)
	}
	if pickup == delivery {
		t.Fatalf("pickup and delivery tokens should differ")
	}

	second := GenerateQRToken(orderID, KindPickup, now)
	if second == pickup {
		t.Fatalf("two tokens for the same order should differ")
	}
}

func TestGenerateCodes(t *testing.T) {
	orderID := uuid.New()
	now := time.Now()

	codes := GenerateCodes(orderID, now)
	if codes.PickupOTP == "" || codes.DeliveryOTP == "" {
		t.Fatalf("empty otp generated")
	}
	if !codes.PickupOTPExpiresAt.Equal(now.Add(OTPTTL)) {
		t.Fatalf("pickup otp expiry: got %v", codes.PickupOTPExpiresAt)
	}
	if !codes.DeliveryOTPExpiresAt.Equal(now.Add(OTPTTL)) {
		t.Fatalf("delivery otp expiry: got %v", codes.DeliveryOTPExpiresAt)
	}
}

func TestQRPayloadRoundTrip(t *testing.T) {
	orderID := uuid.New()
	now := time.Now()

	payload := NewQRPayload(KindDelivery, orderID, "123456", now)
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	parsed, err := ParseQRPayload(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if parsed.Type != KindDelivery || parsed.OrderID != orderID.String() || parsed.OTP != "123456" {
		t.Fatalf("roundtrip mismatch: %+v", parsed)
	}
}

func TestParseQRPayloadRejectsBadInput(t *testing.T) {
	cases := []string{
		`not json`,
		`{"type":"teleport","order_id":"` + uuid.NewString() + `","otp":"123456"}`,
		`{"type":"pickup","order_id":"not-a-uuid","otp":"123456"}`,
		`{"type":"pickup","order_id":"` + uuid.NewString() + `","otp":"12"}`,
	}

	for _, c := range cases {
		if _, err := ParseQRPayload([]byte(c)); !errors.Is(err, ErrBadQRPayload) {
			t.Errorf("payload %s: expected ErrBadQRPayload, got %v", c, err)
		}
	}
}

func TestVerifyQR(t *testing.T) {
	if err := VerifyQR("PICKUP-abc-1-x", "PICKUP-abc-1-x"); err != nil {
		t.Fatalf("matching token rejected: %v", err)
	}
	if err := VerifyQR("PICKUP-abc-1-x", "PICKUP-abc-1-y"); !errors.Is(err, ErrCodeMismatch) {
		t.Fatalf("expected ErrCodeMismatch, got %v", err)
	}
	if err := VerifyQR("", ""); !errors.Is(err, ErrCodeMismatch) {
		t.Fatalf("empty stored token should never verify, got %v", err)
	}
}

func TestVerifyOTP(t *testing.T) {
	now := time.Now()
	future := now.Add(time.Hour)
	past := now.Add(-time.Minute)

	if err := VerifyOTP("123456", "123456", &future, now); err != nil {
		t.Fatalf("valid otp rejected: %v", err)
	}
	if err := VerifyOTP("123456", "654321", &future, now); !errors.Is(err, ErrCodeMismatch) {
		t.Fatalf("expected ErrCodeMismatch, got %v", err)
	}
	if err := VerifyOTP("123456", "123456", &past, now); !errors.Is(err, ErrCodeExpired) {
		t.Fatalf("expected ErrCodeExpired, got %v", err)
	}
	if err := VerifyOTP("", "", &future, now); !errors.Is(err, ErrCodeMismatch) {
		t.Fatalf("empty stored otp should never verify, got %v", err)
	}
}
