package handoff

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Kind distinguishes the vendor-to-driver handoff from the driver-to-customer one.
type Kind string

const (
	KindPickup   Kind = "pickup"
	KindDelivery Kind = "delivery"
)

// OTPTTL is the validity window of a generated OTP.
const OTPTTL = 24 * time.Hour

var (
	ErrCodeMismatch = errors.New("handoff code mismatch")
	ErrCodeExpired  = errors.New("handoff code expired")
	ErrBadQRPayload = errors.New("malformed qr payload")
)

// Codes is the full set of handoff material generated when an order becomes
// ready for pickup. Each value is unique per call and never reused.
type Codes struct {
	PickupQRCode         string
	PickupOTP            string
	PickupOTPExpiresAt   time.Time
	DeliveryQRCode       string
	DeliveryOTP          string
	DeliveryOTPExpiresAt time.Time
}

// GenerateCodes builds fresh pickup and delivery codes for the order, both
// OTPs expiring OTPTTL after now.
func GenerateCodes(orderID uuid.UUID, now time.Time) Codes {
	expiresAt := now.Add(OTPTTL)

	return Codes{
		PickupQRCode:         GenerateQRToken(orderID, KindPickup, now),
		PickupOTP:            GenerateOTP(),
		PickupOTPExpiresAt:   expiresAt,
		DeliveryQRCode:       GenerateQRToken(orderID, KindDelivery, now),
		DeliveryOTP:          GenerateOTP(),
		DeliveryOTPExpiresAt: expiresAt,
	}
}

// GenerateOTP returns 6 ASCII digits uniformly random in [100000, 999999].
func GenerateOTP() string {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		panic(fmt.Sprintf("failed to read random source: %v", err))
	}

	return strconv.FormatInt(100000+n.Int64(), 10)
}

// GenerateQRToken builds a token of the form
// {PICKUP|DELIVERY}-{first 8 chars of order id}-{epoch millis}-{random base36 suffix}.
func GenerateQRToken(orderID uuid.UUID, kind Kind, now time.Time) string {
	suffix, err := rand.Int(rand.Reader, big.NewInt(1<<62))
	if err != nil {
		panic(fmt.Sprintf("failed to read random source: %v", err))
	}

	return fmt.Sprintf("%s-%s-%d-%s",
		strings.ToUpper(string(kind)),
		orderID.String()[:8],
		now.UnixMilli(),
		strconv.FormatInt(suffix.Int64(), 36),
	)
}

// QRPayload is the JSON document encoded into the QR image shown to the
// counterparty during a handoff scan.
type QRPayload struct {
	Type      Kind   `json:"type"`
	OrderID   string `json:"order_id"`
	OTP       string `json:"otp"`
	Timestamp string `json:"timestamp"`
}

// NewQRPayload builds the scannable payload for an order's handoff.
func NewQRPayload(kind Kind, orderID uuid.UUID, otp string, now time.Time) QRPayload {
	return QRPayload{
		Type:      kind,
		OrderID:   orderID.String(),
		OTP:       otp,
		Timestamp: now.UTC().Format(time.RFC3339),
	}
}

// ParseQRPayload decodes and checks a scanned QR payload.
func ParseQRPayload(data []byte) (QRPayload, error) {
	var p QRPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return QRPayload{}, fmt.Errorf("%w: %v", ErrBadQRPayload, err)
	}

	if p.Type != KindPickup && p.Type != KindDelivery {
		return QRPayload{}, ErrBadQRPayload
	}
	if _, err := uuid.Parse(p.OrderID); err != nil {
		return QRPayload{}, fmt.Errorf("%w: bad order id", ErrBadQRPayload)
	}
	if len(p.OTP) != 6 {
		return QRPayload{}, fmt.Errorf("%w: bad otp", ErrBadQRPayload)
	}

	return p, nil
}

// VerifyQR checks a presented QR token against the stored one.
func VerifyQR(stored, presented string) error {
	if stored == "" || stored != presented {
		return ErrCodeMismatch
	}

	return nil
}

// VerifyOTP checks a presented OTP against the stored one and its expiry.
// A matching code presented after expiresAt is rejected.
func VerifyOTP(stored, presented string, expiresAt *time.Time, now time.Time) error {
	if stored == "" || stored != presented {
		return ErrCodeMismatch
	}
	if expiresAt != nil && now.After(*expiresAt) {
		return ErrCodeExpired
	}

	return nil
}
