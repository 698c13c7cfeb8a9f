package zone

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func testZone() *Zone {
	return &Zone{
		ID:                         uuid.New(),
		Name:                       "Amman",
		Cities:                     []string{"Amman", "Wadi Es-Seer"},
		CenterLat:                  31.9539,
		CenterLng:                  35.9106,
		RadiusKm:                   25,
		DeliveryFeeCents:           3000,
		FreeDeliveryThresholdCents: 50000,
		EstimatedDays:              2,
		IsActive:                   true,
	}
}

func TestServesCity(t *testing.T) {
	z := testZone()
	if !z.ServesCity("Amman") {
		t.Fatalf("Amman should be served")
	}
	if z.ServesCity("Aqaba") {
		t.Fatalf("Aqaba should not be served")
	}
}

func TestContains(t *testing.T) {
	z := testZone()
	if !z.Contains(31.95, 35.91) {
		t.Fatalf("point near center should be inside")
	}
	// Aqaba, roughly 280 km away
	if z.Contains(29.53, 35.01) {
		t.Fatalf("distant point should be outside")
	}
}

func TestFeeFor(t *testing.T) {
	z := testZone()

	if got := z.FeeFor(DeliveryScheduled, 10000); got != 3000 {
		t.Fatalf("scheduled fee: got %d", got)
	}
	if got := z.FeeFor(DeliveryInstant, 10000); got != 4500 {
		t.Fatalf("instant fee should be 1.5x: got %d", got)
	}
	if got := z.FeeFor(DeliveryScheduled, 50000); got != 0 {
		t.Fatalf("over threshold should be free: got %d", got)
	}

	z.FreeDeliveryThresholdCents = 0
	if got := z.FeeFor(DeliveryScheduled, 1000000); got != 3000 {
		t.Fatalf("zero threshold disables free delivery: got %d", got)
	}
}

func TestEstimatedDelivery(t *testing.T) {
	z := testZone()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	if got := z.EstimatedDelivery(DeliveryInstant, now); !got.Equal(now.Add(InstantDeliveryWindow)) {
		t.Fatalf("instant estimate: got %v", got)
	}
	if got := z.EstimatedDelivery(DeliveryScheduled, now); !got.Equal(now.Add(48*time.Hour)) {
		t.Fatalf("scheduled estimate: got %v", got)
	}
}

func TestDistanceKm(t *testing.T) {
	if got := DistanceKm(31.9539, 35.9106, 31.9539, 35.9106); got != 0 {
		t.Fatalf("zero distance: got %v", got)
	}
	// Amman to Zarqa is roughly 21 km
	got := DistanceKm(31.9539, 35.9106, 32.0728, 36.0880)
	if got < 15 || got > 30 {
		t.Fatalf("Amman-Zarqa distance implausible: got %v", got)
	}
}
