package zone

import (
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
)

// DeliveryType distinguishes same-day courier delivery from scheduled
// multi-day delivery.
type DeliveryType string

const (
	DeliveryInstant   DeliveryType = "instant"
	DeliveryScheduled DeliveryType = "scheduled"
)

// InstantDeliveryWindow is how far out an instant delivery is estimated.
const InstantDeliveryWindow = 45 * time.Minute

var ErrNotFound = errors.New("delivery zone not found")

// Zone is static reference data mapping a geographic area to a delivery fee
// and an estimated delivery duration.
type Zone struct {
	ID                         uuid.UUID `json:"id"`
	Name                       string    `json:"name"`
	NameAr                     string    `json:"nameAr"`
	Governorate                string    `json:"governorate"`
	Cities                     []string  `json:"cities"`
	CenterLat                  float64   `json:"centerLat"`
	CenterLng                  float64   `json:"centerLng"`
	RadiusKm                   float64   `json:"radiusKm"`
	DeliveryFeeCents           int64     `json:"deliveryFeeCents"`
	FreeDeliveryThresholdCents int64     `json:"freeDeliveryThresholdCents"`
	EstimatedDays              int       `json:"estimatedDays"`
	IsActive                   bool      `json:"isActive"`
	DisplayOrder               int       `json:"displayOrder"`
}

// Estimate is the delivery quote produced for a destination.
type Estimate struct {
	DeliveryType      DeliveryType `json:"deliveryType"`
	DeliveryFeeCents  int64        `json:"deliveryFeeCents"`
	EstimatedDelivery time.Time    `json:"estimatedDelivery"`
	ZoneID            uuid.UUID    `json:"zoneId"`
	ZoneName          string       `json:"zoneName"`
	ZoneNameAr        string       `json:"zoneNameAr"`
}

// ServesCity reports whether city belongs to the zone.
func (z *Zone) ServesCity(city string) bool {
	for _, c := range z.Cities {
		if c == city {
			return true
		}
	}

	return false
}

// Contains reports whether the point lies within the zone radius.
func (z *Zone) Contains(lat, lng float64) bool {
	return DistanceKm(z.CenterLat, z.CenterLng, lat, lng) <= z.RadiusKm
}

// FeeFor computes the delivery fee for a subtotal: free over the zone's
// threshold, the flat zone fee for scheduled delivery, 1.5x for instant.
func (z *Zone) FeeFor(deliveryType DeliveryType, subtotalCents int64) int64 {
	if z.FreeDeliveryThresholdCents > 0 && subtotalCents >= z.FreeDeliveryThresholdCents {
		return 0
	}

	fee := z.DeliveryFeeCents
	if deliveryType == DeliveryInstant {
		fee = fee * 3 / 2
	}

	return fee
}

// EstimatedDelivery returns the expected completion time from now.
func (z *Zone) EstimatedDelivery(deliveryType DeliveryType, now time.Time) time.Time {
	if deliveryType == DeliveryInstant {
		return now.Add(InstantDeliveryWindow)
	}

	return now.Add(time.Duration(z.EstimatedDays) * 24 * time.Hour)
}

// DistanceKm is the haversine great-circle distance between two points,
// rounded to 0.1 km.
func DistanceKm(lat1, lng1, lat2, lng2 float64) float64 {
	const earthRadiusKm = 6371

	rLat1 := lat1 * math.Pi / 180
	rLat2 := lat2 * math.Pi / 180
	dLat := (lat2 - lat1) * math.Pi / 180
	dLng := (lng2 - lng1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rLat1)*math.Cos(rLat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return math.Round(earthRadiusKm*c*10) / 10
}
