package deliverysvc

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/muhammadkh97/bawwabty-marketplace/internal/dal/interfaces/icatalogrepo"
	"github.com/muhammadkh97/bawwabty-marketplace/internal/dal/interfaces/izonerepo"
	"github.com/muhammadkh97/bawwabty-marketplace/internal/service/models/catalog"
	"github.com/muhammadkh97/bawwabty-marketplace/internal/service/models/zone"
)

type fakeStore struct {
	zones   []zone.Zone
	vendors map[uuid.UUID]catalog.Vendor
}

func (f *fakeStore) ZoneRepository() izonerepo.IZoneRepository { return &fakeZoneRepo{f} }
func (f *fakeStore) VendorRepository() icatalogrepo.IVendorRepository { return &fakeVendorRepo{f} }

type fakeZoneRepo struct{ f *fakeStore }

func (r *fakeZoneRepo) ListActive(_ context.Context) ([]zone.Zone, error) {
	var out []zone.Zone
	for _, z := range r.f.zones {
		if z.IsActive {
			out = append(out, z)
		}
	}
	return out, nil
}

func (r *fakeZoneRepo) GetByID(_ context.Context, id uuid.UUID) (*zone.Zone, error) {
	for _, z := range r.f.zones {
		if z.ID == id {
			return &z, nil
		}
	}
	return nil, zone.ErrNotFound
}

func (r *fakeZoneRepo) FindByCity(_ context.Context, city string) (*zone.Zone, error) {
	for _, z := range r.f.zones {
		if z.IsActive && z.ServesCity(city) {
			return &z, nil
		}
	}
	return nil, zone.ErrNotFound
}

type fakeVendorRepo struct{ f *fakeStore }

func (r *fakeVendorRepo) GetByID(_ context.Context, id uuid.UUID) (*catalog.Vendor, error) {
	v, ok := r.f.vendors[id]
	if !ok {
		return nil, catalog.ErrVendorNotFound
	}
	return &v, nil
}

func setup(t *testing.T) (*DeliveryService, *fakeStore) {
	t.Helper()
	f := &fakeStore{vendors: make(map[uuid.UUID]catalog.Vendor)}
	f.zones = []zone.Zone{
		{
			ID:               uuid.New(),
			Name:             "Amman",
			Cities:           []string{"Amman", "Wadi Es-Seer"},
			CenterLat:        31.9539,
			CenterLng:        35.9106,
			RadiusKm:         25,
			DeliveryFeeCents: 3000,
			EstimatedDays:    1,
			IsActive:         true,
		},
		{
			ID:               uuid.New(),
			Name:             "Zarqa",
			Cities:           []string{"Zarqa"},
			CenterLat:        32.0728,
			CenterLng:        36.0880,
			RadiusKm:         15,
			DeliveryFeeCents: 4000,
			EstimatedDays:    2,
			IsActive:         true,
		},
		{
			ID:       uuid.New(),
			Name:     "Closed",
			Cities:   []string{"Aqaba"},
			IsActive: false,
		},
	}
	s := MustNewDeliveryService()
	s.newUOW = func() unitOfWork { return f }
	return s, f
}

func TestFindZoneByCity(t *testing.T) {
	ctx := context.Background()
	s, _ := setup(t)

	z, err := s.FindZone(ctx, "Zarqa", nil, nil)
	if err != nil {
		t.Fatalf("find zone: %v", err)
	}
	if z.Name != "Zarqa" {
		t.Fatalf("got zone %s", z.Name)
	}
}

func TestFindZoneByCoordinates(t *testing.T) {
	ctx := context.Background()
	s, _ := setup(t)

	// near the Amman center, city name unknown to any zone
	lat, lng := 31.96, 35.92
	z, err := s.FindZone(ctx, "Sweileh", &lat, &lng)
	if err != nil {
		t.Fatalf("find zone: %v", err)
	}
	if z.Name != "Amman" {
		t.Fatalf("got zone %s", z.Name)
	}
}

func TestFindZoneNotFound(t *testing.T) {
	ctx := context.Background()
	s, _ := setup(t)

	if _, err := s.FindZone(ctx, "Aqaba", nil, nil); !errors.Is(err, zone.ErrNotFound) {
		t.Fatalf("inactive zone city: expected ErrNotFound, got %v", err)
	}

	// far from every zone
	lat, lng := 29.53, 35.01
	if _, err := s.FindZone(ctx, "", &lat, &lng); !errors.Is(err, zone.ErrNotFound) {
		t.Fatalf("distant point: expected ErrNotFound, got %v", err)
	}
}

func TestEstimateScheduled(t *testing.T) {
	ctx := context.Background()
	s, f := setup(t)
	v := catalog.Vendor{ID: uuid.New(), UserID: uuid.New(), Name: "Store"}
	f.vendors[v.ID] = v

	est, err := s.Estimate(ctx, v.ID, 10000, "Amman", nil, nil)
	if err != nil {
		t.Fatalf("estimate: %v", err)
	}
	if est.DeliveryType != zone.DeliveryScheduled {
		t.Fatalf("delivery type: got %s", est.DeliveryType)
	}
	if est.DeliveryFeeCents != 3000 {
		t.Fatalf("fee: got %d", est.DeliveryFeeCents)
	}
	if est.ZoneName != "Amman" {
		t.Fatalf("zone: got %s", est.ZoneName)
	}
}

func TestEstimateInstantVendor(t *testing.T) {
	ctx := context.Background()
	s, f := setup(t)
	v := catalog.Vendor{ID: uuid.New(), UserID: uuid.New(), Name: "Store", InstantDelivery: true}
	f.vendors[v.ID] = v

	est, err := s.Estimate(ctx, v.ID, 10000, "Amman", nil, nil)
	if err != nil {
		t.Fatalf("estimate: %v", err)
	}
	if est.DeliveryType != zone.DeliveryInstant {
		t.Fatalf("delivery type: got %s", est.DeliveryType)
	}
	if est.DeliveryFeeCents != 4500 {
		t.Fatalf("instant fee should be 1.5x: got %d", est.DeliveryFeeCents)
	}
}

func TestEstimateUnknownVendor(t *testing.T) {
	ctx := context.Background()
	s, _ := setup(t)

	if _, err := s.Estimate(ctx, uuid.New(), 10000, "Amman", nil, nil); !errors.Is(err, catalog.ErrVendorNotFound) {
		t.Fatalf("expected ErrVendorNotFound, got %v", err)
	}
}

func TestListZonesSkipsInactive(t *testing.T) {
	ctx := context.Background()
	s, _ := setup(t)

	zones, err := s.ListZones(ctx)
	if err != nil {
		t.Fatalf("list zones: %v", err)
	}
	if len(zones) != 2 {
		t.Fatalf("expected 2 active zones, got %d", len(zones))
	}
}
