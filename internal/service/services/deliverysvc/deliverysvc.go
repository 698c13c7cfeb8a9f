package deliverysvc

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/muhammadkh97/bawwabty-marketplace/internal/dal/interfaces/icatalogrepo"
	"github.com/muhammadkh97/bawwabty-marketplace/internal/dal/interfaces/izonerepo"
	"github.com/muhammadkh97/bawwabty-marketplace/internal/dal/postgres"
	"github.com/muhammadkh97/bawwabty-marketplace/internal/dal/uow"
	"github.com/muhammadkh97/bawwabty-marketplace/internal/service/models/zone"
)

// DeliveryService resolves delivery zones and produces delivery estimates.
type DeliveryService struct {
	pgClient *postgres.Client
	newUOW   func() unitOfWork
}

type unitOfWork interface {
	ZoneRepository() izonerepo.IZoneRepository
	VendorRepository() icatalogrepo.IVendorRepository
}

// option is a function that configures the DeliveryService.
type option func(*DeliveryService)

// MustNewDeliveryService creates a new DeliveryService.
func MustNewDeliveryService(opts ...option) *DeliveryService {
	s := &DeliveryService{}
	for _, opt := range opts {
		opt(s)
	}
	if s.newUOW == nil {
		s.newUOW = func() unitOfWork {
			return uow.NewUnitOfWork(s.pgClient)
		}
	}

	return s
}

// WithPostgresClient sets the Postgres client for the DeliveryService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithPostgresClient(pgClient *postgres.Client) option {
	return func(s *DeliveryService) {
		s.pgClient = pgClient
	}
}

// ListZones retrieves every active delivery zone.
func (s *DeliveryService) ListZones(ctx context.Context) ([]zone.Zone, error) {
	work := s.newUOW()

	return work.ZoneRepository().ListActive(ctx)
}

// FindZone resolves the delivery zone for a destination. City membership wins;
// otherwise the nearest active zone whose radius covers the coordinates.
func (s *DeliveryService) FindZone(ctx context.Context, city string, lat, lng *float64) (*zone.Zone, error) {
	work := s.newUOW()

	if city != "" {
		z, err := work.ZoneRepository().FindByCity(ctx, city)
		if err == nil {
			return z, nil
		}
		if err != zone.ErrNotFound {
			return nil, err
		}
	}

	if lat == nil || lng == nil {
		return nil, zone.ErrNotFound
	}

	zones, err := work.ZoneRepository().ListActive(ctx)
	if err != nil {
		return nil, err
	}

	var (
		best     *zone.Zone
		bestDist float64
	)
	for i := range zones {
		z := &zones[i]
		dist := zone.DistanceKm(z.CenterLat, z.CenterLng, *lat, *lng)
		if dist > z.RadiusKm {
			continue
		}
		if best == nil || dist < bestDist {
			best = z
			bestDist = dist
		}
	}
	if best == nil {
		return nil, zone.ErrNotFound
	}

	return best, nil
}

// Estimate quotes a delivery for a vendor's cart: the delivery type follows
// the vendor's instant capability, the fee and arrival time follow the zone.
func (s *DeliveryService) Estimate(ctx context.Context, vendorID uuid.UUID, subtotalCents int64, city string, lat, lng *float64) (*zone.Estimate, error) {
	work := s.newUOW()

	vendor, err := work.VendorRepository().GetByID(ctx, vendorID)
	if err != nil {
		return nil, err
	}

	z, err := s.FindZone(ctx, city, lat, lng)
	if err != nil {
		return nil, err
	}

	deliveryType := zone.DeliveryScheduled
	if vendor.InstantDelivery {
		deliveryType = zone.DeliveryInstant
	}

	now := time.Now()

	return &zone.Estimate{
		DeliveryType:      deliveryType,
		DeliveryFeeCents:  z.FeeFor(deliveryType, subtotalCents),
		EstimatedDelivery: z.EstimatedDelivery(deliveryType, now),
		ZoneID:            z.ID,
		ZoneName:          z.Name,
		ZoneNameAr:        z.NameAr,
	}, nil
}
