package izonerepo

import (
	"context"

	"github.com/google/uuid"

	"github.com/muhammadkh97/bawwabty-marketplace/internal/service/models/zone"
)

// IZoneRepository reads delivery zone reference data.
type IZoneRepository interface {
	ListActive(ctx context.Context) ([]zone.Zone, error)
	GetByID(ctx context.Context, id uuid.UUID) (*zone.Zone, error)
	FindByCity(ctx context.Context, city string) (*zone.Zone, error)
}
