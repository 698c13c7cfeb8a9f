package postgresrepo

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/muhammadkh97/bawwabty-marketplace/internal/dal/postgres"
	"github.com/muhammadkh97/bawwabty-marketplace/internal/service/models/zone"
)

var zoneColumns = []string{
	"id",
	"name",
	"name_ar",
	"governorate",
	"cities",
	"center_lat",
	"center_lng",
	"radius_km",
	"delivery_fee_cents",
	"free_delivery_threshold_cents",
	"estimated_days",
	"is_active",
	"display_order",
}

// PostgresZoneRepository represents a Postgres delivery zone repository.
type PostgresZoneRepository struct {
	conn postgres.GenericConn
	sb   sq.StatementBuilderType
}

// NewPostgresZoneRepository creates a new delivery zone repository.
func NewPostgresZoneRepository(conn postgres.GenericConn) *PostgresZoneRepository {
	return &PostgresZoneRepository{
		conn: conn,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func scanZone(row pgx.Row) (*zone.Zone, error) {
	var z zone.Zone
	err := row.Scan(
		&z.ID, &z.Name, &z.NameAr, &z.Governorate, &z.Cities,
		&z.CenterLat, &z.CenterLng, &z.RadiusKm,
		&z.DeliveryFeeCents, &z.FreeDeliveryThresholdCents,
		&z.EstimatedDays, &z.IsActive, &z.DisplayOrder,
	)
	if err != nil {
		return nil, err
	}

	return &z, nil
}

// ListActive retrieves every active zone ordered for display.
func (r *PostgresZoneRepository) ListActive(ctx context.Context) ([]zone.Zone, error) {
	query, args, err := r.sb.Select(zoneColumns...).
		From("delivery_zones").
		Where(sq.Eq{"is_active": true}).
		OrderBy("display_order ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list zones: %w", err)
	}
	defer rows.Close()

	var zones []zone.Zone
	for rows.Next() {
		z, err := scanZone(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan zone: %w", err)
		}
		zones = append(zones, *z)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read zones: %w", err)
	}

	return zones, nil
}

// GetByID retrieves a zone by its id.
func (r *PostgresZoneRepository) GetByID(ctx context.Context, id uuid.UUID) (*zone.Zone, error) {
	query, args, err := r.sb.Select(zoneColumns...).
		From("delivery_zones").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	z, err := scanZone(r.conn.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, zone.ErrNotFound
		}

		return nil, fmt.Errorf("failed to get zone: %w", err)
	}

	return z, nil
}

// FindByCity retrieves the active zone whose city list contains city.
func (r *PostgresZoneRepository) FindByCity(ctx context.Context, city string) (*zone.Zone, error) {
	query, args, err := r.sb.Select(zoneColumns...).
		From("delivery_zones").
		Where(sq.Eq{"is_active": true}).
		Where(sq.Expr("? = ANY(cities)", city)).
		OrderBy("display_order ASC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	z, err := scanZone(r.conn.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, zone.ErrNotFound
		}

		return nil, fmt.Errorf("failed to find zone by city: %w", err)
	}

	return z, nil
}
