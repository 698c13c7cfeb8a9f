package postgresrepo

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/muhammadkh97/bawwabty-marketplace/internal/dal/postgres"
	"github.com/muhammadkh97/bawwabty-marketplace/internal/service/models/pricing"
)

// PostgresSettingsRepository represents a Postgres platform settings
// repository.
type PostgresSettingsRepository struct {
	conn postgres.GenericConn
	sb   sq.StatementBuilderType
}

// NewPostgresSettingsRepository creates a new settings repository.
func NewPostgresSettingsRepository(conn postgres.GenericConn) *PostgresSettingsRepository {
	return &PostgresSettingsRepository{
		conn: conn,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// GetShippingSettings retrieves the platform shipping configuration. When no
// row has been configured yet the zero settings apply, which charge no base
// fee.
func (r *PostgresSettingsRepository) GetShippingSettings(ctx context.Context) (pricing.ShippingSettings, error) {
	query, args, err := r.sb.Select("base_fee_cents", "free_shipping_threshold_cents", "is_free").
		From("shipping_settings").
		OrderBy("updated_at DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return pricing.ShippingSettings{}, fmt.Errorf("failed to build select query: %w", err)
	}

	var settings pricing.ShippingSettings
	err = r.conn.QueryRow(ctx, query, args...).Scan(
		&settings.BaseFeeCents, &settings.FreeShippingThresholdCents, &settings.IsFree,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return pricing.ShippingSettings{}, nil
		}

		return pricing.ShippingSettings{}, fmt.Errorf("failed to get shipping settings: %w", err)
	}

	return settings, nil
}
