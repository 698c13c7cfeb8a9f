package postgresrepo

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/muhammadkh97/bawwabty-marketplace/internal/dal/postgres"
	"github.com/muhammadkh97/bawwabty-marketplace/internal/service/models/catalog"
	"github.com/muhammadkh97/bawwabty-marketplace/internal/service/models/currency"
)

var productColumns = []string{
	"id",
	"vendor_id",
	"name",
	"name_ar",
	"image_url",
	"price_cents",
	"discount_price_cents",
	"price_currency",
	"stock",
	"created_at",
	"updated_at",
}

// PostgresProductRepository represents a Postgres product repository.
type PostgresProductRepository struct {
	conn postgres.GenericConn
	sb   sq.StatementBuilderType
}

// NewPostgresProductRepository creates a new product repository.
func NewPostgresProductRepository(conn postgres.GenericConn) *PostgresProductRepository {
	return &PostgresProductRepository{
		conn: conn,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// GetByIDs retrieves the products with the given ids. Missing ids are simply
// absent from the result.
func (r *PostgresProductRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query, args, err := r.sb.Select(productColumns...).
		From("products").
		Where(sq.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get products: %w", err)
	}
	defer rows.Close()

	var products []catalog.Product
	for rows.Next() {
		var (
			p   catalog.Product
			cur string
		)
		err := rows.Scan(
			&p.ID, &p.VendorID, &p.Name, &p.NameAr, &p.ImageURL,
			&p.PriceCents, &p.DiscountPriceCents, &cur, &p.Stock,
			&p.CreatedAt, &p.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		p.PriceCurrency, err = currency.ParseCurrency(cur)
		if err != nil {
			return nil, fmt.Errorf("failed to parse product currency: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read products: %w", err)
	}

	return products, nil
}

// DecrementStock subtracts quantity from the product stock, flooring at zero.
func (r *PostgresProductRepository) DecrementStock(ctx context.Context, productID uuid.UUID, quantity int) error {
	query, args, err := r.sb.Update("products").
		Set("stock", sq.Expr("GREATEST(stock - ?, 0)", quantity)).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": productID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update query: %w", err)
	}

	tag, err := r.conn.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to decrement stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return catalog.ErrProductNotFound
	}

	return nil
}

// PostgresVendorRepository represents a Postgres vendor repository.
type PostgresVendorRepository struct {
	conn postgres.GenericConn
	sb   sq.StatementBuilderType
}

// NewPostgresVendorRepository creates a new vendor repository.
func NewPostgresVendorRepository(conn postgres.GenericConn) *PostgresVendorRepository {
	return &PostgresVendorRepository{
		conn: conn,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// GetByID retrieves a vendor by its id.
func (r *PostgresVendorRepository) GetByID(ctx context.Context, id uuid.UUID) (*catalog.Vendor, error) {
	query, args, err := r.sb.Select("id", "user_id", "name", "city", "instant_delivery", "created_at").
		From("vendors").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	var v catalog.Vendor
	err = r.conn.QueryRow(ctx, query, args...).Scan(
		&v.ID, &v.UserID, &v.Name, &v.City, &v.InstantDelivery, &v.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrVendorNotFound
		}

		return nil, fmt.Errorf("failed to get vendor: %w", err)
	}

	return &v, nil
}

// PostgresDriverRepository represents a Postgres driver repository.
type PostgresDriverRepository struct {
	conn postgres.GenericConn
	sb   sq.StatementBuilderType
}

// NewPostgresDriverRepository creates a new driver repository.
func NewPostgresDriverRepository(conn postgres.GenericConn) *PostgresDriverRepository {
	return &PostgresDriverRepository{
		conn: conn,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// ListAvailable retrieves approved drivers currently accepting orders.
func (r *PostgresDriverRepository) ListAvailable(ctx context.Context) ([]catalog.Driver, error) {
	query, args, err := r.sb.Select("id", "user_id", "approval_status", "is_available", "created_at").
		From("drivers").
		Where(sq.Eq{"approval_status": "approved", "is_available": true}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list drivers: %w", err)
	}
	defer rows.Close()

	var drivers []catalog.Driver
	for rows.Next() {
		var d catalog.Driver
		if err := rows.Scan(&d.ID, &d.UserID, &d.ApprovalStatus, &d.IsAvailable, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan driver: %w", err)
		}
		drivers = append(drivers, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read drivers: %w", err)
	}

	return drivers, nil
}
