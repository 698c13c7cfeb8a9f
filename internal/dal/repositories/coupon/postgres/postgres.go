package postgresrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/muhammadkh97/bawwabty-marketplace/internal/dal/postgres"
	"github.com/muhammadkh97/bawwabty-marketplace/internal/service/models/coupon"
)

var couponColumns = []string{
	"id",
	"vendor_id",
	"code",
	"discount_type",
	"discount_value",
	"max_discount_cents",
	"min_purchase_cents",
	"usage_limit",
	"used_count",
	"start_date",
	"end_date",
	"is_active",
	"created_at",
	"updated_at",
}

// CouponDal represents the coupon data access layer model.
type CouponDal struct {
	Id               uuid.UUID `db:"id"`
	VendorId         uuid.UUID `db:"vendor_id"`
	Code             string    `db:"code"`
	DiscountType     string    `db:"discount_type"`
	DiscountValue    int64     `db:"discount_value"`
	MaxDiscountCents *int64    `db:"max_discount_cents"`
	MinPurchaseCents int64     `db:"min_purchase_cents"`
	UsageLimit       int       `db:"usage_limit"`
	UsedCount        int       `db:"used_count"`
	StartDate        time.Time `db:"start_date"`
	EndDate          time.Time `db:"end_date"`
	IsActive         bool      `db:"is_active"`
	CreatedAt        time.Time `db:"created_at"`
	UpdatedAt        time.Time `db:"updated_at"`
}

// ToModel converts CouponDal to the service layer Coupon model.
func (c *CouponDal) ToModel() *coupon.Coupon {
	return &coupon.Coupon{
		ID:               c.Id,
		VendorID:         c.VendorId,
		Code:             c.Code,
		DiscountType:     coupon.DiscountType(c.DiscountType),
		DiscountValue:    c.DiscountValue,
		MaxDiscountCents: c.MaxDiscountCents,
		MinPurchaseCents: c.MinPurchaseCents,
		UsageLimit:       c.UsageLimit,
		UsedCount:        c.UsedCount,
		StartDate:        c.StartDate,
		EndDate:          c.EndDate,
		IsActive:         c.IsActive,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
}

// PostgresCouponRepository represents a Postgres coupon repository.
type PostgresCouponRepository struct {
	conn postgres.GenericConn
	sb   sq.StatementBuilderType
}

// NewPostgresCouponRepository creates a new Postgres coupon repository.
func NewPostgresCouponRepository(conn postgres.GenericConn) *PostgresCouponRepository {
	return &PostgresCouponRepository{
		conn: conn,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Insert stores a new coupon.
func (r *PostgresCouponRepository) Insert(ctx context.Context, c coupon.Coupon) (coupon.Coupon, error) {
	query, args, err := r.sb.Insert("coupons").
		Columns(couponColumns...).
		Values(
			c.ID, c.VendorID, c.Code,
			string(c.DiscountType), c.DiscountValue, c.MaxDiscountCents, c.MinPurchaseCents,
			c.UsageLimit, c.UsedCount,
			c.StartDate, c.EndDate, c.IsActive,
			c.CreatedAt, c.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return coupon.Coupon{}, fmt.Errorf("failed to build insert query: %w", err)
	}

	if _, err := r.conn.Exec(ctx, query, args...); err != nil {
		return coupon.Coupon{}, fmt.Errorf("failed to insert coupon: %w", err)
	}

	return c, nil
}

// GetActiveByCode looks up an active coupon by exact code and vendor. The
// caller is expected to have normalized the code to uppercase.
func (r *PostgresCouponRepository) GetActiveByCode(ctx context.Context, code string, vendorID uuid.UUID) (*coupon.Coupon, error) {
	query, args, err := r.sb.Select(couponColumns...).
		From("coupons").
		Where(sq.Eq{"code": code, "vendor_id": vendorID, "is_active": true}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	dal, err := scanCoupon(r.conn.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, coupon.ErrNotFound
		}

		return nil, fmt.Errorf("failed to get coupon: %w", err)
	}

	return dal.ToModel(), nil
}

// ListByVendor returns every coupon of a vendor, newest first.
func (r *PostgresCouponRepository) ListByVendor(ctx context.Context, vendorID uuid.UUID) ([]coupon.Coupon, error) {
	query, args, err := r.sb.Select(couponColumns...).
		From("coupons").
		Where(sq.Eq{"vendor_id": vendorID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query coupons: %w", err)
	}
	defer rows.Close()

	var result []coupon.Coupon
	for rows.Next() {
		dal, err := scanCoupon(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan coupon: %w", err)
		}
		result = append(result, *dal.ToModel())
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

// IncrementUsage adds exactly 1 to used_count. Never decremented.
func (r *PostgresCouponRepository) IncrementUsage(ctx context.Context, id uuid.UUID) error {
	query, args, err := r.sb.Update("coupons").
		Set("used_count", sq.Expr("used_count + 1")).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update query: %w", err)
	}

	tag, err := r.conn.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to increment coupon usage: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return coupon.ErrNotFound
	}

	return nil
}

func scanCoupon(row pgx.Row) (*CouponDal, error) {
	var dal CouponDal
	err := row.Scan(
		&dal.Id, &dal.VendorId, &dal.Code,
		&dal.DiscountType, &dal.DiscountValue, &dal.MaxDiscountCents, &dal.MinPurchaseCents,
		&dal.UsageLimit, &dal.UsedCount,
		&dal.StartDate, &dal.EndDate, &dal.IsActive,
		&dal.CreatedAt, &dal.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &dal, nil
}
