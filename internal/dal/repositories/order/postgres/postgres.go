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
	"github.com/muhammadkh97/bawwabty-marketplace/internal/service/models/currency"
	"github.com/muhammadkh97/bawwabty-marketplace/internal/service/models/order"
	"github.com/muhammadkh97/bawwabty-marketplace/internal/service/models/orderitem"
)

var orderColumns = []string{
	"id",
	"order_number",
	"customer_id",
	"vendor_id",
	"driver_id",
	"coupon_id",
	"delivery_address",
	"city",
	"subtotal_cents",
	"delivery_fee_cents",
	"tax_cents",
	"discount_cents",
	"total_cents",
	"currency",
	"status",
	"confirmed_at",
	"processing_at",
	"ready_at",
	"picked_up_at",
	"shipped_at",
	"out_for_delivery_at",
	"delivered_at",
	"cancelled_at",
	"refunded_at",
	"pickup_qr_code",
	"pickup_otp",
	"pickup_otp_expires_at",
	"delivery_qr_code",
	"delivery_otp",
	"delivery_otp_expires_at",
	"picked_up_by",
	"delivered_to",
	"created_at",
	"updated_at",
}

// OrderDal represents the order data access layer model.
type OrderDal struct {
	Id                   uuid.UUID  `db:"id"`
	OrderNumber          string     `db:"order_number"`
	CustomerId           uuid.UUID  `db:"customer_id"`
	VendorId             uuid.UUID  `db:"vendor_id"`
	DriverId             *uuid.UUID `db:"driver_id"`
	CouponId             *uuid.UUID `db:"coupon_id"`
	DeliveryAddress      string     `db:"delivery_address"`
	City                 string     `db:"city"`
	SubtotalCents        int64      `db:"subtotal_cents"`
	DeliveryFeeCents     int64      `db:"delivery_fee_cents"`
	TaxCents             int64      `db:"tax_cents"`
	DiscountCents        int64      `db:"discount_cents"`
	TotalCents           int64      `db:"total_cents"`
	Currency             string     `db:"currency"`
	Status               string     `db:"status"`
	ConfirmedAt          *time.Time `db:"confirmed_at"`
	ProcessingAt         *time.Time `db:"processing_at"`
	ReadyAt              *time.Time `db:"ready_at"`
	PickedUpAt           *time.Time `db:"picked_up_at"`
	ShippedAt            *time.Time `db:"shipped_at"`
	OutForDeliveryAt     *time.Time `db:"out_for_delivery_at"`
	DeliveredAt          *time.Time `db:"delivered_at"`
	CancelledAt          *time.Time `db:"cancelled_at"`
	RefundedAt           *time.Time `db:"refunded_at"`
	PickupQrCode         *string    `db:"pickup_qr_code"`
	PickupOtp            *string    `db:"pickup_otp"`
	PickupOtpExpiresAt   *time.Time `db:"pickup_otp_expires_at"`
	DeliveryQrCode       *string    `db:"delivery_qr_code"`
	DeliveryOtp          *string    `db:"delivery_otp"`
	DeliveryOtpExpiresAt *time.Time `db:"delivery_otp_expires_at"`
	PickedUpBy           *uuid.UUID `db:"picked_up_by"`
	DeliveredTo          *uuid.UUID `db:"delivered_to"`
	CreatedAt            time.Time  `db:"created_at"`
	UpdatedAt            time.Time  `db:"updated_at"`
}

// ToModel converts OrderDal to the service layer Order model.
func (o *OrderDal) ToModel() (*order.Order, error) {
	cur, err := currency.ParseCurrency(o.Currency)
	if err != nil {
		return nil, err
	}
	status, err := order.ParseStatus(o.Status)
	if err != nil {
		return nil, err
	}

	return &order.Order{
		ID:                   o.Id,
		OrderNumber:          o.OrderNumber,
		CustomerID:           o.CustomerId,
		VendorID:             o.VendorId,
		DriverID:             o.DriverId,
		CouponID:             o.CouponId,
		DeliveryAddress:      o.DeliveryAddress,
		City:                 o.City,
		SubtotalCents:        o.SubtotalCents,
		DeliveryFeeCents:     o.DeliveryFeeCents,
		TaxCents:             o.TaxCents,
		DiscountCents:        o.DiscountCents,
		TotalCents:           o.TotalCents,
		Currency:             cur,
		Status:               status,
		ConfirmedAt:          o.ConfirmedAt,
		ProcessingAt:         o.ProcessingAt,
		ReadyAt:              o.ReadyAt,
		PickedUpAt:           o.PickedUpAt,
		ShippedAt:            o.ShippedAt,
		OutForDeliveryAt:     o.OutForDeliveryAt,
		DeliveredAt:          o.DeliveredAt,
		CancelledAt:          o.CancelledAt,
		RefundedAt:           o.RefundedAt,
		PickupQRCode:         deref(o.PickupQrCode),
		PickupOTP:            deref(o.PickupOtp),
		PickupOTPExpiresAt:   o.PickupOtpExpiresAt,
		DeliveryQRCode:       deref(o.DeliveryQrCode),
		DeliveryOTP:          deref(o.DeliveryOtp),
		DeliveryOTPExpiresAt: o.DeliveryOtpExpiresAt,
		PickedUpBy:           o.PickedUpBy,
		DeliveredTo:          o.DeliveredTo,
		CreatedAt:            o.CreatedAt,
		UpdatedAt:            o.UpdatedAt,
		Items:                []orderitem.OrderItem{}, // populated separately
	}, nil
}

// OrderDalFromModel converts the service layer Order model to OrderDal.
func OrderDalFromModel(o *order.Order) *OrderDal {
	return &OrderDal{
		Id:                   o.ID,
		OrderNumber:          o.OrderNumber,
		CustomerId:           o.CustomerID,
		VendorId:             o.VendorID,
		DriverId:             o.DriverID,
		CouponId:             o.CouponID,
		DeliveryAddress:      o.DeliveryAddress,
		City:                 o.City,
		SubtotalCents:        o.SubtotalCents,
		DeliveryFeeCents:     o.DeliveryFeeCents,
		TaxCents:             o.TaxCents,
		DiscountCents:        o.DiscountCents,
		TotalCents:           o.TotalCents,
		Currency:             o.Currency.String(),
		Status:               o.Status.String(),
		ConfirmedAt:          o.ConfirmedAt,
		ProcessingAt:         o.ProcessingAt,
		ReadyAt:              o.ReadyAt,
		PickedUpAt:           o.PickedUpAt,
		ShippedAt:            o.ShippedAt,
		OutForDeliveryAt:     o.OutForDeliveryAt,
		DeliveredAt:          o.DeliveredAt,
		CancelledAt:          o.CancelledAt,
		RefundedAt:           o.RefundedAt,
		PickupQrCode:         refIfSet(o.PickupQRCode),
		PickupOtp:            refIfSet(o.PickupOTP),
		PickupOtpExpiresAt:   o.PickupOTPExpiresAt,
		DeliveryQrCode:       refIfSet(o.DeliveryQRCode),
		DeliveryOtp:          refIfSet(o.DeliveryOTP),
		DeliveryOtpExpiresAt: o.DeliveryOTPExpiresAt,
		PickedUpBy:           o.PickedUpBy,
		DeliveredTo:          o.DeliveredTo,
		CreatedAt:            o.CreatedAt,
		UpdatedAt:            o.UpdatedAt,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}

func refIfSet(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}

func (o *OrderDal) values() []any {
	return []any{
		o.Id, o.OrderNumber, o.CustomerId, o.VendorId, o.DriverId, o.CouponId,
		o.DeliveryAddress, o.City,
		o.SubtotalCents, o.DeliveryFeeCents, o.TaxCents, o.DiscountCents, o.TotalCents,
		o.Currency, o.Status,
		o.ConfirmedAt, o.ProcessingAt, o.ReadyAt, o.PickedUpAt, o.ShippedAt,
		o.OutForDeliveryAt, o.DeliveredAt, o.CancelledAt, o.RefundedAt,
		o.PickupQrCode, o.PickupOtp, o.PickupOtpExpiresAt,
		o.DeliveryQrCode, o.DeliveryOtp, o.DeliveryOtpExpiresAt,
		o.PickedUpBy, o.DeliveredTo,
		o.CreatedAt, o.UpdatedAt,
	}
}

func scanOrder(row pgx.Row) (*OrderDal, error) {
	var dal OrderDal
	err := row.Scan(
		&dal.Id, &dal.OrderNumber, &dal.CustomerId, &dal.VendorId, &dal.DriverId, &dal.CouponId,
		&dal.DeliveryAddress, &dal.City,
		&dal.SubtotalCents, &dal.DeliveryFeeCents, &dal.TaxCents, &dal.DiscountCents, &dal.TotalCents,
		&dal.Currency, &dal.Status,
		&dal.ConfirmedAt, &dal.ProcessingAt, &dal.ReadyAt, &dal.PickedUpAt, &dal.ShippedAt,
		&dal.OutForDeliveryAt, &dal.DeliveredAt, &dal.CancelledAt, &dal.RefundedAt,
		&dal.PickupQrCode, &dal.PickupOtp, &dal.PickupOtpExpiresAt,
		&dal.DeliveryQrCode, &dal.DeliveryOtp, &dal.DeliveryOtpExpiresAt,
		&dal.PickedUpBy, &dal.DeliveredTo,
		&dal.CreatedAt, &dal.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &dal, nil
}

// PostgresOrderRepository represents a Postgres order repository.
type PostgresOrderRepository struct {
	conn postgres.GenericConn
	sb   sq.StatementBuilderType
}

// NewPostgresOrderRepository creates a new Postgres order repository.
func NewPostgresOrderRepository(conn postgres.GenericConn) *PostgresOrderRepository {
	return &PostgresOrderRepository{
		conn: conn,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Insert stores a new order.
func (r *PostgresOrderRepository) Insert(ctx context.Context, o order.Order) (order.Order, error) {
	dal := OrderDalFromModel(&o)

	query, args, err := r.sb.Insert("orders").
		Columns(orderColumns...).
		Values(dal.values()...).
		ToSql()
	if err != nil {
		return order.Order{}, fmt.Errorf("failed to build insert query: %w", err)
	}

	if _, err := r.conn.Exec(ctx, query, args...); err != nil {
		return order.Order{}, fmt.Errorf("failed to insert order: %w", err)
	}

	return o, nil
}

// GetByID retrieves an order by id.
func (r *PostgresOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	return r.getByID(ctx, id, false)
}

// GetByIDForUpdate retrieves an order by id with a row lock held until the
// surrounding transaction completes.
func (r *PostgresOrderRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	return r.getByID(ctx, id, true)
}

func (r *PostgresOrderRepository) getByID(ctx context.Context, id uuid.UUID, forUpdate bool) (*order.Order, error) {
	builder := r.sb.Select(orderColumns...).
		From("orders").
		Where(sq.Eq{"id": id})
	if forUpdate {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	dal, err := scanOrder(r.conn.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrNotFound
		}

		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	return dal.ToModel()
}

// Update persists every mutable order field.
func (r *PostgresOrderRepository) Update(ctx context.Context, o *order.Order) error {
	dal := OrderDalFromModel(o)

	query, args, err := r.sb.Update("orders").
		SetMap(map[string]any{
			"driver_id":               dal.DriverId,
			"status":                  dal.Status,
			"confirmed_at":            dal.ConfirmedAt,
			"processing_at":           dal.ProcessingAt,
			"ready_at":                dal.ReadyAt,
			"picked_up_at":            dal.PickedUpAt,
			"shipped_at":              dal.ShippedAt,
			"out_for_delivery_at":     dal.OutForDeliveryAt,
			"delivered_at":            dal.DeliveredAt,
			"cancelled_at":            dal.CancelledAt,
			"refunded_at":             dal.RefundedAt,
			"pickup_qr_code":          dal.PickupQrCode,
			"pickup_otp":              dal.PickupOtp,
			"pickup_otp_expires_at":   dal.PickupOtpExpiresAt,
			"delivery_qr_code":        dal.DeliveryQrCode,
			"delivery_otp":            dal.DeliveryOtp,
			"delivery_otp_expires_at": dal.DeliveryOtpExpiresAt,
			"picked_up_by":            dal.PickedUpBy,
			"delivered_to":            dal.DeliveredTo,
			"updated_at":              dal.UpdatedAt,
		}).
		Where(sq.Eq{"id": dal.Id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update query: %w", err)
	}

	tag, err := r.conn.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return order.ErrNotFound
	}

	return nil
}

// Query retrieves orders matching the filter.
func (r *PostgresOrderRepository) Query(ctx context.Context, filter *order.QueryOrdersModel) ([]order.Order, error) {
	builder := r.sb.Select(orderColumns...).From("orders")

	if len(filter.Ids) > 0 {
		builder = builder.Where(sq.Eq{"id": filter.Ids})
	}
	if len(filter.CustomerIds) > 0 {
		builder = builder.Where(sq.Eq{"customer_id": filter.CustomerIds})
	}
	if len(filter.VendorIds) > 0 {
		builder = builder.Where(sq.Eq{"vendor_id": filter.VendorIds})
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, 0, len(filter.Statuses))
		for _, s := range filter.Statuses {
			statuses = append(statuses, s.String())
		}
		builder = builder.Where(sq.Eq{"status": statuses})
	}

	builder = builder.OrderBy("created_at DESC")

	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		builder = builder.Offset(uint64(filter.Offset))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var result []order.Order
	for rows.Next() {
		dal, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		model, err := dal.ToModel()
		if err != nil {
			return nil, fmt.Errorf("failed to convert order dal to model: %w", err)
		}
		result = append(result, *model)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}
