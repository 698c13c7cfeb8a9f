package postgresrepo

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/muhammadkh97/bawwabty-marketplace/internal/dal/postgres"
	"github.com/muhammadkh97/bawwabty-marketplace/internal/service/models/currency"
	"github.com/muhammadkh97/bawwabty-marketplace/internal/service/models/orderitem"
)

var orderItemColumns = []string{
	"id",
	"order_id",
	"product_id",
	"vendor_id",
	"product_name",
	"product_image",
	"quantity",
	"unit_price_cents",
	"total_cents",
	"commission_cents",
	"vendor_earning_cents",
	"price_currency",
	"created_at",
	"updated_at",
}

// OrderItemDal represents the order item data access layer model.
type OrderItemDal struct {
	Id                 uuid.UUID `db:"id"`
	OrderId            uuid.UUID `db:"order_id"`
	ProductId          uuid.UUID `db:"product_id"`
	VendorId           uuid.UUID `db:"vendor_id"`
	ProductName        string    `db:"product_name"`
	ProductImage       string    `db:"product_image"`
	Quantity           int       `db:"quantity"`
	UnitPriceCents     int64     `db:"unit_price_cents"`
	TotalCents         int64     `db:"total_cents"`
	CommissionCents    int64     `db:"commission_cents"`
	VendorEarningCents int64     `db:"vendor_earning_cents"`
	PriceCurrency      string    `db:"price_currency"`
	CreatedAt          time.Time `db:"created_at"`
	UpdatedAt          time.Time `db:"updated_at"`
}

// ToModel converts OrderItemDal to the service layer OrderItem model.
func (oi *OrderItemDal) ToModel() (*orderitem.OrderItem, error) {
	cur, err := currency.ParseCurrency(oi.PriceCurrency)
	if err != nil {
		return nil, err
	}

	return &orderitem.OrderItem{
		ID:                 oi.Id,
		OrderID:            oi.OrderId,
		ProductID:          oi.ProductId,
		VendorID:           oi.VendorId,
		ProductName:        oi.ProductName,
		ProductImage:       oi.ProductImage,
		Quantity:           oi.Quantity,
		UnitPriceCents:     oi.UnitPriceCents,
		TotalCents:         oi.TotalCents,
		CommissionCents:    oi.CommissionCents,
		VendorEarningCents: oi.VendorEarningCents,
		PriceCurrency:      cur,
		CreatedAt:          oi.CreatedAt,
		UpdatedAt:          oi.UpdatedAt,
	}, nil
}

// OrderItemDalFromModel converts the service layer OrderItem model to OrderItemDal.
func OrderItemDalFromModel(oi *orderitem.OrderItem) *OrderItemDal {
	return &OrderItemDal{
		Id:                 oi.ID,
		OrderId:            oi.OrderID,
		ProductId:          oi.ProductID,
		VendorId:           oi.VendorID,
		ProductName:        oi.ProductName,
		ProductImage:       oi.ProductImage,
		Quantity:           oi.Quantity,
		UnitPriceCents:     oi.UnitPriceCents,
		TotalCents:         oi.TotalCents,
		CommissionCents:    oi.CommissionCents,
		VendorEarningCents: oi.VendorEarningCents,
		PriceCurrency:      oi.PriceCurrency.String(),
		CreatedAt:          oi.CreatedAt,
		UpdatedAt:          oi.UpdatedAt,
	}
}

// PostgresOrderItemRepository represents a Postgres order item repository.
type PostgresOrderItemRepository struct {
	conn postgres.GenericConn
	sb   sq.StatementBuilderType
}

// NewPostgresOrderItemRepository creates a new Postgres order item repository.
func NewPostgresOrderItemRepository(conn postgres.GenericConn) *PostgresOrderItemRepository {
	return &PostgresOrderItemRepository{
		conn: conn,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// BulkInsert inserts multiple order items in a single statement.
func (r *PostgresOrderItemRepository) BulkInsert(ctx context.Context, items []orderitem.OrderItem) ([]orderitem.OrderItem, error) {
	if len(items) == 0 {
		return []orderitem.OrderItem{}, nil
	}

	builder := r.sb.Insert("order_items").Columns(orderItemColumns...)
	for i := range items {
		dal := OrderItemDalFromModel(&items[i])
		builder = builder.Values(
			dal.Id, dal.OrderId, dal.ProductId, dal.VendorId,
			dal.ProductName, dal.ProductImage, dal.Quantity,
			dal.UnitPriceCents, dal.TotalCents, dal.CommissionCents, dal.VendorEarningCents,
			dal.PriceCurrency, dal.CreatedAt, dal.UpdatedAt,
		)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build insert query: %w", err)
	}

	if _, err := r.conn.Exec(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("failed to bulk insert order items: %w", err)
	}

	return items, nil
}

// ListByOrder retrieves the items of a single order.
func (r *PostgresOrderItemRepository) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]orderitem.OrderItem, error) {
	return r.ListByOrders(ctx, []uuid.UUID{orderID})
}

// ListByOrders retrieves the items of multiple orders.
func (r *PostgresOrderItemRepository) ListByOrders(ctx context.Context, orderIDs []uuid.UUID) ([]orderitem.OrderItem, error) {
	if len(orderIDs) == 0 {
		return []orderitem.OrderItem{}, nil
	}

	query, args, err := r.sb.Select(orderItemColumns...).
		From("order_items").
		Where(sq.Eq{"order_id": orderIDs}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	var result []orderitem.OrderItem
	for rows.Next() {
		dal, err := scanOrderItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		model, err := dal.ToModel()
		if err != nil {
			return nil, fmt.Errorf("failed to convert order item dal to model: %w", err)
		}
		result = append(result, *model)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

func scanOrderItem(row pgx.Row) (*OrderItemDal, error) {
	var dal OrderItemDal
	err := row.Scan(
		&dal.Id, &dal.OrderId, &dal.ProductId, &dal.VendorId,
		&dal.ProductName, &dal.ProductImage, &dal.Quantity,
		&dal.UnitPriceCents, &dal.TotalCents, &dal.CommissionCents, &dal.VendorEarningCents,
		&dal.PriceCurrency, &dal.CreatedAt, &dal.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &dal, nil
}
