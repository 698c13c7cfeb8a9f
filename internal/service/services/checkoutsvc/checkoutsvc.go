package checkoutsvc

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/muhammadkh97/bawwabty-marketplace/internal/dal/interfaces/icatalogrepo"
	"github.com/muhammadkh97/bawwabty-marketplace/internal/dal/interfaces/icouponrepo"
	"github.com/muhammadkh97/bawwabty-marketplace/internal/dal/interfaces/ihistoryrepo"
	"github.com/muhammadkh97/bawwabty-marketplace/internal/dal/interfaces/inotificationrepo"
	"github.com/muhammadkh97/bawwabty-marketplace/internal/dal/interfaces/iorderitemrepo"
	"github.com/muhammadkh97/bawwabty-marketplace/internal/dal/interfaces/iorderrepo"
	"github.com/muhammadkh97/bawwabty-marketplace/internal/dal/interfaces/ioutboxrepo"
	"github.com/muhammadkh97/bawwabty-marketplace/internal/dal/interfaces/isettingsrepo"
	"github.com/muhammadkh97/bawwabty-marketplace/internal/dal/postgres"
	"github.com/muhammadkh97/bawwabty-marketplace/internal/dal/uow"
	"github.com/muhammadkh97/bawwabty-marketplace/internal/service/models/catalog"
	"github.com/muhammadkh97/bawwabty-marketplace/internal/service/models/coupon"
	"github.com/muhammadkh97/bawwabty-marketplace/internal/service/models/events"
	"github.com/muhammadkh97/bawwabty-marketplace/internal/service/models/notification"
	"github.com/muhammadkh97/bawwabty-marketplace/internal/service/models/order"
	"github.com/muhammadkh97/bawwabty-marketplace/internal/service/models/orderitem"
	"github.com/muhammadkh97/bawwabty-marketplace/internal/service/models/pricing"
)

var (
	ErrEmptyCart       = errors.New("cart is empty")
	ErrMixedVendorCart = errors.New("cart mixes products from different vendors")
	ErrBadQuantity     = errors.New("item quantity must be positive")
	ErrOutOfStock      = errors.New("not enough stock for item")
)

// CartItem is one line of an incoming checkout request.
type CartItem struct {
	ProductID uuid.UUID `json:"productId"`
	Quantity  int       `json:"quantity"`
}

// PlaceOrderModel carries everything checkout needs to place an order.
type PlaceOrderModel struct {
	CustomerID      uuid.UUID  `json:"customerId"`
	Items           []CartItem `json:"items"`
	DeliveryAddress string     `json:"deliveryAddress"`
	City            string     `json:"city"`
	CouponCode      string     `json:"couponCode,omitempty"`
}

// CouponQuote is the result of validating a coupon against a subtotal.
type CouponQuote struct {
	Coupon        coupon.Coupon        `json:"coupon"`
	Status        coupon.DerivedStatus `json:"status"`
	DiscountCents int64                `json:"discountCents"`
}

// CheckoutService prices carts and places orders.
type CheckoutService struct {
	pgClient *postgres.Client
	newUOW   func() unitOfWork
}

type unitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	OrderRepository() iorderrepo.IOrderRepository
	OrderItemRepository() iorderitemrepo.IOrderItemRepository
	StatusHistoryRepository() ihistoryrepo.IStatusHistoryRepository
	CouponRepository() icouponrepo.ICouponRepository
	ProductRepository() icatalogrepo.IProductRepository
	VendorRepository() icatalogrepo.IVendorRepository
	SettingsRepository() isettingsrepo.ISettingsRepository
	NotificationRepository() inotificationrepo.INotificationRepository
	OutboxRepository() ioutboxrepo.IOutboxRepository
}

// option is a function that configures the CheckoutService.
type option func(*CheckoutService)

// MustNewCheckoutService creates a new CheckoutService.
func MustNewCheckoutService(opts ...option) *CheckoutService {
	s := &CheckoutService{}
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

// WithPostgresClient sets the Postgres client for the CheckoutService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithPostgresClient(pgClient *postgres.Client) option {
	return func(s *CheckoutService) {
		s.pgClient = pgClient
	}
}

// PlaceOrder turns a cart into a placed order: pricing, coupon redemption,
// item snapshots, stock decrements and the vendor notification all commit in
// one transaction. The cart must come from a single vendor.
func (s *CheckoutService) PlaceOrder(ctx context.Context, model PlaceOrderModel) (*order.Order, error) {
	if len(model.Items) == 0 {
		return nil, ErrEmptyCart
	}
	for _, item := range model.Items {
		if item.Quantity <= 0 {
			return nil, ErrBadQuantity
		}
	}

	now := time.Now()
	work := s.newUOW()

	if err := work.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = work.Rollback(ctx) }()

	products, vendorID, err := s.loadCartProducts(ctx, work, model.Items)
	if err != nil {
		return nil, err
	}

	lines := make([]pricing.Line, 0, len(model.Items))
	for _, item := range model.Items {
		p := products[item.ProductID]
		if p.Stock < item.Quantity {
			return nil, fmt.Errorf("%w: %s", ErrOutOfStock, p.Name)
		}
		lines = append(lines, pricing.Line{
			UnitPriceCents: p.EffectivePriceCents(),
			Quantity:       item.Quantity,
		})
	}
	subtotal := pricing.Subtotal(lines)

	var (
		discount int64
		couponID *uuid.UUID
	)
	if model.CouponCode != "" {
		c, err := s.lookupCoupon(ctx, work, model.CouponCode, vendorID, subtotal, now)
		if err != nil {
			return nil, err
		}
		discount = c.Discount(subtotal)
		couponID = &c.ID
	}

	settings, err := work.SettingsRepository().GetShippingSettings(ctx)
	if err != nil {
		return nil, err
	}
	quote := pricing.NewQuote(lines, settings, discount)

	first := products[model.Items[0].ProductID]
	o := order.Order{
		ID:               uuid.New(),
		OrderNumber:      order.NewOrderNumber(now),
		CustomerID:       model.CustomerID,
		VendorID:         vendorID,
		CouponID:         couponID,
		DeliveryAddress:  model.DeliveryAddress,
		City:             model.City,
		SubtotalCents:    quote.SubtotalCents,
		DeliveryFeeCents: quote.ShippingCents,
		TaxCents:         quote.TaxCents,
		DiscountCents:    quote.DiscountCents,
		TotalCents:       quote.TotalCents,
		Currency:         first.PriceCurrency,
		Status:           order.StatusPending,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	o, err = work.OrderRepository().Insert(ctx, o)
	if err != nil {
		return nil, err
	}

	items := make([]orderitem.OrderItem, 0, len(model.Items))
	for _, item := range model.Items {
		p := products[item.ProductID]
		items = append(items, orderitem.NewSnapshot(
			o.ID, p.ID, p.VendorID, p.Name, p.ImageURL,
			item.Quantity, p.EffectivePriceCents(), p.PriceCurrency, now,
		))
	}
	items, err = work.OrderItemRepository().BulkInsert(ctx, items)
	if err != nil {
		return nil, err
	}
	o.Items = items

	for _, item := range model.Items {
		if err := work.ProductRepository().DecrementStock(ctx, item.ProductID, item.Quantity); err != nil {
			return nil, err
		}
	}

	if couponID != nil {
		if err := work.CouponRepository().IncrementUsage(ctx, *couponID); err != nil {
			return nil, err
		}
	}

	entry := order.StatusHistoryEntry{
		OrderID:   o.ID,
		Status:    order.StatusPending,
		CreatedBy: model.CustomerID,
		Notes:     "order placed",
		CreatedAt: now,
	}
	if err := work.StatusHistoryRepository().Insert(ctx, entry); err != nil {
		return nil, err
	}

	msg, err := events.NewOrderCreatedMessage(&o, now)
	if err != nil {
		return nil, err
	}
	if err := work.OutboxRepository().Insert(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to insert outbox message: %w", err)
	}

	vendor, err := work.VendorRepository().GetByID(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	n := notification.New(
		vendor.UserID,
		notification.TypeNewOrder,
		"New order",
		fmt.Sprintf("You received a new order %s.", o.OrderNumber),
		notification.PriorityHigh,
		notification.CategoryOrders,
		notification.Payload{OrderID: &o.ID, OrderStatus: o.Status.String()},
		now,
	)
	if err := work.NotificationRepository().Insert(ctx, n); err != nil {
		return nil, err
	}
	nmsg, err := events.NewNotificationMessage(n, now)
	if err != nil {
		return nil, err
	}
	if err := work.OutboxRepository().Insert(ctx, nmsg); err != nil {
		return nil, fmt.Errorf("failed to insert outbox message: %w", err)
	}

	if err := work.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &o, nil
}

// ValidateCoupon checks a code against a vendor and subtotal without
// consuming usage, returning the discount it would grant.
func (s *CheckoutService) ValidateCoupon(ctx context.Context, code string, vendorID uuid.UUID, subtotalCents int64) (*CouponQuote, error) {
	now := time.Now()
	work := s.newUOW()

	c, err := s.lookupCoupon(ctx, work, code, vendorID, subtotalCents, now)
	if err != nil {
		return nil, err
	}

	return &CouponQuote{
		Coupon:        *c,
		Status:        c.StatusAt(now),
		DiscountCents: c.Discount(subtotalCents),
	}, nil
}

// CreateCoupon stores a new vendor coupon with a normalized code.
func (s *CheckoutService) CreateCoupon(ctx context.Context, c coupon.Coupon) (coupon.Coupon, error) {
	now := time.Now()

	c.ID = uuid.New()
	c.Code = coupon.NormalizeCode(c.Code)
	c.UsedCount = 0
	c.CreatedAt = now
	c.UpdatedAt = now

	work := s.newUOW()

	return work.CouponRepository().Insert(ctx, c)
}

// ListCoupons retrieves all of a vendor's coupons.
func (s *CheckoutService) ListCoupons(ctx context.Context, vendorID uuid.UUID) ([]coupon.Coupon, error) {
	work := s.newUOW()

	return work.CouponRepository().ListByVendor(ctx, vendorID)
}

// loadCartProducts fetches the cart's products and enforces the single-vendor
// invariant.
func (s *CheckoutService) loadCartProducts(ctx context.Context, work unitOfWork, items []CartItem) (map[uuid.UUID]catalog.Product, uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}

	products, err := work.ProductRepository().GetByIDs(ctx, ids)
	if err != nil {
		return nil, uuid.Nil, err
	}

	byID := make(map[uuid.UUID]catalog.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	var vendorID uuid.UUID
	for _, item := range items {
		p, ok := byID[item.ProductID]
		if !ok {
			return nil, uuid.Nil, catalog.ErrProductNotFound
		}
		if vendorID == uuid.Nil {
			vendorID = p.VendorID
			continue
		}
		if p.VendorID != vendorID {
			return nil, uuid.Nil, ErrMixedVendorCart
		}
	}

	return byID, vendorID, nil
}

func (s *CheckoutService) lookupCoupon(ctx context.Context, work unitOfWork, code string, vendorID uuid.UUID, subtotalCents int64, now time.Time) (*coupon.Coupon, error) {
	c, err := work.CouponRepository().GetActiveByCode(ctx, coupon.NormalizeCode(code), vendorID)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(now, subtotalCents); err != nil {
		return nil, err
	}

	return c, nil
}
