package checkoutsvc

import (
	"context"
	"errors"
	"testing"
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
	"github.com/muhammadkh97/bawwabty-marketplace/internal/service/models/catalog"
	"github.com/muhammadkh97/bawwabty-marketplace/internal/service/models/coupon"
	"github.com/muhammadkh97/bawwabty-marketplace/internal/service/models/notification"
	"github.com/muhammadkh97/bawwabty-marketplace/internal/service/models/order"
	"github.com/muhammadkh97/bawwabty-marketplace/internal/service/models/orderitem"
	"github.com/muhammadkh97/bawwabty-marketplace/internal/service/models/outbox"
	"github.com/muhammadkh97/bawwabty-marketplace/internal/service/models/pricing"
)

type fakeStore struct {
	products      map[uuid.UUID]catalog.Product
	vendors       map[uuid.UUID]catalog.Vendor
	coupons       map[uuid.UUID]coupon.Coupon
	orders        map[uuid.UUID]order.Order
	items         []orderitem.OrderItem
	history       []order.StatusHistoryEntry
	notifications []notification.Notification
	outbox        []outbox.Message
	settings      pricing.ShippingSettings

	commits int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		products: make(map[uuid.UUID]catalog.Product),
		vendors:  make(map[uuid.UUID]catalog.Vendor),
		coupons:  make(map[uuid.UUID]coupon.Coupon),
		orders:   make(map[uuid.UUID]order.Order),
	}
}

func (f *fakeStore) Begin(context.Context) error { return nil }

func (f *fakeStore) Commit(context.Context) error {
	f.commits++
	return nil
}

func (f *fakeStore) Rollback(context.Context) error { return nil }

func (f *fakeStore) OrderRepository() iorderrepo.IOrderRepository { return &fakeOrderRepo{f} }
func (f *fakeStore) OrderItemRepository() iorderitemrepo.IOrderItemRepository {
	return &fakeOrderItemRepo{f}
}
func (f *fakeStore) StatusHistoryRepository() ihistoryrepo.IStatusHistoryRepository {
	return &fakeHistoryRepo{f}
}
func (f *fakeStore) CouponRepository() icouponrepo.ICouponRepository { return &fakeCouponRepo{f} }
func (f *fakeStore) ProductRepository() icatalogrepo.IProductRepository {
	return &fakeProductRepo{f}
}
func (f *fakeStore) VendorRepository() icatalogrepo.IVendorRepository { return &fakeVendorRepo{f} }
func (f *fakeStore) SettingsRepository() isettingsrepo.ISettingsRepository {
	return &fakeSettingsRepo{f}
}
func (f *fakeStore) NotificationRepository() inotificationrepo.INotificationRepository {
	return &fakeNotificationRepo{f}
}
func (f *fakeStore) OutboxRepository() ioutboxrepo.IOutboxRepository { return &fakeOutboxRepo{f} }

type fakeOrderRepo struct{ f *fakeStore }

func (r *fakeOrderRepo) Insert(_ context.Context, o order.Order) (order.Order, error) {
	r.f.orders[o.ID] = o
	return o, nil
}

func (r *fakeOrderRepo) GetByID(_ context.Context, id uuid.UUID) (*order.Order, error) {
	o, ok := r.f.orders[id]
	if !ok {
		return nil, order.ErrNotFound
	}
	return &o, nil
}

func (r *fakeOrderRepo) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeOrderRepo) Update(_ context.Context, o *order.Order) error {
	r.f.orders[o.ID] = *o
	return nil
}

func (r *fakeOrderRepo) Query(_ context.Context, _ *order.QueryOrdersModel) ([]order.Order, error) {
	return nil, nil
}

type fakeOrderItemRepo struct{ f *fakeStore }

func (r *fakeOrderItemRepo) BulkInsert(_ context.Context, items []orderitem.OrderItem) ([]orderitem.OrderItem, error) {
	r.f.items = append(r.f.items, items...)
	return items, nil
}

func (r *fakeOrderItemRepo) ListByOrder(_ context.Context, orderID uuid.UUID) ([]orderitem.OrderItem, error) {
	var out []orderitem.OrderItem
	for _, item := range r.f.items {
		if item.OrderID == orderID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *fakeOrderItemRepo) ListByOrders(_ context.Context, _ []uuid.UUID) ([]orderitem.OrderItem, error) {
	return nil, nil
}

type fakeHistoryRepo struct{ f *fakeStore }

func (r *fakeHistoryRepo) Insert(_ context.Context, entry order.StatusHistoryEntry) error {
	r.f.history = append(r.f.history, entry)
	return nil
}

func (r *fakeHistoryRepo) ListByOrder(_ context.Context, _ uuid.UUID) ([]order.StatusHistoryEntry, error) {
	return nil, nil
}

type fakeCouponRepo struct{ f *fakeStore }

func (r *fakeCouponRepo) Insert(_ context.Context, c coupon.Coupon) (coupon.Coupon, error) {
	r.f.coupons[c.ID] = c
	return c, nil
}

func (r *fakeCouponRepo) GetActiveByCode(_ context.Context, code string, vendorID uuid.UUID) (*coupon.Coupon, error) {
	for _, c := range r.f.coupons {
		if c.Code == code && c.VendorID == vendorID && c.IsActive {
			return &c, nil
		}
	}
	return nil, coupon.ErrNotFound
}

func (r *fakeCouponRepo) ListByVendor(_ context.Context, vendorID uuid.UUID) ([]coupon.Coupon, error) {
	var out []coupon.Coupon
	for _, c := range r.f.coupons {
		if c.VendorID == vendorID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeCouponRepo) IncrementUsage(_ context.Context, id uuid.UUID) error {
	c, ok := r.f.coupons[id]
	if !ok {
		return coupon.ErrNotFound
	}
	c.UsedCount++
	r.f.coupons[id] = c
	return nil
}

type fakeProductRepo struct{ f *fakeStore }

func (r *fakeProductRepo) GetByIDs(_ context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	var out []catalog.Product
	for _, id := range ids {
		if p, ok := r.f.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) DecrementStock(_ context.Context, productID uuid.UUID, quantity int) error {
	p, ok := r.f.products[productID]
	if !ok {
		return catalog.ErrProductNotFound
	}
	p.Stock -= quantity
	if p.Stock < 0 {
		p.Stock = 0
	}
	r.f.products[productID] = p
	return nil
}

type fakeVendorRepo struct{ f *fakeStore }

func (r *fakeVendorRepo) GetByID(_ context.Context, id uuid.UUID) (*catalog.Vendor, error) {
	v, ok := r.f.vendors[id]
	if !ok {
		return nil, catalog.ErrVendorNotFound
	}
	return &v, nil
}

type fakeSettingsRepo struct{ f *fakeStore }

func (r *fakeSettingsRepo) GetShippingSettings(_ context.Context) (pricing.ShippingSettings, error) {
	return r.f.settings, nil
}

type fakeNotificationRepo struct{ f *fakeStore }

func (r *fakeNotificationRepo) Insert(_ context.Context, n notification.Notification) error {
	r.f.notifications = append(r.f.notifications, n)
	return nil
}

func (r *fakeNotificationRepo) BulkInsert(_ context.Context, ns []notification.Notification) error {
	r.f.notifications = append(r.f.notifications, ns...)
	return nil
}

func (r *fakeNotificationRepo) ListByUser(_ context.Context, _ uuid.UUID, _, _ int) ([]notification.Notification, error) {
	return nil, nil
}

func (r *fakeNotificationRepo) UnreadCount(_ context.Context, _ uuid.UUID) (int, error) {
	return 0, nil
}

func (r *fakeNotificationRepo) MarkRead(_ context.Context, _, _ uuid.UUID, _ time.Time) error {
	return nil
}

func (r *fakeNotificationRepo) MarkAllRead(_ context.Context, _ uuid.UUID, _ time.Time) error {
	return nil
}

type fakeOutboxRepo struct{ f *fakeStore }

func (r *fakeOutboxRepo) Insert(_ context.Context, msg outbox.Message) error {
	r.f.outbox = append(r.f.outbox, msg)
	return nil
}

func (r *fakeOutboxRepo) GetPendingMessages(_ context.Context, _ int) ([]outbox.Message, error) {
	return nil, nil
}

func (r *fakeOutboxRepo) Delete(_ context.Context, _ int64) error { return nil }

func (r *fakeOutboxRepo) UpdateRetry(_ context.Context, _ int64, _ int, _ string, _ time.Time) error {
	return nil
}

func setup(t *testing.T) (*CheckoutService, *fakeStore) {
	t.Helper()
	f := newFakeStore()
	f.settings = pricing.ShippingSettings{BaseFeeCents: 2000, FreeShippingThresholdCents: 100000}
	s := MustNewCheckoutService()
	s.newUOW = func() unitOfWork { return f }
	return s, f
}

func seedVendor(f *fakeStore) catalog.Vendor {
	v := catalog.Vendor{ID: uuid.New(), UserID: uuid.New(), Name: "Store"}
	f.vendors[v.ID] = v
	return v
}

func seedProduct(f *fakeStore, vendorID uuid.UUID, priceCents int64, stock int) catalog.Product {
	p := catalog.Product{
		ID:            uuid.New(),
		VendorID:      vendorID,
		Name:          "Product",
		PriceCents:    priceCents,
		PriceCurrency: "USD",
		Stock:         stock,
	}
	f.products[p.ID] = p
	return p
}

func seedCoupon(f *fakeStore, vendorID uuid.UUID) coupon.Coupon {
	now := time.Now()
	c := coupon.Coupon{
		ID:            uuid.New(),
		VendorID:      vendorID,
		Code:          "SAVE10",
		DiscountType:  coupon.DiscountPercentage,
		DiscountValue: 10,
		UsageLimit:    100,
		StartDate:     now.Add(-time.Hour),
		EndDate:       now.Add(time.Hour),
		IsActive:      true,
	}
	f.coupons[c.ID] = c
	return c
}

func TestPlaceOrder(t *testing.T) {
	ctx := context.Background()
	s, f := setup(t)
	v := seedVendor(f)
	p1 := seedProduct(f, v.ID, 5000, 10)
	p2 := seedProduct(f, v.ID, 3000, 5)

	o, err := s.PlaceOrder(ctx, PlaceOrderModel{
		CustomerID:      uuid.New(),
		Items:           []CartItem{{ProductID: p1.ID, Quantity: 2}, {ProductID: p2.ID, Quantity: 1}},
		DeliveryAddress: "12 Rainbow St",
		City:            "Amman",
	})
	if err != nil {
		t.Fatalf("place order: %v", err)
	}

	if o.Status != order.StatusPending {
		t.Fatalf("status: got %s", o.Status)
	}
	if o.SubtotalCents != 13000 {
		t.Fatalf("subtotal: got %d", o.SubtotalCents)
	}
	if o.DeliveryFeeCents != 2000 {
		t.Fatalf("delivery fee: got %d", o.DeliveryFeeCents)
	}
	if o.TaxCents != 1300 {
		t.Fatalf("tax: got %d", o.TaxCents)
	}
	if o.TotalCents != 16300 {
		t.Fatalf("total: got %d", o.TotalCents)
	}
	if o.OrderNumber == "" {
		t.Fatalf("order number empty")
	}

	if len(o.Items) != 2 {
		t.Fatalf("items: got %d", len(o.Items))
	}
	for _, item := range o.Items {
		if item.CommissionCents != item.TotalCents/10 {
			t.Fatalf("commission: %+v", item)
		}
		if item.VendorEarningCents != item.TotalCents-item.CommissionCents {
			t.Fatalf("vendor earning: %+v", item)
		}
	}

	if f.products[p1.ID].Stock != 8 || f.products[p2.ID].Stock != 4 {
		t.Fatalf("stock not decremented: %d %d", f.products[p1.ID].Stock, f.products[p2.ID].Stock)
	}

	if len(f.history) != 1 || f.history[0].Status != order.StatusPending {
		t.Fatalf("history: %+v", f.history)
	}
	if len(f.notifications) != 1 || f.notifications[0].UserID != v.UserID {
		t.Fatalf("vendor notification: %+v", f.notifications)
	}
	// order created event plus the vendor notification event
	if len(f.outbox) != 2 {
		t.Fatalf("outbox: got %d messages", len(f.outbox))
	}
	if f.commits != 1 {
		t.Fatalf("commits: got %d", f.commits)
	}
}

func TestPlaceOrderFreeShippingOverThreshold(t *testing.T) {
	ctx := context.Background()
	s, f := setup(t)
	v := seedVendor(f)
	p := seedProduct(f, v.ID, 60000, 10)

	o, err := s.PlaceOrder(ctx, PlaceOrderModel{
		CustomerID: uuid.New(),
		Items:      []CartItem{{ProductID: p.ID, Quantity: 2}},
		City:       "Amman",
	})
	if err != nil {
		t.Fatalf("place order: %v", err)
	}
	if o.DeliveryFeeCents != 0 {
		t.Fatalf("expected free shipping, got %d", o.DeliveryFeeCents)
	}
}

func TestPlaceOrderUsesDiscountPrice(t *testing.T) {
	ctx := context.Background()
	s, f := setup(t)
	v := seedVendor(f)
	p := seedProduct(f, v.ID, 5000, 10)
	p.DiscountPriceCents = 4000
	f.products[p.ID] = p

	o, err := s.PlaceOrder(ctx, PlaceOrderModel{
		CustomerID: uuid.New(),
		Items:      []CartItem{{ProductID: p.ID, Quantity: 1}},
		City:       "Amman",
	})
	if err != nil {
		t.Fatalf("place order: %v", err)
	}
	if o.SubtotalCents != 4000 {
		t.Fatalf("discount price not used: got %d", o.SubtotalCents)
	}
	if o.Items[0].UnitPriceCents != 4000 {
		t.Fatalf("item snapshot price: got %d", o.Items[0].UnitPriceCents)
	}
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	ctx := context.Background()
	s, _ := setup(t)

	_, err := s.PlaceOrder(ctx, PlaceOrderModel{CustomerID: uuid.New()})
	if !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
}

func TestPlaceOrderBadQuantity(t *testing.T) {
	ctx := context.Background()
	s, f := setup(t)
	v := seedVendor(f)
	p := seedProduct(f, v.ID, 5000, 10)

	_, err := s.PlaceOrder(ctx, PlaceOrderModel{
		CustomerID: uuid.New(),
		Items:      []CartItem{{ProductID: p.ID, Quantity: 0}},
	})
	if !errors.Is(err, ErrBadQuantity) {
		t.Fatalf("expected ErrBadQuantity, got %v", err)
	}
}

func TestPlaceOrderMixedVendorCart(t *testing.T) {
	ctx := context.Background()
	s, f := setup(t)
	v1 := seedVendor(f)
	v2 := seedVendor(f)
	p1 := seedProduct(f, v1.ID, 5000, 10)
	p2 := seedProduct(f, v2.ID, 3000, 10)

	_, err := s.PlaceOrder(ctx, PlaceOrderModel{
		CustomerID: uuid.New(),
		Items:      []CartItem{{ProductID: p1.ID, Quantity: 1}, {ProductID: p2.ID, Quantity: 1}},
	})
	if !errors.Is(err, ErrMixedVendorCart) {
		t.Fatalf("expected ErrMixedVendorCart, got %v", err)
	}
	if len(f.orders) != 0 {
		t.Fatalf("no order should be placed")
	}
}

func TestPlaceOrderOutOfStock(t *testing.T) {
	ctx := context.Background()
	s, f := setup(t)
	v := seedVendor(f)
	p := seedProduct(f, v.ID, 5000, 1)

	_, err := s.PlaceOrder(ctx, PlaceOrderModel{
		CustomerID: uuid.New(),
		Items:      []CartItem{{ProductID: p.ID, Quantity: 2}},
	})
	if !errors.Is(err, ErrOutOfStock) {
		t.Fatalf("expected ErrOutOfStock, got %v", err)
	}
	if f.products[p.ID].Stock != 1 {
		t.Fatalf("stock should be untouched, got %d", f.products[p.ID].Stock)
	}
}

func TestPlaceOrderUnknownProduct(t *testing.T) {
	ctx := context.Background()
	s, _ := setup(t)

	_, err := s.PlaceOrder(ctx, PlaceOrderModel{
		CustomerID: uuid.New(),
		Items:      []CartItem{{ProductID: uuid.New(), Quantity: 1}},
	})
	if !errors.Is(err, catalog.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestPlaceOrderWithCoupon(t *testing.T) {
	ctx := context.Background()
	s, f := setup(t)
	v := seedVendor(f)
	p := seedProduct(f, v.ID, 10000, 10)
	c := seedCoupon(f, v.ID)

	o, err := s.PlaceOrder(ctx, PlaceOrderModel{
		CustomerID: uuid.New(),
		Items:      []CartItem{{ProductID: p.ID, Quantity: 2}},
		City:       "Amman",
		CouponCode: "save10",
	})
	if err != nil {
		t.Fatalf("place order: %v", err)
	}

	if o.DiscountCents != 2000 {
		t.Fatalf("discount: got %d", o.DiscountCents)
	}
	// 20000 + 2000 + 2000 - 2000
	if o.TotalCents != 22000 {
		t.Fatalf("total: got %d", o.TotalCents)
	}
	if o.CouponID == nil || *o.CouponID != c.ID {
		t.Fatalf("coupon not linked")
	}
	if f.coupons[c.ID].UsedCount != 1 {
		t.Fatalf("used_count not incremented: %d", f.coupons[c.ID].UsedCount)
	}
}

func TestPlaceOrderExpiredCoupon(t *testing.T) {
	ctx := context.Background()
	s, f := setup(t)
	v := seedVendor(f)
	p := seedProduct(f, v.ID, 10000, 10)
	c := seedCoupon(f, v.ID)
	c.EndDate = time.Now().Add(-time.Hour)
	f.coupons[c.ID] = c

	_, err := s.PlaceOrder(ctx, PlaceOrderModel{
		CustomerID: uuid.New(),
		Items:      []CartItem{{ProductID: p.ID, Quantity: 1}},
		CouponCode: "SAVE10",
	})
	if !errors.Is(err, coupon.ErrExpired) {
		t.Fatalf("expected ErrExpired, got %v", err)
	}
	if len(f.orders) != 0 {
		t.Fatalf("no order should be placed")
	}
}

func TestValidateCoupon(t *testing.T) {
	ctx := context.Background()
	s, f := setup(t)
	v := seedVendor(f)
	c := seedCoupon(f, v.ID)

	quote, err := s.ValidateCoupon(ctx, " save10 ", v.ID, 20000)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if quote.Coupon.ID != c.ID {
		t.Fatalf("wrong coupon returned")
	}
	if quote.DiscountCents != 2000 {
		t.Fatalf("discount: got %d", quote.DiscountCents)
	}
	if quote.Status != coupon.StatusActive {
		t.Fatalf("status: got %s", quote.Status)
	}

	if _, err := s.ValidateCoupon(ctx, "NOPE", v.ID, 20000); !errors.Is(err, coupon.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestValidateCouponBelowMinimum(t *testing.T) {
	ctx := context.Background()
	s, f := setup(t)
	v := seedVendor(f)
	c := seedCoupon(f, v.ID)
	c.MinPurchaseCents = 50000
	f.coupons[c.ID] = c

	_, err := s.ValidateCoupon(ctx, "SAVE10", v.ID, 20000)
	if !errors.Is(err, coupon.ErrBelowMinimum) {
		t.Fatalf("expected ErrBelowMinimum, got %v", err)
	}
}

func TestCreateCouponNormalizesCode(t *testing.T) {
	ctx := context.Background()
	s, f := setup(t)
	v := seedVendor(f)

	created, err := s.CreateCoupon(ctx, coupon.Coupon{
		VendorID:      v.ID,
		Code:          "  welcome5 ",
		DiscountType:  coupon.DiscountFixed,
		DiscountValue: 500,
		UsageLimit:    10,
		UsedCount:     7,
		StartDate:     time.Now(),
		EndDate:       time.Now().Add(24 * time.Hour),
		IsActive:      true,
	})
	if err != nil {
		t.Fatalf("create coupon: %v", err)
	}
	if created.Code != "WELCOME5" {
		t.Fatalf("code not normalized: %q", created.Code)
	}
	if created.UsedCount != 0 {
		t.Fatalf("used_count should reset, got %d", created.UsedCount)
	}
	if created.ID == uuid.Nil {
		t.Fatalf("id not assigned")
	}
	if _, ok := f.coupons[created.ID]; !ok {
		t.Fatalf("coupon not stored")
	}
}
