package ordersvc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/muhammadkh97/bawwabty-marketplace/internal/dal/interfaces/iassignmentrepo"
	"github.com/muhammadkh97/bawwabty-marketplace/internal/dal/interfaces/icatalogrepo"
	"github.com/muhammadkh97/bawwabty-marketplace/internal/dal/interfaces/ihistoryrepo"
	"github.com/muhammadkh97/bawwabty-marketplace/internal/dal/interfaces/inotificationrepo"
	"github.com/muhammadkh97/bawwabty-marketplace/internal/dal/interfaces/iorderitemrepo"
	"github.com/muhammadkh97/bawwabty-marketplace/internal/dal/interfaces/iorderrepo"
	"github.com/muhammadkh97/bawwabty-marketplace/internal/dal/interfaces/ioutboxrepo"
	"github.com/muhammadkh97/bawwabty-marketplace/internal/dal/interfaces/iwalletrepo"
	"github.com/muhammadkh97/bawwabty-marketplace/internal/dal/postgres"
	"github.com/muhammadkh97/bawwabty-marketplace/internal/dal/uow"
	"github.com/muhammadkh97/bawwabty-marketplace/internal/service/models/assignment"
	"github.com/muhammadkh97/bawwabty-marketplace/internal/service/models/events"
	"github.com/muhammadkh97/bawwabty-marketplace/internal/service/models/handoff"
	"github.com/muhammadkh97/bawwabty-marketplace/internal/service/models/notification"
	"github.com/muhammadkh97/bawwabty-marketplace/internal/service/models/order"
	"github.com/muhammadkh97/bawwabty-marketplace/internal/service/models/wallet"
)

// VerifyMethod selects how a handoff code is checked.
type VerifyMethod string

const (
	MethodQR  VerifyMethod = "qr"
	MethodOTP VerifyMethod = "otp"
)

// OrderService manages the order lifecycle: status transitions, driver
// acceptance and the two handoff verifications.
type OrderService struct {
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
	AssignmentRepository() iassignmentrepo.IAssignmentRepository
	NotificationRepository() inotificationrepo.INotificationRepository
	VendorRepository() icatalogrepo.IVendorRepository
	DriverRepository() icatalogrepo.IDriverRepository
	WalletRepository() iwalletrepo.IWalletRepository
	OutboxRepository() ioutboxrepo.IOutboxRepository
}

// option is a function that configures the OrderService.
type option func(*OrderService)

// MustNewOrderService creates a new OrderService.
func MustNewOrderService(opts ...option) *OrderService {
	s := &OrderService{}
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

// WithPostgresClient sets the Postgres client for the OrderService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithPostgresClient(pgClient *postgres.Client) option {
	return func(s *OrderService) {
		s.pgClient = pgClient
	}
}

// GetOrders retrieves orders with their items based on filter.
func (s *OrderService) GetOrders(ctx context.Context, filter *order.QueryOrdersModel) ([]order.Order, error) {
	work := s.newUOW()

	orders, err := work.OrderRepository().Query(ctx, filter)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return []order.Order{}, nil
	}

	orderIDs := make([]uuid.UUID, 0, len(orders))
	for _, o := range orders {
		orderIDs = append(orderIDs, o.ID)
	}
	items, err := work.OrderItemRepository().ListByOrders(ctx, orderIDs)
	if err != nil {
		return nil, err
	}

	for i := range orders {
		for _, item := range items {
			if item.OrderID == orders[i].ID {
				orders[i].Items = append(orders[i].Items, item)
			}
		}
	}

	return orders, nil
}

// GetOrder retrieves one order with its items and status history.
func (s *OrderService) GetOrder(ctx context.Context, id uuid.UUID) (*order.Order, []order.StatusHistoryEntry, error) {
	work := s.newUOW()

	o, err := work.OrderRepository().GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	var history []order.StatusHistoryEntry
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		o.Items, err = work.OrderItemRepository().ListByOrder(gctx, id)

		return err
	})
	g.Go(func() error {
		var err error
		history, err = work.StatusHistoryRepository().ListByOrder(gctx, id)

		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	return o, history, nil
}

// UpdateOrderStatus moves an order to newStatus. The order update, the history
// append, handoff code generation and the emitted events all commit in one
// transaction. On ready_for_pickup fresh pickup and delivery codes are
// generated and available drivers are notified; on delivered the delivery
// completion payouts run as well.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, newStatus order.Status, actingUserID uuid.UUID, notes string) (*order.Order, error) {
	if !newStatus.IsValid() {
		return nil, order.ErrInvalidStatus
	}

	now := time.Now()
	work := s.newUOW()

	if err := work.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = work.Rollback(ctx) }()

	o, err := work.OrderRepository().GetByIDForUpdate(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !o.Status.CanTransitionTo(newStatus) {
		return nil, fmt.Errorf("%w: %s -> %s", order.ErrInvalidTransition, o.Status, newStatus)
	}

	o.SetStatus(newStatus, now)

	if newStatus == order.StatusReadyForPickup {
		codes := handoff.GenerateCodes(o.ID, now)
		o.PickupQRCode = codes.PickupQRCode
		o.PickupOTP = codes.PickupOTP
		o.PickupOTPExpiresAt = &codes.PickupOTPExpiresAt
		o.DeliveryQRCode = codes.DeliveryQRCode
		o.DeliveryOTP = codes.DeliveryOTP
		o.DeliveryOTPExpiresAt = &codes.DeliveryOTPExpiresAt
	}

	if err := s.applyStatusChange(ctx, work, o, actingUserID, notes, now); err != nil {
		return nil, err
	}

	if newStatus == order.StatusReadyForPickup {
		if err := s.notifyAvailableDrivers(ctx, work, o, now); err != nil {
			return nil, err
		}
	}

	if newStatus == order.StatusDelivered {
		if err := s.completeDelivery(ctx, work, o, now); err != nil {
			return nil, err
		}
	}

	if err := work.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return o, nil
}

// AcceptOrderByDriver assigns the driver to a ready order. The driver-busy
// check, the assignment insert and the order update share one transaction so
// two concurrent accepts cannot both succeed.
func (s *OrderService) AcceptOrderByDriver(ctx context.Context, orderID, driverID uuid.UUID) (*assignment.Assignment, error) {
	now := time.Now()
	work := s.newUOW()

	if err := work.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = work.Rollback(ctx) }()

	o, err := work.OrderRepository().GetByIDForUpdate(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if o.Status != order.StatusReady && o.Status != order.StatusReadyForPickup {
		return nil, fmt.Errorf("%w: order is %s", assignment.ErrNotReady, o.Status)
	}

	active, err := work.AssignmentRepository().CountActiveByDriver(ctx, driverID)
	if err != nil {
		return nil, err
	}
	if active > 0 {
		return nil, assignment.ErrDriverBusy
	}

	a := assignment.New(orderID, driverID, o.DeliveryFeeCents, now)
	if err := work.AssignmentRepository().Insert(ctx, a); err != nil {
		return nil, err
	}

	o.DriverID = &driverID
	o.UpdatedAt = now
	if err := work.OrderRepository().Update(ctx, o); err != nil {
		return nil, err
	}

	customerNote := notification.New(
		o.CustomerID,
		notification.TypeOrderUpdate,
		"Driver assigned",
		fmt.Sprintf("A driver accepted your order %s and is on the way to pick it up.", o.OrderNumber),
		notification.PriorityNormal,
		notification.CategoryOrders,
		notification.Payload{OrderID: &o.ID, OrderStatus: o.Status.String()},
		now,
	)
	if err := s.notify(ctx, work, customerNote, now); err != nil {
		return nil, err
	}

	if vendor, err := work.VendorRepository().GetByID(ctx, o.VendorID); err == nil {
		vendorNote := notification.New(
			vendor.UserID,
			notification.TypeOrderUpdate,
			"Driver assigned",
			fmt.Sprintf("A driver accepted order %s.", o.OrderNumber),
			notification.PriorityNormal,
			notification.CategoryOrders,
			notification.Payload{OrderID: &o.ID, OrderStatus: o.Status.String()},
			now,
		)
		if err := s.notify(ctx, work, vendorNote, now); err != nil {
			return nil, err
		}
	}

	if err := work.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &a, nil
}

// VerifyPickupCode checks a pickup QR token or OTP presented by the driver at
// the vendor handoff. On success the order moves to picked_up, the verifier is
// recorded and the assignment advances.
func (s *OrderService) VerifyPickupCode(ctx context.Context, orderID, driverID uuid.UUID, code string, method VerifyMethod) (*order.Order, error) {
	now := time.Now()
	work := s.newUOW()

	if err := work.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = work.Rollback(ctx) }()

	o, err := work.OrderRepository().GetByIDForUpdate(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !o.Status.CanTransitionTo(order.StatusPickedUp) {
		return nil, fmt.Errorf("%w: %s -> %s", order.ErrInvalidTransition, o.Status, order.StatusPickedUp)
	}

	switch method {
	case MethodQR:
		err = handoff.VerifyQR(o.PickupQRCode, code)
	default:
		err = handoff.VerifyOTP(o.PickupOTP, code, o.PickupOTPExpiresAt, now)
	}
	if err != nil {
		return nil, err
	}

	o.SetStatus(order.StatusPickedUp, now)
	o.PickedUpBy = &driverID
	if err := s.applyStatusChange(ctx, work, o, driverID, "pickup code verified", now); err != nil {
		return nil, err
	}

	if err := s.advanceAssignment(ctx, work, o.ID, assignment.StatusPickedUp, now); err != nil {
		return nil, err
	}

	if err := work.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return o, nil
}

// VerifyDeliveryCode checks a delivery QR token or OTP presented by the
// customer at the doorstep. On success the order moves to delivered, the
// assignment closes and the delivery completion payouts run, all in one
// transaction.
func (s *OrderService) VerifyDeliveryCode(ctx context.Context, orderID, customerID uuid.UUID, code string, method VerifyMethod) (*order.Order, error) {
	now := time.Now()
	work := s.newUOW()

	if err := work.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = work.Rollback(ctx) }()

	o, err := work.OrderRepository().GetByIDForUpdate(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !o.Status.CanTransitionTo(order.StatusDelivered) {
		return nil, fmt.Errorf("%w: %s -> %s", order.ErrInvalidTransition, o.Status, order.StatusDelivered)
	}

	switch method {
	case MethodQR:
		err = handoff.VerifyQR(o.DeliveryQRCode, code)
	default:
		err = handoff.VerifyOTP(o.DeliveryOTP, code, o.DeliveryOTPExpiresAt, now)
	}
	if err != nil {
		return nil, err
	}

	o.SetStatus(order.StatusDelivered, now)
	o.DeliveredTo = &customerID
	if err := s.applyStatusChange(ctx, work, o, customerID, "delivery code verified", now); err != nil {
		return nil, err
	}

	if err := s.advanceAssignment(ctx, work, o.ID, assignment.StatusDelivered, now); err != nil {
		return nil, err
	}

	if err := s.completeDelivery(ctx, work, o, now); err != nil {
		return nil, err
	}

	if err := work.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return o, nil
}

// applyStatusChange persists the already mutated order, appends the history
// row, publishes the status event and notifies the customer.
func (s *OrderService) applyStatusChange(ctx context.Context, work unitOfWork, o *order.Order, actingUserID uuid.UUID, notes string, now time.Time) error {
	if err := work.OrderRepository().Update(ctx, o); err != nil {
		return err
	}

	entry := order.StatusHistoryEntry{
		OrderID:   o.ID,
		Status:    o.Status,
		CreatedBy: actingUserID,
		Notes:     notes,
		CreatedAt: now,
	}
	if err := work.StatusHistoryRepository().Insert(ctx, entry); err != nil {
		return err
	}

	msg, err := events.NewOrderStatusMessage(o, actingUserID, now)
	if err != nil {
		return err
	}
	if err := work.OutboxRepository().Insert(ctx, msg); err != nil {
		return fmt.Errorf("failed to insert outbox message: %w", err)
	}

	title, message, priority := statusNotificationText(o)
	n := notification.New(
		o.CustomerID,
		statusNotificationType(o.Status),
		title,
		message,
		priority,
		notification.CategoryOrders,
		notification.Payload{OrderID: &o.ID, OrderStatus: o.Status.String()},
		now,
	)

	return s.notify(ctx, work, n, now)
}

// notifyAvailableDrivers fans a new-delivery notification out to every
// approved driver currently accepting orders.
func (s *OrderService) notifyAvailableDrivers(ctx context.Context, work unitOfWork, o *order.Order, now time.Time) error {
	drivers, err := work.DriverRepository().ListAvailable(ctx)
	if err != nil {
		return err
	}
	if len(drivers) == 0 {
		slog.Info("no available drivers to notify", "order_number", o.OrderNumber)
		return nil
	}

	ns := make([]notification.Notification, 0, len(drivers))
	for _, d := range drivers {
		ns = append(ns, notification.New(
			d.UserID,
			notification.TypeOrderUpdate,
			"Delivery available",
			fmt.Sprintf("Order %s is ready for pickup in %s.", o.OrderNumber, o.City),
			notification.PriorityHigh,
			notification.CategoryOrders,
			notification.Payload{OrderID: &o.ID, OrderStatus: o.Status.String()},
			now,
		))
	}

	if err := work.NotificationRepository().BulkInsert(ctx, ns); err != nil {
		return err
	}
	for _, n := range ns {
		msg, err := events.NewNotificationMessage(n, now)
		if err != nil {
			return err
		}
		if err := work.OutboxRepository().Insert(ctx, msg); err != nil {
			return fmt.Errorf("failed to insert outbox message: %w", err)
		}
	}

	return nil
}

// completeDelivery runs the payout side of a delivered order: vendor earnings,
// driver earnings and the customer's loyalty points.
func (s *OrderService) completeDelivery(ctx context.Context, work unitOfWork, o *order.Order, now time.Time) error {
	items, err := work.OrderItemRepository().ListByOrder(ctx, o.ID)
	if err != nil {
		return err
	}

	var vendorEarnings int64
	for _, item := range items {
		vendorEarnings += item.VendorEarningCents
	}

	if vendorEarnings > 0 {
		vendor, err := work.VendorRepository().GetByID(ctx, o.VendorID)
		if err != nil {
			return err
		}
		credit := wallet.Transaction{
			ID:          uuid.New(),
			UserID:      vendor.UserID,
			AmountCents: vendorEarnings,
			Category:    wallet.CategoryOrderPayment,
			Description: fmt.Sprintf("Earnings for order %s", o.OrderNumber),
			CreatedAt:   now,
		}
		if err := work.WalletRepository().AddCredit(ctx, credit); err != nil {
			return err
		}
	}

	a, err := work.AssignmentRepository().GetByOrder(ctx, o.ID)
	switch {
	case err == nil:
		credit := wallet.Transaction{
			ID:          uuid.New(),
			UserID:      a.DriverID,
			AmountCents: a.DriverEarningCents,
			Category:    wallet.CategoryDeliveryPayment,
			Description: fmt.Sprintf("Delivery earnings for order %s", o.OrderNumber),
			CreatedAt:   now,
		}
		if err := work.WalletRepository().AddCredit(ctx, credit); err != nil {
			return err
		}
	case errors.Is(err, assignment.ErrNotFound):
		// vendor-shipped order, nothing to pay a driver
	default:
		return err
	}

	if points := wallet.PointsForOrderTotal(o.TotalCents); points > 0 {
		entry := wallet.LoyaltyEntry{
			ID:          uuid.New(),
			UserID:      o.CustomerID,
			Points:      points,
			Type:        "earned",
			Source:      "order",
			ReferenceID: o.ID,
			Description: fmt.Sprintf("Points for order %s", o.OrderNumber),
			CreatedAt:   now,
		}
		if err := work.WalletRepository().AddLoyaltyPoints(ctx, entry); err != nil {
			return err
		}
	}

	return nil
}

// advanceAssignment moves the order's assignment to status, stamping the
// matching timestamp. Orders shipped by the vendor have no assignment; that is
// not an error.
func (s *OrderService) advanceAssignment(ctx context.Context, work unitOfWork, orderID uuid.UUID, status assignment.Status, now time.Time) error {
	a, err := work.AssignmentRepository().GetByOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, assignment.ErrNotFound) {
			return nil
		}

		return err
	}

	a.Status = status
	switch status {
	case assignment.StatusPickedUp:
		a.PickedUpAt = &now
	case assignment.StatusDelivered:
		a.DeliveredAt = &now
	}

	return work.AssignmentRepository().Update(ctx, a)
}

// notify stores the notification and mirrors it onto the realtime queue
// through the outbox.
func (s *OrderService) notify(ctx context.Context, work unitOfWork, n notification.Notification, now time.Time) error {
	if err := work.NotificationRepository().Insert(ctx, n); err != nil {
		return err
	}

	msg, err := events.NewNotificationMessage(n, now)
	if err != nil {
		return err
	}
	if err := work.OutboxRepository().Insert(ctx, msg); err != nil {
		return fmt.Errorf("failed to insert outbox message: %w", err)
	}

	return nil
}

func statusNotificationType(s order.Status) notification.Type {
	if s == order.StatusDelivered {
		return notification.TypeOrderDelivered
	}

	return notification.TypeOrderUpdate
}

func statusNotificationText(o *order.Order) (title, message string, priority notification.Priority) {
	switch o.Status {
	case order.StatusConfirmed:
		return "Order confirmed", fmt.Sprintf("Your order %s was confirmed by the vendor.", o.OrderNumber), notification.PriorityNormal
	case order.StatusProcessing, order.StatusPreparing:
		return "Order in progress", fmt.Sprintf("Your order %s is being prepared.", o.OrderNumber), notification.PriorityNormal
	case order.StatusReady, order.StatusReadyForPickup:
		return "Order ready", fmt.Sprintf("Your order %s is ready and waiting for a driver.", o.OrderNumber), notification.PriorityNormal
	case order.StatusPickedUp, order.StatusInTransit, order.StatusOutForDelivery, order.StatusShipped:
		return "Order on the way", fmt.Sprintf("Your order %s is on its way to you.", o.OrderNumber), notification.PriorityNormal
	case order.StatusDelivered:
		return "Order delivered", fmt.Sprintf("Your order %s was delivered. Enjoy!", o.OrderNumber), notification.PriorityHigh
	case order.StatusCancelled:
		return "Order cancelled", fmt.Sprintf("Your order %s was cancelled.", o.OrderNumber), notification.PriorityHigh
	case order.StatusRefunded:
		return "Order refunded", fmt.Sprintf("Your order %s was refunded.", o.OrderNumber), notification.PriorityHigh
	default:
		return "Order update", fmt.Sprintf("Your order %s status changed to %s.", o.OrderNumber, o.Status), notification.PriorityNormal
	}
}
