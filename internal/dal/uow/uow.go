package uow

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/muhammadkh97/bawwabty-marketplace/internal/dal/interfaces/iassignmentrepo"
	"github.com/muhammadkh97/bawwabty-marketplace/internal/dal/interfaces/icatalogrepo"
	"github.com/muhammadkh97/bawwabty-marketplace/internal/dal/interfaces/icouponrepo"
	"github.com/muhammadkh97/bawwabty-marketplace/internal/dal/interfaces/ihistoryrepo"
	"github.com/muhammadkh97/bawwabty-marketplace/internal/dal/interfaces/inotificationrepo"
	"github.com/muhammadkh97/bawwabty-marketplace/internal/dal/interfaces/iorderitemrepo"
	"github.com/muhammadkh97/bawwabty-marketplace/internal/dal/interfaces/iorderrepo"
	"github.com/muhammadkh97/bawwabty-marketplace/internal/dal/interfaces/ioutboxrepo"
	"github.com/muhammadkh97/bawwabty-marketplace/internal/dal/interfaces/isettingsrepo"
	"github.com/muhammadkh97/bawwabty-marketplace/internal/dal/interfaces/iwalletrepo"
	"github.com/muhammadkh97/bawwabty-marketplace/internal/dal/interfaces/izonerepo"
	"github.com/muhammadkh97/bawwabty-marketplace/internal/dal/postgres"
	assignmentrepo "github.com/muhammadkh97/bawwabty-marketplace/internal/dal/repositories/assignment/postgres"
	catalogrepo "github.com/muhammadkh97/bawwabty-marketplace/internal/dal/repositories/catalog/postgres"
	couponrepo "github.com/muhammadkh97/bawwabty-marketplace/internal/dal/repositories/coupon/postgres"
	notificationrepo "github.com/muhammadkh97/bawwabty-marketplace/internal/dal/repositories/notification/postgres"
	orderrepo "github.com/muhammadkh97/bawwabty-marketplace/internal/dal/repositories/order/postgres"
	orderitemrepo "github.com/muhammadkh97/bawwabty-marketplace/internal/dal/repositories/orderitem/postgres"
	outboxrepo "github.com/muhammadkh97/bawwabty-marketplace/internal/dal/repositories/outbox/postgres"
	settingsrepo "github.com/muhammadkh97/bawwabty-marketplace/internal/dal/repositories/settings/postgres"
	historyrepo "github.com/muhammadkh97/bawwabty-marketplace/internal/dal/repositories/statushistory/postgres"
	walletrepo "github.com/muhammadkh97/bawwabty-marketplace/internal/dal/repositories/wallet/postgres"
	zonerepo "github.com/muhammadkh97/bawwabty-marketplace/internal/dal/repositories/zone/postgres"
)

// UnitOfWork hands out repositories bound to one connection scope. Before
// Begin they run on the pool; after Begin they all share a single transaction
// until Commit or Rollback.
type UnitOfWork struct {
	pool *pgxpool.Pool
	tx   pgx.Tx

	orderRepo        iorderrepo.IOrderRepository
	orderItemRepo    iorderitemrepo.IOrderItemRepository
	historyRepo      ihistoryrepo.IStatusHistoryRepository
	couponRepo       icouponrepo.ICouponRepository
	assignmentRepo   iassignmentrepo.IAssignmentRepository
	zoneRepo         izonerepo.IZoneRepository
	notificationRepo inotificationrepo.INotificationRepository
	productRepo      icatalogrepo.IProductRepository
	vendorRepo       icatalogrepo.IVendorRepository
	driverRepo       icatalogrepo.IDriverRepository
	walletRepo       iwalletrepo.IWalletRepository
	settingsRepo     isettingsrepo.ISettingsRepository
	outboxRepo       ioutboxrepo.IOutboxRepository
}

// NewUnitOfWork creates a unit of work backed by the client's pool.
func NewUnitOfWork(client *postgres.Client) *UnitOfWork {
	u := &UnitOfWork{pool: client.Pool()}
	u.bind(client.Pool())

	return u
}

func (u *UnitOfWork) bind(conn postgres.GenericConn) {
	u.orderRepo = orderrepo.NewPostgresOrderRepository(conn)
	u.orderItemRepo = orderitemrepo.NewPostgresOrderItemRepository(conn)
	u.historyRepo = historyrepo.NewPostgresStatusHistoryRepository(conn)
	u.couponRepo = couponrepo.NewPostgresCouponRepository(conn)
	u.assignmentRepo = assignmentrepo.NewPostgresAssignmentRepository(conn)
	u.zoneRepo = zonerepo.NewPostgresZoneRepository(conn)
	u.notificationRepo = notificationrepo.NewPostgresNotificationRepository(conn)
	u.productRepo = catalogrepo.NewPostgresProductRepository(conn)
	u.vendorRepo = catalogrepo.NewPostgresVendorRepository(conn)
	u.driverRepo = catalogrepo.NewPostgresDriverRepository(conn)
	u.walletRepo = walletrepo.NewPostgresWalletRepository(conn)
	u.settingsRepo = settingsrepo.NewPostgresSettingsRepository(conn)
	u.outboxRepo = outboxrepo.NewPostgresOutboxRepository(conn)
}

func (u *UnitOfWork) OrderRepository() iorderrepo.IOrderRepository {
	return u.orderRepo
}

func (u *UnitOfWork) OrderItemRepository() iorderitemrepo.IOrderItemRepository {
	return u.orderItemRepo
}

func (u *UnitOfWork) StatusHistoryRepository() ihistoryrepo.IStatusHistoryRepository {
	return u.historyRepo
}

func (u *UnitOfWork) CouponRepository() icouponrepo.ICouponRepository {
	return u.couponRepo
}

func (u *UnitOfWork) AssignmentRepository() iassignmentrepo.IAssignmentRepository {
	return u.assignmentRepo
}

func (u *UnitOfWork) ZoneRepository() izonerepo.IZoneRepository {
	return u.zoneRepo
}

func (u *UnitOfWork) NotificationRepository() inotificationrepo.INotificationRepository {
	return u.notificationRepo
}

func (u *UnitOfWork) ProductRepository() icatalogrepo.IProductRepository {
	return u.productRepo
}

func (u *UnitOfWork) VendorRepository() icatalogrepo.IVendorRepository {
	return u.vendorRepo
}

func (u *UnitOfWork) DriverRepository() icatalogrepo.IDriverRepository {
	return u.driverRepo
}

func (u *UnitOfWork) WalletRepository() iwalletrepo.IWalletRepository {
	return u.walletRepo
}

func (u *UnitOfWork) SettingsRepository() isettingsrepo.ISettingsRepository {
	return u.settingsRepo
}

func (u *UnitOfWork) OutboxRepository() ioutboxrepo.IOutboxRepository {
	return u.outboxRepo
}

// Begin opens a transaction and rebinds every repository onto it.
func (u *UnitOfWork) Begin(ctx context.Context) error {
	tx, err := u.pool.Begin(ctx)
	if err != nil {
		return err
	}

	u.tx = tx
	u.bind(tx)

	return nil
}

// Commit commits the open transaction, if any.
func (u *UnitOfWork) Commit(ctx context.Context) error {
	if u.tx == nil {
		return nil
	}

	return u.tx.Commit(ctx)
}

// Rollback rolls back the open transaction, if any. Safe to defer after
// Commit: pgx reports ErrTxClosed, which is ignored here.
func (u *UnitOfWork) Rollback(ctx context.Context) error {
	if u.tx == nil {
		return nil
	}

	err := u.tx.Rollback(ctx)
	if err != nil && err != pgx.ErrTxClosed {
		return err
	}

	return nil
}
