package httptransport

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/spf13/viper"

	"github.com/muhammadkh97/bawwabty-marketplace/internal/service/models/assignment"
	"github.com/muhammadkh97/bawwabty-marketplace/internal/service/models/coupon"
	"github.com/muhammadkh97/bawwabty-marketplace/internal/service/models/notification"
	"github.com/muhammadkh97/bawwabty-marketplace/internal/service/models/order"
	"github.com/muhammadkh97/bawwabty-marketplace/internal/service/models/zone"
	"github.com/muhammadkh97/bawwabty-marketplace/internal/service/services/checkoutsvc"
	"github.com/muhammadkh97/bawwabty-marketplace/internal/service/services/ordersvc"
	acceptorder "github.com/muhammadkh97/bawwabty-marketplace/internal/transport/http/accept_order"
	"github.com/muhammadkh97/bawwabty-marketplace/internal/transport/http/coupons"
	"github.com/muhammadkh97/bawwabty-marketplace/internal/transport/http/delivery"
	"github.com/muhammadkh97/bawwabty-marketplace/internal/transport/http/httperrors"
	listorders "github.com/muhammadkh97/bawwabty-marketplace/internal/transport/http/list_orders"
	"github.com/muhammadkh97/bawwabty-marketplace/internal/transport/http/notifications"
	placeorder "github.com/muhammadkh97/bawwabty-marketplace/internal/transport/http/place_order"
	updatestatus "github.com/muhammadkh97/bawwabty-marketplace/internal/transport/http/update_status"
	verifyhandoff "github.com/muhammadkh97/bawwabty-marketplace/internal/transport/http/verify_handoff"
	tracemw "github.com/muhammadkh97/bawwabty-marketplace/pkg/http/middleware/trace"
	"github.com/muhammadkh97/bawwabty-marketplace/pkg/logger"
)

type orderService interface {
	GetOrders(ctx context.Context, filter *order.QueryOrdersModel) ([]order.Order, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*order.Order, []order.StatusHistoryEntry, error)
	UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, newStatus order.Status, actingUserID uuid.UUID, notes string) (*order.Order, error)
	AcceptOrderByDriver(ctx context.Context, orderID, driverID uuid.UUID) (*assignment.Assignment, error)
	VerifyPickupCode(ctx context.Context, orderID, driverID uuid.UUID, code string, method ordersvc.VerifyMethod) (*order.Order, error)
	VerifyDeliveryCode(ctx context.Context, orderID, customerID uuid.UUID, code string, method ordersvc.VerifyMethod) (*order.Order, error)
}

type checkoutService interface {
	PlaceOrder(ctx context.Context, model checkoutsvc.PlaceOrderModel) (*order.Order, error)
	ValidateCoupon(ctx context.Context, code string, vendorID uuid.UUID, subtotalCents int64) (*checkoutsvc.CouponQuote, error)
	CreateCoupon(ctx context.Context, c coupon.Coupon) (coupon.Coupon, error)
	ListCoupons(ctx context.Context, vendorID uuid.UUID) ([]coupon.Coupon, error)
}

type deliveryService interface {
	ListZones(ctx context.Context) ([]zone.Zone, error)
	Estimate(ctx context.Context, vendorID uuid.UUID, subtotalCents int64, city string, lat, lng *float64) (*zone.Estimate, error)
}

type notificationService interface {
	List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]notification.Notification, error)
	UnreadCount(ctx context.Context, userID uuid.UUID) (int, error)
	MarkRead(ctx context.Context, id, userID uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) error
}

type HTTPTransport struct {
	server          *http.Server
	router          *chi.Mux
	orderSvc        orderService
	checkoutSvc     checkoutService
	deliverySvc     deliveryService
	notificationSvc notificationService
}

func NewHTTPTransport(orderSvc orderService, checkoutSvc checkoutService, deliverySvc deliveryService, notificationSvc notificationService) *HTTPTransport {
	router := newRouter()
	server := newServer(router)

	return &HTTPTransport{
		server:          server,
		router:          router,
		orderSvc:        orderSvc,
		checkoutSvc:     checkoutSvc,
		deliverySvc:     deliverySvc,
		notificationSvc: notificationSvc,
	}
}

func (h *HTTPTransport) Run() error {
	return h.server.ListenAndServe()
}

func (h *HTTPTransport) Shutdown(ctx context.Context) error {
	return h.server.Shutdown(ctx)
}

// RegisterRoutes registers the routes for the HTTPTransport.
func (h *HTTPTransport) RegisterRoutes() {
	h.router.Route("/api", func(r chi.Router) {
		r.Route("/orders", func(r chi.Router) {
			r.Get("/", h.listOrders)
			r.Post("/", h.placeOrder)
			r.Get("/{id}", h.getOrder)
			r.Post("/{id}/status", h.updateStatus)
			r.Post("/{id}/accept", h.acceptOrder)
			r.Post("/{id}/verify-pickup", h.verifyPickup)
			r.Post("/{id}/verify-delivery", h.verifyDelivery)
		})

		r.Route("/coupons", func(r chi.Router) {
			r.Get("/", h.listCoupons)
			r.Post("/", h.createCoupon)
			r.Post("/validate", h.validateCoupon)
		})

		r.Route("/delivery", func(r chi.Router) {
			r.Get("/zones", h.listZones)
			r.Get("/estimate", h.estimate)
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", h.listNotifications)
			r.Get("/unread-count", h.unreadCount)
			r.Post("/{id}/read", h.markRead)
			r.Post("/read-all", h.markAllRead)
		})
	})
}

func (h *HTTPTransport) placeOrder(w http.ResponseWriter, r *http.Request) {
	placeorder.PlaceOrder(w, r, h.checkoutSvc)
}

func (h *HTTPTransport) listOrders(w http.ResponseWriter, r *http.Request) {
	listorders.ListOrders(w, r, h.orderSvc)
}

func (h *HTTPTransport) getOrder(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid order id", http.StatusBadRequest)

		return
	}

	o, history, err := h.orderSvc.GetOrder(r.Context(), id)
	if err != nil {
		httperrors.Write(w, err)

		return
	}

	resp := struct {
		Order   *order.Order               `json:"order"`
		History []order.StatusHistoryEntry `json:"history"`
	}{Order: o, History: history}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("Error sending response for get order", "error", err)
	}
}

func (h *HTTPTransport) updateStatus(w http.ResponseWriter, r *http.Request) {
	updatestatus.UpdateStatus(w, r, h.orderSvc)
}

func (h *HTTPTransport) acceptOrder(w http.ResponseWriter, r *http.Request) {
	acceptorder.AcceptOrder(w, r, h.orderSvc)
}

func (h *HTTPTransport) verifyPickup(w http.ResponseWriter, r *http.Request) {
	verifyhandoff.VerifyPickup(w, r, h.orderSvc)
}

func (h *HTTPTransport) verifyDelivery(w http.ResponseWriter, r *http.Request) {
	verifyhandoff.VerifyDelivery(w, r, h.orderSvc)
}

func (h *HTTPTransport) validateCoupon(w http.ResponseWriter, r *http.Request) {
	coupons.ValidateCoupon(w, r, h.checkoutSvc)
}

func (h *HTTPTransport) createCoupon(w http.ResponseWriter, r *http.Request) {
	coupons.CreateCoupon(w, r, h.checkoutSvc)
}

func (h *HTTPTransport) listCoupons(w http.ResponseWriter, r *http.Request) {
	coupons.ListCoupons(w, r, h.checkoutSvc)
}

func (h *HTTPTransport) listZones(w http.ResponseWriter, r *http.Request) {
	delivery.ListZones(w, r, h.deliverySvc)
}

func (h *HTTPTransport) estimate(w http.ResponseWriter, r *http.Request) {
	delivery.Estimate(w, r, h.deliverySvc)
}

func (h *HTTPTransport) listNotifications(w http.ResponseWriter, r *http.Request) {
	notifications.List(w, r, h.notificationSvc)
}

func (h *HTTPTransport) unreadCount(w http.ResponseWriter, r *http.Request) {
	notifications.UnreadCount(w, r, h.notificationSvc)
}

func (h *HTTPTransport) markRead(w http.ResponseWriter, r *http.Request) {
	notifications.MarkRead(w, r, h.notificationSvc)
}

func (h *HTTPTransport) markAllRead(w http.ResponseWriter, r *http.Request) {
	notifications.MarkAllRead(w, r, h.notificationSvc)
}

func newRouter() *chi.Mux {
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(logger.NewLoggerMiddleware(slog.Default()))
	router.Use(tracemw.NewTraceMiddleware)

	allowedOrigins := viper.GetStringSlice("server.http.cors.allowed_origins")
	allowedMethods := viper.GetStringSlice("server.http.cors.allowed_methods")
	allowedHeaders := viper.GetStringSlice("server.http.cors.allowed_headers")
	exposedHeaders := viper.GetStringSlice("server.http.cors.exposed_headers")
	allowCredentials := viper.GetBool("server.http.cors.allow_credentials")
	maxAge := viper.GetInt("server.http.cors.max_age")

	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   allowedMethods,
		AllowedHeaders:   allowedHeaders,
		ExposedHeaders:   exposedHeaders,
		AllowCredentials: allowCredentials,
		MaxAge:           maxAge,
	})

	router.Use(c.Handler)

	return router
}

func newServer(router http.Handler) *http.Server {
	return &http.Server{
		Addr:    "0.0.0.0:" + viper.GetString("server.http.port"),
		Handler: router,
	}
}
