package app

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/muhammadkh97/bawwabty-marketplace/internal/dal/postgres"
	"github.com/muhammadkh97/bawwabty-marketplace/internal/dal/rabbitmq"
	"github.com/muhammadkh97/bawwabty-marketplace/internal/dal/uow"
	"github.com/muhammadkh97/bawwabty-marketplace/internal/otel"
	"github.com/muhammadkh97/bawwabty-marketplace/internal/service/models/events"
	"github.com/muhammadkh97/bawwabty-marketplace/internal/service/services/checkoutsvc"
	"github.com/muhammadkh97/bawwabty-marketplace/internal/service/services/deliverysvc"
	"github.com/muhammadkh97/bawwabty-marketplace/internal/service/services/notificationsvc"
	"github.com/muhammadkh97/bawwabty-marketplace/internal/service/services/ordersvc"
	httptransport "github.com/muhammadkh97/bawwabty-marketplace/internal/transport/http"
	outboxworker "github.com/muhammadkh97/bawwabty-marketplace/internal/worker/outbox"
)

// App represents the application.
type App struct {
	transport      *httptransport.HTTPTransport
	postgresClient *postgres.Client
	rabbitClient   *rabbitmq.Client
	outboxWorker   *outboxworker.Worker
	otelController *otel.OtelController
}

// MustNewApp creates a new application.
func MustNewApp() *App {
	otelController := otel.MustInitOtel()

	postgresClient := postgres.MustNewClient()
	rabbitClient := rabbitmq.MustNewClient()

	for _, queue := range []string{
		events.QueueOrderCreated,
		events.QueueOrderStatusChanged,
		events.QueueNotifications,
	} {
		if _, err := rabbitClient.DeclareQueue(rabbitmq.DeclareQueueConfig{
			Name:    queue,
			Durable: true,
		}); err != nil {
			panic("failed to declare queue " + queue + ": " + err.Error())
		}
	}

	orderSvc := ordersvc.MustNewOrderService(
		ordersvc.WithPostgresClient(postgresClient),
	)
	checkoutSvc := checkoutsvc.MustNewCheckoutService(
		checkoutsvc.WithPostgresClient(postgresClient),
	)
	deliverySvc := deliverysvc.MustNewDeliveryService(
		deliverysvc.WithPostgresClient(postgresClient),
	)
	notificationSvc := notificationsvc.MustNewNotificationService(
		notificationsvc.WithPostgresClient(postgresClient),
	)

	transport := httptransport.NewHTTPTransport(orderSvc, checkoutSvc, deliverySvc, notificationSvc)
	transport.RegisterRoutes()

	worker := outboxworker.NewWorker(
		uow.NewUnitOfWork(postgresClient).OutboxRepository(),
		rabbitClient,
	)

	return &App{
		transport:      transport,
		postgresClient: postgresClient,
		rabbitClient:   rabbitClient,
		outboxWorker:   worker,
		otelController: otelController,
	}
}

// Run starts the application and blocks until an interrupt signal arrives,
// then shuts everything down with a 10s grace period.
func (a *App) Run() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	workerCtx, cancelWorker := context.WithCancel(context.Background())
	go a.outboxWorker.Start(workerCtx)

	go func() {
		slog.Info("Starting HTTP server")
		if err := a.transport.Run(); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	<-stop
	slog.Info("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.transport.Shutdown(ctx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped gracefully")
	}

	cancelWorker()

	if err := a.rabbitClient.Close(); err != nil {
		slog.Error("RabbitMQ connection close error", "error", err)
	} else {
		slog.Info("RabbitMQ connection closed gracefully")
	}

	a.postgresClient.Close()
	slog.Info("Database connection closed gracefully")

	if err := a.otelController.Shutdown(); err != nil {
		slog.Error("Tracer provider shutdown error", "error", err)
	}

	slog.Info("Application shutdown complete")
}
