package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/salon-crm/internal/api/http"
	"github.com/spec-kit/salon-crm/internal/api/http/handlers"
	"github.com/spec-kit/salon-crm/internal/auth"
	"github.com/spec-kit/salon-crm/internal/config"
	"github.com/spec-kit/salon-crm/internal/events"
	"github.com/spec-kit/salon-crm/internal/notification"
	"github.com/spec-kit/salon-crm/internal/observability"
	"github.com/spec-kit/salon-crm/internal/persistence"
	"github.com/spec-kit/salon-crm/internal/repository"
	"github.com/spec-kit/salon-crm/internal/service"
	"github.com/spec-kit/salon-crm/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	clientRepo := repository.NewClientRepository(pool)
	appointmentRepo := repository.NewAppointmentRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics()

	throttle := service.NewLoginThrottle(redis.ClientHandle(), cfg.Auth.LoginMaxAttempts, cfg.Auth.LoginWindow())
	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo: userRepo,
		Throttle: throttle,
	})
	clientService := service.NewClientService(service.ClientDependencies{
		ClientRepo:      clientRepo,
		AppointmentRepo: appointmentRepo,
		Dispatcher:      dispatcher,
	})
	appointmentService := service.NewAppointmentService(service.AppointmentDependencies{
		AppointmentRepo: appointmentRepo,
		ClientRepo:      clientRepo,
		Dispatcher:      dispatcher,
	})

	whatsappClient := notification.NewWhatsAppClient(cfg.WhatsApp)
	notificationService := service.NewNotificationService(whatsappClient, dispatcher, logger)
	worker.StartNotificationWorker(notificationService)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Users:          handlers.NewUsersHandler(authService),
		Clients:        handlers.NewClientsHandler(clientService),
		Appointments:   handlers.NewAppointmentsHandler(appointmentService),
		WhatsApp:       handlers.NewWhatsAppHandler(notificationService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
