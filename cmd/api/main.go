package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"autoshop/internal/api/router"
	"autoshop/internal/app/bootstrap"
	"autoshop/internal/appointments"
	"autoshop/internal/booking"
	"autoshop/internal/catalog"
	appconfig "autoshop/internal/config"
	httpmiddleware "autoshop/internal/http/middleware"
	"autoshop/internal/identity"
	"autoshop/internal/notify"
	"autoshop/internal/observability/metrics"
	"autoshop/internal/profiles"
	"autoshop/internal/vehicles"
	"autoshop/internal/workorders"
	"autoshop/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting autoshop API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	pool, err := bootstrap.OpenPgxPool(ctx, cfg)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	sqlDB, err := bootstrap.OpenSQLDB(ctx, cfg)
	if err != nil {
		logger.Error("failed to open sql db", "error", err)
		os.Exit(1)
	}
	defer sqlDB.Close()

	redisClient := bootstrap.BuildRedisClient(ctx, cfg, logger, true)
	if redisClient != nil {
		defer redisClient.Close()
	}

	// Repositories
	catalogRepo := catalog.NewRepository(sqlDB)
	catalogCache := catalog.NewCache(catalogRepo, redisClient, cfg.CatalogCacheTTL, logger)
	vehiclesRepo := vehicles.NewRepository(pool)
	appointmentsRepo := appointments.NewRepository(pool)
	profilesRepo := profiles.NewRepository(sqlDB)
	workOrdersRepo := workorders.NewRepository(pool)

	// Booking service
	bookingMetrics := metrics.NewBookingMetrics(prometheus.DefaultRegisterer)
	mailer := notify.NewSendGridSender(notify.SendGridConfig{
		APIKey:    cfg.SendGridAPIKey,
		FromEmail: cfg.SendGridFromEmail,
		FromName:  cfg.SendGridFromName,
	}, logger)
	bookingCfg := booking.Config{
		Vehicles:      vehiclesRepo,
		Appointments:  appointmentsRepo,
		Catalog:       catalogCache,
		Identity:      identity.ContextProvider{},
		Notifier:      notify.NewLogNotifier(logger),
		Metrics:       bookingMetrics,
		Logger:        logger,
		DashboardPath: cfg.DashboardPath,
	}
	if mailer != nil {
		bookingCfg.Mailer = mailer
	}
	bookingService := booking.NewService(bookingCfg)

	bookingLimiter := httpmiddleware.NewRateLimiter(1, 5)
	defer bookingLimiter.Stop()

	// Router
	r := router.New(&router.Config{
		Logger:              logger,
		CatalogHandler:      catalog.NewHandler(catalogCache, catalogRepo, logger),
		BookingHandler:      booking.NewHandler(bookingService, logger),
		AppointmentsHandler: appointments.NewHandler(appointmentsRepo, logger),
		VehiclesHandler:     vehicles.NewHandler(vehiclesRepo, logger),
		ProfilesHandler:     profiles.NewHandler(profilesRepo, logger),
		WorkOrdersHandler:   workorders.NewHandler(workOrdersRepo, logger),
		RoleLookup:          profilesRepo,
		AuthJWTSecret:       cfg.AuthJWTSecret,
		MetricsHandler:      promhttp.Handler(),
		CORSAllowedOrigins:  cfg.CORSAllowedOrigins,
		BookingRateLimit:    bookingLimiter,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}
