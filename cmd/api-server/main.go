package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/harborview/backoffice-api/api/swagger"
	"github.com/harborview/backoffice-api/internal/handler"
	"github.com/harborview/backoffice-api/internal/middleware"
	"github.com/harborview/backoffice-api/internal/repository"
	"github.com/harborview/backoffice-api/internal/router"
	"github.com/harborview/backoffice-api/internal/service"
	"github.com/harborview/backoffice-api/pkg/cache"
	"github.com/harborview/backoffice-api/pkg/config"
	"github.com/harborview/backoffice-api/pkg/database"
	"github.com/harborview/backoffice-api/pkg/export"
	"github.com/harborview/backoffice-api/pkg/logger"
	corsmiddleware "github.com/harborview/backoffice-api/pkg/middleware/cors"
	reqidmiddleware "github.com/harborview/backoffice-api/pkg/middleware/requestid"
	"github.com/harborview/backoffice-api/pkg/storage"
)

// @title Harborview Back-Office API
// @version 1.0.0
// @description Hotel back-office management API: staff, guests, inventory, billing and reservations.
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to redis", "error", err)
	}
	defer redisClient.Close()

	store, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		logr.Sugar().Fatalw("failed to init object storage", "error", err)
	}
	signer := storage.NewSignedURLSigner(cfg.Storage.SignedURLSecret, cfg.Storage.SignedURLTTL)

	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)
	guestRepo := repository.NewGuestRepository(db)
	supplierRepo := repository.NewSupplierRepository(db)
	inventoryRepo := repository.NewInventoryRepository(db)
	orderRepo := repository.NewPurchaseOrderRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	reservationRepo := repository.NewReservationRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	dashboardRepo := repository.NewDashboardRepository(db)
	exportRepo := repository.NewExportRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "harborview-backoffice",
		Audience:           []string{"harborview-backoffice"},
	})
	userSvc := service.NewUserService(userRepo, validate, logr)
	employeeSvc := service.NewEmployeeService(employeeRepo, store, validate, logr)
	guestSvc := service.NewGuestService(guestRepo, validate, logr)
	supplierSvc := service.NewSupplierService(supplierRepo, validate, logr)
	inventorySvc := service.NewInventoryService(inventoryRepo, store, validate, logr)
	orderSvc := service.NewPurchaseOrderService(orderRepo, supplierRepo, validate, logr)
	invoiceSvc := service.NewInvoiceService(invoiceRepo, guestRepo, export.NewPDFExporter(), cfg.HotelName, validate, logr)
	reservationSvc := service.NewReservationService(reservationRepo, guestRepo, validate, logr)
	attendanceSvc := service.NewAttendanceService(attendanceRepo, employeeRepo, validate, logr)
	dashboardSvc := service.NewDashboardService(dashboardRepo, cacheRepo, cfg.Dashboard.CacheTTL, logr)
	metricsSvc := service.NewMetricsService()

	var exportSvc *service.ExportService
	if cfg.Exports.Enabled {
		providers := map[string]service.DatasetProvider{
			"employees":  service.EmployeeDatasetProvider(employeeRepo),
			"guests":     service.GuestDatasetProvider(guestRepo),
			"inventory":  service.InventoryDatasetProvider(inventoryRepo),
			"invoices":   service.InvoiceDatasetProvider(invoiceRepo),
			"attendance": service.AttendanceDatasetProvider(attendanceRepo),
		}
		exportSvc = service.NewExportService(exportRepo, store, signer, providers, service.ExportServiceConfig{
			Workers:    cfg.Exports.WorkerConcurrency,
			MaxRetries: cfg.Exports.WorkerRetries,
			RetryDelay: 5 * time.Second,
		}, logr)
		exportSvc.Start(ctx)
		defer exportSvc.Stop()
	}

	maxUpload := cfg.Uploads.MaxFileSizeBytes

	handlers := router.Handlers{
		Auth:           handler.NewAuthHandler(authSvc, userSvc),
		Users:          handler.NewUserHandler(userSvc),
		Employees:      handler.NewEmployeeHandler(employeeSvc, maxUpload),
		Guests:         handler.NewGuestHandler(guestSvc),
		Suppliers:      handler.NewSupplierHandler(supplierSvc),
		Inventory:      handler.NewInventoryHandler(inventorySvc, maxUpload),
		PurchaseOrders: handler.NewPurchaseOrderHandler(orderSvc),
		Invoices:       handler.NewInvoiceHandler(invoiceSvc),
		Reservations:   handler.NewReservationHandler(reservationSvc),
		Attendance:     handler.NewAttendanceHandler(attendanceSvc),
		Dashboard:      handler.NewDashboardHandler(dashboardSvc),
		Files:          handler.NewFilesHandler(store, signer),
	}
	if exportSvc != nil {
		handlers.Exports = handler.NewExportHandler(exportSvc)
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	router.Register(r, cfg, authSvc, userRepo, handlers)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
	logr.Sugar().Infow("server stopped")
}
