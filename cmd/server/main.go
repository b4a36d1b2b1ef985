package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	catalogapp "github.com/reponha/backend/internal/application/catalog"
	inventoryapp "github.com/reponha/backend/internal/application/inventory"
	partnerapp "github.com/reponha/backend/internal/application/partner"
	procurementapp "github.com/reponha/backend/internal/application/procurement"
	"github.com/reponha/backend/internal/infrastructure/auth"
	"github.com/reponha/backend/internal/infrastructure/cache"
	"github.com/reponha/backend/internal/infrastructure/config"
	"github.com/reponha/backend/internal/infrastructure/erp"
	"github.com/reponha/backend/internal/infrastructure/event"
	"github.com/reponha/backend/internal/infrastructure/logger"
	"github.com/reponha/backend/internal/infrastructure/persistence"
	"github.com/reponha/backend/internal/interfaces/http/handler"
	"github.com/reponha/backend/internal/interfaces/http/router"
)

// version is set at build time via -ldflags
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync() //nolint:errcheck

	log.Info("starting server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("version", version),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close() //nolint:errcheck

	// Repositories
	supplierRepo := persistence.NewGormSupplierRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	stockRepo := persistence.NewGormStockItemRepository(db.DB)
	movementRepo := persistence.NewGormStockMovementRepository(db.DB)
	velocityReader := persistence.NewGormSalesVelocityReader(db.DB)
	policyRepo := persistence.NewGormPurchasePolicyRepository(db.DB)
	orderRepo := persistence.NewGormPurchaseOrderRepository(db.DB)

	// Event bus with an audit trail over every domain event
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(event.NewAuditLogHandler(log))
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("failed to start event bus", zap.Error(err))
	}

	// Application services
	supplierService := partnerapp.NewSupplierService(supplierRepo)
	productService := catalogapp.NewProductService(productRepo, supplierRepo)

	inventoryService := inventoryapp.NewInventoryService(productRepo, stockRepo, movementRepo, log)
	inventoryService.SetEventPublisher(eventBus)

	orderService := procurementapp.NewOrderService(orderRepo, policyRepo, supplierRepo, productRepo, log)
	orderService.SetEventPublisher(eventBus)

	negotiationService := procurementapp.NewNegotiationService(orderRepo, log)
	negotiationService.SetEventPublisher(eventBus)

	policyService := procurementapp.NewPolicyService(policyRepo, supplierRepo)
	replenishmentService := procurementapp.NewReplenishmentService(productRepo, stockRepo, velocityReader, policyRepo, supplierRepo, orderRepo, log)
	replenishmentService.SetEventPublisher(eventBus)

	if cfg.Bling.Enabled {
		gateway, err := erp.NewBlingAdapter(&erp.BlingConfig{
			BaseURL: cfg.Bling.BaseURL,
			APIKey:  cfg.Bling.APIKey,
			Timeout: cfg.Bling.Timeout,
		})
		if err != nil {
			log.Fatal("failed to configure bling adapter", zap.Error(err))
		}
		orderService.SetERPGateway(gateway)
		log.Info("bling integration enabled", zap.String("base_url", cfg.Bling.BaseURL))
	}

	orderService.SetShareTokenStore(newShareTokenStore(cfg, log))
	orderService.SetShareLinkTTL(cfg.Sharing.TokenTTL)

	jwtService := auth.NewJWTService(cfg.JWT)

	handlers := router.Handlers{
		System:        handler.NewSystemHandler(db, version),
		Supplier:      handler.NewSupplierHandler(supplierService),
		Product:       handler.NewProductHandler(productService),
		Inventory:     handler.NewInventoryHandler(inventoryService),
		PurchaseOrder: handler.NewPurchaseOrderHandler(orderService),
		Negotiation:   handler.NewNegotiationHandler(negotiationService),
		Policy:        handler.NewPolicyHandler(policyService),
		Replenishment: handler.NewReplenishmentHandler(replenishmentService),
	}

	engine := router.Setup(cfg, log, jwtService, handlers)

	server := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("http server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("http server error", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("http server shutdown error", zap.Error(err))
	}
	if err := eventBus.Stop(shutdownCtx); err != nil {
		log.Error("event bus shutdown error", zap.Error(err))
	}
	log.Info("server stopped")
}

// newShareTokenStore prefers Redis so share links survive restarts and work
// across replicas. When Redis is unreachable the in-process store keeps the
// feature alive for single-instance deployments.
func newShareTokenStore(cfg *config.Config, log *zap.Logger) procurementapp.ShareTokenStore {
	store, err := cache.NewRedisShareTokenStore(cache.RedisConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Warn("redis unavailable, share links will not survive restarts", zap.Error(err))
		return cache.NewInMemoryShareTokenStore()
	}
	log.Info("share token store backed by redis", zap.String("host", cfg.Redis.Host))
	return store
}
