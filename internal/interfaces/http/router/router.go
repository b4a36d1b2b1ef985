package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/reponha/backend/internal/infrastructure/auth"
	"github.com/reponha/backend/internal/infrastructure/config"
	"github.com/reponha/backend/internal/infrastructure/logger"
	"github.com/reponha/backend/internal/interfaces/http/handler"
	"github.com/reponha/backend/internal/interfaces/http/middleware"
)

// Handlers aggregates every handler the router mounts
type Handlers struct {
	System        *handler.SystemHandler
	Supplier      *handler.SupplierHandler
	Product       *handler.ProductHandler
	Inventory     *handler.InventoryHandler
	PurchaseOrder *handler.PurchaseOrderHandler
	Negotiation   *handler.NegotiationHandler
	Policy        *handler.PolicyHandler
	Replenishment *handler.ReplenishmentHandler
}

// Setup builds the gin engine with middleware and all routes mounted
func Setup(cfg *config.Config, log *zap.Logger, jwtService *auth.JWTService, h Handlers) *gin.Engine {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	if len(cfg.HTTP.TrustedProxies) > 0 {
		_ = engine.SetTrustedProxies(cfg.HTTP.TrustedProxies)
	}

	// Probes stay outside the versioned, authenticated surface
	engine.GET("/health", h.System.Health)
	engine.GET("/ready", h.System.Ready)

	v1 := engine.Group("/api/v1")

	// Supplier-facing read-only surface; the share token is the authorization
	v1.GET("/shared/:token", h.PurchaseOrder.GetShared)

	api := v1.Group("")
	api.Use(middleware.JWTAuthMiddleware(jwtService))

	suppliers := api.Group("/suppliers")
	{
		suppliers.POST("", h.Supplier.Create)
		suppliers.GET("", h.Supplier.List)
		suppliers.GET("/:id", h.Supplier.GetByID)
		suppliers.PUT("/:id", h.Supplier.Update)
		suppliers.PATCH("/:id/status", h.Supplier.SetStatus)
		suppliers.DELETE("/:id", h.Supplier.Delete)
		suppliers.GET("/:id/products", h.Product.ListBySupplier)
		suppliers.GET("/:id/policies", h.Policy.ListBySupplier)
	}

	products := api.Group("/products")
	{
		products.POST("", h.Product.Create)
		products.GET("", h.Product.List)
		products.GET("/:id", h.Product.GetByID)
		products.PUT("/:id", h.Product.Update)
		products.PATCH("/:id/active", h.Product.SetActive)
		products.DELETE("/:id", h.Product.Delete)
	}

	inventory := api.Group("/inventory")
	{
		inventory.GET("", h.Inventory.ListStock)
		inventory.POST("/receive", h.Inventory.Receive)
		inventory.POST("/issue", h.Inventory.Issue)
		inventory.POST("/adjust", h.Inventory.Adjust)
		inventory.GET("/products/:id", h.Inventory.GetStock)
		inventory.GET("/products/:id/movements", h.Inventory.MovementHistory)
	}

	orders := api.Group("/orders")
	{
		orders.POST("", h.PurchaseOrder.Create)
		orders.GET("", h.PurchaseOrder.List)
		orders.GET("/:id", h.PurchaseOrder.GetByID)
		orders.PUT("/:id", h.PurchaseOrder.Update)
		orders.POST("/:id/items", h.PurchaseOrder.AddItem)
		orders.PUT("/:id/items/:itemId", h.PurchaseOrder.UpdateItem)
		orders.DELETE("/:id/items/:itemId", h.PurchaseOrder.RemoveItem)
		orders.POST("/:id/apply-policy", h.PurchaseOrder.ApplyPolicy)
		orders.POST("/:id/send", h.PurchaseOrder.Send)
		orders.POST("/:id/cancel", h.PurchaseOrder.Cancel)
		orders.POST("/:id/finalize", h.PurchaseOrder.Finalize)
		orders.POST("/:id/installments", h.PurchaseOrder.ScheduleInstallments)
		orders.POST("/:id/share", h.PurchaseOrder.ShareLink)
		orders.POST("/:id/refresh-external-status", h.PurchaseOrder.RefreshExternalStatus)
		orders.POST("/:id/suggestions", h.Negotiation.Submit)
		orders.GET("/:id/suggestions", h.Negotiation.History)
		orders.POST("/:id/suggestions/respond", h.Negotiation.Respond)
	}

	policies := api.Group("/policies")
	{
		policies.POST("", h.Policy.Create)
		policies.GET("/match", h.Policy.Match)
		policies.GET("/:id", h.Policy.GetByID)
		policies.PUT("/:id", h.Policy.Update)
		policies.PATCH("/:id/active", h.Policy.SetActive)
		policies.DELETE("/:id", h.Policy.Delete)
	}

	api.POST("/replenishment/suggest", h.Replenishment.Suggest)
	api.POST("/replenishment/draft", h.Replenishment.CreateDraft)

	return engine
}
