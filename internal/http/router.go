package http

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/http/handlers"
	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/http/handlers/admin"
	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/http/middleware"
	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/modules/accounts"
	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/modules/catalog"
	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/modules/checkout"
	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/modules/jobs"
	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/modules/notifications"
	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/modules/orders"
	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/modules/payments"
	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/modules/picklist"
)

// Deps is everything the router wires; services are built once in main.
type Deps struct {
	Logger *slog.Logger
	DB     *gorm.DB

	Catalog  *catalog.Service
	Checkout *checkout.Service
	Orders   *orders.Service
	Webhooks *payments.WebhookService
	LockJob  *jobs.LockJob
	Workers  []*notifications.Worker
	Picklist *picklist.Service

	JWTSecret       string
	WebhookSecret   string
	RequestTimeout  time.Duration
	Location        *time.Location
	BatchSize       int
	CheckoutLimiter *middleware.IPRateLimiter
}

func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logger(d.Logger),
		middleware.ErrorHandler(d.Logger),
		middleware.Recovery(d.Logger),
		middleware.Timeout(d.RequestTimeout),
	)

	health := &handlers.HealthHandler{DB: d.DB}
	r.GET("/health", health.Health)

	webhooks := handlers.NewWebhookHandler(d.Logger, d.WebhookSecret, d.Webhooks)
	r.POST("/webhooks/payments", webhooks.Payment)

	api := r.Group("/api", middleware.Auth(d.JWTSecret))

	customer := api.Group("", middleware.RequireRole(accounts.RoleCustomer))
	{
		co := handlers.NewCheckoutHandler(d.Checkout)
		checkoutChain := []gin.HandlerFunc{}
		if d.CheckoutLimiter != nil {
			checkoutChain = append(checkoutChain, middleware.RateLimit(d.CheckoutLimiter))
		}
		checkoutChain = append(checkoutChain, co.PlaceOrder)
		customer.POST("/checkout", checkoutChain...)

		oh := handlers.NewOrdersHandler(orders.NewRepo(d.DB), d.Orders)
		customer.GET("/orders", oh.List)
		customer.GET("/orders/:id", oh.Get)
		customer.POST("/orders/:id/cancel", oh.Cancel)
	}

	ops := api.Group("/admin", middleware.RequireRole(accounts.RoleOps, accounts.RoleAdmin))
	{
		ah := admin.NewOrdersHandler(d.DB, d.Orders)
		ops.GET("/orders", ah.List)
		ops.GET("/orders/:id", ah.Detail)
		ops.POST("/orders/:id/status", ah.UpdateStatus)

		ch := &admin.CatalogHandler{Svc: d.Catalog}
		ops.GET("/products/:id/packs", ch.Packs)
		ops.POST("/products/:id/sync-prices", ch.SyncPrices)

		jh := &admin.JobsHandler{
			Logger:      d.Logger,
			Lock:        d.LockJob,
			Workers:     d.Workers,
			PicklistSvc: d.Picklist,
			Loc:         d.Location,
			BatchSize:   d.BatchSize,
		}
		ops.POST("/jobs/lock-orders", jh.LockOrders)
		ops.POST("/notifications/dispatch", jh.Dispatch)
		ops.GET("/deliveries/:date/picklist.xlsx", jh.Picklist)
	}

	return r
}
