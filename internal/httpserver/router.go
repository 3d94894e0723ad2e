package httpserver

import (
	"context"
	"errors"
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"lumera/internal/domain"
	productrepo "lumera/internal/repository/product"
	cartsvc "lumera/internal/service/cart"
	"lumera/internal/service/catalog"
	customersvc "lumera/internal/service/customer"
	ordersvc "lumera/internal/service/order"
	paymentsvc "lumera/internal/service/payment"
	"lumera/internal/service/pricing"
)

// CatalogService lists and fetches catalog products with optional price
// decoration.
type CatalogService interface {
	Search(ctx context.Context, customerID string, in productrepo.SearchInput) (*catalog.Page, error)
	Get(ctx context.Context, customerID, ref string) (*domain.Product, *domain.PriceInfo, error)
}

// CartService mutates the per-session cart.
type CartService interface {
	Get(ctx context.Context, sessionID string) domain.Cart
	AddItem(ctx context.Context, sessionID string, in cartsvc.AddInput) domain.Cart
	UpdateItem(ctx context.Context, sessionID, ref string, quantity int, notes *string) domain.Cart
	UpdateItemPrice(ctx context.Context, sessionID, ref string, unitPrice float64) domain.Cart
	ApplyPrices(ctx context.Context, sessionID string, prices map[string]domain.PriceInfo) domain.Cart
	RemoveItem(ctx context.Context, sessionID, ref string) domain.Cart
	Clear(ctx context.Context, sessionID string) domain.Cart
}

// PricingService answers price-access checks and entitled price lookups.
type PricingService interface {
	Check(ctx context.Context, customerID string) pricing.AccessState
	LoadPrices(ctx context.Context, customerID string, refs []string) map[string]domain.PriceInfo
}

// OrderService submits and patches orders.
type OrderService interface {
	Submit(ctx context.Context, in ordersvc.SubmitInput) (*domain.Order, error)
	Get(ctx context.Context, id string) (*domain.Order, error)
	Patch(ctx context.Context, id string, patch domain.OrderPatch) (*domain.Order, error)
}

// PaymentService applies gateway webhook notifications.
type PaymentService interface {
	HandleNotification(ctx context.Context, n paymentsvc.Notification) (*domain.Order, error)
}

// CustomerService handles signup, login and bearer-token resolution.
type CustomerService interface {
	Signup(ctx context.Context, in customersvc.SignupInput) (*domain.Customer, error)
	Login(ctx context.Context, email, password string) (*domain.Customer, string, string, error)
	LookupByToken(ctx context.Context, token string) (*domain.Customer, error)
	AccessTTLSeconds() int
}

// Deps carries the services the router needs.
type Deps struct {
	CatalogSvc    CatalogService
	CartSvc       CartService
	PricingSvc    PricingService
	OrderSvc      OrderService
	PaymentSvc    PaymentService
	CustomerSvc   CustomerService
	CORSOrigins   []string
	WebhookSecret string
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) (*gin.Engine, error) {
	if deps.CatalogSvc == nil {
		return nil, errors.New("catalog service is required")
	}
	if deps.CartSvc == nil {
		return nil, errors.New("cart service is required")
	}
	if deps.PricingSvc == nil {
		return nil, errors.New("pricing service is required")
	}
	if deps.OrderSvc == nil {
		return nil, errors.New("order service is required")
	}
	if deps.PaymentSvc == nil {
		return nil, errors.New("payment service is required")
	}
	if deps.CustomerSvc == nil {
		return nil, errors.New("customer service is required")
	}

	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	router.Use(corsMiddleware(deps.CORSOrigins))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	router.POST("/webhooks/payment", paymentWebhookHandler(deps.PaymentSvc, deps.WebhookSecret, logger))

	api := router.Group("/api")
	api.Use(authMiddleware(deps.CustomerSvc))

	api.GET("/catalog/products", listProductsHandler(deps.CatalogSvc, logger))
	api.GET("/catalog/products/:ref", getProductHandler(deps.CatalogSvc))

	api.GET("/pricing/access", priceAccessHandler(deps.PricingSvc))
	api.POST("/pricing/prices", priceLookupHandler(deps.PricingSvc))

	cart := api.Group("/cart")
	cart.Use(sessionMiddleware())
	cart.GET("", getCartHandler(deps.CartSvc))
	cart.POST("/items", addCartItemHandler(deps.CartSvc))
	cart.PATCH("/items/:ref", updateCartItemHandler(deps.CartSvc))
	cart.DELETE("/items/:ref", removeCartItemHandler(deps.CartSvc))
	cart.DELETE("", clearCartHandler(deps.CartSvc))
	cart.POST("/refresh-prices", refreshCartPricesHandler(deps.CartSvc, deps.PricingSvc))

	api.POST("/auth/signup", signupHandler(deps.CustomerSvc))
	api.POST("/auth/login", loginHandler(deps.CustomerSvc))

	api.POST("/orders", submitOrderHandler(deps.OrderSvc))
	api.GET("/orders/:id", getOrderHandler(deps.OrderSvc))
	api.PATCH("/orders/:id", patchOrderHandler(deps.OrderSvc))

	return router, nil
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.DefaultConfig()
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization", "X-Session-ID")
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}
