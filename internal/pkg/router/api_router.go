package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/OratileK/StreamBox/app/controllers"
	"github.com/OratileK/StreamBox/internal/pkg/middleware"
	"github.com/OratileK/StreamBox/internal/pkg/ratelimit"
)

type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group("/api", ratelimit.NewLimiter())
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "Hello from api",
		})
	})

	// API v1 routes. The API key middleware resolves the caller when a key
	// is present; per-route guards decide whether one is required.
	v1 := api.Group("/v1", middleware.APIKeyAuthMiddleware())

	// Public storefront listing
	v1.Get("/catalog", controllers.HandleListCatalog)

	// Checkout. Verification deliberately needs no role: the session id is
	// the capability, and allocation is idempotent.
	v1.Post("/checkout/sessions", middleware.RequireAPIAuth, controllers.HandleCreateCheckoutSession)
	v1.Post("/checkout/verify", controllers.HandleVerifyCheckoutSession)

	// Buyer library
	v1.Get("/me/entitlements", middleware.RequireAPIAuth, controllers.HandleListMyEntitlements)
	v1.Get("/me/orders", middleware.RequireAPIAuth, controllers.HandleListMyOrders)

	// Operator catalog management and provider sync
	catalog := v1.Group("/catalog", middleware.RequireOperator)
	catalog.Post("/products", controllers.HandleCreateProduct)
	catalog.Get("/products/:id", controllers.HandleGetProduct)
	catalog.Put("/products/:id", controllers.HandleUpdateProduct)
	catalog.Post("/products/:id/prices", controllers.HandleCreatePrice)
	catalog.Put("/prices/:id", controllers.HandleUpdatePrice)
	catalog.Post("/products/:id/sync", controllers.HandleSyncProduct)
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}
