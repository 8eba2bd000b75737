package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/OratileK/StreamBox/app/repository"
	"github.com/OratileK/StreamBox/internal/pkg/usercontext"
)

// HandleListMyEntitlements returns the authenticated user's library: every
// product they hold a durable grant for.
func HandleListMyEntitlements(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Missing or invalid authentication"})
	}

	entitlements, err := repository.GetGlobalFactory().GetEntitlementRepository().ListByUser(userCtx.UserID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"entitlements": entitlements, "count": len(entitlements)})
}

// HandleListMyOrders returns the authenticated user's order history.
func HandleListMyOrders(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Missing or invalid authentication"})
	}

	orders, err := repository.GetGlobalFactory().GetOrderRepository().ListByUser(userCtx.UserID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"orders": orders, "count": len(orders)})
}
