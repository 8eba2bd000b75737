package controllers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/OratileK/StreamBox/internal/pkg/cache"
	"github.com/OratileK/StreamBox/internal/pkg/commerce"
	"github.com/OratileK/StreamBox/internal/pkg/database"
)

var providerGateway commerce.ProviderGateway

// InitializeCommerceControllers wires the payment provider gateway used by
// the sync and checkout handlers.
func InitializeCommerceControllers(gateway commerce.ProviderGateway) {
	providerGateway = gateway
}

func getProviderGateway() commerce.ProviderGateway {
	if providerGateway == nil {
		providerGateway = commerce.NewStripeGatewayFromEnv()
	}
	return providerGateway
}

// HandleSyncProduct reconciles a product and all of its prices with the
// payment provider. Partial failures are reported per price; committed
// siblings stay committed.
func HandleSyncProduct(c *fiber.Ctx) error {
	productID, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	sync := commerce.NewSynchronizerFromDB(database.GetDB(), getProviderGateway())
	report, err := sync.SyncProduct(ctx, productID)
	if err != nil {
		return respondError(c, err)
	}

	// References may have been rebound; the public listing must not serve
	// stale ones.
	cache.InvalidateCatalog()

	return c.JSON(report)
}
