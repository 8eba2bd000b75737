package controllers

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/OratileK/StreamBox/app/models"
	"github.com/OratileK/StreamBox/app/repository"
	"github.com/OratileK/StreamBox/internal/pkg/cache"
	"github.com/OratileK/StreamBox/internal/pkg/commerce"
)

type productRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Active      *bool  `json:"active"`
}

type priceRequest struct {
	Currency      string `json:"currency"`
	UnitAmount    int64  `json:"unit_amount"`
	Interval      string `json:"interval"`
	IntervalCount int    `json:"interval_count"`
	Nickname      string `json:"nickname"`
	Active        *bool  `json:"active"`
}

// HandleListCatalog serves the public storefront listing: active products
// with their active prices. The rendered JSON is cached briefly since the
// catalog changes orders of magnitude less often than it is read.
func HandleListCatalog(c *fiber.Ctx) error {
	if cached, err := cache.Get(cache.CatalogListKey); err == nil && cached != "" {
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.SendString(cached)
	}

	products, err := repository.GetGlobalFactory().GetProductRepository().ListActiveWithPrices()
	if err != nil {
		return respondError(c, err)
	}

	payload := fiber.Map{"products": products, "count": len(products)}
	if encoded, err := json.Marshal(payload); err == nil {
		if err := cache.Set(cache.CatalogListKey, string(encoded), cache.CatalogListTTL); err != nil {
			log.Printf("failed to cache catalog listing: %v", err)
		}
	}

	return c.JSON(payload)
}

// HandleGetProduct returns a single product with all of its prices.
func HandleGetProduct(c *fiber.Ctx) error {
	productID, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	product, err := repository.GetGlobalFactory().GetProductRepository().GetWithPrices(productID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(product)
}

// HandleCreateProduct creates a local product. The provider mirror is not
// touched here; that is the synchronizer's job.
func HandleCreateProduct(c *fiber.Ctx) error {
	var req productRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fmt.Errorf("%w: invalid request body", commerce.ErrValidation))
	}

	product := &models.Product{
		Name:        req.Name,
		Description: req.Description,
		Active:      true,
	}
	if req.Active != nil {
		product.Active = *req.Active
	}
	if err := product.Validate(); err != nil {
		return respondError(c, fmt.Errorf("%w: %v", commerce.ErrValidation, err))
	}

	if err := repository.GetGlobalFactory().GetProductRepository().Create(product); err != nil {
		return respondError(c, err)
	}
	cache.InvalidateCatalog()

	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdateProduct updates the locally editable product fields. The
// provider reference is owned by the synchronizer and never editable here.
func HandleUpdateProduct(c *fiber.Ctx) error {
	productID, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var req productRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fmt.Errorf("%w: invalid request body", commerce.ErrValidation))
	}

	repo := repository.GetGlobalFactory().GetProductRepository()
	product, err := repo.GetByID(productID)
	if err != nil {
		return respondError(c, err)
	}

	if req.Name != "" {
		product.Name = req.Name
	}
	product.Description = req.Description
	if req.Active != nil {
		product.Active = *req.Active
	}
	if err := product.Validate(); err != nil {
		return respondError(c, fmt.Errorf("%w: %v", commerce.ErrValidation, err))
	}

	if err := repo.Update(product); err != nil {
		return respondError(c, err)
	}
	cache.InvalidateCatalog()

	return c.JSON(product)
}

// HandleCreatePrice attaches a new price to a product. The price stays
// local-only until the next sync mints its provider mirror.
func HandleCreatePrice(c *fiber.Ctx) error {
	productID, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var req priceRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fmt.Errorf("%w: invalid request body", commerce.ErrValidation))
	}

	// The owning product must exist.
	if _, err := repository.GetGlobalFactory().GetProductRepository().GetByID(productID); err != nil {
		return respondError(c, err)
	}

	price := &models.Price{
		ProductID:     productID,
		Currency:      req.Currency,
		UnitAmount:    req.UnitAmount,
		Interval:      req.Interval,
		IntervalCount: req.IntervalCount,
		Nickname:      req.Nickname,
		Active:        true,
	}
	if req.Active != nil {
		price.Active = *req.Active
	}
	price.Normalize()
	if err := price.Validate(); err != nil {
		return respondError(c, fmt.Errorf("%w: %v", commerce.ErrValidation, err))
	}

	if err := repository.GetGlobalFactory().GetPriceRepository().Create(price); err != nil {
		return respondError(c, err)
	}
	cache.InvalidateCatalog()

	return c.Status(fiber.StatusCreated).JSON(price)
}

// HandleUpdatePrice edits a price locally. Term edits deliberately leave the
// provider reference untouched; the next sync detects the drift and mints a
// replacement provider price.
func HandleUpdatePrice(c *fiber.Ctx) error {
	priceID, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var req priceRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fmt.Errorf("%w: invalid request body", commerce.ErrValidation))
	}

	repo := repository.GetGlobalFactory().GetPriceRepository()
	price, err := repo.GetByID(priceID)
	if err != nil {
		return respondError(c, err)
	}

	if req.Currency != "" {
		price.Currency = req.Currency
	}
	if req.UnitAmount > 0 {
		price.UnitAmount = req.UnitAmount
	}
	if req.Interval != "" {
		price.Interval = req.Interval
	}
	if req.IntervalCount > 0 {
		price.IntervalCount = req.IntervalCount
	}
	price.Nickname = req.Nickname
	if req.Active != nil {
		price.Active = *req.Active
	}
	price.Normalize()
	if err := price.Validate(); err != nil {
		return respondError(c, fmt.Errorf("%w: %v", commerce.ErrValidation, err))
	}

	if err := repo.Update(price); err != nil {
		return respondError(c, err)
	}
	cache.InvalidateCatalog()

	return c.JSON(price)
}
