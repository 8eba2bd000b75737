package controllers

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/OratileK/StreamBox/internal/pkg/commerce"
)

// commerceErrorStatus maps an error kind from the commerce layer to the HTTP
// status it travels as.
func commerceErrorStatus(err error) int {
	switch {
	case errors.Is(err, commerce.ErrAuthentication):
		return fiber.StatusUnauthorized
	case errors.Is(err, commerce.ErrAuthorization):
		return fiber.StatusForbidden
	case errors.Is(err, commerce.ErrValidation), errors.Is(err, commerce.ErrCatalogIntegrity):
		return fiber.StatusBadRequest
	case errors.Is(err, commerce.ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

// commerceErrorCode returns the machine-readable token for the JSON envelope.
func commerceErrorCode(err error) string {
	switch {
	case errors.Is(err, commerce.ErrAuthentication):
		return "unauthorized"
	case errors.Is(err, commerce.ErrAuthorization):
		return "forbidden"
	case errors.Is(err, commerce.ErrValidation):
		return "validation_failed"
	case errors.Is(err, commerce.ErrCatalogIntegrity):
		return "catalog_integrity"
	case errors.Is(err, commerce.ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		return "not_found"
	case errors.Is(err, commerce.ErrProviderUnavailable):
		return "provider_unavailable"
	case errors.Is(err, commerce.ErrAllocation):
		return "allocation_failed"
	default:
		return "internal_server_error"
	}
}

// respondError renders the uniform JSON error envelope.
func respondError(c *fiber.Ctx, err error) error {
	return c.Status(commerceErrorStatus(err)).JSON(fiber.Map{
		"error":   commerceErrorCode(err),
		"message": err.Error(),
	})
}

// parseIDParam reads a positive numeric path parameter.
func parseIDParam(c *fiber.Ctx, name string) (uint, error) {
	raw := strings.TrimSpace(c.Params(name))
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || v == 0 {
		return 0, fmt.Errorf("%w: invalid %s", commerce.ErrValidation, name)
	}
	return uint(v), nil
}
