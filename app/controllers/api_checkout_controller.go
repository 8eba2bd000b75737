package controllers

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/OratileK/StreamBox/internal/pkg/commerce"
	"github.com/OratileK/StreamBox/internal/pkg/database"
	"github.com/OratileK/StreamBox/internal/pkg/usercontext"
)

type createCheckoutSessionRequest struct {
	ProviderPriceReference string `json:"provider_price_reference"`
	SuccessURL             string `json:"success_url"`
	CancelURL              string `json:"cancel_url"`
}

type verifyCheckoutSessionRequest struct {
	SessionID string `json:"session_id"`
}

// HandleCreateCheckoutSession opens a provider-hosted purchase session for
// the authenticated buyer and returns its redirect URL. Nothing is persisted
// locally; retrying simply mints a fresh session.
func HandleCreateCheckoutSession(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	var req createCheckoutSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fmt.Errorf("%w: invalid request body", commerce.ErrValidation))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	issuer := commerce.NewIssuerFromDB(database.GetDB(), getProviderGateway())
	redirectURL, err := issuer.IssueSession(ctx, commerce.CheckoutRequest{
		ProviderPriceReference: req.ProviderPriceReference,
		SuccessURL:             req.SuccessURL,
		CancelURL:              req.CancelURL,
		UserID:                 userCtx.UserID,
		UserEmail:              userCtx.Email,
		UserName:               userCtx.Username,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"redirect_url": redirectURL})
}

// HandleVerifyCheckoutSession resolves a checkout session against the
// provider and, when it is paid and carries buyer linkage, grants the
// entitlement and records the order. Safe to call any number of times.
func HandleVerifyCheckoutSession(c *fiber.Ctx) error {
	var req verifyCheckoutSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fmt.Errorf("%w: invalid request body", commerce.ErrValidation))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	verifier := commerce.NewVerifierFromDB(database.GetDB(), getProviderGateway())
	result, err := verifier.VerifySession(ctx, req.SessionID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(result)
}
