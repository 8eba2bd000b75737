package commerce

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// Issuer converts a provider price reference into a redirectable purchase
// session. Issuing is stateless and retry-safe: calling it twice mints two
// sessions, of which at most one is ever consumed; unconsumed sessions expire
// on the provider side.
type Issuer struct {
	repo    Repository
	gateway ProviderGateway
}

// NewIssuer creates a checkout issuer from injected dependencies.
func NewIssuer(repo Repository, gateway ProviderGateway) *Issuer {
	return &Issuer{repo: repo, gateway: gateway}
}

// NewIssuerFromDB creates a checkout issuer from a GORM DB handle.
func NewIssuerFromDB(db *gorm.DB, gateway ProviderGateway) *Issuer {
	return NewIssuer(NewRepository(db), gateway)
}

// CheckoutRequest carries the buyer identity and redirect targets for a
// purchase session.
type CheckoutRequest struct {
	ProviderPriceReference string
	SuccessURL             string
	CancelURL              string
	UserID                 uint
	UserEmail              string
	UserName               string
}

// IssueSession mints a provider checkout session and returns its redirect URL.
//
// Before contacting the provider for session creation, the local mirror of
// the given price reference must exist and be active, and so must its owning
// product. A price that is still live upstream but delisted locally must not
// be purchasable; such drift is an ErrCatalogIntegrity, never silently
// ignored. Nothing is written locally by this operation: the correlation
// payload embedded as session metadata is the only state threaded through to
// verification.
func (i *Issuer) IssueSession(ctx context.Context, req CheckoutRequest) (string, error) {
	if req.UserID == 0 || strings.TrimSpace(req.UserEmail) == "" {
		return "", fmt.Errorf("%w: checkout requires an authenticated buyer", ErrAuthentication)
	}
	reference := strings.TrimSpace(req.ProviderPriceReference)
	if reference == "" {
		return "", fmt.Errorf("%w: provider price reference is required", ErrValidation)
	}
	if strings.TrimSpace(req.SuccessURL) == "" || strings.TrimSpace(req.CancelURL) == "" {
		return "", fmt.Errorf("%w: success and cancel URLs are required", ErrValidation)
	}

	// Defense-in-depth reconciliation check against catalog drift.
	price, err := i.repo.GetPriceByProviderReference(reference)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", fmt.Errorf("%w: provider price %s has no local mirror", ErrCatalogIntegrity, reference)
		}
		return "", err
	}
	if !price.Active {
		return "", fmt.Errorf("%w: price %d is delisted locally", ErrCatalogIntegrity, price.ID)
	}
	if price.Product == nil || !price.Product.Active {
		return "", fmt.Errorf("%w: product for price %d is not purchasable", ErrCatalogIntegrity, price.ID)
	}

	upstream, err := i.gateway.GetPrice(ctx, reference)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// The local mirror references a price the provider has never
			// issued: the catalog itself is corrupt, not merely stale.
			return "", fmt.Errorf("%w: provider price %s does not exist upstream", ErrCatalogIntegrity, reference)
		}
		return "", err
	}
	if !upstream.Active {
		return "", fmt.Errorf("%w: provider price %s is inactive upstream", ErrCatalogIntegrity, reference)
	}

	customer, err := i.resolveCustomer(ctx, req.UserEmail, req.UserName)
	if err != nil {
		return "", err
	}

	session, err := i.gateway.CreateCheckoutSession(ctx, CheckoutParams{
		CustomerID:     customer.ID,
		PriceReference: reference,
		Recurring:      upstream.Recurring,
		SuccessURL:     req.SuccessURL,
		CancelURL:      req.CancelURL,
		Metadata: SessionMetadata{
			UserID:      req.UserID,
			ProductID:   price.Product.ID,
			ProductName: price.Product.Name,
		},
	})
	if err != nil {
		return "", err
	}

	return session.URL, nil
}

// resolveCustomer finds the provider customer keyed by the buyer's contact
// identity, lazily creating one on first purchase.
func (i *Issuer) resolveCustomer(ctx context.Context, email, name string) (*ProviderCustomer, error) {
	customer, err := i.gateway.FindCustomerByEmail(ctx, email)
	if err == nil {
		return customer, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	return i.gateway.CreateCustomer(ctx, email, name)
}
