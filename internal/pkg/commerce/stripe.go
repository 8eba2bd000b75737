package commerce

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/client"

	"github.com/OratileK/StreamBox/internal/pkg/env"
)

// StripeGateway is the production ProviderGateway backed by the Stripe API.
type StripeGateway struct {
	api *client.API
}

// NewStripeGateway creates a gateway with its own API client.
func NewStripeGateway(apiKey string) *StripeGateway {
	var api client.API
	api.Init(apiKey, nil)

	return &StripeGateway{api: &api}
}

// NewStripeGatewayFromEnv creates a gateway configured from STRIPE_SECRET_KEY.
func NewStripeGatewayFromEnv() *StripeGateway {
	return NewStripeGateway(env.GetEnv("STRIPE_SECRET_KEY", ""))
}

func (g *StripeGateway) CreateProduct(ctx context.Context, params ProviderProductParams) (*ProviderProduct, error) {
	p, err := g.api.Products.New(productParams(params))
	if err != nil {
		return nil, mapStripeErr(err)
	}
	return toProviderProduct(p), nil
}

func (g *StripeGateway) UpdateProduct(ctx context.Context, reference string, params ProviderProductParams) (*ProviderProduct, error) {
	p, err := g.api.Products.Update(reference, productParams(params))
	if err != nil {
		return nil, mapStripeErr(err)
	}
	return toProviderProduct(p), nil
}

func (g *StripeGateway) CreatePrice(ctx context.Context, params ProviderPriceParams) (*ProviderPrice, error) {
	sp := &stripe.PriceParams{
		Product:    stripe.String(params.ProductReference),
		Currency:   stripe.String(strings.ToLower(params.Currency)),
		UnitAmount: stripe.Int64(params.UnitAmount),
		Active:     stripe.Bool(params.Active),
	}
	if params.Nickname != "" {
		sp.Nickname = stripe.String(params.Nickname)
	}
	if params.Interval != "" {
		sp.Recurring = &stripe.PriceRecurringParams{
			Interval:      stripe.String(params.Interval),
			IntervalCount: stripe.Int64(int64(params.IntervalCount)),
		}
	}

	p, err := g.api.Prices.New(sp)
	if err != nil {
		return nil, mapStripeErr(err)
	}
	return toProviderPrice(p), nil
}

func (g *StripeGateway) UpdatePrice(ctx context.Context, reference string, params PriceMetadataParams) (*ProviderPrice, error) {
	sp := &stripe.PriceParams{
		Active: stripe.Bool(params.Active),
	}
	if params.Nickname != "" {
		sp.Nickname = stripe.String(params.Nickname)
	}

	p, err := g.api.Prices.Update(reference, sp)
	if err != nil {
		return nil, mapStripeErr(err)
	}
	return toProviderPrice(p), nil
}

func (g *StripeGateway) GetPrice(ctx context.Context, reference string) (*ProviderPrice, error) {
	p, err := g.api.Prices.Get(reference, nil)
	if err != nil {
		return nil, mapStripeErr(err)
	}
	return toProviderPrice(p), nil
}

func (g *StripeGateway) FindCustomerByEmail(ctx context.Context, email string) (*ProviderCustomer, error) {
	params := &stripe.CustomerListParams{Email: stripe.String(email)}
	params.Limit = stripe.Int64(1)

	iter := g.api.Customers.List(params)
	for iter.Next() {
		return toProviderCustomer(iter.Customer()), nil
	}
	if err := iter.Err(); err != nil {
		return nil, mapStripeErr(err)
	}
	return nil, fmt.Errorf("%w: no customer for %s", ErrNotFound, email)
}

func (g *StripeGateway) CreateCustomer(ctx context.Context, email, name string) (*ProviderCustomer, error) {
	params := &stripe.CustomerParams{
		Email: stripe.String(email),
	}
	if name != "" {
		params.Name = stripe.String(name)
	}
	// Keyed by contact identity so a racing duplicate create collapses into
	// one provider customer.
	params.SetIdempotencyKey("customer-create-" + email)

	c, err := g.api.Customers.New(params)
	if err != nil {
		return nil, mapStripeErr(err)
	}
	return toProviderCustomer(c), nil
}

func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, params CheckoutParams) (*ProviderSession, error) {
	mode := stripe.CheckoutSessionModePayment
	if params.Recurring {
		mode = stripe.CheckoutSessionModeSubscription
	}

	sp := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(mode)),
		Customer:   stripe.String(params.CustomerID),
		SuccessURL: stripe.String(params.SuccessURL),
		CancelURL:  stripe.String(params.CancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(params.PriceReference),
				Quantity: stripe.Int64(1),
			},
		},
	}
	for k, v := range params.Metadata.Encode() {
		sp.AddMetadata(k, v)
	}

	s, err := g.api.CheckoutSessions.New(sp)
	if err != nil {
		return nil, mapStripeErr(err)
	}
	return toProviderSession(s), nil
}

func (g *StripeGateway) GetCheckoutSession(ctx context.Context, id string) (*ProviderSession, error) {
	s, err := g.api.CheckoutSessions.Get(id, nil)
	if err != nil {
		return nil, mapStripeErr(err)
	}
	return toProviderSession(s), nil
}

func productParams(params ProviderProductParams) *stripe.ProductParams {
	sp := &stripe.ProductParams{
		Name:   stripe.String(params.Name),
		Active: stripe.Bool(params.Active),
	}
	if params.Description != "" {
		sp.Description = stripe.String(params.Description)
	}
	return sp
}

func toProviderProduct(p *stripe.Product) *ProviderProduct {
	return &ProviderProduct{
		Reference:   p.ID,
		Name:        p.Name,
		Description: p.Description,
		Active:      p.Active,
	}
}

func toProviderPrice(p *stripe.Price) *ProviderPrice {
	out := &ProviderPrice{
		Reference:  p.ID,
		Currency:   strings.ToUpper(string(p.Currency)),
		UnitAmount: p.UnitAmount,
		Nickname:   p.Nickname,
		Active:     p.Active,
	}
	if p.Product != nil {
		out.ProductReference = p.Product.ID
	}
	if p.Recurring != nil {
		out.Recurring = true
		out.Interval = string(p.Recurring.Interval)
		out.IntervalCount = int(p.Recurring.IntervalCount)
	}
	return out
}

func toProviderCustomer(c *stripe.Customer) *ProviderCustomer {
	return &ProviderCustomer{
		ID:    c.ID,
		Email: c.Email,
		Name:  c.Name,
	}
}

func toProviderSession(s *stripe.CheckoutSession) *ProviderSession {
	return &ProviderSession{
		ID:            s.ID,
		URL:           s.URL,
		PaymentStatus: string(s.PaymentStatus),
		Metadata:      s.Metadata,
		AmountTotal:   s.AmountTotal,
		Currency:      strings.ToUpper(string(s.Currency)),
	}
}

// mapStripeErr folds Stripe API failures into the package error kinds so the
// synchronizer, issuer and verifier can branch on errors.Is.
func mapStripeErr(err error) error {
	if err == nil {
		return nil
	}

	var sErr *stripe.Error
	if errors.As(err, &sErr) {
		switch {
		case sErr.Code == stripe.ErrorCodeResourceMissing:
			return fmt.Errorf("%w: %s", ErrNotFound, sErr.Msg)
		case sErr.HTTPStatusCode >= 500 || sErr.Type == stripe.ErrorTypeAPI:
			return fmt.Errorf("%w: %s", ErrProviderUnavailable, sErr.Msg)
		case sErr.Type == stripe.ErrorTypeInvalidRequest || sErr.Type == stripe.ErrorTypeCard:
			return fmt.Errorf("%w: %s", ErrValidation, sErr.Msg)
		default:
			return fmt.Errorf("%w: %s", ErrProviderUnavailable, sErr.Msg)
		}
	}

	// No structured provider error: treat as transport failure.
	return fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
}
