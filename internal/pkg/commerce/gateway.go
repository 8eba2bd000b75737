package commerce

import "context"

// ProviderGateway abstracts the external payment provider's product, price,
// customer and checkout-session operations. The core depends only on this
// contract; the production implementation talks to Stripe.
//
// Implementations classify their failures through the package error kinds:
// ErrNotFound for missing provider objects, ErrValidation for rejected
// payloads, ErrProviderUnavailable for transport/availability failures.
type ProviderGateway interface {
	CreateProduct(ctx context.Context, params ProviderProductParams) (*ProviderProduct, error)
	UpdateProduct(ctx context.Context, reference string, params ProviderProductParams) (*ProviderProduct, error)

	CreatePrice(ctx context.Context, params ProviderPriceParams) (*ProviderPrice, error)
	// UpdatePrice mutates metadata only (nickname, active flag). Priced terms
	// of an issued provider price are immutable upstream.
	UpdatePrice(ctx context.Context, reference string, params PriceMetadataParams) (*ProviderPrice, error)
	GetPrice(ctx context.Context, reference string) (*ProviderPrice, error)

	FindCustomerByEmail(ctx context.Context, email string) (*ProviderCustomer, error)
	CreateCustomer(ctx context.Context, email, name string) (*ProviderCustomer, error)

	CreateCheckoutSession(ctx context.Context, params CheckoutParams) (*ProviderSession, error)
	GetCheckoutSession(ctx context.Context, id string) (*ProviderSession, error)
}
