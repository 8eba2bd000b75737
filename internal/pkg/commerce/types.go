package commerce

import "strconv"

// Session payment statuses reported by the provider.
const (
	PaymentStatusPaid              = "paid"
	PaymentStatusUnpaid            = "unpaid"
	PaymentStatusNoPaymentRequired = "no_payment_required"
)

// Correlation metadata keys threaded through the provider checkout session.
// This payload is the only durable link between a provider payment event and
// local entities.
const (
	metaKeyUserID      = "user_id"
	metaKeyProductID   = "product_id"
	metaKeyProductName = "product_name"
)

// SessionMetadata is the explicit schema of the checkout correlation payload.
// A zero UserID or ProductID is the absent/placeholder sentinel: such a
// session (guest or legacy) completes verification without allocating.
type SessionMetadata struct {
	UserID      uint
	ProductID   uint
	ProductName string
}

// Complete reports whether the payload carries enough linkage to allocate.
func (m SessionMetadata) Complete() bool {
	return m.UserID != 0 && m.ProductID != 0
}

// Encode renders the payload as provider metadata key/value pairs.
func (m SessionMetadata) Encode() map[string]string {
	return map[string]string{
		metaKeyUserID:      strconv.FormatUint(uint64(m.UserID), 10),
		metaKeyProductID:   strconv.FormatUint(uint64(m.ProductID), 10),
		metaKeyProductName: m.ProductName,
	}
}

// DecodeSessionMetadata parses provider metadata back into the schema.
// Missing or non-numeric identifiers decode to the zero sentinel rather than
// an error: a paid session without linkage is a designed no-op, not a failure.
func DecodeSessionMetadata(raw map[string]string) SessionMetadata {
	return SessionMetadata{
		UserID:      parseID(raw[metaKeyUserID]),
		ProductID:   parseID(raw[metaKeyProductID]),
		ProductName: raw[metaKeyProductName],
	}
}

func parseID(s string) uint {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0
	}
	return uint(v)
}

// ProviderProduct mirrors the provider-side product object.
type ProviderProduct struct {
	Reference   string
	Name        string
	Description string
	Active      bool
}

// ProviderPrice mirrors the provider-side price object. Interval is empty for
// one-time prices.
type ProviderPrice struct {
	Reference        string
	ProductReference string
	Currency         string
	UnitAmount       int64
	Interval         string
	IntervalCount    int
	Nickname         string
	Active           bool
	Recurring        bool
}

// ProviderCustomer is the provider-side payer record keyed by contact email.
type ProviderCustomer struct {
	ID    string
	Email string
	Name  string
}

// ProviderSession is the provider-owned checkout flow instance. It is never
// persisted locally.
type ProviderSession struct {
	ID            string
	URL           string
	PaymentStatus string
	Metadata      map[string]string
	AmountTotal   int64
	Currency      string
}

// ProviderProductParams carries the provider-mutable product fields.
type ProviderProductParams struct {
	Name        string
	Description string
	Active      bool
}

// ProviderPriceParams carries the full term set for minting a provider price.
type ProviderPriceParams struct {
	ProductReference string
	Currency         string
	UnitAmount       int64
	Interval         string
	IntervalCount    int
	Nickname         string
	Active           bool
}

// PriceMetadataParams carries the only provider-mutable price fields. Priced
// terms of an issued provider price cannot be changed.
type PriceMetadataParams struct {
	Nickname string
	Active   bool
}

// CheckoutParams describes a purchase session to open with the provider.
type CheckoutParams struct {
	CustomerID     string
	PriceReference string
	Recurring      bool
	SuccessURL     string
	CancelURL      string
	Metadata       SessionMetadata
}

// PriceSyncResult is the per-price outcome of a catalog sync.
type PriceSyncResult struct {
	PriceID           uint   `json:"price_id"`
	ProviderReference string `json:"provider_reference,omitempty"`
	Created           bool   `json:"created"`
	Rotated           bool   `json:"rotated"`
	Error             string `json:"error,omitempty"`

	err error
}

func (r PriceSyncResult) withError(err error) PriceSyncResult {
	r.err = err
	r.Error = err.Error()
	return r
}

// Unwrap exposes the underlying error kind for errors.Is matching.
func (r PriceSyncResult) Unwrap() error {
	return r.err
}

// SyncReport is the overall outcome of a product sync. A failed price does
// not roll back successes already committed for siblings; sync is designed
// for idempotent convergence, not transactionality.
type SyncReport struct {
	ProductID                uint              `json:"product_id"`
	ProviderProductReference string            `json:"provider_product_reference"`
	PriceCount               int               `json:"price_count"`
	Prices                   []PriceSyncResult `json:"prices"`
}

// Failed reports whether any per-price outcome carries an error.
func (r *SyncReport) Failed() bool {
	for _, p := range r.Prices {
		if p.Error != "" {
			return true
		}
	}
	return false
}

// VerifyResult is the outcome of resolving a checkout session.
type VerifyResult struct {
	Success   bool   `json:"success"`
	Status    string `json:"status"`
	Allocated bool   `json:"allocated"`
}
