package commerce

import "errors"

// Error kinds surfaced by the three core operations. Callers match with
// errors.Is; controllers map each kind to an HTTP status class.
var (
	// ErrAuthentication: no valid caller identity.
	ErrAuthentication = errors.New("authentication required")
	// ErrAuthorization: valid caller, wrong role.
	ErrAuthorization = errors.New("operator role required")
	// ErrValidation: a required field is missing or malformed.
	ErrValidation = errors.New("invalid request")
	// ErrCatalogIntegrity: the local mirror of a provider object is missing,
	// inactive, or divergent from provider state.
	ErrCatalogIntegrity = errors.New("catalog integrity violation")
	// ErrProviderUnavailable: transport or availability failure talking to
	// the payment provider. Safe for the caller to retry.
	ErrProviderUnavailable = errors.New("payment provider unavailable")
	// ErrAllocation: the entitlement or ledger write failed after a confirmed
	// payment. Verification may be retried; allocation is idempotent.
	ErrAllocation = errors.New("entitlement allocation failed")
	// ErrNotFound: a referenced record does not exist.
	ErrNotFound = errors.New("record not found")
)
