package commerce

import (
	"context"
	"fmt"
	"strings"

	"github.com/OratileK/StreamBox/app/models"
	"gorm.io/gorm"
)

// Verifier resolves a checkout session's terminal state and, when the
// provider reports it paid, grants the buyer a durable entitlement.
//
// Verification is client-driven: the buyer's client calls it after returning
// from the provider-hosted flow, and is expected to poll while the session is
// still pending. Verifying the same paid session any number of times,
// sequentially or concurrently, produces exactly one entitlement grant and
// one ledger transition.
type Verifier struct {
	repo    Repository
	gateway ProviderGateway
}

// NewVerifier creates a payment verifier from injected dependencies.
func NewVerifier(repo Repository, gateway ProviderGateway) *Verifier {
	return &Verifier{repo: repo, gateway: gateway}
}

// NewVerifierFromDB creates a payment verifier from a GORM DB handle.
func NewVerifierFromDB(db *gorm.DB, gateway ProviderGateway) *Verifier {
	return NewVerifier(NewRepository(db), gateway)
}

// VerifySession retrieves the session from the provider and reacts to its
// payment status. Non-paid statuses are reported without any mutation. A paid
// session with an absent or placeholder correlation payload (guest or legacy
// session) terminates successfully without allocating; not every paid session
// implies an entitlement.
func (v *Verifier) VerifySession(ctx context.Context, sessionID string) (*VerifyResult, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, fmt.Errorf("%w: session id is required", ErrValidation)
	}

	session, err := v.gateway.GetCheckoutSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if session.PaymentStatus != PaymentStatusPaid {
		return &VerifyResult{Success: false, Status: session.PaymentStatus, Allocated: false}, nil
	}

	meta := DecodeSessionMetadata(session.Metadata)
	if !meta.Complete() {
		// Designed skip, not a suppressed error.
		return &VerifyResult{Success: true, Status: session.PaymentStatus, Allocated: false}, nil
	}

	if err := v.repo.AllocateEntitlement(meta.UserID, meta.ProductID); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAllocation, err)
	}

	order := &models.Order{
		SessionID:   session.ID,
		UserID:      meta.UserID,
		ProductID:   meta.ProductID,
		Status:      models.OrderStatusPaid,
		AmountTotal: session.AmountTotal,
		Currency:    session.Currency,
	}
	if err := v.repo.MarkOrderPaid(order); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAllocation, err)
	}

	return &VerifyResult{Success: true, Status: session.PaymentStatus, Allocated: true}, nil
}
