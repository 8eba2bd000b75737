package commerce

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/OratileK/StreamBox/app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// paidSession runs the full purchase flow up to the point where the provider
// reports the session paid, returning the session id a client would verify.
func paidSession(t *testing.T) (*fakeRepository, *fakeGateway, string) {
	t.Helper()
	repo, gateway, reference := syncedCatalog(t)

	_, err := NewIssuer(repo, gateway).IssueSession(context.Background(), buyerRequest(reference))
	require.NoError(t, err)

	gateway.completeSession(gateway.lastSessionID)
	return repo, gateway, gateway.lastSessionID
}

func TestVerifySessionAllocatesOnce(t *testing.T) {
	repo, gateway, sessionID := paidSession(t)
	verifier := NewVerifier(repo, gateway)

	result, err := verifier.VerifySession(context.Background(), sessionID)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.True(t, result.Allocated)
	assert.Equal(t, PaymentStatusPaid, result.Status)

	// Verifying the same paid session again converges: one entitlement, one
	// ledger row, still a successful response.
	result, err = verifier.VerifySession(context.Background(), sessionID)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.True(t, result.Allocated)

	assert.Equal(t, []uint{1}, repo.entitlementSet(7))
	require.Len(t, repo.orders, 1)
	assert.Equal(t, models.OrderStatusPaid, repo.orders[sessionID].Status)
	assert.Equal(t, int64(1500), repo.orders[sessionID].AmountTotal)
	assert.Equal(t, "BWP", repo.orders[sessionID].Currency)
}

func TestVerifySessionConcurrent(t *testing.T) {
	repo, gateway, sessionID := paidSession(t)
	verifier := NewVerifier(repo, gateway)

	const callers = 20
	var wg sync.WaitGroup
	wg.Add(callers)
	for i := 0; i < callers; i++ {
		go func() {
			defer wg.Done()
			_, err := verifier.VerifySession(context.Background(), sessionID)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, []uint{1}, repo.entitlementSet(7))
	assert.Len(t, repo.orders, 1)
}

func TestVerifySessionNonPaidShortCircuits(t *testing.T) {
	repo, gateway, reference := syncedCatalog(t)
	_, err := NewIssuer(repo, gateway).IssueSession(context.Background(), buyerRequest(reference))
	require.NoError(t, err)

	// The buyer has not completed the hosted flow yet.
	result, err := NewVerifier(repo, gateway).VerifySession(context.Background(), gateway.lastSessionID)
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.False(t, result.Allocated)
	assert.Equal(t, PaymentStatusUnpaid, result.Status)
	assert.Empty(t, repo.entitlementSet(7))
	assert.Empty(t, repo.orders)
	assert.Zero(t, repo.allocateCalls)
}

func TestVerifySessionWithoutLinkageSkipsAllocation(t *testing.T) {
	tests := []struct {
		name     string
		metadata map[string]string
	}{
		{name: "no metadata at all", metadata: nil},
		{name: "placeholder ids", metadata: map[string]string{"user_id": "0", "product_id": "0"}},
		{name: "garbage ids", metadata: map[string]string{"user_id": "anonymous", "product_id": "n/a"}},
		{name: "missing product", metadata: map[string]string{"user_id": "7"}},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			repo := newFakeRepository()
			gateway := newFakeGateway()
			gateway.addSession(&ProviderSession{
				ID:            "cs_guest",
				PaymentStatus: PaymentStatusPaid,
				Metadata:      tc.metadata,
			})

			result, err := NewVerifier(repo, gateway).VerifySession(context.Background(), "cs_guest")
			require.NoError(t, err)

			// A paid session without linkage terminates successfully but
			// grants nothing.
			assert.True(t, result.Success)
			assert.False(t, result.Allocated)
			assert.Zero(t, repo.allocateCalls)
			assert.Empty(t, repo.orders)
		})
	}
}

func TestVerifySessionErrors(t *testing.T) {
	t.Run("missing session id", func(t *testing.T) {
		repo := newFakeRepository()
		gateway := newFakeGateway()

		_, err := NewVerifier(repo, gateway).VerifySession(context.Background(), "  ")
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("unknown session id", func(t *testing.T) {
		repo := newFakeRepository()
		gateway := newFakeGateway()

		_, err := NewVerifier(repo, gateway).VerifySession(context.Background(), "cs_ghost")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("provider unreachable is retryable", func(t *testing.T) {
		repo, gateway, sessionID := paidSession(t)
		gateway.getSessionErr = fmt.Errorf("%w: connection reset", ErrProviderUnavailable)

		_, err := NewVerifier(repo, gateway).VerifySession(context.Background(), sessionID)
		assert.ErrorIs(t, err, ErrProviderUnavailable)

		// The provider recovers; the retry completes the grant.
		gateway.getSessionErr = nil
		result, err := NewVerifier(repo, gateway).VerifySession(context.Background(), sessionID)
		require.NoError(t, err)
		assert.True(t, result.Allocated)
	})

	t.Run("allocation failure is surfaced and retry-safe", func(t *testing.T) {
		repo, gateway, sessionID := paidSession(t)
		repo.allocateErr = errors.New("disk full")

		_, err := NewVerifier(repo, gateway).VerifySession(context.Background(), sessionID)
		assert.ErrorIs(t, err, ErrAllocation)
		assert.Empty(t, repo.orders)

		repo.allocateErr = nil
		result, err := NewVerifier(repo, gateway).VerifySession(context.Background(), sessionID)
		require.NoError(t, err)
		assert.True(t, result.Allocated)
		assert.Equal(t, []uint{1}, repo.entitlementSet(7))
	})
}

func TestPurchaseEndToEnd(t *testing.T) {
	repo := newFakeRepository()
	gateway := newFakeGateway()
	product, price := seedCatalog(repo)

	// Operator pushes the catalog out; the unsynced BWP monthly price gets
	// its first provider reference.
	report, err := NewSynchronizer(repo, gateway).SyncProduct(context.Background(), product.ID)
	require.NoError(t, err)
	require.Len(t, report.Prices, 1)
	r1 := report.Prices[0].ProviderReference
	require.NotEmpty(t, r1)
	assert.Equal(t, r1, price.ProviderReference)

	// Buyer opens checkout for that reference.
	url, err := NewIssuer(repo, gateway).IssueSession(context.Background(), buyerRequest(r1))
	require.NoError(t, err)
	assert.NotEmpty(t, url)

	// Buyer pays out-of-band; the provider marks the session paid.
	sessionID := gateway.lastSessionID
	gateway.completeSession(sessionID)

	verifier := NewVerifier(repo, gateway)
	result, err := verifier.VerifySession(context.Background(), sessionID)
	require.NoError(t, err)
	assert.True(t, result.Allocated)
	assert.Equal(t, []uint{1}, repo.entitlementSet(7))

	// A duplicate verify call changes nothing.
	_, err = verifier.VerifySession(context.Background(), sessionID)
	require.NoError(t, err)
	assert.Equal(t, []uint{1}, repo.entitlementSet(7))
	require.Len(t, repo.orders, 1)
	assert.Equal(t, models.OrderStatusPaid, repo.orders[sessionID].Status)
}
