package commerce

import (
	"context"
	"fmt"
	"testing"

	"github.com/OratileK/StreamBox/app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedCatalog(repo *fakeRepository) (*models.Product, *models.Price) {
	product := &models.Product{
		ID:          1,
		Name:        "Motswako Monthly",
		Description: "All-access streaming",
		Active:      true,
	}
	price := &models.Price{
		ID:            10,
		ProductID:     1,
		Currency:      "BWP",
		UnitAmount:    1500,
		Interval:      models.IntervalMonth,
		IntervalCount: 1,
		Nickname:      "Monthly",
		Active:        true,
	}
	repo.addProduct(product)
	repo.addPrice(price)
	return product, price
}

func TestSyncProductAssignsReferences(t *testing.T) {
	repo := newFakeRepository()
	gateway := newFakeGateway()
	product, price := seedCatalog(repo)

	report, err := NewSynchronizer(repo, gateway).SyncProduct(context.Background(), product.ID)
	require.NoError(t, err)

	assert.Equal(t, "prod_1", report.ProviderProductReference)
	assert.Equal(t, "prod_1", product.ProviderReference)
	assert.Equal(t, 1, report.PriceCount)
	require.Len(t, report.Prices, 1)
	assert.True(t, report.Prices[0].Created)
	assert.False(t, report.Prices[0].Rotated)
	assert.Equal(t, "price_1", price.ProviderReference)
	assert.NotEmpty(t, price.ProviderTermsHash)
	assert.False(t, report.Failed())
}

func TestSyncProductIsStable(t *testing.T) {
	repo := newFakeRepository()
	gateway := newFakeGateway()
	product, price := seedCatalog(repo)
	sync := NewSynchronizer(repo, gateway)

	_, err := sync.SyncProduct(context.Background(), product.ID)
	require.NoError(t, err)
	first := price.ProviderReference

	// Re-sync with unchanged fields: the provider mirror is updated in place,
	// no new price object is minted.
	report, err := sync.SyncProduct(context.Background(), product.ID)
	require.NoError(t, err)

	assert.Equal(t, first, price.ProviderReference)
	assert.Equal(t, 1, gateway.priceCreates)
	assert.Equal(t, 1, gateway.priceUpdates)
	assert.Equal(t, 1, gateway.productUpdates)
	require.Len(t, report.Prices, 1)
	assert.False(t, report.Prices[0].Created)
	assert.False(t, report.Prices[0].Rotated)
}

func TestSyncProductRotatesPriceOnTermChange(t *testing.T) {
	repo := newFakeRepository()
	gateway := newFakeGateway()
	product, price := seedCatalog(repo)
	sync := NewSynchronizer(repo, gateway)

	_, err := sync.SyncProduct(context.Background(), product.ID)
	require.NoError(t, err)
	original := price.ProviderReference

	// Priced terms are immutable upstream: a local amount change must mint a
	// new provider price and rebind, leaving the old object resolvable.
	price.UnitAmount = 2000

	report, err := sync.SyncProduct(context.Background(), product.ID)
	require.NoError(t, err)

	require.Len(t, report.Prices, 1)
	assert.True(t, report.Prices[0].Rotated)
	assert.NotEqual(t, original, price.ProviderReference)

	superseded, err := gateway.GetPrice(context.Background(), original)
	require.NoError(t, err)
	assert.Equal(t, int64(1500), superseded.UnitAmount)
}

func TestSyncProductMetadataOnlyUpdate(t *testing.T) {
	repo := newFakeRepository()
	gateway := newFakeGateway()
	product, price := seedCatalog(repo)
	sync := NewSynchronizer(repo, gateway)

	_, err := sync.SyncProduct(context.Background(), product.ID)
	require.NoError(t, err)
	original := price.ProviderReference

	// Nickname and active flag are provider-mutable; changing them must not
	// rotate the reference.
	price.Nickname = "Monthly (promo)"
	price.Active = false

	_, err = sync.SyncProduct(context.Background(), product.ID)
	require.NoError(t, err)

	assert.Equal(t, original, price.ProviderReference)
	upstream, err := gateway.GetPrice(context.Background(), original)
	require.NoError(t, err)
	assert.Equal(t, "Monthly (promo)", upstream.Nickname)
	assert.False(t, upstream.Active)
}

func TestSyncProductRejectedUpdateMintsReplacement(t *testing.T) {
	repo := newFakeRepository()
	gateway := newFakeGateway()
	product, price := seedCatalog(repo)
	sync := NewSynchronizer(repo, gateway)

	_, err := sync.SyncProduct(context.Background(), product.ID)
	require.NoError(t, err)
	original := price.ProviderReference

	gateway.updatePriceErr = fmt.Errorf("%w: price may not be updated", ErrValidation)

	report, err := sync.SyncProduct(context.Background(), product.ID)
	require.NoError(t, err)

	require.Len(t, report.Prices, 1)
	assert.True(t, report.Prices[0].Rotated)
	assert.Empty(t, report.Prices[0].Error)
	assert.NotEqual(t, original, price.ProviderReference)
}

func TestSyncProductAbortsWhenProviderUnreachable(t *testing.T) {
	repo := newFakeRepository()
	gateway := newFakeGateway()
	product, _ := seedCatalog(repo)
	repo.addPrice(&models.Price{
		ID:            11,
		ProductID:     1,
		Currency:      "BWP",
		UnitAmount:    9900,
		Interval:      models.IntervalYear,
		IntervalCount: 1,
		Active:        true,
	})

	gateway.createPriceErr = fmt.Errorf("%w: connection refused", ErrProviderUnavailable)

	report, err := NewSynchronizer(repo, gateway).SyncProduct(context.Background(), product.ID)
	require.NoError(t, err)

	// The product mirror was committed, the first price failed, and the
	// remaining price was skipped: partial progress, safely re-invokable.
	assert.Equal(t, "prod_1", report.ProviderProductReference)
	assert.Equal(t, 2, report.PriceCount)
	require.Len(t, report.Prices, 1)
	assert.NotEmpty(t, report.Prices[0].Error)
	assert.True(t, report.Failed())
}

func TestSyncProductUnknownProduct(t *testing.T) {
	repo := newFakeRepository()
	gateway := newFakeGateway()

	_, err := NewSynchronizer(repo, gateway).SyncProduct(context.Background(), 99)
	assert.ErrorIs(t, err, ErrNotFound)
}
