package commerce

import (
	"context"
	"errors"

	"github.com/OratileK/StreamBox/app/models"
	"gorm.io/gorm"
)

// Synchronizer reconciles a local product and its prices with their provider
// mirrors. Sync is safe to re-invoke: an unchanged catalog converges to the
// same provider references, and a partial failure leaves committed siblings
// in place.
type Synchronizer struct {
	repo    Repository
	gateway ProviderGateway
}

// NewSynchronizer creates a synchronizer from injected dependencies.
func NewSynchronizer(repo Repository, gateway ProviderGateway) *Synchronizer {
	return &Synchronizer{repo: repo, gateway: gateway}
}

// NewSynchronizerFromDB creates a synchronizer from a GORM DB handle.
func NewSynchronizerFromDB(db *gorm.DB, gateway ProviderGateway) *Synchronizer {
	return NewSynchronizer(NewRepository(db), gateway)
}

// SyncProduct pushes the product and all its prices to the provider.
//
// The product mirror is created on first sync (reference persisted locally)
// and updated afterwards; only name, description and active are provider-
// mutable. Each price gets a metadata-only update when its terms are
// unchanged, and a brand-new provider price when it was never synced, its
// terms drifted locally, or the update was rejected. Superseded provider
// prices are left intact and unreferenced; already-issued sessions and
// subscribers may still resolve them.
//
// If the provider becomes unreachable mid-run, the remaining prices are
// skipped and the report carries the partial progress.
func (s *Synchronizer) SyncProduct(ctx context.Context, productID uint) (*SyncReport, error) {
	if productID == 0 {
		return nil, errors.New("product id is required")
	}

	product, err := s.repo.GetProductWithPrices(productID)
	if err != nil {
		return nil, err
	}

	params := ProviderProductParams{
		Name:        product.Name,
		Description: product.Description,
		Active:      product.Active,
	}
	if product.IsSynced() {
		if _, err := s.gateway.UpdateProduct(ctx, product.ProviderReference, params); err != nil {
			return nil, err
		}
	} else {
		created, err := s.gateway.CreateProduct(ctx, params)
		if err != nil {
			return nil, err
		}
		if err := s.repo.SaveProductProviderReference(product.ID, created.Reference); err != nil {
			return nil, err
		}
		product.ProviderReference = created.Reference
	}

	report := &SyncReport{
		ProductID:                product.ID,
		ProviderProductReference: product.ProviderReference,
		PriceCount:               len(product.Prices),
	}

	for i := range product.Prices {
		result := s.syncPrice(ctx, product, &product.Prices[i])
		report.Prices = append(report.Prices, result)

		// Abort remaining work when the provider is unreachable; everything
		// committed so far stays committed and is reported.
		if result.Error != "" && errors.Is(result.err, ErrProviderUnavailable) {
			break
		}
	}

	return report, nil
}

func (s *Synchronizer) syncPrice(ctx context.Context, product *models.Product, price *models.Price) PriceSyncResult {
	result := PriceSyncResult{PriceID: price.ID, ProviderReference: price.ProviderReference}

	if price.IsSynced() && !price.TermsChangedSinceSync() {
		// Terms unchanged: push the only provider-mutable fields.
		_, err := s.gateway.UpdatePrice(ctx, price.ProviderReference, PriceMetadataParams{
			Nickname: price.Nickname,
			Active:   price.Active,
		})
		if err == nil {
			return result
		}
		if errors.Is(err, ErrProviderUnavailable) {
			return result.withError(err)
		}
		// Update rejected: fall through and mint a replacement price.
	}

	wasSynced := price.IsSynced()

	interval := price.Interval
	if !price.Recurring() {
		interval = ""
	}
	created, err := s.gateway.CreatePrice(ctx, ProviderPriceParams{
		ProductReference: product.ProviderReference,
		Currency:         price.Currency,
		UnitAmount:       price.UnitAmount,
		Interval:         interval,
		IntervalCount:    price.IntervalCount,
		Nickname:         price.Nickname,
		Active:           price.Active,
	})
	if err != nil {
		return result.withError(err)
	}

	if err := s.repo.SavePriceProviderBinding(price.ID, created.Reference, price.TermsHash()); err != nil {
		return result.withError(err)
	}

	price.ProviderReference = created.Reference
	price.ProviderTermsHash = price.TermsHash()

	result.ProviderReference = created.Reference
	result.Created = !wasSynced
	result.Rotated = wasSynced
	return result
}
