package commerce

import (
	"errors"
	"fmt"

	"github.com/OratileK/StreamBox/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository provides the catalog-store operations used by the synchronizer,
// issuer and verifier.
type Repository interface {
	GetProductWithPrices(id uint) (*models.Product, error)
	SaveProductProviderReference(productID uint, reference string) error
	// SavePriceProviderBinding rebinds a price to a provider price object and
	// records the term fingerprint the object was issued with.
	SavePriceProviderBinding(priceID uint, reference, termsHash string) error
	GetPriceByProviderReference(reference string) (*models.Price, error)

	// AllocateEntitlement is an atomic set-union: inserting an existing
	// (user, product) pair is a no-op at the datastore, never an error.
	AllocateEntitlement(userID, productID uint) error
	// MarkOrderPaid upserts the ledger row keyed by session id.
	MarkOrderPaid(order *models.Order) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a commerce repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) GetProductWithPrices(id uint) (*models.Product, error) {
	var product models.Product
	err := r.db.Preload("Prices").First(&product, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product %d", ErrNotFound, id)
		}
		return nil, err
	}
	return &product, nil
}

func (r *gormRepository) SaveProductProviderReference(productID uint, reference string) error {
	return r.db.Model(&models.Product{}).
		Where("id = ?", productID).
		Update("provider_reference", reference).Error
}

func (r *gormRepository) SavePriceProviderBinding(priceID uint, reference, termsHash string) error {
	return r.db.Model(&models.Price{}).
		Where("id = ?", priceID).
		Updates(map[string]interface{}{
			"provider_reference":  reference,
			"provider_terms_hash": termsHash,
		}).Error
}

func (r *gormRepository) GetPriceByProviderReference(reference string) (*models.Price, error) {
	var price models.Price
	err := r.db.Preload("Product").
		Where("provider_reference = ?", reference).
		First(&price).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: no local price for provider reference %s", ErrNotFound, reference)
		}
		return nil, err
	}
	return &price, nil
}

func (r *gormRepository) AllocateEntitlement(userID, productID uint) error {
	ent := &models.Entitlement{UserID: userID, ProductID: productID}
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "user_id"},
			{Name: "product_id"},
		},
		DoNothing: true,
	}).Create(ent).Error
}

func (r *gormRepository) MarkOrderPaid(order *models.Order) error {
	if err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "session_id"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"user_id",
			"product_id",
			"status",
			"amount_total",
			"currency",
			"updated_at",
		}),
	}).Create(order).Error; err != nil {
		return err
	}

	// Ensure ID is populated after upsert.
	return r.db.Where("session_id = ?", order.SessionID).First(order).Error
}
