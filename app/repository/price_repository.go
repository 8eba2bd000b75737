package repository

import (
	"github.com/OratileK/StreamBox/app/models"
	"gorm.io/gorm"
)

// priceRepository implements the PriceRepository interface
type priceRepository struct {
	db *gorm.DB
}

// NewPriceRepository creates a new price repository instance
func NewPriceRepository(db *gorm.DB) PriceRepository {
	return &priceRepository{db: db}
}

// Create creates a new price in the database
func (r *priceRepository) Create(price *models.Price) error {
	return r.db.Create(price).Error
}

// GetByID retrieves a price by its ID
func (r *priceRepository) GetByID(id uint) (*models.Price, error) {
	var price models.Price
	err := r.db.First(&price, id).Error
	if err != nil {
		return nil, err
	}
	return &price, nil
}

// GetByProviderReference retrieves a price by the reference the payment
// provider knows it under.
func (r *priceRepository) GetByProviderReference(reference string) (*models.Price, error) {
	var price models.Price
	err := r.db.Where("provider_reference = ?", reference).First(&price).Error
	if err != nil {
		return nil, err
	}
	return &price, nil
}

// ListByProduct retrieves all prices attached to a product
func (r *priceRepository) ListByProduct(productID uint) ([]models.Price, error) {
	var prices []models.Price
	err := r.db.Where("product_id = ?", productID).Order("created_at ASC").Find(&prices).Error
	return prices, err
}

// Update updates an existing price in the database
func (r *priceRepository) Update(price *models.Price) error {
	return r.db.Save(price).Error
}
