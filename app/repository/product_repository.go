package repository

import (
	"github.com/OratileK/StreamBox/app/models"
	"gorm.io/gorm"
)

// productRepository implements the ProductRepository interface
type productRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new product repository instance
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

// Create creates a new product in the database
func (r *productRepository) Create(product *models.Product) error {
	return r.db.Create(product).Error
}

// GetByID retrieves a product by its ID
func (r *productRepository) GetByID(id uint) (*models.Product, error) {
	var product models.Product
	err := r.db.First(&product, id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// GetByUUID retrieves a product by its public UUID
func (r *productRepository) GetByUUID(uuid string) (*models.Product, error) {
	var product models.Product
	err := r.db.Where("uuid = ?", uuid).First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// GetWithPrices retrieves a product together with all of its prices
func (r *productRepository) GetWithPrices(id uint) (*models.Product, error) {
	var product models.Product
	err := r.db.Preload("Prices").First(&product, id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// Update updates an existing product in the database
func (r *productRepository) Update(product *models.Product) error {
	return r.db.Save(product).Error
}

// List retrieves a paginated list of products
func (r *productRepository) List(offset, limit int) ([]models.Product, error) {
	var products []models.Product
	err := r.db.Order("created_at DESC").Offset(offset).Limit(limit).Find(&products).Error
	return products, err
}

// ListActiveWithPrices returns all active products with their active prices,
// ordered for the public catalog listing.
func (r *productRepository) ListActiveWithPrices() ([]models.Product, error) {
	var products []models.Product
	err := r.db.Where("active = ?", true).
		Preload("Prices", "active = ?", true).
		Order("name ASC").
		Find(&products).Error
	return products, err
}

// Count returns the total number of products
func (r *productRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Product{}).Count(&count).Error
	return count, err
}
