package repository

import (
	"github.com/OratileK/StreamBox/app/models"
	"gorm.io/gorm"
)

// entitlementRepository implements the EntitlementRepository interface
type entitlementRepository struct {
	db *gorm.DB
}

// NewEntitlementRepository creates a new entitlement repository instance
func NewEntitlementRepository(db *gorm.DB) EntitlementRepository {
	return &entitlementRepository{db: db}
}

// ListByUser returns the user's entitlements, newest first
func (r *entitlementRepository) ListByUser(userID uint) ([]models.Entitlement, error) {
	var entitlements []models.Entitlement
	err := r.db.Where("user_id = ?", userID).
		Preload("Product").
		Order("created_at DESC").
		Find(&entitlements).Error
	return entitlements, err
}

// Has reports whether the user holds an entitlement for the product
func (r *entitlementRepository) Has(userID, productID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Entitlement{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Count(&count).Error
	return count > 0, err
}
