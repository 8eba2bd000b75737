package repository

import (
	"github.com/OratileK/StreamBox/app/models"
	"gorm.io/gorm"
)

// ProductRepository defines the interface for product-related database operations
type ProductRepository interface {
	Create(product *models.Product) error
	GetByID(id uint) (*models.Product, error)
	GetByUUID(uuid string) (*models.Product, error)
	GetWithPrices(id uint) (*models.Product, error)
	Update(product *models.Product) error
	List(offset, limit int) ([]models.Product, error)
	ListActiveWithPrices() ([]models.Product, error)
	Count() (int64, error)
}

// PriceRepository defines the interface for price-related database operations
type PriceRepository interface {
	Create(price *models.Price) error
	GetByID(id uint) (*models.Price, error)
	GetByProviderReference(reference string) (*models.Price, error)
	ListByProduct(productID uint) ([]models.Price, error)
	Update(price *models.Price) error
}

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByAPIKeyHash(hash string) (*models.User, error)
	Update(user *models.User) error
}

// EntitlementRepository defines read access to a user's entitlement set.
// Writes go through the commerce allocator only.
type EntitlementRepository interface {
	ListByUser(userID uint) ([]models.Entitlement, error)
	Has(userID, productID uint) (bool, error)
}

// OrderRepository defines read access to the order ledger. Writes go through
// the commerce verifier only.
type OrderRepository interface {
	GetBySessionID(sessionID string) (*models.Order, error)
	ListByUser(userID uint) ([]models.Order, error)
}

// Repositories struct holds all repository instances
type Repositories struct {
	Product     ProductRepository
	Price       PriceRepository
	User        UserRepository
	Entitlement EntitlementRepository
	Order       OrderRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Product:     NewProductRepository(db),
		Price:       NewPriceRepository(db),
		User:        NewUserRepository(db),
		Entitlement: NewEntitlementRepository(db),
		Order:       NewOrderRepository(db),
	}
}
