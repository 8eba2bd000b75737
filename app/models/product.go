package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product is the local system of record for a sellable catalog item.
// ProviderReference correlates it with its mirror object inside the payment
// provider and is written only by the catalog synchronizer, never by catalog
// management edits.
type Product struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	UUID              string         `gorm:"type:char(36);uniqueIndex" json:"uuid"`
	Name              string         `gorm:"type:varchar(200);not null" json:"name" validate:"required,min=2,max=200"`
	Description       string         `gorm:"type:text" json:"description" validate:"max=5000"`
	Active            bool           `gorm:"default:true;index" json:"active"`
	ProviderReference string         `gorm:"type:varchar(191);default:'';index" json:"provider_reference"`
	Prices            []Price        `gorm:"foreignKey:ProductID" json:"prices,omitempty"`
	CreatedAt         time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.UUID == "" {
		p.UUID = uuid.New().String()
	}
	return nil
}

func (p *Product) Validate() error {
	v := validator.New()

	return v.Struct(p)
}

// IsSynced reports whether the product already has a provider mirror.
func (p *Product) IsSynced() bool {
	return p.ProviderReference != ""
}
