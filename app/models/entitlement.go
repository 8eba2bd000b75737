package models

import "time"

// Entitlement is a durable grant of product access to a user. Membership is
// monotonic from the allocator's perspective: rows are only ever added, and
// the (user_id, product_id) pair is unique so repeated allocation converges
// to a single row.
type Entitlement struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:ux_entitlements_user_product,priority:1" json:"user_id"`
	ProductID uint      `gorm:"not null;uniqueIndex:ux_entitlements_user_product,priority:2" json:"product_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}
