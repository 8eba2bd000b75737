package models

import "time"

const (
	OrderStatusPaid = "paid"
)

// Order is the ledger record for a completed checkout session, keyed by the
// provider session id. Status transitions are idempotent overwrites: replaying
// the same session id never creates a second row.
type Order struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	SessionID   string    `gorm:"type:varchar(191);not null;uniqueIndex" json:"session_id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	ProductID   uint      `gorm:"not null;index" json:"product_id"`
	Status      string    `gorm:"type:varchar(32);not null;default:'paid'" json:"status"`
	AmountTotal int64     `gorm:"not null;default:0" json:"amount_total"`
	Currency    string    `gorm:"type:varchar(3);default:''" json:"currency"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
