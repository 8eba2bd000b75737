package models

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

const (
	IntervalDay   = "day"
	IntervalWeek  = "week"
	IntervalMonth = "month"
	IntervalYear  = "year"
	IntervalOnce  = "once"
)

// Price is a purchasable term set belonging to exactly one Product.
// Once a price has a ProviderReference, its priced terms (currency,
// unit_amount, interval, interval_count) are immutable on the provider side:
// local edits to those fields after first sync make the synchronizer mint a
// brand-new provider price and rebind ProviderReference, leaving the old
// provider object intact for already-issued sessions and subscribers.
type Price struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	ProductID         uint           `gorm:"not null;index" json:"product_id" validate:"required"`
	Product           *Product       `gorm:"foreignKey:ProductID" json:"-"`
	Currency          string         `gorm:"type:varchar(3);not null" json:"currency" validate:"required,iso4217"`
	UnitAmount        int64          `gorm:"not null" json:"unit_amount" validate:"required,gt=0"`
	Interval          string         `gorm:"type:varchar(10);not null;default:'once'" json:"interval" validate:"oneof=day week month year once"`
	IntervalCount     int            `gorm:"not null;default:1" json:"interval_count" validate:"gte=1"`
	Nickname          string         `gorm:"type:varchar(100);default:''" json:"nickname" validate:"max=100"`
	Active            bool           `gorm:"default:true;index" json:"active"`
	ProviderReference string         `gorm:"type:varchar(191);default:'';index" json:"provider_reference"`
	ProviderTermsHash string         `gorm:"type:char(64);default:''" json:"-"`
	CreatedAt         time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
}

// Normalize canonicalizes user-supplied fields before validation. One-time
// prices always carry an interval count of 1.
func (p *Price) Normalize() {
	p.Currency = strings.ToUpper(strings.TrimSpace(p.Currency))
	p.Interval = strings.ToLower(strings.TrimSpace(p.Interval))
	if p.Interval == "" {
		p.Interval = IntervalOnce
	}
	if p.Interval == IntervalOnce {
		p.IntervalCount = 1
	}
	if p.IntervalCount < 1 {
		p.IntervalCount = 1
	}
}

func (p *Price) Validate() error {
	v := validator.New()

	return v.Struct(p)
}

// Recurring reports whether this price opens a subscription rather than a
// one-time payment.
func (p *Price) Recurring() bool {
	return p.Interval != IntervalOnce
}

// IsSynced reports whether the price already has a provider mirror.
func (p *Price) IsSynced() bool {
	return p.ProviderReference != ""
}

// TermsHash fingerprints the provider-immutable term tuple. The synchronizer
// stores it at sync time so a later sync can tell whether the local terms
// drifted from what the provider price was issued with.
func (p *Price) TermsHash() string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%d|%s|%d", p.Currency, p.UnitAmount, p.Interval, p.IntervalCount)))
	return hex.EncodeToString(sum[:])
}

// TermsChangedSinceSync reports whether the priced terms were edited locally
// after the provider price was created.
func (p *Price) TermsChangedSinceSync() bool {
	return p.ProviderTermsHash != "" && p.ProviderTermsHash != p.TermsHash()
}
