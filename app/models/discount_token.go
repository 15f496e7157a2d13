package models

import "time"

const (
	DiscountTypePercentage = "percentage"
	DiscountTypeFixed      = "fixed"
)

// DiscountToken is a shareable discount code scoped to a business and
// optionally to a single product. Expiry is evaluated at read time; rows are
// never auto-deleted.
type DiscountToken struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	BusinessID    uint      `gorm:"not null;index" json:"business_id"`
	ProductID     *uint     `gorm:"index;default:null" json:"product_id,omitempty"`
	CreatedBy     uint      `gorm:"not null;index" json:"created_by"`
	Code          string    `gorm:"type:varchar(20);not null;uniqueIndex" json:"code"`
	DiscountType  string    `gorm:"type:varchar(20);not null" json:"discount_type"`
	DiscountValue float64   `gorm:"type:decimal(12,2);not null" json:"discount_value"`
	MinPurchase   float64   `gorm:"type:decimal(12,2);not null;default:0" json:"min_purchase"`
	MaxUses       int       `gorm:"not null;default:0" json:"max_uses"`
	UsesCount     int       `gorm:"not null;default:0" json:"uses_count"`
	ValidFrom     time.Time `gorm:"not null" json:"valid_from"`
	ValidUntil    time.Time `gorm:"not null" json:"valid_until"`
	IsActive      bool      `gorm:"default:true;index" json:"is_active"`
	Description   string    `gorm:"type:varchar(255);default:null" json:"description"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// IsUnlimited reports whether the token has no redemption cap.
func (t *DiscountToken) IsUnlimited() bool {
	return t.MaxUses == 0
}
