package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	TierFree       = "free"
	TierBasic      = "basic"
	TierPremium    = "premium"
	TierEnterprise = "enterprise"
)

const (
	PaymentStatusNone    = "none"
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
	PaymentStatusFailed  = "failed"
)

// Subscription holds a user's plan state. A user has at most one row that is
// active at a time; the absence of any row means the implicit free tier.
// Rows are never hard-deleted so plan history stays queryable.
type Subscription struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	UserID        uint       `gorm:"not null;index" json:"user_id"`
	Tier          string     `gorm:"type:varchar(50);not null;default:'free';index" json:"tier"`
	ProductLimit  int        `gorm:"not null;default:10" json:"product_limit"`
	IsActive      bool       `gorm:"default:true;index" json:"is_active"`
	StartsAt      *time.Time `gorm:"type:timestamp;default:null" json:"starts_at,omitempty"`
	EndsAt        *time.Time `gorm:"type:timestamp;default:null" json:"ends_at,omitempty"`
	PaymentStatus string     `gorm:"type:varchar(32);not null;default:'none'" json:"payment_status"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// IsKnownTier reports whether the tier is one of the four supported plans.
func IsKnownTier(tier string) bool {
	switch tier {
	case TierFree, TierBasic, TierPremium, TierEnterprise:
		return true
	default:
		return false
	}
}

// HasExpired reports whether the subscription window has passed at the given time.
func (s *Subscription) HasExpired(now time.Time) bool {
	return s.EndsAt != nil && now.After(*s.EndsAt)
}

// GetOrCreateSubscription returns the user's active subscription or creates a
// free-tier default. Creation is explicit at call sites so the mutation point
// stays auditable.
func GetOrCreateSubscription(db *gorm.DB, userID uint) (*Subscription, error) {
	var sub Subscription
	if err := db.Where("user_id = ? AND is_active = ?", userID, true).First(&sub).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			now := time.Now()
			sub = Subscription{
				UserID:        userID,
				Tier:          TierFree,
				ProductLimit:  10,
				IsActive:      true,
				StartsAt:      &now,
				PaymentStatus: PaymentStatusNone,
			}
			if err := db.Create(&sub).Error; err != nil {
				return nil, err
			}
			return &sub, nil
		}
		return nil, err
	}
	return &sub, nil
}
