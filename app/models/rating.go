package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// Rating is a star rating a user leaves for a business, optionally pinned to
// one of its products. One rating per (user, business, product); re-rating
// updates the existing row. ProductID is 0 for business-level ratings so the
// scope index contains no NULLs and duplicates collide on upsert.
type Rating struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;index:ux_ratings_scope,unique,priority:1" json:"user_id"`
	BusinessID uint      `gorm:"not null;index;index:ux_ratings_scope,unique,priority:2" json:"business_id"`
	ProductID  uint      `gorm:"not null;default:0;index:ux_ratings_scope,unique,priority:3" json:"product_id,omitempty"`
	Stars      int       `gorm:"not null" json:"stars" validate:"required,min=1,max=5"`
	Comment    string    `gorm:"type:text;default:null" json:"comment" validate:"max=2000"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (r *Rating) Validate() error {
	v := validator.New()

	return v.Struct(r)
}

// RatingScope normalizes an optional product reference to the stored scope
// value: nil means the rating targets the business as a whole and is stored
// as product_id 0.
func RatingScope(productID *uint) uint {
	if productID == nil {
		return 0
	}
	return *productID
}

// IsProductRating reports whether the rating is pinned to a product.
func (r *Rating) IsProductRating() bool {
	return r.ProductID != 0
}
