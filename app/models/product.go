package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// Product is a listing under a business. The downgrade cascade deactivates
// products instead of deleting them; hard deletion is owner-initiated only.
type Product struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	BusinessID  uint           `gorm:"not null;index" json:"business_id"`
	CategoryID  *uint          `gorm:"index;default:null" json:"category_id,omitempty"`
	Name        string         `gorm:"type:varchar(150);not null" json:"name" validate:"required,min=2,max=150"`
	Description string         `gorm:"type:text;default:null" json:"description" validate:"max=2000"`
	Price       float64        `gorm:"type:decimal(12,2);not null;default:0" json:"price" validate:"min=0"`
	Stock       int            `gorm:"not null;default:0" json:"stock" validate:"min=0"`
	ImageURL    string         `gorm:"type:varchar(255);default:null" json:"image_url" validate:"max=255"`
	IsActive    bool           `gorm:"default:true;index" json:"is_active"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (p *Product) Validate() error {
	v := validator.New()

	return v.Struct(p)
}
