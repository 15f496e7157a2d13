package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// Business is a seller storefront owned by a user. Name uniqueness is scoped
// to the owner, not global. IsActive can be flipped off by the plan downgrade
// cascade without deleting the row.
type Business struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	UserID      uint           `gorm:"not null;index;index:ux_businesses_owner_name,unique,priority:1" json:"user_id"`
	Name        string         `gorm:"type:varchar(150);not null;index:ux_businesses_owner_name,unique,priority:2" json:"name" validate:"required,min=2,max=150"`
	Description string         `gorm:"type:text;default:null" json:"description" validate:"max=2000"`
	Address     string         `gorm:"type:varchar(255);default:null" json:"address" validate:"max=255"`
	Latitude    float64        `gorm:"type:decimal(10,7);default:0" json:"latitude" validate:"min=-90,max=90"`
	Longitude   float64        `gorm:"type:decimal(10,7);default:0" json:"longitude" validate:"min=-180,max=180"`
	Phone       string         `gorm:"type:varchar(30);default:null" json:"phone" validate:"max=30"`
	Email       string         `gorm:"type:varchar(200);default:null" json:"email" validate:"omitempty,email"`
	IsActive    bool           `gorm:"default:true;index" json:"is_active"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (b *Business) Validate() error {
	v := validator.New()

	return v.Struct(b)
}
