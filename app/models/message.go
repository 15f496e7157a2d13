package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// Message is a direct message between two users, optionally in the context of
// a business (buyer asking a storefront a question). Delivery to push
// transports is handled outside the model.
type Message struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	SenderID    uint       `gorm:"not null;index" json:"sender_id"`
	RecipientID uint       `gorm:"not null;index" json:"recipient_id"`
	BusinessID  *uint      `gorm:"index;default:null" json:"business_id,omitempty"`
	Body        string     `gorm:"type:text;not null" json:"body" validate:"required,min=1,max=5000"`
	ReadAt      *time.Time `gorm:"type:timestamp;default:null" json:"read_at,omitempty"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (m *Message) Validate() error {
	v := validator.New()

	return v.Struct(m)
}

// IsRead reports whether the recipient has seen the message.
func (m *Message) IsRead() bool {
	return m.ReadAt != nil
}
