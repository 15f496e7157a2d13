package models

import "time"

// TokenUse records one successful redemption of a discount token. The
// redeeming user is nullable because redemption is open to unauthenticated
// holders. ConfirmedAt stays nil until the business confirms the code.
type TokenUse struct {
	ID                       uint       `gorm:"primaryKey" json:"id"`
	TokenID                  uint       `gorm:"not null;index" json:"token_id"`
	UserID                   *uint      `gorm:"index;default:null" json:"user_id,omitempty"`
	UsedAt                   time.Time  `gorm:"not null" json:"used_at"`
	BusinessConfirmationCode string     `gorm:"type:varchar(16);default:''" json:"-"`
	ConfirmedAt              *time.Time `gorm:"type:timestamp;default:null" json:"confirmed_at,omitempty"`
	CreatedAt                time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt                time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// IsConfirmed reports whether the business has acknowledged this redemption.
func (u *TokenUse) IsConfirmed() bool {
	return u.ConfirmedAt != nil
}
