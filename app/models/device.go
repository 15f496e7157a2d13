package models

import "time"

// Device is a registered IoT relay unit. Activation happens through a
// short-lived token issued after serial validation; the token itself lives in
// the cache, not here.
type Device struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	UserID          uint       `gorm:"not null;index" json:"user_id"`
	Serial          string     `gorm:"type:varchar(64);not null;uniqueIndex" json:"serial"`
	Name            string     `gorm:"type:varchar(100);default:null" json:"name"`
	RelayPin        int        `gorm:"not null;default:0" json:"relay_pin"`
	IsValidated     bool       `gorm:"default:false" json:"is_validated"`
	LastActivatedAt *time.Time `gorm:"type:timestamp;default:null" json:"last_activated_at,omitempty"`
	CreatedAt       time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}
