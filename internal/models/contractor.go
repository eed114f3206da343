package models

import (
	"time"

	"gorm.io/gorm"
)

type Contractor struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Company     string `gorm:"not null" json:"company"`
	ContactName string `gorm:"not null" json:"contact_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`

	Certified       bool       `gorm:"not null;default:false" json:"certified"`
	InductionExpiry *time.Time `json:"induction_expiry"`
}
