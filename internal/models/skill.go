package models

import (
	"time"

	"gorm.io/gorm"
)

type SkillLevel string

const (
	SkillLevelBasic        SkillLevel = "basic"
	SkillLevelIntermediate SkillLevel = "intermediate"
	SkillLevelAdvanced     SkillLevel = "advanced"
)

type Skill struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	WorkerID uint    `gorm:"not null;index" json:"worker_id"`
	Worker   *Worker `json:"worker,omitempty"`

	Name        string     `gorm:"not null" json:"name"`
	Level       SkillLevel `gorm:"not null;default:'basic'" json:"level"`
	CertifiedAt time.Time  `json:"certified_at"`

	ExpiryDate *time.Time   `json:"expiry_date"`
	Status     ExpiryStatus `gorm:"not null;default:'valid'" json:"status"`
}
