package models

import (
	"time"

	"gorm.io/gorm"
)

type TrainingPriority string

const (
	TrainingPriorityLow      TrainingPriority = "low"
	TrainingPriorityMedium   TrainingPriority = "medium"
	TrainingPriorityHigh     TrainingPriority = "high"
	TrainingPriorityCritical TrainingPriority = "critical"
)

type TrainingProgram struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name          string           `gorm:"not null" json:"name"`
	Category      string           `json:"category"`
	Priority      TrainingPriority `gorm:"not null;default:'medium'" json:"priority"`
	DurationHours int              `json:"duration_hours"`
	Active        bool             `gorm:"not null;default:true" json:"active"`

	Records []TrainingRecord `gorm:"foreignKey:ProgramID" json:"records,omitempty"`
}

// TrainingRecord is a worker's completion of a program. Completions can
// lapse, so the record carries an expiry handled by the same status
// resolver as documents.
type TrainingRecord struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	WorkerID uint    `gorm:"not null;index" json:"worker_id"`
	Worker   *Worker `json:"worker,omitempty"`

	ProgramID uint             `gorm:"not null;index" json:"program_id"`
	Program   *TrainingProgram `json:"program,omitempty"`

	CompletedAt time.Time    `gorm:"not null" json:"completed_at"`
	ExpiryDate  *time.Time   `json:"expiry_date"`
	Status      ExpiryStatus `gorm:"not null;default:'valid'" json:"status"`
}
