package models

import (
	"time"

	"gorm.io/gorm"
)

type WorkerStatus string

const (
	WorkerStatusPending   WorkerStatus = "pending"
	WorkerStatusActive    WorkerStatus = "active"
	WorkerStatusInactive  WorkerStatus = "inactive"
	WorkerStatusSuspended WorkerStatus = "suspended"
)

type Worker struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	EmployeeID string       `gorm:"uniqueIndex;not null" json:"employee_id"`
	FirstName  string       `gorm:"not null" json:"first_name"`
	LastName   string       `gorm:"not null" json:"last_name"`
	Role       string       `json:"role"`
	Department string       `json:"department"`
	Status     WorkerStatus `gorm:"not null;default:'pending'" json:"status"`
	Email      string       `json:"email"`
	Phone      string       `json:"phone"`
	LastSeen   *time.Time   `json:"last_seen"`

	Documents []Document   `json:"documents,omitempty"`
	Skills    []Skill      `json:"skills,omitempty"`
	Scans     []ScanRecord `json:"scans,omitempty"`
}

func (w *Worker) FullName() string {
	return w.FirstName + " " + w.LastName
}

// MarkSeen records a successful identity check against the worker.
func (w *Worker) MarkSeen(t time.Time) {
	w.LastSeen = &t
}
