package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

type EquipmentStatus string

const (
	EquipmentStatusAvailable   EquipmentStatus = "available"
	EquipmentStatusInUse       EquipmentStatus = "in_use"
	EquipmentStatusMaintenance EquipmentStatus = "maintenance"
	EquipmentStatusRetired     EquipmentStatus = "retired"
)

type Equipment struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	AssetCode string          `gorm:"uniqueIndex;not null" json:"asset_code"`
	Name      string          `gorm:"not null" json:"name"`
	Category  string          `json:"category"`
	Status    EquipmentStatus `gorm:"not null;default:'available'" json:"status"`
	Site      string          `json:"site"`

	Sessions []UsageSession `json:"sessions,omitempty"`
}

type OperatorType string

const (
	OperatorTypeWorker     OperatorType = "worker"
	OperatorTypeContractor OperatorType = "contractor"
)

var ErrAmbiguousOperator = errors.New("session needs exactly one of worker or contractor as operator")

// UsageSession tracks one stretch of equipment use. EndTime nil means the
// session is still active and the equipment is held in_use.
type UsageSession struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	EquipmentID uint      `gorm:"not null" json:"equipment_id"`
	Equipment   Equipment `json:"equipment,omitempty"`

	OperatorType OperatorType `gorm:"not null" json:"operator_type"`
	WorkerID     *uint        `json:"worker_id,omitempty"`
	Worker       *Worker      `json:"worker,omitempty"`
	ContractorID *uint        `json:"contractor_id,omitempty"`
	Contractor   *Contractor  `json:"contractor,omitempty"`

	StartTime time.Time  `gorm:"not null" json:"start_time"`
	EndTime   *time.Time `json:"end_time"`

	StartHours float64 `json:"start_hours"`
	EndHours   float64 `json:"end_hours"`
	FuelUsed   float64 `json:"fuel_used"`
}

func (s *UsageSession) IsActive() bool {
	return s.EndTime == nil
}

// Validate enforces the worker-xor-contractor operator rule.
func (s *UsageSession) Validate() error {
	if (s.WorkerID == nil) == (s.ContractorID == nil) {
		return ErrAmbiguousOperator
	}
	return nil
}
