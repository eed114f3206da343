package models

import (
	"time"

	"gorm.io/gorm"
)

type ExpiryStatus string

const (
	ExpiryStatusValid    ExpiryStatus = "valid"
	ExpiryStatusExpiring ExpiryStatus = "expiring"
	ExpiryStatusExpired  ExpiryStatus = "expired"
)

type DocumentType string

const (
	DocumentTypeCertification DocumentType = "certification"
	DocumentTypeLicense       DocumentType = "license"
	DocumentTypeInduction     DocumentType = "induction"
	DocumentTypeMedical       DocumentType = "medical"
	DocumentTypeOther         DocumentType = "other"
)

// Document is any credential with an optional expiry. The stored Status is
// only the value computed at creation time; every read path recomputes it
// from ExpiryDate so a stale row can never misreport a lapsed credential.
type Document struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Reference string       `gorm:"uniqueIndex;not null" json:"reference"`
	Name      string       `gorm:"not null" json:"name"`
	Type      DocumentType `gorm:"not null" json:"type"`

	WorkerID *uint   `json:"worker_id,omitempty"`
	Worker   *Worker `json:"worker,omitempty"`

	ExpiryDate *time.Time   `json:"expiry_date"`
	Status     ExpiryStatus `gorm:"not null;default:'valid'" json:"status"`

	FileName string `json:"file_name,omitempty"`
	FileSize int64  `json:"file_size,omitempty"`
}
