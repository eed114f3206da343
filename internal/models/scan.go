package models

import (
	"time"

	"gorm.io/gorm"
)

type ScanOutcome string

const (
	ScanOutcomeSuccess  ScanOutcome = "success"
	ScanOutcomeError    ScanOutcome = "error"
	ScanOutcomeNotFound ScanOutcome = "not_found"
)

// ScanRecord is an append-only audit entry for a single identity-check
// attempt. Failed and unmatched scans are recorded too, so WorkerID stays
// nullable. No update or delete is ever exposed for these rows.
type ScanRecord struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Reference string `gorm:"uniqueIndex;not null" json:"reference"`

	WorkerID *uint   `json:"worker_id,omitempty"`
	Worker   *Worker `json:"worker,omitempty"`

	Outcome   ScanOutcome `gorm:"not null" json:"outcome"`
	Location  string      `json:"location,omitempty"`
	Timestamp time.Time   `gorm:"not null;index" json:"timestamp"`

	// Raw badge/QR payloads can carry personal identifiers, so the stored
	// form is AES-encrypted. Handlers only ever see the decrypted value.
	EncryptedPayload string `json:"-"`
	RawPayload       string `gorm:"-" json:"raw_payload,omitempty"`
}
