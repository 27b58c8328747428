package models

import "time"

// Assignment is the ledger record of a published assignment. It is written
// once at creation and never updated or deleted; the artifact pointer is a
// plain CID while the public key is the base64 SPKI export minted for this
// assignment only.
type Assignment struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	ModuleID        uint      `gorm:"not null;index" json:"module_id"`
	ArtifactPointer string    `gorm:"size:128;not null" json:"artifact_pointer"`
	PublicKey       string    `gorm:"type:text;not null" json:"public_key"`
	Deadline        time.Time `gorm:"not null" json:"deadline"`
	CreatedAt       time.Time `json:"created_at"`
}

// IsPastDue returns true when the submission window has closed.
func (a Assignment) IsPastDue(reference time.Time) bool {
	return !reference.Before(a.Deadline)
}
