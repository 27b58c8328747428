package models

import "time"

// Material is the ledger record of a course material published to a module.
// Materials are deduplicated by CID within a module before any upload.
type Material struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ModuleID  uint      `gorm:"not null;index" json:"module_id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	CID       string    `gorm:"size:128;not null;index" json:"cid"`
	CreatedAt time.Time `json:"created_at"`
}
