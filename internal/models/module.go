package models

import "time"

// Module is the ledger record of a teaching module. The professor relation
// and the enrollment rows are authoritative; the module name lives in the
// metadata store.
type Module struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Professor string    `gorm:"size:128;index" json:"professor"`
	CreatedAt time.Time `json:"created_at"`
}

// Enrollment records a student principal's membership in a module.
type Enrollment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ModuleID  uint      `gorm:"not null;uniqueIndex:idx_module_student" json:"module_id"`
	Student   string    `gorm:"size:128;not null;uniqueIndex:idx_module_student" json:"student"`
	CreatedAt time.Time `json:"created_at"`
}
