package models

import "time"

// Grade is the ledger record of a grading decision for one (assignment,
// student) pair. Re-grading overwrites Value and Note in place; no history
// rows are kept.
type Grade struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	AssignmentID uint      `gorm:"not null;uniqueIndex:idx_grade_assignment_student" json:"assignment_id"`
	Student      string    `gorm:"size:128;not null;uniqueIndex:idx_grade_assignment_student" json:"student"`
	Value        int       `gorm:"not null" json:"value"`
	Note         string    `gorm:"type:text" json:"note"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
