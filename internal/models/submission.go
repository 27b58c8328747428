package models

import "time"

// Submission is the ledger record of a student's response to an assignment.
// There is at most one row per (assignment, student); a resubmission before
// the deadline overwrites EncryptedPointer and leaves Graded untouched. The
// pointer is only ever ciphertext produced under the assignment's public key.
type Submission struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	AssignmentID     uint      `gorm:"not null;uniqueIndex:idx_assignment_student" json:"assignment_id"`
	Student          string    `gorm:"size:128;not null;uniqueIndex:idx_assignment_student" json:"student"`
	EncryptedPointer string    `gorm:"type:text;not null" json:"encrypted_pointer"`
	Graded           bool      `gorm:"not null;default:false" json:"graded"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
