package models

import (
	"time"

	"gorm.io/datatypes"
)

// Ledger event kinds appended to the journal alongside every mutation.
const (
	EventRoleRecorded       = "role.recorded"
	EventModuleRecorded     = "module.recorded"
	EventProfessorAssigned  = "module.professor_assigned"
	EventStudentEnrolled    = "module.student_enrolled"
	EventAssignmentRecorded = "assignment.recorded"
	EventSubmissionRecorded = "submission.recorded"
	EventGradeRecorded      = "grade.recorded"
	EventMaterialRecorded   = "material.recorded"
)

// LedgerEvent is one entry in the append-only journal. Rows are only ever
// inserted, in the same transaction as the mutation they describe, so the
// sequence is a faithful replay log of ledger state.
type LedgerEvent struct {
	Seq       uint           `gorm:"primaryKey;autoIncrement" json:"seq"`
	Kind      string         `gorm:"size:64;not null;index" json:"kind"`
	Payload   datatypes.JSON `gorm:"type:jsonb" json:"payload"`
	CreatedAt time.Time      `json:"created_at"`
}
