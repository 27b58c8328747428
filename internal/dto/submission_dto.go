package dto

import "time"

// SubmissionResponse describes one recorded submission. The pointer stays
// encrypted in every read path; only an explicit decrypt call with the
// assignment's private key ever turns it back into a CID.
type SubmissionResponse struct {
	AssignmentID     uint      `json:"assignment_id"`
	Student          string    `json:"student"`
	StudentName      string    `json:"student_name,omitempty"`
	EncryptedPointer string    `json:"encrypted_pointer"`
	Graded           bool      `json:"graded"`
	SubmittedAt      time.Time `json:"submitted_at"`
}

// SubmissionStatusResponse is the student-facing join of submission and grade
// state for one assignment, re-read from the ledger on every call.
type SubmissionStatusResponse struct {
	AssignmentID uint           `json:"assignment_id"`
	Submitted    bool           `json:"submitted"`
	Graded       bool           `json:"graded"`
	Grade        *GradeResponse `json:"grade,omitempty"`
}
