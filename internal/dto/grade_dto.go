package dto

import "time"

// GradeRequest records or overwrites a grade for one (assignment, student)
// pair. Bounds are enforced against the configured maximum at service level.
type GradeRequest struct {
	Student string `json:"student" validate:"required"`
	Value   int    `json:"value" validate:"min=0"`
	Note    string `json:"note" validate:"max=2000"`
}

// GradeResponse is the recorded grading decision.
type GradeResponse struct {
	AssignmentID uint      `json:"assignment_id"`
	Student      string    `json:"student"`
	Value        int       `json:"value"`
	Note         string    `json:"note"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// DecryptRequest carries the pasted private key for an on-demand pointer
// decryption. The key is used for the single call and discarded.
type DecryptRequest struct {
	Student    string `json:"student" validate:"required"`
	PrivateKey string `json:"private_key" validate:"required"`
}

// DecryptResponse returns the recovered pointer and its retrieval URL.
type DecryptResponse struct {
	AssignmentID uint   `json:"assignment_id"`
	Student      string `json:"student"`
	CID          string `json:"cid"`
	ArtifactURL  string `json:"artifact_url"`
}
