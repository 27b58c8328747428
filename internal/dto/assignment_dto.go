package dto

import (
	"time"

	"github.com/openacad/acadledger-api/internal/models"
	"github.com/openacad/acadledger-api/pkg/keyseal"
)

// AssignmentCreateRequest is the professor's creation payload; the task
// artifact arrives as a multipart file alongside it.
type AssignmentCreateRequest struct {
	ModuleID uint   `json:"module_id" validate:"required,min=1"`
	Title    string `json:"title" validate:"required,min=1,max=255"`
	Deadline string `json:"deadline" validate:"required"`
}

// AssignmentResponse is the ledger record joined with its display title.
type AssignmentResponse struct {
	ID              uint      `json:"id"`
	ModuleID        uint      `json:"module_id"`
	Title           string    `json:"title"`
	ArtifactPointer string    `json:"artifact_pointer"`
	ArtifactURL     string    `json:"artifact_url"`
	PublicKey       string    `json:"public_key"`
	Deadline        time.Time `json:"deadline"`
	CreatedAt       time.Time `json:"created_at"`
}

// AssignmentCreateResponse carries the new record plus the one-time key file.
// The key file exists only in this response; it is never persisted and the
// caller is solely responsible for retaining it.
type AssignmentCreateResponse struct {
	Assignment  AssignmentResponse `json:"assignment"`
	KeyFile     keyseal.KeyFile    `json:"key_file"`
	KeyFileName string             `json:"key_file_name"`
	TitleSaved  bool               `json:"title_saved"`
}

// NewAssignmentResponse maps a ledger record and its joined title.
func NewAssignmentResponse(assignment models.Assignment, title, artifactURL string) AssignmentResponse {
	return AssignmentResponse{
		ID:              assignment.ID,
		ModuleID:        assignment.ModuleID,
		Title:           title,
		ArtifactPointer: assignment.ArtifactPointer,
		ArtifactURL:     artifactURL,
		PublicKey:       assignment.PublicKey,
		Deadline:        assignment.Deadline,
		CreatedAt:       assignment.CreatedAt,
	}
}
