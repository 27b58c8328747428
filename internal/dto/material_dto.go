package dto

import (
	"time"

	"github.com/openacad/acadledger-api/internal/models"
)

// MaterialCreateRequest publishes a course material; the file arrives as a
// multipart part next to it.
type MaterialCreateRequest struct {
	ModuleID uint   `json:"module_id" validate:"required,min=1"`
	Title    string `json:"title" validate:"required,min=1,max=255"`
}

// MaterialResponse is the ledger material record with its retrieval URL.
type MaterialResponse struct {
	ID        uint      `json:"id"`
	ModuleID  uint      `json:"module_id"`
	Title     string    `json:"title"`
	CID       string    `json:"cid"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
}

// NewMaterialResponse maps a ledger material record.
func NewMaterialResponse(material models.Material, url string) MaterialResponse {
	return MaterialResponse{
		ID:        material.ID,
		ModuleID:  material.ModuleID,
		Title:     material.Title,
		CID:       material.CID,
		URL:       url,
		CreatedAt: material.CreatedAt,
	}
}
