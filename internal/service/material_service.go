package service

import (
	"context"
	"fmt"
	"mime/multipart"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/openacad/acadledger-api/internal/dto"
	"github.com/openacad/acadledger-api/internal/ledger"
	"github.com/openacad/acadledger-api/internal/observability"
	"github.com/openacad/acadledger-api/pkg/cas"
)

// MaterialService publishes course materials with CID-level deduplication:
// the identifier is computed locally and checked against the module's
// material set before any upload is attempted.
type MaterialService interface {
	Add(ctx context.Context, payload dto.MaterialCreateRequest, file *multipart.FileHeader) (dto.MaterialResponse, error)
	List(ctx context.Context, moduleID uint) ([]dto.MaterialResponse, error)
}

type materialService struct {
	ledger    ledger.Ledger
	store     ArtifactStore
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewMaterialService builds the material workflow service.
func NewMaterialService(ldg ledger.Ledger, store ArtifactStore, validate *validator.Validate, logger zerolog.Logger) MaterialService {
	return &materialService{
		ledger:    ldg,
		store:     store,
		validator: validate,
		logger:    logger.With().Str("component", "material_service").Logger(),
	}
}

func (s *materialService) Add(ctx context.Context, payload dto.MaterialCreateRequest, file *multipart.FileHeader) (dto.MaterialResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.MaterialResponse{}, err
	}

	if file == nil {
		return dto.MaterialResponse{}, fmt.Errorf("%w: material artifact is required", ErrUploadFailed)
	}

	src, err := file.Open()
	if err != nil {
		return dto.MaterialResponse{}, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	defer src.Close()

	cid, err := cas.ComputeCID(src)
	if err != nil {
		return dto.MaterialResponse{}, fmt.Errorf("failed to compute content id: %w", err)
	}

	existing, err := s.ledger.ListMaterials(ctx, payload.ModuleID)
	if err != nil {
		return dto.MaterialResponse{}, err
	}
	for _, material := range existing {
		if material.CID == cid {
			return dto.MaterialResponse{}, ErrDuplicateMaterial
		}
	}

	// The upload only happens once the CID is known to be new to the module.
	reopened, err := file.Open()
	if err != nil {
		return dto.MaterialResponse{}, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	defer reopened.Close()

	pinned, err := s.store.Pin(ctx, file.Filename, reopened)
	if err != nil {
		return dto.MaterialResponse{}, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	if pinned != cid {
		s.logger.Warn().Str("local_cid", cid).Str("pinned_cid", pinned).Msg("pinned CID differs from local computation")
	}

	observability.ArtifactUploads().Inc()

	materialID, err := s.ledger.RecordMaterial(ctx, payload.ModuleID, payload.Title, cid)
	if err != nil {
		return dto.MaterialResponse{}, err
	}

	s.logger.Info().Uint("material_id", materialID).Uint("module_id", payload.ModuleID).Msg("material recorded")

	materials, err := s.ledger.ListMaterials(ctx, payload.ModuleID)
	if err != nil {
		return dto.MaterialResponse{}, err
	}
	for _, material := range materials {
		if material.ID == materialID {
			return dto.NewMaterialResponse(material, s.store.GatewayURL(material.CID)), nil
		}
	}

	return dto.MaterialResponse{}, fmt.Errorf("recorded material %d not found on re-read", materialID)
}

func (s *materialService) List(ctx context.Context, moduleID uint) ([]dto.MaterialResponse, error) {
	materials, err := s.ledger.ListMaterials(ctx, moduleID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.MaterialResponse, 0, len(materials))
	for _, material := range materials {
		responses = append(responses, dto.NewMaterialResponse(material, s.store.GatewayURL(material.CID)))
	}

	return responses, nil
}
