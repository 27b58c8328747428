package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/openacad/acadledger-api/internal/dto"
	"github.com/openacad/acadledger-api/internal/events"
	"github.com/openacad/acadledger-api/internal/ledger"
	"github.com/openacad/acadledger-api/internal/metadata"
	"github.com/openacad/acadledger-api/internal/observability"
	"github.com/openacad/acadledger-api/pkg/keyseal"
)

// AssignmentService covers the professor side of the workflow: publishing an
// assignment with a freshly minted key pair and reading the module's
// assignment list.
type AssignmentService interface {
	Create(ctx context.Context, payload dto.AssignmentCreateRequest, file *multipart.FileHeader) (dto.AssignmentCreateResponse, error)
	List(ctx context.Context, moduleID uint) ([]dto.AssignmentResponse, error)
	Get(ctx context.Context, id uint) (dto.AssignmentResponse, error)
}

type assignmentService struct {
	ledger    ledger.Ledger
	metadata  *metadata.Store
	store     ArtifactStore
	events    *events.Publisher
	validator *validator.Validate
	logger    zerolog.Logger
	tracer    trace.Tracer
	now       func() time.Time
}

// NewAssignmentService builds the assignment workflow service.
func NewAssignmentService(ldg ledger.Ledger, meta *metadata.Store, store ArtifactStore, publisher *events.Publisher, validate *validator.Validate, logger zerolog.Logger) AssignmentService {
	return &assignmentService{
		ledger:    ldg,
		metadata:  meta,
		store:     store,
		events:    publisher,
		validator: validate,
		logger:    logger.With().Str("component", "assignment_service").Logger(),
		tracer:    otel.Tracer("github.com/openacad/acadledger-api/internal/service/assignment"),
		now:       time.Now,
	}
}

// Create runs the creation sequence: mint key pair, pin the task artifact,
// record the assignment on the ledger, then best-effort store the title. The
// private key is packaged into the response only after the ledger commit and
// is never retained.
func (s *assignmentService) Create(ctx context.Context, payload dto.AssignmentCreateRequest, file *multipart.FileHeader) (dto.AssignmentCreateResponse, error) {
	ctx, span := s.tracer.Start(ctx, "assignment.create", trace.WithAttributes(
		attribute.Int("module_id", int(payload.ModuleID)),
	))
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		return dto.AssignmentCreateResponse{}, err
	}

	deadline, err := time.Parse(time.RFC3339, payload.Deadline)
	if err != nil {
		return dto.AssignmentCreateResponse{}, fmt.Errorf("%w: %v", ErrInvalidDeadline, err)
	}
	if !deadline.After(s.now()) {
		return dto.AssignmentCreateResponse{}, ErrInvalidDeadline
	}

	pair, err := keyseal.GenerateKeyPair()
	if err != nil {
		return dto.AssignmentCreateResponse{}, err
	}

	pointer, err := s.pinFile(ctx, file)
	if err != nil {
		return dto.AssignmentCreateResponse{}, err
	}

	assignmentID, err := s.ledger.RecordAssignment(ctx, payload.ModuleID, pointer, pair.PublicKey, deadline)
	if err != nil {
		return dto.AssignmentCreateResponse{}, err
	}

	createdAt := s.now().UTC()

	// Ledger state is committed; the title write is cosmetic and must not
	// undo or block it.
	titleSaved := true
	err = s.metadata.PutAssignment(ctx, metadata.AssignmentMeta{
		AssignmentID: assignmentID,
		ModuleID:     payload.ModuleID,
		Title:        payload.Title,
		CreatedAt:    createdAt,
	})
	if err != nil {
		titleSaved = false
		s.logger.Warn().Err(err).Uint("assignment_id", assignmentID).Msg("assignment committed but title write failed")
	}

	s.events.Publish(ctx, events.Event{
		Subject:      events.SubjectAssignmentCreated,
		AssignmentID: assignmentID,
		ModuleID:     payload.ModuleID,
	})

	assignment, err := s.ledger.GetAssignment(ctx, assignmentID)
	if err != nil {
		return dto.AssignmentCreateResponse{}, err
	}

	keyFile := keyseal.KeyFile{
		AssignmentID: assignmentID,
		ModuleID:     payload.ModuleID,
		Title:        payload.Title,
		CreatedAt:    createdAt,
		PrivateKey:   pair.PrivateKey,
	}

	s.logger.Info().Uint("assignment_id", assignmentID).Uint("module_id", payload.ModuleID).Msg("assignment created")

	return dto.AssignmentCreateResponse{
		Assignment:  dto.NewAssignmentResponse(assignment, payload.Title, s.store.GatewayURL(pointer)),
		KeyFile:     keyFile,
		KeyFileName: keyFile.Filename(),
		TitleSaved:  titleSaved,
	}, nil
}

func (s *assignmentService) List(ctx context.Context, moduleID uint) ([]dto.AssignmentResponse, error) {
	assignments, err := s.ledger.ListAssignments(ctx, moduleID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.AssignmentResponse, 0, len(assignments))
	for _, assignment := range assignments {
		title := s.metadata.GetAssignmentTitle(ctx, assignment.ID)
		responses = append(responses, dto.NewAssignmentResponse(assignment, title, s.store.GatewayURL(assignment.ArtifactPointer)))
	}

	return responses, nil
}

func (s *assignmentService) Get(ctx context.Context, id uint) (dto.AssignmentResponse, error) {
	assignment, err := s.ledger.GetAssignment(ctx, id)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			return dto.AssignmentResponse{}, ErrAssignmentNotFound
		}
		return dto.AssignmentResponse{}, err
	}

	title := s.metadata.GetAssignmentTitle(ctx, id)

	return dto.NewAssignmentResponse(assignment, title, s.store.GatewayURL(assignment.ArtifactPointer)), nil
}

func (s *assignmentService) pinFile(ctx context.Context, file *multipart.FileHeader) (string, error) {
	if file == nil {
		return "", fmt.Errorf("%w: task artifact is required", ErrUploadFailed)
	}

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	defer src.Close()

	cid, err := s.store.Pin(ctx, file.Filename, src)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	observability.ArtifactUploads().Inc()

	return cid, nil
}
