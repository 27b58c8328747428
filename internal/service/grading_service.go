package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
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

// DefaultGradeMax is the grading scale used when none is configured.
const DefaultGradeMax = 20

// GradingService covers the key holder's side: listing a module's
// submissions, decrypting a pointer on demand with a pasted private key, and
// recording or overwriting grades. Decryption and grading are independent
// steps; a grade targets the pair, not the decrypted content.
type GradingService interface {
	ListSubmissions(ctx context.Context, assignmentID uint) ([]dto.SubmissionResponse, error)
	Decrypt(ctx context.Context, assignmentID uint, payload dto.DecryptRequest) (dto.DecryptResponse, error)
	Grade(ctx context.Context, assignmentID uint, payload dto.GradeRequest) (dto.GradeResponse, error)
}

type gradingService struct {
	ledger    ledger.Ledger
	metadata  *metadata.Store
	store     ArtifactStore
	events    *events.Publisher
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	gradeMax  int
	logger    zerolog.Logger
	tracer    trace.Tracer
}

// NewGradingService builds the grading workflow service. gradeMax bounds the
// accepted grade values; zero or negative falls back to DefaultGradeMax.
func NewGradingService(ldg ledger.Ledger, meta *metadata.Store, store ArtifactStore, publisher *events.Publisher, validate *validator.Validate, gradeMax int, logger zerolog.Logger) GradingService {
	if gradeMax <= 0 {
		gradeMax = DefaultGradeMax
	}

	return &gradingService{
		ledger:    ldg,
		metadata:  meta,
		store:     store,
		events:    publisher,
		validator: validate,
		sanitizer: bluemonday.StrictPolicy(),
		gradeMax:  gradeMax,
		logger:    logger.With().Str("component", "grading_service").Logger(),
		tracer:    otel.Tracer("github.com/openacad/acadledger-api/internal/service/grading"),
	}
}

// ListSubmissions walks the module roster and re-reads each member's
// submission and grade from the ledger, joining display names from the
// metadata store. Pointers stay encrypted.
func (s *gradingService) ListSubmissions(ctx context.Context, assignmentID uint) ([]dto.SubmissionResponse, error) {
	assignment, err := s.ledger.GetAssignment(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			return nil, ErrAssignmentNotFound
		}
		return nil, err
	}

	members, err := s.ledger.ListModuleMembers(ctx, assignment.ModuleID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.SubmissionResponse, 0, len(members))
	for _, student := range members {
		submission, err := s.ledger.GetSubmission(ctx, assignmentID, student)
		if errors.Is(err, ledger.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}

		responses = append(responses, dto.SubmissionResponse{
			AssignmentID:     submission.AssignmentID,
			Student:          submission.Student,
			StudentName:      s.metadata.GetPrincipalName(ctx, submission.Student),
			EncryptedPointer: submission.EncryptedPointer,
			Graded:           submission.Graded,
			SubmittedAt:      submission.UpdatedAt,
		})
	}

	return responses, nil
}

// Decrypt opens one submission's pointer with the pasted private key. It is
// read-only: neither success nor failure mutates the ledger, and the key is
// discarded with the call.
func (s *gradingService) Decrypt(ctx context.Context, assignmentID uint, payload dto.DecryptRequest) (dto.DecryptResponse, error) {
	ctx, span := s.tracer.Start(ctx, "grading.decrypt", trace.WithAttributes(
		attribute.Int("assignment_id", int(assignmentID)),
	))
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		return dto.DecryptResponse{}, err
	}

	submission, err := s.ledger.GetSubmission(ctx, assignmentID, payload.Student)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			return dto.DecryptResponse{}, ErrSubmissionNotFound
		}
		return dto.DecryptResponse{}, err
	}

	cid, err := keyseal.Decrypt(submission.EncryptedPointer, payload.PrivateKey)
	if err != nil {
		observability.DecryptFailures().Inc()
		return dto.DecryptResponse{}, err
	}

	return dto.DecryptResponse{
		AssignmentID: assignmentID,
		Student:      payload.Student,
		CID:          cid,
		ArtifactURL:  s.store.GatewayURL(cid),
	}, nil
}

// Grade records or overwrites the grade for one pair. The same write path
// serves first grading and re-grading; the previous value is unrecoverable.
func (s *gradingService) Grade(ctx context.Context, assignmentID uint, payload dto.GradeRequest) (dto.GradeResponse, error) {
	ctx, span := s.tracer.Start(ctx, "grading.grade", trace.WithAttributes(
		attribute.Int("assignment_id", int(assignmentID)),
	))
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		return dto.GradeResponse{}, err
	}

	if payload.Value < 0 || payload.Value > s.gradeMax {
		return dto.GradeResponse{}, ErrGradeOutOfRange
	}

	assignment, err := s.ledger.GetAssignment(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			return dto.GradeResponse{}, ErrAssignmentNotFound
		}
		return dto.GradeResponse{}, err
	}

	note := s.sanitizer.Sanitize(payload.Note)

	if err := s.ledger.RecordGrade(ctx, assignmentID, payload.Student, payload.Value, note); err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			return dto.GradeResponse{}, ErrSubmissionNotFound
		}
		return dto.GradeResponse{}, err
	}

	s.events.Publish(ctx, events.Event{
		Subject:      events.SubjectGradeRecorded,
		AssignmentID: assignmentID,
		ModuleID:     assignment.ModuleID,
		Student:      payload.Student,
	})

	grade, err := s.ledger.GetGrade(ctx, assignmentID, payload.Student)
	if err != nil {
		return dto.GradeResponse{}, err
	}

	s.logger.Info().Uint("assignment_id", assignmentID).Str("student", payload.Student).Msg("grade recorded")

	return dto.GradeResponse{
		AssignmentID: assignmentID,
		Student:      grade.Student,
		Value:        grade.Value,
		Note:         grade.Note,
		UpdatedAt:    grade.UpdatedAt,
	}, nil
}
