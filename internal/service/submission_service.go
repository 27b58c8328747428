package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/openacad/acadledger-api/internal/dto"
	"github.com/openacad/acadledger-api/internal/events"
	"github.com/openacad/acadledger-api/internal/ledger"
	"github.com/openacad/acadledger-api/internal/observability"
	"github.com/openacad/acadledger-api/pkg/keyseal"
)

// SubmissionService covers the student side: submitting a response artifact
// whose pointer is sealed under the assignment's public key, and re-reading
// submission status from the ledger.
type SubmissionService interface {
	Submit(ctx context.Context, assignmentID uint, student string, file *multipart.FileHeader) (dto.SubmissionResponse, error)
	Status(ctx context.Context, assignmentID uint, student string) (dto.SubmissionStatusResponse, error)
}

type submissionService struct {
	ledger ledger.Ledger
	store  ArtifactStore
	events *events.Publisher
	logger zerolog.Logger
	tracer trace.Tracer
	now    func() time.Time
}

// NewSubmissionService builds the submission workflow service.
func NewSubmissionService(ldg ledger.Ledger, store ArtifactStore, publisher *events.Publisher, logger zerolog.Logger) SubmissionService {
	return &submissionService{
		ledger: ldg,
		store:  store,
		events: publisher,
		logger: logger.With().Str("component", "submission_service").Logger(),
		tracer: otel.Tracer("github.com/openacad/acadledger-api/internal/service/submission"),
		now:    time.Now,
	}
}

// Submit runs the NotSubmitted/Submitted -> Submitted transition. The
// deadline gate comes first, before any upload cost; once now >= deadline the
// transition is permanently disabled for the pair. Resubmission before the
// deadline overwrites the pointer and yields a fresh ciphertext each time.
func (s *submissionService) Submit(ctx context.Context, assignmentID uint, student string, file *multipart.FileHeader) (dto.SubmissionResponse, error) {
	ctx, span := s.tracer.Start(ctx, "submission.submit", trace.WithAttributes(
		attribute.Int64("assignment.id", int64(assignmentID)),
	))
	defer span.End()

	assignment, err := s.ledger.GetAssignment(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			return dto.SubmissionResponse{}, ErrAssignmentNotFound
		}
		return dto.SubmissionResponse{}, err
	}

	if assignment.IsPastDue(s.now()) {
		return dto.SubmissionResponse{}, ErrDeadlinePassed
	}

	if file == nil {
		return dto.SubmissionResponse{}, fmt.Errorf("%w: response artifact is required", ErrUploadFailed)
	}

	src, err := file.Open()
	if err != nil {
		return dto.SubmissionResponse{}, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	defer src.Close()

	cid, err := s.store.Pin(ctx, file.Filename, src)
	if err != nil {
		return dto.SubmissionResponse{}, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	observability.ArtifactUploads().Inc()

	encryptedPointer, err := keyseal.Encrypt(cid, assignment.PublicKey)
	if err != nil {
		return dto.SubmissionResponse{}, fmt.Errorf("failed to seal pointer: %w", err)
	}

	if err := s.ledger.RecordSubmission(ctx, assignmentID, student, encryptedPointer); err != nil {
		return dto.SubmissionResponse{}, err
	}

	observability.SubmissionsRecorded().Inc()

	s.events.Publish(ctx, events.Event{
		Subject:      events.SubjectSubmissionRecorded,
		AssignmentID: assignmentID,
		ModuleID:     assignment.ModuleID,
		Student:      student,
	})

	submission, err := s.ledger.GetSubmission(ctx, assignmentID, student)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}

	s.logger.Info().Uint("assignment_id", assignmentID).Str("student", student).Msg("submission recorded")

	return dto.SubmissionResponse{
		AssignmentID:     submission.AssignmentID,
		Student:          submission.Student,
		EncryptedPointer: submission.EncryptedPointer,
		Graded:           submission.Graded,
		SubmittedAt:      submission.UpdatedAt,
	}, nil
}

// Status re-queries the ledger on every call; submission and grade state are
// never served from a local copy.
func (s *submissionService) Status(ctx context.Context, assignmentID uint, student string) (dto.SubmissionStatusResponse, error) {
	if _, err := s.ledger.GetAssignment(ctx, assignmentID); err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			return dto.SubmissionStatusResponse{}, ErrAssignmentNotFound
		}
		return dto.SubmissionStatusResponse{}, err
	}

	status := dto.SubmissionStatusResponse{AssignmentID: assignmentID}

	submission, err := s.ledger.GetSubmission(ctx, assignmentID, student)
	switch {
	case errors.Is(err, ledger.ErrNotFound):
		return status, nil
	case err != nil:
		return dto.SubmissionStatusResponse{}, err
	}

	status.Submitted = true
	status.Graded = submission.Graded

	if submission.Graded {
		grade, err := s.ledger.GetGrade(ctx, assignmentID, student)
		if err != nil {
			return dto.SubmissionStatusResponse{}, err
		}
		status.Grade = &dto.GradeResponse{
			AssignmentID: assignmentID,
			Student:      student,
			Value:        grade.Value,
			Note:         grade.Note,
			UpdatedAt:    grade.UpdatedAt,
		}
	}

	return status, nil
}
