package service

import "errors"

// Workflow sentinels matched with errors.Is in the handlers.
var (
	// ErrAssignmentNotFound indicates the requested assignment does not
	// exist on the ledger.
	ErrAssignmentNotFound = errors.New("assignment not found")

	// ErrSubmissionNotFound indicates no submission was recorded for the
	// (assignment, student) pair.
	ErrSubmissionNotFound = errors.New("submission not found")

	// ErrGradeNotFound indicates no grade was recorded for the pair.
	ErrGradeNotFound = errors.New("grade not found")

	// ErrDeadlinePassed indicates a submit attempt at or after the
	// assignment deadline. The transition is permanently disabled for that
	// pair; the ledger state is untouched.
	ErrDeadlinePassed = errors.New("assignment deadline has passed")

	// ErrInvalidDeadline indicates a creation payload whose deadline is
	// malformed or not in the future.
	ErrInvalidDeadline = errors.New("deadline must be a future RFC3339 timestamp")

	// ErrDuplicateMaterial indicates the computed CID already exists in the
	// module's material set. Raised before any upload is attempted.
	ErrDuplicateMaterial = errors.New("material already exists in this module")

	// ErrGradeOutOfRange indicates the grade value is outside [0, max].
	ErrGradeOutOfRange = errors.New("grade value out of range")

	// ErrUploadFailed wraps artifact store failures.
	ErrUploadFailed = errors.New("artifact upload failed")
)
