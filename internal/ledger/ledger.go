// Package ledger exposes the authoritative, append-only record of roles,
// module relations, assignments, submissions, grades, and materials. Every
// mutating call is a single atomic transaction; its acceptance is the only
// commit signal the rest of the service is allowed to trust.
package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/openacad/acadledger-api/internal/models"
)

// ErrNotFound indicates the queried record does not exist on the ledger.
var ErrNotFound = errors.New("ledger: record not found")

// ErrRejected indicates the ledger refused or failed the transaction. A
// rejected write must not be retried automatically: a retry of a write that
// actually landed would double-submit.
var ErrRejected = errors.New("ledger: transaction rejected")

// Ledger is the interface the workflow consumes. Implementations must make
// each mutation atomic and must never mutate state on a failed call.
type Ledger interface {
	RecordRole(ctx context.Context, principal string, role models.Role) error
	QueryRole(ctx context.Context, principal string) (models.Role, error)

	RecordModule(ctx context.Context) (uint, error)
	AssignProfessor(ctx context.Context, moduleID uint, professor string) error
	EnrollStudent(ctx context.Context, moduleID uint, student string) error
	ListModuleMembers(ctx context.Context, moduleID uint) ([]string, error)

	RecordAssignment(ctx context.Context, moduleID uint, pointer, publicKey string, deadline time.Time) (uint, error)
	GetAssignment(ctx context.Context, id uint) (models.Assignment, error)
	ListAssignments(ctx context.Context, moduleID uint) ([]models.Assignment, error)

	RecordSubmission(ctx context.Context, assignmentID uint, student, encryptedPointer string) error
	GetSubmission(ctx context.Context, assignmentID uint, student string) (models.Submission, error)

	RecordGrade(ctx context.Context, assignmentID uint, student string, value int, note string) error
	GetGrade(ctx context.Context, assignmentID uint, student string) (models.Grade, error)

	RecordMaterial(ctx context.Context, moduleID uint, title, cid string) (uint, error)
	ListMaterials(ctx context.Context, moduleID uint) ([]models.Material, error)
}
