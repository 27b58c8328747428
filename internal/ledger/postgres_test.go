package ledger

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/openacad/acadledger-api/internal/models"
)

func setupStore(t *testing.T) *Store {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	store := NewStore(db, zerolog.New(io.Discard))
	require.NoError(t, store.Migrate())

	return store
}

func seedModule(t *testing.T, store *Store) uint {
	t.Helper()

	moduleID, err := store.RecordModule(context.Background())
	require.NoError(t, err)

	return moduleID
}

func TestRecordAndQueryRole(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	require.NoError(t, store.RecordRole(ctx, "0xprof", models.RoleProfessor))

	role, err := store.QueryRole(ctx, "0xprof")
	require.NoError(t, err)
	require.Equal(t, models.RoleProfessor, role)

	role, err = store.QueryRole(ctx, "0xunknown")
	require.NoError(t, err)
	require.Equal(t, models.RoleNone, role)

	err = store.RecordRole(ctx, "0xprof", models.Role("janitor"))
	require.ErrorIs(t, err, ErrRejected)
}

func TestRecordAssignmentAndList(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	moduleID := seedModule(t, store)

	deadline := time.Now().Add(time.Hour).Truncate(time.Second)
	id, err := store.RecordAssignment(ctx, moduleID, "QmPointer", "cHVibGlj", deadline)
	require.NoError(t, err)
	require.NotZero(t, id)

	assignment, err := store.GetAssignment(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "QmPointer", assignment.ArtifactPointer)
	require.Equal(t, "cHVibGlj", assignment.PublicKey)

	assignments, err := store.ListAssignments(ctx, moduleID)
	require.NoError(t, err)
	require.Len(t, assignments, 1)

	_, err = store.GetAssignment(ctx, 999)
	require.ErrorIs(t, err, ErrNotFound)

	_, err = store.RecordAssignment(ctx, 999, "QmPointer", "cHVibGlj", deadline)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRecordSubmissionUpsertsPointerOnly(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	moduleID := seedModule(t, store)

	id, err := store.RecordAssignment(ctx, moduleID, "QmPointer", "cHVibGlj", time.Now().Add(time.Hour))
	require.NoError(t, err)

	require.NoError(t, store.RecordSubmission(ctx, id, "0xstudent", "cipher-1"))

	submission, err := store.GetSubmission(ctx, id, "0xstudent")
	require.NoError(t, err)
	require.Equal(t, "cipher-1", submission.EncryptedPointer)
	require.False(t, submission.Graded)

	// grade, then resubmit: the graded flag must survive
	require.NoError(t, store.RecordGrade(ctx, id, "0xstudent", 12, "solid"))
	require.NoError(t, store.RecordSubmission(ctx, id, "0xstudent", "cipher-2"))

	submission, err = store.GetSubmission(ctx, id, "0xstudent")
	require.NoError(t, err)
	require.Equal(t, "cipher-2", submission.EncryptedPointer)
	require.True(t, submission.Graded)

	grade, err := store.GetGrade(ctx, id, "0xstudent")
	require.NoError(t, err)
	require.Equal(t, 12, grade.Value)
}

func TestRecordGradeRequiresSubmission(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	moduleID := seedModule(t, store)

	id, err := store.RecordAssignment(ctx, moduleID, "QmPointer", "cHVibGlj", time.Now().Add(time.Hour))
	require.NoError(t, err)

	err = store.RecordGrade(ctx, id, "0xghost", 10, "")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = store.GetGrade(ctx, id, "0xghost")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRecordGradeFlipsFlagAtomically(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	moduleID := seedModule(t, store)

	id, err := store.RecordAssignment(ctx, moduleID, "QmPointer", "cHVibGlj", time.Now().Add(time.Hour))
	require.NoError(t, err)
	require.NoError(t, store.RecordSubmission(ctx, id, "0xstudent", "cipher"))

	require.NoError(t, store.RecordGrade(ctx, id, "0xstudent", 15, "good"))

	submission, err := store.GetSubmission(ctx, id, "0xstudent")
	require.NoError(t, err)
	require.True(t, submission.Graded)

	grade, err := store.GetGrade(ctx, id, "0xstudent")
	require.NoError(t, err)
	require.Equal(t, 15, grade.Value)
	require.Equal(t, "good", grade.Note)

	// re-grade overwrites in place, no history
	require.NoError(t, store.RecordGrade(ctx, id, "0xstudent", 17, "better"))
	grade, err = store.GetGrade(ctx, id, "0xstudent")
	require.NoError(t, err)
	require.Equal(t, 17, grade.Value)
	require.Equal(t, "better", grade.Note)
}

func TestEnrollmentAndMembers(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	moduleID := seedModule(t, store)

	require.NoError(t, store.AssignProfessor(ctx, moduleID, "0xprof"))
	require.NoError(t, store.EnrollStudent(ctx, moduleID, "0xalice"))
	require.NoError(t, store.EnrollStudent(ctx, moduleID, "0xbob"))
	require.NoError(t, store.EnrollStudent(ctx, moduleID, "0xalice"), "enrollment is idempotent")

	members, err := store.ListModuleMembers(ctx, moduleID)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"0xalice", "0xbob"}, members)

	require.ErrorIs(t, store.EnrollStudent(ctx, 999, "0xalice"), ErrNotFound)
}

func TestMaterialsAppendOnly(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	moduleID := seedModule(t, store)

	id, err := store.RecordMaterial(ctx, moduleID, "Week 1 slides", "QmSlides")
	require.NoError(t, err)
	require.NotZero(t, id)

	materials, err := store.ListMaterials(ctx, moduleID)
	require.NoError(t, err)
	require.Len(t, materials, 1)
	require.Equal(t, "QmSlides", materials[0].CID)
}

func TestEveryMutationAppendsJournalRow(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	moduleID := seedModule(t, store)

	require.NoError(t, store.RecordRole(ctx, "0xprof", models.RoleProfessor))
	id, err := store.RecordAssignment(ctx, moduleID, "QmPointer", "cHVibGlj", time.Now().Add(time.Hour))
	require.NoError(t, err)
	require.NoError(t, store.RecordSubmission(ctx, id, "0xstudent", "cipher"))
	require.NoError(t, store.RecordGrade(ctx, id, "0xstudent", 15, "good"))

	var count int64
	require.NoError(t, store.db.Model(&models.LedgerEvent{}).Count(&count).Error)
	require.Equal(t, int64(5), count) // module + role + assignment + submission + grade
}
