package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/openacad/acadledger-api/internal/models"
)

// Store is the SQL-backed ledger. Every mutation runs inside one database
// transaction that also appends a journal row, so the ledger_events table is
// a replayable history of everything that was ever accepted.
type Store struct {
	db     *gorm.DB
	logger zerolog.Logger
}

var _ Ledger = (*Store)(nil)

// NewStore builds the ledger on top of an open gorm handle.
func NewStore(db *gorm.DB, logger zerolog.Logger) *Store {
	return &Store{
		db:     db,
		logger: logger.With().Str("component", "ledger").Logger(),
	}
}

// Migrate creates the ledger tables.
func (s *Store) Migrate() error {
	return s.db.AutoMigrate(
		&models.RoleRecord{},
		&models.Module{},
		&models.Enrollment{},
		&models.Assignment{},
		&models.Submission{},
		&models.Grade{},
		&models.Material{},
		&models.LedgerEvent{},
	)
}

func (s *Store) RecordRole(ctx context.Context, principal string, role models.Role) error {
	if !role.Valid() {
		return fmt.Errorf("%w: unknown role %q", ErrRejected, role)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		record := models.RoleRecord{Principal: principal, Role: role}
		if err := tx.Where(models.RoleRecord{Principal: principal}).
			Assign(models.RoleRecord{Role: role}).
			FirstOrCreate(&record).Error; err != nil {
			return err
		}

		return appendEvent(tx, models.EventRoleRecorded, map[string]interface{}{
			"principal": principal,
			"role":      role,
		})
	})

	return s.reject(err)
}

func (s *Store) QueryRole(ctx context.Context, principal string) (models.Role, error) {
	var record models.RoleRecord
	err := s.db.WithContext(ctx).Where("principal = ?", principal).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.RoleNone, nil
	}
	if err != nil {
		return models.RoleNone, err
	}

	return record.Role, nil
}

func (s *Store) RecordModule(ctx context.Context) (uint, error) {
	var module models.Module
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&module).Error; err != nil {
			return err
		}

		return appendEvent(tx, models.EventModuleRecorded, map[string]interface{}{
			"moduleId": module.ID,
		})
	})
	if err != nil {
		return 0, s.reject(err)
	}

	return module.ID, nil
}

func (s *Store) AssignProfessor(ctx context.Context, moduleID uint, professor string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var module models.Module
		if err := tx.First(&module, moduleID).Error; err != nil {
			return err
		}

		if err := tx.Model(&module).Update("professor", professor).Error; err != nil {
			return err
		}

		return appendEvent(tx, models.EventProfessorAssigned, map[string]interface{}{
			"moduleId":  moduleID,
			"professor": professor,
		})
	})

	return s.reject(err)
}

func (s *Store) EnrollStudent(ctx context.Context, moduleID uint, student string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var module models.Module
		if err := tx.First(&module, moduleID).Error; err != nil {
			return err
		}

		enrollment := models.Enrollment{ModuleID: moduleID, Student: student}
		if err := tx.Where(enrollment).FirstOrCreate(&enrollment).Error; err != nil {
			return err
		}

		return appendEvent(tx, models.EventStudentEnrolled, map[string]interface{}{
			"moduleId": moduleID,
			"student":  student,
		})
	})

	return s.reject(err)
}

func (s *Store) ListModuleMembers(ctx context.Context, moduleID uint) ([]string, error) {
	var students []string
	err := s.db.WithContext(ctx).Model(&models.Enrollment{}).
		Where("module_id = ?", moduleID).
		Order("created_at ASC").
		Pluck("student", &students).Error
	if err != nil {
		return nil, err
	}

	return students, nil
}

func (s *Store) RecordAssignment(ctx context.Context, moduleID uint, pointer, publicKey string, deadline time.Time) (uint, error) {
	assignment := models.Assignment{
		ModuleID:        moduleID,
		ArtifactPointer: pointer,
		PublicKey:       publicKey,
		Deadline:        deadline,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var module models.Module
		if err := tx.First(&module, moduleID).Error; err != nil {
			return err
		}

		if err := tx.Create(&assignment).Error; err != nil {
			return err
		}

		return appendEvent(tx, models.EventAssignmentRecorded, map[string]interface{}{
			"assignmentId": assignment.ID,
			"moduleId":     moduleID,
			"pointer":      pointer,
			"deadline":     deadline.Unix(),
		})
	})
	if err != nil {
		return 0, s.reject(err)
	}

	s.logger.Info().Uint("assignment_id", assignment.ID).Uint("module_id", moduleID).Msg("assignment recorded")

	return assignment.ID, nil
}

func (s *Store) GetAssignment(ctx context.Context, id uint) (models.Assignment, error) {
	var assignment models.Assignment
	err := s.db.WithContext(ctx).First(&assignment, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Assignment{}, ErrNotFound
	}
	if err != nil {
		return models.Assignment{}, err
	}

	return assignment, nil
}

func (s *Store) ListAssignments(ctx context.Context, moduleID uint) ([]models.Assignment, error) {
	var assignments []models.Assignment
	err := s.db.WithContext(ctx).
		Where("module_id = ?", moduleID).
		Order("id ASC").
		Find(&assignments).Error
	if err != nil {
		return nil, err
	}

	return assignments, nil
}

// RecordSubmission upserts the (assignment, student) row. Only the encrypted
// pointer is written on resubmission; an existing graded flag survives.
func (s *Store) RecordSubmission(ctx context.Context, assignmentID uint, student, encryptedPointer string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var assignment models.Assignment
		if err := tx.First(&assignment, assignmentID).Error; err != nil {
			return err
		}

		var submission models.Submission
		err := tx.Where("assignment_id = ? AND student = ?", assignmentID, student).First(&submission).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			submission = models.Submission{
				AssignmentID:     assignmentID,
				Student:          student,
				EncryptedPointer: encryptedPointer,
			}
			if err := tx.Create(&submission).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			if err := tx.Model(&submission).Update("encrypted_pointer", encryptedPointer).Error; err != nil {
				return err
			}
		}

		return appendEvent(tx, models.EventSubmissionRecorded, map[string]interface{}{
			"assignmentId": assignmentID,
			"student":      student,
		})
	})

	return s.reject(err)
}

func (s *Store) GetSubmission(ctx context.Context, assignmentID uint, student string) (models.Submission, error) {
	var submission models.Submission
	err := s.db.WithContext(ctx).
		Where("assignment_id = ? AND student = ?", assignmentID, student).
		First(&submission).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Submission{}, ErrNotFound
	}
	if err != nil {
		return models.Submission{}, err
	}

	return submission, nil
}

// RecordGrade upserts the grade and flips the submission's graded flag in the
// same transaction, keeping "graded == true implies a grade row exists" true
// at every commit point.
func (s *Store) RecordGrade(ctx context.Context, assignmentID uint, student string, value int, note string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var submission models.Submission
		if err := tx.Where("assignment_id = ? AND student = ?", assignmentID, student).First(&submission).Error; err != nil {
			return err
		}

		grade := models.Grade{AssignmentID: assignmentID, Student: student}
		if err := tx.Where(models.Grade{AssignmentID: assignmentID, Student: student}).
			Assign(map[string]interface{}{"value": value, "note": note}).
			FirstOrCreate(&grade).Error; err != nil {
			return err
		}

		if err := tx.Model(&submission).Update("graded", true).Error; err != nil {
			return err
		}

		return appendEvent(tx, models.EventGradeRecorded, map[string]interface{}{
			"assignmentId": assignmentID,
			"student":      student,
			"value":        value,
		})
	})

	return s.reject(err)
}

func (s *Store) GetGrade(ctx context.Context, assignmentID uint, student string) (models.Grade, error) {
	var grade models.Grade
	err := s.db.WithContext(ctx).
		Where("assignment_id = ? AND student = ?", assignmentID, student).
		First(&grade).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Grade{}, ErrNotFound
	}
	if err != nil {
		return models.Grade{}, err
	}

	return grade, nil
}

func (s *Store) RecordMaterial(ctx context.Context, moduleID uint, title, cid string) (uint, error) {
	material := models.Material{ModuleID: moduleID, Title: title, CID: cid}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var module models.Module
		if err := tx.First(&module, moduleID).Error; err != nil {
			return err
		}

		if err := tx.Create(&material).Error; err != nil {
			return err
		}

		return appendEvent(tx, models.EventMaterialRecorded, map[string]interface{}{
			"materialId": material.ID,
			"moduleId":   moduleID,
			"cid":        cid,
		})
	})
	if err != nil {
		return 0, s.reject(err)
	}

	return material.ID, nil
}

func (s *Store) ListMaterials(ctx context.Context, moduleID uint) ([]models.Material, error) {
	var materials []models.Material
	err := s.db.WithContext(ctx).
		Where("module_id = ?", moduleID).
		Order("id ASC").
		Find(&materials).Error
	if err != nil {
		return nil, err
	}

	return materials, nil
}

func (s *Store) reject(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}

	s.logger.Error().Err(err).Msg("ledger transaction rejected")

	return fmt.Errorf("%w: %v", ErrRejected, err)
}

func appendEvent(tx *gorm.DB, kind string, payload map[string]interface{}) error {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	return tx.Create(&models.LedgerEvent{Kind: kind, Payload: datatypes.JSON(encoded)}).Error
}
