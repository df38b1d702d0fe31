package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/tutorsworld/tutors-world-api/internal/models"
	appErrors "github.com/tutorsworld/tutors-world-api/pkg/errors"
)

// ProfileService serves student and guardian detail views.
type ProfileService struct {
	students  StudentStore
	guardians GuardianStore
	blobs     BlobStore
	logger    *zap.Logger
}

// NewProfileService constructs a ProfileService.
func NewProfileService(students StudentStore, guardians GuardianStore, blobs BlobStore, logger *zap.Logger) *ProfileService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfileService{students: students, guardians: guardians, blobs: blobs, logger: logger}
}

// StudentDetail returns the student together with the linked guardian
// when one exists. A dangling guardian link is tolerated; the student
// still loads.
func (s *ProfileService) StudentDetail(ctx context.Context, id int64) (*models.StudentWithGuardian, error) {
	student, err := s.students.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Student not found")
		}
		return nil, mapStoreError(err, "")
	}

	if s.blobs != nil && student.ProfileImagePath != "" && s.blobs.Exists(student.ProfileImagePath) {
		if data, err := s.blobs.ReadAll(student.ProfileImagePath); err == nil {
			student.ProfileImage = data
		} else {
			s.logger.Debug("skip unreadable blob", zap.String("locator", student.ProfileImagePath), zap.Error(err))
		}
	}

	detail := &models.StudentWithGuardian{Student: student}
	if student.GuardianID != nil {
		guardian, err := s.guardians.FindByID(ctx, *student.GuardianID)
		switch {
		case err == nil:
			detail.Guardian = guardian
		case errors.Is(err, sql.ErrNoRows):
			s.logger.Warn("guardian link dangles", zap.Int64("student_id", id), zap.Int64("guardian_id", *student.GuardianID))
		default:
			return nil, mapStoreError(err, "")
		}
	}
	return detail, nil
}

// GuardianDetail returns one guardian.
func (s *ProfileService) GuardianDetail(ctx context.Context, id int64) (*models.Guardian, error) {
	guardian, err := s.guardians.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Guardian not found")
		}
		return nil, mapStoreError(err, "")
	}
	return guardian, nil
}
