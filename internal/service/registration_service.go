package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/tutorsworld/tutors-world-api/internal/models"
	appErrors "github.com/tutorsworld/tutors-world-api/pkg/errors"
)

// Caller-facing registration messages.
const (
	msgStudentUsernameTaken  = "Student username already exists"
	msgGuardianUsernameTaken = "Guardian username already exists"
	msgRegistrationSuccess   = "Registration successful"
)

// RegisterStudentRequest is the composite registration payload. A
// guardian is optional; when present the two records are linked and
// both receive login accounts.
type RegisterStudentRequest struct {
	Student  models.Student   `json:"student" validate:"required"`
	Guardian *models.Guardian `json:"guardian,omitempty"`
}

// RegistrationService orchestrates multi-entity registration. All
// writes of one attempt share a single transaction, so a failure at any
// step leaves no partial records behind.
type RegistrationService struct {
	db        *sqlx.DB
	accounts  AccountStore
	students  StudentStore
	guardians GuardianStore
	logger    *zap.Logger
	validate  *validator.Validate
}

// NewRegistrationService constructs a RegistrationService.
func NewRegistrationService(db *sqlx.DB, accounts AccountStore, students StudentStore, guardians GuardianStore, logger *zap.Logger) *RegistrationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RegistrationService{
		db:        db,
		accounts:  accounts,
		students:  students,
		guardians: guardians,
		logger:    logger,
		validate:  validator.New(),
	}
}

// Register creates the student, the optional guardian and their login
// accounts. Username pre-checks give fast caller feedback; the unique
// constraint on accounts.username stays authoritative, so a concurrent
// duplicate surfaces as the same conflict after rollback.
func (s *RegistrationService) Register(ctx context.Context, req *RegisterStudentRequest) (*models.RegistrationResult, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}

	req.Student.Normalize()
	if req.Guardian != nil {
		req.Guardian.Normalize()
	}

	taken, err := s.accounts.UsernameExists(ctx, req.Student.Username)
	if err != nil {
		return nil, mapStoreError(err, "")
	}
	if taken {
		return nil, appErrors.Clone(appErrors.ErrConflict, msgStudentUsernameTaken)
	}

	if req.Guardian != nil {
		taken, err := s.accounts.UsernameExists(ctx, req.Guardian.Username)
		if err != nil {
			return nil, mapStoreError(err, "")
		}
		if taken {
			return nil, appErrors.Clone(appErrors.ErrConflict, msgGuardianUsernameTaken)
		}
	}

	studentHash, err := hashPassword(req.Student.Password)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, appErrors.ErrInternal.Message)
	}
	var guardianHash string
	if req.Guardian != nil {
		if guardianHash, err = hashPassword(req.Guardian.Password); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, appErrors.ErrInternal.Message)
		}
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, mapStoreError(err, "")
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	result := &models.RegistrationResult{}

	if req.Guardian != nil {
		guardianID, err := s.guardians.Insert(ctx, tx, req.Guardian)
		if err != nil {
			return nil, mapStoreError(err, msgGuardianUsernameTaken)
		}
		req.Student.GuardianID = &guardianID
		result.GuardianID = &guardianID
	}

	studentID, err := s.students.Insert(ctx, tx, &req.Student)
	if err != nil {
		return nil, mapStoreError(err, msgStudentUsernameTaken)
	}
	result.StudentID = studentID

	studentAccount := &models.Account{
		Username:     req.Student.Username,
		PasswordHash: studentHash,
		FullName:     req.Student.FullName,
		Type:         models.RoleStudent,
		StudentID:    &studentID,
	}
	if err := s.accounts.Create(ctx, tx, studentAccount); err != nil {
		return nil, mapStoreError(err, msgStudentUsernameTaken)
	}

	if req.Guardian != nil {
		guardianAccount := &models.Account{
			Username:     req.Guardian.Username,
			PasswordHash: guardianHash,
			FullName:     req.Guardian.FullName,
			Type:         models.RoleGuardian,
			GuardianID:   result.GuardianID,
		}
		if err := s.accounts.Create(ctx, tx, guardianAccount); err != nil {
			return nil, mapStoreError(err, msgGuardianUsernameTaken)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, mapStoreError(err, "")
	}

	s.logger.Info("student registered",
		zap.Int64("student_id", studentID),
		zap.Bool("with_guardian", req.Guardian != nil),
	)

	result.Success = true
	result.Message = msgRegistrationSuccess
	return result, nil
}
