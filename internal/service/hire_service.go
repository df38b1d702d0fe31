package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/tutorsworld/tutors-world-api/internal/models"
	appErrors "github.com/tutorsworld/tutors-world-api/pkg/errors"
)

// HireService records student-tutor engagements and lists a caller's
// connections.
type HireService struct {
	hires  HireStore
	logger *zap.Logger
}

// NewHireService constructs a HireService.
func NewHireService(hires HireStore, logger *zap.Logger) *HireService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HireService{hires: hires, logger: logger}
}

// Hire validates and persists an engagement. Exactly one hiring party
// (guardian or student) must be present.
func (s *HireService) Hire(ctx context.Context, req models.HireRequest) (int64, error) {
	if req.StudentID <= 0 || req.TutorID <= 0 {
		return 0, appErrors.Clone(appErrors.ErrValidation, "Invalid Student or Tutor ID.")
	}
	hasGuardian := req.GuardianID != nil && *req.GuardianID > 0
	hasStudent := req.HiredByStudentID != nil && *req.HiredByStudentID > 0
	if hasGuardian == hasStudent {
		return 0, appErrors.Clone(appErrors.ErrValidation, "Hiring party (Guardian or Student) must be specified.")
	}

	id, err := s.hires.Insert(ctx, req)
	if err != nil {
		return 0, mapStoreError(err, "")
	}

	s.logger.Info("tutor hired",
		zap.Int64("hire_id", id),
		zap.Int64("student_id", req.StudentID),
		zap.Int64("tutor_id", req.TutorID),
	)
	return id, nil
}

// Connections lists the caller's engagements with the counterpart on
// the other side of each hire.
func (s *HireService) Connections(ctx context.Context, id int64, role string) ([]models.Connection, error) {
	if id <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid id")
	}
	switch strings.ToLower(role) {
	case "tutor", "student", "guardian":
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "role must be tutor, student or guardian")
	}

	connections, err := s.hires.Connections(ctx, id, role)
	if err != nil {
		return nil, mapStoreError(err, "")
	}
	return connections, nil
}
